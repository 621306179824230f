package executor

// Package executor invokes registered agent tools. It converts the loosely
// typed arguments produced by the model into the tool's typed input, runs
// the method and, once it returns, calls an optional listener that can
// observe the data that flew through the invocation.

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"reflect"

	"github.com/viant/agui/model/types"
	"github.com/viant/structology/conv"
)

// Invocation identifies a single tool call.
type Invocation struct {
	Service types.Service
	Method  string
	Args    map[string]interface{}
}

// Listener is invoked once a tool call completes (regardless of whether it
// returned an error or not). Implementations can log, collect metrics or
// perform any other side-effects they require.
//
// For convenience the listener is defined as a function type rather than an
// interface; users can therefore pass a plain function literal when
// customising the executor.
type Listener func(service, method string, input, output interface{})

// LogListener serialises the invocation input and output into JSON and
// prints them via the standard logger. Errors from json.Marshal are ignored
// on purpose – they indicate non-serialisable values and the caller would
// not have had access to the data either way.
func LogListener(service, method string, input, output interface{}) {
	in, _ := json.Marshal(input)
	out, _ := json.Marshal(output)
	log.Printf("[executor] %v.%v input=%s output=%s", service, method, in, out)
}

// Option is used to customise the executor instance.
type Option func(*service)

// WithListener sets the listener invoked after every executed tool call.
func WithListener(l Listener) Option {
	return func(s *service) {
		s.listener = l
	}
}

// Service represents a tool executor.
type Service interface {
	Execute(ctx context.Context, invocation *Invocation) (interface{}, error)
}

// service is the concrete implementation of Service.
type service struct {
	converter *conv.Converter
	listener  Listener
}

// Execute resolves the method, converts arguments into its typed input and
// invokes it, returning the typed output.
func (s *service) Execute(ctx context.Context, invocation *Invocation) (interface{}, error) {
	if invocation == nil || invocation.Service == nil {
		return nil, fmt.Errorf("invocation service was empty")
	}
	signature := invocation.Service.Methods().Lookup(invocation.Method)
	if signature == nil {
		return nil, types.NewMethodNotFoundError(invocation.Method)
	}
	method, err := invocation.Service.Method(invocation.Method)
	if err != nil {
		return nil, fmt.Errorf("failed to find method %v for service %v: %w", invocation.Method, invocation.Service.Name(), err)
	}

	input := newInstance(signature.Input)
	if len(invocation.Args) > 0 {
		if err = s.converter.Convert(invocation.Args, input); err != nil {
			return nil, fmt.Errorf("failed to convert %v.%v input: %w", invocation.Service.Name(), invocation.Method, err)
		}
	}
	output := newInstance(signature.Output)

	if err = method(ctx, input, output); err != nil {
		return nil, err
	}
	if s.listener != nil {
		s.listener(invocation.Service.Name(), invocation.Method, input, output)
	}
	return output, nil
}

func newInstance(rType reflect.Type) interface{} {
	if rType.Kind() == reflect.Ptr {
		return reflect.New(rType.Elem()).Interface()
	}
	return reflect.New(rType).Interface()
}

// NewService creates a new executor service instance.
func NewService(opts ...Option) Service {
	options := conv.DefaultOptions()
	options.ClonePointerData = true
	options.IgnoreUnmapped = true
	options.AccessUnexported = true

	s := &service{
		converter: conv.NewConverter(options),
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

package types

import (
	"context"
	"reflect"
)

type Signatures []Signature

func (s Signatures) Lookup(name string) *Signature {
	for i := range s {
		sig := &s[i]
		if sig.Name == name {
			return sig
		}
	}
	return nil
}

// Signature describes a callable tool method.  Name and Description are
// surfaced to the model as a tool descriptor; Input and Output drive typed
// argument conversion.
type Signature struct {
	Name        string
	Description string
	Internal    bool // internal methods are never offered to the model
	Input       reflect.Type
	Output      reflect.Type
}

// Executable is a function that can be executed
type Executable func(context context.Context, input, output interface{}) error

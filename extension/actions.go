package extension

import (
	"sort"
	"sync"

	"github.com/viant/agui/model/types"
	"github.com/viant/x"
)

// DataTypeIniter is implemented by services that register additional data
// types on registration.
type DataTypeIniter interface {
	InitTypes(types *Types)
}

// Actions provides the registry of agent tool services.
type Actions struct {
	types    *Types
	services map[string]types.Service
	mux      sync.RWMutex
}

func (s *Actions) Types() *Types {
	return s.types
}

// Lookup returns a service by name
func (s *Actions) Lookup(name string) types.Service {
	s.mux.RLock()
	defer s.mux.RUnlock()
	return s.services[name]
}

// Register registers a service
func (s *Actions) Register(service types.Service) {
	s.mux.Lock()
	defer s.mux.Unlock()

	if typer, ok := service.(DataTypeIniter); ok {
		typer.InitTypes(s.types)
	}
	s.services[service.Name()] = service
}

// Services returns all registered services ordered by name.
func (s *Actions) Services() []types.Service {
	s.mux.RLock()
	defer s.mux.RUnlock()
	names := make([]string, 0, len(s.services))
	for name := range s.services {
		names = append(names, name)
	}
	sort.Strings(names)
	ret := make([]types.Service, 0, len(names))
	for _, name := range names {
		ret = append(ret, s.services[name])
	}
	return ret
}

// LookupMethod resolves a flat tool name (the signature name) to its owning
// service and signature.  Tool names are global across services – the model
// addresses tools without a service qualifier.
func (s *Actions) LookupMethod(toolName string) (types.Service, *types.Signature) {
	s.mux.RLock()
	defer s.mux.RUnlock()
	for _, service := range s.services {
		if sig := service.Methods().Lookup(toolName); sig != nil {
			return service, sig
		}
	}
	return nil, nil
}

// NewActions creates a new action service registry.
func NewActions(goTypes ...*x.Type) *Actions {
	ret := &Actions{
		types:    NewTypes(),
		services: make(map[string]types.Service),
	}
	for _, t := range goTypes {
		if t != nil {
			ret.types.Register(t)
		}
	}
	return ret
}

package types

// Service is a named group of callable agent tools.
type Service interface {
	Name() string
	Methods() Signatures
	Method(name string) (Executable, error)
}

// Package extension provides run-time registries that let the agent backend
// work with user-defined tool services and their Go input/output types.
//
// The registries are normally populated through the public APIs of the root
// agui package, therefore most applications do not need to import this
// package directly.
package extension

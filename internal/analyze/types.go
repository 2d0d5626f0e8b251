package analyze

import (
	"go/types"
)

// TypeID uniquely identifies a package-level object by its package path and name.
type TypeID struct {
	PkgPath string // e.g., "configen/examples/service"
	Name    string // e.g., "NewServer"
}

// String returns a human-readable representation of the TypeID.
func (t TypeID) String() string {
	if t.PkgPath == "" {
		return t.Name
	}

	return t.PkgPath + "." + t.Name
}

// Default is a parameter default value. The zero value means "no default".
type Default struct {
	Value any
	Set   bool
}

// Parameter is one formal parameter of a callable.
type Parameter struct {
	Name     string
	Type     types.Type
	Default  Default
	Variadic bool
}

// CallableKind distinguishes plain functions from struct constructors.
type CallableKind int

const (
	CallableFunc CallableKind = iota
	CallableConstructor
)

// String returns a human-readable representation of the CallableKind.
func (k CallableKind) String() string {
	if k == CallableConstructor {
		return "constructor"
	}

	return "func"
}

// Callable is an introspected function or constructor.
type Callable struct {
	// ID is the function actually called, e.g. pkg.NewServer.
	ID TypeID
	// Schema is the qualified name the generated config is keyed by: the
	// struct type for constructors, the function otherwise.
	Schema string
	Kind   CallableKind
	Func   *types.Func
	Params []Parameter
	// DroppedContext is set when a leading context.Context was removed.
	DroppedContext bool
}

// Param returns the parameter with the given name.
func (c *Callable) Param(name string) (Parameter, bool) {
	for _, p := range c.Params {
		if p.Name == name {
			return p, true
		}
	}

	return Parameter{}, false
}

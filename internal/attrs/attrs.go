// Package attrs implements the static primitive attribute registry:
// built-in "methods" invocable via accessor syntax
// (receiver.method(: args :)) on primitive values. A per-evaluator
// registry is used rather than a package-level global, per the design
// note favoring testability over shared state: callers look up a
// native function in a map keyed by (primitive type name, attribute
// name).
package attrs

import (
	"fmt"

	"github.com/quackscript/quack/internal/qerrors"
	"github.com/quackscript/quack/internal/value"
	"golang.org/x/exp/slices"
)

// Attribute is a host-provided routine backing an accessor call.
type Attribute func(receiver value.Value, args []value.Value) (value.Value, error)

type key struct {
	Type string
	Name string
}

// Registry resolves (primitiveTypeName, attributeName) pairs to
// Attribute implementations.
type Registry struct {
	table map[key]Attribute
}

// New returns an empty Registry.
func New() *Registry {
	return &Registry{table: map[key]Attribute{}}
}

// Register binds name on primitiveType to fn, overwriting any
// previous binding.
func (r *Registry) Register(primitiveType, name string, fn Attribute) {
	r.table[key{primitiveType, name}] = fn
}

// Resolve looks up the attribute for (primitiveType, name).
func (r *Registry) Resolve(primitiveType, name string) (Attribute, error) {
	fn, ok := r.table[key{primitiveType, name}]
	if !ok {
		return nil, fmt.Errorf("%w: %s.%s", qerrors.ErrUnknownAttribute, primitiveType, name)
	}
	return fn, nil
}

// Names lists the attribute names registered for primitiveType, sorted,
// for diagnostics and tests.
func (r *Registry) Names(primitiveType string) []string {
	var names []string
	for k := range r.table {
		if k.Type == primitiveType {
			names = append(names, k.Name)
		}
	}
	slices.Sort(names)
	return names
}

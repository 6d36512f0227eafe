// Package prim holds the native primitives the runtime exposes to
// collaborating code: machine-integer helpers, float inspection and
// formatting, string comparison, exception catching and the BigInt
// operations. Every primitive is an *apply.Primitive, so callers invoke them
// through apply.Apply and may partially apply them.
//
// Arguments may be deferred cells; each primitive forces its arguments
// before inspecting them.
package prim

import (
	"sort"

	"github.com/lattice-substrate/lazynum/apply"
	"github.com/lattice-substrate/lazynum/rterr"
)

// Registry maps primitive names to primitives.
type Registry struct {
	byName map[string]*apply.Primitive
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{byName: make(map[string]*apply.Primitive)}
}

// Builtins returns a registry holding every primitive in this package.
func Builtins() *Registry {
	r := NewRegistry()
	for _, p := range builtins() {
		r.Register(p)
	}
	return r
}

// Register adds p. Registering a name twice is a programming error.
func (r *Registry) Register(p *apply.Primitive) {
	if _, dup := r.byName[p.Name]; dup {
		rterr.Fatal(rterr.InvalidArgument, -1, "prim: primitive %q registered twice", p.Name)
	}
	r.byName[p.Name] = p
}

// Lookup returns the primitive with the given name.
func (r *Registry) Lookup(name string) (*apply.Primitive, bool) {
	p, ok := r.byName[name]
	return p, ok
}

// Call applies the named primitive to args with the usual currying rules.
func (r *Registry) Call(name string, args ...any) (any, error) {
	p, ok := r.Lookup(name)
	if !ok {
		return nil, rterr.Newf(rterr.InvalidArgument, -1, "prim: unknown primitive %q", name)
	}
	return apply.Apply(p, args...)
}

// Names lists the registered names in sorted order.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.byName))
	for n := range r.byName {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// Package apply implements curried function application over values of
// known arity.
//
// Apply resolves every call into one of three cases: an exact call, an
// under-saturated call that returns a Partial awaiting the remaining
// arguments, or an over-saturated call whose result is applied to the
// surplus arguments. Arity mismatch is never an error.
package apply

import (
	"fmt"

	"github.com/lattice-substrate/lazynum/rterr"
	"github.com/lattice-substrate/lazynum/thunk"
)

// Func is a callable value with a fixed declared arity.
type Func interface {
	// Arity is the number of arguments the function expects.
	Arity() int
	// Call invokes the function with exactly Arity() arguments.
	Call(args []any) (any, error)
}

// Primitive is a native function with a fixed arity.
type Primitive struct {
	Name string
	N    int
	Fn   func(args []any) (any, error)
}

// NewPrimitive returns a primitive of the given arity.
func NewPrimitive(name string, arity int, fn func(args []any) (any, error)) *Primitive {
	if arity < 0 {
		rterr.Fatal(rterr.InvalidArgument, -1, "apply: primitive %q has negative arity %d", name, arity)
	}
	return &Primitive{Name: name, N: arity, Fn: fn}
}

// Arity implements Func.
func (p *Primitive) Arity() int { return p.N }

// Call implements Func.
func (p *Primitive) Call(args []any) (any, error) {
	return p.Fn(args)
}

func (p *Primitive) String() string {
	return fmt.Sprintf("<primitive %s/%d>", p.Name, p.N)
}

// Partial is a function applied to fewer arguments than its arity.
type Partial struct {
	fn   Func
	args []any
}

// Arity implements Func.
func (p *Partial) Arity() int { return p.fn.Arity() - len(p.args) }

// Call implements Func.
func (p *Partial) Call(args []any) (any, error) {
	return Apply(p.fn, concat(p.args, args)...)
}

// Inner returns the wrapped function and a copy of the captured prefix.
func (p *Partial) Inner() (Func, []any) {
	return p.fn, append([]any(nil), p.args...)
}

func (p *Partial) String() string {
	return fmt.Sprintf("<partial %v %d/%d>", p.fn, len(p.args), p.fn.Arity())
}

// Apply applies fn to args.
//
// fn is forced first if it is a deferred value. A value that is not a Func is
// returned as is. The caller's args slice is never retained or modified.
func Apply(fn any, args ...any) (any, error) {
	for {
		v, err := thunk.Force(fn)
		if err != nil {
			return nil, err
		}
		f, ok := v.(Func)
		if !ok {
			return v, nil
		}

		arity := f.Arity()
		switch n := len(args); {
		case n == arity:
			return f.Call(append([]any(nil), args...))
		case n < arity:
			return &Partial{fn: f, args: append([]any(nil), args...)}, nil
		default:
			r, err := f.Call(append([]any(nil), args[:arity]...))
			if err != nil {
				return nil, err
			}
			fn, args = r, args[arity:]
		}
	}
}

// Catch applies action to no arguments. If that fails with an error, or
// aborts with a classified fatal error, handler is applied to the error and
// its result returned instead.
func Catch(action, handler any) (any, error) {
	v, err := try(action)
	if err == nil {
		return v, nil
	}
	return Apply(handler, err)
}

func try(action any) (v any, err error) {
	defer rterr.Recover(&err)
	return Apply(action)
}

// Func1 wraps a one-argument Go function as a primitive.
func Func1(name string, fn func(a any) (any, error)) *Primitive {
	return NewPrimitive(name, 1, func(args []any) (any, error) { return fn(args[0]) })
}

// Func2 wraps a two-argument Go function as a primitive.
func Func2(name string, fn func(a, b any) (any, error)) *Primitive {
	return NewPrimitive(name, 2, func(args []any) (any, error) { return fn(args[0], args[1]) })
}

func concat(a, b []any) []any {
	out := make([]any, 0, len(a)+len(b))
	out = append(out, a...)
	return append(out, b...)
}

// Package thunk implements the deferred-value engine: cells holding a
// computation that runs at most once, with the result cached for every
// later observer.
//
// Evaluation is single-threaded and synchronous. A Cell must not be forced
// concurrently, and a cell's computation must not force the same cell; the
// latter is detected and aborts with a REENTRANT_FORCE fatal error.
package thunk

import (
	"fmt"

	"github.com/lattice-substrate/lazynum/rterr"
)

type state uint8

const (
	pending state = iota
	running
	done
)

// Cell is a deferred value.
type Cell struct {
	st  state
	fn  func() (any, error)
	val any
}

// New returns an unevaluated cell that computes its value with fn.
func New(fn func() (any, error)) *Cell {
	if fn == nil {
		rterr.Fatal(rterr.InvalidArgument, -1, "thunk: nil computation")
	}
	return &Cell{fn: fn}
}

// Of returns an unevaluated cell for a computation that cannot fail.
func Of(fn func() any) *Cell {
	return New(func() (any, error) { return fn(), nil })
}

// Value returns a cell that is already evaluated to v.
func Value(v any) *Cell {
	return &Cell{st: done, val: v}
}

// Evaluated reports whether the cell holds a cached result.
func (c *Cell) Evaluated() bool {
	return c.st == done
}

// String describes the cell without forcing it.
func (c *Cell) String() string {
	switch c.st {
	case done:
		return fmt.Sprintf("thunk(%v)", c.val)
	case running:
		return "thunk(<running>)"
	default:
		return "thunk(<pending>)"
	}
}

// Force evaluates v to head normal form. Values that are not cells are
// returned unchanged. A pending cell runs its computation, caches the result
// and drops the computation; an evaluated cell returns the cached result.
//
// If the computation yields another cell, that cell is forced too and the
// final value is cached in both.
//
// An error returned by the computation, or a panic raised by it, propagates
// to the caller and leaves the cell pending so that a later force retries.
func Force(v any) (any, error) {
	c, ok := v.(*Cell)
	if !ok {
		return v, nil
	}
	return c.force()
}

// MustForce is Force for call sites where a failing computation is a
// contract violation. The failure is re-raised as a panic.
func MustForce(v any) any {
	r, err := Force(v)
	if err != nil {
		panic(err)
	}
	return r
}

func (c *Cell) force() (val any, err error) {
	switch c.st {
	case done:
		return c.val, nil
	case running:
		rterr.Fatal(rterr.ReentrantForce, -1, "thunk: cell forced from within its own computation")
	}

	c.st = running
	ok := false
	defer func() {
		if !ok {
			c.st = pending
		}
	}()

	val, err = c.fn()
	if err != nil {
		return nil, err
	}
	if inner, isCell := val.(*Cell); isCell {
		val, err = inner.force()
		if err != nil {
			return nil, err
		}
	}

	ok = true
	c.st = done
	c.val = val
	c.fn = nil
	return val, nil
}

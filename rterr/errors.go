// Package rterr defines the failure taxonomy for lazynum.
//
// Every error returned by the runtime, the numeric pipeline, or the CLI maps
// to exactly one FailureClass, which determines the exit code and lets tests
// verify failure classification, not just "did it fail."
//
// Contract violations (a negative exponent handed to bigint.Pow, a lookup
// table index out of range, a re-entrant force) are fatal: they panic with an
// *Error through Fatal. Recover turns such a panic back into an error at an
// API boundary that wants to report it instead of crashing.
package rterr

import "fmt"

// FailureClass is a stable failure category.
type FailureClass string

const (
	NegativeExponent FailureClass = "NEGATIVE_EXPONENT"
	IndexOutOfRange  FailureClass = "INDEX_OUT_OF_RANGE"
	ReentrantForce   FailureClass = "REENTRANT_FORCE"
	DigitInvariant   FailureClass = "DIGIT_INVARIANT"
	NotFinite        FailureClass = "NOT_FINITE"
	InvalidRadix     FailureClass = "INVALID_RADIX"
	InvalidArgument  FailureClass = "INVALID_ARGUMENT"
	CLIUsage         FailureClass = "CLI_USAGE"
	Config           FailureClass = "CONFIG"
	InternalIO       FailureClass = "INTERNAL_IO"
	InternalError    FailureClass = "INTERNAL_ERROR"
)

// ExitCode returns the process exit code for this failure class.
func (fc FailureClass) ExitCode() int {
	switch fc {
	case NegativeExponent, IndexOutOfRange, ReentrantForce, DigitInvariant,
		InternalIO, InternalError:
		return 10
	default:
		return 2
	}
}

// Fatal reports whether the class denotes a caller contract violation.
func (fc FailureClass) Fatal() bool {
	switch fc {
	case NegativeExponent, IndexOutOfRange, ReentrantForce, DigitInvariant:
		return true
	default:
		return false
	}
}

// Error is the structured error type for all lazynum failures.
//
// Offset is the argument position or table index the failure refers to, or
// -1 when there is none.
type Error struct {
	Class   FailureClass
	Offset  int
	Message string
	Cause   error
}

// Error implements the error interface.
func (e *Error) Error() string {
	var s string
	if e.Offset >= 0 {
		s = fmt.Sprintf("rterr: %s at index %d: %s", e.Class, e.Offset, e.Message)
	} else {
		s = fmt.Sprintf("rterr: %s: %s", e.Class, e.Message)
	}
	if e.Cause != nil {
		s += ": " + e.Cause.Error()
	}
	return s
}

// Unwrap returns the underlying cause, if any.
func (e *Error) Unwrap() error {
	return e.Cause
}

// New creates a new Error with the given class and message.
func New(class FailureClass, offset int, message string) *Error {
	return &Error{Class: class, Offset: offset, Message: message}
}

// Newf is New with a format string.
func Newf(class FailureClass, offset int, format string, args ...any) *Error {
	return &Error{Class: class, Offset: offset, Message: fmt.Sprintf(format, args...)}
}

// Wrap creates a new Error wrapping an existing error.
func Wrap(class FailureClass, offset int, message string, cause error) *Error {
	return &Error{Class: class, Offset: offset, Message: message, Cause: cause}
}

// Fatal aborts the current operation by panicking with a classified error.
func Fatal(class FailureClass, offset int, format string, args ...any) {
	panic(Newf(class, offset, format, args...))
}

// Recover converts a panic carrying an *Error into an error stored in *errp.
// It must be called directly by a deferred statement. Panics with any other
// value are re-raised unchanged.
//
//	defer rterr.Recover(&err)
func Recover(errp *error) {
	r := recover()
	if r == nil {
		return
	}
	if e, ok := r.(*Error); ok {
		*errp = e
		return
	}
	panic(r)
}

// ClassOf returns the failure class of err, or InternalError when err does
// not carry one.
func ClassOf(err error) FailureClass {
	for err != nil {
		if e, ok := err.(*Error); ok {
			return e.Class
		}
		u, ok := err.(interface{ Unwrap() error })
		if !ok {
			break
		}
		err = u.Unwrap()
	}
	return InternalError
}

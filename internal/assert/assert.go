// Package assert implements the fatal checks of the compositor.
//
// A failed check is a programmer error with no recovery path: capacity
// exhausted, a value out of its valid range or a broken internal invariant.
// Checks panic with an *Error carrying the message and the stack of the
// caller. Code that wants to degrade gracefully must use the optional APIs
// instead of recovering.
package assert

import (
	"fmt"

	"github.com/pkg/errors"
)

// Error is the panic value of a failed check.
type Error struct {
	err error
}

func (e *Error) Error() string { return e.err.Error() }

// Cause returns the underlying error, which carries the stack trace.
func (e *Error) Cause() error { return e.err }

// Format prints the stack trace with %+v.
func (e *Error) Format(s fmt.State, verb rune) {
	if f, ok := e.err.(fmt.Formatter); ok {
		f.Format(s, verb)
		return
	}
	fmt.Fprint(s, e.err.Error())
}

// Check panics with a formatted *Error when cond is false.
func Check(cond bool, format string, args ...any) {
	if !cond {
		panic(&Error{err: errors.Errorf(format, args...)})
	}
}

// Fail panics unconditionally.
func Fail(format string, args ...any) {
	panic(&Error{err: errors.Errorf(format, args...)})
}

// Recover converts a failed check back into an error. It is meant for
// command line entry points and tests; any other panic is re-raised.
func Recover(err *error) {
	r := recover()
	if r == nil {
		return
	}
	if ae, ok := r.(*Error); ok {
		*err = ae
		return
	}
	panic(r)
}

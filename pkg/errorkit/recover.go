package errorkit

import (
	"fmt"

	"go.llib.dev/rescue/pkg/runtimekit"
)

// PanicError is the error form of a recovered panic value.
type PanicError struct {
	Value any
}

func (err PanicError) Error() string {
	if e, ok := err.Value.(error); ok {
		return e.Error()
	}
	return fmt.Sprintf("%v", err.Value)
}

// Unwrap exposes the panic value when it was an error.
func (err PanicError) Unwrap() error {
	e, _ := err.Value.(error)
	return e
}

// Recover converts a panic into an error.
// It has to be deferred directly, as recover only works in the deferred function itself.
//
// The resulting error is a TracedError around a PanicError,
// and its stack points at the origin of the panic.
// runtime.Goexit is not a panic, so it is let through.
//
//	defer errorkit.Recover(&err)
func Recover(returnErr *error) {
	r := recover()
	if r == nil {
		return
	}
	*returnErr = TracedError{
		Err:   PanicError{Value: r},
		Stack: runtimekit.Stack(),
	}
}

package errorkit

import (
	"errors"
	"runtime"
	"strings"

	"go.llib.dev/rescue/pkg/runtimekit"
)

// WithTrace attaches the current call stack to the error.
// An error that already carries a trace is returned as is, so the original origin is kept.
func WithTrace(err error) error {
	if err == nil {
		return err
	}
	if _, ok := LookupTrace(err); ok {
		return err
	}
	return TracedError{
		Err:   err,
		Stack: runtimekit.Stack(),
	}
}

// LookupTrace returns the stack of the first TracedError in the error chain.
func LookupTrace(err error) ([]runtime.Frame, bool) {
	var traced TracedError
	if !errors.As(err, &traced) {
		return nil, false
	}
	return traced.Stack, true
}

type TracedError struct {
	Err   error
	Stack []runtime.Frame
}

func (err TracedError) Error() string {
	var msg string
	if err.Err != nil {
		msg += err.Err.Error()
	}
	if 0 < len(err.Stack) {
		if err.Err != nil {
			msg += "\n\n"
		}
		msg += strings.Join(err.TraceLines(), "\n")
	}
	return msg
}

// TraceLines returns one rendered line per frame.
func (err TracedError) TraceLines() []string {
	var lines []string
	for _, frame := range err.Stack {
		lines = append(lines, runtimekit.FormatFrame(frame))
	}
	return lines
}

func (err TracedError) As(target any) bool {
	return errors.As(err.Err, target)
}

func (err TracedError) Is(target error) bool {
	return errors.Is(err.Err, target)
}

func (err TracedError) Unwrap() error {
	return err.Err
}

var _ = runtimekit.RegisterFrameException(func(f runtime.Frame) bool {
	return strings.Contains(f.Function, "/errorkit.")
})

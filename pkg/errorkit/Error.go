package errorkit

import "fmt"

// Error is a sentinel error that can be declared as a constant.
//
//	const ErrInvalidConfig errorkit.Error = "invalid configuration"
type Error string

func (err Error) Error() string { return string(err) }

// Wrap attaches a cause to the sentinel.
// The result matches both of them with errors.Is and errors.As.
func (err Error) Wrap(cause error) error {
	if cause == nil {
		return err
	}
	return wrapError{kind: err, cause: cause}
}

// F is Wrap with a formatted cause, %w is supported.
func (err Error) F(format string, a ...any) error { return err.Wrap(fmt.Errorf(format, a...)) }

type wrapError struct {
	kind  Error
	cause error
}

func (w wrapError) Error() string { return string(w.kind) + ": " + w.cause.Error() }

func (w wrapError) Unwrap() []error { return []error{w.kind, w.cause} }

package rescue

import (
	"fmt"
	"slices"
	"strings"
)

// AggregateError is the error of a run where at least one element failed.
// Failures are kept in the order they happened.
type AggregateError struct {
	failures []Failure
	aborted  bool
}

// Aggregate makes an AggregateError.
// aborted tells whether the run stopped before the end of the traversal because of the error limit.
// An AggregateError without failures is not valid, and yields ErrInvalidState.
func Aggregate(failures []Failure, aborted bool) (*AggregateError, error) {
	if len(failures) == 0 {
		return nil, ErrInvalidState.F("aggregate error without failures")
	}
	return &AggregateError{
		failures: slices.Clone(failures),
		aborted:  aborted,
	}, nil
}

func (err *AggregateError) Failures() []Failure { return slices.Clone(err.failures) }

func (err *AggregateError) Aborted() bool { return err.aborted }

// Render lists the full message of every failure, numbered from one, followed by a summary line.
func (err *AggregateError) Render() string {
	var b strings.Builder
	for i, f := range err.failures {
		fmt.Fprintf(&b, "%d: %s\n\n", i+1, f.FullMessage())
	}
	fmt.Fprintf(&b, "caught %d errors", len(err.failures))
	if err.aborted {
		b.WriteString(", and then aborted.")
	}
	return b.String()
}

func (err *AggregateError) Error() string { return err.Render() }

// Unwrap exposes each Failure, so errors.Is and errors.As reach the individual causes.
func (err *AggregateError) Unwrap() []error {
	errs := make([]error, 0, len(err.failures))
	for _, f := range err.failures {
		errs = append(errs, f)
	}
	return errs
}

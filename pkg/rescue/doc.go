// Package rescue applies a callback to every element of a collection without stopping at the first failure.
//
// # Summary
//
// A failing element is captured as a Failure, together with a snapshot of the arguments it was called with,
// and the traversal goes on with the next element.
// Once the traversal is complete, either the traversal's own result is returned,
// or an *AggregateError that carries every captured Failure in the order of occurrence.
//
//	err := rescue.Each(ctx, users, func(u User) error {
//		return mailer.Send(ctx, u.Email)
//	}, rescue.WithErrorLimit(10), rescue.WithDiagnostics(rescue.Short, nil))
//
// # Stopping early
//
// The traversal stops before its end in three cases:
//   - the error limit is reached, the returned *AggregateError reports Aborted
//   - the callback returns a process-control signal (Interrupt, Abort), or the context is done (Canceled)
//   - the callback returns traversal.Break, which ends the traversal as if the collection had no more elements
//
// A signal is never captured as a Failure.
// When failures were already captured, the signal is returned with the rendered failures appended to its message.
//
// # Traversals
//
// Guard works with any traversal.Traversal, Run and RunNamed look the traversal up by name
// from the traversal registry, and the sugar functions (Each, Map, Filter, ...) cover the typed common cases.
package rescue

import "go.llib.dev/rescue/pkg/errorkit"

const (
	// ErrInvalidConfig is returned before the traversal starts when the configuration can't be used.
	ErrInvalidConfig errorkit.Error = "rescue: invalid configuration"
	// ErrInvalidState is returned when an AggregateError would be made without any failure.
	ErrInvalidState errorkit.Error = "rescue: invalid state"
)

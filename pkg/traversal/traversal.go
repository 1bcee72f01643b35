// Package traversal defines how a collection is walked, one unit of work at a time.
//
// # Summary
//
// A Traversal decouples the shape of a collection from the code that processes its elements.
// It calls a Visitor once per unit of work with the unit's natural argument shape:
// a single value for a slice, a key and a value for a map or a bolt bucket, a value and an index for an indexed walk,
// or a whole batch for a batched walk.
//
// Contract of every Traversal:
//   - the Visitor is called once per unit of work, in order, on the caller's goroutine
//   - an error returned by the Visitor stops the traversal and is returned as is
//   - Break stops the traversal without an error
//   - an empty collection never calls the Visitor and yields the trivial result
package traversal

import (
	"context"
	"errors"

	"go.llib.dev/rescue/pkg/errorkit"
)

const (
	// Break can be returned from a Visitor to stop the traversal early, without failing it.
	Break errorkit.Error = "traversal:break"
	// ErrArgs is returned when the arguments of a traversal can't be used.
	ErrArgs errorkit.Error = "traversal: invalid arguments"
	// ErrUnsupported is returned when a named traversal can't walk the given target.
	ErrUnsupported errorkit.Error = "traversal: unsupported target"
	// ErrUnknown is returned when no traversal is registered under the requested name.
	ErrUnknown errorkit.Error = "traversal: unknown traversal"
)

// Args is the argument list a traversal hands to its visitor for a single unit of work.
type Args []any

// Clone returns a copy of the argument list.
//
// Byte slices and nested argument lists are copied as well,
// since primitives like bolt cursors reuse that memory between calls.
// Other reference values, like pointers and maps, are shared.
func (args Args) Clone() Args {
	if args == nil {
		return nil
	}
	out := make(Args, len(args))
	for i, arg := range args {
		out[i] = cloneValue(arg)
	}
	return out
}

func cloneValue(v any) any {
	switch v := v.(type) {
	case []byte:
		if v == nil {
			return v
		}
		return append([]byte(nil), v...)
	case Args:
		return v.Clone()
	case []any:
		return []any(Args(v).Clone())
	default:
		return v
	}
}

// Options holds named arguments for a traversal.
// When present, it is the last element of the argument list passed to a Factory.
type Options map[string]any

// Visitor is called by a Traversal once per unit of work.
// Its return value is handed back to the traversal, which may use it (transform, filter),
// or ignore it (each).
type Visitor func(args Args) (any, error)

// Traversal walks a collection and returns its own result once the walk completed.
type Traversal[R any] interface {
	Traverse(ctx context.Context, visit Visitor) (R, error)
}

// Func is a Traversal made from a function.
type Func[R any] func(ctx context.Context, visit Visitor) (R, error)

func (fn Func[R]) Traverse(ctx context.Context, visit Visitor) (R, error) { return fn(ctx, visit) }

// Any erases the result type of a Traversal.
func Any[R any](t Traversal[R]) Traversal[any] {
	if t, ok := any(t).(Traversal[any]); ok {
		return t
	}
	return Func[any](func(ctx context.Context, visit Visitor) (any, error) {
		return t.Traverse(ctx, visit)
	})
}

// call visits a unit of work and reports whether the traversal should go on.
func call(visit Visitor, args Args) (out any, next bool, err error) {
	out, err = visit(args)
	if err == nil {
		return out, true, nil
	}
	if errors.Is(err, Break) {
		return out, false, nil
	}
	return out, false, err
}

func truthy(v any) bool {
	switch v := v.(type) {
	case nil:
		return false
	case bool:
		return v
	default:
		return true
	}
}

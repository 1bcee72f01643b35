package rescue

import (
	"context"

	"github.com/boltdb/bolt"

	"go.llib.dev/rescue/pkg/traversal"
)

// Each calls fn with every element of vs.
func Each[T any](ctx context.Context, vs []T, fn func(T) error, opts ...Option) error {
	_, err := Guard(ctx, traversal.Slice(vs), func(args traversal.Args) (any, error) {
		return nil, fn(arg[T](args, 0))
	}, opts...)
	return err
}

// EachWithIndex calls fn with every element of vs and its index.
func EachWithIndex[T any](ctx context.Context, vs []T, fn func(T, int) error, opts ...Option) error {
	_, err := Guard(ctx, traversal.SliceWithIndex(vs), func(args traversal.Args) (any, error) {
		return nil, fn(arg[T](args, 0), arg[int](args, 1))
	}, opts...)
	return err
}

// Map transforms every element of vs with fn.
// A failed element is mapped to the zero value of R.
func Map[T, R any](ctx context.Context, vs []T, fn func(T) (R, error), opts ...Option) ([]R, error) {
	return Guard(ctx, traversal.Transform[T, R](vs), func(args traversal.Args) (any, error) {
		return fn(arg[T](args, 0))
	}, opts...)
}

// Filter keeps the elements of vs for which fn returns true.
// An element where fn failed is not kept.
func Filter[T any](ctx context.Context, vs []T, fn func(T) (bool, error), opts ...Option) ([]T, error) {
	return Guard(ctx, traversal.Filter(vs), predicate(fn), opts...)
}

// Reject drops the elements of vs for which fn returns true.
// An element where fn failed is not rejected.
func Reject[T any](ctx context.Context, vs []T, fn func(T) (bool, error), opts ...Option) ([]T, error) {
	return Guard(ctx, traversal.Reject(vs), predicate(fn), opts...)
}

func predicate[T any](fn func(T) (bool, error)) Callback {
	return func(args traversal.Args) (any, error) {
		return fn(arg[T](args, 0))
	}
}

// EachSlice calls fn with batches of vs, each at most size long.
// A failure fails the whole batch.
func EachSlice[T any](ctx context.Context, vs []T, size int, fn func([]T) error, opts ...Option) error {
	_, err := Guard(ctx, traversal.Batch(vs, size), func(args traversal.Args) (any, error) {
		return nil, fn(arg[[]T](args, 0))
	}, opts...)
	return err
}

// EachPage calls fn with every value of every page that more returns.
// A failing page fetch ends the run, and is returned together with the failures captured so far.
func EachPage[T any](ctx context.Context, more traversal.MoreFunc[T], fn func(T) error, opts ...Option) error {
	_, err := Guard(ctx, traversal.Paginate(more), func(args traversal.Args) (any, error) {
		return nil, fn(arg[T](args, 0))
	}, opts...)
	return err
}

// EachEntry calls fn with every key and value of a bolt bucket.
// The byte slices are only valid during the call, fn has to copy what it keeps.
func EachEntry(ctx context.Context, db *bolt.DB, bucket []byte, fn func(k, v []byte) error, opts ...Option) error {
	_, err := Guard(ctx, traversal.Bolt(db, bucket), func(args traversal.Args) (any, error) {
		return nil, fn(arg[[]byte](args, 0), arg[[]byte](args, 1))
	}, opts...)
	return err
}

func arg[T any](args traversal.Args, i int) T {
	if len(args) <= i {
		var zero T
		return zero
	}
	v, _ := args[i].(T)
	return v
}

// EachRow calls fn with every row of a query result, mapped to a value by mapper.
// A failing mapper ends the run, and is returned together with the failures captured so far.
func EachRow[T any](ctx context.Context, rows traversal.SQLRows, mapper traversal.SQLRowMapper[T], fn func(T) error, opts ...Option) error {
	_, err := Guard(ctx, traversal.Rows(rows, mapper), func(args traversal.Args) (any, error) {
		return nil, fn(arg[T](args, 0))
	}, opts...)
	return err
}

package traversal

import (
	"context"
	"io"

	"go.llib.dev/rescue/pkg/errorkit"
)

// Iterator define a separate object that encapsulates accessing and traversing an aggregate object.
// Clients use an iterator to access and traverse an aggregate without knowing its representation (data structures).
// Interface design inspirited by https://golang.org/pkg/encoding/json/#Decoder
// https://en.wikipedia.org/wiki/Iterator_pattern
type Iterator[V any] interface {
	// Closer is required to make it able to cancel iterators where resources are being used behind the scene
	// for all other cases where the underling io is handled on a higher level, it should simply return nil
	io.Closer
	// Err return the error cause.
	Err() error
	// Next will ensure that Value returns the next item when executed.
	// If the next value is not retrievable, Next should return false and ensure Err() will return the error cause.
	Next() bool
	// Value returns the current value in the iterator.
	// The action should be repeatable without side effects.
	Value() V
}

// FromIterator visits each value of a pull iterator with Args{value}.
// The iterator is closed at the end of the traversal, and its Err is part of the result.
// The result is the number of visited values.
func FromIterator[V any](i Iterator[V]) Traversal[int] {
	return Func[int](func(ctx context.Context, visit Visitor) (n int, rErr error) {
		defer errorkit.Finish(&rErr, i.Close)
		for i.Next() {
			n++
			if _, next, err := call(visit, Args{i.Value()}); !next {
				return n, err
			}
		}
		return n, i.Err()
	})
}

// SliceIterator returns a pull Iterator over a slice.
func SliceIterator[V any](vs []V) Iterator[V] {
	return &sliceIter[V]{Slice: vs}
}

type sliceIter[V any] struct {
	Slice []V

	closed bool
	index  int
	value  V
}

func (i *sliceIter[V]) Close() error {
	i.closed = true
	return nil
}

func (i *sliceIter[V]) Err() error {
	return nil
}

func (i *sliceIter[V]) Next() bool {
	if i.closed {
		return false
	}
	if len(i.Slice) <= i.index {
		return false
	}
	i.value = i.Slice[i.index]
	i.index++
	return true
}

func (i *sliceIter[V]) Value() V {
	return i.value
}

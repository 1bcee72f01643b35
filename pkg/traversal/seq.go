package traversal

import (
	"cmp"
	"context"
	"iter"
	"slices"
)

// Seq visits each value of the sequence with Args{value}.
// The result is the sequence itself.
func Seq[T any](seq iter.Seq[T]) Traversal[iter.Seq[T]] {
	return Func[iter.Seq[T]](func(ctx context.Context, visit Visitor) (iter.Seq[T], error) {
		for v := range seq {
			if _, next, err := call(visit, Args{v}); !next {
				return seq, err
			}
		}
		return seq, nil
	})
}

// Seq2 visits each pair of the sequence with Args{key, value}.
// The result is the sequence itself.
func Seq2[K, V any](seq iter.Seq2[K, V]) Traversal[iter.Seq2[K, V]] {
	return Func[iter.Seq2[K, V]](func(ctx context.Context, visit Visitor) (iter.Seq2[K, V], error) {
		for k, v := range seq {
			if _, next, err := call(visit, Args{k, v}); !next {
				return seq, err
			}
		}
		return seq, nil
	})
}

// Entries visits the map with Args{key, value} in ascending key order.
// The result is the map itself.
func Entries[K cmp.Ordered, V any](m map[K]V) Traversal[map[K]V] {
	return Func[map[K]V](func(ctx context.Context, visit Visitor) (map[K]V, error) {
		keys := make([]K, 0, len(m))
		for k := range m {
			keys = append(keys, k)
		}
		slices.Sort(keys)
		for _, k := range keys {
			if _, next, err := call(visit, Args{k, m[k]}); !next {
				return m, err
			}
		}
		return m, nil
	})
}

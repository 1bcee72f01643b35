package traversal

import "context"

// Slice visits each element of the slice with Args{value}.
// The result is the slice itself.
func Slice[T any](vs []T) Traversal[[]T] {
	return Func[[]T](func(ctx context.Context, visit Visitor) ([]T, error) {
		for _, v := range vs {
			if _, next, err := call(visit, Args{v}); !next {
				return vs, err
			}
		}
		return vs, nil
	})
}

// SliceWithIndex visits each element of the slice with Args{value, index}.
// The result is the slice itself.
func SliceWithIndex[T any](vs []T) Traversal[[]T] {
	return Func[[]T](func(ctx context.Context, visit Visitor) ([]T, error) {
		for i, v := range vs {
			if _, next, err := call(visit, Args{v, i}); !next {
				return vs, err
			}
		}
		return vs, nil
	})
}

// Transform visits each element with Args{value} and collects what the visitor returns.
// A visitor result that is not an R is collected as the zero value of R.
func Transform[T, R any](vs []T) Traversal[[]R] {
	return Func[[]R](func(ctx context.Context, visit Visitor) ([]R, error) {
		out := make([]R, 0, len(vs))
		for _, v := range vs {
			res, next, err := call(visit, Args{v})
			if !next {
				return out, err
			}
			r, _ := res.(R)
			out = append(out, r)
		}
		return out, nil
	})
}

// Filter visits each element with Args{value} and keeps the ones where the visitor returned a truthy value.
// nil and false are falsy, everything else is truthy.
func Filter[T any](vs []T) Traversal[[]T] {
	return filter(vs, true)
}

// Reject is the inverse of Filter, it keeps the elements where the visitor returned a falsy value.
func Reject[T any](vs []T) Traversal[[]T] {
	return filter(vs, false)
}

func filter[T any](vs []T, keep bool) Traversal[[]T] {
	return Func[[]T](func(ctx context.Context, visit Visitor) ([]T, error) {
		out := make([]T, 0, len(vs))
		for _, v := range vs {
			res, next, err := call(visit, Args{v})
			if !next {
				return out, err
			}
			if truthy(res) == keep {
				out = append(out, v)
			}
		}
		return out, nil
	})
}

// Batch visits the slice in chunks with Args{[]T}.
// Size is the max amount of element that a batch will contain.
// Default batch size is 64.
// The result is the number of batches visited.
func Batch[T any](vs []T, size int) Traversal[int] {
	return Func[int](func(ctx context.Context, visit Visitor) (int, error) {
		size := getBatchSize(size)
		var batches int
		for start := 0; start < len(vs); start += size {
			end := min(start+size, len(vs))
			batch := make([]T, end-start)
			copy(batch, vs[start:end])
			batches++
			if _, next, err := call(visit, Args{batch}); !next {
				return batches, err
			}
		}
		return batches, nil
	})
}

func getBatchSize(size int) int {
	const defaultBatchSize = 64
	if size <= 0 {
		return defaultBatchSize
	}
	return size
}

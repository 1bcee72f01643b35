package traversal

import "context"

// MoreFunc retrieves the next page of values, starting from offset.
// When hasNext is true but the page is empty, it is treated as "no more pages left",
// so implementations can use a hard-coded true.
type MoreFunc[T any] func(ctx context.Context, offset int) (values []T, hasNext bool, _ error)

// Paginate visits every value of every page with Args{value}.
// Pages are fetched lazily, only after the values of the previous page are used up.
// The result is the number of visited values.
func Paginate[T any](more MoreFunc[T]) Traversal[int] {
	return Func[int](func(ctx context.Context, visit Visitor) (int, error) {
		var n int
		err := paginate(ctx, more, func(page []T) (bool, error) {
			for _, v := range page {
				n++
				if _, next, err := call(visit, Args{v}); !next {
					return false, err
				}
			}
			return true, nil
		})
		return n, err
	})
}

// PaginateBatches visits every page as a whole with Args{[]T}.
// The result is the number of visited pages.
func PaginateBatches[T any](more MoreFunc[T]) Traversal[int] {
	return Func[int](func(ctx context.Context, visit Visitor) (int, error) {
		var n int
		err := paginate(ctx, more, func(page []T) (bool, error) {
			n++
			_, next, err := call(visit, Args{page})
			return next, err
		})
		return n, err
	})
}

func paginate[T any](ctx context.Context, more MoreFunc[T], fn func(page []T) (bool, error)) error {
	var offset int
	for {
		page, hasNext, err := more(ctx, offset)
		if err != nil {
			return err
		}
		if len(page) == 0 {
			return nil
		}
		offset += len(page)
		next, err := fn(page)
		if !next || err != nil {
			return err
		}
		if !hasNext {
			return nil
		}
	}
}

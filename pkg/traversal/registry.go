package traversal

import (
	"context"
	"fmt"
	"slices"
	"sync"

	"github.com/boltdb/bolt"
)

// Factory builds a named traversal for a target.
// args are the positional traversal arguments, optionally followed by an Options value.
type Factory func(target any, args []any) (Traversal[any], error)

var registry = struct {
	mutex     sync.RWMutex
	factories map[string]Factory
}{factories: map[string]Factory{}}

// Register makes a traversal available by name.
// Registering an existing name replaces it until the returned unregister func is called.
func Register(name string, factory Factory) (unregister func()) {
	registry.mutex.Lock()
	defer registry.mutex.Unlock()
	prev, hadPrev := registry.factories[name]
	registry.factories[name] = factory
	return func() {
		registry.mutex.Lock()
		defer registry.mutex.Unlock()
		if hadPrev {
			registry.factories[name] = prev
			return
		}
		delete(registry.factories, name)
	}
}

func Lookup(name string) (Factory, bool) {
	registry.mutex.RLock()
	defer registry.mutex.RUnlock()
	factory, ok := registry.factories[name]
	return factory, ok
}

// Names lists the registered traversal names in alphabetical order.
func Names() []string {
	registry.mutex.RLock()
	defer registry.mutex.RUnlock()
	var names []string
	for name := range registry.factories {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// Named builds the traversal registered under name for the target.
func Named(name string, target any, args ...any) (Traversal[any], error) {
	factory, ok := Lookup(name)
	if !ok {
		return nil, ErrUnknown.F("%q", name)
	}
	return factory(target, args)
}

const (
	NameEach          = "each"
	NameEachWithIndex = "each_with_index"
	NameMap           = "map"
	NameFilter        = "filter"
	NameSelect        = "select"
	NameReject        = "reject"
	NameEachSlice     = "each_slice"
	NameInBatches     = "in_batches"
	NameEachEntry     = "each_entry"
)

func init() {
	Register(NameEach, eachFactory)
	Register(NameEachWithIndex, eachWithIndexFactory)
	Register(NameMap, mapFactory)
	Register(NameFilter, filterFactory(true))
	Register(NameSelect, filterFactory(true))
	Register(NameReject, filterFactory(false))
	Register(NameEachSlice, eachSliceFactory)
	Register(NameInBatches, eachSliceFactory)
	Register(NameEachEntry, eachEntryFactory)
}

func eachFactory(target any, args []any) (Traversal[any], error) {
	if t, ok := target.(Traversal[any]); ok {
		if err := noArgs(NameEach, args); err != nil {
			return nil, err
		}
		return t, nil
	}
	if err := checkWalkable(target); err != nil {
		return nil, err
	}
	if err := noArgs(NameEach, args); err != nil {
		return nil, err
	}
	return Func[any](func(ctx context.Context, visit Visitor) (any, error) {
		err := walk(ctx, target, func(_ int, e element) (bool, error) {
			_, next, err := call(visit, e.Args())
			return next, err
		})
		return target, err
	}), nil
}

func eachWithIndexFactory(target any, args []any) (Traversal[any], error) {
	if err := checkWalkable(target); err != nil {
		return nil, err
	}
	if err := noArgs(NameEachWithIndex, args); err != nil {
		return nil, err
	}
	return Func[any](func(ctx context.Context, visit Visitor) (any, error) {
		err := walk(ctx, target, func(i int, e element) (bool, error) {
			_, next, err := call(visit, Args{e.Value(), i})
			return next, err
		})
		return target, err
	}), nil
}

func mapFactory(target any, args []any) (Traversal[any], error) {
	if err := checkWalkable(target); err != nil {
		return nil, err
	}
	if err := noArgs(NameMap, args); err != nil {
		return nil, err
	}
	return Func[any](func(ctx context.Context, visit Visitor) (any, error) {
		var out = []any{}
		err := walk(ctx, target, func(_ int, e element) (bool, error) {
			res, next, err := call(visit, e.Args())
			if next {
				out = append(out, res)
			}
			return next, err
		})
		return out, err
	}), nil
}

func filterFactory(keep bool) Factory {
	return func(target any, args []any) (Traversal[any], error) {
		if err := checkWalkable(target); err != nil {
			return nil, err
		}
		if err := noArgs("filter", args); err != nil {
			return nil, err
		}
		return Func[any](func(ctx context.Context, visit Visitor) (any, error) {
			var out = []any{}
			err := walk(ctx, target, func(_ int, e element) (bool, error) {
				res, next, err := call(visit, e.Args())
				if next && truthy(res) == keep {
					out = append(out, e.Value())
				}
				return next, err
			})
			return out, err
		}), nil
	}
}

func eachSliceFactory(target any, args []any) (Traversal[any], error) {
	if err := checkWalkable(target); err != nil {
		return nil, err
	}
	positional, opts := splitOptions(args)
	var size int
	switch {
	case 1 < len(positional):
		return nil, ErrArgs.F("%s accepts a single batch size argument, got %d", NameEachSlice, len(positional))
	case len(positional) == 1:
		n, ok := positional[0].(int)
		if !ok {
			return nil, ErrArgs.F("%s batch size must be an int, got %T", NameEachSlice, positional[0])
		}
		size = n
	case opts["size"] != nil:
		n, ok := opts["size"].(int)
		if !ok {
			return nil, ErrArgs.F("%s size option must be an int, got %T", NameEachSlice, opts["size"])
		}
		size = n
	}
	if size < 0 {
		return nil, ErrArgs.F("%s batch size must not be negative: %d", NameEachSlice, size)
	}
	size = getBatchSize(size)
	return Func[any](func(ctx context.Context, visit Visitor) (any, error) {
		var (
			batch   = make([]any, 0, size)
			batches int
		)
		flush := func() (bool, error) {
			if len(batch) == 0 {
				return true, nil
			}
			batches++
			current := batch
			batch = make([]any, 0, size)
			_, next, err := call(visit, Args{current})
			return next, err
		}
		err := walk(ctx, target, func(_ int, e element) (bool, error) {
			batch = append(batch, e.Value())
			if len(batch) < size {
				return true, nil
			}
			return flush()
		})
		if err != nil {
			return batches, err
		}
		_, err = flush()
		return batches, err
	}), nil
}

func eachEntryFactory(target any, args []any) (Traversal[any], error) {
	db, ok := target.(*bolt.DB)
	if !ok || db == nil {
		return nil, ErrUnsupported.F("%s needs a *bolt.DB target, got %T", NameEachEntry, target)
	}
	positional, opts := splitOptions(args)
	var bucket any
	switch {
	case 1 < len(positional):
		return nil, ErrArgs.F("%s accepts a single bucket argument, got %d", NameEachEntry, len(positional))
	case len(positional) == 1:
		bucket = positional[0]
	default:
		bucket = opts["bucket"]
	}
	var name []byte
	switch bucket := bucket.(type) {
	case string:
		name = []byte(bucket)
	case []byte:
		name = bucket
	default:
		return nil, ErrArgs.F("%s bucket name must be a string or []byte, got %T", NameEachEntry, bucket)
	}
	if len(name) == 0 {
		return nil, ErrArgs.F("%s bucket name is empty", NameEachEntry)
	}
	return Any(Bolt(db, name)), nil
}

func splitOptions(args []any) ([]any, Options) {
	if len(args) == 0 {
		return args, Options{}
	}
	if opts, ok := args[len(args)-1].(Options); ok {
		return args[:len(args)-1], opts
	}
	return args, Options{}
}

func noArgs(name string, args []any) error {
	positional, opts := splitOptions(args)
	if len(positional) == 0 && len(opts) == 0 {
		return nil
	}
	return ErrArgs.F("%s takes no arguments, got %s", name, fmt.Sprint(args...))
}

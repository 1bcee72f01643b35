package traversal

import (
	"cmp"
	"context"
	"fmt"
	"reflect"
	"slices"
)

type element struct {
	Key   any
	Val   any
	Keyed bool
}

// Args returns the natural argument shape of the element:
// Args{value} for list like collections, Args{key, value} for maps.
func (e element) Args() Args {
	if e.Keyed {
		return Args{e.Key, e.Val}
	}
	return Args{e.Val}
}

// Value returns the element as a single value,
// a keyed element is returned as a []any{key, value} pair.
func (e element) Value() any {
	if e.Keyed {
		return []any{e.Key, e.Val}
	}
	return e.Val
}

func checkWalkable(target any) error {
	if target == nil {
		return ErrUnsupported.F("<nil>")
	}
	switch reflect.TypeOf(target).Kind() {
	case reflect.Slice, reflect.Array, reflect.Map, reflect.Chan:
		return nil
	default:
		return ErrUnsupported.F("%T", target)
	}
}

// walk calls fn for each element of a slice, array, map or channel.
// Maps are walked in ascending key order, channels until they are closed or the context is done.
func walk(ctx context.Context, target any, fn func(i int, e element) (bool, error)) error {
	rv := reflect.ValueOf(target)
	switch rv.Kind() {
	case reflect.Slice, reflect.Array:
		for i := 0; i < rv.Len(); i++ {
			if next, err := fn(i, element{Val: rv.Index(i).Interface()}); !next {
				return err
			}
		}
		return nil

	case reflect.Map:
		keys := rv.MapKeys()
		slices.SortFunc(keys, compareKeys)
		for i, key := range keys {
			e := element{Key: key.Interface(), Val: rv.MapIndex(key).Interface(), Keyed: true}
			if next, err := fn(i, e); !next {
				return err
			}
		}
		return nil

	case reflect.Chan:
		cases := []reflect.SelectCase{
			{Dir: reflect.SelectRecv, Chan: reflect.ValueOf(ctx.Done())},
			{Dir: reflect.SelectRecv, Chan: rv},
		}
		for i := 0; ; i++ {
			chosen, v, ok := reflect.Select(cases)
			if chosen == 0 {
				return ctx.Err()
			}
			if !ok {
				return nil
			}
			if next, err := fn(i, element{Val: v.Interface()}); !next {
				return err
			}
		}

	default:
		return ErrUnsupported.F("%T", target)
	}
}

func compareKeys(a, b reflect.Value) int {
	switch a.Kind() {
	case reflect.String:
		return cmp.Compare(a.String(), b.String())
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return cmp.Compare(a.Int(), b.Int())
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return cmp.Compare(a.Uint(), b.Uint())
	case reflect.Float32, reflect.Float64:
		return cmp.Compare(a.Float(), b.Float())
	default:
		return cmp.Compare(fmt.Sprintf("%#v", a.Interface()), fmt.Sprintf("%#v", b.Interface()))
	}
}

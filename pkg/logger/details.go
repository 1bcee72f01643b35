package logger

import (
	"context"
	"maps"
)

// Detail is an extra piece of information on a log entry.
type Detail interface{ addTo(entry) }

type entry map[string]any

func (e entry) addTo(oth entry) { maps.Copy(oth, e) }

// Field is a single key value detail.
// Error values are logged with their message.
func Field(key string, value any) Detail {
	if err, ok := value.(error); ok {
		value = err.Error()
	}
	return entry{key: value}
}

// Fields is a set of key value details.
type Fields map[string]any

func (fs Fields) addTo(e entry) {
	for k, v := range fs {
		Field(k, v).addTo(e)
	}
}

type ctxKey struct{}

// ContextWith returns a context that carries the details on top of the ones already attached to ctx.
// A later detail with the same key overrides the earlier one.
func ContextWith(ctx context.Context, ds ...Detail) context.Context {
	if len(ds) == 0 {
		return ctx
	}
	e := detailsOf(ctx)
	for _, d := range ds {
		d.addTo(e)
	}
	return context.WithValue(ctx, ctxKey{}, e)
}

func detailsOf(ctx context.Context) entry {
	e := entry{}
	if ctx == nil {
		return e
	}
	if attached, ok := ctx.Value(ctxKey{}).(entry); ok {
		maps.Copy(e, attached)
	}
	return e
}

package rescue

import (
	"context"
	"errors"
	"runtime"
	"strings"

	"go.llib.dev/rescue/pkg/errorkit"
	"go.llib.dev/rescue/pkg/option"
	"go.llib.dev/rescue/pkg/runtimekit"
	"go.llib.dev/rescue/pkg/traversal"
)

// Callback is called with the arguments of one unit of work.
// Its result is handed to the traversal, so transforming and filtering traversals can use it.
// A panic in the Callback is treated as a returned error.
type Callback func(args traversal.Args) (any, error)

// DiagnosticsPrefix starts every line written to the diagnostics sink.
const DiagnosticsPrefix = "error: "

// Guard runs the traversal, and calls fn with each unit of work.
//
// Failing units are collected, and once the traversal is complete they are returned as an *AggregateError.
// When nothing failed, the result of the traversal is returned.
// The Method related configuration is not used, since the traversal is given.
func Guard[R any](ctx context.Context, t traversal.Traversal[R], fn Callback, opts ...Option) (R, error) {
	c := option.ToConfig[Config](opts)
	if err := c.Validate(); err != nil {
		var zero R
		return zero, err
	}
	return guard(ctx, c, t, fn)
}

// Run resolves the configured traversal method for the target and runs it the way Guard does.
//
//	out, err := rescue.Run(ctx, []int{1, 2, 3}, func(args traversal.Args) (any, error) {
//		return args[0].(int) * 2, nil
//	}, rescue.WithMethod("map"))
func Run(ctx context.Context, target any, fn Callback, opts ...Option) (any, error) {
	c := option.ToConfig[Config](opts)
	if err := c.Validate(); err != nil {
		return nil, err
	}
	t, err := c.traversal(target)
	if err != nil {
		return nil, err
	}
	return guard(ctx, c, t, fn)
}

// RunNamed is Run with an explicit traversal method and its arguments.
// The keys of options recognised by Options configure the run,
// every other key is passed to the traversal in a trailing traversal.Options argument.
// The method and args keys are rejected with ErrInvalidConfig, as the parameters already name the traversal.
func RunNamed(ctx context.Context, target any, method string, methodArgs []any, options map[string]any, fn Callback) (any, error) {
	if method == "" {
		method = traversal.NameEach
	}
	return Run(ctx, target, fn, forwardingOptions(options), WithMethod(method, methodArgs...))
}

func guard[R any](ctx context.Context, c Config, t traversal.Traversal[R], fn Callback) (R, error) {
	g := &guardian{
		ctx:      ctx,
		config:   c,
		callback: fn,
	}
	out, err := t.Traverse(ctx, g.visit)
	if g.halt != nil {
		return out, g.halt
	}
	if err != nil {
		if ctx.Err() != nil && errors.Is(err, ctx.Err()) {
			sig := canceled(err)
			return out, g.signal(sig, sig)
		}
		return out, errorkit.Merge(err, g.aggregate(false))
	}
	if agg := g.aggregate(false); agg != nil {
		return out, agg
	}
	return out, nil
}

type guardian struct {
	ctx      context.Context
	config   Config
	callback Callback

	failures []Failure
	// halt is the error that ended the run early
	halt error
}

func (g *guardian) visit(args traversal.Args) (any, error) {
	if err := g.ctx.Err(); err != nil {
		sig := canceled(err)
		return nil, g.stop(g.signal(sig, sig))
	}
	snapshot := args.Clone()
	out, err := g.call(args.Clone())
	if err == nil {
		return out, nil
	}
	if errors.Is(err, traversal.Break) {
		return out, traversal.Break
	}
	if sig, ok := g.lookupSignal(err); ok {
		return nil, g.stop(g.signal(err, sig))
	}

	f := Capture(err, snapshot)
	g.report(f)
	g.failures = append(g.failures, f)
	if 0 < g.config.ErrorLimit && g.config.ErrorLimit <= len(g.failures) {
		return nil, g.stop(g.aggregate(true))
	}
	return nil, nil
}

func (g *guardian) call(args traversal.Args) (_ any, err error) {
	defer errorkit.Recover(&err)
	return g.callback(args)
}

func (g *guardian) lookupSignal(err error) (Signal, bool) {
	if sig, ok := LookupSignal(err); ok {
		return sig, true
	}
	if ctxErr := g.ctx.Err(); ctxErr != nil && errors.Is(err, ctxErr) {
		return Signal{Kind: Canceled, Message: messageOf(err), Cause: err}, true
	}
	return Signal{}, false
}

// signal returns the error that ends the run because of a process-control signal.
// Without captured failures, it is the original error.
func (g *guardian) signal(err error, sig Signal) error {
	agg, ok := g.aggregate(false).(*AggregateError)
	if !ok {
		return err
	}
	return Signal{
		Kind:     sig.Kind,
		Message:  sig.Error() + "\n" + agg.Render(),
		Cause:    err,
		Failures: agg,
	}
}

func canceled(err error) Signal {
	return Signal{Kind: Canceled, Message: err.Error(), Cause: err}
}

func (g *guardian) stop(err error) error {
	g.halt = err
	return err
}

func (g *guardian) report(f Failure) {
	switch g.config.Diagnostics {
	case Full:
		g.config.sink().WriteLine(g.ctx, DiagnosticsPrefix+f.FullMessage())
	case Short:
		g.config.sink().WriteLine(g.ctx, DiagnosticsPrefix+f.ShortMessage())
	}
}

// aggregate returns nil when there are no failures.
func (g *guardian) aggregate(aborted bool) error {
	agg, err := Aggregate(g.failures, aborted)
	if err != nil {
		return nil
	}
	return agg
}

var _ = runtimekit.RegisterFrameException(func(f runtime.Frame) bool {
	return strings.Contains(f.Function, "/rescue.(*guardian)")
})

package rescue

import (
	"maps"
	"slices"

	"go.llib.dev/rescue/pkg/errorkit"
	"go.llib.dev/rescue/pkg/option"
	"go.llib.dev/rescue/pkg/sink"
	"go.llib.dev/rescue/pkg/traversal"
)

// Diagnostics tells what is written to the diagnostics sink when an element fails.
type Diagnostics string

const (
	// Off writes nothing.
	Off Diagnostics = "off"
	// Short writes the short message of the failure.
	Short Diagnostics = "short"
	// Full writes the full message of the failure, including its stack trace.
	Full Diagnostics = "full"
)

// ParseDiagnostics accepts a Diagnostics value, a bool (true is Short),
// or one of the strings "off", "on", "short" and "full".
func ParseDiagnostics(v any) (Diagnostics, error) {
	switch v := v.(type) {
	case nil:
		return Off, nil
	case bool:
		if v {
			return Short, nil
		}
		return Off, nil
	case Diagnostics:
		return parseDiagnostics(string(v))
	case string:
		return parseDiagnostics(v)
	default:
		return "", ErrInvalidConfig.F("diagnostics must be a bool or a string, got %T", v)
	}
}

func parseDiagnostics(s string) (Diagnostics, error) {
	switch s {
	case "", "off":
		return Off, nil
	case "on", "short":
		return Short, nil
	case "full":
		return Full, nil
	default:
		return "", ErrInvalidConfig.F("unknown diagnostics mode: %q", s)
	}
}

type Option = option.Option[Config]

// Config is the configuration of a guarded run.
// Config is an Option as well, its non-zero fields override the ones it is applied to.
type Config struct {
	// Method is the name of the traversal used by Run.
	Method string
	// MethodArgs are the positional arguments of the traversal.
	MethodArgs []any
	// Forward holds named arguments passed to the traversal as a trailing traversal.Options.
	Forward traversal.Options
	// Diagnostics sets what is reported to the Sink when an element fails.
	Diagnostics Diagnostics
	// Sink receives the diagnostics lines.
	// When not set, diagnostics go to the standard error.
	Sink sink.Sink
	// ErrorLimit is the number of failures after which the run is aborted.
	// Zero means no limit.
	ErrorLimit int

	err error
}

func (c *Config) Init() {
	c.Method = traversal.NameEach
	c.Diagnostics = Off
}

func (c Config) Configure(t *Config) {
	if c.Method != "" {
		t.Method = c.Method
	}
	if c.MethodArgs != nil {
		t.MethodArgs = slices.Clone(c.MethodArgs)
	}
	if len(c.Forward) != 0 {
		if t.Forward == nil {
			t.Forward = traversal.Options{}
		}
		maps.Copy(t.Forward, c.Forward)
	}
	if c.Diagnostics != "" {
		t.Diagnostics = c.Diagnostics
	}
	if c.Sink != nil {
		t.Sink = c.Sink
	}
	if c.ErrorLimit != 0 {
		t.ErrorLimit = c.ErrorLimit
	}
	t.err = errorkit.Merge(t.err, c.err)
}

// Validate reports ErrInvalidConfig when the configuration can't be used.
func (c Config) Validate() error {
	if c.err != nil {
		return c.err
	}
	if c.Method == "" {
		return ErrInvalidConfig.F("traversal method is empty")
	}
	if c.ErrorLimit < 0 {
		return ErrInvalidConfig.F("error limit must be a positive integer, got %d", c.ErrorLimit)
	}
	switch c.Diagnostics {
	case Off, Short, Full:
	default:
		return ErrInvalidConfig.F("unknown diagnostics mode: %q", c.Diagnostics)
	}
	return nil
}

func (c Config) sink() sink.Sink {
	if c.Sink != nil {
		return c.Sink
	}
	return sink.Stderr()
}

func (c Config) traversal(target any) (traversal.Traversal[any], error) {
	args := slices.Clone(c.MethodArgs)
	if len(c.Forward) != 0 {
		args = append(args, maps.Clone(c.Forward))
	}
	t, err := traversal.Named(c.Method, target, args...)
	if err != nil {
		return nil, ErrInvalidConfig.Wrap(err)
	}
	return t, nil
}

// WithMethod selects the named traversal used by Run, and its positional arguments.
func WithMethod(name string, args ...any) Option {
	return option.Func[Config](func(c *Config) {
		c.Method = name
		c.MethodArgs = slices.Clone(args)
	})
}

// WithDiagnostics reports each failure to s as it happens.
// A nil sink means the standard error.
func WithDiagnostics(mode Diagnostics, s sink.Sink) Option {
	return option.Func[Config](func(c *Config) {
		c.Diagnostics = mode
		c.Sink = s
	})
}

// WithErrorLimit aborts the run once n elements failed.
func WithErrorLimit(n int) Option {
	return option.Func[Config](func(c *Config) {
		c.ErrorLimit = n
		if n <= 0 {
			c.err = errorkit.Merge(c.err, ErrInvalidConfig.F("error limit must be a positive integer, got %d", n))
		}
	})
}

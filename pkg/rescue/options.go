package rescue

import (
	"math"
	"reflect"
	"slices"

	"github.com/go-viper/mapstructure/v2"

	"go.llib.dev/rescue/pkg/sink"
	"go.llib.dev/rescue/pkg/traversal"
)

// Options makes an Option from an options map.
//
// Recognised keys:
//   - method: the traversal name
//   - args: the positional traversal arguments
//   - diagnostics: true, false, "off", "on", "short" or "full"
//   - sink: a sink.Sink, when given without diagnostics, Short diagnostics are enabled
//   - error_limit: a positive integer
//
// Any other key makes the run fail with ErrInvalidConfig before the traversal begins.
func Options(m map[string]any) Option {
	c, err := decodeOptions(m, true)
	if err != nil {
		return Config{err: err}
	}
	return c
}

// forwardingOptions is the lenient form of Options used by RunNamed,
// where unrecognised keys are handed over to the traversal.
// The traversal itself is named by RunNamed's parameters, so the method and args keys are rejected.
func forwardingOptions(m map[string]any) Option {
	for _, key := range []string{"method", "args"} {
		if _, ok := m[key]; ok {
			return Config{err: ErrInvalidConfig.F("%q is given as a RunNamed parameter, not as an option", key)}
		}
	}
	c, err := decodeOptions(m, false)
	if err != nil {
		return Config{err: err}
	}
	return c
}

type optionsDTO struct {
	Method      string      `mapstructure:"method"`
	Args        []any       `mapstructure:"args"`
	Diagnostics Diagnostics `mapstructure:"diagnostics"`
	Sink        sink.Sink   `mapstructure:"sink"`
	ErrorLimit  any         `mapstructure:"error_limit"`
}

func decodeOptions(m map[string]any, strict bool) (Config, error) {
	if len(m) == 0 {
		return Config{}, nil
	}
	var (
		dto optionsDTO
		md  mapstructure.Metadata
	)
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		DecodeHook:  mapstructure.DecodeHookFuncType(diagnosticsHook),
		ErrorUnused: strict,
		Metadata:    &md,
		Result:      &dto,
	})
	if err != nil {
		return Config{}, ErrInvalidConfig.Wrap(err)
	}
	if err := dec.Decode(m); err != nil {
		return Config{}, ErrInvalidConfig.Wrap(err)
	}

	c := Config{
		Method:      dto.Method,
		MethodArgs:  dto.Args,
		Diagnostics: dto.Diagnostics,
		Sink:        dto.Sink,
	}
	if dto.ErrorLimit != nil {
		n, err := positiveInt(dto.ErrorLimit)
		if err != nil {
			return Config{}, err
		}
		c.ErrorLimit = n
	}
	if c.Sink != nil && c.Diagnostics == "" {
		c.Diagnostics = Short
	}
	if !strict && 0 < len(md.Unused) {
		slices.Sort(md.Unused)
		c.Forward = traversal.Options{}
		for _, key := range md.Unused {
			c.Forward[key] = m[key]
		}
	}
	return c, nil
}

// positiveInt accepts any integer kind, and floats without a fractional part,
// as decoded JSON numbers are float64.
func positiveInt(v any) (int, error) {
	var n int64
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		n = rv.Int()
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		u := rv.Uint()
		if math.MaxInt < u {
			return 0, ErrInvalidConfig.F("error_limit is out of range: %d", u)
		}
		n = int64(u)
	case reflect.Float32, reflect.Float64:
		f := rv.Float()
		if f != math.Trunc(f) || f <= 0 || math.MaxInt < f {
			return 0, ErrInvalidConfig.F("error_limit must be a positive integer, got %v", f)
		}
		n = int64(f)
	default:
		return 0, ErrInvalidConfig.F("error_limit must be a positive integer, got %T", v)
	}
	if n <= 0 {
		return 0, ErrInvalidConfig.F("error_limit must be a positive integer, got %d", n)
	}
	return int(n), nil
}

var diagnosticsType = reflect.TypeOf(Off)

func diagnosticsHook(_ reflect.Type, to reflect.Type, data any) (any, error) {
	if to != diagnosticsType {
		return data, nil
	}
	return ParseDiagnostics(data)
}

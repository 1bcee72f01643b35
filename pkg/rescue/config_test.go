package rescue_test

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"go.llib.dev/rescue/pkg/option"
	"go.llib.dev/rescue/pkg/rescue"
	"go.llib.dev/rescue/pkg/sink"
	"go.llib.dev/rescue/pkg/traversal"
	"go.llib.dev/testcase/assert"
)

func TestConfig(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		c := option.ToConfig[rescue.Config]([]rescue.Option{})
		assert.Equal(t, traversal.NameEach, c.Method)
		assert.Equal(t, rescue.Off, c.Diagnostics)
		assert.Equal(t, 0, c.ErrorLimit)
		assert.Nil(t, c.Sink)
		assert.NoError(t, c.Validate())
	})

	t.Run("options are applied in order", func(t *testing.T) {
		c := option.ToConfig[rescue.Config]([]rescue.Option{
			rescue.WithErrorLimit(5),
			rescue.WithMethod(traversal.NameEachSlice, 2),
			rescue.WithDiagnostics(rescue.Full, sink.Discard),
			rescue.WithErrorLimit(3),
		})
		assert.Equal(t, 3, c.ErrorLimit)
		assert.Equal(t, traversal.NameEachSlice, c.Method)
		assert.Equal(t, []any{2}, c.MethodArgs)
		assert.Equal(t, rescue.Full, c.Diagnostics)
		assert.NoError(t, c.Validate())
	})

	t.Run("a Config is an Option that overrides the set fields", func(t *testing.T) {
		c := option.ToConfig[rescue.Config]([]rescue.Option{
			rescue.WithMethod(traversal.NameMap),
			rescue.Config{ErrorLimit: 2},
		})
		assert.Equal(t, traversal.NameMap, c.Method)
		assert.Equal(t, 2, c.ErrorLimit)
	})

	t.Run("invalid values", func(t *testing.T) {
		for name, opt := range map[string]rescue.Option{
			"zero error limit":     rescue.WithErrorLimit(0),
			"negative error limit": rescue.Config{ErrorLimit: -1},
			"unknown diagnostics":  rescue.WithDiagnostics("loud", nil),
			"empty method":         rescue.WithMethod(""),
		} {
			c := option.ToConfig[rescue.Config]([]rescue.Option{opt})
			assert.True(t, errors.Is(c.Validate(), rescue.ErrInvalidConfig), assert.Message(name))
		}
	})
}

func TestParseDiagnostics(t *testing.T) {
	for in, exp := range map[any]rescue.Diagnostics{
		nil:          rescue.Off,
		false:        rescue.Off,
		true:         rescue.Short,
		"off":        rescue.Off,
		"on":         rescue.Short,
		"short":      rescue.Short,
		"full":       rescue.Full,
		rescue.Full:  rescue.Full,
		rescue.Short: rescue.Short,
	} {
		got, err := rescue.ParseDiagnostics(in)
		assert.NoError(t, err)
		assert.Equal(t, exp, got)
	}

	_, err := rescue.ParseDiagnostics("verbose")
	assert.True(t, errors.Is(err, rescue.ErrInvalidConfig))
	_, err = rescue.ParseDiagnostics(42)
	assert.True(t, errors.Is(err, rescue.ErrInvalidConfig))
}

func TestOptions(t *testing.T) {
	ctx := context.Background()

	t.Run("recognised keys", func(t *testing.T) {
		var lines []string
		s := sink.Func(func(ctx context.Context, line string) { lines = append(lines, line) })
		c := option.ToConfig[rescue.Config]([]rescue.Option{rescue.Options(map[string]any{
			"method":      traversal.NameEachSlice,
			"args":        []any{2},
			"diagnostics": "full",
			"sink":        s,
			"error_limit": 4,
		})})
		assert.NoError(t, c.Validate())
		assert.Equal(t, traversal.NameEachSlice, c.Method)
		assert.Equal(t, []any{2}, c.MethodArgs)
		assert.Equal(t, rescue.Full, c.Diagnostics)
		assert.Equal(t, 4, c.ErrorLimit)
		assert.NotNil(t, c.Sink)
	})

	t.Run("diagnostics as a bool", func(t *testing.T) {
		c := option.ToConfig[rescue.Config]([]rescue.Option{rescue.Options(map[string]any{"diagnostics": true})})
		assert.Equal(t, rescue.Short, c.Diagnostics)
	})

	t.Run("a sink alone enables short diagnostics", func(t *testing.T) {
		c := option.ToConfig[rescue.Config]([]rescue.Option{rescue.Options(map[string]any{"sink": sink.Discard})})
		assert.Equal(t, rescue.Short, c.Diagnostics)
	})

	t.Run("an unknown key fails the run before the traversal begins", func(t *testing.T) {
		var calls int
		_, err := rescue.Run(ctx, []int{1, 2, 3}, func(args traversal.Args) (any, error) {
			calls++
			return nil, nil
		}, rescue.Options(map[string]any{"stderr": true}))
		assert.True(t, errors.Is(err, rescue.ErrInvalidConfig))
		assert.Equal(t, 0, calls)
	})

	t.Run("whole numbers of any kind are accepted as limit", func(t *testing.T) {
		for _, v := range []any{3, int8(3), uint(3), float64(3)} {
			c := option.ToConfig[rescue.Config]([]rescue.Option{rescue.Options(map[string]any{"error_limit": v})})
			assert.NoError(t, c.Validate(), assert.Message(fmt.Sprintf("%T", v)))
			assert.Equal(t, 3, c.ErrorLimit)
		}
	})

	t.Run("invalid values", func(t *testing.T) {
		for name, m := range map[string]map[string]any{
			"diagnostics":      {"diagnostics": "verbose"},
			"zero limit":       {"error_limit": 0},
			"limit as string":  {"error_limit": "many"},
			"fractional limit": {"error_limit": 2.5},
			"negative limit":   {"error_limit": int64(-3)},
			"sink":             {"sink": "stderr"},
		} {
			c := option.ToConfig[rescue.Config]([]rescue.Option{rescue.Options(m)})
			assert.True(t, errors.Is(c.Validate(), rescue.ErrInvalidConfig), assert.Message(name))
		}
	})
}

// Package sink holds the line-oriented diagnostics output of a guarded iteration.
//
// A Sink receives one line of text per captured failure, as it happens.
// Writing to a sink is best-effort, adapters swallow the errors of the underlying output.
package sink

import (
	"context"
	"io"
	"os"
	"strings"

	"github.com/rs/zerolog"
	"go.uber.org/zap"

	"go.llib.dev/rescue/pkg/logger"
)

type Sink interface {
	WriteLine(ctx context.Context, line string)
}

// Func is a Sink made from a function.
type Func func(ctx context.Context, line string)

func (fn Func) WriteLine(ctx context.Context, line string) { fn(ctx, line) }

// Discard is a Sink that drops every line.
var Discard Sink = Func(func(context.Context, string) {})

// Writer writes each line to w, terminated by a new line.
func Writer(w io.Writer) Sink {
	return writerSink{W: w}
}

// Stderr writes each line to the process standard error.
// The file is looked up at write time, so a replaced os.Stderr is honoured.
func Stderr() Sink {
	return Func(func(ctx context.Context, line string) {
		Writer(os.Stderr).WriteLine(ctx, line)
	})
}

type writerSink struct{ W io.Writer }

func (s writerSink) WriteLine(_ context.Context, line string) {
	if !strings.HasSuffix(line, "\n") {
		line += "\n"
	}
	_, _ = io.WriteString(s.W, line)
}

// Logger reports each line as an error level entry of the logger.
// A nil logger means logger.Default.
func Logger(l *logger.Logger) Sink {
	return Func(func(ctx context.Context, line string) {
		if l == nil {
			logger.Error(ctx, line)
			return
		}
		l.Error(ctx, line)
	})
}

// Zerolog reports each line as an error level zerolog event.
func Zerolog(l zerolog.Logger) Sink {
	return Func(func(ctx context.Context, line string) {
		l.Error().Ctx(ctx).Msg(line)
	})
}

// Zap reports each line as an error level zap entry.
// A nil logger means zap.L().
func Zap(l *zap.Logger) Sink {
	return Func(func(ctx context.Context, line string) {
		zl := l
		if zl == nil {
			zl = zap.L()
		}
		zl.Error(line)
	})
}

// Package logger writes log entries as JSON lines.
// Details attached to a context with ContextWith are part of every entry logged with that context.
package logger

import (
	"context"
	"encoding/json"
	"io"
	"os"
	"sync"
	"time"

	"go.llib.dev/testcase/clock"
)

type Logger struct {
	// Out is where the entries are written.
	// When nil, it defaults to os.Stdout.
	Out io.Writer
	// Level is the minimum level that is written out.
	// When empty it defaults to LevelInfo.
	Level Level

	mutex sync.Mutex
}

// Default is the logger behind the package level functions.
// Its level can be set with the LOG_LEVEL environment variable.
var Default Logger

func (l *Logger) Debug(ctx context.Context, msg string, ds ...Detail) {
	l.log(ctx, LevelDebug, msg, ds)
}

func (l *Logger) Info(ctx context.Context, msg string, ds ...Detail) {
	l.log(ctx, LevelInfo, msg, ds)
}

func (l *Logger) Warn(ctx context.Context, msg string, ds ...Detail) {
	l.log(ctx, LevelWarn, msg, ds)
}

func (l *Logger) Error(ctx context.Context, msg string, ds ...Detail) {
	l.log(ctx, LevelError, msg, ds)
}

// Error logs with the Default logger.
func Error(ctx context.Context, msg string, ds ...Detail) {
	Default.Error(ctx, msg, ds...)
}

func (l *Logger) log(ctx context.Context, level Level, msg string, ds []Detail) {
	if !l.Level.enables(level) {
		return
	}
	e := detailsOf(ctx)
	for _, d := range ds {
		d.addTo(e)
	}
	e["level"] = level
	e["message"] = msg
	e["timestamp"] = clock.Now().Format(time.RFC3339)

	bs, err := json.Marshal(e)
	if err != nil {
		bs, _ = json.Marshal(entry{"level": level, "message": msg, "error": err.Error()})
	}

	l.mutex.Lock()
	defer l.mutex.Unlock()
	out := l.Out
	if out == nil {
		out = os.Stdout
	}
	_, _ = out.Write(append(bs, '\n'))
}

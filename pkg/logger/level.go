package logger

import (
	"os"
	"strings"
)

type Level string

const (
	LevelDebug Level = "debug"
	LevelInfo  Level = "info"
	LevelWarn  Level = "warn"
	LevelError Level = "error"
)

var levelPriority = map[Level]int{
	LevelDebug: 0,
	LevelInfo:  1,
	LevelWarn:  2,
	LevelError: 3,
}

// enables reports whether an entry at level is written by a logger set to threshold.
func (threshold Level) enables(level Level) bool {
	if threshold == "" {
		threshold = LevelInfo
	}
	return levelPriority[threshold] <= levelPriority[level]
}

// ParseLevel accepts the level names, case insensitive.
func ParseLevel(raw string) (Level, bool) {
	level := Level(strings.ToLower(strings.TrimSpace(raw)))
	_, ok := levelPriority[level]
	return level, ok
}

func init() {
	if level, ok := ParseLevel(os.Getenv("LOG_LEVEL")); ok {
		Default.Level = level
	}
}

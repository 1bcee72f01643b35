package logger

import (
	"bytes"
	"io"
)

type testingTB interface {
	Helper()
	Cleanup(func())
}

// Stub the logger.Default and return the buffer where the logging output will be recorded.
// Stub will restore the logger.Default output and level after the test.
func Stub(tb testingTB) *bytes.Buffer {
	tb.Helper()
	var (
		ogOut   io.Writer = Default.Out
		ogLevel           = Default.Level
	)
	tb.Cleanup(func() {
		Default.Out = ogOut
		Default.Level = ogLevel
	})
	buf := &bytes.Buffer{}
	Default.Out = buf
	return buf
}

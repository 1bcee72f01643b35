// Package runtimekit captures call stacks in a form that is cheap to render into diagnostics.
package runtimekit

import (
	"fmt"
	"runtime"
	"strings"
	"sync"
)

var exceptions = struct {
	mutex sync.RWMutex
	index int64
	byID  map[int64]func(runtime.Frame) bool
}{byID: map[int64]func(runtime.Frame) bool{}}

// RegisterFrameException ensures that Stack globally ignores frames that match the given exception filter function.
// The returned func removes the exception again.
func RegisterFrameException(isException func(f runtime.Frame) bool) func() {
	exceptions.mutex.Lock()
	defer exceptions.mutex.Unlock()
	exceptions.index++
	id := exceptions.index
	exceptions.byID[id] = isException
	return func() {
		exceptions.mutex.Lock()
		defer exceptions.mutex.Unlock()
		delete(exceptions.byID, id)
	}
}

var _ = RegisterFrameException(func(f runtime.Frame) bool {
	return strings.HasPrefix(f.Function, "runtime.") ||
		strings.HasPrefix(f.Function, "testing.") ||
		strings.Contains(f.Function, "/runtimekit.")
})

func isException(frame runtime.Frame) bool {
	exceptions.mutex.RLock()
	defer exceptions.mutex.RUnlock()
	for _, isException := range exceptions.byID {
		if isException(frame) {
			return true
		}
	}
	return false
}

// Stack returns the frames of the calling goroutine, without the registered frame exceptions.
//
// When called from a deferred function during a panic,
// the frames of the panicking call are still on the stack,
// so the result points at the origin of the panic.
func Stack() []runtime.Frame {
	programCounters := make([]uintptr, 1024)
	n := runtime.Callers(1, programCounters)
	frames := runtime.CallersFrames(programCounters[:n])

	var vs []runtime.Frame
	for more := true; more; {
		var frame runtime.Frame
		frame, more = frames.Next()
		if isException(frame) {
			continue
		}
		vs = append(vs, frame)
	}
	return vs
}

// FormatFrame renders a frame as "<function> <file>:<line>".
func FormatFrame(f runtime.Frame) string {
	if f.Function == "" {
		return fmt.Sprintf("%s:%d", f.File, f.Line)
	}
	return fmt.Sprintf("%s %s:%d", f.Function, f.File, f.Line)
}

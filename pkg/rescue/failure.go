package rescue

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"go.llib.dev/rescue/pkg/errorkit"
	"go.llib.dev/rescue/pkg/traversal"
)

// DefaultArgsPreview is the number of characters ArgsShort keeps by default.
const DefaultArgsPreview = 500

// Failure is a single failed element: the error it failed with, and the arguments the callback received.
// A Failure is immutable, it keeps its own copy of the arguments.
type Failure struct {
	cause error
	args  traversal.Args
}

// Capture makes a Failure from an error and the arguments of the failed call.
// The arguments are copied, later changes to them are not reflected in the Failure.
func Capture(cause error, args traversal.Args) Failure {
	if cause == nil {
		cause = ErrInvalidState.F("failure captured without a cause")
	}
	if args == nil {
		args = traversal.Args{}
	}
	return Failure{cause: cause, args: args.Clone()}
}

func (f Failure) Cause() error { return f.cause }

// Args returns a copy of the recorded arguments.
func (f Failure) Args() traversal.Args { return f.args.Clone() }

func (f Failure) Error() string { return f.ShortMessage() }

func (f Failure) Unwrap() error { return f.cause }

// Title is the message of the cause followed by its type, as "message (type)".
func (f Failure) Title() string {
	cause := f.cause
	for {
		traced, ok := cause.(errorkit.TracedError)
		if !ok || traced.Err == nil {
			break
		}
		cause = traced.Err
	}
	return fmt.Sprintf("%s (%T)", cause.Error(), cause)
}

// ArgsFull renders every argument in Go syntax, as "[a, b]".
func (f Failure) ArgsFull() string {
	parts := make([]string, 0, len(f.args))
	for _, arg := range f.args {
		parts = append(parts, formatArg(arg))
	}
	return "[" + strings.Join(parts, ", ") + "]"
}

func formatArg(arg any) string {
	switch arg := arg.(type) {
	case []byte:
		return fmt.Sprintf("%q", arg)
	case nil:
		return "nil"
	default:
		return fmt.Sprintf("%#v", arg)
	}
}

// ArgsShort is ArgsFull cut down to maxChars characters.
// The cut text is followed by the number of characters left out, as " [42 more chars...]".
// A maxChars of zero or less means DefaultArgsPreview.
func (f Failure) ArgsShort(maxChars int) string {
	if maxChars <= 0 {
		maxChars = DefaultArgsPreview
	}
	full := f.ArgsFull()
	length := utf8.RuneCountInString(full)
	if length <= maxChars {
		return full
	}
	runes := []rune(full)
	return fmt.Sprintf("%s [%d more chars...]", string(runes[:maxChars]), length-maxChars)
}

// ShortMessage is a single line description: "title (args)".
func (f Failure) ShortMessage() string {
	return fmt.Sprintf("%s (%s)", f.Title(), f.ArgsShort(DefaultArgsPreview))
}

// FullMessage is the title, the complete arguments, and the stack trace of the cause when it has one.
//
//	boom (*errors.errorString)
//	args: [3]
//		main.process /app/main.go:42
func (f Failure) FullMessage() string {
	var trace []string
	if frames, ok := errorkit.LookupTrace(f.cause); ok {
		trace = errorkit.TracedError{Stack: frames}.TraceLines()
		for i, line := range trace {
			trace[i] = "\t" + line
		}
	}
	return f.Title() + "\nargs: " + f.ArgsFull() + "\n" + strings.Join(trace, "\n")
}

package rescue

import (
	"errors"

	"go.llib.dev/rescue/pkg/errorkit"
)

// SignalKind enumerates the process-control signals.
// A signal unwinds the whole run instead of failing a single element.
//
// SignalKind implements error, so a callback can return it directly:
//
//	return nil, rescue.Interrupt
type SignalKind string

const (
	// Interrupt is an external interrupt, like the user pressing ctrl+c.
	Interrupt SignalKind = "interrupt"
	// Abort is a deliberate abort of the whole run.
	Abort SignalKind = "abort"
	// Canceled is reported when the context of the run is done.
	Canceled SignalKind = "canceled"
)

func (kind SignalKind) Error() string { return string(kind) }

func (kind SignalKind) isKnown() bool {
	switch kind {
	case Interrupt, Abort, Canceled:
		return true
	default:
		return false
	}
}

// Signal is a process-control signal that ended a run.
// When failures were captured before the signal arrived,
// Message holds the original message followed by the rendered failures.
type Signal struct {
	Kind     SignalKind
	Message  string
	Cause    error
	Failures *AggregateError
}

func (sig Signal) Error() string {
	if sig.Message == "" {
		return sig.Kind.Error()
	}
	return sig.Message
}

// Is matches the SignalKind of the signal.
func (sig Signal) Is(target error) bool {
	kind, ok := target.(SignalKind)
	return ok && kind == sig.Kind
}

func (sig Signal) Unwrap() []error {
	var errs []error
	if sig.Cause != nil {
		errs = append(errs, sig.Cause)
	}
	if sig.Failures != nil {
		errs = append(errs, sig.Failures)
	}
	return errs
}

// LookupSignal reports whether err is a process-control signal.
// Only the kinds declared in this package count as signals,
// any other SignalKind value is an ordinary error.
func LookupSignal(err error) (Signal, bool) {
	if err == nil {
		return Signal{}, false
	}
	var sig Signal
	if errors.As(err, &sig) && sig.Kind.isKnown() {
		return sig, true
	}
	var kind SignalKind
	if errors.As(err, &kind) && kind.isKnown() {
		return Signal{Kind: kind, Message: messageOf(err), Cause: err}, true
	}
	return Signal{}, false
}

// messageOf returns the message of the error without the trace lines of a TracedError.
func messageOf(err error) string {
	for {
		traced, ok := err.(errorkit.TracedError)
		if !ok || traced.Err == nil {
			return err.Error()
		}
		err = traced.Err
	}
}

package core

import "fmt"

// ErrorKind enumerates the failure categories the core can report. The core
// never panics or returns Go errors across its public surface; every
// fallible operation returns a bool/sentinel plus routes a formatted
// message through the bound ErrorSink.
type ErrorKind int

const (
	ErrNone ErrorKind = iota
	ErrInvalidName
	ErrDuplicate
	ErrConflictingValue
	ErrConflictingFlags
	ErrNotFound
	ErrReadOnly
	ErrOutOfRange
	ErrTypeMismatch
	ErrBufferOverflow
	ErrParseError
	ErrRecursionLimit
	ErrDisabled
	ErrReentrant
	ErrIOFailed
)

func (k ErrorKind) String() string {
	switch k {
	case ErrNone:
		return "none"
	case ErrInvalidName:
		return "InvalidName"
	case ErrDuplicate:
		return "Duplicate"
	case ErrConflictingValue:
		return "ConflictingValue"
	case ErrConflictingFlags:
		return "ConflictingFlags"
	case ErrNotFound:
		return "NotFound"
	case ErrReadOnly:
		return "ReadOnly"
	case ErrOutOfRange:
		return "OutOfRange"
	case ErrTypeMismatch:
		return "TypeMismatch"
	case ErrBufferOverflow:
		return "BufferOverflow"
	case ErrParseError:
		return "ParseError"
	case ErrRecursionLimit:
		return "RecursionLimit"
	case ErrDisabled:
		return "Disabled"
	case ErrReentrant:
		return "Reentrant"
	case ErrIOFailed:
		return "IOFailed"
	default:
		return "Unknown"
	}
}

// ErrorSink is the collaborator contract for surfacing formatted failures.
// A global mute switch is modeled per-sink rather than as process state, per
// the "no global mutable state" design note.
type ErrorSink interface {
	Report(kind ErrorKind, message string, context string)
}

// ErrorSinkFunc adapts a plain function to the ErrorSink interface.
type ErrorSinkFunc func(kind ErrorKind, message string, context string)

func (f ErrorSinkFunc) Report(kind ErrorKind, message string, context string) {
	if f != nil {
		f(kind, message, context)
	}
}

// mutableSink wraps an ErrorSink with a mute switch, mirroring the source's
// global error-mute flag without resorting to a package-level variable.
type mutableSink struct {
	sink ErrorSink
	mute bool
}

func newMutableSink(sink ErrorSink) *mutableSink {
	if sink == nil {
		sink = newDefaultErrorSink()
	}
	return &mutableSink{sink: sink}
}

func (m *mutableSink) SetMuted(muted bool) { m.mute = muted }
func (m *mutableSink) Muted() bool         { return m.mute }

func (m *mutableSink) report(kind ErrorKind, format string, args ...interface{}) {
	if m.mute || m.sink == nil {
		return
	}
	m.sink.Report(kind, fmt.Sprintf(format, args...), "")
}

func (m *mutableSink) reportCtx(kind ErrorKind, context, format string, args ...interface{}) {
	if m.mute || m.sink == nil {
		return
	}
	m.sink.Report(kind, fmt.Sprintf(format, args...), context)
}

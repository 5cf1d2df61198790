// Package gzerr defines the structured error kinds surfaced across the
// gzstream pipeline's package boundary (codec session, buffered codec,
// stream adapter, facade).
package gzerr

import (
	"fmt"

	"github.com/pkg/errors"
)

// Kind classifies why an operation failed. See spec.md §7.
type Kind int

const (
	// CorruptedInput means the engine reported a data or dictionary error
	// while inflating.
	CorruptedInput Kind = iota + 1
	// EngineOom means the engine reported a memory-allocation failure.
	EngineOom
	// EngineBug means the engine reported an internal invariant violation
	// (zlib's STREAM_ERROR analog).
	EngineBug
	// DownstreamShortWrite means the downstream sink accepted fewer bytes
	// than it was offered.
	DownstreamShortWrite
	// DownstreamReadFailed means the downstream source returned an error.
	DownstreamReadFailed
	// OpenFailed means a convenience open-by-path call failed to establish
	// a sink/source.
	OpenFailed
	// WriteAfterFinal means Write was called after FinalFlush or Close.
	WriteAfterFinal
	// ModeMismatch means Read was called on a non-readable stream, or Write
	// on a non-writable one.
	ModeMismatch
)

func (k Kind) String() string {
	switch k {
	case CorruptedInput:
		return "CorruptedInput"
	case EngineOom:
		return "EngineOom"
	case EngineBug:
		return "EngineBug"
	case DownstreamShortWrite:
		return "DownstreamShortWrite"
	case DownstreamReadFailed:
		return "DownstreamReadFailed"
	case OpenFailed:
		return "OpenFailed"
	case WriteAfterFinal:
		return "WriteAfterFinal"
	case ModeMismatch:
		return "ModeMismatch"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Error is the concrete error type returned across the package boundary. It
// carries a Kind for programmatic dispatch (via errors.As) and wraps an
// underlying cause with a stack trace when one is available.
type Error struct {
	kind  Kind
	msg   string
	cause error
}

// New creates an *Error of the given kind whose cause is a fresh
// stack-carrying pkg/errors error with the same message.
func New(kind Kind, msg string) *Error {
	return &Error{kind: kind, msg: msg, cause: errors.New(msg)}
}

// Wrap creates an *Error of the given kind, wrapping cause with a stack
// trace via pkg/errors so the original failure site is preserved.
func Wrap(kind Kind, cause error, msg string) *Error {
	return &Error{kind: kind, msg: msg, cause: errors.Wrap(cause, msg)}
}

// Kind returns the error's classification.
func (e *Error) Kind() Kind { return e.kind }

// Error implements the error interface.
func (e *Error) Error() string {
	if e.cause != nil {
		return e.cause.Error()
	}
	return e.msg
}

// Unwrap allows errors.Is/errors.As to see through to the wrapped cause.
func (e *Error) Unwrap() error { return e.cause }

// Is reports whether target is a *Error with the same Kind, so callers can
// write errors.Is(err, gzerr.New(gzerr.CorruptedInput, "")) as a shorthand
// for "is this a CorruptedInput error".
func (e *Error) Is(target error) bool {
	other, ok := target.(*Error)
	if !ok {
		return false
	}
	return other.kind == e.kind
}

package gostblind

import (
	"fmt"
)

// ErrorKind classifies the failure modes of the scheme.
type ErrorKind string

const (
	// KindInvalidParameter marks contract violations by the caller:
	// bit lengths below the supported floor, empty participant sets,
	// out-of-range arguments.
	KindInvalidParameter ErrorKind = "invalid_parameter"
	// KindNotInvertible marks a modular inverse that does not exist.
	KindNotInvertible ErrorKind = "not_invertible"
	// KindMalformedRecord marks unparsable signature or record text.
	KindMalformedRecord ErrorKind = "malformed_record"
	// KindProtocol marks a participant contribution that breaks the
	// session rules, such as a reveal that contradicts its commitment.
	KindProtocol ErrorKind = "protocol"
	// KindRandomSource marks a failure of the system entropy source.
	KindRandomSource ErrorKind = "random_source"
	// KindCancelled marks a search loop stopped through its context.
	KindCancelled ErrorKind = "cancelled"
)

// Error is the structured error returned by every operation in this
// package. Kind supports programmatic matching, Op names the operation
// that failed, and Cause carries the underlying error when one exists.
type Error struct {
	Kind    ErrorKind
	Op      string
	Message string
	Cause   error
}

// Error implements the error interface.
func (e *Error) Error() string {
	switch {
	case e.Op != "" && e.Cause != nil:
		return fmt.Sprintf("[%s] %s: %s: %v", e.Kind, e.Op, e.Message, e.Cause)
	case e.Op != "":
		return fmt.Sprintf("[%s] %s: %s", e.Kind, e.Op, e.Message)
	case e.Cause != nil:
		return fmt.Sprintf("[%s] %s: %v", e.Kind, e.Message, e.Cause)
	}
	return fmt.Sprintf("[%s] %s", e.Kind, e.Message)
}

// Unwrap returns the underlying cause.
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is matches any *Error of the same kind, so errors.Is(err, ErrNotInvertible)
// works on wrapped instances.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Kind == e.Kind
}

// Sentinels for errors.Is matching.
var (
	ErrInvalidParameter  = &Error{Kind: KindInvalidParameter, Message: "invalid parameter"}
	ErrNotInvertible     = &Error{Kind: KindNotInvertible, Message: "element is not invertible"}
	ErrMalformedRecord   = &Error{Kind: KindMalformedRecord, Message: "malformed record"}
	ErrProtocolViolation = &Error{Kind: KindProtocol, Message: "protocol violation"}
	ErrRandomSource      = &Error{Kind: KindRandomSource, Message: "random source failure"}
	ErrCancelled         = &Error{Kind: KindCancelled, Message: "operation cancelled"}
)

// IsKind reports whether err is or wraps an *Error of the given kind.
func IsKind(err error, kind ErrorKind) bool {
	for err != nil {
		if e, ok := err.(*Error); ok && e.Kind == kind {
			return true
		}
		u, ok := err.(interface{ Unwrap() error })
		if !ok {
			return false
		}
		err = u.Unwrap()
	}
	return false
}

func newInvalidParameter(op, format string, args ...interface{}) *Error {
	return &Error{Kind: KindInvalidParameter, Op: op, Message: fmt.Sprintf(format, args...)}
}

func newNotInvertible(op, format string, args ...interface{}) *Error {
	return &Error{Kind: KindNotInvertible, Op: op, Message: fmt.Sprintf(format, args...)}
}

func newMalformedRecord(op, format string, args ...interface{}) *Error {
	return &Error{Kind: KindMalformedRecord, Op: op, Message: fmt.Sprintf(format, args...)}
}

func newProtocolViolation(op, format string, args ...interface{}) *Error {
	return &Error{Kind: KindProtocol, Op: op, Message: fmt.Sprintf(format, args...)}
}

func newRandomSource(op string, cause error) *Error {
	return &Error{Kind: KindRandomSource, Op: op, Message: "reading system entropy", Cause: cause}
}

// withCause returns a copy of e carrying cause.
func (e *Error) withCause(cause error) *Error {
	return &Error{Kind: e.Kind, Op: e.Op, Message: e.Message, Cause: cause}
}

// Package apperror defines the error taxonomy shared by every feature.
// Each error carries a machine-checkable Kind and a human-readable message.
package apperror

import (
	"errors"
	"fmt"
)

// Kind classifies an application error.
type Kind string

const (
	KindUnauthenticated    Kind = "Unauthenticated"
	KindInvalidInput       Kind = "InvalidInput"
	KindDuplicateIdentity  Kind = "DuplicateIdentity"
	KindInvalidCredentials Kind = "InvalidCredentials"
	KindPayloadTooLarge    Kind = "PayloadTooLarge"
	KindUnsupportedFormat  Kind = "UnsupportedFormat"
	KindParseError         Kind = "ParseError"
	KindNotFound           Kind = "NotFound"
	KindInvalidColumn      Kind = "InvalidColumn"
	KindInvalidChartType   Kind = "InvalidChartType"
	KindInternal           Kind = "Internal"
)

// Error is an application error with a kind, a message safe to show to the
// caller, and an optional wrapped cause that is never shown.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

// New returns an Error of the given kind.
func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

// Newf returns an Error of the given kind with a formatted message.
func Newf(kind Kind, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// Wrap returns an Error of the given kind wrapping cause.
func Wrap(kind Kind, message string, cause error) *Error {
	return &Error{Kind: kind, Message: message, Err: cause}
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is reports whether target is an *Error of the same kind, so sentinel
// errors match any error of their kind regardless of message.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind
}

// KindOf returns the kind of the first *Error in err's chain,
// or KindInternal when there is none.
func KindOf(err error) Kind {
	var ae *Error
	if errors.As(err, &ae) {
		return ae.Kind
	}
	return KindInternal
}

// MessageOf returns the caller-facing message of err.
// Errors outside the taxonomy get a generic message so internals never leak.
func MessageOf(err error) string {
	var ae *Error
	if errors.As(err, &ae) && ae.Kind != KindInternal {
		return ae.Message
	}
	return "internal server error"
}

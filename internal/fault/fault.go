// Package fault defines the error taxonomy shared by every service
// operation. Callers receive a stable kind plus a human-readable message;
// raw store errors are never exposed, they are wrapped into Unavailable.
package fault

import (
	"context"
	"errors"
	"fmt"
)

// Kind classifies a failure for the transport layer.
type Kind string

const (
	InvalidArgument Kind = "invalid_argument"
	NotFound        Kind = "not_found"
	Forbidden       Kind = "forbidden"
	Unauthenticated Kind = "unauthenticated"
	Conflict        Kind = "conflict"
	Unavailable     Kind = "unavailable"
	Revoked         Kind = "revoked"
	Expired         Kind = "expired"
)

// Error carries a taxonomy kind alongside the message shown to callers.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error { return e.Err }

// New constructs a classified error with no underlying cause.
func New(kind Kind, message string) error {
	return &Error{Kind: kind, Message: message}
}

// Wrap classifies an underlying error. The cause is retained for logging but
// never rendered to callers.
func Wrap(kind Kind, message string, err error) error {
	return &Error{Kind: kind, Message: message, Err: err}
}

// Store wraps a downstream store failure as Unavailable, mapping context
// deadline exhaustion the same way.
func Store(message string, err error) error {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return &Error{Kind: Unavailable, Message: message + " timed out", Err: err}
	}
	return &Error{Kind: Unavailable, Message: message, Err: err}
}

// KindOf extracts the taxonomy kind, defaulting to Unavailable for
// unclassified errors so internal details never leak.
func KindOf(err error) Kind {
	var fe *Error
	if errors.As(err, &fe) {
		return fe.Kind
	}
	return Unavailable
}

// MessageOf extracts the caller-visible message.
func MessageOf(err error) string {
	var fe *Error
	if errors.As(err, &fe) {
		return fe.Message
	}
	return "service unavailable"
}

// IsKind reports whether err carries the given kind.
func IsKind(err error, kind Kind) bool {
	return KindOf(err) == kind
}

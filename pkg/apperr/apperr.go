package apperr

import (
	"errors"
	"fmt"
)

// Kind classifies an error for transport mapping. Validation,
// authorization, not-found and conflict errors are detected before any
// write; a dependency error can only occur after a state transition has
// already committed.
type Kind string

const (
	Validation    Kind = "validation_error"
	Authorization Kind = "authorization_error"
	NotFound      Kind = "not_found"
	Conflict      Kind = "conflict"
	Dependency    Kind = "dependency_error"
)

type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

func Wrap(kind Kind, message string, err error) *Error {
	return &Error{Kind: kind, Message: message, Err: err}
}

// KindOf returns the kind of err, or "" if err is not an *Error.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ""
}

// Is reports whether err carries the given kind.
func Is(err error, kind Kind) bool {
	return KindOf(err) == kind
}

// Package apperr classifies failures so handlers can map them to HTTP
// responses in one place.
//
// Stores and handlers wrap causes with a Kind:
//
//	return apperr.Validation("slug", "slug is required")
//	return apperr.Wrap(apperr.KindInternal, "insert car", err)
//
// jsonutil.Fail inspects the kind with errors.As and picks the status.
package apperr

import (
	"errors"
	"fmt"
)

// Kind is the category of a failure.
type Kind int

const (
	KindInternal Kind = iota
	KindUnauthorized
	KindValidation
	KindNotFound
	KindConflict
)

func (k Kind) String() string {
	switch k {
	case KindUnauthorized:
		return "unauthorized"
	case KindValidation:
		return "validation"
	case KindNotFound:
		return "not_found"
	case KindConflict:
		return "conflict"
	default:
		return "internal"
	}
}

// Error is a classified error. Message is safe to show to clients; Err is the
// underlying cause and is only logged.
type Error struct {
	Kind    Kind
	Field   string
	Message string
	Err     error
}

func (e *Error) Error() string {
	switch {
	case e.Err != nil && e.Message != "":
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	case e.Err != nil:
		return e.Err.Error()
	default:
		return e.Message
	}
}

func (e *Error) Unwrap() error { return e.Err }

// Unauthorized reports a missing or insufficient principal.
func Unauthorized() error {
	return &Error{Kind: KindUnauthorized, Message: "Unauthorized"}
}

// Validation reports bad input on a named field.
func Validation(field, message string) error {
	return &Error{Kind: KindValidation, Field: field, Message: message}
}

// NotFound reports a missing entity.
func NotFound(what string) error {
	return &Error{Kind: KindNotFound, Message: what + " not found"}
}

// Conflict reports a uniqueness violation.
func Conflict(message string) error {
	return &Error{Kind: KindConflict, Message: message}
}

// Wrap attaches a kind and context message to err. A nil err yields nil.
func Wrap(kind Kind, message string, err error) error {
	if err == nil {
		return nil
	}
	return &Error{Kind: kind, Message: message, Err: err}
}

// KindOf returns the kind of err, or KindInternal for unclassified errors.
func KindOf(err error) Kind {
	var ae *Error
	if errors.As(err, &ae) {
		return ae.Kind
	}
	return KindInternal
}

// Is reports whether err carries the given kind.
func Is(err error, kind Kind) bool {
	return err != nil && KindOf(err) == kind
}

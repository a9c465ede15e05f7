// Package apperror classifies failures so the HTTP layer can pick a status
// code and a user-facing message.
package apperror

import (
	"errors"
	"fmt"
)

// Kind is the category of an application error.
type Kind int

const (
	KindInternal Kind = iota
	KindValidation
	KindNotFound
	KindBackend
	KindNotification
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindNotFound:
		return "not_found"
	case KindBackend:
		return "backend"
	case KindNotification:
		return "notification"
	default:
		return "internal"
	}
}

// Error represents an application error.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

// Error implements the error interface.
func (e *Error) Error() string {
	return e.Message
}

// Unwrap returns the wrapped error.
func (e *Error) Unwrap() error {
	return e.Err
}

// Validation reports missing or malformed input.
func Validation(msg string) *Error {
	return &Error{Kind: KindValidation, Message: msg}
}

// Validationf is Validation with formatting.
func Validationf(format string, args ...any) *Error {
	return Validation(fmt.Sprintf(format, args...))
}

// NotFound reports a referenced record that does not exist.
func NotFound(msg string) *Error {
	return &Error{Kind: KindNotFound, Message: msg}
}

// Backend wraps a failed datastore call.
func Backend(err error) *Error {
	return &Error{Kind: KindBackend, Message: "Database error: " + err.Error(), Err: err}
}

// Notification wraps a failed email send. These are logged, never returned
// to callers.
func Notification(err error) *Error {
	return &Error{Kind: KindNotification, Message: "Notification error: " + err.Error(), Err: err}
}

// FromBackend keeps classified errors as they are and wraps anything else as
// a backend failure.
func FromBackend(err error) error {
	if err == nil {
		return nil
	}
	var appErr *Error
	if errors.As(err, &appErr) {
		return err
	}
	return Backend(err)
}

// KindOf returns the kind of err, or KindInternal when err is unclassified.
func KindOf(err error) Kind {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Kind
	}
	return KindInternal
}

// Is reports whether err is an application error of the given kind.
func Is(err error, kind Kind) bool {
	return err != nil && KindOf(err) == kind
}

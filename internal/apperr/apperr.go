// Package apperr defines the error taxonomy shared by all modules. Services
// return these instead of raw storage errors so handlers can map them to
// status codes without string matching, and so internal errors never leak
// their underlying cause to clients.
package apperr

import (
	"errors"
	"fmt"
)

// Kind classifies an error for transport mapping.
type Kind int

const (
	// KindNotFound marks a missing entity (customer, product, order, payment).
	KindNotFound Kind = iota
	// KindValidation marks bad input or a violated business rule.
	KindValidation
	// KindConflict marks a lost concurrent-mutation race the caller may retry.
	KindConflict
	// KindInternal marks an unexpected failure, typically from storage.
	KindInternal
)

// Error carries the kind plus enough context to render a user-facing message.
type Error struct {
	Kind    Kind
	Entity  string // which entity, for not-found errors
	Field   string // which field, for validation errors
	Message string
	cause   error
}

func (e *Error) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.cause)
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.cause }

// NotFound reports that the named entity does not exist.
func NotFound(entity string) *Error {
	return &Error{Kind: KindNotFound, Entity: entity, Message: entity + " not found"}
}

// Validation reports a violated business rule on the given field.
func Validation(field, message string) *Error {
	return &Error{Kind: KindValidation, Field: field, Message: message}
}

// Validationf is Validation with a formatted message.
func Validationf(field, format string, args ...interface{}) *Error {
	return &Error{Kind: KindValidation, Field: field, Message: fmt.Sprintf(format, args...)}
}

// Conflict reports a concurrent mutation lost a race and may be retried.
func Conflict(message string) *Error {
	return &Error{Kind: KindConflict, Message: message}
}

// Internal wraps an unexpected failure. The cause is kept for logs and
// error chains but is not part of the client-facing message.
func Internal(message string, cause error) *Error {
	return &Error{Kind: KindInternal, Message: message, cause: cause}
}

// KindOf extracts the kind from an error chain, defaulting to KindInternal.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}

// IsNotFound reports whether err is a not-found error.
func IsNotFound(err error) bool { return KindOf(err) == KindNotFound }

// IsValidation reports whether err is a validation error.
func IsValidation(err error) bool { return KindOf(err) == KindValidation }

// IsConflict reports whether err is a conflict error.
func IsConflict(err error) bool { return KindOf(err) == KindConflict }

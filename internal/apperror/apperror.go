// Package apperror defines the domain error taxonomy shared by all layers.
//
// Services return these; HTTP handlers translate them to status codes and
// localized messages. Sentinel errors are checked with errors.Is, the
// *AppError wrapper is extracted with errors.As when the message or field
// is needed.
package apperror

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound     = errors.New("not found")
	ErrValidation   = errors.New("validation error")
	ErrConflict     = errors.New("conflict")
	ErrForbidden    = errors.New("forbidden")
	ErrUnauthorized = errors.New("unauthorized")
)

// AppError carries a user-facing message alongside the sentinel cause.
type AppError struct {
	Err     error  // sentinel cause
	Message string // human-readable, already localized
	Field   string // optional: form field that caused the error
}

func (e *AppError) Error() string {
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// NotFound returns an AppError for a missing resource.
// HTTP handlers map this to 404.
func NotFound(message string) *AppError {
	return &AppError{Err: ErrNotFound, Message: message}
}

// ValidationFailed returns an AppError for invalid user input on a field.
// The originating form is re-rendered with this message attached; it never
// propagates past the action boundary.
func ValidationFailed(field, message string) *AppError {
	return &AppError{
		Err:     ErrValidation,
		Message: message,
		Field:   field,
	}
}

// Conflict returns an AppError for a uniqueness violation.
func Conflict(message string) *AppError {
	return &AppError{Err: ErrConflict, Message: message}
}

// Forbidden returns an AppError indicating the caller lacks permission.
// HTTP handlers map this to 403.
func Forbidden(message string) *AppError {
	return &AppError{Err: ErrForbidden, Message: message}
}

// Unauthorized returns an AppError for failed credential checks.
func Unauthorized(message string) *AppError {
	return &AppError{Err: ErrUnauthorized, Message: message}
}

// Internal wraps an unexpected error with context for logs.
func Internal(context string, err error) error {
	return fmt.Errorf("%s: %w", context, err)
}

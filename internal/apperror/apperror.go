// Package apperror defines the application's error taxonomy.
//
// Services return errors wrapping one of the sentinels below; the HTTP
// layer maps them to status codes with errors.Is. Nothing in this package
// knows about HTTP.
package apperror

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound — a looked-up record does not exist.
	ErrNotFound = errors.New("not found")
	// ErrValidation — the caller's input is missing or malformed.
	ErrValidation = errors.New("validation error")
	// ErrConflict — a uniqueness constraint would be violated.
	ErrConflict = errors.New("conflict")
	// ErrUnauthorized — no verified identity on the request.
	ErrUnauthorized = errors.New("unauthorized")
	// ErrUpstream — the external reasoning service was unreachable or
	// returned a transport-level failure. Malformed *content* from the
	// service is not an error at all; it becomes the fallback verdict.
	ErrUpstream = errors.New("upstream unavailable")
)

// AppError carries a sentinel plus a human-readable message suitable for
// the response body.
type AppError struct {
	Err     error  // one of the sentinels above
	Message string // human-readable, safe to return to the caller
	Field   string // optional: input field causing the error
}

func (e *AppError) Error() string {
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

func NotFound(message string) *AppError {
	return &AppError{Err: ErrNotFound, Message: message}
}

func ValidationFailed(field, message string) *AppError {
	return &AppError{Err: ErrValidation, Message: message, Field: field}
}

func Conflict(message string) *AppError {
	return &AppError{Err: ErrConflict, Message: message}
}

func Unauthorized(message string) *AppError {
	return &AppError{Err: ErrUnauthorized, Message: message}
}

// Upstream wraps a transport failure from the reasoning service. The
// cause is retained for logs; the Message is what callers may see.
func Upstream(cause error) *AppError {
	return &AppError{
		Err:     fmt.Errorf("%w: %w", ErrUpstream, cause),
		Message: "AI reasoning failed",
	}
}

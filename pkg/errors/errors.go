package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// Error represents a typed domain error with HTTP awareness.
type Error struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Status  int    `json:"status"`
	Err     error  `json:"-"`
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e == nil {
		return "<nil>"
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap returns the wrapped error.
func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// New creates a new Error instance.
func New(code string, status int, message string) *Error {
	return &Error{Code: code, Status: status, Message: message}
}

// Wrap attaches context to an existing error.
func Wrap(err error, code string, status int, message string) *Error {
	return &Error{Code: code, Status: status, Message: message, Err: err}
}

// Predefined errors for common scenarios.
var (
	ErrUnauthorized       = New("UNAUTHORIZED", http.StatusUnauthorized, "unauthorized")
	ErrForbidden          = New("FORBIDDEN", http.StatusForbidden, "forbidden")
	ErrNotFound           = New("NOT_FOUND", http.StatusNotFound, "resource not found")
	ErrValidation         = New("VALIDATION_ERROR", http.StatusBadRequest, "validation failed")
	ErrInternal           = New("INTERNAL_ERROR", http.StatusInternalServerError, "internal server error")
	ErrInvalidCredentials = New("INVALID_CREDENTIALS", http.StatusUnauthorized, "invalid email or password")
)

// Authentication failures. Each one is surfaced distinctly so clients can pick a remediation flow.
var (
	ErrMissingToken         = New("MISSING_TOKEN", http.StatusBadRequest, "token is missing")
	ErrInvalidToken         = New("INVALID_TOKEN", http.StatusForbidden, "token is invalid")
	ErrExpiredToken         = New("EXPIRED_TOKEN", http.StatusUnauthorized, "token has expired")
	ErrInvalidAudience      = New("INVALID_AUDIENCE", http.StatusForbidden, "token audience is invalid")
	ErrInvalidPayload       = New("INVALID_PAYLOAD", http.StatusBadRequest, "token payload lacks a user identifier")
	ErrAuthenticationFailed = New("AUTHENTICATION_FAILED", http.StatusUnauthorized, "authentication failed")
)

// Data errors raised while reading or reconciling preferences.
var (
	ErrUnknownProfessor = New("UNKNOWN_PROFESSOR", http.StatusNotFound, "professor not found")
	ErrUnknownBlock     = New("UNKNOWN_BLOCK", http.StatusUnprocessableEntity, "schedule block not found")
	ErrNoShiftsAssigned = New("NO_SHIFTS_ASSIGNED", http.StatusNotFound, "no shifts assigned to professor")
)

// ErrCacheMiss signals that a cache lookup found nothing.
var ErrCacheMiss = errors.New("cache miss")

// Is reports whether err carries the same code as target.
func Is(err error, target *Error) bool {
	if err == nil || target == nil {
		return false
	}
	var e *Error
	if errors.As(err, &e) {
		return e.Code == target.Code
	}
	return false
}

// FromError normalises any error into an *Error.
func FromError(err error) *Error {
	if err == nil {
		return nil
	}
	var e *Error
	if errors.As(err, &e) {
		return e
	}
	return Wrap(err, ErrInternal.Code, ErrInternal.Status, ErrInternal.Message)
}

// Clone returns a copy of the error allowing for message overrides.
func Clone(err *Error, message string) *Error {
	if err == nil {
		return nil
	}
	clone := *err
	if message != "" {
		clone.Message = message
	}
	return &clone
}

// Package apperror provides domain-specific error types for Streamgate.
// These errors carry an HTTP status code and a user-safe message. The Echo
// error handler maps them to appropriate HTTP responses automatically.
//
// NEVER return raw database or infrastructure errors to the client. Always
// wrap them in an apperror type or return a generic internal error.
//
// Admission verdicts are the one exception to this taxonomy: the admission
// endpoint never surfaces an error kind. Every failure collapses to a
// plain deny so stream-key guessing gets no oracle.
package apperror

import (
	"fmt"
	"net/http"
)

// AppError is the base error type for all domain errors. It carries an
// HTTP status code, a machine-readable error type, and a human-readable
// message safe to show to the client.
type AppError struct {
	// Code is the HTTP status code (e.g., 404, 403, 500).
	Code int `json:"-"`

	// Type is a machine-readable error classifier (e.g., "name_taken").
	Type string `json:"type"`

	// Message is a human-readable description safe for the client.
	Message string `json:"message"`

	// Internal holds the underlying error for logging. Never exposed to client.
	Internal error `json:"-"`
}

// Error implements the error interface.
func (e *AppError) Error() string {
	if e.Internal != nil {
		return fmt.Sprintf("%s: %s (internal: %v)", e.Type, e.Message, e.Internal)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

// Unwrap returns the underlying error for errors.Is/As support.
func (e *AppError) Unwrap() error {
	return e.Internal
}

// --- Constructors for the Streamgate error taxonomy ---

// NewInvalidSession creates a 401 error for missing, expired, tampered, or
// otherwise unresolvable session tokens.
func NewInvalidSession() *AppError {
	return &AppError{
		Code:    http.StatusUnauthorized,
		Type:    "invalid_session",
		Message: "invalid or expired session",
	}
}

// NewNotFound creates a 404 error for a missing account.
func NewNotFound(message string) *AppError {
	return &AppError{
		Code:    http.StatusNotFound,
		Type:    "not_found",
		Message: message,
	}
}

// NewNameTaken creates a 409 error for a registration collision.
func NewNameTaken() *AppError {
	return &AppError{
		Code:    http.StatusConflict,
		Type:    "name_taken",
		Message: "username is already taken",
	}
}

// NewNoPermission creates a 403 error for a failed capability check.
func NewNoPermission() *AppError {
	return &AppError{
		Code:    http.StatusForbidden,
		Type:    "no_permission",
		Message: "you don't have permission to do that",
	}
}

// NewInvalidUsername creates a 400 error for a username that fails the
// format rule (4-25 characters, alphanumeric and underscore).
func NewInvalidUsername() *AppError {
	return &AppError{
		Code:    http.StatusBadRequest,
		Type:    "invalid_username",
		Message: "username must be 4-25 characters of letters, digits, or underscore",
	}
}

// NewInvalidPassword creates a 403 error for a failed password verification.
func NewInvalidPassword() *AppError {
	return &AppError{
		Code:    http.StatusForbidden,
		Type:    "invalid_password",
		Message: "invalid password",
	}
}

// NewBadRequest creates a 400 Bad Request error for malformed input.
func NewBadRequest(message string) *AppError {
	return &AppError{
		Code:    http.StatusBadRequest,
		Type:    "bad_request",
		Message: message,
	}
}

// NewStore creates a 500 error for a backing-store failure. The real error
// is stored in Internal for logging but the client only sees a generic
// message. Fatal to the request, never to the process.
func NewStore(err error) *AppError {
	return &AppError{
		Code:     http.StatusInternalServerError,
		Type:     "store_error",
		Message:  "an unexpected error occurred, please try again",
		Internal: err,
	}
}

// NewCodec creates a 500 error for a hashing or token-encoding failure.
func NewCodec(err error) *AppError {
	return &AppError{
		Code:     http.StatusInternalServerError,
		Type:     "codec_error",
		Message:  "an unexpected error occurred, please try again",
		Internal: err,
	}
}

// SafeMessage returns the client-safe error message from an error. If the
// error is an AppError, returns its Message field (which is safe to expose).
// For any other error type, returns a generic message to prevent leaking
// internal details like table names or query structure.
func SafeMessage(err error) string {
	if appErr, ok := err.(*AppError); ok {
		return appErr.Message
	}
	return "an unexpected error occurred"
}

// SafeCode returns the HTTP status code from an AppError, or 500 for
// any other error type.
func SafeCode(err error) int {
	if appErr, ok := err.(*AppError); ok {
		return appErr.Code
	}
	return http.StatusInternalServerError
}

// Package apperror provides the error taxonomy shared by the store API, the
// REST client, and the entity synchronization controllers. Every error
// carries an HTTP status code, a machine-readable type and a message that is
// safe to show to a user.
//
// NEVER return raw database or transport errors past a package boundary.
// Wrap them in an AppError, or let Classify fold them into the taxonomy.
package apperror

import (
	"context"
	"errors"
	"fmt"
	"net/http"
)

// Error types. The first four form the taxonomy that synchronization
// controllers expose to consumers; the rest are store-side refinements that
// Classify folds into one of the four.
const (
	TypeRemoteUnavailable = "remote_unavailable"
	TypeUnauthorized      = "unauthorized"
	TypeValidation        = "validation_error"
	TypeNotFound          = "not_found"

	TypeBadRequest = "bad_request"
	TypeForbidden  = "forbidden"
	TypeConflict   = "conflict"
	TypeInternal   = "internal_error"
)

// AppError is the base error type for all domain errors.
type AppError struct {
	// Code is the HTTP status code (e.g., 404, 422, 503).
	Code int `json:"-"`

	// Type is a machine-readable error classifier (e.g., "not_found").
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

// Retryable reports whether re-invoking the failed operation may succeed.
// Only transport failures qualify.
func (e *AppError) Retryable() bool {
	return e.Type == TypeRemoteUnavailable
}

// --- Constructors for the taxonomy ---

// NewRemoteUnavailable creates a 503 error for network or service failures.
func NewRemoteUnavailable(err error) *AppError {
	return &AppError{
		Code:     http.StatusServiceUnavailable,
		Type:     TypeRemoteUnavailable,
		Message:  "The service is temporarily unavailable. Please try again.",
		Internal: err,
	}
}

// NewUnauthorized creates a 401 Unauthorized error.
func NewUnauthorized(message string) *AppError {
	return &AppError{
		Code:    http.StatusUnauthorized,
		Type:    TypeUnauthorized,
		Message: message,
	}
}

// NewValidation creates a 422 Unprocessable Entity error for rejected payloads.
func NewValidation(message string) *AppError {
	return &AppError{
		Code:    http.StatusUnprocessableEntity,
		Type:    TypeValidation,
		Message: message,
	}
}

// NewNotFound creates a 404 Not Found error.
func NewNotFound(message string) *AppError {
	return &AppError{
		Code:    http.StatusNotFound,
		Type:    TypeNotFound,
		Message: message,
	}
}

// --- Store-side constructors ---

// NewBadRequest creates a 400 Bad Request error.
func NewBadRequest(message string) *AppError {
	return &AppError{
		Code:    http.StatusBadRequest,
		Type:    TypeBadRequest,
		Message: message,
	}
}

// NewForbidden creates a 403 Forbidden error.
func NewForbidden(message string) *AppError {
	return &AppError{
		Code:    http.StatusForbidden,
		Type:    TypeForbidden,
		Message: message,
	}
}

// NewConflict creates a 409 Conflict error.
func NewConflict(message string) *AppError {
	return &AppError{
		Code:    http.StatusConflict,
		Type:    TypeConflict,
		Message: message,
	}
}

// NewInternal creates a 500 Internal Server Error. The real error is stored
// in Internal for logging but the client only sees a generic message.
func NewInternal(err error) *AppError {
	return &AppError{
		Code:     http.StatusInternalServerError,
		Type:     TypeInternal,
		Message:  "An unexpected error occurred. Please try again.",
		Internal: err,
	}
}

// FromStatus rebuilds an AppError from an HTTP response, as received by a
// client of the store API. An unknown or empty errType is derived from code.
func FromStatus(code int, errType, message string) *AppError {
	if errType == "" {
		errType = typeForStatus(code)
	}
	if message == "" {
		message = http.StatusText(code)
	}
	return &AppError{Code: code, Type: errType, Message: message}
}

func typeForStatus(code int) string {
	switch code {
	case http.StatusBadRequest:
		return TypeBadRequest
	case http.StatusUnauthorized:
		return TypeUnauthorized
	case http.StatusForbidden:
		return TypeForbidden
	case http.StatusNotFound:
		return TypeNotFound
	case http.StatusConflict:
		return TypeConflict
	case http.StatusUnprocessableEntity:
		return TypeValidation
	case http.StatusInternalServerError:
		return TypeInternal
	case http.StatusRequestTimeout, http.StatusTooManyRequests:
		return TypeRemoteUnavailable
	}
	if code >= 400 && code < 500 {
		return TypeBadRequest
	}
	return TypeRemoteUnavailable
}

// Classify normalizes any error into one of the four taxonomy types:
// remote_unavailable, unauthorized, validation_error, not_found.
// It returns nil for a nil error.
func Classify(err error) *AppError {
	if err == nil {
		return nil
	}

	var appErr *AppError
	if errors.As(err, &appErr) {
		switch appErr.Type {
		case TypeRemoteUnavailable, TypeUnauthorized, TypeValidation, TypeNotFound:
			return appErr
		case TypeBadRequest, TypeConflict:
			return &AppError{Code: http.StatusUnprocessableEntity, Type: TypeValidation, Message: appErr.Message, Internal: appErr}
		case TypeForbidden:
			return &AppError{Code: http.StatusUnauthorized, Type: TypeUnauthorized, Message: appErr.Message, Internal: appErr}
		default:
			return NewRemoteUnavailable(appErr)
		}
	}

	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return &AppError{
			Code:     http.StatusServiceUnavailable,
			Type:     TypeRemoteUnavailable,
			Message:  "The request was canceled before the service answered.",
			Internal: err,
		}
	}
	return NewRemoteUnavailable(err)
}

// IsType reports whether err is (or wraps) an AppError of the given type.
func IsType(err error, errType string) bool {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Type == errType
	}
	return false
}

// SafeMessage returns the client-safe error message from an error. If the
// error is an AppError, returns its Message field (which is safe to expose).
// For any other error type, returns a generic message.
func SafeMessage(err error) string {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Message
	}
	return "an unexpected error occurred"
}

// SafeCode returns the HTTP status code from an AppError, or 500 for
// any other error type.
func SafeCode(err error) int {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code
	}
	return http.StatusInternalServerError
}

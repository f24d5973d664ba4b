// Package errors provides structured error handling with context propagation and HTTP status code mapping.
package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrorType represents the category of error for metrics and response formatting.
type ErrorType string

const (
	// TypeValidation indicates invalid input (HTTP 400)
	TypeValidation ErrorType = "validation"
	// TypeNotFound indicates the subject has no upstream data (HTTP 404)
	TypeNotFound ErrorType = "not_found"
	// TypeRateLimited indicates upstream or local throttling (HTTP 429)
	TypeRateLimited ErrorType = "rate_limited"
	// TypeUpstream indicates a transient collaborator failure (HTTP 502)
	TypeUpstream ErrorType = "upstream"
	// TypeInternal indicates server-side error (HTTP 500)
	TypeInternal ErrorType = "internal"
)

// Error represents a structured error with type, message, and context.
type Error struct {
	Type    ErrorType
	Message string
	Cause   error
	Context map[string]any
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Type, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

// Unwrap returns the underlying cause for errors.Is/As support.
func (e *Error) Unwrap() error {
	return e.Cause
}

// HTTPStatus returns the appropriate HTTP status code for this error type.
func (e *Error) HTTPStatus() int {
	switch e.Type {
	case TypeValidation:
		return http.StatusBadRequest
	case TypeNotFound:
		return http.StatusNotFound
	case TypeRateLimited:
		return http.StatusTooManyRequests
	case TypeUpstream:
		return http.StatusBadGateway
	case TypeInternal:
		return http.StatusInternalServerError
	default:
		return http.StatusInternalServerError
	}
}

// ValidationError creates a new validation error (HTTP 400).
func ValidationError(message string) *Error {
	return &Error{
		Type:    TypeValidation,
		Message: message,
		Context: make(map[string]any),
	}
}

// NotFoundError creates a new not-found error (HTTP 404).
func NotFoundError(message string) *Error {
	return &Error{
		Type:    TypeNotFound,
		Message: message,
		Context: make(map[string]any),
	}
}

// RateLimitedError creates a new rate-limited error (HTTP 429).
// retryAfterSeconds is attached as context so the transport layer can emit a
// Retry-After hint; pass 0 when no hint is known.
func RateLimitedError(message string, retryAfterSeconds int) *Error {
	e := &Error{
		Type:    TypeRateLimited,
		Message: message,
		Context: make(map[string]any),
	}
	if retryAfterSeconds > 0 {
		e.Context["retry_after"] = retryAfterSeconds
	}
	return e
}

// UpstreamError creates a new upstream collaborator error (HTTP 502).
func UpstreamError(message string, cause error) *Error {
	return &Error{
		Type:    TypeUpstream,
		Message: message,
		Cause:   cause,
		Context: make(map[string]any),
	}
}

// InternalError creates a new internal error (HTTP 500).
func InternalError(message string, cause error) *Error {
	return &Error{
		Type:    TypeInternal,
		Message: message,
		Cause:   cause,
		Context: make(map[string]any),
	}
}

// WithContext adds context fields to the error (chainable).
func (e *Error) WithContext(key string, value any) *Error {
	if e.Context == nil {
		e.Context = make(map[string]any)
	}
	e.Context[key] = value
	return e
}

// RetryAfter returns the retry hint in seconds, or 0 when none was attached.
func (e *Error) RetryAfter() int {
	if v, ok := e.Context["retry_after"].(int); ok {
		return v
	}
	return 0
}

// IsType reports whether err is a structured error of the given type.
func IsType(err error, t ErrorType) bool {
	var structuredErr *Error
	return errors.As(err, &structuredErr) && structuredErr.Type == t
}

// IsRateLimited reports whether err carries the rate-limited type. The engine
// uses this to decide whether the stale-cache fallback applies.
func IsRateLimited(err error) bool {
	return IsType(err, TypeRateLimited)
}

// IsNotFound reports whether err carries the not-found type.
func IsNotFound(err error) bool {
	return IsType(err, TypeNotFound)
}

// ErrorResponse represents the JSON structure sent to clients.
type ErrorResponse struct {
	Error   string         `json:"error"`
	Type    ErrorType      `json:"type"`
	Context map[string]any `json:"context,omitempty"`
}

// ToResponse converts an Error to an ErrorResponse for JSON serialization.
func (e *Error) ToResponse() ErrorResponse {
	return ErrorResponse{
		Error:   e.Message,
		Type:    e.Type,
		Context: e.Context,
	}
}

// AsStructuredError converts any error into a structured Error.
// If err is already an *Error, returns it unchanged.
// Otherwise wraps it as an internal error.
func AsStructuredError(err error) *Error {
	if err == nil {
		return nil
	}

	var structuredErr *Error
	if errors.As(err, &structuredErr) {
		return structuredErr
	}

	return InternalError("internal server error", err)
}

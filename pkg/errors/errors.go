package errors

import (
	"fmt"
	"net/http"
)

// Error codes used across the API. Store and upstream failures carry a
// generic user-facing message; the underlying cause is only logged.
const (
	CodeValidation    = "VALIDATION_ERROR"
	CodeQuotaExceeded = "QUOTA_EXCEEDED"
	CodeStore         = "STORE_ERROR"
	CodeUpstream      = "UPSTREAM_ERROR"
	CodeRateLimited   = "RATE_LIMIT_EXCEEDED"
	CodeInternal      = "INTERNAL_ERROR"
)

// AppError represents an application error with HTTP status code and error code
type AppError struct {
	StatusCode int    `json:"-"`
	Code       string `json:"code"`
	Message    string `json:"message"`
	Details    any    `json:"details,omitempty"`

	cause error
}

// Error implements the error interface
func (e *AppError) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.cause)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap exposes the underlying cause for errors.Is/As chains
func (e *AppError) Unwrap() error {
	return e.cause
}

// WithDetails adds details to the error
func (e *AppError) WithDetails(details any) *AppError {
	e.Details = details
	return e
}

// NewError creates a new application error
func NewError(statusCode int, code string, message string) *AppError {
	return &AppError{
		StatusCode: statusCode,
		Code:       code,
		Message:    message,
	}
}

// NewValidationError creates a 400 error for a missing or malformed request field
func NewValidationError(message string) *AppError {
	return NewError(http.StatusBadRequest, CodeValidation, message)
}

// NewQuotaExceededError creates a 400 error for an exhausted per-session quota
func NewQuotaExceededError(message string) *AppError {
	return NewError(http.StatusBadRequest, CodeQuotaExceeded, message)
}

// NewStoreError creates a 500 error for a persistence failure. The wrapped
// cause is kept for server-side logging and never serialized to the client.
func NewStoreError(message string, cause error) *AppError {
	err := NewError(http.StatusInternalServerError, CodeStore, message)
	err.cause = cause
	return err
}

// NewUpstreamError creates a 500 error for a completion API failure
func NewUpstreamError(message string, cause error) *AppError {
	err := NewError(http.StatusInternalServerError, CodeUpstream, message)
	err.cause = cause
	return err
}

// NewBadRequestError creates a 400 Bad Request error
func NewBadRequestError(code string, message string) *AppError {
	return NewError(http.StatusBadRequest, code, message)
}

// NewInternalServerError creates a 500 Internal Server Error
func NewInternalServerError(code string, message string) *AppError {
	return NewError(http.StatusInternalServerError, code, message)
}

// FromError converts a standard error to an AppError
// If the error is already an AppError, it is returned as-is
// Otherwise, it is wrapped as an internal server error
func FromError(err error) *AppError {
	if err == nil {
		return nil
	}

	if appErr, ok := err.(*AppError); ok {
		return appErr
	}

	return NewInternalServerError(CodeInternal, "An unexpected error occurred.")
}

// GetStatusCode extracts the HTTP status code from an AppError, returns 500 if not an AppError
func GetStatusCode(err error) int {
	if appErr, ok := err.(*AppError); ok {
		return appErr.StatusCode
	}
	return http.StatusInternalServerError
}

// Is checks if the target error is of type AppError with the same code
func Is(err error, target *AppError) bool {
	appErr, ok := err.(*AppError)
	if !ok {
		return false
	}
	return appErr.Code == target.Code
}

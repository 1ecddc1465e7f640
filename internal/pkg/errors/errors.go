package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"

	"github.com/orion-ad/guardian/pkg/client"
)

// AppError represents an application error with additional context
type AppError struct {
	Code       string      `json:"code"`
	Message    string      `json:"message"`
	StatusCode int         `json:"-"`
	Internal   error       `json:"-"`
	Details    interface{} `json:"details,omitempty"`
}

// Error implements the error interface
func (e *AppError) Error() string {
	if e.Internal != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Internal)
	}
	return e.Message
}

// Unwrap returns the internal error for errors.Is and errors.As
func (e *AppError) Unwrap() error {
	return e.Internal
}

// Common error codes
const (
	ErrCodeInternal           = "INTERNAL_ERROR"
	ErrCodeBadRequest         = "BAD_REQUEST"
	ErrCodeNotFound           = "NOT_FOUND"
	ErrCodeValidation         = "VALIDATION_ERROR"
	ErrCodeBackendUnavailable = "BACKEND_UNAVAILABLE"
	ErrCodeBackend            = "BACKEND_ERROR"
	ErrCodeDownloadFailed     = "DOWNLOAD_FAILED"
	ErrCodeRateLimited        = "RATE_LIMITED"
	ErrCodeServiceUnavailable = "SERVICE_UNAVAILABLE"
)

// New creates a new AppError
func New(code, message string, statusCode int) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		StatusCode: statusCode,
	}
}

// Wrap wraps an error with an AppError
func Wrap(err error, code, message string, statusCode int) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		StatusCode: statusCode,
		Internal:   err,
	}
}

// WithDetails adds details to an AppError
func (e *AppError) WithDetails(details interface{}) *AppError {
	e.Details = details
	return e
}

// Internal creates an internal server error
func Internal(message string, err error) *AppError {
	return Wrap(err, ErrCodeInternal, message, http.StatusInternalServerError)
}

// BadRequest creates a bad request error
func BadRequest(message string) *AppError {
	return New(ErrCodeBadRequest, message, http.StatusBadRequest)
}

// NotFound creates a not found error
func NotFound(resource string) *AppError {
	return New(ErrCodeNotFound, fmt.Sprintf("%s not found", resource), http.StatusNotFound)
}

// ValidationError creates a validation error
func ValidationError(message string, details interface{}) *AppError {
	return New(ErrCodeValidation, message, http.StatusBadRequest).WithDetails(details)
}

// BackendUnavailable is returned when the backend could not be reached.
func BackendUnavailable(err error) *AppError {
	return Wrap(err, ErrCodeBackendUnavailable, "Backend is unreachable", http.StatusBadGateway)
}

// BackendError passes a non-2xx backend status through as a 502.
func BackendError(status int, err error) *AppError {
	return Wrap(err, ErrCodeBackend,
		fmt.Sprintf("Backend responded with HTTP %d", status),
		http.StatusBadGateway).
		WithDetails(map[string]int{"upstream_status": status})
}

// DownloadFailed creates a download or sink failure error
func DownloadFailed(err error) *AppError {
	return Wrap(err, ErrCodeDownloadFailed, "Failed to save export", http.StatusInternalServerError)
}

// RateLimited creates a rate limited error
func RateLimited(message string) *AppError {
	return New(ErrCodeRateLimited, message, http.StatusTooManyRequests)
}

// ServiceUnavailable creates a service unavailable error
func ServiceUnavailable(message string) *AppError {
	return New(ErrCodeServiceUnavailable, message, http.StatusServiceUnavailable)
}

// FromBackend classifies an error returned by the backend client.
func FromBackend(err error) *AppError {
	if err == nil {
		return nil
	}

	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return appErr
	}

	if status := client.StatusCode(err); status != 0 {
		return BackendError(status, err)
	}
	return BackendUnavailable(err)
}

package client

import (
	"errors"
	"fmt"
	"net/http"
)

// HTTPError is returned when the backend answers with a non-2xx status.
// The response body is deliberately not parsed.
type HTTPError struct {
	StatusCode int
	Method     string
	Path       string
}

// Error implements the error interface
func (e *HTTPError) Error() string {
	return fmt.Sprintf("HTTP error: %d", e.StatusCode)
}

// IsNotFound returns true if the error is a 404 not found error
func (e *HTTPError) IsNotFound() bool {
	return e.StatusCode == http.StatusNotFound
}

// IsUnauthorized returns true if the error is a 401 or 403
func (e *HTTPError) IsUnauthorized() bool {
	return e.StatusCode == http.StatusUnauthorized || e.StatusCode == http.StatusForbidden
}

// IsServerError returns true if the error is a 5xx server error
func (e *HTTPError) IsServerError() bool {
	return e.StatusCode >= 500
}

// StatusCode extracts the upstream HTTP status from err, or 0 when err is
// not an *HTTPError (for example a transport failure).
func StatusCode(err error) int {
	var httpErr *HTTPError
	if errors.As(err, &httpErr) {
		return httpErr.StatusCode
	}
	return 0
}

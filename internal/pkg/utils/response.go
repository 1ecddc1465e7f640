package utils

import (
	"encoding/json"
	"net/http"

	"github.com/orion-ad/guardian/internal/pkg/errors"
)

// MaxRequestBody bounds JSON request bodies accepted by the API
const MaxRequestBody = 64 << 10

// Response is the envelope of every JSON reply. Data is set on success and
// Error on failure.
type Response[T any] struct {
	Success bool         `json:"success"`
	Message string       `json:"message,omitempty"`
	Data    *T           `json:"data,omitempty"`
	Error   *ErrorDetail `json:"error,omitempty"`
}

// ErrorDetail describes a failed request. UpstreamStatus carries the Orion
// backend status when the failure was passed through from it.
type ErrorDetail struct {
	Code           string      `json:"code"`
	Message        string      `json:"message"`
	UpstreamStatus int         `json:"upstream_status,omitempty"`
	Retryable      bool        `json:"retryable"`
	Details        interface{} `json:"details,omitempty"`
}

// NewErrorDetail flattens err for the wire
func NewErrorDetail(err *errors.AppError) *ErrorDetail {
	d := &ErrorDetail{
		Code:    err.Code,
		Message: err.Message,
		Details: err.Details,
	}
	if m, ok := err.Details.(map[string]int); ok {
		if status, ok := m["upstream_status"]; ok {
			d.UpstreamStatus = status
			d.Details = nil
		}
	}
	d.Retryable = retryable(d.Code, d.UpstreamStatus)
	return d
}

// retryable reports whether repeating the same request may succeed
func retryable(code string, upstream int) bool {
	switch code {
	case errors.ErrCodeBackendUnavailable, errors.ErrCodeServiceUnavailable, errors.ErrCodeRateLimited:
		return true
	case errors.ErrCodeBackend:
		return upstream >= http.StatusInternalServerError
	default:
		return false
	}
}

// WriteJSON writes v as JSON. Replies reflect live dashboard state, so
// they are never cached.
func WriteJSON(w http.ResponseWriter, status int, v interface{}) error {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(status)
	return json.NewEncoder(w).Encode(v)
}

// WriteData writes a successful reply carrying data
func WriteData[T any](w http.ResponseWriter, status int, data T) error {
	return WriteJSON(w, status, Response[T]{Success: true, Data: &data})
}

// WriteDataWithMessage writes a successful reply with a message, e.g. the
// backend's text for an alert action
func WriteDataWithMessage[T any](w http.ResponseWriter, status int, message string, data T) error {
	return WriteJSON(w, status, Response[T]{Success: true, Message: message, Data: &data})
}

// WriteError writes err with its HTTP status
func WriteError(w http.ResponseWriter, err *errors.AppError) error {
	return WriteJSON(w, err.StatusCode, Response[struct{}]{Error: NewErrorDetail(err)})
}

// DecodeJSON reads a bounded JSON body into v. Unknown fields are rejected
// so a misspelt filter key is not silently ignored.
func DecodeJSON(w http.ResponseWriter, r *http.Request, v interface{}) *errors.AppError {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, MaxRequestBody))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return errors.Wrap(err, errors.ErrCodeBadRequest, "Invalid request body", http.StatusBadRequest)
	}
	return nil
}

package dashboard

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/orion-ad/guardian/internal/domain/alert"
	"github.com/orion-ad/guardian/pkg/client"
)

// Status is the lifecycle state of the dashboard data.
type Status string

const (
	StatusIdle    Status = "idle"
	StatusLoading Status = "loading"
	StatusReady   Status = "ready"
	StatusError   Status = "error"
)

// Actions an operator can dispatch against an alert
const (
	ActionMarkRead  = "mark-read"
	ActionRemediate = "remediate"
)

// ActionOutcome describes the last dispatched alert action.
type ActionOutcome struct {
	Action       string    `json:"action"`
	AlertID      string    `json:"alert_id"`
	Message      string    `json:"message,omitempty"`
	ActionsTaken []string  `json:"actions_taken,omitempty"`
	Error        string    `json:"error,omitempty"`
	At           time.Time `json:"at"`
}

// Snapshot is a read-only copy of the dashboard state. Statistics and
// Config point at values that are replaced, never mutated, so they may be
// shared between snapshots.
type Snapshot struct {
	Status     Status                `json:"status"`
	Loading    bool                  `json:"loading"`
	Alerts     []client.Alert        `json:"alerts"`
	Total      int                   `json:"total"`
	Statistics *client.Statistics    `json:"statistics"`
	Config     *client.BackendConfig `json:"config"`
	Filter     alert.Filter          `json:"filter"`
	Error      string                `json:"error,omitempty"`
	LastAction *ActionOutcome        `json:"last_action,omitempty"`
	Seq        uint64                `json:"seq"`
	UpdatedAt  time.Time             `json:"updated_at"`
}

// HasData reports whether at least one cycle has been applied
func (s Snapshot) HasData() bool {
	return s.Seq > 0
}

// ProductionMode reports the backend mode from the config slice
func (s Snapshot) ProductionMode() bool {
	return s.Config != nil && s.Config.ProductionMode
}

// ErrorMessage converts a backend error into the message shown to operators.
func ErrorMessage(err error) string {
	if err == nil {
		return ""
	}
	if errors.Is(err, context.Canceled) {
		return "Request cancelled"
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return "Backend did not respond in time"
	}

	var httpErr *client.HTTPError
	if errors.As(err, &httpErr) {
		switch {
		case httpErr.IsUnauthorized():
			return fmt.Sprintf("Backend rejected the API key (HTTP %d)", httpErr.StatusCode)
		case httpErr.IsNotFound():
			return "Backend resource not found (HTTP 404)"
		default:
			return fmt.Sprintf("Backend responded with HTTP %d", httpErr.StatusCode)
		}
	}
	return fmt.Sprintf("Backend unreachable: %v", err)
}

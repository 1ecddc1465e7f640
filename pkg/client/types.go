package client

import (
	"encoding/json"
	"math"
	"time"
)

// Alert represents a single security alert raised by the backend detection
// system. The client never constructs one; it only holds what a poll returned.
type Alert struct {
	AlertID            string   `json:"alert_id"`
	EventID            string   `json:"event_id"`
	Severity           string   `json:"severity"` // critical, high, medium, low
	Title              string   `json:"title"`
	Description        string   `json:"description"`
	Timestamp          float64  `json:"timestamp"`
	SourceIP           string   `json:"source_ip"`
	User               string   `json:"user"`
	Status             string   `json:"status"` // new, read, remediated
	Read               bool     `json:"read"`
	Remediated         bool     `json:"remediated"`
	RemediationActions []string `json:"remediation_actions"`
}

// Time returns the alert timestamp as a time.Time.
func (a Alert) Time() time.Time {
	return EpochTime(a.Timestamp)
}

// AlertList is the response of GET /api/v1/alerts
type AlertList struct {
	Alerts []Alert `json:"alerts"`
	Total  int     `json:"total"`
}

// ActionResult is the response of the mark-read and remediate endpoints.
type ActionResult struct {
	Status  string   `json:"status,omitempty"`
	Message string   `json:"message"`
	Taken   []string `json:"actions_taken,omitempty"`
	Actions []string `json:"actions,omitempty"`
}

// ActionsTaken returns the remediation actions reported by the backend under
// either field name, without duplicates.
func (r *ActionResult) ActionsTaken() []string {
	if r == nil {
		return nil
	}
	seen := make(map[string]struct{}, len(r.Taken)+len(r.Actions))
	var out []string
	for _, list := range [][]string{r.Taken, r.Actions} {
		for _, action := range list {
			if _, ok := seen[action]; ok {
				continue
			}
			seen[action] = struct{}{}
			out = append(out, action)
		}
	}
	return out
}

// Statistics is an aggregate, read-only snapshot computed by the backend.
type Statistics struct {
	TotalAlerts      int             `json:"total_alerts"`
	AlertsBySeverity map[string]int  `json:"alerts_by_severity"`
	AlertsByType     map[string]int  `json:"alerts_by_type"`
	RecentActivity   []ActivityEntry `json:"recent_activity"`
	TopUsers         []UserCount     `json:"top_users"`
	TopIPs           []IPCount       `json:"top_ips"`
}

// ActivityEntry is one row of the recent activity list
type ActivityEntry struct {
	AlertID   string  `json:"alert_id"`
	Severity  string  `json:"severity"`
	Title     string  `json:"title"`
	User      string  `json:"user"`
	SourceIP  string  `json:"source_ip"`
	Timestamp float64 `json:"timestamp"`
}

// Time returns the activity timestamp as a time.Time.
func (e ActivityEntry) Time() time.Time {
	return EpochTime(e.Timestamp)
}

// UserCount is an entry of the top users list
type UserCount struct {
	User  string `json:"user"`
	Count int    `json:"count"`
}

// IPCount is an entry of the top source IPs list
type IPCount struct {
	IP    string `json:"ip"`
	Count int    `json:"count"`
}

// Backend configuration defaults, applied when a field is missing.
const (
	DefaultBackendVersion     = "unknown"
	DefaultMaxAlerts          = 1000
	DefaultAlertRetentionDays = 30
	DefaultAllowedOrigin      = "http://localhost:3180"
)

// BackendConfig is the runtime configuration reported by GET /api/v1/config.
// Unknown fields are preserved in Extra for display.
type BackendConfig struct {
	Version            string         `json:"version"`
	ProductionMode     bool           `json:"production_mode"`
	MaxAlerts          int            `json:"max_alerts"`
	AlertRetentionDays int            `json:"alert_retention_days"`
	AllowedOrigins     []string       `json:"allowed_origins"`
	Extra              map[string]any `json:"extra,omitempty"`
}

// DefaultBackendConfig returns a config populated with every default.
func DefaultBackendConfig() BackendConfig {
	return BackendConfig{
		Version:            DefaultBackendVersion,
		MaxAlerts:          DefaultMaxAlerts,
		AlertRetentionDays: DefaultAlertRetentionDays,
		AllowedOrigins:     []string{DefaultAllowedOrigin},
	}
}

// UnmarshalJSON decodes the known fields over the defaults and keeps the rest.
func (c *BackendConfig) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	cfg := DefaultBackendConfig()
	known := map[string]any{
		"version":              &cfg.Version,
		"production_mode":      &cfg.ProductionMode,
		"max_alerts":           &cfg.MaxAlerts,
		"alert_retention_days": &cfg.AlertRetentionDays,
		"allowed_origins":      &cfg.AllowedOrigins,
	}

	for key, value := range raw {
		target, ok := known[key]
		if !ok {
			var v any
			if err := json.Unmarshal(value, &v); err != nil {
				return err
			}
			if cfg.Extra == nil {
				cfg.Extra = make(map[string]any)
			}
			cfg.Extra[key] = v
			continue
		}
		if string(value) == "null" {
			continue
		}
		if err := json.Unmarshal(value, target); err != nil {
			return err
		}
	}

	*c = cfg
	return nil
}

// ExportOptions selects the export format and optional severity filter.
type ExportOptions struct {
	Format   string // json or csv
	Severity string
}

// ExportResult is the response of GET /api/v1/export/alerts.
type ExportResult struct {
	Content     string `json:"content"`
	ContentType string `json:"content_type"`
	Filename    string `json:"filename"`
}

// HealthResponse represents the backend health check response
type HealthResponse struct {
	Status         string  `json:"status"`
	Version        string  `json:"version,omitempty"`
	Timestamp      float64 `json:"timestamp"`
	ProductionMode bool    `json:"production_mode"`
	AlertsCount    int     `json:"alerts_count"`
	EventsCount    int     `json:"events_count"`
}

// epochMillisThreshold separates second-based from millisecond-based epochs:
// 1e11 seconds is year 5138, 1e11 milliseconds is 1973.
const epochMillisThreshold = 1e11

// EpochTime converts a backend epoch number to time.Time. Values that are
// too large to be seconds are read as milliseconds.
func EpochTime(v float64) time.Time {
	if v <= 0 || math.IsNaN(v) || math.IsInf(v, 0) {
		return time.Time{}
	}
	if v >= epochMillisThreshold {
		return time.UnixMilli(int64(v))
	}
	sec, frac := math.Modf(v)
	return time.Unix(int64(sec), int64(frac*1e9))
}

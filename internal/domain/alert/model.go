package alert

import (
	"strconv"
	"strings"

	"github.com/orion-ad/guardian/pkg/client"
)

// Alert is the backend alert as held by the dashboard.
type Alert = client.Alert

// Alert severity levels
const (
	SeverityCritical = "critical"
	SeverityHigh     = "high"
	SeverityMedium   = "medium"
	SeverityLow      = "low"
)

// Alert status
const (
	StatusNew        = "new"
	StatusRead       = "read"
	StatusRemediated = "remediated"
)

// DefaultLimit is the number of alerts requested when no limit is set
const DefaultLimit = 50

// NoLimit disables truncation in Apply. It is never accepted from users.
const NoLimit = -1

// Severities lists the known severities from most to least severe.
var Severities = []string{SeverityCritical, SeverityHigh, SeverityMedium, SeverityLow}

// Statuses lists the known alert statuses.
var Statuses = []string{StatusNew, StatusRead, StatusRemediated}

// Filter contains alert filtering options. Empty strings match everything.
type Filter struct {
	Severity string `json:"severity" validate:"omitempty,max=32"`
	Status   string `json:"status" validate:"omitempty,max=32"`
	Limit    int    `json:"limit" validate:"gte=0,lte=10000"`
}

// DefaultFilter returns the filter the dashboard starts with
func DefaultFilter() Filter {
	return Filter{Limit: DefaultLimit}
}

// ParseFilter coerces raw form values into a Filter. Input is never
// rejected: values are trimmed, a limit that is not a number falls back to
// DefaultLimit and a negative limit becomes 0.
func ParseFilter(severity, status, limit string) Filter {
	f := Filter{
		Severity: strings.TrimSpace(severity),
		Status:   strings.TrimSpace(status),
		Limit:    DefaultLimit,
	}

	if n, err := strconv.Atoi(strings.TrimSpace(limit)); err == nil {
		f.Limit = n
	}
	if f.Limit < 0 {
		f.Limit = 0
	}

	return f
}

// ListOptions converts the filter into backend query options
func (f Filter) ListOptions() *client.AlertListOptions {
	return &client.AlertListOptions{
		Severity: f.Severity,
		Status:   f.Status,
		Limit:    f.Limit,
	}
}

// Matches reports whether a passes the severity and status filter
func (f Filter) Matches(a Alert) bool {
	if f.Severity != "" && !strings.EqualFold(a.Severity, f.Severity) {
		return false
	}
	if f.Status != "" && !strings.EqualFold(a.Status, f.Status) {
		return false
	}
	return true
}

// Apply returns the alerts matching f in input order, truncated to f.Limit.
// A limit of 0 keeps nothing; a negative limit (NoLimit) disables
// truncation. The input is not modified.
func Apply(alerts []Alert, f Filter) []Alert {
	out := make([]Alert, 0, len(alerts))
	for _, a := range alerts {
		if f.Limit >= 0 && len(out) == f.Limit {
			break
		}
		if f.Matches(a) {
			out = append(out, a)
		}
	}
	return out
}

// SeverityRank orders severities from critical (0) to low (3). Unknown
// severities sort after all known ones.
func SeverityRank(severity string) int {
	for i, s := range Severities {
		if strings.EqualFold(s, severity) {
			return i
		}
	}
	return len(Severities)
}

// IsUnread reports whether the alert still needs attention
func IsUnread(a Alert) bool {
	return !a.Read
}

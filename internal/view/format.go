package view

import (
	"strings"
	"time"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/orion-ad/guardian/internal/domain/alert"
	"github.com/orion-ad/guardian/pkg/client"
)

// TimeLayout is used for every timestamp shown by the dashboard
const TimeLayout = "2006-01-02 15:04:05 UTC"

var printer = message.NewPrinter(language.English)

// SeverityClass returns the CSS class for a severity
func SeverityClass(severity string) string {
	switch s := strings.ToLower(severity); s {
	case alert.SeverityCritical, alert.SeverityHigh, alert.SeverityMedium, alert.SeverityLow:
		return "severity-" + s
	default:
		return "severity-unknown"
	}
}

// BadgeClass returns the CSS class for a severity badge
func BadgeClass(severity string) string {
	return "badge " + SeverityClass(severity)
}

// SeverityLabel returns the upper-cased severity shown on badges
func SeverityLabel(severity string) string {
	return strings.ToUpper(severity)
}

// FormatEpoch formats a backend epoch timestamp; zero renders as "-".
func FormatEpoch(v float64) string {
	return FormatTime(client.EpochTime(v))
}

// FormatTime formats t in UTC; the zero time renders as "-".
func FormatTime(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.UTC().Format(TimeLayout)
}

// FormatCount renders n with thousands separators
func FormatCount(n int) string {
	return printer.Sprintf("%d", n)
}

package view

import (
	"fmt"

	"github.com/orion-ad/guardian/internal/domain/alert"
	"github.com/orion-ad/guardian/pkg/client"
)

// PreviewLimit is the number of alerts shown in the export preview
const PreviewLimit = 10

// ExportFormats are the formats offered in the form
var ExportFormats = []string{"json", "csv"}

// ExportView is the model behind the export tab. The preview and counters
// are computed over the alerts matching the severity sent to the backend.
type ExportView struct {
	Format     string
	Severity   string
	Formats    []string
	Severities []string

	Preview     []AlertItem
	PreviewNote string

	Total       int
	Unread      int
	Remediated  int
	UniqueUsers int

	// Set after an export ran
	Content       string
	ContentLength int
	Message       string
	IsError       bool
}

// BuildExport builds the export model for alerts filtered by severity
func BuildExport(alerts []client.Alert, format, severity string) ExportView {
	if format == "" {
		format = "json"
	}
	matched := alert.Apply(alerts, alert.Filter{Severity: severity, Limit: alert.NoLimit})

	v := ExportView{
		Format:     format,
		Severity:   severity,
		Formats:    ExportFormats,
		Severities: alert.Severities,
		Total:      len(matched),
	}

	users := make(map[string]struct{})
	for i, a := range matched {
		if i < PreviewLimit {
			v.Preview = append(v.Preview, NewAlertItem(a))
		}
		if !a.Read {
			v.Unread++
		}
		if a.Remediated {
			v.Remediated++
		}
		if a.User != "" {
			users[a.User] = struct{}{}
		}
	}
	v.UniqueUsers = len(users)

	if len(matched) > PreviewLimit {
		v.PreviewNote = fmt.Sprintf("Showing first %d of %d alerts", PreviewLimit, len(matched))
	}
	return v
}

// WithContent attaches displayed export content
func (v ExportView) WithContent(content string) ExportView {
	v.Content = content
	v.ContentLength = len(content)
	return v
}

// WithMessage attaches a status message
func (v ExportView) WithMessage(msg string, isError bool) ExportView {
	v.Message = msg
	v.IsError = isError
	return v
}

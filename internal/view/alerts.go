package view

import (
	"fmt"

	"github.com/orion-ad/guardian/internal/domain/alert"
	"github.com/orion-ad/guardian/pkg/client"
)

// Empty state copy for the alert list
const (
	MsgNoAlerts      = "No alerts found"
	MsgNoAlertsHint  = "New alerts will appear here automatically"
	msgNoSeverityFmt = "No alerts with severity %q found"
)

// AlertItem is one rendered row of the alert list
type AlertItem struct {
	client.Alert
	SeverityLabel string
	SeverityClass string
	BadgeClass    string
	Time          string
	ShowReadBadge bool
	CanMarkRead   bool
	CanRemediate  bool
}

// AlertListView is the model behind the alert list
type AlertListView struct {
	Items        []AlertItem
	Filter       alert.Filter
	Empty        bool
	EmptyMessage string
	EmptyHint    string
	Severities   []string
	Statuses     []string
}

// NewAlertItem decorates a for display. mark-read is only offered while
// the alert is unread; remediation is always offered.
func NewAlertItem(a client.Alert) AlertItem {
	return AlertItem{
		Alert:         a,
		SeverityLabel: SeverityLabel(a.Severity),
		SeverityClass: SeverityClass(a.Severity),
		BadgeClass:    BadgeClass(a.Severity),
		Time:          FormatEpoch(a.Timestamp),
		ShowReadBadge: a.Read,
		CanMarkRead:   !a.Read,
		CanRemediate:  true,
	}
}

// BuildAlertList filters alerts with f and builds the list model
func BuildAlertList(alerts []client.Alert, f alert.Filter) AlertListView {
	filtered := alert.Apply(alerts, f)

	v := AlertListView{
		Items:      make([]AlertItem, 0, len(filtered)),
		Filter:     f,
		Severities: alert.Severities,
		Statuses:   alert.Statuses,
	}
	for _, a := range filtered {
		v.Items = append(v.Items, NewAlertItem(a))
	}

	if len(v.Items) == 0 {
		v.Empty = true
		v.EmptyMessage = EmptyMessage(f)
		v.EmptyHint = MsgNoAlertsHint
	}
	return v
}

// EmptyMessage returns the empty-state message for f
func EmptyMessage(f alert.Filter) string {
	if f.Severity != "" {
		return fmt.Sprintf(msgNoSeverityFmt, f.Severity)
	}
	return MsgNoAlerts
}

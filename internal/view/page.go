package view

import (
	"strings"

	"github.com/orion-ad/guardian/internal/dashboard"
)

// Dashboard tabs
const (
	TabAlerts = "alerts"
	TabStats  = "stats"
	TabExport = "export"
	TabConfig = "config"
)

// ProductName is shown in the header
const ProductName = "Orion AD Guardian"

// MsgLoading is shown while the first cycle is still running
const MsgLoading = "Loading dashboard data..."

// Tab is one navigation entry
type Tab struct {
	ID     string
	Label  string
	Count  int
	Active bool
}

// Header is the page header model
type Header struct {
	Product    string
	Version    string
	Production bool
	ModeLabel  string
	Loading    bool
	UpdatedAt  string
}

// Page is the full model rendered by the dashboard template
type Page struct {
	Header    Header
	Tabs      []Tab
	ActiveTab string

	// Loading is true while no cycle has been applied yet. Only the data
	// tabs wait on it; export results and action banners always render.
	Loading     bool
	LoadingText string
	Error       string

	LastAction *dashboard.ActionOutcome

	Alerts     AlertListView
	Statistics StatisticsView
	Export     ExportView
	Config     ConfigView
}

// NormalizeTab maps a query value onto a known tab
func NormalizeTab(tab string) string {
	switch t := strings.ToLower(strings.TrimSpace(tab)); t {
	case TabAlerts, TabStats, TabExport, TabConfig:
		return t
	default:
		return TabAlerts
	}
}

// BuildPage builds the page for snap with tab active
func BuildPage(snap dashboard.Snapshot, tab string) Page {
	tab = NormalizeTab(tab)

	header := Header{
		Product:    ProductName,
		Production: snap.ProductionMode(),
		ModeLabel:  ModeLabel(snap.ProductionMode()),
		Loading:    snap.Loading,
		UpdatedAt:  FormatTime(snap.UpdatedAt),
	}
	if snap.Config != nil {
		header.Version = snap.Config.Version
	}

	p := Page{
		Header:      header,
		ActiveTab:   tab,
		Loading:     !snap.HasData() && snap.Error == "",
		LoadingText: MsgLoading,
		Error:       snap.Error,
		LastAction:  snap.LastAction,
		Alerts:      BuildAlertList(snap.Alerts, snap.Filter),
		Statistics:  BuildStatistics(snap.Statistics),
		Export:      BuildExport(snap.Alerts, "", ""),
		Config:      BuildConfig(snap.Config),
	}

	p.Tabs = []Tab{
		{ID: TabAlerts, Label: "Alerts", Count: len(snap.Alerts)},
		{ID: TabStats, Label: "Statistics"},
		{ID: TabExport, Label: "Export"},
		{ID: TabConfig, Label: "Configuration"},
	}
	for i := range p.Tabs {
		p.Tabs[i].Active = p.Tabs[i].ID == tab
	}

	return p
}

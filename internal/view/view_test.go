package view

import (
	"strings"
	"testing"
	"time"

	"github.com/orion-ad/guardian/internal/dashboard"
	"github.com/orion-ad/guardian/internal/domain/alert"
	"github.com/orion-ad/guardian/internal/testutil"
	"github.com/orion-ad/guardian/pkg/client"
)

func TestBuildAlertList_EmptyMessages(t *testing.T) {
	tests := []struct {
		name   string
		alerts []client.Alert
		filter alert.Filter
		want   string
	}{
		{name: "no alerts at all", filter: alert.Filter{Limit: 50}, want: "No alerts found"},
		{
			name:   "no alerts of severity",
			alerts: []client.Alert{testutil.Alert("a1", "low", "new")},
			filter: alert.Filter{Severity: "critical", Limit: 50},
			want:   `No alerts with severity "critical" found`,
		},
		{
			name:   "status filter without severity",
			alerts: []client.Alert{testutil.Alert("a1", "low", "new")},
			filter: alert.Filter{Status: "remediated", Limit: 50},
			want:   "No alerts found",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := BuildAlertList(tt.alerts, tt.filter)
			if !v.Empty {
				t.Fatal("expected empty state")
			}
			if v.EmptyMessage != tt.want {
				t.Errorf("EmptyMessage = %q, want %q", v.EmptyMessage, tt.want)
			}
			if v.EmptyHint != MsgNoAlertsHint {
				t.Errorf("EmptyHint = %q", v.EmptyHint)
			}
		})
	}
}

func TestBuildAlertList_Items(t *testing.T) {
	alerts := []client.Alert{
		testutil.Alert("a1", "critical", "new"),
		testutil.Alert("a2", "low", "read"),
	}

	v := BuildAlertList(alerts, alert.Filter{Severity: "critical", Limit: 50})
	if len(v.Items) != 1 {
		t.Fatalf("got %d items, want 1", len(v.Items))
	}

	item := v.Items[0]
	if item.SeverityLabel != "CRITICAL" || item.SeverityClass != "severity-critical" {
		t.Errorf("severity presentation = %s/%s", item.SeverityLabel, item.SeverityClass)
	}
	if !item.CanMarkRead || !item.CanRemediate || item.ShowReadBadge {
		t.Errorf("unread item intents wrong: %+v", item)
	}

	read := NewAlertItem(alerts[1])
	if read.CanMarkRead || !read.CanRemediate || !read.ShowReadBadge {
		t.Errorf("read item intents wrong: %+v", read)
	}
	if read.Time != "2023-11-14 22:13:20 UTC" {
		t.Errorf("Time = %s", read.Time)
	}
}

func TestBarWidth(t *testing.T) {
	tests := []struct {
		count, total int
		want         float64
	}{
		{count: 5, total: 0, want: 0},
		{count: 5, total: -3, want: 0},
		{count: 1, total: 4, want: 25},
		{count: 9, total: 4, want: 100},
		{count: -1, total: 4, want: 0},
	}

	for _, tt := range tests {
		if got := BarWidth(tt.count, tt.total); got != tt.want {
			t.Errorf("BarWidth(%d, %d) = %v, want %v", tt.count, tt.total, got, tt.want)
		}
	}
}

func TestBuildStatistics(t *testing.T) {
	if v := BuildStatistics(nil); v.Available || v.EmptyMessage != MsgNoStatistics {
		t.Errorf("nil statistics = %+v", v)
	}

	stats := &client.Statistics{
		TotalAlerts:      0,
		AlertsBySeverity: map[string]int{"low": 1, "info": 2, "critical": 3, "high": 0},
		AlertsByType:     map[string]int{"brute_force": 2, "after_hours": 2, "priv_esc": 5},
		TopUsers:         make([]client.UserCount, 12),
		TopIPs:           []client.IPCount{{IP: "10.0.0.1", Count: 3}},
		RecentActivity:   make([]client.ActivityEntry, 25),
	}

	v := BuildStatistics(stats)

	var order []string
	for _, bar := range v.Severity {
		order = append(order, bar.Severity)
		if bar.Width != 0 {
			t.Errorf("bar %s width = %v with zero total", bar.Severity, bar.Width)
		}
	}
	if got := strings.Join(order, ","); got != "critical,high,low,info" {
		t.Errorf("severity order = %s", got)
	}

	var types []string
	for _, et := range v.EventTypes {
		types = append(types, et.Name)
	}
	if got := strings.Join(types, ","); got != "priv_esc,after_hours,brute_force" {
		t.Errorf("event type order = %s", got)
	}

	if v.ActiveUsers != 12 || len(v.TopUsers) != TopUsersLimit {
		t.Errorf("users: active %d shown %d", v.ActiveUsers, len(v.TopUsers))
	}
	if v.RecentCount != 25 || len(v.Recent) != RecentActivityLimit {
		t.Errorf("recent: count %d shown %d", v.RecentCount, len(v.Recent))
	}
	if v.EventTypeCount != 3 {
		t.Errorf("EventTypeCount = %d", v.EventTypeCount)
	}
}

func TestBuildExport_PreviewUsesExportSeverity(t *testing.T) {
	var alerts []client.Alert
	for i := 0; i < 12; i++ {
		alerts = append(alerts, testutil.Alert(string(rune('a'+i)), "high", "new"))
	}
	alerts = append(alerts, testutil.Alert("x", "low", "read"))
	alerts[0].Remediated = true
	alerts[1].User = "bob"

	v := BuildExport(alerts, "csv", "HIGH")
	if v.Total != 12 {
		t.Errorf("Total = %d, want 12", v.Total)
	}
	if len(v.Preview) != PreviewLimit {
		t.Errorf("preview size = %d", len(v.Preview))
	}
	for _, item := range v.Preview {
		if item.Severity != "high" {
			t.Errorf("preview contains %s alert", item.Severity)
		}
	}
	if v.PreviewNote != "Showing first 10 of 12 alerts" {
		t.Errorf("PreviewNote = %q", v.PreviewNote)
	}
	if v.Unread != 12 || v.Remediated != 1 || v.UniqueUsers != 2 {
		t.Errorf("counters = unread %d remediated %d users %d", v.Unread, v.Remediated, v.UniqueUsers)
	}

	all := BuildExport(alerts, "", "")
	if all.Total != 13 || all.Format != "json" || all.PreviewNote == "" {
		t.Errorf("unfiltered export = total %d format %s", all.Total, all.Format)
	}
}

func TestBuildConfig(t *testing.T) {
	if v := BuildConfig(nil); v.Available || v.EmptyMessage != MsgNoConfig {
		t.Errorf("nil config = %+v", v)
	}

	cfg := client.DefaultBackendConfig()
	cfg.MaxAlerts = 25000
	cfg.Extra = map[string]interface{}{"region": "eu-west-1", "features": []interface{}{"a", "b"}}

	v := BuildConfig(&cfg)
	if v.MaxAlerts != "25,000" {
		t.Errorf("MaxAlerts = %s", v.MaxAlerts)
	}
	if v.Warning == "" || v.ModeLabel != ModeDevelopment {
		t.Errorf("dev mode not flagged: %+v", v)
	}
	if len(v.Extra) != 2 || v.Extra[0].Key != "features" || v.Extra[0].Value != `["a","b"]` {
		t.Errorf("Extra = %+v", v.Extra)
	}

	cfg.ProductionMode = true
	if v := BuildConfig(&cfg); v.Warning != "" || v.ModeLabel != ModeProduction {
		t.Errorf("production config = %+v", v)
	}
}

func TestBuildPage(t *testing.T) {
	cfg := client.DefaultBackendConfig()
	cfg.Version = "2.0.0"
	cfg.ProductionMode = true

	snap := dashboard.Snapshot{
		Alerts:    []client.Alert{testutil.Alert("a1", "high", "new")},
		Config:    &cfg,
		Filter:    alert.DefaultFilter(),
		Seq:       1,
		UpdatedAt: time.Unix(1700000000, 0),
	}

	p := BuildPage(snap, "STATS")
	if p.ActiveTab != TabStats {
		t.Errorf("ActiveTab = %s", p.ActiveTab)
	}
	if p.Header.Version != "2.0.0" || p.Header.ModeLabel != ModeProduction {
		t.Errorf("Header = %+v", p.Header)
	}
	if p.Tabs[0].Count != 1 || p.Tabs[0].Active || !p.Tabs[1].Active {
		t.Errorf("Tabs = %+v", p.Tabs)
	}
	if p.Loading {
		t.Error("Loading should be false once data is applied")
	}

	if BuildPage(dashboard.Snapshot{}, "bogus").ActiveTab != TabAlerts {
		t.Error("unknown tab should fall back to alerts")
	}
	if !BuildPage(dashboard.Snapshot{}, "").Loading {
		t.Error("page without data should be loading")
	}
}

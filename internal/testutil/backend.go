package testutil

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/orion-ad/guardian/pkg/client"
)

// FakeBackend is an in-memory Orion backend served over httptest. It
// understands the alert, statistics, config, export and action endpoints
// and records every call.
type FakeBackend struct {
	Server *httptest.Server

	mu       sync.Mutex
	alerts   []client.Alert
	stats    *client.Statistics
	config   map[string]interface{}
	status   map[string]int
	calls    map[string]int
	auth     []string
	queries  []string
	csv      string
	actions  []string
	exportAt time.Time
}

// NewFakeBackend starts a fake backend that is closed with the test.
func NewFakeBackend(t *testing.T) *FakeBackend {
	t.Helper()

	b := &FakeBackend{
		config: map[string]interface{}{
			"version":              "2.0.0",
			"production_mode":      false,
			"max_alerts":           1000,
			"alert_retention_days": 30,
			"allowed_origins":      []string{"http://localhost:3180"},
		},
		status:   make(map[string]int),
		calls:    make(map[string]int),
		csv:      "alert_id,severity\n",
		actions:  []string{"disable_user", "block_ip"},
		exportAt: time.Unix(1700000000, 0),
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/api/v1/alerts", b.handleAlerts)
	mux.HandleFunc("/api/v1/alerts/", b.handleAction)
	mux.HandleFunc("/api/v1/statistics", b.handleStatistics)
	mux.HandleFunc("/api/v1/config", b.handleConfig)
	mux.HandleFunc("/api/v1/export/alerts", b.handleExport)
	mux.HandleFunc("/health", b.handleHealth)

	b.Server = httptest.NewServer(mux)
	t.Cleanup(b.Server.Close)
	return b
}

// URL returns the base URL of the fake backend
func (b *FakeBackend) URL() string {
	return b.Server.URL
}

// Client returns an API client pointed at the fake backend
func (b *FakeBackend) Client(apiKey string) *client.Client {
	return client.NewClient(client.Config{BaseURL: b.Server.URL, APIKey: apiKey})
}

// SetAlerts replaces the stored alerts
func (b *FakeBackend) SetAlerts(alerts ...client.Alert) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.alerts = append([]client.Alert(nil), alerts...)
}

// SetStatistics replaces the statistics response. Nil derives them from
// the stored alerts.
func (b *FakeBackend) SetStatistics(stats *client.Statistics) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.stats = stats
}

// SetConfig replaces the raw config response
func (b *FakeBackend) SetConfig(cfg map[string]interface{}) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.config = cfg
}

// SetCSV sets the CSV export content
func (b *FakeBackend) SetCSV(content string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.csv = content
}

// FailPath makes every request to path answer with status
func (b *FakeBackend) FailPath(path string, status int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.status[path] = status
}

// Calls returns how many times path was requested
func (b *FakeBackend) Calls(path string) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.calls[path]
}

// Authorizations returns the Authorization headers received, in order
func (b *FakeBackend) Authorizations() []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]string(nil), b.auth...)
}

// Queries returns the raw query strings received, in order
func (b *FakeBackend) Queries() []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]string(nil), b.queries...)
}

// ExportFilename is the name the fake backend gives CSV exports
func (b *FakeBackend) ExportFilename() string {
	return fmt.Sprintf("alerts_export_%d.csv", b.exportAt.Unix())
}

func (b *FakeBackend) record(w http.ResponseWriter, r *http.Request) bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.calls[r.URL.Path]++
	b.auth = append(b.auth, r.Header.Get("Authorization"))
	b.queries = append(b.queries, r.URL.RawQuery)

	if code, ok := b.status[r.URL.Path]; ok {
		w.WriteHeader(code)
		_, _ = w.Write([]byte(`{"detail":"scripted failure"}`))
		return false
	}
	return true
}

func (b *FakeBackend) handleAlerts(w http.ResponseWriter, r *http.Request) {
	if !b.record(w, r) {
		return
	}
	q := r.URL.Query()
	limit, err := strconv.Atoi(q.Get("limit"))
	if err != nil {
		limit = 100
	}

	b.mu.Lock()
	out := []client.Alert{}
	for _, a := range b.alerts {
		if s := q.Get("severity"); s != "" && a.Severity != s {
			continue
		}
		if s := q.Get("status"); s != "" && a.Status != s {
			continue
		}
		out = append(out, a)
	}
	b.mu.Unlock()

	total := len(out)
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	writeJSON(w, map[string]interface{}{"alerts": out, "total": total})
}

func (b *FakeBackend) handleAction(w http.ResponseWriter, r *http.Request) {
	if !b.record(w, r) {
		return
	}
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	rest := strings.TrimPrefix(r.URL.Path, "/api/v1/alerts/")
	id, action, ok := strings.Cut(rest, "/")
	if !ok {
		w.WriteHeader(http.StatusNotFound)
		return
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	idx := -1
	for i := range b.alerts {
		if b.alerts[i].AlertID == id {
			idx = i
		}
	}
	if idx < 0 {
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"detail":"Alert not found"}`))
		return
	}

	switch action {
	case "mark-read":
		b.alerts[idx].Read = true
		b.alerts[idx].Status = "read"
		writeJSON(w, map[string]interface{}{"status": "success", "message": "Alert marked as read"})
	case "remediate":
		b.alerts[idx].Remediated = true
		b.alerts[idx].Status = "remediated"
		b.alerts[idx].RemediationActions = b.actions
		writeJSON(w, map[string]interface{}{
			"status":  "success",
			"message": "Remediation triggered",
			"actions": b.actions,
		})
	default:
		w.WriteHeader(http.StatusNotFound)
	}
}

func (b *FakeBackend) handleStatistics(w http.ResponseWriter, r *http.Request) {
	if !b.record(w, r) {
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.stats != nil {
		writeJSON(w, b.stats)
		return
	}

	stats := client.Statistics{
		TotalAlerts:      len(b.alerts),
		AlertsBySeverity: map[string]int{},
		AlertsByType:     map[string]int{},
	}
	for _, a := range b.alerts {
		stats.AlertsBySeverity[a.Severity]++
		stats.AlertsByType[a.Title]++
		stats.RecentActivity = append(stats.RecentActivity, client.ActivityEntry{
			AlertID:   a.AlertID,
			Severity:  a.Severity,
			Title:     a.Title,
			User:      a.User,
			SourceIP:  a.SourceIP,
			Timestamp: a.Timestamp,
		})
	}
	writeJSON(w, stats)
}

func (b *FakeBackend) handleConfig(w http.ResponseWriter, r *http.Request) {
	if !b.record(w, r) {
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	writeJSON(w, b.config)
}

func (b *FakeBackend) handleExport(w http.ResponseWriter, r *http.Request) {
	if !b.record(w, r) {
		return
	}
	q := r.URL.Query()

	b.mu.Lock()
	defer b.mu.Unlock()

	if q.Get("format") == "csv" {
		writeJSON(w, map[string]interface{}{
			"content":      b.csv,
			"content_type": "text/csv",
			"filename":     fmt.Sprintf("alerts_export_%d.csv", b.exportAt.Unix()),
		})
		return
	}

	out := []client.Alert{}
	for _, a := range b.alerts {
		if s := q.Get("severity"); s != "" && a.Severity != s {
			continue
		}
		out = append(out, a)
	}
	writeJSON(w, map[string]interface{}{
		"alerts":           out,
		"export_timestamp": b.exportAt.Unix(),
		"total_count":      len(out),
	})
}

func (b *FakeBackend) handleHealth(w http.ResponseWriter, r *http.Request) {
	if !b.record(w, r) {
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	writeJSON(w, map[string]interface{}{
		"status":          "healthy",
		"timestamp":       float64(b.exportAt.Unix()),
		"version":         "2.0.0",
		"production_mode": false,
		"alerts_count":    len(b.alerts),
		"events_count":    0,
	})
}

func writeJSON(w http.ResponseWriter, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}

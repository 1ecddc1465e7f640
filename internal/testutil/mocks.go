package testutil

import (
	"context"
	"fmt"
	"sync"

	"github.com/orion-ad/guardian/pkg/client"
)

// MockBackend is an in-process implementation of the dashboard backend.
// Hooks, when set, replace the default responses.
type MockBackend struct {
	mu sync.Mutex

	Alerts        []client.Alert
	Stats         *client.Statistics
	BackendConfig *client.BackendConfig

	ListError      error
	StatsError     error
	ConfigError    error
	MarkReadError  error
	RemediateError error

	ListHook func(ctx context.Context, opts *client.AlertListOptions) (*client.AlertList, error)

	ListCalls      int
	MarkReadIDs    []string
	RemediateIDs   []string
	LastListFilter client.AlertListOptions
}

// NewMockBackend creates a mock backend holding alerts
func NewMockBackend(alerts ...client.Alert) *MockBackend {
	cfg := client.DefaultBackendConfig()
	return &MockBackend{
		Alerts:        alerts,
		Stats:         &client.Statistics{TotalAlerts: len(alerts)},
		BackendConfig: &cfg,
	}
}

func (m *MockBackend) ListAlerts(ctx context.Context, opts *client.AlertListOptions) (*client.AlertList, error) {
	m.mu.Lock()
	m.ListCalls++
	if opts != nil {
		m.LastListFilter = *opts
	}
	hook := m.ListHook
	err := m.ListError
	alerts := append([]client.Alert(nil), m.Alerts...)
	m.mu.Unlock()

	if hook != nil {
		return hook(ctx, opts)
	}
	if err != nil {
		return nil, err
	}
	return &client.AlertList{Alerts: alerts, Total: len(alerts)}, nil
}

func (m *MockBackend) Statistics(ctx context.Context) (*client.Statistics, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.StatsError != nil {
		return nil, m.StatsError
	}
	return m.Stats, nil
}

func (m *MockBackend) Config(ctx context.Context) (*client.BackendConfig, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.ConfigError != nil {
		return nil, m.ConfigError
	}
	return m.BackendConfig, nil
}

func (m *MockBackend) MarkRead(ctx context.Context, id string) (*client.ActionResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.MarkReadIDs = append(m.MarkReadIDs, id)
	if m.MarkReadError != nil {
		return nil, m.MarkReadError
	}
	for i := range m.Alerts {
		if m.Alerts[i].AlertID == id {
			m.Alerts[i].Read = true
			m.Alerts[i].Status = "read"
			return &client.ActionResult{Status: "success", Message: "Alert marked as read"}, nil
		}
	}
	return nil, &client.HTTPError{StatusCode: 404, Method: "POST", Path: "/api/v1/alerts/" + id + "/mark-read"}
}

func (m *MockBackend) Remediate(ctx context.Context, id string) (*client.ActionResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.RemediateIDs = append(m.RemediateIDs, id)
	if m.RemediateError != nil {
		return nil, m.RemediateError
	}
	for i := range m.Alerts {
		if m.Alerts[i].AlertID == id {
			m.Alerts[i].Remediated = true
			m.Alerts[i].Status = "remediated"
			return &client.ActionResult{
				Status:  "success",
				Message: "Remediation triggered",
				Taken:   []string{"disable_user"},
			}, nil
		}
	}
	return nil, &client.HTTPError{StatusCode: 404, Method: "POST", Path: "/api/v1/alerts/" + id + "/remediate"}
}

// Download is one recorded Downloader call
type Download struct {
	Filename    string
	ContentType string
	Content     []byte
}

// RecordingDownloader records every download instead of saving it
type RecordingDownloader struct {
	mu        sync.Mutex
	Downloads []Download
	Err       error
}

func (d *RecordingDownloader) Download(ctx context.Context, filename, contentType string, content []byte) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.Downloads = append(d.Downloads, Download{
		Filename:    filename,
		ContentType: contentType,
		Content:     append([]byte(nil), content...),
	})
	return d.Err
}

// Count returns the number of recorded downloads
func (d *RecordingDownloader) Count() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.Downloads)
}

// Last returns the most recent download
func (d *RecordingDownloader) Last() (Download, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if len(d.Downloads) == 0 {
		return Download{}, fmt.Errorf("no downloads recorded")
	}
	return d.Downloads[len(d.Downloads)-1], nil
}

// Alert builds a test alert
func Alert(id, severity, status string) client.Alert {
	return client.Alert{
		AlertID:     id,
		EventID:     "evt-" + id,
		Severity:    severity,
		Title:       "Suspicious logon " + id,
		Description: "Logon outside business hours",
		Timestamp:   1700000000,
		SourceIP:    "10.0.0.1",
		User:        "alice",
		Status:      status,
		Read:        status == "read",
		Remediated:  status == "remediated",
	}
}

package client

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func newTestServer(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClient(Config{BaseURL: srv.URL + "/", APIKey: "secret"})
}

func TestClient_SendsBearerAndQuery(t *testing.T) {
	var gotAuth, gotPath, gotQuery string
	c := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotPath = r.URL.Path
		gotQuery = r.URL.RawQuery
		w.Write([]byte(`{"alerts":null,"total":0}`))
	})

	list, err := c.Alerts().List(context.Background(), &AlertListOptions{Severity: "high", Limit: 10})
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}

	if gotAuth != "Bearer secret" {
		t.Errorf("Authorization = %q", gotAuth)
	}
	if gotPath != "/api/v1/alerts" || gotQuery != "limit=10&severity=high" {
		t.Errorf("request = %s?%s", gotPath, gotQuery)
	}
	if list.Alerts == nil {
		t.Error("Alerts should be an empty slice, not nil")
	}

	c.SetToken("override")
	_, _ = c.Alerts().List(context.Background(), nil)
	if gotAuth != "Bearer override" || gotQuery != "" {
		t.Errorf("with token: auth = %q query = %q", gotAuth, gotQuery)
	}
}

func TestClient_HTTPError(t *testing.T) {
	tests := []struct {
		name         string
		status       int
		unauthorized bool
		notFound     bool
		serverError  bool
	}{
		{name: "unauthorized", status: http.StatusUnauthorized, unauthorized: true},
		{name: "not found", status: http.StatusNotFound, notFound: true},
		{name: "server error", status: http.StatusServiceUnavailable, serverError: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				w.Write([]byte(`{"detail":"nope"}`))
			})

			_, err := c.Statistics(context.Background())
			var httpErr *HTTPError
			if !errors.As(err, &httpErr) {
				t.Fatalf("error = %v, want *HTTPError", err)
			}
			if httpErr.StatusCode != tt.status || StatusCode(err) != tt.status {
				t.Errorf("status = %d", httpErr.StatusCode)
			}
			if httpErr.IsUnauthorized() != tt.unauthorized || httpErr.IsNotFound() != tt.notFound || httpErr.IsServerError() != tt.serverError {
				t.Errorf("classification wrong for %d", tt.status)
			}
		})
	}
}

func TestClient_TransportError(t *testing.T) {
	c := NewClient(Config{BaseURL: "http://127.0.0.1:1"})

	_, err := c.Config(context.Background())
	if err == nil {
		t.Fatal("expected error")
	}
	if StatusCode(err) != 0 {
		t.Errorf("StatusCode() = %d, want 0 for transport failures", StatusCode(err))
	}
	if !strings.Contains(err.Error(), "request failed") {
		t.Errorf("error = %v", err)
	}
}

func TestClient_ConfigDefaultsAndExtra(t *testing.T) {
	c := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"production_mode":true,"max_alerts":null,"detector":"ml-v2","rules":12}`))
	})

	cfg, err := c.Config(context.Background())
	if err != nil {
		t.Fatalf("Config() error = %v", err)
	}

	if !cfg.ProductionMode {
		t.Error("ProductionMode = false")
	}
	if cfg.Version != DefaultBackendVersion || cfg.MaxAlerts != DefaultMaxAlerts || cfg.AlertRetentionDays != DefaultAlertRetentionDays {
		t.Errorf("defaults not applied: %+v", cfg)
	}
	if len(cfg.AllowedOrigins) != 1 || cfg.AllowedOrigins[0] != DefaultAllowedOrigin {
		t.Errorf("AllowedOrigins = %v", cfg.AllowedOrigins)
	}
	if cfg.Extra["detector"] != "ml-v2" || cfg.Extra["rules"] != float64(12) {
		t.Errorf("Extra = %v", cfg.Extra)
	}
}

func TestClient_Export(t *testing.T) {
	tests := []struct {
		name        string
		body        string
		wantType    string
		wantName    string
		wantContent string
	}{
		{
			name:        "wrapped csv",
			body:        `{"content":"a,b\n","content_type":"text/csv","filename":"alerts_export_1.csv"}`,
			wantType:    "text/csv",
			wantName:    "alerts_export_1.csv",
			wantContent: "a,b\n",
		},
		{
			name:        "bare json document",
			body:        `{"alerts":[],"export_timestamp":1,"total_count":0}` + "\n",
			wantType:    "application/json",
			wantName:    "alerts_export_",
			wantContent: `{"alerts":[],"export_timestamp":1,"total_count":0}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var gotQuery string
			c := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
				gotQuery = r.URL.RawQuery
				w.Write([]byte(tt.body))
			})

			res, err := c.Export(context.Background(), ExportOptions{Format: "JSON", Severity: "low"})
			if err != nil {
				t.Fatalf("Export() error = %v", err)
			}
			if gotQuery != "format=json&severity=low" {
				t.Errorf("query = %s", gotQuery)
			}
			if res.ContentType != tt.wantType || !strings.HasPrefix(res.Filename, tt.wantName) || res.Content != tt.wantContent {
				t.Errorf("result = %+v", res)
			}
		})
	}
}

func TestClient_RemediateActions(t *testing.T) {
	var gotPath, gotMethod string
	c := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.EscapedPath()
		gotMethod = r.Method
		w.Write([]byte(`{"message":"ok","actions_taken":["disable_user"],"actions":["disable_user","block_ip"]}`))
	})

	res, err := c.Alerts().Remediate(context.Background(), "a/1")
	if err != nil {
		t.Fatalf("Remediate() error = %v", err)
	}
	if gotMethod != http.MethodPost || gotPath != "/api/v1/alerts/a%2F1/remediate" {
		t.Errorf("request = %s %s", gotMethod, gotPath)
	}

	got := res.ActionsTaken()
	if len(got) != 2 || got[0] != "disable_user" || got[1] != "block_ip" {
		t.Errorf("ActionsTaken() = %v", got)
	}
}

func TestEpochTime(t *testing.T) {
	tests := []struct {
		name  string
		input float64
		want  time.Time
	}{
		{name: "seconds", input: 1700000000, want: time.Unix(1700000000, 0)},
		{name: "fractional seconds", input: 1700000000.5, want: time.Unix(1700000000, 500000000)},
		{name: "milliseconds", input: 1700000000123, want: time.UnixMilli(1700000000123)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := EpochTime(tt.input); !got.Equal(tt.want) {
				t.Errorf("EpochTime(%v) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestJSONExportFilename(t *testing.T) {
	got := JSONExportFilename(time.UnixMilli(1700000000123))
	if got != "alerts_export_1700000000123.json" {
		t.Errorf("JSONExportFilename() = %s", got)
	}
}

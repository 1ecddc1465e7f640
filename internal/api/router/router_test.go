package router

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/swaggo/swag"

	"github.com/orion-ad/guardian/internal/api/handlers"
	"github.com/orion-ad/guardian/internal/api/middleware"
	"github.com/orion-ad/guardian/internal/config"
	"github.com/orion-ad/guardian/internal/dashboard"
	"github.com/orion-ad/guardian/internal/export"
	"github.com/orion-ad/guardian/internal/pkg/logger"
	"github.com/orion-ad/guardian/internal/testutil"
	"github.com/orion-ad/guardian/web"
)

func newTestRouter(t *testing.T) (http.Handler, *dashboard.Dashboard) {
	t.Helper()

	backend := testutil.NewFakeBackend(t)
	backend.SetAlerts(testutil.Alert("a1", "critical", "new"))
	c := backend.Client("test-key")
	dash := dashboard.New(dashboard.FromClient(c), nil)

	pages, err := web.ParseTemplates()
	if err != nil {
		t.Fatalf("ParseTemplates() error = %v", err)
	}

	cfg := &config.Config{
		Server:    config.ServerConfig{Environment: "development"},
		Dashboard: config.DashboardConfig{AllowedOrigins: []string{"http://localhost:3180"}},
	}
	log := logger.Nop()
	h := &Handlers{
		Health:    handlers.NewHealthHandler(dash, log),
		Dashboard: handlers.NewDashboardHandler(dash, export.NewExporter(c, log), pages, log),
		API:       handlers.NewAPIHandler(dash, log, nil),
		WebSocket: handlers.NewWebSocketHub(dash, cfg.Dashboard.AllowedOrigins, log),
	}
	return New(cfg, log, middleware.NewRateLimiter(100, 100), h), dash
}

func TestRouter_Routes(t *testing.T) {
	r, dash := newTestRouter(t)
	if err := dash.Refresh(context.Background()); err != nil {
		t.Fatalf("Refresh() error = %v", err)
	}

	tests := []struct {
		name           string
		method         string
		path           string
		expectedStatus int
		contains       string
	}{
		{name: "liveness", method: http.MethodGet, path: "/healthz", expectedStatus: http.StatusOK},
		{name: "readiness", method: http.MethodGet, path: "/readyz", expectedStatus: http.StatusOK},
		{name: "dashboard page", method: http.MethodGet, path: "/?tab=alerts", expectedStatus: http.StatusOK, contains: "Orion AD Guardian"},
		{name: "snapshot", method: http.MethodGet, path: "/api/v1/snapshot", expectedStatus: http.StatusOK, contains: `"seq":1`},
		{name: "stylesheet", method: http.MethodGet, path: "/static/dashboard.css", expectedStatus: http.StatusOK},
		{name: "refresh redirects", method: http.MethodPost, path: "/refresh?tab=stats", expectedStatus: http.StatusSeeOther},
		{name: "unknown route", method: http.MethodGet, path: "/nope", expectedStatus: http.StatusNotFound},
		{name: "metrics", method: http.MethodGet, path: "/metrics", expectedStatus: http.StatusOK, contains: "orion_dashboard_http_requests_total"},
		{name: "api doc", method: http.MethodGet, path: "/swagger/doc.json", expectedStatus: http.StatusOK, contains: "Orion AD Guardian Dashboard API"},
		{name: "api browser", method: http.MethodGet, path: "/swagger/index.html", expectedStatus: http.StatusOK, contains: "swagger-ui"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := httptest.NewRecorder()
			r.ServeHTTP(rr, httptest.NewRequest(tt.method, tt.path, nil))

			if rr.Code != tt.expectedStatus {
				t.Errorf("status = %d, want %d", rr.Code, tt.expectedStatus)
			}
			if tt.contains != "" && !strings.Contains(rr.Body.String(), tt.contains) {
				t.Errorf("body does not contain %q", tt.contains)
			}
			if rr.Header().Get(middleware.RequestIDHeader) == "" {
				t.Error("request id header missing")
			}
		})
	}
}

func TestRouter_DocsPolicy(t *testing.T) {
	r, _ := newTestRouter(t)

	tests := []struct {
		path         string
		inlineScript bool
	}{
		{path: "/swagger/index.html", inlineScript: true},
		{path: "/healthz", inlineScript: false},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			rr := httptest.NewRecorder()
			r.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, tt.path, nil))

			csp := rr.Header().Get("Content-Security-Policy")
			if got := strings.Contains(csp, "script-src 'self' 'unsafe-inline'"); got != tt.inlineScript {
				t.Errorf("Content-Security-Policy = %q", csp)
			}
		})
	}
}

func TestRouter_APIRoutesDocumented(t *testing.T) {
	r, _ := newTestRouter(t)

	doc, err := swag.ReadDoc()
	if err != nil {
		t.Fatalf("ReadDoc() error = %v", err)
	}
	var spec struct {
		BasePath string                                `json:"basePath"`
		Paths    map[string]map[string]json.RawMessage `json:"paths"`
	}
	if err := json.Unmarshal([]byte(doc), &spec); err != nil {
		t.Fatalf("api doc is not valid JSON: %v", err)
	}

	routes, ok := r.(chi.Routes)
	if !ok {
		t.Fatalf("router type %T does not expose routes", r)
	}

	documented := 0
	err = chi.Walk(routes, func(method, route string, _ http.Handler, _ ...func(http.Handler) http.Handler) error {
		if !strings.HasPrefix(route, spec.BasePath+"/") || route == spec.BasePath+"/ws" {
			return nil
		}
		if spec.Paths[strings.TrimPrefix(route, spec.BasePath)][strings.ToLower(method)] == nil {
			t.Errorf("%s %s is missing from the api doc", method, route)
			return nil
		}
		documented++
		return nil
	})
	if err != nil {
		t.Fatalf("Walk() error = %v", err)
	}
	if documented != 4 {
		t.Errorf("documented routes = %d, want 4", documented)
	}
}

package metrics

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestMiddleware_UsesRoutePattern(t *testing.T) {
	r := chi.NewRouter()
	r.Use(Middleware)
	r.Post("/alerts/{id}/mark-read", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusSeeOther)
	})

	before := testutil.ToFloat64(httpRequestsTotal.WithLabelValues("POST", "/alerts/{id}/mark-read", "303"))

	req := httptest.NewRequest(http.MethodPost, "/alerts/a-1/mark-read", nil)
	r.ServeHTTP(httptest.NewRecorder(), req)

	after := testutil.ToFloat64(httpRequestsTotal.WithLabelValues("POST", "/alerts/{id}/mark-read", "303"))
	if after-before != 1 {
		t.Errorf("requests_total delta = %v, want 1", after-before)
	}
}

func TestRecordHelpers(t *testing.T) {
	RecordRefresh(OutcomeSuccess, 20*time.Millisecond)
	RecordAction("remediate", errors.New("boom"))
	RecordExport("csv", nil)
	SetAlertsHeld(map[string]int{"critical": 2, "low": 1})

	if got := testutil.ToFloat64(actionsTotal.WithLabelValues("remediate", OutcomeError)); got < 1 {
		t.Errorf("actions error count = %v", got)
	}
	if got := testutil.ToFloat64(alertsHeld.WithLabelValues("critical")); got != 2 {
		t.Errorf("critical gauge = %v, want 2", got)
	}

	rec := httptest.NewRecorder()
	Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if !strings.Contains(rec.Body.String(), "orion_dashboard_refresh_cycles_total") {
		t.Error("refresh counter missing from /metrics output")
	}
}

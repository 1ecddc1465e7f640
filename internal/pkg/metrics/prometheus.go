package metrics

import (
	"bufio"
	"errors"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "orion_dashboard"

var (
	// HTTP metrics
	httpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	httpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request duration in seconds",
			Buckets:   []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
		},
		[]string{"method", "path", "status"},
	)

	httpRequestsInFlight = promauto.NewGauge(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "requests_in_flight",
			Help:      "Number of HTTP requests currently being served",
		},
	)

	// Refresh cycle metrics
	refreshTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "refresh",
			Name:      "cycles_total",
			Help:      "Total number of refresh cycles by outcome",
		},
		[]string{"outcome"},
	)

	refreshDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "refresh",
			Name:      "cycle_duration_seconds",
			Help:      "Duration of refresh cycles in seconds",
			Buckets:   []float64{.01, .05, .1, .25, .5, 1, 2.5, 5, 10, 30},
		},
	)

	refreshStale = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "refresh",
			Name:      "stale_discarded_total",
			Help:      "Refresh results discarded because a newer cycle was already applied",
		},
	)

	alertsHeld = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "alerts",
			Name:      "held_count",
			Help:      "Alerts held by the dashboard after the last applied cycle",
		},
		[]string{"severity"},
	)

	// Operator actions
	actionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "actions",
			Name:      "dispatched_total",
			Help:      "Alert actions dispatched to the backend",
		},
		[]string{"action", "outcome"},
	)

	// Export metrics
	exportsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "export",
			Name:      "requests_total",
			Help:      "Alert exports by format and outcome",
		},
		[]string{"format", "outcome"},
	)

	wsClients = promauto.NewGauge(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "websocket",
			Name:      "clients",
			Help:      "Connected websocket clients",
		},
	)
)

// Outcome label values
const (
	OutcomeSuccess = "success"
	OutcomeError   = "error"
)

// responseWriter wraps http.ResponseWriter to capture status code
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

// Hijack lets websocket upgrades pass through the middleware.
func (rw *responseWriter) Hijack() (net.Conn, *bufio.ReadWriter, error) {
	h, ok := rw.ResponseWriter.(http.Hijacker)
	if !ok {
		return nil, nil, errors.New("response writer does not support hijacking")
	}
	return h.Hijack()
}

func (rw *responseWriter) Flush() {
	if f, ok := rw.ResponseWriter.(http.Flusher); ok {
		f.Flush()
	}
}

// Middleware returns a middleware that records Prometheus metrics
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		httpRequestsInFlight.Inc()
		defer httpRequestsInFlight.Dec()

		wrapped := &responseWriter{
			ResponseWriter: w,
			statusCode:     http.StatusOK,
		}

		next.ServeHTTP(wrapped, r)

		duration := time.Since(start).Seconds()

		routePattern := "unknown"
		if rctx := chi.RouteContext(r.Context()); rctx != nil && rctx.RoutePattern() != "" {
			routePattern = rctx.RoutePattern()
		}

		status := strconv.Itoa(wrapped.statusCode)

		httpRequestsTotal.WithLabelValues(r.Method, routePattern, status).Inc()
		httpRequestDuration.WithLabelValues(r.Method, routePattern, status).Observe(duration)
	})
}

// Handler returns the Prometheus metrics HTTP handler
func Handler() http.Handler {
	return promhttp.Handler()
}

// RecordRefresh records the outcome and duration of one refresh cycle
func RecordRefresh(outcome string, duration time.Duration) {
	refreshTotal.WithLabelValues(outcome).Inc()
	refreshDuration.Observe(duration.Seconds())
}

// RecordStaleRefresh counts a discarded out-of-order refresh result
func RecordStaleRefresh() {
	refreshStale.Inc()
}

// SetAlertsHeld replaces the per-severity alert gauge
func SetAlertsHeld(bySeverity map[string]int) {
	alertsHeld.Reset()
	for severity, count := range bySeverity {
		alertsHeld.WithLabelValues(severity).Set(float64(count))
	}
}

// RecordAction records an alert action dispatch
func RecordAction(action string, err error) {
	actionsTotal.WithLabelValues(action, outcome(err)).Inc()
}

// RecordExport records an export request
func RecordExport(format string, err error) {
	exportsTotal.WithLabelValues(format, outcome(err)).Inc()
}

// IncWSClients increments the websocket client gauge
func IncWSClients() {
	wsClients.Inc()
}

// DecWSClients decrements the websocket client gauge
func DecWSClients() {
	wsClients.Dec()
}

func outcome(err error) string {
	if err != nil {
		return OutcomeError
	}
	return OutcomeSuccess
}

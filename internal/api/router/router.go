package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	httpSwagger "github.com/swaggo/http-swagger"

	_ "github.com/orion-ad/guardian/internal/api/docs"
	"github.com/orion-ad/guardian/internal/api/handlers"
	"github.com/orion-ad/guardian/internal/api/middleware"
	"github.com/orion-ad/guardian/internal/config"
	"github.com/orion-ad/guardian/internal/pkg/logger"
	"github.com/orion-ad/guardian/internal/pkg/metrics"
	"github.com/orion-ad/guardian/web"
)

type Handlers struct {
	Health    *handlers.HealthHandler
	Dashboard *handlers.DashboardHandler
	API       *handlers.APIHandler
	WebSocket *handlers.WebSocketHub
}

func New(cfg *config.Config, log *logger.Logger, limiter *middleware.RateLimiter, h *Handlers) http.Handler {
	r := chi.NewRouter()

	origins := cfg.Dashboard.AllowedOrigins
	if !cfg.Server.IsProduction() {
		origins = middleware.DevelopmentOrigins(origins)
	}

	// Global middleware
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger(log))
	r.Use(middleware.Recovery(log))
	r.Use(metrics.Middleware)
	r.Use(middleware.SecurityHeaders)
	r.Use(middleware.CORS(origins))
	r.Use(middleware.RateLimit(limiter))

	// Probes and metrics
	r.Get("/healthz", h.Health.Healthz)
	r.Get("/readyz", h.Health.Readyz)
	r.Handle("/metrics", metrics.Handler())
	r.Handle("/static/*", http.StripPrefix("/static/", web.StaticHandler()))

	// Swagger documentation of the JSON API
	r.With(middleware.DocsSecurityHeaders).Get("/swagger/*", httpSwagger.WrapHandler)

	// HTML dashboard
	r.Get("/", h.Dashboard.Page)
	r.Post("/filters", h.Dashboard.SetFilter)
	r.Post("/refresh", h.Dashboard.Refresh)
	r.Post("/alerts/{id}/mark-read", h.Dashboard.MarkRead)
	r.Post("/alerts/{id}/remediate", h.Dashboard.Remediate)
	r.Get("/export", h.Dashboard.Export)
	r.Get("/export/download.json", h.Dashboard.DownloadJSON)

	// JSON API
	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/snapshot", h.API.Snapshot)
		r.Post("/filters", h.API.SetFilter)
		r.Post("/alerts/{id}/mark-read", h.API.MarkRead)
		r.Post("/alerts/{id}/remediate", h.API.Remediate)
		r.Get("/ws", h.WebSocket.HandleConnection)
	})

	return r
}

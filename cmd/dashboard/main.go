package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/orion-ad/guardian/internal/api/handlers"
	"github.com/orion-ad/guardian/internal/api/middleware"
	"github.com/orion-ad/guardian/internal/api/router"
	"github.com/orion-ad/guardian/internal/config"
	"github.com/orion-ad/guardian/internal/dashboard"
	"github.com/orion-ad/guardian/internal/domain/alert"
	"github.com/orion-ad/guardian/internal/export"
	"github.com/orion-ad/guardian/internal/pkg/logger"
	"github.com/orion-ad/guardian/internal/pkg/validator"
	"github.com/orion-ad/guardian/internal/worker"
	"github.com/orion-ad/guardian/pkg/client"
	"github.com/orion-ad/guardian/web"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logger.Init(logger.Config{Level: "info", Format: "json"})
		logger.Fatal("Failed to load configuration: " + err.Error())
	}

	log := logger.Init(logger.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
	})
	log.WithFields(map[string]interface{}{
		"environment": cfg.Server.Environment,
		"backend":     cfg.Backend.URL,
	}).Info("Starting Orion AD Guardian dashboard")

	if cfg.Backend.APIKey == "" {
		log.Warn("No backend API key configured; requests are sent without credentials")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	backend := client.NewClient(client.Config{
		BaseURL: cfg.Backend.URL,
		APIKey:  cfg.Backend.APIKey,
		Timeout: cfg.Backend.Timeout,
	})

	filter := alert.DefaultFilter()
	filter.Limit = cfg.Dashboard.AlertLimit
	dash := dashboard.New(dashboard.FromClient(backend), log, dashboard.WithFilter(filter))

	exporter := export.NewExporter(backend, log)

	pages, err := web.ParseTemplates()
	if err != nil {
		log.ErrorWithErr(err, "Failed to parse templates")
		os.Exit(1)
	}

	hub := handlers.NewWebSocketHub(dash, cfg.Dashboard.AllowedOrigins, log)
	limiter := middleware.NewRateLimiter(cfg.Server.RateLimitRPS, cfg.Server.RateLimitBurst)

	h := &router.Handlers{
		Health:    handlers.NewHealthHandler(dash, log),
		Dashboard: handlers.NewDashboardHandler(dash, exporter, pages, log),
		API:       handlers.NewAPIHandler(dash, log, validator.New()),
		WebSocket: hub,
	}

	srv := &http.Server{
		Addr:         cfg.Server.Address(),
		Handler:      router.New(cfg, log, limiter, h),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	go hub.Run(ctx)
	go limiter.Run(ctx, 5*time.Minute)

	refresher := worker.NewRefresher(dash, cfg.Dashboard.RefreshInterval, log)
	refresherDone := make(chan struct{})
	go func() {
		refresher.Start(ctx)
		close(refresherDone)
	}()

	var archiver *export.Archiver
	var sink *export.Sink
	if cfg.Export.Schedule != "" {
		sink, err = export.NewSink(ctx, cfg.Export)
		if err != nil {
			log.ErrorWithErr(err, "Failed to create export sink")
			os.Exit(1)
		}
		archiver = export.NewArchiver(exporter, sink, export.Request{
			Format:   cfg.Export.Format,
			Severity: cfg.Export.Severity,
		}, log)
		if err := archiver.Start(cfg.Export.Schedule); err != nil {
			log.ErrorWithErr(err, "Failed to start export archiver")
			os.Exit(1)
		}
		log.WithFields(map[string]interface{}{
			"schedule": cfg.Export.Schedule,
			"sink":     sink.Name,
			"next_run": archiver.Next(),
		}).Info("Export archiver scheduled")
	}

	serverErr := make(chan error, 1)
	go func() {
		log.With("address", srv.Addr).Info("HTTP server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	select {
	case <-ctx.Done():
		log.Info("Shutdown signal received")
	case err := <-serverErr:
		log.ErrorWithErr(err, "HTTP server failed")
		stop()
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.ErrorWithErr(err, "HTTP server shutdown failed")
	}

	<-refresherDone
	refresher.Wait()

	if archiver != nil {
		archiver.Stop()
	}
	if sink != nil {
		if err := sink.Close(); err != nil {
			log.ErrorWithErr(err, "Failed to close export sink")
		}
	}

	log.Info("Dashboard stopped")
}

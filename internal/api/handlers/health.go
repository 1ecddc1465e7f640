package handlers

import (
	"net/http"

	"github.com/orion-ad/guardian/internal/pkg/errors"
	"github.com/orion-ad/guardian/internal/pkg/logger"
	"github.com/orion-ad/guardian/internal/pkg/utils"
)

// ReadinessChecker reports whether the dashboard holds applied data
type ReadinessChecker interface {
	Ready() bool
}

// HealthHandler handles health check requests
type HealthHandler struct {
	ready  ReadinessChecker
	logger *logger.Logger
}

// NewHealthHandler creates a new health handler
func NewHealthHandler(ready ReadinessChecker, log *logger.Logger) *HealthHandler {
	if log == nil {
		log = logger.Nop()
	}
	return &HealthHandler{
		ready:  ready,
		logger: log,
	}
}

// Healthz handles the liveness check
func (h *HealthHandler) Healthz(w http.ResponseWriter, r *http.Request) {
	utils.WriteData(w, http.StatusOK, map[string]string{
		"status": "ok",
	})
}

// Readyz reports ready once a refresh cycle has been applied
func (h *HealthHandler) Readyz(w http.ResponseWriter, r *http.Request) {
	if !h.ready.Ready() {
		utils.WriteError(w, errors.ServiceUnavailable("No refresh cycle applied yet"))
		return
	}

	utils.WriteData(w, http.StatusOK, map[string]string{
		"status": "ready",
	})
}

package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/orion-ad/guardian/internal/dashboard"
	"github.com/orion-ad/guardian/internal/domain/alert"
	"github.com/orion-ad/guardian/internal/pkg/errors"
	"github.com/orion-ad/guardian/internal/pkg/logger"
	"github.com/orion-ad/guardian/internal/pkg/utils"
	"github.com/orion-ad/guardian/internal/pkg/validator"
	"github.com/orion-ad/guardian/pkg/client"
)

// APIHandler exposes the dashboard state and intents as JSON
type APIHandler struct {
	dash      Controller
	logger    *logger.Logger
	validator *validator.Validator
}

// ActionResponse is returned after an alert action
type ActionResponse struct {
	AlertID      string             `json:"alert_id"`
	Action       string             `json:"action"`
	ActionsTaken []string           `json:"actions_taken,omitempty"`
	Snapshot     dashboard.Snapshot `json:"snapshot"`
}

// NewAPIHandler creates a new JSON API handler
func NewAPIHandler(dash Controller, log *logger.Logger, val *validator.Validator) *APIHandler {
	if log == nil {
		log = logger.Nop()
	}
	if val == nil {
		val = validator.New()
	}
	return &APIHandler{
		dash:      dash,
		logger:    log.Component("api"),
		validator: val,
	}
}

// Snapshot returns the current dashboard state
// @Summary Get dashboard snapshot
// @Description Current dashboard state: alerts, statistics, backend config, filter and status
// @Tags Dashboard
// @Produce json
// @Success 200 {object} utils.Response[dashboard.Snapshot] "Dashboard snapshot"
// @Router /snapshot [get]
func (h *APIHandler) Snapshot(w http.ResponseWriter, r *http.Request) {
	utils.WriteData(w, http.StatusOK, h.dash.Snapshot())
}

// SetFilter replaces the filter and returns the refreshed state. A failed
// refresh is reported inside the snapshot, not as an HTTP error.
// @Summary Set alert filter
// @Description Replace the alert filter and run a refresh cycle
// @Tags Dashboard
// @Accept json
// @Produce json
// @Param request body alert.Filter true "Filter; omitted fields keep their defaults"
// @Success 200 {object} utils.Response[dashboard.Snapshot] "Refreshed snapshot"
// @Failure 400 {object} utils.Response[any] "Invalid request body or filter"
// @Router /filters [post]
func (h *APIHandler) SetFilter(w http.ResponseWriter, r *http.Request) {
	f := alert.DefaultFilter()
	if appErr := utils.DecodeJSON(w, r, &f); appErr != nil {
		utils.WriteError(w, appErr)
		return
	}
	if errs := h.validator.Validate(f); len(errs) > 0 {
		utils.WriteError(w, errors.ValidationError("Invalid filter", errs))
		return
	}

	_ = h.dash.SetFilter(r.Context(), f)
	utils.WriteData(w, http.StatusOK, h.dash.Snapshot())
}

// MarkRead marks the alert in the path as read
// @Summary Mark alert as read
// @Description Mark the alert as read on the backend, then refresh
// @Tags Alerts
// @Produce json
// @Param id path string true "Alert ID"
// @Success 200 {object} utils.Response[ActionResponse] "Action result"
// @Failure 502 {object} utils.Response[any] "Backend rejected the action or is unreachable"
// @Router /alerts/{id}/mark-read [post]
func (h *APIHandler) MarkRead(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	res, err := h.dash.MarkRead(r.Context(), id)
	h.respondAction(w, dashboard.ActionMarkRead, id, res, err)
}

// Remediate triggers remediation of the alert in the path
// @Summary Remediate alert
// @Description Trigger remediation on the backend, then refresh. The actions taken are returned.
// @Tags Alerts
// @Produce json
// @Param id path string true "Alert ID"
// @Success 200 {object} utils.Response[ActionResponse] "Action result"
// @Failure 502 {object} utils.Response[any] "Backend rejected the action or is unreachable"
// @Router /alerts/{id}/remediate [post]
func (h *APIHandler) Remediate(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	res, err := h.dash.Remediate(r.Context(), id)
	h.respondAction(w, dashboard.ActionRemediate, id, res, err)
}

func (h *APIHandler) respondAction(w http.ResponseWriter, action, id string, res *client.ActionResult, err error) {
	if err != nil {
		respondError(w, err)
		return
	}
	utils.WriteDataWithMessage(w, http.StatusOK, res.Message, ActionResponse{
		AlertID:      id,
		Action:       action,
		ActionsTaken: res.ActionsTaken(),
		Snapshot:     h.dash.Snapshot(),
	})
}

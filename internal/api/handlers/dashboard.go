package handlers

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/orion-ad/guardian/internal/dashboard"
	"github.com/orion-ad/guardian/internal/domain/alert"
	"github.com/orion-ad/guardian/internal/export"
	"github.com/orion-ad/guardian/internal/pkg/logger"
	"github.com/orion-ad/guardian/internal/view"
	"github.com/orion-ad/guardian/pkg/client"
)

// Controller is the dashboard state and the intents the pages dispatch
type Controller interface {
	Snapshot() dashboard.Snapshot
	Refresh(ctx context.Context) error
	SetFilter(ctx context.Context, f alert.Filter) error
	MarkRead(ctx context.Context, id string) (*client.ActionResult, error)
	Remediate(ctx context.Context, id string) (*client.ActionResult, error)
}

// Renderer executes a named page template
type Renderer interface {
	Render(w io.Writer, name string, data interface{}) error
}

// PageTemplate is the top-level dashboard template
const PageTemplate = "dashboard.html"

// DashboardHandler serves the HTML dashboard and its form posts
type DashboardHandler struct {
	dash     Controller
	exporter *export.Exporter
	pages    Renderer
	logger   *logger.Logger
}

// NewDashboardHandler creates a new dashboard handler
func NewDashboardHandler(dash Controller, exporter *export.Exporter, pages Renderer, log *logger.Logger) *DashboardHandler {
	if log == nil {
		log = logger.Nop()
	}
	return &DashboardHandler{
		dash:     dash,
		exporter: exporter,
		pages:    pages,
		logger:   log.Component("pages"),
	}
}

// Page renders the dashboard with the requested tab active
func (h *DashboardHandler) Page(w http.ResponseWriter, r *http.Request) {
	page := view.BuildPage(h.dash.Snapshot(), r.URL.Query().Get("tab"))
	h.render(w, page)
}

// render buffers the page so a template error never leaves half a document
func (h *DashboardHandler) render(w http.ResponseWriter, page view.Page) {
	var buf bytes.Buffer
	if err := h.pages.Render(&buf, PageTemplate, page); err != nil {
		h.logger.ErrorWithErr(err, "Failed to render dashboard")
		http.Error(w, "failed to render page", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(http.StatusOK)
	w.Write(buf.Bytes())
}

// SetFilter applies the filter form and refreshes
func (h *DashboardHandler) SetFilter(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}
	f := alert.ParseFilter(r.PostForm.Get("severity"), r.PostForm.Get("status"), r.PostForm.Get("limit"))

	// A failed refresh is recorded in the dashboard state and shown on the page.
	_ = h.dash.SetFilter(r.Context(), f)
	redirectToTab(w, r, view.TabAlerts)
}

// Refresh runs a manual refresh cycle, also used as the retry action
func (h *DashboardHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	_ = h.dash.Refresh(r.Context())
	redirectToTab(w, r, r.URL.Query().Get("tab"))
}

// MarkRead dispatches mark-read for the alert in the path
func (h *DashboardHandler) MarkRead(w http.ResponseWriter, r *http.Request) {
	_, _ = h.dash.MarkRead(r.Context(), chi.URLParam(r, "id"))
	redirectToTab(w, r, view.TabAlerts)
}

// Remediate dispatches remediation for the alert in the path. The actions
// taken are shown through the last action banner.
func (h *DashboardHandler) Remediate(w http.ResponseWriter, r *http.Request) {
	_, _ = h.dash.Remediate(r.Context(), chi.URLParam(r, "id"))
	redirectToTab(w, r, view.TabAlerts)
}

// Export runs the export form. CSV is sent as a download; JSON is shown
// in the export view. Without a format the export view is rendered as is.
func (h *DashboardHandler) Export(w http.ResponseWriter, r *http.Request) {
	format := strings.ToLower(strings.TrimSpace(r.URL.Query().Get("format")))
	severity := strings.TrimSpace(r.URL.Query().Get("severity"))

	snap := h.dash.Snapshot()
	page := view.BuildPage(snap, view.TabExport)
	page.Export = view.BuildExport(snap.Alerts, format, severity)

	if format == "" {
		h.render(w, page)
		return
	}

	res, err := h.exporter.Export(r.Context(), export.Request{Format: format, Severity: severity}, export.ResponseDownloader{W: w})
	if errors.Is(err, export.ErrResponseStarted) {
		h.logger.ErrorWithErr(err, "Failed to send CSV download")
		return
	}
	if err != nil {
		page.Export = page.Export.WithMessage("Export failed: "+errorText(err), true)
		h.render(w, page)
		return
	}
	if res.Downloaded {
		return
	}

	page.Export = page.Export.WithContent(res.Content).WithMessage(export.SuccessMessage(res), false)
	h.render(w, page)
}

// DownloadJSON fetches a JSON export and sends it as
// alerts_export_<unix-ms>.json
func (h *DashboardHandler) DownloadJSON(w http.ResponseWriter, r *http.Request) {
	severity := strings.TrimSpace(r.URL.Query().Get("severity"))

	res, err := h.exporter.Export(r.Context(), export.Request{Format: client.FormatJSON, Severity: severity}, export.ResponseDownloader{W: w})
	if err != nil {
		respondError(w, err)
		return
	}
	if _, err := h.exporter.DownloadJSON(r.Context(), res.Content, export.ResponseDownloader{W: w}); err != nil {
		h.logger.ErrorWithErr(err, "Failed to send JSON download")
	}
}

package export

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	apperrors "github.com/orion-ad/guardian/internal/pkg/errors"
	"github.com/orion-ad/guardian/internal/pkg/logger"
	"github.com/orion-ad/guardian/internal/pkg/metrics"
	"github.com/orion-ad/guardian/internal/pkg/validator"
	"github.com/orion-ad/guardian/pkg/client"
)

// Source produces alert exports, normally the backend client
type Source interface {
	Export(ctx context.Context, opts client.ExportOptions) (*client.ExportResult, error)
}

// Request selects what to export
type Request struct {
	Format   string `json:"format" validate:"required,oneof=json csv"`
	Severity string `json:"severity" validate:"omitempty,max=32"`
}

// Result describes a finished export
type Result struct {
	Format      string `json:"format"`
	Filename    string `json:"filename"`
	ContentType string `json:"content_type"`
	// Content is the display content of a JSON export, pretty-printed.
	// It is empty for CSV exports, which go to the Downloader instead.
	Content    string `json:"content,omitempty"`
	Downloaded bool   `json:"downloaded"`
}

// Exporter runs the export workflow against a Source
type Exporter struct {
	source    Source
	validator *validator.Validator
	logger    *logger.Logger
	now       func() time.Time
}

// NewExporter creates an exporter
func NewExporter(source Source, log *logger.Logger) *Exporter {
	if log == nil {
		log = logger.Nop()
	}
	return &Exporter{
		source:    source,
		validator: validator.New(),
		logger:    log.Component("exporter"),
		now:       time.Now,
	}
}

// Export validates req and asks the backend for the export. A CSV export is
// handed to dl exactly once under the filename chosen by the backend. A
// JSON export is returned for display and not downloaded.
func (e *Exporter) Export(ctx context.Context, req Request, dl Downloader) (*Result, error) {
	req.Format = strings.ToLower(strings.TrimSpace(req.Format))
	if errs := e.validator.Validate(req); len(errs) > 0 {
		return nil, apperrors.ValidationError("Invalid export request", errs)
	}

	res, err := e.run(ctx, req, dl)
	metrics.RecordExport(req.Format, err)

	log := e.logger.WithFields(map[string]interface{}{
		"format":   req.Format,
		"severity": req.Severity,
	})
	if err != nil {
		log.ErrorWithErr(err, "Export failed")
		return nil, err
	}
	log.With("filename", res.Filename).Info("Export completed")
	return res, nil
}

func (e *Exporter) run(ctx context.Context, req Request, dl Downloader) (*Result, error) {
	out, err := e.source.Export(ctx, client.ExportOptions{Format: req.Format, Severity: req.Severity})
	if err != nil {
		return nil, apperrors.FromBackend(err)
	}

	res := &Result{
		Format:      req.Format,
		Filename:    out.Filename,
		ContentType: out.ContentType,
	}

	if req.Format == client.FormatCSV {
		if res.ContentType == "" {
			res.ContentType = "text/csv"
		}
		if err := dl.Download(ctx, out.Filename, res.ContentType, []byte(out.Content)); err != nil {
			return nil, apperrors.DownloadFailed(err)
		}
		res.Downloaded = true
		return res, nil
	}

	res.Content = PrettyJSON(out.Content)
	return res, nil
}

// DownloadJSON saves displayed JSON content as alerts_export_<unix-ms>.json
func (e *Exporter) DownloadJSON(ctx context.Context, content string, dl Downloader) (string, error) {
	filename := client.JSONExportFilename(e.now())
	if err := dl.Download(ctx, filename, "application/json", []byte(content)); err != nil {
		e.logger.With("filename", filename).ErrorWithErr(err, "JSON download failed")
		return "", apperrors.DownloadFailed(err)
	}
	return filename, nil
}

// PrettyJSON indents content when it is valid JSON and returns it
// unchanged otherwise.
func PrettyJSON(content string) string {
	var buf bytes.Buffer
	if err := json.Indent(&buf, []byte(content), "", "  "); err != nil {
		return content
	}
	return buf.String()
}

// SuccessMessage is the status line shown after an export
func SuccessMessage(res *Result) string {
	if res.Downloaded {
		return fmt.Sprintf("CSV file %s downloaded", res.Filename)
	}
	return fmt.Sprintf("JSON export ready (%d characters)", len(res.Content))
}

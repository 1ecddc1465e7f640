package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// Export formats understood by the backend
const (
	FormatJSON = "json"
	FormatCSV  = "csv"
)

// Export requests an alert export from GET /api/v1/export/alerts.
//
// The backend answers with {content, content_type, filename}. Some backend
// versions answer a JSON export with the document itself
// ({alerts, export_timestamp, total_count}); that body is then returned as the
// content with a generated filename.
func (c *Client) Export(ctx context.Context, opts ExportOptions) (*ExportResult, error) {
	format := strings.ToLower(opts.Format)
	if format == "" {
		format = FormatJSON
	}

	query := url.Values{}
	query.Set("format", format)
	if opts.Severity != "" {
		query.Set("severity", opts.Severity)
	}

	body, err := c.doRaw(ctx, http.MethodGet, "/api/v1/export/alerts?"+query.Encode())
	if err != nil {
		return nil, err
	}

	var result ExportResult
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}
	if result.Content != "" || result.Filename != "" {
		return &result, nil
	}

	var doc struct {
		Alerts json.RawMessage `json:"alerts"`
	}
	if err := json.Unmarshal(body, &doc); err != nil || doc.Alerts == nil {
		return &result, nil
	}

	return &ExportResult{
		Content:     string(bytes.TrimSpace(body)),
		ContentType: "application/json",
		Filename:    JSONExportFilename(time.Now()),
	}, nil
}

// JSONExportFilename returns the client-side filename for a JSON export
// downloaded at t.
func JSONExportFilename(t time.Time) string {
	return fmt.Sprintf("alerts_export_%d.json", t.UnixMilli())
}

package client

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
)

// AlertService handles alert-related API calls
type AlertService struct {
	client *Client
}

// AlertListOptions contains options for listing alerts. Zero values are
// omitted from the query string.
type AlertListOptions struct {
	Severity string
	Status   string
	Limit    int
}

// List retrieves alerts from GET /api/v1/alerts.
func (s *AlertService) List(ctx context.Context, opts *AlertListOptions) (*AlertList, error) {
	query := url.Values{}

	if opts != nil {
		if opts.Severity != "" {
			query.Set("severity", opts.Severity)
		}
		if opts.Status != "" {
			query.Set("status", opts.Status)
		}
		if opts.Limit > 0 {
			query.Set("limit", strconv.Itoa(opts.Limit))
		}
	}

	path := "/api/v1/alerts"
	if len(query) > 0 {
		path += "?" + query.Encode()
	}

	var list AlertList
	if err := s.client.doRequest(ctx, http.MethodGet, path, &list); err != nil {
		return nil, err
	}
	if list.Alerts == nil {
		list.Alerts = []Alert{}
	}

	return &list, nil
}

// MarkRead marks an alert as read
func (s *AlertService) MarkRead(ctx context.Context, id string) (*ActionResult, error) {
	return s.action(ctx, id, "mark-read")
}

// Remediate triggers remediation for an alert
func (s *AlertService) Remediate(ctx context.Context, id string) (*ActionResult, error) {
	return s.action(ctx, id, "remediate")
}

func (s *AlertService) action(ctx context.Context, id, action string) (*ActionResult, error) {
	path := "/api/v1/alerts/" + url.PathEscape(id) + "/" + action

	var result ActionResult
	if err := s.client.doRequest(ctx, http.MethodPost, path, &result); err != nil {
		return nil, err
	}

	return &result, nil
}

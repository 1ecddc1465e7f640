package client

import (
	"context"
	"net/http"
)

// Statistics retrieves aggregate alert statistics
func (c *Client) Statistics(ctx context.Context) (*Statistics, error) {
	var stats Statistics
	if err := c.doRequest(ctx, http.MethodGet, "/api/v1/statistics", &stats); err != nil {
		return nil, err
	}
	return &stats, nil
}

// Config retrieves the backend runtime configuration
func (c *Client) Config(ctx context.Context) (*BackendConfig, error) {
	cfg := DefaultBackendConfig()
	if err := c.doRequest(ctx, http.MethodGet, "/api/v1/config", &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

package client

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// Client is the Orion AD Guardian backend API client.
type Client struct {
	baseURL    string
	httpClient *http.Client
	apiKey     string
	token      string // overrides apiKey when set
}

// Config holds the client configuration
type Config struct {
	BaseURL    string        // API base URL (e.g., "http://localhost:8006")
	APIKey     string        // Bearer credential sent on every request
	Timeout    time.Duration // Optional per-request timeout (default: none)
	HTTPClient *http.Client  // Optional custom HTTP client
}

// NewClient creates a new Orion backend client.
//
// Requests are single attempts: there is no retry and no backoff. Unless
// Timeout is set, the only deadline is the one carried by the caller's context.
func NewClient(cfg Config) *Client {
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{
			Timeout: cfg.Timeout,
		}
	}

	return &Client{
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		httpClient: httpClient,
		apiKey:     cfg.APIKey,
	}
}

// SetToken sets a bearer token that replaces the configured API key.
func (c *Client) SetToken(token string) {
	c.token = token
}

// GetToken returns the current bearer token
func (c *Client) GetToken() string {
	return c.token
}

// BaseURL returns the backend base URL the client talks to.
func (c *Client) BaseURL() string {
	return c.baseURL
}

func (c *Client) credential() string {
	if c.token != "" {
		return c.token
	}
	return c.apiKey
}

// doRequest performs one HTTP request against the backend and decodes the
// JSON body into result. Non-2xx responses yield *HTTPError and the body is
// not parsed.
func (c *Client) doRequest(ctx context.Context, method, path string, result interface{}) error {
	body, err := c.doRaw(ctx, method, path)
	if err != nil {
		return err
	}

	if result != nil && len(body) > 0 {
		if err := json.Unmarshal(body, result); err != nil {
			return fmt.Errorf("failed to parse response: %w", err)
		}
	}

	return nil
}

// doRaw performs the request and returns the raw success body.
func (c *Client) doRaw(ctx context.Context, method, path string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	if cred := c.credential(); cred != "" {
		req.Header.Set("Authorization", "Bearer "+cred)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		// Drain so the connection can be reused.
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil, &HTTPError{
			StatusCode: resp.StatusCode,
			Method:     method,
			Path:       path,
		}
	}

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}
	return respBody, nil
}

// Alerts returns the alert service
func (c *Client) Alerts() *AlertService {
	return &AlertService{client: c}
}

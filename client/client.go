package client

import (
	"context"
	"io"
	"net/url"
	"time"

	"coursefetch/internal"
	"coursefetch/utils"
)

// Client composes the shared authenticated fetcher with the envelope
// parser into the typed entity operations. One Client (one connection
// pool) is shared across all operations; it is safe for concurrent use.
type Client struct {
	http *utils.HTTPClient
	cfg  *internal.Config
	log  *internal.SecureLogger
}

var _ internal.CatalogAPI = (*Client)(nil)

// NewClient creates a client from the given configuration.
func NewClient(cfg *internal.Config) (*Client, error) {
	httpClient, err := utils.NewHTTPClientWithConfig(&utils.HTTPClientConfig{
		BaseURL:  cfg.BaseURL,
		Timeout:  time.Duration(cfg.TimeoutSeconds) * time.Second,
		ProxyURL: cfg.ProxyURL,
	})
	if err != nil {
		return nil, err
	}

	return &Client{
		http: httpClient,
		cfg:  cfg,
		log:  internal.GetLogger(),
	}, nil
}

// HTTP exposes the underlying shared client for collaborators that
// stream binary assets against the same base URL.
func (c *Client) HTTP() *utils.HTTPClient {
	return c.http
}

// send issues one request and returns the status code and raw body.
// Transport-level failures (timeout, DNS, refused connection) come back
// as a generic APIError; the raw cause is logged, never surfaced.
func (c *Client) send(ctx context.Context, op, what, method, path string, query url.Values, token string, jsonBody interface{}) (int, []byte, error) {
	resp, err := c.http.Do(ctx, method, path, query, token, jsonBody)
	if err != nil {
		c.log.Debug("%s: transport error: %v", op, err)
		return 0, nil, internal.NewTransportError(op, what, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		c.log.Debug("%s: reading response body: %v", op, err)
		return 0, nil, internal.NewTransportError(op, what, err)
	}

	c.log.Debug("%s: %s %s -> %d (%d bytes)", op, method, path, resp.StatusCode, len(body))
	return resp.StatusCode, body, nil
}

// requireAuth is the precondition check performed before any
// authenticated network call.
func requireAuth(op string, creds internal.Credentials) error {
	if creds.IsZero() {
		return internal.NewNotLoggedInError(op)
	}
	return nil
}

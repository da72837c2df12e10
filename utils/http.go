package utils

import (
	"bytes"
	"context"
	"crypto/tls"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/net/proxy"
)

// HTTPClientConfig contains configuration for the HTTP client
type HTTPClientConfig struct {
	BaseURL  string
	Timeout  time.Duration
	ProxyURL string
}

// HTTPClient is the single shared transport identity for all entity
// operations. It is safe for concurrent use; per-request state lives in
// the request, never in the client.
type HTTPClient struct {
	client  *http.Client
	baseURL *url.URL
}

// NewHTTPClient creates a client against the given API base URL with the
// default 15 second per-request timeout.
func NewHTTPClient(baseURL string) (*HTTPClient, error) {
	return NewHTTPClientWithConfig(&HTTPClientConfig{
		BaseURL: baseURL,
		Timeout: 15 * time.Second,
	})
}

// NewHTTPClientWithConfig creates a new HTTP client with custom configuration
func NewHTTPClientWithConfig(config *HTTPClientConfig) (*HTTPClient, error) {
	if config.Timeout <= 0 {
		config.Timeout = 15 * time.Second
	}

	base, err := url.Parse(config.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid base URL: %w", err)
	}
	if base.Scheme != "http" && base.Scheme != "https" {
		return nil, fmt.Errorf("base URL must use http or https: %s", config.BaseURL)
	}
	// Relative joins depend on the trailing slash.
	if !strings.HasSuffix(base.Path, "/") {
		base.Path += "/"
	}

	transport := &http.Transport{
		DialContext: (&net.Dialer{
			Timeout:   10 * time.Second,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		TLSHandshakeTimeout:   10 * time.Second,
		ExpectContinueTimeout: 1 * time.Second,
		MaxIdleConns:          100,
		MaxIdleConnsPerHost:   10,
		IdleConnTimeout:       90 * time.Second,
		TLSClientConfig: &tls.Config{
			InsecureSkipVerify: false,
		},
	}

	if config.ProxyURL != "" {
		if err := configureProxy(transport, config.ProxyURL); err != nil {
			return nil, err
		}
	}

	client := &http.Client{
		Transport: transport,
		Timeout:   config.Timeout,
		CheckRedirect: func(req *http.Request, via []*http.Request) error {
			// Allow up to 10 redirects
			if len(via) >= 10 {
				return fmt.Errorf("too many redirects")
			}
			return nil
		},
	}

	return &HTTPClient{client: client, baseURL: base}, nil
}

// configureProxy sets up proxy configuration for the transport
func configureProxy(transport *http.Transport, proxyURL string) error {
	parsedURL, err := url.Parse(proxyURL)
	if err != nil {
		return fmt.Errorf("invalid proxy URL: %w", err)
	}

	switch parsedURL.Scheme {
	case "http", "https":
		transport.Proxy = http.ProxyURL(parsedURL)
	case "socks5":
		dialer, err := proxy.SOCKS5("tcp", parsedURL.Host, nil, proxy.Direct)
		if err != nil {
			return fmt.Errorf("failed to create SOCKS5 proxy: %w", err)
		}
		transport.DialContext = func(ctx context.Context, network, addr string) (net.Conn, error) {
			return dialer.Dial(network, addr)
		}
	default:
		return fmt.Errorf("unsupported proxy scheme: %s", parsedURL.Scheme)
	}

	return nil
}

// BaseURL returns the resolved API base URL.
func (c *HTTPClient) BaseURL() *url.URL {
	return c.baseURL
}

// Do issues a request against the API base URL. path is relative to the
// base; query values are percent-encoded individually. A bearer header
// is set when accessToken is non-empty. jsonBody, when non-nil, is
// marshalled as the request body.
func (c *HTTPClient) Do(ctx context.Context, method, path string, query url.Values, accessToken string, jsonBody interface{}) (*http.Response, error) {
	ref, err := url.Parse(strings.TrimPrefix(path, "/"))
	if err != nil {
		return nil, fmt.Errorf("invalid request path: %w", err)
	}
	target := c.baseURL.ResolveReference(ref)
	if len(query) > 0 {
		target.RawQuery = query.Encode()
	}

	var body io.Reader
	if jsonBody != nil {
		encoded, err := json.Marshal(jsonBody)
		if err != nil {
			return nil, fmt.Errorf("failed to encode request body: %w", err)
		}
		body = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, target.String(), body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Accept", "application/json, text/plain, */*")
	if jsonBody != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if accessToken != "" {
		req.Header.Set("Authorization", "Bearer "+accessToken)
	}

	return c.client.Do(req)
}

// GetStream issues a plain GET against an absolute URL for binary asset
// downloads. The caller owns the response body.
func (c *HTTPClient) GetStream(ctx context.Context, rawURL string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Accept", "*/*")

	return c.client.Do(req)
}

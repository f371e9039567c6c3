// Package graphclient is the shared HTTP substrate for Microsoft Graph
// calls. Action handlers hand it a method, path and query; it attaches the
// per-call authorization, applies the rate limit and a fixed timeout, and
// decodes the response.
package graphclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/custodia-labs/graph-actions/internal/core/domain"
)

// DefaultBaseURL is the Microsoft Graph API base URL.
const DefaultBaseURL = "https://graph.microsoft.com/v1.0"

// requestTimeout bounds every outbound Graph call so a hung upstream cannot
// hold a request handler indefinitely.
const requestTimeout = 45 * time.Second

// Client performs HTTP calls against the Graph API.
type Client struct {
	baseURL    string
	httpClient *http.Client
	limiter    *RateLimiter
}

// Option configures a Client.
type Option func(*Client)

// WithBaseURL overrides the Graph API base URL. Tests point this at a local
// server.
func WithBaseURL(u string) Option {
	return func(c *Client) {
		c.baseURL = strings.TrimRight(u, "/")
	}
}

// WithHTTPClient overrides the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithRateLimit overrides the default rate limit configuration.
func WithRateLimit(cfg RateLimitConfig) Option {
	return func(c *Client) {
		c.limiter = NewRateLimiter(cfg)
	}
}

// New creates a Graph client with the default base URL, timeout and rate
// limit.
func New(opts ...Option) *Client {
	c := &Client{
		baseURL:    DefaultBaseURL,
		httpClient: &http.Client{Timeout: requestTimeout},
		limiter:    NewRateLimiter(DefaultRateLimit),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Do performs a Graph request and decodes the JSON response. A nil result
// with a nil error means the call succeeded without a body (202/204).
// Non-2xx responses return a *StatusError wrapping the status sentinel.
func (c *Client) Do(ctx context.Context, method, path string, query url.Values, body any, auth domain.AuthContext) (any, error) {
	resp, err := c.roundTrip(ctx, method, path, query, body, "", auth)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNoContent {
		return nil, nil
	}
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read graph response: %w", err)
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, nil
	}
	var out any
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, fmt.Errorf("decode graph response: %w", err)
	}
	return out, nil
}

// Put performs a raw-body upload (e.g. OneDrive content PUT) and decodes the
// JSON response.
func (c *Client) Put(ctx context.Context, path string, query url.Values, content []byte, contentType string, auth domain.AuthContext) (any, error) {
	resp, err := c.roundTrip(ctx, http.MethodPut, path, query, content, contentType, auth)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read graph response: %w", err)
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, nil
	}
	var out any
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, fmt.Errorf("decode graph response: %w", err)
	}
	return out, nil
}

// Download fetches binary content, returning the bytes and the upstream
// content type.
func (c *Client) Download(ctx context.Context, path string, query url.Values, auth domain.AuthContext) (domain.Binary, error) {
	resp, err := c.roundTrip(ctx, http.MethodGet, path, query, nil, "", auth)
	if err != nil {
		return domain.Binary{}, err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return domain.Binary{}, fmt.Errorf("read graph content: %w", err)
	}
	contentType := resp.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	return domain.Binary{Content: data, ContentType: contentType}, nil
}

// roundTrip builds and sends the request, enforcing the no-unauthenticated-
// calls invariant and translating non-2xx responses into StatusError.
func (c *Client) roundTrip(ctx context.Context, method, path string, query url.Values, body any, contentType string, auth domain.AuthContext) (*http.Response, error) {
	authz := auth.Authorization()
	if authz == "" {
		return nil, fmt.Errorf("%s %s: %w", method, path, domain.ErrNoAuthorization)
	}

	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	var reader io.Reader
	switch payload := body.(type) {
	case nil:
	case []byte:
		reader = bytes.NewReader(payload)
		if contentType == "" {
			contentType = "application/octet-stream"
		}
	default:
		encoded, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("encode graph request body: %w", err)
		}
		reader = bytes.NewReader(encoded)
		if contentType == "" {
			contentType = "application/json"
		}
	}

	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, method, u, reader)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Authorization", authz)
	req.Header.Set("Accept", "application/json")
	if reader != nil {
		req.Header.Set("Content-Type", contentType)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("graph request %s %s: %w", method, path, err)
	}

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return resp, nil
	}

	if resp.StatusCode == http.StatusTooManyRequests {
		c.limiter.RecordRateLimitError(retryAfterSeconds(resp))
	}
	data, _ := io.ReadAll(resp.Body)
	resp.Body.Close()
	return nil, newStatusError(resp.StatusCode, data)
}

func retryAfterSeconds(resp *http.Response) int {
	v := resp.Header.Get("Retry-After")
	if v == "" {
		return 0
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0
	}
	return n
}

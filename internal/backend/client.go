// Package backend is the HTTP client for the distributor REST backend: auth,
// sync jobs, per-distributor listings, global search and user management.
package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"distris/internal/observability"
)

const DefaultPrefix = "/api"

type Client struct {
	BaseURL string
	Prefix  string
	HTTP    *http.Client
	Token   string
}

func New(baseURL, prefix string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	return &Client{
		BaseURL: strings.TrimRight(baseURL, "/"),
		Prefix:  prefix,
		HTTP:    &http.Client{Timeout: timeout},
	}
}

// WithToken returns a copy of c that authenticates as the given token.
// The underlying http.Client is shared.
func (c *Client) WithToken(token string) *Client {
	cp := *c
	cp.Token = token
	return &cp
}

// url resolves a backend path. Absolute URLs pass through and paths that
// already carry /api are not prefixed again.
func (c *Client) url(path string) string {
	if strings.HasPrefix(path, "http://") || strings.HasPrefix(path, "https://") {
		return path
	}
	if strings.HasPrefix(path, "/api") {
		return c.BaseURL + path
	}
	return c.BaseURL + c.Prefix + path
}

func (c *Client) get(ctx context.Context, path string) ([]byte, error) {
	return c.send(ctx, http.MethodGet, c.url(path), nil)
}

func (c *Client) send(ctx context.Context, method, url string, body any) ([]byte, error) {
	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("encode request body: %w", err)
		}
		reader = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, reader)
	if err != nil {
		return nil, fmt.Errorf("failed to create request for %s: %w", url, err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Content-Type", "application/json")
	if c.Token != "" {
		req.Header.Set("Authorization", "Bearer "+c.Token)
	}

	endpoint := endpointLabel(req.URL.Path)
	start := time.Now()

	resp, err := c.HTTP.Do(req)
	observability.BackendLatency.WithLabelValues(endpoint).Observe(time.Since(start).Seconds())
	if err != nil {
		observability.BackendRequests.WithLabelValues(endpoint, "error").Inc()
		return nil, &TransportError{URL: url, Err: err}
	}
	defer resp.Body.Close()
	observability.BackendRequests.WithLabelValues(endpoint, strconv.Itoa(resp.StatusCode)).Inc()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response from %s: %w", url, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, newAPIError(resp.StatusCode, resp.Header.Get("Content-Type"), data)
	}
	return data, nil
}

// endpointLabel keeps metric cardinality bounded: "/api/users/12" -> "users".
func endpointLabel(path string) string {
	path = strings.TrimPrefix(path, "/api")
	path = strings.Trim(path, "/")
	if i := strings.IndexByte(path, '/'); i >= 0 {
		path = path[:i]
	}
	if path == "" {
		return "root"
	}
	return path
}

func decodeJSON(data []byte, v any) error {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidResponse, err)
	}
	return nil
}

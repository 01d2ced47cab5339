package applications

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Source loads applications and records status decisions. *Client talks to the
// remote API; *Mock serves seed data in-process.
type Source interface {
	FetchApplications(ctx context.Context) ([]Application, error)
	UpdateStatus(ctx context.Context, id int64, status Status) error
}

// Ensure both implementations satisfy Source at compile time.
var (
	_ Source = (*Client)(nil)
	_ Source = (*Mock)(nil)
)

// ErrNoBaseURL is returned by NewClient when no API address was configured.
var ErrNoBaseURL = errors.New("api url is not configured")

// APIError reports a non-2xx response.
type APIError struct {
	Method string
	Path   string
	Status int
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api %s %s returned status %d", e.Method, e.Path, e.Status)
}

// Client talks to the applications HTTP API.
type Client struct {
	baseURL   *url.URL
	http      *http.Client
	userAgent string
}

const (
	defaultUserAgent      = "docket/0.1"
	defaultRequestTimeout = 10 * time.Second
	applicationsPath      = "/api/applications"
	maxErrorBody          = 4 << 10
)

// NewClient builds a Client for the API rooted at rawURL. A bare host:port is
// treated as http.
func NewClient(rawURL string, timeout time.Duration) (*Client, error) {
	base, err := parseBaseURL(rawURL)
	if err != nil {
		return nil, err
	}
	if timeout <= 0 {
		timeout = defaultRequestTimeout
	}
	return &Client{
		baseURL: base,
		http: &http.Client{
			Timeout: timeout,
		},
		userAgent: defaultUserAgent,
	}, nil
}

// BaseURL returns the API root the client was built with.
func (c *Client) BaseURL() string {
	if c == nil || c.baseURL == nil {
		return ""
	}
	return c.baseURL.String()
}

// FetchApplications retrieves the full application collection.
func (c *Client) FetchApplications(ctx context.Context) ([]Application, error) {
	if c == nil {
		return nil, fmt.Errorf("client is nil")
	}
	var payload []Application
	if err := c.do(ctx, http.MethodGet, applicationsPath, nil, &payload); err != nil {
		return nil, err
	}
	return payload, nil
}

// UpdateStatus asks the API to move application id to status. Any 2xx response
// counts as acknowledgement; the body is ignored.
func (c *Client) UpdateStatus(ctx context.Context, id int64, status Status) error {
	if c == nil {
		return fmt.Errorf("client is nil")
	}
	if !status.Valid() {
		return fmt.Errorf("invalid status %q", status)
	}
	path := applicationsPath + "/" + strconv.FormatInt(id, 10) + "/status"
	return c.do(ctx, http.MethodPatch, path, StatusUpdate{Status: status}, nil)
}

func (c *Client) do(ctx context.Context, method, path string, body, dest any) error {
	reqURL := c.baseURL.JoinPath(path)

	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, reqURL.String(), reader)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("X-Request-ID", uuid.NewString())
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("execute request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxErrorBody))
		return &APIError{Method: method, Path: path, Status: resp.StatusCode}
	}
	if dest == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(dest); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func parseBaseURL(raw string) (*url.URL, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return nil, ErrNoBaseURL
	}
	if !strings.Contains(trimmed, "://") {
		trimmed = "http://" + trimmed
	}
	u, err := url.Parse(trimmed)
	if err != nil {
		return nil, fmt.Errorf("parse api url %q: %w", raw, err)
	}
	if u.Host == "" {
		return nil, fmt.Errorf("parse api url %q: missing host", raw)
	}
	u.Path = strings.TrimSuffix(u.Path, "/")
	u.RawQuery = ""
	u.Fragment = ""
	return u, nil
}

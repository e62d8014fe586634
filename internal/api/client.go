// Package api is the HTTP client for the LendWorks marketplace backend.
// It attaches the session's bearer token to every outbound request,
// transparently refreshes it once on a 401, and decodes the backend's
// response envelope at a single boundary.
package api

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

	"lendworks-web/internal/observability"
	"lendworks-web/internal/session"

	"github.com/google/uuid"
)

const (
	defaultTimeout  = 15 * time.Second
	maxResponseSize = 4 << 20 // 4 MiB
)

// Error is a non-2xx backend response, carrying the HTTP status and the
// envelope message when one was present.
type Error struct {
	Status  int
	Message string
}

func (e *Error) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("backend returned %d: %s", e.Status, e.Message)
	}
	return fmt.Sprintf("backend returned status %d", e.Status)
}

// IsUnauthorized reports whether err is a backend 401. By the time callers
// see this, the single refresh-and-retry has already been spent.
func IsUnauthorized(err error) bool {
	var ae *Error
	return errors.As(err, &ae) && ae.Status == http.StatusUnauthorized
}

// Client calls the marketplace REST API on behalf of the current session.
type Client struct {
	baseURL string
	http    *http.Client
	session *session.Manager
}

// NewClient creates a Client for the backend at baseURL, authenticated from
// mgr. The underlying transport handles bearer injection and the
// 401-refresh-retry cycle; feature methods never see a retriable 401.
func NewClient(baseURL string, mgr *session.Manager) *Client {
	base := strings.TrimRight(baseURL, "/")
	ref := &refresher{
		baseURL: base,
		http:    &http.Client{Timeout: defaultTimeout},
		session: mgr,
	}
	return &Client{
		baseURL: base,
		session: mgr,
		http: &http.Client{
			Timeout: defaultTimeout,
			Transport: &authTransport{
				base:    http.DefaultTransport,
				session: mgr,
				refresh: ref.Refresh,
			},
		},
	}
}

// Session returns the session manager this client authenticates from.
func (c *Client) Session() *session.Manager {
	return c.session
}

// Ping verifies the backend is reachable via the public metadata endpoint.
func (c *Client) Ping(ctx context.Context) error {
	return c.get(ctx, "/api/metadata/loan-purposes", nil, nil)
}

// do issues one API call and decodes the (possibly enveloped) response into
// out. A nil out discards the payload. Errors other than *Error are
// transport-level failures.
func (c *Client) do(ctx context.Context, method, path string, query url.Values, body, out any) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request body: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	endpoint := c.baseURL + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-Id", uuid.NewString())
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		observability.APIRequestsTotal.WithLabelValues(method, "error").Inc()
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	status := strconv.Itoa(resp.StatusCode)
	observability.APIRequestDuration.WithLabelValues(method, status).Observe(time.Since(start).Seconds())
	observability.APIRequestsTotal.WithLabelValues(method, status).Inc()

	payload, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return fmt.Errorf("%s %s: read response: %w", method, path, err)
	}

	if resp.StatusCode >= 400 {
		return &Error{Status: resp.StatusCode, Message: envelopeMessage(payload)}
	}
	if out == nil || len(payload) == 0 {
		return nil
	}
	if err := decodePayload(payload, out); err != nil {
		return fmt.Errorf("%s %s: decode response: %w", method, path, err)
	}
	return nil
}

func (c *Client) get(ctx context.Context, path string, query url.Values, out any) error {
	return c.do(ctx, http.MethodGet, path, query, nil, out)
}

func (c *Client) post(ctx context.Context, path string, body, out any) error {
	return c.do(ctx, http.MethodPost, path, nil, body, out)
}

func (c *Client) put(ctx context.Context, path string, body, out any) error {
	return c.do(ctx, http.MethodPut, path, nil, body, out)
}

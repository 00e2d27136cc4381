// Package apiclient wraps the remote management API. One client exists per
// resource family; all of them convert transport, decode, and server failures
// into absent results so callers only ever branch on "did it succeed".
package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"
)

// TokenSource supplies the current bearer token. An empty token means the
// request goes out unauthenticated.
type TokenSource interface {
	Token() string
}

// baseClient carries everything the per-resource clients share.
type baseClient struct {
	httpClient *http.Client
	baseURL    string
	resource   string
	tokens     TokenSource
}

func newBaseClient(baseURL, resource string, timeout time.Duration, tokens TokenSource) *baseClient {
	if timeout <= 0 {
		timeout = time.Minute
	}
	return &baseClient{
		httpClient: &http.Client{Timeout: timeout},
		baseURL:    strings.TrimRight(baseURL, "/"),
		resource:   resource,
		tokens:     tokens,
	}
}

// url builds {base}/api/{resource}[/{path}].
func (c *baseClient) url(path string) string {
	if path == "" {
		return fmt.Sprintf("%s/api/%s", c.baseURL, c.resource)
	}
	return fmt.Sprintf("%s/api/%s/%s", c.baseURL, c.resource, path)
}

// do issues a request with an optional JSON body and returns the response
// body when the status is 2xx. Every failure path logs and reports ok=false.
func (c *baseClient) do(ctx context.Context, method, path string, body any) ([]byte, bool) {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			slog.Error("api request marshal failed", "resource", c.resource, "path", path, "error", err)
			return nil, false
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.url(path), reader)
	if err != nil {
		slog.Error("api request build failed", "resource", c.resource, "path", path, "error", err)
		return nil, false
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token := c.tokens.Token(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		slog.Error("api request failed", "method", method, "resource", c.resource, "path", path, "error", err)
		return nil, false
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		slog.Error("api response read failed", "resource", c.resource, "path", path, "error", err)
		return nil, false
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		slog.Warn("api request rejected", "method", method, "resource", c.resource, "path", path, "status", resp.StatusCode)
		return data, false
	}
	return data, true
}

// requestAs decodes a 2xx response body into T. Absent on any failure.
func requestAs[T any](ctx context.Context, c *baseClient, method, path string, body any) (T, bool) {
	var out T
	data, ok := c.do(ctx, method, path, body)
	if !ok {
		return out, false
	}
	if err := json.Unmarshal(data, &out); err != nil {
		slog.Error("api response decode failed", "resource", c.resource, "path", path, "error", err)
		var zero T
		return zero, false
	}
	return out, true
}

func getAs[T any](ctx context.Context, c *baseClient, path string) (T, bool) {
	return requestAs[T](ctx, c, http.MethodGet, path, nil)
}

func postAs[T any](ctx context.Context, c *baseClient, path string, body any) (T, bool) {
	return requestAs[T](ctx, c, http.MethodPost, path, body)
}

func putAs[T any](ctx context.Context, c *baseClient, path string, body any) (T, bool) {
	return requestAs[T](ctx, c, http.MethodPut, path, body)
}

// deleteOp reports success purely from the HTTP status class.
func (c *baseClient) deleteOp(ctx context.Context, path string) bool {
	_, ok := c.do(ctx, http.MethodDelete, path, nil)
	return ok
}

// postOp issues a bodyless POST and reports success from the status class.
func (c *baseClient) postOp(ctx context.Context, path string) bool {
	_, ok := c.do(ctx, http.MethodPost, path, nil)
	return ok
}

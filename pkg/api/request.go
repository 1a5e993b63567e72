package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/ndgm-hq/ndgm-rfid-client/pkg/httpclient"
)

const (
	headerAuthorization = "Authorization"
	headerContentType   = "Content-Type"
	headerRequestID     = "X-Request-Id"

	contentTypeJSON = "application/json"
)

// RequestOption customises a single request.
type RequestOption func(*requestOptions)

type requestOptions struct {
	headers map[string]string
}

// WithHeaders adds headers to the request. They override the JSON content
// type default but not the Authorization header of a stored token.
func WithHeaders(headers map[string]string) RequestOption {
	return func(o *requestOptions) {
		if o.headers == nil {
			o.headers = make(map[string]string, len(headers))
		}
		for k, v := range headers {
			o.headers[k] = v
		}
	}
}

// Request sends method to path and returns the decoded JSON body. An empty
// or non-JSON body yields nil. A nil body sends no payload.
func (c *Client) Request(ctx context.Context, method, path string, body any, opts ...RequestOption) (any, error) {
	raw, _, err := c.execute(ctx, method, path, body, opts)
	if err != nil {
		return nil, err
	}
	return parseBody(raw), nil
}

// Get sends a GET request.
func (c *Client) Get(ctx context.Context, path string, opts ...RequestOption) (any, error) {
	return c.Request(ctx, http.MethodGet, path, nil, opts...)
}

// Post sends a POST request with body.
func (c *Client) Post(ctx context.Context, path string, body any, opts ...RequestOption) (any, error) {
	return c.Request(ctx, http.MethodPost, path, body, opts...)
}

// Patch sends a PATCH request with body.
func (c *Client) Patch(ctx context.Context, path string, body any, opts ...RequestOption) (any, error) {
	return c.Request(ctx, http.MethodPatch, path, body, opts...)
}

// Delete sends a DELETE request.
func (c *Client) Delete(ctx context.Context, path string, opts ...RequestOption) (any, error) {
	return c.Request(ctx, http.MethodDelete, path, nil, opts...)
}

// Do is the typed form of Request: the response body is decoded into out.
// An empty body leaves out untouched; a body that does not decode into out
// is a KindDecode error.
func (c *Client) Do(ctx context.Context, method, path string, body, out any, opts ...RequestOption) error {
	raw, status, err := c.execute(ctx, method, path, body, opts)
	if err != nil {
		return err
	}
	return decodeInto(raw, status, out)
}

// execute performs the round trip and returns the raw body of a 2xx response.
func (c *Client) execute(ctx context.Context, method, path string, body any, opts []RequestOption) ([]byte, int, error) {
	var ro requestOptions
	for _, opt := range opts {
		opt(&ro)
	}

	var payload []byte
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return nil, 0, fmt.Errorf("encode request body: %w", err)
		}
		payload = encoded
	}

	req := httpclient.Request{
		Method:  method,
		URL:     c.resolveURL(path),
		Headers: c.buildHeaders(ro.headers),
		Body:    payload,
	}

	start := time.Now()
	resp, err := c.http.Do(ctx, req)
	if err != nil {
		c.log.WarnObj("api request failed", "api_request", map[string]any{
			"method":     req.Method,
			"url":        req.URL,
			"request_id": req.Headers[headerRequestID],
			"error":      err.Error(),
		})
		return nil, 0, newNetworkError(err)
	}

	raw := resp.Body()
	status := resp.StatusCode()
	c.log.DebugObj("api request completed", "api_request", map[string]any{
		"method":     req.Method,
		"url":        req.URL,
		"request_id": req.Headers[headerRequestID],
		"status":     status,
		"elapsed_ms": time.Since(start).Milliseconds(),
	})

	if status < 200 || status > 299 {
		return nil, status, newHTTPError(status, resp.Status(), parseBody(raw))
	}
	return raw, status, nil
}

// resolveURL uses absolute URLs verbatim and joins anything else onto the
// base URL with exactly one slash.
func (c *Client) resolveURL(path string) string {
	lower := strings.ToLower(path)
	if strings.HasPrefix(lower, "http://") || strings.HasPrefix(lower, "https://") {
		return path
	}
	base := strings.TrimSuffix(c.session.BaseURL(), "/")
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	return base + path
}

func (c *Client) buildHeaders(extra map[string]string) map[string]string {
	headers := map[string]string{headerContentType: contentTypeJSON}
	for k, v := range extra {
		headers[http.CanonicalHeaderKey(k)] = v
	}
	if token := c.session.Token(); token != "" {
		headers[headerAuthorization] = "Bearer " + token
	}
	if headers[headerRequestID] == "" {
		headers[headerRequestID] = c.requestID()
	}
	return headers
}

// parseBody never fails: bodies that are empty or not JSON decode to nil.
func parseBody(raw []byte) any {
	if len(bytes.TrimSpace(raw)) == 0 {
		return nil
	}
	var data any
	if err := json.Unmarshal(raw, &data); err != nil {
		return nil
	}
	return data
}

func decodeInto(raw []byte, status int, out any) error {
	if out == nil || len(bytes.TrimSpace(raw)) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return newDecodeError(status, "decode response", err)
	}
	return nil
}

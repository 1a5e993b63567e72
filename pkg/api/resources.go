package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/url"
)

const (
	pathLogin    = "/api/auth/login"
	pathRegister = "/api/auth/register"
	pathScan     = "/api/logs/scan"
	pathLogs     = "/api/logs"
	pathUsers    = "/api/users"
)

// Login authenticates and stores the returned token and user. A response
// without a token clears any stored token.
func (c *Client) Login(ctx context.Context, idNumber, password string) (*LoginResponse, error) {
	raw, status, err := c.execute(ctx, http.MethodPost, pathLogin, LoginRequest{IDNumber: idNumber, Password: password}, nil)
	if err != nil {
		return nil, err
	}

	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return nil, newDecodeError(status, "empty login response", nil)
	}
	var resp LoginResponse
	if err := decodeInto(trimmed, status, &resp); err != nil {
		return nil, err
	}

	if err := c.session.SetToken(resp.Token, resp.User); err != nil {
		return nil, err
	}

	meta := map[string]any{"token_stored": resp.Token != ""}
	if resp.User != nil {
		meta["user_id"] = resp.User.ID
		meta["role"] = resp.User.Role
	}
	c.log.InfoObj("login succeeded", "auth", meta)
	return &resp, nil
}

// Logout clears the stored credentials. No request is sent.
func (c *Client) Logout() error {
	if err := c.session.ClearAuth(); err != nil {
		return err
	}
	c.log.InfoObj("logged out", "auth", map[string]any{"cleared": true})
	return nil
}

// Register creates a user.
func (c *Client) Register(ctx context.Context, name, idNumber, role string) (*RegisterResponse, error) {
	var resp RegisterResponse
	body := RegisterRequest{Name: name, IDNumber: idNumber, Role: role}
	if err := c.Do(ctx, http.MethodPost, pathRegister, body, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Scan records a badge scan. The endpoint does not require authentication.
func (c *Client) Scan(ctx context.Context, userIDNumber, rfidScannerID string) (*ScanResponse, error) {
	var resp ScanResponse
	body := ScanRequest{UserIDNumber: userIDNumber, RFIDScannerID: rfidScannerID}
	if err := c.Do(ctx, http.MethodPost, pathScan, body, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// GetLogs lists access logs filtered by params. Nil or empty params send no query string.
func (c *Client) GetLogs(ctx context.Context, params LogQuery) ([]LogEntry, error) {
	raw, status, err := c.execute(ctx, http.MethodGet, logsPath(params), nil, nil)
	if err != nil {
		return nil, err
	}
	return decodeList[LogEntry](raw, status, "logs")
}

// GetUsers lists registered users.
func (c *Client) GetUsers(ctx context.Context) ([]User, error) {
	raw, status, err := c.execute(ctx, http.MethodGet, pathUsers, nil, nil)
	if err != nil {
		return nil, err
	}
	return decodeList[User](raw, status, "users")
}

// logsPath encodes params with keys in sorted order.
func logsPath(params LogQuery) string {
	if len(params) == 0 {
		return pathLogs
	}
	q := make(url.Values, len(params))
	for k, v := range params {
		q.Set(k, v)
	}
	return pathLogs + "?" + q.Encode()
}

// decodeList accepts either a bare JSON array or an object wrapping the
// array under key.
func decodeList[T any](raw []byte, status int, key string) ([]T, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return nil, nil
	}

	if trimmed[0] == '{' {
		var envelope map[string]json.RawMessage
		if err := json.Unmarshal(trimmed, &envelope); err != nil {
			return nil, newDecodeError(status, "decode response", err)
		}
		inner, ok := envelope[key]
		if !ok {
			return nil, newDecodeError(status, "response has no "+key+" list", nil)
		}
		trimmed = inner
	}

	var out []T
	if err := decodeInto(trimmed, status, &out); err != nil {
		return nil, err
	}
	return out, nil
}

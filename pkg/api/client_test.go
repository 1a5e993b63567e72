package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"sync"
	"testing"

	"github.com/ndgm-hq/ndgm-rfid-client/internal/storage"
	"github.com/ndgm-hq/ndgm-rfid-client/pkg/httpclient"
	"github.com/ndgm-hq/ndgm-rfid-client/pkg/session"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeResponse is a canned transport reply.
type fakeResponse struct {
	status     int
	statusLine string
	body       string
}

func (r fakeResponse) Body() []byte    { return []byte(r.body) }
func (r fakeResponse) StatusCode() int { return r.status }
func (r fakeResponse) Status() string  { return r.statusLine }

// fakeTransport records requests and replays a fixed response or error.
type fakeTransport struct {
	mu       sync.Mutex
	requests []httpclient.Request
	resp     fakeResponse
	err      error
}

func (f *fakeTransport) Do(_ context.Context, req httpclient.Request) (httpclient.Response, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.requests = append(f.requests, req)
	if f.err != nil {
		return nil, f.err
	}
	return f.resp, nil
}

func (f *fakeTransport) last(t *testing.T) httpclient.Request {
	t.Helper()
	f.mu.Lock()
	defer f.mu.Unlock()
	require.NotEmpty(t, f.requests, "no request recorded")
	return f.requests[len(f.requests)-1]
}

func newTestClient(t *testing.T, resp fakeResponse) (*Client, *fakeTransport, *session.Session) {
	t.Helper()
	store := storage.NewMemoryStore()
	t.Cleanup(func() { _ = store.Close() })
	sess := session.New(store)
	tr := &fakeTransport{resp: resp}
	c, err := New(sess, WithHTTPClient(tr))
	require.NoError(t, err)
	c.requestID = func() string { return "req-1" }
	return c, tr, sess
}

func TestNewRequiresSession(t *testing.T) {
	_, err := New(nil)
	require.Error(t, err)

	_, err = New(session.New(storage.NewMemoryStore()), WithHTTPClient(nil))
	require.Error(t, err)
}

func TestResolveURL(t *testing.T) {
	c, _, sess := newTestClient(t, fakeResponse{status: 200})

	assert.Equal(t, "http://localhost:3000/api/users", c.resolveURL("/api/users"))
	assert.Equal(t, "http://localhost:3000/api/users", c.resolveURL("api/users"))

	_, err := sess.SetBaseURL("https://rfid.example.org/")
	require.NoError(t, err)
	assert.Equal(t, "https://rfid.example.org/api/logs", c.resolveURL("/api/logs"))
	assert.Equal(t, "https://rfid.example.org/api/logs", c.resolveURL("api/logs"))

	assert.Equal(t, "http://other.host/x", c.resolveURL("http://other.host/x"))
	assert.Equal(t, "HTTPS://other.host/y", c.resolveURL("HTTPS://other.host/y"))
}

func TestRequestSetsJSONHeadersAndBody(t *testing.T) {
	c, tr, _ := newTestClient(t, fakeResponse{status: 200, body: `{"ok":true}`})

	data, err := c.Post(context.Background(), "/api/things", map[string]any{"a": 1})
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"ok": true}, data)

	req := tr.last(t)
	assert.Equal(t, http.MethodPost, req.Method)
	assert.Equal(t, "application/json", req.Headers["Content-Type"])
	assert.Equal(t, "req-1", req.Headers["X-Request-Id"])
	assert.JSONEq(t, `{"a":1}`, string(req.Body))
	_, hasAuth := req.Headers["Authorization"]
	assert.False(t, hasAuth)
}

func TestRequestOmitsBodyWhenNil(t *testing.T) {
	c, tr, _ := newTestClient(t, fakeResponse{status: 200})

	_, err := c.Get(context.Background(), "/api/users")
	require.NoError(t, err)
	assert.Nil(t, tr.last(t).Body)

	_, err = c.Delete(context.Background(), "/api/users/1")
	require.NoError(t, err)
	assert.Equal(t, http.MethodDelete, tr.last(t).Method)
	assert.Nil(t, tr.last(t).Body)
}

func TestBearerHeaderFollowsStoredToken(t *testing.T) {
	c, tr, _ := newTestClient(t, fakeResponse{status: 200})

	require.NoError(t, c.SetToken("tok", nil))
	_, err := c.Get(context.Background(), "/api/users")
	require.NoError(t, err)
	assert.Equal(t, "Bearer tok", tr.last(t).Headers["Authorization"])

	require.NoError(t, c.ClearAuth())
	_, err = c.Get(context.Background(), "/api/users")
	require.NoError(t, err)
	_, hasAuth := tr.last(t).Headers["Authorization"]
	assert.False(t, hasAuth)
}

func TestCallerHeadersMerge(t *testing.T) {
	c, tr, _ := newTestClient(t, fakeResponse{status: 200})
	require.NoError(t, c.SetToken("tok", nil))

	_, err := c.Patch(context.Background(), "/api/users/1", map[string]string{"role": "admin"}, WithHeaders(map[string]string{
		"content-type":  "application/merge-patch+json",
		"authorization": "Bearer forged",
		"X-Trace":       "abc",
		"x-request-id":  "caller-id",
	}))
	require.NoError(t, err)

	h := tr.last(t).Headers
	assert.Equal(t, "application/merge-patch+json", h["Content-Type"])
	assert.Equal(t, "Bearer tok", h["Authorization"])
	assert.Equal(t, "abc", h["X-Trace"])
	assert.Equal(t, "caller-id", h["X-Request-Id"])
}

func TestEmptySuccessBodyResolvesNil(t *testing.T) {
	c, _, _ := newTestClient(t, fakeResponse{status: 200, body: ""})

	data, err := c.Get(context.Background(), "/api/anything")
	require.NoError(t, err)
	assert.Nil(t, data)

	logs, err := c.GetLogs(context.Background(), nil)
	require.NoError(t, err)
	assert.Nil(t, logs)

	users, err := c.GetUsers(context.Background())
	require.NoError(t, err)
	assert.Nil(t, users)

	reg, err := c.Register(context.Background(), "Ada", "A-1", "staff")
	require.NoError(t, err)
	assert.Equal(t, &RegisterResponse{}, reg)
}

func TestNonJSONSuccessBodyIsLenientForUntypedRequests(t *testing.T) {
	c, _, _ := newTestClient(t, fakeResponse{status: 200, body: "<html>ok</html>"})

	data, err := c.Get(context.Background(), "/health")
	require.NoError(t, err)
	assert.Nil(t, data)

	var out map[string]any
	err = c.Do(context.Background(), http.MethodGet, "/health", nil, &out)
	require.Error(t, err)
	assert.True(t, IsDecodeError(err))
	assert.Equal(t, 200, StatusCode(err))
}

func TestHTTPErrorUsesBodyErrorField(t *testing.T) {
	c, _, sess := newTestClient(t, fakeResponse{
		status:     401,
		statusLine: "401 Unauthorized",
		body:       `{"error":"invalid credentials"}`,
	})
	require.NoError(t, sess.SetToken("old", &User{ID: "1", Name: "Ada"}))

	_, err := c.Login(context.Background(), "A-1", "wrong")
	require.Error(t, err)

	var apiErr *Error
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, KindHTTP, apiErr.Kind)
	assert.Equal(t, "invalid credentials", apiErr.Message)
	assert.Equal(t, "invalid credentials", apiErr.Error())
	assert.Equal(t, 401, apiErr.StatusCode)
	assert.Equal(t, map[string]any{"error": "invalid credentials"}, apiErr.Data)
	assert.True(t, IsHTTPError(err))

	assert.Equal(t, "old", c.Token())
	require.NotNil(t, c.StoredUser())
	assert.Equal(t, "Ada", c.StoredUser().Name)
}

func TestHTTPErrorFallsBackToReasonPhrase(t *testing.T) {
	c, _, _ := newTestClient(t, fakeResponse{status: 503, statusLine: "503 Service Unavailable", body: "upstream down"})

	_, err := c.GetUsers(context.Background())
	var apiErr *Error
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, "Service Unavailable", apiErr.Message)
	assert.Equal(t, 503, apiErr.StatusCode)
	assert.Nil(t, apiErr.Data)
}

func TestHTTPErrorFallsBackToGenericMessage(t *testing.T) {
	c, _, _ := newTestClient(t, fakeResponse{status: 500, statusLine: "500", body: `{"error":""}`})

	_, err := c.Get(context.Background(), "/api/users")
	var apiErr *Error
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, "Request failed", apiErr.Message)
	assert.Equal(t, map[string]any{"error": ""}, apiErr.Data)
}

func TestHTTPErrorIgnoresNonStringErrorField(t *testing.T) {
	c, _, _ := newTestClient(t, fakeResponse{status: 422, statusLine: "422 Unprocessable Entity", body: `{"error":{"code":7}}`})

	_, err := c.Get(context.Background(), "/api/users")
	var apiErr *Error
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, "Unprocessable Entity", apiErr.Message)
	assert.Equal(t, map[string]any{"error": map[string]any{"code": float64(7)}}, apiErr.Data)
}

func TestTransportFailureIsNetworkError(t *testing.T) {
	c, tr, _ := newTestClient(t, fakeResponse{})
	tr.err = context.Canceled

	_, err := c.Scan(context.Background(), "A-1", "gate-1")
	require.Error(t, err)
	assert.True(t, IsNetworkError(err))
	assert.True(t, errors.Is(err, context.Canceled))
	assert.Equal(t, 0, StatusCode(err))
}

func TestUnencodableBodyFailsBeforeSending(t *testing.T) {
	c, tr, _ := newTestClient(t, fakeResponse{status: 200})

	_, err := c.Post(context.Background(), "/api/x", map[string]any{"ch": make(chan int)})
	require.Error(t, err)
	assert.Empty(t, tr.requests)
}

func TestLoginPersistsTokenAndUser(t *testing.T) {
	c, tr, sess := newTestClient(t, fakeResponse{
		status: 200,
		body:   `{"token":"jwt-1","user":{"id":3,"name":"Ada","idNumber":"A-1","role":"admin"}}`,
	})

	resp, err := c.Login(context.Background(), "A-1", "secret")
	require.NoError(t, err)
	assert.Equal(t, "jwt-1", resp.Token)

	req := tr.last(t)
	assert.Equal(t, "http://localhost:3000/api/auth/login", req.URL)
	assert.JSONEq(t, `{"idNumber":"A-1","password":"secret"}`, string(req.Body))

	assert.Equal(t, "jwt-1", sess.Token())
	require.NotNil(t, sess.StoredUser())
	assert.Equal(t, User{ID: "3", Name: "Ada", IDNumber: "A-1", Role: "admin"}, *sess.StoredUser())
}

func TestLoginWithoutTokenClearsStoredToken(t *testing.T) {
	c, _, sess := newTestClient(t, fakeResponse{status: 200, body: `{"message":"ok"}`})
	require.NoError(t, sess.SetToken("old", &User{ID: "1"}))

	_, err := c.Login(context.Background(), "A-1", "secret")
	require.NoError(t, err)
	assert.Equal(t, "", sess.Token())
	assert.Nil(t, sess.StoredUser())
}

func TestLoginRejectsEmptyBody(t *testing.T) {
	c, _, sess := newTestClient(t, fakeResponse{status: 200, body: ""})
	require.NoError(t, sess.SetToken("old", nil))

	_, err := c.Login(context.Background(), "A-1", "secret")
	require.Error(t, err)
	assert.True(t, IsDecodeError(err))
	assert.Equal(t, "old", sess.Token())
}

func TestLogoutClearsWithoutNetwork(t *testing.T) {
	c, tr, sess := newTestClient(t, fakeResponse{status: 200})
	require.NoError(t, sess.SetToken("tok", &User{ID: "1"}))

	require.NoError(t, c.Logout())
	assert.Equal(t, "", c.Token())
	assert.Nil(t, c.StoredUser())
	assert.Empty(t, tr.requests)
}

func TestRegisterAndScanPayloads(t *testing.T) {
	c, tr, _ := newTestClient(t, fakeResponse{status: 201, body: `{"message":"created","user":{"id":"u9","name":"Ada"}}`})

	reg, err := c.Register(context.Background(), "Ada", "A-1", "staff")
	require.NoError(t, err)
	assert.Equal(t, "created", reg.Message)
	require.NotNil(t, reg.User)
	assert.Equal(t, session.ID("u9"), reg.User.ID)

	req := tr.last(t)
	assert.Equal(t, "http://localhost:3000/api/auth/register", req.URL)
	assert.JSONEq(t, `{"name":"Ada","idNumber":"A-1","role":"staff"}`, string(req.Body))

	tr.resp = fakeResponse{status: 200, body: `{"message":"checked in","action":"in"}`}
	scan, err := c.Scan(context.Background(), "A-1", "gate-1")
	require.NoError(t, err)
	assert.Equal(t, "in", scan.Action)

	req = tr.last(t)
	assert.Equal(t, http.MethodPost, req.Method)
	assert.Equal(t, "http://localhost:3000/api/logs/scan", req.URL)
	assert.JSONEq(t, `{"userIdNumber":"A-1","rfidScannerId":"gate-1"}`, string(req.Body))
}

func TestGetLogsQueryString(t *testing.T) {
	c, tr, _ := newTestClient(t, fakeResponse{status: 200, body: `[]`})

	_, err := c.GetLogs(context.Background(), LogQuery{"from": "2024-01-01"})
	require.NoError(t, err)
	assert.Equal(t, http.MethodGet, tr.last(t).Method)
	assert.Equal(t, "http://localhost:3000/api/logs?from=2024-01-01", tr.last(t).URL)

	_, err = c.GetLogs(context.Background(), LogQuery{})
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:3000/api/logs", tr.last(t).URL)

	_, err = c.GetLogs(context.Background(), LogQuery{"to": "2024-02-01", "from": "2024-01-01", "user": "A 1&2"})
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:3000/api/logs?from=2024-01-01&to=2024-02-01&user=A+1%262", tr.last(t).URL)
}

func TestGetLogsAndUsersDecodeArraysAndEnvelopes(t *testing.T) {
	c, tr, _ := newTestClient(t, fakeResponse{
		status: 200,
		body:   `[{"id":1,"userIdNumber":"A-1","rfidScannerId":"gate-1","action":"in","timestamp":"2024-01-01T08:00:00Z"}]`,
	})

	logs, err := c.GetLogs(context.Background(), nil)
	require.NoError(t, err)
	require.Len(t, logs, 1)
	assert.Equal(t, session.ID("1"), logs[0].ID)
	assert.Equal(t, "gate-1", logs[0].RFIDScannerID)

	tr.resp = fakeResponse{status: 200, body: `{"users":[{"id":"u1","name":"Ada"},{"id":"u2","name":"Grace"}]}`}
	users, err := c.GetUsers(context.Background())
	require.NoError(t, err)
	require.Len(t, users, 2)
	assert.Equal(t, "Grace", users[1].Name)

	tr.resp = fakeResponse{status: 200, body: `{"items":[]}`}
	_, err = c.GetUsers(context.Background())
	assert.True(t, IsDecodeError(err))

	tr.resp = fakeResponse{status: 200, body: `{"logs":"nope"}`}
	_, err = c.GetLogs(context.Background(), nil)
	assert.True(t, IsDecodeError(err))
}

func TestGetLogsToleratesUserReferencesAndEpochTimestamps(t *testing.T) {
	c, tr, _ := newTestClient(t, fakeResponse{
		status: 200,
		body: `[
			{"id":1,"user":"65a1f0c2","timestamp":1704096000000},
			{"id":2,"user":{"id":7,"name":"Ada"},"timestamp":"2024-01-01T08:00:00Z"},
			{"id":3,"user":null}
		]`,
	})

	logs, err := c.GetLogs(context.Background(), nil)
	require.NoError(t, err)
	require.Len(t, logs, 3)

	require.NotNil(t, logs[0].User)
	assert.Equal(t, session.ID("65a1f0c2"), logs[0].User.ID)
	assert.Nil(t, logs[0].User.User)
	assert.Equal(t, Timestamp("1704096000000"), logs[0].Timestamp)

	require.NotNil(t, logs[1].User)
	assert.Equal(t, session.ID("7"), logs[1].User.ID)
	require.NotNil(t, logs[1].User.User)
	assert.Equal(t, "Ada", logs[1].User.User.Name)
	assert.Equal(t, Timestamp("2024-01-01T08:00:00Z"), logs[1].Timestamp)

	assert.Nil(t, logs[2].User)

	raw, err := json.Marshal(logs[:2])
	require.NoError(t, err)
	assert.JSONEq(t, `[
		{"id":"1","user":"65a1f0c2","timestamp":"1704096000000"},
		{"id":"2","user":{"id":"7","name":"Ada"},"timestamp":"2024-01-01T08:00:00Z"}
	]`, string(raw))

	tr.resp = fakeResponse{status: 200, body: `{"message":"ok","user":"u1","log":{"id":9,"user":"u1","timestamp":1704096000000}}`}
	scan, err := c.Scan(context.Background(), "A-1", "gate-1")
	require.NoError(t, err)
	require.NotNil(t, scan.User)
	assert.Equal(t, session.ID("u1"), scan.User.ID)
	require.NotNil(t, scan.Log)
	assert.Equal(t, Timestamp("1704096000000"), scan.Log.Timestamp)

	tr.resp = fakeResponse{status: 200, body: `[{"id":1,"user":true}]`}
	_, err = c.GetLogs(context.Background(), nil)
	assert.True(t, IsDecodeError(err))
}

func TestDoDecodesTypedResponse(t *testing.T) {
	c, _, _ := newTestClient(t, fakeResponse{status: 200, body: `{"id":"u1","role":"guard"}`})

	var u User
	require.NoError(t, c.Do(context.Background(), http.MethodGet, "/api/users/u1", nil, &u))
	assert.Equal(t, "guard", u.Role)

	raw, err := json.Marshal(u)
	require.NoError(t, err)
	assert.JSONEq(t, `{"id":"u1","role":"guard"}`, string(raw))
}

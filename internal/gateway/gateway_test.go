// internal/gateway/gateway_test.go
package gateway

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// recordingBackend captures the last forwarded request and replies
// with a fixed status and body.
type recordingBackend struct {
	status int
	body   string

	lastMethod string
	lastPath   string
	lastQuery  string
	lastUser   string
	lastReqID  string
	lastBody   string
	calls      int
}

func (b *recordingBackend) handler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		b.calls++
		b.lastMethod = r.Method
		b.lastPath = r.URL.Path
		b.lastQuery = r.URL.RawQuery
		b.lastUser = r.Header.Get("X-Sharer-User-Id")
		b.lastReqID = r.Header.Get("X-Request-Id")
		data, _ := io.ReadAll(r.Body)
		b.lastBody = string(data)

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(b.status)
		w.Write([]byte(b.body))
	})
}

func newGateway(t *testing.T, backend *recordingBackend, limit float64, burst int) *httptest.Server {
	t.Helper()
	upstream := httptest.NewServer(backend.handler())
	t.Cleanup(upstream.Close)

	client := NewClient(upstream.URL, limit, burst)
	handlers := NewHandlers(client, slog.New(slog.NewTextHandler(io.Discard, nil)))
	gw := httptest.NewServer(NewRouter(handlers))
	t.Cleanup(gw.Close)
	return gw
}

func send(t *testing.T, method, url, userID, body string) *http.Response {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req, err := http.NewRequest(method, url, reader)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	if userID != "" {
		req.Header.Set("X-Sharer-User-Id", userID)
	}
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func TestGatewayForwardsVerbatim(t *testing.T) {
	backend := &recordingBackend{status: http.StatusCreated, body: `{"id":1,"name":"Alice","email":"alice@example.com"}`}
	gw := newGateway(t, backend, 100, 100)

	resp := send(t, http.MethodPost, gw.URL+"/users", "", `{"name":"Alice","email":"alice@example.com"}`)
	assert.Equal(t, http.StatusCreated, resp.StatusCode)

	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.JSONEq(t, backend.body, string(data), "server reply relayed unchanged")

	assert.Equal(t, http.MethodPost, backend.lastMethod)
	assert.Equal(t, "/users", backend.lastPath)
	assert.NotEmpty(t, backend.lastReqID, "request id stamped")
	assert.JSONEq(t, `{"name":"Alice","email":"alice@example.com"}`, backend.lastBody)
}

func TestGatewayCarriesUserHeader(t *testing.T) {
	backend := &recordingBackend{status: http.StatusOK, body: `[]`}
	gw := newGateway(t, backend, 100, 100)

	resp := send(t, http.MethodGet, gw.URL+"/items", "42", "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "42", backend.lastUser)
}

func TestGatewayValidationStopsAtEdge(t *testing.T) {
	backend := &recordingBackend{status: http.StatusOK, body: `{}`}
	gw := newGateway(t, backend, 100, 100)

	cases := []struct {
		name   string
		method string
		path   string
		userID string
		body   string
	}{
		{"user without email", http.MethodPost, "/users", "", `{"name":"A"}`},
		{"user with bad email", http.MethodPost, "/users", "", `{"name":"A","email":"not-an-email"}`},
		{"item without header", http.MethodPost, "/items", "", `{"name":"n","description":"d","available":true}`},
		{"item without available", http.MethodPost, "/items", "1", `{"name":"n","description":"d"}`},
		{"item name too long", http.MethodPost, "/items", "1", `{"name":"` + strings.Repeat("x", 256) + `","description":"d","available":true}`},
		{"booking without item", http.MethodPost, "/bookings", "1", `{"start":"2099-01-01T10:00:00Z","end":"2099-01-01T12:00:00Z"}`},
		{"booking in the past", http.MethodPost, "/bookings", "1", `{"itemId":1,"start":"2001-01-01T10:00:00Z","end":"2001-01-01T12:00:00Z"}`},
		{"comment without text", http.MethodPost, "/items/1/comment", "1", `{}`},
		{"request without description", http.MethodPost, "/requests", "1", `{}`},
		{"malformed json", http.MethodPost, "/users", "", `{`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			before := backend.calls
			resp := send(t, tc.method, gw.URL+tc.path, tc.userID, tc.body)
			assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
			assert.Equal(t, before, backend.calls, "request must not reach the server tier")
		})
	}
}

func TestGatewayBookingQueryValidation(t *testing.T) {
	backend := &recordingBackend{status: http.StatusOK, body: `[]`}
	gw := newGateway(t, backend, 100, 100)

	resp := send(t, http.MethodGet, gw.URL+"/bookings?state=nonsense", "1", "")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp = send(t, http.MethodGet, gw.URL+"/bookings?from=-1", "1", "")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp = send(t, http.MethodPatch, gw.URL+"/bookings/5?approved=maybe", "1", "")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	// Valid state forwarded normalized with pagination defaults.
	resp = send(t, http.MethodGet, gw.URL+"/bookings?state=current", "1", "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "/bookings", backend.lastPath)
	assert.Contains(t, backend.lastQuery, "state=CURRENT")
	assert.Contains(t, backend.lastQuery, "from=0")
	assert.Contains(t, backend.lastQuery, "size=10")
}

func TestGatewayRelaysServerErrors(t *testing.T) {
	backend := &recordingBackend{status: http.StatusConflict, body: `{"error":"conflict","message":"email is already registered"}`}
	gw := newGateway(t, backend, 100, 100)

	resp := send(t, http.MethodPost, gw.URL+"/users", "", `{"name":"A","email":"a@example.com"}`)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)

	var body map[string]string
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "conflict", body["error"])
}

func TestGatewayShedsLoad(t *testing.T) {
	backend := &recordingBackend{status: http.StatusOK, body: `[]`}
	// One token, no refill worth mentioning within the test window.
	gw := newGateway(t, backend, 0.001, 1)

	resp := send(t, http.MethodGet, gw.URL+"/users", "", "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp = send(t, http.MethodGet, gw.URL+"/users", "", "")
	assert.Equal(t, http.StatusTooManyRequests, resp.StatusCode)
}

func TestGatewayUpstreamDown(t *testing.T) {
	upstream := httptest.NewServer(http.NotFoundHandler())
	upstream.Close()

	client := NewClient(upstream.URL, 100, 100)
	handlers := NewHandlers(client, slog.New(slog.NewTextHandler(io.Discard, nil)))
	gw := httptest.NewServer(NewRouter(handlers))
	defer gw.Close()

	resp := send(t, http.MethodGet, gw.URL+"/users", "", "")
	assert.Equal(t, http.StatusBadGateway, resp.StatusCode)
}

// internal/bookings/handler_test.go
package bookings

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"shareit/internal/apperr"
)

// stubService records the last call and returns canned results.
type stubService struct {
	booking *BookingDto
	list    []BookingDto
	err     error

	lastState State
	lastFrom  int
	lastSize  int
}

func (s *stubService) Create(_ context.Context, _ int64, _ CreateRequest) (*BookingDto, error) {
	return s.booking, s.err
}

func (s *stubService) Approve(_ context.Context, _, _ int64, _ bool) (*BookingDto, error) {
	return s.booking, s.err
}

func (s *stubService) GetByID(_ context.Context, _, _ int64) (*BookingDto, error) {
	return s.booking, s.err
}

func (s *stubService) ListByBooker(_ context.Context, _ int64, state State, from, size int) ([]BookingDto, error) {
	s.lastState, s.lastFrom, s.lastSize = state, from, size
	return s.list, s.err
}

func (s *stubService) ListByOwner(_ context.Context, _ int64, state State) ([]BookingDto, error) {
	s.lastState = state
	return s.list, s.err
}

func (s *stubService) LastForItem(_ context.Context, _ int64) (*BookingDto, error) {
	return s.booking, s.err
}

func (s *stubService) NextForItem(_ context.Context, _ int64) (*BookingDto, error) {
	return s.booking, s.err
}

func (s *stubService) FinishedByItemAndBooker(_ context.Context, _, _ int64) ([]BookingDto, error) {
	return s.list, s.err
}

func newTestServer(svc Service) *httptest.Server {
	r := chi.NewRouter()
	r.Route("/bookings", NewHandler(svc, slog.New(slog.NewTextHandler(io.Discard, nil))).Routes)
	return httptest.NewServer(r)
}

func doRequest(t *testing.T, method, url string, userID string, body string) *http.Response {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req, err := http.NewRequest(method, url, reader)
	require.NoError(t, err)
	if userID != "" {
		req.Header.Set("X-Sharer-User-Id", userID)
	}
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func TestHandlerRequiresUserHeader(t *testing.T) {
	server := newTestServer(&stubService{})
	defer server.Close()

	for _, tc := range []struct{ method, path string }{
		{http.MethodPost, "/bookings"},
		{http.MethodGet, "/bookings"},
		{http.MethodGet, "/bookings/owner"},
		{http.MethodGet, "/bookings/1"},
		{http.MethodPatch, "/bookings/1?approved=true"},
	} {
		resp := doRequest(t, tc.method, server.URL+tc.path, "", "")
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode, "%s %s", tc.method, tc.path)
	}

	resp := doRequest(t, http.MethodGet, server.URL+"/bookings", "abc", "")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode, "non-numeric header")
}

func TestHandlerStatusMapping(t *testing.T) {
	cases := []struct {
		err  error
		want int
	}{
		{apperr.NotFound("missing"), http.StatusNotFound},
		{apperr.Validation("bad"), http.StatusBadRequest},
		{apperr.AccessDenied("nope"), http.StatusForbidden},
	}
	for _, tc := range cases {
		server := newTestServer(&stubService{err: tc.err})
		resp := doRequest(t, http.MethodGet, server.URL+"/bookings/1", "1", "")
		assert.Equal(t, tc.want, resp.StatusCode)
		server.Close()
	}
}

func TestHandlerCreate(t *testing.T) {
	dto := &BookingDto{ID: 7, Status: StatusWaiting}
	server := newTestServer(&stubService{booking: dto})
	defer server.Close()

	start := time.Now().Add(time.Hour).Format(time.RFC3339)
	end := time.Now().Add(2 * time.Hour).Format(time.RFC3339)
	body := `{"itemId": 1, "start": "` + start + `", "end": "` + end + `"}`

	resp := doRequest(t, http.MethodPost, server.URL+"/bookings", "1", body)
	assert.Equal(t, http.StatusCreated, resp.StatusCode)

	resp = doRequest(t, http.MethodPost, server.URL+"/bookings", "1", "{not json")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestHandlerListQueryParsing(t *testing.T) {
	stub := &stubService{list: []BookingDto{}}
	server := newTestServer(stub)
	defer server.Close()

	resp := doRequest(t, http.MethodGet, server.URL+"/bookings?state=waiting&from=5&size=3", "1", "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, StateWaiting, stub.lastState)
	assert.Equal(t, 5, stub.lastFrom)
	assert.Equal(t, 3, stub.lastSize)

	// Defaults apply when parameters are absent.
	resp = doRequest(t, http.MethodGet, server.URL+"/bookings", "1", "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, StateAll, stub.lastState)
	assert.Equal(t, 0, stub.lastFrom)
	assert.Equal(t, 10, stub.lastSize)

	resp = doRequest(t, http.MethodGet, server.URL+"/bookings?state=nonsense", "1", "")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp = doRequest(t, http.MethodGet, server.URL+"/bookings?from=-1", "1", "")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp = doRequest(t, http.MethodGet, server.URL+"/bookings?size=0", "1", "")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp = doRequest(t, http.MethodGet, server.URL+"/bookings/owner?state=rejected", "1", "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, StateRejected, stub.lastState)

	resp = doRequest(t, http.MethodPatch, server.URL+"/bookings/1", "1", "")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode, "missing approved parameter")
}

package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	slacklog "github.com/firstandthird/go-slack-logging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHTTPMiddlewareAttachesMeta(t *testing.T) {
	var meta slacklog.Meta
	var found bool
	handler := HTTPMiddleware()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		meta, found = slacklog.MetaFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	}))

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/submit", nil)
	req.Header.Set("X-Request-ID", "req-7")
	handler.ServeHTTP(w, req)

	require.True(t, found)
	assert.Equal(t, "req-7", meta.RequestID)
	assert.Equal(t, http.MethodPost, meta.Method)
	assert.Equal(t, "/submit", meta.Path)
	assert.Equal(t, "req-7", w.Header().Get("X-Request-ID"))
}

func TestHTTPErrorReporterForwards5xx(t *testing.T) {
	hub := slacklog.NewHub()
	var reported []error
	hub.OnRequestError(func(_ *http.Request, err error) { reported = append(reported, err) })

	handler := HTTPErrorReporter(hub)(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))

	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))

	require.Len(t, reported, 1)
	assert.Contains(t, reported[0].Error(), "status 502")
}

func TestHTTPErrorReporterIgnoresSuccess(t *testing.T) {
	hub := slacklog.NewHub()
	var reported []error
	hub.OnRequestError(func(_ *http.Request, err error) { reported = append(reported, err) })

	handler := HTTPErrorReporter(hub)(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Empty(t, reported)
}

func TestHTTPErrorReporterRecoversPanics(t *testing.T) {
	hub := slacklog.NewHub()
	var reported []error
	hub.OnRequestError(func(_ *http.Request, err error) { reported = append(reported, err) })

	handler := HTTPErrorReporter(hub)(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("kaboom")
	}))

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	require.Len(t, reported, 1)
	assert.Contains(t, reported[0].Error(), "PANIC: kaboom")
}

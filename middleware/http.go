package middleware

import (
	"fmt"
	"net/http"

	slacklog "github.com/firstandthird/go-slack-logging"
)

// responseWriter wraps http.ResponseWriter to capture the status code.
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

// HTTPMiddleware is the framework-agnostic alternative to GinMiddleware:
// it attaches request metadata to the context and echoes the request ID.
func HTTPMiddleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			meta := slacklog.NewRequestMeta(r)
			r = r.WithContext(slacklog.WithMeta(r.Context(), meta))
			w.Header().Set("X-Request-ID", meta.RequestID)

			next.ServeHTTP(w, r)
		})
	}
}

// HTTPErrorReporter is the framework-agnostic alternative to
// GinErrorReporter: panics and 5xx responses become request-error events.
// It recovers panics itself since net/http has no error collection to read
// from afterwards.
func HTTPErrorReporter(src *slacklog.Hub) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			rw := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}

			defer func() {
				if rec := recover(); rec != nil {
					http.Error(w, "Internal Server Error", http.StatusInternalServerError)
					src.RequestError(r, fmt.Errorf("PANIC: %v", rec))
				}
			}()

			next.ServeHTTP(rw, r)

			if rw.statusCode >= http.StatusInternalServerError {
				src.RequestError(r, fmt.Errorf("request failed with status %d", rw.statusCode))
			}
		})
	}
}

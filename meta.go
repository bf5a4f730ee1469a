package slacklog

import (
	"context"
	"net/http"

	"github.com/google/uuid"
)

type metaKey struct{}

// Meta is the request metadata the middleware attaches to a request context.
// When present, internal-error reports carry it alongside the error message
// so the chat channel shows which request blew up.
type Meta struct {
	RequestID string
	IP        string
	Method    string
	Path      string
	UserAgent string
}

// WithMeta returns a context carrying meta.
func WithMeta(ctx context.Context, meta Meta) context.Context {
	return context.WithValue(ctx, metaKey{}, meta)
}

// MetaFromContext extracts request metadata attached by the middleware.
func MetaFromContext(ctx context.Context) (Meta, bool) {
	meta, ok := ctx.Value(metaKey{}).(Meta)
	return meta, ok
}

// NewRequestMeta builds request metadata from an incoming HTTP request,
// minting a request ID when the client did not send one.
func NewRequestMeta(r *http.Request) Meta {
	reqID := r.Header.Get("X-Request-ID")
	if reqID == "" {
		reqID = uuid.NewString()
	}

	return Meta{
		RequestID: reqID,
		IP:        clientIP(r),
		Method:    r.Method,
		Path:      r.URL.Path,
		UserAgent: r.UserAgent(),
	}
}

func clientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		return xff
	}
	if xri := r.Header.Get("X-Real-IP"); xri != "" {
		return xri
	}
	return r.RemoteAddr
}

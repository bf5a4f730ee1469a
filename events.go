package slacklog

import (
	"net/http"
	"sync"
)

// EventSource is the host collaboration surface the forwarder attaches to:
// something that can hand it log events and unhandled request errors.
// Hosts with their own event bus implement this directly; everyone else can
// use Hub.
type EventSource interface {
	OnLog(handler func(tags Tags, data any))
	OnRequestError(handler func(r *http.Request, err error))
}

// LogEmitter is the optional write side of an event source. When the
// attached source also emits, the forwarder routes its guarded failure
// reports back through it so they travel the host's normal log pipeline.
type LogEmitter interface {
	Log(tags Tags, data any)
}

// Hub is a minimal in-process event channel for hosts without a bus of
// their own. Delivery is synchronous and in registration order; handlers
// that must not block the emitter are expected to go asynchronous
// themselves, which is exactly what the forwarder's dispatch path does.
type Hub struct {
	mu          sync.RWMutex
	logHandlers []func(tags Tags, data any)
	errHandlers []func(r *http.Request, err error)
}

// NewHub returns an empty hub.
func NewHub() *Hub {
	return &Hub{}
}

// OnLog registers a handler for log events.
func (h *Hub) OnLog(handler func(tags Tags, data any)) {
	h.mu.Lock()
	h.logHandlers = append(h.logHandlers, handler)
	h.mu.Unlock()
}

// OnRequestError registers a handler for unhandled request errors.
func (h *Hub) OnRequestError(handler func(r *http.Request, err error)) {
	h.mu.Lock()
	h.errHandlers = append(h.errHandlers, handler)
	h.mu.Unlock()
}

// Log delivers a log event to every registered handler.
func (h *Hub) Log(tags Tags, data any) {
	h.mu.RLock()
	handlers := make([]func(tags Tags, data any), len(h.logHandlers))
	copy(handlers, h.logHandlers)
	h.mu.RUnlock()

	for _, handler := range handlers {
		handler(tags, data)
	}
}

// RequestError delivers an unhandled request error to every registered
// handler.
func (h *Hub) RequestError(r *http.Request, err error) {
	h.mu.RLock()
	handlers := make([]func(r *http.Request, err error), len(h.errHandlers))
	copy(handlers, h.errHandlers)
	h.mu.RUnlock()

	for _, handler := range handlers {
		handler(r, err)
	}
}

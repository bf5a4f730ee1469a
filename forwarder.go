// Package slacklog forwards a host server's log events and unhandled
// request errors to a Slack incoming webhook. Events are filtered by tag,
// formatted into attachment documents and posted best-effort: one attempt,
// no queue, and a delivery failure is reported through a guarded log entry
// instead of surfacing back into the host's logging call.
package slacklog

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
)

// internalErrorTags is the fixed tag pair attached to request-error reports.
var internalErrorTags = TagList{"internal-error", "error"}

// EmitterFunc adapts a plain function to the LogEmitter interface.
type EmitterFunc func(tags Tags, data any)

// Log calls the function.
func (f EmitterFunc) Log(tags Tags, data any) { f(tags, data) }

// Forwarder is the event router and manual posting surface. All state is
// fixed at construction; concurrent events need no coordination.
type Forwarder struct {
	cfg       Config
	transport Transport
	log       *slog.Logger

	// emit carries guarded failure reports back into the host's log
	// pipeline. Set via WithEmitter or Attach, before any event flows.
	emit LogEmitter

	inflight sync.WaitGroup
}

// Option customizes a Forwarder at construction.
type Option func(*Forwarder)

// WithTransport replaces the default webhook client, e.g. with a fake in
// tests.
func WithTransport(t Transport) Option {
	return func(f *Forwarder) { f.transport = t }
}

// WithLogger sets the logger used for the forwarder's own diagnostics.
func WithLogger(log *slog.Logger) Option {
	return func(f *Forwarder) { f.log = log }
}

// WithEmitter routes guarded failure reports into the host's log pipeline.
func WithEmitter(emit LogEmitter) Option {
	return func(f *Forwarder) { f.emit = emit }
}

/**
 * New creates a Forwarder for the given configuration.
 * The configuration is validated up front: a missing or malformed webhook
 * URL is fatal here, never a silent no-op later.
 *
 * @param cfg Forwarding configuration, copied and immutable afterwards
 * @param opts Optional transport/logger/emitter overrides
 * @return *Forwarder Ready-to-attach forwarder, or an ErrInvalidConfig-
 *         wrapped error
 */
func New(cfg Config, opts ...Option) (*Forwarder, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	f := &Forwarder{cfg: cfg}
	for _, opt := range opts {
		opt(f)
	}
	if f.transport == nil {
		f.transport = NewClient(cfg.WebhookURL)
	}
	if f.log == nil {
		f.log = slog.Default()
	}

	return f, nil
}

// Attach subscribes the forwarder to the host's events: the log event only
// when trigger tags are configured, the request-error event only when
// internal-error reporting is on. When the source can also emit log events
// and no emitter was set, failure reports are routed back through it; the
// guard tag keeps them from re-triggering forwarding.
func (f *Forwarder) Attach(src EventSource) {
	if len(f.cfg.TriggerTags) > 0 {
		src.OnLog(f.HandleLog)
	}
	if f.cfg.InternalErrors {
		src.OnRequestError(f.HandleRequestError)
	}
	if f.emit == nil {
		if emitter, ok := src.(LogEmitter); ok {
			f.emit = emitter
		}
	}
}

// HandleLog is the log event handler. Events carrying the guard tag are
// discarded; the rest are forwarded when their tags intersect the configured
// trigger tags. Delivery happens on a separate goroutine so the host's
// logging call never waits on Slack.
func (f *Forwarder) HandleLog(tags Tags, data any) {
	raw := Normalize(tags, nil)
	if raw.Contains(GuardTag) {
		return
	}
	if !raw.Intersects(f.cfg.TriggerTags) {
		return
	}

	f.dispatch(Normalize(tags, f.cfg.AdditionalTags), AsMessage(data))
}

// HandleRequestError is the request-error event handler. Reports are tagged
// {"internal-error", "error"} and titled with the error's message; when the
// middleware left request metadata on the context, the report also carries
// the method, path and request ID.
func (f *Forwarder) HandleRequestError(r *http.Request, err error) {
	if err == nil {
		return
	}

	msg := Message(Text(err.Error()))
	if r != nil {
		if meta, ok := MetaFromContext(r.Context()); ok {
			msg = Record{
				"message":    err.Error(),
				"method":     meta.Method,
				"path":       meta.Path,
				"request_id": meta.RequestID,
			}
		}
	}

	f.dispatch(Normalize(internalErrorTags, f.cfg.AdditionalTags), msg)
}

// dispatch formats and posts one notification without blocking the caller.
// Failures of any kind end up in reportFailure, never in the event source.
func (f *Forwarder) dispatch(tags TagList, msg Message) {
	f.inflight.Add(1)
	go func() {
		defer f.inflight.Done()

		body, err := f.render(tags, msg)
		if err != nil {
			f.reportFailure(err)
			return
		}
		if err := f.transport.Post(context.Background(), body); err != nil {
			f.reportFailure(err)
		}
	}()
}

// Flush waits for in-flight deliveries. Call it before shutdown so
// fire-and-forget posts are not cut off mid-request.
func (f *Forwarder) Flush() {
	f.inflight.Wait()
}

// reportFailure turns a delivery failure into exactly one guarded log
// emission. The guard tag makes the report inert if it loops back into
// HandleLog, so a dead webhook cannot take the host down with it.
func (f *Forwarder) reportFailure(err error) {
	f.log.Warn("slack delivery failed", slog.Any("error", err))
	if f.emit != nil {
		f.emit.Log(TagList{GuardTag}, err.Error())
	}
}

func (f *Forwarder) render(tags TagList, msg Message) ([]byte, error) {
	payload, err := Format(tags, msg, &f.cfg)
	if err != nil {
		return nil, err
	}
	return payload.Marshal()
}

/**
 * PostMessage formats and posts a notification outside the event path.
 * Unlike the event handlers it is synchronous: the delivery error, if any,
 * is the caller's to handle.
 *
 * @param ctx Context bounding the webhook call
 * @param tags Tags for the notification, list or mapping form
 * @param data Message payload, coerced via AsMessage
 * @return error Format or transport failure, nil on success
 */
func (f *Forwarder) PostMessage(ctx context.Context, tags Tags, data any) error {
	body, err := f.render(Normalize(tags, f.cfg.AdditionalTags), AsMessage(data))
	if err != nil {
		return err
	}
	return f.transport.Post(ctx, body)
}

// PostRaw posts a pre-built payload, skipping the formatter. Accepted
// shapes: *Payload, Payload, []byte and string (the latter two sent as-is).
func (f *Forwarder) PostRaw(ctx context.Context, payload any) error {
	var body []byte
	switch p := payload.(type) {
	case *Payload:
		b, err := p.Marshal()
		if err != nil {
			return fmt.Errorf("slacklog: marshal payload: %w", err)
		}
		body = b
	case Payload:
		b, err := p.Marshal()
		if err != nil {
			return fmt.Errorf("slacklog: marshal payload: %w", err)
		}
		body = b
	case []byte:
		body = p
	case string:
		body = []byte(p)
	default:
		b, err := json.Marshal(p)
		if err != nil {
			return fmt.Errorf("slacklog: marshal payload: %w", err)
		}
		body = b
	}
	return f.transport.Post(ctx, body)
}

// BuildPayload formats a notification and returns the serialized document
// without posting it.
func (f *Forwarder) BuildPayload(tags Tags, data any) ([]byte, error) {
	return f.render(Normalize(tags, f.cfg.AdditionalTags), AsMessage(data))
}

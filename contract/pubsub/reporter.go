package pubsub

import (
	"context"
	"time"
)

// Incident describes a subscriber that panicked during dispatch.
type Incident struct {
	ID         string    `json:"id"`
	Channel    string    `json:"channel"`
	Subscriber int       `json:"subscriber"` // index within the dispatched batch
	Panic      string    `json:"panic"`
	Stack      string    `json:"stack,omitempty"`
	Time       time.Time `json:"time"`
}

// Reporter receives dispatch incidents. Implementations back onto a logger
// or an external collector (NATS, Kafka, RabbitMQ, in-memory).
// Implementations must be safe for concurrent use.
type Reporter interface {
	Report(ctx context.Context, inc Incident) error
}

// NopReporter drops every incident.
type NopReporter struct{}

func (NopReporter) Report(ctx context.Context, inc Incident) error {
	_ = ctx
	_ = inc

	return nil
}

// HeaderPropagator abstracts injecting tracing context into outbound headers.
// Implementations may bridge to OpenTelemetry or any other propagation standard.
type HeaderPropagator interface {
	Inject(ctx context.Context, headers map[string]string)
}

// NopHeaderPropagator is a no-op implementation useful for tests or when tracing is disabled.
type NopHeaderPropagator struct{}

func (NopHeaderPropagator) Inject(ctx context.Context, headers map[string]string) {
	_ = ctx
	_ = headers
}

package pubsub

import (
	"log/slog"
	"time"

	"github.com/benbjohnson/clock"

	cps "github.com/next-trace/scg-pubsub/contract/pubsub"
	"github.com/next-trace/scg-pubsub/metrics"
)

const (
	// DefaultChannelInverter prefixes a channel name to build its reverse channel.
	DefaultChannelInverter = "@"
	// DefaultListeningTimeout bounds how long a request listens on its reverse channel.
	DefaultListeningTimeout = 200 * time.Millisecond
	// DefaultReportTimeout bounds a single Reporter call.
	DefaultReportTimeout = time.Second
)

// Option configures a Registry instance.
type Option func(*Registry)

// WithChannelInverter sets the reverse channel prefix. Empty values are ignored.
func WithChannelInverter(inv string) Option {
	return func(r *Registry) {
		if inv != "" {
			r.inverter = inv
		}
	}
}

// WithListeningTimeout sets how long requests keep their reverse subscription.
func WithListeningTimeout(d time.Duration) Option {
	return func(r *Registry) {
		if d > 0 {
			r.timeout = d
		}
	}
}

// WithLogger sets the logger. A nil logger keeps slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(r *Registry) {
		if l != nil {
			r.logger = l
		}
	}
}

// WithReporter sets where subscriber panics are reported.
func WithReporter(rep cps.Reporter) Option {
	return func(r *Registry) {
		if rep != nil {
			r.reporter = rep
		}
	}
}

// WithReportTimeout bounds each Reporter call.
func WithReportTimeout(d time.Duration) Option {
	return func(r *Registry) {
		if d > 0 {
			r.reportTimeout = d
		}
	}
}

// WithClock replaces the clock used for request expiry and incident timestamps.
func WithClock(c clock.Clock) Option {
	return func(r *Registry) {
		if c != nil {
			r.clock = c
		}
	}
}

// WithMetrics attaches a Prometheus collector.
func WithMetrics(m *metrics.Collector) Option {
	return func(r *Registry) { r.metrics = m }
}

// WithMiddleware registers middleware wrapping every subscriber invocation.
func WithMiddleware(mw ...cps.Middleware) Option {
	return func(r *Registry) { r.mw = append(r.mw, mw...) }
}

package pubsub

import (
	"context"
	"log/slog"
	"maps"
	"reflect"
	"slices"
	"sync"
	"time"

	"github.com/benbjohnson/clock"

	perr "github.com/next-trace/scg-pubsub/contract/errors"
	cps "github.com/next-trace/scg-pubsub/contract/pubsub"
	"github.com/next-trace/scg-pubsub/metrics"
)

// Registry maps channel names to ordered subscriber lists and dispatches
// publishes to them through a single FIFO queue.
//
// Registry is concurrency-safe and contains no global state.
type Registry struct {
	mu       sync.Mutex
	channels map[string][]entry
	pending  map[uint64]listener // request listeners awaiting expiry, by registration id
	nextID   uint64
	closed   bool

	inverter string
	timeout  time.Duration

	queue *taskQueue

	mw            []cps.Middleware
	clock         clock.Clock
	logger        *slog.Logger
	reporter      cps.Reporter
	reportTimeout time.Duration
	metrics       *metrics.Collector
}

type entry struct {
	id uint64
	cb cps.Callback
}

type listener struct {
	channel string
	timer   *clock.Timer
}

var _ cps.PubSub = (*Registry)(nil)

// New constructs a Registry and starts its dispatch goroutine.
// Call Close to stop it.
func New(opts ...Option) *Registry {
	r := &Registry{
		channels:      make(map[string][]entry),
		pending:       make(map[uint64]listener),
		inverter:      DefaultChannelInverter,
		timeout:       DefaultListeningTimeout,
		clock:         clock.New(),
		logger:        slog.Default(),
		reporter:      cps.NopReporter{},
		reportTimeout: DefaultReportTimeout,
	}

	for _, opt := range opts {
		opt(r)
	}

	r.queue = newTaskQueue(r.metrics.SetQueueDepth)

	return r
}

// Subscribe appends cb to channel's subscribers and returns a Handle for
// that registration. The same callback may be subscribed more than once.
func (r *Registry) Subscribe(channel string, cb cps.Callback) (cps.Handle, error) {
	if err := validate(channel, cb); err != nil {
		return cps.Handle{}, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		return cps.Handle{}, perr.ErrClosed
	}

	r.nextID++
	id := r.nextID
	r.channels[channel] = append(r.channels[channel], entry{id: id, cb: cb})

	return cps.Handle{Channel: channel, Callback: cb, ID: id}, nil
}

// Unsubscribe removes the registration h refers to. Unknown handles are ignored.
func (r *Registry) Unsubscribe(h cps.Handle) error {
	if err := validate(h.Channel, h.Callback); err != nil {
		return err
	}

	if h.ID == 0 {
		return r.UnsubscribeFunc(h.Channel, h.Callback)
	}

	r.mu.Lock()
	r.removeID(h.Channel, h.ID)
	r.mu.Unlock()

	return nil
}

// UnsubscribeFunc removes the first registration of cb on channel, in
// registration order. A missing registration is not an error.
func (r *Registry) UnsubscribeFunc(channel string, cb cps.Callback) error {
	if err := validate(channel, cb); err != nil {
		return err
	}

	r.mu.Lock()
	r.remove(channel, func(e entry) bool { return sameCallback(e.cb, cb) }, 1)
	r.mu.Unlock()

	return nil
}

// UnsubscribeAll removes every registration of cb on channel and returns how many were removed.
func (r *Registry) UnsubscribeAll(channel string, cb cps.Callback) (int, error) {
	if err := validate(channel, cb); err != nil {
		return 0, err
	}

	r.mu.Lock()
	n := r.remove(channel, func(e entry) bool { return sameCallback(e.cb, cb) }, -1)
	r.mu.Unlock()

	return n, nil
}

// Subscribers returns the number of registrations on channel.
func (r *Registry) Subscribers(channel string) int {
	r.mu.Lock()
	defer r.mu.Unlock()

	return len(r.channels[channel])
}

// Channels returns the names of channels with at least one subscriber, sorted.
func (r *Registry) Channels() []string {
	r.mu.Lock()
	defer r.mu.Unlock()

	return slices.Sorted(maps.Keys(r.channels))
}

// Flush waits until every queued dispatch batch has run, including batches
// published by subscribers while draining. It must not be called from a subscriber.
func (r *Registry) Flush(ctx context.Context) error {
	return r.queue.flush(ctx)
}

// Close stops accepting subscriptions and publishes, removes pending request
// listeners, and waits for already queued batches to finish or ctx to end.
// Close is safe to call more than once.
func (r *Registry) Close(ctx context.Context) error {
	r.mu.Lock()
	if !r.closed {
		r.closed = true

		for id, l := range r.pending {
			l.timer.Stop()
			r.removeID(l.channel, id)
			delete(r.pending, id)
		}

		r.metrics.SetPending(0)
	}
	r.mu.Unlock()

	r.queue.close()

	return r.queue.wait(ctx)
}

// removeID drops the registration with the given id. Callers hold r.mu.
func (r *Registry) removeID(channel string, id uint64) {
	r.remove(channel, func(e entry) bool { return e.id == id }, 1)
}

// remove deletes up to limit matching entries (all when limit < 0), keeping
// the order of the rest. Callers hold r.mu.
func (r *Registry) remove(channel string, match func(entry) bool, limit int) int {
	subs := r.channels[channel]
	removed := 0

	for i := 0; i < len(subs) && removed != limit; {
		if !match(subs[i]) {
			i++
			continue
		}

		subs = slices.Delete(subs, i, i+1)
		removed++
	}

	if len(subs) == 0 {
		delete(r.channels, channel)
	} else {
		r.channels[channel] = subs
	}

	return removed
}

// snapshot copies channel's subscribers. Callers hold r.mu.
func (r *Registry) snapshot(channel string) []entry {
	return slices.Clone(r.channels[channel])
}

func validate(channel string, cb cps.Callback) error {
	if channel == "" {
		return perr.ErrInvalidChannel
	}

	if isNil(cb) {
		return perr.ErrInvalidCallback
	}

	return nil
}

func isNil(cb cps.Callback) bool {
	if cb == nil {
		return true
	}

	v := reflect.ValueOf(cb)
	switch v.Kind() {
	case reflect.Func, reflect.Pointer, reflect.Map, reflect.Chan, reflect.Slice, reflect.Interface:
		return v.IsNil()
	default:
		return false
	}
}

// sameCallback compares by identity. Callbacks of non-comparable dynamic
// types (plain funcs) never match.
func sameCallback(a, b cps.Callback) (same bool) {
	ta := reflect.TypeOf(a)
	if ta != reflect.TypeOf(b) || !ta.Comparable() {
		return false
	}

	// comparable structs may still hold non-comparable interface values
	defer func() {
		if recover() != nil {
			same = false
		}
	}()

	return a == b
}

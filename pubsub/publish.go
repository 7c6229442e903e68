package pubsub

import (
	"context"
	"fmt"
	"runtime/debug"

	"github.com/google/uuid"

	cps "github.com/next-trace/scg-pubsub/contract/pubsub"
)

// Publish schedules args for every current subscriber of channel, in
// registration order. The subscriber list is captured now; changes made
// before the batch runs do not affect it. Unknown channels are a no-op.
func (r *Registry) Publish(channel string, args ...any) {
	r.mu.Lock()
	subs := r.snapshot(channel)
	closed := r.closed
	r.mu.Unlock()

	if closed {
		r.drop(channel)
		return
	}

	if len(subs) == 0 {
		return
	}

	params := append([]any(nil), args...)
	if !r.queue.push(func() { r.dispatch(channel, subs, params) }) {
		r.drop(channel)
		return
	}

	r.metrics.ObservePublish()
}

// PublishSync dispatches on the caller's goroutine before returning.
// Snapshot and panic isolation rules match Publish.
func (r *Registry) PublishSync(channel string, args ...any) {
	r.mu.Lock()
	subs := r.snapshot(channel)
	closed := r.closed
	r.mu.Unlock()

	if closed {
		r.drop(channel)
		return
	}

	if len(subs) == 0 {
		return
	}

	r.metrics.ObservePublish()
	r.dispatch(channel, subs, args)
}

func (r *Registry) drop(channel string) {
	r.metrics.ObserveDrop()
	r.logger.Debug("publish after close dropped", "channel", channel)
}

func (r *Registry) dispatch(channel string, subs []entry, args []any) {
	for i, e := range subs {
		r.invoke(channel, i, e.cb, args)
	}
}

// invoke runs one subscriber. A panic is reported and does not stop the batch.
func (r *Registry) invoke(channel string, index int, cb cps.Callback, args []any) {
	defer func() {
		if v := recover(); v != nil {
			r.metrics.ObservePanic()
			r.report(channel, index, v, debug.Stack())
		}
	}()

	r.wrap(cb).Call(args...)
	r.metrics.ObserveDispatch()
}

// wrap applies middleware so the first registered runs outermost.
func (r *Registry) wrap(cb cps.Callback) cps.Callback {
	final := cb
	for i := len(r.mw) - 1; i >= 0; i-- {
		final = r.mw[i](final)
	}

	return final
}

func (r *Registry) report(channel string, index int, v any, stack []byte) {
	inc := cps.Incident{
		ID:         uuid.NewString(),
		Channel:    channel,
		Subscriber: index,
		Panic:      fmt.Sprint(v),
		Stack:      string(stack),
		Time:       r.clock.Now(),
	}

	r.logger.Error("subscriber panicked",
		"channel", channel,
		"subscriber", index,
		"panic", inc.Panic,
		"incident", inc.ID,
	)

	ctx, cancel := context.WithTimeout(context.Background(), r.reportTimeout)
	defer cancel()

	defer func() {
		if p := recover(); p != nil {
			r.logger.Error("incident reporter panicked", "incident", inc.ID, "panic", fmt.Sprint(p))
		}
	}()

	if err := r.reporter.Report(ctx, inc); err != nil {
		r.logger.Error("incident report failed", "incident", inc.ID, "err", err)
	}
}

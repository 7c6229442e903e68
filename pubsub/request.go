package pubsub

import (
	"time"

	cps "github.com/next-trace/scg-pubsub/contract/pubsub"
)

// Request subscribes answer on the reverse channel until the listening
// timeout elapses, then publishes args on channel. Every answer published in
// that window reaches answer; later ones are dropped. The timeout only
// bounds the listener's lifetime and is not reported to the caller.
//
// channel and answer are validated before anything is published.
func (r *Registry) Request(channel string, answer cps.Callback, args ...any) error {
	if err := validate(channel, answer); err != nil {
		return err
	}

	r.mu.Lock()
	reverse := r.inverter + channel
	timeout := r.timeout
	r.mu.Unlock()

	// the listener must exist before the forward batch can reach a responder
	h, err := r.Subscribe(reverse, answer)
	if err != nil {
		return err
	}

	r.expire(h, timeout)
	r.Publish(channel, args...)
	r.metrics.ObserveRequest()

	return nil
}

// Answer publishes args on the reverse channel of channel, which is the
// original forward channel name. All requesters still listening receive it;
// there is no correlation between a request and its answers.
func (r *Registry) Answer(channel string, args ...any) {
	r.Publish(r.ReverseChannel(channel), args...)
	r.metrics.ObserveAnswer()
}

// ReverseChannel returns the channel requests on channel listen on.
func (r *Registry) ReverseChannel(channel string) string {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.inverter + channel
}

// SetChannelInverter changes the reverse channel prefix for later requests
// and answers. Empty values are ignored.
func (r *Registry) SetChannelInverter(inv string) {
	if inv == "" {
		return
	}

	r.mu.Lock()
	r.inverter = inv
	r.mu.Unlock()
}

// SetListeningTimeout changes the timeout applied to later requests.
func (r *Registry) SetListeningTimeout(d time.Duration) {
	if d <= 0 {
		return
	}

	r.mu.Lock()
	r.timeout = d
	r.mu.Unlock()
}

// ListeningTimeout reports the timeout applied to new requests.
func (r *Registry) ListeningTimeout() time.Duration {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.timeout
}

// PendingRequests reports how many request listeners are still waiting to expire.
func (r *Registry) PendingRequests() int {
	r.mu.Lock()
	defer r.mu.Unlock()

	return len(r.pending)
}

// expire removes h's registration after d. Timers are not cancelable
// except by Close.
func (r *Registry) expire(h cps.Handle, d time.Duration) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		r.removeID(h.Channel, h.ID)
		return
	}

	timer := r.clock.AfterFunc(d, func() {
		r.mu.Lock()
		delete(r.pending, h.ID)
		r.removeID(h.Channel, h.ID)
		r.metrics.SetPending(len(r.pending))
		r.mu.Unlock()

		r.logger.Debug("request listener expired", "channel", h.Channel)
	})

	r.pending[h.ID] = listener{channel: h.Channel, timer: timer}
	r.metrics.SetPending(len(r.pending))
}

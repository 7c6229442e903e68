package pubsub

import "context"

// PubSub is the tech-agnostic surface of a channel registry.
// Consumers that only need the operations should depend on this interface.
type PubSub interface {
	Subscribe(channel string, cb Callback) (Handle, error)
	Unsubscribe(h Handle) error
	UnsubscribeFunc(channel string, cb Callback) error

	// Publish schedules delivery; it never runs subscribers inline.
	Publish(channel string, args ...any)

	// Request/answer over the reverse channel
	Request(channel string, answer Callback, args ...any) error
	Answer(channel string, args ...any)

	// Lifecycle
	Close(ctx context.Context) error
}

package pubsub

import (
	"sync"

	cps "github.com/next-trace/scg-pubsub/contract/pubsub"
)

var (
	defaultOnce sync.Once
	defaultReg  *Registry
)

// Default returns the process-wide registry, created with default options on first use.
// It is never closed.
func Default() *Registry {
	defaultOnce.Do(func() { defaultReg = New() })

	return defaultReg
}

// Subscribe registers cb on channel in the default registry.
func Subscribe(channel string, cb cps.Callback) (cps.Handle, error) {
	return Default().Subscribe(channel, cb)
}

// Unsubscribe removes h from the default registry.
func Unsubscribe(h cps.Handle) error { return Default().Unsubscribe(h) }

// UnsubscribeFunc removes the first registration of cb on channel in the default registry.
func UnsubscribeFunc(channel string, cb cps.Callback) error {
	return Default().UnsubscribeFunc(channel, cb)
}

// Publish publishes on the default registry.
func Publish(channel string, args ...any) { Default().Publish(channel, args...) }

// Request issues a request on the default registry.
func Request(channel string, answer cps.Callback, args ...any) error {
	return Default().Request(channel, answer, args...)
}

// Answer answers on the default registry.
func Answer(channel string, args ...any) { Default().Answer(channel, args...) }

// Func wraps fn into a Callback that can be unsubscribed by identity.
func Func(fn func(args ...any)) cps.Callback { return cps.Func(fn) }

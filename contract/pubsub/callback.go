package pubsub

// Callback receives the positional arguments of a publish.
// Registrations are identified by interface equality, so a Callback whose
// dynamic type is a pointer can be removed by passing the same value back.
type Callback interface {
	Call(args ...any)
}

// CallbackFunc adapts an ordinary function to Callback.
// Func values are not comparable, so a CallbackFunc can be removed only via
// the Handle returned when it was subscribed.
type CallbackFunc func(args ...any)

// Call invokes f with args.
func (f CallbackFunc) Call(args ...any) { f(args...) }

type funcCallback struct {
	fn func(args ...any)
}

func (c *funcCallback) Call(args ...any) { c.fn(args...) }

// Func wraps fn into a Callback with identity semantics: each call to Func
// returns a distinct value that matches only itself on unsubscribe.
// A nil fn yields a nil Callback.
func Func(fn func(args ...any)) Callback {
	if fn == nil {
		return nil
	}

	return &funcCallback{fn: fn}
}

// Middleware wraps a subscriber invocation. Middlewares are executed in registration order.
type Middleware func(next Callback) Callback

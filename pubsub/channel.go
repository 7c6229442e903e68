package pubsub

import cps "github.com/next-trace/scg-pubsub/contract/pubsub"

// Channel is a thin facade over Registry bound to one channel name.
type Channel struct {
	r    *Registry
	name string
}

// Channel returns a facade for name.
func (r *Registry) Channel(name string) *Channel { return &Channel{r: r, name: name} }

// Name returns the bound channel name.
func (c *Channel) Name() string { return c.name }

// Subscribe registers cb on the bound channel.
func (c *Channel) Subscribe(cb cps.Callback) (cps.Handle, error) { return c.r.Subscribe(c.name, cb) }

// Unsubscribe removes the first registration of cb on the bound channel.
func (c *Channel) Unsubscribe(cb cps.Callback) error { return c.r.UnsubscribeFunc(c.name, cb) }

// Publish publishes args on the bound channel.
func (c *Channel) Publish(args ...any) { c.r.Publish(c.name, args...) }

// Request issues a request on the bound channel.
func (c *Channel) Request(answer cps.Callback, args ...any) error {
	return c.r.Request(c.name, answer, args...)
}

// Answer answers requests made on the bound channel.
func (c *Channel) Answer(args ...any) { c.r.Answer(c.name, args...) }

// Subscribers returns the number of registrations on the bound channel.
func (c *Channel) Subscribers() int { return c.r.Subscribers(c.name) }

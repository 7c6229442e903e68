package memory

import (
	"context"
	"time"

	"github.com/next-trace/scg-pubsub/adapters/inmemory"
	"github.com/next-trace/scg-pubsub/pubsub"
)

const closeTimeout = 5 * time.Second

// New constructs a registry whose panic incidents go to an in-memory
// recorder, and returns both along with a cleanup function that closes the
// registry. Extra options are applied after the recorder is wired.
func New(opts ...pubsub.Option) (*pubsub.Registry, *inmemory.Recorder, func()) {
	rec := inmemory.New()
	r := pubsub.New(append([]pubsub.Option{pubsub.WithReporter(rec)}, opts...)...)

	cleanup := func() {
		ctx, cancel := context.WithTimeout(context.Background(), closeTimeout)
		defer cancel()

		_ = r.Close(ctx)
	}

	return r, rec, cleanup
}

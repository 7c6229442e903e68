package pubsub_test

import (
	"context"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	cps "github.com/next-trace/scg-pubsub/contract/pubsub"
	"github.com/next-trace/scg-pubsub/pubsub"
)

func newRegistry(t *testing.T, opts ...pubsub.Option) *pubsub.Registry {
	t.Helper()

	all := append([]pubsub.Option{pubsub.WithLogger(slog.New(slog.DiscardHandler))}, opts...)
	r := pubsub.New(all...)
	t.Cleanup(func() { _ = r.Close(context.Background()) })

	return r
}

func flush(t *testing.T, r *pubsub.Registry) {
	t.Helper()

	ctx, cancel := context.WithTimeout(t.Context(), 5*time.Second)
	defer cancel()

	require.NoError(t, r.Flush(ctx))
}

type call struct {
	name string
	args []any
}

// recorder collects invocations across subscribers in the order they happen.
type recorder struct {
	mu    sync.Mutex
	calls []call
}

func (rec *recorder) cb(name string) cps.Callback {
	return pubsub.Func(func(args ...any) {
		rec.mu.Lock()
		rec.calls = append(rec.calls, call{name: name, args: args})
		rec.mu.Unlock()
	})
}

func (rec *recorder) names() []string {
	rec.mu.Lock()
	defer rec.mu.Unlock()

	out := make([]string, 0, len(rec.calls))
	for _, c := range rec.calls {
		out = append(out, c.name)
	}

	return out
}

func (rec *recorder) argsOf(name string) [][]any {
	rec.mu.Lock()
	defer rec.mu.Unlock()

	var out [][]any

	for _, c := range rec.calls {
		if c.name == name {
			out = append(out, c.args)
		}
	}

	return out
}

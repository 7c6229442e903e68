// Package pubsubfx provides a lifecycle-managed pubsub.Registry to fx applications.
package pubsubfx

import (
	"context"
	"log/slog"

	"go.uber.org/fx"

	"github.com/next-trace/scg-pubsub/config"
	cps "github.com/next-trace/scg-pubsub/contract/pubsub"
	"github.com/next-trace/scg-pubsub/metrics"
	"github.com/next-trace/scg-pubsub/pubsub"
)

// Module provides *pubsub.Registry and pubsub.PubSub. The registry is
// closed when the application stops.
var Module = fx.Module("pubsub",
	fx.Provide(ProvideRegistry),
)

type Params struct {
	fx.In

	Lifecycle fx.Lifecycle
	Config    *config.Config     `optional:"true"`
	Logger    *slog.Logger       `optional:"true"`
	Reporter  cps.Reporter       `optional:"true"`
	Metrics   *metrics.Collector `optional:"true"`
}

type Result struct {
	fx.Out

	Registry *pubsub.Registry
	PubSub   cps.PubSub
}

func ProvideRegistry(p Params) Result {
	var opts []pubsub.Option
	if p.Config != nil {
		opts = append(opts, p.Config.Options(p.Logger)...)
	} else {
		opts = append(opts, pubsub.WithLogger(p.Logger))
	}

	if p.Reporter != nil {
		opts = append(opts, pubsub.WithReporter(p.Reporter))
	}

	if p.Metrics != nil {
		opts = append(opts, pubsub.WithMetrics(p.Metrics))
	}

	r := pubsub.New(opts...)

	p.Lifecycle.Append(fx.Hook{
		OnStop: func(ctx context.Context) error { return r.Close(ctx) },
	})

	return Result{Registry: r, PubSub: r}
}

package pubsubfx_test

import (
	"context"
	"log/slog"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/fx"
	"go.uber.org/fx/fxtest"

	"github.com/next-trace/scg-pubsub/adapters/inmemory"
	"github.com/next-trace/scg-pubsub/config"
	perr "github.com/next-trace/scg-pubsub/contract/errors"
	cps "github.com/next-trace/scg-pubsub/contract/pubsub"
	"github.com/next-trace/scg-pubsub/metrics"
	"github.com/next-trace/scg-pubsub/pubsub"
	"github.com/next-trace/scg-pubsub/pubsubfx"
)

func TestModule_ProvidesRegistry(t *testing.T) {
	var (
		reg *pubsub.Registry
		ps  cps.PubSub
	)

	app := fxtest.New(t,
		pubsubfx.Module,
		fx.Populate(&reg, &ps),
	)
	app.RequireStart()

	require.NotNil(t, reg)
	assert.Same(t, reg, ps)

	got := make(chan string, 1)
	_, err := reg.Subscribe("ping", cps.CallbackFunc(func(args ...any) { got <- args[0].(string) }))
	require.NoError(t, err)

	reg.Publish("ping", "pong")
	require.NoError(t, reg.Flush(t.Context()))
	assert.Equal(t, "pong", <-got)

	app.RequireStop()

	_, err = reg.Subscribe("ping", cps.CallbackFunc(func(...any) {}))
	require.ErrorIs(t, err, perr.ErrClosed)
}

func TestModule_UsesOptionalDeps(t *testing.T) {
	cfg, err := config.Load("")
	require.NoError(t, err)

	cfg.ChannelInverter = "reply/"
	rec := inmemory.New()
	col := metrics.New(prometheus.NewRegistry())

	var reg *pubsub.Registry

	app := fxtest.New(t,
		pubsubfx.Module,
		fx.Supply(&cfg, slog.New(slog.DiscardHandler), col),
		fx.Provide(func() cps.Reporter { return rec }),
		fx.Populate(&reg),
	)
	app.RequireStart()
	defer app.RequireStop()

	assert.Equal(t, "reply/orders", reg.ReverseChannel("orders"))

	_, err = reg.Subscribe("boom", cps.CallbackFunc(func(...any) { panic("bad") }))
	require.NoError(t, err)

	reg.Publish("boom")
	require.NoError(t, reg.Flush(context.Background()))

	require.Len(t, rec.Incidents(), 1)
	assert.Equal(t, "boom", rec.Incidents()[0].Channel)
}

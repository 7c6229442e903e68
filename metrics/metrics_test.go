package metrics_test

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/next-trace/scg-pubsub/metrics"
)

func TestCollector_RegistersAndCounts(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := metrics.New(reg)

	c.ObservePublish()
	c.ObservePublish()
	c.ObserveDispatch()
	c.ObservePanic()
	c.ObserveRequest()
	c.ObserveAnswer()
	c.ObserveDrop()
	c.SetPending(3)
	c.SetQueueDepth(5)

	assert.InDelta(t, 2, testutil.ToFloat64(c.Published), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(c.Dispatched), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(c.Panics), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(c.Requests), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(c.Answers), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(c.Dropped), 0)
	assert.InDelta(t, 3, testutil.ToFloat64(c.Pending), 0)
	assert.InDelta(t, 5, testutil.ToFloat64(c.QueueDepth), 0)

	n, err := testutil.GatherAndCount(reg)
	require.NoError(t, err)
	assert.Equal(t, 8, n)
}

func TestCollector_NilSafe(t *testing.T) {
	var c *metrics.Collector

	assert.NotPanics(t, func() {
		c.ObservePublish()
		c.ObserveDispatch()
		c.ObservePanic()
		c.ObserveRequest()
		c.ObserveAnswer()
		c.ObserveDrop()
		c.SetPending(1)
		c.SetQueueDepth(1)
	})
}

func TestCollector_Unregistered(t *testing.T) {
	c := metrics.New(nil)
	c.ObservePublish()

	assert.InDelta(t, 1, testutil.ToFloat64(c.Published), 0)
}

// Package metrics exposes Prometheus instrumentation for a pubsub registry.
package metrics

import "github.com/prometheus/client_golang/prometheus"

const namespace = "pubsub"

// Collector holds the registry's counters and gauges.
// All Observe/Set methods are safe on a nil *Collector.
type Collector struct {
	Published  prometheus.Counter
	Dispatched prometheus.Counter
	Panics     prometheus.Counter
	Requests   prometheus.Counter
	Answers    prometheus.Counter
	Dropped    prometheus.Counter
	Pending    prometheus.Gauge
	QueueDepth prometheus.Gauge
}

// New builds a Collector and registers it with reg when reg is non-nil.
func New(reg prometheus.Registerer) *Collector {
	c := &Collector{
		Published: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "published_total",
			Help:      "Publish calls that scheduled a dispatch batch.",
		}),
		Dispatched: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "dispatched_total",
			Help:      "Subscriber invocations that returned normally.",
		}),
		Panics: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "panics_total",
			Help:      "Subscriber invocations that panicked.",
		}),
		Requests: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "requests_total",
			Help:      "Requests issued.",
		}),
		Answers: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "answers_total",
			Help:      "Answers published on reverse channels.",
		}),
		Dropped: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "dropped_total",
			Help:      "Publishes discarded because the registry was closed.",
		}),
		Pending: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "pending_requests",
			Help:      "Reverse subscriptions waiting for their listening timeout.",
		}),
		QueueDepth: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "queue_depth",
			Help:      "Dispatch batches waiting to run.",
		}),
	}

	if reg != nil {
		reg.MustRegister(
			c.Published, c.Dispatched, c.Panics, c.Requests,
			c.Answers, c.Dropped, c.Pending, c.QueueDepth,
		)
	}

	return c
}

func (c *Collector) ObservePublish() {
	if c != nil {
		c.Published.Inc()
	}
}

func (c *Collector) ObserveDispatch() {
	if c != nil {
		c.Dispatched.Inc()
	}
}

func (c *Collector) ObservePanic() {
	if c != nil {
		c.Panics.Inc()
	}
}

func (c *Collector) ObserveRequest() {
	if c != nil {
		c.Requests.Inc()
	}
}

func (c *Collector) ObserveAnswer() {
	if c != nil {
		c.Answers.Inc()
	}
}

func (c *Collector) ObserveDrop() {
	if c != nil {
		c.Dropped.Inc()
	}
}

// SetPending records the number of live request subscriptions.
func (c *Collector) SetPending(n int) {
	if c != nil {
		c.Pending.Set(float64(n))
	}
}

// SetQueueDepth records the number of queued dispatch batches.
func (c *Collector) SetQueueDepth(n int) {
	if c != nil {
		c.QueueDepth.Set(float64(n))
	}
}

package config

import (
	"fmt"

	"github.com/next-trace/scg-pubsub/adapters/kafka"
	"github.com/next-trace/scg-pubsub/adapters/nats"
	"github.com/next-trace/scg-pubsub/adapters/rabbitmq"
	cps "github.com/next-trace/scg-pubsub/contract/pubsub"
)

// Reporter builds the incident sink named by Sink.Kind. The cleanup is never
// nil and must be called once the registry is closed. Kind "none" yields a
// NopReporter.
func (c Config) Reporter() (cps.Reporter, func(), error) {
	noop := func() {}

	switch c.Sink.Kind {
	case SinkNone, "":
		return cps.NopReporter{}, noop, nil
	case SinkNATS:
		ad, cleanup, err := nats.NewWithNATS(nats.Config{URL: c.Sink.URL, Name: "scg-pubsub", Subject: c.Sink.Subject})
		if err != nil {
			return nil, noop, err
		}

		return ad, cleanup, nil
	case SinkKafka:
		ad, cleanup, err := kafka.NewWithKgo(kafka.Config{Brokers: c.Sink.Brokers, Topic: c.Sink.Subject, ClientID: "scg-pubsub"})
		if err != nil {
			return nil, noop, err
		}

		return ad, cleanup, nil
	case SinkRabbitMQ:
		ad, cleanup, err := rabbitmq.NewWithAMQPConn(rabbitmq.Config{URL: c.Sink.URL, Exchange: c.Sink.Subject})
		if err != nil {
			return nil, noop, err
		}

		return ad, cleanup, nil
	default:
		return nil, noop, fmt.Errorf("%w: %q", ErrUnknownSink, c.Sink.Kind)
	}
}

package rabbitmq

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"maps"
	"strings"

	amqp "github.com/rabbitmq/amqp091-go"

	perr "github.com/next-trace/scg-pubsub/contract/errors"
	cps "github.com/next-trace/scg-pubsub/contract/pubsub"
)

const (
	// DefaultExchange is the topic exchange incidents are published to.
	DefaultExchange = "pubsub.incidents"
	routingPrefix   = "incident."
)

type PubMsg struct {
	Exchange   string
	RoutingKey string
	Body       []byte
	Headers    map[string]string
}

type Publisher interface {
	Publish(ctx context.Context, m PubMsg) error
}

type Adapter struct {
	Publisher  Publisher
	Exchange   string
	Propagator cps.HeaderPropagator // optional, for context propagation into headers
}

var _ cps.Reporter = (*Adapter)(nil)

func New(p Publisher) *Adapter { return &Adapter{Publisher: p, Exchange: DefaultExchange} }

// NewWithPropagator allows configuring a HeaderPropagator for context propagation.
func NewWithPropagator(p Publisher, hp cps.HeaderPropagator) *Adapter {
	return &Adapter{Publisher: p, Exchange: DefaultExchange, Propagator: hp}
}

// Report publishes inc with routing key "incident.<channel>", where the
// channel's slashes become dots so topic bindings can match on it.
func (a *Adapter) Report(ctx context.Context, inc cps.Incident) error {
	if err := a.ready(ctx); err != nil {
		return err
	}

	body, err := mustJSON(inc)
	if err != nil {
		return fmt.Errorf("rabbitmq report serialize: %w", errors.Join(perr.ErrSerializationFailed, err))
	}

	msg := PubMsg{
		Exchange:   a.Exchange,
		RoutingKey: routingForChannel(inc.Channel),
		Body:       body,
		Headers:    map[string]string{"incident-id": inc.ID, "channel": inc.Channel},
	}

	return a.publish(ctx, msg)
}

func routingForChannel(channel string) string {
	key := strings.Trim(strings.ReplaceAll(channel, "/", "."), ".")
	if key == "" {
		key = "_"
	}

	return routingPrefix + key
}

func (a *Adapter) ready(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if a.Publisher == nil {
		return fmt.Errorf("rabbitmq report: %w", perr.ErrReportFailed)
	}

	return nil
}

func (a *Adapter) publish(ctx context.Context, msg PubMsg) error {
	// copy headers to avoid mutating the caller-visible map
	msg.Headers = maps.Clone(msg.Headers)
	if a.Propagator != nil {
		a.Propagator.Inject(ctx, msg.Headers)
	}

	if err := a.Publisher.Publish(ctx, msg); err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return err
		}

		return fmt.Errorf("rabbitmq report publish: %w", errors.Join(perr.ErrReportFailed, err))
	}

	return nil
}

func mustJSON(v any) ([]byte, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}

	return b, nil
}

func amqpHeaders(h map[string]string) amqp.Table {
	if len(h) == 0 {
		return nil
	}

	t := amqp.Table{}
	for k, v := range h {
		t[k] = v
	}

	return t
}

type amqpChannelPublisher struct{ ch *amqp.Channel }

func (p amqpChannelPublisher) Publish(ctx context.Context, m PubMsg) error {
	return p.ch.PublishWithContext(
		ctx,
		m.Exchange,
		m.RoutingKey,
		false,
		false,
		amqp.Publishing{
			Headers:     amqpHeaders(m.Headers),
			Body:        m.Body,
			ContentType: "application/json",
		},
	)
}

// NewWithAMQPChannel reports through an existing channel. The caller owns the
// channel and must have declared the exchange.
func NewWithAMQPChannel(ch *amqp.Channel) *Adapter {
	return New(amqpChannelPublisher{ch: ch})
}

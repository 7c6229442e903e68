package rabbitmq

import (
	"context"
	"fmt"
	"math/rand"
	"sync"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	perr "github.com/next-trace/scg-pubsub/contract/errors"
)

// Concrete AMQP connection-backed publisher with auto-reconnect.

const (
	exchangeKind   = "topic"
	initialBackoff = time.Second
	maxBackoff     = 30 * time.Second
)

type Config struct {
	URL         string
	Exchange    string
	ConnTimeout time.Duration
}

func (c Config) exchange() string {
	if c.Exchange == "" {
		return DefaultExchange
	}

	return c.Exchange
}

// amqpConn and amqpChannel are the parts of *amqp.Connection and
// *amqp.Channel the publisher depends on.
type amqpConn interface {
	NotifyClose(receiver chan *amqp.Error) chan *amqp.Error
	Close() error
}

type amqpChannel interface {
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
	Close() error
}

type dialFunc func() (amqpConn, amqpChannel, error)

type reconnectingPublisher struct {
	cfg  Config
	dial dialFunc

	mu   sync.RWMutex
	conn amqpConn
	ch   amqpChannel

	once      sync.Once
	connected chan struct{} // closed after the first successful dial
	closed    chan struct{}
	closeOnce sync.Once
	done      chan struct{} // closed when run returns
}

func newReconnectingPublisher(cfg Config) (*reconnectingPublisher, func()) {
	rp := newPublisher(cfg, nil)
	rp.dial = rp.dialAMQP
	go rp.run()

	return rp, rp.close
}

func newPublisher(cfg Config, dial dialFunc) *reconnectingPublisher {
	return &reconnectingPublisher{
		cfg:       cfg,
		dial:      dial,
		connected: make(chan struct{}),
		closed:    make(chan struct{}),
		done:      make(chan struct{}),
	}
}

func (rp *reconnectingPublisher) channel(ctx context.Context) (amqpChannel, error) {
	select {
	case <-rp.connected:
	case <-rp.closed:
		return nil, fmt.Errorf("%w: rabbitmq publisher closed", perr.ErrReportFailed)
	case <-ctx.Done():
		return nil, ctx.Err()
	}

	rp.mu.RLock()
	defer rp.mu.RUnlock()

	if rp.ch == nil {
		return nil, fmt.Errorf("%w: rabbitmq not connected", perr.ErrReportFailed)
	}

	return rp.ch, nil
}

func (rp *reconnectingPublisher) Publish(ctx context.Context, m PubMsg) error {
	ch, err := rp.channel(ctx)
	if err != nil {
		return err
	}

	return ch.PublishWithContext(
		ctx,
		m.Exchange,
		m.RoutingKey,
		false,
		false,
		amqp.Publishing{
			DeliveryMode: amqp.Persistent,
			Headers:      amqpHeaders(m.Headers),
			ContentType:  "application/json",
			Timestamp:    time.Now(),
			Body:         m.Body,
		},
	)
}

func (rp *reconnectingPublisher) dialAMQP() (amqpConn, amqpChannel, error) {
	conn, err := amqp.DialConfig(rp.cfg.URL, amqp.Config{
		Locale:     "en_US",
		Properties: amqp.Table{"product": "scg-pubsub"},
		Dial:       amqp.DefaultDial(rp.cfg.ConnTimeout),
	})
	if err != nil {
		return nil, nil, err
	}

	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, nil, err
	}

	if err := ch.ExchangeDeclare(rp.cfg.exchange(), exchangeKind, true, false, false, false, nil); err != nil {
		_ = ch.Close()
		_ = conn.Close()

		return nil, nil, err
	}

	return conn, ch, nil
}

func (rp *reconnectingPublisher) run() {
	defer close(rp.done)

	backoff := initialBackoff
	// #nosec G404 -- backoff jitter only
	rng := rand.New(rand.NewSource(time.Now().UnixNano())) //nolint:gosec // backoff jitter only

	for {
		select {
		case <-rp.closed:
			return
		default:
		}

		conn, ch, err := rp.dial()
		if err != nil {
			if !rp.sleep(jittered(backoff, rng)) {
				return
			}

			backoff = min(backoff*2, maxBackoff)

			continue
		}

		backoff = initialBackoff

		if !rp.adopt(conn, ch) {
			release(conn, ch)
			return
		}

		notify := conn.NotifyClose(make(chan *amqp.Error, 1))
		select {
		case <-rp.closed:
			release(conn, ch)
			return
		case <-notify:
			rp.mu.Lock()
			rp.conn, rp.ch = nil, nil
			rp.mu.Unlock()

			release(conn, ch)
		}
	}
}

// adopt stores a fresh connection unless the publisher was closed while
// dialing, in which case the caller owns conn and ch.
func (rp *reconnectingPublisher) adopt(conn amqpConn, ch amqpChannel) bool {
	rp.mu.Lock()
	defer rp.mu.Unlock()

	select {
	case <-rp.closed:
		return false
	default:
	}

	rp.conn, rp.ch = conn, ch
	rp.once.Do(func() { close(rp.connected) })

	return true
}

func release(conn amqpConn, ch amqpChannel) {
	_ = ch.Close()
	_ = conn.Close()
}

func jittered(backoff time.Duration, rng *rand.Rand) time.Duration {
	half := int64(backoff / 2)
	if half <= 0 {
		return backoff
	}

	return min(backoff+time.Duration(rng.Int63n(half)), maxBackoff)
}

// sleep waits d and reports false when the publisher was closed meanwhile.
func (rp *reconnectingPublisher) sleep(d time.Duration) bool {
	t := time.NewTimer(d)
	defer t.Stop()

	select {
	case <-rp.closed:
		return false
	case <-t.C:
		return true
	}
}

func (rp *reconnectingPublisher) close() {
	rp.closeOnce.Do(func() {
		rp.mu.Lock()
		defer rp.mu.Unlock()

		close(rp.closed)

		if rp.ch != nil {
			_ = rp.ch.Close()
			rp.ch = nil
		}

		if rp.conn != nil {
			_ = rp.conn.Close()
			rp.conn = nil
		}
	})
}

// NewWithAMQPConn dials RabbitMQ in the background with auto-reconnect,
// declares the incident exchange, and returns an Adapter and cleanup.
// Reports block until the first connection succeeds or their context ends.
func NewWithAMQPConn(cfg Config) (*Adapter, func(), error) {
	if cfg.URL == "" {
		return nil, nil, fmt.Errorf("%w: rabbitmq url required", perr.ErrReportFailed)
	}

	pub, cleanup := newReconnectingPublisher(cfg)
	ad := New(pub)
	ad.Exchange = cfg.exchange()

	return ad, cleanup, nil
}

package nats

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	perr "github.com/next-trace/scg-pubsub/contract/errors"
	cps "github.com/next-trace/scg-pubsub/contract/pubsub"
)

// DefaultSubject is used when Adapter.Subject is empty.
const DefaultSubject = "pubsub.incidents"

// Client is a minimal NATS-like publisher interface decoupled from any concrete library.
// Users can provide a wrapper around their NATS connection to satisfy this.
type Client interface {
	// Publish publishes a message to a subject with optional headers.
	Publish(subject string, data []byte, headers map[string]string) error
}

// Adapter implements cps.Reporter using an injected NATS-like Client.
type Adapter struct {
	Client  Client
	Subject string
}

// Ensure Adapter implements the reporter contract.
var _ cps.Reporter = (*Adapter)(nil)

// New creates a new NATS adapter instance with the provided client.
func New(c Client) *Adapter { return &Adapter{Client: c, Subject: DefaultSubject} }

// Report publishes inc as JSON on the adapter subject.
func (a *Adapter) Report(ctx context.Context, inc cps.Incident) error {
	if err := a.ready(ctx); err != nil {
		return err
	}

	body, err := mustJSON(inc)
	if err != nil {
		return fmt.Errorf("nats report serialize: %w", errors.Join(perr.ErrSerializationFailed, err))
	}

	args := &publishArgs{
		subject: a.subject(),
		body:    body,
		headers: incidentHeaders(inc),
	}

	return a.publish(ctx, args)
}

type publishArgs struct {
	subject string
	body    []byte
	headers map[string]string
}

func (a *Adapter) publish(_ context.Context, args *publishArgs) error {
	if err := a.Client.Publish(args.subject, args.body, args.headers); err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return err
		}

		return fmt.Errorf("nats report publish: %w", errors.Join(perr.ErrReportFailed, err))
	}

	return nil
}

func (a *Adapter) ready(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if a.Client == nil {
		return fmt.Errorf("nats report: %w", perr.ErrReportFailed)
	}

	return nil
}

// helpers

func (a *Adapter) subject() string {
	if a.Subject != "" {
		return a.Subject
	}

	return DefaultSubject
}

func incidentHeaders(inc cps.Incident) map[string]string {
	return map[string]string{
		"incident-id": inc.ID,
		"channel":     inc.Channel,
	}
}

func mustJSON(v any) ([]byte, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}

	return b, nil
}

package kafka

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	perr "github.com/next-trace/scg-pubsub/contract/errors"
	cps "github.com/next-trace/scg-pubsub/contract/pubsub"
)

// DefaultTopic is used when Adapter.Topic is empty.
const DefaultTopic = "pubsub.incidents"

// Writer is a minimal Kafka-like writer interface.
// Users can adapt segmentio/kafka-go or any other client to this.
type Writer interface {
	Write(ctx context.Context, topic string, key, value []byte, headers map[string]string) error
}

// Adapter implements cps.Reporter using an injected Writer.
// Records are keyed by channel so one channel's incidents stay ordered within a partition.
type Adapter struct {
	Writer Writer
	Topic  string
}

var _ cps.Reporter = (*Adapter)(nil)

// New creates a new Kafka adapter instance with the provided writer.
func New(w Writer) *Adapter { return &Adapter{Writer: w, Topic: DefaultTopic} }

func (a *Adapter) Report(ctx context.Context, inc cps.Incident) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if a.Writer == nil {
		return fmt.Errorf("kafka report: %w", perr.ErrReportFailed)
	}

	val, err := mustJSON(inc)
	if err != nil {
		return fmt.Errorf("kafka report serialize: %w", perr.ErrSerializationFailed)
	}

	headers := map[string]string{"incident-id": inc.ID}

	if err = a.Writer.Write(ctx, a.topic(), []byte(inc.Channel), val, headers); err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return err
		}

		// separate return from preceding multi-line block (wsl)
		return fmt.Errorf("kafka report write: %w", errors.Join(perr.ErrReportFailed, err))
	}

	return nil
}

func (a *Adapter) topic() string {
	if a.Topic != "" {
		return a.Topic
	}

	return DefaultTopic
}

func mustJSON(v any) ([]byte, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}

	return b, nil
}

// Package zaplog reports dispatch incidents through a zap logger.
package zaplog

import (
	"context"

	"go.uber.org/zap"

	cps "github.com/next-trace/scg-pubsub/contract/pubsub"
)

// Reporter writes each incident as one error-level zap entry.
type Reporter struct {
	Logger *zap.Logger
}

var _ cps.Reporter = (*Reporter)(nil)

// New returns a Reporter. A nil logger falls back to zap.NewNop().
func New(l *zap.Logger) *Reporter {
	if l == nil {
		l = zap.NewNop()
	}

	return &Reporter{Logger: l}
}

func (r *Reporter) Report(ctx context.Context, inc cps.Incident) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	r.Logger.Error("subscriber panicked",
		zap.String("incident", inc.ID),
		zap.String("channel", inc.Channel),
		zap.Int("subscriber", inc.Subscriber),
		zap.String("panic", inc.Panic),
		zap.Time("time", inc.Time),
		zap.String("stack", inc.Stack),
	)

	return nil
}

package rabbitmq_test

import (
	"context"
	"testing"
	"time"
)

func contextWithShortTimeout(t *testing.T) (context.Context, context.CancelFunc) {
	t.Helper()

	return context.WithTimeout(t.Context(), 50*time.Millisecond)
}

package nats_test

import (
	"errors"
	"testing"

	"github.com/next-trace/scg-pubsub/adapters/nats"
	perr "github.com/next-trace/scg-pubsub/contract/errors"
)

func TestNewWithNATS_EmptyURL(t *testing.T) {
	_, _, err := nats.NewWithNATS(nats.Config{})
	if err == nil {
		t.Fatalf("expected error")
	}

	if !errors.Is(err, perr.ErrReportFailed) {
		t.Fatalf("want ErrReportFailed, got %v", err)
	}
}

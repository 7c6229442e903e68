package kafka

import (
	"testing"

	"github.com/twmb/franz-go/pkg/kgo"
)

func TestClientOpts_ExplicitNoAckIsApplied(t *testing.T) {
	base := Config{Brokers: []string{"127.0.0.1:1"}}

	unset := clientOpts(base)

	noAck := kgo.NoAck()
	withNoAck := base
	withNoAck.Acks = &noAck

	if got := len(clientOpts(withNoAck)); got != len(unset)+1 {
		t.Fatalf("want RequiredAcks option for NoAck, got %d opts (unset has %d)", got, len(unset))
	}

	ad, cleanup, err := NewWithKgo(withNoAck)
	if err != nil {
		t.Fatalf("NewWithKgo with NoAck: %v", err)
	}
	defer cleanup()

	if ad.Topic != DefaultTopic {
		t.Fatalf("topic: %q", ad.Topic)
	}
}

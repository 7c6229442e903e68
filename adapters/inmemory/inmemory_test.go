package inmemory_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/next-trace/scg-pubsub/adapters/inmemory"
	cps "github.com/next-trace/scg-pubsub/contract/pubsub"
)

func TestInmemory_Report_Recordings(t *testing.T) {
	rec := inmemory.New()

	if err := rec.Report(t.Context(), cps.Incident{ID: "1", Channel: "/a"}); err != nil {
		t.Fatalf("report: %v", err)
	}

	if err := rec.Report(t.Context(), cps.Incident{ID: "2", Channel: "/b"}); err != nil {
		t.Fatalf("report: %v", err)
	}

	got := rec.Incidents()
	if n := len(got); n != 2 {
		t.Fatalf("want 2 incidents, got %d", n)
	}

	if got[0].ID != "1" || got[1].Channel != "/b" {
		t.Fatalf("unexpected incidents: %+v", got)
	}

	rec.Reset()

	if n := len(rec.Incidents()); n != 0 {
		t.Fatalf("want 0 after reset, got %d", n)
	}
}

func TestInmemory_ErrAndContext(t *testing.T) {
	rec := inmemory.New()
	rec.Err = errors.New("sink down")

	if err := rec.Report(t.Context(), cps.Incident{}); err == nil {
		t.Fatalf("expected configured error")
	}

	ctx, cancel := context.WithCancel(t.Context())
	cancel()

	if err := rec.Report(ctx, cps.Incident{}); !errors.Is(err, context.Canceled) {
		t.Fatalf("want context.Canceled, got %v", err)
	}

	if n := len(rec.Incidents()); n != 1 {
		t.Fatalf("canceled report must not be recorded, got %d", n)
	}
}

func TestInmemory_ConcurrentSafety(t *testing.T) {
	rec := inmemory.New()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)

		go func() {
			defer wg.Done()

			_ = rec.Report(t.Context(), cps.Incident{Channel: "c"})
		}()
	}

	wg.Wait()

	if n := len(rec.Incidents()); n != 50 {
		t.Fatalf("incidents=%d", n)
	}
}

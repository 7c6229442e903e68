package inmemory

import (
	"context"
	"sync"

	cps "github.com/next-trace/scg-pubsub/contract/pubsub"
)

// Recorder is a thread-safe in-memory implementation of cps.Reporter.
// It records incidents for testing and examples.
type Recorder struct {
	mu        sync.Mutex
	incidents []cps.Incident

	// Err, when set, is returned from Report after the incident is recorded.
	Err error
}

// Ensure Recorder implements the reporter contract.
var _ cps.Reporter = (*Recorder)(nil)

// New creates a new in-memory recorder.
func New() *Recorder { return &Recorder{} }

func (r *Recorder) Report(ctx context.Context, inc cps.Incident) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	r.mu.Lock()
	r.incidents = append(r.incidents, inc)
	err := r.Err
	r.mu.Unlock()

	return err
}

// Incidents returns a copy of the recorded incidents in report order.
func (r *Recorder) Incidents() []cps.Incident {
	r.mu.Lock()
	defer r.mu.Unlock()

	return append([]cps.Incident(nil), r.incidents...)
}

// Reset forgets recorded incidents.
func (r *Recorder) Reset() {
	r.mu.Lock()
	r.incidents = nil
	r.mu.Unlock()
}

package workflow

import (
	"context"
	"sync"

	"github.com/levente-murgas/producthunt-ideator/internal/domain"
)

// runContext owns the shared event queue and the collect barrier for a
// single pipeline invocation. It is created at run start, discarded at run
// completion, and never shared across concurrent runs.
type runContext struct {
	events chan Event

	mu        sync.Mutex
	collected []domain.Ideation
	want      int
	fired     bool
}

func newRunContext(want int) *runContext {
	// Capacity covers every event one run can emit (three per item plus
	// the terminal batch), so stage workers never block on the queue.
	return &runContext{
		events: make(chan Event, 3*want+1),
		want:   want,
	}
}

// emit enqueues an event for the router unless the run was cancelled.
func (rc *runContext) emit(ctx context.Context, ev Event) error {
	select {
	case rc.events <- ev:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// collect buffers one analyzed pair in arrival order. It returns the full
// batch exactly once: on the call that brings the count to the configured
// target. Safe under concurrent arrivals from all analysis workers.
func (rc *runContext) collect(pair domain.Ideation) ([]domain.Ideation, bool) {
	rc.mu.Lock()
	defer rc.mu.Unlock()

	rc.collected = append(rc.collected, pair)
	if rc.fired || len(rc.collected) < rc.want {
		return nil, false
	}

	rc.fired = true
	batch := rc.collected
	rc.collected = nil
	return batch, true
}

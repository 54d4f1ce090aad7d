package jobs

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/levente-murgas/producthunt-ideator/internal/domain"
)

// Kind identifies the operation a job executes.
type Kind string

const (
	KindRun     Kind = "run"
	KindPublish Kind = "publish"
)

// Job tracks one asynchronous operation. The ID is the opaque handle
// reported to API clients.
type Job struct {
	ID        string
	Kind      Kind
	Date      string
	Status    domain.JobStatus
	Error     string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Handler executes a job body for a date.
type Handler func(ctx context.Context, date string) error

// Runner executes submitted jobs in the background and tracks their status
// in memory. Handles are not persisted across restarts.
type Runner struct {
	handlers map[Kind]Handler
	logger   *log.Logger

	mu   sync.Mutex
	jobs map[string]Job
}

// NewRunner builds an empty runner.
func NewRunner(logger *log.Logger) *Runner {
	return &Runner{
		handlers: map[Kind]Handler{},
		logger:   logger,
		jobs:     map[string]Job{},
	}
}

// Register adds or replaces the handler for a job kind. Register all
// handlers before serving submissions.
func (r *Runner) Register(kind Kind, handler Handler) {
	r.handlers[kind] = handler
}

// Submit records a pending job and launches it in the background. The given
// context bounds the job's whole execution, so pass an application-scoped
// context rather than a per-request one.
func (r *Runner) Submit(ctx context.Context, kind Kind, date string) (Job, error) {
	handler, ok := r.handlers[kind]
	if !ok {
		return Job{}, fmt.Errorf("no handler registered for job kind %q", kind)
	}

	now := time.Now().UTC()
	job := Job{
		ID:        uuid.NewString(),
		Kind:      kind,
		Date:      date,
		Status:    domain.JobPending,
		CreatedAt: now,
		UpdatedAt: now,
	}

	r.mu.Lock()
	r.jobs[job.ID] = job
	r.mu.Unlock()

	go r.execute(ctx, job.ID, handler, date)

	return job, nil
}

// Status returns the current snapshot of a job.
func (r *Runner) Status(id string) (Job, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	job, ok := r.jobs[id]
	return job, ok
}

func (r *Runner) execute(ctx context.Context, id string, handler Handler, date string) {
	r.transition(id, domain.JobRunning, "")

	if err := handler(ctx, date); err != nil {
		if r.logger != nil {
			r.logger.Printf("job failed id=%s date=%s err=%v", id, date, err)
		}
		r.transition(id, domain.JobFailed, err.Error())
		return
	}

	r.transition(id, domain.JobSucceeded, "")
}

func (r *Runner) transition(id string, status domain.JobStatus, message string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	job, ok := r.jobs[id]
	if !ok {
		return
	}
	job.Status = status
	job.Error = message
	job.UpdatedAt = time.Now().UTC()
	r.jobs[id] = job
}

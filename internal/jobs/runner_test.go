package jobs

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/levente-murgas/producthunt-ideator/internal/domain"
)

func waitForTerminal(t *testing.T, runner *Runner, id string) Job {
	t.Helper()

	deadline := time.After(2 * time.Second)
	for {
		select {
		case <-deadline:
			t.Fatalf("job %s never reached a terminal status", id)
		case <-time.After(5 * time.Millisecond):
		}

		job, ok := runner.Status(id)
		if !ok {
			t.Fatalf("job %s disappeared", id)
		}
		if job.Status == domain.JobSucceeded || job.Status == domain.JobFailed {
			return job
		}
	}
}

func TestSubmitRunsJobToCompletion(t *testing.T) {
	t.Parallel()

	var gotDate string
	runner := NewRunner(nil)
	runner.Register(KindRun, func(ctx context.Context, date string) error {
		gotDate = date
		return nil
	})

	job, err := runner.Submit(context.Background(), KindRun, "2024-01-01")
	if err != nil {
		t.Fatalf("Submit error: %v", err)
	}
	if job.ID == "" {
		t.Fatal("expected a job handle")
	}
	if job.Status != domain.JobPending {
		t.Fatalf("expected a pending job, got %s", job.Status)
	}

	final := waitForTerminal(t, runner, job.ID)
	if final.Status != domain.JobSucceeded {
		t.Fatalf("expected success, got %s (%s)", final.Status, final.Error)
	}
	if gotDate != "2024-01-01" {
		t.Fatalf("handler received date %q", gotDate)
	}
}

func TestSubmitRecordsFailure(t *testing.T) {
	t.Parallel()

	runner := NewRunner(nil)
	runner.Register(KindPublish, func(ctx context.Context, date string) error {
		return fmt.Errorf("cms is down")
	})

	job, err := runner.Submit(context.Background(), KindPublish, "2024-01-01")
	if err != nil {
		t.Fatalf("Submit error: %v", err)
	}

	final := waitForTerminal(t, runner, job.ID)
	if final.Status != domain.JobFailed {
		t.Fatalf("expected failure, got %s", final.Status)
	}
	if final.Error != "cms is down" {
		t.Fatalf("unexpected failure message: %q", final.Error)
	}
}

func TestSubmitRejectsUnknownKind(t *testing.T) {
	t.Parallel()

	runner := NewRunner(nil)

	if _, err := runner.Submit(context.Background(), KindRun, "2024-01-01"); err == nil {
		t.Fatal("expected an error for an unregistered kind")
	}
}

func TestStatusUnknownID(t *testing.T) {
	t.Parallel()

	runner := NewRunner(nil)

	if _, ok := runner.Status("missing"); ok {
		t.Fatal("expected no job for an unknown id")
	}
}

package usecase

import (
	"context"
	"log/slog"
	"time"

	"github.com/levente-murgas/producthunt-ideator/internal/ports"
)

// Scheduler wires the cron driver to the daily pipeline run.
type Scheduler struct {
	driver  ports.Scheduler
	ideator *Ideator
	logger  *slog.Logger
}

// NewScheduler returns a helper to start/stop the recurring daily run.
func NewScheduler(driver ports.Scheduler, ideator *Ideator, logger *slog.Logger) *Scheduler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Scheduler{driver: driver, ideator: ideator, logger: logger}
}

// Start registers the daily run with the provided scheduler driver. Each
// trigger runs the pipeline for the trigger's UTC calendar date.
func (s *Scheduler) Start(ctx context.Context) error {
	if s.driver == nil || s.ideator == nil {
		return nil
	}

	job := func(trigger time.Time) {
		date := trigger.UTC().Format("2006-01-02")
		if err := s.ideator.RunDaily(ctx, date); err != nil {
			s.logger.Error("scheduled run failed", "date", date, "error", err)
		}
	}

	return s.driver.Start(ctx, job)
}

// Stop gracefully tears down the underlying scheduler.
func (s *Scheduler) Stop(ctx context.Context) error {
	if s.driver == nil {
		return nil
	}
	return s.driver.Stop(ctx)
}

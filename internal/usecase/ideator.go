package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/levente-murgas/producthunt-ideator/internal/domain"
	"github.com/levente-murgas/producthunt-ideator/internal/ports"
	"github.com/levente-murgas/producthunt-ideator/internal/render"
)

// PipelineRunner executes the enrichment workflow for one date.
type PipelineRunner interface {
	Run(ctx context.Context, date string) ([]domain.Ideation, error)
}

// Deps wires the workflow and adapters into the ideator use cases.
type Deps struct {
	Pipeline   PipelineRunner
	Publisher  ports.Publisher
	Repository ports.RunRepository
	DataDir    string
	PostLimit  int
	Logger     *slog.Logger
}

// Ideator coordinates pipeline runs, document persistence and publishing.
type Ideator struct {
	pipeline   PipelineRunner
	publisher  ports.Publisher
	repository ports.RunRepository
	dataDir    string
	postLimit  int
	logger     *slog.Logger
}

// NewIdeator constructs the orchestration component.
func NewIdeator(deps Deps) *Ideator {
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Ideator{
		pipeline:   deps.Pipeline,
		publisher:  deps.Publisher,
		repository: deps.Repository,
		dataDir:    deps.DataDir,
		postLimit:  deps.PostLimit,
		logger:     logger,
	}
}

// RunDaily executes the full pipeline for one YYYY-MM-DD date and writes
// the rendered document under the data directory.
func (i *Ideator) RunDaily(ctx context.Context, date string) error {
	if _, err := time.Parse("2006-01-02", date); err != nil {
		return fmt.Errorf("invalid date %q: %w", date, err)
	}
	if i.pipeline == nil {
		return fmt.Errorf("pipeline is not configured")
	}

	batch, err := i.pipeline.Run(ctx, date)
	if err != nil {
		i.recordRun(ctx, date, domain.JobFailed, "", err)
		return fmt.Errorf("run pipeline for %s: %w", date, err)
	}

	document := render.Document(batch, date, i.postLimit)

	if err := os.MkdirAll(i.dataDir, 0o755); err != nil {
		i.recordRun(ctx, date, domain.JobFailed, "", err)
		return fmt.Errorf("create data dir: %w", err)
	}

	path := filepath.Join(i.dataDir, domain.DocumentFileName(date))
	if err := os.WriteFile(path, []byte(document), 0o644); err != nil {
		i.recordRun(ctx, date, domain.JobFailed, "", err)
		return fmt.Errorf("write document: %w", err)
	}

	i.logger.Info("created daily document", "path", path, "items", len(batch))
	i.recordRun(ctx, date, domain.JobSucceeded, path, nil)
	return nil
}

// Publish pushes a previously rendered document to the CMS. It is a
// separate operation from the daily run and may target any date.
func (i *Ideator) Publish(ctx context.Context, date string) error {
	if i.publisher == nil {
		return fmt.Errorf("publisher is not configured")
	}
	return i.publisher.Publish(ctx, date)
}

func (i *Ideator) recordRun(ctx context.Context, date string, status domain.JobStatus, path string, runErr error) {
	if i.repository == nil {
		return
	}

	record := domain.RunRecord{
		Date:         date,
		Status:       status,
		DocumentPath: path,
	}
	if runErr != nil {
		record.Error = runErr.Error()
	}

	if err := i.repository.SaveRun(ctx, record); err != nil {
		i.logger.Error("cannot persist run record", "date", date, "error", err)
	}
}

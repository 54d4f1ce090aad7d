package app

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	_ "github.com/lib/pq"

	"github.com/levente-murgas/producthunt-ideator/internal/config"
	"github.com/levente-murgas/producthunt-ideator/internal/infrastructure/llm"
	"github.com/levente-murgas/producthunt-ideator/internal/infrastructure/producthunt"
	"github.com/levente-murgas/producthunt-ideator/internal/infrastructure/scheduler"
	"github.com/levente-murgas/producthunt-ideator/internal/infrastructure/scrape"
	"github.com/levente-murgas/producthunt-ideator/internal/infrastructure/storage"
	"github.com/levente-murgas/producthunt-ideator/internal/jobs"
	"github.com/levente-murgas/producthunt-ideator/internal/logging"
	"github.com/levente-murgas/producthunt-ideator/internal/ports"
	"github.com/levente-murgas/producthunt-ideator/internal/publish"
	"github.com/levente-murgas/producthunt-ideator/internal/server"
	"github.com/levente-murgas/producthunt-ideator/internal/usecase"
	"github.com/levente-murgas/producthunt-ideator/internal/workflow"
	pkglogger "github.com/levente-murgas/producthunt-ideator/pkg/logger"
)

// Application wires configuration into clients, use cases and servers.
// Clients are constructed exactly once here and injected; no stage holds a
// global.
type Application struct {
	cfg    config.Config
	logger *slog.Logger
	server *server.Server
	sched  *usecase.Scheduler
	db     *sql.DB
}

// New builds a runnable application instance.
func New(cfg config.Config, baseLogger *slog.Logger) (*Application, error) {
	if baseLogger == nil {
		baseLogger = logging.New(cfg.Logging.Level)
	}

	source := producthunt.NewClient(cfg.ProductHunt, baseLogger.With("component", "producthunt"))
	scraper := scrape.NewService(nil, baseLogger.With("component", "scrape"))
	llmClient := llm.NewClient(cfg.OpenAI, cfg.Pipeline.StructuredOutput, baseLogger.With("component", "llm"))

	pipeline := workflow.New(workflow.Deps{
		Source:     source,
		Scraper:    scraper,
		Summarizer: llmClient,
		Analyzer:   llmClient,
		Logger:     baseLogger.With("component", "workflow"),
	}, cfg.Pipeline.PostLimit, cfg.Pipeline.Timeout())

	var repository ports.RunRepository
	var db *sql.DB
	if cfg.Database.DSN != "" {
		opened, err := sql.Open("postgres", cfg.Database.DSN)
		if err != nil {
			return nil, fmt.Errorf("open database: %w", err)
		}
		db = opened
		repository = storage.NewPostgresRunRepository(db)
	}

	var publisher ports.Publisher
	if cfg.WordPress.BaseURL != "" {
		publisher = publish.NewWordPress(cfg.WordPress, cfg.Pipeline.DataDir, baseLogger.With("component", "publish"))
	}

	ideator := usecase.NewIdeator(usecase.Deps{
		Pipeline:   pipeline,
		Publisher:  publisher,
		Repository: repository,
		DataDir:    cfg.Pipeline.DataDir,
		PostLimit:  cfg.Pipeline.PostLimit,
		Logger:     baseLogger.With("component", "ideator"),
	})

	runner := jobs.NewRunner(pkglogger.New("jobs"))
	runner.Register(jobs.KindRun, ideator.RunDaily)
	runner.Register(jobs.KindPublish, ideator.Publish)

	srv := server.New(cfg.Server.Addr(), runner, baseLogger.With("component", "server"))

	var sched *usecase.Scheduler
	if cfg.Scheduler.CronExpression != "" {
		driver := scheduler.NewCronScheduler(cfg.Scheduler.CronExpression, cfg.Scheduler.Location())
		sched = usecase.NewScheduler(driver, ideator, baseLogger.With("component", "scheduler"))
	}

	return &Application{
		cfg:    cfg,
		logger: baseLogger,
		server: srv,
		sched:  sched,
		db:     db,
	}, nil
}

// Run starts the optional scheduler and serves HTTP until ctx is cancelled.
func (a *Application) Run(ctx context.Context) error {
	if a.sched != nil {
		if err := a.sched.Start(ctx); err != nil {
			return fmt.Errorf("start scheduler: %w", err)
		}
		defer func() {
			_ = a.sched.Stop(context.Background())
		}()
	}

	defer func() {
		if a.db != nil {
			_ = a.db.Close()
		}
	}()

	return a.server.Start(ctx)
}

package workflow

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/levente-murgas/producthunt-ideator/internal/domain"
	"github.com/levente-murgas/producthunt-ideator/internal/ports"
)

// Deps wires the external services used by the pipeline stages. Clients are
// injected once and treated as read-only by every stage.
type Deps struct {
	Source     ports.ProductSource
	Scraper    ports.Scraper
	Summarizer ports.Summarizer
	Analyzer   ports.Analyzer
	Logger     *slog.Logger
}

// Workflow executes the fetch -> enrich -> analyze -> collect pipeline for
// one date. The post limit doubles as the worker-pool size of the enrichment
// and analysis stages.
type Workflow struct {
	source     ports.ProductSource
	scraper    ports.Scraper
	summarizer ports.Summarizer
	analyzer   ports.Analyzer
	logger     *slog.Logger
	limit      int
	timeout    time.Duration
}

// New constructs the workflow engine. A zero timeout disables the run
// deadline.
func New(deps Deps, limit int, timeout time.Duration) *Workflow {
	if limit <= 0 {
		limit = 3
	}
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Workflow{
		source:     deps.Source,
		scraper:    deps.Scraper,
		summarizer: deps.Summarizer,
		analyzer:   deps.Analyzer,
		logger:     logger,
		limit:      limit,
		timeout:    timeout,
	}
}

// Run executes the full pipeline for a YYYY-MM-DD date and returns the
// batch sorted by the products' original vote rank. The run fails as a unit:
// a stage error or a timeout cancels everything in flight and no partial
// batch is delivered. The collect barrier waits for exactly the configured
// post limit, so a day with fewer candidates runs into the deadline.
func (w *Workflow) Run(ctx context.Context, date string) ([]domain.Ideation, error) {
	if w.source == nil || w.summarizer == nil || w.analyzer == nil {
		return nil, fmt.Errorf("workflow is missing a source, summarizer or analyzer")
	}

	if w.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, w.timeout)
		defer cancel()
	}

	rc := newRunContext(w.limit)

	readyCh := make(chan ItemReady, w.limit)
	enrichedCh := make(chan ItemEnriched, w.limit)
	analyzedCh := make(chan ItemAnalyzed, w.limit)

	var batch []domain.Ideation

	g, ctx := errgroup.WithContext(ctx)

	// Router: the single dispatch loop. Every emitted event arrives here
	// and is forwarded to its stage channel by tag; the terminal event
	// captures the batch and closes all stage channels so idle workers
	// drain out.
	g.Go(func() error {
		for {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case ev := <-rc.events:
				switch e := ev.(type) {
				case ItemReady:
					readyCh <- e
				case ItemEnriched:
					enrichedCh <- e
				case ItemAnalyzed:
					analyzedCh <- e
				case BatchComplete:
					batch = e.Batch
					close(readyCh)
					close(enrichedCh)
					close(analyzedCh)
					return nil
				default:
					return fmt.Errorf("unroutable event %q", ev.eventTag())
				}
			}
		}
	})

	// Fetch stage: sequential pagination, vote-rank emission order.
	g.Go(func() error {
		products, err := w.fetchTop(ctx, date)
		if err != nil {
			return err
		}
		for _, product := range products {
			if err := rc.emit(ctx, ItemReady{Product: product}); err != nil {
				return err
			}
		}
		return nil
	})

	for i := 0; i < w.limit; i++ {
		// Enrichment worker.
		g.Go(func() error {
			for {
				select {
				case <-ctx.Done():
					return ctx.Err()
				case ev, ok := <-readyCh:
					if !ok {
						return nil
					}
					enriched, err := w.enrich(ctx, ev.Product)
					if err != nil {
						return fmt.Errorf("enrich %s: %w", ev.Product.Name, err)
					}
					if err := rc.emit(ctx, ItemEnriched{Product: enriched}); err != nil {
						return err
					}
				}
			}
		})

		// Analysis worker.
		g.Go(func() error {
			for {
				select {
				case <-ctx.Done():
					return ctx.Err()
				case ev, ok := <-enrichedCh:
					if !ok {
						return nil
					}
					w.logger.Info("reimagining product", "product", ev.Product.Name)
					analysis, err := w.analyzer.Analyze(ctx, ev.Product)
					if err != nil {
						return fmt.Errorf("analyze %s: %w", ev.Product.Name, err)
					}
					if err := rc.emit(ctx, ItemAnalyzed{Product: ev.Product, Analysis: analysis}); err != nil {
						return err
					}
				}
			}
		})
	}

	// Collect barrier: fan-in. Releases the terminal event exactly once,
	// when the configured count of analyses has arrived.
	g.Go(func() error {
		for {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case ev, ok := <-analyzedCh:
				if !ok {
					return nil
				}
				pair := domain.Ideation{Product: ev.Product, Analysis: ev.Analysis}
				if full, done := rc.collect(pair); done {
					if err := rc.emit(ctx, BatchComplete{Batch: full}); err != nil {
						return err
					}
				}
			}
		}
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}
	if batch == nil {
		return nil, fmt.Errorf("pipeline finished without a batch")
	}

	sort.SliceStable(batch, func(i, j int) bool {
		return batch[i].Product.Rank < batch[j].Product.Rank
	})
	return batch, nil
}

// fetchTop pulls the day's candidates, sorts them by votes descending and
// truncates to the post limit, stamping each survivor's rank.
func (w *Workflow) fetchTop(ctx context.Context, date string) ([]domain.Product, error) {
	posts, err := w.source.PostsForDate(ctx, date, w.limit)
	if err != nil {
		return nil, fmt.Errorf("fetch posts for %s: %w", date, err)
	}

	sort.SliceStable(posts, func(i, j int) bool {
		return posts[i].VotesCount > posts[j].VotesCount
	})
	if len(posts) > w.limit {
		posts = posts[:w.limit]
	}
	for i := range posts {
		posts[i].Rank = i
	}

	w.logger.Info("fetch stage complete", "date", date, "items", len(posts))
	return posts, nil
}

// enrich populates the derived fields of one product: the LLM summary from
// metadata plus scraped landing-page text, and the best-effort social
// preview image.
func (w *Workflow) enrich(ctx context.Context, product domain.Product) (domain.Product, error) {
	w.logger.Info("processing product", "product", product.Name)

	var landing string
	if w.scraper != nil {
		landing = w.scraper.LandingText(ctx, product.Website)
	}

	summary, err := w.summarizer.Summarize(ctx, product, landing)
	if err != nil {
		return domain.Product{}, fmt.Errorf("summarize: %w", err)
	}
	product.LongDescription = summary

	if w.scraper != nil {
		product.OGImageURL = w.scraper.PreviewImageURL(ctx, product.URL)
	}

	return product, nil
}

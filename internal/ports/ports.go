package ports

import (
	"context"
	"time"

	"github.com/levente-murgas/producthunt-ideator/internal/domain"
)

// ProductSource pulls candidate posts for a calendar day from the catalog API.
// Implementations paginate sequentially and fail hard on any non-200 response.
type ProductSource interface {
	PostsForDate(ctx context.Context, date string, limit int) ([]domain.Product, error)
}

// Scraper extracts supplementary data from product web pages. Both methods
// are best-effort: any failure yields an empty string and never aborts the
// calling stage.
type Scraper interface {
	LandingText(ctx context.Context, pageURL string) string
	PreviewImageURL(ctx context.Context, pageURL string) string
}

// Summarizer generates the short natural-language product summary.
type Summarizer interface {
	Summarize(ctx context.Context, product domain.Product, landingText string) (string, error)
}

// Analyzer generates the structured reimagining analysis from an enriched
// product.
type Analyzer interface {
	Analyze(ctx context.Context, product domain.Product) (domain.Analysis, error)
}

// Publisher pushes a previously rendered daily document to the CMS.
type Publisher interface {
	Publish(ctx context.Context, date string) error
}

// RunRepository persists completed run records for audit.
type RunRepository interface {
	SaveRun(ctx context.Context, record domain.RunRecord) error
}

// Scheduler controls when the daily pipeline executes.
type Scheduler interface {
	Start(ctx context.Context, job func(time.Time)) error
	Stop(ctx context.Context) error
}

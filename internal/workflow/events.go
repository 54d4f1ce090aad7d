package workflow

import "github.com/levente-murgas/producthunt-ideator/internal/domain"

// Event is the tagged union routed between pipeline stages. Events are
// immutable once emitted; the carried product belongs to the consuming
// stage from then on.
type Event interface {
	eventTag() string
}

// ItemReady signals that the fetch stage produced one ranked product.
type ItemReady struct {
	Product domain.Product
}

// ItemEnriched signals that the enrichment stage populated the product's
// derived summary and preview-image fields.
type ItemEnriched struct {
	Product domain.Product
}

// ItemAnalyzed carries a product together with its generated analysis.
type ItemAnalyzed struct {
	Product  domain.Product
	Analysis domain.Analysis
}

// BatchComplete is the terminal event released by the collect barrier once
// the expected number of analyses has arrived.
type BatchComplete struct {
	Batch []domain.Ideation
}

func (ItemReady) eventTag() string     { return "item_ready" }
func (ItemEnriched) eventTag() string  { return "item_enriched" }
func (ItemAnalyzed) eventTag() string  { return "item_analyzed" }
func (BatchComplete) eventTag() string { return "batch_complete" }

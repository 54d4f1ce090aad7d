package domain

import "time"

// Product is a single Product Hunt listing. It stays inert: all network
// enrichment happens in services that receive the record and return an
// updated copy.
type Product struct {
	ID          string
	Name        string
	Tagline     string
	Description string
	VotesCount  int
	CreatedAt   time.Time
	Website     string
	URL         string
	Featured    bool
	Topics      []string

	// Rank is the position in the vote-sorted fetch output, 0 for the
	// most-voted item of the day.
	Rank int

	// LongDescription and OGImageURL start empty and are written once by
	// the enrichment stage.
	LongDescription string
	OGImageURL      string
}

// Proposal is one B2B reimagining idea for a product.
type Proposal struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

// Analysis is the structured critique generated for one product. The
// generation prompt asks for exactly three proposals; the shape does not
// enforce it.
type Analysis struct {
	Strengths  string     `json:"strengths"`
	Weaknesses string     `json:"weaknesses"`
	Proposals  []Proposal `json:"proposals"`
}

// Ideation pairs a fully enriched product with its analysis.
type Ideation struct {
	Product  Product
	Analysis Analysis
}

// JobStatus enumerates lifecycle states of asynchronous jobs.
type JobStatus string

const (
	JobPending   JobStatus = "pending"
	JobRunning   JobStatus = "running"
	JobSucceeded JobStatus = "succeeded"
	JobFailed    JobStatus = "failed"
)

// RunRecord is the persisted snapshot of one pipeline run.
type RunRecord struct {
	Date         string
	Status       JobStatus
	DocumentPath string
	Error        string
}

// DocumentFileName returns the canonical file name of the rendered daily
// document. The publisher reads exactly this name for a requested date.
func DocumentFileName(date string) string {
	return "producthunt-daily-" + date + ".md"
}

package render

import (
	"strings"
	"testing"
	"time"

	"github.com/levente-murgas/producthunt-ideator/internal/domain"
)

func sampleBatch() []domain.Ideation {
	created := time.Date(2024, time.January, 1, 8, 0, 0, 0, time.UTC)
	return []domain.Ideation{
		{
			// Arrival order deliberately differs from rank order.
			Product: domain.Product{
				Name:            "Second",
				URL:             "https://ph.test/second",
				Tagline:         "runner up",
				LongDescription: "a solid tool",
				OGImageURL:      "https://img.test/second.png",
				VotesCount:      20,
				CreatedAt:       created,
				Rank:            1,
			},
			Analysis: domain.Analysis{
				Strengths:  "reliable",
				Weaknesses: "slow",
				Proposals:  []domain.Proposal{{Title: "P1", Description: "do more"}},
			},
		},
		{
			Product: domain.Product{
				Name:            "First",
				URL:             "https://ph.test/first",
				Tagline:         "the winner",
				LongDescription: "a great tool",
				OGImageURL:      "https://img.test/first.png",
				VotesCount:      50,
				CreatedAt:       created,
				Featured:        true,
				Rank:            0,
			},
			Analysis: domain.Analysis{
				Strengths:  "fast",
				Weaknesses: "pricey",
				Proposals:  []domain.Proposal{{Title: "P2", Description: "do less"}},
			},
		},
	}
}

func TestDocumentTitleLine(t *testing.T) {
	t.Parallel()

	doc := Document(sampleBatch(), "2024-01-01", 3)

	first := strings.SplitN(doc, "\n", 2)[0]
	if first != "# ProductHunt Top 3 | 2024-01-01" {
		t.Fatalf("unexpected title line: %q", first)
	}
}

func TestDocumentOrdersByRank(t *testing.T) {
	t.Parallel()

	doc := Document(sampleBatch(), "2024-01-01", 3)

	firstIdx := strings.Index(doc, "## [First]")
	secondIdx := strings.Index(doc, "## [Second]")
	if firstIdx < 0 || secondIdx < 0 {
		t.Fatalf("missing product blocks in document:\n%s", doc)
	}
	if firstIdx > secondIdx {
		t.Fatal("expected rank order, got arrival order")
	}
}

func TestDocumentIsDeterministic(t *testing.T) {
	t.Parallel()

	batch := sampleBatch()
	a := Document(batch, "2024-01-01", 3)
	b := Document(batch, "2024-01-01", 3)

	if a != b {
		t.Fatal("expected byte-identical output for identical input")
	}

	// Reversed arrival order must not change the document.
	reversed := []domain.Ideation{batch[1], batch[0]}
	if c := Document(reversed, "2024-01-01", 3); c != a {
		t.Fatal("expected arrival order to be irrelevant")
	}
}

func TestDocumentProductBlock(t *testing.T) {
	t.Parallel()

	doc := Document(sampleBatch(), "2024-01-01", 3)

	for _, want := range []string{
		"## [First](https://ph.test/first)",
		"**Tagline**: the winner",
		"**Description**: a great tool",
		"[View on Product Hunt](https://ph.test/first)",
		"![First](https://img.test/first.png)",
		"**Votes**: 🔺50",
		"**Featured**: true",
		"**Created**: 2024-01-01T08:00:00Z",
		"### Strengths\nfast",
		"### Weaknesses\npricey",
		"- P2: do less",
		"---",
	} {
		if !strings.Contains(doc, want) {
			t.Fatalf("document is missing %q:\n%s", want, doc)
		}
	}
}

// Package render turns a completed ideation batch into the daily markdown
// document. It is pure: no network, no clock, byte-identical output for
// identical input.
package render

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/levente-murgas/producthunt-ideator/internal/domain"
)

// Document renders the batch for one date. Items are ordered by their
// original vote rank, not by analysis arrival order.
func Document(batch []domain.Ideation, date string, limit int) string {
	ordered := make([]domain.Ideation, len(batch))
	copy(ordered, batch)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].Product.Rank < ordered[j].Product.Rank
	})

	var b strings.Builder
	fmt.Fprintf(&b, "# ProductHunt Top %d | %s\n\n", limit, date)

	for _, idea := range ordered {
		writeProduct(&b, idea.Product)
		writeAnalysis(&b, idea.Analysis)
		b.WriteString("---\n\n")
	}

	return b.String()
}

func writeProduct(b *strings.Builder, p domain.Product) {
	fmt.Fprintf(b, "## [%s](%s)\n", p.Name, p.URL)
	fmt.Fprintf(b, "**Tagline**: %s\n", p.Tagline)
	fmt.Fprintf(b, "**Description**: %s\n", p.LongDescription)
	fmt.Fprintf(b, "[View on Product Hunt](%s)\n\n", p.URL)
	fmt.Fprintf(b, "![%s](%s)\n\n", p.Name, p.OGImageURL)
	fmt.Fprintf(b, "**Votes**: 🔺%d\n", p.VotesCount)
	fmt.Fprintf(b, "**Featured**: %t\n", p.Featured)
	fmt.Fprintf(b, "**Created**: %s\n\n", p.CreatedAt.UTC().Format(time.RFC3339))
}

func writeAnalysis(b *strings.Builder, a domain.Analysis) {
	b.WriteString("## Product analysis\n\n")
	fmt.Fprintf(b, "### Strengths\n%s\n\n", a.Strengths)
	fmt.Fprintf(b, "### Weaknesses\n%s\n\n", a.Weaknesses)
	b.WriteString("### Proposals\n")
	for _, proposal := range a.Proposals {
		fmt.Fprintf(b, "- %s: %s\n", proposal.Title, proposal.Description)
	}
	b.WriteString("\n")
}

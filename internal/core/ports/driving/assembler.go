package driving

import (
	"context"

	"github.com/custodia-labs/dealscope/internal/core/domain"
)

// ContextAssembler builds per-investment contexts and overviews.
type ContextAssembler interface {
	// Assemble loads metadata and summaries for every document and website,
	// attaching ordered chunks only when includeFullChunks is set.
	// Returns domain.ErrNotFound if the investment has no metadata.
	Assemble(ctx context.Context, investmentID string, includeFullChunks bool) (*domain.AssembledContext, error)

	// Metadata returns the investment metadata without touching summaries.
	Metadata(ctx context.Context, investmentID string) (*domain.InvestmentMetadata, error)

	// Overview renders the investment name, summaries and sector as markdown.
	// A summary failure for one entry is reported inline and does not abort the rest.
	Overview(ctx context.Context, investmentID string) (string, error)

	// DetermineSector classifies free text with the sector rule table.
	DetermineSector(text string) domain.Sector
}

package driven

import (
	"context"

	"github.com/custodia-labs/dealscope/internal/core/domain"
)

// ChunkStore reads the per-investment output of the preprocessing pipeline.
// It is read-only: the core never writes metadata or chunk files.
type ChunkStore interface {
	// LoadMetadata returns the metadata for an investment.
	// Returns domain.ErrNotFound if the investment has no metadata.
	LoadMetadata(ctx context.Context, investmentID string) (*domain.InvestmentMetadata, error)

	// LoadDocumentChunks returns the chunks extracted from a document.
	// A missing chunk file is a soft miss: (nil, nil).
	LoadDocumentChunks(ctx context.Context, investmentID, fileName string) (*domain.ChunkSet, error)

	// LoadWebsiteChunks returns the chunks scraped from a website.
	// A missing chunk file is a soft miss: (nil, nil).
	LoadWebsiteChunks(ctx context.Context, investmentID, url string) (*domain.ChunkSet, error)
}

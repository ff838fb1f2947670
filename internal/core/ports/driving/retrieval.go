package driving

import (
	"context"

	"github.com/custodia-labs/dealscope/internal/core/domain"
)

// RetrievalService ranks chunks of an assembled context against a query.
// The context must be assembled with full chunks.
type RetrievalService interface {
	// SemanticSearch returns at most topK chunks across all documents and
	// websites, sorted by descending cosine similarity. topK <= 0 uses the default.
	SemanticSearch(ctx context.Context, assembled *domain.AssembledContext, query string, topK int) ([]domain.SearchResult, error)

	// SearchSpecificDocument scopes SemanticSearch to the entry documentName resolves to.
	// An unresolved name returns an empty list, not an error.
	SearchSpecificDocument(ctx context.Context, assembled *domain.AssembledContext, documentName, query string, topK int) ([]domain.SearchResult, error)
}

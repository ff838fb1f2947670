package driving

import "context"

// SummaryService serves memoised per-document and per-website summaries.
type SummaryService interface {
	// GetOrCreateSummary returns the cached summary for name, generating and
	// persisting it on first access. name is a file name or, when isWebsite
	// is set, a URL. Absent or empty chunks yield domain.NoContentSummary,
	// which is never cached.
	GetOrCreateSummary(ctx context.Context, investmentID, name string, isWebsite bool) (string, error)

	// Invalidate drops a cached summary so the next request regenerates it.
	Invalidate(ctx context.Context, investmentID, name string, isWebsite bool) error
}

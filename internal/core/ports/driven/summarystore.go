package driven

import "context"

// SummaryStore persists generated summaries keyed by investment and summary key
// (see domain.SummaryKey). Stores never expire entries on their own.
type SummaryStore interface {
	// Get returns the cached summary and true, or "" and false on a miss.
	Get(ctx context.Context, investmentID, key string) (string, bool, error)

	// Put stores a summary, replacing any previous value.
	Put(ctx context.Context, investmentID, key, summary string) error

	// Delete removes a summary. Deleting a missing key is not an error.
	Delete(ctx context.Context, investmentID, key string) error
}

// Package driven provides interfaces for infrastructure adapters (secondary/outbound ports).
package driven

import "context"

// EmbeddingService generates vector embeddings from text.
// This is an optional service - when nil, semantic search is disabled.
// One instance is created per process and shared by all searches.
//
// Implementations may include:
//   - OpenAI (text-embedding-3-small, text-embedding-3-large)
//   - Ollama (nomic-embed-text, all-minilm)
type EmbeddingService interface {
	// Embed generates a vector embedding for the given text.
	Embed(ctx context.Context, text string) ([]float32, error)

	// EmbedBatch generates embeddings for multiple texts efficiently.
	// The result has one row per input, in input order.
	EmbedBatch(ctx context.Context, texts []string) ([][]float32, error)

	// Dimensions returns the embedding vector size (e.g., 384, 1536, 3072).
	Dimensions() int

	// ModelName returns the name of the embedding model being used.
	ModelName() string

	// Ping validates the service is reachable by making a lightweight test request.
	Ping(ctx context.Context) error

	// Close releases resources.
	Close() error
}

// EmbeddingCache memoises embeddings by model and text.
// Implementations key entries on a hash of the text so unchanged chunks
// are not re-encoded on later searches.
type EmbeddingCache interface {
	// GetMany returns the cached vectors for texts. Misses are nil rows.
	GetMany(ctx context.Context, model string, texts []string) ([][]float32, error)

	// PutMany stores vectors aligned with texts.
	PutMany(ctx context.Context, model string, texts []string, vectors [][]float32) error

	// Close releases resources.
	Close() error
}

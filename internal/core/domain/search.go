package domain

// Retrieval limits.
const (
	// DefaultTopK is used when a caller does not specify a result count.
	DefaultTopK = 5

	// MaxTopK bounds the result count accepted from external callers.
	MaxTopK = 50
)

// SearchResult represents a single ranked chunk.
type SearchResult struct {
	// Source is the file name or URL the chunk came from.
	Source string `json:"source"`

	// Score is the cosine similarity between query and chunk (-1 to 1).
	Score float64 `json:"score"`

	// Chunk is the chunk text.
	Chunk string `json:"chunk"`

	// ChunkIndex is the chunk's position within its source.
	ChunkIndex int `json:"chunk_index"`

	// ChunkID is a stable identifier derived from investment, source and index.
	ChunkID string `json:"chunk_id,omitempty"`

	// IsWebsite is true when Source is a URL.
	IsWebsite bool `json:"is_website"`
}

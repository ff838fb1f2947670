package domain

import "errors"

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	// Returned when an investment's metadata.json is absent.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrConfigInvalid indicates the application settings failed validation.
	ErrConfigInvalid = errors.New("invalid configuration")

	// ErrLLMUnavailable indicates the LLM service is not configured.
	// Summaries that are not already cached cannot be generated without it.
	ErrLLMUnavailable = errors.New("LLM service unavailable")

	// ErrEmbeddingUnavailable indicates the embedding service is not configured.
	// Semantic search is disabled without embeddings.
	ErrEmbeddingUnavailable = errors.New("embedding service unavailable")

	// ErrSummarisation indicates the summarisation backend failed.
	// Nothing is cached when this is returned.
	ErrSummarisation = errors.New("summarisation failed")
)

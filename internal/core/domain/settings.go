package domain

import (
	"fmt"
	"strings"
)

const unknownDescription = "Unknown"

// AIProvider identifies an AI service provider for embeddings or LLM.
type AIProvider string

// Available AI providers.
const (
	// AIProviderOllama is local Ollama instance.
	AIProviderOllama AIProvider = "ollama"

	// AIProviderOpenAI is OpenAI cloud API.
	AIProviderOpenAI AIProvider = "openai"

	// AIProviderAnthropic is Anthropic cloud API.
	AIProviderAnthropic AIProvider = "anthropic"

	// AIProviderGemini is Google Gemini cloud API.
	AIProviderGemini AIProvider = "gemini"
)

// IsValid returns true if the AI provider is recognised.
func (p AIProvider) IsValid() bool {
	switch p {
	case AIProviderOllama, AIProviderOpenAI, AIProviderAnthropic, AIProviderGemini:
		return true
	default:
		return false
	}
}

// RequiresAPIKey returns true if this provider needs an API key.
func (p AIProvider) RequiresAPIKey() bool {
	return p == AIProviderOpenAI || p == AIProviderAnthropic || p == AIProviderGemini
}

// SupportsEmbeddings returns true if dealscope has an embedding adapter for p.
func (p AIProvider) SupportsEmbeddings() bool {
	return p == AIProviderOllama || p == AIProviderOpenAI
}

// IsLocal returns true if this provider runs locally.
func (p AIProvider) IsLocal() bool {
	return p == AIProviderOllama
}

// String returns the string representation.
func (p AIProvider) String() string {
	return string(p)
}

// Description returns a human-readable description of the provider.
func (p AIProvider) Description() string {
	switch p {
	case AIProviderOllama:
		return "Ollama (local)"
	case AIProviderOpenAI:
		return "OpenAI (cloud)"
	case AIProviderAnthropic:
		return "Anthropic (cloud)"
	case AIProviderGemini:
		return "Google Gemini (cloud)"
	default:
		return unknownDescription
	}
}

// EmbeddingSettings holds embedding provider configuration.
type EmbeddingSettings struct {
	// Provider is the embedding service provider.
	Provider AIProvider

	// Model is the embedding model name.
	Model string

	// BaseURL is the API endpoint (for Ollama).
	BaseURL string

	// APIKey is the API key (for OpenAI).
	APIKey string

	// APIKeyEnv names the environment variable APIKey is read from
	// when APIKey itself is empty.
	APIKeyEnv string

	// PrecomputedModel names the model that produced the .npy embeddings
	// shipped next to the chunks. They are only reused when it equals Model.
	PrecomputedModel string
}

// IsConfigured returns true if the embedding provider is set up.
func (e EmbeddingSettings) IsConfigured() bool {
	if !e.Provider.SupportsEmbeddings() {
		return false
	}
	if e.Provider.RequiresAPIKey() && e.APIKey == "" {
		return false
	}
	return true
}

// LLMSettings holds LLM provider configuration.
type LLMSettings struct {
	// Provider is the LLM service provider.
	Provider AIProvider

	// Model is the LLM model name.
	Model string

	// BaseURL is the API endpoint (for Ollama).
	BaseURL string

	// APIKey is the API key (for OpenAI/Anthropic/Gemini).
	APIKey string

	// APIKeyEnv names the environment variable APIKey is read from
	// when APIKey itself is empty.
	APIKeyEnv string
}

// IsConfigured returns true if the LLM provider is set up.
func (l LLMSettings) IsConfigured() bool {
	if !l.Provider.IsValid() {
		return false
	}
	if l.Provider.RequiresAPIKey() && l.APIKey == "" {
		return false
	}
	return true
}

// SummaryStoreKind selects where generated summaries are persisted.
type SummaryStoreKind string

// Available summary stores.
const (
	// SummaryStoreFile writes <key>_summary.txt next to the chunk files.
	SummaryStoreFile SummaryStoreKind = "file"

	// SummaryStoreSQLite writes summaries to the cache database.
	SummaryStoreSQLite SummaryStoreKind = "sqlite"

	// SummaryStoreMemory keeps summaries for the life of the process.
	SummaryStoreMemory SummaryStoreKind = "memory"
)

// IsValid returns true if the store kind is recognised.
func (k SummaryStoreKind) IsValid() bool {
	switch k {
	case SummaryStoreFile, SummaryStoreSQLite, SummaryStoreMemory:
		return true
	default:
		return false
	}
}

// Summary length defaults, in characters. Roughly 600 and 3000 words.
const (
	DefaultChunkSummaryLength = 3600
	DefaultFinalSummaryLength = 18000
)

// SummarySettings controls summary generation.
type SummarySettings struct {
	// Store selects the summary persistence backend.
	Store SummaryStoreKind

	// ChunkMaxLength bounds each first-pass chunk summary.
	ChunkMaxLength int

	// FinalMaxLength bounds the second-pass summary.
	FinalMaxLength int

	// RequestsPerSecond paces LLM calls. Zero means unlimited.
	RequestsPerSecond float64
}

// DefaultSearchConcurrency is the number of sources encoded in parallel.
const DefaultSearchConcurrency = 1

// SearchSettings holds retrieval configuration.
type SearchSettings struct {
	// DefaultTopK is used when a caller passes a non-positive top_k.
	DefaultTopK int

	// Concurrency bounds how many sources are encoded at once.
	Concurrency int
}

// CacheSettings controls the embedding cache.
type CacheSettings struct {
	// Enabled turns on the sqlite embedding cache.
	Enabled bool

	// Path is the cache database. Empty means <data_dir>/.dealscope/cache.db.
	Path string
}

// DefaultDataDir is where preprocessing writes its output.
const DefaultDataDir = "preprocessing/outputs/preprocessed_data"

// AppSettings holds all application settings.
type AppSettings struct {
	// DataDir is the preprocessed-data root holding one directory per investment.
	DataDir string

	// Embedding holds embedding provider settings.
	Embedding EmbeddingSettings

	// LLM holds LLM provider settings.
	LLM LLMSettings

	// Summary holds summary generation settings.
	Summary SummarySettings

	// Search holds retrieval settings.
	Search SearchSettings

	// Cache holds embedding cache settings.
	Cache CacheSettings
}

// DefaultAppSettings returns settings with sensible defaults.
// AI features (Embedding, LLM) are left unconfigured by default.
func DefaultAppSettings() AppSettings {
	return AppSettings{
		DataDir: DefaultDataDir,
		Summary: SummarySettings{
			Store:          SummaryStoreFile,
			ChunkMaxLength: DefaultChunkSummaryLength,
			FinalMaxLength: DefaultFinalSummaryLength,
		},
		Search: SearchSettings{
			DefaultTopK: DefaultTopK,
			Concurrency: DefaultSearchConcurrency,
		},
		Cache: CacheSettings{
			Enabled: true,
		},
	}
}

// Validate checks settings that every command depends on.
// Provider requirements are checked separately by RequireEmbedding and RequireLLM.
func (s AppSettings) Validate() error {
	var problems []string

	if strings.TrimSpace(s.DataDir) == "" {
		problems = append(problems, "data_dir is required")
	}
	if s.Embedding.Provider != "" && !s.Embedding.Provider.SupportsEmbeddings() {
		problems = append(problems, fmt.Sprintf("embedding.provider %q does not support embeddings", s.Embedding.Provider))
	}
	if s.LLM.Provider != "" && !s.LLM.Provider.IsValid() {
		problems = append(problems, fmt.Sprintf("llm.provider %q is not recognised", s.LLM.Provider))
	}
	if !s.Summary.Store.IsValid() {
		problems = append(problems, fmt.Sprintf("summary.store %q is not recognised", s.Summary.Store))
	}
	if s.Summary.ChunkMaxLength <= 0 {
		problems = append(problems, "summary.chunk_max_length must be positive")
	}
	if s.Summary.FinalMaxLength <= 0 {
		problems = append(problems, "summary.final_max_length must be positive")
	}
	if s.Summary.RequestsPerSecond < 0 {
		problems = append(problems, "summary.requests_per_second must not be negative")
	}
	if s.Search.DefaultTopK <= 0 || s.Search.DefaultTopK > MaxTopK {
		problems = append(problems, fmt.Sprintf("search.default_top_k must be between 1 and %d", MaxTopK))
	}
	if s.Search.Concurrency <= 0 {
		problems = append(problems, "search.concurrency must be positive")
	}

	if len(problems) > 0 {
		return fmt.Errorf("%w: %s", ErrConfigInvalid, strings.Join(problems, "; "))
	}
	return nil
}

// RequireEmbedding fails when semantic search cannot run.
func (s AppSettings) RequireEmbedding() error {
	if !s.Embedding.IsConfigured() {
		return fmt.Errorf("%w: embedding provider is not configured", ErrConfigInvalid)
	}
	return nil
}

// RequireLLM fails when summaries cannot be generated.
func (s AppSettings) RequireLLM() error {
	if !s.LLM.IsConfigured() {
		return fmt.Errorf("%w: llm provider is not configured", ErrConfigInvalid)
	}
	return nil
}

// AllEmbeddingProviders returns providers that support embeddings.
func AllEmbeddingProviders() []AIProvider {
	return []AIProvider{
		AIProviderOllama,
		AIProviderOpenAI,
	}
}

// AllLLMProviders returns providers that support LLM operations.
func AllLLMProviders() []AIProvider {
	return []AIProvider{
		AIProviderOllama,
		AIProviderOpenAI,
		AIProviderAnthropic,
		AIProviderGemini,
	}
}

// DefaultEmbeddingModels returns default models for each embedding provider.
func DefaultEmbeddingModels() map[AIProvider]string {
	return map[AIProvider]string{
		AIProviderOllama: "nomic-embed-text",
		AIProviderOpenAI: "text-embedding-3-small",
	}
}

// DefaultLLMModels returns default models for each LLM provider.
func DefaultLLMModels() map[AIProvider]string {
	return map[AIProvider]string{
		AIProviderOllama:    "llama3.2",
		AIProviderOpenAI:    "gpt-4o-mini",
		AIProviderAnthropic: "claude-3-5-sonnet-latest",
		AIProviderGemini:    "gemini-1.5-flash",
	}
}

// DefaultAPIKeyEnv returns the conventional environment variable per provider.
func DefaultAPIKeyEnv() map[AIProvider]string {
	return map[AIProvider]string{
		AIProviderOpenAI:    "OPENAI_API_KEY",
		AIProviderAnthropic: "ANTHROPIC_API_KEY",
		AIProviderGemini:    "GEMINI_API_KEY",
	}
}

// EmbeddingDimensions returns the vector dimensions for known models.
func EmbeddingDimensions() map[string]int {
	return map[string]int{
		// Ollama models
		"nomic-embed-text":  768,
		"mxbai-embed-large": 1024,
		"all-minilm":        384,
		// OpenAI models
		"text-embedding-3-small": 1536,
		"text-embedding-3-large": 3072,
		"text-embedding-ada-002": 1536,
	}
}

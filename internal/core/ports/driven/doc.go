// Package driven defines the interfaces that core calls OUT to infrastructure.
//
// These are the "driven" or "secondary" ports in hexagonal architecture.
// Core services depend on these interfaces, and infrastructure adapters
// implement them.
//
// # Required Interfaces
//
// These must be provided for the application to function:
//
//   - ChunkStore: Investment metadata and chunk files written by preprocessing
//   - SummaryStore: Persisted summaries, one per investment and key
//   - ConfigStore: Application configuration
//
// # Optional Interfaces
//
// These can be nil - the application degrades gracefully:
//
//   - EmbeddingService: Generates vector embeddings. Without it, semantic search is disabled.
//   - EmbeddingCache: Memoises chunk embeddings across searches.
//   - LLMService: Language model operations. Without it, only cached summaries are served.
//   - PromptStore: Customised prompts. Without it, built-in prompts are used.
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter package
package driven

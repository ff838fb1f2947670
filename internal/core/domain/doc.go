// Package domain defines the core business entities for dealscope.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - InvestmentMetadata: The unit of analysis and the files/sites it owns
//   - ChunkSet: Ordered text chunks extracted from one file or website
//   - AssembledContext: Per-investment summaries and chunks built for a call
//   - SearchResult: A ranked chunk returned by semantic retrieval
//   - Sector: Coarse label inferred from overview text
//
// # Architectural Position
//
// Domain is at the centre of the hexagon. It may only import
// the Go standard library. All other packages depend on domain,
// never the reverse.
//
// # Import Rules
//
//   - Can Import: Standard library only
//   - Cannot Import: Any internal/ package, any external dependency
package domain

package services

import (
	"context"
	"fmt"
	"math"
	"net/url"
	"sort"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/custodia-labs/dealscope/internal/core/domain"
	"github.com/custodia-labs/dealscope/internal/core/ports/driven"
	"github.com/custodia-labs/dealscope/internal/core/ports/driving"
	"github.com/custodia-labs/dealscope/internal/logger"
)

// Ensure RetrievalService implements the interface.
var _ driving.RetrievalService = (*RetrievalService)(nil)

// RetrievalConfig holds retrieval defaults.
type RetrievalConfig struct {
	// DefaultTopK is used when a caller passes topK <= 0.
	DefaultTopK int

	// Concurrency bounds how many sources are encoded at once.
	Concurrency int

	// PrecomputedModel is the model the shipped .npy embeddings came from.
	// When set, precomputed rows are ignored unless it matches the embedding
	// service's model: equal dimensions do not imply the same vector space.
	// When empty, rows of the query's dimensions are assumed compatible.
	PrecomputedModel string
}

// RetrievalService ranks chunks by cosine similarity to a query.
type RetrievalService struct {
	embeddingService driven.EmbeddingService
	embeddingCache   driven.EmbeddingCache
	defaultTopK      int
	concurrency      int
	usePrecomputed   bool
}

// NewRetrievalService creates a new retrieval service.
// The embeddingCache parameter is optional (can be nil).
func NewRetrievalService(
	embeddingService driven.EmbeddingService,
	embeddingCache driven.EmbeddingCache,
	cfg RetrievalConfig,
) *RetrievalService {
	if cfg.DefaultTopK <= 0 {
		cfg.DefaultTopK = domain.DefaultTopK
	}
	if cfg.Concurrency <= 0 {
		cfg.Concurrency = domain.DefaultSearchConcurrency
	}
	return &RetrievalService{
		embeddingService: embeddingService,
		embeddingCache:   embeddingCache,
		defaultTopK:      cfg.DefaultTopK,
		concurrency:      cfg.Concurrency,
		usePrecomputed:   precomputedCompatible(embeddingService, cfg.PrecomputedModel),
	}
}

func precomputedCompatible(embeddingService driven.EmbeddingService, precomputedModel string) bool {
	if embeddingService == nil {
		return false
	}
	switch model := embeddingService.ModelName(); precomputedModel {
	case "":
		logger.Debug("Precomputed embeddings assumed to come from %s", model)
		return true
	case model:
		return true
	default:
		logger.Warn("Precomputed embeddings come from %s, not %s; encoding chunks on the fly",
			precomputedModel, model)
		return false
	}
}

// SemanticSearch ranks every chunk of every document and website.
// Equal scores keep source order: documents before websites, metadata order,
// then chunk index.
func (s *RetrievalService) SemanticSearch(
	ctx context.Context, assembled *domain.AssembledContext, query string, topK int,
) ([]domain.SearchResult, error) {
	logger.Section("Semantic Search")
	logger.Debug("Query: %q", query)

	query = strings.TrimSpace(query)
	if query == "" || assembled == nil {
		logger.Debug("Empty query, returning no results")
		return []domain.SearchResult{}, nil
	}
	if s.embeddingService == nil {
		return nil, domain.ErrEmbeddingUnavailable
	}
	if topK <= 0 {
		topK = s.defaultTopK
	}

	return s.search(ctx, assembled.Metadata.ID, assembled.Sources(), query, topK)
}

// SearchSpecificDocument resolves documentName and searches only that entry.
// A trailing ".pdf" is stripped and the first document whose file name starts
// with the remainder wins; otherwise the first website with an equal URL.
func (s *RetrievalService) SearchSpecificDocument(
	ctx context.Context, assembled *domain.AssembledContext, documentName, query string, topK int,
) ([]domain.SearchResult, error) {
	source, ok := resolveSource(assembled, documentName)
	if !ok {
		logger.Warn("Could not find a document or website named %q", documentName)
		return []domain.SearchResult{}, nil
	}
	logger.Debug("Resolved %q to %s", documentName, source.Name)

	query = strings.TrimSpace(query)
	if query == "" {
		return []domain.SearchResult{}, nil
	}
	if s.embeddingService == nil {
		return nil, domain.ErrEmbeddingUnavailable
	}
	if topK <= 0 {
		topK = s.defaultTopK
	}

	return s.search(ctx, assembled.Metadata.ID, []domain.ContextSource{source}, query, topK)
}

func resolveSource(assembled *domain.AssembledContext, documentName string) (domain.ContextSource, bool) {
	if assembled == nil || strings.TrimSpace(documentName) == "" {
		return domain.ContextSource{}, false
	}

	prefix := strings.TrimSuffix(documentName, ".pdf")
	sources := assembled.Sources()
	for _, src := range sources {
		if !src.IsWebsite && strings.HasPrefix(src.Name, prefix) {
			return src, true
		}
	}
	for _, src := range sources {
		if src.IsWebsite && src.Name == documentName {
			return src, true
		}
	}
	return domain.ContextSource{}, false
}

func (s *RetrievalService) search(
	ctx context.Context, investmentID string, sources []domain.ContextSource, query string, topK int,
) ([]domain.SearchResult, error) {
	queryVec, err := s.embeddingService.Embed(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("embed query: %w", err)
	}
	logger.Debug("Query embedding: %d dimensions", len(queryVec))

	perSource := make([][]domain.SearchResult, len(sources))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.concurrency)
	for i, src := range sources {
		if len(src.Chunks) == 0 {
			logger.Warn("No chunks for %s; it contributes no results", src.Name)
			continue
		}
		g.Go(func() error {
			vectors, err := s.chunkVectors(gctx, src, len(queryVec))
			if err != nil {
				return fmt.Errorf("embed chunks of %s: %w", src.Name, err)
			}
			results := make([]domain.SearchResult, len(src.Chunks))
			for j, chunk := range src.Chunks {
				results[j] = domain.SearchResult{
					Source:     src.Name,
					Score:      cosineSimilarity(queryVec, vectors[j]),
					Chunk:      chunk,
					ChunkIndex: j,
					ChunkID:    chunkID(investmentID, src.Name, j),
					IsWebsite:  src.IsWebsite,
				}
			}
			perSource[i] = results
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var results []domain.SearchResult
	for _, rs := range perSource {
		results = append(results, rs...)
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Score > results[j].Score
	})
	if len(results) > topK {
		results = results[:topK]
	}
	if results == nil {
		results = []domain.SearchResult{}
	}

	logger.Info("Semantic search returned %d results", len(results))
	return results, nil
}

// chunkVectors returns one embedding per chunk. Precomputed embeddings are used
// when they come from the query's model and match its dimensions; the rest come
// from the cache or the embedding service.
func (s *RetrievalService) chunkVectors(
	ctx context.Context, src domain.ContextSource, dims int,
) ([][]float32, error) {
	if s.usePrecomputed && precomputedUsable(src.Embeddings, len(src.Chunks), dims) {
		logger.Debug("Using precomputed embeddings for %s", src.Name)
		return src.Embeddings, nil
	}

	model := s.embeddingService.ModelName()
	vectors := make([][]float32, len(src.Chunks))
	if s.embeddingCache != nil {
		cached, err := s.embeddingCache.GetMany(ctx, model, src.Chunks)
		if err != nil {
			logger.Warn("Embedding cache read failed: %v", err)
		} else if len(cached) == len(src.Chunks) {
			vectors = cached
		}
	}

	var (
		missing     []string
		missingIdxs []int
	)
	for i, v := range vectors {
		if len(v) == 0 {
			missing = append(missing, src.Chunks[i])
			missingIdxs = append(missingIdxs, i)
		}
	}
	if len(missing) == 0 {
		logger.Debug("All %d chunks of %s served from cache", len(vectors), src.Name)
		return vectors, nil
	}

	encoded, err := s.embeddingService.EmbedBatch(ctx, missing)
	if err != nil {
		return nil, err
	}
	if len(encoded) != len(missing) {
		return nil, fmt.Errorf("expected %d embeddings, got %d", len(missing), len(encoded))
	}
	for i, idx := range missingIdxs {
		vectors[idx] = encoded[i]
	}
	logger.Debug("Encoded %d of %d chunks of %s", len(missing), len(vectors), src.Name)

	if s.embeddingCache != nil {
		if err := s.embeddingCache.PutMany(ctx, model, missing, encoded); err != nil {
			logger.Warn("Embedding cache write failed: %v", err)
		}
	}
	return vectors, nil
}

func precomputedUsable(rows [][]float32, chunks, dims int) bool {
	if len(rows) == 0 || len(rows) != chunks {
		return false
	}
	for _, row := range rows {
		if len(row) != dims {
			return false
		}
	}
	return true
}

// cosineSimilarity returns 0 for mismatched or zero-length vectors.
func cosineSimilarity(a, b []float32) float64 {
	if len(a) == 0 || len(a) != len(b) {
		return 0
	}

	var dot, normA, normB float64
	for i := range a {
		x, y := float64(a[i]), float64(b[i])
		dot += x * y
		normA += x * x
		normB += y * y
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}

// chunkID is a name-based UUID, stable across runs for the same chunk position.
func chunkID(investmentID, source string, index int) string {
	name := fmt.Sprintf("dealscope://investments/%s/sources/%s/chunks/%d",
		url.PathEscape(investmentID), url.PathEscape(source), index)
	return uuid.NewSHA1(uuid.NameSpaceURL, []byte(name)).String()
}

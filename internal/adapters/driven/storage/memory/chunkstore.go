package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/custodia-labs/dealscope/internal/core/domain"
	"github.com/custodia-labs/dealscope/internal/core/ports/driven"
)

// Ensure ChunkStore implements the interface.
var _ driven.ChunkStore = (*ChunkStore)(nil)

// ChunkStore is an in-memory implementation of driven.ChunkStore.
// Chunk sets are keyed the same way the file store names its files.
type ChunkStore struct {
	mu       sync.RWMutex
	metadata map[string]domain.InvestmentMetadata
	chunks   map[string]map[string]domain.ChunkSet
}

// NewChunkStore creates a new in-memory chunk store.
func NewChunkStore() *ChunkStore {
	return &ChunkStore{
		metadata: make(map[string]domain.InvestmentMetadata),
		chunks:   make(map[string]map[string]domain.ChunkSet),
	}
}

// PutMetadata stores metadata under its ID.
func (s *ChunkStore) PutMetadata(meta domain.InvestmentMetadata) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.metadata[meta.ID] = meta
}

// PutDocumentChunks stores text chunks for a document.
func (s *ChunkStore) PutDocumentChunks(investmentID, fileName string, chunks []string) {
	s.put(investmentID, domain.ChunkSet{
		Key:    domain.DocumentStem(fileName),
		Source: fileName,
		Chunks: chunks,
	})
}

// PutWebsiteChunks stores chunks for a website.
func (s *ChunkStore) PutWebsiteChunks(investmentID, url string, chunks []string) {
	s.put(investmentID, domain.ChunkSet{
		Key:       domain.WebsiteKey(url),
		Source:    url,
		IsWebsite: true,
		Chunks:    chunks,
	})
}

// PutChunkSet stores a prepared chunk set under set.Key.
func (s *ChunkStore) PutChunkSet(investmentID string, set domain.ChunkSet) {
	s.put(investmentID, set)
}

func (s *ChunkStore) put(investmentID string, set domain.ChunkSet) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.chunks[investmentID] == nil {
		s.chunks[investmentID] = make(map[string]domain.ChunkSet)
	}
	s.chunks[investmentID][set.Key] = set
}

// LoadMetadata returns metadata or domain.ErrNotFound.
func (s *ChunkStore) LoadMetadata(_ context.Context, investmentID string) (*domain.InvestmentMetadata, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	meta, ok := s.metadata[investmentID]
	if !ok {
		return nil, fmt.Errorf("investment %s: %w", investmentID, domain.ErrNotFound)
	}
	return &meta, nil
}

// LoadDocumentChunks returns a copy of the stored set, or nil if absent.
func (s *ChunkStore) LoadDocumentChunks(_ context.Context, investmentID, fileName string) (*domain.ChunkSet, error) {
	return s.get(investmentID, domain.DocumentStem(fileName)), nil
}

// LoadWebsiteChunks returns a copy of the stored set, or nil if absent.
func (s *ChunkStore) LoadWebsiteChunks(_ context.Context, investmentID, url string) (*domain.ChunkSet, error) {
	return s.get(investmentID, domain.WebsiteKey(url)), nil
}

func (s *ChunkStore) get(investmentID, key string) *domain.ChunkSet {
	s.mu.RLock()
	defer s.mu.RUnlock()
	set, ok := s.chunks[investmentID][key]
	if !ok {
		return nil
	}
	return &set
}

package memory

import (
	"context"
	"sync"

	"github.com/custodia-labs/dealscope/internal/core/ports/driven"
)

// Ensure SummaryStore implements the interface.
var _ driven.SummaryStore = (*SummaryStore)(nil)

// SummaryStore keeps summaries for the life of the process.
type SummaryStore struct {
	mu        sync.RWMutex
	summaries map[string]string
}

// NewSummaryStore creates a new in-memory summary store.
func NewSummaryStore() *SummaryStore {
	return &SummaryStore{summaries: make(map[string]string)}
}

func summaryKey(investmentID, key string) string {
	return investmentID + "\x00" + key
}

// Get returns a cached summary.
func (s *SummaryStore) Get(_ context.Context, investmentID, key string) (string, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	summary, ok := s.summaries[summaryKey(investmentID, key)]
	return summary, ok, nil
}

// Put stores a summary.
func (s *SummaryStore) Put(_ context.Context, investmentID, key, summary string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.summaries[summaryKey(investmentID, key)] = summary
	return nil
}

// Delete removes a summary.
func (s *SummaryStore) Delete(_ context.Context, investmentID, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.summaries, summaryKey(investmentID, key))
	return nil
}

// Len returns the number of cached summaries.
func (s *SummaryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.summaries)
}

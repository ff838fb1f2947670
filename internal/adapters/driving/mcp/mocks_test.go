package mcp

import (
	"context"
	"fmt"

	"github.com/custodia-labs/dealscope/internal/core/domain"
)

// mockAssembler is a mock implementation of driving.ContextAssembler.
type mockAssembler struct {
	assembled *domain.AssembledContext
	meta      *domain.InvestmentMetadata
	overview  string
	err       error

	assembleCalls []assembleCall
}

type assembleCall struct {
	investmentID  string
	includeChunks bool
}

func (m *mockAssembler) Assemble(_ context.Context, id string, includeChunks bool) (*domain.AssembledContext, error) {
	m.assembleCalls = append(m.assembleCalls, assembleCall{investmentID: id, includeChunks: includeChunks})
	if m.err != nil {
		return nil, m.err
	}
	return m.assembled, nil
}

func (m *mockAssembler) Metadata(_ context.Context, _ string) (*domain.InvestmentMetadata, error) {
	return m.meta, m.err
}

func (m *mockAssembler) Overview(_ context.Context, _ string) (string, error) {
	return m.overview, m.err
}

func (m *mockAssembler) DetermineSector(_ string) domain.Sector {
	return domain.SectorUnknown
}

// mockRetrieval is a mock implementation of driving.RetrievalService.
type mockRetrieval struct {
	results []domain.SearchResult
	err     error

	lastTopK     int
	lastQuery    string
	lastDocument string
	lastContext  *domain.AssembledContext
}

func (m *mockRetrieval) SemanticSearch(
	_ context.Context,
	assembled *domain.AssembledContext,
	query string,
	topK int,
) ([]domain.SearchResult, error) {
	m.lastContext, m.lastQuery, m.lastTopK = assembled, query, topK
	return m.results, m.err
}

func (m *mockRetrieval) SearchSpecificDocument(
	_ context.Context,
	assembled *domain.AssembledContext,
	documentName, query string,
	topK int,
) ([]domain.SearchResult, error) {
	m.lastContext, m.lastDocument, m.lastQuery, m.lastTopK = assembled, documentName, query, topK
	return m.results, m.err
}

func notFound(id string) error {
	return fmt.Errorf("load metadata for %s: %w", id, domain.ErrNotFound)
}

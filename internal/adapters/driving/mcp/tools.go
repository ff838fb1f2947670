package mcp

import (
	"context"
	"fmt"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/custodia-labs/dealscope/internal/core/domain"
	"github.com/custodia-labs/dealscope/internal/logger"
)

// Tool names exposed to MCP clients.
const (
	ToolSearchAllDocuments     = "search_all_documents"
	ToolSearchSpecificDocument = "search_specific_document"
	ToolInvestmentOverview     = "investment_overview"
)

// SearchAllDocumentsInput is the input schema for the search_all_documents tool.
type SearchAllDocumentsInput struct {
	InvestmentID string `json:"investment_id" jsonschema:"the investment to search"`
	Query        string `json:"query" jsonschema:"the question to match against document and website chunks"`
	TopK         int    `json:"top_k,omitempty" jsonschema:"maximum number of chunks to return (default 5, max 50)"`
}

// Validate checks required fields and normalises TopK.
func (in *SearchAllDocumentsInput) Validate() error {
	if err := requireField("investment_id", in.InvestmentID); err != nil {
		return err
	}
	if err := requireField("query", in.Query); err != nil {
		return err
	}
	k, err := normaliseTopK(in.TopK)
	if err != nil {
		return err
	}
	in.TopK = k
	return nil
}

// SearchSpecificDocumentInput is the input schema for the search_specific_document tool.
type SearchSpecificDocumentInput struct {
	InvestmentID string `json:"investment_id" jsonschema:"the investment to search"`
	DocumentName string `json:"document_name" jsonschema:"document file name (with or without .pdf) or website URL"`
	Query        string `json:"query" jsonschema:"the question to match against the document's chunks"`
	TopK         int    `json:"top_k,omitempty" jsonschema:"maximum number of chunks to return (default 5, max 50)"`
}

// Validate checks required fields and normalises TopK.
func (in *SearchSpecificDocumentInput) Validate() error {
	if err := requireField("investment_id", in.InvestmentID); err != nil {
		return err
	}
	if err := requireField("document_name", in.DocumentName); err != nil {
		return err
	}
	if err := requireField("query", in.Query); err != nil {
		return err
	}
	k, err := normaliseTopK(in.TopK)
	if err != nil {
		return err
	}
	in.TopK = k
	return nil
}

// OverviewInput is the input schema for the investment_overview tool.
type OverviewInput struct {
	InvestmentID string `json:"investment_id" jsonschema:"the investment to describe"`
}

// OverviewOutput is the output schema for the investment_overview tool.
type OverviewOutput struct {
	InvestmentID string `json:"investment_id"`
	Overview     string `json:"overview"`
}

// SearchOutput is the output schema for both search tools.
type SearchOutput struct {
	Results []SearchResultOutput `json:"results"`
	Count   int                  `json:"count"`
}

// SearchResultOutput represents a single ranked chunk.
type SearchResultOutput struct {
	Source     string  `json:"source"`
	Score      float64 `json:"score"`
	Chunk      string  `json:"chunk"`
	ChunkIndex int     `json:"chunk_index"`
	ChunkID    string  `json:"chunk_id,omitempty"`
}

// registerTools registers all tool handlers with the MCP server.
func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        ToolSearchAllDocuments,
		Title:       "Search All Documents",
		Description: "Semantic search across every document and website of an investment",
	}, s.handleSearchAllDocuments)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        ToolSearchSpecificDocument,
		Title:       "Search Specific Document",
		Description: "Semantic search within a single document or website of an investment",
	}, s.handleSearchSpecificDocument)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        ToolInvestmentOverview,
		Title:       "Investment Overview",
		Description: "Investment name, per-source summaries and sector. Read this before searching",
	}, s.handleOverview)
}

func (s *Server) handleSearchAllDocuments(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input SearchAllDocumentsInput,
) (*mcp.CallToolResult, SearchOutput, error) {
	if err := input.Validate(); err != nil {
		return nil, SearchOutput{}, err
	}
	logger.Debug("tool %s: investment=%s top_k=%d", ToolSearchAllDocuments, input.InvestmentID, input.TopK)

	assembled, err := s.ports.Assembler.Assemble(ctx, input.InvestmentID, true)
	if err != nil {
		return nil, SearchOutput{}, err
	}

	results, err := s.ports.Retrieval.SemanticSearch(ctx, assembled, input.Query, input.TopK)
	if err != nil {
		return nil, SearchOutput{}, err
	}
	return nil, toSearchOutput(results), nil
}

func (s *Server) handleSearchSpecificDocument(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input SearchSpecificDocumentInput,
) (*mcp.CallToolResult, SearchOutput, error) {
	if err := input.Validate(); err != nil {
		return nil, SearchOutput{}, err
	}
	logger.Debug("tool %s: investment=%s document=%s top_k=%d",
		ToolSearchSpecificDocument, input.InvestmentID, input.DocumentName, input.TopK)

	assembled, err := s.ports.Assembler.Assemble(ctx, input.InvestmentID, true)
	if err != nil {
		return nil, SearchOutput{}, err
	}

	results, err := s.ports.Retrieval.SearchSpecificDocument(ctx, assembled, input.DocumentName, input.Query, input.TopK)
	if err != nil {
		return nil, SearchOutput{}, err
	}
	return nil, toSearchOutput(results), nil
}

func (s *Server) handleOverview(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input OverviewInput,
) (*mcp.CallToolResult, OverviewOutput, error) {
	if err := requireField("investment_id", input.InvestmentID); err != nil {
		return nil, OverviewOutput{}, err
	}

	overview, err := s.ports.Assembler.Overview(ctx, input.InvestmentID)
	if err != nil {
		return nil, OverviewOutput{}, err
	}
	return nil, OverviewOutput{InvestmentID: input.InvestmentID, Overview: overview}, nil
}

func toSearchOutput(results []domain.SearchResult) SearchOutput {
	out := SearchOutput{
		Results: make([]SearchResultOutput, len(results)),
		Count:   len(results),
	}
	for i := range results {
		out.Results[i] = SearchResultOutput{
			Source:     results[i].Source,
			Score:      results[i].Score,
			Chunk:      results[i].Chunk,
			ChunkIndex: results[i].ChunkIndex,
			ChunkID:    results[i].ChunkID,
		}
	}
	return out
}

func requireField(name, value string) error {
	if strings.TrimSpace(value) == "" {
		return fmt.Errorf("%w: %s is required", domain.ErrInvalidInput, name)
	}
	return nil
}

// normaliseTopK applies the default for zero and caps at domain.MaxTopK.
func normaliseTopK(k int) (int, error) {
	switch {
	case k < 0:
		return 0, fmt.Errorf("%w: top_k must not be negative, got %d", domain.ErrInvalidInput, k)
	case k == 0:
		return domain.DefaultTopK, nil
	case k > domain.MaxTopK:
		return domain.MaxTopK, nil
	}
	return k, nil
}

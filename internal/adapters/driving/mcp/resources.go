package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/custodia-labs/dealscope/internal/core/domain"
)

const (
	uriScheme         = "dealscope://"
	investmentsPrefix = uriScheme + "investments/"
)

// registerResources registers all resource handlers with the MCP server.
func (s *Server) registerResources() {
	s.server.AddResourceTemplate(&mcp.ResourceTemplate{
		URITemplate: investmentsPrefix + "{investmentId}/overview",
		Name:        "investment-overview",
		Description: "Investment name, per-source summaries and sector",
		MIMEType:    "text/markdown",
	}, s.handleOverviewResource)

	s.server.AddResourceTemplate(&mcp.ResourceTemplate{
		URITemplate: investmentsPrefix + "{investmentId}/metadata",
		Name:        "investment-metadata",
		Description: "Investment metadata as written by preprocessing",
		MIMEType:    "application/json",
	}, s.handleMetadataResource)
}

func (s *Server) handleOverviewResource(
	ctx context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	id := extractInvestmentID(req.Params.URI, "overview")
	if id == "" {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}

	overview, err := s.ports.Assembler.Overview(ctx, id)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}
	if err != nil {
		return nil, fmt.Errorf("building overview: %w", err)
	}

	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      req.Params.URI,
			MIMEType: "text/markdown",
			Text:     overview,
		}},
	}, nil
}

func (s *Server) handleMetadataResource(
	ctx context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	id := extractInvestmentID(req.Params.URI, "metadata")
	if id == "" {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}

	meta, err := s.ports.Assembler.Metadata(ctx, id)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}
	if err != nil {
		return nil, fmt.Errorf("loading metadata: %w", err)
	}

	data, err := json.MarshalIndent(meta, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshalling metadata: %w", err)
	}

	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      req.Params.URI,
			MIMEType: "application/json",
			Text:     string(data),
		}},
	}, nil
}

// extractInvestmentID extracts the ID from dealscope://investments/{id}/{leaf}.
func extractInvestmentID(uri, leaf string) string {
	if !strings.HasPrefix(uri, investmentsPrefix) {
		return ""
	}
	rest := strings.TrimPrefix(uri, investmentsPrefix)
	id, ok := strings.CutSuffix(rest, "/"+leaf)
	if !ok || id == "" || strings.Contains(id, "/") {
		return ""
	}
	return id
}

package mcp

import (
	"github.com/custodia-labs/dealscope/internal/core/ports/driving"
)

// Ports aggregates the driving port interfaces required by the MCP server.
type Ports struct {
	// Assembler builds investment contexts and overviews.
	Assembler driving.ContextAssembler

	// Retrieval ranks assembled chunks against a query.
	Retrieval driving.RetrievalService
}

// Validate ensures all required ports are set.
func (p *Ports) Validate() error {
	if p.Assembler == nil {
		return ErrMissingAssembler
	}
	if p.Retrieval == nil {
		return ErrMissingRetrieval
	}
	return nil
}

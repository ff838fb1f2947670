// Package mcp provides an MCP (Model Context Protocol) server adapter for dealscope.
// It exposes investment retrieval to orchestrating agents as tools and resources.
package mcp

import "errors"

var (
	// ErrMissingAssembler is returned when the context assembler is not provided.
	ErrMissingAssembler = errors.New("mcp: context assembler is required")

	// ErrMissingRetrieval is returned when the retrieval service is not provided.
	ErrMissingRetrieval = errors.New("mcp: retrieval service is required")
)

package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/dealscope/internal/core/domain"
)

func readRequest(uri string) *mcp.ReadResourceRequest {
	return &mcp.ReadResourceRequest{Params: &mcp.ReadResourceParams{URI: uri}}
}

func TestServer_handleOverviewResource(t *testing.T) {
	ctx := context.Background()

	t.Run("returns markdown", func(t *testing.T) {
		server := newTestServer(t, &mockAssembler{overview: "# overview"}, &mockRetrieval{})
		uri := "dealscope://investments/42/overview"

		res, err := server.handleOverviewResource(ctx, readRequest(uri))

		require.NoError(t, err)
		require.Len(t, res.Contents, 1)
		assert.Equal(t, uri, res.Contents[0].URI)
		assert.Equal(t, "text/markdown", res.Contents[0].MIMEType)
		assert.Equal(t, "# overview", res.Contents[0].Text)
	})

	t.Run("unknown investment is resource not found", func(t *testing.T) {
		server := newTestServer(t, &mockAssembler{err: notFound("42")}, &mockRetrieval{})

		_, err := server.handleOverviewResource(ctx, readRequest("dealscope://investments/42/overview"))

		require.Error(t, err)
		assert.NotErrorIs(t, err, domain.ErrNotFound)
	})

	t.Run("other errors are wrapped", func(t *testing.T) {
		boom := errors.New("boom")
		server := newTestServer(t, &mockAssembler{err: boom}, &mockRetrieval{})

		_, err := server.handleOverviewResource(ctx, readRequest("dealscope://investments/42/overview"))

		assert.ErrorIs(t, err, boom)
	})
}

func TestServer_handleMetadataResource(t *testing.T) {
	ctx := context.Background()

	t.Run("returns raw metadata json", func(t *testing.T) {
		raw := json.RawMessage(`{"id":"42","name":"Acme","extra":true}`)
		meta := &domain.InvestmentMetadata{ID: "42", Name: "Acme", Raw: raw}
		server := newTestServer(t, &mockAssembler{meta: meta}, &mockRetrieval{})

		res, err := server.handleMetadataResource(ctx, readRequest("dealscope://investments/42/metadata"))

		require.NoError(t, err)
		require.Len(t, res.Contents, 1)
		assert.Equal(t, "application/json", res.Contents[0].MIMEType)
		assert.JSONEq(t, string(raw), res.Contents[0].Text)
	})

	t.Run("malformed uri is resource not found", func(t *testing.T) {
		server := newTestServer(t, &mockAssembler{}, &mockRetrieval{})

		_, err := server.handleMetadataResource(ctx, readRequest("dealscope://investments//metadata"))

		assert.Error(t, err)
	})
}

func TestExtractInvestmentID(t *testing.T) {
	tests := []struct {
		uri  string
		leaf string
		want string
	}{
		{"dealscope://investments/42/overview", "overview", "42"},
		{"dealscope://investments/acme-fund/metadata", "metadata", "acme-fund"},
		{"dealscope://investments/42/metadata", "overview", ""},
		{"dealscope://investments//overview", "overview", ""},
		{"dealscope://investments/a/b/overview", "overview", ""},
		{"other://investments/42/overview", "overview", ""},
	}

	for _, tt := range tests {
		t.Run(tt.uri, func(t *testing.T) {
			assert.Equal(t, tt.want, extractInvestmentID(tt.uri, tt.leaf))
		})
	}
}

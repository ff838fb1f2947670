package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/dealscope/internal/core/domain"
)

func TestSummaryCmd_Document(t *testing.T) {
	ts, cleanup := setupTestServices()
	defer cleanup()

	out, err := execute("summary", "acme", "deck.pdf")

	require.NoError(t, err)
	assert.Contains(t, out, "document summary of deck.pdf")
	assert.Empty(t, ts.summaries.invalidated)
}

func TestSummaryCmd_Website(t *testing.T) {
	_, cleanup := setupTestServices()
	defer cleanup()

	out, err := execute("summary", "acme", "https://acme.example")

	require.NoError(t, err)
	assert.Contains(t, out, "website summary of https://acme.example")
}

func TestSummaryCmd_Refresh(t *testing.T) {
	ts, cleanup := setupTestServices()
	defer cleanup()

	_, err := execute("summary", "--refresh", "acme", "financials.pdf")

	require.NoError(t, err)
	assert.Equal(t, []string{"financials.pdf"}, ts.summaries.invalidated)
}

func TestSummaryCmd_UnknownEntry(t *testing.T) {
	_, cleanup := setupTestServices()
	defer cleanup()

	_, err := execute("summary", "acme", "other.pdf")

	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestSummaryCmd_SummaryError(t *testing.T) {
	ts, cleanup := setupTestServices()
	defer cleanup()
	ts.summaries.err = domain.ErrLLMUnavailable

	_, err := execute("summary", "acme", "deck.pdf")

	assert.ErrorIs(t, err, domain.ErrLLMUnavailable)
}

package memory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/dealscope/internal/core/domain"
)

func TestChunkStore_LoadMetadata(t *testing.T) {
	store := NewChunkStore()
	store.PutMetadata(domain.InvestmentMetadata{ID: "1", Name: "Fund"})

	meta, err := store.LoadMetadata(context.Background(), "1")
	require.NoError(t, err)
	assert.Equal(t, "Fund", meta.Name)

	_, err = store.LoadMetadata(context.Background(), "2")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestChunkStore_DocumentKeyedByStem(t *testing.T) {
	store := NewChunkStore()
	store.PutDocumentChunks("1", "doc1.pdf", []string{"Chunk 1", "Chunk 2"})

	set, err := store.LoadDocumentChunks(context.Background(), "1", "doc1.pdf")
	require.NoError(t, err)
	require.NotNil(t, set)
	assert.Equal(t, "doc1", set.Key)
	assert.Equal(t, []string{"Chunk 1", "Chunk 2"}, set.Chunks)

	// A different extension resolves to the same stem.
	set, err = store.LoadDocumentChunks(context.Background(), "1", "doc1.docx")
	require.NoError(t, err)
	assert.NotNil(t, set)
}

func TestChunkStore_WebsiteKeyedByURL(t *testing.T) {
	store := NewChunkStore()
	store.PutWebsiteChunks("1", "https://example.com/about", []string{"w"})

	set, err := store.LoadWebsiteChunks(context.Background(), "1", "http://example.com/about")
	require.NoError(t, err)
	require.NotNil(t, set)
	assert.True(t, set.IsWebsite)
	assert.Equal(t, "example.com_about", set.Key)
}

func TestChunkStore_SoftMiss(t *testing.T) {
	store := NewChunkStore()

	set, err := store.LoadDocumentChunks(context.Background(), "1", "missing.pdf")
	assert.NoError(t, err)
	assert.Nil(t, set)

	set, err = store.LoadWebsiteChunks(context.Background(), "1", "https://missing.example")
	assert.NoError(t, err)
	assert.Nil(t, set)
}

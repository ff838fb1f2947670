package sqlite

import (
	"context"
	"fmt"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// setupTestStore creates a temporary SQLite store for testing.
func setupTestStore(t *testing.T) *Store {
	t.Helper()

	store, err := NewStore(filepath.Join(t.TempDir(), "nested", DefaultFileName))
	require.NoError(t, err)
	t.Cleanup(func() {
		assert.NoError(t, store.Close())
	})
	return store
}

func TestNewStore_RequiresPath(t *testing.T) {
	_, err := NewStore("")
	assert.Error(t, err)
}

func TestDefaultPath(t *testing.T) {
	assert.Equal(t, filepath.Join("/data", ".dealscope", "cache.db"), DefaultPath("/data"))
}

func TestNewStore_MigrationsIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), DefaultFileName)

	first, err := NewStore(path)
	require.NoError(t, err)
	require.NoError(t, first.SummaryStore().Put(context.Background(), "1", "doc.pdf", "kept"))
	require.NoError(t, first.Close())

	second, err := NewStore(path)
	require.NoError(t, err)
	defer second.Close()

	var versions int
	require.NoError(t, second.db.QueryRow("SELECT COUNT(*) FROM schema_migrations").Scan(&versions))
	assert.Equal(t, 1, versions)

	got, ok, err := second.SummaryStore().Get(context.Background(), "1", "doc.pdf")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "kept", got)
	assert.Equal(t, path, second.Path())
}

func TestFloat32Encoding(t *testing.T) {
	in := []float32{0, 1.5, -2.25, 3.4028235e38}

	out := bytesToFloat32Slice(float32SliceToBytes(in))

	assert.Equal(t, in, out)
	assert.Nil(t, bytesToFloat32Slice([]byte{1, 2, 3}))
	assert.Nil(t, bytesToFloat32Slice(nil))
}

func TestEmbeddingCache_RoundTrip(t *testing.T) {
	cache := setupTestStore(t).EmbeddingCache()
	ctx := context.Background()

	require.NoError(t, cache.PutMany(ctx, "nomic", []string{"a", "b"}, [][]float32{{1, 2}, {3, 4}}))

	got, err := cache.GetMany(ctx, "nomic", []string{"b", "missing", "a", "b"})
	require.NoError(t, err)
	assert.Equal(t, [][]float32{{3, 4}, nil, {1, 2}, {3, 4}}, got)
}

func TestEmbeddingCache_ScopedByModel(t *testing.T) {
	cache := setupTestStore(t).EmbeddingCache()
	ctx := context.Background()
	require.NoError(t, cache.PutMany(ctx, "model-a", []string{"x"}, [][]float32{{1}}))

	got, err := cache.GetMany(ctx, "model-b", []string{"x"})

	require.NoError(t, err)
	assert.Equal(t, [][]float32{nil}, got)
}

func TestEmbeddingCache_Overwrite(t *testing.T) {
	cache := setupTestStore(t).EmbeddingCache()
	ctx := context.Background()
	require.NoError(t, cache.PutMany(ctx, "m", []string{"x"}, [][]float32{{1}}))
	require.NoError(t, cache.PutMany(ctx, "m", []string{"x"}, [][]float32{{2, 2}}))

	got, err := cache.GetMany(ctx, "m", []string{"x"})

	require.NoError(t, err)
	assert.Equal(t, [][]float32{{2, 2}}, got)
}

func TestEmbeddingCache_ManyTexts(t *testing.T) {
	cache := setupTestStore(t).EmbeddingCache()
	ctx := context.Background()

	texts := make([]string, maxLookupParams+20)
	vectors := make([][]float32, len(texts))
	for i := range texts {
		texts[i] = fmt.Sprintf("chunk %d", i)
		vectors[i] = []float32{float32(i)}
	}
	require.NoError(t, cache.PutMany(ctx, "m", texts, vectors))

	got, err := cache.GetMany(ctx, "m", texts)

	require.NoError(t, err)
	assert.Equal(t, vectors, got)
}

func TestEmbeddingCache_Validation(t *testing.T) {
	cache := setupTestStore(t).EmbeddingCache()
	ctx := context.Background()

	assert.Error(t, cache.PutMany(ctx, "m", []string{"a"}, nil))
	assert.NoError(t, cache.PutMany(ctx, "m", nil, nil))

	got, err := cache.GetMany(ctx, "m", nil)
	require.NoError(t, err)
	assert.Empty(t, got)
	assert.NoError(t, cache.Close())
}

func TestSummaryStore_CRUD(t *testing.T) {
	summaries := setupTestStore(t).SummaryStore()
	ctx := context.Background()

	_, ok, err := summaries.Get(ctx, "1", "doc1.pdf")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, summaries.Put(ctx, "1", "doc1.pdf", "first"))
	require.NoError(t, summaries.Put(ctx, "1", "doc1.pdf", "second"))

	got, ok, err := summaries.Get(ctx, "1", "doc1.pdf")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "second", got)

	_, ok, err = summaries.Get(ctx, "2", "doc1.pdf")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, summaries.Delete(ctx, "1", "doc1.pdf"))
	_, ok, err = summaries.Get(ctx, "1", "doc1.pdf")
	require.NoError(t, err)
	assert.False(t, ok)
}

package file

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/dealscope/internal/core/domain"
)

func TestSummaryStore_RoundTrip(t *testing.T) {
	root := t.TempDir()
	store := NewSummaryStore(root)
	ctx := context.Background()

	_, ok, err := store.Get(ctx, "42", "pitch.pdf")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, store.Put(ctx, "42", "pitch.pdf", "A seed-stage company."))

	data, err := os.ReadFile(filepath.Join(root, "42", "pitch.pdf_summary.txt"))
	require.NoError(t, err)
	assert.Equal(t, "A seed-stage company.", string(data))

	got, ok, err := store.Get(ctx, "42", "pitch.pdf")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "A seed-stage company.", got)
}

func TestSummaryStore_ReadsExistingFile(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "42/acme.io_about_summary.txt", "pre-existing")

	got, ok, err := NewSummaryStore(root).Get(context.Background(), "42", domain.SummaryKey("https://acme.io/about", true))

	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "pre-existing", got)
}

func TestSummaryStore_Overwrite(t *testing.T) {
	store := NewSummaryStore(t.TempDir())
	ctx := context.Background()
	require.NoError(t, store.Put(ctx, "1", "k", "old"))
	require.NoError(t, store.Put(ctx, "1", "k", "new"))

	got, _, err := store.Get(ctx, "1", "k")

	require.NoError(t, err)
	assert.Equal(t, "new", got)
}

func TestSummaryStore_Delete(t *testing.T) {
	store := NewSummaryStore(t.TempDir())
	ctx := context.Background()
	require.NoError(t, store.Put(ctx, "1", "k", "v"))

	require.NoError(t, store.Delete(ctx, "1", "k"))
	require.NoError(t, store.Delete(ctx, "1", "k"))

	_, ok, err := store.Get(ctx, "1", "k")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestSummaryStore_RejectsUnsafeKeys(t *testing.T) {
	store := NewSummaryStore(t.TempDir())
	ctx := context.Background()

	assert.ErrorIs(t, store.Put(ctx, "1", "../escape", "x"), domain.ErrInvalidInput)
	assert.ErrorIs(t, store.Put(ctx, "..", "k", "x"), domain.ErrInvalidInput)
	_, _, err := store.Get(ctx, "1", "")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

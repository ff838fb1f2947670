package services

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/dealscope/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/dealscope/internal/core/domain"
)

func newAssemblerFixture() (*memory.ChunkStore, *mockSummaryService) {
	chunks := memory.NewChunkStore()
	chunks.PutMetadata(domain.InvestmentMetadata{
		ID:          "1",
		Name:        "Test Investment",
		FolderFiles: []string{"doc1.pdf"},
		Websites:    []string{"https://example.com"},
	})
	chunks.PutDocumentChunks("1", "doc1.pdf", []string{"Chunk 1", "Chunk 2"})
	chunks.PutWebsiteChunks("1", "https://example.com", []string{"Chunk 1", "Chunk 2"})
	return chunks, &mockSummaryService{errors: map[string]error{}}
}

func TestContextAssembler_Assemble_WithChunks(t *testing.T) {
	chunks, summaries := newAssemblerFixture()
	assembler := NewContextAssembler(chunks, summaries)

	got, err := assembler.Assemble(context.Background(), "1", true)
	require.NoError(t, err)

	want := &domain.AssembledContext{
		Metadata: domain.InvestmentMetadata{
			ID:          "1",
			Name:        "Test Investment",
			FolderFiles: []string{"doc1.pdf"},
			Websites:    []string{"https://example.com"},
		},
		Documents: []domain.DocumentContext{
			{File: "doc1.pdf", Summary: "summary of doc1.pdf", Chunks: []string{"Chunk 1", "Chunk 2"}},
		},
		Websites: []domain.WebsiteContext{
			{URL: "https://example.com", Summary: "site summary of https://example.com", Chunks: []string{"Chunk 1", "Chunk 2"}},
		},
		IncludeChunks: true,
	}
	if diff := cmp.Diff(want, got, cmpopts.EquateEmpty()); diff != "" {
		t.Errorf("Assemble() mismatch (-want +got):\n%s", diff)
	}
}

func TestContextAssembler_Assemble_WithoutChunks(t *testing.T) {
	chunks, summaries := newAssemblerFixture()
	assembler := NewContextAssembler(chunks, summaries)

	got, err := assembler.Assemble(context.Background(), "1", false)

	require.NoError(t, err)
	require.Len(t, got.Documents, 1)
	require.Len(t, got.Websites, 1)
	assert.Nil(t, got.Documents[0].Chunks)
	assert.Nil(t, got.Websites[0].Chunks)
	assert.False(t, got.IncludeChunks)
	assert.Equal(t, "summary of doc1.pdf", got.Documents[0].Summary)
}

func TestContextAssembler_Assemble_MetadataVerbatim(t *testing.T) {
	chunks, summaries := newAssemblerFixture()
	raw := json.RawMessage(`{"id":"2","name":"Raw","folder_files":[],"websites":[],"owner":"x"}`)
	chunks.PutMetadata(domain.InvestmentMetadata{ID: "2", Name: "Raw", Raw: raw})
	assembler := NewContextAssembler(chunks, summaries)

	got, err := assembler.Assemble(context.Background(), "2", false)
	require.NoError(t, err)

	out, err := json.Marshal(got.Metadata)
	require.NoError(t, err)
	assert.JSONEq(t, string(raw), string(out))
}

func TestContextAssembler_Assemble_MissingChunksIsSoft(t *testing.T) {
	chunks, summaries := newAssemblerFixture()
	chunks.PutMetadata(domain.InvestmentMetadata{
		ID:          "1",
		FolderFiles: []string{"doc1.pdf", "unprocessed.pdf"},
	})
	assembler := NewContextAssembler(chunks, summaries)

	got, err := assembler.Assemble(context.Background(), "1", true)

	require.NoError(t, err)
	require.Len(t, got.Documents, 2)
	assert.NotNil(t, got.Documents[0].Chunks)
	assert.Nil(t, got.Documents[1].Chunks)
}

func TestContextAssembler_Assemble_NotFound(t *testing.T) {
	chunks, summaries := newAssemblerFixture()
	assembler := NewContextAssembler(chunks, summaries)

	_, err := assembler.Assemble(context.Background(), "missing", false)

	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestContextAssembler_Assemble_InvalidID(t *testing.T) {
	chunks, summaries := newAssemblerFixture()
	assembler := NewContextAssembler(chunks, summaries)

	_, err := assembler.Assemble(context.Background(), "..", false)

	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestContextAssembler_Assemble_SummaryFailurePropagates(t *testing.T) {
	chunks, summaries := newAssemblerFixture()
	summaries.errors["doc1.pdf"] = domain.ErrSummarisation
	assembler := NewContextAssembler(chunks, summaries)

	_, err := assembler.Assemble(context.Background(), "1", false)

	assert.ErrorIs(t, err, domain.ErrSummarisation)
}

func TestContextAssembler_Assemble_ChunkStoreFailurePropagates(t *testing.T) {
	chunks, summaries := newAssemblerFixture()
	store := &failingChunkStore{ChunkStore: chunks, err: errBackend}
	assembler := NewContextAssembler(store, summaries)

	_, err := assembler.Assemble(context.Background(), "1", true)

	assert.ErrorIs(t, err, errBackend)
}

func TestContextAssembler_Overview(t *testing.T) {
	chunks, summaries := newAssemblerFixture()
	assembler := NewContextAssembler(chunks, summaries)

	got, err := assembler.Overview(context.Background(), "1")
	require.NoError(t, err)

	want := "**Investment ID:** 1\n\n" +
		"**Investment Name:** Test Investment\n\n" +
		"**Document Summaries:**\n" +
		overviewSourcesHint + "\n" +
		"- **doc1.pdf:** summary of doc1.pdf\n\n" +
		"- **https://example.com:** site summary of https://example.com\n\n" +
		"\n**Investment Sector:** Unknown"
	assert.Equal(t, want, got)
}

func TestContextAssembler_Overview_IsolatesFailures(t *testing.T) {
	chunks, summaries := newAssemblerFixture()
	chunks.PutMetadata(domain.InvestmentMetadata{
		ID:          "1",
		Name:        "Fund",
		FolderFiles: []string{"broken.pdf", "doc1.pdf"},
	})
	summaries.errors["broken.pdf"] = errBackend
	assembler := NewContextAssembler(chunks, summaries)

	got, err := assembler.Overview(context.Background(), "1")

	require.NoError(t, err)
	assert.True(t, containsAll(got,
		"- **broken.pdf:** Summary unavailable: backend down",
		"- **doc1.pdf:** summary of doc1.pdf",
	))
	assert.Equal(t, []string{"broken.pdf", "doc1.pdf"}, summaries.calls)
}

func TestContextAssembler_Overview_SectorIgnoresPlaceholders(t *testing.T) {
	chunks, summaries := newAssemblerFixture()
	chunks.PutMetadata(domain.InvestmentMetadata{
		ID:          "2",
		Name:        "Fund",
		FolderFiles: []string{"broken.pdf", "empty.pdf"},
	})
	summaries.errors["broken.pdf"] = errBackend
	summaries.fixed = map[string]string{"empty.pdf": domain.NoContentSummary}
	assembler := NewContextAssembler(chunks, summaries)

	got, err := assembler.Overview(context.Background(), "2")

	require.NoError(t, err)
	assert.True(t, containsAll(got,
		"- **broken.pdf:** Summary unavailable: backend down",
		"- **empty.pdf:** "+domain.NoContentSummary,
	))
	assert.Contains(t, got, "**Investment Sector:** Unknown")
}

func TestContextAssembler_Overview_Sector(t *testing.T) {
	chunks, summaries := newAssemblerFixture()
	chunks.PutMetadata(domain.InvestmentMetadata{ID: "7", Name: "Healthcare clinics", FolderFiles: nil})
	assembler := NewContextAssembler(chunks, summaries)

	got, err := assembler.Overview(context.Background(), "7")

	require.NoError(t, err)
	assert.Contains(t, got, "**Investment Sector:** Healthcare")
}

func TestContextAssembler_Overview_NotFound(t *testing.T) {
	chunks, summaries := newAssemblerFixture()
	assembler := NewContextAssembler(chunks, summaries)

	_, err := assembler.Overview(context.Background(), "404")

	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestContextAssembler_DetermineSector(t *testing.T) {
	chunks, summaries := newAssemblerFixture()
	assembler := NewContextAssembler(chunks, summaries)

	assert.Equal(t, domain.SectorResidentialRealEstate,
		assembler.DetermineSector("...residential apartment complex in a real estate fund..."))
	assert.Equal(t, domain.SectorTechnology, assembler.DetermineSector("enterprise saas platform"))
	assert.Equal(t, domain.SectorUnknown, assembler.DetermineSector("generic fund with no sector keywords"))

	assembler.SetSectorRules(domain.SectorRules{{Keywords: []string{"fund"}, Sector: "Fund"}})
	assert.Equal(t, domain.Sector("Fund"), assembler.DetermineSector("generic fund"))
}

func TestContextAssembler_Metadata(t *testing.T) {
	chunks, summaries := newAssemblerFixture()
	assembler := NewContextAssembler(chunks, summaries)

	meta, err := assembler.Metadata(context.Background(), "1")
	require.NoError(t, err)
	assert.Equal(t, "Test Investment", meta.Name)
	assert.Empty(t, summaries.calls)

	_, err = assembler.Metadata(context.Background(), "missing")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

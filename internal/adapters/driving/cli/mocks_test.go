package cli

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/dealscope/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/dealscope/internal/core/domain"
	"github.com/custodia-labs/dealscope/internal/core/ports/driving"
	"github.com/custodia-labs/dealscope/internal/logger"
)

// mockAssembler implements driving.ContextAssembler over a fixed investment.
type mockAssembler struct {
	meta     domain.InvestmentMetadata
	chunks   map[string][]string
	overview string
	err      error
}

func (m *mockAssembler) Assemble(_ context.Context, id string, includeChunks bool) (*domain.AssembledContext, error) {
	if m.err != nil {
		return nil, m.err
	}
	if id != m.meta.ID {
		return nil, fmt.Errorf("load metadata for %s: %w", id, domain.ErrNotFound)
	}
	c := &domain.AssembledContext{Metadata: m.meta, IncludeChunks: includeChunks}
	for _, f := range m.meta.FolderFiles {
		d := domain.DocumentContext{File: f, Summary: "summary of " + f}
		if includeChunks {
			d.Chunks = m.chunks[f]
		}
		c.Documents = append(c.Documents, d)
	}
	for _, u := range m.meta.Websites {
		w := domain.WebsiteContext{URL: u, Summary: "summary of " + u}
		if includeChunks {
			w.Chunks = m.chunks[u]
		}
		c.Websites = append(c.Websites, w)
	}
	return c, nil
}

func (m *mockAssembler) Metadata(_ context.Context, id string) (*domain.InvestmentMetadata, error) {
	if m.err != nil {
		return nil, m.err
	}
	if id != m.meta.ID {
		return nil, fmt.Errorf("load metadata for %s: %w", id, domain.ErrNotFound)
	}
	meta := m.meta
	return &meta, nil
}

func (m *mockAssembler) Overview(_ context.Context, _ string) (string, error) {
	return m.overview, m.err
}

func (m *mockAssembler) DetermineSector(text string) domain.Sector {
	return domain.DetermineSector(text)
}

// mockRetrieval implements driving.RetrievalService, returning one result per chunk.
type mockRetrieval struct {
	err error

	lastQuery    string
	lastDocument string
	lastTopK     int
}

func (m *mockRetrieval) SemanticSearch(
	_ context.Context, assembled *domain.AssembledContext, query string, topK int,
) ([]domain.SearchResult, error) {
	m.lastQuery, m.lastTopK = query, topK
	if m.err != nil {
		return nil, m.err
	}
	var results []domain.SearchResult
	for _, src := range assembled.Sources() {
		for i, chunk := range src.Chunks {
			results = append(results, domain.SearchResult{
				Source:     src.Name,
				Score:      0.5,
				Chunk:      chunk,
				ChunkIndex: i,
				IsWebsite:  src.IsWebsite,
			})
		}
	}
	if topK > 0 && len(results) > topK {
		results = results[:topK]
	}
	return results, nil
}

func (m *mockRetrieval) SearchSpecificDocument(
	ctx context.Context, assembled *domain.AssembledContext, documentName, query string, topK int,
) ([]domain.SearchResult, error) {
	m.lastDocument = documentName
	results, err := m.SemanticSearch(ctx, assembled, query, topK)
	if err != nil {
		return nil, err
	}
	var scoped []domain.SearchResult
	for _, r := range results {
		if strings.HasPrefix(r.Source, strings.TrimSuffix(documentName, ".pdf")) {
			scoped = append(scoped, r)
		}
	}
	return scoped, nil
}

// mockSummaries implements driving.SummaryService.
type mockSummaries struct {
	invalidated []string
	err         error
}

func (m *mockSummaries) GetOrCreateSummary(_ context.Context, _, name string, isWebsite bool) (string, error) {
	if m.err != nil {
		return "", m.err
	}
	if isWebsite {
		return "website summary of " + name, nil
	}
	return "document summary of " + name, nil
}

func (m *mockSummaries) Invalidate(_ context.Context, _, name string, _ bool) error {
	m.invalidated = append(m.invalidated, name)
	return nil
}

// mockSettingsService implements driving.SettingsService in memory.
type mockSettingsService struct {
	settings     domain.AppSettings
	embeddingErr error
	llmErr       error
}

var _ driving.SettingsService = (*mockSettingsService)(nil)

func (m *mockSettingsService) Get() (*domain.AppSettings, error) {
	s := m.settings
	return &s, nil
}

func (m *mockSettingsService) Save(settings *domain.AppSettings) error {
	m.settings = *settings
	return nil
}

func (m *mockSettingsService) SetDataDir(dir string) error {
	m.settings.DataDir = dir
	return nil
}

func (m *mockSettingsService) SetEmbeddingProvider(provider domain.AIProvider, model, apiKey string) error {
	m.settings.Embedding = domain.EmbeddingSettings{Provider: provider, Model: model, APIKey: apiKey}
	return nil
}

func (m *mockSettingsService) SetLLMProvider(provider domain.AIProvider, model, apiKey string) error {
	m.settings.LLM = domain.LLMSettings{Provider: provider, Model: model, APIKey: apiKey}
	return nil
}

func (m *mockSettingsService) Validate() error {
	return m.settings.Validate()
}

func (m *mockSettingsService) GetDefaults() domain.AppSettings {
	return domain.DefaultAppSettings()
}

func (m *mockSettingsService) ValidateEmbeddingConfig() error {
	return m.embeddingErr
}

func (m *mockSettingsService) ValidateLLMConfig() error {
	return m.llmErr
}

// testServices holds the mocks installed by setupTestServices.
type testServices struct {
	settings  *mockSettingsService
	assembler *mockAssembler
	retrieval *mockRetrieval
	summaries *mockSummaries
}

// setupTestServices replaces bootstrap with one that installs mocks over a
// two-document, one-website investment "acme". Call the returned function to restore.
func setupTestServices() (*testServices, func()) {
	settings := domain.DefaultAppSettings()
	settings.Embedding = domain.EmbeddingSettings{Provider: domain.AIProviderOllama, Model: "nomic-embed-text"}

	ts := &testServices{
		settings: &mockSettingsService{settings: settings},
		assembler: &mockAssembler{
			meta: domain.InvestmentMetadata{
				ID:          "acme",
				Name:        "Acme Robotics",
				FolderFiles: []string{"deck.pdf", "financials.pdf"},
				Websites:    []string{"https://acme.example"},
			},
			chunks: map[string][]string{
				"deck.pdf":             {"Acme builds warehouse robots.", "Team of 12 engineers."},
				"financials.pdf":       {"Revenue grew 40% year over year."},
				"https://acme.example": {"Robots for every warehouse."},
			},
			overview: "**Investment Name:** Acme Robotics",
		},
		retrieval: &mockRetrieval{},
		summaries: &mockSummaries{},
	}

	savedBootstrap := bootstrap

	bootstrap = func(_ *cobra.Command, _ string) (func(), error) {
		s := ts.settings.settings
		appSettings = &s
		settingsService = ts.settings
		assembler = ts.assembler
		retrievalService = ts.retrieval
		summaryService = ts.summaries
		chunkStore = memory.NewChunkStore()
		return nil, nil
	}
	resetFlags()

	return ts, func() {
		bootstrap = savedBootstrap
		appSettings, settingsService, assembler, retrievalService, summaryService, chunkStore = nil, nil, nil, nil, nil, nil
		resetFlags()
		rootCmd.SetArgs(nil)
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
		logger.SetVerbose(false)
		logger.SetOutput(os.Stderr)
	}
}

// resetFlags restores command flag variables, which persist across Execute calls.
func resetFlags() {
	verbose, configDir, dataDir, envFile = false, "", "", ""
	assembleChunks, assembleFormat = false, formatJSON
	searchLimit, searchJSON = domain.DefaultTopK, false
	summaryRefresh = false
	providerFlag, modelFlag, apiKeyFlag, skipCheck = "", "", "", false
}

// execute runs the root command with args and returns its combined output.
func execute(args ...string) (string, error) {
	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return buf.String(), err
}

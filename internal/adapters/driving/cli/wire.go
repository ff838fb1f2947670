package cli

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/dealscope/internal/adapters/driven/ai"
	configfile "github.com/custodia-labs/dealscope/internal/adapters/driven/config/file"
	storagefile "github.com/custodia-labs/dealscope/internal/adapters/driven/storage/file"
	"github.com/custodia-labs/dealscope/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/dealscope/internal/adapters/driven/storage/sqlite"
	"github.com/custodia-labs/dealscope/internal/core/domain"
	"github.com/custodia-labs/dealscope/internal/core/ports/driven"
	"github.com/custodia-labs/dealscope/internal/core/services"
	"github.com/custodia-labs/dealscope/internal/logger"
)

// wireServices loads configuration and, unless level is bootstrapSettings,
// builds the stores, AI adapters and core services.
func wireServices(cmd *cobra.Command, level string) (func(), error) {
	dir := configDir
	if dir == "" {
		d, err := configfile.DefaultConfigDir()
		if err != nil {
			return nil, fmt.Errorf("resolve config dir: %w", err)
		}
		dir = d
	}

	store, err := configfile.NewConfigStore(dir)
	if err != nil {
		return nil, fmt.Errorf("open config: %w", err)
	}
	lookup, err := configfile.LoadEnvFile(envFile)
	if err != nil {
		return nil, err
	}

	settingsSvc := services.NewSettingsService(store, ai.NewConfigValidator())
	settingsSvc.SetEnvLookup(lookup)
	settingsService = settingsSvc

	settings, err := settingsSvc.Get()
	if err != nil {
		return nil, fmt.Errorf("load settings: %w", err)
	}
	if dataDir != "" {
		settings.DataDir = dataDir
	}
	appSettings = settings
	logger.Debug("config: %s, data dir: %s", store.Path(), settings.DataDir)

	// Settings commands must still run against an invalid config to repair it.
	if level == bootstrapSettings {
		return nil, nil
	}
	if err := settings.Validate(); err != nil {
		return nil, err
	}

	var closers []func()
	closeAll := func() {
		for i := len(closers) - 1; i >= 0; i-- {
			closers[i]()
		}
	}

	chunks := storagefile.NewChunkStore(settings.DataDir)
	chunkStore = chunks

	var db *sqlite.Store
	if settings.Cache.Enabled || settings.Summary.Store == domain.SummaryStoreSQLite {
		path := settings.Cache.Path
		if path == "" {
			path = sqlite.DefaultPath(settings.DataDir)
		}
		db, err = sqlite.NewStore(path)
		if err != nil {
			return nil, fmt.Errorf("open cache: %w", err)
		}
		closers = append(closers, func() {
			if err := db.Close(); err != nil {
				logger.Warn("close cache: %v", err)
			}
		})
	}

	var summaryStore driven.SummaryStore
	switch settings.Summary.Store {
	case domain.SummaryStoreSQLite:
		summaryStore = db.SummaryStore()
	case domain.SummaryStoreMemory:
		summaryStore = memory.NewSummaryStore()
	default:
		summaryStore = storagefile.NewSummaryStore(settings.DataDir)
	}

	var embeddingCache driven.EmbeddingCache
	if settings.Cache.Enabled {
		embeddingCache = db.EmbeddingCache()
	}

	prompts, err := configfile.NewPromptStore(filepath.Join(dir, "prompts"))
	if err != nil {
		closeAll()
		return nil, err
	}

	aiServices := ai.Init(commandContext(cmd), settings, prompts)
	closers = append(closers, aiServices.Close)

	summaries := services.NewSummaryService(chunks, summaryStore, aiServices.LLMService, services.SummaryConfig{
		ChunkMaxLength:    settings.Summary.ChunkMaxLength,
		FinalMaxLength:    settings.Summary.FinalMaxLength,
		RequestsPerSecond: settings.Summary.RequestsPerSecond,
	})
	summaryService = summaries
	assembler = services.NewContextAssembler(chunks, summaries)
	retrievalService = services.NewRetrievalService(aiServices.EmbeddingService, embeddingCache, services.RetrievalConfig{
		DefaultTopK: settings.Search.DefaultTopK,
		Concurrency: settings.Search.Concurrency,

		PrecomputedModel: settings.Embedding.PrecomputedModel,
	})

	return closeAll, nil
}

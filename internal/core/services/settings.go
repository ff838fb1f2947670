package services

import (
	"fmt"
	"os"

	"github.com/custodia-labs/dealscope/internal/core/domain"
	"github.com/custodia-labs/dealscope/internal/core/ports/driven"
	"github.com/custodia-labs/dealscope/internal/core/ports/driving"
)

// Ensure SettingsService implements the interface.
var _ driving.SettingsService = (*SettingsService)(nil)

// Config keys for settings storage.
//
//nolint:gosec // G101: These are config key names, not actual credentials.
const (
	keyDataDir          = "data_dir"
	keyEmbedProvider    = "embedding.provider"
	keyEmbedModel       = "embedding.model"
	keyEmbedBaseURL     = "embedding.base_url"
	keyEmbedAPIKey      = "embedding.api_key"
	keyEmbedAPIKeyEnv   = "embedding.api_key_env"
	keyEmbedPrecomputed = "embedding.precomputed_model"
	keyLLMProvider      = "llm.provider"
	keyLLMModel         = "llm.model"
	keyLLMBaseURL       = "llm.base_url"
	keyLLMAPIKey        = "llm.api_key"
	keyLLMAPIKeyEnv     = "llm.api_key_env"
	keySummaryStore     = "summary.store"
	keySummaryChunkMax  = "summary.chunk_max_length"
	keySummaryFinalMax  = "summary.final_max_length"
	keySummaryRate      = "summary.requests_per_second"
	keySearchTopK       = "search.default_top_k"
	keySearchConcurrent = "search.concurrency"
	keyCacheEnabled     = "cache.enabled"
	keyCachePath        = "cache.path"
)

// EnvLookup resolves an environment variable. It matches os.LookupEnv.
type EnvLookup func(key string) (string, bool)

// SettingsService manages application settings.
type SettingsService struct {
	configStore driven.ConfigStore
	aiValidator driven.AIConfigValidator
	lookupEnv   EnvLookup
}

// NewSettingsService creates a new settings service.
// API keys not stored in the config are resolved from the process environment.
func NewSettingsService(configStore driven.ConfigStore, aiValidator driven.AIConfigValidator) *SettingsService {
	return &SettingsService{
		configStore: configStore,
		aiValidator: aiValidator,
		lookupEnv:   os.LookupEnv,
	}
}

// SetEnvLookup replaces the environment used to resolve API keys.
func (s *SettingsService) SetEnvLookup(lookup EnvLookup) {
	if lookup == nil {
		lookup = os.LookupEnv
	}
	s.lookupEnv = lookup
}

// Get retrieves current application settings.
// API keys are taken from the config, then from the named environment variable.
func (s *SettingsService) Get() (*domain.AppSettings, error) {
	defaults := domain.DefaultAppSettings()

	settings := &domain.AppSettings{
		DataDir: s.getString(keyDataDir, defaults.DataDir),
		Embedding: domain.EmbeddingSettings{
			Provider:  s.getProvider(keyEmbedProvider, defaults.Embedding.Provider),
			Model:     s.getString(keyEmbedModel, defaults.Embedding.Model),
			BaseURL:   s.configStore.GetString(keyEmbedBaseURL), // No default - empty is valid for cloud providers
			APIKey:    s.configStore.GetString(keyEmbedAPIKey),
			APIKeyEnv: s.configStore.GetString(keyEmbedAPIKeyEnv),

			PrecomputedModel: s.configStore.GetString(keyEmbedPrecomputed),
		},
		LLM: domain.LLMSettings{
			Provider:  s.getProvider(keyLLMProvider, defaults.LLM.Provider),
			Model:     s.getString(keyLLMModel, defaults.LLM.Model),
			BaseURL:   s.configStore.GetString(keyLLMBaseURL), // No default - empty is valid for cloud providers
			APIKey:    s.configStore.GetString(keyLLMAPIKey),
			APIKeyEnv: s.configStore.GetString(keyLLMAPIKeyEnv),
		},
		Summary: domain.SummarySettings{
			Store:             domain.SummaryStoreKind(s.getString(keySummaryStore, string(defaults.Summary.Store))),
			ChunkMaxLength:    s.getInt(keySummaryChunkMax, defaults.Summary.ChunkMaxLength),
			FinalMaxLength:    s.getInt(keySummaryFinalMax, defaults.Summary.FinalMaxLength),
			RequestsPerSecond: s.getFloat(keySummaryRate, defaults.Summary.RequestsPerSecond),
		},
		Search: domain.SearchSettings{
			DefaultTopK: s.getInt(keySearchTopK, defaults.Search.DefaultTopK),
			Concurrency: s.getInt(keySearchConcurrent, defaults.Search.Concurrency),
		},
		Cache: domain.CacheSettings{
			Enabled: s.getBool(keyCacheEnabled, defaults.Cache.Enabled),
			Path:    s.configStore.GetString(keyCachePath),
		},
	}

	if settings.Embedding.APIKey == "" {
		settings.Embedding.APIKey = s.resolveAPIKey(settings.Embedding.Provider, settings.Embedding.APIKeyEnv)
	}
	if settings.LLM.APIKey == "" {
		settings.LLM.APIKey = s.resolveAPIKey(settings.LLM.Provider, settings.LLM.APIKeyEnv)
	}

	return settings, nil
}

// resolveAPIKey reads the named variable, or the provider's conventional one.
func (s *SettingsService) resolveAPIKey(provider domain.AIProvider, envName string) string {
	if !provider.RequiresAPIKey() {
		return ""
	}
	if envName == "" {
		envName = domain.DefaultAPIKeyEnv()[provider]
	}
	if envName == "" {
		return ""
	}
	val, _ := s.lookupEnv(envName)
	return val
}

// Save persists application settings.
// API keys resolved from the environment are not written back.
func (s *SettingsService) Save(settings *domain.AppSettings) error {
	values := []struct {
		key   string
		value any
	}{
		{keyDataDir, settings.DataDir},
		{keyEmbedProvider, settings.Embedding.Provider.String()},
		{keyEmbedModel, settings.Embedding.Model},
		{keyEmbedBaseURL, settings.Embedding.BaseURL},
		{keyEmbedAPIKeyEnv, settings.Embedding.APIKeyEnv},
		{keyEmbedPrecomputed, settings.Embedding.PrecomputedModel},
		{keyLLMProvider, settings.LLM.Provider.String()},
		{keyLLMModel, settings.LLM.Model},
		{keyLLMBaseURL, settings.LLM.BaseURL},
		{keyLLMAPIKeyEnv, settings.LLM.APIKeyEnv},
		{keySummaryStore, string(settings.Summary.Store)},
		{keySummaryChunkMax, settings.Summary.ChunkMaxLength},
		{keySummaryFinalMax, settings.Summary.FinalMaxLength},
		{keySummaryRate, settings.Summary.RequestsPerSecond},
		{keySearchTopK, settings.Search.DefaultTopK},
		{keySearchConcurrent, settings.Search.Concurrency},
		{keyCacheEnabled, settings.Cache.Enabled},
		{keyCachePath, settings.Cache.Path},
	}
	for _, v := range values {
		if err := s.configStore.Set(v.key, v.value); err != nil {
			return fmt.Errorf("save %s: %w", v.key, err)
		}
	}

	if settings.Embedding.APIKey != "" && !s.fromEnv(settings.Embedding.Provider, settings.Embedding.APIKeyEnv, settings.Embedding.APIKey) {
		if err := s.configStore.Set(keyEmbedAPIKey, settings.Embedding.APIKey); err != nil {
			return fmt.Errorf("save embedding api_key: %w", err)
		}
	}
	if settings.LLM.APIKey != "" && !s.fromEnv(settings.LLM.Provider, settings.LLM.APIKeyEnv, settings.LLM.APIKey) {
		if err := s.configStore.Set(keyLLMAPIKey, settings.LLM.APIKey); err != nil {
			return fmt.Errorf("save llm api_key: %w", err)
		}
	}

	return nil
}

func (s *SettingsService) fromEnv(provider domain.AIProvider, envName, key string) bool {
	return s.resolveAPIKey(provider, envName) == key
}

// SetDataDir updates the preprocessed-data root.
func (s *SettingsService) SetDataDir(dir string) error {
	if dir == "" {
		return fmt.Errorf("%w: data directory is required", domain.ErrInvalidInput)
	}
	return s.configStore.Set(keyDataDir, dir)
}

// SetEmbeddingProvider configures the embedding provider.
func (s *SettingsService) SetEmbeddingProvider(provider domain.AIProvider, model, apiKey string) error {
	if !provider.IsValid() {
		return fmt.Errorf("invalid embedding provider: %s", provider)
	}
	if !provider.SupportsEmbeddings() {
		return fmt.Errorf("provider %s does not support embeddings", provider)
	}

	settings, err := s.Get()
	if err != nil {
		return err
	}

	if apiKey == "" {
		apiKey = s.resolveAPIKey(provider, settings.Embedding.APIKeyEnv)
	}
	if provider.RequiresAPIKey() && apiKey == "" {
		return fmt.Errorf("API key required for %s", provider)
	}

	settings.Embedding.Provider = provider

	// Set model - use provided or default
	if model != "" {
		settings.Embedding.Model = model
	} else if defaultModel, ok := domain.DefaultEmbeddingModels()[provider]; ok {
		settings.Embedding.Model = defaultModel
	}

	if provider.IsLocal() {
		if settings.Embedding.BaseURL == "" {
			settings.Embedding.BaseURL = "http://localhost:11434"
		}
	} else {
		settings.Embedding.BaseURL = ""
	}

	settings.Embedding.APIKey = apiKey

	return s.Save(settings)
}

// SetLLMProvider configures the LLM provider.
func (s *SettingsService) SetLLMProvider(provider domain.AIProvider, model, apiKey string) error {
	if !provider.IsValid() {
		return fmt.Errorf("invalid LLM provider: %s", provider)
	}

	settings, err := s.Get()
	if err != nil {
		return err
	}

	if apiKey == "" {
		apiKey = s.resolveAPIKey(provider, settings.LLM.APIKeyEnv)
	}
	if provider.RequiresAPIKey() && apiKey == "" {
		return fmt.Errorf("API key required for %s", provider)
	}

	settings.LLM.Provider = provider

	if model != "" {
		settings.LLM.Model = model
	} else if defaultModel, ok := domain.DefaultLLMModels()[provider]; ok {
		settings.LLM.Model = defaultModel
	}

	if provider.IsLocal() {
		if settings.LLM.BaseURL == "" {
			settings.LLM.BaseURL = "http://localhost:11434"
		}
	} else {
		settings.LLM.BaseURL = ""
	}

	settings.LLM.APIKey = apiKey

	return s.Save(settings)
}

// Validate checks that the stored settings are usable.
func (s *SettingsService) Validate() error {
	settings, err := s.Get()
	if err != nil {
		return err
	}
	return settings.Validate()
}

// GetDefaults returns default settings.
func (s *SettingsService) GetDefaults() domain.AppSettings {
	return domain.DefaultAppSettings()
}

// ValidateEmbeddingConfig validates the current embedding configuration by pinging the provider.
func (s *SettingsService) ValidateEmbeddingConfig() error {
	if s.aiValidator == nil {
		return nil
	}
	settings, err := s.Get()
	if err != nil {
		return err
	}
	return s.aiValidator.ValidateEmbedding(&settings.Embedding)
}

// ValidateLLMConfig validates the current LLM configuration by pinging the provider.
func (s *SettingsService) ValidateLLMConfig() error {
	if s.aiValidator == nil {
		return nil
	}
	settings, err := s.Get()
	if err != nil {
		return err
	}
	return s.aiValidator.ValidateLLM(&settings.LLM)
}

// Helper methods for reading config with defaults.

func (s *SettingsService) getString(key, defaultVal string) string {
	val := s.configStore.GetString(key)
	if val == "" {
		return defaultVal
	}
	return val
}

func (s *SettingsService) getInt(key string, defaultVal int) int {
	val := s.configStore.GetInt(key)
	if val == 0 {
		return defaultVal
	}
	return val
}

func (s *SettingsService) getFloat(key string, defaultVal float64) float64 {
	val, exists := s.configStore.Get(key)
	if !exists {
		return defaultVal
	}
	switch v := val.(type) {
	case float64:
		return v
	case float32:
		return float64(v)
	case int64:
		return float64(v)
	case int:
		return float64(v)
	default:
		return defaultVal
	}
}

func (s *SettingsService) getBool(key string, defaultVal bool) bool {
	if _, exists := s.configStore.Get(key); !exists {
		return defaultVal
	}
	return s.configStore.GetBool(key)
}

func (s *SettingsService) getProvider(key string, defaultVal domain.AIProvider) domain.AIProvider {
	val := s.configStore.GetString(key)
	if val == "" {
		return defaultVal
	}
	provider := domain.AIProvider(val)
	if !provider.IsValid() {
		return defaultVal
	}
	return provider
}

package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/dealscope/internal/core/domain"
)

var settingsAnnotations = map[string]string{bootstrapAnnotation: bootstrapSettings}

var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Manage application settings",
	Long: `View and configure the data directory, AI providers and summary options.

Settings are stored in ~/.dealscope/config.toml. API keys may instead be
supplied through the environment or an --env-file.`,
	Annotations: settingsAnnotations,
	RunE:        runSettingsShow,
}

var settingsShowCmd = &cobra.Command{
	Use:         "show",
	Short:       "Show current settings",
	Annotations: settingsAnnotations,
	RunE:        runSettingsShow,
}

var settingsCheckCmd = &cobra.Command{
	Use:   "check",
	Short: "Validate settings and ping the configured providers",
	Long: `Validates the stored settings, then checks that the embedding and LLM
providers are reachable with the configured model and credentials.`,
	Annotations: settingsAnnotations,
	RunE:        runSettingsCheck,
}

var settingsDataDirCmd = &cobra.Command{
	Use:         "data-dir <path>",
	Short:       "Set the preprocessed data root",
	Args:        cobra.ExactArgs(1),
	Annotations: settingsAnnotations,
	RunE:        runSettingsDataDir,
}

var settingsEmbeddingCmd = &cobra.Command{
	Use:   "embedding",
	Short: "Configure embedding provider",
	Long: `Configure the embedding provider used for semantic search.

Examples:
  dealscope settings embedding --provider ollama --model nomic-embed-text
  dealscope settings embedding --provider openai --api-key sk-...`,
	Annotations: settingsAnnotations,
	RunE:        runSettingsEmbedding,
}

var settingsLLMCmd = &cobra.Command{
	Use:   "llm",
	Short: "Configure LLM provider",
	Long: `Configure the LLM provider used to generate summaries.

Examples:
  dealscope settings llm --provider ollama --model llama3.2
  dealscope settings llm --provider gemini`,
	Annotations: settingsAnnotations,
	RunE:        runSettingsLLM,
}

var (
	providerFlag string
	modelFlag    string
	apiKeyFlag   string
	skipCheck    bool
)

func init() {
	for _, c := range []*cobra.Command{settingsEmbeddingCmd, settingsLLMCmd} {
		c.Flags().StringVar(&providerFlag, "provider", "", "provider name")
		c.Flags().StringVar(&modelFlag, "model", "", "model name (default depends on provider)")
		c.Flags().StringVar(&apiKeyFlag, "api-key", "", "API key (default from the provider's environment variable)")
		c.Flags().BoolVar(&skipCheck, "no-check", false, "save without pinging the provider")
		_ = c.MarkFlagRequired("provider")
	}

	settingsCmd.AddCommand(settingsShowCmd)
	settingsCmd.AddCommand(settingsCheckCmd)
	settingsCmd.AddCommand(settingsDataDirCmd)
	settingsCmd.AddCommand(settingsEmbeddingCmd)
	settingsCmd.AddCommand(settingsLLMCmd)
	rootCmd.AddCommand(settingsCmd)
}

func runSettingsShow(cmd *cobra.Command, _ []string) error {
	if settingsService == nil || appSettings == nil {
		return errors.New("settings service not configured")
	}
	settings := appSettings

	cmd.Println("Current Settings")
	cmd.Println("================")
	cmd.Println()

	cmd.Println("[Data]")
	cmd.Printf("  Directory: %s\n", settings.DataDir)
	cmd.Println()

	cmd.Println("[Embedding]")
	printProvider(cmd, settings.Embedding.Provider, settings.Embedding.Model,
		settings.Embedding.BaseURL, settings.Embedding.APIKey, settings.Embedding.IsConfigured())
	if settings.Embedding.PrecomputedModel != "" {
		cmd.Printf("  Precomputed model: %s\n", settings.Embedding.PrecomputedModel)
	}
	cmd.Println()

	cmd.Println("[LLM]")
	printProvider(cmd, settings.LLM.Provider, settings.LLM.Model,
		settings.LLM.BaseURL, settings.LLM.APIKey, settings.LLM.IsConfigured())
	cmd.Println()

	cmd.Println("[Summary]")
	cmd.Printf("  Store: %s\n", settings.Summary.Store)
	cmd.Printf("  Chunk max length: %d\n", settings.Summary.ChunkMaxLength)
	cmd.Printf("  Final max length: %d\n", settings.Summary.FinalMaxLength)
	if settings.Summary.RequestsPerSecond > 0 {
		cmd.Printf("  Requests per second: %g\n", settings.Summary.RequestsPerSecond)
	} else {
		cmd.Println("  Requests per second: unlimited")
	}
	cmd.Println()

	cmd.Println("[Search]")
	cmd.Printf("  Default top_k: %d\n", settings.Search.DefaultTopK)
	cmd.Printf("  Concurrency: %d\n", settings.Search.Concurrency)
	cmd.Println()

	cmd.Println("[Cache]")
	if settings.Cache.Enabled {
		cmd.Println("  Enabled: yes")
		if settings.Cache.Path != "" {
			cmd.Printf("  Path: %s\n", settings.Cache.Path)
		}
	} else {
		cmd.Println("  Enabled: no")
	}
	cmd.Println()

	if err := settings.Validate(); err != nil {
		cmd.Printf("Warning: %v\n", err)
		cmd.Println("Run 'dealscope settings check' for details.")
	} else {
		cmd.Println("Configuration is valid.")
	}
	return nil
}

func printProvider(cmd *cobra.Command, provider domain.AIProvider, model, baseURL, apiKey string, configured bool) {
	if provider == "" {
		cmd.Println("  Provider: (not set)")
	} else {
		cmd.Printf("  Provider: %s\n", provider.Description())
		cmd.Printf("  Model: %s\n", model)
	}
	if provider.IsLocal() || baseURL != "" {
		cmd.Printf("  Base URL: %s\n", baseURL)
	}
	if provider.RequiresAPIKey() {
		if apiKey != "" {
			cmd.Printf("  API Key: %s\n", maskAPIKey(apiKey))
		} else {
			cmd.Println("  API Key: (not set)")
		}
	}
	status := "configured"
	if !configured {
		status = "not configured"
	}
	cmd.Printf("  Status: %s\n", status)
}

func runSettingsCheck(cmd *cobra.Command, _ []string) error {
	if settingsService == nil || appSettings == nil {
		return errors.New("settings service not configured")
	}

	var failed bool
	report := func(name string, err error) {
		if err != nil {
			failed = true
			cmd.Printf("  %-10s FAILED: %v\n", name, err)
			return
		}
		cmd.Printf("  %-10s OK\n", name)
	}

	cmd.Println("Checking configuration...")
	report("settings", appSettings.Validate())

	if appSettings.Embedding.Provider == "" {
		cmd.Printf("  %-10s skipped (not set)\n", "embedding")
	} else {
		report("embedding", settingsService.ValidateEmbeddingConfig())
	}
	if appSettings.LLM.Provider == "" {
		cmd.Printf("  %-10s skipped (not set)\n", "llm")
	} else {
		report("llm", settingsService.ValidateLLMConfig())
	}

	if failed {
		return fmt.Errorf("%w: one or more checks failed", domain.ErrConfigInvalid)
	}
	cmd.Println("All checks passed.")
	return nil
}

func runSettingsDataDir(cmd *cobra.Command, args []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}
	if err := settingsService.SetDataDir(args[0]); err != nil {
		return fmt.Errorf("failed to set data directory: %w", err)
	}
	cmd.Printf("Data directory set to: %s\n", args[0])
	return nil
}

func runSettingsEmbedding(cmd *cobra.Command, _ []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}

	provider := domain.AIProvider(providerFlag)
	if !provider.SupportsEmbeddings() {
		return fmt.Errorf("%w: %q does not provide embeddings", domain.ErrInvalidInput, providerFlag)
	}
	model := modelFlag
	if model == "" {
		model = domain.DefaultEmbeddingModels()[provider]
	}

	if err := settingsService.SetEmbeddingProvider(provider, model, apiKeyFlag); err != nil {
		return fmt.Errorf("failed to configure embedding provider: %w", err)
	}

	if !skipCheck {
		cmd.Print("Validating configuration... ")
		if err := settingsService.ValidateEmbeddingConfig(); err != nil {
			cmd.Printf("FAILED: %v\n", err)
			return fmt.Errorf("embedding configuration validation failed: %w", err)
		}
		cmd.Println("OK")
	}

	cmd.Printf("Embedding provider configured: %s (%s)\n", provider.Description(), model)
	return nil
}

func runSettingsLLM(cmd *cobra.Command, _ []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}

	provider := domain.AIProvider(providerFlag)
	if !provider.IsValid() {
		return fmt.Errorf("%w: unknown provider %q", domain.ErrInvalidInput, providerFlag)
	}
	model := modelFlag
	if model == "" {
		model = domain.DefaultLLMModels()[provider]
	}

	if err := settingsService.SetLLMProvider(provider, model, apiKeyFlag); err != nil {
		return fmt.Errorf("failed to configure LLM provider: %w", err)
	}

	if !skipCheck {
		cmd.Print("Validating configuration... ")
		if err := settingsService.ValidateLLMConfig(); err != nil {
			cmd.Printf("FAILED: %v\n", err)
			return fmt.Errorf("LLM configuration validation failed: %w", err)
		}
		cmd.Println("OK")
	}

	cmd.Printf("LLM provider configured: %s (%s)\n", provider.Description(), model)
	return nil
}

func maskAPIKey(key string) string {
	if len(key) <= 8 {
		return "****"
	}
	return key[:4] + "..." + key[len(key)-4:]
}

// Package cli provides the dealscope command-line interface.
package cli

import (
	"context"
	"errors"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/dealscope/internal/core/domain"
	"github.com/custodia-labs/dealscope/internal/core/ports/driven"
	"github.com/custodia-labs/dealscope/internal/core/ports/driving"
	"github.com/custodia-labs/dealscope/internal/logger"
)

// version is set at build time via ldflags.
var version = "dev"

// Global flags.
var (
	verbose   bool
	configDir string
	dataDir   string
	envFile   string
)

// Services shared by commands. They are populated by bootstrap before a
// command runs and replaced with mocks in tests.
var (
	appSettings      *domain.AppSettings
	settingsService  driving.SettingsService
	assembler        driving.ContextAssembler
	retrievalService driving.RetrievalService
	summaryService   driving.SummaryService
	chunkStore       driven.ChunkStore
)

// bootstrapAnnotation selects how much of the application a command needs.
const bootstrapAnnotation = "bootstrap"

// Bootstrap levels.
const (
	// bootstrapNone runs the command without loading configuration.
	bootstrapNone = "none"

	// bootstrapSettings loads configuration but creates no services.
	bootstrapSettings = "settings"
)

// bootstrap wires the services for cmd and returns a cleanup function.
var bootstrap = wireServices

// cleanup releases whatever bootstrap acquired.
var cleanup = func() {}

var rootCmd = &cobra.Command{
	Use:   "dealscope",
	Short: "Investment document retrieval and summaries",
	Long: `dealscope assembles per-investment context from preprocessed documents
and websites, memoises LLM summaries, and ranks chunks semantically.

Run 'dealscope mcp serve' to expose retrieval tools to an orchestrating agent.`,
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: runBootstrap,
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	flags.StringVar(&configDir, "config", "", "config directory (default ~/.dealscope)")
	flags.StringVar(&dataDir, "data-dir", "", "preprocessed data root (overrides data_dir)")
	flags.StringVar(&envFile, "env-file", "", "dotenv file with API keys")
}

// Execute runs the root command and releases the services it used.
func Execute(ctx context.Context) error {
	defer func() {
		cleanup()
		cleanup = func() {}
	}()
	return rootCmd.ExecuteContext(ctx)
}

// SetVersion sets the version reported by 'dealscope version'.
func SetVersion(v string) {
	if v != "" {
		version = v
	}
}

func runBootstrap(cmd *cobra.Command, _ []string) error {
	logger.SetVerbose(verbose)
	logger.SetOutput(cmd.ErrOrStderr())

	level := cmd.Annotations[bootstrapAnnotation]
	if level == bootstrapNone {
		return nil
	}

	done, err := bootstrap(cmd, level)
	if err != nil {
		return err
	}
	if done != nil {
		cleanup = done
	}
	return nil
}

// requireRuntime fails when the services a command needs were not wired.
func requireRuntime() error {
	if appSettings == nil || assembler == nil {
		return errors.New("services not configured")
	}
	return nil
}

// commandContext returns the command context, or Background when run outside Execute.
func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}

package cli

import (
	"errors"
	"fmt"
	"slices"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/dealscope/internal/core/domain"
)

var summaryRefresh bool

var summaryCmd = &cobra.Command{
	Use:   "summary <investment-id> <file-or-url>",
	Short: "Print the summary of one document or website",
	Long: `Prints the cached summary of a document (by file name) or website (by URL),
generating and caching it on first use. Use --refresh to discard the cached
summary and generate a new one.`,
	Args: cobra.ExactArgs(2),
	RunE: runSummary,
}

func init() {
	summaryCmd.Flags().BoolVar(&summaryRefresh, "refresh", false, "regenerate the summary")
	rootCmd.AddCommand(summaryCmd)
}

func runSummary(cmd *cobra.Command, args []string) error {
	if err := requireRuntime(); err != nil {
		return err
	}
	if summaryService == nil {
		return errors.New("summary service not configured")
	}
	ctx := commandContext(cmd)
	investmentID, name := args[0], args[1]

	meta, err := assembler.Metadata(ctx, investmentID)
	if err != nil {
		return fmt.Errorf("summary failed: %w", err)
	}
	isWebsite := slices.Contains(meta.Websites, name)
	if !isWebsite && !slices.Contains(meta.FolderFiles, name) {
		return fmt.Errorf("%w: %s is not a document or website of %s", domain.ErrNotFound, name, investmentID)
	}

	if summaryRefresh {
		if err := summaryService.Invalidate(ctx, investmentID, name, isWebsite); err != nil {
			return fmt.Errorf("refresh failed: %w", err)
		}
	}

	summary, err := summaryService.GetOrCreateSummary(ctx, investmentID, name, isWebsite)
	if err != nil {
		return fmt.Errorf("summary failed: %w", err)
	}
	cmd.Println(summary)
	return nil
}

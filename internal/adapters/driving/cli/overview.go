package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/dealscope/internal/core/domain"
)

var overviewCmd = &cobra.Command{
	Use:   "overview <investment-id>",
	Short: "Print the investment overview",
	Long: `Prints the investment name, the summary of every document and website,
and the inferred sector. This is the text an orchestrating agent reads
before calling the retrieval tools.`,
	Args: cobra.ExactArgs(1),
	RunE: runOverview,
}

var sectorCmd = &cobra.Command{
	Use:         "sector <text...>",
	Short:       "Classify text into an investment sector",
	Args:        cobra.MinimumNArgs(1),
	Annotations: map[string]string{bootstrapAnnotation: bootstrapNone},
	Run: func(cmd *cobra.Command, args []string) {
		cmd.Println(domain.DetermineSector(joinArgs(args)))
	},
}

func init() {
	rootCmd.AddCommand(overviewCmd)
	rootCmd.AddCommand(sectorCmd)
}

func runOverview(cmd *cobra.Command, args []string) error {
	if err := requireRuntime(); err != nil {
		return err
	}

	overview, err := assembler.Overview(commandContext(cmd), args[0])
	if err != nil {
		return fmt.Errorf("overview failed: %w", err)
	}
	cmd.Println(overview)
	return nil
}

package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/dealscope/internal/core/domain"
)

// snippetLength bounds the chunk text shown per result in table output.
const snippetLength = 200

var (
	searchLimit int
	searchJSON  bool
)

var searchCmd = &cobra.Command{
	Use:   "search <investment-id> <query>",
	Short: "Search all documents of an investment",
	Long: `Ranks every text chunk of every document and website of an investment
by cosine similarity to the query. Requires an embedding provider.`,
	Args: cobra.MinimumNArgs(2),
	RunE: runSearch,
}

var searchDocCmd = &cobra.Command{
	Use:   "search-doc <investment-id> <document-name> <query>",
	Short: "Search a single document or website",
	Long: `Ranks the chunks of one document or website. The document name may omit
the .pdf extension and matches the first file it prefixes; a website must
be given by its exact URL. An unknown name prints no results.`,
	Args: cobra.MinimumNArgs(3),
	RunE: runSearchDoc,
}

func init() {
	for _, c := range []*cobra.Command{searchCmd, searchDocCmd} {
		c.Flags().IntVarP(&searchLimit, "limit", "n", domain.DefaultTopK, "maximum number of results")
		c.Flags().BoolVar(&searchJSON, "json", false, "output results as JSON")
		rootCmd.AddCommand(c)
	}
}

func runSearch(cmd *cobra.Command, args []string) error {
	if err := checkSearchable(); err != nil {
		return err
	}
	ctx := commandContext(cmd)

	assembled, err := assembler.Assemble(ctx, args[0], true)
	if err != nil {
		return fmt.Errorf("search failed: %w", err)
	}
	results, err := retrievalService.SemanticSearch(ctx, assembled, joinArgs(args[1:]), searchLimit)
	if err != nil {
		return fmt.Errorf("search failed: %w", err)
	}
	return outputSearch(cmd, results)
}

func runSearchDoc(cmd *cobra.Command, args []string) error {
	if err := checkSearchable(); err != nil {
		return err
	}
	ctx := commandContext(cmd)

	assembled, err := assembler.Assemble(ctx, args[0], true)
	if err != nil {
		return fmt.Errorf("search failed: %w", err)
	}
	results, err := retrievalService.SearchSpecificDocument(ctx, assembled, args[1], joinArgs(args[2:]), searchLimit)
	if err != nil {
		return fmt.Errorf("search failed: %w", err)
	}
	return outputSearch(cmd, results)
}

func checkSearchable() error {
	if err := requireRuntime(); err != nil {
		return err
	}
	if retrievalService == nil {
		return errors.New("retrieval service not configured")
	}
	if searchLimit < 0 || searchLimit > domain.MaxTopK {
		return fmt.Errorf("%w: --limit must be between 0 and %d", domain.ErrInvalidInput, domain.MaxTopK)
	}
	return appSettings.RequireEmbedding()
}

func outputSearch(cmd *cobra.Command, results []domain.SearchResult) error {
	if searchJSON {
		return outputSearchJSON(cmd, results)
	}
	outputSearchTable(cmd, results)
	return nil
}

func outputSearchJSON(cmd *cobra.Command, results []domain.SearchResult) error {
	if results == nil {
		results = []domain.SearchResult{}
	}
	data, err := json.MarshalIndent(results, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal results: %w", err)
	}
	cmd.Println(string(data))
	return nil
}

func outputSearchTable(cmd *cobra.Command, results []domain.SearchResult) {
	if len(results) == 0 {
		cmd.Println("No results found.")
		return
	}

	cmd.Println("Results:")
	cmd.Println()
	for i := range results {
		cmd.Printf("  [%d] %s #%d (%.3f)\n", i+1, results[i].Source, results[i].ChunkIndex, results[i].Score)
		cmd.Printf("      %s\n", snippet(results[i].Chunk, snippetLength))
		cmd.Println()
	}
}

// snippet flattens whitespace and truncates s to at most n runes.
func snippet(s string, n int) string {
	s = strings.Join(strings.Fields(s), " ")
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n]) + "..."
}

func joinArgs(args []string) string {
	return strings.Join(args, " ")
}

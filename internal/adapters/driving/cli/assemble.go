package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/custodia-labs/dealscope/internal/core/domain"
)

// Output formats for assemble.
const (
	formatJSON = "json"
	formatYAML = "yaml"
)

var (
	assembleChunks bool
	assembleFormat string
)

var assembleCmd = &cobra.Command{
	Use:   "assemble <investment-id>",
	Short: "Print the assembled context of an investment",
	Long: `Loads the investment metadata and the summary of every document and
website. Summaries missing from the cache are generated with the configured LLM.

Use --chunks to include the ordered text and OCR chunks of each entry.`,
	Args: cobra.ExactArgs(1),
	RunE: runAssemble,
}

func init() {
	assembleCmd.Flags().BoolVar(&assembleChunks, "chunks", false, "include full chunk text")
	assembleCmd.Flags().StringVarP(&assembleFormat, "format", "f", formatJSON, "output format (json|yaml)")
	rootCmd.AddCommand(assembleCmd)
}

func runAssemble(cmd *cobra.Command, args []string) error {
	if assembleFormat != formatJSON && assembleFormat != formatYAML {
		return fmt.Errorf("%w: unknown format %q", domain.ErrInvalidInput, assembleFormat)
	}
	if err := requireRuntime(); err != nil {
		return err
	}

	assembled, err := assembler.Assemble(commandContext(cmd), args[0], assembleChunks)
	if err != nil {
		return fmt.Errorf("assemble failed: %w", err)
	}

	view, err := newAssembledView(assembled)
	if err != nil {
		return err
	}

	var data []byte
	if assembleFormat == formatYAML {
		data, err = yaml.Marshal(view)
	} else {
		data, err = json.MarshalIndent(view, "", "  ")
	}
	if err != nil {
		return fmt.Errorf("failed to marshal context: %w", err)
	}
	cmd.Println(string(data))
	return nil
}

// assembledView is the printable form of an AssembledContext. Metadata is
// decoded generically so fields written by preprocessing survive both formats.
type assembledView struct {
	Metadata  map[string]any `json:"metadata" yaml:"metadata"`
	Documents []documentView `json:"documents" yaml:"documents"`
	Websites  []websiteView  `json:"websites" yaml:"websites"`
}

type documentView struct {
	File         string   `json:"file" yaml:"file"`
	Summary      string   `json:"summary" yaml:"summary"`
	Chunks       []string `json:"chunks,omitempty" yaml:"chunks,omitempty"`
	VisualChunks []string `json:"visual_chunks,omitempty" yaml:"visual_chunks,omitempty"`
}

type websiteView struct {
	URL     string   `json:"url" yaml:"url"`
	Summary string   `json:"summary" yaml:"summary"`
	Chunks  []string `json:"chunks,omitempty" yaml:"chunks,omitempty"`
}

func newAssembledView(c *domain.AssembledContext) (*assembledView, error) {
	raw, err := json.Marshal(c.Metadata)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal metadata: %w", err)
	}
	view := &assembledView{
		Documents: make([]documentView, len(c.Documents)),
		Websites:  make([]websiteView, len(c.Websites)),
	}
	if err := json.Unmarshal(raw, &view.Metadata); err != nil {
		return nil, fmt.Errorf("failed to decode metadata: %w", err)
	}

	for i, d := range c.Documents {
		view.Documents[i] = documentView{
			File:         d.File,
			Summary:      d.Summary,
			Chunks:       d.Chunks,
			VisualChunks: d.VisualChunks,
		}
	}
	for i, w := range c.Websites {
		view.Websites[i] = websiteView{URL: w.URL, Summary: w.Summary, Chunks: w.Chunks}
	}
	return view, nil
}

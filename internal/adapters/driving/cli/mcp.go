package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/custodia-labs/dealscope/internal/adapters/driving/mcp"
	"github.com/custodia-labs/dealscope/internal/adapters/driving/watcher"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "MCP server commands",
	Long:  `Commands for the Model Context Protocol (MCP) server integration.`,
}

var mcpServeCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the MCP server",
	Long: `Start the Model Context Protocol server exposing the retrieval tools
search_all_documents, search_specific_document and investment_overview.

By default, the server communicates over stdio using JSON-RPC.
Use --port to serve streamable HTTP instead.
Use --watch to drop cached summaries when preprocessing rewrites chunk files.

Examples:
  # Stdio mode (default)
  dealscope mcp serve

  # HTTP mode (for MCP Inspector, remote access)
  dealscope mcp serve --port 8080

Agent configuration:
  {
    "mcpServers": {
      "dealscope": {
        "command": "/path/to/dealscope",
        "args": ["mcp", "serve"]
      }
    }
  }`,
	RunE: runMCPServe,
}

func init() {
	mcpServeCmd.Flags().IntP("port", "p", 0, "HTTP port (0 = use stdio)")
	mcpServeCmd.Flags().Bool("watch", false, "invalidate summaries when chunk files change")
	mcpCmd.AddCommand(mcpServeCmd)
	rootCmd.AddCommand(mcpCmd)
}

func runMCPServe(cmd *cobra.Command, _ []string) error {
	port, err := cmd.Flags().GetInt("port")
	if err != nil {
		return fmt.Errorf("getting port flag: %w", err)
	}
	watch, err := cmd.Flags().GetBool("watch")
	if err != nil {
		return fmt.Errorf("getting watch flag: %w", err)
	}
	if err := requireRuntime(); err != nil {
		return err
	}

	server, err := mcp.NewServer(&mcp.Ports{
		Assembler: assembler,
		Retrieval: retrievalService,
	})
	if err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(commandContext(cmd))
	defer cancel()
	g, ctx := errgroup.WithContext(ctx)

	if watch {
		w, err := watcher.New(appSettings.DataDir, chunkStore, summaryService)
		if err != nil {
			return err
		}
		g.Go(func() error { return w.Run(ctx) })
	}

	g.Go(func() error {
		// The watcher has no end of its own; stop it with the server.
		defer cancel()
		if port > 0 {
			addr := fmt.Sprintf(":%d", port)
			fmt.Fprintf(cmd.ErrOrStderr(), "MCP server listening on http://localhost%s\n", addr)
			return server.RunHTTP(ctx, addr)
		}
		return server.Run(ctx)
	})

	return g.Wait()
}

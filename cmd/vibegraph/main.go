// Command vibegraph indexes a code repository into a relational graph and
// serves it through the MCP tool surface.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/spf13/cobra"

	"github.com/vibegraph/vibegraph/internal/store"
	"github.com/vibegraph/vibegraph/internal/tools"
)

var rootCmd = &cobra.Command{
	Use:   "vibegraph [path]",
	Short: "Index a repository into a code graph and re-index it on demand",
	Long: `vibegraph builds a structural graph of a codebase (functions, classes,
calls, imports) and persists it under <path>/vibegraph_context. Running it
with a directory argument re-indexes that directory; 'vibegraph serve'
exposes the graph over MCP for an agent host or the vibegraph_ tool surface.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runReindex,
}

var serveCmd = &cobra.Command{
	Use:   "serve [path]",
	Short: "Serve the graph over MCP (stdio) and watch for file changes",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func targetDir(args []string) (string, error) {
	dir := "."
	if len(args) == 1 {
		dir = args[0]
	}
	return filepath.Abs(dir)
}

func runReindex(_ *cobra.Command, args []string) error {
	dir, err := targetDir(args)
	if err != nil {
		return fmt.Errorf("resolve path: %w", err)
	}

	s, err := store.Open(dir)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer s.Close()

	srv := tools.NewServer(s, dir)
	if err := srv.Driver().ReindexAll(context.Background()); err != nil {
		return fmt.Errorf("reindex %s: %w", dir, err)
	}

	info, err := s.Schema()
	if err != nil {
		return fmt.Errorf("summarize %s: %w", dir, err)
	}
	fmt.Printf("indexed %s: %d nodes, %d edges\n", dir, info.NodeCount, info.EdgeCount)
	for _, kc := range info.NodeKinds {
		fmt.Printf("  %s: %d\n", kc.Kind, kc.Count)
	}
	for _, rc := range info.EdgeTypes {
		fmt.Printf("  %s: %d\n", rc.Relation, rc.Count)
	}
	return nil
}

func runServe(_ *cobra.Command, args []string) error {
	dir, err := targetDir(args)
	if err != nil {
		return fmt.Errorf("resolve path: %w", err)
	}

	s, err := store.Open(dir)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer s.Close()

	srv := tools.NewServer(s, dir)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := srv.Driver().ReindexAll(ctx); err != nil {
		slog.Error("serve.initial_reindex_failed", "err", err)
	}
	srv.StartWatcher(ctx)

	return srv.MCPServer().Run(ctx, &mcp.StdioTransport{})
}

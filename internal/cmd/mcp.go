package cmd

import (
	"log/slog"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/DevSymphony/codecleaner/internal/mcp"
)

var mcpWorkDir string

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Start MCP server to integrate with LLM tools",
	Long: `Start Model Context Protocol (MCP) server.
LLM-based coding tools can analyze code and validate files through stdio.

Tools provided by MCP server:
- analyze_code: Analyze source text or one file
- validate_code: Run the project rules over files and directories
- list_rules: Show the configured rules and thresholds

Communicates via stdio for integration with Claude Desktop, Claude Code, Cursor, and other MCP clients.`,
	Example: `  codecleaner mcp
  codecleaner mcp --config .codecleaner.yaml --workdir src`,
	RunE: runMCP,
}

func init() {
	rootCmd.AddCommand(mcpCmd)

	mcpCmd.Flags().StringVar(&mcpWorkDir, "workdir", ".", "directory relative tool paths are resolved against")
}

func runMCP(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmdContext(cmd), os.Interrupt)
	defer stop()

	server := mcp.NewServer(cfg, mcp.WithWorkDir(mcpWorkDir), mcp.WithLogger(slog.Default()))
	return server.Start(ctx)
}

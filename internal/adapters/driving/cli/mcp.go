package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Vitor-VarelAI/threadsift/internal/adapters/driving/mcp"
)

var mcpAddr string

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Start the MCP server",
	Long: `Start a Model Context Protocol server exposing search_posts,
summarize_thread and profile_post to AI assistants.

By default the server speaks JSON-RPC over stdio. Use --http to listen on
an address instead.

Examples:
  threadsift mcp
  threadsift mcp --http localhost:8080`,
	Args: cobra.NoArgs,
	RunE: runMCP,
}

func init() {
	mcpCmd.Flags().StringVar(&mcpAddr, "http", "", "listen address for HTTP (empty = stdio)")
	rootCmd.AddCommand(mcpCmd)
}

func runMCP(cmd *cobra.Command, _ []string) error {
	ports := &mcp.Ports{
		Pipeline: mcp.PipelineFactory(pipelineFactory),
		Summary:  summaryService,
		Profile:  profileService,
		History:  historyService,
	}

	server, err := mcp.NewServer(ports)
	if err != nil {
		return err
	}

	if mcpAddr != "" {
		fmt.Fprintf(cmd.ErrOrStderr(), "MCP server listening on http://%s\n", mcpAddr)
		return server.RunHTTP(cmd.Context(), mcpAddr)
	}
	return server.Run(cmd.Context())
}

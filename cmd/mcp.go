package cmd

import (
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/ranaklabs/ranak/internal/commands"
)

// mcpCmd represents the mcp command
var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Model Context Protocol server",
	Long:  `Expose a research session to MCP clients.`,
}

// mcpServeCmd represents the 'mcp serve' subcommand
var mcpServeCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve a research session over stdio",
	Long: `Start an MCP server on stdin/stdout. The server holds one session and
exposes the tools ask, generate_subtopics, summarise and export.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		r, err := openResearch(cmd)
		if err != nil {
			return err
		}
		defer r.Close()

		return commands.MCPServe(cmd.Context(), commands.MCPServeOptions{
			Session:   r.session,
			OutputDir: r.cfg.Export.Dir,
			Logger:    slog.Default(),
		})
	},
}

func init() {
	mcpCmd.AddCommand(mcpServeCmd)
	rootCmd.AddCommand(mcpCmd)
}

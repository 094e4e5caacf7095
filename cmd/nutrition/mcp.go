// ABOUTME: CLI command for starting the MCP server.
// ABOUTME: Runs stdio-based MCP server for Claude integration.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/harperreed/nutrition/internal/mcp"
	"github.com/spf13/cobra"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Start MCP server",
	Long: `Start the Model Context Protocol (MCP) server for AI assistant integration.

MCP allows AI assistants like Claude to log food estimates and query
your nutrition data through a standardized protocol. The server
communicates via stdin/stdout.

CLAUDE DESKTOP CONFIGURATION:

  Add this to your Claude Desktop config (claude_desktop_config.json):

  {
    "mcpServers": {
      "nutrition": {
        "command": "nutrition",
        "args": ["mcp"]
      }
    }
  }

AVAILABLE TOOLS:

  log_food_estimate  Log food from an AI estimate (saved as template)
  log_product        Log a saved product by grams or portions
  log_supplement     Log supplement servings
  add_product        Save a product with per-100g values
  list_products      List the product catalog
  get_day            Get a day's entries and totals
  set_targets        Set macro targets for a day
  use_template       Re-log a saved template by name
  list_templates     List saved templates

AVAILABLE RESOURCES:

  nutrition://today     Today's entries and totals
  nutrition://products  The product catalog
  nutrition://targets   Today's targets and remaining budget`,
	RunE: func(cmd *cobra.Command, args []string) error {
		server, err := mcp.NewServer(repo, cfg.Targets())
		if err != nil {
			return err
		}

		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		// Handle shutdown signals
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		go func() {
			<-sigChan
			cancel()
		}()

		return server.Serve(ctx)
	},
}

func init() {
	rootCmd.AddCommand(mcpCmd)
}

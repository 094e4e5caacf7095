// ABOUTME: Root Cobra command for nutrition CLI.
// ABOUTME: Opens config and SQLite storage via PersistentPre/PostRunE.
package main

import (
	"fmt"
	"time"

	"github.com/harperreed/nutrition/internal/charm"
	"github.com/harperreed/nutrition/internal/config"
	"github.com/harperreed/nutrition/internal/storage"
	"github.com/spf13/cobra"
)

var (
	cfg  *config.Config
	repo *storage.DB
)

var rootCmd = &cobra.Command{
	Use:   "nutrition",
	Short: "Personal nutrition tracker",
	Long: `Nutrition is a CLI tool for tracking food, supplements, and daily targets.

Products store nutrition per 100 g; logging scales those values to what
you actually ate and freezes the result, so later product edits never
rewrite your history.

QUICK START:

  $ nutrition product add "Oats" --calories 370 --protein 13 --carbs 60 --fat 7
  $ nutrition log oats 80                    # Log 80 g of oats
  $ nutrition log bread --portions 2         # Log 2 slices
  $ nutrition day                            # Today's totals vs targets
  $ nutrition supplement log "Vitamin D" 1   # Log a supplement serving

TEMPLATES:

  AI estimates logged through the MCP server are saved as reusable
  templates.

  $ nutrition template list
  $ nutrition template use "pad thai"

BACKUP & SYNC:

  $ nutrition export json -o backup.json    # Deterministic full backup
  $ nutrition import backup.json            # Merge a backup (skips known data)
  $ nutrition sync link                     # Link device to Charm Cloud
  $ nutrition sync push                     # Push a backup to the cloud

MCP INTEGRATION:

  Run 'nutrition mcp' to start the Model Context Protocol server for use
  with Claude Desktop or other MCP-compatible AI assistants:

  {
    "mcpServers": {
      "nutrition": { "command": "nutrition", "args": ["mcp"] }
    }
  }

DATA STORAGE:

  Data lives in a local SQLite database at ~/.local/share/nutrition/.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// Skip storage for commands that don't need it
		if cmd.Name() == "version" || cmd.Name() == "help" || cmd.Name() == "completion" {
			return nil
		}

		var err error
		cfg, err = config.Load()
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}

		repo, err = cfg.OpenStorage()
		if err != nil {
			return fmt.Errorf("failed to open storage: %w", err)
		}
		return nil
	},
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		if repo != nil {
			return repo.Close()
		}
		return nil
	},
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

// autoPush pushes a backup to Charm Cloud after a write when auto-sync
// is enabled. Best effort; a failed push never fails the command.
func autoPush() {
	if cfg == nil || !cfg.AutoSync {
		return
	}
	client, err := charm.GetClient()
	if err != nil {
		return
	}
	_ = client.Push(repo)
}

// parseTime accepts RFC 3339, "2006-01-02 15:04", or a bare date.
func parseTime(s string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	if t, err := time.ParseInLocation("2006-01-02 15:04", s, time.Local); err == nil {
		return t, nil
	}
	if t, err := time.ParseInLocation("2006-01-02T15:04", s, time.Local); err == nil {
		return t, nil
	}
	if t, err := time.ParseInLocation("2006-01-02", s, time.Local); err == nil {
		return t, nil
	}
	return time.Time{}, fmt.Errorf("unrecognized time format: %s", s)
}

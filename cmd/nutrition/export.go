// ABOUTME: CLI commands for exporting and importing nutrition data.
// ABOUTME: JSON backups are deterministic; import merges via the reconciler.
package main

import (
	"fmt"
	"os"
	"time"

	"github.com/fatih/color"
	"github.com/harperreed/nutrition/internal/storage"
	"github.com/spf13/cobra"
)

var (
	exportOutput string
	exportSince  string
)

var exportCmd = &cobra.Command{
	Use:   "export <format>",
	Short: "Export nutrition data",
	Long: `Export nutrition data in various formats.

FORMATS:

  json       Full backup (restorable with 'nutrition import')
  yaml       YAML export (human-readable)
  markdown   Per-day tables with totals

The JSON backup is deterministic: exporting an unchanged store twice
produces byte-identical output, so backups diff cleanly.

EXAMPLES:

  nutrition export json                      # Export all data as JSON
  nutrition export json -o backup.json       # Save to file
  nutrition export yaml                      # Export as YAML
  nutrition export markdown --since 2026-01-01`,
	Args:      cobra.ExactArgs(1),
	ValidArgs: []string{"json", "yaml", "markdown"},
	RunE: func(cmd *cobra.Command, args []string) error {
		format := args[0]

		var data []byte
		var err error

		switch format {
		case "json":
			data, err = repo.Export(time.Now())
		case "yaml":
			data, err = repo.ExportYAML(time.Now())
		case "markdown":
			var since *time.Time
			if exportSince != "" {
				t, perr := time.ParseInLocation("2006-01-02", exportSince, time.Local)
				if perr != nil {
					return fmt.Errorf("invalid date format: %s (use YYYY-MM-DD)", exportSince)
				}
				since = &t
			}
			md, merr := repo.ExportMarkdown(since)
			if merr != nil {
				return fmt.Errorf("export failed: %w", merr)
			}
			data = []byte(md)
		default:
			return fmt.Errorf("unknown format: %s (use json, yaml, or markdown)", format)
		}

		if err != nil {
			return fmt.Errorf("export failed: %w", err)
		}

		if exportOutput != "" {
			if err := os.WriteFile(exportOutput, data, 0600); err != nil {
				return fmt.Errorf("failed to write file: %w", err)
			}
			color.Green("✓ Exported to %s", exportOutput)
		} else {
			fmt.Println(string(data))
		}

		return nil
	},
}

var importCmd = &cobra.Command{
	Use:   "import <file>",
	Short: "Import a JSON backup",
	Long: `Merge a JSON backup into the local store.

Import never overwrites: entities already present (matched by barcode,
name, calendar day, or timestamp) are skipped, everything else is
created with its cross-references re-homed. Running the same import
twice is safe; the second run skips everything.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		data, err := os.ReadFile(args[0])
		if err != nil {
			return fmt.Errorf("failed to read file: %w", err)
		}

		summary, err := repo.Import(data)
		if err != nil {
			return fmt.Errorf("import failed: %w", err)
		}

		color.Green("✓ Imported %s", args[0])
		printStage("Products", summary.Products)
		printStage("Supplements", summary.Supplements)
		printStage("Daily logs", summary.DailyLogs)
		printStage("Food entries", summary.FoodEntries)
		printStage("Suppl. entries", summary.SupplementEntries)
		printStage("Templates", summary.Templates)
		fmt.Printf("  %d imported, %d skipped\n", summary.TotalImported(), summary.TotalSkipped())

		autoPush()
		return nil
	},
}

func init() {
	exportCmd.Flags().StringVarP(&exportOutput, "output", "o", "", "Write to file instead of stdout")
	exportCmd.Flags().StringVar(&exportSince, "since", "", "Only include days since this date (markdown)")

	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(importCmd)
}

func printStage(label string, c storage.StageCount) {
	if c.Imported == 0 && c.Skipped == 0 {
		return
	}
	fmt.Printf("  %-15s %3d new, %3d known\n", label, c.Imported, c.Skipped)
}

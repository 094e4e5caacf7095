// ABOUTME: CLI commands for AI food templates.
// ABOUTME: List saved templates and re-log them by name.
package main

import (
	"fmt"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var templateAt string

var templateCmd = &cobra.Command{
	Use:     "template",
	Aliases: []string{"t"},
	Short:   "Reuse saved AI food templates",
	Long: `Templates are saved automatically when food is logged from an AI
estimate through the MCP server. Reusing one logs the same values
again without a new estimate.

Examples:
  nutrition template list
  nutrition template use "pad thai"`,
}

var templateListCmd = &cobra.Command{
	Use:   "list",
	Short: "List templates",
	RunE: func(cmd *cobra.Command, args []string) error {
		templates, err := repo.ListTemplates(0)
		if err != nil {
			return fmt.Errorf("failed to list templates: %w", err)
		}

		if len(templates) == 0 {
			fmt.Println("No templates yet. They are saved when logging AI estimates via 'nutrition mcp'.")
			return nil
		}

		for _, t := range templates {
			last := "never used"
			if t.LastUsed != nil {
				last = "last " + t.LastUsed.Format("2006-01-02")
			}
			fmt.Printf("%s  %-28s %6.0f kcal  %4.0f %-5s used %dx, %s\n",
				color.New(color.Faint).Sprint(t.ID.String()[:8]),
				t.Name, t.Snapshot.Calories, t.Amount, t.Unit, t.UseCount, last)
		}
		return nil
	},
}

var templateUseCmd = &cobra.Command{
	Use:   "use <name>",
	Short: "Log a template into the day's log",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		tmpl, err := repo.FindTemplateByName(args[0])
		if err != nil {
			return fmt.Errorf("template not found: %s", args[0])
		}

		at := time.Now()
		if templateAt != "" {
			at, err = parseTime(templateAt)
			if err != nil {
				return fmt.Errorf("invalid timestamp: %s", templateAt)
			}
		}

		log, err := repo.GetOrCreateDailyLog(at, cfg.Targets())
		if err != nil {
			return fmt.Errorf("failed to open daily log: %w", err)
		}

		entry := tmpl.Entry().WithTimestamp(at)
		entry.DailyLogID = &log.ID
		if err := repo.CreateFoodEntry(entry); err != nil {
			return fmt.Errorf("failed to log entry: %w", err)
		}

		tmpl.MarkUsed(at)
		if err := repo.UpdateTemplate(tmpl); err != nil {
			return fmt.Errorf("failed to update template: %w", err)
		}

		color.Green("✓ Logged %s from template", entry.SourceName)
		fmt.Printf("  %s %.0f %s · %.0f kcal\n",
			color.New(color.Faint).Sprint(entry.ID.String()[:8]),
			entry.Amount, entry.Unit, entry.Snapshot.Calories)

		autoPush()
		return nil
	},
}

func init() {
	templateUseCmd.Flags().StringVar(&templateAt, "at", "", "Consumption time (default now)")

	templateCmd.AddCommand(templateListCmd)
	templateCmd.AddCommand(templateUseCmd)
	rootCmd.AddCommand(templateCmd)
}

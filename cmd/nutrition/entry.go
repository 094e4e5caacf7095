// ABOUTME: CLI commands for editing and deleting logged food entries.
// ABOUTME: Amount edits rescale the frozen snapshot, never the product.
package main

import (
	"fmt"
	"strconv"

	"github.com/fatih/color"
	"github.com/harperreed/nutrition/internal/scale"
	"github.com/spf13/cobra"
)

var entryCmd = &cobra.Command{
	Use:     "entry",
	Aliases: []string{"e"},
	Short:   "Edit or delete logged entries",
	Long: `Edit or delete food entries already in the log.

Changing an entry's amount rescales its recorded values by
new/current. The source product is not consulted, so this works even
after the product was edited or deleted. Amounts are clamped to
[1, 5000].

Examples:
  nutrition entry amount abc123 120
  nutrition entry delete abc123`,
}

var entryAmountCmd = &cobra.Command{
	Use:   "amount <id> <new-amount>",
	Short: "Change an entry's amount, rescaling its values",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := repo.GetFoodEntry(args[0])
		if err != nil {
			return fmt.Errorf("entry not found: %s", args[0])
		}

		newAmount, err := strconv.ParseFloat(args[1], 64)
		if err != nil {
			return fmt.Errorf("invalid amount: %s", args[1])
		}

		snap, clamped, err := scale.Rescale(e.Snapshot, e.Amount, newAmount)
		if err != nil {
			return err
		}
		if clamped != newAmount {
			color.Yellow("⚠ Amount clamped to %.0f", clamped)
		}

		e.Amount = clamped
		e.Snapshot = snap
		if err := repo.UpdateFoodEntry(e); err != nil {
			return fmt.Errorf("failed to update entry: %w", err)
		}

		color.Green("✓ Updated %s", e.SourceName)
		fmt.Printf("  %s %.0f %s · %.0f kcal\n",
			color.New(color.Faint).Sprint(e.ID.String()[:8]),
			e.Amount, e.Unit, e.Snapshot.Calories)

		autoPush()
		return nil
	},
}

var entryDeleteCmd = &cobra.Command{
	Use:     "delete <id>",
	Aliases: []string{"rm"},
	Short:   "Delete an entry",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := repo.DeleteFoodEntry(args[0]); err != nil {
			return fmt.Errorf("failed to delete entry: %w", err)
		}
		color.Green("✓ Deleted entry %s", args[0])
		autoPush()
		return nil
	},
}

func init() {
	entryCmd.AddCommand(entryAmountCmd)
	entryCmd.AddCommand(entryDeleteCmd)
	rootCmd.AddCommand(entryCmd)
}

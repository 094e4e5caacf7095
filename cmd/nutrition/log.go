// ABOUTME: CLI command for logging consumed food into the daily log.
// ABOUTME: Scales a product's per-100g values by grams or portions.
package main

import (
	"fmt"
	"strconv"
	"time"

	"github.com/fatih/color"
	"github.com/harperreed/nutrition/internal/models"
	"github.com/harperreed/nutrition/internal/scale"
	"github.com/spf13/cobra"
)

var (
	logPortions float64
	logAt       string
)

var logCmd = &cobra.Command{
	Use:     "log <product> [grams]",
	Aliases: []string{"l"},
	Short:   "Log consumed food",
	Long: `Log a consumed amount of a saved product into the day's log.

The product's per-100g values are scaled to the consumed weight and
frozen into the entry. Later edits to the product never change logged
history.

Examples:
  nutrition log oats 80
  nutrition log "Orange Juice" 250
  nutrition log bread --portions 2
  nutrition log oats 80 --at "2026-08-27 08:30"`,
	Args: cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		p, err := findProduct(args[0])
		if err != nil {
			return err
		}

		var snap models.Snapshot
		var amount float64

		switch {
		case logPortions > 0:
			snap, err = scale.FromPortions(p, logPortions)
			if err != nil {
				return err
			}
			amount = *p.PortionGrams * logPortions
		case len(args) == 2:
			grams, err := strconv.ParseFloat(args[1], 64)
			if err != nil {
				return fmt.Errorf("invalid amount: %s", args[1])
			}
			snap, err = scale.FromPer100g(p, grams)
			if err != nil {
				return err
			}
			amount = grams
		default:
			return fmt.Errorf("provide a weight in grams or --portions")
		}

		at := time.Now()
		if logAt != "" {
			at, err = parseTime(logAt)
			if err != nil {
				return fmt.Errorf("invalid timestamp: %s", logAt)
			}
		}

		log, err := repo.GetOrCreateDailyLog(at, cfg.Targets())
		if err != nil {
			return fmt.Errorf("failed to open daily log: %w", err)
		}

		entry := models.NewFoodEntry(p.Name, amount, "g", snap).WithProduct(p.ID).WithTimestamp(at)
		entry.DailyLogID = &log.ID
		if err := repo.CreateFoodEntry(entry); err != nil {
			return fmt.Errorf("failed to log entry: %w", err)
		}

		color.Green("✓ Logged %s", p.Name)
		fmt.Printf("  %s %.0f g · %.0f kcal · %.1fP %.1fC %.1fF\n",
			color.New(color.Faint).Sprint(entry.ID.String()[:8]),
			amount, snap.Calories, snap.Protein, snap.Carbs, snap.Fat)

		autoPush()
		return nil
	},
}

func init() {
	logCmd.Flags().Float64Var(&logPortions, "portions", 0, "Consumed portions (requires a product portion size)")
	logCmd.Flags().StringVar(&logAt, "at", "", "Consumption time (default now)")
	rootCmd.AddCommand(logCmd)
}

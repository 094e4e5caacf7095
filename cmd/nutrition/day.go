// ABOUTME: CLI commands for viewing a day's log and setting targets.
// ABOUTME: Totals, sugar breakdown, and micronutrient coverage vs the catalog.
package main

import (
	"fmt"
	"time"

	"github.com/fatih/color"
	"github.com/harperreed/nutrition/internal/models"
	"github.com/harperreed/nutrition/internal/scale"
	"github.com/spf13/cobra"
)

var (
	dayNutrients    bool
	targetsCalories float64
	targetsProtein  float64
	targetsCarbs    float64
	targetsFat      float64
	targetsDate     string
)

var dayCmd = &cobra.Command{
	Use:     "day [date]",
	Aliases: []string{"d", "today"},
	Short:   "Show a day's log and totals",
	Long: `Show the entries and running totals for a day (default today).

Examples:
  nutrition day
  nutrition day 2026-08-27
  nutrition day --nutrients`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		at := time.Now()
		if len(args) == 1 {
			var err error
			at, err = parseTime(args[0])
			if err != nil {
				return fmt.Errorf("invalid date: %s", args[0])
			}
		}

		log, err := repo.GetDailyLogByDate(at)
		if err != nil {
			fmt.Printf("Nothing logged on %s.\n", models.DayStart(at).Format("2006-01-02"))
			return nil
		}

		foods, err := repo.ListFoodEntriesForLog(log.ID)
		if err != nil {
			return fmt.Errorf("failed to list entries: %w", err)
		}
		supplements, err := repo.ListSupplementEntriesForLog(log.ID)
		if err != nil {
			return fmt.Errorf("failed to list supplement entries: %w", err)
		}

		fmt.Println(color.New(color.Bold).Sprint(log.Date.Format("Monday, 2 January 2006")))
		fmt.Println()

		for _, e := range foods {
			marker := " "
			if e.AIGenerated {
				marker = color.CyanString("✦")
			}
			fmt.Printf("%s %s %s  %-28s %6.0f %-5s %6.0f kcal\n",
				marker,
				color.New(color.Faint).Sprint(e.Timestamp.Format("15:04")),
				color.New(color.Faint).Sprint(e.ID.String()[:8]),
				e.SourceName, e.Amount, e.Unit, e.Snapshot.Calories)
		}
		for _, s := range supplements {
			fmt.Printf("  %s %s  %-28s %6.1f srv\n",
				color.New(color.Faint).Sprint(s.Timestamp.Format("15:04")),
				color.New(color.Faint).Sprint(s.ID.String()[:8]),
				s.SourceName, s.Servings)
		}
		if len(foods) == 0 && len(supplements) == 0 {
			fmt.Println("  (no entries)")
		}

		totals := models.SumEntries(foods, supplements)

		fmt.Println()
		printTarget("Calories", totals.Calories, log.CalorieTarget, "kcal")
		printTarget("Protein", totals.Protein, log.ProteinTarget, "g")
		printTarget("Carbs", totals.Carbs, log.CarbTarget, "g")
		printTarget("Fat", totals.Fat, log.FatTarget, "g")

		if totals.Sugar > 0 || totals.AddedSugar > 0 {
			// Per-entry split, summed: entries without a breakdown count
			// their whole sugar as added.
			var natural, added float64
			for _, e := range foods {
				n, a := scale.SplitSugar(e.Snapshot)
				natural += n
				added += a
			}
			fmt.Printf("  Sugar     %7.1f g (%.1f natural, %.1f added)\n", natural+added, natural, added)
		}
		if totals.Fibre > 0 {
			fmt.Printf("  Fibre     %7.1f g\n", totals.Fibre)
		}
		if totals.Sodium > 0 {
			fmt.Printf("  Sodium    %7.0f mg\n", totals.Sodium)
		}

		if dayNutrients && len(totals.Nutrients) > 0 {
			fmt.Println()
			fmt.Println("Micronutrients:")
			for _, id := range models.AllNutrientIDs {
				v, ok := totals.Nutrients.Get(id)
				if !ok {
					continue
				}
				info := models.NutrientCatalog[id]
				pct := 0.0
				if info.DailyTarget > 0 {
					pct = v / info.DailyTarget * 100
				}
				line := fmt.Sprintf("  %-22s %8.1f %-3s %5.0f%%", info.Name, v, info.Unit, pct)
				if info.UpperLimit != nil && v > *info.UpperLimit {
					fmt.Println(color.RedString("%s  over upper limit (%.0f %s)", line, *info.UpperLimit, info.Unit))
				} else {
					fmt.Println(line)
				}
			}
		}

		return nil
	},
}

var targetsCmd = &cobra.Command{
	Use:   "targets",
	Short: "Set macro targets for a day",
	Long: `Set macro targets for a day's log (default today). Targets set here
apply to that day only; defaults for new days come from the config.

Examples:
  nutrition targets --calories 2200 --protein 140
  nutrition targets --date 2026-08-27 --fat 60`,
	RunE: func(cmd *cobra.Command, args []string) error {
		at := time.Now()
		if targetsDate != "" {
			var err error
			at, err = parseTime(targetsDate)
			if err != nil {
				return fmt.Errorf("invalid date: %s", targetsDate)
			}
		}

		log, err := repo.GetOrCreateDailyLog(at, cfg.Targets())
		if err != nil {
			return fmt.Errorf("failed to open daily log: %w", err)
		}

		if targetsCalories > 0 {
			log.CalorieTarget = targetsCalories
		}
		if targetsProtein > 0 {
			log.ProteinTarget = targetsProtein
		}
		if targetsCarbs > 0 {
			log.CarbTarget = targetsCarbs
		}
		if targetsFat > 0 {
			log.FatTarget = targetsFat
		}

		if err := repo.UpdateDailyLogTargets(log); err != nil {
			return fmt.Errorf("failed to update targets: %w", err)
		}

		color.Green("✓ Targets for %s", log.Date.Format("2006-01-02"))
		fmt.Printf("  %.0f kcal / %.0fP / %.0fC / %.0fF\n",
			log.CalorieTarget, log.ProteinTarget, log.CarbTarget, log.FatTarget)

		autoPush()
		return nil
	},
}

func init() {
	dayCmd.Flags().BoolVar(&dayNutrients, "nutrients", false, "Show micronutrient coverage")

	targetsCmd.Flags().Float64Var(&targetsCalories, "calories", 0, "Calorie target")
	targetsCmd.Flags().Float64Var(&targetsProtein, "protein", 0, "Protein target (g)")
	targetsCmd.Flags().Float64Var(&targetsCarbs, "carbs", 0, "Carbohydrate target (g)")
	targetsCmd.Flags().Float64Var(&targetsFat, "fat", 0, "Fat target (g)")
	targetsCmd.Flags().StringVar(&targetsDate, "date", "", "Day to set targets for (default today)")

	rootCmd.AddCommand(dayCmd)
	rootCmd.AddCommand(targetsCmd)
}

func printTarget(label string, value, target float64, unit string) {
	pct := 0.0
	if target > 0 {
		pct = value / target * 100
	}
	line := fmt.Sprintf("  %-9s %7.0f / %.0f %s (%.0f%%)", label, value, target, unit, pct)
	if target > 0 && value > target {
		color.Yellow("%s", line)
	} else {
		fmt.Println(line)
	}
}

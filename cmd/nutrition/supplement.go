// ABOUTME: CLI commands for supplements: catalog management and logging.
// ABOUTME: Servings scale per-unit nutrients by servings/servingsPerContainer.
package main

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/fatih/color"
	"github.com/harperreed/nutrition/internal/models"
	"github.com/harperreed/nutrition/internal/scale"
	"github.com/harperreed/nutrition/internal/storage"
	"github.com/spf13/cobra"
)

var (
	supplementBrand     string
	supplementBarcode   string
	supplementServings  float64
	supplementNutrients []string
	supplementAt        string
)

var supplementCmd = &cobra.Command{
	Use:     "supplement",
	Aliases: []string{"supp"},
	Short:   "Manage and log supplements",
	Long: `Manage supplements and log servings.

Supplements carry only micronutrients, stored per package-unit. Logging
N servings scales by N / servings-per-container.

Examples:
  nutrition supplement add "Vitamin D3" --servings 90 --nutrient vitaminD=25
  nutrition supplement log "Vitamin D3" 1
  nutrition supplement list
  nutrition supplement delete abc123`,
}

var supplementAddCmd = &cobra.Command{
	Use:   "add <name>",
	Short: "Add a supplement",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if supplementServings <= 0 {
			return fmt.Errorf("--servings must be > 0")
		}

		s := models.NewSupplement(args[0], supplementServings)
		if supplementBrand != "" {
			s.WithBrand(supplementBrand)
		}
		if supplementBarcode != "" {
			s.WithBarcode(supplementBarcode)
		}
		for _, spec := range supplementNutrients {
			id, value, err := parseNutrientSpec(spec)
			if err != nil {
				return err
			}
			s.WithNutrient(id, value)
		}

		if err := repo.CreateSupplement(s); err != nil {
			return fmt.Errorf("failed to create supplement: %w", err)
		}

		color.Green("✓ Added supplement %s", s.Name)
		fmt.Printf("  %s %.0f servings per container, %d nutrient(s)\n",
			color.New(color.Faint).Sprint(s.ID.String()[:8]),
			s.ServingsPerContainer, len(s.Nutrients))

		autoPush()
		return nil
	},
}

var supplementLogCmd = &cobra.Command{
	Use:   "log <supplement> [servings]",
	Short: "Log supplement servings",
	Args:  cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := findSupplement(args[0])
		if err != nil {
			return err
		}

		servings := 1.0
		if len(args) == 2 {
			servings, err = strconv.ParseFloat(args[1], 64)
			if err != nil {
				return fmt.Errorf("invalid servings: %s", args[1])
			}
		}

		nutrients, err := scale.FromServings(s, servings)
		if err != nil {
			return err
		}

		at := time.Now()
		if supplementAt != "" {
			at, err = parseTime(supplementAt)
			if err != nil {
				return fmt.Errorf("invalid timestamp: %s", supplementAt)
			}
		}

		log, err := repo.GetOrCreateDailyLog(at, cfg.Targets())
		if err != nil {
			return fmt.Errorf("failed to open daily log: %w", err)
		}

		entry := models.NewSupplementEntry(s.Name, servings, nutrients).WithSupplement(s.ID).WithTimestamp(at)
		entry.DailyLogID = &log.ID
		if err := repo.CreateSupplementEntry(entry); err != nil {
			return fmt.Errorf("failed to log supplement: %w", err)
		}

		color.Green("✓ Logged %s", s.Name)
		fmt.Printf("  %s %.1f serving(s)\n",
			color.New(color.Faint).Sprint(entry.ID.String()[:8]), servings)

		autoPush()
		return nil
	},
}

var supplementListCmd = &cobra.Command{
	Use:   "list",
	Short: "List supplements",
	RunE: func(cmd *cobra.Command, args []string) error {
		supplements, err := repo.ListSupplements(0)
		if err != nil {
			return fmt.Errorf("failed to list supplements: %w", err)
		}

		if len(supplements) == 0 {
			fmt.Println("No supplements yet. Add one with 'nutrition supplement add'.")
			return nil
		}

		for _, s := range supplements {
			name := s.Name
			if s.Brand != nil {
				name = fmt.Sprintf("%s (%s)", s.Name, *s.Brand)
			}
			fmt.Printf("%s  %-30s %4.0f servings  %d nutrient(s)\n",
				color.New(color.Faint).Sprint(s.ID.String()[:8]),
				name, s.ServingsPerContainer, len(s.Nutrients))
		}
		return nil
	},
}

var supplementDeleteCmd = &cobra.Command{
	Use:     "delete <id>",
	Aliases: []string{"rm"},
	Short:   "Delete a supplement (logged entries keep their values)",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := repo.DeleteSupplement(args[0]); err != nil {
			return fmt.Errorf("failed to delete supplement: %w", err)
		}
		color.Green("✓ Deleted supplement %s", args[0])
		autoPush()
		return nil
	},
}

func init() {
	f := supplementAddCmd.Flags()
	f.Float64Var(&supplementServings, "servings", 0, "Servings per container")
	f.StringVar(&supplementBrand, "brand", "", "Brand name")
	f.StringVar(&supplementBarcode, "barcode", "", "Barcode")
	f.StringArrayVar(&supplementNutrients, "nutrient", nil, "Nutrient per package-unit, e.g. vitaminD=25 (repeatable)")

	supplementLogCmd.Flags().StringVar(&supplementAt, "at", "", "Consumption time (default now)")

	supplementCmd.AddCommand(supplementAddCmd)
	supplementCmd.AddCommand(supplementLogCmd)
	supplementCmd.AddCommand(supplementListCmd)
	supplementCmd.AddCommand(supplementDeleteCmd)
	rootCmd.AddCommand(supplementCmd)
}

func findSupplement(key string) (*models.Supplement, error) {
	s, err := repo.GetSupplement(key)
	if err == nil {
		return s, nil
	}
	if errors.Is(err, storage.ErrAmbiguousID) {
		return nil, err
	}
	if s, err := repo.FindSupplementByBarcode(key); err == nil {
		return s, nil
	}
	if s, err := repo.FindSupplementByNameBrand(key, nil); err == nil {
		return s, nil
	}
	return nil, fmt.Errorf("supplement not found: %s", key)
}

// ABOUTME: CLI commands for managing the product catalog.
// ABOUTME: Add, list, show, and delete per-100g product records.
package main

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/fatih/color"
	"github.com/harperreed/nutrition/internal/models"
	"github.com/harperreed/nutrition/internal/storage"
	"github.com/spf13/cobra"
)

var (
	productCalories  float64
	productProtein   float64
	productCarbs     float64
	productFat       float64
	productBrand     string
	productBarcode   string
	productSugar     float64
	productFibre     float64
	productSodium    float64
	productPortion   float64
	productPerPack   int
	productNotes     string
	productNutrients []string
	productLimit     int
)

var productCmd = &cobra.Command{
	Use:     "product",
	Aliases: []string{"p"},
	Short:   "Manage the product catalog",
	Long: `Manage saved products. All nutrition values are per 100 g.

Examples:
  nutrition product add "Oats" --calories 370 --protein 13 --carbs 60 --fat 7
  nutrition product add "Bread" --calories 250 --protein 9 --carbs 45 --fat 3 \
      --portion 40 --per-package 12
  nutrition product add "Orange Juice" --calories 45 --carbs 10 \
      --nutrient vitaminC=40
  nutrition product list
  nutrition product show abc123
  nutrition product delete abc123`,
}

var productAddCmd = &cobra.Command{
	Use:   "add <name>",
	Short: "Add a product",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		p := models.NewProduct(args[0], productCalories, productProtein, productCarbs, productFat)
		p.IsCustom = true

		if productBrand != "" {
			p.WithBrand(productBrand)
		}
		if productBarcode != "" {
			p.WithBarcode(productBarcode)
		}
		if cmd.Flags().Changed("sugar") {
			p.SugarPer100g = models.Float64Ptr(productSugar)
		}
		if cmd.Flags().Changed("fibre") {
			p.FibrePer100g = models.Float64Ptr(productFibre)
		}
		if cmd.Flags().Changed("sodium") {
			p.SodiumPer100g = models.Float64Ptr(productSodium)
		}
		if productPortion > 0 {
			p.WithPortion(productPortion, productPerPack)
		}
		if productNotes != "" {
			p.WithNotes(productNotes)
		}

		for _, spec := range productNutrients {
			id, value, err := parseNutrientSpec(spec)
			if err != nil {
				return err
			}
			p.WithNutrient(id, value)
		}

		if err := repo.CreateProduct(p); err != nil {
			return fmt.Errorf("failed to create product: %w", err)
		}

		color.Green("✓ Added product %s", p.Name)
		fmt.Printf("  %s %.0f kcal / %.1fP / %.1fC / %.1fF per 100g\n",
			color.New(color.Faint).Sprint(p.ID.String()[:8]),
			p.CaloriesPer100g, p.ProteinPer100g, p.CarbsPer100g, p.FatPer100g)

		autoPush()
		return nil
	},
}

var productListCmd = &cobra.Command{
	Use:   "list",
	Short: "List products",
	RunE: func(cmd *cobra.Command, args []string) error {
		products, err := repo.ListProducts(productLimit)
		if err != nil {
			return fmt.Errorf("failed to list products: %w", err)
		}

		if len(products) == 0 {
			fmt.Println("No products yet. Add one with 'nutrition product add'.")
			return nil
		}

		for _, p := range products {
			name := p.Name
			if p.Brand != nil {
				name = fmt.Sprintf("%s (%s)", p.Name, *p.Brand)
			}
			fmt.Printf("%s  %-30s %6.0f kcal  %5.1fP %5.1fC %5.1fF",
				color.New(color.Faint).Sprint(p.ID.String()[:8]),
				name, p.CaloriesPer100g, p.ProteinPer100g, p.CarbsPer100g, p.FatPer100g)
			if p.PortionGrams != nil {
				fmt.Printf("  [portion %.0fg]", *p.PortionGrams)
			}
			fmt.Println()
		}
		return nil
	},
}

var productShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show a product's full nutrition data",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		p, err := findProduct(args[0])
		if err != nil {
			return err
		}

		fmt.Println(color.New(color.Bold).Sprint(p.Name))
		if p.Brand != nil {
			fmt.Printf("Brand:    %s\n", *p.Brand)
		}
		if p.Barcode != nil {
			fmt.Printf("Barcode:  %s\n", *p.Barcode)
		}
		fmt.Printf("ID:       %s\n", p.ID)
		fmt.Println()
		fmt.Println("Per 100g:")
		fmt.Printf("  Calories  %8.1f kcal\n", p.CaloriesPer100g)
		fmt.Printf("  Protein   %8.1f g\n", p.ProteinPer100g)
		fmt.Printf("  Carbs     %8.1f g\n", p.CarbsPer100g)
		fmt.Printf("  Fat       %8.1f g\n", p.FatPer100g)
		printOpt("Sugar", p.SugarPer100g, "g")
		printOpt("  natural", p.NaturalSugarPer100g, "g")
		printOpt("  added", p.AddedSugarPer100g, "g")
		printOpt("Fibre", p.FibrePer100g, "g")
		printOpt("Sodium", p.SodiumPer100g, "mg")
		printOpt("Cholesterol", p.CholesterolPer100g, "mg")
		printOpt("Sat. fat", p.SaturatedFatPer100g, "g")
		printOpt("Trans fat", p.TransFatPer100g, "g")

		if len(p.Nutrients) > 0 {
			fmt.Println()
			fmt.Println("Micronutrients per 100g:")
			for _, id := range models.AllNutrientIDs {
				if v, ok := p.Nutrients.Get(id); ok {
					fmt.Printf("  %-12s %8.2f %s\n", models.NutrientCatalog[id].Name, v, models.NutrientUnit(id))
				}
			}
		}

		if p.PortionGrams != nil {
			fmt.Println()
			fmt.Printf("Portion:  %.0f g", *p.PortionGrams)
			if p.PortionsPerPackage != nil {
				fmt.Printf(" (%d per package)", *p.PortionsPerPackage)
			}
			fmt.Println()
		}
		if p.Notes != nil {
			fmt.Println()
			fmt.Printf("Notes: %s\n", *p.Notes)
		}
		return nil
	},
}

var productDeleteCmd = &cobra.Command{
	Use:     "delete <id>",
	Aliases: []string{"rm"},
	Short:   "Delete a product (logged entries keep their values)",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := repo.DeleteProduct(args[0]); err != nil {
			return fmt.Errorf("failed to delete product: %w", err)
		}
		color.Green("✓ Deleted product %s", args[0])
		fmt.Println("  Existing log entries keep their recorded nutrition.")
		autoPush()
		return nil
	},
}

func init() {
	f := productAddCmd.Flags()
	f.Float64Var(&productCalories, "calories", 0, "Calories per 100g")
	f.Float64Var(&productProtein, "protein", 0, "Protein per 100g (g)")
	f.Float64Var(&productCarbs, "carbs", 0, "Carbohydrates per 100g (g)")
	f.Float64Var(&productFat, "fat", 0, "Fat per 100g (g)")
	f.StringVar(&productBrand, "brand", "", "Brand name")
	f.StringVar(&productBarcode, "barcode", "", "Product barcode")
	f.Float64Var(&productSugar, "sugar", 0, "Sugar per 100g (g)")
	f.Float64Var(&productFibre, "fibre", 0, "Fibre per 100g (g)")
	f.Float64Var(&productSodium, "sodium", 0, "Sodium per 100g (mg)")
	f.Float64Var(&productPortion, "portion", 0, "Weight of one portion (g)")
	f.IntVar(&productPerPack, "per-package", 0, "Portions per package")
	f.StringVar(&productNotes, "notes", "", "Notes")
	f.StringArrayVar(&productNutrients, "nutrient", nil, "Micronutrient per 100g, e.g. vitaminC=40 (repeatable)")

	productListCmd.Flags().IntVarP(&productLimit, "limit", "n", 0, "Max results (0 = all)")

	productCmd.AddCommand(productAddCmd)
	productCmd.AddCommand(productListCmd)
	productCmd.AddCommand(productShowCmd)
	productCmd.AddCommand(productDeleteCmd)
	rootCmd.AddCommand(productCmd)
}

// findProduct resolves an argument as id prefix, then barcode, then
// exact name without a brand. Branded products need an id or barcode.
func findProduct(key string) (*models.Product, error) {
	p, err := repo.GetProduct(key)
	if err == nil {
		return p, nil
	}
	if errors.Is(err, storage.ErrAmbiguousID) {
		return nil, err
	}
	if p, err := repo.FindProductByBarcode(key); err == nil {
		return p, nil
	}
	if p, err := repo.FindProductByNameBrand(key, nil); err == nil {
		return p, nil
	}
	return nil, fmt.Errorf("product not found: %s", key)
}

// parseNutrientSpec parses "vitaminC=40" into an id and value.
func parseNutrientSpec(spec string) (models.NutrientID, float64, error) {
	parts := strings.SplitN(spec, "=", 2)
	if len(parts) != 2 {
		return "", 0, fmt.Errorf("invalid nutrient %q (want id=value)", spec)
	}
	if !models.IsValidNutrientID(parts[0]) {
		return "", 0, fmt.Errorf("unknown nutrient id: %s", parts[0])
	}
	value, err := strconv.ParseFloat(parts[1], 64)
	if err != nil || value < 0 {
		return "", 0, fmt.Errorf("invalid nutrient value: %s", parts[1])
	}
	return models.NutrientID(parts[0]), value, nil
}

func printOpt(label string, v *float64, unit string) {
	if v == nil {
		return
	}
	fmt.Printf("  %-9s %8.1f %s\n", label, *v, unit)
}

// ABOUTME: NutrientID enum and the static nutrient catalog.
// ABOUTME: 24 vitamins/minerals with units, daily targets, and upper limits.
package models

// NutrientID is the stable identifier for a tracked micronutrient.
// These ids are used verbatim in backup JSON and in MCP tool payloads;
// nutrients are never addressed by display name.
type NutrientID string

const (
	// Vitamins
	NutrientVitaminA   NutrientID = "vitaminA"
	NutrientVitaminB1  NutrientID = "vitaminB1"
	NutrientVitaminB2  NutrientID = "vitaminB2"
	NutrientVitaminB3  NutrientID = "vitaminB3"
	NutrientVitaminB5  NutrientID = "vitaminB5"
	NutrientVitaminB6  NutrientID = "vitaminB6"
	NutrientVitaminB7  NutrientID = "vitaminB7"
	NutrientVitaminB9  NutrientID = "vitaminB9"
	NutrientVitaminB12 NutrientID = "vitaminB12"
	NutrientVitaminC   NutrientID = "vitaminC"
	NutrientVitaminD   NutrientID = "vitaminD"
	NutrientVitaminE   NutrientID = "vitaminE"
	NutrientVitaminK   NutrientID = "vitaminK"

	// Minerals
	NutrientCalcium    NutrientID = "calcium"
	NutrientChromium   NutrientID = "chromium"
	NutrientCopper     NutrientID = "copper"
	NutrientIodine     NutrientID = "iodine"
	NutrientIron       NutrientID = "iron"
	NutrientMagnesium  NutrientID = "magnesium"
	NutrientManganese  NutrientID = "manganese"
	NutrientPhosphorus NutrientID = "phosphorus"
	NutrientPotassium  NutrientID = "potassium"
	NutrientSelenium   NutrientID = "selenium"
	NutrientZinc       NutrientID = "zinc"
)

// NutrientInfo describes one catalog entry: display name, unit,
// recommended daily target, and optional tolerable upper limit.
type NutrientInfo struct {
	ID          NutrientID
	Name        string
	Unit        string
	DailyTarget float64
	UpperLimit  *float64
}

func limit(v float64) *float64 { return &v }

// NutrientCatalog maps every NutrientID to its reference data.
// Targets follow adult RDA values; upper limits are nil where no
// tolerable upper intake level is established.
var NutrientCatalog = map[NutrientID]NutrientInfo{
	NutrientVitaminA:   {NutrientVitaminA, "Vitamin A", "µg", 900, limit(3000)},
	NutrientVitaminB1:  {NutrientVitaminB1, "Thiamin (B1)", "mg", 1.2, nil},
	NutrientVitaminB2:  {NutrientVitaminB2, "Riboflavin (B2)", "mg", 1.3, nil},
	NutrientVitaminB3:  {NutrientVitaminB3, "Niacin (B3)", "mg", 16, limit(35)},
	NutrientVitaminB5:  {NutrientVitaminB5, "Pantothenic Acid (B5)", "mg", 5, nil},
	NutrientVitaminB6:  {NutrientVitaminB6, "Vitamin B6", "mg", 1.7, limit(100)},
	NutrientVitaminB7:  {NutrientVitaminB7, "Biotin (B7)", "µg", 30, nil},
	NutrientVitaminB9:  {NutrientVitaminB9, "Folate (B9)", "µg", 400, limit(1000)},
	NutrientVitaminB12: {NutrientVitaminB12, "Vitamin B12", "µg", 2.4, nil},
	NutrientVitaminC:   {NutrientVitaminC, "Vitamin C", "mg", 90, limit(2000)},
	NutrientVitaminD:   {NutrientVitaminD, "Vitamin D", "µg", 20, limit(100)},
	NutrientVitaminE:   {NutrientVitaminE, "Vitamin E", "mg", 15, limit(1000)},
	NutrientVitaminK:   {NutrientVitaminK, "Vitamin K", "µg", 120, nil},
	NutrientCalcium:    {NutrientCalcium, "Calcium", "mg", 1000, limit(2500)},
	NutrientChromium:   {NutrientChromium, "Chromium", "µg", 35, nil},
	NutrientCopper:     {NutrientCopper, "Copper", "mg", 0.9, limit(10)},
	NutrientIodine:     {NutrientIodine, "Iodine", "µg", 150, limit(1100)},
	NutrientIron:       {NutrientIron, "Iron", "mg", 18, limit(45)},
	NutrientMagnesium:  {NutrientMagnesium, "Magnesium", "mg", 400, limit(350)},
	NutrientManganese:  {NutrientManganese, "Manganese", "mg", 2.3, limit(11)},
	NutrientPhosphorus: {NutrientPhosphorus, "Phosphorus", "mg", 700, limit(4000)},
	NutrientPotassium:  {NutrientPotassium, "Potassium", "mg", 3400, nil},
	NutrientSelenium:   {NutrientSelenium, "Selenium", "µg", 55, limit(400)},
	NutrientZinc:       {NutrientZinc, "Zinc", "mg", 11, limit(40)},
}

// AllNutrientIDs lists every nutrient in display order:
// vitamins A through K, then minerals alphabetically.
var AllNutrientIDs = []NutrientID{
	NutrientVitaminA, NutrientVitaminB1, NutrientVitaminB2, NutrientVitaminB3,
	NutrientVitaminB5, NutrientVitaminB6, NutrientVitaminB7, NutrientVitaminB9,
	NutrientVitaminB12, NutrientVitaminC, NutrientVitaminD, NutrientVitaminE,
	NutrientVitaminK,
	NutrientCalcium, NutrientChromium, NutrientCopper, NutrientIodine,
	NutrientIron, NutrientMagnesium, NutrientManganese, NutrientPhosphorus,
	NutrientPotassium, NutrientSelenium, NutrientZinc,
}

// IsValidNutrientID checks if a string is a known nutrient id.
func IsValidNutrientID(s string) bool {
	_, ok := NutrientCatalog[NutrientID(s)]
	return ok
}

// NutrientUnit returns the display unit for a nutrient id, or "" if unknown.
func NutrientUnit(id NutrientID) string {
	return NutrientCatalog[id].Unit
}

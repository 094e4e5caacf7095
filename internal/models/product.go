// ABOUTME: Product model, the canonical per-100g nutrition reference entity.
// ABOUTME: Macros and nutrient map are stored per 100 g regardless of serving size.
package models

import (
	"time"

	"github.com/google/uuid"
)

// Product is a nutrition reference record. All numeric values are
// normalized to a 100 gram basis; ScalingEngine converts them to
// consumed amounts. Deleting a product nullifies entry references but
// entry snapshots survive.
type Product struct {
	ID      uuid.UUID
	Name    string
	Barcode *string
	Brand   *string

	// Macros per 100 g, always present.
	CaloriesPer100g float64
	ProteinPer100g  float64
	CarbsPer100g    float64
	FatPer100g      float64

	// Extended fields per 100 g, nil when unknown.
	SugarPer100g        *float64
	NaturalSugarPer100g *float64
	AddedSugarPer100g   *float64
	FibrePer100g        *float64
	SodiumPer100g       *float64
	CholesterolPer100g  *float64
	SaturatedFatPer100g *float64
	TransFatPer100g     *float64

	// Micronutrients per 100 g.
	Nutrients NutrientMap

	// ServingSize/ServingSizeUnit describe the label's serving,
	// e.g. 100 "g" or 250 "ml". Display metadata only.
	ServingSize     float64
	ServingSizeUnit string

	// PortionGrams is the weight of one portion for multi-portion
	// products (a slice of bread, a bar); nil for bulk foods.
	PortionGrams       *float64
	PortionsPerPackage *int

	ImageData     []byte
	MainImageData []byte
	Notes         *string

	IsCustom  bool
	DateAdded time.Time
}

// NewProduct creates a Product with generated UUID and current timestamp.
func NewProduct(name string, calories, protein, carbs, fat float64) *Product {
	return &Product{
		ID:              uuid.New(),
		Name:            name,
		CaloriesPer100g: calories,
		ProteinPer100g:  protein,
		CarbsPer100g:    carbs,
		FatPer100g:      fat,
		ServingSize:     100,
		ServingSizeUnit: "g",
		Nutrients:       NutrientMap{},
		DateAdded:       time.Now(),
	}
}

// WithBarcode sets the product barcode.
func (p *Product) WithBarcode(code string) *Product {
	p.Barcode = &code
	return p
}

// WithBrand sets the product brand.
func (p *Product) WithBrand(brand string) *Product {
	p.Brand = &brand
	return p
}

// WithPortion sets portion weight and optional portions per package.
func (p *Product) WithPortion(grams float64, perPackage int) *Product {
	p.PortionGrams = &grams
	if perPackage > 0 {
		p.PortionsPerPackage = &perPackage
	}
	return p
}

// WithNutrient sets a single per-100g micronutrient value.
func (p *Product) WithNutrient(id NutrientID, value float64) *Product {
	if p.Nutrients == nil {
		p.Nutrients = NutrientMap{}
	}
	p.Nutrients[id] = value
	return p
}

// WithNotes sets notes on the product.
func (p *Product) WithNotes(notes string) *Product {
	p.Notes = &notes
	return p
}

// Reference returns the product's per-100g values as a Snapshot,
// the input shape the scaling engine works on.
func (p *Product) Reference() Snapshot {
	return Snapshot{
		Calories:     p.CaloriesPer100g,
		Protein:      p.ProteinPer100g,
		Carbs:        p.CarbsPer100g,
		Fat:          p.FatPer100g,
		Sugar:        p.SugarPer100g,
		NaturalSugar: p.NaturalSugarPer100g,
		AddedSugar:   p.AddedSugarPer100g,
		Fibre:        p.FibrePer100g,
		Sodium:       p.SodiumPer100g,
		Cholesterol:  p.CholesterolPer100g,
		SaturatedFat: p.SaturatedFatPer100g,
		TransFat:     p.TransFatPer100g,
		Nutrients:    p.Nutrients,
	}
}

// ApplyReference overwrites the per-100g fields from a Snapshot.
// Used when deriving a product from a template.
func (p *Product) ApplyReference(s Snapshot) {
	p.CaloriesPer100g = s.Calories
	p.ProteinPer100g = s.Protein
	p.CarbsPer100g = s.Carbs
	p.FatPer100g = s.Fat
	p.SugarPer100g = s.Sugar
	p.NaturalSugarPer100g = s.NaturalSugar
	p.AddedSugarPer100g = s.AddedSugar
	p.FibrePer100g = s.Fibre
	p.SodiumPer100g = s.Sodium
	p.CholesterolPer100g = s.Cholesterol
	p.SaturatedFatPer100g = s.SaturatedFat
	p.TransFatPer100g = s.TransFat
	p.Nutrients = s.Nutrients.Clone()
}

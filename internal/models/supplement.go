// ABOUTME: Supplement and SupplementEntry models, scaled by serving count.
// ABOUTME: Hold only a nutrient map; no macro fields.
package models

import (
	"time"

	"github.com/google/uuid"
)

// Supplement is the reference record for a vitamin/mineral product.
// Nutrients are stored for the whole container; consuming N servings
// scales by N / ServingsPerContainer through the scaling engine.
type Supplement struct {
	ID      uuid.UUID
	Name    string
	Brand   *string
	Barcode *string

	// ServingsPerContainer is the package-unit divisor for scaling.
	ServingsPerContainer float64

	// Nutrients per package-unit.
	Nutrients NutrientMap

	Notes     *string
	DateAdded time.Time
}

// NewSupplement creates a Supplement with generated UUID and current timestamp.
func NewSupplement(name string, servingsPerContainer float64) *Supplement {
	return &Supplement{
		ID:                   uuid.New(),
		Name:                 name,
		ServingsPerContainer: servingsPerContainer,
		Nutrients:            NutrientMap{},
		DateAdded:            time.Now(),
	}
}

// WithBrand sets the supplement brand.
func (s *Supplement) WithBrand(brand string) *Supplement {
	s.Brand = &brand
	return s
}

// WithBarcode sets the supplement barcode.
func (s *Supplement) WithBarcode(code string) *Supplement {
	s.Barcode = &code
	return s
}

// WithNutrient sets a single per-unit nutrient value.
func (s *Supplement) WithNutrient(id NutrientID, value float64) *Supplement {
	if s.Nutrients == nil {
		s.Nutrients = NutrientMap{}
	}
	s.Nutrients[id] = value
	return s
}

// SupplementEntry records consuming some number of servings. Like
// FoodEntry, the nutrient snapshot is frozen at log time.
type SupplementEntry struct {
	ID           uuid.UUID
	SupplementID *uuid.UUID
	DailyLogID   *uuid.UUID

	SourceName string
	Servings   float64
	Timestamp  time.Time

	Nutrients NutrientMap
}

// NewSupplementEntry creates a SupplementEntry with generated UUID and
// current timestamp.
func NewSupplementEntry(sourceName string, servings float64, nutrients NutrientMap) *SupplementEntry {
	return &SupplementEntry{
		ID:         uuid.New(),
		SourceName: sourceName,
		Servings:   servings,
		Timestamp:  time.Now(),
		Nutrients:  nutrients,
	}
}

// WithSupplement links the entry to its source supplement.
func (e *SupplementEntry) WithSupplement(id uuid.UUID) *SupplementEntry {
	e.SupplementID = &id
	return e
}

// WithTimestamp sets a custom consumption timestamp.
func (e *SupplementEntry) WithTimestamp(t time.Time) *SupplementEntry {
	e.Timestamp = t
	return e
}

// ABOUTME: ScalingEngine, pure functions converting per-100g references to snapshots.
// ABOUTME: Also rescales existing snapshots and inverts snapshots back to per-100g.
package scale

import (
	"errors"
	"fmt"

	"github.com/harperreed/nutrition/internal/models"
)

// ErrInvalidAmount is returned for zero or negative amounts, and for a
// rescale whose current amount is zero (the ratio is undefined).
var ErrInvalidAmount = errors.New("invalid amount")

const (
	// MinAmount is the floor every amount-change is clamped to.
	// The product never shrinks an entry below one unit.
	MinAmount = 1
	// MaxAmount caps direct numeric entry.
	MaxAmount = 5000
)

// All scaling is plain IEEE-754 double arithmetic. No rounding happens
// here; rounding to display precision is a presentation concern.

// FromPer100g scales a product's per-100g reference to an absolute
// snapshot for the given consumed weight in grams.
func FromPer100g(p *models.Product, grams float64) (models.Snapshot, error) {
	if grams <= 0 {
		return models.Snapshot{}, fmt.Errorf("%w: grams must be > 0, got %g", ErrInvalidAmount, grams)
	}
	return scaleSnapshot(p.Reference(), grams/100), nil
}

// FromPortions scales a multi-portion product by portion count.
// The product must carry a portion weight.
func FromPortions(p *models.Product, portions float64) (models.Snapshot, error) {
	if p.PortionGrams == nil {
		return models.Snapshot{}, fmt.Errorf("product %q has no portion size", p.Name)
	}
	if portions <= 0 {
		return models.Snapshot{}, fmt.Errorf("%w: portions must be > 0, got %g", ErrInvalidAmount, portions)
	}
	return FromPer100g(p, *p.PortionGrams*portions)
}

// FromServings scales a supplement's per-unit nutrient map by serving
// count: ratio = servings / servingsPerContainer. Supplements carry no
// macro fields, so the result is a bare nutrient map.
func FromServings(s *models.Supplement, servings float64) (models.NutrientMap, error) {
	if servings <= 0 {
		return nil, fmt.Errorf("%w: servings must be > 0, got %g", ErrInvalidAmount, servings)
	}
	if s.ServingsPerContainer <= 0 {
		return nil, fmt.Errorf("%w: supplement %q has servings per container %g", ErrInvalidAmount, s.Name, s.ServingsPerContainer)
	}
	return s.Nutrients.Scale(servings / s.ServingsPerContainer), nil
}

// Rescale adjusts a snapshot from its current amount to a new amount.
// The new amount is clamped to [MinAmount, MaxAmount] before the ratio
// is computed; the clamped amount is returned alongside the snapshot
// so the caller can store it. A current amount of zero fails rather
// than divide by zero.
func Rescale(snap models.Snapshot, currentAmount, newAmount float64) (models.Snapshot, float64, error) {
	if currentAmount == 0 {
		return models.Snapshot{}, 0, fmt.Errorf("%w: current amount is zero", ErrInvalidAmount)
	}
	clamped := ClampAmount(newAmount)
	return scaleSnapshot(snap, clamped/currentAmount), clamped, nil
}

// ClampAmount applies the [MinAmount, MaxAmount] policy.
func ClampAmount(amount float64) float64 {
	if amount < MinAmount {
		return MinAmount
	}
	if amount > MaxAmount {
		return MaxAmount
	}
	return amount
}

// Per100gFromWeight derives per-100g reference values from an absolute
// snapshot and its total weight: scale = 100 / max(weight, 1). This is
// the exact algebraic inverse of FromPer100g and is what turns an AI
// template into a Product.
func Per100gFromWeight(snap models.Snapshot, weightGrams float64) models.Snapshot {
	w := weightGrams
	if w < 1 {
		w = 1
	}
	return scaleSnapshot(snap, 100/w)
}

// SplitSugar is the explicit added-sugar fallback policy: when a
// snapshot has total sugar but no natural/added breakdown, all sugar
// is treated as added. Display-layer heuristic only; it never writes
// back into stored snapshots.
func SplitSugar(snap models.Snapshot) (natural, added float64) {
	if snap.NaturalSugar != nil {
		natural = *snap.NaturalSugar
	}
	if snap.AddedSugar != nil {
		added = *snap.AddedSugar
		return natural, added
	}
	if snap.Sugar != nil {
		return natural, *snap.Sugar - natural
	}
	return natural, 0
}

// scaleSnapshot multiplies every populated field by factor. Optional
// fields scale only when present; nil stays nil, present zero stays a
// present zero.
func scaleSnapshot(s models.Snapshot, factor float64) models.Snapshot {
	return models.Snapshot{
		Calories:     s.Calories * factor,
		Protein:      s.Protein * factor,
		Carbs:        s.Carbs * factor,
		Fat:          s.Fat * factor,
		Sugar:        scaleOpt(s.Sugar, factor),
		NaturalSugar: scaleOpt(s.NaturalSugar, factor),
		AddedSugar:   scaleOpt(s.AddedSugar, factor),
		Fibre:        scaleOpt(s.Fibre, factor),
		Sodium:       scaleOpt(s.Sodium, factor),
		Cholesterol:  scaleOpt(s.Cholesterol, factor),
		SaturatedFat: scaleOpt(s.SaturatedFat, factor),
		TransFat:     scaleOpt(s.TransFat, factor),
		Nutrients:    s.Nutrients.Scale(factor),
	}
}

func scaleOpt(v *float64, factor float64) *float64 {
	if v == nil {
		return nil
	}
	scaled := *v * factor
	return &scaled
}

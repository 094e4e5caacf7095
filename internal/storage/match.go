// ABOUTME: Named identity-matching strategies used by the import reconciler.
// ABOUTME: One explicit function per entity type so the heuristics are testable.
package storage

import (
	"strings"
	"time"

	"github.com/harperreed/nutrition/internal/models"
)

// entryTimestampTolerance is the fuzzy-match window for entries coming
// from another device whose clock or serialization may have shaved
// sub-second precision.
const entryTimestampTolerance = time.Second

// MatchProduct resolves an incoming product against existing ones:
// exact barcode match when the incoming barcode is non-empty, else
// exact (name, brand) tuple where a nil brand only equals a nil brand.
// Returns the existing product or nil.
func MatchProduct(existing []*models.Product, incoming *models.Product) *models.Product {
	if incoming.Barcode != nil && *incoming.Barcode != "" {
		for _, p := range existing {
			if p.Barcode != nil && *p.Barcode == *incoming.Barcode {
				return p
			}
		}
	}
	for _, p := range existing {
		if p.Name == incoming.Name && optStrEqual(p.Brand, incoming.Brand) {
			return p
		}
	}
	return nil
}

// MatchSupplement applies the product rules to supplements.
func MatchSupplement(existing []*models.Supplement, incoming *models.Supplement) *models.Supplement {
	if incoming.Barcode != nil && *incoming.Barcode != "" {
		for _, s := range existing {
			if s.Barcode != nil && *s.Barcode == *incoming.Barcode {
				return s
			}
		}
	}
	for _, s := range existing {
		if s.Name == incoming.Name && optStrEqual(s.Brand, incoming.Brand) {
			return s
		}
	}
	return nil
}

// MatchDailyLog resolves by calendar-day equality: any timestamp on an
// existing log's local day matches that log.
func MatchDailyLog(existing []*models.DailyLog, date time.Time) *models.DailyLog {
	for _, l := range existing {
		if models.SameDay(l.Date, date) {
			return l
		}
	}
	return nil
}

// MatchFoodEntry is the fuzzy de-duplication heuristic: timestamps
// within ±1 second AND exactly equal calories. Two genuinely distinct
// entries logged in the same second with identical calories are
// indistinguishable and treated as duplicates; that false positive is
// accepted.
func MatchFoodEntry(existing []*models.FoodEntry, incoming *models.FoodEntry) *models.FoodEntry {
	for _, e := range existing {
		if withinTolerance(e.Timestamp, incoming.Timestamp) &&
			e.Snapshot.Calories == incoming.Snapshot.Calories {
			return e
		}
	}
	return nil
}

// MatchSupplementEntry mirrors the food-entry heuristic with servings
// standing in for calories (supplements carry no macros).
func MatchSupplementEntry(existing []*models.SupplementEntry, incoming *models.SupplementEntry) *models.SupplementEntry {
	for _, e := range existing {
		if withinTolerance(e.Timestamp, incoming.Timestamp) && e.Servings == incoming.Servings {
			return e
		}
	}
	return nil
}

// MatchTemplate resolves by case-insensitive exact name.
func MatchTemplate(existing []*models.AIFoodTemplate, name string) *models.AIFoodTemplate {
	for _, t := range existing {
		if strings.EqualFold(t.Name, name) {
			return t
		}
	}
	return nil
}

func withinTolerance(a, b time.Time) bool {
	delta := a.Sub(b)
	if delta < 0 {
		delta = -delta
	}
	return delta <= entryTimestampTolerance
}

func optStrEqual(a, b *string) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}

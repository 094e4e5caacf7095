// ABOUTME: DailyLog model owning a day's entries and macro targets.
// ABOUTME: Dates are normalized to local midnight; one log per calendar day.
package models

import (
	"time"

	"github.com/google/uuid"
)

// DailyLog is the per-day aggregate. Its Date is always local
// midnight; the store enforces at most one log per calendar day.
// Deleting a log cascades to its entries.
type DailyLog struct {
	ID   uuid.UUID
	Date time.Time

	CalorieTarget float64
	ProteinTarget float64
	CarbTarget    float64
	FatTarget     float64
}

// DayStart truncates a timestamp to local midnight of its calendar day.
// Every DailyLog date in the store passes through this.
func DayStart(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// SameDay reports whether two timestamps fall on the same local calendar day.
func SameDay(a, b time.Time) bool {
	return DayStart(a).Equal(DayStart(b))
}

// NewDailyLog creates a DailyLog for the calendar day containing t.
func NewDailyLog(t time.Time, calorieTarget, proteinTarget, carbTarget, fatTarget float64) *DailyLog {
	return &DailyLog{
		ID:            uuid.New(),
		Date:          DayStart(t),
		CalorieTarget: calorieTarget,
		ProteinTarget: proteinTarget,
		CarbTarget:    carbTarget,
		FatTarget:     fatTarget,
	}
}

// DayTotals is the reduction over a day's entries. Derived, never stored.
type DayTotals struct {
	Calories float64
	Protein  float64
	Carbs    float64
	Fat      float64

	Sugar        float64
	NaturalSugar float64
	AddedSugar   float64
	Fibre        float64
	Sodium       float64

	Nutrients NutrientMap
}

// SumEntries reduces food and supplement entries into day totals.
// Optional snapshot fields contribute only when present; an absent
// field adds nothing rather than zero-filling.
func SumEntries(foods []*FoodEntry, supplements []*SupplementEntry) DayTotals {
	totals := DayTotals{Nutrients: NutrientMap{}}
	for _, e := range foods {
		totals.Calories += e.Snapshot.Calories
		totals.Protein += e.Snapshot.Protein
		totals.Carbs += e.Snapshot.Carbs
		totals.Fat += e.Snapshot.Fat
		addOpt(&totals.Sugar, e.Snapshot.Sugar)
		addOpt(&totals.NaturalSugar, e.Snapshot.NaturalSugar)
		addOpt(&totals.AddedSugar, e.Snapshot.AddedSugar)
		addOpt(&totals.Fibre, e.Snapshot.Fibre)
		addOpt(&totals.Sodium, e.Snapshot.Sodium)
		totals.Nutrients.Add(e.Snapshot.Nutrients)
	}
	for _, s := range supplements {
		totals.Nutrients.Add(s.Nutrients)
	}
	return totals
}

func addOpt(dst *float64, v *float64) {
	if v != nil {
		*dst += *v
	}
}

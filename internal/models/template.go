// ABOUTME: AIFoodTemplate model, a reusable snapshot captured from an AI estimate.
// ABOUTME: Independent of product/entry lifecycle; tracks usage counters.
package models

import (
	"time"

	"github.com/google/uuid"
)

// AIFoodTemplate stores an accepted AI estimate for reuse. It holds
// the estimate's absolute values for the captured amount plus the
// estimated weight in grams, which lets the scaling engine derive a
// per-100g Product from it. Templates are never auto-deleted.
type AIFoodTemplate struct {
	ID   uuid.UUID
	Name string

	Amount      float64
	Unit        string
	WeightGrams float64

	Snapshot Snapshot

	AIPrompt *string
	UseCount int
	LastUsed *time.Time

	DateAdded time.Time
}

// NewAIFoodTemplate creates a template with generated UUID and current timestamp.
func NewAIFoodTemplate(name string, amount float64, unit string, weightGrams float64, snap Snapshot) *AIFoodTemplate {
	return &AIFoodTemplate{
		ID:          uuid.New(),
		Name:        name,
		Amount:      amount,
		Unit:        unit,
		WeightGrams: weightGrams,
		Snapshot:    snap,
		DateAdded:   time.Now(),
	}
}

// WithPrompt records the prompt that produced the estimate.
func (t *AIFoodTemplate) WithPrompt(prompt string) *AIFoodTemplate {
	if prompt != "" {
		t.AIPrompt = &prompt
	}
	return t
}

// MarkUsed bumps the usage counter and last-used timestamp.
func (t *AIFoodTemplate) MarkUsed(at time.Time) {
	t.UseCount++
	t.LastUsed = &at
}

// Entry materializes a FoodEntry from the template's captured snapshot.
func (t *AIFoodTemplate) Entry() *FoodEntry {
	e := NewFoodEntry(t.Name, t.Amount, t.Unit, t.Snapshot.Clone())
	e.AIGenerated = true
	if t.AIPrompt != nil {
		p := *t.AIPrompt
		e.AIPrompt = &p
	}
	return e
}

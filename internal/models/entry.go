// ABOUTME: FoodEntry model, a logged consumption event with frozen snapshot.
// ABOUTME: Keeps a denormalized source name so display survives product deletion.
package models

import (
	"time"

	"github.com/google/uuid"
)

// FoodEntry records one consumption event. The nutrition Snapshot is
// fixed at creation or amount-change time and does not track later
// edits to the source product. ProductID and DailyLogID are nullable
// foreign keys; severing them never touches the snapshot.
type FoodEntry struct {
	ID         uuid.UUID
	ProductID  *uuid.UUID
	DailyLogID *uuid.UUID

	// SourceName is captured from the product or template at log time.
	SourceName string

	Amount    float64
	Unit      string
	Timestamp time.Time

	Snapshot Snapshot

	AIGenerated bool
	AIPrompt    *string
}

// NewFoodEntry creates a FoodEntry with generated UUID and current timestamp.
func NewFoodEntry(sourceName string, amount float64, unit string, snap Snapshot) *FoodEntry {
	return &FoodEntry{
		ID:         uuid.New(),
		SourceName: sourceName,
		Amount:     amount,
		Unit:       unit,
		Timestamp:  time.Now(),
		Snapshot:   snap,
	}
}

// WithProduct links the entry to its source product.
func (e *FoodEntry) WithProduct(id uuid.UUID) *FoodEntry {
	e.ProductID = &id
	return e
}

// WithTimestamp sets a custom consumption timestamp.
func (e *FoodEntry) WithTimestamp(t time.Time) *FoodEntry {
	e.Timestamp = t
	return e
}

// WithAIPrompt marks the entry AI-generated and records the prompt.
func (e *FoodEntry) WithAIPrompt(prompt string) *FoodEntry {
	e.AIGenerated = true
	if prompt != "" {
		e.AIPrompt = &prompt
	}
	return e
}

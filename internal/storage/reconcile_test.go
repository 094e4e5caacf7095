// ABOUTME: Tests for the import reconciler.
// ABOUTME: Covers idempotence, id remapping, dangling references, and fuzzy dedup.
package storage

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/harperreed/nutrition/internal/models"
)

func TestImportIsIdempotent(t *testing.T) {
	db := setupTestDB(t)
	seedStore(t, db)

	data, err := db.Export(time.Now())
	if err != nil {
		t.Fatalf("Export failed: %v", err)
	}

	// Importing a store's own export changes nothing.
	summary, err := db.Import(data)
	if err != nil {
		t.Fatalf("Import failed: %v", err)
	}
	if summary.TotalImported() != 0 {
		t.Errorf("self-import created %d entities", summary.TotalImported())
	}
	if summary.TotalSkipped() != 6 {
		t.Errorf("skipped = %d, want 6", summary.TotalSkipped())
	}

	// And doing it again still changes nothing.
	summary, err = db.Import(data)
	if err != nil {
		t.Fatalf("Import failed: %v", err)
	}
	if summary.TotalImported() != 0 {
		t.Errorf("repeat import created %d entities", summary.TotalImported())
	}
}

func TestImportRemapsMatchedProductID(t *testing.T) {
	db := setupTestDB(t)

	// Local store already has Oats/Quaker under its own id.
	local := models.NewProduct("Oats", 370, 13, 60, 7).WithBrand("Quaker")
	if err := db.CreateProduct(local); err != nil {
		t.Fatalf("CreateProduct failed: %v", err)
	}

	// Incoming document has the same product under a foreign id, plus an
	// entry referencing that foreign id.
	foreign := uuid.New()
	doc := BackupDocument{
		Version:    BackupVersion,
		ExportDate: formatTime(time.Now()),
		Products: []BackupProduct{{
			ID:              foreign.String(),
			Name:            "Oats",
			Brand:           strPtr("Quaker"),
			Calories:        370,
			Protein:         13,
			Carbohydrates:   60,
			Fat:             7,
			ServingSize:     100,
			ServingSizeUnit: "g",
			Nutrients:       models.NutrientMap{},
			DateAdded:       formatTime(time.Now()),
		}},
		FoodEntries: []BackupFoodEntry{{
			ID:             uuid.New().String(),
			CustomFoodName: "Oats",
			Amount:         80,
			Unit:           "g",
			Calories:       296,
			Protein:        10.4,
			ProductID:      strPtr(foreign.String()),
			Nutrients:      models.NutrientMap{},
			Timestamp:      formatTime(time.Date(2026, 8, 27, 9, 0, 0, 0, time.Local)),
		}},
	}
	data, _ := json.Marshal(doc)

	summary, err := db.Import(data)
	if err != nil {
		t.Fatalf("Import failed: %v", err)
	}

	if summary.Products.Skipped != 1 || summary.Products.Imported != 0 {
		t.Errorf("products = %+v, want skip", summary.Products)
	}
	if summary.FoodEntries.Imported != 1 {
		t.Errorf("entries = %+v, want 1 import", summary.FoodEntries)
	}

	entries, err := db.ListFoodEntries(0)
	if err != nil {
		t.Fatalf("ListFoodEntries failed: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(entries))
	}
	if entries[0].ProductID == nil || *entries[0].ProductID != local.ID {
		t.Errorf("entry references %v, want local product %v", entries[0].ProductID, local.ID)
	}
}

func TestImportDropsDanglingReference(t *testing.T) {
	db := setupTestDB(t)

	// The entry references a product the document never declares.
	doc := BackupDocument{
		Version:    BackupVersion,
		ExportDate: formatTime(time.Now()),
		FoodEntries: []BackupFoodEntry{{
			ID:             uuid.New().String(),
			CustomFoodName: "Mystery Meal",
			Amount:         200,
			Unit:           "g",
			Calories:       450,
			Protein:        20,
			ProductID:      strPtr(uuid.New().String()),
			Nutrients:      models.NutrientMap{},
			Timestamp:      formatTime(time.Now()),
		}},
	}
	data, _ := json.Marshal(doc)

	summary, err := db.Import(data)
	if err != nil {
		t.Fatalf("Import failed: %v", err)
	}
	if summary.FoodEntries.Imported != 1 {
		t.Errorf("entries = %+v, want 1 import", summary.FoodEntries)
	}

	entries, err := db.ListFoodEntries(0)
	if err != nil {
		t.Fatalf("ListFoodEntries failed: %v", err)
	}
	if entries[0].ProductID != nil {
		t.Error("dangling reference survived import")
	}
	if entries[0].Snapshot.Calories != 450 || entries[0].SourceName != "Mystery Meal" {
		t.Error("entry data lost while dropping the reference")
	}
}

func TestImportMergesDailyLogsByCalendarDay(t *testing.T) {
	db := setupTestDB(t)
	defaults := Targets{Calories: 2000}

	// Local log for Jan 15.
	local, err := db.GetOrCreateDailyLog(time.Date(2026, 1, 15, 8, 0, 0, 0, time.Local), defaults)
	if err != nil {
		t.Fatalf("GetOrCreateDailyLog failed: %v", err)
	}

	// Incoming doc has a log for the same day (different id, 23:59) and
	// one for the next day.
	doc := BackupDocument{
		Version:    BackupVersion,
		ExportDate: formatTime(time.Now()),
		DailyLogs: []BackupDailyLog{
			{
				ID:            uuid.New().String(),
				Date:          formatTime(time.Date(2026, 1, 15, 23, 59, 0, 0, time.Local)),
				CalorieTarget: 1800,
			},
			{
				ID:            uuid.New().String(),
				Date:          formatTime(time.Date(2026, 1, 16, 0, 0, 1, 0, time.Local)),
				CalorieTarget: 1800,
			},
		},
	}
	data, _ := json.Marshal(doc)

	summary, err := db.Import(data)
	if err != nil {
		t.Fatalf("Import failed: %v", err)
	}
	if summary.DailyLogs.Skipped != 1 || summary.DailyLogs.Imported != 1 {
		t.Errorf("daily logs = %+v, want 1 skip / 1 import", summary.DailyLogs)
	}

	// The matched day keeps the local targets.
	kept, err := db.GetDailyLogByDate(time.Date(2026, 1, 15, 12, 0, 0, 0, time.Local))
	if err != nil {
		t.Fatalf("GetDailyLogByDate failed: %v", err)
	}
	if kept.ID != local.ID || kept.CalorieTarget != 2000 {
		t.Error("import overwrote the existing day")
	}
}

func TestImportFuzzyEntryDedup(t *testing.T) {
	db := setupTestDB(t)

	at := time.Date(2026, 8, 27, 9, 0, 0, 0, time.Local)
	existing := models.NewFoodEntry("Oats", 80, "g", models.Snapshot{Calories: 296}).WithTimestamp(at)
	if err := db.CreateFoodEntry(existing); err != nil {
		t.Fatalf("CreateFoodEntry failed: %v", err)
	}

	mkEntry := func(ts time.Time, calories float64) BackupFoodEntry {
		return BackupFoodEntry{
			ID:             uuid.New().String(),
			CustomFoodName: "Oats",
			Amount:         80,
			Unit:           "g",
			Calories:       calories,
			Nutrients:      models.NutrientMap{},
			Timestamp:      formatTime(ts),
		}
	}

	doc := BackupDocument{
		Version:    BackupVersion,
		ExportDate: formatTime(time.Now()),
		FoodEntries: []BackupFoodEntry{
			mkEntry(at.Add(500*time.Millisecond), 296), // within ±1s, same calories: skip
			mkEntry(at.Add(2*time.Second), 296),        // outside window: import
			mkEntry(at, 300),                           // same second, different calories: import
		},
	}
	data, _ := json.Marshal(doc)

	summary, err := db.Import(data)
	if err != nil {
		t.Fatalf("Import failed: %v", err)
	}
	if summary.FoodEntries.Skipped != 1 {
		t.Errorf("skipped = %d, want 1", summary.FoodEntries.Skipped)
	}
	if summary.FoodEntries.Imported != 2 {
		t.Errorf("imported = %d, want 2", summary.FoodEntries.Imported)
	}
}

func TestImportDedupsWithinDocument(t *testing.T) {
	db := setupTestDB(t)

	// The same product twice under different ids inside one document.
	mk := func() BackupProduct {
		return BackupProduct{
			ID:              uuid.New().String(),
			Name:            "Oats",
			Calories:        370,
			Protein:         13,
			Carbohydrates:   60,
			Fat:             7,
			ServingSize:     100,
			ServingSizeUnit: "g",
			Nutrients:       models.NutrientMap{},
			DateAdded:       formatTime(time.Now()),
		}
	}
	doc := BackupDocument{
		Version:    BackupVersion,
		ExportDate: formatTime(time.Now()),
		Products:   []BackupProduct{mk(), mk()},
	}
	data, _ := json.Marshal(doc)

	summary, err := db.Import(data)
	if err != nil {
		t.Fatalf("Import failed: %v", err)
	}
	if summary.Products.Imported != 1 || summary.Products.Skipped != 1 {
		t.Errorf("products = %+v, want 1 import / 1 skip", summary.Products)
	}
}

func TestImportMalformedLeavesStoreUntouched(t *testing.T) {
	db := setupTestDB(t)
	seedStore(t, db)

	before, err := db.ListProducts(0)
	if err != nil {
		t.Fatalf("ListProducts failed: %v", err)
	}

	if _, err := db.Import([]byte("not json")); err == nil {
		t.Fatal("expected error for malformed input")
	}

	// Bad entity inside a valid envelope also aborts cleanly.
	doc := BackupDocument{
		Version:    BackupVersion,
		ExportDate: formatTime(time.Now()),
		Products: []BackupProduct{{
			ID:        "not-a-uuid",
			Name:      "Broken",
			Nutrients: models.NutrientMap{},
			DateAdded: formatTime(time.Now()),
		}},
	}
	data, _ := json.Marshal(doc)
	if _, err := db.Import(data); err == nil {
		t.Fatal("expected error for invalid uuid")
	}

	after, err := db.ListProducts(0)
	if err != nil {
		t.Fatalf("ListProducts failed: %v", err)
	}
	if len(after) != len(before) {
		t.Errorf("failed import mutated the store: %d -> %d products", len(before), len(after))
	}
}

func strPtr(s string) *string { return &s }

// ABOUTME: Tests for Repository interface implementations.
// ABOUTME: Verifies CRUD for products, supplements, logs, entries, templates.
package storage

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/harperreed/nutrition/internal/models"
)

func TestCreateAndGetProduct(t *testing.T) {
	db := setupTestDB(t)

	p := models.NewProduct("Oats", 370, 13, 60, 7).WithBrand("Quaker").WithBarcode("0123456789")
	p.SugarPer100g = models.Float64Ptr(1.1)
	p.WithNutrient(models.NutrientIron, 4.2)
	p.WithPortion(40, 12)

	if err := db.CreateProduct(p); err != nil {
		t.Fatalf("CreateProduct failed: %v", err)
	}

	got, err := db.GetProduct(p.ID.String())
	if err != nil {
		t.Fatalf("GetProduct failed: %v", err)
	}

	if got.ID != p.ID || got.Name != "Oats" {
		t.Errorf("got %v %s", got.ID, got.Name)
	}
	if got.Brand == nil || *got.Brand != "Quaker" {
		t.Errorf("Brand = %v, want Quaker", got.Brand)
	}
	if got.SugarPer100g == nil || *got.SugarPer100g != 1.1 {
		t.Errorf("Sugar = %v, want 1.1", got.SugarPer100g)
	}
	if got.NaturalSugarPer100g != nil {
		t.Error("absent field came back present")
	}
	if got.Nutrients[models.NutrientIron] != 4.2 {
		t.Errorf("iron = %f, want 4.2", got.Nutrients[models.NutrientIron])
	}
	if got.PortionGrams == nil || *got.PortionGrams != 40 {
		t.Errorf("PortionGrams = %v, want 40", got.PortionGrams)
	}
	if got.PortionsPerPackage == nil || *got.PortionsPerPackage != 12 {
		t.Errorf("PortionsPerPackage = %v, want 12", got.PortionsPerPackage)
	}
}

func TestGetProductByPrefix(t *testing.T) {
	db := setupTestDB(t)

	p := models.NewProduct("Oats", 370, 13, 60, 7)
	if err := db.CreateProduct(p); err != nil {
		t.Fatalf("CreateProduct failed: %v", err)
	}

	got, err := db.GetProduct(p.ID.String()[:8])
	if err != nil {
		t.Fatalf("GetProduct by prefix failed: %v", err)
	}
	if got.ID != p.ID {
		t.Errorf("ID mismatch: got %v, want %v", got.ID, p.ID)
	}
}

func TestGetProductNotFound(t *testing.T) {
	db := setupTestDB(t)

	if _, err := db.GetProduct("ffffffff"); !errors.Is(err, ErrNotFound) {
		t.Errorf("error = %v, want ErrNotFound", err)
	}
}

func TestFindProductByBarcode(t *testing.T) {
	db := setupTestDB(t)

	p := models.NewProduct("Oats", 370, 13, 60, 7).WithBarcode("0123456789")
	if err := db.CreateProduct(p); err != nil {
		t.Fatalf("CreateProduct failed: %v", err)
	}

	got, err := db.FindProductByBarcode("0123456789")
	if err != nil {
		t.Fatalf("FindProductByBarcode failed: %v", err)
	}
	if got.ID != p.ID {
		t.Errorf("ID mismatch: got %v, want %v", got.ID, p.ID)
	}

	if _, err := db.FindProductByBarcode("999"); !errors.Is(err, ErrNotFound) {
		t.Errorf("missing barcode error = %v, want ErrNotFound", err)
	}
}

func TestFindProductByNameBrand(t *testing.T) {
	db := setupTestDB(t)

	plain := models.NewProduct("Oats", 370, 13, 60, 7)
	branded := models.NewProduct("Oats", 380, 12, 62, 8).WithBrand("Quaker")
	if err := db.CreateProduct(plain); err != nil {
		t.Fatalf("CreateProduct failed: %v", err)
	}
	if err := db.CreateProduct(branded); err != nil {
		t.Fatalf("CreateProduct failed: %v", err)
	}

	got, err := db.FindProductByNameBrand("Oats", nil)
	if err != nil {
		t.Fatalf("FindProductByNameBrand(nil brand) failed: %v", err)
	}
	if got.ID != plain.ID {
		t.Error("nil brand matched the branded product")
	}

	brand := "Quaker"
	got, err = db.FindProductByNameBrand("Oats", &brand)
	if err != nil {
		t.Fatalf("FindProductByNameBrand(Quaker) failed: %v", err)
	}
	if got.ID != branded.ID {
		t.Error("brand lookup matched the wrong product")
	}
}

func TestDeleteProductNullifiesEntryReference(t *testing.T) {
	db := setupTestDB(t)

	p := models.NewProduct("Oats", 370, 13, 60, 7)
	if err := db.CreateProduct(p); err != nil {
		t.Fatalf("CreateProduct failed: %v", err)
	}

	e := models.NewFoodEntry("Oats", 80, "g", models.Snapshot{Calories: 296, Protein: 10.4}).WithProduct(p.ID)
	if err := db.CreateFoodEntry(e); err != nil {
		t.Fatalf("CreateFoodEntry failed: %v", err)
	}

	if err := db.DeleteProduct(p.ID.String()); err != nil {
		t.Fatalf("DeleteProduct failed: %v", err)
	}

	got, err := db.GetFoodEntry(e.ID.String())
	if err != nil {
		t.Fatalf("GetFoodEntry failed: %v", err)
	}
	if got.ProductID != nil {
		t.Error("entry still references the deleted product")
	}
	if got.Snapshot.Calories != 296 {
		t.Errorf("snapshot calories = %f, want 296", got.Snapshot.Calories)
	}
	if got.SourceName != "Oats" {
		t.Errorf("source name = %s, want Oats", got.SourceName)
	}
}

func TestCreateAndGetSupplement(t *testing.T) {
	db := setupTestDB(t)

	s := models.NewSupplement("Vitamin D3", 90).WithBrand("NOW").WithNutrient(models.NutrientVitaminD, 2250)
	if err := db.CreateSupplement(s); err != nil {
		t.Fatalf("CreateSupplement failed: %v", err)
	}

	got, err := db.GetSupplement(s.ID.String()[:8])
	if err != nil {
		t.Fatalf("GetSupplement failed: %v", err)
	}
	if got.Name != "Vitamin D3" || got.ServingsPerContainer != 90 {
		t.Errorf("got %s/%f", got.Name, got.ServingsPerContainer)
	}
	if got.Nutrients[models.NutrientVitaminD] != 2250 {
		t.Errorf("vitaminD = %f, want 2250", got.Nutrients[models.NutrientVitaminD])
	}
}

func TestGetOrCreateDailyLogIsIdempotentPerDay(t *testing.T) {
	db := setupTestDB(t)
	defaults := Targets{Calories: 2000, Protein: 120, Carbs: 250, Fat: 70}

	lateNight := time.Date(2026, 1, 15, 23, 59, 0, 0, time.Local)
	log1, err := db.GetOrCreateDailyLog(lateNight, defaults)
	if err != nil {
		t.Fatalf("GetOrCreateDailyLog failed: %v", err)
	}
	if !log1.Date.Equal(models.DayStart(lateNight)) {
		t.Errorf("log date = %v, want local midnight", log1.Date)
	}
	if log1.CalorieTarget != 2000 {
		t.Errorf("calorie target = %f, want 2000", log1.CalorieTarget)
	}

	// Same calendar day, different time: same log.
	sameDay := time.Date(2026, 1, 15, 0, 0, 1, 0, time.Local)
	log2, err := db.GetOrCreateDailyLog(sameDay, defaults)
	if err != nil {
		t.Fatalf("GetOrCreateDailyLog failed: %v", err)
	}
	if log2.ID != log1.ID {
		t.Error("same day produced a second log")
	}

	// Just past midnight the next day: new log.
	nextDay := time.Date(2026, 1, 16, 0, 0, 1, 0, time.Local)
	log3, err := db.GetOrCreateDailyLog(nextDay, defaults)
	if err != nil {
		t.Fatalf("GetOrCreateDailyLog failed: %v", err)
	}
	if log3.ID == log1.ID {
		t.Error("next day reused the previous day's log")
	}

	logs, err := db.ListDailyLogs(0)
	if err != nil {
		t.Fatalf("ListDailyLogs failed: %v", err)
	}
	if len(logs) != 2 {
		t.Errorf("expected 2 logs, got %d", len(logs))
	}
}

func TestUpdateDailyLogTargets(t *testing.T) {
	db := setupTestDB(t)

	log, err := db.GetOrCreateDailyLog(time.Now(), Targets{Calories: 2000, Protein: 120, Carbs: 250, Fat: 70})
	if err != nil {
		t.Fatalf("GetOrCreateDailyLog failed: %v", err)
	}

	log.CalorieTarget = 2200
	log.ProteinTarget = 140
	if err := db.UpdateDailyLogTargets(log); err != nil {
		t.Fatalf("UpdateDailyLogTargets failed: %v", err)
	}

	got, err := db.GetDailyLogByDate(time.Now())
	if err != nil {
		t.Fatalf("GetDailyLogByDate failed: %v", err)
	}
	if got.CalorieTarget != 2200 || got.ProteinTarget != 140 {
		t.Errorf("targets = %f/%f, want 2200/140", got.CalorieTarget, got.ProteinTarget)
	}
}

func TestDeleteDailyLogCascadesToEntries(t *testing.T) {
	db := setupTestDB(t)

	log, err := db.GetOrCreateDailyLog(time.Now(), Targets{Calories: 2000})
	if err != nil {
		t.Fatalf("GetOrCreateDailyLog failed: %v", err)
	}

	e := models.NewFoodEntry("Oats", 80, "g", models.Snapshot{Calories: 296})
	e.DailyLogID = &log.ID
	if err := db.CreateFoodEntry(e); err != nil {
		t.Fatalf("CreateFoodEntry failed: %v", err)
	}

	if err := db.DeleteDailyLog(log.ID.String()); err != nil {
		t.Fatalf("DeleteDailyLog failed: %v", err)
	}

	if _, err := db.GetFoodEntry(e.ID.String()); !errors.Is(err, ErrNotFound) {
		t.Errorf("entry survived log deletion: %v", err)
	}
}

func TestFoodEntryCRUD(t *testing.T) {
	db := setupTestDB(t)

	log, err := db.GetOrCreateDailyLog(time.Now(), Targets{Calories: 2000})
	if err != nil {
		t.Fatalf("GetOrCreateDailyLog failed: %v", err)
	}

	e := models.NewFoodEntry("Oats", 80, "g", models.Snapshot{
		Calories:  296,
		Protein:   10.4,
		Sugar:     models.Float64Ptr(0.9),
		Nutrients: models.NutrientMap{models.NutrientIron: 3.4},
	})
	e.DailyLogID = &log.ID
	if err := db.CreateFoodEntry(e); err != nil {
		t.Fatalf("CreateFoodEntry failed: %v", err)
	}

	got, err := db.GetFoodEntry(e.ID.String()[:8])
	if err != nil {
		t.Fatalf("GetFoodEntry failed: %v", err)
	}
	if got.Snapshot.Sugar == nil || *got.Snapshot.Sugar != 0.9 {
		t.Errorf("sugar = %v, want 0.9", got.Snapshot.Sugar)
	}
	if got.Snapshot.Nutrients[models.NutrientIron] != 3.4 {
		t.Errorf("iron = %f, want 3.4", got.Snapshot.Nutrients[models.NutrientIron])
	}

	got.Amount = 120
	got.Snapshot.Calories = 444
	if err := db.UpdateFoodEntry(got); err != nil {
		t.Fatalf("UpdateFoodEntry failed: %v", err)
	}

	updated, err := db.GetFoodEntry(e.ID.String())
	if err != nil {
		t.Fatalf("GetFoodEntry failed: %v", err)
	}
	if updated.Amount != 120 || updated.Snapshot.Calories != 444 {
		t.Errorf("update lost: %f/%f", updated.Amount, updated.Snapshot.Calories)
	}

	if err := db.DeleteFoodEntry(e.ID.String()); err != nil {
		t.Fatalf("DeleteFoodEntry failed: %v", err)
	}
	if _, err := db.GetFoodEntry(e.ID.String()); !errors.Is(err, ErrNotFound) {
		t.Errorf("deleted entry still readable: %v", err)
	}
}

func TestListFoodEntriesForLogOrder(t *testing.T) {
	db := setupTestDB(t)

	log, err := db.GetOrCreateDailyLog(time.Now(), Targets{})
	if err != nil {
		t.Fatalf("GetOrCreateDailyLog failed: %v", err)
	}

	base := time.Date(2026, 8, 27, 8, 0, 0, 0, time.Local)
	later := models.NewFoodEntry("Lunch", 300, "g", models.Snapshot{Calories: 600}).WithTimestamp(base.Add(4 * time.Hour))
	earlier := models.NewFoodEntry("Breakfast", 80, "g", models.Snapshot{Calories: 296}).WithTimestamp(base)
	later.DailyLogID = &log.ID
	earlier.DailyLogID = &log.ID

	if err := db.CreateFoodEntry(later); err != nil {
		t.Fatalf("CreateFoodEntry failed: %v", err)
	}
	if err := db.CreateFoodEntry(earlier); err != nil {
		t.Fatalf("CreateFoodEntry failed: %v", err)
	}

	entries, err := db.ListFoodEntriesForLog(log.ID)
	if err != nil {
		t.Fatalf("ListFoodEntriesForLog failed: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(entries))
	}
	if entries[0].SourceName != "Breakfast" {
		t.Errorf("entries not in timestamp order: first is %s", entries[0].SourceName)
	}
}

func TestSupplementEntryCRUD(t *testing.T) {
	db := setupTestDB(t)

	s := models.NewSupplement("Vitamin D3", 90).WithNutrient(models.NutrientVitaminD, 2250)
	if err := db.CreateSupplement(s); err != nil {
		t.Fatalf("CreateSupplement failed: %v", err)
	}

	log, err := db.GetOrCreateDailyLog(time.Now(), Targets{})
	if err != nil {
		t.Fatalf("GetOrCreateDailyLog failed: %v", err)
	}

	e := models.NewSupplementEntry("Vitamin D3", 1, models.NutrientMap{models.NutrientVitaminD: 25}).WithSupplement(s.ID)
	e.DailyLogID = &log.ID
	if err := db.CreateSupplementEntry(e); err != nil {
		t.Fatalf("CreateSupplementEntry failed: %v", err)
	}

	entries, err := db.ListSupplementEntriesForLog(log.ID)
	if err != nil {
		t.Fatalf("ListSupplementEntriesForLog failed: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(entries))
	}
	if entries[0].Nutrients[models.NutrientVitaminD] != 25 {
		t.Errorf("vitaminD = %f, want 25", entries[0].Nutrients[models.NutrientVitaminD])
	}

	if err := db.DeleteSupplementEntry(e.ID.String()); err != nil {
		t.Fatalf("DeleteSupplementEntry failed: %v", err)
	}
}

func TestTemplateCRUD(t *testing.T) {
	db := setupTestDB(t)

	tmpl := models.NewAIFoodTemplate("Pad Thai", 1, "bowl", 350, models.Snapshot{Calories: 620, Protein: 24}).
		WithPrompt("a bowl of pad thai")
	if err := db.CreateTemplate(tmpl); err != nil {
		t.Fatalf("CreateTemplate failed: %v", err)
	}

	// Case-insensitive name lookup
	got, err := db.FindTemplateByName("pad thai")
	if err != nil {
		t.Fatalf("FindTemplateByName failed: %v", err)
	}
	if got.ID != tmpl.ID {
		t.Errorf("ID mismatch: got %v, want %v", got.ID, tmpl.ID)
	}
	if got.WeightGrams != 350 {
		t.Errorf("WeightGrams = %f, want 350", got.WeightGrams)
	}

	got.MarkUsed(time.Now())
	if err := db.UpdateTemplate(got); err != nil {
		t.Fatalf("UpdateTemplate failed: %v", err)
	}

	again, err := db.GetTemplate(tmpl.ID.String())
	if err != nil {
		t.Fatalf("GetTemplate failed: %v", err)
	}
	if again.UseCount != 1 || again.LastUsed == nil {
		t.Errorf("usage not persisted: count=%d lastUsed=%v", again.UseCount, again.LastUsed)
	}
}

func setupTestDB(t *testing.T) *DB {
	t.Helper()

	tmpDir, err := os.MkdirTemp("", "nutrition-test-*")
	if err != nil {
		t.Fatalf("Failed to create temp dir: %v", err)
	}
	t.Cleanup(func() { _ = os.RemoveAll(tmpDir) })

	dbPath := filepath.Join(tmpDir, "nutrition.db")
	db, err := Open(dbPath)
	if err != nil {
		t.Fatalf("Failed to open database: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	return db
}

// ABOUTME: Tests for export formats and backup decoding.
// ABOUTME: Verifies deterministic JSON, YAML/Markdown views, and version handling.
package storage

import (
	"bytes"
	"encoding/json"
	"errors"
	"sort"
	"strings"
	"testing"
	"time"

	"github.com/harperreed/nutrition/internal/models"
	"gopkg.in/yaml.v3"
)

func seedStore(t *testing.T, db *DB) {
	t.Helper()

	p := models.NewProduct("Oats", 370, 13, 60, 7).WithBrand("Quaker")
	p.WithNutrient(models.NutrientIron, 4.2)
	if err := db.CreateProduct(p); err != nil {
		t.Fatalf("CreateProduct failed: %v", err)
	}

	s := models.NewSupplement("Vitamin D3", 90).WithNutrient(models.NutrientVitaminD, 2250)
	if err := db.CreateSupplement(s); err != nil {
		t.Fatalf("CreateSupplement failed: %v", err)
	}

	log, err := db.GetOrCreateDailyLog(time.Date(2026, 8, 27, 9, 0, 0, 0, time.Local), Targets{Calories: 2000, Protein: 120, Carbs: 250, Fat: 70})
	if err != nil {
		t.Fatalf("GetOrCreateDailyLog failed: %v", err)
	}

	e := models.NewFoodEntry("Oats", 80, "g", models.Snapshot{Calories: 296, Protein: 10.4, Sugar: models.Float64Ptr(0.9)}).
		WithProduct(p.ID).
		WithTimestamp(time.Date(2026, 8, 27, 9, 0, 0, 0, time.Local))
	e.DailyLogID = &log.ID
	if err := db.CreateFoodEntry(e); err != nil {
		t.Fatalf("CreateFoodEntry failed: %v", err)
	}

	se := models.NewSupplementEntry("Vitamin D3", 1, models.NutrientMap{models.NutrientVitaminD: 25}).
		WithSupplement(s.ID).
		WithTimestamp(time.Date(2026, 8, 27, 9, 5, 0, 0, time.Local))
	se.DailyLogID = &log.ID
	if err := db.CreateSupplementEntry(se); err != nil {
		t.Fatalf("CreateSupplementEntry failed: %v", err)
	}

	tmpl := models.NewAIFoodTemplate("Pad Thai", 1, "bowl", 350, models.Snapshot{Calories: 620, Protein: 24})
	if err := db.CreateTemplate(tmpl); err != nil {
		t.Fatalf("CreateTemplate failed: %v", err)
	}
}

func TestExportDeterministic(t *testing.T) {
	db := setupTestDB(t)
	seedStore(t, db)

	at := time.Date(2026, 8, 28, 12, 0, 0, 0, time.UTC)

	first, err := db.Export(at)
	if err != nil {
		t.Fatalf("Export failed: %v", err)
	}
	second, err := db.Export(at)
	if err != nil {
		t.Fatalf("Export failed: %v", err)
	}

	if !bytes.Equal(first, second) {
		t.Error("two exports of an unchanged store differ")
	}
}

func TestExportStructure(t *testing.T) {
	db := setupTestDB(t)
	seedStore(t, db)

	data, err := db.Export(time.Now())
	if err != nil {
		t.Fatalf("Export failed: %v", err)
	}

	var doc BackupDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		t.Fatalf("Failed to parse JSON: %v", err)
	}

	if doc.Version != BackupVersion {
		t.Errorf("version = %d, want %d", doc.Version, BackupVersion)
	}
	if len(doc.Products) != 1 || len(doc.Supplements) != 1 {
		t.Errorf("products=%d supplements=%d, want 1/1", len(doc.Products), len(doc.Supplements))
	}
	if len(doc.DailyLogs) != 1 || len(doc.FoodEntries) != 1 || len(doc.SupplementEntries) != 1 {
		t.Errorf("logs=%d entries=%d suppl=%d, want 1/1/1",
			len(doc.DailyLogs), len(doc.FoodEntries), len(doc.SupplementEntries))
	}
	if len(doc.AITemplates) != 1 {
		t.Errorf("templates = %d, want 1", len(doc.AITemplates))
	}

	fe := doc.FoodEntries[0]
	if fe.ProductID == nil || fe.DailyLogID == nil {
		t.Error("entry references not serialized")
	}
	if fe.Sugar == nil || *fe.Sugar != 0.9 {
		t.Errorf("sugar = %v, want 0.9", fe.Sugar)
	}
	if fe.NaturalSugar != nil {
		t.Error("absent field serialized as present")
	}
}

func TestExportSortedByID(t *testing.T) {
	db := setupTestDB(t)

	for i := 0; i < 5; i++ {
		p := models.NewProduct("Product", 100, 1, 1, 1)
		p.Name = p.ID.String()[:4]
		if err := db.CreateProduct(p); err != nil {
			t.Fatalf("CreateProduct failed: %v", err)
		}
	}

	doc, err := db.Snapshot(time.Now())
	if err != nil {
		t.Fatalf("Snapshot failed: %v", err)
	}

	ids := make([]string, 0, len(doc.Products))
	for _, p := range doc.Products {
		ids = append(ids, p.ID)
	}
	if !sort.StringsAreSorted(ids) {
		t.Errorf("products not sorted by id: %v", ids)
	}
}

func TestExportYAML(t *testing.T) {
	db := setupTestDB(t)
	seedStore(t, db)

	data, err := db.ExportYAML(time.Now())
	if err != nil {
		t.Fatalf("ExportYAML failed: %v", err)
	}

	var parsed map[string]interface{}
	if err := yaml.Unmarshal(data, &parsed); err != nil {
		t.Fatalf("Failed to parse YAML: %v", err)
	}
	if parsed["version"] != BackupVersion {
		t.Errorf("version = %v, want %d", parsed["version"], BackupVersion)
	}
	if !strings.Contains(string(data), "Oats") {
		t.Error("YAML missing product name")
	}
}

func TestExportMarkdown(t *testing.T) {
	db := setupTestDB(t)
	seedStore(t, db)

	md, err := db.ExportMarkdown(nil)
	if err != nil {
		t.Fatalf("ExportMarkdown failed: %v", err)
	}

	if !strings.Contains(md, "## 2026-08-27") {
		t.Error("markdown missing day heading")
	}
	if !strings.Contains(md, "Oats") {
		t.Error("markdown missing entry")
	}
	if !strings.Contains(md, "Vitamin D3") {
		t.Error("markdown missing supplement")
	}

	// A since date after the logged day filters it out.
	since := time.Date(2026, 9, 1, 0, 0, 0, 0, time.Local)
	filtered, err := db.ExportMarkdown(&since)
	if err != nil {
		t.Fatalf("ExportMarkdown failed: %v", err)
	}
	if strings.Contains(filtered, "## 2026-08-27") {
		t.Error("since filter did not exclude older day")
	}
}

func TestDecodeBackupMalformed(t *testing.T) {
	if _, err := DecodeBackup([]byte("not json")); !errors.Is(err, ErrMalformedBackup) {
		t.Errorf("garbage error = %v, want ErrMalformedBackup", err)
	}
	if _, err := DecodeBackup([]byte(`{"products": []}`)); !errors.Is(err, ErrMalformedBackup) {
		t.Errorf("missing version error = %v, want ErrMalformedBackup", err)
	}
}

func TestDecodeBackupUnsupportedVersion(t *testing.T) {
	if _, err := DecodeBackup([]byte(`{"version": 99}`)); !errors.Is(err, ErrUnsupportedVersion) {
		t.Errorf("error = %v, want ErrUnsupportedVersion", err)
	}
}

func TestExportImportRoundTrip(t *testing.T) {
	db := setupTestDB(t)
	seedStore(t, db)

	data, err := db.Export(time.Now())
	if err != nil {
		t.Fatalf("Export failed: %v", err)
	}

	fresh := setupTestDB(t)
	summary, err := fresh.Import(data)
	if err != nil {
		t.Fatalf("Import failed: %v", err)
	}
	if summary.TotalImported() != 6 || summary.TotalSkipped() != 0 {
		t.Errorf("imported=%d skipped=%d, want 6/0", summary.TotalImported(), summary.TotalSkipped())
	}

	// The fresh store exports the same graph.
	products, err := fresh.ListProducts(0)
	if err != nil {
		t.Fatalf("ListProducts failed: %v", err)
	}
	if len(products) != 1 || products[0].Name != "Oats" {
		t.Errorf("products = %v", products)
	}

	entries, err := fresh.ListFoodEntries(0)
	if err != nil {
		t.Fatalf("ListFoodEntries failed: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("entries = %d, want 1", len(entries))
	}
	if entries[0].ProductID == nil || *entries[0].ProductID != products[0].ID {
		t.Error("entry reference not re-homed to the imported product")
	}
}

// ABOUTME: Tests for MCP server, tools, and resources.
// ABOUTME: Covers NewServer, estimate logging, day queries, and templates.
package mcp

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/harperreed/nutrition/internal/models"
	"github.com/harperreed/nutrition/internal/storage"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// setupTestDB creates a test database in a temp directory.
func setupTestDB(t *testing.T) *storage.DB {
	t.Helper()

	tmpDir, err := os.MkdirTemp("", "nutrition-mcp-test-*")
	if err != nil {
		t.Fatalf("Failed to create temp dir: %v", err)
	}
	t.Cleanup(func() { _ = os.RemoveAll(tmpDir) })

	dbPath := filepath.Join(tmpDir, "nutrition.db")
	db, err := storage.Open(dbPath)
	if err != nil {
		t.Fatalf("Failed to open database: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	return db
}

func testTargets() storage.Targets {
	return storage.Targets{Calories: 2000, Protein: 120, Carbs: 250, Fat: 70}
}

func TestNewServer(t *testing.T) {
	db := setupTestDB(t)

	server, err := NewServer(db, testTargets())
	if err != nil {
		t.Fatalf("NewServer failed: %v", err)
	}

	if server == nil {
		t.Fatal("Expected non-nil server")
	}
	if server.mcpServer == nil {
		t.Error("Expected non-nil mcpServer")
	}
	if server.repo == nil {
		t.Error("Expected non-nil repo")
	}
}

func TestHandleLogFoodEstimate(t *testing.T) {
	db := setupTestDB(t)
	server, _ := NewServer(db, testTargets())
	ctx := context.Background()

	input := logFoodEstimateInput{
		Name:        "pad thai",
		Amount:      1,
		Unit:        "bowl",
		WeightGrams: 350,
		Calories:    620,
		Protein:     24,
		Carbs:       80,
		Fat:         22,
		Nutrients:   map[string]float64{"iron": 3.2, "bogus": 1},
		Prompt:      "a bowl of pad thai",
	}

	_, output, err := server.handleLogFoodEstimate(ctx, &mcp.CallToolRequest{}, input)
	if err != nil {
		t.Fatalf("handleLogFoodEstimate failed: %v", err)
	}
	if output.Calories != 620 {
		t.Errorf("Calories = %f, want 620", output.Calories)
	}

	// A template was saved under the food's name.
	tmpl, err := db.FindTemplateByName("pad thai")
	if err != nil {
		t.Fatalf("template not saved: %v", err)
	}
	if tmpl.WeightGrams != 350 {
		t.Errorf("WeightGrams = %f, want 350", tmpl.WeightGrams)
	}
	if tmpl.UseCount != 1 {
		t.Errorf("UseCount = %d, want 1", tmpl.UseCount)
	}
	if _, ok := tmpl.Snapshot.Nutrients[models.NutrientIron]; !ok {
		t.Error("valid nutrient dropped")
	}
	if _, ok := tmpl.Snapshot.Nutrients["bogus"]; ok {
		t.Error("unknown nutrient id accepted")
	}

	// The entry landed in today's log.
	log, err := db.GetDailyLogByDate(time.Now())
	if err != nil {
		t.Fatalf("daily log not created: %v", err)
	}
	entries, err := db.ListFoodEntriesForLog(log.ID)
	if err != nil {
		t.Fatalf("ListFoodEntriesForLog failed: %v", err)
	}
	if len(entries) != 1 || !entries[0].AIGenerated {
		t.Errorf("entries = %d, want 1 AI-generated", len(entries))
	}

	// Logging the same name again reuses the template.
	_, _, err = server.handleLogFoodEstimate(ctx, &mcp.CallToolRequest{}, input)
	if err != nil {
		t.Fatalf("second estimate failed: %v", err)
	}
	templates, err := db.ListTemplates(0)
	if err != nil {
		t.Fatalf("ListTemplates failed: %v", err)
	}
	if len(templates) != 1 {
		t.Errorf("templates = %d, want 1", len(templates))
	}
	if templates[0].UseCount != 2 {
		t.Errorf("UseCount = %d, want 2", templates[0].UseCount)
	}
}

func TestHandleLogFoodEstimateValidation(t *testing.T) {
	db := setupTestDB(t)
	server, _ := NewServer(db, testTargets())
	ctx := context.Background()

	_, _, err := server.handleLogFoodEstimate(ctx, &mcp.CallToolRequest{}, logFoodEstimateInput{
		Amount: 1, Unit: "bowl", WeightGrams: 350,
	})
	if err == nil || !strings.Contains(err.Error(), "name") {
		t.Errorf("missing name error = %v", err)
	}

	_, _, err = server.handleLogFoodEstimate(ctx, &mcp.CallToolRequest{}, logFoodEstimateInput{
		Name: "tea", Amount: 0, Unit: "cup", WeightGrams: 200,
	})
	if err == nil {
		t.Error("expected error for zero amount")
	}
}

func TestHandleAddAndLogProduct(t *testing.T) {
	db := setupTestDB(t)
	server, _ := NewServer(db, testTargets())
	ctx := context.Background()

	_, added, err := server.handleAddProduct(ctx, &mcp.CallToolRequest{}, addProductInput{
		Name:     "Oats",
		Calories: 370,
		Protein:  13,
		Carbs:    60,
		Fat:      7,
	})
	if err != nil {
		t.Fatalf("handleAddProduct failed: %v", err)
	}
	if added.ID == "" {
		t.Error("expected non-empty ID")
	}

	_, logged, err := server.handleLogProduct(ctx, &mcp.CallToolRequest{}, logProductInput{
		Product: "Oats",
		Grams:   80,
	})
	if err != nil {
		t.Fatalf("handleLogProduct failed: %v", err)
	}
	if logged.Calories != 296 {
		t.Errorf("Calories = %f, want 296", logged.Calories)
	}

	_, _, err = server.handleLogProduct(ctx, &mcp.CallToolRequest{}, logProductInput{
		Product: "Oats",
	})
	if err == nil {
		t.Error("expected error without grams or portions")
	}
}

func TestHandleGetDayAndSetTargets(t *testing.T) {
	db := setupTestDB(t)
	server, _ := NewServer(db, testTargets())
	ctx := context.Background()

	// Empty day reports a message, not an error.
	_, out, err := server.handleGetDay(ctx, &mcp.CallToolRequest{}, getDayInput{Date: "2026-01-01"})
	if err != nil {
		t.Fatalf("handleGetDay failed: %v", err)
	}
	if m, ok := out.(map[string]interface{}); !ok || m["message"] == nil {
		t.Errorf("empty day output = %v", out)
	}

	_, msg, err := server.handleSetTargets(ctx, &mcp.CallToolRequest{}, setTargetsInput{
		Calories: 2200,
		Protein:  140,
	})
	if err != nil {
		t.Fatalf("handleSetTargets failed: %v", err)
	}
	if msg.Message == "" {
		t.Error("expected non-empty message")
	}

	log, err := db.GetDailyLogByDate(time.Now())
	if err != nil {
		t.Fatalf("GetDailyLogByDate failed: %v", err)
	}
	if log.CalorieTarget != 2200 || log.ProteinTarget != 140 {
		t.Errorf("targets = %f/%f, want 2200/140", log.CalorieTarget, log.ProteinTarget)
	}
	// Unset fields keep the defaults.
	if log.CarbTarget != 250 {
		t.Errorf("carb target = %f, want 250", log.CarbTarget)
	}
}

func TestHandleUseTemplate(t *testing.T) {
	db := setupTestDB(t)
	server, _ := NewServer(db, testTargets())
	ctx := context.Background()

	tmpl := models.NewAIFoodTemplate("Pad Thai", 1, "bowl", 350, models.Snapshot{Calories: 620})
	if err := db.CreateTemplate(tmpl); err != nil {
		t.Fatalf("CreateTemplate failed: %v", err)
	}

	_, output, err := server.handleUseTemplate(ctx, &mcp.CallToolRequest{}, useTemplateInput{Name: "pad thai"})
	if err != nil {
		t.Fatalf("handleUseTemplate failed: %v", err)
	}
	if output.Calories != 620 {
		t.Errorf("Calories = %f, want 620", output.Calories)
	}

	_, _, err = server.handleUseTemplate(ctx, &mcp.CallToolRequest{}, useTemplateInput{Name: "green curry"})
	if err == nil {
		t.Error("expected error for unknown template")
	}
}

func TestTodayResource(t *testing.T) {
	db := setupTestDB(t)
	server, _ := NewServer(db, testTargets())
	ctx := context.Background()

	result, err := server.handleTodayResource(ctx, &mcp.ReadResourceRequest{})
	if err != nil {
		t.Fatalf("handleTodayResource failed: %v", err)
	}
	if len(result.Contents) != 1 {
		t.Fatalf("contents = %d, want 1", len(result.Contents))
	}
	if result.Contents[0].MIMEType != "application/json" {
		t.Errorf("mime = %s", result.Contents[0].MIMEType)
	}
	if !strings.Contains(result.Contents[0].Text, "date") {
		t.Error("resource payload missing date")
	}
}

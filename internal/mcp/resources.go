// ABOUTME: MCP resource implementations for nutrition data.
// ABOUTME: Provides nutrition://today, nutrition://products, nutrition://targets.
package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/harperreed/nutrition/internal/models"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

func (s *Server) registerResources() {
	// nutrition://today - today's log with totals
	s.mcpServer.AddResource(&mcp.Resource{
		URI:         "nutrition://today",
		Name:        "Today's Nutrition",
		Description: "Today's food and supplement entries with running totals",
		MIMEType:    "application/json",
	}, s.handleTodayResource)

	// nutrition://products - the product catalog
	s.mcpServer.AddResource(&mcp.Resource{
		URI:         "nutrition://products",
		Name:        "Product Catalog",
		Description: "Saved products with per-100g nutrition values",
		MIMEType:    "application/json",
	}, s.handleProductsResource)

	// nutrition://targets - today's macro targets and remaining budget
	s.mcpServer.AddResource(&mcp.Resource{
		URI:         "nutrition://targets",
		Name:        "Daily Targets",
		Description: "Today's macro targets and what remains of them",
		MIMEType:    "application/json",
	}, s.handleTargetsResource)
}

// Resource handlers

func (s *Server) handleTodayResource(ctx context.Context, req *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error) {
	now := time.Now()

	result := map[string]interface{}{
		"date": models.DayStart(now).Format("2006-01-02"),
	}

	log, err := s.repo.GetDailyLogByDate(now)
	if err == nil {
		foods, err := s.repo.ListFoodEntriesForLog(log.ID)
		if err != nil {
			return nil, fmt.Errorf("failed to list entries: %w", err)
		}
		supplements, err := s.repo.ListSupplementEntriesForLog(log.ID)
		if err != nil {
			return nil, fmt.Errorf("failed to list supplement entries: %w", err)
		}
		totals := models.SumEntries(foods, supplements)

		result["entries"] = foods
		result["supplements"] = supplements
		result["totals"] = totals
	} else {
		result["message"] = "Nothing logged today."
	}

	return resourceResult("nutrition://today", result)
}

func (s *Server) handleProductsResource(ctx context.Context, req *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error) {
	products, err := s.repo.ListProducts(0)
	if err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}

	return resourceResult("nutrition://products", map[string]interface{}{
		"products": products,
		"count":    len(products),
	})
}

func (s *Server) handleTargetsResource(ctx context.Context, req *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error) {
	now := time.Now()

	targets := s.defaults
	var totals models.DayTotals
	if log, err := s.repo.GetDailyLogByDate(now); err == nil {
		targets.Calories = log.CalorieTarget
		targets.Protein = log.ProteinTarget
		targets.Carbs = log.CarbTarget
		targets.Fat = log.FatTarget

		foods, err := s.repo.ListFoodEntriesForLog(log.ID)
		if err != nil {
			return nil, fmt.Errorf("failed to list entries: %w", err)
		}
		supplements, err := s.repo.ListSupplementEntriesForLog(log.ID)
		if err != nil {
			return nil, fmt.Errorf("failed to list supplement entries: %w", err)
		}
		totals = models.SumEntries(foods, supplements)
	}

	result := map[string]interface{}{
		"date": models.DayStart(now).Format("2006-01-02"),
		"targets": map[string]float64{
			"calories": targets.Calories,
			"protein":  targets.Protein,
			"carbs":    targets.Carbs,
			"fat":      targets.Fat,
		},
		"consumed": map[string]float64{
			"calories": totals.Calories,
			"protein":  totals.Protein,
			"carbs":    totals.Carbs,
			"fat":      totals.Fat,
		},
		"remaining": map[string]float64{
			"calories": targets.Calories - totals.Calories,
			"protein":  targets.Protein - totals.Protein,
			"carbs":    targets.Carbs - totals.Carbs,
			"fat":      targets.Fat - totals.Fat,
		},
	}

	return resourceResult("nutrition://targets", result)
}

func resourceResult(uri string, v interface{}) (*mcp.ReadResourceResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal result: %w", err)
	}
	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      uri,
			MIMEType: "application/json",
			Text:     string(data),
		}},
	}, nil
}

// ABOUTME: MCP tool implementations for nutrition tracking.
// ABOUTME: Estimate logging, product logging, supplements, day summaries, templates.
package mcp

import (
	"context"
	"fmt"
	"time"

	"github.com/harperreed/nutrition/internal/models"
	"github.com/harperreed/nutrition/internal/scale"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

func (s *Server) registerTools() {
	// log_food_estimate
	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "log_food_estimate",
		Description: "Log a food from an AI nutrition estimate and save it as a reusable template",
	}, s.handleLogFoodEstimate)

	// log_product
	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "log_product",
		Description: "Log a consumed amount of a saved product into today's log",
	}, s.handleLogProduct)

	// log_supplement
	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "log_supplement",
		Description: "Log servings of a saved supplement into today's log",
	}, s.handleLogSupplement)

	// add_product
	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "add_product",
		Description: "Save a product with per-100g nutrition values",
	}, s.handleAddProduct)

	// list_products
	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "list_products",
		Description: "List saved products",
	}, s.handleListProducts)

	// get_day
	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "get_day",
		Description: "Get a day's entries and totals versus targets",
	}, s.handleGetDay)

	// set_targets
	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "set_targets",
		Description: "Set macro targets for a day's log",
	}, s.handleSetTargets)

	// use_template
	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "use_template",
		Description: "Re-log a previously saved AI food template by name",
	}, s.handleUseTemplate)

	// list_templates
	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "list_templates",
		Description: "List saved AI food templates",
	}, s.handleListTemplates)
}

// Tool input/output types

type logFoodEstimateInput struct {
	Name        string             `json:"name" jsonschema:"Food name as it should appear in the log"`
	Amount      float64            `json:"amount" jsonschema:"Consumed amount in the given unit"`
	Unit        string             `json:"unit" jsonschema:"Unit of the amount (g, ml, piece, bowl, ...)"`
	WeightGrams float64            `json:"weight_grams" jsonschema:"Estimated total weight in grams"`
	Calories    float64            `json:"calories" jsonschema:"Estimated calories for the amount"`
	Protein     float64            `json:"protein" jsonschema:"Estimated protein in grams"`
	Carbs       float64            `json:"carbs" jsonschema:"Estimated carbohydrates in grams"`
	Fat         float64            `json:"fat" jsonschema:"Estimated fat in grams"`
	Sugar       *float64           `json:"sugar,omitempty" jsonschema:"Estimated sugar in grams, omit if unknown"`
	Fibre       *float64           `json:"fibre,omitempty" jsonschema:"Estimated fibre in grams, omit if unknown"`
	Sodium      *float64           `json:"sodium,omitempty" jsonschema:"Estimated sodium in mg, omit if unknown"`
	Nutrients   map[string]float64 `json:"nutrients,omitempty" jsonschema:"Micronutrient estimates keyed by id (vitaminC, iron, ...)"`
	Prompt      string             `json:"prompt,omitempty" jsonschema:"The user description the estimate was made from"`
	Timestamp   string             `json:"timestamp,omitempty" jsonschema:"Consumption time (ISO 8601), defaults to now"`
	SaveProduct bool               `json:"save_product,omitempty" jsonschema:"Also derive a per-100g product from the estimate"`
}

type logEntryOutput struct {
	EntryID  string  `json:"entry_id"`
	Name     string  `json:"name"`
	Calories float64 `json:"calories"`
	Message  string  `json:"message"`
}

type logProductInput struct {
	Product   string  `json:"product" jsonschema:"Product ID prefix, barcode, or exact name"`
	Grams     float64 `json:"grams,omitempty" jsonschema:"Consumed weight in grams"`
	Portions  float64 `json:"portions,omitempty" jsonschema:"Consumed portions, for products with a portion size"`
	Timestamp string  `json:"timestamp,omitempty" jsonschema:"Consumption time (ISO 8601), defaults to now"`
}

type logSupplementInput struct {
	Supplement string  `json:"supplement" jsonschema:"Supplement ID prefix, barcode, or exact name"`
	Servings   float64 `json:"servings,omitempty" jsonschema:"Servings consumed (default 1)"`
	Timestamp  string  `json:"timestamp,omitempty" jsonschema:"Consumption time (ISO 8601), defaults to now"`
}

type addProductInput struct {
	Name      string             `json:"name" jsonschema:"Product name"`
	Calories  float64            `json:"calories" jsonschema:"Calories per 100g"`
	Protein   float64            `json:"protein" jsonschema:"Protein per 100g"`
	Carbs     float64            `json:"carbs" jsonschema:"Carbohydrates per 100g"`
	Fat       float64            `json:"fat" jsonschema:"Fat per 100g"`
	Brand     string             `json:"brand,omitempty" jsonschema:"Brand name"`
	Barcode   string             `json:"barcode,omitempty" jsonschema:"Product barcode"`
	Sugar     *float64           `json:"sugar,omitempty" jsonschema:"Sugar per 100g"`
	Fibre     *float64           `json:"fibre,omitempty" jsonschema:"Fibre per 100g"`
	Sodium    *float64           `json:"sodium,omitempty" jsonschema:"Sodium per 100g in mg"`
	Nutrients map[string]float64 `json:"nutrients,omitempty" jsonschema:"Micronutrients per 100g keyed by id"`
	Portion   float64            `json:"portion_grams,omitempty" jsonschema:"Weight of one portion in grams"`
}

type productOutput struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Message string `json:"message"`
}

type listProductsInput struct {
	Limit int `json:"limit,omitempty" jsonschema:"Max results (default 20)"`
}

type getDayInput struct {
	Date string `json:"date,omitempty" jsonschema:"Calendar date (YYYY-MM-DD), defaults to today"`
}

type setTargetsInput struct {
	Date     string  `json:"date,omitempty" jsonschema:"Calendar date (YYYY-MM-DD), defaults to today"`
	Calories float64 `json:"calories,omitempty" jsonschema:"Calorie target"`
	Protein  float64 `json:"protein,omitempty" jsonschema:"Protein target in grams"`
	Carbs    float64 `json:"carbs,omitempty" jsonschema:"Carbohydrate target in grams"`
	Fat      float64 `json:"fat,omitempty" jsonschema:"Fat target in grams"`
}

type useTemplateInput struct {
	Name      string `json:"name" jsonschema:"Template name (case-insensitive)"`
	Timestamp string `json:"timestamp,omitempty" jsonschema:"Consumption time (ISO 8601), defaults to now"`
}

type listTemplatesInput struct {
	Limit int `json:"limit,omitempty" jsonschema:"Max results (default 20)"`
}

type simpleOutput struct {
	Message string `json:"message"`
}

// Tool handlers

func (s *Server) handleLogFoodEstimate(ctx context.Context, req *mcp.CallToolRequest, input logFoodEstimateInput) (*mcp.CallToolResult, logEntryOutput, error) {
	if input.Name == "" {
		return nil, logEntryOutput{}, fmt.Errorf("name is required")
	}
	if input.Amount <= 0 || input.WeightGrams <= 0 {
		return nil, logEntryOutput{}, fmt.Errorf("amount and weight_grams must be > 0")
	}

	snap := models.Snapshot{
		Calories:  input.Calories,
		Protein:   input.Protein,
		Carbs:     input.Carbs,
		Fat:       input.Fat,
		Sugar:     input.Sugar,
		Fibre:     input.Fibre,
		Sodium:    input.Sodium,
		Nutrients: models.NutrientMap{},
	}
	for id, v := range input.Nutrients {
		if models.IsValidNutrientID(id) {
			snap.Nutrients[models.NutrientID(id)] = v
		}
	}

	at := parseTimestamp(input.Timestamp)

	// Only the first estimate under a name creates a template; repeats
	// reuse it so the catalog does not fill with near-duplicates.
	tmpl, err := s.repo.FindTemplateByName(input.Name)
	if err != nil {
		tmpl = models.NewAIFoodTemplate(input.Name, input.Amount, input.Unit, input.WeightGrams, snap).WithPrompt(input.Prompt)
		if err := s.repo.CreateTemplate(tmpl); err != nil {
			return nil, logEntryOutput{}, fmt.Errorf("failed to save template: %w", err)
		}
	}
	tmpl.MarkUsed(at)
	if err := s.repo.UpdateTemplate(tmpl); err != nil {
		return nil, logEntryOutput{}, fmt.Errorf("failed to update template: %w", err)
	}

	log, err := s.repo.GetOrCreateDailyLog(at, s.defaults)
	if err != nil {
		return nil, logEntryOutput{}, fmt.Errorf("failed to open daily log: %w", err)
	}

	entry := models.NewFoodEntry(input.Name, input.Amount, input.Unit, snap.Clone()).WithTimestamp(at).WithAIPrompt(input.Prompt)
	entry.DailyLogID = &log.ID

	if input.SaveProduct {
		p := models.NewProduct(input.Name, 0, 0, 0, 0)
		p.ApplyReference(scale.Per100gFromWeight(snap, input.WeightGrams))
		p.IsCustom = true
		if err := s.repo.CreateProduct(p); err != nil {
			return nil, logEntryOutput{}, fmt.Errorf("failed to save product: %w", err)
		}
		entry.WithProduct(p.ID)
	}

	if err := s.repo.CreateFoodEntry(entry); err != nil {
		return nil, logEntryOutput{}, fmt.Errorf("failed to log entry: %w", err)
	}

	return nil, logEntryOutput{
		EntryID:  entry.ID.String()[:8],
		Name:     entry.SourceName,
		Calories: entry.Snapshot.Calories,
		Message:  fmt.Sprintf("Logged %s: %.0f kcal (ID: %s)", entry.SourceName, entry.Snapshot.Calories, entry.ID.String()[:8]),
	}, nil
}

func (s *Server) handleLogProduct(ctx context.Context, req *mcp.CallToolRequest, input logProductInput) (*mcp.CallToolResult, logEntryOutput, error) {
	p, err := s.findProduct(input.Product)
	if err != nil {
		return nil, logEntryOutput{}, err
	}

	var snap models.Snapshot
	var amount float64
	unit := "g"
	switch {
	case input.Portions > 0:
		snap, err = scale.FromPortions(p, input.Portions)
		if err != nil {
			return nil, logEntryOutput{}, err
		}
		amount = *p.PortionGrams * input.Portions
	case input.Grams > 0:
		snap, err = scale.FromPer100g(p, input.Grams)
		if err != nil {
			return nil, logEntryOutput{}, err
		}
		amount = input.Grams
	default:
		return nil, logEntryOutput{}, fmt.Errorf("either grams or portions must be > 0")
	}

	at := parseTimestamp(input.Timestamp)
	log, err := s.repo.GetOrCreateDailyLog(at, s.defaults)
	if err != nil {
		return nil, logEntryOutput{}, fmt.Errorf("failed to open daily log: %w", err)
	}

	entry := models.NewFoodEntry(p.Name, amount, unit, snap).WithProduct(p.ID).WithTimestamp(at)
	entry.DailyLogID = &log.ID
	if err := s.repo.CreateFoodEntry(entry); err != nil {
		return nil, logEntryOutput{}, fmt.Errorf("failed to log entry: %w", err)
	}

	return nil, logEntryOutput{
		EntryID:  entry.ID.String()[:8],
		Name:     p.Name,
		Calories: snap.Calories,
		Message:  fmt.Sprintf("Logged %s (%.0f g): %.0f kcal", p.Name, amount, snap.Calories),
	}, nil
}

func (s *Server) handleLogSupplement(ctx context.Context, req *mcp.CallToolRequest, input logSupplementInput) (*mcp.CallToolResult, logEntryOutput, error) {
	sup, err := s.findSupplement(input.Supplement)
	if err != nil {
		return nil, logEntryOutput{}, err
	}

	servings := input.Servings
	if servings == 0 {
		servings = 1
	}
	nutrients, err := scale.FromServings(sup, servings)
	if err != nil {
		return nil, logEntryOutput{}, err
	}

	at := parseTimestamp(input.Timestamp)
	log, err := s.repo.GetOrCreateDailyLog(at, s.defaults)
	if err != nil {
		return nil, logEntryOutput{}, fmt.Errorf("failed to open daily log: %w", err)
	}

	entry := models.NewSupplementEntry(sup.Name, servings, nutrients).WithSupplement(sup.ID).WithTimestamp(at)
	entry.DailyLogID = &log.ID
	if err := s.repo.CreateSupplementEntry(entry); err != nil {
		return nil, logEntryOutput{}, fmt.Errorf("failed to log supplement: %w", err)
	}

	return nil, logEntryOutput{
		EntryID: entry.ID.String()[:8],
		Name:    sup.Name,
		Message: fmt.Sprintf("Logged %s: %.1f serving(s)", sup.Name, servings),
	}, nil
}

func (s *Server) handleAddProduct(ctx context.Context, req *mcp.CallToolRequest, input addProductInput) (*mcp.CallToolResult, productOutput, error) {
	if input.Name == "" {
		return nil, productOutput{}, fmt.Errorf("name is required")
	}

	p := models.NewProduct(input.Name, input.Calories, input.Protein, input.Carbs, input.Fat)
	if input.Brand != "" {
		p.WithBrand(input.Brand)
	}
	if input.Barcode != "" {
		p.WithBarcode(input.Barcode)
	}
	p.SugarPer100g = input.Sugar
	p.FibrePer100g = input.Fibre
	p.SodiumPer100g = input.Sodium
	for id, v := range input.Nutrients {
		if models.IsValidNutrientID(id) {
			p.WithNutrient(models.NutrientID(id), v)
		}
	}
	if input.Portion > 0 {
		p.WithPortion(input.Portion, 0)
	}

	if err := s.repo.CreateProduct(p); err != nil {
		return nil, productOutput{}, fmt.Errorf("failed to create product: %w", err)
	}

	return nil, productOutput{
		ID:      p.ID.String()[:8],
		Name:    p.Name,
		Message: fmt.Sprintf("Added product %s (ID: %s)", p.Name, p.ID.String()[:8]),
	}, nil
}

func (s *Server) handleListProducts(ctx context.Context, req *mcp.CallToolRequest, input listProductsInput) (*mcp.CallToolResult, any, error) {
	if input.Limit <= 0 {
		input.Limit = 20
	}

	products, err := s.repo.ListProducts(input.Limit)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to list products: %w", err)
	}

	if len(products) == 0 {
		return nil, map[string]interface{}{"message": "No products found."}, nil
	}

	out := make([]map[string]interface{}, 0, len(products))
	for _, p := range products {
		item := map[string]interface{}{
			"id":       p.ID.String()[:8],
			"name":     p.Name,
			"calories": p.CaloriesPer100g,
			"protein":  p.ProteinPer100g,
			"carbs":    p.CarbsPer100g,
			"fat":      p.FatPer100g,
		}
		if p.Brand != nil {
			item["brand"] = *p.Brand
		}
		if p.PortionGrams != nil {
			item["portion_grams"] = *p.PortionGrams
		}
		out = append(out, item)
	}
	return nil, out, nil
}

func (s *Server) handleGetDay(ctx context.Context, req *mcp.CallToolRequest, input getDayInput) (*mcp.CallToolResult, any, error) {
	day, err := parseDate(input.Date)
	if err != nil {
		return nil, nil, err
	}

	log, err := s.repo.GetDailyLogByDate(day)
	if err != nil {
		return nil, map[string]interface{}{
			"date":    day.Format("2006-01-02"),
			"message": "Nothing logged on this day.",
		}, nil
	}

	foods, err := s.repo.ListFoodEntriesForLog(log.ID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to list entries: %w", err)
	}
	supplements, err := s.repo.ListSupplementEntriesForLog(log.ID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to list supplement entries: %w", err)
	}

	totals := models.SumEntries(foods, supplements)

	entries := make([]map[string]interface{}, 0, len(foods))
	for _, e := range foods {
		entries = append(entries, map[string]interface{}{
			"id":       e.ID.String()[:8],
			"name":     e.SourceName,
			"amount":   e.Amount,
			"unit":     e.Unit,
			"calories": e.Snapshot.Calories,
			"time":     e.Timestamp.Format("15:04"),
		})
	}

	return nil, map[string]interface{}{
		"date":    log.Date.Format("2006-01-02"),
		"entries": entries,
		"totals": map[string]float64{
			"calories": totals.Calories,
			"protein":  totals.Protein,
			"carbs":    totals.Carbs,
			"fat":      totals.Fat,
		},
		"targets": map[string]float64{
			"calories": log.CalorieTarget,
			"protein":  log.ProteinTarget,
			"carbs":    log.CarbTarget,
			"fat":      log.FatTarget,
		},
		"supplements": len(supplements),
	}, nil
}

func (s *Server) handleSetTargets(ctx context.Context, req *mcp.CallToolRequest, input setTargetsInput) (*mcp.CallToolResult, simpleOutput, error) {
	day, err := parseDate(input.Date)
	if err != nil {
		return nil, simpleOutput{}, err
	}

	log, err := s.repo.GetOrCreateDailyLog(day, s.defaults)
	if err != nil {
		return nil, simpleOutput{}, fmt.Errorf("failed to open daily log: %w", err)
	}

	if input.Calories > 0 {
		log.CalorieTarget = input.Calories
	}
	if input.Protein > 0 {
		log.ProteinTarget = input.Protein
	}
	if input.Carbs > 0 {
		log.CarbTarget = input.Carbs
	}
	if input.Fat > 0 {
		log.FatTarget = input.Fat
	}

	if err := s.repo.UpdateDailyLogTargets(log); err != nil {
		return nil, simpleOutput{}, fmt.Errorf("failed to update targets: %w", err)
	}

	return nil, simpleOutput{
		Message: fmt.Sprintf("Targets for %s: %.0f kcal / %.0fP / %.0fC / %.0fF",
			log.Date.Format("2006-01-02"), log.CalorieTarget, log.ProteinTarget, log.CarbTarget, log.FatTarget),
	}, nil
}

func (s *Server) handleUseTemplate(ctx context.Context, req *mcp.CallToolRequest, input useTemplateInput) (*mcp.CallToolResult, logEntryOutput, error) {
	tmpl, err := s.repo.FindTemplateByName(input.Name)
	if err != nil {
		return nil, logEntryOutput{}, fmt.Errorf("template not found: %s", input.Name)
	}

	at := parseTimestamp(input.Timestamp)
	log, err := s.repo.GetOrCreateDailyLog(at, s.defaults)
	if err != nil {
		return nil, logEntryOutput{}, fmt.Errorf("failed to open daily log: %w", err)
	}

	entry := tmpl.Entry().WithTimestamp(at)
	entry.DailyLogID = &log.ID
	if err := s.repo.CreateFoodEntry(entry); err != nil {
		return nil, logEntryOutput{}, fmt.Errorf("failed to log entry: %w", err)
	}

	tmpl.MarkUsed(at)
	if err := s.repo.UpdateTemplate(tmpl); err != nil {
		return nil, logEntryOutput{}, fmt.Errorf("failed to update template: %w", err)
	}

	return nil, logEntryOutput{
		EntryID:  entry.ID.String()[:8],
		Name:     entry.SourceName,
		Calories: entry.Snapshot.Calories,
		Message:  fmt.Sprintf("Logged %s from template: %.0f kcal", entry.SourceName, entry.Snapshot.Calories),
	}, nil
}

func (s *Server) handleListTemplates(ctx context.Context, req *mcp.CallToolRequest, input listTemplatesInput) (*mcp.CallToolResult, any, error) {
	if input.Limit <= 0 {
		input.Limit = 20
	}

	templates, err := s.repo.ListTemplates(input.Limit)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to list templates: %w", err)
	}

	if len(templates) == 0 {
		return nil, map[string]interface{}{"message": "No templates found."}, nil
	}

	out := make([]map[string]interface{}, 0, len(templates))
	for _, t := range templates {
		out = append(out, map[string]interface{}{
			"id":        t.ID.String()[:8],
			"name":      t.Name,
			"amount":    t.Amount,
			"unit":      t.Unit,
			"calories":  t.Snapshot.Calories,
			"use_count": t.UseCount,
		})
	}
	return nil, out, nil
}

// Lookup helpers

// findProduct resolves a product by id prefix, then barcode, then exact
// name. Same order the CLI uses.
func (s *Server) findProduct(key string) (*models.Product, error) {
	if p, err := s.repo.GetProduct(key); err == nil {
		return p, nil
	}
	if p, err := s.repo.FindProductByBarcode(key); err == nil {
		return p, nil
	}
	if p, err := s.repo.FindProductByNameBrand(key, nil); err == nil {
		return p, nil
	}
	return nil, fmt.Errorf("product not found: %s", key)
}

func (s *Server) findSupplement(key string) (*models.Supplement, error) {
	if sup, err := s.repo.GetSupplement(key); err == nil {
		return sup, nil
	}
	if sup, err := s.repo.FindSupplementByBarcode(key); err == nil {
		return sup, nil
	}
	if sup, err := s.repo.FindSupplementByNameBrand(key, nil); err == nil {
		return sup, nil
	}
	return nil, fmt.Errorf("supplement not found: %s", key)
}

// parseTimestamp accepts RFC 3339 or "2006-01-02 15:04", defaulting to now.
func parseTimestamp(raw string) time.Time {
	if raw == "" {
		return time.Now()
	}
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t
	}
	if t, err := time.ParseInLocation("2006-01-02 15:04", raw, time.Local); err == nil {
		return t
	}
	return time.Now()
}

// parseDate accepts a YYYY-MM-DD calendar date, defaulting to today.
func parseDate(raw string) (time.Time, error) {
	if raw == "" {
		return time.Now(), nil
	}
	t, err := time.ParseInLocation("2006-01-02", raw, time.Local)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q (want YYYY-MM-DD)", raw)
	}
	return t, nil
}

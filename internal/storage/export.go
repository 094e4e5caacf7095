// ABOUTME: Export functionality for nutrition data.
// ABOUTME: Canonical JSON backup plus YAML and Markdown views.
package storage

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/harperreed/nutrition/internal/models"
	"github.com/harperreed/nutrition/internal/scale"
	"gopkg.in/yaml.v3"
)

// Snapshot gathers the whole entity graph into a BackupDocument.
// Every list is sorted by id so repeated exports of an unchanged store
// (with the same export timestamp) are byte-identical.
func (d *DB) Snapshot(at time.Time) (*BackupDocument, error) {
	doc := &BackupDocument{
		ExportDate: formatTime(at),
		Version:    BackupVersion,
	}

	products, err := d.ListProducts(0)
	if err != nil {
		return nil, fmt.Errorf("export products: %w", err)
	}
	doc.Products = make([]BackupProduct, 0, len(products))
	for _, p := range products {
		doc.Products = append(doc.Products, toBackupProduct(p))
	}
	sort.Slice(doc.Products, func(i, j int) bool { return doc.Products[i].ID < doc.Products[j].ID })

	supplements, err := d.ListSupplements(0)
	if err != nil {
		return nil, fmt.Errorf("export supplements: %w", err)
	}
	doc.Supplements = make([]BackupSupplement, 0, len(supplements))
	for _, s := range supplements {
		doc.Supplements = append(doc.Supplements, toBackupSupplement(s))
	}
	sort.Slice(doc.Supplements, func(i, j int) bool { return doc.Supplements[i].ID < doc.Supplements[j].ID })

	logs, err := d.ListDailyLogs(0)
	if err != nil {
		return nil, fmt.Errorf("export daily logs: %w", err)
	}
	doc.DailyLogs = make([]BackupDailyLog, 0, len(logs))
	for _, l := range logs {
		doc.DailyLogs = append(doc.DailyLogs, toBackupDailyLog(l))
	}
	sort.Slice(doc.DailyLogs, func(i, j int) bool { return doc.DailyLogs[i].ID < doc.DailyLogs[j].ID })

	entries, err := d.ListFoodEntries(0)
	if err != nil {
		return nil, fmt.Errorf("export food entries: %w", err)
	}
	doc.FoodEntries = make([]BackupFoodEntry, 0, len(entries))
	for _, e := range entries {
		doc.FoodEntries = append(doc.FoodEntries, toBackupFoodEntry(e))
	}
	sort.Slice(doc.FoodEntries, func(i, j int) bool { return doc.FoodEntries[i].ID < doc.FoodEntries[j].ID })

	supplementEntries, err := d.ListSupplementEntries(0)
	if err != nil {
		return nil, fmt.Errorf("export supplement entries: %w", err)
	}
	doc.SupplementEntries = make([]BackupSupplementEntry, 0, len(supplementEntries))
	for _, e := range supplementEntries {
		doc.SupplementEntries = append(doc.SupplementEntries, toBackupSupplementEntry(e))
	}
	sort.Slice(doc.SupplementEntries, func(i, j int) bool { return doc.SupplementEntries[i].ID < doc.SupplementEntries[j].ID })

	templates, err := d.ListTemplates(0)
	if err != nil {
		return nil, fmt.Errorf("export templates: %w", err)
	}
	doc.AITemplates = make([]BackupTemplate, 0, len(templates))
	for _, t := range templates {
		doc.AITemplates = append(doc.AITemplates, toBackupTemplate(t))
	}
	sort.Slice(doc.AITemplates, func(i, j int) bool { return doc.AITemplates[i].ID < doc.AITemplates[j].ID })

	return doc, nil
}

// Export serializes the full store as the canonical JSON backup.
func (d *DB) Export(at time.Time) ([]byte, error) {
	doc, err := d.Snapshot(at)
	if err != nil {
		return nil, err
	}
	return json.MarshalIndent(doc, "", "  ")
}

// ExportYAML exports the backup document as YAML. Human-readable view
// only; import reads the JSON form.
func (d *DB) ExportYAML(at time.Time) ([]byte, error) {
	doc, err := d.Snapshot(at)
	if err != nil {
		return nil, err
	}

	yamlData := struct {
		Version     int              `yaml:"version"`
		ExportDate  string           `yaml:"export_date"`
		Products    []yamlProduct    `yaml:"products"`
		Supplements []yamlSupplement `yaml:"supplements"`
		Days        []yamlDay        `yaml:"days"`
		Templates   []yamlTemplate   `yaml:"templates"`
	}{
		Version:    doc.Version,
		ExportDate: doc.ExportDate,
	}

	for _, p := range doc.Products {
		yp := yamlProduct{
			ID:       p.ID[:8],
			Name:     p.Name,
			Calories: p.Calories,
			Protein:  p.Protein,
			Carbs:    p.Carbohydrates,
			Fat:      p.Fat,
		}
		if p.Brand != nil {
			yp.Brand = *p.Brand
		}
		if p.Barcode != nil {
			yp.Barcode = *p.Barcode
		}
		yamlData.Products = append(yamlData.Products, yp)
	}

	for _, s := range doc.Supplements {
		ys := yamlSupplement{ID: s.ID[:8], Name: s.Name, Servings: s.ServingsPerContainer}
		if s.Brand != nil {
			ys.Brand = *s.Brand
		}
		yamlData.Supplements = append(yamlData.Supplements, ys)
	}

	// Group entries by daily log
	entriesByLog := make(map[string][]BackupFoodEntry)
	for _, e := range doc.FoodEntries {
		key := ""
		if e.DailyLogID != nil {
			key = *e.DailyLogID
		}
		entriesByLog[key] = append(entriesByLog[key], e)
	}
	for _, l := range doc.DailyLogs {
		yd := yamlDay{
			Date:          l.Date,
			CalorieTarget: l.CalorieTarget,
		}
		for _, e := range entriesByLog[l.ID] {
			yd.Entries = append(yd.Entries, yamlEntry{
				Name:     e.CustomFoodName,
				Amount:   e.Amount,
				Unit:     e.Unit,
				Calories: e.Calories,
			})
		}
		yamlData.Days = append(yamlData.Days, yd)
	}

	for _, t := range doc.AITemplates {
		yamlData.Templates = append(yamlData.Templates, yamlTemplate{
			Name:     t.Name,
			Calories: t.Calories,
			UseCount: t.UseCount,
		})
	}

	return yaml.Marshal(yamlData)
}

type yamlProduct struct {
	ID       string  `yaml:"id"`
	Name     string  `yaml:"name"`
	Brand    string  `yaml:"brand,omitempty"`
	Barcode  string  `yaml:"barcode,omitempty"`
	Calories float64 `yaml:"calories_per_100g"`
	Protein  float64 `yaml:"protein_per_100g"`
	Carbs    float64 `yaml:"carbs_per_100g"`
	Fat      float64 `yaml:"fat_per_100g"`
}

type yamlSupplement struct {
	ID       string  `yaml:"id"`
	Name     string  `yaml:"name"`
	Brand    string  `yaml:"brand,omitempty"`
	Servings float64 `yaml:"servings_per_container"`
}

type yamlDay struct {
	Date          string      `yaml:"date"`
	CalorieTarget float64     `yaml:"calorie_target"`
	Entries       []yamlEntry `yaml:"entries,omitempty"`
}

type yamlEntry struct {
	Name     string  `yaml:"name"`
	Amount   float64 `yaml:"amount"`
	Unit     string  `yaml:"unit"`
	Calories float64 `yaml:"calories"`
}

type yamlTemplate struct {
	Name     string  `yaml:"name"`
	Calories float64 `yaml:"calories"`
	UseCount int     `yaml:"use_count"`
}

// ExportMarkdown renders day-by-day entry tables with macro totals.
// If since is non-nil only days on or after it are included.
func (d *DB) ExportMarkdown(since *time.Time) (string, error) {
	logs, err := d.ListDailyLogs(0)
	if err != nil {
		return "", err
	}

	// Oldest day first
	sort.Slice(logs, func(i, j int) bool { return logs[i].Date.Before(logs[j].Date) })

	var sb strings.Builder
	now := time.Now()

	sb.WriteString(fmt.Sprintf("# Nutrition Export - %s\n\n", now.Format("2006-01-02")))
	sb.WriteString(fmt.Sprintf("Generated: %s\n\n", now.Format(time.RFC3339)))

	for _, log := range logs {
		if since != nil && log.Date.Before(models.DayStart(*since)) {
			continue
		}

		foods, err := d.ListFoodEntriesForLog(log.ID)
		if err != nil {
			return "", err
		}
		supplements, err := d.ListSupplementEntriesForLog(log.ID)
		if err != nil {
			return "", err
		}
		totals := models.SumEntries(foods, supplements)

		sb.WriteString(fmt.Sprintf("## %s\n\n", log.Date.Format("2006-01-02")))
		sb.WriteString("| Time | Food | Amount | Calories | Protein | Carbs | Fat |\n")
		sb.WriteString("|------|------|--------|----------|---------|-------|-----|\n")
		for _, e := range foods {
			sb.WriteString(fmt.Sprintf("| %s | %s | %.0f %s | %.1f | %.1f | %.1f | %.1f |\n",
				e.Timestamp.Format("15:04"), e.SourceName, e.Amount, e.Unit,
				e.Snapshot.Calories, e.Snapshot.Protein, e.Snapshot.Carbs, e.Snapshot.Fat))
		}
		sb.WriteString(fmt.Sprintf("| | **Total** | | **%.1f / %.0f** | **%.1f** | **%.1f** | **%.1f** |\n\n",
			totals.Calories, log.CalorieTarget, totals.Protein, totals.Carbs, totals.Fat))

		if len(supplements) > 0 {
			sb.WriteString("Supplements: ")
			names := make([]string, 0, len(supplements))
			for _, s := range supplements {
				names = append(names, fmt.Sprintf("%s ×%.1f", s.SourceName, s.Servings))
			}
			sb.WriteString(strings.Join(names, ", "))
			sb.WriteString("\n\n")
		}

		if natural, added := sugarBreakdown(foods); natural+added > 0 {
			sb.WriteString(fmt.Sprintf("Sugar: %.1f g natural, %.1f g added\n\n", natural, added))
		}
	}

	return sb.String(), nil
}

// sugarBreakdown applies the explicit added-sugar display policy to a
// day's entries.
func sugarBreakdown(entries []*models.FoodEntry) (natural, added float64) {
	for _, e := range entries {
		n, a := scale.SplitSugar(e.Snapshot)
		natural += n
		added += a
	}
	return natural, added
}

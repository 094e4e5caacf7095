// ABOUTME: Import reconciler merging a decoded backup into the live store.
// ABOUTME: Records before aggregates before entries before templates, one transaction.
package storage

import (
	"fmt"

	"github.com/google/uuid"
)

// StageCount tallies one entity type's import outcome.
type StageCount struct {
	Imported int `json:"imported"`
	Skipped  int `json:"skipped"`
}

// ImportSummary reports per-entity counts for a completed import.
type ImportSummary struct {
	Products          StageCount `json:"products"`
	Supplements       StageCount `json:"supplements"`
	DailyLogs         StageCount `json:"dailyLogs"`
	FoodEntries       StageCount `json:"foodEntries"`
	SupplementEntries StageCount `json:"supplementEntries"`
	Templates         StageCount `json:"aiTemplates"`
}

// TotalImported sums created entities across all stages.
func (s *ImportSummary) TotalImported() int {
	return s.Products.Imported + s.Supplements.Imported + s.DailyLogs.Imported +
		s.FoodEntries.Imported + s.SupplementEntries.Imported + s.Templates.Imported
}

// TotalSkipped sums skipped entities across all stages.
func (s *ImportSummary) TotalSkipped() int {
	return s.Products.Skipped + s.Supplements.Skipped + s.DailyLogs.Skipped +
		s.FoodEntries.Skipped + s.SupplementEntries.Skipped + s.Templates.Skipped
}

// Import merges a backup document into the live store. Decode failure
// aborts before any mutation; everything else runs in one transaction
// so a storage failure leaves the store exactly as it was.
//
// Stage order matters: records (products, supplements) come first,
// then daily logs, then entries that need both id maps, then
// templates. Identity is resolved by the strategies in match.go;
// existing data always wins: a matched incoming entity is skipped,
// never merged field by field. Re-running an import with the same file
// is the supported retry path: every entity dedups to a skip.
func (d *DB) Import(data []byte) (*ImportSummary, error) {
	doc, err := DecodeBackup(data)
	if err != nil {
		return nil, err
	}

	d.importMu.Lock()
	defer d.importMu.Unlock()

	// Load the live graph once; matching runs against these slices,
	// which also accumulate created entities so duplicates inside the
	// document dedup against each other.
	products, err := d.ListProducts(0)
	if err != nil {
		return nil, fmt.Errorf("import: %w", err)
	}
	supplements, err := d.ListSupplements(0)
	if err != nil {
		return nil, fmt.Errorf("import: %w", err)
	}
	logs, err := d.ListDailyLogs(0)
	if err != nil {
		return nil, fmt.Errorf("import: %w", err)
	}
	foodEntries, err := d.ListFoodEntries(0)
	if err != nil {
		return nil, fmt.Errorf("import: %w", err)
	}
	supplementEntries, err := d.ListSupplementEntries(0)
	if err != nil {
		return nil, fmt.Errorf("import: %w", err)
	}
	templates, err := d.ListTemplates(0)
	if err != nil {
		return nil, fmt.Errorf("import: %w", err)
	}

	tx, err := d.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("import: begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	summary := &ImportSummary{}

	// Stage 1: products. Incoming ids map to the matched existing id
	// or, for creations, to themselves.
	productIDs := make(map[string]uuid.UUID)
	for _, bp := range doc.Products {
		p, err := fromBackupProduct(bp)
		if err != nil {
			return nil, err
		}
		if match := MatchProduct(products, p); match != nil {
			productIDs[bp.ID] = match.ID
			summary.Products.Skipped++
			continue
		}
		if err := insertProduct(tx, p); err != nil {
			return nil, fmt.Errorf("import: %w", err)
		}
		productIDs[bp.ID] = p.ID
		products = append(products, p)
		summary.Products.Imported++
	}

	// Stage 2: supplements, same identity rules.
	supplementIDs := make(map[string]uuid.UUID)
	for _, bs := range doc.Supplements {
		s, err := fromBackupSupplement(bs)
		if err != nil {
			return nil, err
		}
		if match := MatchSupplement(supplements, s); match != nil {
			supplementIDs[bs.ID] = match.ID
			summary.Supplements.Skipped++
			continue
		}
		if err := insertSupplement(tx, s); err != nil {
			return nil, fmt.Errorf("import: %w", err)
		}
		supplementIDs[bs.ID] = s.ID
		supplements = append(supplements, s)
		summary.Supplements.Imported++
	}

	// Stage 3: daily logs, matched by calendar day.
	logIDs := make(map[string]uuid.UUID)
	for _, bl := range doc.DailyLogs {
		l, err := fromBackupDailyLog(bl)
		if err != nil {
			return nil, err
		}
		if match := MatchDailyLog(logs, l.Date); match != nil {
			logIDs[bl.ID] = match.ID
			summary.DailyLogs.Skipped++
			continue
		}
		if err := insertDailyLog(tx, l); err != nil {
			return nil, fmt.Errorf("import: %w", err)
		}
		logIDs[bl.ID] = l.ID
		logs = append(logs, l)
		summary.DailyLogs.Imported++
	}

	// Stage 4: food entries. References re-home through the id maps;
	// an unmapped foreign id is dropped (soft condition, never an
	// error) while the snapshot is preserved untouched.
	for _, be := range doc.FoodEntries {
		e, err := fromBackupFoodEntry(be)
		if err != nil {
			return nil, err
		}
		if match := MatchFoodEntry(foodEntries, e); match != nil {
			summary.FoodEntries.Skipped++
			continue
		}
		e.ProductID = remapRef(be.ProductID, productIDs)
		e.DailyLogID = remapRef(be.DailyLogID, logIDs)
		if err := insertFoodEntry(tx, e); err != nil {
			return nil, fmt.Errorf("import: %w", err)
		}
		foodEntries = append(foodEntries, e)
		summary.FoodEntries.Imported++
	}

	// Stage 5: supplement entries, mirroring stage 4.
	for _, be := range doc.SupplementEntries {
		e, err := fromBackupSupplementEntry(be)
		if err != nil {
			return nil, err
		}
		if match := MatchSupplementEntry(supplementEntries, e); match != nil {
			summary.SupplementEntries.Skipped++
			continue
		}
		e.SupplementID = remapRef(be.SupplementID, supplementIDs)
		e.DailyLogID = remapRef(be.DailyLogID, logIDs)
		if err := insertSupplementEntry(tx, e); err != nil {
			return nil, fmt.Errorf("import: %w", err)
		}
		supplementEntries = append(supplementEntries, e)
		summary.SupplementEntries.Imported++
	}

	// Stage 6: templates, created verbatim including usage counters.
	for _, bt := range doc.AITemplates {
		t, err := fromBackupTemplate(bt)
		if err != nil {
			return nil, err
		}
		if match := MatchTemplate(templates, t.Name); match != nil {
			summary.Templates.Skipped++
			continue
		}
		if err := insertTemplate(tx, t); err != nil {
			return nil, fmt.Errorf("import: %w", err)
		}
		templates = append(templates, t)
		summary.Templates.Imported++
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("import: commit: %w", err)
	}
	return summary, nil
}

// remapRef resolves an incoming foreign id through an id map. Unknown
// ids drop the reference rather than failing the import.
func remapRef(raw *string, ids map[string]uuid.UUID) *uuid.UUID {
	if raw == nil {
		return nil
	}
	mapped, ok := ids[*raw]
	if !ok {
		return nil
	}
	return &mapped
}

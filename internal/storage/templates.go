// ABOUTME: AIFoodTemplate CRUD operations for SQLite storage.
// ABOUTME: Name lookup is case-insensitive to match reconciler identity rules.
package storage

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/harperreed/nutrition/internal/models"
)

const templateColumns = `id, name, amount, unit, weight_grams,
	calories, protein, carbs, fat, sugar, natural_sugar, added_sugar, fibre, sodium,
	cholesterol, saturated_fat, trans_fat, nutrients, ai_prompt, use_count, last_used, date_added`

const insertTemplateSQL = `
	INSERT INTO ai_templates (` + templateColumns + `)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
`

func insertTemplate(e execer, t *models.AIFoodTemplate) error {
	nutrients, err := encodeNutrients(t.Snapshot.Nutrients)
	if err != nil {
		return err
	}
	_, err = e.Exec(insertTemplateSQL,
		t.ID.String(), t.Name, t.Amount, t.Unit, t.WeightGrams,
		t.Snapshot.Calories, t.Snapshot.Protein, t.Snapshot.Carbs, t.Snapshot.Fat,
		t.Snapshot.Sugar, t.Snapshot.NaturalSugar, t.Snapshot.AddedSugar,
		t.Snapshot.Fibre, t.Snapshot.Sodium, t.Snapshot.Cholesterol,
		t.Snapshot.SaturatedFat, t.Snapshot.TransFat,
		nutrients, t.AIPrompt, t.UseCount, formatOptTime(t.LastUsed), formatTime(t.DateAdded),
	)
	if err != nil {
		return fmt.Errorf("insert template: %w", err)
	}
	return nil
}

// CreateTemplate stores a new AI food template in the database.
func (d *DB) CreateTemplate(t *models.AIFoodTemplate) error {
	return insertTemplate(d.db, t)
}

// GetTemplate retrieves a template by ID or ID prefix.
func (d *DB) GetTemplate(idOrPrefix string) (*models.AIFoodTemplate, error) {
	id, err := d.resolveID("ai_templates", idOrPrefix)
	if err != nil {
		return nil, err
	}
	row := d.db.QueryRow("SELECT "+templateColumns+" FROM ai_templates WHERE id = ?", id)
	return scanTemplate(row)
}

// ListTemplates retrieves templates sorted by use count, then recency.
func (d *DB) ListTemplates(limit int) ([]*models.AIFoodTemplate, error) {
	query := "SELECT " + templateColumns + " FROM ai_templates ORDER BY use_count DESC, date_added DESC, id"
	var args []interface{}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := d.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("list templates: %w", err)
	}
	defer rows.Close()

	var templates []*models.AIFoodTemplate
	for rows.Next() {
		t, err := scanTemplate(rows)
		if err != nil {
			return nil, err
		}
		templates = append(templates, t)
	}
	return templates, rows.Err()
}

// FindTemplateByName returns the template whose name matches
// case-insensitively, or ErrNotFound.
func (d *DB) FindTemplateByName(name string) (*models.AIFoodTemplate, error) {
	row := d.db.QueryRow(
		"SELECT "+templateColumns+" FROM ai_templates WHERE name = ? COLLATE NOCASE LIMIT 1", name)
	t, err := scanTemplate(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: template %s", ErrNotFound, name)
	}
	return t, err
}

// UpdateTemplate overwrites a template's usage counters.
func (d *DB) UpdateTemplate(t *models.AIFoodTemplate) error {
	_, err := d.db.Exec(
		"UPDATE ai_templates SET use_count = ?, last_used = ? WHERE id = ?",
		t.UseCount, formatOptTime(t.LastUsed), t.ID.String(),
	)
	if err != nil {
		return fmt.Errorf("update template: %w", err)
	}
	return nil
}

func scanTemplate(row rowScanner) (*models.AIFoodTemplate, error) {
	var t models.AIFoodTemplate
	var idStr, nutrientsRaw, dateAdded string
	var lastUsed sql.NullString
	err := row.Scan(
		&idStr, &t.Name, &t.Amount, &t.Unit, &t.WeightGrams,
		&t.Snapshot.Calories, &t.Snapshot.Protein, &t.Snapshot.Carbs, &t.Snapshot.Fat,
		&t.Snapshot.Sugar, &t.Snapshot.NaturalSugar, &t.Snapshot.AddedSugar,
		&t.Snapshot.Fibre, &t.Snapshot.Sodium, &t.Snapshot.Cholesterol,
		&t.Snapshot.SaturatedFat, &t.Snapshot.TransFat,
		&nutrientsRaw, &t.AIPrompt, &t.UseCount, &lastUsed, &dateAdded,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scan template: %w", err)
	}

	t.ID, err = uuid.Parse(idStr)
	if err != nil {
		return nil, fmt.Errorf("scan template: %w", err)
	}
	if t.Snapshot.Nutrients, err = decodeNutrients(nutrientsRaw); err != nil {
		return nil, fmt.Errorf("scan template: %w", err)
	}
	if lastUsed.Valid && lastUsed.String != "" {
		lu, err := parseTime(lastUsed.String)
		if err != nil {
			return nil, fmt.Errorf("scan template: %w", err)
		}
		t.LastUsed = &lu
	}
	if t.DateAdded, err = parseTime(dateAdded); err != nil {
		return nil, fmt.Errorf("scan template: %w", err)
	}
	return &t, nil
}

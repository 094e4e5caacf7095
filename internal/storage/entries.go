// ABOUTME: FoodEntry and SupplementEntry CRUD operations for SQLite storage.
// ABOUTME: Entries carry frozen snapshots; foreign keys are nullable by design.
package storage

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/harperreed/nutrition/internal/models"
)

const foodEntryColumns = `id, product_id, daily_log_id, source_name, amount, unit, timestamp,
	calories, protein, carbs, fat, sugar, natural_sugar, added_sugar, fibre, sodium,
	cholesterol, saturated_fat, trans_fat, nutrients, ai_generated, ai_prompt`

const insertFoodEntrySQL = `
	INSERT INTO food_entries (` + foodEntryColumns + `)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
`

func insertFoodEntry(e execer, entry *models.FoodEntry) error {
	nutrients, err := encodeNutrients(entry.Snapshot.Nutrients)
	if err != nil {
		return err
	}
	_, err = e.Exec(insertFoodEntrySQL,
		entry.ID.String(), optUUID(entry.ProductID), optUUID(entry.DailyLogID),
		entry.SourceName, entry.Amount, entry.Unit, formatTime(entry.Timestamp),
		entry.Snapshot.Calories, entry.Snapshot.Protein, entry.Snapshot.Carbs, entry.Snapshot.Fat,
		entry.Snapshot.Sugar, entry.Snapshot.NaturalSugar, entry.Snapshot.AddedSugar,
		entry.Snapshot.Fibre, entry.Snapshot.Sodium, entry.Snapshot.Cholesterol,
		entry.Snapshot.SaturatedFat, entry.Snapshot.TransFat,
		nutrients, entry.AIGenerated, entry.AIPrompt,
	)
	if err != nil {
		return fmt.Errorf("insert food entry: %w", err)
	}
	return nil
}

// CreateFoodEntry stores a new food entry in the database.
func (d *DB) CreateFoodEntry(e *models.FoodEntry) error {
	return insertFoodEntry(d.db, e)
}

// GetFoodEntry retrieves a food entry by ID or ID prefix.
func (d *DB) GetFoodEntry(idOrPrefix string) (*models.FoodEntry, error) {
	id, err := d.resolveID("food_entries", idOrPrefix)
	if err != nil {
		return nil, err
	}
	row := d.db.QueryRow("SELECT "+foodEntryColumns+" FROM food_entries WHERE id = ?", id)
	return scanFoodEntry(row)
}

// ListFoodEntriesForLog retrieves a day's food entries, oldest first.
func (d *DB) ListFoodEntriesForLog(logID uuid.UUID) ([]*models.FoodEntry, error) {
	rows, err := d.db.Query(
		"SELECT "+foodEntryColumns+" FROM food_entries WHERE daily_log_id = ? ORDER BY timestamp, id",
		logID.String(),
	)
	if err != nil {
		return nil, fmt.Errorf("list food entries for log: %w", err)
	}
	defer rows.Close()
	return collectFoodEntries(rows)
}

// ListFoodEntries retrieves food entries sorted by timestamp descending.
func (d *DB) ListFoodEntries(limit int) ([]*models.FoodEntry, error) {
	query := "SELECT " + foodEntryColumns + " FROM food_entries ORDER BY timestamp DESC, id"
	var args []interface{}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}
	rows, err := d.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("list food entries: %w", err)
	}
	defer rows.Close()
	return collectFoodEntries(rows)
}

// UpdateFoodEntry overwrites an entry's amount and snapshot, the only
// mutable parts. Used after a rescale.
func (d *DB) UpdateFoodEntry(e *models.FoodEntry) error {
	nutrients, err := encodeNutrients(e.Snapshot.Nutrients)
	if err != nil {
		return err
	}
	_, err = d.db.Exec(`
		UPDATE food_entries SET amount = ?, unit = ?,
			calories = ?, protein = ?, carbs = ?, fat = ?,
			sugar = ?, natural_sugar = ?, added_sugar = ?, fibre = ?, sodium = ?,
			cholesterol = ?, saturated_fat = ?, trans_fat = ?, nutrients = ?
		WHERE id = ?`,
		e.Amount, e.Unit,
		e.Snapshot.Calories, e.Snapshot.Protein, e.Snapshot.Carbs, e.Snapshot.Fat,
		e.Snapshot.Sugar, e.Snapshot.NaturalSugar, e.Snapshot.AddedSugar,
		e.Snapshot.Fibre, e.Snapshot.Sodium,
		e.Snapshot.Cholesterol, e.Snapshot.SaturatedFat, e.Snapshot.TransFat,
		nutrients, e.ID.String(),
	)
	if err != nil {
		return fmt.Errorf("update food entry: %w", err)
	}
	return nil
}

// DeleteFoodEntry removes a food entry by ID or prefix.
func (d *DB) DeleteFoodEntry(idOrPrefix string) error {
	id, err := d.resolveID("food_entries", idOrPrefix)
	if err != nil {
		return fmt.Errorf("delete food entry: %w", err)
	}
	if _, err := d.db.Exec("DELETE FROM food_entries WHERE id = ?", id); err != nil {
		return fmt.Errorf("delete food entry: %w", err)
	}
	return nil
}

func collectFoodEntries(rows *sql.Rows) ([]*models.FoodEntry, error) {
	var entries []*models.FoodEntry
	for rows.Next() {
		e, err := scanFoodEntry(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

func scanFoodEntry(row rowScanner) (*models.FoodEntry, error) {
	var e models.FoodEntry
	var idStr, nutrientsRaw, timestamp string
	var productID, dailyLogID sql.NullString
	err := row.Scan(
		&idStr, &productID, &dailyLogID, &e.SourceName, &e.Amount, &e.Unit, &timestamp,
		&e.Snapshot.Calories, &e.Snapshot.Protein, &e.Snapshot.Carbs, &e.Snapshot.Fat,
		&e.Snapshot.Sugar, &e.Snapshot.NaturalSugar, &e.Snapshot.AddedSugar,
		&e.Snapshot.Fibre, &e.Snapshot.Sodium, &e.Snapshot.Cholesterol,
		&e.Snapshot.SaturatedFat, &e.Snapshot.TransFat,
		&nutrientsRaw, &e.AIGenerated, &e.AIPrompt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scan food entry: %w", err)
	}

	e.ID, err = uuid.Parse(idStr)
	if err != nil {
		return nil, fmt.Errorf("scan food entry: %w", err)
	}
	if e.ProductID, err = scanOptUUID(productID); err != nil {
		return nil, fmt.Errorf("scan food entry: %w", err)
	}
	if e.DailyLogID, err = scanOptUUID(dailyLogID); err != nil {
		return nil, fmt.Errorf("scan food entry: %w", err)
	}
	if e.Timestamp, err = parseTime(timestamp); err != nil {
		return nil, fmt.Errorf("scan food entry: %w", err)
	}
	if e.Snapshot.Nutrients, err = decodeNutrients(nutrientsRaw); err != nil {
		return nil, fmt.Errorf("scan food entry: %w", err)
	}
	return &e, nil
}

const supplementEntryColumns = `id, supplement_id, daily_log_id, source_name, servings, timestamp, nutrients`

const insertSupplementEntrySQL = `
	INSERT INTO supplement_entries (` + supplementEntryColumns + `)
	VALUES (?, ?, ?, ?, ?, ?, ?)
`

func insertSupplementEntry(e execer, entry *models.SupplementEntry) error {
	nutrients, err := encodeNutrients(entry.Nutrients)
	if err != nil {
		return err
	}
	_, err = e.Exec(insertSupplementEntrySQL,
		entry.ID.String(), optUUID(entry.SupplementID), optUUID(entry.DailyLogID),
		entry.SourceName, entry.Servings, formatTime(entry.Timestamp), nutrients,
	)
	if err != nil {
		return fmt.Errorf("insert supplement entry: %w", err)
	}
	return nil
}

// CreateSupplementEntry stores a new supplement entry in the database.
func (d *DB) CreateSupplementEntry(e *models.SupplementEntry) error {
	return insertSupplementEntry(d.db, e)
}

// ListSupplementEntriesForLog retrieves a day's supplement entries, oldest first.
func (d *DB) ListSupplementEntriesForLog(logID uuid.UUID) ([]*models.SupplementEntry, error) {
	rows, err := d.db.Query(
		"SELECT "+supplementEntryColumns+" FROM supplement_entries WHERE daily_log_id = ? ORDER BY timestamp, id",
		logID.String(),
	)
	if err != nil {
		return nil, fmt.Errorf("list supplement entries for log: %w", err)
	}
	defer rows.Close()
	return collectSupplementEntries(rows)
}

// ListSupplementEntries retrieves supplement entries, newest first.
func (d *DB) ListSupplementEntries(limit int) ([]*models.SupplementEntry, error) {
	query := "SELECT " + supplementEntryColumns + " FROM supplement_entries ORDER BY timestamp DESC, id"
	var args []interface{}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}
	rows, err := d.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("list supplement entries: %w", err)
	}
	defer rows.Close()
	return collectSupplementEntries(rows)
}

// DeleteSupplementEntry removes a supplement entry by ID or prefix.
func (d *DB) DeleteSupplementEntry(idOrPrefix string) error {
	id, err := d.resolveID("supplement_entries", idOrPrefix)
	if err != nil {
		return fmt.Errorf("delete supplement entry: %w", err)
	}
	if _, err := d.db.Exec("DELETE FROM supplement_entries WHERE id = ?", id); err != nil {
		return fmt.Errorf("delete supplement entry: %w", err)
	}
	return nil
}

func collectSupplementEntries(rows *sql.Rows) ([]*models.SupplementEntry, error) {
	var entries []*models.SupplementEntry
	for rows.Next() {
		e, err := scanSupplementEntry(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

func scanSupplementEntry(row rowScanner) (*models.SupplementEntry, error) {
	var e models.SupplementEntry
	var idStr, nutrientsRaw, timestamp string
	var supplementID, dailyLogID sql.NullString
	err := row.Scan(
		&idStr, &supplementID, &dailyLogID, &e.SourceName, &e.Servings, &timestamp, &nutrientsRaw,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scan supplement entry: %w", err)
	}

	e.ID, err = uuid.Parse(idStr)
	if err != nil {
		return nil, fmt.Errorf("scan supplement entry: %w", err)
	}
	if e.SupplementID, err = scanOptUUID(supplementID); err != nil {
		return nil, fmt.Errorf("scan supplement entry: %w", err)
	}
	if e.DailyLogID, err = scanOptUUID(dailyLogID); err != nil {
		return nil, fmt.Errorf("scan supplement entry: %w", err)
	}
	if e.Timestamp, err = parseTime(timestamp); err != nil {
		return nil, fmt.Errorf("scan supplement entry: %w", err)
	}
	if e.Nutrients, err = decodeNutrients(nutrientsRaw); err != nil {
		return nil, fmt.Errorf("scan supplement entry: %w", err)
	}
	return &e, nil
}

// ABOUTME: Supplement CRUD operations for SQLite storage.
// ABOUTME: Mirrors products but with per-unit nutrient maps and no macros.
package storage

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/harperreed/nutrition/internal/models"
)

const supplementColumns = `id, name, brand, barcode, servings_per_container, nutrients, notes, date_added`

const insertSupplementSQL = `
	INSERT INTO supplements (` + supplementColumns + `)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?)
`

func insertSupplement(e execer, s *models.Supplement) error {
	nutrients, err := encodeNutrients(s.Nutrients)
	if err != nil {
		return err
	}
	_, err = e.Exec(insertSupplementSQL,
		s.ID.String(), s.Name, s.Brand, s.Barcode,
		s.ServingsPerContainer, nutrients, s.Notes, formatTime(s.DateAdded),
	)
	if err != nil {
		return fmt.Errorf("insert supplement: %w", err)
	}
	return nil
}

// CreateSupplement stores a new supplement in the database.
func (d *DB) CreateSupplement(s *models.Supplement) error {
	return insertSupplement(d.db, s)
}

// GetSupplement retrieves a supplement by ID or ID prefix.
func (d *DB) GetSupplement(idOrPrefix string) (*models.Supplement, error) {
	id, err := d.resolveID("supplements", idOrPrefix)
	if err != nil {
		return nil, err
	}
	row := d.db.QueryRow("SELECT "+supplementColumns+" FROM supplements WHERE id = ?", id)
	return scanSupplement(row)
}

// ListSupplements retrieves supplements sorted by date added descending.
func (d *DB) ListSupplements(limit int) ([]*models.Supplement, error) {
	query := "SELECT " + supplementColumns + " FROM supplements ORDER BY date_added DESC, id"
	var args []interface{}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := d.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("list supplements: %w", err)
	}
	defer rows.Close()

	var supplements []*models.Supplement
	for rows.Next() {
		s, err := scanSupplement(rows)
		if err != nil {
			return nil, err
		}
		supplements = append(supplements, s)
	}
	return supplements, rows.Err()
}

// DeleteSupplement removes a supplement by ID or prefix. Entry
// references are nullified; their nutrient snapshots survive.
func (d *DB) DeleteSupplement(idOrPrefix string) error {
	id, err := d.resolveID("supplements", idOrPrefix)
	if err != nil {
		return fmt.Errorf("delete supplement: %w", err)
	}
	if _, err := d.db.Exec("DELETE FROM supplements WHERE id = ?", id); err != nil {
		return fmt.Errorf("delete supplement: %w", err)
	}
	return nil
}

// FindSupplementByBarcode returns the supplement with an exact barcode
// match, or ErrNotFound.
func (d *DB) FindSupplementByBarcode(barcode string) (*models.Supplement, error) {
	row := d.db.QueryRow(
		"SELECT "+supplementColumns+" FROM supplements WHERE barcode = ? LIMIT 1", barcode)
	s, err := scanSupplement(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: barcode %s", ErrNotFound, barcode)
	}
	return s, err
}

// FindSupplementByNameBrand returns the supplement with an exact
// (name, brand) match. A nil brand only matches a stored NULL brand.
func (d *DB) FindSupplementByNameBrand(name string, brand *string) (*models.Supplement, error) {
	var row *sql.Row
	if brand == nil {
		row = d.db.QueryRow(
			"SELECT "+supplementColumns+" FROM supplements WHERE name = ? AND brand IS NULL LIMIT 1", name)
	} else {
		row = d.db.QueryRow(
			"SELECT "+supplementColumns+" FROM supplements WHERE name = ? AND brand = ? LIMIT 1", name, *brand)
	}
	s, err := scanSupplement(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: supplement %s", ErrNotFound, name)
	}
	return s, err
}

func scanSupplement(row rowScanner) (*models.Supplement, error) {
	var s models.Supplement
	var idStr, nutrientsRaw, dateAdded string
	err := row.Scan(
		&idStr, &s.Name, &s.Brand, &s.Barcode,
		&s.ServingsPerContainer, &nutrientsRaw, &s.Notes, &dateAdded,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scan supplement: %w", err)
	}

	s.ID, err = uuid.Parse(idStr)
	if err != nil {
		return nil, fmt.Errorf("scan supplement: %w", err)
	}
	if s.Nutrients, err = decodeNutrients(nutrientsRaw); err != nil {
		return nil, fmt.Errorf("scan supplement: %w", err)
	}
	if s.DateAdded, err = parseTime(dateAdded); err != nil {
		return nil, fmt.Errorf("scan supplement: %w", err)
	}
	return &s, nil
}

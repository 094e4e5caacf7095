// ABOUTME: Product CRUD operations for SQLite storage.
// ABOUTME: Deleting a product nullifies entry references via ON DELETE SET NULL.
package storage

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/harperreed/nutrition/internal/models"
)

const productColumns = `id, name, barcode, brand,
	calories_per_100g, protein_per_100g, carbs_per_100g, fat_per_100g,
	sugar_per_100g, natural_sugar_per_100g, added_sugar_per_100g,
	fibre_per_100g, sodium_per_100g, cholesterol_per_100g,
	saturated_fat_per_100g, trans_fat_per_100g,
	nutrients, serving_size, serving_size_unit,
	portion_grams, portions_per_package,
	image_data, main_image_data, notes, is_custom, date_added`

const insertProductSQL = `
	INSERT INTO products (` + productColumns + `)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
`

type execer interface {
	Exec(query string, args ...interface{}) (sql.Result, error)
}

func insertProduct(e execer, p *models.Product) error {
	nutrients, err := encodeNutrients(p.Nutrients)
	if err != nil {
		return err
	}
	_, err = e.Exec(insertProductSQL,
		p.ID.String(), p.Name, p.Barcode, p.Brand,
		p.CaloriesPer100g, p.ProteinPer100g, p.CarbsPer100g, p.FatPer100g,
		p.SugarPer100g, p.NaturalSugarPer100g, p.AddedSugarPer100g,
		p.FibrePer100g, p.SodiumPer100g, p.CholesterolPer100g,
		p.SaturatedFatPer100g, p.TransFatPer100g,
		nutrients, p.ServingSize, p.ServingSizeUnit,
		p.PortionGrams, p.PortionsPerPackage,
		p.ImageData, p.MainImageData, p.Notes, p.IsCustom,
		formatTime(p.DateAdded),
	)
	if err != nil {
		return fmt.Errorf("insert product: %w", err)
	}
	return nil
}

// CreateProduct stores a new product in the database.
func (d *DB) CreateProduct(p *models.Product) error {
	return insertProduct(d.db, p)
}

// GetProduct retrieves a product by ID or ID prefix.
func (d *DB) GetProduct(idOrPrefix string) (*models.Product, error) {
	id, err := d.resolveID("products", idOrPrefix)
	if err != nil {
		return nil, err
	}
	row := d.db.QueryRow("SELECT "+productColumns+" FROM products WHERE id = ?", id)
	return scanProduct(row)
}

// ListProducts retrieves products sorted by date added descending.
func (d *DB) ListProducts(limit int) ([]*models.Product, error) {
	query := "SELECT " + productColumns + " FROM products ORDER BY date_added DESC, id"
	var args []interface{}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := d.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	defer rows.Close()

	var products []*models.Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		products = append(products, p)
	}
	return products, rows.Err()
}

// UpdateProduct overwrites a product's stored fields. Entry snapshots
// referencing this product are deliberately untouched.
func (d *DB) UpdateProduct(p *models.Product) error {
	nutrients, err := encodeNutrients(p.Nutrients)
	if err != nil {
		return err
	}
	_, err = d.db.Exec(`
		UPDATE products SET name = ?, barcode = ?, brand = ?,
			calories_per_100g = ?, protein_per_100g = ?, carbs_per_100g = ?, fat_per_100g = ?,
			sugar_per_100g = ?, natural_sugar_per_100g = ?, added_sugar_per_100g = ?,
			fibre_per_100g = ?, sodium_per_100g = ?, cholesterol_per_100g = ?,
			saturated_fat_per_100g = ?, trans_fat_per_100g = ?,
			nutrients = ?, serving_size = ?, serving_size_unit = ?,
			portion_grams = ?, portions_per_package = ?,
			image_data = ?, main_image_data = ?, notes = ?, is_custom = ?
		WHERE id = ?`,
		p.Name, p.Barcode, p.Brand,
		p.CaloriesPer100g, p.ProteinPer100g, p.CarbsPer100g, p.FatPer100g,
		p.SugarPer100g, p.NaturalSugarPer100g, p.AddedSugarPer100g,
		p.FibrePer100g, p.SodiumPer100g, p.CholesterolPer100g,
		p.SaturatedFatPer100g, p.TransFatPer100g,
		nutrients, p.ServingSize, p.ServingSizeUnit,
		p.PortionGrams, p.PortionsPerPackage,
		p.ImageData, p.MainImageData, p.Notes, p.IsCustom,
		p.ID.String(),
	)
	if err != nil {
		return fmt.Errorf("update product: %w", err)
	}
	return nil
}

// DeleteProduct removes a product by ID or prefix. Entries keep their
// snapshots; their product reference is set to NULL by the schema.
func (d *DB) DeleteProduct(idOrPrefix string) error {
	id, err := d.resolveID("products", idOrPrefix)
	if err != nil {
		return fmt.Errorf("delete product: %w", err)
	}
	if _, err := d.db.Exec("DELETE FROM products WHERE id = ?", id); err != nil {
		return fmt.Errorf("delete product: %w", err)
	}
	return nil
}

// FindProductByBarcode returns the product with an exact barcode match,
// or ErrNotFound.
func (d *DB) FindProductByBarcode(barcode string) (*models.Product, error) {
	row := d.db.QueryRow(
		"SELECT "+productColumns+" FROM products WHERE barcode = ? LIMIT 1", barcode)
	p, err := scanProduct(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: barcode %s", ErrNotFound, barcode)
	}
	return p, err
}

// FindProductByNameBrand returns the product with an exact (name, brand)
// match. A nil brand only matches a stored NULL brand.
func (d *DB) FindProductByNameBrand(name string, brand *string) (*models.Product, error) {
	var row *sql.Row
	if brand == nil {
		row = d.db.QueryRow(
			"SELECT "+productColumns+" FROM products WHERE name = ? AND brand IS NULL LIMIT 1", name)
	} else {
		row = d.db.QueryRow(
			"SELECT "+productColumns+" FROM products WHERE name = ? AND brand = ? LIMIT 1", name, *brand)
	}
	p, err := scanProduct(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: product %s", ErrNotFound, name)
	}
	return p, err
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanProduct(row rowScanner) (*models.Product, error) {
	var p models.Product
	var idStr, nutrientsRaw, dateAdded string
	err := row.Scan(
		&idStr, &p.Name, &p.Barcode, &p.Brand,
		&p.CaloriesPer100g, &p.ProteinPer100g, &p.CarbsPer100g, &p.FatPer100g,
		&p.SugarPer100g, &p.NaturalSugarPer100g, &p.AddedSugarPer100g,
		&p.FibrePer100g, &p.SodiumPer100g, &p.CholesterolPer100g,
		&p.SaturatedFatPer100g, &p.TransFatPer100g,
		&nutrientsRaw, &p.ServingSize, &p.ServingSizeUnit,
		&p.PortionGrams, &p.PortionsPerPackage,
		&p.ImageData, &p.MainImageData, &p.Notes, &p.IsCustom, &dateAdded,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scan product: %w", err)
	}

	p.ID, err = uuid.Parse(idStr)
	if err != nil {
		return nil, fmt.Errorf("scan product: %w", err)
	}
	if p.Nutrients, err = decodeNutrients(nutrientsRaw); err != nil {
		return nil, fmt.Errorf("scan product: %w", err)
	}
	if p.DateAdded, err = parseTime(dateAdded); err != nil {
		return nil, fmt.Errorf("scan product: %w", err)
	}
	return &p, nil
}

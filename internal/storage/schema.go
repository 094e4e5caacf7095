// ABOUTME: SQLite schema definition and initialization.
// ABOUTME: Defines tables for products, daily logs, entries, supplements, templates.
package storage

// initSchema creates or updates the database schema.
//
// Foreign keys encode the deletion semantics: deleting a product or
// supplement nullifies entry references (the entry snapshot survives),
// deleting a daily log cascades to its entries. daily_logs.date is
// UNIQUE, one log per calendar day.
func (d *DB) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS products (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		barcode TEXT,
		brand TEXT,
		calories_per_100g REAL NOT NULL,
		protein_per_100g REAL NOT NULL,
		carbs_per_100g REAL NOT NULL,
		fat_per_100g REAL NOT NULL,
		sugar_per_100g REAL,
		natural_sugar_per_100g REAL,
		added_sugar_per_100g REAL,
		fibre_per_100g REAL,
		sodium_per_100g REAL,
		cholesterol_per_100g REAL,
		saturated_fat_per_100g REAL,
		trans_fat_per_100g REAL,
		nutrients TEXT NOT NULL DEFAULT '{}',
		serving_size REAL NOT NULL DEFAULT 100,
		serving_size_unit TEXT NOT NULL DEFAULT 'g',
		portion_grams REAL,
		portions_per_package INTEGER,
		image_data BLOB,
		main_image_data BLOB,
		notes TEXT,
		is_custom INTEGER NOT NULL DEFAULT 0,
		date_added DATETIME NOT NULL
	);

	CREATE TABLE IF NOT EXISTS supplements (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		brand TEXT,
		barcode TEXT,
		servings_per_container REAL NOT NULL,
		nutrients TEXT NOT NULL DEFAULT '{}',
		notes TEXT,
		date_added DATETIME NOT NULL
	);

	CREATE TABLE IF NOT EXISTS daily_logs (
		id TEXT PRIMARY KEY,
		date DATETIME NOT NULL UNIQUE,
		calorie_target REAL NOT NULL,
		protein_target REAL NOT NULL,
		carb_target REAL NOT NULL,
		fat_target REAL NOT NULL
	);

	CREATE TABLE IF NOT EXISTS food_entries (
		id TEXT PRIMARY KEY,
		product_id TEXT REFERENCES products(id) ON DELETE SET NULL,
		daily_log_id TEXT REFERENCES daily_logs(id) ON DELETE CASCADE,
		source_name TEXT NOT NULL,
		amount REAL NOT NULL,
		unit TEXT NOT NULL,
		timestamp DATETIME NOT NULL,
		calories REAL NOT NULL,
		protein REAL NOT NULL,
		carbs REAL NOT NULL,
		fat REAL NOT NULL,
		sugar REAL,
		natural_sugar REAL,
		added_sugar REAL,
		fibre REAL,
		sodium REAL,
		cholesterol REAL,
		saturated_fat REAL,
		trans_fat REAL,
		nutrients TEXT NOT NULL DEFAULT '{}',
		ai_generated INTEGER NOT NULL DEFAULT 0,
		ai_prompt TEXT
	);

	CREATE TABLE IF NOT EXISTS supplement_entries (
		id TEXT PRIMARY KEY,
		supplement_id TEXT REFERENCES supplements(id) ON DELETE SET NULL,
		daily_log_id TEXT REFERENCES daily_logs(id) ON DELETE CASCADE,
		source_name TEXT NOT NULL,
		servings REAL NOT NULL,
		timestamp DATETIME NOT NULL,
		nutrients TEXT NOT NULL DEFAULT '{}'
	);

	CREATE TABLE IF NOT EXISTS ai_templates (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		amount REAL NOT NULL,
		unit TEXT NOT NULL,
		weight_grams REAL NOT NULL,
		calories REAL NOT NULL,
		protein REAL NOT NULL,
		carbs REAL NOT NULL,
		fat REAL NOT NULL,
		sugar REAL,
		natural_sugar REAL,
		added_sugar REAL,
		fibre REAL,
		sodium REAL,
		cholesterol REAL,
		saturated_fat REAL,
		trans_fat REAL,
		nutrients TEXT NOT NULL DEFAULT '{}',
		ai_prompt TEXT,
		use_count INTEGER NOT NULL DEFAULT 0,
		last_used DATETIME,
		date_added DATETIME NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_products_barcode ON products(barcode);
	CREATE INDEX IF NOT EXISTS idx_products_name ON products(name);
	CREATE INDEX IF NOT EXISTS idx_food_entries_log ON food_entries(daily_log_id);
	CREATE INDEX IF NOT EXISTS idx_food_entries_timestamp ON food_entries(timestamp DESC);
	CREATE INDEX IF NOT EXISTS idx_supplement_entries_log ON supplement_entries(daily_log_id);
	CREATE INDEX IF NOT EXISTS idx_supplement_entries_timestamp ON supplement_entries(timestamp DESC);
	CREATE INDEX IF NOT EXISTS idx_ai_templates_name ON ai_templates(name COLLATE NOCASE);
	`

	_, err := d.db.Exec(schema)
	return err
}

// ABOUTME: Scan/exec helpers shared by the storage CRUD files.
// ABOUTME: Time formatting, nutrient map JSON, and nullable uuid conversion.
package storage

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/harperreed/nutrition/internal/models"
)

// formatTime stores timestamps as RFC3339 with nanoseconds, preserving
// the local offset so calendar-day matching survives round-trips.
func formatTime(t time.Time) string {
	return t.Format(time.RFC3339Nano)
}

func parseTime(s string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse time %q: %w", s, err)
	}
	return t, nil
}

func formatOptTime(t *time.Time) interface{} {
	if t == nil {
		return nil
	}
	return formatTime(*t)
}

// encodeNutrients serializes a nutrient map as canonical JSON.
// encoding/json sorts map keys, so the output is deterministic.
func encodeNutrients(nm models.NutrientMap) (string, error) {
	if len(nm) == 0 {
		return "{}", nil
	}
	data, err := json.Marshal(nm)
	if err != nil {
		return "", fmt.Errorf("marshal nutrients: %w", err)
	}
	return string(data), nil
}

func decodeNutrients(raw string) (models.NutrientMap, error) {
	nm := models.NutrientMap{}
	if raw == "" {
		return nm, nil
	}
	if err := json.Unmarshal([]byte(raw), &nm); err != nil {
		return nil, fmt.Errorf("unmarshal nutrients: %w", err)
	}
	return nm, nil
}

// optUUID converts a nullable uuid for Exec args.
func optUUID(id *uuid.UUID) interface{} {
	if id == nil {
		return nil
	}
	return id.String()
}

// scanOptUUID converts a scanned nullable TEXT column back to *uuid.UUID.
func scanOptUUID(ns sql.NullString) (*uuid.UUID, error) {
	if !ns.Valid || ns.String == "" {
		return nil, nil
	}
	id, err := uuid.Parse(ns.String)
	if err != nil {
		return nil, fmt.Errorf("parse uuid %q: %w", ns.String, err)
	}
	return &id, nil
}

// resolveID finds the full id in table matching an id or id prefix.
func (d *DB) resolveID(table, idOrPrefix string) (string, error) {
	rows, err := d.db.Query(
		fmt.Sprintf("SELECT id FROM %s WHERE id LIKE ? LIMIT 2", table),
		idOrPrefix+"%",
	)
	if err != nil {
		return "", fmt.Errorf("resolve id: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return "", fmt.Errorf("resolve id: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return "", fmt.Errorf("resolve id: %w", err)
	}

	switch len(ids) {
	case 0:
		return "", fmt.Errorf("%w: %s", ErrNotFound, idOrPrefix)
	case 1:
		return ids[0], nil
	default:
		return "", fmt.Errorf("%w: %s", ErrAmbiguousID, idOrPrefix)
	}
}

// ABOUTME: DailyLog CRUD operations for SQLite storage.
// ABOUTME: Enforces one log per calendar day via GetOrCreate and a UNIQUE date.
package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/harperreed/nutrition/internal/models"
)

const dailyLogColumns = `id, date, calorie_target, protein_target, carb_target, fat_target`

const insertDailyLogSQL = `
	INSERT INTO daily_logs (` + dailyLogColumns + `)
	VALUES (?, ?, ?, ?, ?, ?)
`

func insertDailyLog(e execer, log *models.DailyLog) error {
	_, err := e.Exec(insertDailyLogSQL,
		log.ID.String(), formatTime(log.Date),
		log.CalorieTarget, log.ProteinTarget, log.CarbTarget, log.FatTarget,
	)
	if err != nil {
		return fmt.Errorf("insert daily log: %w", err)
	}
	return nil
}

// GetOrCreateDailyLog returns the log for t's calendar day, creating
// it with the given default targets if it does not exist yet. This is
// the only write path for daily logs outside import, which keeps the
// one-log-per-day invariant.
func (d *DB) GetOrCreateDailyLog(t time.Time, defaults Targets) (*models.DailyLog, error) {
	log, err := d.GetDailyLogByDate(t)
	if err == nil {
		return log, nil
	}
	if !errors.Is(err, ErrNotFound) {
		return nil, err
	}

	log = models.NewDailyLog(t, defaults.Calories, defaults.Protein, defaults.Carbs, defaults.Fat)
	if err := insertDailyLog(d.db, log); err != nil {
		return nil, err
	}
	return log, nil
}

// GetDailyLogByDate returns the log whose date falls on t's calendar
// day, or ErrNotFound. Dates are compared after truncation to local
// midnight, not by raw equality, so a log written from another device
// in a different zone still matches its calendar day here.
func (d *DB) GetDailyLogByDate(t time.Time) (*models.DailyLog, error) {
	logs, err := d.ListDailyLogs(0)
	if err != nil {
		return nil, err
	}
	for _, log := range logs {
		if models.SameDay(log.Date, t) {
			return log, nil
		}
	}
	return nil, fmt.Errorf("%w: daily log for %s", ErrNotFound, models.DayStart(t).Format("2006-01-02"))
}

// ListDailyLogs retrieves logs sorted by date descending.
func (d *DB) ListDailyLogs(limit int) ([]*models.DailyLog, error) {
	query := "SELECT " + dailyLogColumns + " FROM daily_logs ORDER BY date DESC"
	var args []interface{}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := d.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("list daily logs: %w", err)
	}
	defer rows.Close()

	var logs []*models.DailyLog
	for rows.Next() {
		log, err := scanDailyLog(rows)
		if err != nil {
			return nil, err
		}
		logs = append(logs, log)
	}
	return logs, rows.Err()
}

// UpdateDailyLogTargets overwrites the macro targets of a log.
func (d *DB) UpdateDailyLogTargets(log *models.DailyLog) error {
	_, err := d.db.Exec(`
		UPDATE daily_logs SET calorie_target = ?, protein_target = ?, carb_target = ?, fat_target = ?
		WHERE id = ?`,
		log.CalorieTarget, log.ProteinTarget, log.CarbTarget, log.FatTarget, log.ID.String(),
	)
	if err != nil {
		return fmt.Errorf("update daily log targets: %w", err)
	}
	return nil
}

// DeleteDailyLog removes a log by ID or prefix. Its entries are
// cascade-deleted by the schema.
func (d *DB) DeleteDailyLog(idOrPrefix string) error {
	id, err := d.resolveID("daily_logs", idOrPrefix)
	if err != nil {
		return fmt.Errorf("delete daily log: %w", err)
	}
	if _, err := d.db.Exec("DELETE FROM daily_logs WHERE id = ?", id); err != nil {
		return fmt.Errorf("delete daily log: %w", err)
	}
	return nil
}

func scanDailyLog(row rowScanner) (*models.DailyLog, error) {
	var log models.DailyLog
	var idStr, dateStr string
	err := row.Scan(&idStr, &dateStr,
		&log.CalorieTarget, &log.ProteinTarget, &log.CarbTarget, &log.FatTarget)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scan daily log: %w", err)
	}

	log.ID, err = uuid.Parse(idStr)
	if err != nil {
		return nil, fmt.Errorf("scan daily log: %w", err)
	}
	if log.Date, err = parseTime(dateStr); err != nil {
		return nil, fmt.Errorf("scan daily log: %w", err)
	}
	return &log, nil
}

// ABOUTME: DailyLog CRUD operations for SQLite storage.
// ABOUTME: Logs are keyed by calendar date; writing an existing date updates it in place.
package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/harperreed/healthopt/internal/models"
)

const dailyColumns = `id, date, weight, calories, protein_grams, carbs_grams, fat_grams,
	steps, energy_level, sleep_hours, notes, created_at`

// UpsertDailyLog inserts a log or replaces the fields of the log already stored for its date.
// On return d.ID is the stored record's ID.
func (d *DB) UpsertDailyLog(l *models.DailyLog) error {
	query := `
		INSERT INTO daily_logs (` + dailyColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(date) DO UPDATE SET
			weight = excluded.weight,
			calories = excluded.calories,
			protein_grams = excluded.protein_grams,
			carbs_grams = excluded.carbs_grams,
			fat_grams = excluded.fat_grams,
			steps = excluded.steps,
			energy_level = excluded.energy_level,
			sleep_hours = excluded.sleep_hours,
			notes = excluded.notes
		RETURNING id
	`
	var id string
	err := d.db.QueryRow(query,
		l.ID.String(),
		models.DateKey(l.Date),
		l.Weight,
		l.Calories,
		l.ProteinGrams,
		l.CarbsGrams,
		l.FatGrams,
		l.Steps,
		nullInt(l.EnergyLevel),
		nullFloat(l.SleepHours),
		l.Notes,
		l.CreatedAt.Format(time.RFC3339),
	).Scan(&id)
	if err != nil {
		return fmt.Errorf("upsert daily log: %w", err)
	}
	l.ID = parseUUID(id)
	return nil
}

// GetDailyLog retrieves the log for the calendar date of date.
func (d *DB) GetDailyLog(date time.Time) (*models.DailyLog, error) {
	row := d.db.QueryRow(`SELECT `+dailyColumns+` FROM daily_logs WHERE date = ?`, models.DateKey(date))
	l, err := scanDailyLog(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: daily log for %s", ErrNotFound, models.DateKey(date))
	}
	if err != nil {
		return nil, fmt.Errorf("get daily log: %w", err)
	}
	return l, nil
}

// ListDailyLogs retrieves logs in r, oldest first.
func (d *DB) ListDailyLogs(r DateRange) ([]*models.DailyLog, error) {
	where, args := dateClause("date", r)
	rows, err := d.db.Query(`SELECT `+dailyColumns+` FROM daily_logs`+where+` ORDER BY date`, args...)
	if err != nil {
		return nil, fmt.Errorf("list daily logs: %w", err)
	}
	defer rows.Close()

	var logs []*models.DailyLog
	for rows.Next() {
		l, err := scanDailyLog(rows)
		if err != nil {
			return nil, fmt.Errorf("scan daily log: %w", err)
		}
		logs = append(logs, l)
	}
	return logs, rows.Err()
}

// DeleteDailyLog removes a log by ID or prefix.
func (d *DB) DeleteDailyLog(idOrPrefix string) error {
	if err := d.deleteByID("daily_logs", idOrPrefix); err != nil {
		return fmt.Errorf("delete daily log: %w", err)
	}
	return nil
}

func scanDailyLog(row rowScanner) (*models.DailyLog, error) {
	var l models.DailyLog
	var id, date, createdAt string
	var energy sql.NullInt64
	var sleep sql.NullFloat64
	var notes sql.NullString

	err := row.Scan(&id, &date, &l.Weight, &l.Calories, &l.ProteinGrams, &l.CarbsGrams, &l.FatGrams,
		&l.Steps, &energy, &sleep, &notes, &createdAt)
	if err != nil {
		return nil, err
	}

	l.ID = parseUUID(id)
	l.Date, _ = models.ParseDate(date)
	l.EnergyLevel = intPtr(energy)
	l.SleepHours = floatPtr(sleep)
	l.Notes = notes.String
	l.CreatedAt = parseTime(createdAt)
	return &l, nil
}

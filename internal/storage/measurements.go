// ABOUTME: BodyMeasurement CRUD operations for SQLite storage.
// ABOUTME: One measurement per date; new values merge into the stored record.
package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/harperreed/healthopt/internal/models"
)

const measurementColumns = `id, date, waist, chest, left_arm, right_arm, left_thigh, right_thigh,
	neck, hips, notes, created_at`

// UpsertBodyMeasurement stores m, merging it into any measurement already stored for
// its date. On return m holds the merged record.
func (d *DB) UpsertBodyMeasurement(m *models.BodyMeasurement) error {
	existing, err := d.GetBodyMeasurement(m.Date)
	switch {
	case errors.Is(err, ErrNotFound):
		return d.insertBodyMeasurement(m)
	case err != nil:
		return fmt.Errorf("upsert body measurement: %w", err)
	}

	existing.Merge(m)
	_, err = d.db.Exec(`
		UPDATE body_measurements
		SET waist = ?, chest = ?, left_arm = ?, right_arm = ?, left_thigh = ?, right_thigh = ?,
			neck = ?, hips = ?, notes = ?
		WHERE id = ?
	`,
		nullFloat(existing.Waist), nullFloat(existing.Chest),
		nullFloat(existing.LeftArm), nullFloat(existing.RightArm),
		nullFloat(existing.LeftThigh), nullFloat(existing.RightThigh),
		nullFloat(existing.Neck), nullFloat(existing.Hips),
		existing.Notes,
		existing.ID.String(),
	)
	if err != nil {
		return fmt.Errorf("update body measurement: %w", err)
	}
	*m = *existing
	return nil
}

func (d *DB) insertBodyMeasurement(m *models.BodyMeasurement) error {
	_, err := d.db.Exec(`
		INSERT INTO body_measurements (`+measurementColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`,
		m.ID.String(),
		models.DateKey(m.Date),
		nullFloat(m.Waist), nullFloat(m.Chest),
		nullFloat(m.LeftArm), nullFloat(m.RightArm),
		nullFloat(m.LeftThigh), nullFloat(m.RightThigh),
		nullFloat(m.Neck), nullFloat(m.Hips),
		m.Notes,
		m.CreatedAt.Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("create body measurement: %w", err)
	}
	return nil
}

// GetBodyMeasurement retrieves the measurement for the calendar date of date.
func (d *DB) GetBodyMeasurement(date time.Time) (*models.BodyMeasurement, error) {
	row := d.db.QueryRow(`SELECT `+measurementColumns+` FROM body_measurements WHERE date = ?`, models.DateKey(date))
	m, err := scanBodyMeasurement(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: measurement for %s", ErrNotFound, models.DateKey(date))
	}
	if err != nil {
		return nil, fmt.Errorf("get body measurement: %w", err)
	}
	return m, nil
}

// ListBodyMeasurements retrieves measurements in r, oldest first.
func (d *DB) ListBodyMeasurements(r DateRange) ([]*models.BodyMeasurement, error) {
	where, args := dateClause("date", r)
	rows, err := d.db.Query(`SELECT `+measurementColumns+` FROM body_measurements`+where+` ORDER BY date`, args...)
	if err != nil {
		return nil, fmt.Errorf("list body measurements: %w", err)
	}
	defer rows.Close()

	var out []*models.BodyMeasurement
	for rows.Next() {
		m, err := scanBodyMeasurement(rows)
		if err != nil {
			return nil, fmt.Errorf("scan body measurement: %w", err)
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

// DeleteBodyMeasurement removes a measurement by ID or prefix.
func (d *DB) DeleteBodyMeasurement(idOrPrefix string) error {
	if err := d.deleteByID("body_measurements", idOrPrefix); err != nil {
		return fmt.Errorf("delete body measurement: %w", err)
	}
	return nil
}

func scanBodyMeasurement(row rowScanner) (*models.BodyMeasurement, error) {
	var m models.BodyMeasurement
	var id, date, createdAt string
	var waist, chest, leftArm, rightArm, leftThigh, rightThigh, neck, hips sql.NullFloat64
	var notes sql.NullString

	err := row.Scan(&id, &date, &waist, &chest, &leftArm, &rightArm, &leftThigh, &rightThigh,
		&neck, &hips, &notes, &createdAt)
	if err != nil {
		return nil, err
	}

	m.ID = parseUUID(id)
	m.Date, _ = models.ParseDate(date)
	m.Waist, m.Chest = floatPtr(waist), floatPtr(chest)
	m.LeftArm, m.RightArm = floatPtr(leftArm), floatPtr(rightArm)
	m.LeftThigh, m.RightThigh = floatPtr(leftThigh), floatPtr(rightThigh)
	m.Neck, m.Hips = floatPtr(neck), floatPtr(hips)
	m.Notes = notes.String
	m.CreatedAt = parseTime(createdAt)
	return &m, nil
}

// ABOUTME: Blood pressure CRUD operations for SQLite storage.
// ABOUTME: Readings keep their recorded offset so calendar dates survive a round trip.
package storage

import (
	"database/sql"
	"fmt"
	"sort"
	"time"

	"github.com/harperreed/healthopt/internal/models"
)

// CreateBloodPressure stores a new reading.
func (d *DB) CreateBloodPressure(b *models.BloodPressureReading) error {
	query := `
		INSERT INTO blood_pressure (id, recorded_at, systolic, diastolic, pulse, notes, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`
	_, err := d.db.Exec(query,
		b.ID.String(),
		b.RecordedAt.Format(time.RFC3339),
		b.Systolic,
		b.Diastolic,
		nullInt(b.Pulse),
		b.Notes,
		b.CreatedAt.Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("create blood pressure reading: %w", err)
	}
	return nil
}

// ListBloodPressure retrieves readings whose local date falls in r, oldest first.
// Offsets vary between readings, so filtering and ordering happen after the query.
func (d *DB) ListBloodPressure(r DateRange) ([]*models.BloodPressureReading, error) {
	rows, err := d.db.Query(`
		SELECT id, recorded_at, systolic, diastolic, pulse, notes, created_at
		FROM blood_pressure
	`)
	if err != nil {
		return nil, fmt.Errorf("list blood pressure: %w", err)
	}
	defer rows.Close()

	var readings []*models.BloodPressureReading
	for rows.Next() {
		var b models.BloodPressureReading
		var id, recordedAt, createdAt string
		var pulse sql.NullInt64
		var notes sql.NullString

		if err := rows.Scan(&id, &recordedAt, &b.Systolic, &b.Diastolic, &pulse, &notes, &createdAt); err != nil {
			return nil, fmt.Errorf("scan blood pressure: %w", err)
		}
		b.ID = parseUUID(id)
		b.RecordedAt = parseTime(recordedAt)
		b.Pulse = intPtr(pulse)
		b.Notes = notes.String
		b.CreatedAt = parseTime(createdAt)

		if r.Contains(b.RecordedAt) {
			readings = append(readings, &b)
		}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list blood pressure: %w", err)
	}

	sort.SliceStable(readings, func(i, j int) bool {
		return readings[i].RecordedAt.Before(readings[j].RecordedAt)
	})
	return readings, nil
}

// DeleteBloodPressure removes a reading by ID or prefix.
func (d *DB) DeleteBloodPressure(idOrPrefix string) error {
	if err := d.deleteByID("blood_pressure", idOrPrefix); err != nil {
		return fmt.Errorf("delete blood pressure reading: %w", err)
	}
	return nil
}

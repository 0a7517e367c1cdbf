// ABOUTME: Repository interface for health record storage.
// ABOUTME: Defines the CRUD and date-range listing contract shared by SQLite and Badger.
package storage

import (
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/harperreed/healthopt/internal/models"
)

var (
	// ErrNotFound is returned when no record matches a lookup.
	ErrNotFound = errors.New("not found")
	// ErrAmbiguous is returned when an ID prefix matches more than one record.
	ErrAmbiguous = errors.New("ambiguous prefix")
)

// DateRange selects records by calendar date, inclusive on both ends.
// A zero bound is open.
type DateRange struct {
	From time.Time
	To   time.Time
}

// AllTime is the unbounded range.
func AllTime() DateRange {
	return DateRange{}
}

// LastDays covers the n calendar days ending on now.
func LastDays(now time.Time, n int) DateRange {
	return DateRange{From: models.DateOf(now).AddDate(0, 0, -(n - 1)), To: now}
}

// Contains reports whether t's calendar date falls inside the range.
func (r DateRange) Contains(t time.Time) bool {
	key := models.DateKey(t)
	if !r.From.IsZero() && key < models.DateKey(r.From) {
		return false
	}
	if !r.To.IsZero() && key > models.DateKey(r.To) {
		return false
	}
	return true
}

// Repository defines the storage interface for health records.
// All list operations return records in ascending date order.
type Repository interface {
	// Daily log operations. At most one log exists per date.
	UpsertDailyLog(d *models.DailyLog) error
	GetDailyLog(date time.Time) (*models.DailyLog, error)
	ListDailyLogs(r DateRange) ([]*models.DailyLog, error)
	DeleteDailyLog(idOrPrefix string) error

	// Blood pressure operations
	CreateBloodPressure(b *models.BloodPressureReading) error
	ListBloodPressure(r DateRange) ([]*models.BloodPressureReading, error)
	DeleteBloodPressure(idOrPrefix string) error

	// Body measurement operations. Upsert merges into the existing measurement for the date.
	UpsertBodyMeasurement(m *models.BodyMeasurement) error
	GetBodyMeasurement(date time.Time) (*models.BodyMeasurement, error)
	ListBodyMeasurements(r DateRange) ([]*models.BodyMeasurement, error)
	DeleteBodyMeasurement(idOrPrefix string) error

	// Workout session operations. Deleting a session deletes its sets.
	CreateSession(s *models.WorkoutSession) error
	GetSession(idOrPrefix string) (*models.WorkoutSession, error)
	GetSessionByDate(date time.Time) (*models.WorkoutSession, error)
	ListSessions(r DateRange) ([]*models.WorkoutSession, error)
	DeleteSession(idOrPrefix string) error

	// Exercise operations. Names are unique, case-insensitive.
	CreateExercise(e *models.Exercise) error
	GetExerciseByName(name string) (*models.Exercise, error)
	ListExercises() ([]*models.Exercise, error)

	// Set operations. A nil session lists every set.
	AddSet(s *models.WorkoutSet) error
	ListSets(sessionID *uuid.UUID) ([]*models.WorkoutSet, error)
	DeleteSet(idOrPrefix string) error

	// Lifecycle
	Close() error
}

// ABOUTME: Workout session, exercise and set CRUD operations for SQLite storage.
// ABOUTME: Sets reference sessions with cascade delete and exercises by ID.
package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/harperreed/healthopt/internal/models"
)

const sessionColumns = `id, date, workout_type, start_seconds, end_seconds, overall_rpe,
	fatigue_level, notes, created_at`

// CreateSession stores a new workout session.
func (d *DB) CreateSession(s *models.WorkoutSession) error {
	_, err := d.db.Exec(`
		INSERT INTO workout_sessions (`+sessionColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`,
		s.ID.String(),
		models.DateKey(s.Date),
		s.WorkoutType,
		nullDuration(s.StartTime),
		nullDuration(s.EndTime),
		nullInt(s.OverallRPE),
		nullInt(s.FatigueLevel),
		s.Notes,
		s.CreatedAt.Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("create workout session: %w", err)
	}
	return nil
}

// GetSession retrieves a session by ID or ID prefix.
func (d *DB) GetSession(idOrPrefix string) (*models.WorkoutSession, error) {
	id, err := d.resolveID("workout_sessions", idOrPrefix)
	if err != nil {
		return nil, fmt.Errorf("get workout session: %w", err)
	}
	return d.querySession(`SELECT `+sessionColumns+` FROM workout_sessions WHERE id = ?`, id)
}

// GetSessionByDate retrieves the first session logged on the calendar date of date.
func (d *DB) GetSessionByDate(date time.Time) (*models.WorkoutSession, error) {
	return d.querySession(`
		SELECT `+sessionColumns+` FROM workout_sessions
		WHERE date = ?
		ORDER BY created_at
		LIMIT 1
	`, models.DateKey(date))
}

func (d *DB) querySession(query string, arg string) (*models.WorkoutSession, error) {
	s, err := scanSession(d.db.QueryRow(query, arg))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: workout session %s", ErrNotFound, arg)
	}
	if err != nil {
		return nil, fmt.Errorf("get workout session: %w", err)
	}
	return s, nil
}

// ListSessions retrieves sessions in r, oldest first.
func (d *DB) ListSessions(r DateRange) ([]*models.WorkoutSession, error) {
	where, args := dateClause("date", r)
	rows, err := d.db.Query(`SELECT `+sessionColumns+` FROM workout_sessions`+where+` ORDER BY date, created_at`, args...)
	if err != nil {
		return nil, fmt.Errorf("list workout sessions: %w", err)
	}
	defer rows.Close()

	var sessions []*models.WorkoutSession
	for rows.Next() {
		s, err := scanSession(rows)
		if err != nil {
			return nil, fmt.Errorf("scan workout session: %w", err)
		}
		sessions = append(sessions, s)
	}
	return sessions, rows.Err()
}

// DeleteSession removes a session and all its sets.
// Sets are deleted explicitly since foreign_keys is a per-connection pragma.
func (d *DB) DeleteSession(idOrPrefix string) error {
	id, err := d.resolveID("workout_sessions", idOrPrefix)
	if err != nil {
		return fmt.Errorf("delete workout session: %w", err)
	}

	tx, err := d.db.Begin()
	if err != nil {
		return fmt.Errorf("delete workout session: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.Exec(`DELETE FROM workout_sets WHERE session_id = ?`, id); err != nil {
		return fmt.Errorf("delete workout sets: %w", err)
	}
	result, err := tx.Exec(`DELETE FROM workout_sessions WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete workout session: %w", err)
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return fmt.Errorf("delete workout session: %w: %s", ErrNotFound, idOrPrefix)
	}
	return tx.Commit()
}

func scanSession(row rowScanner) (*models.WorkoutSession, error) {
	var s models.WorkoutSession
	var id, date, createdAt string
	var start, end, rpe, fatigue sql.NullInt64
	var notes sql.NullString

	if err := row.Scan(&id, &date, &s.WorkoutType, &start, &end, &rpe, &fatigue, &notes, &createdAt); err != nil {
		return nil, err
	}
	s.ID = parseUUID(id)
	s.Date, _ = models.ParseDate(date)
	s.StartTime = durationPtr(start)
	s.EndTime = durationPtr(end)
	s.OverallRPE = intPtr(rpe)
	s.FatigueLevel = intPtr(fatigue)
	s.Notes = notes.String
	s.CreatedAt = parseTime(createdAt)
	return &s, nil
}

// CreateExercise stores a new exercise. Names must be unique ignoring case.
func (d *DB) CreateExercise(e *models.Exercise) error {
	_, err := d.db.Exec(`
		INSERT INTO exercises (id, name, category, muscle_group, movement_pattern, equipment)
		VALUES (?, ?, ?, ?, ?, ?)
	`, e.ID.String(), strings.TrimSpace(e.Name), e.Category, e.MuscleGroup, e.MovementPattern, e.Equipment)
	if err != nil {
		return fmt.Errorf("create exercise: %w", err)
	}
	return nil
}

// GetExerciseByName retrieves an exercise by case-insensitive name.
func (d *DB) GetExerciseByName(name string) (*models.Exercise, error) {
	row := d.db.QueryRow(`
		SELECT id, name, category, muscle_group, movement_pattern, equipment
		FROM exercises WHERE name = ?
	`, strings.TrimSpace(name))
	e, err := scanExercise(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: exercise %q", ErrNotFound, name)
	}
	if err != nil {
		return nil, fmt.Errorf("get exercise: %w", err)
	}
	return e, nil
}

// ListExercises retrieves every exercise ordered by name.
func (d *DB) ListExercises() ([]*models.Exercise, error) {
	rows, err := d.db.Query(`
		SELECT id, name, category, muscle_group, movement_pattern, equipment
		FROM exercises ORDER BY name
	`)
	if err != nil {
		return nil, fmt.Errorf("list exercises: %w", err)
	}
	defer rows.Close()

	var out []*models.Exercise
	for rows.Next() {
		e, err := scanExercise(rows)
		if err != nil {
			return nil, fmt.Errorf("scan exercise: %w", err)
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

func scanExercise(row rowScanner) (*models.Exercise, error) {
	var e models.Exercise
	var id string
	var category, muscle, pattern, equipment sql.NullString
	if err := row.Scan(&id, &e.Name, &category, &muscle, &pattern, &equipment); err != nil {
		return nil, err
	}
	e.ID = parseUUID(id)
	e.Category = category.String
	e.MuscleGroup = muscle.String
	e.MovementPattern = pattern.String
	e.Equipment = equipment.String
	return &e, nil
}

const setColumns = `ws.id, ws.session_id, ws.exercise_id, ws.set_number, ws.reps, ws.weight, ws.rpe,
	ws.is_warmup, ws.is_failure, ws.rest_seconds, ws.notes, ws.created_at`

// AddSet stores a new set. Its session and exercise must exist.
func (d *DB) AddSet(s *models.WorkoutSet) error {
	var n int
	err := d.db.QueryRow(`
		SELECT (SELECT COUNT(*) FROM workout_sessions WHERE id = ?) +
		       (SELECT COUNT(*) FROM exercises WHERE id = ?)
	`, s.SessionID.String(), s.ExerciseID.String()).Scan(&n)
	if err != nil {
		return fmt.Errorf("add workout set: %w", err)
	}
	if n < 2 {
		return fmt.Errorf("add workout set: %w: session or exercise", ErrNotFound)
	}

	_, err = d.db.Exec(`
		INSERT INTO workout_sets (id, session_id, exercise_id, set_number, reps, weight, rpe,
			is_warmup, is_failure, rest_seconds, notes, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`,
		s.ID.String(),
		s.SessionID.String(),
		s.ExerciseID.String(),
		s.SetNumber,
		s.Reps,
		s.Weight,
		nullInt(s.RPE),
		s.IsWarmup,
		s.IsFailure,
		nullInt(s.RestSeconds),
		s.Notes,
		s.CreatedAt.Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("add workout set: %w", err)
	}
	return nil
}

// ListSets retrieves sets for one session, or every set when sessionID is nil,
// ordered by session date and set number.
func (d *DB) ListSets(sessionID *uuid.UUID) ([]*models.WorkoutSet, error) {
	query := `
		SELECT ` + setColumns + `
		FROM workout_sets ws
		JOIN workout_sessions s ON s.id = ws.session_id
	`
	var args []any
	if sessionID != nil {
		query += ` WHERE ws.session_id = ?`
		args = append(args, sessionID.String())
	}
	query += ` ORDER BY s.date, ws.session_id, ws.set_number`

	rows, err := d.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("list workout sets: %w", err)
	}
	defer rows.Close()

	var sets []*models.WorkoutSet
	for rows.Next() {
		var s models.WorkoutSet
		var id, sessID, exID, createdAt string
		var rpe, rest sql.NullInt64
		var notes sql.NullString

		err := rows.Scan(&id, &sessID, &exID, &s.SetNumber, &s.Reps, &s.Weight, &rpe,
			&s.IsWarmup, &s.IsFailure, &rest, &notes, &createdAt)
		if err != nil {
			return nil, fmt.Errorf("scan workout set: %w", err)
		}
		s.ID = parseUUID(id)
		s.SessionID = parseUUID(sessID)
		s.ExerciseID = parseUUID(exID)
		s.RPE = intPtr(rpe)
		s.RestSeconds = intPtr(rest)
		s.Notes = notes.String
		s.CreatedAt = parseTime(createdAt)
		sets = append(sets, &s)
	}
	return sets, rows.Err()
}

// DeleteSet removes a set by ID or prefix.
func (d *DB) DeleteSet(idOrPrefix string) error {
	if err := d.deleteByID("workout_sets", idOrPrefix); err != nil {
		return fmt.Errorf("delete workout set: %w", err)
	}
	return nil
}

// ABOUTME: Repository methods for the Badger backend.
// ABOUTME: Mirrors the SQLite semantics: date upserts, merge, cascade and name uniqueness.
package storage

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/harperreed/healthopt/internal/models"
)

// dayOf normalizes t to UTC midnight of its calendar date, the form SQLite returns.
func dayOf(t time.Time) time.Time {
	d, _ := models.ParseDate(models.DateKey(t))
	return d
}

// UpsertDailyLog stores l under its date, keeping the ID of an existing log.
func (s *KVStore) UpsertDailyLog(l *models.DailyLog) error {
	l.Date = dayOf(l.Date)
	key := DailyPrefix + models.DateKey(l.Date)

	err := upsert(s, key, l, func(existing *models.DailyLog) {
		l.ID = existing.ID
		l.CreatedAt = existing.CreatedAt
	})
	if err != nil {
		return fmt.Errorf("upsert daily log: %w", err)
	}
	return nil
}

// GetDailyLog retrieves the log for the calendar date of date.
func (s *KVStore) GetDailyLog(date time.Time) (*models.DailyLog, error) {
	var l models.DailyLog
	if err := s.get(DailyPrefix+models.DateKey(date), &l); err != nil {
		return nil, fmt.Errorf("get daily log: %w", err)
	}
	return &l, nil
}

// ListDailyLogs retrieves logs in r, oldest first. Keys sort by date.
func (s *KVStore) ListDailyLogs(r DateRange) ([]*models.DailyLog, error) {
	all, err := listAs[models.DailyLog](s, DailyPrefix)
	if err != nil {
		return nil, fmt.Errorf("list daily logs: %w", err)
	}
	var out []*models.DailyLog
	for _, l := range all {
		if r.Contains(l.Date) {
			out = append(out, l)
		}
	}
	return out, nil
}

// DeleteDailyLog removes a log by ID or prefix.
func (s *KVStore) DeleteDailyLog(idOrPrefix string) error {
	key, _, err := findByID(s, DailyPrefix, idOrPrefix, func(l *models.DailyLog) string { return l.ID.String() })
	if err != nil {
		return fmt.Errorf("delete daily log: %w", err)
	}
	return s.deleteKeys(key)
}

// CreateBloodPressure stores a new reading.
func (s *KVStore) CreateBloodPressure(b *models.BloodPressureReading) error {
	key := BloodPressurePrefix + b.ID.String()
	if err := s.createOnce(key, b); err != nil {
		return fmt.Errorf("create blood pressure reading: %w", err)
	}
	return nil
}

// ListBloodPressure retrieves readings whose local date falls in r, oldest first.
func (s *KVStore) ListBloodPressure(r DateRange) ([]*models.BloodPressureReading, error) {
	all, err := listAs[models.BloodPressureReading](s, BloodPressurePrefix)
	if err != nil {
		return nil, fmt.Errorf("list blood pressure: %w", err)
	}
	var out []*models.BloodPressureReading
	for _, b := range all {
		if r.Contains(b.RecordedAt) {
			out = append(out, b)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].RecordedAt.Before(out[j].RecordedAt) })
	return out, nil
}

// DeleteBloodPressure removes a reading by ID or prefix.
func (s *KVStore) DeleteBloodPressure(idOrPrefix string) error {
	if err := s.deleteByID(BloodPressurePrefix, idOrPrefix); err != nil {
		return fmt.Errorf("delete blood pressure reading: %w", err)
	}
	return nil
}

// UpsertBodyMeasurement merges m into the measurement stored for its date.
func (s *KVStore) UpsertBodyMeasurement(m *models.BodyMeasurement) error {
	m.Date = dayOf(m.Date)
	key := MeasurementPrefix + models.DateKey(m.Date)

	err := upsert(s, key, m, func(existing *models.BodyMeasurement) {
		existing.Merge(m)
		*m = *existing
	})
	if err != nil {
		return fmt.Errorf("upsert body measurement: %w", err)
	}
	return nil
}

// GetBodyMeasurement retrieves the measurement for the calendar date of date.
func (s *KVStore) GetBodyMeasurement(date time.Time) (*models.BodyMeasurement, error) {
	var m models.BodyMeasurement
	if err := s.get(MeasurementPrefix+models.DateKey(date), &m); err != nil {
		return nil, fmt.Errorf("get body measurement: %w", err)
	}
	return &m, nil
}

// ListBodyMeasurements retrieves measurements in r, oldest first.
func (s *KVStore) ListBodyMeasurements(r DateRange) ([]*models.BodyMeasurement, error) {
	all, err := listAs[models.BodyMeasurement](s, MeasurementPrefix)
	if err != nil {
		return nil, fmt.Errorf("list body measurements: %w", err)
	}
	var out []*models.BodyMeasurement
	for _, m := range all {
		if r.Contains(m.Date) {
			out = append(out, m)
		}
	}
	return out, nil
}

// DeleteBodyMeasurement removes a measurement by ID or prefix.
func (s *KVStore) DeleteBodyMeasurement(idOrPrefix string) error {
	key, _, err := findByID(s, MeasurementPrefix, idOrPrefix, func(m *models.BodyMeasurement) string { return m.ID.String() })
	if err != nil {
		return fmt.Errorf("delete body measurement: %w", err)
	}
	return s.deleteKeys(key)
}

// CreateSession stores a new workout session.
func (s *KVStore) CreateSession(sess *models.WorkoutSession) error {
	sess.Date = dayOf(sess.Date)
	if err := s.createOnce(SessionPrefix+sess.ID.String(), sess); err != nil {
		return fmt.Errorf("create workout session: %w", err)
	}
	return nil
}

// GetSession retrieves a session by ID or ID prefix.
func (s *KVStore) GetSession(idOrPrefix string) (*models.WorkoutSession, error) {
	_, sess, err := findByID(s, SessionPrefix, idOrPrefix, func(w *models.WorkoutSession) string { return w.ID.String() })
	if err != nil {
		return nil, fmt.Errorf("get workout session: %w", err)
	}
	return sess, nil
}

// GetSessionByDate retrieves the first session logged on the calendar date of date.
func (s *KVStore) GetSessionByDate(date time.Time) (*models.WorkoutSession, error) {
	sessions, err := s.ListSessions(DateRange{From: date, To: date})
	if err != nil {
		return nil, err
	}
	if len(sessions) == 0 {
		return nil, fmt.Errorf("%w: workout session on %s", ErrNotFound, models.DateKey(date))
	}
	return sessions[0], nil
}

// ListSessions retrieves sessions in r, oldest first.
func (s *KVStore) ListSessions(r DateRange) ([]*models.WorkoutSession, error) {
	all, err := listAs[models.WorkoutSession](s, SessionPrefix)
	if err != nil {
		return nil, fmt.Errorf("list workout sessions: %w", err)
	}
	var out []*models.WorkoutSession
	for _, sess := range all {
		if r.Contains(sess.Date) {
			out = append(out, sess)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if !out[i].Date.Equal(out[j].Date) {
			return out[i].Date.Before(out[j].Date)
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out, nil
}

// DeleteSession removes a session and all its sets.
func (s *KVStore) DeleteSession(idOrPrefix string) error {
	key, sess, err := findByID(s, SessionPrefix, idOrPrefix, func(w *models.WorkoutSession) string { return w.ID.String() })
	if err != nil {
		return fmt.Errorf("delete workout session: %w", err)
	}

	sets, err := s.ListSets(&sess.ID)
	if err != nil {
		return fmt.Errorf("delete workout session: %w", err)
	}
	keys := []string{key}
	for _, set := range sets {
		keys = append(keys, SetPrefix+set.ID.String())
	}
	return s.deleteKeys(keys...)
}

// CreateExercise stores a new exercise. Names must be unique ignoring case.
func (s *KVStore) CreateExercise(e *models.Exercise) error {
	e.Name = strings.TrimSpace(e.Name)
	if _, err := s.GetExerciseByName(e.Name); err == nil {
		return fmt.Errorf("create exercise: %q already exists", e.Name)
	}
	if err := s.createOnce(ExercisePrefix+e.ID.String(), e); err != nil {
		return fmt.Errorf("create exercise: %w", err)
	}
	return nil
}

// GetExerciseByName retrieves an exercise by case-insensitive name.
func (s *KVStore) GetExerciseByName(name string) (*models.Exercise, error) {
	all, err := listAs[models.Exercise](s, ExercisePrefix)
	if err != nil {
		return nil, fmt.Errorf("get exercise: %w", err)
	}
	name = strings.TrimSpace(name)
	for _, e := range all {
		if strings.EqualFold(e.Name, name) {
			return e, nil
		}
	}
	return nil, fmt.Errorf("%w: exercise %q", ErrNotFound, name)
}

// ListExercises retrieves every exercise ordered by name.
func (s *KVStore) ListExercises() ([]*models.Exercise, error) {
	all, err := listAs[models.Exercise](s, ExercisePrefix)
	if err != nil {
		return nil, fmt.Errorf("list exercises: %w", err)
	}
	sort.Slice(all, func(i, j int) bool { return strings.ToLower(all[i].Name) < strings.ToLower(all[j].Name) })
	return all, nil
}

// AddSet stores a new set. Its session and exercise must exist.
func (s *KVStore) AddSet(set *models.WorkoutSet) error {
	for _, key := range []string{SessionPrefix + set.SessionID.String(), ExercisePrefix + set.ExerciseID.String()} {
		ok, err := s.exists(key)
		if err != nil {
			return fmt.Errorf("add workout set: %w", err)
		}
		if !ok {
			return fmt.Errorf("add workout set: %w: %s", ErrNotFound, key)
		}
	}
	if err := s.createOnce(SetPrefix+set.ID.String(), set); err != nil {
		return fmt.Errorf("add workout set: %w", err)
	}
	return nil
}

// ListSets retrieves sets for one session, or every set when sessionID is nil,
// ordered by session date and set number.
func (s *KVStore) ListSets(sessionID *uuid.UUID) ([]*models.WorkoutSet, error) {
	all, err := listAs[models.WorkoutSet](s, SetPrefix)
	if err != nil {
		return nil, fmt.Errorf("list workout sets: %w", err)
	}
	sessions, err := s.ListSessions(AllTime())
	if err != nil {
		return nil, err
	}
	order := make(map[uuid.UUID]int, len(sessions))
	for i, sess := range sessions {
		order[sess.ID] = i
	}

	var out []*models.WorkoutSet
	for _, set := range all {
		if sessionID != nil && set.SessionID != *sessionID {
			continue
		}
		out = append(out, set)
	}
	sort.SliceStable(out, func(i, j int) bool {
		oi, oj := order[out[i].SessionID], order[out[j].SessionID]
		if oi != oj {
			return oi < oj
		}
		return out[i].SetNumber < out[j].SetNumber
	})
	return out, nil
}

// DeleteSet removes a set by ID or prefix.
func (s *KVStore) DeleteSet(idOrPrefix string) error {
	if err := s.deleteByID(SetPrefix, idOrPrefix); err != nil {
		return fmt.Errorf("delete workout set: %w", err)
	}
	return nil
}

// deleteByID removes the ID-keyed record under prefix matching idOrPrefix.
// Keys of ID-keyed records end with the ID, so the prefix match is on the key.
func (s *KVStore) deleteByID(prefix, idOrPrefix string) error {
	if idOrPrefix == "" {
		return fmt.Errorf("%w: empty ID", ErrNotFound)
	}
	entries, err := s.scanPrefix(prefix + idOrPrefix)
	if err != nil {
		return err
	}
	switch len(entries) {
	case 0:
		return fmt.Errorf("%w: %s", ErrNotFound, idOrPrefix)
	case 1:
		return s.deleteKeys(entries[0].key)
	default:
		return fmt.Errorf("%w %s: matches multiple records", ErrAmbiguous, idOrPrefix)
	}
}

// ABOUTME: Snapshot is the read-only record set handed to the engine.
// ABOUTME: Provides ID-keyed indexes and record invariant validation.
package analysis

import (
	"fmt"
	"slices"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/multierr"

	"github.com/harperreed/healthopt/internal/models"
)

// Snapshot is a copy of every record collection taken before analysis.
// The engine never mutates it.
type Snapshot struct {
	DailyLogs     []models.DailyLog             `json:"daily_logs"`
	BloodPressure []models.BloodPressureReading `json:"blood_pressure"`
	Sessions      []models.WorkoutSession       `json:"sessions"`
	Sets          []models.WorkoutSet           `json:"sets"`
	Exercises     []models.Exercise             `json:"exercises"`
	Measurements  []models.BodyMeasurement      `json:"measurements"`
}

// sorted returns a copy with every dated collection in ascending order.
func (s *Snapshot) sorted() *Snapshot {
	out := &Snapshot{
		DailyLogs:     slices.Clone(s.DailyLogs),
		BloodPressure: slices.Clone(s.BloodPressure),
		Sessions:      slices.Clone(s.Sessions),
		Sets:          slices.Clone(s.Sets),
		Exercises:     slices.Clone(s.Exercises),
		Measurements:  slices.Clone(s.Measurements),
	}
	slices.SortStableFunc(out.DailyLogs, func(a, b models.DailyLog) int { return a.Date.Compare(b.Date) })
	slices.SortStableFunc(out.BloodPressure, func(a, b models.BloodPressureReading) int {
		return a.RecordedAt.Compare(b.RecordedAt)
	})
	slices.SortStableFunc(out.Sessions, func(a, b models.WorkoutSession) int { return a.Date.Compare(b.Date) })
	slices.SortStableFunc(out.Sets, func(a, b models.WorkoutSet) int { return a.SetNumber - b.SetNumber })
	slices.SortStableFunc(out.Measurements, func(a, b models.BodyMeasurement) int { return a.Date.Compare(b.Date) })
	return out
}

// SetsBySession indexes sets by their owning session.
func (s *Snapshot) SetsBySession() map[uuid.UUID][]models.WorkoutSet {
	idx := make(map[uuid.UUID][]models.WorkoutSet, len(s.Sessions))
	for _, set := range s.Sets {
		idx[set.SessionID] = append(idx[set.SessionID], set)
	}
	return idx
}

// ExerciseByName finds an exercise by case-insensitive name.
func (s *Snapshot) ExerciseByName(name string) (models.Exercise, bool) {
	name = strings.TrimSpace(name)
	for _, e := range s.Exercises {
		if strings.EqualFold(e.Name, name) {
			return e, true
		}
	}
	return models.Exercise{}, false
}

// Validate checks every record against its invariants and reports all failures at once.
func (s *Snapshot) Validate() error {
	var errs error
	fail := func(format string, args ...any) {
		errs = multierr.Append(errs, fmt.Errorf("%w: "+format, append([]any{ErrInvalidInput}, args...)...))
	}

	seenDays := make(map[string]bool, len(s.DailyLogs))
	for _, d := range s.DailyLogs {
		key := models.DateKey(d.Date)
		if seenDays[key] {
			fail("daily log %s: duplicate date", key)
		}
		seenDays[key] = true
		if err := d.Validate(); err != nil {
			fail("daily log %s: %v", key, err)
		}
	}

	for _, bp := range s.BloodPressure {
		if err := bp.Validate(); err != nil {
			fail("blood pressure %s: %v", bp.RecordedAt.Format("2006-01-02 15:04"), err)
		}
	}

	sessions := make(map[uuid.UUID]bool, len(s.Sessions))
	for _, sess := range s.Sessions {
		sessions[sess.ID] = true
	}
	exercises := make(map[uuid.UUID]bool, len(s.Exercises))
	names := make(map[string]bool, len(s.Exercises))
	for _, e := range s.Exercises {
		exercises[e.ID] = true
		lower := strings.ToLower(e.Name)
		if names[lower] {
			fail("exercise %q: duplicate name", e.Name)
		}
		names[lower] = true
	}
	for _, set := range s.Sets {
		id := set.ID.String()[:8]
		if err := set.Validate(); err != nil {
			fail("set %s: %v", id, err)
		}
		if !sessions[set.SessionID] {
			fail("set %s: unknown session %s", id, set.SessionID)
		}
		if !exercises[set.ExerciseID] {
			fail("set %s: unknown exercise %s", id, set.ExerciseID)
		}
	}

	seenMeasure := make(map[string]bool, len(s.Measurements))
	for _, m := range s.Measurements {
		key := models.DateKey(m.Date)
		if seenMeasure[key] {
			fail("measurement %s: duplicate date", key)
		}
		seenMeasure[key] = true
		if err := m.Validate(); err != nil {
			fail("measurement %s: %v", key, err)
		}
	}

	return newValidationError(errs)
}

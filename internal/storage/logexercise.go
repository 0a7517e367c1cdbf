// ABOUTME: Logs sets of one exercise on a date, creating the session and exercise on demand.
// ABOUTME: New sets are numbered after the sets already logged for that exercise.
package storage

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/harperreed/healthopt/internal/models"
)

// DefaultWorkoutType labels sessions created implicitly by LogExercise.
const DefaultWorkoutType = "Strength"

// SetInput is one set to log.
type SetInput struct {
	Reps   int     `json:"reps"`
	Weight float64 `json:"weight"`
	RPE    *int    `json:"rpe,omitempty"`
}

// LogExerciseRequest describes sets of one exercise performed on one date.
type LogExerciseRequest struct {
	Date        time.Time
	WorkoutType string
	Exercise    string
	Sets        []SetInput
	Notes       string
}

// LogExerciseResult reports what LogExercise stored.
type LogExerciseResult struct {
	Session         *models.WorkoutSession `json:"session"`
	Exercise        *models.Exercise       `json:"exercise"`
	Sets            []*models.WorkoutSet   `json:"sets"`
	CreatedSession  bool                   `json:"created_session"`
	CreatedExercise bool                   `json:"created_exercise"`
}

// Validate checks the request before anything is written.
func (r LogExerciseRequest) Validate() error {
	if strings.TrimSpace(r.Exercise) == "" {
		return errors.New("exercise name is required")
	}
	if len(r.Sets) == 0 {
		return errors.New("at least one set is required")
	}
	for i, s := range r.Sets {
		set := models.WorkoutSet{Reps: s.Reps, Weight: s.Weight, RPE: s.RPE}
		if err := set.Validate(); err != nil {
			return fmt.Errorf("set %d: %w", i+1, err)
		}
	}
	return nil
}

// LogExercise upserts the session for req.Date and the named exercise, then adds the sets.
func LogExercise(repo Repository, req LogExerciseRequest) (*LogExerciseResult, error) {
	if err := req.Validate(); err != nil {
		return nil, fmt.Errorf("log exercise: %w", err)
	}
	res := &LogExerciseResult{}

	session, err := repo.GetSessionByDate(req.Date)
	switch {
	case errors.Is(err, ErrNotFound):
		wt := req.WorkoutType
		if wt == "" {
			wt = DefaultWorkoutType
		}
		session = models.NewWorkoutSession(req.Date, wt).WithNotes(req.Notes)
		if err := repo.CreateSession(session); err != nil {
			return nil, fmt.Errorf("log exercise: %w", err)
		}
		res.CreatedSession = true
	case err != nil:
		return nil, fmt.Errorf("log exercise: %w", err)
	}
	res.Session = session

	exercise, err := repo.GetExerciseByName(req.Exercise)
	switch {
	case errors.Is(err, ErrNotFound):
		exercise = models.NewExercise(req.Exercise)
		if err := repo.CreateExercise(exercise); err != nil {
			return nil, fmt.Errorf("log exercise: %w", err)
		}
		res.CreatedExercise = true
	case err != nil:
		return nil, fmt.Errorf("log exercise: %w", err)
	}
	res.Exercise = exercise

	existing, err := repo.ListSets(&session.ID)
	if err != nil {
		return nil, fmt.Errorf("log exercise: %w", err)
	}
	next := 1
	for _, s := range existing {
		if s.ExerciseID == exercise.ID && s.SetNumber >= next {
			next = s.SetNumber + 1
		}
	}

	for _, in := range req.Sets {
		set := models.NewWorkoutSet(session.ID, exercise.ID, next, in.Reps, in.Weight)
		set.RPE = in.RPE
		if err := repo.AddSet(set); err != nil {
			return nil, fmt.Errorf("log exercise: %w", err)
		}
		res.Sets = append(res.Sets, set)
		next++
	}

	log.Debug("logged exercise", "exercise", exercise.Name, "date", models.DateKey(session.Date),
		"sets", len(res.Sets), "new_session", res.CreatedSession, "new_exercise", res.CreatedExercise)
	return res, nil
}

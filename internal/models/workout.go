// ABOUTME: WorkoutSession, WorkoutSet and Exercise models for strength tracking.
// ABOUTME: Sets reference their session and exercise by ID; no navigation fields.
package models

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// WorkoutSession is a training day. Sets belong to it through SessionID.
type WorkoutSession struct {
	ID           uuid.UUID      `json:"id" yaml:"id"`
	Date         time.Time      `json:"date" yaml:"date"`
	WorkoutType  string         `json:"workout_type" yaml:"workout_type"`
	StartTime    *time.Duration `json:"start_time,omitempty" yaml:"start_time,omitempty"`
	EndTime      *time.Duration `json:"end_time,omitempty" yaml:"end_time,omitempty"`
	OverallRPE   *int           `json:"overall_rpe,omitempty" yaml:"overall_rpe,omitempty"`
	FatigueLevel *int           `json:"fatigue_level,omitempty" yaml:"fatigue_level,omitempty"`
	Notes        string         `json:"notes,omitempty" yaml:"notes,omitempty"`
	CreatedAt    time.Time      `json:"created_at" yaml:"created_at"`
}

// NewWorkoutSession creates a session on the date of t.
func NewWorkoutSession(t time.Time, workoutType string) *WorkoutSession {
	return &WorkoutSession{
		ID:          uuid.New(),
		Date:        DateOf(t),
		WorkoutType: workoutType,
		CreatedAt:   time.Now(),
	}
}

// WithRPE sets the overall session RPE (1-10).
func (w *WorkoutSession) WithRPE(rpe int) *WorkoutSession {
	w.OverallRPE = &rpe
	return w
}

// WithFatigue sets the fatigue level (1-10).
func (w *WorkoutSession) WithFatigue(level int) *WorkoutSession {
	w.FatigueLevel = &level
	return w
}

// WithNotes sets notes on the session.
func (w *WorkoutSession) WithNotes(notes string) *WorkoutSession {
	w.Notes = notes
	return w
}

// Exercise is a named movement. Name is unique (case-insensitive).
type Exercise struct {
	ID              uuid.UUID `json:"id" yaml:"id"`
	Name            string    `json:"name" yaml:"name"`
	Category        string    `json:"category,omitempty" yaml:"category,omitempty"`
	MuscleGroup     string    `json:"muscle_group,omitempty" yaml:"muscle_group,omitempty"`
	MovementPattern string    `json:"movement_pattern,omitempty" yaml:"movement_pattern,omitempty"`
	Equipment       string    `json:"equipment,omitempty" yaml:"equipment,omitempty"`
}

// Default tags for exercises created implicitly while logging sets.
const (
	DefaultExerciseCategory    = "Compound"
	DefaultExerciseMuscleGroup = "Various"
)

// NewExercise creates an exercise with the default tags.
func NewExercise(name string) *Exercise {
	return &Exercise{
		ID:          uuid.New(),
		Name:        strings.TrimSpace(name),
		Category:    DefaultExerciseCategory,
		MuscleGroup: DefaultExerciseMuscleGroup,
	}
}

// WorkoutSet is one set of an exercise within a session.
type WorkoutSet struct {
	ID          uuid.UUID `json:"id" yaml:"id"`
	SessionID   uuid.UUID `json:"session_id" yaml:"session_id"`
	ExerciseID  uuid.UUID `json:"exercise_id" yaml:"exercise_id"`
	SetNumber   int       `json:"set_number" yaml:"set_number"`
	Reps        int       `json:"reps" yaml:"reps"`
	Weight      float64   `json:"weight" yaml:"weight"`
	RPE         *int      `json:"rpe,omitempty" yaml:"rpe,omitempty"`
	IsWarmup    bool      `json:"is_warmup,omitempty" yaml:"is_warmup,omitempty"`
	IsFailure   bool      `json:"is_failure,omitempty" yaml:"is_failure,omitempty"`
	RestSeconds *int      `json:"rest_seconds,omitempty" yaml:"rest_seconds,omitempty"`
	Notes       string    `json:"notes,omitempty" yaml:"notes,omitempty"`
	CreatedAt   time.Time `json:"created_at" yaml:"created_at"`
}

// NewWorkoutSet creates a set for the given session and exercise.
func NewWorkoutSet(sessionID, exerciseID uuid.UUID, setNumber, reps int, weight float64) *WorkoutSet {
	return &WorkoutSet{
		ID:         uuid.New(),
		SessionID:  sessionID,
		ExerciseID: exerciseID,
		SetNumber:  setNumber,
		Reps:       reps,
		Weight:     weight,
		CreatedAt:  time.Now(),
	}
}

// WithRPE sets the per-set RPE.
func (s *WorkoutSet) WithRPE(rpe int) *WorkoutSet {
	s.RPE = &rpe
	return s
}

// Validate requires positive reps, a non-negative weight and an RPE of 1-10 when set.
func (s *WorkoutSet) Validate() error {
	switch {
	case s.Reps <= 0:
		return fmt.Errorf("reps %d must be positive", s.Reps)
	case s.Weight < 0:
		return fmt.Errorf("weight %v must not be negative", s.Weight)
	case s.RPE != nil && (*s.RPE < 1 || *s.RPE > 10):
		return fmt.Errorf("RPE %d out of range 1-10", *s.RPE)
	}
	return nil
}

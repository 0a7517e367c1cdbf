// ABOUTME: Estimated one-rep max (Epley) and volume calculations.
// ABOUTME: Per-session strength totals feed weekly and trend analyses.
package analysis

import (
	"fmt"
	"math"

	"github.com/harperreed/healthopt/internal/models"
)

// E1RM estimates the one-repetition maximum for weight lifted for reps.
// A single rep returns the weight exactly; otherwise the estimate is rounded to one decimal.
func E1RM(weight float64, reps int) (float64, error) {
	if err := checkSet(weight, reps); err != nil {
		return 0, err
	}
	if reps == 1 {
		return weight, nil
	}
	return round(weight*(1+float64(reps)/30.0), 1), nil
}

// Volume is weight times reps, unrounded.
func Volume(weight float64, reps int) (float64, error) {
	if err := checkSet(weight, reps); err != nil {
		return 0, err
	}
	return weight * float64(reps), nil
}

func checkSet(weight float64, reps int) error {
	if reps <= 0 {
		return fmt.Errorf("%w: reps must be positive, got %d", ErrInvalidInput, reps)
	}
	if weight < 0 || math.IsNaN(weight) {
		return fmt.Errorf("%w: weight must not be negative, got %v", ErrInvalidInput, weight)
	}
	return nil
}

// SessionStrength is the sum of e1RM over a session's sets.
// Sets that fail validation contribute nothing; Snapshot.Validate rejects them upstream.
func SessionStrength(sets []models.WorkoutSet) float64 {
	var total float64
	for _, s := range sets {
		if v, err := E1RM(s.Weight, s.Reps); err == nil {
			total += v
		}
	}
	return total
}

func round(v float64, places int) float64 {
	p := math.Pow(10, float64(places))
	return math.Round(v*p) / p
}

// ABOUTME: Aligns blood pressure readings with daily logs by calendar date.
// ABOUTME: Same-day log first, previous-day log as the fallback.
package analysis

import (
	"fmt"
	"strings"
	"time"

	"github.com/harperreed/healthopt/internal/models"
)

// Predictor selects the DailyLog field paired against an outcome.
type Predictor int

const (
	PredictorCarbs Predictor = iota
	PredictorProtein
	PredictorCalories
	PredictorFat
	PredictorSteps
	PredictorSleep
)

var predictorNames = []string{"carbs", "protein", "calories", "fat", "steps", "sleep"}

// Predictors lists every supported predictor.
func Predictors() []Predictor {
	return []Predictor{PredictorCarbs, PredictorProtein, PredictorCalories, PredictorFat, PredictorSteps, PredictorSleep}
}

func (p Predictor) String() string {
	if int(p) >= 0 && int(p) < len(predictorNames) {
		return predictorNames[p]
	}
	return fmt.Sprintf("predictor(%d)", int(p))
}

// MarshalText renders the predictor by name.
func (p Predictor) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

// Unit is the display suffix of the predictor, appended directly to a number.
func (p Predictor) Unit() string {
	switch p {
	case PredictorCalories:
		return " kcal"
	case PredictorSteps:
		return " steps"
	case PredictorSleep:
		return "h"
	default:
		return "g"
	}
}

// ParsePredictor resolves a predictor name.
func ParsePredictor(s string) (Predictor, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for i, name := range predictorNames {
		if s == name {
			return Predictor(i), nil
		}
	}
	return 0, fmt.Errorf("%w: unknown predictor %q (valid: %s)", ErrInvalidInput, s, strings.Join(predictorNames, ", "))
}

// Value reads the predictor field from a daily log. Missing optional fields read as zero.
func (p Predictor) Value(d models.DailyLog) float64 {
	switch p {
	case PredictorCarbs:
		return d.CarbsGrams
	case PredictorProtein:
		return d.ProteinGrams
	case PredictorCalories:
		return float64(d.Calories)
	case PredictorFat:
		return d.FatGrams
	case PredictorSteps:
		return float64(d.Steps)
	case PredictorSleep:
		if d.SleepHours == nil {
			return 0
		}
		return *d.SleepHours
	}
	return 0
}

// Pair is one aligned (predictor, outcome) observation.
type Pair struct {
	Date      time.Time `json:"date"`
	Predictor float64   `json:"predictor"`
	Outcome   float64   `json:"outcome"`
}

// AlignBloodPressure pairs each reading's systolic value with the predictor from the
// same-day log, or from the previous day's log when the same day has none.
// Readings without either produce no pair.
func AlignBloodPressure(readings []models.BloodPressureReading, logs []models.DailyLog, predictor Predictor) []Pair {
	byDate := make(map[string]models.DailyLog, len(logs))
	for _, d := range logs {
		key := models.DateKey(d.Date)
		if _, ok := byDate[key]; !ok {
			byDate[key] = d
		}
	}

	lookup := func(day time.Time) (float64, bool) {
		d, ok := byDate[models.DateKey(day)]
		if !ok {
			return 0, false
		}
		v := predictor.Value(d)
		return v, v > 0
	}

	pairs := make([]Pair, 0, len(readings))
	for _, bp := range readings {
		day := models.DateOf(bp.RecordedAt)
		v, ok := lookup(day)
		if !ok {
			v, ok = lookup(day.AddDate(0, 0, -1))
		}
		if !ok {
			continue
		}
		pairs = append(pairs, Pair{Date: bp.RecordedAt, Predictor: v, Outcome: float64(bp.Systolic)})
	}
	return pairs
}

// split returns the predictor and outcome series of pairs.
func split(pairs []Pair) (xs, ys []float64) {
	xs = make([]float64, len(pairs))
	ys = make([]float64, len(pairs))
	for i, p := range pairs {
		xs[i] = p.Predictor
		ys[i] = p.Outcome
	}
	return xs, ys
}

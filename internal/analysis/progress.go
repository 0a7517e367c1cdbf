// ABOUTME: Per-exercise strength progression from logged sets.
// ABOUTME: Daily bests, personal record, recent-vs-prior change and a weekly series.
package analysis

import (
	"math"
	"slices"
	"time"

	"github.com/google/uuid"

	"github.com/harperreed/healthopt/internal/models"
)

// DailyBest aggregates one exercise's sets on one day.
type DailyBest struct {
	Date      time.Time `json:"date"`
	E1RM      float64   `json:"e1rm"`
	Volume    float64   `json:"volume"`
	MaxWeight float64   `json:"max_weight"`
	Sets      int       `json:"sets"`
}

// WeeklyBest is the best daily e1RM within a Monday-start week.
type WeeklyBest struct {
	WeekStart time.Time `json:"week_start"`
	E1RM      float64   `json:"e1rm"`
}

// ExerciseProgress summarizes strength progression for one exercise.
type ExerciseProgress struct {
	Status         Status          `json:"status"`
	Exercise       models.Exercise `json:"exercise"`
	Days           []DailyBest     `json:"days"`
	Weeks          []WeeklyBest    `json:"weeks"`
	CurrentE1RM    float64         `json:"current_e1rm"`
	PersonalRecord float64         `json:"personal_record"`
	TotalSets      int             `json:"total_sets"`
	LastWorkout    time.Time       `json:"last_workout"`

	PercentChange    float64 `json:"percent_change"`
	HasPercentChange bool    `json:"has_percent_change"`
	// WeeklyGain is the least-squares slope of weekly best e1RM per week.
	WeeklyGain    float64 `json:"weekly_gain"`
	HasWeeklyGain bool    `json:"has_weekly_gain"`
}

// Progress computes progression for the named exercise. An unknown exercise or one
// without sets yields StatusInsufficientData.
func (e *Engine) Progress(s *Snapshot, exercise string, now time.Time) (ExerciseProgress, error) {
	snap, err := prepare(s)
	if err != nil {
		return ExerciseProgress{}, err
	}
	return progress(snap, exercise, now, e.policy), nil
}

func progress(s *Snapshot, name string, now time.Time, p Policy) ExerciseProgress {
	res := ExerciseProgress{Status: StatusInsufficientData}
	ex, ok := s.ExerciseByName(name)
	if !ok {
		res.Exercise.Name = name
		return res
	}
	res.Exercise = ex

	sessionDates := make(map[uuid.UUID]time.Time, len(s.Sessions))
	for _, sess := range s.Sessions {
		sessionDates[sess.ID] = models.DateOf(sess.Date)
	}

	byDay := make(map[time.Time]*DailyBest)
	for _, set := range s.Sets {
		if set.ExerciseID != ex.ID {
			continue
		}
		day, ok := sessionDates[set.SessionID]
		if !ok {
			continue
		}
		e1rm, err := E1RM(set.Weight, set.Reps)
		if err != nil {
			continue
		}
		vol, _ := Volume(set.Weight, set.Reps)
		d, ok := byDay[day]
		if !ok {
			d = &DailyBest{Date: day}
			byDay[day] = d
		}
		d.E1RM = math.Max(d.E1RM, e1rm)
		d.MaxWeight = math.Max(d.MaxWeight, set.Weight)
		d.Volume += vol
		d.Sets++
	}
	if len(byDay) == 0 {
		return res
	}

	for _, d := range byDay {
		res.Days = append(res.Days, *d)
		res.TotalSets += d.Sets
		res.PersonalRecord = math.Max(res.PersonalRecord, d.E1RM)
	}
	slices.SortFunc(res.Days, func(a, b DailyBest) int { return a.Date.Compare(b.Date) })

	res.Status = StatusOK
	last := res.Days[len(res.Days)-1]
	res.CurrentE1RM = last.E1RM
	res.LastWorkout = last.Date
	res.PercentChange, res.HasPercentChange = percentChange(res.Days, now, p)
	res.Weeks = weeklyBests(res.Days)
	res.WeeklyGain, res.HasWeeklyGain = weeklyGain(res.Weeks)
	return res
}

// percentChange compares the recent window average with the prior window average,
// falling back to first-versus-last day when either window is empty.
func percentChange(days []DailyBest, now time.Time, p Policy) (float64, bool) {
	cutoff, priorStart := p.windows(now)
	w := &windowAverage{cutoff: cutoff, priorStart: priorStart}
	for _, d := range days {
		w.add(d.Date, d.E1RM)
	}
	if w.recentN > 0 && w.priorN > 0 {
		prior := w.priorSum / float64(w.priorN)
		if prior > 0 {
			recent := w.recentSum / float64(w.recentN)
			return round((recent-prior)/prior*100, 1), true
		}
	}
	if len(days) < 2 || days[0].E1RM == 0 {
		return 0, false
	}
	first, last := days[0].E1RM, days[len(days)-1].E1RM
	return round((last-first)/first*100, 1), true
}

func weeklyBests(days []DailyBest) []WeeklyBest {
	var out []WeeklyBest
	for _, d := range days {
		ws := WeekStart(d.Date)
		if n := len(out); n > 0 && out[n-1].WeekStart.Equal(ws) {
			out[n-1].E1RM = math.Max(out[n-1].E1RM, d.E1RM)
			continue
		}
		out = append(out, WeeklyBest{WeekStart: ws, E1RM: d.E1RM})
	}
	return out
}

func weeklyGain(weeks []WeeklyBest) (float64, bool) {
	if len(weeks) < 2 {
		return 0, false
	}
	xs := make([]float64, len(weeks))
	ys := make([]float64, len(weeks))
	for i, w := range weeks {
		xs[i] = w.WeekStart.Sub(weeks[0].WeekStart).Hours() / (24 * 7)
		ys[i] = w.E1RM
	}
	slope, _, err := LinearFit(xs, ys)
	if err != nil {
		return 0, false
	}
	return round(slope, 2), true
}

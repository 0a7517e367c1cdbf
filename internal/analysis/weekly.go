// ABOUTME: Week bucketing: year-relative week numbers and Monday week starts.
// ABOUTME: The two rules are kept separate and are not reconciled at year boundaries.
package analysis

import (
	"math"
	"slices"
	"time"

	"github.com/google/uuid"

	"github.com/harperreed/healthopt/internal/models"
)

// WeekNumber is ceil(days since Jan 1 of t's year / 7), counting fractional days.
// Jan 1 at midnight is week 0 and the rest of Jan 1 through Jan 7 is week 1.
// This is not an ISO week and restarts every year.
func WeekNumber(t time.Time) int {
	sinceMidnight := t.Sub(models.DateOf(t))
	days := float64(t.YearDay()-1) + sinceMidnight.Hours()/24
	return int(math.Ceil(days / 7))
}

// WeekStart is midnight of the Monday on or before t.
func WeekStart(t time.Time) time.Time {
	offset := (int(t.Weekday()) + 6) % 7
	return models.DateOf(t).AddDate(0, 0, -offset)
}

// WeekKey identifies a WeekNumber bucket. Year keeps weeks of different years apart.
type WeekKey struct {
	Year int `json:"year"`
	Week int `json:"week"`
}

func weekKeyOf(t time.Time) WeekKey {
	return WeekKey{Year: t.Year(), Week: WeekNumber(t)}
}

func (k WeekKey) compare(o WeekKey) int {
	if k.Year != o.Year {
		return k.Year - o.Year
	}
	return k.Week - o.Week
}

// WeeklyBucket is a derived per-week aggregate. It is never persisted.
type WeeklyBucket struct {
	WeekKey
	WeekStart   time.Time `json:"week_start"`
	Count       int       `json:"count"`
	AvgWeight   float64   `json:"avg_weight,omitempty"`
	AvgCalories float64   `json:"avg_calories,omitempty"`
	AvgProtein  float64   `json:"avg_protein,omitempty"`
	MaxStrength float64   `json:"max_strength,omitempty"`
}

// StrengthByWeek groups sessions by WeekNumber and keeps the best session total per week.
// Sessions without sets are not counted. WeekStart is the Monday of the earliest session.
func StrengthByWeek(sessions []models.WorkoutSession, setsBySession map[uuid.UUID][]models.WorkoutSet) []WeeklyBucket {
	buckets := make(map[WeekKey]*WeeklyBucket)
	for _, sess := range sessions {
		sets := setsBySession[sess.ID]
		if len(sets) == 0 {
			continue
		}
		total := SessionStrength(sets)
		key := weekKeyOf(sess.Date)
		b, ok := buckets[key]
		if !ok {
			b = &WeeklyBucket{WeekKey: key, WeekStart: WeekStart(sess.Date)}
			buckets[key] = b
		}
		if ws := WeekStart(sess.Date); ws.Before(b.WeekStart) {
			b.WeekStart = ws
		}
		b.Count++
		b.MaxStrength = math.Max(b.MaxStrength, total)
	}
	return collect(buckets, func(a, b *WeeklyBucket) int { return a.WeekKey.compare(b.WeekKey) })
}

// AverageInWeek averages a predictor over logs in [weekStart, weekStart+7d).
// Logs whose value is zero are treated as not logged. ok is false when none qualify.
func AverageInWeek(logs []models.DailyLog, weekStart time.Time, field Predictor) (avg float64, ok bool) {
	end := weekStart.AddDate(0, 0, 7)
	var sum float64
	var n int
	for _, d := range logs {
		if d.Date.Before(weekStart) || !d.Date.Before(end) {
			continue
		}
		if v := field.Value(d); v > 0 {
			sum += v
			n++
		}
	}
	if n == 0 {
		return 0, false
	}
	return sum / float64(n), true
}

// DailyByWeek groups logs by Monday week start and averages weight, calories and protein.
// Callers filter logs to the qualifying set first.
func DailyByWeek(logs []models.DailyLog) []WeeklyBucket {
	type acc struct {
		bucket                    WeeklyBucket
		weight, calories, protein float64
	}
	groups := make(map[time.Time]*acc)
	for _, d := range logs {
		ws := WeekStart(d.Date)
		a, ok := groups[ws]
		if !ok {
			a = &acc{bucket: WeeklyBucket{WeekKey: weekKeyOf(ws), WeekStart: ws}}
			groups[ws] = a
		}
		a.bucket.Count++
		a.weight += d.Weight
		a.calories += float64(d.Calories)
		a.protein += d.ProteinGrams
	}

	out := make([]WeeklyBucket, 0, len(groups))
	for _, a := range groups {
		n := float64(a.bucket.Count)
		a.bucket.AvgWeight = a.weight / n
		a.bucket.AvgCalories = a.calories / n
		a.bucket.AvgProtein = a.protein / n
		out = append(out, a.bucket)
	}
	slices.SortFunc(out, func(a, b WeeklyBucket) int { return a.WeekStart.Compare(b.WeekStart) })
	return out
}

func collect[K comparable](m map[K]*WeeklyBucket, cmp func(a, b *WeeklyBucket) int) []WeeklyBucket {
	ptrs := make([]*WeeklyBucket, 0, len(m))
	for _, b := range m {
		ptrs = append(ptrs, b)
	}
	slices.SortFunc(ptrs, cmp)
	out := make([]WeeklyBucket, len(ptrs))
	for i, b := range ptrs {
		out[i] = *b
	}
	return out
}

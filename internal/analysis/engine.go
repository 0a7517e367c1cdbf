// ABOUTME: Engine orchestrates alignment, correlation, weekly aggregation and trend analysis.
// ABOUTME: Stateless apart from its policy; every call recomputes from the snapshot.
package analysis

import (
	"fmt"
	"math"
	"time"

	"github.com/harperreed/healthopt/internal/models"
)

// Engine runs analyses against snapshots using a fixed policy.
type Engine struct {
	policy Policy
}

// NewEngine creates an engine. An invalid policy falls back to DefaultPolicy.
func NewEngine(p Policy) *Engine {
	if p.Validate() != nil {
		p = DefaultPolicy()
	}
	return &Engine{policy: p}
}

// Policy returns the engine's thresholds.
func (e *Engine) Policy() Policy {
	return e.policy
}

// BloodPressureAnalysis relates a daily predictor to systolic blood pressure.
type BloodPressureAnalysis struct {
	Predictor   Predictor         `json:"predictor"`
	Threshold   float64           `json:"threshold"`
	Pairs       []Pair            `json:"pairs"`
	Correlation CorrelationResult `json:"correlation"`
	Range       RangeResult       `json:"range"`
}

// ProteinStrengthAnalysis relates weekly protein to week-over-week strength change.
type ProteinStrengthAnalysis struct {
	Weeks       []WeeklyBucket    `json:"weeks"`
	Pairs       []Pair            `json:"pairs"`
	Correlation CorrelationResult `json:"correlation"`
	Range       RangeResult       `json:"range"`
}

// WeightDirection is the direction of a weekly weight series.
type WeightDirection int

const (
	WeightSteady WeightDirection = iota
	WeightLosing
	WeightGaining
)

func (d WeightDirection) String() string {
	switch d {
	case WeightLosing:
		return "losing"
	case WeightGaining:
		return "gaining"
	default:
		return "steady"
	}
}

// MarshalText renders the direction by name.
func (d WeightDirection) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// WeightTrend summarizes the first-to-last change of weekly average weight.
type WeightTrend struct {
	Direction WeightDirection `json:"direction"`
	Change    float64         `json:"change"`
	PerWeek   float64         `json:"per_week"`
}

func (w WeightTrend) String() string {
	switch w.Direction {
	case WeightLosing:
		return fmt.Sprintf("Losing %.1f/week", math.Abs(w.PerWeek))
	case WeightGaining:
		return fmt.Sprintf("Gaining %.1f/week", w.PerWeek)
	default:
		return "Maintaining"
	}
}

// CaloriesWeightAnalysis relates weekly calories to weekly weight.
type CaloriesWeightAnalysis struct {
	Status      Status            `json:"status"`
	Days        int               `json:"days"`
	Weeks       []WeeklyBucket    `json:"weeks"`
	Correlation CorrelationResult `json:"correlation"`
	WeightTrend WeightTrend       `json:"weight_trend"`
	CalorieMin  float64           `json:"calorie_min"`
	CalorieMax  float64           `json:"calorie_max"`
}

// Report is the full analysis output.
type Report struct {
	GeneratedAt     time.Time               `json:"generated_at"`
	BloodPressure   BloodPressureAnalysis   `json:"blood_pressure"`
	ProteinStrength ProteinStrengthAnalysis `json:"protein_strength"`
	CaloriesWeight  CaloriesWeightAnalysis  `json:"calories_weight"`
	Trend           TrendResult             `json:"trend"`
	Recommendation  Recommendation          `json:"recommendation"`
}

// Analyze runs every analysis and composes the recommendation. The only error is a
// *ValidationError for malformed records; sparse data is reported through statuses.
func (e *Engine) Analyze(s *Snapshot, now time.Time) (*Report, error) {
	snap, err := prepare(s)
	if err != nil {
		return nil, err
	}
	r := &Report{
		GeneratedAt:     now,
		BloodPressure:   e.bloodPressure(snap, PredictorCarbs),
		ProteinStrength: e.proteinStrength(snap),
		CaloriesWeight:  e.caloriesWeight(snap),
		Trend:           ClassifyTrend(snap, now, e.policy),
	}
	r.Recommendation = Compose(ComposeInput{
		BloodPressure:   r.BloodPressure,
		ProteinStrength: r.ProteinStrength,
		CaloriesWeight:  r.CaloriesWeight,
		Trend:           r.Trend,
	})
	return r, nil
}

// BloodPressure relates predictor to systolic blood pressure.
func (e *Engine) BloodPressure(s *Snapshot, predictor Predictor) (BloodPressureAnalysis, error) {
	snap, err := prepare(s)
	if err != nil {
		return BloodPressureAnalysis{}, err
	}
	return e.bloodPressure(snap, predictor), nil
}

// ProteinStrength relates weekly protein to strength change.
func (e *Engine) ProteinStrength(s *Snapshot) (ProteinStrengthAnalysis, error) {
	snap, err := prepare(s)
	if err != nil {
		return ProteinStrengthAnalysis{}, err
	}
	return e.proteinStrength(snap), nil
}

// CaloriesWeight relates weekly calories to weekly weight.
func (e *Engine) CaloriesWeight(s *Snapshot) (CaloriesWeightAnalysis, error) {
	snap, err := prepare(s)
	if err != nil {
		return CaloriesWeightAnalysis{}, err
	}
	return e.caloriesWeight(snap), nil
}

// Trend classifies recomposition as of now.
func (e *Engine) Trend(s *Snapshot, now time.Time) (TrendResult, error) {
	snap, err := prepare(s)
	if err != nil {
		return TrendResult{}, err
	}
	return ClassifyTrend(snap, now, e.policy), nil
}

func prepare(s *Snapshot) (*Snapshot, error) {
	if s == nil {
		s = &Snapshot{}
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return s.sorted(), nil
}

func (e *Engine) bloodPressure(s *Snapshot, predictor Predictor) BloodPressureAnalysis {
	pairs := AlignBloodPressure(s.BloodPressure, s.DailyLogs, predictor)
	res := BloodPressureAnalysis{
		Predictor: predictor,
		Threshold: e.policy.NormalSystolicBelow,
		Pairs:     pairs,
	}
	if len(pairs) < e.policy.MinAlignedPairs {
		res.Correlation = CorrelationResult{Status: StatusInsufficientData, N: len(pairs)}
		res.Range = RangeResult{Status: StatusInsufficientData}
		return res
	}
	xs, ys := split(pairs)
	res.Correlation = Correlate(xs, ys, e.policy)
	res.Range = OptimizeRange(pairs, Below(e.policy.NormalSystolicBelow))
	return res
}

func (e *Engine) proteinStrength(s *Snapshot) ProteinStrengthAnalysis {
	logs := filterLogs(s.DailyLogs, func(d models.DailyLog) bool { return d.ProteinGrams > 0 })
	weeks := StrengthByWeek(s.Sessions, s.SetsBySession())
	for i := range weeks {
		if avg, ok := AverageInWeek(logs, weeks[i].WeekStart, PredictorProtein); ok {
			weeks[i].AvgProtein = round(avg, 1)
		}
	}

	res := ProteinStrengthAnalysis{Weeks: weeks}
	for i := 1; i < len(weeks); i++ {
		if weeks[i].AvgProtein == 0 {
			continue
		}
		gain := weeks[i].MaxStrength - weeks[i-1].MaxStrength
		if math.Abs(gain) >= e.policy.StrengthGainOutlier {
			continue
		}
		res.Pairs = append(res.Pairs, Pair{
			Date:      weeks[i].WeekStart,
			Predictor: weeks[i].AvgProtein,
			Outcome:   round(gain, 1),
		})
	}

	if len(res.Pairs) < e.policy.MinWeeklyPairs {
		res.Correlation = CorrelationResult{Status: StatusInsufficientData, N: len(res.Pairs)}
		res.Range = RangeResult{Status: StatusInsufficientData}
		return res
	}
	xs, ys := split(res.Pairs)
	res.Correlation = Correlate(xs, ys, e.policy)
	res.Range = OptimizeRange(res.Pairs, Above(0))
	return res
}

func (e *Engine) caloriesWeight(s *Snapshot) CaloriesWeightAnalysis {
	logs := filterLogs(s.DailyLogs, func(d models.DailyLog) bool { return d.Calories > 0 && d.Weight > 0 })
	res := CaloriesWeightAnalysis{Days: len(logs), Status: StatusInsufficientData}
	if len(logs) < e.policy.MinCalorieDays {
		res.Correlation = CorrelationResult{Status: StatusInsufficientData}
		return res
	}

	res.Weeks = DailyByWeek(logs)
	if len(res.Weeks) < e.policy.MinWeeklyBuckets {
		res.Correlation = CorrelationResult{Status: StatusInsufficientData, N: len(res.Weeks)}
		return res
	}
	res.Status = StatusOK

	calories := make([]float64, len(res.Weeks))
	weights := make([]float64, len(res.Weeks))
	res.CalorieMin, res.CalorieMax = math.Inf(1), math.Inf(-1)
	for i, w := range res.Weeks {
		calories[i] = math.Trunc(w.AvgCalories)
		weights[i] = w.AvgWeight
		res.CalorieMin = math.Min(res.CalorieMin, calories[i])
		res.CalorieMax = math.Max(res.CalorieMax, calories[i])
	}
	res.Correlation = Correlate(calories, weights, e.policy)

	change := res.Weeks[len(res.Weeks)-1].AvgWeight - res.Weeks[0].AvgWeight
	res.WeightTrend = WeightTrend{
		Change:  round(change, 2),
		PerWeek: round(change/float64(len(res.Weeks)), 2),
	}
	switch {
	case change < -e.policy.WeightTrendMargin:
		res.WeightTrend.Direction = WeightLosing
	case change > e.policy.WeightTrendMargin:
		res.WeightTrend.Direction = WeightGaining
	}
	return res
}

// filterLogs returns the logs for which keep is true.
func filterLogs(logs []models.DailyLog, keep func(models.DailyLog) bool) []models.DailyLog {
	out := make([]models.DailyLog, 0, len(logs))
	for _, d := range logs {
		if keep(d) {
			out = append(out, d)
		}
	}
	return out
}

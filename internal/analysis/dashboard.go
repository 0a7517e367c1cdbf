// ABOUTME: Summary statistics for the dashboard and body measurement changes.
// ABOUTME: Also produces the dated series the CLI plots.
package analysis

import (
	"fmt"
	"math"
	"time"

	"github.com/harperreed/healthopt/internal/models"
)

// SeriesPoint is one dated value for charting.
type SeriesPoint struct {
	Date  time.Time `json:"date"`
	Value float64   `json:"value"`
}

// DashboardSummary aggregates all logged data.
type DashboardSummary struct {
	DaysLogged   int     `json:"days_logged"`
	AvgWeight    float64 `json:"avg_weight"`
	AvgCalories  float64 `json:"avg_calories"`
	AvgCarbs     float64 `json:"avg_carbs"`
	ReadingCount int     `json:"reading_count"`
	AvgSystolic  int     `json:"avg_systolic"`
	AvgDiastolic int     `json:"avg_diastolic"`
	SessionCount int     `json:"session_count"`

	WeightSeries   []SeriesPoint `json:"weight_series"`
	CarbSeries     []SeriesPoint `json:"carb_series"`
	SystolicSeries []SeriesPoint `json:"systolic_series"`
}

// AverageBP formats the average reading as "sys/dia", or "--" with no readings.
func (d DashboardSummary) AverageBP() string {
	if d.ReadingCount == 0 {
		return "--"
	}
	return fmt.Sprintf("%d/%d", d.AvgSystolic, d.AvgDiastolic)
}

// Dashboard summarizes the snapshot. Averages skip zero (unlogged) values.
func (e *Engine) Dashboard(s *Snapshot) (DashboardSummary, error) {
	snap, err := prepare(s)
	if err != nil {
		return DashboardSummary{}, err
	}

	d := DashboardSummary{
		DaysLogged:   len(snap.DailyLogs),
		ReadingCount: len(snap.BloodPressure),
		SessionCount: len(snap.Sessions),
	}

	var weight, calories, carbs meanAcc
	for _, log := range snap.DailyLogs {
		if log.Weight > 0 {
			weight.add(log.Weight)
			d.WeightSeries = append(d.WeightSeries, SeriesPoint{Date: log.Date, Value: log.Weight})
		}
		if log.Calories > 0 {
			calories.add(float64(log.Calories))
		}
		if log.CarbsGrams > 0 {
			carbs.add(log.CarbsGrams)
			d.CarbSeries = append(d.CarbSeries, SeriesPoint{Date: log.Date, Value: log.CarbsGrams})
		}
	}
	d.AvgWeight = round(weight.mean(), 1)
	d.AvgCalories = round(calories.mean(), 0)
	d.AvgCarbs = round(carbs.mean(), 1)

	var sys, dia meanAcc
	for _, bp := range snap.BloodPressure {
		sys.add(float64(bp.Systolic))
		dia.add(float64(bp.Diastolic))
		d.SystolicSeries = append(d.SystolicSeries, SeriesPoint{Date: bp.RecordedAt, Value: float64(bp.Systolic)})
	}
	d.AvgSystolic = int(math.Round(sys.mean()))
	d.AvgDiastolic = int(math.Round(dia.mean()))
	return d, nil
}

type meanAcc struct {
	sum float64
	n   int
}

func (m *meanAcc) add(v float64) {
	m.sum += v
	m.n++
}

func (m meanAcc) mean() float64 {
	if m.n == 0 {
		return 0
	}
	return m.sum / float64(m.n)
}

// MeasurementChange is latest minus previous. Arms and thighs average left and right;
// a missing field counts as zero.
type MeasurementChange struct {
	Waist  float64 `json:"waist"`
	Chest  float64 `json:"chest"`
	Arms   float64 `json:"arms"`
	Thighs float64 `json:"thighs"`
}

// MeasurementSummary reports the latest measurement and its change from the one before.
type MeasurementSummary struct {
	Status    Status                  `json:"status"`
	Count     int                     `json:"count"`
	Latest    *models.BodyMeasurement `json:"latest,omitempty"`
	Previous  *models.BodyMeasurement `json:"previous,omitempty"`
	Change    MeasurementChange       `json:"change"`
	HasChange bool                    `json:"has_change"`
}

// Measurements reports the latest body measurement and its change.
func (e *Engine) Measurements(s *Snapshot) (MeasurementSummary, error) {
	snap, err := prepare(s)
	if err != nil {
		return MeasurementSummary{}, err
	}

	ms := snap.Measurements
	res := MeasurementSummary{Status: StatusInsufficientData, Count: len(ms)}
	if len(ms) == 0 {
		return res, nil
	}
	res.Status = StatusOK
	latest := ms[len(ms)-1]
	res.Latest = &latest
	if len(ms) < 2 {
		return res, nil
	}
	prev := ms[len(ms)-2]
	res.Previous = &prev
	res.HasChange = true
	res.Change = MeasurementChange{
		Waist:  round(models.ValueOr(latest.Waist, 0)-models.ValueOr(prev.Waist, 0), 2),
		Chest:  round(models.ValueOr(latest.Chest, 0)-models.ValueOr(prev.Chest, 0), 2),
		Arms:   round(avgPair(latest.LeftArm, latest.RightArm)-avgPair(prev.LeftArm, prev.RightArm), 2),
		Thighs: round(avgPair(latest.LeftThigh, latest.RightThigh)-avgPair(prev.LeftThigh, prev.RightThigh), 2),
	}
	return res, nil
}

func avgPair(a, b *float64) float64 {
	return (models.ValueOr(a, 0) + models.ValueOr(b, 0)) / 2
}

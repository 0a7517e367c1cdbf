// ABOUTME: Tunable policy values for the analytics engine.
// ABOUTME: Correlation bands, margins, windows and minimum counts live here, not inline.
package analysis

import (
	"fmt"
	"time"
)

// Policy holds threshold constants. The zero value is not usable; start from DefaultPolicy.
type Policy struct {
	// Correlation bands on |r|: below WeakBelow is Weak, below ModerateBelow is Moderate.
	WeakBelow     float64 `json:"weak_below"`
	ModerateBelow float64 `json:"moderate_below"`

	// Minimum observation counts.
	MinAlignedPairs  int `json:"min_aligned_pairs"`
	MinWeeklyPairs   int `json:"min_weekly_pairs"`
	MinCalorieDays   int `json:"min_calorie_days"`
	MinWeeklyBuckets int `json:"min_weekly_buckets"`

	// NormalSystolicBelow is the outcome threshold for the carb range.
	NormalSystolicBelow float64 `json:"normal_systolic_below"`

	// WeightLossMargin is how far, at least, recent average weight must sit below the prior average.
	WeightLossMargin float64 `json:"weight_loss_margin"`
	// WeightTrendMargin is the total change needed to call a weekly series losing or gaining.
	WeightTrendMargin float64 `json:"weight_trend_margin"`
	// StrengthGainOutlier discards week-over-week strength changes at or beyond this magnitude.
	StrengthGainOutlier float64 `json:"strength_gain_outlier"`

	// RecentWindowDays and PriorWindowDays split history for trend and progress comparisons.
	RecentWindowDays int `json:"recent_window_days"`
	PriorWindowDays  int `json:"prior_window_days"`
}

// DefaultPolicy returns the stock thresholds.
func DefaultPolicy() Policy {
	return Policy{
		WeakBelow:           0.3,
		ModerateBelow:       0.7,
		MinAlignedPairs:     3,
		MinWeeklyPairs:      3,
		MinCalorieDays:      10,
		MinWeeklyBuckets:    3,
		NormalSystolicBelow: 120,
		WeightLossMargin:    1.0,
		WeightTrendMargin:   1.0,
		StrengthGainOutlier: 100,
		RecentWindowDays:    56,
		PriorWindowDays:     56,
	}
}

// Validate checks that the policy is internally consistent.
func (p Policy) Validate() error {
	switch {
	case p.WeakBelow <= 0 || p.WeakBelow >= p.ModerateBelow || p.ModerateBelow > 1:
		return fmt.Errorf("%w: correlation bands must satisfy 0 < weak (%v) < moderate (%v) <= 1",
			ErrInvalidInput, p.WeakBelow, p.ModerateBelow)
	case p.MinAlignedPairs < 2 || p.MinWeeklyPairs < 2 || p.MinWeeklyBuckets < 2:
		return fmt.Errorf("%w: minimum pair and bucket counts must be at least 2", ErrInvalidInput)
	case p.MinCalorieDays < 1:
		return fmt.Errorf("%w: min_calorie_days must be positive", ErrInvalidInput)
	case p.WeightLossMargin < 0 || p.WeightTrendMargin < 0 || p.StrengthGainOutlier <= 0:
		return fmt.Errorf("%w: margins must be non-negative", ErrInvalidInput)
	case p.RecentWindowDays < 1 || p.PriorWindowDays < 1:
		return fmt.Errorf("%w: windows must span at least one day", ErrInvalidInput)
	}
	return nil
}

// RecentWindow is the length of the recent comparison window.
func (p Policy) RecentWindow() time.Duration {
	return time.Duration(p.RecentWindowDays) * 24 * time.Hour
}

// windows returns the recent cutoff and the start of the prior window for now.
func (p Policy) windows(now time.Time) (cutoff, priorStart time.Time) {
	cutoff = now.AddDate(0, 0, -p.RecentWindowDays)
	priorStart = cutoff.AddDate(0, 0, -p.PriorWindowDays)
	return cutoff, priorStart
}

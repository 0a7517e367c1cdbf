// ABOUTME: Classifies body recomposition by comparing a recent window to the one before it.
// ABOUTME: Three signals (strength, weight, waist) feed a priority-ordered decision table.
package analysis

import (
	"fmt"
	"time"
)

// TrendCategory is the recomposition outcome.
type TrendCategory int

const (
	TrendMaintaining TrendCategory = iota
	TrendLosingWeight
	TrendBuildingStrength
	TrendExcellentRecomposition
)

func (c TrendCategory) String() string {
	switch c {
	case TrendMaintaining:
		return "Maintaining"
	case TrendLosingWeight:
		return "LosingWeight"
	case TrendBuildingStrength:
		return "BuildingStrength"
	case TrendExcellentRecomposition:
		return "ExcellentRecomposition"
	}
	return fmt.Sprintf("trend(%d)", int(c))
}

// MarshalText renders the category by name.
func (c TrendCategory) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

// Label is the display text for the category.
func (c TrendCategory) Label() string {
	switch c {
	case TrendExcellentRecomposition:
		return "Excellent Recomp"
	case TrendBuildingStrength:
		return "Building Strength"
	case TrendLosingWeight:
		return "Losing Weight"
	default:
		return "Maintaining"
	}
}

// Categorize applies the decision table in priority order.
func Categorize(strengthUp, weightDown, waistDown bool) TrendCategory {
	switch {
	case strengthUp && (weightDown || waistDown):
		return TrendExcellentRecomposition
	case strengthUp:
		return TrendBuildingStrength
	case weightDown || waistDown:
		return TrendLosingWeight
	default:
		return TrendMaintaining
	}
}

// Signal compares the recent average of one metric against the prior average.
type Signal struct {
	Favorable  bool    `json:"favorable"`
	Sufficient bool    `json:"sufficient"`
	Recent     float64 `json:"recent,omitempty"`
	Prior      float64 `json:"prior,omitempty"`
}

// TrendResult is the output of ClassifyTrend.
type TrendResult struct {
	Category   TrendCategory `json:"category"`
	Cutoff     time.Time     `json:"cutoff"`
	PriorStart time.Time     `json:"prior_start"`
	Strength   Signal        `json:"strength"`
	Weight     Signal        `json:"weight"`
	Waist      Signal        `json:"waist"`
}

// Sufficient reports whether any signal had data on both sides of the cutoff.
func (t TrendResult) Sufficient() bool {
	return t.Strength.Sufficient || t.Weight.Sufficient || t.Waist.Sufficient
}

// windowAverage accumulates values on either side of the cutoff.
type windowAverage struct {
	cutoff, priorStart time.Time
	recentSum, priorSum float64
	recentN, priorN     int
}

func (w *windowAverage) add(at time.Time, v float64) {
	switch {
	case !at.Before(w.cutoff):
		w.recentSum += v
		w.recentN++
	case !at.Before(w.priorStart):
		w.priorSum += v
		w.priorN++
	}
}

// signal builds a Signal; better decides favorability from (recent, prior).
func (w *windowAverage) signal(better func(recent, prior float64) bool) Signal {
	if w.recentN == 0 || w.priorN == 0 {
		return Signal{}
	}
	recent := w.recentSum / float64(w.recentN)
	prior := w.priorSum / float64(w.priorN)
	return Signal{
		Favorable:  better(recent, prior),
		Sufficient: true,
		Recent:     round(recent, 2),
		Prior:      round(prior, 2),
	}
}

// ClassifyTrend compares records since now-RecentWindow with the PriorWindow before that.
// A signal with no data on either side is unfavorable and marked insufficient.
func ClassifyTrend(s *Snapshot, now time.Time, p Policy) TrendResult {
	cutoff, priorStart := p.windows(now)
	newWindow := func() *windowAverage { return &windowAverage{cutoff: cutoff, priorStart: priorStart} }

	strength := newWindow()
	setsBySession := s.SetsBySession()
	for _, sess := range s.Sessions {
		if total := SessionStrength(setsBySession[sess.ID]); total > 0 {
			strength.add(sess.Date, total)
		}
	}

	weight := newWindow()
	for _, d := range s.DailyLogs {
		if d.Weight > 0 {
			weight.add(d.Date, d.Weight)
		}
	}

	waist := newWindow()
	for _, m := range s.Measurements {
		if m.Waist != nil && *m.Waist > 0 {
			waist.add(m.Date, *m.Waist)
		}
	}

	res := TrendResult{
		Cutoff:     cutoff,
		PriorStart: priorStart,
		Strength:   strength.signal(func(r, pr float64) bool { return r > pr }),
		Weight:     weight.signal(func(r, pr float64) bool { return r <= pr-p.WeightLossMargin }),
		Waist:      waist.signal(func(r, pr float64) bool { return r < pr }),
	}
	res.Category = Categorize(res.Strength.Favorable, res.Weight.Favorable, res.Waist.Favorable)
	return res
}

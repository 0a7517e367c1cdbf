// ABOUTME: Derives the predictor range observed while an outcome met its target.
// ABOUTME: Outcome averages inside and outside the range use range membership.
package analysis

import "math"

// RangeResult is the outcome of OptimizeRange.
type RangeResult struct {
	Status       Status `json:"status"`
	InThreshold  int    `json:"in_threshold"`
	OutThreshold int    `json:"out_threshold"`

	Min float64 `json:"min"`
	Max float64 `json:"max"`

	AvgInRange         float64 `json:"avg_in_range"`
	HasAvgInRange      bool    `json:"has_avg_in_range"`
	AvgOutsideRange    float64 `json:"avg_outside_range"`
	HasAvgOutsideRange bool    `json:"has_avg_outside_range"`
}

// Contains reports whether v lies within [Min, Max].
func (r RangeResult) Contains(v float64) bool {
	return r.Status == StatusOK && v >= r.Min && v <= r.Max
}

// Difference is AvgOutsideRange minus AvgInRange; ok is false unless both averages exist.
func (r RangeResult) Difference() (float64, bool) {
	if !r.HasAvgInRange || !r.HasAvgOutsideRange {
		return 0, false
	}
	return round(r.AvgOutsideRange-r.AvgInRange, 1), true
}

// Below builds a target predicate outcome < limit.
func Below(limit float64) func(float64) bool {
	return func(v float64) bool { return v < limit }
}

// Above builds a target predicate outcome > limit.
func Above(limit float64) func(float64) bool {
	return func(v float64) bool { return v > limit }
}

// OptimizeRange partitions pairs by inTarget(outcome). The range spans the floor of the
// smallest to the ceiling of the largest in-target predictor. With no in-target pairs
// the status is StatusNoQualifying and no range is set.
func OptimizeRange(pairs []Pair, inTarget func(outcome float64) bool) RangeResult {
	var res RangeResult
	lo, hi := math.Inf(1), math.Inf(-1)
	for _, p := range pairs {
		if inTarget(p.Outcome) {
			res.InThreshold++
			lo = math.Min(lo, p.Predictor)
			hi = math.Max(hi, p.Predictor)
		} else {
			res.OutThreshold++
		}
	}
	if res.InThreshold == 0 {
		res.Status = StatusNoQualifying
		return res
	}

	res.Status = StatusOK
	res.Min, res.Max = math.Floor(lo), math.Ceil(hi)

	var inSum, outSum float64
	var inN, outN int
	for _, p := range pairs {
		if res.Contains(p.Predictor) {
			inSum += p.Outcome
			inN++
		} else {
			outSum += p.Outcome
			outN++
		}
	}
	if inN > 0 {
		res.AvgInRange, res.HasAvgInRange = round(inSum/float64(inN), 1), true
	}
	if outN > 0 {
		res.AvgOutsideRange, res.HasAvgOutsideRange = round(outSum/float64(outN), 1), true
	}
	return res
}

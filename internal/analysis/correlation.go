// ABOUTME: Pearson correlation, strength classification and a least-squares slope.
// ABOUTME: Degenerate input comes back as a status, never as NaN.
package analysis

import (
	"fmt"
	"math"
)

// Strength classifies the magnitude of a correlation coefficient.
type Strength int

const (
	StrengthWeak Strength = iota
	StrengthModerate
	StrengthStrong
)

func (s Strength) String() string {
	switch s {
	case StrengthWeak:
		return "Weak"
	case StrengthModerate:
		return "Moderate"
	case StrengthStrong:
		return "Strong"
	}
	return fmt.Sprintf("strength(%d)", int(s))
}

// MarshalText renders the strength by name.
func (s Strength) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// Pearson computes the correlation coefficient of xs and ys.
func Pearson(xs, ys []float64) (float64, error) {
	if len(xs) != len(ys) {
		return 0, fmt.Errorf("%w: series lengths differ (%d vs %d)", ErrInvalidInput, len(xs), len(ys))
	}
	n := len(xs)
	if n < 2 {
		return 0, fmt.Errorf("%w: pearson needs at least 2 points, got %d", ErrInsufficientData, n)
	}
	if constant(xs) || constant(ys) {
		return 0, fmt.Errorf("%w: series has zero variance", ErrUndefinedStatistic)
	}

	mx, my := mean(xs), mean(ys)
	var sxy, sxx, syy float64
	for i := range xs {
		dx, dy := xs[i]-mx, ys[i]-my
		sxy += dx * dy
		sxx += dx * dx
		syy += dy * dy
	}
	denom := math.Sqrt(sxx * syy)
	if denom == 0 || math.IsNaN(denom) || math.IsInf(denom, 0) {
		return 0, fmt.Errorf("%w: series has zero variance", ErrUndefinedStatistic)
	}
	return math.Max(-1, math.Min(1, sxy/denom)), nil
}

// Classify buckets |r| using the default policy bands.
func Classify(r float64) Strength {
	return DefaultPolicy().Classify(r)
}

// Classify buckets |r|: below WeakBelow is Weak, below ModerateBelow is Moderate, else Strong.
func (p Policy) Classify(r float64) Strength {
	a := math.Abs(r)
	switch {
	case a < p.WeakBelow:
		return StrengthWeak
	case a < p.ModerateBelow:
		return StrengthModerate
	default:
		return StrengthStrong
	}
}

// CorrelationResult is a tagged correlation outcome. Coefficient and Strength are
// meaningful only when Status is StatusOK.
type CorrelationResult struct {
	Status      Status   `json:"status"`
	Coefficient float64  `json:"coefficient"`
	Strength    Strength `json:"strength"`
	N           int      `json:"n"`
}

// Positive reports whether the association is positive.
func (c CorrelationResult) Positive() bool {
	return c.Coefficient > 0
}

// Direction is "positive" or "negative".
func (c CorrelationResult) Direction() string {
	if c.Positive() {
		return "positive"
	}
	return "negative"
}

// Correlate runs Pearson and Classify and folds failures into the status.
func Correlate(xs, ys []float64, p Policy) CorrelationResult {
	res := CorrelationResult{N: len(xs)}
	r, err := Pearson(xs, ys)
	res.Status = statusOf(err)
	if err != nil {
		return res
	}
	res.Coefficient = r
	res.Strength = p.Classify(r)
	return res
}

// LinearFit returns the least-squares slope and intercept of ys over xs.
func LinearFit(xs, ys []float64) (slope, intercept float64, err error) {
	if len(xs) != len(ys) {
		return 0, 0, fmt.Errorf("%w: series lengths differ (%d vs %d)", ErrInvalidInput, len(xs), len(ys))
	}
	if len(xs) < 2 {
		return 0, 0, fmt.Errorf("%w: regression needs at least 2 points, got %d", ErrInsufficientData, len(xs))
	}
	if constant(xs) {
		return 0, 0, fmt.Errorf("%w: predictor has zero variance", ErrUndefinedStatistic)
	}
	mx, my := mean(xs), mean(ys)
	var sxy, sxx float64
	for i := range xs {
		dx := xs[i] - mx
		sxy += dx * (ys[i] - my)
		sxx += dx * dx
	}
	slope = sxy / sxx
	return slope, my - slope*mx, nil
}

func mean(vs []float64) float64 {
	var sum float64
	for _, v := range vs {
		sum += v
	}
	return sum / float64(len(vs))
}

func constant(vs []float64) bool {
	for _, v := range vs[1:] {
		if v != vs[0] {
			return false
		}
	}
	return true
}

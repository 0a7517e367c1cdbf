// ABOUTME: Composes analysis results into ordered, source-tagged recommendation fragments.
// ABOUTME: Every slot is always present; missing data yields a fixed placeholder.
package analysis

import (
	"fmt"
	"strings"
)

// Source names the metric a fragment is derived from.
type Source int

const (
	SourceBloodPressure Source = iota
	SourceOptimalRange
	SourceProteinStrength
	SourceCaloriesWeight
	SourceRecomposition
	SourceAdvice
)

var sourceNames = []string{
	"blood_pressure_correlation",
	"optimal_range",
	"protein_strength",
	"calories_weight",
	"recomposition",
	"advice",
}

func (s Source) String() string {
	if int(s) >= 0 && int(s) < len(sourceNames) {
		return sourceNames[s]
	}
	return fmt.Sprintf("source(%d)", int(s))
}

// MarshalText renders the source by name.
func (s Source) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// FragmentKind separates findings from placeholders and advice.
type FragmentKind int

const (
	KindFinding FragmentKind = iota
	KindPlaceholder
	KindAdvice
)

func (k FragmentKind) String() string {
	switch k {
	case KindFinding:
		return "finding"
	case KindPlaceholder:
		return "placeholder"
	case KindAdvice:
		return "advice"
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// MarshalText renders the kind by name.
func (k FragmentKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// Placeholder text substituted when a slot lacks data.
const (
	PlaceholderBloodPressure   = "Continue tracking blood pressure and daily nutrition to measure how they relate."
	PlaceholderOptimalRange    = "Continue tracking blood pressure to identify an optimal intake range."
	PlaceholderProteinStrength = "Continue tracking protein and workouts to measure how protein affects strength."
	PlaceholderCaloriesWeight  = "Continue tracking calories and weight to measure how they relate."
	PlaceholderRecomposition   = "Continue tracking workouts and body weight to assess recomposition."
	PlaceholderAdvice          = "Continue tracking to unlock personalized recommendations."
)

// Fragment is one statement in a recommendation.
type Fragment struct {
	Source Source       `json:"source"`
	Kind   FragmentKind `json:"kind"`
	Text   string       `json:"text"`
}

// Recommendation is the ordered list of fragments.
type Recommendation struct {
	Fragments []Fragment `json:"fragments"`
}

// Text joins the fragments one per line.
func (r Recommendation) Text() string {
	lines := make([]string, len(r.Fragments))
	for i, f := range r.Fragments {
		lines[i] = f.Text
	}
	return strings.Join(lines, "\n")
}

// BySource returns the fragments tagged with src.
func (r Recommendation) BySource(src Source) []Fragment {
	var out []Fragment
	for _, f := range r.Fragments {
		if f.Source == src {
			out = append(out, f)
		}
	}
	return out
}

// ComposeInput gathers the upstream results Compose reads.
type ComposeInput struct {
	BloodPressure   BloodPressureAnalysis
	ProteinStrength ProteinStrengthAnalysis
	CaloriesWeight  CaloriesWeightAnalysis
	Trend           TrendResult
}

// Compose builds the recommendation. Output depends only on in.
func Compose(in ComposeInput) Recommendation {
	frags := []Fragment{
		bloodPressureFragment(in.BloodPressure),
		optimalRangeFragment(in.BloodPressure),
		proteinStrengthFragment(in.ProteinStrength),
		caloriesWeightFragment(in.CaloriesWeight),
		recompositionFragment(in.Trend),
	}
	advice := adviceFragments(in)
	if len(advice) == 0 {
		advice = []Fragment{placeholder(SourceAdvice, PlaceholderAdvice)}
	}
	return Recommendation{Fragments: append(frags, advice...)}
}

func placeholder(src Source, text string) Fragment {
	return Fragment{Source: src, Kind: KindPlaceholder, Text: text}
}

func finding(src Source, format string, args ...any) Fragment {
	return Fragment{Source: src, Kind: KindFinding, Text: fmt.Sprintf(format, args...)}
}

func advise(format string, args ...any) Fragment {
	return Fragment{Source: SourceAdvice, Kind: KindAdvice, Text: fmt.Sprintf(format, args...)}
}

func bloodPressureFragment(bp BloodPressureAnalysis) Fragment {
	c := bp.Correlation
	switch c.Status {
	case StatusOK:
		f := finding(SourceBloodPressure, "%s vs systolic BP: %s %s correlation (r=%.2f, n=%d).",
			title(bp.Predictor.String()), c.Strength, c.Direction(), c.Coefficient, c.N)
		if c.Strength != StrengthWeak && c.Positive() {
			f.Text += fmt.Sprintf(" Blood pressure rises with %s intake.", bp.Predictor)
		}
		return f
	case StatusInsufficientData, StatusUndefined, StatusInvalidInput, StatusNoQualifying:
		return placeholder(SourceBloodPressure, PlaceholderBloodPressure)
	}
	return placeholder(SourceBloodPressure, PlaceholderBloodPressure)
}

func optimalRangeFragment(bp BloodPressureAnalysis) Fragment {
	r := bp.Range
	switch r.Status {
	case StatusOK:
		f := finding(SourceOptimalRange, "Optimal %s range: %.0f-%.0f%s on days with systolic BP under %.0f.",
			bp.Predictor, r.Min, r.Max, bp.Predictor.Unit(), bp.Threshold)
		if diff, ok := r.Difference(); ok {
			f.Text += fmt.Sprintf(" Average systolic %.1f in range vs %.1f outside (%+.1f).",
				r.AvgInRange, r.AvgOutsideRange, diff)
		}
		return f
	case StatusNoQualifying:
		return finding(SourceOptimalRange,
			"Blood pressure was %.0f or higher in every reading. Consider reducing %s further and consult your doctor.",
			bp.Threshold, bp.Predictor)
	case StatusInsufficientData, StatusUndefined, StatusInvalidInput:
		return placeholder(SourceOptimalRange, PlaceholderOptimalRange)
	}
	return placeholder(SourceOptimalRange, PlaceholderOptimalRange)
}

func proteinStrengthFragment(ps ProteinStrengthAnalysis) Fragment {
	c := ps.Correlation
	switch c.Status {
	case StatusOK:
		f := finding(SourceProteinStrength, "Protein vs strength gains: %s %s correlation (r=%.2f over %d weeks).",
			c.Strength, c.Direction(), c.Coefficient, c.N)
		if ps.Range.Status == StatusOK {
			f.Text += fmt.Sprintf(" Weeks with strength gains averaged %.0f-%.0fg protein.", ps.Range.Min, ps.Range.Max)
		}
		return f
	case StatusInsufficientData, StatusUndefined, StatusInvalidInput, StatusNoQualifying:
		return placeholder(SourceProteinStrength, PlaceholderProteinStrength)
	}
	return placeholder(SourceProteinStrength, PlaceholderProteinStrength)
}

func caloriesWeightFragment(cw CaloriesWeightAnalysis) Fragment {
	if cw.Status != StatusOK {
		return placeholder(SourceCaloriesWeight, PlaceholderCaloriesWeight)
	}
	c := cw.Correlation
	switch c.Status {
	case StatusOK:
		return finding(SourceCaloriesWeight,
			"Calories vs weight: %s %s correlation (r=%.2f). Weight trend: %s. Weekly calories ranged %.0f-%.0f.",
			c.Strength, c.Direction(), c.Coefficient, cw.WeightTrend, cw.CalorieMin, cw.CalorieMax)
	case StatusInsufficientData, StatusUndefined, StatusInvalidInput, StatusNoQualifying:
		return finding(SourceCaloriesWeight, "Weight trend: %s. Weekly calories ranged %.0f-%.0f.",
			cw.WeightTrend, cw.CalorieMin, cw.CalorieMax)
	}
	return placeholder(SourceCaloriesWeight, PlaceholderCaloriesWeight)
}

func recompositionFragment(t TrendResult) Fragment {
	if !t.Sufficient() {
		return placeholder(SourceRecomposition, PlaceholderRecomposition)
	}
	return finding(SourceRecomposition, "Recomposition status: %s (strength %s, weight %s, waist %s).",
		t.Category.Label(), describe(t.Strength, "up"), describe(t.Weight, "down"), describe(t.Waist, "down"))
}

func describe(s Signal, favorable string) string {
	switch {
	case !s.Sufficient:
		return "not enough data"
	case s.Favorable:
		return favorable
	default:
		return "flat"
	}
}

func adviceFragments(in ComposeInput) []Fragment {
	var out []Fragment
	t := in.Trend
	if t.Category == TrendExcellentRecomposition {
		out = append(out,
			advise("Keep doing what you're doing: strength is rising while weight or waist is dropping."),
			advise("Maintain your current protein and calorie ranges."))
	} else if !t.Strength.Favorable && in.ProteinStrength.Range.Status == StatusOK {
		out = append(out, advise("Consider increasing protein toward %.0fg for better strength gains.",
			in.ProteinStrength.Range.Max))
	}
	if !t.Weight.Favorable && !t.Waist.Favorable && in.CaloriesWeight.Status == StatusOK {
		out = append(out, advise("If fat loss is your goal, try the lower end of your calorie range (%.0f).",
			in.CaloriesWeight.CalorieMin))
	}
	if r := in.BloodPressure.Range; r.Status == StatusOK {
		out = append(out, advise("Stay within %.0f-%.0f%s %s daily to keep blood pressure in the normal range.",
			r.Min, r.Max, in.BloodPressure.Predictor.Unit(), in.BloodPressure.Predictor))
	}
	return out
}

func title(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

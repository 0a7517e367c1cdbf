package analysis

import (
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPearson_PerfectCorrelation(t *testing.T) {
	r, err := Pearson([]float64{1, 2, 3, 4}, []float64{2, 4, 6, 8})
	require.NoError(t, err)
	assert.InDelta(t, 1.0, r, 1e-12)

	r, err = Pearson([]float64{1, 2, 3, 4}, []float64{8, 6, 4, 2})
	require.NoError(t, err)
	assert.InDelta(t, -1.0, r, 1e-12)
}

func TestPearson_Errors(t *testing.T) {
	_, err := Pearson([]float64{1, 2}, []float64{1})
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = Pearson([]float64{1}, []float64{1})
	assert.ErrorIs(t, err, ErrInsufficientData)

	_, err = Pearson(nil, nil)
	assert.ErrorIs(t, err, ErrInsufficientData)

	_, err = Pearson([]float64{0.1, 0.1, 0.1}, []float64{1, 2, 3})
	assert.ErrorIs(t, err, ErrUndefinedStatistic)

	_, err = Pearson([]float64{1, 2, 3}, []float64{5, 5, 5})
	assert.ErrorIs(t, err, ErrUndefinedStatistic)
}

func TestPearson_SymmetricAndBounded(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	for trial := 0; trial < 200; trial++ {
		n := 2 + rng.Intn(20)
		xs := make([]float64, n)
		ys := make([]float64, n)
		for i := range xs {
			xs[i] = rng.Float64() * 200
			ys[i] = xs[i]*rng.Float64() + rng.NormFloat64()*10
		}

		r1, err1 := Pearson(xs, ys)
		r2, err2 := Pearson(ys, xs)
		require.Equal(t, err1 == nil, err2 == nil)
		if err1 != nil {
			assert.ErrorIs(t, err1, ErrUndefinedStatistic)
			continue
		}
		assert.Equal(t, r1, r2, "trial %d", trial)
		assert.False(t, math.IsNaN(r1))
		assert.GreaterOrEqual(t, r1, -1.0)
		assert.LessOrEqual(t, r1, 1.0)
	}
}

func TestClassify_Boundaries(t *testing.T) {
	tests := []struct {
		r    float64
		want Strength
	}{
		{0, StrengthWeak},
		{0.29, StrengthWeak},
		{0.30, StrengthModerate},
		{0.69, StrengthModerate},
		{0.70, StrengthStrong},
		{1, StrengthStrong},
		{-0.29, StrengthWeak},
		{-0.30, StrengthModerate},
		{-0.70, StrengthStrong},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Classify(tt.r), "r=%v", tt.r)
	}
}

func TestCorrelate_Status(t *testing.T) {
	p := DefaultPolicy()

	res := Correlate([]float64{1, 2, 3}, []float64{1, 2, 4}, p)
	assert.Equal(t, StatusOK, res.Status)
	assert.Equal(t, StrengthStrong, res.Strength)
	assert.Equal(t, 3, res.N)
	assert.Equal(t, "positive", res.Direction())

	res = Correlate([]float64{1, 1, 1}, []float64{1, 2, 4}, p)
	assert.Equal(t, StatusUndefined, res.Status)
	assert.Zero(t, res.Coefficient)

	res = Correlate([]float64{1}, []float64{1}, p)
	assert.Equal(t, StatusInsufficientData, res.Status)
}

func TestLinearFit(t *testing.T) {
	slope, intercept, err := LinearFit([]float64{0, 1, 2, 3}, []float64{100, 102, 104, 106})
	require.NoError(t, err)
	assert.InDelta(t, 2.0, slope, 1e-12)
	assert.InDelta(t, 100.0, intercept, 1e-12)

	_, _, err = LinearFit([]float64{1}, []float64{1})
	assert.ErrorIs(t, err, ErrInsufficientData)

	_, _, err = LinearFit([]float64{2, 2}, []float64{1, 3})
	assert.ErrorIs(t, err, ErrUndefinedStatistic)
}

package flow

import (
	"errors"
	"math"
	"testing"

	"github.com/san-kum/pipeflow/internal/solver"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type failingFinder struct{ calls int }

func (f *failingFinder) Solve(fn solver.Func, x0 float64) (float64, error) {
	f.calls++
	return 0, solver.ErrNoConvergence
}

func TestClassify(t *testing.T) {
	tests := []struct {
		re   float64
		want Regime
	}{
		{1, Laminar},
		{600, Laminar},
		{2000, Laminar},
		{2000.0001, Transitional},
		{3000, Transitional},
		{3999.999, Transitional},
		{4000, Turbulent},
		{1e8, Turbulent},
	}

	for _, tt := range tests {
		if got := Classify(tt.re); got != tt.want {
			t.Errorf("Classify(%g) = %v, want %v", tt.re, got, tt.want)
		}
	}
}

func TestMarkerFor(t *testing.T) {
	assert.Equal(t, MarkerCircle, MarkerFor(1500))
	assert.Equal(t, MarkerTriangle, MarkerFor(2500))
	assert.Equal(t, MarkerCircle, MarkerFor(4000))
	assert.Equal(t, "triangle", MarkerTriangle.String())
}

func TestLaminarIsExact(t *testing.T) {
	e := NewEvaluator(WithSeed(1))
	for _, re := range []float64{1, 10, 600, 1234.5, 2000} {
		for _, rr := range []float64{0, 1e-4, 0.05} {
			f, err := e.Evaluate(re, rr)
			require.NoError(t, err)
			if f != 64/re {
				t.Errorf("Evaluate(%g, %g) = %v, want exactly %v", re, rr, f, 64/re)
			}
		}
	}
}

func TestLaminarScenario(t *testing.T) {
	f, err := NewEvaluator(WithSeed(1)).Evaluate(600, 0)
	require.NoError(t, err)
	assert.InDelta(t, 0.10667, f, 1e-5)
}

func TestColebrookResidual(t *testing.T) {
	e := NewEvaluator(WithSeed(1))
	for _, re := range Logspace(4000, 1e8, 15) {
		for _, rr := range []float64{0, 1e-6, 1e-4, 1e-3, 1e-2, 0.05} {
			f, err := e.Evaluate(re, rr)
			require.NoError(t, err, "re=%g rr=%g", re, rr)
			require.Greater(t, f, 0.0)
			assert.InDelta(t, 0, ColebrookResidual(f, re, rr), 1e-6, "re=%g rr=%g f=%g", re, rr, f)
		}
	}
}

func TestColebrookReferenceValues(t *testing.T) {
	tests := []struct {
		re, rr, want float64
	}{
		{1e5, 0, 0.017990},
		{1e7, 0, 0.008103},
		// The root finder reaches the mirrored negative root here.
		{1e8, 0, 0.005940},
		{1e6, 1e-4, 0.013441},
		{4000, 0.05, 0.076987},
	}

	e := NewEvaluator(WithSeed(1))
	for _, tt := range tests {
		f, err := e.Colebrook(tt.re, tt.rr)
		require.NoError(t, err)
		assert.InDelta(t, tt.want, f, 1e-5, "re=%g rr=%g", tt.re, tt.rr)
	}
}

func TestTurbulentGrowsWithRoughness(t *testing.T) {
	e := NewEvaluator(WithSeed(1))
	prev := 0.0
	for _, rr := range DefaultRoughness {
		f, err := e.Colebrook(1e6, rr)
		require.NoError(t, err)
		assert.Greater(t, f, prev, "rr=%g", rr)
		prev = f
	}
}

func TestTransitionalReproducible(t *testing.T) {
	a := NewEvaluator(WithSeed(42))
	b := NewEvaluator(WithSeed(42))

	for i := 0; i < 10; i++ {
		fa, err := a.Evaluate(3000, 1e-3)
		require.NoError(t, err)
		fb, err := b.Evaluate(3000, 1e-3)
		require.NoError(t, err)
		require.Equal(t, fa, fb, "draw %d", i)
	}

	assert.Equal(t, int64(42), a.Seed())
}

func TestTransitionalDraws(t *testing.T) {
	e := NewEvaluator(WithSeed(7))
	first, err := e.Evaluate(3000, 0)
	require.NoError(t, err)
	second, err := e.Evaluate(3000, 0)
	require.NoError(t, err)
	assert.NotEqual(t, first, second, "each call draws a new sample")
}

func TestTransitionalDistribution(t *testing.T) {
	const n = 20000
	re, rr := 3000.0, 0.0

	e := NewEvaluator(WithSeed(2024))
	cb, err := e.Colebrook(re, rr)
	require.NoError(t, err)
	mean := (cb + 64/re) / 2

	got, err := e.TransitionalMean(re, rr)
	require.NoError(t, err)
	assert.InDelta(t, mean, got, 1e-15)

	sum, sumSq := 0.0, 0.0
	for i := 0; i < n; i++ {
		f, err := e.Evaluate(re, rr)
		require.NoError(t, err)
		sum += f
		sumSq += f * f
	}
	sampleMean := sum / n
	sampleStd := math.Sqrt(sumSq/n - sampleMean*sampleMean)

	assert.InDelta(t, mean, sampleMean, 3e-4)
	assert.InDelta(t, TransitionalSpread*mean, sampleStd, 3e-4)
}

func TestConvergenceFailurePropagates(t *testing.T) {
	finder := &failingFinder{}
	e := NewEvaluator(WithSeed(1), WithRootFinder(finder))

	for _, re := range []float64{3000, 1e5} {
		_, err := e.Evaluate(re, 1e-4)
		require.Error(t, err)
		assert.True(t, errors.Is(err, ErrNoConvergence), "got %v", err)
		assert.True(t, errors.Is(err, solver.ErrNoConvergence), "root cause should stay visible")
	}

	_, err := e.Evaluate(1000, 1e-4)
	require.NoError(t, err)
	assert.Equal(t, 2, finder.calls, "laminar path must not call the root finder")
}

func BenchmarkColebrook(b *testing.B) {
	e := NewEvaluator(WithSeed(1))
	for i := 0; i < b.N; i++ {
		if _, err := e.Colebrook(1e6, 1e-4); err != nil {
			b.Fatal(err)
		}
	}
}

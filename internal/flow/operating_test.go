package flow

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOperatingPointLaminar(t *testing.T) {
	e := NewEvaluator(WithSeed(1))
	op, err := e.OperatingPoint(PipeSpec{DiameterInches: 12, RoughnessMicroInches: 0, FlowRateGPM: 0.5})
	require.NoError(t, err)

	assert.InDelta(t, 1.0, op.DiameterFeet, 1e-15)
	assert.InDelta(t, 0.0014183994631645, op.Velocity, 1e-15)
	assert.InDelta(t, 141.83994631645, op.Reynolds, 1e-9)
	assert.Equal(t, Laminar, op.Regime)
	assert.Equal(t, MarkerCircle, op.Marker)
	assert.Equal(t, 64/op.Reynolds, op.FrictionFactor)
	assert.InDelta(t, 1.409589528610694e-08, op.HeadLossPerFoot, 1e-20)
}

func TestOperatingPointTurbulent(t *testing.T) {
	e := NewEvaluator(WithSeed(1))
	spec := PipeSpec{DiameterInches: 2, RoughnessMicroInches: 1800, FlowRateGPM: 100}
	op, err := e.OperatingPoint(spec)
	require.NoError(t, err)

	assert.InDelta(t, 0.0009, op.RelativeRoughness, 1e-15)
	assert.InDelta(t, 10.212476134784, op.Velocity, 1e-9)
	assert.InDelta(t, 170207.93557974, op.Reynolds, 1e-6)
	assert.Equal(t, Turbulent, op.Regime)
	assert.InDelta(t, 0, ColebrookResidual(op.FrictionFactor, op.Reynolds, op.RelativeRoughness), 1e-6)

	want := op.FrictionFactor * op.Velocity * op.Velocity / (2 * Gravity) / op.DiameterFeet
	assert.InDelta(t, want, op.HeadLossPerFoot, 1e-12)
	assert.Equal(t, Point{Re: op.Reynolds, F: op.FrictionFactor}, op.Point())
}

func TestOperatingPointTransitionalMarker(t *testing.T) {
	e := NewEvaluator(WithSeed(1))
	op, err := e.OperatingPoint(PipeSpec{DiameterInches: 1, RoughnessMicroInches: 60, FlowRateGPM: 1})
	require.NoError(t, err)

	assert.Equal(t, Transitional, op.Regime)
	assert.Equal(t, MarkerTriangle, op.Marker)
	assert.Greater(t, op.FrictionFactor, 0.0)
}

func TestOperatingPointScalesWithFlow(t *testing.T) {
	base := PipeSpec{DiameterInches: 4, RoughnessMicroInches: 600, FlowRateGPM: 150}
	doubled := base
	doubled.FlowRateGPM *= 2

	c1, err := base.Conditions()
	require.NoError(t, err)
	c2, err := doubled.Conditions()
	require.NoError(t, err)

	assert.InDelta(t, 2.0, c2.Velocity/c1.Velocity, 1e-12)
	assert.InDelta(t, 2.0, c2.Reynolds/c1.Reynolds, 1e-12)
	assert.Equal(t, c1.RelativeRoughness, c2.RelativeRoughness)
}

func TestOperatingPointRejectsInvalidInput(t *testing.T) {
	tests := []struct {
		name string
		spec PipeSpec
	}{
		{"zero diameter", PipeSpec{DiameterInches: 0, RoughnessMicroInches: 100, FlowRateGPM: 10}},
		{"negative diameter", PipeSpec{DiameterInches: -1, RoughnessMicroInches: 100, FlowRateGPM: 10}},
		{"zero flow", PipeSpec{DiameterInches: 2, RoughnessMicroInches: 100, FlowRateGPM: 0}},
		{"negative roughness", PipeSpec{DiameterInches: 2, RoughnessMicroInches: -5, FlowRateGPM: 10}},
		{"nan diameter", PipeSpec{DiameterInches: math.NaN(), RoughnessMicroInches: 100, FlowRateGPM: 10}},
		{"infinite flow", PipeSpec{DiameterInches: 2, RoughnessMicroInches: 100, FlowRateGPM: math.Inf(1)}},
	}

	e := NewEvaluator(WithSeed(1))
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			op, err := e.OperatingPoint(tt.spec)
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrInvalidInput), "got %v", err)
			assert.Zero(t, op.FrictionFactor)
		})
	}
}

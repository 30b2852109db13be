package viz

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/san-kum/pipeflow/internal/flow"
)

func TestClipUnit(t *testing.T) {
	x0, y0, x1, y1, ok := clipUnit(-0.5, 0.5, 0.5, 0.5)
	require.True(t, ok)
	assert.InDelta(t, 0, x0, 1e-12)
	assert.InDelta(t, 0.5, y0, 1e-12)
	assert.InDelta(t, 0.5, x1, 1e-12)
	assert.InDelta(t, 0.5, y1, 1e-12)

	_, _, _, _, ok = clipUnit(1.2, 0.5, 1.5, 0.6)
	assert.False(t, ok)

	_, y0, _, _, ok = clipUnit(0.1, 1.5, 0.1, 0.5)
	require.True(t, ok)
	assert.InDelta(t, 1, y0, 1e-12)
}

func TestMoodyChartRender(t *testing.T) {
	ev := flow.NewEvaluator(flow.WithSeed(1))
	opts := flow.DefaultMoodyOptions()
	opts.Roughness = []float64{0, 0.05}
	d, err := ev.Moody(opts)
	require.NoError(t, err)

	chart := NewMoodyChart(60, 16)
	out := chart.Render(d.Curves(), []Mark{
		{Point: flow.Point{Re: 1e5, F: 0.018}, Symbol: '▲'},
		{Point: flow.Point{Re: 1e9, F: 0.018}, Symbol: '●'},
	})

	lines := strings.Split(strings.TrimSuffix(out, "\n"), "\n")
	// caption + rows + axis + ticks
	assert.Len(t, lines, 16+3)
	assert.Contains(t, out, "▲")
	assert.NotContains(t, out, "●")
	assert.Contains(t, out, "0.05")
	assert.Contains(t, out, "1e8")
	assert.Contains(t, out, "0.100")
	assert.Contains(t, out, "Re")
}

func TestMarksFor(t *testing.T) {
	ev := flow.NewEvaluator(flow.WithSeed(1))
	op, err := ev.OperatingPoint(flow.PipeSpec{DiameterInches: 12, FlowRateGPM: 0.5})
	require.NoError(t, err)

	marks := MarksFor([]flow.OperatingPoint{op})
	require.Len(t, marks, 1)
	assert.Equal(t, '●', marks[0].Symbol)
	assert.Equal(t, op.Reynolds, marks[0].Point.Re)
}

func TestResample(t *testing.T) {
	values := make([]float64, 101)
	for i := range values {
		values[i] = float64(i)
	}

	out := Resample(values, 11)
	require.Len(t, out, 11)
	assert.Equal(t, 0.0, out[0])
	assert.Equal(t, 100.0, out[10])
	assert.Equal(t, 50.0, out[5])

	assert.Len(t, Resample(values, 200), 101)
}

func TestTimePlot(t *testing.T) {
	assert.Empty(t, TimePlot("empty", 40, 5))

	out := TimePlot("x", 40, 5, Series{Name: "x", Values: []float64{0, 1, 2, 3}})
	assert.Contains(t, out, "x")
}

package metrics

import (
	"math"

	"github.com/san-kum/pipeflow/internal/dynamo"
)

// Peak tracks the largest |x[idx]| seen.
type Peak struct {
	name string
	idx  int
	max  float64
}

func NewPeak(name string, idx int) *Peak {
	return &Peak{name: name, idx: idx}
}

func (p *Peak) Name() string { return p.name }

func (p *Peak) Observe(x dynamo.State, t float64) {
	if p.idx < len(x) {
		p.max = math.Max(p.max, math.Abs(x[p.idx]))
	}
}

func (p *Peak) Value() float64 { return p.max }
func (p *Peak) Reset()         { p.max = 0 }

// MeanAbs averages |x[idx]| over all samples.
type MeanAbs struct {
	name    string
	idx     int
	sum     float64
	samples int
}

func NewMeanAbs(name string, idx int) *MeanAbs {
	return &MeanAbs{name: name, idx: idx}
}

func (m *MeanAbs) Name() string { return m.name }

func (m *MeanAbs) Observe(x dynamo.State, t float64) {
	if m.idx < len(x) {
		m.sum += math.Abs(x[m.idx])
		m.samples++
	}
}

func (m *MeanAbs) Value() float64 {
	if m.samples == 0 {
		return 0
	}
	return m.sum / float64(m.samples)
}

func (m *MeanAbs) Reset() {
	m.sum = 0
	m.samples = 0
}

// FinalDiff reports x[a] - x[b] at the last sample. With b < 0 it reports x[a].
type FinalDiff struct {
	name string
	a, b int
	last float64
}

func NewFinal(name string, idx int) *FinalDiff {
	return &FinalDiff{name: name, a: idx, b: -1}
}

func NewFinalDiff(name string, a, b int) *FinalDiff {
	return &FinalDiff{name: name, a: a, b: b}
}

func (f *FinalDiff) Name() string { return f.name }

func (f *FinalDiff) Observe(x dynamo.State, t float64) {
	if f.a >= len(x) || f.b >= len(x) {
		return
	}
	v := x[f.a]
	if f.b >= 0 {
		v -= x[f.b]
	}
	f.last = v
}

func (f *FinalDiff) Value() float64 { return f.last }
func (f *FinalDiff) Reset()         { f.last = 0 }

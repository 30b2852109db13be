package flow

import (
	"fmt"
	"math"
	"strconv"
)

type Point struct {
	Re float64
	F  float64
}

type LineStyle int

const (
	Solid LineStyle = iota
	Dashed
)

type Curve struct {
	Label     string
	Style     LineStyle
	Roughness float64
	Points    []Point
}

// Sweep is a logarithmically spaced Reynolds number range.
type Sweep struct {
	Start  float64 `yaml:"start"`
	Stop   float64 `yaml:"stop"`
	Points int     `yaml:"points"`
}

func (s Sweep) Values() []float64 {
	return Logspace(s.Start, s.Stop, s.Points)
}

func (s Sweep) Validate() error {
	if s.Points < 2 {
		return fmt.Errorf("%w: sweep needs at least 2 points, got %d", ErrInvalidInput, s.Points)
	}
	if s.Start <= 0 || s.Stop <= s.Start {
		return fmt.Errorf("%w: sweep range [%g, %g] must be positive and increasing", ErrInvalidInput, s.Start, s.Stop)
	}
	return nil
}

// DefaultRoughness is the set of relative roughness curves on the chart.
var DefaultRoughness = []float64{
	0, 1e-6, 5e-6, 1e-5, 5e-5, 1e-4, 2e-4, 4e-4, 6e-4, 8e-4,
	1e-3, 2e-3, 4e-3, 6e-3, 8e-3, 1.5e-2, 2e-2, 3e-2, 4e-2, 5e-2,
}

type MoodyOptions struct {
	Laminar      Sweep     `yaml:"laminar"`
	Transitional Sweep     `yaml:"transitional"`
	Turbulent    Sweep     `yaml:"turbulent"`
	Roughness    []float64 `yaml:"roughness"`
}

func DefaultMoodyOptions() MoodyOptions {
	rr := make([]float64, len(DefaultRoughness))
	copy(rr, DefaultRoughness)
	return MoodyOptions{
		Laminar:      Sweep{Start: 600, Stop: LaminarLimit, Points: 20},
		Transitional: Sweep{Start: LaminarLimit, Stop: TurbulentLimit, Points: 20},
		Turbulent:    Sweep{Start: TurbulentLimit, Stop: 1e8, Points: 50},
		Roughness:    rr,
	}
}

func (o MoodyOptions) Validate() error {
	for name, s := range map[string]Sweep{"laminar": o.Laminar, "transitional": o.Transitional, "turbulent": o.Turbulent} {
		if err := s.Validate(); err != nil {
			return fmt.Errorf("%s: %w", name, err)
		}
	}
	if o.Turbulent.Start < TurbulentLimit {
		return fmt.Errorf("%w: turbulent sweep must start at Re >= %g", ErrInvalidInput, TurbulentLimit)
	}
	if len(o.Roughness) == 0 {
		return fmt.Errorf("%w: no roughness values", ErrInvalidInput)
	}
	for _, rr := range o.Roughness {
		if rr < 0 || math.IsNaN(rr) {
			return fmt.Errorf("%w: relative roughness %g", ErrInvalidInput, rr)
		}
	}
	return nil
}

type Diagram struct {
	Laminar      Curve
	Transitional Curve
	Turbulent    []Curve
}

// Curves lists every curve in drawing order.
func (d *Diagram) Curves() []Curve {
	out := make([]Curve, 0, 2+len(d.Turbulent))
	out = append(out, d.Laminar, d.Transitional)
	return append(out, d.Turbulent...)
}

// Moody computes the diagram. The laminar and transitional curves use 64/Re;
// every turbulent point goes through Colebrook directly, so the random
// transitional branch is never consulted and the result is deterministic.
func (e *Evaluator) Moody(opts MoodyOptions) (*Diagram, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}

	d := &Diagram{
		Laminar:      laminarCurve("laminar", Solid, opts.Laminar.Values()),
		Transitional: laminarCurve("transitional", Dashed, opts.Transitional.Values()),
		Turbulent:    make([]Curve, 0, len(opts.Roughness)),
	}

	turbulentRe := opts.Turbulent.Values()
	for _, rr := range opts.Roughness {
		c := Curve{
			Label:     strconv.FormatFloat(rr, 'g', -1, 64),
			Style:     Solid,
			Roughness: rr,
			Points:    make([]Point, 0, len(turbulentRe)),
		}
		for _, re := range turbulentRe {
			f, err := e.Colebrook(re, rr)
			if err != nil {
				return nil, err
			}
			c.Points = append(c.Points, Point{Re: re, F: f})
		}
		d.Turbulent = append(d.Turbulent, c)
	}

	return d, nil
}

func laminarCurve(label string, style LineStyle, res []float64) Curve {
	c := Curve{Label: label, Style: style, Points: make([]Point, len(res))}
	for i, re := range res {
		c.Points[i] = Point{Re: re, F: LaminarFactor(re)}
	}
	return c
}

// Logspace returns n values spaced evenly in log10 between start and stop,
// endpoints included.
func Logspace(start, stop float64, n int) []float64 {
	if n <= 0 {
		return nil
	}
	if n == 1 {
		return []float64{start}
	}
	lo, hi := math.Log10(start), math.Log10(stop)
	step := (hi - lo) / float64(n-1)
	out := make([]float64, n)
	for i := range out {
		out[i] = math.Pow(10, lo+float64(i)*step)
	}
	out[0], out[n-1] = start, stop
	return out
}

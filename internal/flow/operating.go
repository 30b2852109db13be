package flow

import (
	"fmt"
	"math"
)

// Unit conversions and fluid properties for US customary pipe data.
const (
	InchesPerFoot      = 12.0
	MicroInch          = 1e-6
	CubicFeetPerGallon = 0.133681
	SecondsPerMinute   = 60.0
	KinematicViscosity = 1.0e-5 // ft^2/s
	Gravity            = 32.2   // ft/s^2
)

// PipeSpec is the raw user input.
type PipeSpec struct {
	DiameterInches       float64 `yaml:"diameter_in"`
	RoughnessMicroInches float64 `yaml:"roughness_micro_in"`
	FlowRateGPM          float64 `yaml:"flow_gpm"`
}

func (p PipeSpec) Validate() error {
	if !positive(p.DiameterInches) {
		return fmt.Errorf("%w: diameter must be positive, got %g in", ErrInvalidInput, p.DiameterInches)
	}
	if !positive(p.FlowRateGPM) {
		return fmt.Errorf("%w: flow rate must be positive, got %g gpm", ErrInvalidInput, p.FlowRateGPM)
	}
	if p.RoughnessMicroInches < 0 || math.IsNaN(p.RoughnessMicroInches) || math.IsInf(p.RoughnessMicroInches, 0) {
		return fmt.Errorf("%w: roughness must be non-negative, got %g micro-in", ErrInvalidInput, p.RoughnessMicroInches)
	}
	return nil
}

// Conditions are the flow quantities derived from a PipeSpec.
type Conditions struct {
	DiameterFeet      float64
	RelativeRoughness float64
	FlowRateCFS       float64
	Area              float64 // ft^2
	Velocity          float64 // ft/s
	Reynolds          float64
}

// Conditions recomputes the derived quantities on every call.
func (p PipeSpec) Conditions() (Conditions, error) {
	if err := p.Validate(); err != nil {
		return Conditions{}, err
	}

	var c Conditions
	c.DiameterFeet = p.DiameterInches / InchesPerFoot
	c.RelativeRoughness = p.RoughnessMicroInches * MicroInch / p.DiameterInches
	c.FlowRateCFS = p.FlowRateGPM * CubicFeetPerGallon / SecondsPerMinute
	c.Area = math.Pi * math.Pow(c.DiameterFeet/2, 2)
	c.Velocity = c.FlowRateCFS / c.Area
	c.Reynolds = c.Velocity * c.DiameterFeet / KinematicViscosity
	return c, nil
}

type OperatingPoint struct {
	Spec PipeSpec
	Conditions
	Regime          Regime
	FrictionFactor  float64
	HeadLossPerFoot float64 // ft of head per ft of pipe
	Marker          Marker
}

// OperatingPoint evaluates f at the pipe's Reynolds number and the
// Darcy-Weisbach head loss per unit length.
func (e *Evaluator) OperatingPoint(spec PipeSpec) (OperatingPoint, error) {
	c, err := spec.Conditions()
	if err != nil {
		return OperatingPoint{}, err
	}

	f, err := e.Evaluate(c.Reynolds, c.RelativeRoughness)
	if err != nil {
		return OperatingPoint{}, err
	}

	return OperatingPoint{
		Spec:            spec,
		Conditions:      c,
		Regime:          Classify(c.Reynolds),
		FrictionFactor:  f,
		HeadLossPerFoot: HeadLossPerFoot(f, c.Velocity, c.DiameterFeet),
		Marker:          MarkerFor(c.Reynolds),
	}, nil
}

func (op OperatingPoint) Point() Point {
	return Point{Re: op.Reynolds, F: op.FrictionFactor}
}

// HeadLossPerFoot is f * v^2/(2g) / D.
func HeadLossPerFoot(f, velocity, diameterFeet float64) float64 {
	return f * (velocity * velocity / (2 * Gravity)) / diameterFeet
}

func positive(v float64) bool {
	return v > 0 && !math.IsInf(v, 0)
}

package models

import (
	"fmt"

	"github.com/san-kum/pipeflow/internal/dynamo"
)

// State indices for the piston-valve system.
const (
	IdxPosition = iota
	IdxVelocity
	IdxP1
	IdxP2
)

// ValveConstants are the physical parameters of one run, SI units.
type ValveConstants struct {
	Area            float64 `yaml:"area"`             // piston area A, m^2
	DischargeCoeff  float64 `yaml:"discharge_coeff"`  // Cd, carried for reference
	SupplyPressure  float64 `yaml:"supply_pressure"`  // ps, Pa
	AmbientPressure float64 `yaml:"ambient_pressure"` // pa, Pa
	Volume          float64 `yaml:"volume"`           // chamber volume V, m^3
	BulkModulus     float64 `yaml:"bulk_modulus"`     // beta, Pa
	Density         float64 `yaml:"density"`          // rho, kg/m^3
	ValveCoeff      float64 `yaml:"valve_coeff"`      // Kvalve
	Mass            float64 `yaml:"mass"`             // m, kg
	Opening         float64 `yaml:"opening"`          // y, m
}

func StandardConstants() ValveConstants {
	return ValveConstants{
		Area:            4.909e-4,
		DischargeCoeff:  0.6,
		SupplyPressure:  1.4e7,
		AmbientPressure: 1.0e5,
		Volume:          1.473e-4,
		BulkModulus:     2.0e9,
		Density:         850.0,
		ValveCoeff:      2.0e-5,
		Mass:            30,
		Opening:         0.002,
	}
}

func (c ValveConstants) Validate() error {
	checks := []struct {
		name string
		v    float64
	}{
		{"area", c.Area},
		{"volume", c.Volume},
		{"bulk_modulus", c.BulkModulus},
		{"density", c.Density},
		{"mass", c.Mass},
	}
	for _, chk := range checks {
		if !(chk.v > 0) {
			return fmt.Errorf("%w: %s must be positive, got %g", dynamo.ErrInvalidConfig, chk.name, chk.v)
		}
	}
	return nil
}

// PistonValve is a spool valve feeding a double-acting piston: chamber 1 is
// charged from supply through the opening, chamber 2 vents to ambient.
type PistonValve struct {
	C ValveConstants
}

func NewPistonValve(c ValveConstants) *PistonValve {
	return &PistonValve{C: c}
}

func (p *PistonValve) StateDim() int { return 4 }

func (p *PistonValve) StateLabels() []string {
	return []string{"x", "xdot", "p1", "p2"}
}

// InitialState is the piston at rest with both chambers at ambient pressure.
func (p *PistonValve) InitialState() dynamo.State {
	return dynamo.State{0, 0, p.C.AmbientPressure, p.C.AmbientPressure}
}

// Derive returns [xdot, xddot, p1dot, p2dot]. It does not depend on t.
func (p *PistonValve) Derive(x dynamo.State, t float64) dynamo.State {
	c := p.C
	xdot := x[IdxVelocity]
	p1, p2 := x[IdxP1], x[IdxP2]

	stiff := c.BulkModulus / (c.Volume * c.Density)
	displaced := c.Density * c.Area * xdot

	xddot := (p1 - p2) * c.Area / c.Mass
	p1dot := (c.Opening*c.ValveCoeff*(c.SupplyPressure-p1) - displaced) * stiff
	p2dot := -(c.Opening*c.ValveCoeff*(p2-c.AmbientPressure) - displaced) * stiff

	return dynamo.State{xdot, xddot, p1dot, p2dot}
}

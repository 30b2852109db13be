// Package dynamo provides core simulation primitives for ODE systems.
//
// The package defines the interfaces and types used to integrate
// dX/dt = f(X, t):
//
//   - [State]: vector representing system state
//   - [System]: right-hand side of the ODE
//   - [Integrator], [AdaptiveIntegrator]: numerical steppers
//   - [Simulator]: drives a stepper over a time span
//
// # Example
//
//	valve := models.NewPistonValve(models.StandardConstants())
//	s := dynamo.New(valve, integrators.NewRK45())
//	res, err := s.Solve(ctx, valve.InitialState(), dynamo.Linspace(0, 0.02, 200), cfg, false)
//
// [Simulator.Solve] returns the state at each requested time. Steps are
// clipped so the integrator lands on every evaluation time exactly, so
// results do not depend on interpolation.
//
// # Thread Safety
//
// Simulator instances are NOT thread-safe. Build one per goroutine.
package dynamo

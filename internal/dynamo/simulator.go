package dynamo

import (
	"context"
	"errors"
	"fmt"
	"math"
)

// ErrStepRejected is returned by AdaptiveIntegrator.StepAdaptive when the
// local error estimate exceeds the tolerance. The returned dt is the retry size.
var ErrStepRejected = errors.New("dynamo: step rejected")

type Simulator struct {
	dyn        System
	integrator Integrator
	metrics    []Metric
	observers  []Observer
}

func New(dyn System, integrator Integrator) *Simulator {
	return &Simulator{
		dyn:        dyn,
		integrator: integrator,
		metrics:    make([]Metric, 0),
		observers:  make([]Observer, 0),
	}
}

func (s *Simulator) AddMetric(m Metric)     { s.metrics = append(s.metrics, m) }
func (s *Simulator) AddObserver(o Observer) { s.observers = append(s.observers, o) }

// Run integrates from t=0 over cfg.Duration and records every accepted step.
func (s *Simulator) Run(ctx context.Context, x0 State, cfg Config) (*Result, error) {
	if cfg.Duration <= 0 {
		return nil, fmt.Errorf("%w: duration must be positive, got %g", ErrInvalidConfig, cfg.Duration)
	}
	return s.Solve(ctx, x0, []float64{0, cfg.Duration}, cfg, true)
}

// Solve integrates x0 from tEval[0] to the last entry of tEval and returns the
// state at every entry of tEval. When dense is true every accepted internal
// step is recorded as well.
func (s *Simulator) Solve(ctx context.Context, x0 State, tEval []float64, cfg Config, dense bool) (*Result, error) {
	if err := s.validateConfig(cfg); err != nil {
		return nil, err
	}
	if len(tEval) == 0 {
		return nil, fmt.Errorf("%w: no evaluation times", ErrInvalidConfig)
	}
	for i := 1; i < len(tEval); i++ {
		if tEval[i] < tEval[i-1] {
			return nil, fmt.Errorf("%w: evaluation times must be non-decreasing", ErrInvalidConfig)
		}
	}
	if dim := s.dyn.StateDim(); dim > 0 && len(x0) != dim {
		return nil, fmt.Errorf("%w: got %d, want %d", ErrDimensionMismatch, len(x0), dim)
	}

	result := &Result{
		States:  make([]State, 0, len(tEval)),
		Times:   make([]float64, 0, len(tEval)),
		Metrics: make(map[string]float64),
		Errors:  make([]error, 0),
	}

	for _, m := range s.metrics {
		m.Reset()
	}

	x := x0.Clone()
	t := tEval[0]
	dt := cfg.Dt

	s.observe(x, t)
	result.States = append(result.States, x.Clone())
	result.Times = append(result.Times, t)

	for k := 1; k < len(tEval); k++ {
		target := tEval[k]

		for t < target {
			select {
			case <-ctx.Done():
				return result, ctx.Err()
			default:
			}

			if result.StepsTaken+result.Rejected >= cfg.MaxSteps {
				return result, &SimulationError{Step: result.StepsTaken, Time: t, State: x.Clone(), Wrapped: ErrTooManySteps}
			}

			// Land on target when the remaining gap is within rounding of dt.
			last := dt >= (target-t)-1e-10*dt
			h := dt
			if last {
				h = target - t
			}

			var newX State
			if cfg.Adaptive {
				var dtNext float64
				var stepErr error
				newX, dtNext, stepErr = s.adaptiveStep(x, t, h, cfg)
				if errors.Is(stepErr, ErrStepRejected) {
					result.Rejected++
					dt = dtNext
					if dt < cfg.MinDt {
						return result, &SimulationError{Step: result.StepsTaken, Time: t, State: x.Clone(), Wrapped: ErrStepTooSmall}
					}
					continue
				}
				if stepErr != nil {
					return result, &SimulationError{Step: result.StepsTaken, Time: t, State: x.Clone(), Wrapped: stepErr}
				}
				if last {
					dt = math.Max(dt, dtNext)
				} else {
					dt = dtNext
				}
				if cfg.MaxDt > 0 {
					dt = math.Min(dt, cfg.MaxDt)
				}
			} else {
				newX = s.integrator.Step(s.dyn, x, t, h)
			}

			if cfg.ValidateState && !newX.IsValid() {
				err := SimError{Time: t, Step: result.StepsTaken, Message: "invalid state (NaN/Inf)"}
				result.Errors = append(result.Errors, err)
				return result, &SimulationError{Step: result.StepsTaken, Time: t, State: x.Clone(), Wrapped: ErrInvalidState}
			}

			x = newX
			if last {
				t = target
			} else {
				t += h
			}
			result.StepsTaken++
			s.observe(x, t)

			if dense && t < target {
				result.States = append(result.States, x.Clone())
				result.Times = append(result.Times, t)
			}
		}

		result.States = append(result.States, x.Clone())
		result.Times = append(result.Times, t)
	}

	for _, m := range s.metrics {
		result.Metrics[m.Name()] = m.Value()
	}

	return result, nil
}

func (s *Simulator) observe(x State, t float64) {
	for _, m := range s.metrics {
		m.Observe(x, t)
	}
	for _, obs := range s.observers {
		obs.OnStep(x, t)
	}
}

func (s *Simulator) validateConfig(cfg Config) error {
	if cfg.Dt <= 0 {
		return fmt.Errorf("%w: dt must be positive, got %g", ErrInvalidConfig, cfg.Dt)
	}
	if cfg.Duration < 0 {
		return fmt.Errorf("%w: duration must not be negative, got %g", ErrInvalidConfig, cfg.Duration)
	}
	if cfg.MaxSteps <= 0 {
		return fmt.Errorf("%w: max steps must be positive, got %d", ErrInvalidConfig, cfg.MaxSteps)
	}
	if cfg.Adaptive && cfg.Tolerance <= 0 {
		return fmt.Errorf("%w: tolerance must be positive for adaptive stepping", ErrInvalidConfig)
	}
	return nil
}

// adaptiveStep falls back to step doubling when the integrator has no
// embedded error estimate.
func (s *Simulator) adaptiveStep(x State, t, dt float64, cfg Config) (State, float64, error) {
	if adaptive, ok := s.integrator.(AdaptiveIntegrator); ok {
		return adaptive.StepAdaptive(s.dyn, x, t, dt, cfg.Tolerance)
	}

	x1 := s.integrator.Step(s.dyn, x, t, dt)
	xHalf := s.integrator.Step(s.dyn, x, t, dt/2)
	x2 := s.integrator.Step(s.dyn, xHalf, t+dt/2, dt/2)

	scale := cfg.Tolerance * math.Max(x.Norm(), 1)
	err := x1.Sub(x2).Norm()

	if err > scale {
		return nil, dt / 2, ErrStepRejected
	}
	if err < scale/10 {
		return x2, dt * 2, nil
	}
	return x2, dt, nil
}

// Linspace returns n evenly spaced values over [start, stop], endpoints included.
func Linspace(start, stop float64, n int) []float64 {
	if n <= 0 {
		return nil
	}
	if n == 1 {
		return []float64{start}
	}
	out := make([]float64, n)
	step := (stop - start) / float64(n-1)
	for i := range out {
		out[i] = start + float64(i)*step
	}
	out[n-1] = stop
	return out
}

package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/pipeflow/internal/dynamo"
	"github.com/san-kum/pipeflow/internal/flow"
	"github.com/san-kum/pipeflow/internal/integrators"
	"github.com/san-kum/pipeflow/internal/logging"
	"github.com/san-kum/pipeflow/internal/models"
)

const (
	DefaultDuration   = 0.02
	DefaultPoints     = 200
	DefaultIntegrator = "rk45"
	DefaultTolerance  = 1e-6
	DefaultDt         = 1e-5
	DefaultMaxDt      = 1e-3
)

type Config struct {
	Seed    int64                 `yaml:"seed"`
	Pipe    flow.PipeSpec         `yaml:"pipe"`
	Moody   flow.MoodyOptions     `yaml:"moody"`
	Valve   models.ValveConstants `yaml:"valve"`
	Solver  SolverConfig          `yaml:"solver"`
	Logging logging.Config        `yaml:"logging"`
}

// SolverConfig controls the piston-valve integration.
type SolverConfig struct {
	Integrator string  `yaml:"integrator"`
	Duration   float64 `yaml:"duration"`
	Points     int     `yaml:"points"`
	Tolerance  float64 `yaml:"tolerance"`
	Dt         float64 `yaml:"dt"`
	MaxDt      float64 `yaml:"max_dt"`
}

func DefaultConfig() *Config {
	return &Config{
		Moody: flow.DefaultMoodyOptions(),
		Valve: models.StandardConstants(),
		Solver: SolverConfig{
			Integrator: DefaultIntegrator,
			Duration:   DefaultDuration,
			Points:     DefaultPoints,
			Tolerance:  DefaultTolerance,
			Dt:         DefaultDt,
			MaxDt:      DefaultMaxDt,
		},
		Logging: logging.DefaultConfig(),
	}
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Validate checks everything except the pipe, which is often supplied later
// from flags or the interactive prompt.
func (c *Config) Validate() error {
	if err := c.Moody.Validate(); err != nil {
		return err
	}
	if err := c.Valve.Validate(); err != nil {
		return err
	}
	return c.Solver.Validate()
}

func (s SolverConfig) Validate() error {
	if _, err := integrators.Get(s.Integrator); err != nil {
		return fmt.Errorf("%w: %v", dynamo.ErrInvalidConfig, err)
	}
	if s.Duration <= 0 {
		return fmt.Errorf("%w: duration must be positive, got %g", dynamo.ErrInvalidConfig, s.Duration)
	}
	if s.Points < 2 {
		return fmt.Errorf("%w: need at least 2 evaluation points, got %d", dynamo.ErrInvalidConfig, s.Points)
	}
	if s.Tolerance <= 0 {
		return fmt.Errorf("%w: tolerance must be positive, got %g", dynamo.ErrInvalidConfig, s.Tolerance)
	}
	if s.Dt <= 0 {
		return fmt.Errorf("%w: dt must be positive, got %g", dynamo.ErrInvalidConfig, s.Dt)
	}
	return nil
}

// Dynamo converts the solver section into simulator settings. Only rk45
// carries an embedded error estimate; the fixed-step methods run adaptive
// through step doubling when adaptive is requested.
func (s SolverConfig) Dynamo(adaptive bool) dynamo.Config {
	cfg := dynamo.DefaultConfig()
	cfg.Dt = s.Dt
	cfg.Duration = s.Duration
	cfg.Tolerance = s.Tolerance
	cfg.MaxDt = s.MaxDt
	cfg.Adaptive = adaptive
	return cfg
}

// EvalTimes returns the evenly spaced output times over [0, Duration].
func (s SolverConfig) EvalTimes() []float64 {
	return dynamo.Linspace(0, s.Duration, s.Points)
}

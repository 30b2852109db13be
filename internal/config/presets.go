package config

import (
	"fmt"
	"sort"

	"github.com/san-kum/pipeflow/internal/flow"
)

type Preset struct {
	Description string
	Apply       func(*Config)
}

func pipe(d, eps, gpm float64) func(*Config) {
	return func(c *Config) {
		c.Pipe = flow.PipeSpec{DiameterInches: d, RoughnessMicroInches: eps, FlowRateGPM: gpm}
	}
}

var Presets = map[string]map[string]Preset{
	"pipe": {
		"commercial-steel-2in": {
			Description: "2 in commercial steel, 100 gpm (turbulent)",
			Apply:       pipe(2, 1800, 100),
		},
		"drawn-tubing-1in": {
			Description: "1 in drawn tubing, 1 gpm (transitional)",
			Apply:       pipe(1, 60, 1),
		},
		"cast-iron-6in": {
			Description: "6 in cast iron, 500 gpm (turbulent)",
			Apply:       pipe(6, 10200, 500),
		},
		"creeping-12in": {
			Description: "12 in smooth main, 0.5 gpm (laminar)",
			Apply:       pipe(12, 0, 0.5),
		},
	},
	"valve": {
		"standard": {
			Description: "reference constants, 0.02 s, 200 samples",
			Apply:       func(c *Config) {},
		},
		"wide-open": {
			Description: "port opening raised to 5 mm",
			Apply: func(c *Config) {
				c.Valve.Opening = 5e-3
			},
		},
		"stiff-fluid": {
			Description: "bulk modulus 4 GPa, tighter tolerance",
			Apply: func(c *Config) {
				c.Valve.BulkModulus = 4e9
				c.Solver.Tolerance = 1e-8
			},
		},
		"long-stroke": {
			Description: "0.1 s span with 500 samples",
			Apply: func(c *Config) {
				c.Solver.Duration = 0.1
				c.Solver.Points = 500
			},
		},
	},
}

// GetPreset returns the default config with the named preset applied, or nil.
func GetPreset(kind, name string) *Config {
	cfg := DefaultConfig()
	if err := ApplyPreset(cfg, kind, name); err != nil {
		return nil
	}
	return cfg
}

func ApplyPreset(cfg *Config, kind, name string) error {
	kindPresets, ok := Presets[kind]
	if !ok {
		return fmt.Errorf("unknown preset kind: %s", kind)
	}
	p, ok := kindPresets[name]
	if !ok {
		return fmt.Errorf("unknown %s preset: %s (available: %v)", kind, name, ListPresets(kind))
	}
	p.Apply(cfg)
	return nil
}

func ListPresets(kind string) []string {
	kindPresets, ok := Presets[kind]
	if !ok {
		return nil
	}
	names := make([]string, 0, len(kindPresets))
	for name := range kindPresets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

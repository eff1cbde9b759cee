package config

import (
	"sort"

	"github.com/san-kum/trajsim/internal/physics"
)

type presetFunc func() *Config

var presets = map[string]map[string]presetFunc{
	ModelSpring: {
		"default": DefaultConfig,
		"stiff": func() *Config {
			cfg := DefaultConfig()
			cfg.Spring.K = 25
			cfg.Dt = 0.05
			cfg.TMax = 20
			cfg.InitialPosition = []float64{1}
			cfg.InitialVelocity = []float64{0}
			return cfg
		},
		"coarse": func() *Config {
			cfg := DefaultConfig()
			cfg.Dt = 0.5
			return cfg
		},
	},
	ModelOrbit: {
		"descent": DefaultOrbitConfig,
		"circular": func() *Config {
			cfg := DefaultOrbitConfig()
			r := physics.MarsRadius + 500000
			v := physics.NewOrbit(cfg.Orbit.PlanetMass, cfg.Orbit.G).CircularSpeed(r)
			cfg.Dt = 1
			cfg.TMax = 8000
			cfg.InitialPosition = []float64{r, 0, 0}
			cfg.InitialVelocity = []float64{0, v, 0}
			return cfg
		},
		"escape": func() *Config {
			cfg := DefaultOrbitConfig()
			r := physics.MarsRadius + 500000
			v := physics.NewOrbit(cfg.Orbit.PlanetMass, cfg.Orbit.G).EscapeSpeed(r)
			cfg.Dt = 1
			cfg.TMax = 4000
			cfg.InitialPosition = []float64{r, 0, 0}
			cfg.InitialVelocity = []float64{0, v, 0}
			return cfg
		},
	},
}

// GetPreset returns a freshly built preset, or nil when the model or preset
// is unknown.
func GetPreset(model, preset string) *Config {
	modelPresets, ok := presets[model]
	if !ok {
		return nil
	}
	fn, ok := modelPresets[preset]
	if !ok {
		return nil
	}
	return fn()
}

func ListPresets(model string) []string {
	modelPresets, ok := presets[model]
	if !ok {
		return nil
	}
	names := make([]string, 0, len(modelPresets))
	for name := range modelPresets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

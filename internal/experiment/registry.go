package experiment

import (
	"fmt"
	"sort"

	"github.com/san-kum/trajsim/internal/config"
	"github.com/san-kum/trajsim/internal/dynamo"
	"github.com/san-kum/trajsim/internal/integrators"
	"github.com/san-kum/trajsim/internal/metrics"
	"github.com/san-kum/trajsim/internal/physics"
)

type Registry struct {
	models      map[string]func(*config.Config) dynamo.ForceModel
	integrators map[dynamo.Scheme]func() dynamo.Integrator
	bounds      map[string]float64
}

func NewRegistry() *Registry {
	r := &Registry{
		models:      make(map[string]func(*config.Config) dynamo.ForceModel),
		integrators: make(map[dynamo.Scheme]func() dynamo.Integrator),
		bounds:      make(map[string]float64),
	}

	r.models[config.ModelSpring] = func(c *config.Config) dynamo.ForceModel {
		return physics.NewSpring(c.Spring.Mass, c.Spring.K)
	}
	r.models[config.ModelOrbit] = func(c *config.Config) dynamo.ForceModel {
		return physics.NewOrbit(c.Orbit.PlanetMass, c.Orbit.G)
	}

	r.integrators[dynamo.SchemeEuler] = func() dynamo.Integrator { return integrators.NewEuler() }
	r.integrators[dynamo.SchemeVerlet] = func() dynamo.Integrator { return integrators.NewVerlet() }

	// stability metric bound, as a multiple of the initial radius
	r.bounds[config.ModelSpring] = 10
	r.bounds[config.ModelOrbit] = 2

	return r
}

func (r *Registry) GetModel(cfg *config.Config) (dynamo.ForceModel, error) {
	fn, ok := r.models[cfg.Model]
	if !ok {
		return nil, fmt.Errorf("%w: unknown model %q", dynamo.ErrInvalidConfiguration, cfg.Model)
	}
	return fn(cfg), nil
}

func (r *Registry) GetIntegrator(name string) (dynamo.Integrator, error) {
	scheme, err := dynamo.ParseScheme(name)
	if err != nil {
		return nil, err
	}
	fn, ok := r.integrators[scheme]
	if !ok {
		return nil, fmt.Errorf("%w: no integrator for scheme %q", dynamo.ErrInvalidConfiguration, name)
	}
	return fn(), nil
}

func (r *Registry) ListModels() []string {
	names := make([]string, 0, len(r.models))
	for name := range r.models {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (r *Registry) ListSchemes() []string {
	names := make([]string, 0, len(r.integrators))
	for s := range r.integrators {
		names = append(names, string(s))
	}
	sort.Strings(names)
	return names
}

// DefaultMetrics returns fresh metrics for a run of cfg's model.
func (r *Registry) DefaultMetrics(cfg *config.Config, f dynamo.ForceModel) []dynamo.Metric {
	radius := dynamo.Vector(cfg.InitialPosition).Norm()
	if radius == 0 {
		radius = dynamo.Vector(cfg.InitialVelocity).Norm()
	}
	if radius == 0 {
		radius = 1
	}
	return metrics.ForModel(f, r.bounds[cfg.Model]*radius)
}

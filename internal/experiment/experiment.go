package experiment

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/san-kum/trajsim/internal/config"
	"github.com/san-kum/trajsim/internal/sim"
)

// Experiment is one configured run: a model, a scheme and an initial
// condition taken from a config.Config.
type Experiment struct {
	cfg      *config.Config
	registry *Registry
	logger   *zap.Logger
}

// New copies cfg so later changes by the caller do not leak into the run.
func New(cfg *config.Config, logger *zap.Logger) *Experiment {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Experiment{
		cfg:      cfg.Clone(),
		registry: NewRegistry(),
		logger:   logger,
	}
}

func (e *Experiment) Config() *config.Config { return e.cfg.Clone() }

// Run validates the config, builds the model and integrator and runs them.
func (e *Experiment) Run() (*sim.Result, error) {
	if err := e.cfg.Validate(); err != nil {
		return nil, err
	}

	force, err := e.registry.GetModel(e.cfg)
	if err != nil {
		return nil, err
	}
	integ, err := e.registry.GetIntegrator(e.cfg.Scheme)
	if err != nil {
		return nil, err
	}

	s := sim.New(force, integ, e.logger.With(zap.String("model", e.cfg.Model)))
	for _, m := range e.registry.DefaultMetrics(e.cfg, force) {
		s.AddMetric(m)
	}

	return s.Run(e.cfg.RunConfig())
}

// Params returns the force model parameters recorded with a stored run.
func (e *Experiment) Params() map[string]float64 {
	switch e.cfg.Model {
	case config.ModelSpring:
		return map[string]float64{"mass": e.cfg.Spring.Mass, "k": e.cfg.Spring.K}
	case config.ModelOrbit:
		return map[string]float64{"m_planet": e.cfg.Orbit.PlanetMass, "g": e.cfg.Orbit.G}
	}
	return nil
}

// Compare runs every scheme on the same config, one after another. A scheme
// whose run turns non-finite keeps its partial result and the remaining
// schemes still run; the first such error is returned with the results.
// Configuration errors stop the comparison.
func Compare(cfg *config.Config, schemes []string, logger *zap.Logger) (map[string]*sim.Result, error) {
	results := make(map[string]*sim.Result, len(schemes))
	var runErr error
	for _, scheme := range schemes {
		c := cfg.Clone()
		c.Scheme = scheme
		result, err := New(c, logger).Run()
		if result == nil {
			return results, err
		}
		results[scheme] = result
		if err != nil && runErr == nil {
			runErr = fmt.Errorf("%s: %w", scheme, err)
		}
	}
	return results, runErr
}

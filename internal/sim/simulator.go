package sim

import (
	"errors"
	"math"

	"go.uber.org/zap"

	"github.com/san-kum/trajsim/internal/dynamo"
	"github.com/san-kum/trajsim/internal/recorder"
)

// Simulator runs one force model through one integrator. Runs are
// synchronous and share no state; a Simulator may be reused for several
// independent runs.
type Simulator struct {
	force      dynamo.ForceModel
	integrator dynamo.Integrator
	metrics    []dynamo.Metric
	logger     *zap.Logger
}

func New(force dynamo.ForceModel, integrator dynamo.Integrator, logger *zap.Logger) *Simulator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Simulator{
		force:      force,
		integrator: integrator,
		metrics:    make([]dynamo.Metric, 0),
		logger:     logger.With(zap.String("scheme", integrator.Name())),
	}
}

func (s *Simulator) AddMetric(m dynamo.Metric) { s.metrics = append(s.metrics, m) }

// Run integrates cfg to completion. When the state turns non-finite part-way
// the full result is still returned together with a *dynamo.SimulationError.
func (s *Simulator) Run(cfg dynamo.Config) (*Result, error) {
	if err := s.validateConfig(cfg); err != nil {
		return nil, err
	}

	grid, err := dynamo.NewTimeGrid(cfg.Dt, cfg.Duration)
	if err != nil {
		return nil, err
	}

	s.logger.Debug("starting run",
		zap.Float64("dt", grid.Dt),
		zap.Int("steps", grid.N),
		zap.Float64s("position", cfg.Position),
		zap.Float64s("velocity", cfg.Velocity),
	)

	traj, err := s.integrator.Integrate(s.force, cfg.Position, cfg.Velocity, grid)
	if err != nil {
		return nil, err
	}

	result := &Result{
		Scheme:     s.integrator.Name(),
		Trajectory: traj,
		Series:     recorder.Record(traj),
		Metrics:    make(map[string]float64),
		StepsTaken: traj.Len(),
	}

	for _, m := range s.metrics {
		m.Reset()
	}
	traj.Each(func(_ int, sample dynamo.Sample) {
		for _, m := range s.metrics {
			m.Observe(sample)
		}
	})
	for _, m := range s.metrics {
		result.Metrics[m.Name()] = m.Value()
	}

	runErr := s.checkFinite(traj)
	if runErr == nil {
		initialEnergy := s.computeEnergy(traj.At(0))
		finalEnergy := s.computeEnergy(traj.At(traj.Len() - 1))
		if initialEnergy != 0 {
			result.EnergyDrift = math.Abs(finalEnergy-initialEnergy) / math.Abs(initialEnergy)
		}
	}

	if runErr != nil {
		s.logger.Warn("run produced non-finite state", zap.Error(runErr))
	} else {
		s.logger.Info("run complete",
			zap.Int("steps", result.StepsTaken),
			zap.Float64("energy_drift", result.EnergyDrift),
		)
	}

	return result, runErr
}

func (s *Simulator) validateConfig(cfg dynamo.Config) error {
	if v, ok := s.force.(Validator); ok {
		if err := v.Validate(); err != nil {
			return err
		}
	}
	return cfg.Validate(s.force)
}

// checkFinite reports the first non-finite sample. A blow-up right after a
// zero-norm position is attributed to the force law's singularity.
func (s *Simulator) checkFinite(traj *dynamo.Trajectory) error {
	i := traj.FirstInvalid()
	if i < 0 {
		return nil
	}

	cause := dynamo.ErrNonFiniteState
	if i > 0 && traj.Position(i-1).Norm() == 0 {
		cause = dynamo.ErrSingularPosition
	}
	return &dynamo.SimulationError{Step: i, Time: traj.Grid().At(i), Wrapped: cause}
}

func (s *Simulator) computeEnergy(sample dynamo.Sample) float64 {
	if h, ok := s.force.(dynamo.Hamiltonian); ok {
		return h.Energy(sample.Position, sample.Velocity)
	}
	return 0
}

// IsSingular reports whether err came from a run that hit the force law's
// singularity.
func IsSingular(err error) bool {
	return errors.Is(err, dynamo.ErrSingularPosition)
}

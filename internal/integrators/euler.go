package integrators

import (
	"fmt"
	"math"

	"github.com/san-kum/trajsim/internal/dynamo"
)

// Euler is the explicit first-order scheme. Position advances with the
// velocity from before the step.
type Euler struct{}

func NewEuler() *Euler {
	return &Euler{}
}

func (e *Euler) Name() string { return string(dynamo.SchemeEuler) }

func (e *Euler) Integrate(f dynamo.ForceModel, x0, v0 dynamo.Vector, grid dynamo.TimeGrid) (*dynamo.Trajectory, error) {
	if err := checkInputs(f, x0, v0, grid); err != nil {
		return nil, err
	}

	traj := dynamo.NewTrajectory(grid)
	x, v := x0.Clone(), v0.Clone()

	for i := 0; i < grid.N; i++ {
		if err := traj.Append(x, v); err != nil {
			return nil, err
		}
		x, v = eulerStep(f, x, v, grid.Dt)
	}

	return traj, nil
}

func eulerStep(f dynamo.ForceModel, x, v dynamo.Vector, dt float64) (dynamo.Vector, dynamo.Vector) {
	a := f.Acceleration(x)
	return x.Add(v.Scale(dt)), v.Add(a.Scale(dt))
}

func checkInputs(f dynamo.ForceModel, x0, v0 dynamo.Vector, grid dynamo.TimeGrid) error {
	if !(grid.Dt > 0) || math.IsInf(grid.Dt, 0) {
		return fmt.Errorf("%w: dt must be positive, got %v", dynamo.ErrInvalidConfiguration, grid.Dt)
	}
	if grid.N < 1 {
		return fmt.Errorf("%w: empty time grid", dynamo.ErrInvalidConfiguration)
	}
	return dynamo.CheckInitial(f, x0, v0)
}

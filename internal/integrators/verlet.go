package integrators

import (
	"fmt"

	"github.com/san-kum/trajsim/internal/dynamo"
)

// Verlet is the position (Störmer) Verlet scheme. It needs two prior
// positions, so the first step is bootstrapped with a single Euler step.
//
// Velocity is not an input to the update. The reported velocity is the
// backward difference (x_new - x_last)/dt, which lags the true velocity by
// half a step.
type Verlet struct{}

func NewVerlet() *Verlet {
	return &Verlet{}
}

func (vt *Verlet) Name() string { return string(dynamo.SchemeVerlet) }

func (vt *Verlet) Integrate(f dynamo.ForceModel, x0, v0 dynamo.Vector, grid dynamo.TimeGrid) (*dynamo.Trajectory, error) {
	if err := checkInputs(f, x0, v0, grid); err != nil {
		return nil, err
	}
	if grid.N < 2 {
		return nil, fmt.Errorf("%w: verlet needs at least 2 steps, grid has %d", dynamo.ErrInsufficientSteps, grid.N)
	}

	traj := dynamo.NewTrajectory(grid)
	if err := traj.Append(x0, v0); err != nil {
		return nil, err
	}
	x1, v1 := eulerStep(f, x0, v0, grid.Dt)
	if err := traj.Append(x1, v1); err != nil {
		return nil, err
	}

	dt := grid.Dt
	dt2 := dt * dt
	prev, last := x0.Clone(), x1

	for i := 0; i < grid.N-2; i++ {
		a := f.Acceleration(last)
		next := last.Scale(2).Sub(prev).Add(a.Scale(dt2))
		vel := next.Sub(last).Scale(1 / dt)

		if err := traj.Append(next, vel); err != nil {
			return nil, err
		}
		prev, last = last, next
	}

	return traj, nil
}

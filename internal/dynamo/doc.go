// Package dynamo provides the core primitives of a fixed-step trajectory
// integration run:
//
//   - [Vector]: immutable-by-convention coordinate tuple
//   - [ForceModel]: position-only acceleration law
//   - [Integrator]: scheme that turns an initial condition into a [Trajectory]
//   - [TimeGrid]: the fixed sample times of a run
//   - [Trajectory]: append-only record of (time, position, velocity)
//
// # Example
//
//	grid, _ := dynamo.NewTimeGrid(0.1, 100)
//	traj, err := integrators.NewVerlet().Integrate(physics.NewSpring(1, 1), x0, v0, grid)
//
// # Thread Safety
//
// A Trajectory is owned by the run that produced it. Read accessors return
// copies, so a completed trajectory may be shared read-only.
package dynamo

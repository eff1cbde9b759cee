// Package recorder turns a completed trajectory into the aligned magnitude
// series consumed by plotting and storage.
package recorder

import "github.com/san-kum/trajsim/internal/dynamo"

// Series holds |position| and |velocity| against time, index-aligned with
// the trajectory it was derived from.
type Series struct {
	Times    []float64 `json:"times"`
	Position []float64 `json:"position"`
	Velocity []float64 `json:"velocity"`
}

func (s Series) Len() int { return len(s.Times) }

// Record derives the magnitude series from traj without modifying it.
func Record(traj *dynamo.Trajectory) Series {
	n := traj.Len()
	s := Series{
		Times:    make([]float64, n),
		Position: make([]float64, n),
		Velocity: make([]float64, n),
	}
	traj.Each(func(i int, sample dynamo.Sample) {
		s.Times[i] = sample.Time
		s.Position[i] = sample.Position.Norm()
		s.Velocity[i] = sample.Velocity.Norm()
	})
	return s
}

// Component extracts coordinate axis of the positions (or velocities when
// velocity is true). Out-of-range axes yield zeros.
func Component(traj *dynamo.Trajectory, axis int, velocity bool) []float64 {
	out := make([]float64, traj.Len())
	traj.Each(func(i int, sample dynamo.Sample) {
		v := sample.Position
		if velocity {
			v = sample.Velocity
		}
		if axis >= 0 && axis < len(v) {
			out[i] = v[axis]
		}
	})
	return out
}

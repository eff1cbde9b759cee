package analysis

import (
	"fmt"
	"math"

	"github.com/san-kum/trajsim/internal/dynamo"
	"github.com/san-kum/trajsim/internal/physics"
)

// Divergence returns |x_a[i] - x_b[i]| for every index. Both trajectories
// must have the same length.
func Divergence(a, b *dynamo.Trajectory) ([]float64, error) {
	if a.Len() != b.Len() {
		return nil, fmt.Errorf("analysis: trajectories differ in length (%d vs %d)", a.Len(), b.Len())
	}
	out := make([]float64, a.Len())
	for i := range out {
		out[i] = a.Position(i).Sub(b.Position(i)).Norm()
	}
	return out, nil
}

// SpringExact evaluates the closed-form undamped oscillator
// x(t) = x0*cos(wt) + (v0/w)*sin(wt) at each time.
func SpringExact(s *physics.Spring, x0, v0 float64, times []float64) []float64 {
	w := s.AngularFrequency()
	out := make([]float64, len(times))
	for i, t := range times {
		if w == 0 {
			out[i] = x0 + v0*t
			continue
		}
		out[i] = x0*math.Cos(w*t) + v0/w*math.Sin(w*t)
	}
	return out
}

// AbsoluteError returns |got[i] - want[i]| over the common prefix.
func AbsoluteError(got, want []float64) []float64 {
	n := min(len(got), len(want))
	out := make([]float64, n)
	for i := 0; i < n; i++ {
		out[i] = math.Abs(got[i] - want[i])
	}
	return out
}

// MaxAbs returns the largest absolute value in data, or 0 when empty.
func MaxAbs(data []float64) float64 {
	m := 0.0
	for _, v := range data {
		m = math.Max(m, math.Abs(v))
	}
	return m
}

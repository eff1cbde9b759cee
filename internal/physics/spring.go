package physics

import (
	"fmt"
	"math"

	"github.com/san-kum/trajsim/internal/dynamo"
)

const (
	DefaultMass      = 1.0
	DefaultStiffness = 1.0
)

// Spring is a one-dimensional linear restoring force, a = -K*x/M.
type Spring struct {
	Mass float64
	K    float64
}

func NewSpring(mass, k float64) *Spring {
	return &Spring{Mass: mass, K: k}
}

func (s *Spring) Dim() int { return 1 }

func (s *Spring) Acceleration(x dynamo.Vector) dynamo.Vector {
	a := make(dynamo.Vector, len(x))
	for i := range x {
		a[i] = -s.K * x[i] / s.Mass
	}
	return a
}

// Energy returns the specific energy 0.5*|v|^2 + 0.5*(K/M)*|x|^2.
func (s *Spring) Energy(x, v dynamo.Vector) float64 {
	vn, xn := v.Norm(), x.Norm()
	return 0.5*vn*vn + 0.5*(s.K/s.Mass)*xn*xn
}

// AngularFrequency returns sqrt(K/M).
func (s *Spring) AngularFrequency() float64 {
	return math.Sqrt(s.K / s.Mass)
}

func (s *Spring) Validate() error {
	if !(s.Mass > 0) {
		return fmt.Errorf("%w: spring mass must be positive, got %v", dynamo.ErrInvalidConfiguration, s.Mass)
	}
	if !(s.K >= 0) {
		return fmt.Errorf("%w: spring constant must be non-negative, got %v", dynamo.ErrInvalidConfiguration, s.K)
	}
	return nil
}

func (s *Spring) GetParams() map[string]float64 {
	return map[string]float64{"mass": s.Mass, "k": s.K}
}

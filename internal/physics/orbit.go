package physics

import (
	"fmt"
	"math"

	"github.com/san-kum/trajsim/internal/dynamo"
)

const (
	MarsMass           = 6.42e23
	MarsRadius         = 3.386e6
	GravitationalConst = 6.67e-11
)

// Orbit is inverse-square attraction toward a planet fixed at the origin,
// a = -(G*M/|x|^3) * x, in three dimensions.
//
// The law is singular at |x| = 0. Acceleration does not guard against it:
// at the origin the result is NaN and propagates through the rest of the
// run. Callers must keep the body away from the origin.
type Orbit struct {
	PlanetMass float64
	G          float64
}

func NewOrbit(planetMass, g float64) *Orbit {
	return &Orbit{PlanetMass: planetMass, G: g}
}

func NewMarsOrbit() *Orbit {
	return NewOrbit(MarsMass, GravitationalConst)
}

func (o *Orbit) Dim() int { return 3 }

func (o *Orbit) Acceleration(x dynamo.Vector) dynamo.Vector {
	r := x.Norm()
	return x.Scale(-(o.G * o.PlanetMass) / math.Pow(r, 3))
}

// Mu returns the gravitational parameter G*M.
func (o *Orbit) Mu() float64 { return o.G * o.PlanetMass }

// Energy returns the specific orbital energy 0.5*|v|^2 - G*M/|x|.
func (o *Orbit) Energy(x, v dynamo.Vector) float64 {
	vn := v.Norm()
	return 0.5*vn*vn - o.Mu()/x.Norm()
}

// CircularSpeed is the speed of a circular orbit at radius r.
func (o *Orbit) CircularSpeed(r float64) float64 {
	return math.Sqrt(o.Mu() / r)
}

// EscapeSpeed is the minimum speed at radius r for an unbound trajectory.
func (o *Orbit) EscapeSpeed(r float64) float64 {
	return math.Sqrt(2 * o.Mu() / r)
}

func (o *Orbit) Validate() error {
	if !(o.PlanetMass >= 0) {
		return fmt.Errorf("%w: planet mass must be non-negative, got %v", dynamo.ErrInvalidConfiguration, o.PlanetMass)
	}
	if !(o.G >= 0) {
		return fmt.Errorf("%w: gravitational constant must be non-negative, got %v", dynamo.ErrInvalidConfiguration, o.G)
	}
	return nil
}

func (o *Orbit) GetParams() map[string]float64 {
	return map[string]float64{"m_planet": o.PlanetMass, "g": o.G}
}

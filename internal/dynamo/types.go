package dynamo

import (
	"fmt"
	"math"
)

// ForceModel maps a position to an acceleration. Implementations must be
// pure functions of position: no velocity or time dependence.
type ForceModel interface {
	Acceleration(x Vector) Vector
	Dim() int
}

// Hamiltonian is implemented by force models with a conserved specific
// energy (energy per unit body mass).
type Hamiltonian interface {
	Energy(x, v Vector) float64
}

// Integrator produces a complete trajectory over grid from the initial
// condition (x0, v0).
type Integrator interface {
	Name() string
	Integrate(f ForceModel, x0, v0 Vector, grid TimeGrid) (*Trajectory, error)
}

type Metric interface {
	Name() string
	Observe(s Sample)
	Value() float64
	Reset()
}

type Scheme string

const (
	SchemeEuler  Scheme = "euler"
	SchemeVerlet Scheme = "verlet"
)

func ParseScheme(name string) (Scheme, error) {
	switch s := Scheme(name); s {
	case SchemeEuler, SchemeVerlet:
		return s, nil
	default:
		return "", invalidf("unknown scheme %q", name)
	}
}

// Config is the per-run input of the integration core.
type Config struct {
	Dt       float64
	Duration float64
	Position Vector
	Velocity Vector
}

// Validate checks cfg against the dimensionality of f.
func (c Config) Validate(f ForceModel) error {
	if _, err := NewTimeGrid(c.Dt, c.Duration); err != nil {
		return err
	}
	return CheckInitial(f, c.Position, c.Velocity)
}

// CheckInitial verifies that x0 and v0 are finite and match the model's
// dimensionality.
func CheckInitial(f ForceModel, x0, v0 Vector) error {
	if f == nil {
		return invalidf("no force model")
	}
	dim := f.Dim()
	if len(x0) != dim {
		return invalidf("position has dimension %d, model expects %d", len(x0), dim)
	}
	if len(v0) != dim {
		return invalidf("velocity has dimension %d, model expects %d", len(v0), dim)
	}
	if !x0.IsValid() || !v0.IsValid() {
		return invalidf("initial condition is not finite")
	}
	return nil
}

// TimeGrid is the fixed sequence of sample times t_i = i*Dt for i in [0, N).
type TimeGrid struct {
	Dt float64
	N  int
}

// NewTimeGrid builds the grid for a run of the given duration. The number of
// samples is ceil(duration/dt), matching a half-open range [0, duration).
func NewTimeGrid(dt, duration float64) (TimeGrid, error) {
	if !(dt > 0) || math.IsInf(dt, 0) {
		return TimeGrid{}, invalidf("dt must be positive, got %v", dt)
	}
	if !(duration > 0) || math.IsInf(duration, 0) {
		return TimeGrid{}, invalidf("duration must be positive, got %v", duration)
	}
	n := math.Ceil(duration / dt)
	if n > math.MaxInt32 {
		return TimeGrid{}, invalidf("grid of %.0f steps is too large", n)
	}
	return TimeGrid{Dt: dt, N: int(n)}, nil
}

func (g TimeGrid) At(i int) float64 { return float64(i) * g.Dt }

func (g TimeGrid) Times() []float64 {
	times := make([]float64, g.N)
	for i := range times {
		times[i] = g.At(i)
	}
	return times
}

func (g TimeGrid) String() string {
	return fmt.Sprintf("dt=%g n=%d", g.Dt, g.N)
}

package dynamo

import (
	"errors"
	"fmt"
)

// Domain errors for integration runs.
var (
	// ErrInvalidConfiguration indicates a non-positive step or duration, a
	// non-finite input, or a vector whose dimension does not match the model.
	ErrInvalidConfiguration = errors.New("dynamo: invalid configuration")

	// ErrInsufficientSteps indicates the time grid is too short for the
	// scheme's bootstrap.
	ErrInsufficientSteps = errors.New("dynamo: insufficient steps for scheme")

	// ErrSingularPosition indicates the body reached a position where the
	// force law is undefined. It is reported after the fact, never recovered.
	ErrSingularPosition = errors.New("dynamo: singular position (division by zero in force law)")

	// ErrNonFiniteState indicates the state diverged to NaN or Inf.
	ErrNonFiniteState = errors.New("dynamo: state diverged (NaN or Inf detected)")

	// ErrTrajectoryFull indicates an append past the end of the time grid.
	ErrTrajectoryFull = errors.New("dynamo: trajectory already complete")
)

// SimulationError wraps an error with the step at which it surfaced.
type SimulationError struct {
	Step    int
	Time    float64
	Wrapped error
}

func (e *SimulationError) Error() string {
	return fmt.Sprintf("step %d (t=%.4f): %v", e.Step, e.Time, e.Wrapped)
}

func (e *SimulationError) Unwrap() error {
	return e.Wrapped
}

func invalidf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidConfiguration, fmt.Sprintf(format, args...))
}

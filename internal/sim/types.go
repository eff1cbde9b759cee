package sim

import (
	"github.com/san-kum/trajsim/internal/dynamo"
	"github.com/san-kum/trajsim/internal/recorder"
)

// Validator is implemented by force models that can check their own
// parameters.
type Validator interface {
	Validate() error
}

type Result struct {
	Scheme      string
	Trajectory  *dynamo.Trajectory
	Series      recorder.Series
	Metrics     map[string]float64
	EnergyDrift float64
	StepsTaken  int
}

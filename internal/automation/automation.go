// Package automation runs scripted sequences of simulations described in
// YAML.
package automation

import (
	"fmt"
	"os"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/san-kum/trajsim/internal/config"
	"github.com/san-kum/trajsim/internal/experiment"
	"github.com/san-kum/trajsim/internal/sim"
)

// Scenario defines a scripted simulation sequence
type Scenario struct {
	Name        string         `yaml:"name"`
	Description string         `yaml:"description"`
	Steps       []ScenarioStep `yaml:"steps"`
}

// ScenarioStep starts from a model's defaults, or one of its presets, and
// overrides the fields that are set.
type ScenarioStep struct {
	Label           string             `yaml:"label"`
	Model           string             `yaml:"model"`
	Preset          string             `yaml:"preset"`
	Scheme          string             `yaml:"scheme"`
	Dt              float64            `yaml:"dt"`
	TMax            float64            `yaml:"t_max"`
	InitialPosition []float64          `yaml:"initial_position"`
	InitialVelocity []float64          `yaml:"initial_velocity"`
	Params          map[string]float64 `yaml:"params"`
}

type StepResult struct {
	Label  string
	Config *config.Config
	Result *sim.Result
}

// LoadScenario loads a scenario from a YAML file
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return ParseScenario(data)
}

func ParseScenario(data []byte) (*Scenario, error) {
	var scenario Scenario
	if err := yaml.Unmarshal(data, &scenario); err != nil {
		return nil, err
	}
	if len(scenario.Steps) == 0 {
		return nil, fmt.Errorf("scenario %q has no steps", scenario.Name)
	}
	return &scenario, nil
}

// Config resolves the step into a full run config.
func (s ScenarioStep) Config() (*config.Config, error) {
	var cfg *config.Config
	if s.Preset != "" {
		cfg = config.GetPreset(s.Model, s.Preset)
		if cfg == nil {
			return nil, fmt.Errorf("unknown preset %s/%s", s.Model, s.Preset)
		}
	} else {
		var err error
		if cfg, err = config.ForModel(s.Model); err != nil {
			return nil, err
		}
	}

	if s.Scheme != "" {
		cfg.Scheme = s.Scheme
	}
	if s.Dt != 0 {
		cfg.Dt = s.Dt
	}
	if s.TMax != 0 {
		cfg.TMax = s.TMax
	}
	if s.InitialPosition != nil {
		cfg.InitialPosition = append([]float64(nil), s.InitialPosition...)
	}
	if s.InitialVelocity != nil {
		cfg.InitialVelocity = append([]float64(nil), s.InitialVelocity...)
	}
	for k, v := range s.Params {
		if err := cfg.SetParam(k, v); err != nil {
			return nil, err
		}
	}
	return cfg, nil
}

// RunScenario executes all steps in order and stops at the first failure.
// Steps completed before it are returned with the error.
func RunScenario(scenario *Scenario, logger *zap.Logger) ([]StepResult, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	results := make([]StepResult, 0, len(scenario.Steps))

	for i, step := range scenario.Steps {
		label := step.Label
		if label == "" {
			label = fmt.Sprintf("step-%d", i+1)
		}
		logger.Info("running scenario step",
			zap.String("scenario", scenario.Name),
			zap.String("step", label),
			zap.Int("index", i+1),
			zap.Int("total", len(scenario.Steps)))

		cfg, err := step.Config()
		if err != nil {
			return results, fmt.Errorf("step %d: %w", i+1, err)
		}

		result, err := experiment.New(cfg, logger).Run()
		if err != nil {
			return results, fmt.Errorf("step %d run: %w", i+1, err)
		}

		results = append(results, StepResult{Label: label, Config: cfg, Result: result})
	}

	return results, nil
}

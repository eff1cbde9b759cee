package config

import (
	"fmt"
	"math"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/trajsim/internal/dynamo"
	"github.com/san-kum/trajsim/internal/physics"
)

const (
	ModelSpring = "spring"
	ModelOrbit  = "orbit"
)

const (
	DefaultSpringDt   = 0.1
	DefaultSpringTMax = 100.0
	DefaultOrbitDt    = 0.5
	DefaultOrbitTMax  = 400.0
)

type Config struct {
	Model           string       `yaml:"model" mapstructure:"model"`
	Scheme          string       `yaml:"scheme" mapstructure:"scheme"`
	Dt              float64      `yaml:"dt" mapstructure:"dt"`
	TMax            float64      `yaml:"t_max" mapstructure:"t_max"`
	Spring          SpringConfig `yaml:"spring" mapstructure:"spring"`
	Orbit           OrbitConfig  `yaml:"orbit" mapstructure:"orbit"`
	InitialPosition []float64    `yaml:"initial_position" mapstructure:"initial_position"`
	InitialVelocity []float64    `yaml:"initial_velocity" mapstructure:"initial_velocity"`
	Logger          LoggerConfig `yaml:"logger" mapstructure:"logger"`
}

type SpringConfig struct {
	Mass float64 `yaml:"mass" mapstructure:"mass"`
	K    float64 `yaml:"k" mapstructure:"k"`
}

type OrbitConfig struct {
	PlanetMass float64 `yaml:"m_planet" mapstructure:"m_planet"`
	G          float64 `yaml:"g" mapstructure:"g"`
}

// LoggerConfig configures the process logger.
type LoggerConfig struct {
	Level       string `yaml:"level" mapstructure:"level"`
	Format      string `yaml:"format" mapstructure:"format"`
	AddSource   bool   `yaml:"add_source" mapstructure:"add_source"`
	ServiceName string `yaml:"service_name" mapstructure:"service_name"`
	LogFile     string `yaml:"log_file" mapstructure:"log_file"`
	MaxSize     int    `yaml:"max_size" mapstructure:"max_size"`
	MaxBackups  int    `yaml:"max_backups" mapstructure:"max_backups"`
	MaxAge      int    `yaml:"max_age" mapstructure:"max_age"`
	Compress    bool   `yaml:"compress" mapstructure:"compress"`
}

func DefaultLoggerConfig() LoggerConfig {
	return LoggerConfig{
		Level:       "info",
		Format:      "console",
		ServiceName: "trajsim",
		MaxSize:     50,
		MaxBackups:  3,
		MaxAge:      28,
	}
}

// DefaultConfig returns the spring oscillator defaults. Every call builds a
// new value.
func DefaultConfig() *Config {
	return &Config{
		Model:           ModelSpring,
		Scheme:          string(dynamo.SchemeEuler),
		Dt:              DefaultSpringDt,
		TMax:            DefaultSpringTMax,
		Spring:          SpringConfig{Mass: physics.DefaultMass, K: physics.DefaultStiffness},
		Orbit:           OrbitConfig{PlanetMass: physics.MarsMass, G: physics.GravitationalConst},
		InitialPosition: []float64{0},
		InitialVelocity: []float64{1},
		Logger:          DefaultLoggerConfig(),
	}
}

// DefaultOrbitConfig returns the Mars descent defaults.
func DefaultOrbitConfig() *Config {
	cfg := DefaultConfig()
	cfg.Model = ModelOrbit
	cfg.Dt = DefaultOrbitDt
	cfg.TMax = DefaultOrbitTMax
	cfg.InitialPosition = []float64{3426000, 250, 250}
	cfg.InitialVelocity = []float64{-3426, 0, 0}
	return cfg
}

// ForModel returns the defaults for the named model.
func ForModel(model string) (*Config, error) {
	switch model {
	case ModelSpring:
		return DefaultConfig(), nil
	case ModelOrbit:
		return DefaultOrbitConfig(), nil
	default:
		return nil, fmt.Errorf("%w: unknown model %q", dynamo.ErrInvalidConfiguration, model)
	}
}

// ModelDim is the state dimensionality of each known model.
func ModelDim(model string) int {
	switch model {
	case ModelSpring:
		return 1
	case ModelOrbit:
		return 3
	default:
		return 0
	}
}

// Load reads a YAML file on top of the defaults of the model it names.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Parse(data)
}

func Parse(data []byte) (*Config, error) {
	var head struct {
		Model string `yaml:"model"`
	}
	if err := yaml.Unmarshal(data, &head); err != nil {
		return nil, err
	}
	if head.Model == "" {
		head.Model = ModelSpring
	}

	cfg, err := ForModel(head.Model)
	if err != nil {
		return nil, err
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadOver reads a YAML file on top of cfg, so only the fields the file sets
// change. The file may omit model but must not name a different one.
func LoadOver(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return Overlay(cfg, data)
}

func Overlay(cfg *Config, data []byte) error {
	var head struct {
		Model string `yaml:"model"`
	}
	if err := yaml.Unmarshal(data, &head); err != nil {
		return err
	}
	if head.Model != "" && head.Model != cfg.Model {
		return fmt.Errorf("%w: config file describes %q, not %q",
			dynamo.ErrInvalidConfiguration, head.Model, cfg.Model)
	}
	return yaml.Unmarshal(data, cfg)
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Clone returns a deep copy.
func (c *Config) Clone() *Config {
	cp := *c
	cp.InitialPosition = append([]float64(nil), c.InitialPosition...)
	cp.InitialVelocity = append([]float64(nil), c.InitialVelocity...)
	return &cp
}

// Validate checks the fields that can be judged without building the model.
func (c *Config) Validate() error {
	dim := ModelDim(c.Model)
	if dim == 0 {
		return fmt.Errorf("%w: unknown model %q", dynamo.ErrInvalidConfiguration, c.Model)
	}
	if _, err := dynamo.ParseScheme(c.Scheme); err != nil {
		return err
	}
	if _, err := dynamo.NewTimeGrid(c.Dt, c.TMax); err != nil {
		return err
	}
	if len(c.InitialPosition) != dim || len(c.InitialVelocity) != dim {
		return fmt.Errorf("%w: %s expects %d-D initial vectors, got position %d-D and velocity %d-D",
			dynamo.ErrInvalidConfiguration, c.Model, dim, len(c.InitialPosition), len(c.InitialVelocity))
	}
	for _, x := range append(append([]float64(nil), c.InitialPosition...), c.InitialVelocity...) {
		if math.IsNaN(x) || math.IsInf(x, 0) {
			return fmt.Errorf("%w: initial condition is not finite", dynamo.ErrInvalidConfiguration)
		}
	}
	return nil
}

// RunConfig converts c into the core's per-run input.
func (c *Config) RunConfig() dynamo.Config {
	return dynamo.Config{
		Dt:       c.Dt,
		Duration: c.TMax,
		Position: dynamo.Vector(c.InitialPosition).Clone(),
		Velocity: dynamo.Vector(c.InitialVelocity).Clone(),
	}
}

// SetParam sets a numeric field by its YAML path, e.g. "dt" or "spring.k".
func (c *Config) SetParam(name string, v float64) error {
	switch name {
	case "dt":
		c.Dt = v
	case "t_max":
		c.TMax = v
	case "spring.mass":
		c.Spring.Mass = v
	case "spring.k":
		c.Spring.K = v
	case "orbit.m_planet":
		c.Orbit.PlanetMass = v
	case "orbit.g":
		c.Orbit.G = v
	default:
		return fmt.Errorf("%w: unknown parameter %q", dynamo.ErrInvalidConfiguration, name)
	}
	return nil
}

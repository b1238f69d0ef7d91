// Package config reads and writes run configurations. Files use form units:
// positions in thousands of kilometers (10^6 m) and velocities in km/s.
package config

import (
	"fmt"
	"math"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/swingby/internal/dynamo"
	"github.com/san-kum/swingby/internal/integrators"
	"github.com/san-kum/swingby/internal/session"
	"github.com/san-kum/swingby/internal/trail"
	"github.com/san-kum/swingby/internal/viewport"
)

const (
	PositionUnit = 1e6 // m per form unit
	VelocityUnit = 1e3 // m/s per form unit

	DefaultDt       = 1.0
	DefaultSpeed    = 10
	DefaultDuration = 6000.0
	DefaultX        = 7.0
	DefaultVY       = 7.7
)

type Config struct {
	Integrator string          `yaml:"integrator"`
	Dt         float64         `yaml:"dt"`
	Speed      int             `yaml:"speed"`
	Duration   float64         `yaml:"duration"` // simulated seconds for headless runs
	InitState  InitStateConfig `yaml:"init_state"`
	Trail      trail.Config    `yaml:"trail"`
	Viewport   viewport.Config `yaml:"viewport"`
}

// InitStateConfig is the initial state in form units.
type InitStateConfig struct {
	X  float64 `yaml:"x"`
	Y  float64 `yaml:"y"`
	VX float64 `yaml:"vx"`
	VY float64 `yaml:"vy"`
}

func DefaultConfig() *Config {
	return &Config{
		Integrator: integrators.Default,
		Dt:         DefaultDt,
		Speed:      DefaultSpeed,
		Duration:   DefaultDuration,
		InitState:  InitStateConfig{X: DefaultX, VY: DefaultVY},
		Trail:      trail.DefaultConfig(),
		Viewport:   viewport.DefaultConfig(),
	}
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("config: parse %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config: %s: %w", path, err)
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Initial converts the form-unit initial state to SI.
func (c *Config) Initial() dynamo.State {
	return dynamo.NewState(
		c.InitState.X*PositionUnit,
		c.InitState.Y*PositionUnit,
		c.InitState.VX*VelocityUnit,
		c.InitState.VY*VelocityUnit,
	)
}

// Session returns the SI configuration a session runs with.
func (c *Config) Session() session.Config {
	return session.Config{
		Run: dynamo.Config{
			Initial: c.Initial(),
			Dt:      c.Dt,
			Speed:   c.Speed,
		},
		Integrator: c.Integrator,
		Trail:      c.Trail,
	}
}

// Ticks is the number of scheduler ticks that cover Duration.
func (c *Config) Ticks() int {
	return int(math.Ceil(c.Duration / (c.Dt * float64(c.Speed))))
}

func (c *Config) Validate() error {
	if err := c.Session().Validate(); err != nil {
		return err
	}
	if math.IsNaN(c.Duration) || math.IsInf(c.Duration, 0) || c.Duration < 0 {
		return fmt.Errorf("%w: duration must be non-negative, got %g", dynamo.ErrInvalidConfig, c.Duration)
	}
	if err := c.Viewport.Validate(); err != nil {
		return fmt.Errorf("%w: %v", dynamo.ErrInvalidConfig, err)
	}
	return nil
}

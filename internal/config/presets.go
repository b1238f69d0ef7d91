package config

import (
	"slices"

	"github.com/san-kum/swingby/internal/physics"
	"github.com/san-kum/swingby/internal/trail"
	"github.com/san-kum/swingby/internal/viewport"
)

func preset(x, vy, dt float64, speed int, duration float64, policy string) *Config {
	tc := trail.DefaultConfig()
	tc.Policy = policy
	return &Config{
		Integrator: "rk4",
		Dt:         dt,
		Speed:      speed,
		Duration:   duration,
		InitState:  InitStateConfig{X: x, VY: vy},
		Trail:      tc,
		Viewport:   viewport.DefaultConfig(),
	}
}

var Presets = map[string]*Config{
	"leo":      preset(7.0, 7.5, 1, 10, 6000, trail.PolicyTwoTier),
	"circular": preset(7.0, physics.Earth().CircularSpeed(7.0*PositionUnit)/VelocityUnit, 1, 10, 6000, trail.PolicyRing),
	"ellipse":  preset(7.0, 9.0, 1, 20, 20000, trail.PolicyAgeBanded),
	"escape":   preset(7.0, 11.0, 5, 20, 100000, trail.PolicyPrecomputed),
	"swingby":  preset(7.0, 7.7, 0.1, 100, 6000, trail.PolicyTwoTier),
}

// GetPreset returns a copy of the named preset, or nil.
func GetPreset(name string) *Config {
	p, ok := Presets[name]
	if !ok {
		return nil
	}
	cfg := *p
	return &cfg
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

package viewport

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/spatial/r2"
)

var screen = Size{W: 800, H: 600}

func newCamera(t *testing.T, mode string) *Camera {
	t.Helper()
	cfg := DefaultConfig()
	cfg.Mode = mode
	c, err := New(cfg)
	require.NoError(t, err)
	return c
}

func TestRoundTrip(t *testing.T) {
	c := newCamera(t, ModeExponential)
	c.Reset([]r2.Vec{{}, {X: 7e6, Y: 3e6}}, screen)

	for _, p := range []r2.Vec{{}, {X: 7e6}, {X: -1.2e7, Y: 4.5e6}, {X: 3.3, Y: -9.1e5}} {
		back := c.ScreenToWorld(c.WorldToScreen(p))
		assert.InDelta(t, p.X, back.X, 1e-6*math.Max(1, math.Abs(p.X)))
		assert.InDelta(t, p.Y, back.Y, 1e-6*math.Max(1, math.Abs(p.Y)))
	}
}

func TestFocusMapsToCenter(t *testing.T) {
	c := newCamera(t, ModeExponential)
	c.Reset([]r2.Vec{{X: -1e6, Y: -1e6}, {X: 3e6, Y: 1e6}}, screen)

	center := c.WorldToScreen(c.Focus)
	assert.InDelta(t, screen.W/2, center.X, 1e-9)
	assert.InDelta(t, screen.H/2, center.Y, 1e-9)

	// +y in world is up on screen.
	above := c.WorldToScreen(r2.Add(c.Focus, r2.Vec{Y: 1e5}))
	assert.Less(t, above.Y, center.Y)
}

func TestResetFramesBoundingBox(t *testing.T) {
	c := newCamera(t, ModeExponential)
	points := []r2.Vec{{}, {X: 8e6, Y: 2e6}}
	c.Reset(points, screen)

	assert.Equal(t, r2.Vec{X: 4e6, Y: 1e6}, c.Focus)
	want := 600 / (8e6 * DefaultPadding)
	assert.InDelta(t, want, c.Scale, 1e-15)
	assert.Equal(t, c.Scale, c.TargetScale)

	for _, p := range points {
		s := c.WorldToScreen(p)
		assert.True(t, s.X >= 0 && s.X <= screen.W, "x %g off screen", s.X)
		assert.True(t, s.Y >= 0 && s.Y <= screen.H, "y %g off screen", s.Y)
	}
}

func TestUpdateSmoothsTowardTarget(t *testing.T) {
	c := newCamera(t, ModeExponential)
	c.Reset([]r2.Vec{{}, {X: 7e6}}, screen)
	start := c.Scale

	wide := []r2.Vec{{}, {X: 7e7}}
	c.Update(wide, screen)
	target := c.TargetScale
	require.Less(t, target, start)

	// One step covers exactly the smoothing fraction of the gap.
	assert.InDelta(t, start+(target-start)*DefaultSmoothing, c.Scale, 1e-15)

	for range 300 {
		c.Update(wide, screen)
	}
	assert.InDelta(t, target, c.Scale, 1e-6*target)
	assert.InDelta(t, 3.5e7, c.Focus.X, 1)
}

func TestDegenerateBoxKeepsScale(t *testing.T) {
	c := newCamera(t, ModeExponential)
	c.Reset([]r2.Vec{{}, {X: 7e6}}, screen)
	scale := c.TargetScale

	c.Update([]r2.Vec{{X: 1e6, Y: 1e6}}, screen)
	assert.Equal(t, scale, c.TargetScale)
	assert.Equal(t, r2.Vec{X: 1e6, Y: 1e6}, c.TargetFocus)

	c.Update(nil, screen)
	assert.Equal(t, scale, c.TargetScale)
}

func TestResetDegenerateUsesDefault(t *testing.T) {
	c := newCamera(t, ModeExponential)
	c.Reset([]r2.Vec{{X: 5, Y: 5}}, screen)
	assert.Equal(t, DefaultScale, c.Scale)
	assert.Equal(t, r2.Vec{X: 5, Y: 5}, c.Focus)
}

func TestSpringConverges(t *testing.T) {
	c := newCamera(t, ModeSpring)
	c.Reset([]r2.Vec{{}, {X: 7e6}}, screen)

	wide := []r2.Vec{{}, {X: 7e7}}
	for range 600 {
		c.Update(wide, screen)
		assert.False(t, math.IsNaN(c.Scale))
	}
	assert.InDelta(t, c.TargetScale, c.Scale, 1e-3*c.TargetScale)
	assert.InDelta(t, 3.5e7, c.Focus.X, 1e-3*3.5e7)
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*Config)
	}{
		{"unknown mode", func(c *Config) { c.Mode = "orbit" }},
		{"zero smoothing", func(c *Config) { c.Smoothing = 0 }},
		{"smoothing above one", func(c *Config) { c.Smoothing = 1.5 }},
		{"padding below one", func(c *Config) { c.Padding = 0.5 }},
		{"spring without fps", func(c *Config) { c.Mode = ModeSpring; c.FPS = 0 }},
	}

	require.NoError(t, DefaultConfig().Validate())
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.modify(&cfg)
			_, err := New(cfg)
			assert.Error(t, err)
		})
	}
}

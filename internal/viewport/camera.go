// Package viewport maps world coordinates (meters, +y up) onto a display
// surface (pixels, +y down) and keeps the bodies in frame with smoothed
// auto-framing.
package viewport

import (
	"fmt"
	"math"

	"github.com/charmbracelet/harmonica"
	"gonum.org/v1/gonum/spatial/r2"
)

const (
	DefaultPadding   = 1.3
	DefaultSmoothing = 0.08
	DefaultScale     = 4e-5 // px per meter

	ModeExponential = "exponential"
	ModeSpring      = "spring"
)

// Size is the display surface in pixels.
type Size struct {
	W, H float64
}

// Config tunes the camera.
type Config struct {
	Mode      string  `yaml:"mode"`
	Padding   float64 `yaml:"padding"`
	Smoothing float64 `yaml:"smoothing"`
	// Spring mode only.
	FPS       int     `yaml:"fps"`
	Frequency float64 `yaml:"frequency"`
}

func DefaultConfig() Config {
	return Config{
		Mode:      ModeExponential,
		Padding:   DefaultPadding,
		Smoothing: DefaultSmoothing,
		FPS:       60,
		Frequency: 4.0,
	}
}

func (c Config) Validate() error {
	switch c.Mode {
	case ModeExponential, "":
		if !(c.Smoothing > 0 && c.Smoothing <= 1) {
			return fmt.Errorf("viewport: smoothing must be in (0,1], got %g", c.Smoothing)
		}
	case ModeSpring:
		if c.FPS <= 0 || !(c.Frequency > 0) {
			return fmt.Errorf("viewport: spring needs positive fps and frequency")
		}
	default:
		return fmt.Errorf("viewport: unknown mode %q", c.Mode)
	}
	if !(c.Padding >= 1) {
		return fmt.Errorf("viewport: padding must be >= 1, got %g", c.Padding)
	}
	return nil
}

// Camera is the current world-to-screen transform and where it is heading.
type Camera struct {
	Focus       r2.Vec
	Scale       float64
	TargetFocus r2.Vec
	TargetScale float64
	Size        Size

	cfg    Config
	spring *springState
}

// springState carries the per-axis velocities of the spring smoother.
type springState struct {
	spring harmonica.Spring
	vx, vy float64
	vs     float64
}

func New(cfg Config) (*Camera, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	c := &Camera{
		Scale:       DefaultScale,
		TargetScale: DefaultScale,
		cfg:         cfg,
	}
	if cfg.Mode == ModeSpring {
		// Critically damped: no overshoot, so the frame never swings past
		// the target.
		c.spring = &springState{spring: harmonica.NewSpring(harmonica.FPS(cfg.FPS), cfg.Frequency, 1.0)}
	}
	return c, nil
}

// frame computes the target transform for points on a surface of size sz.
// ok is false when the points span no area, in which case only the focus
// is meaningful.
func (c *Camera) frame(points []r2.Vec, sz Size) (focus r2.Vec, scale float64, ok bool) {
	if len(points) == 0 {
		return c.TargetFocus, c.TargetScale, false
	}
	lo, hi := points[0], points[0]
	for _, p := range points[1:] {
		lo.X, lo.Y = math.Min(lo.X, p.X), math.Min(lo.Y, p.Y)
		hi.X, hi.Y = math.Max(hi.X, p.X), math.Max(hi.Y, p.Y)
	}
	focus = r2.Scale(0.5, r2.Add(lo, hi))
	extent := math.Max(hi.X-lo.X, hi.Y-lo.Y) * c.cfg.Padding
	if extent <= 0 || sz.W <= 0 || sz.H <= 0 {
		return focus, c.TargetScale, false
	}
	return focus, math.Min(sz.W, sz.H) / extent, true
}

// Update retargets the camera on points and moves one smoothing step toward
// the target. Callers include the attractor and the body among points.
func (c *Camera) Update(points []r2.Vec, sz Size) {
	c.Size = sz
	c.TargetFocus, c.TargetScale, _ = c.frame(points, sz)

	if c.spring != nil {
		s := c.spring
		c.Focus.X, s.vx = s.spring.Update(c.Focus.X, s.vx, c.TargetFocus.X)
		c.Focus.Y, s.vy = s.spring.Update(c.Focus.Y, s.vy, c.TargetFocus.Y)
		c.Scale, s.vs = s.spring.Update(c.Scale, s.vs, c.TargetScale)
		return
	}

	k := c.cfg.Smoothing
	c.Focus = r2.Add(c.Focus, r2.Scale(k, r2.Sub(c.TargetFocus, c.Focus)))
	c.Scale += (c.TargetScale - c.Scale) * k
}

// Reset snaps the camera onto the target framing of points.
func (c *Camera) Reset(points []r2.Vec, sz Size) {
	c.Size = sz
	focus, scale, ok := c.frame(points, sz)
	if !ok {
		scale = DefaultScale
	}
	c.Focus, c.TargetFocus = focus, focus
	c.Scale, c.TargetScale = scale, scale
	if c.spring != nil {
		c.spring.vx, c.spring.vy, c.spring.vs = 0, 0, 0
	}
}

// WorldToScreen projects a world point, flipping the vertical axis.
func (c *Camera) WorldToScreen(p r2.Vec) r2.Vec {
	return r2.Vec{
		X: c.Size.W/2 + (p.X-c.Focus.X)*c.Scale,
		Y: c.Size.H/2 - (p.Y-c.Focus.Y)*c.Scale,
	}
}

// ScreenToWorld is the inverse of WorldToScreen.
func (c *Camera) ScreenToWorld(p r2.Vec) r2.Vec {
	return r2.Vec{
		X: c.Focus.X + (p.X-c.Size.W/2)/c.Scale,
		Y: c.Focus.Y - (p.Y-c.Size.H/2)/c.Scale,
	}
}

// PixelsFor converts a world length to screen pixels.
func (c *Camera) PixelsFor(meters float64) float64 {
	return meters * c.Scale
}

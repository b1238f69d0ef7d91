package metrics

import (
	"math"

	"github.com/san-kum/swingby/internal/dynamo"
)

// Clearance is the fraction of observed states that stay above a radius,
// usually the surface of the attractor. Collisions are not simulated, so a
// value below 1 means the trajectory passed through the body.
type Clearance struct {
	name       string
	radius     float64
	violations int
	samples    int
}

func NewClearance(radius float64) *Clearance {
	return &Clearance{
		name:   "clearance",
		radius: radius,
	}
}

func (c *Clearance) Name() string {
	return c.name
}

func (c *Clearance) Observe(s dynamo.State) {
	c.samples++
	if s.Radius() <= c.radius {
		c.violations++
	}
}

func (c *Clearance) Value() float64 {
	if c.samples == 0 {
		return 1.0
	}
	return 1.0 - float64(c.violations)/float64(c.samples)
}

func (c *Clearance) Reset() {
	c.violations = 0
	c.samples = 0
}

// Periapsis tracks the smallest radius observed.
type Periapsis struct {
	min float64
}

func NewPeriapsis() *Periapsis {
	return &Periapsis{min: math.Inf(1)}
}

func (p *Periapsis) Name() string { return "periapsis" }

func (p *Periapsis) Observe(s dynamo.State) {
	p.min = math.Min(p.min, s.Radius())
}

// Value is +Inf before the first observation.
func (p *Periapsis) Value() float64 { return p.min }

func (p *Periapsis) Reset() { p.min = math.Inf(1) }

// Apoapsis tracks the largest radius observed.
type Apoapsis struct {
	max float64
}

func NewApoapsis() *Apoapsis { return &Apoapsis{} }

func (a *Apoapsis) Name() string { return "apoapsis" }

func (a *Apoapsis) Observe(s dynamo.State) {
	a.max = math.Max(a.max, s.Radius())
}

func (a *Apoapsis) Value() float64 { return a.max }

func (a *Apoapsis) Reset() { a.max = 0 }

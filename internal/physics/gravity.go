package physics

import (
	"math"

	"github.com/san-kum/swingby/internal/dynamo"
	"gonum.org/v1/gonum/spatial/r2"
)

const (
	G           = 6.67430e-11 // m^3/(kg s^2)
	EarthMass   = 5.972e24    // kg
	EarthRadius = 6.371e6     // m
	EarthGM     = G * EarthMass
)

// PointMass is the inverse-square field of a single attractor at the origin.
// The field is not softened: evaluating it at the origin yields Inf/NaN.
type PointMass struct {
	GM     float64
	Radius float64 // body radius, used for display only
}

// Earth returns the field of the Earth.
func Earth() *PointMass {
	return &PointMass{GM: EarthGM, Radius: EarthRadius}
}

// Accel implements dynamo.Field: a = -GM x / r^3.
func (p *PointMass) Accel(pos r2.Vec) r2.Vec {
	r := r2.Norm(pos)
	k := -p.GM / (r * r * r)
	return r2.Vec{X: k * pos.X, Y: k * pos.Y}
}

// Energy implements dynamo.Hamiltonian with the specific orbital energy
// v^2/2 - GM/r.
func (p *PointMass) Energy(s dynamo.State) float64 {
	v := s.Speed()
	return 0.5*v*v - p.GM/s.Radius()
}

// CircularSpeed is the speed of a circular orbit of radius r.
func (p *PointMass) CircularSpeed(r float64) float64 {
	return math.Sqrt(p.GM / r)
}

// EscapeSpeed is the parabolic speed at radius r.
func (p *PointMass) EscapeSpeed(r float64) float64 {
	return math.Sqrt(2 * p.GM / r)
}

// Period returns the orbital period of a bound orbit with semi-major axis a.
func (p *PointMass) Period(a float64) float64 {
	return 2 * math.Pi * math.Sqrt(a*a*a/p.GM)
}

// SemiMajorAxis derives a from the vis-viva equation. It is negative for
// hyperbolic states and +Inf for a parabolic one.
func (p *PointMass) SemiMajorAxis(s dynamo.State) float64 {
	e := p.Energy(s)
	if e == 0 {
		return math.Inf(1)
	}
	return -p.GM / (2 * e)
}

// Eccentricity returns the magnitude of the eccentricity vector.
func (p *PointMass) Eccentricity(s dynamo.State) float64 {
	r := s.Radius()
	h := s.AngularMomentum()
	// e = (v x h)/GM - r_hat, with h along z in the plane.
	ex := s.Vel.Y*h/p.GM - s.Pos.X/r
	ey := -s.Vel.X*h/p.GM - s.Pos.Y/r
	return math.Hypot(ex, ey)
}

// Bound reports whether the state is on a closed orbit.
func (p *PointMass) Bound(s dynamo.State) bool {
	return p.Energy(s) < 0
}

package dynamo

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/spatial/r2"
)

// State is the planar state of the orbiting body at time T.
type State struct {
	T   float64
	Pos r2.Vec
	Vel r2.Vec
}

// NewState builds a state at t=0 from SI components.
func NewState(x, y, vx, vy float64) State {
	return State{Pos: r2.Vec{X: x, Y: y}, Vel: r2.Vec{X: vx, Y: vy}}
}

// Radius is the distance from the attractor.
func (s State) Radius() float64 {
	return r2.Norm(s.Pos)
}

// Speed is |v|.
func (s State) Speed() float64 {
	return r2.Norm(s.Vel)
}

// AngularMomentum returns the specific angular momentum x*vy - y*vx.
func (s State) AngularMomentum() float64 {
	return r2.Cross(s.Pos, s.Vel)
}

func (s State) IsValid() bool {
	for _, v := range [...]float64{s.T, s.Pos.X, s.Pos.Y, s.Vel.X, s.Vel.Y} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

func (s State) String() string {
	return fmt.Sprintf("t=%.3f pos=(%.3f, %.3f) vel=(%.3f, %.3f)", s.T, s.Pos.X, s.Pos.Y, s.Vel.X, s.Vel.Y)
}

// Field is an acceleration field a(x) acting on the body.
type Field interface {
	Accel(pos r2.Vec) r2.Vec
}

// Hamiltonian is implemented by fields that can report specific energy.
type Hamiltonian interface {
	Energy(s State) float64
}

// Integrator advances a state by one fixed step. Implementations must be
// pure: the same inputs always give the same output.
type Integrator interface {
	Step(f Field, s State, dt float64) State
}

type Metric interface {
	Name() string
	Observe(s State)
	Value() float64
	Reset()
}

// Config holds the run parameters read once at initialization.
type Config struct {
	Initial State
	Dt      float64
	Speed   int
}

func DefaultConfig() Config {
	return Config{
		Initial: NewState(7.0e6, 0, 0, 7.7e3),
		Dt:      1.0,
		Speed:   10,
	}
}

// Validate rejects configurations no step may run with.
func (c Config) Validate() error {
	if !c.Initial.IsValid() {
		return fmt.Errorf("%w: initial state is not finite", ErrInvalidConfig)
	}
	if c.Initial.T != 0 {
		return fmt.Errorf("%w: initial time must be 0, got %g", ErrInvalidConfig, c.Initial.T)
	}
	if c.Initial.Radius() == 0 {
		return fmt.Errorf("%w: initial position coincides with the attractor", ErrSingularState)
	}
	if math.IsNaN(c.Dt) || math.IsInf(c.Dt, 0) || c.Dt <= 0 {
		return fmt.Errorf("%w: dt must be positive, got %f", ErrInvalidConfig, c.Dt)
	}
	if c.Speed < 1 {
		return fmt.Errorf("%w: speed must be at least 1, got %d", ErrInvalidConfig, c.Speed)
	}
	return nil
}

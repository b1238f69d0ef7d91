package integrators

import (
	"github.com/san-kum/swingby/internal/dynamo"
	"gonum.org/v1/gonum/spatial/r2"
)

// Euler is the explicit first-order method, kept as a baseline for
// comparisons. It drifts outward on closed orbits.
type Euler struct{}

func NewEuler() *Euler {
	return &Euler{}
}

func (e *Euler) Step(f dynamo.Field, s dynamo.State, dt float64) dynamo.State {
	a := f.Accel(s.Pos)
	return dynamo.State{
		T:   s.T + dt,
		Pos: r2.Add(s.Pos, r2.Scale(dt, s.Vel)),
		Vel: r2.Add(s.Vel, r2.Scale(dt, a)),
	}
}

package integrators

import (
	"github.com/san-kum/swingby/internal/dynamo"
	"gonum.org/v1/gonum/spatial/r2"
)

// Verlet is velocity Verlet. It is symplectic, so energy oscillates instead
// of drifting, at second-order accuracy.
type Verlet struct{}

func NewVerlet() *Verlet {
	return &Verlet{}
}

func (v *Verlet) Step(f dynamo.Field, s dynamo.State, dt float64) dynamo.State {
	a0 := f.Accel(s.Pos)
	pos := r2.Add(s.Pos, r2.Add(r2.Scale(dt, s.Vel), r2.Scale(0.5*dt*dt, a0)))
	a1 := f.Accel(pos)
	return dynamo.State{
		T:   s.T + dt,
		Pos: pos,
		Vel: r2.Add(s.Vel, r2.Scale(0.5*dt, r2.Add(a0, a1))),
	}
}

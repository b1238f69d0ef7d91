package integrators

import (
	"github.com/san-kum/swingby/internal/dynamo"
	"gonum.org/v1/gonum/spatial/r2"
)

// RK4 is the classical fourth-order Runge-Kutta method. It keeps no state
// between calls.
type RK4 struct{}

func NewRK4() *RK4 {
	return &RK4{}
}

// Step evaluates the field at t, t+dt/2 (from k1), t+dt/2 (from k2) and t+dt
// (from k3) and combines the slopes with weights (1, 2, 2, 1)/6.
func (r *RK4) Step(f dynamo.Field, s dynamo.State, dt float64) dynamo.State {
	const half, sixth = 0.5, 1.0 / 6.0

	k1x := s.Vel
	k1v := f.Accel(s.Pos)

	k2x := r2.Add(s.Vel, r2.Scale(half*dt, k1v))
	k2v := f.Accel(r2.Add(s.Pos, r2.Scale(half*dt, k1x)))

	k3x := r2.Add(s.Vel, r2.Scale(half*dt, k2v))
	k3v := f.Accel(r2.Add(s.Pos, r2.Scale(half*dt, k2x)))

	k4x := r2.Add(s.Vel, r2.Scale(dt, k3v))
	k4v := f.Accel(r2.Add(s.Pos, r2.Scale(dt, k3x)))

	return dynamo.State{
		T:   s.T + dt,
		Pos: r2.Add(s.Pos, r2.Scale(sixth*dt, weigh(k1x, k2x, k3x, k4x))),
		Vel: r2.Add(s.Vel, r2.Scale(sixth*dt, weigh(k1v, k2v, k3v, k4v))),
	}
}

// weigh returns k1 + 2k2 + 2k3 + k4.
func weigh(k1, k2, k3, k4 r2.Vec) r2.Vec {
	return r2.Vec{
		X: k1.X + 2*k2.X + 2*k3.X + k4.X,
		Y: k1.Y + 2*k2.Y + 2*k3.Y + k4.Y,
	}
}

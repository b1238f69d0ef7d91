package physics

import (
	"math"
	"testing"

	"github.com/san-kum/swingby/internal/dynamo"
	"gonum.org/v1/gonum/spatial/r2"
)

func TestPointMassAccel(t *testing.T) {
	earth := Earth()

	tests := []struct {
		name string
		pos  r2.Vec
	}{
		{"on x axis", r2.Vec{X: 7e6}},
		{"on y axis", r2.Vec{Y: -7e6}},
		{"diagonal", r2.Vec{X: 5e6, Y: 5e6}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := earth.Accel(tt.pos)
			r := r2.Norm(tt.pos)
			want := EarthGM / (r * r)
			if got := r2.Norm(a); math.Abs(got-want)/want > 1e-12 {
				t.Errorf("|a| = %g, want %g", got, want)
			}
			if r2.Dot(a, tt.pos) >= 0 {
				t.Errorf("acceleration %v does not point at the origin", a)
			}
		})
	}
}

func TestPointMassSingular(t *testing.T) {
	a := Earth().Accel(r2.Vec{})
	if !math.IsNaN(a.X) && !math.IsInf(a.X, 0) {
		t.Errorf("expected non-finite acceleration at origin, got %v", a)
	}
}

func TestCircularOrbitElements(t *testing.T) {
	earth := Earth()
	r := 7e6
	s := dynamo.NewState(r, 0, 0, earth.CircularSpeed(r))

	if a := earth.SemiMajorAxis(s); math.Abs(a-r)/r > 1e-12 {
		t.Errorf("semi-major axis = %g, want %g", a, r)
	}
	if e := earth.Eccentricity(s); e > 1e-12 {
		t.Errorf("eccentricity = %g, want 0", e)
	}
	if !earth.Bound(s) {
		t.Error("circular orbit should be bound")
	}

	wantPeriod := 2 * math.Pi * math.Sqrt(r*r*r/EarthGM)
	if got := earth.Period(r); math.Abs(got-wantPeriod) > 1e-9 {
		t.Errorf("period = %g, want %g", got, wantPeriod)
	}
}

func TestEscapeSpeed(t *testing.T) {
	earth := Earth()
	r := 7e6
	s := dynamo.NewState(r, 0, 0, earth.EscapeSpeed(r))

	if e := earth.Energy(s); math.Abs(e) > 1e-6 {
		t.Errorf("energy at escape speed = %g, want 0", e)
	}

	fast := dynamo.NewState(r, 0, 0, 1.1*earth.EscapeSpeed(r))
	if earth.Bound(fast) {
		t.Error("state above escape speed should not be bound")
	}
}

package metrics

import (
	"math"
	"testing"

	"github.com/san-kum/swingby/internal/dynamo"
	"github.com/san-kum/swingby/internal/physics"
)

func TestEnergyDriftFirstSampleIsReference(t *testing.T) {
	earth := physics.Earth()
	m := NewEnergyDrift(earth)

	s := dynamo.NewState(7e6, 0, 0, 7.5e3)
	m.Observe(s)
	m.Observe(s)
	if m.Value() != 0 {
		t.Errorf("expected zero drift for identical states, got %g", m.Value())
	}
	if got, want := m.Current(), earth.Energy(s); got != want {
		t.Errorf("current energy = %g, want %g", got, want)
	}
}

func TestEnergyDriftTracksMaximum(t *testing.T) {
	earth := physics.Earth()
	m := NewEnergyDrift(earth)

	base := dynamo.NewState(7e6, 0, 0, 7.5e3)
	e0 := earth.Energy(base)

	m.Observe(base)
	m.Observe(dynamo.NewState(7e6, 0, 0, 7.6e3))
	peak := m.Value()
	m.Observe(base)

	want := math.Abs(earth.Energy(dynamo.NewState(7e6, 0, 0, 7.6e3))-e0) / math.Abs(e0)
	if math.Abs(peak-want) > 1e-15 {
		t.Errorf("drift = %g, want %g", peak, want)
	}
	if m.Value() != peak {
		t.Errorf("drift should not decrease: %g after %g", m.Value(), peak)
	}

	m.Reset()
	if m.Value() != 0 {
		t.Error("expected zero drift after reset")
	}
}

func TestAngularMomentumDrift(t *testing.T) {
	m := NewAngularMomentumDrift()
	m.Observe(dynamo.NewState(7e6, 0, 0, 7.5e3))
	// Same h from a different point on the orbit.
	m.Observe(dynamo.NewState(0, 7e6, -7.5e3, 0))
	if m.Value() > 1e-15 {
		t.Errorf("expected no drift, got %g", m.Value())
	}

	m.Observe(dynamo.NewState(7e6, 0, 0, 7.5e3*1.01))
	if math.Abs(m.Value()-0.01) > 1e-12 {
		t.Errorf("drift = %g, want 0.01", m.Value())
	}
}

func TestClearance(t *testing.T) {
	c := NewClearance(physics.EarthRadius)
	if c.Value() != 1 {
		t.Errorf("expected 1 before any sample, got %g", c.Value())
	}

	c.Observe(dynamo.NewState(7e6, 0, 0, 0))
	c.Observe(dynamo.NewState(6e6, 0, 0, 0))
	c.Observe(dynamo.NewState(8e6, 0, 0, 0))
	c.Observe(dynamo.NewState(9e6, 0, 0, 0))
	if c.Value() != 0.75 {
		t.Errorf("clearance = %g, want 0.75", c.Value())
	}

	c.Reset()
	if c.Value() != 1 {
		t.Error("expected 1 after reset")
	}
}

func TestApsides(t *testing.T) {
	peri, apo := NewPeriapsis(), NewApoapsis()
	if !math.IsInf(peri.Value(), 1) {
		t.Errorf("periapsis before samples = %g, want +Inf", peri.Value())
	}

	for _, r := range []float64{8e6, 7e6, 1.2e7, 9e6} {
		s := dynamo.NewState(0, r, 0, 0)
		peri.Observe(s)
		apo.Observe(s)
	}
	if peri.Value() != 7e6 {
		t.Errorf("periapsis = %g, want 7e6", peri.Value())
	}
	if apo.Value() != 1.2e7 {
		t.Errorf("apoapsis = %g, want 1.2e7", apo.Value())
	}
}

func TestStandardNames(t *testing.T) {
	seen := map[string]bool{}
	for _, m := range Standard(physics.Earth()) {
		if seen[m.Name()] {
			t.Errorf("duplicate metric %q", m.Name())
		}
		seen[m.Name()] = true
	}
	if !seen["energy_drift"] || !seen["momentum_drift"] {
		t.Errorf("standard set missing drift metrics: %v", seen)
	}
}

package session_test

import (
	"context"
	"errors"
	"math"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/swingby/internal/dynamo"
	"github.com/san-kum/swingby/internal/metrics"
	"github.com/san-kum/swingby/internal/physics"
	"github.com/san-kum/swingby/internal/session"
	"github.com/san-kum/swingby/internal/trail"
)

// rk4Trace integrates the orbit with plain float arithmetic, independent of
// the integrators package.
func rk4Trace(x, y, vx, vy, dt float64, steps int) [4]float64 {
	deriv := func(s [4]float64) [4]float64 {
		r := math.Sqrt(s[0]*s[0] + s[1]*s[1])
		k := -physics.EarthGM / (r * r * r)
		return [4]float64{s[2], s[3], k * s[0], k * s[1]}
	}
	add := func(s, d [4]float64, h float64) [4]float64 {
		for i := range s {
			s[i] += h * d[i]
		}
		return s
	}

	s := [4]float64{x, y, vx, vy}
	for range steps {
		k1 := deriv(s)
		k2 := deriv(add(s, k1, dt/2))
		k3 := deriv(add(s, k2, dt/2))
		k4 := deriv(add(s, k3, dt))
		for i := range s {
			s[i] += dt / 6 * (k1[i] + 2*k2[i] + 2*k3[i] + k4[i])
		}
	}
	return s
}

type panicky struct{}

func (panicky) Name() string { return "panicky" }
func (panicky) Observe(s dynamo.State) {
	if s.T > 0 {
		panic("observer exploded")
	}
}
func (panicky) Value() float64 { return 0 }
func (panicky) Reset()         {}

func scenario() session.Config {
	cfg := session.DefaultConfig()
	cfg.Run.Initial = dynamo.NewState(7.0e6, 0, 0, 7.5e3)
	cfg.Run.Dt = 1
	cfg.Run.Speed = 10
	return cfg
}

var _ = Describe("Session", func() {
	var s *session.Session

	BeforeEach(func() {
		var err error
		s, err = session.New(scenario())
		Expect(err).NotTo(HaveOccurred())
	})

	Describe("creation", func() {
		It("starts idle with the initial point recorded", func() {
			f := s.Frame()
			Expect(f.ID).NotTo(BeEmpty())
			Expect(f.Status).To(Equal(session.Idle))
			Expect(f.Steps).To(Equal(0))
			Expect(f.State).To(Equal(scenario().Run.Initial))
			Expect(f.Trail).To(HaveLen(1))
			Expect(f.Trail[0].Index).To(Equal(0))
			Expect(f.Fault).NotTo(HaveOccurred())
		})

		It("gives each session its own id", func() {
			other, err := session.New(scenario())
			Expect(err).NotTo(HaveOccurred())
			Expect(other.ID()).NotTo(Equal(s.ID()))
		})

		It("rejects a body placed on the attractor", func() {
			cfg := scenario()
			cfg.Run.Initial = dynamo.NewState(0, 0, 0, 7.5e3)
			_, err := session.New(cfg)
			Expect(err).To(MatchError(dynamo.ErrSingularState))
		})

		It("rejects a non-positive dt", func() {
			cfg := scenario()
			cfg.Run.Dt = 0
			_, err := session.New(cfg)
			Expect(err).To(MatchError(dynamo.ErrInvalidConfig))
		})

		It("rejects an unknown integrator", func() {
			cfg := scenario()
			cfg.Integrator = "leapfrog"
			_, err := session.New(cfg)
			Expect(err).To(MatchError(dynamo.ErrUnknownIntegrator))
		})

		It("rejects an unknown trail policy", func() {
			cfg := scenario()
			cfg.Trail.Policy = "everything"
			_, err := session.New(cfg)
			Expect(err).To(MatchError(dynamo.ErrUnknownPolicy))
		})
	})

	Describe("state machine", func() {
		It("refuses to advance unless running", func() {
			Expect(s.Advance(1)).To(MatchError(dynamo.ErrNotRunning))
			Expect(s.Steps()).To(Equal(0))
		})

		It("moves between running and paused", func() {
			Expect(s.Start()).To(Succeed())
			Expect(s.Status()).To(Equal(session.Running))
			Expect(s.Start()).To(Succeed())
			Expect(s.Status()).To(Equal(session.Running))

			Expect(s.Pause()).To(Succeed())
			Expect(s.Status()).To(Equal(session.Paused))

			Expect(s.Start()).To(Succeed())
			Expect(s.Status()).To(Equal(session.Running))
		})

		It("treats pause as idempotent", func() {
			Expect(s.Start()).To(Succeed())
			Expect(s.Tick()).To(Succeed())

			Expect(s.Pause()).To(Succeed())
			once := s.Frame()
			Expect(s.Pause()).To(Succeed())
			Expect(s.Frame()).To(Equal(once))
		})

		It("ignores ticks delivered after pause", func() {
			Expect(s.Start()).To(Succeed())
			Expect(s.Tick()).To(Succeed())
			Expect(s.Pause()).To(Succeed())

			before := s.Frame()
			Expect(s.Tick()).To(Succeed())
			Expect(s.Frame()).To(Equal(before))
		})

		It("ignores ticks while idle", func() {
			Expect(s.Tick()).To(Succeed())
			Expect(s.Steps()).To(Equal(0))
		})

		It("advances exactly n steps", func() {
			Expect(s.Start()).To(Succeed())
			Expect(s.Advance(7)).To(Succeed())
			Expect(s.Steps()).To(Equal(7))
			Expect(s.State().T).To(Equal(7.0))
			Expect(s.Frame().Trail).To(HaveLen(8))
		})
	})

	Describe("reset", func() {
		It("is indistinguishable from a fresh initialization", func() {
			fresh := s.Frame()

			Expect(s.Start()).To(Succeed())
			for range 20 {
				Expect(s.Tick()).To(Succeed())
			}
			Expect(s.Reset()).To(Succeed())

			got := s.Frame()
			Expect(got.Status).To(Equal(session.Idle))
			Expect(got.State).To(Equal(fresh.State))
			Expect(got.Steps).To(Equal(fresh.Steps))
			Expect(got.Trail).To(Equal(fresh.Trail))
			Expect(got.Fault).NotTo(HaveOccurred())
		})

		It("resets attached metrics", func() {
			// The scenario starts at apoapsis, so the radius shrinks first.
			peri := metrics.NewPeriapsis()
			s.AddMetric(peri)
			Expect(s.Start()).To(Succeed())
			for range 50 {
				Expect(s.Tick()).To(Succeed())
			}
			Expect(peri.Value()).To(BeNumerically("<", 7.0e6))

			Expect(s.Reset()).To(Succeed())
			Expect(peri.Value()).To(Equal(7.0e6))
		})
	})

	Describe("end to end", func() {
		It("matches an independent RK4 trace after 100 ticks", func() {
			Expect(s.Start()).To(Succeed())
			for range 100 {
				Expect(s.Tick()).To(Succeed())
			}

			st := s.State()
			Expect(st.T).To(Equal(1000.0))
			Expect(s.Steps()).To(Equal(1000))

			want := rk4Trace(7.0e6, 0, 0, 7.5e3, 1, 1000)
			r := math.Hypot(want[0], want[1])
			v := math.Hypot(want[2], want[3])
			Expect(st.Pos.X).To(BeNumerically("~", want[0], 1e-6*r))
			Expect(st.Pos.Y).To(BeNumerically("~", want[1], 1e-6*r))
			Expect(st.Vel.X).To(BeNumerically("~", want[2], 1e-6*v))
			Expect(st.Vel.Y).To(BeNumerically("~", want[3], 1e-6*v))

			f := s.Frame()
			Expect(f.Trail).To(HaveLen(1001))
			Expect(f.Trail[1000].Pos).To(Equal(st.Pos))
		})

		It("keeps energy and angular momentum nearly constant", func() {
			drift := metrics.NewEnergyDrift(physics.Earth())
			mom := metrics.NewAngularMomentumDrift()
			s.AddMetric(drift)
			s.AddMetric(mom)

			Expect(s.RunFor(context.Background(), 100)).To(Succeed())
			Expect(s.Status()).To(Equal(session.Paused))

			values := s.Metrics()
			Expect(values).To(HaveKey("energy_drift"))
			Expect(values["energy_drift"]).To(BeNumerically("<", 1e-8))
			Expect(values["momentum_drift"]).To(BeNumerically("<", 1e-8))
		})

		It("stops a headless run when the context is cancelled", func() {
			ctx, cancel := context.WithCancel(context.Background())
			cancel()
			Expect(s.RunFor(ctx, 100)).To(MatchError(context.Canceled))
			Expect(s.Status()).To(Equal(session.Paused))
			Expect(s.Steps()).To(Equal(0))
		})
	})

	Describe("faults", func() {
		It("latches a non-finite step and keeps the last valid state", func() {
			broken, err := session.New(scenario(), session.WithBody(&physics.PointMass{GM: math.NaN()}))
			Expect(err).NotTo(HaveOccurred())
			initial := broken.State()

			Expect(broken.Start()).To(Succeed())
			err = broken.Tick()
			Expect(err).To(MatchError(dynamo.ErrInvalidState))

			Expect(err).To(BeAssignableToTypeOf(&dynamo.SimulationError{}))

			f := broken.Frame()
			Expect(f.Status).To(Equal(session.Paused))
			Expect(f.Fault).To(HaveOccurred())
			Expect(f.State).To(Equal(initial))
			Expect(f.Steps).To(Equal(0))
			Expect(f.Trail).To(HaveLen(1))

			Expect(broken.Start()).To(MatchError(dynamo.ErrFaulted))
			Expect(broken.Reset()).To(Succeed())
			Expect(broken.Fault()).NotTo(HaveOccurred())
			Expect(broken.Start()).To(Succeed())
		})

		It("recovers a panic inside a tick into a fault", func() {
			s.AddMetric(panicky{})
			Expect(s.Start()).To(Succeed())

			err := s.Tick()
			Expect(err).To(MatchError(dynamo.ErrPanic))
			Expect(errors.Is(err, dynamo.ErrInvalidState)).To(BeFalse())
			Expect(s.Status()).To(Equal(session.Paused))
			Expect(s.Fault()).To(HaveOccurred())
			Expect(s.Start()).To(MatchError(dynamo.ErrFaulted))
		})

		It("keeps state and trail in agreement after a panicking observer", func() {
			s.AddMetric(panicky{})
			Expect(s.Start()).To(Succeed())
			Expect(s.Tick()).To(HaveOccurred())

			f := s.Frame()
			last := f.Trail[len(f.Trail)-1]
			Expect(f.Steps).To(Equal(last.Index))
			Expect(f.State).To(Equal(last.State()))
		})
	})

	Describe("precomputed playback", func() {
		var p *session.Session

		BeforeEach(func() {
			cfg := scenario()
			cfg.Trail = trail.DefaultConfig()
			cfg.Trail.Policy = trail.PolicyPrecomputed
			cfg.Trail.MaxSteps = 50

			var err error
			p, err = session.New(cfg)
			Expect(err).NotTo(HaveOccurred())
		})

		It("reports a horizon cut short by a non-finite step", func() {
			cfg := scenario()
			cfg.Trail = trail.DefaultConfig()
			cfg.Trail.Policy = trail.PolicyPrecomputed

			broken, err := session.New(cfg, session.WithBody(&physics.PointMass{GM: math.NaN()}))
			Expect(err).NotTo(HaveOccurred())

			Expect(broken.Rows()).To(HaveLen(1))
			Expect(broken.Frame().Fault).To(MatchError(dynamo.ErrInvalidState))
			Expect(broken.Fault()).To(BeAssignableToTypeOf(&dynamo.SimulationError{}))
			Expect(broken.Start()).To(MatchError(dynamo.ErrFaulted))

			Expect(broken.Reset()).To(Succeed())
			Expect(broken.Fault()).To(MatchError(dynamo.ErrInvalidState))
		})

		It("computes the horizon at initialization", func() {
			Expect(p.Rows()).To(HaveLen(50))
			Expect(p.Frame().Trail).To(HaveLen(1))
		})

		It("plays back and then refuses to start", func() {
			Expect(p.Start()).To(Succeed())
			for range 4 {
				Expect(p.Tick()).To(Succeed())
			}
			Expect(p.Steps()).To(Equal(40))
			Expect(p.Frame().Trail).To(HaveLen(41))

			Expect(p.Tick()).To(MatchError(dynamo.ErrHorizonReached))
			Expect(p.Status()).To(Equal(session.Paused))
			Expect(p.Steps()).To(Equal(49))
			Expect(p.State()).To(Equal(p.Rows()[49].State()))

			Expect(p.Start()).To(MatchError(dynamo.ErrHorizonReached))
			Expect(p.Reset()).To(Succeed())
			Expect(p.Start()).To(Succeed())
		})

		It("replays the same states a live run computes", func() {
			Expect(p.Start()).To(Succeed())
			Expect(p.Tick()).To(Succeed())

			Expect(s.Start()).To(Succeed())
			Expect(s.Tick()).To(Succeed())

			Expect(p.State()).To(Equal(s.State()))
		})
	})

	Describe("layers", func() {
		It("exposes the tiers of a two-tier store", func() {
			layers := s.Frame().Layers
			Expect(layers).To(HaveLen(2))
			Expect(layers[1].Opacity).To(BeNumerically(">", layers[0].Opacity))
		})
	})

	Describe("destroy", func() {
		It("rejects every later operation", func() {
			s.Destroy()
			Expect(s.Start()).To(MatchError(dynamo.ErrDestroyed))
			Expect(s.Pause()).To(MatchError(dynamo.ErrDestroyed))
			Expect(s.Reset()).To(MatchError(dynamo.ErrDestroyed))
			Expect(s.Advance(1)).To(MatchError(dynamo.ErrDestroyed))
			Expect(s.Tick()).To(MatchError(dynamo.ErrDestroyed))
			Expect(s.Rows()).To(BeEmpty())
			Expect(s.Frame().Trail).To(BeEmpty())
		})
	})
})

// Package session drives a single orbit simulation: it owns the current
// state, advances it with the configured integrator, records every step in
// a trail store and exposes frames for renderers.
//
// A Session is not safe for concurrent use. The scheduler (a bubbletea tick
// or a plain loop) calls Tick; each call runs Speed integration steps
// synchronously.
package session

import (
	"context"
	"errors"
	"fmt"

	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
	"github.com/google/uuid"

	"github.com/san-kum/swingby/internal/dynamo"
	"github.com/san-kum/swingby/internal/integrators"
	"github.com/san-kum/swingby/internal/physics"
	"github.com/san-kum/swingby/internal/trail"
)

type Status int

const (
	Idle Status = iota
	Running
	Paused
)

func (s Status) String() string {
	switch s {
	case Idle:
		return "idle"
	case Running:
		return "running"
	case Paused:
		return "paused"
	}
	return fmt.Sprintf("status(%d)", int(s))
}

type Option func(*Session)

// WithLogger sets the logger for lifecycle and fault events. A nil logger
// keeps the default, which discards everything.
func WithLogger(l log.Logger) Option {
	return func(s *Session) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithBody replaces the attractor, Earth by default.
func WithBody(b *physics.PointMass) Option {
	return func(s *Session) { s.body = b }
}

type Session struct {
	id     string
	cfg    Config
	body   *physics.PointMass
	integ  dynamo.Integrator
	store  trail.Store
	replay *trail.Precomputed // set when the store is precomputed
	cutoff error              // invalid step that ended the horizon early

	metrics []dynamo.Metric
	logger  log.Logger

	state     dynamo.State
	steps     int
	status    Status
	fault     error
	destroyed bool
}

// Frame is a read-only view of the session for renderers.
type Frame struct {
	ID     string
	Status Status
	State  dynamo.State
	Steps  int
	Trail  []trail.Point
	Layers []trail.Layer
	Fault  error
}

// New validates cfg and returns an initialized, idle session.
func New(cfg Config, opts ...Option) (*Session, error) {
	s := &Session{
		id:     uuid.NewString(),
		body:   physics.Earth(),
		logger: log.NewNopLogger(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.logger = log.With(s.logger, "subsys", "session", "id", s.id)

	if err := s.Initialize(cfg); err != nil {
		return nil, err
	}
	return s, nil
}

// Initialize discards the run and starts over from cfg.
func (s *Session) Initialize(cfg Config) error {
	if s.destroyed {
		return dynamo.ErrDestroyed
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	integ, err := integrators.New(cfg.Integrator)
	if err != nil {
		return err
	}
	store, err := trail.New(cfg.Trail)
	if err != nil {
		return err
	}

	s.cfg = cfg
	s.integ = integ
	s.store = store
	s.replay, _ = store.(*trail.Precomputed)
	s.state = cfg.Run.Initial
	s.steps = 0
	s.fault = nil
	s.cutoff = nil
	s.status = Idle

	if s.replay != nil {
		if err := s.replay.Compute(s.state, s.next); err != nil {
			// The valid prefix still plays; the fault latches at its end.
			s.cutoff = err
			level.Warn(s.logger).Log("status", "horizon truncated", "points", s.replay.Count(), "err", err)
			if s.replay.Exhausted() {
				s.latch(err)
			}
		}
	} else {
		s.store.Append(trail.PointAt(0, s.state))
	}

	for _, m := range s.metrics {
		m.Reset()
		m.Observe(s.state)
	}

	level.Debug(s.logger).Log("status", s.status, "integrator", cfg.Integrator, "policy", cfg.Trail.Policy, "dt", cfg.Run.Dt, "speed", cfg.Run.Speed)
	return nil
}

func (s *Session) next(st dynamo.State) dynamo.State {
	return s.integ.Step(s.body, st, s.cfg.Run.Dt)
}

// Start moves an idle or paused session to Running.
func (s *Session) Start() error {
	switch {
	case s.destroyed:
		return dynamo.ErrDestroyed
	case s.fault != nil:
		return dynamo.ErrFaulted
	case s.replay != nil && s.replay.Exhausted():
		return dynamo.ErrHorizonReached
	case s.status == Running:
		return nil
	}
	s.status = Running
	level.Debug(s.logger).Log("status", s.status, "step", s.steps)
	return nil
}

// Pause stops a running session. Pausing a session that is not running
// does nothing.
func (s *Session) Pause() error {
	if s.destroyed {
		return dynamo.ErrDestroyed
	}
	if s.status == Running {
		s.status = Paused
		level.Debug(s.logger).Log("status", s.status, "step", s.steps)
	}
	return nil
}

// Reset re-initializes from the current configuration.
func (s *Session) Reset() error {
	if s.destroyed {
		return dynamo.ErrDestroyed
	}
	return s.Initialize(s.cfg)
}

// Advance runs exactly n steps. It stops at the first failing step, which
// leaves the state at the last valid step.
func (s *Session) Advance(n int) error {
	if s.destroyed {
		return dynamo.ErrDestroyed
	}
	if s.status != Running {
		return dynamo.ErrNotRunning
	}
	for range n {
		if err := s.step(); err != nil {
			return err
		}
	}
	return nil
}

func (s *Session) step() error {
	if s.replay != nil {
		p, ok := s.replay.Advance()
		if !ok {
			s.status = Paused
			level.Info(s.logger).Log("status", "horizon reached", "step", s.steps)
			return dynamo.ErrHorizonReached
		}
		if s.replay.Exhausted() && s.cutoff != nil {
			s.commit(p.Index, p.State())
			s.latch(s.cutoff)
			return s.cutoff
		}
		s.commit(p.Index, p.State())
		return nil
	}

	next := s.next(s.state)
	if !next.IsValid() || next.Radius() == 0 {
		err := &dynamo.SimulationError{
			Step:    s.steps + 1,
			Time:    s.state.T + s.cfg.Run.Dt,
			State:   s.state,
			Wrapped: dynamo.ErrInvalidState,
		}
		s.latch(err)
		return err
	}
	s.store.Append(trail.PointAt(s.steps+1, next))
	s.commit(s.steps+1, next)
	return nil
}

// commit replaces the current state once the step is recorded, then feeds
// the observers. A panicking observer leaves state and trail in agreement.
func (s *Session) commit(step int, st dynamo.State) {
	s.state = st
	s.steps = step
	for _, m := range s.metrics {
		m.Observe(st)
	}
}

func (s *Session) latch(err error) {
	s.fault = err
	s.status = Paused
	level.Error(s.logger).Log("status", "faulted", "step", s.steps, "err", err)
}

// Tick advances one scheduler batch of Speed steps. It does nothing unless
// the session is running.
func (s *Session) Tick() (err error) {
	if s.destroyed {
		return dynamo.ErrDestroyed
	}
	if s.status != Running {
		return nil
	}
	defer func() {
		if r := recover(); r != nil {
			err = &dynamo.SimulationError{
				Step:    s.steps,
				Time:    s.state.T,
				State:   s.state,
				Wrapped: fmt.Errorf("%w: %v", dynamo.ErrPanic, r),
			}
			s.latch(err)
		}
	}()
	return s.Advance(s.cfg.Run.Speed)
}

// RunFor starts the session and delivers ticks until the count is reached,
// the context is done or a step fails. Reaching the end of a precomputed
// horizon is not an error.
func (s *Session) RunFor(ctx context.Context, ticks int) error {
	if err := s.Start(); err != nil {
		return err
	}
	for range ticks {
		select {
		case <-ctx.Done():
			s.Pause()
			return ctx.Err()
		default:
		}
		if err := s.Tick(); err != nil {
			if errors.Is(err, dynamo.ErrHorizonReached) {
				return nil
			}
			return err
		}
	}
	return s.Pause()
}

// Destroy releases the store and metrics. Every later call fails with
// ErrDestroyed.
func (s *Session) Destroy() {
	if s.destroyed {
		return
	}
	s.destroyed = true
	s.store = nil
	s.replay = nil
	s.metrics = nil
	s.status = Idle
	level.Debug(s.logger).Log("status", "destroyed")
}

// AddMetric attaches an observer fed after every committed step. The metric
// is reset and sees the current state first.
func (s *Session) AddMetric(m dynamo.Metric) {
	m.Reset()
	m.Observe(s.state)
	s.metrics = append(s.metrics, m)
}

func (s *Session) Metrics() map[string]float64 {
	out := make(map[string]float64, len(s.metrics))
	for _, m := range s.metrics {
		out[m.Name()] = m.Value()
	}
	return out
}

func (s *Session) Frame() Frame {
	f := Frame{
		ID:     s.id,
		Status: s.status,
		State:  s.state,
		Steps:  s.steps,
		Fault:  s.fault,
	}
	if s.store != nil {
		f.Trail = s.store.Snapshot()
		f.Layers = trail.Layers(s.store)
	}
	return f
}

// Rows returns the points to export: the full series for a precomputed
// store, otherwise whatever the store retains.
func (s *Session) Rows() []trail.Point {
	if s.store == nil {
		return nil
	}
	return trail.Exportable(s.store)
}

func (s *Session) ID() string               { return s.id }
func (s *Session) Status() Status           { return s.status }
func (s *Session) State() dynamo.State      { return s.state }
func (s *Session) Steps() int               { return s.steps }
func (s *Session) Fault() error             { return s.fault }
func (s *Session) Config() Config           { return s.cfg }
func (s *Session) Body() *physics.PointMass { return s.body }
func (s *Session) Destroyed() bool          { return s.destroyed }

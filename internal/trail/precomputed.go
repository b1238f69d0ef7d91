package trail

import (
	"github.com/san-kum/swingby/internal/dynamo"
)

// Precomputed holds an eagerly computed trajectory of at most MaxSteps
// points and a playback cursor. Snapshot shows the points played so far.
type Precomputed struct {
	series     []Point
	cursor     int
	maxSteps   int
	bailRadius float64
}

func NewPrecomputed(maxSteps int, bailRadius float64) *Precomputed {
	return &Precomputed{
		series:     make([]Point, 0, maxSteps),
		maxSteps:   maxSteps,
		bailRadius: bailRadius,
	}
}

// Append adds a point to the horizon. Points past MaxSteps are ignored.
func (p *Precomputed) Append(pt Point) {
	if len(p.series) >= p.maxSteps {
		return
	}
	p.series = append(p.series, pt)
}

// Compute fills the horizon from s: each state is recorded before stepping,
// and computation stops once a recorded state is beyond the bail-out radius
// or MaxSteps points exist. An invalid step ends the horizon early and is
// returned as a *dynamo.SimulationError; the points before it are kept.
func (p *Precomputed) Compute(s dynamo.State, step func(dynamo.State) dynamo.State) error {
	p.Reset()
	for i := 0; i < p.maxSteps; i++ {
		p.Append(PointAt(i, s))
		if s.Radius() > p.bailRadius || i == p.maxSteps-1 {
			return nil
		}
		next := step(s)
		if !next.IsValid() || next.Radius() == 0 {
			return &dynamo.SimulationError{Step: i + 1, Time: next.T, State: next, Wrapped: dynamo.ErrInvalidState}
		}
		s = next
	}
	return nil
}

// Advance moves the cursor one point forward. It reports false, leaving the
// cursor on the last point, when the horizon is exhausted.
func (p *Precomputed) Advance() (Point, bool) {
	if len(p.series) == 0 {
		return Point{}, false
	}
	if p.cursor+1 >= len(p.series) {
		return p.series[p.cursor], false
	}
	p.cursor++
	return p.series[p.cursor], true
}

// Exhausted reports whether playback is on the final point.
func (p *Precomputed) Exhausted() bool {
	return p.cursor+1 >= len(p.series)
}

// Cursor is the index in the series of the point last played.
func (p *Precomputed) Cursor() int { return p.cursor }

func (p *Precomputed) Snapshot() []Point {
	if len(p.series) == 0 {
		return []Point{}
	}
	out := make([]Point, p.cursor+1)
	copy(out, p.series[:p.cursor+1])
	return out
}

// Series returns the whole computed horizon.
func (p *Precomputed) Series() []Point {
	out := make([]Point, len(p.series))
	copy(out, p.series)
	return out
}

func (p *Precomputed) Count() int    { return len(p.series) }
func (p *Precomputed) Capacity() int { return p.maxSteps }

func (p *Precomputed) Reset() {
	clear(p.series)
	p.series = p.series[:0]
	p.cursor = 0
}

package analysis

import (
	"github.com/san-kum/swingby/internal/dynamo"
)

// PeriodEstimate samples the radius at every step into a bounded buffer.
// When the buffer fills it keeps every other sample and halves its sampling
// rate, so the whole run stays covered at a uniform rate.
type PeriodEstimate struct {
	dt       float64
	capacity int
	stride   int
	seen     int
	samples  []float64
}

// NewPeriodEstimate samples a run with step dt. Capacity is rounded up to an
// even number of at least 16.
func NewPeriodEstimate(dt float64, capacity int) *PeriodEstimate {
	capacity = max(capacity+capacity%2, 16)
	return &PeriodEstimate{
		dt:       dt,
		capacity: capacity,
		stride:   1,
		samples:  make([]float64, 0, capacity),
	}
}

func (p *PeriodEstimate) Name() string { return "period_estimate" }

func (p *PeriodEstimate) Observe(s dynamo.State) {
	if p.seen%p.stride == 0 {
		p.samples = append(p.samples, s.Radius())
		if len(p.samples) == p.capacity {
			for i := 0; i < p.capacity/2; i++ {
				p.samples[i] = p.samples[2*i]
			}
			p.samples = p.samples[:p.capacity/2]
			p.stride *= 2
		}
	}
	p.seen++
}

// Value is the dominant period of r(t) in seconds, or 0 while unknown.
func (p *PeriodEstimate) Value() float64 {
	t, ok := DominantPeriod(p.samples, p.dt*float64(p.stride))
	if !ok {
		return 0
	}
	return t
}

// Samples returns the radius samples and their spacing in seconds.
func (p *PeriodEstimate) Samples() ([]float64, float64) {
	out := make([]float64, len(p.samples))
	copy(out, p.samples)
	return out, p.dt * float64(p.stride)
}

func (p *PeriodEstimate) Reset() {
	p.samples = p.samples[:0]
	p.stride = 1
	p.seen = 0
}

// Package experiment runs headless sessions side by side, for comparing
// integrators and trail policies on the same initial conditions.
package experiment

import (
	"context"
	"fmt"
	"time"

	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
	"golang.org/x/sync/errgroup"

	"github.com/san-kum/swingby/internal/dynamo"
	"github.com/san-kum/swingby/internal/metrics"
	"github.com/san-kum/swingby/internal/session"
)

// Variant is one named configuration in a comparison.
type Variant struct {
	Name   string
	Config session.Config
}

type Result struct {
	Name       string
	Integrator string
	Policy     string
	Steps      int
	Final      dynamo.State
	Retained   int
	Radii      []float64 // radius of every exported row, oldest first
	Metrics    map[string]float64
	Elapsed    time.Duration
}

type Experiment struct {
	variant Variant
	ticks   int
	logger  log.Logger
}

func New(v Variant, ticks int, logger log.Logger) *Experiment {
	if logger == nil {
		logger = log.NewNopLogger()
	}
	return &Experiment{variant: v, ticks: ticks, logger: logger}
}

// Run executes the variant for the configured number of ticks with the
// standard metric set attached.
func (e *Experiment) Run(ctx context.Context) (*Result, error) {
	s, err := session.New(e.variant.Config, session.WithLogger(e.logger))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", e.variant.Name, err)
	}
	defer s.Destroy()

	for _, m := range metrics.Standard(s.Body()) {
		s.AddMetric(m)
	}

	start := time.Now()
	if err := s.RunFor(ctx, e.ticks); err != nil {
		return nil, fmt.Errorf("%s: %w", e.variant.Name, err)
	}
	elapsed := time.Since(start)

	rows := s.Rows()
	radii := make([]float64, len(rows))
	for i, p := range rows {
		radii[i] = p.State().Radius()
	}

	res := &Result{
		Name:       e.variant.Name,
		Integrator: e.variant.Config.Integrator,
		Policy:     e.variant.Config.Trail.Policy,
		Steps:      s.Steps(),
		Final:      s.State(),
		Retained:   len(s.Frame().Trail),
		Radii:      radii,
		Metrics:    s.Metrics(),
		Elapsed:    elapsed,
	}
	level.Debug(e.logger).Log("subsys", "experiment", "variant", res.Name, "steps", res.Steps, "elapsed", elapsed)
	return res, nil
}

// Compare runs every variant in its own goroutine. Results keep the order of
// variants; the first failure cancels the rest.
func Compare(ctx context.Context, variants []Variant, ticks int, logger log.Logger) ([]Result, error) {
	results := make([]Result, len(variants))
	g, ctx := errgroup.WithContext(ctx)
	for i, v := range variants {
		g.Go(func() error {
			res, err := New(v, ticks, logger).Run(ctx)
			if err != nil {
				return err
			}
			results[i] = *res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

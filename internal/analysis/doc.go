// Package analysis characterizes a trajectory from its samples.
//
//   - [Spectrum]: magnitude spectrum of a uniformly sampled series
//   - [DominantPeriod]: period of the strongest oscillation in a series
//   - [PeriodEstimate]: a dynamo.Metric that samples the orbital radius and
//     reports its dominant period
//
// For a bound orbit the radius oscillates once per revolution, so the
// dominant period of r(t) is the orbital period:
//
//	est := analysis.NewPeriodEstimate(dt, 4096)
//	sess.AddMetric(est)
//	// ... run ...
//	T := est.Value()
package analysis

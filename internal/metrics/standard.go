package metrics

import (
	"github.com/san-kum/swingby/internal/dynamo"
	"github.com/san-kum/swingby/internal/physics"
)

// Standard returns the metric set reported for every run against body.
func Standard(body *physics.PointMass) []dynamo.Metric {
	return []dynamo.Metric{
		NewEnergyDrift(body),
		NewAngularMomentumDrift(),
		NewPeriapsis(),
		NewApoapsis(),
		NewClearance(body.Radius),
	}
}

package experiment

import (
	"github.com/san-kum/swingby/internal/integrators"
	"github.com/san-kum/swingby/internal/session"
	"github.com/san-kum/swingby/internal/trail"
)

// ByIntegrator varies only the integrator. An empty list means all of them.
func ByIntegrator(base session.Config, names []string) []Variant {
	if len(names) == 0 {
		names = integrators.Names()
	}
	out := make([]Variant, 0, len(names))
	for _, name := range names {
		cfg := base
		cfg.Integrator = name
		out = append(out, Variant{Name: name, Config: cfg})
	}
	return out
}

// ByPolicy varies only the trail policy, keeping the other trail limits.
// An empty list means all of them.
func ByPolicy(base session.Config, policies []string) []Variant {
	if len(policies) == 0 {
		policies = trail.Policies()
	}
	out := make([]Variant, 0, len(policies))
	for _, p := range policies {
		cfg := base
		cfg.Trail.Policy = p
		out = append(out, Variant{Name: p, Config: cfg})
	}
	return out
}

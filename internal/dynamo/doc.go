// Package dynamo provides the core simulation primitives for the swingby
// orbit simulator.
//
// The package defines the fundamental interfaces and types shared by the
// integrators, the trajectory stores and the session driver:
//
//   - [State]: time, position and velocity of the orbiting body
//   - [Field]: acceleration field (dv/dt = a(x))
//   - [Integrator]: fixed-step numerical integrator
//   - [Metric]: per-step observer reporting a scalar
//   - [Config]: run parameters read once at initialization
//
// # Example
//
//	field := physics.Earth()
//	integ := integrators.NewRK4()
//	next := integ.Step(field, dynamo.NewState(7e6, 0, 0, 7.5e3), 1.0)
//
// # Errors
//
// Step faults are reported as [*SimulationError] wrapping one of the
// sentinel errors, so callers can use errors.Is.
package dynamo

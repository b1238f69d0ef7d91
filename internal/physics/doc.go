// Package physics provides the gravity model for the orbit simulator.
//
// [PointMass] implements [dynamo.Field] with Newtonian inverse-square
// attraction toward the origin, and [dynamo.Hamiltonian] for specific
// orbital energy:
//
//	earth := physics.Earth()
//	e := earth.Energy(state)
//	T := earth.Period(earth.SemiMajorAxis(state))
//
// Only a single attractor is modeled; there are no perturbations, drag or
// collision handling. A state at the origin is singular and callers must
// keep r > 0.
package physics

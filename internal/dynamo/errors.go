package dynamo

import (
	"errors"
	"fmt"
)

// Domain errors for simulation operations.
var (
	// ErrInvalidConfig indicates a configuration that must not be simulated.
	ErrInvalidConfig = errors.New("dynamo: invalid configuration")

	// ErrSingularState indicates the body sits on the attractor (r = 0).
	ErrSingularState = errors.New("dynamo: singular state (r = 0)")

	// ErrInvalidState indicates a state with NaN or Inf components.
	ErrInvalidState = errors.New("dynamo: invalid state (NaN or Inf detected)")

	// ErrPanic indicates a panic recovered while stepping.
	ErrPanic = errors.New("dynamo: panic during step")

	// ErrNotRunning indicates a step was requested outside the Running status.
	ErrNotRunning = errors.New("dynamo: session is not running")

	// ErrFaulted indicates the session latched a fault and needs a reset.
	ErrFaulted = errors.New("dynamo: session faulted, reset required")

	// ErrHorizonReached indicates precomputed playback reached its end.
	ErrHorizonReached = errors.New("dynamo: precomputed horizon reached")

	// ErrDestroyed indicates use of a destroyed session.
	ErrDestroyed = errors.New("dynamo: session destroyed")

	// ErrUnknownPolicy indicates an unrecognized trail retention policy.
	ErrUnknownPolicy = errors.New("dynamo: unknown trail policy")

	// ErrUnknownIntegrator indicates an unrecognized integrator name.
	ErrUnknownIntegrator = errors.New("dynamo: unknown integrator")
)

// SimulationError wraps an error with simulation context.
type SimulationError struct {
	Step    int
	Time    float64
	State   State
	Wrapped error
}

func (e *SimulationError) Error() string {
	return fmt.Sprintf("step %d (t=%.4f): %v", e.Step, e.Time, e.Wrapped)
}

func (e *SimulationError) Unwrap() error {
	return e.Wrapped
}

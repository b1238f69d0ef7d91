// Package viz renders a running session in the terminal.
//
// The package implements the live view using the Bubble Tea framework:
//
//   - [Model]: live view of one session, driven by tick messages
//   - [Canvas]: Braille-based pixel canvas for high-fidelity rendering
//   - [RunInteractive]: preset picker in front of the live view
//
// # Key Bindings
//
//	Space - Start/Pause simulation
//	R     - Reset to initial state
//	T     - Cycle color themes
//	E     - Write an SVG snapshot of the trail
//	?     - Show help overlay
//
// Each tick message runs one session tick, so the frame rate bounds how
// fast the simulation advances; the session's speed sets steps per tick.
package viz

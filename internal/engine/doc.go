// Package engine implements the gravity simulation core.
//
// An [Engine] owns a list of [ObjectState] entries and advances them in
// fixed ticks:
//
//   - pairwise Newtonian gravity, skipped below a distance floor
//   - semi-implicit Euler integration of every movable body
//   - optional collision handling: bodies whose centers overlap are merged,
//     and bodies in surface contact bounce elastically when enabled
//
// Immovable bodies act as anchors. Their velocity and acceleration are
// always zero.
//
// # Thread Safety
//
// Engine is NOT safe for concurrent use. The runner package wraps it with a
// timer loop and a mutex for callers that need free-running simulation.
package engine

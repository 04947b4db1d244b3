// Package analysis provides post-run tools for recorded trajectories.
//
//   - [PowerSpectrum] and [DominantPeriod]: spectral estimate of orbital periods
//   - [Crossings]: upward threshold crossings of a sampled series
//   - [NewPhasePortrait]: 2D projection of a trace onto two columns
//   - [Divergence]: separation growth between two nearby runs
//
// # Orbital Periods
//
// The x coordinate of an orbiting body is close to sinusoidal, so its
// strongest spectral bin gives the period:
//
//	xs, _ := trace.Body(id).Column("x")
//	period := analysis.DominantPeriod(xs, sampleInterval)
package analysis

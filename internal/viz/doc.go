// Package viz renders a running simulation in the terminal.
//
// [Model] is a Bubble Tea program over a [runner.Runner]. Bodies are drawn
// as filled discs on a braille [Canvas]; the side panel shows counters, an
// energy chart and a momentum sparkline.
//
// # Key Bindings
//
//	Space - Run/Stop the timer loop
//	N     - Single step (stopped only)
//	R     - Reset to the scenario
//	C     - Toggle collision detection
//	E     - Toggle elastic response
//	+/-   - Scale g up or down
//	V     - Toggle velocity arrows
//	Q     - Quit
package viz

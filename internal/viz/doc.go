// Package viz provides a terminal viewer for a running grain simulation.
//
// The viewer is a Bubble Tea program that steps a [session.Session] on a
// timer and paints the grid with half-block characters, two lattice rows
// per terminal line. Large grids are sampled down to the view size.
//
// # Key Bindings
//
//	Space - Pause/Resume
//	N     - Single step while paused
//	R     - Reset and rerun the setup
//	E     - Toggle stored-energy view
//	S     - Add seeds
//	F     - Fill with random grains
//	I     - Add inclusions
//	B     - Thicken grain borders
//	P     - Pin a random grain
//	C     - Clear non-static grains
//	X     - Nucleate
//	M     - Cycle computation mode
//	K     - Cycle kernel
//	T     - Cycle color themes
//	G     - Toggle GIF recording
//	?     - Show help overlay
//
// # Recording
//
// G records one frame per step and writes grainsim.gif to the current
// directory when recording stops.
package viz

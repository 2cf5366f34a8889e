// Package viz draws a running particle world in the terminal.
//
// The live view is a Bubble Tea program:
//
//   - [Model]: steps a world in real time and renders it on a [Canvas]
//   - [Canvas]: braille dot canvas with one colour per character cell
//   - [RunInteractive]: preset picker that opens the live view
//
// Particles are drawn blue when still and red at speed. Moving the mouse
// over the canvas creates and then drags a heavy pointer particle; the
// speed of the drag is what it throws with.
//
// # Key Bindings
//
//	Space - Pause/Resume simulation
//	A     - Add a random particle
//	R     - Reset to the initial world
//	T     - Cycle color themes
//	?     - Show help overlay
//	Q     - Quit
package viz

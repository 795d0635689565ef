// Package viz presents a running simulation in the terminal.
//
//   - [Terminal]: a sim.Presenter drawing frames as ▀ half blocks or braille dots
//   - [Model]: the Bubble Tea program that ticks a sim.Loop and draws the HUD
//   - [Picker]: a preset menu shown before a run
//
// # Key Bindings
//
//	Space - Pause/Resume simulation
//	R     - Reseed the domain
//	T     - Cycle color themes
//	G     - Toggle GIF recording
//	?     - Show help overlay
//	Q     - Quit
//
// # Recording
//
// G tees presented frames into an export.GIFRecorder; pressing it again saves
// the animation to the path given by [WithGIFPath].
package viz

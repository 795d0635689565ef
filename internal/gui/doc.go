// Package gui presents a simulation in a raylib window.
//
// [Window] is the sim.Presenter: each frame is uploaded into one texture,
// recreated only when the frame size changes. [App] owns the window and
// ticks the loop once per rendered frame, so raylib calls stay on the main
// thread.
//
//	Space  - Pause/Resume
//	R      - Reseed
//	H      - Toggle HUD
//	Q, Esc - Quit
//
// Resizing the window resizes the loop to the new framebuffer size.
package gui

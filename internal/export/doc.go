// Package export captures rendered frames: animated GIFs through [GIFRecorder],
// single-frame [PNG] and [SVG] snapshots, and [Tee] for presenting one frame
// to several sinks. Only images are written, never simulation state.
package export

// Package raster converts a generation into an RGBA pixel buffer.
//
// [Grid] maps cells to pixels directly, or by nearest neighbour when the
// surface is a different size. [Splat] clears the surface and paints a
// square per particle. [Surface] holds the buffer and supports a two-phase
// Prepare/Commit resize so a failed allocation never leaves it empty.
package raster

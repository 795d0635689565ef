// Package physics provides the per-element update rules for each domain.
//
//   - [Life]: toroidal B3/S23 cellular automaton over []uint8
//   - [NBody]: all-pairs softened gravity over []Particle
//
// Each rule has an Advance(cur, next, start, end) method that writes only
// next[start:end] and reads only cur, so any partition of the index range
// may run concurrently:
//
//	life := physics.NewLife(w, h)
//	life.Advance(buf.Current(), buf.Next(), 0, w*h)
package physics

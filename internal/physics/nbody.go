package physics

import (
	"math"
	"math/rand/v2"
)

// Particle is one body of the system. Its identity is its index.
type Particle struct {
	X, Y   float64
	VX, VY float64
}

// NBody integrates unit-mass particles under all-pairs softened gravity.
type NBody struct {
	G         float64
	Softening float64
	Dt        float64
}

func NewNBody() NBody {
	return NBody{G: 5e-2, Softening: 0.1, Dt: 1e-3}
}

// PairForce returns r / (|r|^2 + eps2)^1.5 with r = pj - pi. Swapping the
// arguments negates the result exactly.
func PairForce(pi, pj Particle, eps2 float64) (fx, fy float64) {
	rx := pj.X - pi.X
	ry := pj.Y - pi.Y
	r2 := rx*rx + ry*ry + eps2
	if r2 == 0 {
		return 0, 0
	}

	rInv := 1.0 / math.Sqrt(r2)
	r3Inv := rInv * rInv * rInv
	return rx * r3Inv, ry * r3Inv
}

// Force returns the total force on particle i.
func (nb NBody) Force(ps []Particle, i int) (fx, fy float64) {
	eps2 := nb.Softening * nb.Softening
	pi := ps[i]
	for j := range ps {
		if j == i {
			continue
		}
		dx, dy := PairForce(pi, ps[j], eps2)
		fx += dx
		fy += dy
	}
	return nb.G * fx, nb.G * fy
}

// Advance writes particles [start, end) of the next generation using
// semi-implicit Euler, reading only cur.
func (nb NBody) Advance(cur, next []Particle, start, end int) {
	for i := start; i < end; i++ {
		fx, fy := nb.Force(cur, i)
		p := cur[i]
		p.VX += fx * nb.Dt
		p.VY += fy * nb.Dt
		p.X += p.VX * nb.Dt
		p.Y += p.VY * nb.Dt
		next[i] = p
	}
}

// Energy returns kinetic plus softened potential energy.
func (nb NBody) Energy(ps []Particle) float64 {
	eps2 := nb.Softening * nb.Softening
	ke, pe := 0.0, 0.0
	for i := range ps {
		ke += 0.5 * (ps[i].VX*ps[i].VX + ps[i].VY*ps[i].VY)
		for j := i + 1; j < len(ps); j++ {
			rx := ps[j].X - ps[i].X
			ry := ps[j].Y - ps[i].Y
			r := math.Sqrt(rx*rx + ry*ry + eps2)
			if r > 0 {
				pe -= nb.G / r
			}
		}
	}
	return ke + pe
}

func Momentum(ps []Particle) (px, py float64) {
	for _, p := range ps {
		px += p.VX
		py += p.VY
	}
	return
}

// Scatter places particles uniformly in the unit square with velocities
// uniform in [-1, 1).
func Scatter(ps []Particle, rng *rand.Rand) {
	for i := range ps {
		ps[i] = Particle{
			X:  rng.Float64(),
			Y:  rng.Float64(),
			VX: rng.Float64()*2 - 1,
			VY: rng.Float64()*2 - 1,
		}
	}
}

// WrapUnit folds positions of particles [start, end) back into [0, 1).
func WrapUnit(ps []Particle, start, end int) {
	for i := start; i < end; i++ {
		ps[i].X -= math.Floor(ps[i].X)
		ps[i].Y -= math.Floor(ps[i].Y)
	}
}

package integrators

import (
	"context"

	"github.com/san-kum/framesim/internal/compute"
	"github.com/san-kum/framesim/internal/physics"
)

// Verlet is velocity Verlet. The first dispatch writes drifted positions and
// half-kicked velocities into next, the second evaluates forces at the new
// positions into a scratch buffer, and the third applies the second half
// kick. A Verlet value must not be shared between domains.
type Verlet struct {
	acc []float64
}

func NewVerlet() *Verlet {
	return &Verlet{}
}

func (v *Verlet) Name() string { return "verlet" }

func (v *Verlet) Step(ctx context.Context, b compute.Backend, nb physics.NBody, cur, next []physics.Particle, finish compute.Kernel) error {
	n := len(cur)
	halfDt := 0.5 * nb.Dt
	if len(v.acc) != 2*n {
		v.acc = make([]float64, 2*n)
	}
	acc := v.acc

	err := b.Dispatch(ctx, n, func(start, end int) {
		for i := start; i < end; i++ {
			ax, ay := nb.Force(cur, i)
			p := cur[i]
			p.VX += ax * halfDt
			p.VY += ay * halfDt
			p.X += p.VX * nb.Dt
			p.Y += p.VY * nb.Dt
			next[i] = p
		}
	})
	if err != nil {
		return err
	}

	err = b.Dispatch(ctx, n, func(start, end int) {
		for i := start; i < end; i++ {
			acc[2*i], acc[2*i+1] = nb.Force(next, i)
		}
	})
	if err != nil {
		return err
	}

	return b.Dispatch(ctx, n, func(start, end int) {
		for i := start; i < end; i++ {
			next[i].VX += acc[2*i] * halfDt
			next[i].VY += acc[2*i+1] * halfDt
		}
		if finish != nil {
			finish(start, end)
		}
	})
}

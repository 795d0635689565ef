package integrators

import (
	"context"

	"github.com/san-kum/framesim/internal/compute"
	"github.com/san-kum/framesim/internal/physics"
)

// Euler is semi-implicit: velocities are kicked first and the new velocity
// moves the particle. One dispatch per step.
type Euler struct{}

func NewEuler() *Euler {
	return &Euler{}
}

func (e *Euler) Name() string { return "euler" }

func (e *Euler) Step(ctx context.Context, b compute.Backend, nb physics.NBody, cur, next []physics.Particle, finish compute.Kernel) error {
	return b.Dispatch(ctx, len(cur), func(start, end int) {
		nb.Advance(cur, next, start, end)
		if finish != nil {
			finish(start, end)
		}
	})
}

package integrators

import (
	"context"
	"fmt"

	"github.com/san-kum/framesim/internal/compute"
	"github.com/san-kum/framesim/internal/physics"
)

// Integrator advances a particle generation from cur into next. Kernels may
// only write next; finish, when non-nil, runs over each chunk once next
// holds final positions and velocities.
type Integrator interface {
	Name() string
	Step(ctx context.Context, b compute.Backend, nb physics.NBody, cur, next []physics.Particle, finish compute.Kernel) error
}

func New(name string) (Integrator, error) {
	switch name {
	case "", "euler":
		return NewEuler(), nil
	case "verlet":
		return NewVerlet(), nil
	}
	return nil, fmt.Errorf("unknown integrator: %s", name)
}

func Names() []string { return []string{"euler", "verlet"} }

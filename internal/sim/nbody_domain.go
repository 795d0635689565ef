package sim

import (
	"context"
	"image"
	"image/color"
	"math"
	"math/rand/v2"

	"github.com/san-kum/framesim/internal/compute"
	"github.com/san-kum/framesim/internal/dynamo"
	"github.com/san-kum/framesim/internal/integrators"
	"github.com/san-kum/framesim/internal/physics"
	"github.com/san-kum/framesim/internal/raster"
)

type NBodyParams struct {
	Count     int
	G         float64
	Softening float64
	Dt        float64

	Radius     float64
	Background color.RGBA
	Particle   color.RGBA

	// Wrap folds positions back into the unit square after each step.
	Wrap bool

	// Integrator defaults to semi-implicit Euler.
	Integrator integrators.Integrator

	Alloc dynamo.Allocator[physics.Particle]
}

// NBodyDomain is an all-pairs gravitational system. Resizing the loop only
// changes the surface it is splatted onto.
type NBodyDomain struct {
	nb    physics.NBody
	buf   *dynamo.Buffer[physics.Particle]
	integ integrators.Integrator
	splat raster.Splat
	wrap  bool
}

func NewNBodyDomain(p NBodyParams) (*NBodyDomain, error) {
	switch {
	case p.Count < 0:
		return nil, dynamo.Invalidf("particle count %d", p.Count)
	case !(p.Dt > 0) || math.IsInf(p.Dt, 0):
		return nil, dynamo.Invalidf("dt %g", p.Dt)
	case p.Softening < 0 || math.IsNaN(p.Softening):
		return nil, dynamo.Invalidf("softening %g", p.Softening)
	case math.IsNaN(p.G) || math.IsInf(p.G, 0):
		return nil, dynamo.Invalidf("G %g", p.G)
	case p.Radius < 0 || p.Radius > 0.5:
		return nil, dynamo.Invalidf("splat radius %g outside [0,0.5]", p.Radius)
	}
	buf, err := dynamo.NewBufferWith(p.Count, p.Alloc)
	if err != nil {
		return nil, err
	}
	integ := p.Integrator
	if integ == nil {
		integ = integrators.NewEuler()
	}
	return &NBodyDomain{
		nb:    physics.NBody{G: p.G, Softening: p.Softening, Dt: p.Dt},
		buf:   buf,
		integ: integ,
		splat: raster.Splat{
			Background: p.Background,
			Particle:   p.Particle,
			Radius:     p.Radius,
		},
		wrap: p.Wrap,
	}, nil
}

func (d *NBodyDomain) Name() string { return "nbody" }

func (d *NBodyDomain) Step(ctx context.Context, backend compute.Backend) error {
	cur, next := d.buf.Current(), d.buf.Next()
	var finish compute.Kernel
	if d.wrap {
		finish = func(start, end int) { physics.WrapUnit(next, start, end) }
	}
	return d.integ.Step(ctx, backend, d.nb, cur, next, finish)
}

func (d *NBodyDomain) Integrator() string { return d.integ.Name() }

func (d *NBodyDomain) Swap() { d.buf.Swap() }

func (d *NBodyDomain) Rasterize(dst *image.RGBA) {
	d.splat.Rasterize(d.buf.Current(), dst)
}

func (d *NBodyDomain) Reset(rng *rand.Rand) {
	physics.Scatter(d.buf.Current(), rng)
}

func (d *NBodyDomain) Release() { d.buf.Release() }

func (d *NBodyDomain) Sample(key string) (float64, bool) {
	ps := d.buf.Current()
	switch key {
	case "energy":
		return d.nb.Energy(ps), true
	case "momentum":
		px, py := physics.Momentum(ps)
		return math.Hypot(px, py), true
	}
	return 0, false
}

func (d *NBodyDomain) Count() int { return d.buf.Len() }

// Generation returns a copy of the current particles.
func (d *NBodyDomain) Generation() []physics.Particle {
	return append([]physics.Particle(nil), d.buf.Current()...)
}

func (d *NBodyDomain) Load(ps []physics.Particle) {
	copy(d.buf.Current(), ps)
}

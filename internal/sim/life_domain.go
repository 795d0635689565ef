package sim

import (
	"context"
	"image"
	"image/color"
	"math/rand/v2"

	"github.com/san-kum/framesim/internal/compute"
	"github.com/san-kum/framesim/internal/dynamo"
	"github.com/san-kum/framesim/internal/physics"
	"github.com/san-kum/framesim/internal/raster"
)

type LifeParams struct {
	Width   int
	Height  int
	Density float64
	Alive   color.RGBA
	Dead    color.RGBA

	// Alloc overrides the generation allocator.
	Alloc dynamo.Allocator[uint8]
}

// LifeDomain is a toroidal Game of Life over a double-buffered cell grid.
type LifeDomain struct {
	life    physics.Life
	buf     *dynamo.Buffer[uint8]
	grid    raster.Grid
	density float64
}

// NewLifeDomain allocates an all-dead grid. Seed it with Reset.
func NewLifeDomain(p LifeParams) (*LifeDomain, error) {
	if p.Width <= 0 || p.Height <= 0 {
		return nil, dynamo.Invalidf("life grid %dx%d", p.Width, p.Height)
	}
	if p.Density < 0 || p.Density > 1 {
		return nil, dynamo.Invalidf("initial density %g outside [0,1]", p.Density)
	}
	if p.Width > dynamo.MaxElements/p.Height {
		return nil, dynamo.Invalidf("life grid %dx%d too large", p.Width, p.Height)
	}
	buf, err := dynamo.NewBufferWith(p.Width*p.Height, p.Alloc)
	if err != nil {
		return nil, err
	}
	return &LifeDomain{
		life:    physics.NewLife(p.Width, p.Height),
		buf:     buf,
		grid:    raster.Grid{Alive: p.Alive, Dead: p.Dead},
		density: p.Density,
	}, nil
}

func (d *LifeDomain) Name() string { return "life" }

func (d *LifeDomain) Step(ctx context.Context, backend compute.Backend) error {
	cur, next := d.buf.Current(), d.buf.Next()
	life := d.life
	return backend.Dispatch(ctx, len(cur), func(start, end int) {
		life.Advance(cur, next, start, end)
	})
}

func (d *LifeDomain) Swap() { d.buf.Swap() }

func (d *LifeDomain) Rasterize(dst *image.RGBA) {
	d.grid.Rasterize(d.buf.Current(), d.life.Width, d.life.Height, dst)
}

func (d *LifeDomain) Reset(rng *rand.Rand) {
	physics.Seed(d.buf.Current(), d.density, rng)
}

func (d *LifeDomain) Release() { d.buf.Release() }

// Resize reallocates the grid at w x h. ResizePreserve keeps the top-left
// overlap, anything else reseeds.
func (d *LifeDomain) Resize(w, h int, policy ResizePolicy, rng *rand.Rand) error {
	if w <= 0 || h <= 0 || w > dynamo.MaxElements/h {
		return dynamo.Invalidf("life grid %dx%d", w, h)
	}
	oldW, oldH := d.life.Width, d.life.Height

	var fill func(old, fresh []uint8)
	if policy == ResizePreserve {
		fill = func(old, fresh []uint8) {
			physics.CopyOverlap(fresh, w, h, old, oldW, oldH)
		}
	}
	if err := d.buf.Reallocate(w*h, fill); err != nil {
		return err
	}
	d.life = physics.NewLife(w, h)
	if policy != ResizePreserve {
		physics.Seed(d.buf.Current(), d.density, rng)
	}
	return nil
}

func (d *LifeDomain) Sample(key string) (float64, bool) {
	if key == "population" {
		return float64(physics.Population(d.buf.Current())), true
	}
	return 0, false
}

// Size returns the grid dimensions.
func (d *LifeDomain) Size() (w, h int) { return d.life.Width, d.life.Height }

// Generation returns a copy of the current cells.
func (d *LifeDomain) Generation() []uint8 {
	return append([]uint8(nil), d.buf.Current()...)
}

// Load copies cells into the current generation. Extra or missing cells are
// ignored.
func (d *LifeDomain) Load(cells []uint8) {
	copy(d.buf.Current(), cells)
}

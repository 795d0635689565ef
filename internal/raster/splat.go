package raster

import (
	"image"
	"image/color"
	"math"

	"github.com/san-kum/framesim/internal/physics"
)

// Splat paints each particle as a filled square on a cleared background.
// Radius is a fraction of the output width. Overlapping particles are drawn
// in index order, later ones on top.
type Splat struct {
	Background color.RGBA
	Particle   color.RGBA
	Radius     float64
}

// Rasterize maps unit-square positions onto dst. Pixels falling outside the
// buffer are clamped to its edge.
func (s Splat) Rasterize(ps []physics.Particle, dst *image.RGBA) {
	Fill(dst, s.Background)

	outW, outH := dst.Rect.Dx(), dst.Rect.Dy()
	half := int(float64(outW) * s.Radius)
	for _, p := range ps {
		if math.IsNaN(p.X) || math.IsNaN(p.Y) {
			continue
		}
		px := toPixel(p.X, outW)
		py := toPixel(p.Y, outH)
		for dy := -half; dy <= half; dy++ {
			y := clamp(py+dy, outH-1)
			for dx := -half; dx <= half; dx++ {
				set(dst, clamp(px+dx, outW-1), y, s.Particle)
			}
		}
	}
}

// toPixel returns int(v*(size-1)), saturated so far-away particles cannot
// overflow the conversion.
func toPixel(v float64, size int) int {
	f := v * float64(size-1)
	switch {
	case f < -1<<30:
		return -1 << 30
	case f > 1<<30:
		return 1 << 30
	}
	return int(f)
}

func clamp(v, hi int) int {
	if v < 0 {
		return 0
	}
	if v > hi {
		return hi
	}
	return v
}

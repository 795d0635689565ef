package raster

import (
	"image"
	"image/color"
)

// Grid paints one colour per cell state.
type Grid struct {
	Alive color.RGBA
	Dead  color.RGBA
}

// Rasterize paints a w x h cell grid into dst. When dst differs in size each
// pixel takes the nearest cell.
func (g Grid) Rasterize(cells []uint8, w, h int, dst *image.RGBA) {
	outW, outH := dst.Rect.Dx(), dst.Rect.Dy()
	if outW == w && outH == h {
		for y := 0; y < h; y++ {
			row := cells[y*w : (y+1)*w]
			for x, c := range row {
				set(dst, x, y, g.pick(c))
			}
		}
		return
	}

	cols := make([]int, outW)
	for x := range cols {
		cols[x] = x * w / outW
	}
	for y := 0; y < outH; y++ {
		row := cells[(y*h/outH)*w:]
		for x, cx := range cols {
			set(dst, x, y, g.pick(row[cx]))
		}
	}
}

func (g Grid) pick(c uint8) color.RGBA {
	if c != 0 {
		return g.Alive
	}
	return g.Dead
}

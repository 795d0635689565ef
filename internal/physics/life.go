package physics

import "math/rand/v2"

// Life is Conway's Game of Life on a toroidal Width x Height grid. Cells are
// stored row-major, 1 for alive and 0 for dead.
type Life struct {
	Width  int
	Height int
}

func NewLife(w, h int) Life {
	return Life{Width: w, Height: h}
}

// Cells returns the number of cells in one generation.
func (l Life) Cells() int { return l.Width * l.Height }

// LiveNeighbors counts alive cells in the 3x3 toroidal window around (x, y),
// excluding the centre. Grids narrower than three cells count wrapped
// duplicates.
func LiveNeighbors(cur []uint8, w, h, x, y int) int {
	sum := 0
	for j := y - 1; j <= y+1; j++ {
		row := ((j + h) % h) * w
		for i := x - 1; i <= x+1; i++ {
			sum += int(cur[row+(i+w)%w])
		}
	}
	return sum - int(cur[y*w+x])
}

// NextCell applies the B3/S23 rule.
func NextCell(alive bool, n int) bool {
	return n == 3 || (n == 2 && alive)
}

// Advance writes cells [start, end) of the next generation, reading only cur.
func (l Life) Advance(cur, next []uint8, start, end int) {
	w, h := l.Width, l.Height
	for idx := start; idx < end; idx++ {
		x, y := idx%w, idx/w
		if NextCell(cur[idx] == 1, LiveNeighbors(cur, w, h, x, y)) {
			next[idx] = 1
		} else {
			next[idx] = 0
		}
	}
}

// Seed fills cells with alive cells at the given density.
func Seed(cells []uint8, density float64, rng *rand.Rand) {
	for i := range cells {
		if rng.Float64() < density {
			cells[i] = 1
		} else {
			cells[i] = 0
		}
	}
}

// CopyOverlap copies the region shared by a sw x sh grid and a dw x dh grid,
// leaving the rest of dst untouched.
func CopyOverlap(dst []uint8, dw, dh int, src []uint8, sw, sh int) {
	w, h := min(dw, sw), min(dh, sh)
	for y := 0; y < h; y++ {
		copy(dst[y*dw:y*dw+w], src[y*sw:y*sw+w])
	}
}

// Population counts alive cells.
func Population(cells []uint8) int {
	n := 0
	for _, c := range cells {
		n += int(c)
	}
	return n
}

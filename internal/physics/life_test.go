package physics

import (
	"math/rand/v2"
	"testing"
)

func grid(rows ...string) ([]uint8, int, int) {
	h := len(rows)
	w := len(rows[0])
	cells := make([]uint8, w*h)
	for y, row := range rows {
		for x, c := range row {
			if c == '#' {
				cells[y*w+x] = 1
			}
		}
	}
	return cells, w, h
}

func step(cells []uint8, w, h int) []uint8 {
	next := make([]uint8, len(cells))
	NewLife(w, h).Advance(cells, next, 0, len(cells))
	return next
}

func equal(a, b []uint8) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestNextCellRule(t *testing.T) {
	for n := 0; n <= 8; n++ {
		for _, alive := range []bool{false, true} {
			want := n == 3 || (n == 2 && alive)
			if got := NextCell(alive, n); got != want {
				t.Errorf("NextCell(%v, %d) = %v, want %v", alive, n, got, want)
			}
		}
	}
}

func TestToroidalWrap(t *testing.T) {
	tests := []struct {
		name   string
		rows   []string
		x, y   int
		expect int
	}{
		{"opposite corner", []string{".....", ".....", "....#"}, 0, 0, 1},
		{"right edge", []string{"....#", ".....", "....."}, 0, 0, 1},
		{"bottom edge", []string{".....", ".....", "#...."}, 0, 0, 1},
		{"all corners", []string{"#...#", ".....", "#...#"}, 0, 0, 3},
		{"not a neighbor", []string{"..#..", ".....", "....."}, 0, 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cells, w, h := grid(tt.rows...)
			if got := LiveNeighbors(cells, w, h, tt.x, tt.y); got != tt.expect {
				t.Errorf("expected %d neighbors, got %d", tt.expect, got)
			}
		})
	}
}

func TestStillLifeBlock(t *testing.T) {
	cells, w, h := grid(
		"......",
		"......",
		"..##..",
		"..##..",
		"......",
		"......",
	)
	if next := step(cells, w, h); !equal(next, cells) {
		t.Error("block changed after one step")
	}
}

func TestLoneCellDies(t *testing.T) {
	cells, w, h := grid(
		".....",
		".....",
		"..#..",
		".....",
		".....",
	)
	if Population(step(cells, w, h)) != 0 {
		t.Error("isolated cell survived")
	}
}

func TestTinyTorusCollapse(t *testing.T) {
	cells, w, h := grid(
		"...",
		".#.",
		"...",
	)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			want := 1
			if x == 1 && y == 1 {
				want = 0
			}
			if n := LiveNeighbors(cells, w, h, x, y); n != want {
				t.Errorf("(%d,%d): %d neighbors, want %d", x, y, n, want)
			}
		}
	}
	if Population(step(cells, w, h)) != 0 {
		t.Error("3x3 torus should go extinct")
	}
}

func TestBlinkerOscillates(t *testing.T) {
	vertical, w, h := grid(
		".....",
		"..#..",
		"..#..",
		"..#..",
		".....",
	)
	horizontal, _, _ := grid(
		".....",
		".....",
		".###.",
		".....",
		".....",
	)

	gen1 := step(vertical, w, h)
	if !equal(gen1, horizontal) {
		t.Error("blinker did not rotate")
	}
	if !equal(step(gen1, w, h), vertical) {
		t.Error("blinker period is not 2")
	}
}

func TestGliderCrossesTorus(t *testing.T) {
	start, w, h := grid(
		".#......",
		"..#.....",
		"###.....",
		"........",
		"........",
		"........",
		"........",
		"........",
	)

	cells := start
	for i := 0; i < 4*w; i++ {
		cells = step(cells, w, h)
		if Population(cells) != 5 {
			t.Fatalf("generation %d: population %d, want 5", i+1, Population(cells))
		}
	}
	if !equal(cells, start) {
		t.Error("glider did not return to its start after a full lap")
	}
}

func TestAdvancePartitionIndependent(t *testing.T) {
	const w, h = 37, 23
	cells := make([]uint8, w*h)
	Seed(cells, 0.3, rand.New(rand.NewPCG(7, 0)))

	whole := step(cells, w, h)

	life := NewLife(w, h)
	parts := make([]uint8, len(cells))
	for start := 0; start < len(cells); start += 100 {
		life.Advance(cells, parts, start, min(start+100, len(cells)))
	}
	if !equal(whole, parts) {
		t.Error("chunked advance differs from a single pass")
	}
}

func TestSeedDensity(t *testing.T) {
	cells := make([]uint8, 10000)
	Seed(cells, 0.3, rand.New(rand.NewPCG(1, 0)))
	frac := float64(Population(cells)) / float64(len(cells))
	if frac < 0.27 || frac > 0.33 {
		t.Errorf("density %.3f not near 0.3", frac)
	}

	Seed(cells, 0, rand.New(rand.NewPCG(1, 0)))
	if Population(cells) != 0 {
		t.Error("zero density should seed nothing")
	}
}

func TestCopyOverlap(t *testing.T) {
	src, sw, sh := grid(
		"##",
		"#.",
	)
	dst := make([]uint8, 9)
	CopyOverlap(dst, 3, 3, src, sw, sh)
	want := []uint8{1, 1, 0, 1, 0, 0, 0, 0, 0}
	if !equal(dst, want) {
		t.Errorf("got %v, want %v", dst, want)
	}
}

func BenchmarkLifeAdvance(b *testing.B) {
	const w, h = 800, 600
	cells := make([]uint8, w*h)
	next := make([]uint8, w*h)
	Seed(cells, 0.3, rand.New(rand.NewPCG(1, 0)))
	life := NewLife(w, h)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		life.Advance(cells, next, 0, len(cells))
		cells, next = next, cells
	}
}

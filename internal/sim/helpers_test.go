package sim_test

import (
	"context"
	"fmt"
	"image"
	"image/color"
	"sync/atomic"

	"github.com/san-kum/framesim/internal/compute"
	"github.com/san-kum/framesim/internal/dynamo"
	"github.com/san-kum/framesim/internal/sim"
)

var (
	aliveColor = color.RGBA{R: 0x38, G: 0xff, B: 0x14, A: 0xff}
	deadColor  = color.RGBA{A: 0xff}
	bgColor    = color.RGBA{R: 0x2b, G: 0x66, B: 0x99, A: 0xff}
	dotColor   = color.RGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff}
)

// recorder keeps a copy of every presented frame.
type recorder struct {
	frames []*image.RGBA
	fail   error
}

func (r *recorder) Present(frame *image.RGBA) error {
	if r.fail != nil {
		return r.fail
	}
	c := image.NewRGBA(frame.Rect)
	copy(c.Pix, frame.Pix)
	r.frames = append(r.frames, c)
	return nil
}

func (r *recorder) last() *image.RGBA { return r.frames[len(r.frames)-1] }

// faultyBackend fails every dispatch while broken is set.
type faultyBackend struct {
	compute.Backend
	broken  atomic.Bool
	cleaned atomic.Bool
}

func newFaultyBackend() *faultyBackend {
	return &faultyBackend{Backend: compute.NewSerialBackend()}
}

func (f *faultyBackend) Name() string { return "faulty" }

func (f *faultyBackend) Dispatch(ctx context.Context, n int, k compute.Kernel) error {
	if f.broken.Load() {
		return fmt.Errorf("%w: device lost", dynamo.ErrDispatch)
	}
	return f.Backend.Dispatch(ctx, n, k)
}

func (f *faultyBackend) Cleanup() {
	f.cleaned.Store(true)
	f.Backend.Cleanup()
}

// switchAlloc fails once fail is set.
type switchAlloc[T any] struct {
	fail atomic.Bool
}

func (s *switchAlloc[T]) alloc(n int) ([]T, error) {
	if s.fail.Load() {
		return nil, fmt.Errorf("%w: out of memory", dynamo.ErrAllocation)
	}
	return dynamo.MakeSlice[T](n)
}

type frameLog []int

func (f *frameLog) OnFrame(frame int, _ sim.Domain) { *f = append(*f, frame) }

// onlyColors reports whether every pixel of img is one of cs.
func onlyColors(img *image.RGBA, cs ...color.RGBA) bool {
	b := img.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			px := img.RGBAAt(x, y)
			ok := false
			for _, c := range cs {
				if px == c {
					ok = true
					break
				}
			}
			if !ok {
				return false
			}
		}
	}
	return true
}

func block(w, h int) []uint8 {
	cells := make([]uint8, w*h)
	for _, p := range [][2]int{{2, 2}, {3, 2}, {2, 3}, {3, 3}} {
		cells[p[1]*w+p[0]] = 1
	}
	return cells
}

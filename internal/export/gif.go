package export

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/color/palette"
	"image/draw"
	"image/gif"
	"os"
	"sync"
)

// DefaultDelay is the per-frame delay in 100ths of a second.
const DefaultDelay = 2

var ErrNoFrames = errors.New("export: no frames recorded")

// GIFRecorder collects presented frames into an animated GIF. Frames with at
// most 256 distinct colors are stored exactly; richer frames are dithered
// onto the Plan9 palette.
type GIFRecorder struct {
	mu     sync.Mutex
	delay  int
	limit  int
	frames []*image.Paletted
}

// NewGIFRecorder keeps at most limit frames, or all of them when limit <= 0.
func NewGIFRecorder(delay, limit int) *GIFRecorder {
	if delay <= 0 {
		delay = DefaultDelay
	}
	return &GIFRecorder{delay: delay, limit: limit}
}

func (r *GIFRecorder) Present(frame *image.RGBA) error {
	p := Quantize(frame)

	r.mu.Lock()
	defer r.mu.Unlock()
	if r.limit > 0 && len(r.frames) >= r.limit {
		r.frames = append(r.frames[:0], r.frames[1:]...)
	}
	r.frames = append(r.frames, p)
	return nil
}

func (r *GIFRecorder) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.frames)
}

func (r *GIFRecorder) Reset() {
	r.mu.Lock()
	r.frames = nil
	r.mu.Unlock()
}

// Animation returns the recorded frames as a looping GIF.
func (r *GIFRecorder) Animation() *gif.GIF {
	r.mu.Lock()
	defer r.mu.Unlock()

	anim := &gif.GIF{LoopCount: 0}
	for _, f := range r.frames {
		anim.Image = append(anim.Image, f)
		anim.Delay = append(anim.Delay, r.delay)
	}
	return anim
}

func (r *GIFRecorder) Save(path string) error {
	anim := r.Animation()
	if len(anim.Image) == 0 {
		return ErrNoFrames
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	if err := gif.EncodeAll(f, anim); err != nil {
		f.Close()
		return fmt.Errorf("failed to encode gif: %w", err)
	}
	return f.Close()
}

// Quantize converts frame to a paletted image.
func Quantize(frame *image.RGBA) *image.Paletted {
	b := frame.Bounds()
	if pal, ok := exactPalette(frame, 256); ok {
		p := image.NewPaletted(b, pal)
		index := make(map[color.RGBA]uint8, len(pal))
		for i, c := range pal {
			index[c.(color.RGBA)] = uint8(i)
		}
		for y := b.Min.Y; y < b.Max.Y; y++ {
			for x := b.Min.X; x < b.Max.X; x++ {
				p.SetColorIndex(x, y, index[frame.RGBAAt(x, y)])
			}
		}
		return p
	}

	p := image.NewPaletted(b, palette.Plan9)
	draw.FloydSteinberg.Draw(p, b, frame, b.Min)
	return p
}

func exactPalette(frame *image.RGBA, max int) (color.Palette, bool) {
	seen := make(map[color.RGBA]struct{})
	var pal color.Palette
	b := frame.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			c := frame.RGBAAt(x, y)
			if _, ok := seen[c]; ok {
				continue
			}
			if len(pal) == max {
				return nil, false
			}
			seen[c] = struct{}{}
			pal = append(pal, c)
		}
	}
	if len(pal) == 0 {
		pal = append(pal, color.RGBA{A: 0xff})
	}
	return pal, true
}

package gui

import (
	"image"
	"image/color"

	rl "github.com/gen2brain/raylib-go/raylib"
)

// Window is a sim.Presenter that uploads frames into a raylib texture.
// Present must run on the thread that owns the window.
type Window struct {
	tex    rl.Texture2D
	loaded bool
	w, h   int
	pixels []color.RGBA
}

func NewWindow() *Window { return &Window{} }

func (win *Window) Present(frame *image.RGBA) error {
	b := frame.Bounds()
	w, h := b.Dx(), b.Dy()

	if !win.loaded || w != win.w || h != win.h {
		win.recreate(w, h)
	}
	win.pixels = flatten(frame, win.pixels)
	rl.UpdateTexture(win.tex, win.pixels)
	return nil
}

func (win *Window) recreate(w, h int) {
	if win.loaded {
		rl.UnloadTexture(win.tex)
	}
	img := rl.GenImageColor(w, h, rl.Black)
	win.tex = rl.LoadTextureFromImage(img)
	rl.UnloadImage(img)
	rl.SetTextureFilter(win.tex, rl.FilterPoint)
	win.w, win.h, win.loaded = w, h, true
}

// Draw blits the texture stretched over the given screen rectangle.
func (win *Window) Draw(x, y, w, h int32) {
	if !win.loaded {
		return
	}
	src := rl.NewRectangle(0, 0, float32(win.w), float32(win.h))
	dst := rl.NewRectangle(float32(x), float32(y), float32(w), float32(h))
	rl.DrawTexturePro(win.tex, src, dst, rl.NewVector2(0, 0), 0, rl.White)
}

func (win *Window) Unload() {
	if win.loaded {
		rl.UnloadTexture(win.tex)
		win.loaded = false
	}
}

// flatten copies frame row by row into dst, reusing its storage.
func flatten(frame *image.RGBA, dst []color.RGBA) []color.RGBA {
	b := frame.Bounds()
	w, h := b.Dx(), b.Dy()
	if cap(dst) < w*h {
		dst = make([]color.RGBA, w*h)
	}
	dst = dst[:w*h]
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			dst[y*w+x] = frame.RGBAAt(b.Min.X+x, b.Min.Y+y)
		}
	}
	return dst
}

// graphPoints maps a series onto a polyline inside the rectangle, newest
// sample at the right edge.
func graphPoints(hist []float64, x, y, w, h float32) []rl.Vector2 {
	if len(hist) < 2 {
		return nil
	}
	lo, hi := hist[0], hist[0]
	for _, v := range hist {
		lo, hi = min(lo, v), max(hi, v)
	}
	span := hi - lo
	if span == 0 {
		span = 1
	}

	pts := make([]rl.Vector2, len(hist))
	step := w / float32(len(hist)-1)
	for i, v := range hist {
		norm := float32((v - lo) / span)
		pts[i] = rl.NewVector2(x+float32(i)*step, y+h-norm*h)
	}
	return pts
}

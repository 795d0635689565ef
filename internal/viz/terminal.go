package viz

import (
	"fmt"
	"image"
	"image/color"
	"strings"
	"sync"

	"github.com/charmbracelet/lipgloss"
	"github.com/lucasb-eyer/go-colorful"
)

// Glyph selects how pixels map onto terminal cells.
type Glyph int

const (
	// HalfBlock draws two pixels per cell with ▀: the top pixel is the
	// foreground and the bottom pixel the background.
	HalfBlock Glyph = iota
	// Braille draws 2x4 pixels per cell as dots, lit where a pixel is
	// brighter than the threshold.
	Braille
)

func ParseGlyph(s string) (Glyph, error) {
	switch s {
	case "", "block":
		return HalfBlock, nil
	case "braille":
		return Braille, nil
	}
	return HalfBlock, fmt.Errorf("unknown glyph %q", s)
}

// CellSize is the number of pixels one terminal cell covers.
func (g Glyph) CellSize() (w, h int) {
	if g == Braille {
		return 2, 4
	}
	return 1, 2
}

// Terminal is a sim.Presenter that keeps a private copy of the last frame
// and renders it as styled text.
type Terminal struct {
	mu    sync.Mutex
	glyph Glyph
	ink   lipgloss.Color
	// Threshold is the CIE L* (0..1) above which a braille dot is lit.
	Threshold float64

	w, h int
	pix  []color.RGBA
}

func NewTerminal(glyph Glyph) *Terminal {
	return &Terminal{glyph: glyph, ink: lipgloss.Color("#ffffff"), Threshold: 0.35}
}

func (t *Terminal) Glyph() Glyph { return t.glyph }

// SetInk sets the braille dot color.
func (t *Terminal) SetInk(c lipgloss.Color) {
	t.mu.Lock()
	t.ink = c
	t.mu.Unlock()
}

func (t *Terminal) Present(frame *image.RGBA) error {
	b := frame.Bounds()
	w, h := b.Dx(), b.Dy()

	t.mu.Lock()
	defer t.mu.Unlock()
	if cap(t.pix) < w*h {
		t.pix = make([]color.RGBA, w*h)
	}
	t.pix = t.pix[:w*h]
	t.w, t.h = w, h
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			t.pix[y*w+x] = frame.RGBAAt(b.Min.X+x, b.Min.Y+y)
		}
	}
	return nil
}

// Size returns the dimensions of the last presented frame.
func (t *Terminal) Size() (w, h int) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.w, t.h
}

// Render returns the last frame as terminal text, one line per cell row.
func (t *Terminal) Render() string {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.w == 0 || t.h == 0 {
		return ""
	}
	if t.glyph == Braille {
		return t.renderBraille()
	}
	return t.renderBlocks()
}

func (t *Terminal) at(x, y int) color.RGBA { return t.pix[y*t.w+x] }

// renderBlocks groups runs of cells with the same color pair into a single
// styled string.
func (t *Terminal) renderBlocks() string {
	var b strings.Builder
	for y := 0; y < t.h; y += 2 {
		if y > 0 {
			b.WriteByte('\n')
		}
		for x := 0; x < t.w; {
			top, bottom, hasBottom := t.pair(x, y)
			run := 1
			for x+run < t.w {
				nt, nb, _ := t.pair(x+run, y)
				if nt != top || nb != bottom {
					break
				}
				run++
			}

			style := lipgloss.NewStyle().Foreground(hexOf(top))
			if hasBottom {
				style = style.Background(hexOf(bottom))
			}
			b.WriteString(style.Render(strings.Repeat("▀", run)))
			x += run
		}
	}
	return b.String()
}

func (t *Terminal) pair(x, y int) (top, bottom color.RGBA, ok bool) {
	top = t.at(x, y)
	if y+1 < t.h {
		return top, t.at(x, y+1), true
	}
	return top, color.RGBA{}, false
}

func (t *Terminal) renderBraille() string {
	cw, ch := Braille.CellSize()
	c := NewCanvas((t.w+cw-1)/cw, (t.h+ch-1)/ch)
	for y := 0; y < t.h; y++ {
		for x := 0; x < t.w; x++ {
			if lightness(t.at(x, y)) > t.Threshold {
				c.Set(x, y)
			}
		}
	}
	return lipgloss.NewStyle().Foreground(t.ink).Render(c.String())
}

func toColorful(c color.RGBA) colorful.Color {
	return colorful.Color{R: float64(c.R) / 255, G: float64(c.G) / 255, B: float64(c.B) / 255}
}

func lightness(c color.RGBA) float64 {
	l, _, _ := toColorful(c).Lab()
	return l
}

func hexOf(c color.RGBA) lipgloss.Color {
	return lipgloss.Color(toColorful(c).Hex())
}

package raster

import (
	"image"
	"image/color"

	"github.com/san-kum/framesim/internal/dynamo"
)

// Surface owns the pixel buffer sized to the presentation. Its size is
// independent of the domain it displays.
type Surface struct {
	img *image.RGBA
}

func NewSurface(w, h int) (*Surface, error) {
	img, err := Allocate(w, h)
	if err != nil {
		return nil, err
	}
	return &Surface{img: img}, nil
}

// Allocate returns a zeroed w x h RGBA image.
func Allocate(w, h int) (*image.RGBA, error) {
	if w <= 0 || h <= 0 {
		return nil, dynamo.Invalidf("surface size %dx%d", w, h)
	}
	if w > dynamo.MaxElements/h/4 {
		return nil, dynamo.Invalidf("surface size %dx%d too large", w, h)
	}
	pix, err := dynamo.MakeSlice[uint8](w * h * 4)
	if err != nil {
		return nil, err
	}
	return &image.RGBA{Pix: pix, Stride: 4 * w, Rect: image.Rect(0, 0, w, h)}, nil
}

func (s *Surface) Image() *image.RGBA { return s.img }

func (s *Surface) Width() int  { return s.img.Rect.Dx() }
func (s *Surface) Height() int { return s.img.Rect.Dy() }

// Prepare allocates a replacement buffer without installing it.
func (s *Surface) Prepare(w, h int) (*image.RGBA, error) {
	return Allocate(w, h)
}

// Commit installs a buffer returned by Prepare.
func (s *Surface) Commit(img *image.RGBA) {
	s.img = img
}

// Resize replaces the buffer with a w x h one. The old buffer is kept on error.
func (s *Surface) Resize(w, h int) error {
	img, err := s.Prepare(w, h)
	if err != nil {
		return err
	}
	s.Commit(img)
	return nil
}

// Fill sets every pixel to c.
func Fill(dst *image.RGBA, c color.RGBA) {
	pix := dst.Pix
	for i := 0; i+3 < len(pix); i += 4 {
		pix[i+0] = c.R
		pix[i+1] = c.G
		pix[i+2] = c.B
		pix[i+3] = c.A
	}
}

func set(dst *image.RGBA, x, y int, c color.RGBA) {
	i := y*dst.Stride + x*4
	dst.Pix[i+0] = c.R
	dst.Pix[i+1] = c.G
	dst.Pix[i+2] = c.B
	dst.Pix[i+3] = c.A
}

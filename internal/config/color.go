package config

import (
	"errors"
	"image/color"

	"github.com/lucasb-eyer/go-colorful"

	"github.com/san-kum/framesim/internal/dynamo"
)

type Palette struct {
	Alive      color.RGBA
	Dead       color.RGBA
	Background color.RGBA
	Particle   color.RGBA
}

// ParseColor parses "#rrggbb" into an opaque colour.
func ParseColor(s string) (color.RGBA, error) {
	c, err := colorful.Hex(s)
	if err != nil {
		return color.RGBA{}, dynamo.Invalidf("colour %q", s)
	}
	r, g, b := c.RGB255()
	return color.RGBA{R: r, G: g, B: b, A: 0xff}, nil
}

func (c *Config) Palette() (Palette, error) {
	var p Palette
	var errs []error
	for _, f := range []struct {
		key string
		val string
		dst *color.RGBA
	}{
		{"alive_color", c.AliveColor, &p.Alive},
		{"dead_color", c.DeadColor, &p.Dead},
		{"background_color", c.BackgroundColor, &p.Background},
		{"particle_color", c.ParticleColor, &p.Particle},
	} {
		col, err := ParseColor(f.val)
		if err != nil {
			errs = append(errs, dynamo.Invalidf("%s %q", f.key, f.val))
			continue
		}
		*f.dst = col
	}
	return p, errors.Join(errs...)
}

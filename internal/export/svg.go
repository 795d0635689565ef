package export

import (
	"bufio"
	"fmt"
	"image"
	"image/color"
	"io"
	"os"
)

// WriteSVG renders frame as one rect per horizontal run of equal color,
// scaled by scale. The most common color becomes the background.
func WriteSVG(w io.Writer, frame *image.RGBA, scale float64) error {
	if scale <= 0 {
		scale = 1
	}
	b := frame.Bounds()
	bg := dominant(frame)

	bw := bufio.NewWriter(w)
	fmt.Fprintf(bw, `<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%.0f" height="%.0f" viewBox="0 0 %d %d" shape-rendering="crispEdges">
<rect width="100%%" height="100%%" fill="%s"/>
`, float64(b.Dx())*scale, float64(b.Dy())*scale, b.Dx(), b.Dy(), hex(bg))

	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; {
			c := frame.RGBAAt(x, y)
			run := 1
			for x+run < b.Max.X && frame.RGBAAt(x+run, y) == c {
				run++
			}
			if c != bg {
				fmt.Fprintf(bw, `<rect x="%d" y="%d" width="%d" height="1" fill="%s"/>
`, x-b.Min.X, y-b.Min.Y, run, hex(c))
			}
			x += run
		}
	}
	bw.WriteString("</svg>\n")
	return bw.Flush()
}

// SVG writes frame to path with WriteSVG.
func SVG(path string, frame *image.RGBA, scale float64) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	if err := WriteSVG(f, frame, scale); err != nil {
		f.Close()
		return fmt.Errorf("failed to write svg: %w", err)
	}
	return f.Close()
}

func dominant(frame *image.RGBA) color.RGBA {
	counts := make(map[color.RGBA]int)
	var best color.RGBA
	b := frame.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			c := frame.RGBAAt(x, y)
			counts[c]++
			if counts[c] > counts[best] {
				best = c
			}
		}
	}
	return best
}

func hex(c color.RGBA) string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

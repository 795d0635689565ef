package export

import (
	"fmt"
	"image"
	"image/png"
	"os"
)

// PNG writes a single frame to path.
func PNG(path string, frame *image.RGBA) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	if err := png.Encode(f, frame); err != nil {
		f.Close()
		return fmt.Errorf("failed to encode png: %w", err)
	}
	return f.Close()
}

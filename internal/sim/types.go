package sim

import (
	"context"
	"fmt"
	"image"
	"math/rand/v2"

	"github.com/san-kum/framesim/internal/compute"
	"github.com/san-kum/framesim/internal/dynamo"
)

type State int

const (
	Running State = iota
	Paused
)

func (s State) String() string {
	if s == Paused {
		return "paused"
	}
	return "running"
}

// Presenter displays a fully populated frame. The frame is only valid for the
// duration of the call; presenters that keep it must copy it.
type Presenter interface {
	Present(frame *image.RGBA) error
}

// PresenterFunc adapts a function to Presenter.
type PresenterFunc func(frame *image.RGBA) error

func (f PresenterFunc) Present(frame *image.RGBA) error { return f(frame) }

// Observer is notified after each completed step, once the generation has
// been swapped in and rasterized.
type Observer interface {
	OnFrame(frame int, d Domain)
}

// Domain is one simulation instance with its own double buffer.
//
// Step writes the next generation through the backend, reading only the
// current one. Swap then makes it current. Rasterize reads only the current
// generation.
type Domain interface {
	Name() string
	Step(ctx context.Context, backend compute.Backend) error
	Swap()
	Rasterize(dst *image.RGBA)
	Reset(rng *rand.Rand)
	Release()
}

// Resizable domains change their own size along with the surface.
type Resizable interface {
	Resize(w, h int, policy ResizePolicy, rng *rand.Rand) error
}

// Sampler exposes scalar diagnostics of the current generation by key, such
// as "population" or "energy".
type Sampler interface {
	Sample(key string) (float64, bool)
}

// ResizePolicy decides what happens to a Resizable domain on Resize.
type ResizePolicy string

const (
	// ResizeReseed reallocates the domain at the new size and seeds it.
	ResizeReseed ResizePolicy = "reseed"
	// ResizePreserve reallocates the domain and keeps the overlapping region.
	ResizePreserve ResizePolicy = "preserve"
	// ResizeSurface leaves the domain alone and rescales the picture.
	ResizeSurface ResizePolicy = "surface"
)

func ParseResizePolicy(s string) (ResizePolicy, error) {
	switch p := ResizePolicy(s); p {
	case ResizeReseed, ResizePreserve, ResizeSurface:
		return p, nil
	case "":
		return ResizeReseed, nil
	}
	return "", fmt.Errorf("%w: unknown resize policy %q", dynamo.ErrInvalidConfig, s)
}

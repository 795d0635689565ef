package export

import (
	"errors"
	"image"

	"github.com/san-kum/framesim/internal/sim"
)

type tee []sim.Presenter

// Tee presents each frame to every non-nil presenter in order. All are
// called even when one fails; the errors are joined.
func Tee(presenters ...sim.Presenter) sim.Presenter {
	var t tee
	for _, p := range presenters {
		if p != nil {
			t = append(t, p)
		}
	}
	return t
}

func (t tee) Present(frame *image.RGBA) error {
	var errs []error
	for _, p := range t {
		if err := p.Present(frame); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

package sim

import (
	"context"
	"errors"
	"image"
	"log/slog"
	"math/rand/v2"
	"sync"

	"github.com/san-kum/framesim/internal/compute"
	"github.com/san-kum/framesim/internal/dynamo"
	"github.com/san-kum/framesim/internal/raster"
)

// Loop drives one domain frame by frame. Every command holds the same mutex
// as Tick, so reset and resize only ever run between frames.
type Loop struct {
	mu sync.Mutex

	domain    Domain
	backend   compute.Backend
	presenter Presenter
	surface   *raster.Surface
	observers []Observer

	rng    *rand.Rand
	policy ResizePolicy
	logger *slog.Logger

	state  State
	frame  int
	closed bool
}

// New creates a running loop with a viewW x viewH surface and rasterizes the
// domain's current generation into it.
func New(d Domain, backend compute.Backend, viewW, viewH int, opts ...Option) (*Loop, error) {
	if d == nil || backend == nil {
		return nil, dynamo.Invalidf("loop needs a domain and a backend")
	}
	surface, err := raster.NewSurface(viewW, viewH)
	if err != nil {
		return nil, err
	}

	l := &Loop{
		domain:  d,
		backend: backend,
		surface: surface,
		rng:     NewRNG(1),
		policy:  ResizeReseed,
		logger:  slog.New(slog.DiscardHandler),
		state:   Running,
	}
	for _, opt := range opts {
		opt(l)
	}
	if _, err := ParseResizePolicy(string(l.policy)); err != nil {
		return nil, err
	}

	d.Rasterize(surface.Image())
	l.logger.Debug("loop created",
		"domain", d.Name(), "backend", backend.Name(),
		"width", viewW, "height", viewH, "policy", string(l.policy))
	return l, nil
}

// Tick advances one frame when running and presents it. When paused it
// presents the last frame again without touching the domain.
//
// A failed step is returned as a *dynamo.SimulationError and leaves both the
// generations and the pixel buffer as they were.
func (l *Loop) Tick(ctx context.Context) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.closed {
		return dynamo.ErrClosed
	}
	if l.state == Paused {
		return l.present()
	}

	if err := l.domain.Step(ctx, l.backend); err != nil {
		if !errors.Is(err, dynamo.ErrDispatch) {
			err = errors.Join(dynamo.ErrDispatch, err)
		}
		l.logger.Warn("step failed", "frame", l.frame+1, "err", err)
		return &dynamo.SimulationError{Op: "step", Step: l.frame + 1, Wrapped: err}
	}
	l.domain.Swap()
	l.frame++

	l.domain.Rasterize(l.surface.Image())
	for _, o := range l.observers {
		o.OnFrame(l.frame, l.domain)
	}
	return l.present()
}

// Run ticks n frames, stopping at the first error or when ctx is done.
func (l *Loop) Run(ctx context.Context, n int) error {
	for i := 0; i < n; i++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := l.Tick(ctx); err != nil {
			return err
		}
	}
	return nil
}

func (l *Loop) present() error {
	if l.presenter == nil {
		return nil
	}
	if err := l.presenter.Present(l.surface.Image()); err != nil {
		return &dynamo.SimulationError{Op: "present", Step: l.frame, Wrapped: err}
	}
	return nil
}

// Toggle switches between Running and Paused and returns the new state.
func (l *Loop) Toggle() (State, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.closed {
		return l.state, dynamo.ErrClosed
	}
	if l.state == Running {
		l.state = Paused
	} else {
		l.state = Running
	}
	l.logger.Debug("toggled", "state", l.state.String(), "frame", l.frame)
	return l.state, nil
}

// Reset reseeds the current generation in place. The run state is unchanged.
func (l *Loop) Reset() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.closed {
		return dynamo.ErrClosed
	}
	l.domain.Reset(l.rng)
	l.domain.Rasterize(l.surface.Image())
	l.logger.Debug("reset", "domain", l.domain.Name(), "frame", l.frame)
	return nil
}

// Resize moves the surface, and a Resizable domain unless the policy is
// ResizeSurface, to w x h. Nothing is replaced until every allocation has
// succeeded, so on error the previous frame remains valid.
func (l *Loop) Resize(w, h int) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.closed {
		return dynamo.ErrClosed
	}
	if w <= 0 || h <= 0 {
		return dynamo.Invalidf("resize to %dx%d", w, h)
	}
	if w == l.surface.Width() && h == l.surface.Height() {
		return nil
	}

	img, err := l.surface.Prepare(w, h)
	if err != nil {
		return &dynamo.SimulationError{Op: "resize", Step: l.frame, Wrapped: err}
	}
	if rd, ok := l.domain.(Resizable); ok && l.policy != ResizeSurface {
		if err := rd.Resize(w, h, l.policy, l.rng); err != nil {
			return &dynamo.SimulationError{Op: "resize", Step: l.frame, Wrapped: err}
		}
	}
	l.surface.Commit(img)
	l.domain.Rasterize(img)

	l.logger.Debug("resized", "width", w, "height", h, "policy", string(l.policy))
	return l.present()
}

// Close releases the domain buffers and the backend. It is safe to call more
// than once; every other command fails with ErrClosed afterwards.
func (l *Loop) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.closed {
		return nil
	}
	l.closed = true
	l.domain.Release()
	l.backend.Cleanup()
	l.logger.Debug("closed", "frames", l.frame)
	return nil
}

// SetPresenter replaces the presenter between frames.
func (l *Loop) SetPresenter(p Presenter) {
	l.mu.Lock()
	l.presenter = p
	l.mu.Unlock()
}

func (l *Loop) State() State {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.state
}

// Frame returns the number of completed steps.
func (l *Loop) Frame() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.frame
}

func (l *Loop) Size() (w, h int) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.surface.Width(), l.surface.Height()
}

func (l *Loop) DomainName() string  { return l.domain.Name() }
func (l *Loop) BackendName() string { return l.backend.Name() }

// Snapshot returns a copy of the current frame.
func (l *Loop) Snapshot() *image.RGBA {
	l.mu.Lock()
	defer l.mu.Unlock()

	src := l.surface.Image()
	dst := image.NewRGBA(src.Rect)
	copy(dst.Pix, src.Pix)
	return dst
}

// Sample reads a diagnostic from the domain if it provides one.
func (l *Loop) Sample(key string) (float64, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if s, ok := l.domain.(Sampler); ok && !l.closed {
		return s.Sample(key)
	}
	return 0, false
}

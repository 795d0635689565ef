package sim_test

import (
	"context"
	"errors"
	"sync"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/framesim/internal/compute"
	"github.com/san-kum/framesim/internal/dynamo"
	"github.com/san-kum/framesim/internal/integrators"
	"github.com/san-kum/framesim/internal/physics"
	"github.com/san-kum/framesim/internal/sim"
)

var _ = Describe("Loop", func() {
	var (
		ctx     context.Context
		alloc   *switchAlloc[uint8]
		domain  *sim.LifeDomain
		backend *faultyBackend
		screen  *recorder
		frames  *frameLog
		loop    *sim.Loop
	)

	newLoop := func(opts ...sim.Option) *sim.Loop {
		opts = append([]sim.Option{
			sim.WithPresenter(screen),
			sim.WithObserver(frames),
			sim.WithSeed(42),
		}, opts...)
		l, err := sim.New(domain, backend, 16, 12, opts...)
		Expect(err).NotTo(HaveOccurred())
		return l
	}

	BeforeEach(func() {
		ctx = context.Background()
		alloc = &switchAlloc[uint8]{}
		var err error
		domain, err = sim.NewLifeDomain(sim.LifeParams{
			Width: 16, Height: 12, Density: 0.3,
			Alive: aliveColor, Dead: deadColor,
			Alloc: alloc.alloc,
		})
		Expect(err).NotTo(HaveOccurred())
		domain.Load(block(16, 12))

		backend = newFaultyBackend()
		screen = &recorder{}
		frames = &frameLog{}
		loop = newLoop()
	})

	Describe("state machine", func() {
		It("starts running", func() {
			Expect(loop.State()).To(Equal(sim.Running))
			Expect(loop.Frame()).To(Equal(0))
		})

		It("toggles between running and paused", func() {
			s, err := loop.Toggle()
			Expect(err).NotTo(HaveOccurred())
			Expect(s).To(Equal(sim.Paused))

			s, err = loop.Toggle()
			Expect(err).NotTo(HaveOccurred())
			Expect(s).To(Equal(sim.Running))
		})

		It("steps, rasterizes and presents on each running tick", func() {
			Expect(loop.Tick(ctx)).To(Succeed())
			Expect(loop.Tick(ctx)).To(Succeed())

			Expect(loop.Frame()).To(Equal(2))
			Expect(screen.frames).To(HaveLen(2))
			Expect(*frames).To(Equal(frameLog{1, 2}))
			Expect(onlyColors(screen.last(), aliveColor, deadColor)).To(BeTrue())
		})

		It("keeps a still life unchanged through the loop", func() {
			Expect(loop.Run(ctx, 5)).To(Succeed())
			Expect(domain.Generation()).To(Equal(block(16, 12)))
		})
	})

	Describe("paused ticks", func() {
		BeforeEach(func() {
			domain.Reset(sim.NewRNG(7))
			Expect(loop.Reset()).To(Succeed())
			_, err := loop.Toggle()
			Expect(err).NotTo(HaveOccurred())
		})

		It("never change the domain", func() {
			before := domain.Generation()
			for i := 0; i < 10; i++ {
				Expect(loop.Tick(ctx)).To(Succeed())
			}
			Expect(domain.Generation()).To(Equal(before))
			Expect(loop.Frame()).To(Equal(0))
			Expect(*frames).To(BeEmpty())
		})

		It("re-present the same frame", func() {
			Expect(loop.Tick(ctx)).To(Succeed())
			Expect(loop.Tick(ctx)).To(Succeed())
			Expect(screen.frames).To(HaveLen(2))
			Expect(screen.frames[0].Pix).To(Equal(screen.frames[1].Pix))
		})
	})

	Describe("Reset", func() {
		It("reseeds without changing state", func() {
			_, _ = loop.Toggle()
			Expect(loop.Reset()).To(Succeed())
			Expect(loop.State()).To(Equal(sim.Paused))
			Expect(domain.Generation()).NotTo(Equal(block(16, 12)))
		})
	})

	Describe("dispatch failure", func() {
		It("surfaces a step error and leaves buffers intact", func() {
			Expect(loop.Tick(ctx)).To(Succeed())
			gen := domain.Generation()
			shown := loop.Snapshot()

			backend.broken.Store(true)
			err := loop.Tick(ctx)
			Expect(err).To(MatchError(dynamo.ErrDispatch))

			var serr *dynamo.SimulationError
			Expect(errors.As(err, &serr)).To(BeTrue())
			Expect(serr.Op).To(Equal("step"))
			Expect(serr.Step).To(Equal(2))

			Expect(loop.Frame()).To(Equal(1))
			Expect(domain.Generation()).To(Equal(gen))
			Expect(loop.Snapshot().Pix).To(Equal(shown.Pix))
			Expect(screen.frames).To(HaveLen(1))
		})

		It("recovers once the backend does", func() {
			backend.broken.Store(true)
			Expect(loop.Tick(ctx)).NotTo(Succeed())
			backend.broken.Store(false)
			Expect(loop.Tick(ctx)).To(Succeed())
			Expect(loop.Frame()).To(Equal(1))
		})

		It("reports a presenter failure", func() {
			screen.fail = errors.New("display gone")
			err := loop.Tick(ctx)
			var serr *dynamo.SimulationError
			Expect(errors.As(err, &serr)).To(BeTrue())
			Expect(serr.Op).To(Equal("present"))
		})
	})

	Describe("Resize", func() {
		It("always leaves a fully populated buffer of the new size", func() {
			for _, sz := range [][2]int{{1, 1}, {40, 3}, {3, 40}, {64, 48}, {16, 12}, {7, 9}} {
				Expect(loop.Resize(sz[0], sz[1])).To(Succeed())
				w, h := loop.Size()
				Expect([]int{w, h}).To(Equal([]int{sz[0], sz[1]}))

				snap := loop.Snapshot()
				Expect(snap.Bounds().Dx()).To(Equal(sz[0]))
				Expect(onlyColors(snap, aliveColor, deadColor)).To(BeTrue())

				gw, gh := domain.Size()
				Expect([]int{gw, gh}).To(Equal([]int{sz[0], sz[1]}))
				Expect(loop.Tick(ctx)).To(Succeed())
			}
		})

		It("rejects non-positive sizes without applying them", func() {
			for _, sz := range [][2]int{{0, 10}, {10, 0}, {-4, 4}} {
				Expect(loop.Resize(sz[0], sz[1])).To(MatchError(dynamo.ErrInvalidConfig))
			}
			w, h := loop.Size()
			Expect([]int{w, h}).To(Equal([]int{16, 12}))
		})

		It("keeps the old generation when the domain cannot be reallocated", func() {
			gen := domain.Generation()
			shown := loop.Snapshot()

			alloc.fail.Store(true)
			err := loop.Resize(100, 80)
			Expect(err).To(HaveOccurred())
			Expect(err).To(MatchError(dynamo.ErrAllocation))

			w, h := loop.Size()
			Expect([]int{w, h}).To(Equal([]int{16, 12}))
			Expect(domain.Generation()).To(Equal(gen))
			Expect(loop.Snapshot().Pix).To(Equal(shown.Pix))

			alloc.fail.Store(false)
			Expect(loop.Tick(ctx)).To(Succeed())
		})

		It("preserves the overlap under the preserve policy", func() {
			loop = newLoop(sim.WithResizePolicy(sim.ResizePreserve))
			Expect(loop.Resize(20, 20)).To(Succeed())
			Expect(domain.Generation()).To(Equal(block(20, 20)))
		})

		It("only rescales the picture under the surface policy", func() {
			loop = newLoop(sim.WithResizePolicy(sim.ResizeSurface))
			Expect(loop.Resize(32, 24)).To(Succeed())
			gw, gh := domain.Size()
			Expect([]int{gw, gh}).To(Equal([]int{16, 12}))
			Expect(domain.Generation()).To(Equal(block(16, 12)))

			// each cell becomes a 2x2 block of pixels
			snap := loop.Snapshot()
			Expect(snap.RGBAAt(4, 4)).To(Equal(aliveColor))
			Expect(snap.RGBAAt(7, 7)).To(Equal(aliveColor))
			Expect(snap.RGBAAt(8, 8)).To(Equal(deadColor))
		})
	})

	Describe("Close", func() {
		It("releases resources and rejects later commands", func() {
			Expect(loop.Close()).To(Succeed())
			Expect(backend.cleaned.Load()).To(BeTrue())

			Expect(loop.Tick(ctx)).To(MatchError(dynamo.ErrClosed))
			Expect(loop.Reset()).To(MatchError(dynamo.ErrClosed))
			Expect(loop.Resize(8, 8)).To(MatchError(dynamo.ErrClosed))
			_, err := loop.Toggle()
			Expect(err).To(MatchError(dynamo.ErrClosed))

			Expect(loop.Close()).To(Succeed())
		})
	})

	It("serializes commands with ticks", func() {
		loop = newLoop(sim.WithPresenter(nil))
		var wg sync.WaitGroup
		wg.Add(4)
		go func() {
			defer wg.Done()
			for i := 0; i < 50; i++ {
				_ = loop.Tick(ctx)
			}
		}()
		go func() {
			defer wg.Done()
			for i := 0; i < 20; i++ {
				_, _ = loop.Toggle()
			}
		}()
		go func() {
			defer wg.Done()
			for i := 0; i < 10; i++ {
				_ = loop.Reset()
			}
		}()
		go func() {
			defer wg.Done()
			for i := 0; i < 10; i++ {
				_ = loop.Resize(10+i, 10+i)
			}
		}()
		wg.Wait()

		w, h := loop.Size()
		Expect(onlyColors(loop.Snapshot(), aliveColor, deadColor)).To(BeTrue())
		gw, gh := domain.Size()
		Expect([]int{gw, gh}).To(Equal([]int{w, h}))
	})
})

var _ = Describe("NBody loop", func() {
	var (
		ctx    context.Context
		domain *sim.NBodyDomain
		loop   *sim.Loop
	)

	BeforeEach(func() {
		ctx = context.Background()
		var err error
		domain, err = sim.NewNBodyDomain(sim.NBodyParams{
			Count: 200, G: 5e-2, Softening: 0.1, Dt: 1e-3,
			Radius: 2e-3, Background: bgColor, Particle: dotColor,
		})
		Expect(err).NotTo(HaveOccurred())
		domain.Reset(sim.NewRNG(3))

		loop, err = sim.New(domain, compute.NewCPUBackend(4), 64, 64)
		Expect(err).NotTo(HaveOccurred())
	})

	It("resizes only the surface", func() {
		before := domain.Generation()
		for _, sz := range [][2]int{{128, 32}, {5, 5}, {512, 512}} {
			Expect(loop.Resize(sz[0], sz[1])).To(Succeed())
			Expect(onlyColors(loop.Snapshot(), bgColor, dotColor)).To(BeTrue())
		}
		Expect(domain.Count()).To(Equal(200))
		Expect(domain.Generation()).To(Equal(before))
	})

	It("matches a serial reference step", func() {
		ref := domain.Generation()
		next := make([]physics.Particle, len(ref))
		physics.NewNBody().Advance(ref, next, 0, len(ref))

		Expect(loop.Tick(ctx)).To(Succeed())
		Expect(domain.Generation()).To(Equal(next))
	})

	It("samples energy and momentum", func() {
		_, ok := loop.Sample("energy")
		Expect(ok).To(BeTrue())
		_, ok = loop.Sample("momentum")
		Expect(ok).To(BeTrue())
		_, ok = loop.Sample("population")
		Expect(ok).To(BeFalse())
	})

	It("wraps particles into the unit square when asked", func() {
		var err error
		domain, err = sim.NewNBodyDomain(sim.NBodyParams{
			Count: 2, G: 0, Softening: 0.1, Dt: 1, Wrap: true,
		})
		Expect(err).NotTo(HaveOccurred())
		domain.Load([]physics.Particle{
			{X: 0.9, Y: 0.5, VX: 0.25},
			{X: 0.1, Y: 0.5, VY: -0.25},
		})
		loop, err = sim.New(domain, compute.NewSerialBackend(), 8, 8)
		Expect(err).NotTo(HaveOccurred())

		Expect(loop.Tick(ctx)).To(Succeed())
		ps := domain.Generation()
		Expect(ps[0].X).To(BeNumerically("~", 0.15, 1e-12))
		Expect(ps[1].Y).To(BeNumerically("~", 0.25, 1e-12))
	})

	It("steps with a configured integrator", func() {
		var err error
		domain, err = sim.NewNBodyDomain(sim.NBodyParams{
			Count: 1, G: 0, Softening: 0.1, Dt: 0.5, Wrap: true,
			Integrator: integrators.NewVerlet(),
		})
		Expect(err).NotTo(HaveOccurred())
		Expect(domain.Integrator()).To(Equal("verlet"))
		domain.Load([]physics.Particle{{X: 0.9, Y: 0.2, VX: 0.4, VY: 0.2}})
		loop, err = sim.New(domain, compute.NewCPUBackend(2), 8, 8)
		Expect(err).NotTo(HaveOccurred())

		Expect(loop.Tick(ctx)).To(Succeed())
		p := domain.Generation()[0]
		Expect(p.X).To(BeNumerically("~", 0.1, 1e-12))
		Expect(p.Y).To(BeNumerically("~", 0.3, 1e-12))
		Expect(p.VX).To(Equal(0.4))
	})

	It("treats an empty system as a no-op", func() {
		empty, err := sim.NewNBodyDomain(sim.NBodyParams{Count: 0, G: 1, Softening: 0.1, Dt: 1e-3, Background: bgColor})
		Expect(err).NotTo(HaveOccurred())
		l, err := sim.New(empty, compute.NewCPUBackend(2), 4, 4)
		Expect(err).NotTo(HaveOccurred())
		Expect(l.Run(ctx, 3)).To(Succeed())
		Expect(onlyColors(l.Snapshot(), bgColor)).To(BeTrue())
	})

	It("rejects invalid parameters", func() {
		bad := []sim.NBodyParams{
			{Count: -1, Dt: 1e-3},
			{Count: 1, Dt: 0},
			{Count: 1, Dt: 1e-3, Softening: -1},
			{Count: 1, Dt: 1e-3, Radius: 2},
		}
		for _, p := range bad {
			_, err := sim.NewNBodyDomain(p)
			Expect(err).To(MatchError(dynamo.ErrInvalidConfig))
		}
	})
})

var _ = Describe("LifeDomain", func() {
	It("rejects invalid parameters", func() {
		bad := []sim.LifeParams{
			{Width: 0, Height: 4},
			{Width: 4, Height: -1},
			{Width: 4, Height: 4, Density: 1.5},
		}
		for _, p := range bad {
			_, err := sim.NewLifeDomain(p)
			Expect(err).To(MatchError(dynamo.ErrInvalidConfig))
		}
	})

	It("reports population", func() {
		d, err := sim.NewLifeDomain(sim.LifeParams{Width: 8, Height: 8})
		Expect(err).NotTo(HaveOccurred())
		d.Load(block(8, 8))
		v, ok := d.Sample("population")
		Expect(ok).To(BeTrue())
		Expect(v).To(Equal(4.0))
	})

	It("parses resize policies", func() {
		p, err := sim.ParseResizePolicy("")
		Expect(err).NotTo(HaveOccurred())
		Expect(p).To(Equal(sim.ResizeReseed))
		_, err = sim.ParseResizePolicy("stretch")
		Expect(err).To(MatchError(dynamo.ErrInvalidConfig))
	})
})

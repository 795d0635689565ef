package experiment

import (
	"context"
	"fmt"
	"time"

	"github.com/san-kum/framesim/internal/compute"
	"github.com/san-kum/framesim/internal/config"
	"github.com/san-kum/framesim/internal/metrics"
	"github.com/san-kum/framesim/internal/sim"
)

// Setup is a loop ready to tick, together with the pieces it was built from.
type Setup struct {
	Config  *config.Config
	Domain  sim.Domain
	Backend compute.Backend
	Metric  metrics.Metric
	Loop    *sim.Loop
}

// Build validates cfg, constructs and seeds the domain and returns a running
// loop observed by the domain's default metric.
func (r *Registry) Build(cfg *config.Config, opts ...sim.Option) (*Setup, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	policy, err := sim.ParseResizePolicy(cfg.ResizePolicy)
	if err != nil {
		return nil, err
	}

	domain, err := r.GetDomain(cfg)
	if err != nil {
		return nil, err
	}
	backend, err := r.GetBackend(cfg.Backend, cfg.Workers)
	if err != nil {
		domain.Release()
		return nil, err
	}

	rng := sim.NewRNG(cfg.Seed)
	domain.Reset(rng)

	metric := metrics.ForDomain(cfg.Domain)
	opts = append([]sim.Option{
		sim.WithRNG(rng),
		sim.WithResizePolicy(policy),
		sim.WithObserver(metric),
	}, opts...)

	loop, err := sim.New(domain, backend, cfg.ViewWidth, cfg.ViewHeight, opts...)
	if err != nil {
		domain.Release()
		backend.Cleanup()
		return nil, err
	}

	return &Setup{
		Config:  cfg,
		Domain:  domain,
		Backend: backend,
		Metric:  metric,
		Loop:    loop,
	}, nil
}

type BenchResult struct {
	Backend  string
	Frames   int
	Elapsed  time.Duration
	StepsSec float64
}

// Bench runs frames headless ticks of cfg on each named backend.
func (r *Registry) Bench(ctx context.Context, cfg *config.Config, backends []string, frames int) ([]BenchResult, error) {
	results := make([]BenchResult, 0, len(backends))
	for _, name := range backends {
		c := cfg.Clone()
		c.Backend = name
		s, err := r.Build(c)
		if err != nil {
			return results, fmt.Errorf("bench %s: %w", name, err)
		}

		start := time.Now()
		err = s.Loop.Run(ctx, frames)
		elapsed := time.Since(start)
		_ = s.Loop.Close()
		if err != nil {
			return results, fmt.Errorf("bench %s: %w", name, err)
		}

		res := BenchResult{Backend: s.Backend.Name(), Frames: frames, Elapsed: elapsed}
		if elapsed > 0 {
			res.StepsSec = float64(frames) / elapsed.Seconds()
		}
		results = append(results, res)
	}
	return results, nil
}

// Series runs frames headless ticks and returns every sample of the
// domain's default metric along with its name.
func (r *Registry) Series(ctx context.Context, cfg *config.Config, frames int) ([]float64, string, error) {
	name := metrics.ForDomain(cfg.Domain).Name()
	series := metrics.NewSeries(name, name, frames)

	s, err := r.Build(cfg.Clone(), sim.WithObserver(series))
	if err != nil {
		return nil, "", err
	}
	defer s.Loop.Close()

	if err := s.Loop.Run(ctx, frames); err != nil {
		return nil, "", err
	}
	return series.History(), name, nil
}

package experiment

import (
	"fmt"
	"sort"

	"github.com/san-kum/framesim/internal/compute"
	"github.com/san-kum/framesim/internal/config"
	"github.com/san-kum/framesim/internal/dynamo"
	"github.com/san-kum/framesim/internal/integrators"
	"github.com/san-kum/framesim/internal/sim"
)

type DomainFactory func(cfg *config.Config) (sim.Domain, error)

type BackendFactory func(workers int) compute.Backend

type Registry struct {
	domains  map[string]DomainFactory
	backends map[string]BackendFactory
}

func NewRegistry() *Registry {
	r := &Registry{
		domains:  make(map[string]DomainFactory),
		backends: make(map[string]BackendFactory),
	}

	r.domains["life"] = newLife
	r.domains["nbody"] = newNBody

	r.backends["cpu"] = func(workers int) compute.Backend { return compute.NewCPUBackend(workers) }
	r.backends["serial"] = func(int) compute.Backend { return compute.NewSerialBackend() }
	r.backends["auto"] = compute.AutoSelect

	return r
}

func (r *Registry) RegisterDomain(name string, f DomainFactory) { r.domains[name] = f }

func (r *Registry) GetDomain(cfg *config.Config) (sim.Domain, error) {
	fn, ok := r.domains[cfg.Domain]
	if !ok {
		return nil, fmt.Errorf("unknown domain: %s", cfg.Domain)
	}
	return fn(cfg)
}

func (r *Registry) GetBackend(name string, workers int) (compute.Backend, error) {
	fn, ok := r.backends[name]
	if !ok {
		return nil, fmt.Errorf("unknown backend: %s", name)
	}
	return fn(workers), nil
}

func (r *Registry) ListDomains() []string  { return sortedKeys(r.domains) }
func (r *Registry) ListBackends() []string { return sortedKeys(r.backends) }

func sortedKeys[V any](m map[string]V) []string {
	names := make([]string, 0, len(m))
	for name := range m {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func newLife(cfg *config.Config) (sim.Domain, error) {
	pal, err := cfg.Palette()
	if err != nil {
		return nil, err
	}
	return sim.NewLifeDomain(sim.LifeParams{
		Width:   cfg.DomainWidth,
		Height:  cfg.DomainHeight,
		Density: cfg.InitialDensity,
		Alive:   pal.Alive,
		Dead:    pal.Dead,
	})
}

func newNBody(cfg *config.Config) (sim.Domain, error) {
	pal, err := cfg.Palette()
	if err != nil {
		return nil, err
	}
	integ, err := integrators.New(cfg.Integrator)
	if err != nil {
		return nil, dynamo.Invalidf("%v", err)
	}
	return sim.NewNBodyDomain(sim.NBodyParams{
		Count:      cfg.ParticleCount,
		G:          cfg.G,
		Softening:  cfg.Softening,
		Dt:         cfg.Dt,
		Radius:     cfg.SplatRadius,
		Background: pal.Background,
		Particle:   pal.Particle,
		Wrap:       cfg.WrapParticles,
		Integrator: integ,
	})
}

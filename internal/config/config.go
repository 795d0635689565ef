package config

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/framesim/internal/dynamo"
	"github.com/san-kum/framesim/internal/integrators"
	"github.com/san-kum/framesim/internal/sim"
)

const (
	DefaultLifeWidth  = 800
	DefaultLifeHeight = 600
	DefaultDensity    = 0.3

	DefaultParticles   = 5000
	DefaultDt          = 1e-3
	DefaultG           = 5e-2
	DefaultSoftening   = 0.1
	DefaultSplatRadius = 2e-3
	DefaultNBodyView   = 512

	DefaultFPS = 60
)

type Config struct {
	Domain       string `yaml:"domain"`
	DomainWidth  int    `yaml:"domain_width"`
	DomainHeight int    `yaml:"domain_height"`
	ViewWidth    int    `yaml:"view_width"`
	ViewHeight   int    `yaml:"view_height"`

	ParticleCount int     `yaml:"particle_count"`
	Dt            float64 `yaml:"dt"`
	G             float64 `yaml:"g"`
	Softening     float64 `yaml:"softening"`
	SplatRadius   float64 `yaml:"splat_radius"`

	AliveColor      string `yaml:"alive_color"`
	DeadColor       string `yaml:"dead_color"`
	BackgroundColor string `yaml:"background_color"`
	ParticleColor   string `yaml:"particle_color"`

	InitialDensity float64 `yaml:"initial_density"`
	Seed           int64   `yaml:"seed"`
	Backend        string  `yaml:"backend"`
	Workers        int     `yaml:"workers"`
	ResizePolicy   string  `yaml:"resize_policy"`
	WrapParticles  bool    `yaml:"wrap_particles"`
	Integrator     string  `yaml:"integrator"`
	FPS            int     `yaml:"fps"`
}

// DefaultConfig returns the defaults for domain. An empty or unknown domain
// gets the life defaults with Domain left as given.
func DefaultConfig(domain string) *Config {
	cfg := &Config{
		Domain:          domain,
		DomainWidth:     DefaultLifeWidth,
		DomainHeight:    DefaultLifeHeight,
		ViewWidth:       DefaultLifeWidth,
		ViewHeight:      DefaultLifeHeight,
		ParticleCount:   DefaultParticles,
		Dt:              DefaultDt,
		G:               DefaultG,
		Softening:       DefaultSoftening,
		SplatRadius:     DefaultSplatRadius,
		AliveColor:      "#38ff14",
		DeadColor:       "#000000",
		BackgroundColor: "#000000",
		ParticleColor:   "#ffffff",
		InitialDensity:  DefaultDensity,
		Seed:            1,
		Backend:         "auto",
		ResizePolicy:    string(sim.ResizeReseed),
		Integrator:      "euler",
		FPS:             DefaultFPS,
	}
	if domain == "" {
		cfg.Domain = "life"
	}
	if domain == "nbody" {
		cfg.ViewWidth = DefaultNBodyView
		cfg.ViewHeight = DefaultNBodyView
		cfg.ResizePolicy = string(sim.ResizeSurface)
	}
	return cfg
}

// Load reads a YAML file on top of the defaults for the domain it names.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var probe struct {
		Domain string `yaml:"domain"`
	}
	if err := yaml.Unmarshal(data, &probe); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	cfg := DefaultConfig(probe.Domain)
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Clone returns an independent copy.
func (c *Config) Clone() *Config {
	cp := *c
	return &cp
}

// Validate reports every problem with the configuration at once. Each joined
// error wraps dynamo.ErrInvalidConfig.
func (c *Config) Validate() error {
	var errs []error
	bad := func(format string, args ...any) {
		errs = append(errs, dynamo.Invalidf(format, args...))
	}

	switch c.Domain {
	case "life":
		if c.DomainWidth <= 0 || c.DomainHeight <= 0 {
			bad("domain size %dx%d", c.DomainWidth, c.DomainHeight)
		}
	case "nbody":
		if c.ParticleCount < 0 {
			bad("particle_count %d", c.ParticleCount)
		}
	default:
		bad("unknown domain %q", c.Domain)
	}

	if c.ViewWidth <= 0 || c.ViewHeight <= 0 {
		bad("view size %dx%d", c.ViewWidth, c.ViewHeight)
	}
	if !(c.Dt > 0) {
		bad("dt %g must be positive", c.Dt)
	}
	if c.Softening < 0 {
		bad("softening %g must not be negative", c.Softening)
	}
	if c.SplatRadius < 0 || c.SplatRadius > 0.5 {
		bad("splat_radius %g outside [0,0.5]", c.SplatRadius)
	}
	if c.InitialDensity < 0 || c.InitialDensity > 1 {
		bad("initial_density %g outside [0,1]", c.InitialDensity)
	}
	switch c.Backend {
	case "auto", "cpu", "serial":
	default:
		bad("unknown backend %q", c.Backend)
	}
	if c.Workers < 0 {
		bad("workers %d", c.Workers)
	}
	if _, err := integrators.New(c.Integrator); err != nil {
		bad("%v", err)
	}
	if _, err := sim.ParseResizePolicy(c.ResizePolicy); err != nil {
		errs = append(errs, err)
	}
	if c.FPS <= 0 {
		bad("fps %d must be positive", c.FPS)
	}
	if _, err := c.Palette(); err != nil {
		errs = append(errs, err)
	}

	return errors.Join(errs...)
}

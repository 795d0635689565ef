package config

import (
	"errors"
	"image/color"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/san-kum/framesim/internal/dynamo"
)

func TestDefaultConfig(t *testing.T) {
	life := DefaultConfig("life")
	if life.DomainWidth != 800 || life.DomainHeight != 600 {
		t.Errorf("expected 800x600 life grid, got %dx%d", life.DomainWidth, life.DomainHeight)
	}
	if life.InitialDensity != 0.3 {
		t.Errorf("expected density 0.3, got %f", life.InitialDensity)
	}
	if life.ResizePolicy != "reseed" {
		t.Errorf("expected reseed policy, got %s", life.ResizePolicy)
	}

	nb := DefaultConfig("nbody")
	if nb.ParticleCount != 5000 || nb.Dt != 1e-3 || nb.G != 5e-2 || nb.Softening != 0.1 {
		t.Errorf("unexpected nbody defaults: %+v", nb)
	}
	if nb.ViewWidth != 512 || nb.ViewHeight != 512 {
		t.Errorf("expected 512x512 view, got %dx%d", nb.ViewWidth, nb.ViewHeight)
	}

	if DefaultConfig("").Domain != "life" {
		t.Error("empty domain should default to life")
	}

	for _, cfg := range []*Config{life, nb} {
		if err := cfg.Validate(); err != nil {
			t.Errorf("%s defaults invalid: %v", cfg.Domain, err)
		}
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		field  string
	}{
		{"zero width", func(c *Config) { c.DomainWidth = 0 }, "domain size"},
		{"negative count", func(c *Config) { c.Domain = "nbody"; c.ParticleCount = -5 }, "particle_count"},
		{"zero view", func(c *Config) { c.ViewHeight = 0 }, "view size"},
		{"density", func(c *Config) { c.InitialDensity = 1.2 }, "initial_density"},
		{"dt", func(c *Config) { c.Dt = 0 }, "dt"},
		{"softening", func(c *Config) { c.Softening = -0.1 }, "softening"},
		{"radius", func(c *Config) { c.SplatRadius = 0.9 }, "splat_radius"},
		{"backend", func(c *Config) { c.Backend = "cuda" }, "backend"},
		{"policy", func(c *Config) { c.ResizePolicy = "stretch" }, "resize policy"},
		{"colour", func(c *Config) { c.AliveColor = "green" }, "alive_color"},
		{"domain", func(c *Config) { c.Domain = "boids" }, "unknown domain"},
		{"fps", func(c *Config) { c.FPS = 0 }, "fps"},
		{"integrator", func(c *Config) { c.Integrator = "rk4" }, "unknown integrator"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig("life")
			tt.mutate(cfg)
			err := cfg.Validate()
			if !errors.Is(err, dynamo.ErrInvalidConfig) {
				t.Fatalf("expected ErrInvalidConfig, got %v", err)
			}
			if !strings.Contains(err.Error(), tt.field) {
				t.Errorf("error %q does not mention %q", err, tt.field)
			}
		})
	}
}

func TestValidateReportsAll(t *testing.T) {
	cfg := DefaultConfig("life")
	cfg.DomainWidth = 0
	cfg.Dt = -1
	cfg.DeadColor = "#zz"

	err := cfg.Validate()
	for _, want := range []string{"domain size", "dt", "dead_color"} {
		if !strings.Contains(err.Error(), want) {
			t.Errorf("joined error missing %q: %v", want, err)
		}
	}
}

func TestPalette(t *testing.T) {
	p, err := DefaultConfig("life").Palette()
	if err != nil {
		t.Fatal(err)
	}
	want := color.RGBA{R: 0x38, G: 0xff, B: 0x14, A: 0xff}
	if p.Alive != want {
		t.Errorf("alive = %v, want %v", p.Alive, want)
	}
	if p.Dead != (color.RGBA{A: 0xff}) {
		t.Errorf("dead = %v, want opaque black", p.Dead)
	}
}

func TestLoadSave(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "nbody.yaml")

	cfg := DefaultConfig("nbody")
	cfg.ParticleCount = 123
	cfg.WrapParticles = true
	if err := Save(path, cfg); err != nil {
		t.Fatal(err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if *loaded != *cfg {
		t.Errorf("round trip mismatch:\n got %+v\nwant %+v", loaded, cfg)
	}
}

func TestLoadPartialUsesDomainDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "partial.yaml")
	if err := os.WriteFile(path, []byte("domain: nbody\nparticle_count: 64\n"), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.ParticleCount != 64 {
		t.Errorf("expected 64 particles, got %d", cfg.ParticleCount)
	}
	if cfg.ViewWidth != DefaultNBodyView {
		t.Errorf("expected nbody view default, got %d", cfg.ViewWidth)
	}
}

func TestLoadErrors(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("expected error for missing file")
	}

	path := filepath.Join(t.TempDir(), "bad.yaml")
	_ = os.WriteFile(path, []byte("domain: [life"), 0644)
	if _, err := Load(path); err == nil {
		t.Error("expected parse error")
	}
}

func TestGetPreset(t *testing.T) {
	cfg := GetPreset("life", "dense")
	if cfg == nil {
		t.Fatal("expected preset, got nil")
	}
	if cfg.InitialDensity != 0.5 {
		t.Errorf("expected density 0.5, got %f", cfg.InitialDensity)
	}

	cfg.InitialDensity = 0.9
	if GetPreset("life", "dense").InitialDensity != 0.5 {
		t.Error("GetPreset should return a copy")
	}
}

func TestGetPreset_NotFound(t *testing.T) {
	if GetPreset("life", "nonexistent") != nil {
		t.Error("expected nil for nonexistent preset")
	}
	if GetPreset("nonexistent", "classic") != nil {
		t.Error("expected nil for nonexistent domain")
	}
}

func TestPresetsValid(t *testing.T) {
	for domain := range Presets {
		names := ListPresets(domain)
		if len(names) == 0 {
			t.Errorf("no presets for %s", domain)
		}
		for _, name := range names {
			if err := GetPreset(domain, name).Validate(); err != nil {
				t.Errorf("%s/%s invalid: %v", domain, name, err)
			}
		}
	}
	if ListPresets("nonexistent") != nil {
		t.Error("expected nil for nonexistent domain")
	}
}

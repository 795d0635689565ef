package config

import "sort"

func preset(domain string, tweak func(*Config)) *Config {
	cfg := DefaultConfig(domain)
	tweak(cfg)
	return cfg
}

var Presets = map[string]map[string]*Config{
	"life": {
		"classic": preset("life", func(c *Config) {}),
		"dense": preset("life", func(c *Config) {
			c.InitialDensity = 0.5
		}),
		"sparse": preset("life", func(c *Config) {
			c.InitialDensity = 0.1
			c.AliveColor = "#f2f2f2"
		}),
		"small": preset("life", func(c *Config) {
			c.DomainWidth, c.DomainHeight = 160, 120
			c.ViewWidth, c.ViewHeight = 160, 120
			c.FPS = 30
		}),
	},
	"nbody": {
		"default": preset("nbody", func(c *Config) {}),
		"cluster": preset("nbody", func(c *Config) {
			c.ParticleCount = 2000
			c.G = 0.2
			c.Softening = 0.05
			c.ParticleColor = "#ffd27f"
			c.Integrator = "verlet"
		}),
		"small": preset("nbody", func(c *Config) {
			c.ParticleCount = 500
			c.ViewWidth, c.ViewHeight = 256, 256
			c.SplatRadius = 4e-3
		}),
		"torus": preset("nbody", func(c *Config) {
			c.ParticleCount = 1000
			c.WrapParticles = true
		}),
	},
}

// GetPreset returns a copy of the named preset, or nil.
func GetPreset(domain, name string) *Config {
	domainPresets, ok := Presets[domain]
	if !ok {
		return nil
	}
	cfg, ok := domainPresets[name]
	if !ok {
		return nil
	}
	return cfg.Clone()
}

func ListPresets(domain string) []string {
	domainPresets, ok := Presets[domain]
	if !ok {
		return nil
	}
	names := make([]string, 0, len(domainPresets))
	for name := range domainPresets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

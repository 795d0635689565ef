package config

import (
	"fmt"
	"math"
	"sort"

	"github.com/san-kum/framesim/internal/dynamo"
)

// numeric maps the yaml key of every numeric field to a setter. Integer
// fields reject fractional values.
var numeric = map[string]func(c *Config, v float64){
	"domain_width":    func(c *Config, v float64) { c.DomainWidth = int(v) },
	"domain_height":   func(c *Config, v float64) { c.DomainHeight = int(v) },
	"view_width":      func(c *Config, v float64) { c.ViewWidth = int(v) },
	"view_height":     func(c *Config, v float64) { c.ViewHeight = int(v) },
	"particle_count":  func(c *Config, v float64) { c.ParticleCount = int(v) },
	"workers":         func(c *Config, v float64) { c.Workers = int(v) },
	"fps":             func(c *Config, v float64) { c.FPS = int(v) },
	"seed":            func(c *Config, v float64) { c.Seed = int64(v) },
	"dt":              func(c *Config, v float64) { c.Dt = v },
	"g":               func(c *Config, v float64) { c.G = v },
	"softening":       func(c *Config, v float64) { c.Softening = v },
	"splat_radius":    func(c *Config, v float64) { c.SplatRadius = v },
	"initial_density": func(c *Config, v float64) { c.InitialDensity = v },
}

var integral = map[string]bool{
	"domain_width": true, "domain_height": true, "view_width": true, "view_height": true,
	"particle_count": true, "workers": true, "fps": true, "seed": true,
}

// Set assigns a numeric field by its yaml key. It does not validate the
// resulting config.
func (c *Config) Set(key string, v float64) error {
	set, ok := numeric[key]
	if !ok {
		return dynamo.Invalidf("unknown numeric parameter %q (have %v)", key, Tunable())
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return dynamo.Invalidf("%s must be finite, got %v", key, v)
	}
	if integral[key] && v != math.Trunc(v) {
		return dynamo.Invalidf("%s must be an integer, got %v", key, v)
	}
	set(c, v)
	return nil
}

// Apply sets every parameter in overrides, in key order.
func (c *Config) Apply(overrides map[string]float64) error {
	keys := make([]string, 0, len(overrides))
	for k := range overrides {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		if err := c.Set(k, overrides[k]); err != nil {
			return fmt.Errorf("override: %w", err)
		}
	}
	return nil
}

// Tunable lists the keys accepted by Set.
func Tunable() []string {
	keys := make([]string, 0, len(numeric))
	for k := range numeric {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

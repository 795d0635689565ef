package metrics

import (
	"math"

	"github.com/san-kum/framesim/internal/sim"
)

// Energy records total energy per frame and tracks the largest relative
// drift from the first sample.
type Energy struct {
	*Series
	initial  float64
	maxDrift float64
	samples  int
}

func NewEnergy() *Energy {
	return &Energy{Series: NewSeries("energy", "energy", 0)}
}

func (e *Energy) OnFrame(frame int, d sim.Domain) {
	sp, ok := d.(sim.Sampler)
	if !ok {
		return
	}
	v, ok := sp.Sample("energy")
	if !ok {
		return
	}
	e.Record(v)

	if e.samples == 0 {
		e.initial = v
	}
	e.samples++
	if e.initial != 0 {
		e.maxDrift = math.Max(e.maxDrift, math.Abs(v-e.initial)/math.Abs(e.initial))
	}
}

// Drift returns the largest relative deviation seen so far.
func (e *Energy) Drift() float64 { return e.maxDrift }

func (e *Energy) Reset() {
	e.Series.Reset()
	e.initial = 0
	e.maxDrift = 0
	e.samples = 0
}

// ForDomain returns the metric that best describes domain.
func ForDomain(domain string) Metric {
	if domain == "nbody" {
		return NewEnergy()
	}
	return NewPopulation()
}

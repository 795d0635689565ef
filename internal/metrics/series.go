package metrics

import (
	"sync"

	"github.com/san-kum/framesim/internal/sim"
)

// DefaultCapacity is the number of frames a series remembers.
const DefaultCapacity = 512

// Metric is a frame observer that summarizes one diagnostic.
type Metric interface {
	sim.Observer
	Name() string
	Value() float64
	History() []float64
	Reset()
}

// Series records one sampled value per frame in a ring buffer.
type Series struct {
	mu   sync.Mutex
	name string
	key  string
	ring []float64
	head int
	n    int
}

// NewSeries samples key from domains implementing sim.Sampler. Frames from
// domains without the key are ignored.
func NewSeries(name, key string, capacity int) *Series {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &Series{name: name, key: key, ring: make([]float64, capacity)}
}

func NewPopulation() *Series { return NewSeries("population", "population", 0) }
func NewMomentum() *Series   { return NewSeries("momentum", "momentum", 0) }

func (s *Series) Name() string { return s.name }

func (s *Series) OnFrame(frame int, d sim.Domain) {
	sp, ok := d.(sim.Sampler)
	if !ok {
		return
	}
	if v, ok := sp.Sample(s.key); ok {
		s.Record(v)
	}
}

// Record appends v, overwriting the oldest sample when full.
func (s *Series) Record(v float64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.ring[s.head] = v
	s.head = (s.head + 1) % len(s.ring)
	if s.n < len(s.ring) {
		s.n++
	}
}

// Value returns the latest sample, or 0 before the first frame.
func (s *Series) Value() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.n == 0 {
		return 0
	}
	return s.ring[(s.head-1+len(s.ring))%len(s.ring)]
}

// History returns the retained samples, oldest first.
func (s *Series) History() []float64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]float64, s.n)
	start := (s.head - s.n + len(s.ring)) % len(s.ring)
	for i := range out {
		out[i] = s.ring[(start+i)%len(s.ring)]
	}
	return out
}

func (s *Series) Reset() {
	s.mu.Lock()
	s.head, s.n = 0, 0
	s.mu.Unlock()
}

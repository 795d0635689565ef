package sim

import (
	"log/slog"
	"math/rand/v2"
)

type Option func(*Loop)

func WithLogger(l *slog.Logger) Option {
	return func(lp *Loop) {
		if l != nil {
			lp.logger = l
		}
	}
}

// WithRNG sets the generator used by Reset and by reseeding resizes.
func WithRNG(rng *rand.Rand) Option {
	return func(lp *Loop) {
		if rng != nil {
			lp.rng = rng
		}
	}
}

func WithSeed(seed int64) Option {
	return WithRNG(NewRNG(seed))
}

func WithResizePolicy(p ResizePolicy) Option {
	return func(lp *Loop) { lp.policy = p }
}

func WithObserver(o Observer) Option {
	return func(lp *Loop) {
		if o != nil {
			lp.observers = append(lp.observers, o)
		}
	}
}

func WithPresenter(p Presenter) Option {
	return func(lp *Loop) { lp.presenter = p }
}

// NewRNG returns a deterministic PCG generator for seed.
func NewRNG(seed int64) *rand.Rand {
	return rand.New(rand.NewPCG(uint64(seed), 0))
}

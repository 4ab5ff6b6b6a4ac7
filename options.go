package goom

import (
	"math/rand/v2"
	"runtime"
	"time"

	"github.com/glk1001/visualization.goom--sub005/coords"
)

// Option configures a Producer or Coordinator during creation.
//
// Example:
//
//	// Default: one worker per CPU, wall clock, random seed
//	c, err := goom.NewCoordinator(800, 600)
//
//	// Deterministic: fixed pool size and seed
//	c, err := goom.NewCoordinator(800, 600,
//	    goom.WithWorkers(4),
//	    goom.WithRand(rand.New(rand.NewPCG(1, 2))))
type Option func(*options)

// options holds optional configuration.
type options struct {
	workers int
	clock   func() time.Time
	rng     *rand.Rand
	minStep float32
}

// defaultOptions returns the default options.
func defaultOptions() options {
	return options{
		workers: runtime.GOMAXPROCS(0),
		clock:   time.Now,
		rng:     nil, // NewZoomVector seeds its own source
		minStep: coords.DefaultMinStep,
	}
}

func applyOptions(opts []Option) options {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// WithWorkers sets the size of the row worker pool. Values below 1 select
// one worker per CPU.
func WithWorkers(n int) Option {
	return func(o *options) {
		if n < 1 {
			n = runtime.GOMAXPROCS(0)
		}
		o.workers = n
	}
}

// WithClock sets the time source used for statistics. Tests use it to make
// timings deterministic.
func WithClock(now func() time.Time) Option {
	return func(o *options) {
		if now != nil {
			o.clock = now
		}
	}
}

// WithRand sets the random source the coordinator's zoom vector draws
// effect parameters from.
func WithRand(rng *rand.Rand) Option {
	return func(o *options) {
		o.rng = rng
	}
}

// WithMinStep sets the minimum coordinate step, in pixels, of the
// normalized coordinate converter.
func WithMinStep(step float32) Option {
	return func(o *options) {
		o.minStep = step
	}
}

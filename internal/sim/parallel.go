package sim

import (
	"context"
	"math/rand"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/san-kum/partsim/internal/world"
)

// Ensemble runs independent worlds that differ only in their seed.
type Ensemble struct {
	params    world.Params
	count     int
	numRuns   int
	seedStart int64
	metrics   func() []Metric
}

// NewEnsemble prepares numRuns worlds of count particles, seeded
// seedStart, seedStart+1, ...
func NewEnsemble(params world.Params, count, numRuns int, seedStart int64) *Ensemble {
	return &Ensemble{params: params, count: count, numRuns: numRuns, seedStart: seedStart}
}

// WithMetrics sets a factory called once per run; metrics hold state and
// cannot be shared between goroutines.
func (e *Ensemble) WithMetrics(f func() []Metric) *Ensemble {
	e.metrics = f
	return e
}

// Run executes every member with at most GOMAXPROCS in flight. The first
// error cancels the rest.
func (e *Ensemble) Run(ctx context.Context, cfg Config) ([]*Result, error) {
	results := make([]*Result, e.numRuns)

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))

	for i := 0; i < e.numRuns; i++ {
		idx := i
		g.Go(func() error {
			rng := rand.New(rand.NewSource(e.seedStart + int64(idx)))
			w, err := world.Initialize(e.count, e.params, rng)
			if err != nil {
				return err
			}

			s := New(w)
			if e.metrics != nil {
				for _, m := range e.metrics() {
					s.AddMetric(m)
				}
			}

			res, err := s.Run(ctx, cfg)
			if err != nil {
				return err
			}
			results[idx] = res
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

package sim

import (
	"math/rand"
	"sync"

	"leansim/internal/domain"
)

// MonteCarloRunner executes many independent Scheduler runs and aggregates
// summary statistics.
//
// Iteration i draws from its own rand source seeded with seed+i, so the
// aggregate is bit-identical regardless of Workers or completion order.
type MonteCarloRunner struct {
	Scheduler Scheduler
	// Workers bounds concurrent iterations; values below 2 mean serial.
	Workers int
}

// Run executes simulations independent runs over g.
//
// simulations must be positive; the runner rejects rather than defaulting
// (the CLI owns defaulting policy). Per-run schedules are discarded; only
// total duration and value-added time are folded into the aggregate.
func (r MonteCarloRunner) Run(g *Graph, simulations int, seed int64) (domain.AggregateStats, error) {
	if simulations <= 0 {
		return domain.AggregateStats{}, &GraphError{Kind: ErrInvalidParameter, Msg: "simulations must be a positive integer"}
	}

	durations := make([]float64, simulations)
	values := make([]float64, simulations)
	errs := make([]error, simulations)

	iterate := func(i int) {
		rng := rand.New(rand.NewSource(seed + int64(i)))
		_, res, err := r.Scheduler.Run(g, rng)
		if err != nil {
			errs[i] = err
			return
		}
		durations[i] = res.TotalDuration
		values[i] = res.TotalValueAdded
	}

	if r.Workers > 1 {
		var wg sync.WaitGroup
		work := make(chan int)
		for w := 0; w < r.Workers; w++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				for i := range work {
					iterate(i)
				}
			}()
		}
		for i := 0; i < simulations; i++ {
			work <- i
		}
		close(work)
		wg.Wait()
	} else {
		for i := 0; i < simulations; i++ {
			iterate(i)
		}
	}

	// Reduce in iteration order so float accumulation is reproducible.
	stats := domain.AggregateStats{Simulations: simulations}
	var sumDur, sumVal float64
	for i := 0; i < simulations; i++ {
		if errs[i] != nil {
			return domain.AggregateStats{}, errs[i]
		}
		sumDur += durations[i]
		sumVal += values[i]
		if i == 0 || durations[i] < stats.MinDuration {
			stats.MinDuration = durations[i]
		}
		if durations[i] > stats.MaxDuration {
			stats.MaxDuration = durations[i]
		}
	}
	stats.MeanDuration = sumDur / float64(simulations)
	stats.MeanValueAdded = sumVal / float64(simulations)
	stats.Efficiency = 100 * stats.MeanValueAdded / stats.MeanDuration
	return stats, nil
}

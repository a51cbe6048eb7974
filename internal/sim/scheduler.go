package sim

import (
	"math/rand"

	"leansim/internal/domain"
)

// Scheduler computes one randomized forward-pass schedule over a Graph.
type Scheduler struct {
	Sampler Sampler
}

// Run processes tasks in topological order: each task starts at the maximum
// finish time of its dependencies (0 with none) and finishes after its
// sampled duration. The project's total duration is the latest finish among
// sink tasks.
//
// The returned schedule is ordered by computation (topological) order, not
// by map iteration.
//
// Run fails with ErrDegenerateSchedule when total duration is zero (no
// tasks, or all realized durations zero), since efficiency is undefined.
func (s Scheduler) Run(g *Graph, rng *rand.Rand) (domain.Schedule, domain.RunResult, error) {
	finish := make(map[string]float64, g.Len())
	schedule := make(domain.Schedule, 0, g.Len())

	for _, id := range g.TopologicalOrder() {
		t, _ := g.Task(id)
		start := 0.0
		for _, dep := range t.DependsOn {
			if f := finish[dep]; f > start {
				start = f
			}
		}
		dur := s.Sampler.Sample(t, rng)
		finish[id] = start + dur
		schedule = append(schedule, domain.ScheduleEntry{
			TaskID:           id,
			Start:            start,
			Finish:           start + dur,
			RealizedDuration: dur,
			ValueAdded:       t.ValueAdded,
			BaseDuration:     t.BaseDuration,
		})
	}

	total := 0.0
	for _, id := range g.Sinks() {
		if f := finish[id]; f > total {
			total = f
		}
	}
	if total == 0 {
		return nil, domain.RunResult{}, &GraphError{Kind: ErrDegenerateSchedule, Msg: "total duration is zero"}
	}

	res := domain.RunResult{
		TotalDuration:   total,
		TotalValueAdded: g.TotalValueAdded(),
	}
	res.Efficiency = 100 * res.TotalValueAdded / res.TotalDuration
	return schedule, res, nil
}

package engine

import (
	"errors"

	"leansim/internal/config"
	"leansim/internal/domain"
	"leansim/internal/sim"
)

// Engine runs simulations over one loaded project definition.
//
// It is the surface the CLI calls into. Parameter validation here is strict:
// out-of-range values are rejected, never clamped (clamping and defaulting
// belong to the CLI layer).
type Engine struct {
	Project *config.Project
	// Workers bounds Monte Carlo parallelism; 0 keeps runs serial.
	Workers int
}

func New(p *config.Project) Engine {
	return Engine{Project: p}
}

// graph builds the scenario graph for the given lean improvement.
//
// The graph is rebuilt per call because the scenario parameter is baked into
// the effective delay factors at construction time.
func (e Engine) graph(leanImprovement float64) (*sim.Graph, error) {
	if e.Project == nil {
		return nil, errors.New("project not loaded")
	}
	return sim.NewGraph(e.Project.Tasks, leanImprovement)
}

// SimulateProject runs a single randomized schedule computation.
//
// The schedule is returned in topological/computation order. The same seed
// always yields an identical schedule.
func (e Engine) SimulateProject(leanImprovement float64, seed int64) (domain.Schedule, domain.RunResult, error) {
	g, err := e.graph(leanImprovement)
	if err != nil {
		return nil, domain.RunResult{}, err
	}
	var s sim.Scheduler
	return s.Run(g, sim.NewRand(seed))
}

// RunMonteCarlo runs simulations independent randomized schedule
// computations and aggregates their statistics.
func (e Engine) RunMonteCarlo(simulations int, leanImprovement float64, seed int64) (domain.AggregateStats, error) {
	g, err := e.graph(leanImprovement)
	if err != nil {
		return domain.AggregateStats{}, err
	}
	r := sim.MonteCarloRunner{Workers: e.Workers}
	return r.Run(g, simulations, seed)
}

package sim

import (
	"leansim/internal/domain"
)

// Graph is an immutable, validated dependency graph over project tasks.
//
// Construction applies the lean-improvement scenario to every task's delay
// factor, computes a deterministic topological order and identifies the sink
// tasks. After that the graph is read-only and safe for concurrent use.
type Graph struct {
	tasks  []domain.Task  // definition order, delay factors already scaled
	byID   map[string]int // id -> index into tasks
	order  []int          // topological order, indices into tasks
	sinks  []int          // tasks no other task depends on, definition order
	static float64        // sum of base durations over value-added tasks
}

// NewGraph builds and validates a Graph.
//
// leanImprovement must be in [0,1]; each task's effective delay factor is
// scaled by (1 - leanImprovement) here, so the sampler stays unaware of the
// scenario parameter.
//
// Validation rejects empty or duplicate task ids, dependencies on undefined
// tasks, and any dependency cycle (self-loops included).
func NewGraph(tasks []domain.Task, leanImprovement float64) (*Graph, error) {
	if leanImprovement < 0 || leanImprovement > 1 {
		return nil, &GraphError{Kind: ErrInvalidParameter, Msg: "lean improvement must be in [0,1]"}
	}

	byID := make(map[string]int, len(tasks))
	scaled := make([]domain.Task, len(tasks))
	for i, t := range tasks {
		if t.ID == "" {
			return nil, invalidf("task id is required")
		}
		if _, exists := byID[t.ID]; exists {
			return nil, invalidf("duplicate task id: %q", t.ID)
		}
		byID[t.ID] = i

		t.DependsOn = append([]string(nil), t.DependsOn...)
		t.DelayFactor *= 1 - leanImprovement
		scaled[i] = t
	}

	for _, t := range scaled {
		for _, dep := range t.DependsOn {
			if _, ok := byID[dep]; !ok {
				return nil, unknownDepf(t.ID, dep)
			}
		}
	}

	g := &Graph{tasks: scaled, byID: byID}

	order, err := g.topoOrder()
	if err != nil {
		return nil, err
	}
	g.order = order

	hasDependent := make([]bool, len(scaled))
	for _, t := range scaled {
		for _, dep := range t.DependsOn {
			hasDependent[byID[dep]] = true
		}
	}
	for i := range scaled {
		if !hasDependent[i] {
			g.sinks = append(g.sinks, i)
		}
	}

	for _, t := range scaled {
		if t.ValueAdded {
			g.static += t.BaseDuration
		}
	}

	return g, nil
}

// topoOrder computes a topological ordering by depth-first traversal with
// three-color marking. Visiting an in-progress node signals a cycle; the
// returned error carries the cycle path as a witness.
func (g *Graph) topoOrder() ([]int, error) {
	const (
		white = 0 // unvisited
		gray  = 1 // in progress
		black = 2 // done
	)

	color := make([]int, len(g.tasks))
	order := make([]int, 0, len(g.tasks))
	var stack []string

	var visit func(i int) error
	visit = func(i int) error {
		color[i] = gray
		stack = append(stack, g.tasks[i].ID)
		for _, dep := range g.tasks[i].DependsOn {
			j := g.byID[dep]
			switch color[j] {
			case white:
				if err := visit(j); err != nil {
					return err
				}
			case gray:
				// Trim the stack to the cycle entry point and close the loop.
				path := append([]string(nil), stack...)
				for k, id := range path {
					if id == dep {
						path = path[k:]
						break
					}
				}
				return cycleError(append(path, dep))
			}
		}
		stack = stack[:len(stack)-1]
		color[i] = black
		order = append(order, i)
		return nil
	}

	for i := range g.tasks {
		if color[i] == white {
			if err := visit(i); err != nil {
				return nil, err
			}
		}
	}
	return order, nil
}

// Task returns a task definition by id.
func (g *Graph) Task(id string) (domain.Task, bool) {
	i, ok := g.byID[id]
	if !ok {
		return domain.Task{}, false
	}
	return g.tasks[i], true
}

// Tasks returns all tasks in definition order.
func (g *Graph) Tasks() []domain.Task {
	out := make([]domain.Task, len(g.tasks))
	copy(out, g.tasks)
	return out
}

// Len returns the number of tasks.
func (g *Graph) Len() int { return len(g.tasks) }

// TopologicalOrder returns task ids such that every task appears after all
// of its dependencies. Deterministic for a given definition order.
func (g *Graph) TopologicalOrder() []string {
	out := make([]string, 0, len(g.order))
	for _, i := range g.order {
		out = append(out, g.tasks[i].ID)
	}
	return out
}

// Sinks returns the ids of tasks that no other task depends on. The project
// finishes when the last sink finishes.
func (g *Graph) Sinks() []string {
	out := make([]string, 0, len(g.sinks))
	for _, i := range g.sinks {
		out = append(out, g.tasks[i].ID)
	}
	return out
}

// TotalValueAdded is the sum of base durations over value-added tasks.
// It is static: no randomness is involved.
func (g *Graph) TotalValueAdded() float64 { return g.static }

package domain

// Task is the immutable definition of one project activity.
type Task struct {
	ID               string   `yaml:"id" json:"id"`
	BaseDuration     float64  `yaml:"base_duration" json:"base_duration"`
	ValueAdded       bool     `yaml:"value_added" json:"value_added"`
	DelayFactor      float64  `yaml:"delay_factor,omitempty" json:"delay_factor,omitempty"`
	DelayProbability float64  `yaml:"delay_probability,omitempty" json:"delay_probability,omitempty"`
	DependsOn        []string `yaml:"depends_on,omitempty" json:"depends_on,omitempty"`
}

// ScheduleEntry is the realized timing of one task in a single simulated run.
// Invariant: Finish = Start + RealizedDuration.
type ScheduleEntry struct {
	TaskID           string  `json:"task_id"`
	Start            float64 `json:"start"`
	Finish           float64 `json:"finish"`
	RealizedDuration float64 `json:"realized_duration"`
	ValueAdded       bool    `json:"value_added"`
	BaseDuration     float64 `json:"base_duration"`
}

// Schedule lists entries in topological/computation order.
type Schedule []ScheduleEntry

// RunResult summarizes one simulated run.
type RunResult struct {
	TotalDuration   float64 `json:"total_duration"`
	TotalValueAdded float64 `json:"total_value_added"`
	Efficiency      float64 `json:"efficiency"`
}

// AggregateStats summarizes a Monte Carlo batch. Efficiency is computed
// from the means, not averaged per run.
type AggregateStats struct {
	Simulations    int     `json:"simulations"`
	MeanDuration   float64 `json:"mean_duration"`
	MeanValueAdded float64 `json:"mean_value_added"`
	Efficiency     float64 `json:"efficiency"`
	MinDuration    float64 `json:"min_duration"`
	MaxDuration    float64 `json:"max_duration"`
}

// Project is a stored project-definition record in the workspace database.
type Project struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	TaskCount   int    `json:"task_count"`
	CreatedAt   string `json:"created_at" format:"date-time"`
}

type Event struct {
	ID         int64  `json:"id"`
	TS         string `json:"ts" format:"date-time"`
	Type       string `json:"type"`
	ProjectID  string `json:"project_id,omitempty"`
	EntityKind string `json:"entity_kind"`
	EntityID   string `json:"entity_id,omitempty"`
	ActorID    string `json:"actor_id"`
	Payload    string `json:"payload_json"`
}

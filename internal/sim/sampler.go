package sim

import (
	"math/rand"

	"leansim/internal/domain"
)

// NewRand returns a deterministically seeded randomness source. Callers own
// the stream; nothing in this package touches the global rand state.
func NewRand(seed int64) *rand.Rand {
	return rand.New(rand.NewSource(seed))
}

// Sampler draws a realized duration for one task.
//
// The zero value is ready to use; the type exists so the scheduler's
// randomness semantics stay in one replaceable place.
type Sampler struct{}

// Sample returns the realized duration of t.
//
// Value-added tasks, and tasks with no effective delay factor, always take
// exactly their base duration and consume no randomness. Otherwise one
// uniform draw in [0,1) decides whether the delay occurs; if it does, a
// second draw picks the delay uniformly in [0, delay factor).
func (Sampler) Sample(t domain.Task, rng *rand.Rand) float64 {
	if t.ValueAdded || t.DelayFactor <= 0 {
		return t.BaseDuration
	}
	delay := 0.0
	if rng.Float64() < t.DelayProbability {
		delay = rng.Float64() * t.DelayFactor
	}
	return t.BaseDuration + delay
}

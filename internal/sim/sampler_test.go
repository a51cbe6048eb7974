package sim_test

import (
	"math/rand"
	"testing"

	"leansim/internal/domain"
	"leansim/internal/sim"
)

// countingSource counts draws so tests can assert how much randomness a
// sample consumes.
type countingSource struct {
	src   rand.Source64
	draws int
}

func (c *countingSource) Int63() int64 {
	c.draws++
	return c.src.Int63()
}

func (c *countingSource) Uint64() uint64 {
	c.draws++
	return c.src.Uint64()
}

func (c *countingSource) Seed(seed int64) {}

func TestValueAddedTaskConsumesNoRandomness(t *testing.T) {
	src := &countingSource{src: rand.NewSource(1).(rand.Source64)}
	rng := rand.New(src)
	var s sim.Sampler

	got := s.Sample(domain.Task{ID: "a", BaseDuration: 7, ValueAdded: true, DelayFactor: 5, DelayProbability: 1}, rng)
	if got != 7 {
		t.Fatalf("expected exact base duration 7, got %v", got)
	}
	if src.draws != 0 {
		t.Fatalf("expected no draws, got %d", src.draws)
	}
}

func TestZeroDelayFactorConsumesNoRandomness(t *testing.T) {
	src := &countingSource{src: rand.NewSource(1).(rand.Source64)}
	rng := rand.New(src)
	var s sim.Sampler

	if got := s.Sample(domain.Task{ID: "a", BaseDuration: 3, DelayProbability: 1}, rng); got != 3 {
		t.Fatalf("expected 3, got %v", got)
	}
	if src.draws != 0 {
		t.Fatalf("expected no draws, got %d", src.draws)
	}
}

func TestDelayNeverFiresWithZeroProbability(t *testing.T) {
	src := &countingSource{src: rand.NewSource(1).(rand.Source64)}
	rng := rand.New(src)
	var s sim.Sampler

	if got := s.Sample(domain.Task{ID: "a", BaseDuration: 3, DelayFactor: 10}, rng); got != 3 {
		t.Fatalf("expected 3, got %v", got)
	}
	if src.draws != 1 {
		t.Fatalf("expected exactly one draw, got %d", src.draws)
	}
}

func TestDelayBounds(t *testing.T) {
	rng := sim.NewRand(42)
	var s sim.Sampler
	task := domain.Task{ID: "a", BaseDuration: 10, DelayFactor: 4, DelayProbability: 1}

	for i := 0; i < 1000; i++ {
		got := s.Sample(task, rng)
		if got < 10 || got >= 14 {
			t.Fatalf("sample %v outside [10,14)", got)
		}
	}
}

func TestDelayFrequencyTracksProbability(t *testing.T) {
	rng := sim.NewRand(7)
	var s sim.Sampler
	task := domain.Task{ID: "a", BaseDuration: 1, DelayFactor: 1, DelayProbability: 0.3}

	delayed := 0
	const n = 10000
	for i := 0; i < n; i++ {
		if s.Sample(task, rng) > 1 {
			delayed++
		}
	}
	ratio := float64(delayed) / n
	if ratio < 0.27 || ratio > 0.33 {
		t.Fatalf("delay ratio %v too far from 0.3", ratio)
	}
}

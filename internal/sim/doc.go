// Package sim is the scheduling and simulation core.
//
// It is intentionally split into:
//   - Immutable graph definition (Graph): validated tasks + dependency
//     structure, topological order, sinks
//   - Randomized duration model (Sampler)
//   - Forward-pass schedule computation (Scheduler)
//   - Statistical aggregation over repeated runs (MonteCarloRunner)
//
// The package does no I/O and holds no global randomness: every randomized
// operation takes an explicit *rand.Rand, which keeps runs reproducible and
// Monte Carlo iterations safe to execute in parallel.
package sim

// Package cli holds the forgiving parameter policies applied at the CLI
// boundary. The engine itself rejects bad parameters outright; defaulting
// and clamping happen here and only here.
package cli

import (
	"strconv"
	"strings"
)

// DefaultSimulations is used when the simulation count cannot be parsed.
const DefaultSimulations = 1000

// ParseSimulations parses a simulation count, falling back to
// DefaultSimulations when the input is empty or not an integer. A parsed
// non-positive value is returned as-is so the engine can reject it.
func ParseSimulations(raw string) int {
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return DefaultSimulations
	}
	return n
}

// ParseLeanImprovement parses a lean-improvement factor, clamping to 0 when
// the input is unparsable or outside [0,1].
func ParseLeanImprovement(raw string) float64 {
	v, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil || v < 0 || v > 1 {
		return 0
	}
	return v
}

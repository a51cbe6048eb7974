package sim

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrInvalidGraph covers structural faults below the dependency level:
	// empty or duplicate task ids.
	ErrInvalidGraph = errors.New("invalid task graph")
	// ErrUnknownDependency means a task depends on an id that is not defined.
	ErrUnknownDependency = errors.New("unknown dependency")
	// ErrCycleDetected means the dependency relation is not acyclic.
	ErrCycleDetected = errors.New("cycle detected")
	// ErrInvalidParameter rejects out-of-range runtime parameters. The engine
	// never clamps; clamping is a CLI-side policy.
	ErrInvalidParameter = errors.New("invalid parameter")
	// ErrDegenerateSchedule means total duration is zero and efficiency is
	// undefined for the run.
	ErrDegenerateSchedule = errors.New("degenerate schedule")
)

// GraphError wraps deterministic graph construction failures.
type GraphError struct {
	Kind error
	Msg  string
}

func (e *GraphError) Error() string {
	if e == nil {
		return ""
	}
	if e.Msg == "" {
		return e.Kind.Error()
	}
	return fmt.Sprintf("%s: %s", e.Kind.Error(), e.Msg)
}

func (e *GraphError) Unwrap() error { return e.Kind }

func invalidf(format string, args ...any) error {
	return &GraphError{Kind: ErrInvalidGraph, Msg: fmt.Sprintf(format, args...)}
}

func unknownDepf(taskID, depID string) error {
	return &GraphError{Kind: ErrUnknownDependency, Msg: fmt.Sprintf("task %q depends on undefined task %q", taskID, depID)}
}

func cycleError(path []string) error {
	msg := "cycle"
	if len(path) > 0 {
		msg = "cycle: " + strings.Join(path, " -> ")
	}
	return &GraphError{Kind: ErrCycleDetected, Msg: msg}
}

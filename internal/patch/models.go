package patch

import "github.com/romforge/romforge/internal/conflict"

// Spec describes one upstream change to layer onto an already-cloned tree.
type Spec struct {
	Path     string // Target repository directory
	Remote   string // Remote name to register
	URL      string // Remote URL
	Commit   string // Commit identifier to cherry-pick
	Strategy conflict.Strategy
}

// State classifies the outcome of applying one Spec.
type State int

const (
	StateApplied State = iota
	StateAlreadyApplied
	StateSkipped
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateApplied:
		return "applied"
	case StateAlreadyApplied:
		return "already-applied"
	case StateSkipped:
		return "skipped"
	case StateFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Outcome is the per-spec result. Reason is set for skips and failures.
type Outcome struct {
	State  State
	Reason string
}

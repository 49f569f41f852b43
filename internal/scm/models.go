package scm

// PickState classifies the outcome of a cherry-pick or its continuation.
type PickState int

const (
	// PickApplied means a new commit was recorded.
	PickApplied PickState = iota
	// PickEmpty means the change is already present and nothing was committed.
	PickEmpty
	// PickConflicted means the pick stopped on merge conflicts.
	PickConflicted
)

func (s PickState) String() string {
	switch s {
	case PickApplied:
		return "applied"
	case PickEmpty:
		return "empty"
	case PickConflicted:
		return "conflicted"
	default:
		return "unknown"
	}
}

// CherryPickResult is the outcome of a cherry-pick attempt.
type CherryPickResult struct {
	State         PickState
	ConflictFiles []string // Repository-relative, set when State is PickConflicted
}

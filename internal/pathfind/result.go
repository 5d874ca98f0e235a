package pathfind

import "fmt"

// Outcome is the terminal state of a search.
type Outcome int

// Search outcomes.
const (
	TargetUnreachable Outcome = iota // Target not walkable or open list exhausted
	TrivialAtTarget                  // Start equals target
	Found                            // Path produced
)

// String returns a human-readable outcome name.
func (o Outcome) String() string {
	switch o {
	case TargetUnreachable:
		return "Unreachable"
	case TrivialAtTarget:
		return "Trivial"
	case Found:
		return "Found"
	default:
		return fmt.Sprintf("Unknown(%d)", int(o))
	}
}

// MarshalText encodes the outcome by name.
func (o Outcome) MarshalText() ([]byte, error) {
	return []byte(o.String()), nil
}

// Cell is a grid coordinate.
type Cell struct {
	X, Y int
}

// Result holds the outcome of a single search.
type Result struct {
	Outcome Outcome

	// Cells runs from start to target inclusive. Empty when unreachable.
	Cells []Cell

	// Cost is the accumulated G-cost of the target (10 per orthogonal step,
	// 14 per diagonal step).
	Cost int

	// Expanded is the number of cells closed during the search.
	Expanded int
}

// WasFound reports whether a path exists, including the trivial one.
func (r Result) WasFound() bool {
	return r.Outcome == Found || r.Outcome == TrivialAtTarget
}

// IsTrivial reports whether start and target were the same cell.
func (r Result) IsTrivial() bool {
	return r.Outcome == TrivialAtTarget
}

func unreachable() Result {
	return Result{Outcome: TargetUnreachable}
}

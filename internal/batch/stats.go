package batch

import "github.com/Faultbox/gridpath/internal/pathfind"

// Stats summarises a batch.
type Stats struct {
	Queries     int
	Found       int
	Trivial     int
	Unreachable int

	TotalCost     int // Sum over found paths
	TotalExpanded int
	LongestPath   int // Cells in the longest found path
}

// Summarise counts outcomes and totals over answers.
func Summarise(answers []Answer) Stats {
	var st Stats
	st.Queries = len(answers)
	for _, a := range answers {
		st.TotalExpanded += a.Expanded
		switch a.Outcome {
		case pathfind.Found:
			st.Found++
			st.TotalCost += a.Cost
			if len(a.Cells) > st.LongestPath {
				st.LongestPath = len(a.Cells)
			}
		case pathfind.TrivialAtTarget:
			st.Trivial++
		default:
			st.Unreachable++
		}
	}
	return st
}

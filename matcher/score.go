package matcher

import (
	"fmt"

	"github.com/KorAP/Koral-TreeCompare/ast"
)

// InvariantError reports a violated internal invariant of the matcher.
// It is raised by panic and is not meant to be recovered.
type InvariantError struct {
	Msg string
}

func (e *InvariantError) Error() string {
	return "matcher invariant violated: " + e.Msg
}

// childState tracks a found child during one scoring call
type childState struct {
	candidate bool // matched at least one expected sibling
	best      bool // chosen as best match of an expected sibling
	recorded  bool
	score     int
}

// Score computes how well the found attribute matches the expected one.
//
// If name, value and type differ the result is (0, false). Otherwise the
// match is rewarded with 1 and the children are assigned sequentially:
// every expected child, in order, claims the unclaimed found child with
// the strictly highest score. Claimed found children contribute their
// score, all other found children are penalized by their subtree size.
func Score(expected, found *ast.Node) (int, bool) {
	if !ast.NodesEqual(expected, found) {
		return 0, false
	}

	score := 1
	states := make([]childState, len(found.Children))
	claimed := make([]bool, len(found.Children))

	for _, expectedChild := range expected.Children {
		bestIndex := -1
		bestScore := 0

		for j, foundChild := range found.Children {
			if claimed[j] {
				// Placeholder (0, false)
				continue
			}
			s, ok := Score(expectedChild, foundChild)
			if !ok {
				continue
			}
			states[j].candidate = true
			if bestIndex < 0 || s > bestScore {
				bestIndex = j
				bestScore = s
			}
		}

		if bestIndex >= 0 {
			states[bestIndex].best = true
			states[bestIndex].recorded = true
			states[bestIndex].score = bestScore
			claimed[bestIndex] = true
		}
	}

	return score + childrenScore(found.Children, states), true
}

// childrenScore adds up the claimed scores of the found children and
// the penalties of all others. Score always records a best child, the
// check guards against refactorings that separate the two.
func childrenScore(children []*ast.Node, states []childState) int {
	score := 0
	for j, child := range children {
		state := states[j]
		if !state.candidate || !state.best {
			score -= ast.Size(child)
			continue
		}
		if !state.recorded {
			panic(&InvariantError{
				Msg: fmt.Sprintf("best found child %d (%s) has no recorded score", j, child.Segment()),
			})
		}
		score += state.score
	}
	return score
}

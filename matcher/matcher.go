package matcher

import (
	"sort"

	"github.com/KorAP/Koral-TreeCompare/ast"
	"github.com/KorAP/Koral-TreeCompare/stats"
)

// Candidate is a scored pairing of an expected and a found sibling
type Candidate struct {
	Score         int
	Valid         bool
	ExpectedIndex int
	FoundIndex    int
}

// selfAligned checks if both sides share the same sibling position
func (c Candidate) selfAligned() bool {
	return c.ExpectedIndex == c.FoundIndex
}

// candidateLess orders valid candidates before invalid ones, then by
// descending score. Ties prefer self aligned candidates, then the lower
// expected index. Candidates with the same expected index are not
// ordered, so their relative order is decided by the stable sort.
func candidateLess(a, b Candidate) bool {
	if a.Valid != b.Valid {
		return a.Valid
	}
	if !a.Valid {
		return false
	}
	if a.Score != b.Score {
		return a.Score > b.Score
	}
	aSelf, bSelf := a.selfAligned(), b.selfAligned()
	if aSelf != bSelf {
		return aSelf
	}
	return a.ExpectedIndex < b.ExpectedIndex
}

// sortCandidates orders candidates by candidateLess
func sortCandidates(candidates []Candidate) {
	sort.SliceStable(candidates, func(i, j int) bool {
		return candidateLess(candidates[i], candidates[j])
	})
}

// buildCandidates scores every pair of expected and found siblings,
// expected major and found minor
func buildCandidates(expected, found []*ast.Node) []Candidate {
	candidates := make([]Candidate, 0, len(expected)*len(found))
	for i, e := range expected {
		for j, f := range found {
			score, ok := Score(e, f)
			candidates = append(candidates, Candidate{
				Score:         score,
				Valid:         ok,
				ExpectedIndex: i,
				FoundIndex:    j,
			})
		}
	}
	return candidates
}

// Compare matches the found siblings against the expected siblings one
// to one and returns true if every node on every level was matched.
//
// Matched expected nodes are counted as correct, unmatched found nodes
// and all their descendants as incorrectly found. The expected counts
// are not touched and have to be collected by stats.CountExpected
// beforehand. All levels are always visited completely.
func Compare(expected, found []*ast.Node, prefix string, t *stats.Tallies) bool {
	switch {
	case len(expected) == 0 && len(found) == 0:
		return true
	case len(found) == 0:
		return false
	case len(expected) == 0:
		stats.CountIncorrect(found, prefix, t)
		return false
	}

	matched := true
	expectedUsed := make([]bool, len(expected))
	foundUsed := make([]bool, len(found))

	candidates := buildCandidates(expected, found)
	sortCandidates(candidates)

	for len(candidates) > 0 && candidates[0].Valid {
		best := candidates[0]
		expectedUsed[best.ExpectedIndex] = true
		foundUsed[best.FoundIndex] = true

		e := expected[best.ExpectedIndex]
		f := found[best.FoundIndex]
		qname := ast.QualifiedName(prefix, e)
		t.Correct.Inc(qname)

		if !Compare(e.Children, f.Children, qname, t) {
			matched = false
		}

		for i := range candidates {
			if candidates[i].ExpectedIndex == best.ExpectedIndex ||
				candidates[i].FoundIndex == best.FoundIndex {
				candidates[i].Valid = false
			}
		}
		sortCandidates(candidates)
	}

	for j, f := range found {
		if !foundUsed[j] {
			stats.CountIncorrect([]*ast.Node{f}, prefix, t)
			matched = false
		}
	}

	for i := range expected {
		if !expectedUsed[i] {
			matched = false
		}
	}

	return matched
}

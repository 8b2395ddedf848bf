package services

import (
	"depconstraints/domain/core/aggregates"
	"depconstraints/domain/core/valueobjects"
)

// CycleFixer repairs cycles a greedy head assignment can introduce, used as
// a fallback path when beam search over arcs is skipped.
type CycleFixer struct {
	repairs int
}

// NewCycleFixer creates a cycle fixer.
func NewCycleFixer() *CycleFixer {
	return &CycleFixer{}
}

// RepairsPerformed returns the cumulative number of cycles this fixer has
// repaired (arc removed and a reattachment attempted) across every Fix
// call made on it so far.
func (f *CycleFixer) RepairsPerformed() int {
	return f.repairs
}

// Fix returns a clone of tree with every cycle repaired: for each cycle,
// its lowest-scoring arc is removed, freeing that dependent, which is then
// reattached to the highest-scoring "direct element" (a token not part of
// any cycle) whose arc would not reintroduce a cycle. If no such
// reattachment exists the dependent is left without a governor — an extra
// root the validator is expected to flag downstream.
func (f *CycleFixer) Fix(tree *aggregates.DependencyTree, arcScores map[valueobjects.TokenID]map[valueobjects.TokenID]valueobjects.Score) *aggregates.DependencyTree {
	result := tree.Clone()
	cycles := f.findAllCycles(result)
	if len(cycles) == 0 {
		return result
	}

	inCycle := make(map[valueobjects.TokenID]bool)
	for _, cycle := range cycles {
		for _, id := range cycle {
			inCycle[id] = true
		}
	}
	var direct []valueobjects.TokenID
	for _, id := range result.Order() {
		if !inCycle[id] {
			direct = append(direct, id)
		}
	}

	for _, cycle := range cycles {
		dependentID, ok := f.lowestScoringArc(result, cycle)
		if !ok {
			continue
		}
		f.repairs++

		label := ""
		if arc, ok := result.Arc(dependentID); ok {
			label = arc.Label
		}
		result.SetArc(dependentID, nil, label, valueobjects.Score(0))

		best, bestScore, found := f.bestReattachment(result, dependentID, direct, arcScores)
		if found {
			g := best
			result.SetArc(dependentID, &g, label, bestScore)
		}
		// else: left ungoverned — downstream treats this as an extra root.
	}
	return result
}

// findAllCycles enumerates disjoint cycles in tree's governor relation,
// grounded on GraphValidationService.hasCycleDFS's marked-DFS, generalized
// to collect every cycle (not just the first) since a functional graph
// (every node has at most one outgoing governor edge) has vertex-disjoint
// cycles by construction.
func (f *CycleFixer) findAllCycles(tree *aggregates.DependencyTree) [][]valueobjects.TokenID {
	const (
		unvisited = 0
		visiting = 1
		done = 2
	)
	state := make(map[valueobjects.TokenID]int, len(tree.Order()))
	var cycles [][]valueobjects.TokenID

	for _, start := range tree.Order() {
		if state[start] != unvisited {
			continue
		}
		var path []valueobjects.TokenID
		current := start
		for {
			if state[current] == done {
				break
			}
			if state[current] == visiting {
				idx := 0
				for i, id := range path {
					if id == current {
						idx = i
						break
					}
				}
				cycles = append(cycles, append([]valueobjects.TokenID(nil), path[idx:]...))
				break
			}
			state[current] = visiting
			path = append(path, current)
			gov, ok := tree.Governor(current)
			if !ok {
				break
			}
			current = gov
		}
		for _, id := range path {
			state[id] = done
		}
	}
	return cycles
}

// lowestScoringArc returns the dependent within cycle whose current arc has
// the lowest attachment score.
func (f *CycleFixer) lowestScoringArc(tree *aggregates.DependencyTree, cycle []valueobjects.TokenID) (valueobjects.TokenID, bool) {
	var lowestID valueobjects.TokenID
	var lowestScore float64
	found := false
	for _, id := range cycle {
		arc, ok := tree.Arc(id)
		if !ok || !arc.HasGovernor() {
			continue
		}
		if !found || arc.Score.Float64() < lowestScore {
			lowestID = id
			lowestScore = arc.Score.Float64()
			found = true
		}
	}
	return lowestID, found
}

// bestReattachment finds the highest-scoring direct-element governor for
// dependentID whose attachment would not reintroduce a cycle, ties broken
// by higher score (the candidate list order already is that preference).
func (f *CycleFixer) bestReattachment(tree *aggregates.DependencyTree, dependentID valueobjects.TokenID, direct []valueobjects.TokenID, arcScores map[valueobjects.TokenID]map[valueobjects.TokenID]valueobjects.Score) (valueobjects.TokenID, valueobjects.Score, bool) {
	scores := arcScores[dependentID]
	var bestID valueobjects.TokenID
	var bestScore valueobjects.Score
	found := false

	for _, candidateID := range direct {
		if candidateID == dependentID {
			continue
		}
		score, ok := scores[candidateID]
		if !ok {
			continue
		}
		if found && score.Float64() <= bestScore.Float64() {
			continue
		}

		tentative := tree.Clone()
		g := candidateID
		tentative.SetArc(dependentID, &g, "", score)
		if _, hasCycle := tentative.DetectCycle(); hasCycle {
			continue
		}
		bestID, bestScore, found = candidateID, score, true
	}
	return bestID, bestScore, found
}

// Package aggregates holds the two consistency boundaries of the domain:
// Sentence (owns tokens, owns composite explosion) and DependencyTree (a
// graph of arcs, checked for the single-rooted-acyclic invariant the same
// way this codebase's Graph aggregate checks hierarchical-edge cycles).
package aggregates

import (
	"depconstraints/domain/core/valueobjects"
	pkgerrors "depconstraints/pkg/errors"
)

// Arc is one entry of the dependency tree mapping: an
// optional governor, a dependency label, and the arc's attachment score.
type Arc struct {
	Governor *valueobjects.TokenID
	Label string
	Score valueobjects.Score
}

// HasGovernor reports whether this arc points at a governor.
func (a Arc) HasGovernor() bool {
	return a.Governor != nil
}

// DependencyTree is a mapping from token id to arc, plus the
// positional index needed for direction/head-chain queries and a cycle
// detector. It is a standalone working structure during beam search (the
// tree builder and labels solver mutate a candidate DependencyTree before
// any Token is touched) and is committed onto a Sentence's tokens only
// once a winning state is chosen.
type DependencyTree struct {
	arcs map[valueobjects.TokenID]Arc
	order []valueobjects.TokenID
	index map[valueobjects.TokenID]int
	score valueobjects.Score
}

// NewDependencyTree creates an empty tree over the given sentence order
// (the ids in the order tokens appear in the sentence).
func NewDependencyTree(order []valueobjects.TokenID) *DependencyTree {
	idx := make(map[valueobjects.TokenID]int, len(order))
	for i, id := range order {
		idx[id] = i
	}
	return &DependencyTree{
		arcs: make(map[valueobjects.TokenID]Arc, len(order)),
		order: append([]valueobjects.TokenID(nil), order...),
		index: idx,
	}
}

// Order returns the sentence-order id sequence.
func (t *DependencyTree) Order() []valueobjects.TokenID {
	return append([]valueobjects.TokenID(nil), t.order...)
}

// SetArc installs or overwrites the arc for dependentID. A nil governor
// marks dependentID as the (tentative) root.
func (t *DependencyTree) SetArc(dependentID valueobjects.TokenID, governor *valueobjects.TokenID, label string, score valueobjects.Score) {
	var g *valueobjects.TokenID
	if governor != nil {
		gv := *governor
		g = &gv
	}
	t.arcs[dependentID] = Arc{Governor: g, Label: label, Score: score}
}

// Arc returns the arc for id, if set.
func (t *DependencyTree) Arc(id valueobjects.TokenID) (Arc, bool) {
	a, ok := t.arcs[id]
	return a, ok
}

// Governor returns id's governor, if any.
func (t *DependencyTree) Governor(id valueobjects.TokenID) (valueobjects.TokenID, bool) {
	a, ok := t.arcs[id]
	if !ok || a.Governor == nil {
		return 0, false
	}
	return *a.Governor, true
}

// PositionIndex returns id's index within the sentence order.
func (t *DependencyTree) PositionIndex(id valueobjects.TokenID) (int, bool) {
	i, ok := t.index[id]
	return i, ok
}

// Dependents returns the ids whose governor is id, in sentence order.
func (t *DependencyTree) Dependents(id valueobjects.TokenID) []valueobjects.TokenID {
	deps := make([]valueobjects.TokenID, 0)
	for _, dependentID := range t.order {
		a, ok := t.arcs[dependentID]
		if ok && a.Governor != nil && *a.Governor == id {
			deps = append(deps, dependentID)
		}
	}
	return deps
}

// HeadsChain walks id's governor chain up to (and excluding) the root,
// returning ids from nearest governor to furthest.
func (t *DependencyTree) HeadsChain(id valueobjects.TokenID) []valueobjects.TokenID {
	var chain []valueobjects.TokenID
	current := id
	visited := map[valueobjects.TokenID]bool{current: true}
	for {
		gov, ok := t.Governor(current)
		if !ok {
			break
		}
		if visited[gov] {
			break // defensive: a cycle should already have been rejected by Validate
		}
		chain = append(chain, gov)
		visited[gov] = true
		current = gov
	}
	return chain
}

// Root returns the id with no governor, if exactly one exists.
func (t *DependencyTree) Root() (valueobjects.TokenID, bool) {
	var root valueobjects.TokenID
	count := 0
	for _, id := range t.order {
		a, ok := t.arcs[id]
		if ok && a.Governor == nil {
			root = id
			count++
		}
	}
	if count != 1 {
		return 0, false
	}
	return root, true
}

// Score returns the tree's global score.
func (t *DependencyTree) Score() valueobjects.Score {
	return t.score
}

// SetScore installs the tree's global score ("Finally set
// tree.score <- best.score").
func (t *DependencyTree) SetScore(score valueobjects.Score) {
	t.score = score
}

// DetectCycle runs a marked DFS over the governor relation, grounded on
// this codebase's GraphValidationService.hasCycleDFS. It returns
// the first cycle found, walking from the governor side (child -> parent)
// exactly as the arcs are stored, so no back-references are materialized.
func (t *DependencyTree) DetectCycle() ([]valueobjects.TokenID, bool) {
	const (
		unvisited = 0
		visiting = 1
		done = 2
	)
	state := make(map[valueobjects.TokenID]int, len(t.order))
	var path []valueobjects.TokenID

	var visit func(id valueobjects.TokenID) ([]valueobjects.TokenID, bool)
	visit = func(id valueobjects.TokenID) ([]valueobjects.TokenID, bool) {
		switch state[id] {
		case visiting:
			// Found the back-edge; slice the path from the first occurrence.
			for i, p := range path {
				if p == id {
					return append([]valueobjects.TokenID(nil), path[i:]...), true
				}
			}
			return []valueobjects.TokenID{id}, true
		case done:
			return nil, false
		}
		state[id] = visiting
		path = append(path, id)
		if gov, ok := t.Governor(id); ok {
			if cycle, found := visit(gov); found {
				return cycle, true
			}
		}
		path = path[:len(path)-1]
		state[id] = done
		return nil, false
	}

	for _, id := range t.order {
		if state[id] == unvisited {
			if cycle, found := visit(id); found {
				return cycle, true
			}
		}
	}
	return nil, false
}

// Validate checks the dependency-tree invariants: exactly one root,
// acyclic, and every governor id belongs to the tree.
func (t *DependencyTree) Validate() error {
	for _, id := range t.order {
		a, ok := t.arcs[id]
		if !ok {
			return pkgerrors.NewInvalidStateError("token has no arc assigned: " + id.String())
		}
		if a.Governor != nil {
			if _, known := t.index[*a.Governor]; !known {
				return pkgerrors.NewInvalidStateError("arc references unknown governor: " + a.Governor.String())
			}
		}
	}
	if cycle, found := t.DetectCycle(); found {
		msg := "dependency tree contains a cycle"
		if len(cycle) > 0 {
			msg += ": " + cycle[0].String()
		}
		return pkgerrors.NewInvalidStateError(msg)
	}
	if _, ok := t.Root(); !ok {
		return pkgerrors.NewInvalidStateError("tree must have exactly one root")
	}
	return nil
}

// Clone returns an independent copy of the tree, used when a beam state
// forks into two candidate trees.
func (t *DependencyTree) Clone() *DependencyTree {
	clone := &DependencyTree{
		arcs: make(map[valueobjects.TokenID]Arc, len(t.arcs)),
		order: append([]valueobjects.TokenID(nil), t.order...),
		index: make(map[valueobjects.TokenID]int, len(t.index)),
		score: t.score,
	}
	for k, v := range t.arcs {
		clone.arcs[k] = v
	}
	for k, v := range t.index {
		clone.index[k] = v
	}
	return clone
}

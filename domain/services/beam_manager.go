package services

import (
	"fmt"
	"sort"
	"strings"

	"depconstraints/domain/config"
)

// StateElement is one (elementId, value, index) triple of a beam State:
// index is the position of value within its element's sorted candidate
// list, the only thing the visited-set dedup needs to compare.
type StateElement[K comparable, V any] struct {
	ElementID K
	Value V
	Index int

	// Score and Valid are filled in by the owning BeamManager's Evaluate
	// hook and are specific to the state this element belongs to, never
	// shared with the candidate list itself.
	Score float64
	Valid bool
}

// State is an ordered list of StateElements plus a cached score, validity
// flag, and fork marker.
type State[K comparable, V any] struct {
	Elements []StateElement[K, V]
	Score float64
	IsValid bool
	forked bool
}

// Clone returns an independent copy of the state, safe to mutate via a new
// fork.
func (s *State[K, V]) Clone() *State[K, V] {
	elems := make([]StateElement[K, V], len(s.Elements))
	copy(elems, s.Elements)
	return &State[K, V]{Elements: elems, Score: s.Score, IsValid: s.IsValid}
}

// EvaluateFunc computes a state's per-element score/validity and its
// overall Score/IsValid, given the state's chosen values. Concrete
// solvers (labels, tree builder, morphology) supply this; it is the one
// place "isValid" and "score" differ between instantiations. Implementations
// may mutate shared domain state (writing a configuration into a tree, say)
// as long as that mutation is confined to materializing this one state's
// score — the "lazy materialization" discipline.
type EvaluateFunc[K comparable, V any] func(state *State[K, V])

// BeamManager is the generic fixed-width beam search: a value set per
// element, forking by stepping down each element's sorted
// candidate list, admitting successors by score with visited-set dedup,
// and promoting to "valid states only" mode the first time a valid state
// is found. Grounded in shape on this codebase's visited-set + recursive-walk
// idiom (domain/services/graph_analytics_service.go's clustering DFS,
// generalized from graph traversal to scored search over independent
// per-element choices).
type BeamManager[K comparable, V any] struct {
	elementOrder []K
	valuesMap map[K][]V
	scoreOf func(V) float64
	evaluate EvaluateFunc[K, V]

	beamWidth int
	forkWidth int
	maxIterations int

	beam []*State[K, V]
	visited map[string]bool
	validStatesOnly bool
	steps int
}

// NewBeamManager builds a beam manager. valuesMap's lists must already be
// sorted by descending scoreOf — the caller's external scorer is
// responsible for that ordering.
func NewBeamManager[K comparable, V any](elementOrder []K, valuesMap map[K][]V, scoreOf func(V) float64, cfg config.SolverConfig, evaluate EvaluateFunc[K, V]) *BeamManager[K, V] {
	return &BeamManager[K, V]{
		elementOrder: elementOrder,
		valuesMap: valuesMap,
		scoreOf: scoreOf,
		evaluate: evaluate,
		beamWidth: cfg.BeamWidth,
		forkWidth: cfg.ForkWidth,
		maxIterations: cfg.MaxIterations,
		visited: make(map[string]bool),
	}
}

// initialize seeds the beam with a single state picking the top-scoring
// value for every element; if it is valid, validStatesOnly flips on.
func (bm *BeamManager[K, V]) initialize() {
	elems := make([]StateElement[K, V], 0, len(bm.elementOrder))
	for _, id := range bm.elementOrder {
		values := bm.valuesMap[id]
		if len(values) == 0 {
			continue
		}
		elems = append(elems, StateElement[K, V]{ElementID: id, Value: values[0], Index: 0})
	}
	state := &State[K, V]{Elements: elems}
	bm.evaluate(state)

	bm.beam = []*State[K, V]{state}
	bm.visited[bm.key(state)] = true
	if state.IsValid {
		bm.validStatesOnly = true
	}
}

// key builds the visited-set dedup key: the ordered sequence of each
// element's chosen index.
func (bm *BeamManager[K, V]) key(s *State[K, V]) string {
	var b strings.Builder
	for _, e := range s.Elements {
		fmt.Fprintf(&b, "%v:%d|", e.ElementID, e.Index)
	}
	return b.String()
}

// nextStepCost returns the pre-computed descending difference between an
// element's current value and the next one down its sorted list; 1.0 if
// the element is already at its list's last index.
func (bm *BeamManager[K, V]) nextStepCost(e StateElement[K, V]) float64 {
	values := bm.valuesMap[e.ElementID]
	if e.Index+1 >= len(values) {
		return 1.0
	}
	return bm.scoreOf(values[e.Index]) - bm.scoreOf(values[e.Index+1])
}

// fork produces up to F successor states of state: the i-th successor (in
// ascending next-step-cost order, cheapest first) replaces that element's
// value with the next one down its sorted list. Elements already at their
// last index are skipped. Fork is idempotent — state.forked is set
// regardless of whether any successor was produced.
func (bm *BeamManager[K, V]) fork(state *State[K, V]) []*State[K, V] {
	state.forked = true

	type candidate struct {
		index int
		cost float64
	}
	var forkable []candidate
	for i, e := range state.Elements {
		values := bm.valuesMap[e.ElementID]
		if e.Index+1 >= len(values) {
			continue // already at last value — not forkable
		}
		forkable = append(forkable, candidate{index: i, cost: bm.nextStepCost(e)})
	}
	sort.SliceStable(forkable, func(i, j int) bool { return forkable[i].cost < forkable[j].cost })

	limit := bm.forkWidth
	if config.Unbounded(limit) || limit > len(forkable) {
		limit = len(forkable)
	}

	children := make([]*State[K, V], 0, limit)
	for _, c := range forkable[:limit] {
		child := state.Clone()
		elem := child.Elements[c.index]
		elem.Index++
		elem.Value = bm.valuesMap[elem.ElementID][elem.Index]
		child.Elements[c.index] = elem
		bm.evaluate(child)
		children = append(children, child)
	}
	return children
}

// step collects fork(s) for every unforked state in the beam, promotes
// validStatesOnly the first time a valid candidate appears (purging
// invalid states from the beam when it does), and admits surviving
// candidates into the beam in descending-score order capped at B, with
// visited-set dedup. Returns false once nothing new entered.
func (bm *BeamManager[K, V]) step() bool {
	var unforked []*State[K, V]
	for _, s := range bm.beam {
		if !s.forked {
			unforked = append(unforked, s)
		}
	}
	if len(unforked) == 0 {
		return false
	}
	bm.steps++

	var fresh []*State[K, V]
	for _, s := range unforked {
		for _, child := range bm.fork(s) {
			key := bm.key(child)
			if bm.visited[key] {
				continue
			}
			bm.visited[key] = true
			fresh = append(fresh, child)
		}
	}
	if len(fresh) == 0 {
		return false
	}

	if !bm.validStatesOnly {
		for _, c := range fresh {
			if c.IsValid {
				bm.validStatesOnly = true
				break
			}
		}
		if bm.validStatesOnly {
			bm.beam = filterValidStates(bm.beam)
		}
	}
	if bm.validStatesOnly {
		fresh = filterValidStates(fresh)
	}

	merged := append(append([]*State[K, V]{}, bm.beam...), fresh...)
	sort.SliceStable(merged, func(i, j int) bool { return merged[i].Score > merged[j].Score })
	if !config.Unbounded(bm.beamWidth) && len(merged) > bm.beamWidth {
		merged = merged[:bm.beamWidth]
	}
	bm.beam = merged
	return true
}

// findBestConfiguration runs initialize then iterates step up to I
// times or until no new state enters, returning the highest-scoring state
// — valid-only when onlyValid is true, else the highest-scoring state
// overall.
func (bm *BeamManager[K, V]) findBestConfiguration(onlyValid bool) *State[K, V] {
	bm.initialize()
	for iterations := 0; config.Unbounded(bm.maxIterations) || iterations < bm.maxIterations; iterations++ {
		if !bm.step() {
			break
		}
	}
	return bm.best(onlyValid)
}

// StepsTaken returns the number of beam-search step iterations this
// manager has performed so far.
func (bm *BeamManager[K, V]) StepsTaken() int {
	return bm.steps
}

func (bm *BeamManager[K, V]) best(onlyValid bool) *State[K, V] {
	var best *State[K, V]
	for _, s := range bm.beam {
		if onlyValid && !s.IsValid {
			continue
		}
		if best == nil || s.Score > best.Score {
			best = s
		}
	}
	return best
}

func filterValidStates[K comparable, V any](states []*State[K, V]) []*State[K, V] {
	out := make([]*State[K, V], 0, len(states))
	for _, s := range states {
		if s.IsValid {
			out = append(out, s)
		}
	}
	return out
}

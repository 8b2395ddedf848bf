package services

import (
	"sort"

	"depconstraints/domain/config"
	"depconstraints/domain/core/aggregates"
	"depconstraints/domain/core/valueobjects"
	"depconstraints/domain/specifications"
	pkgerrors "depconstraints/pkg/errors"
)

// LabelsSolver instantiates the beam manager over grammatical-configuration
// choices to find the best label/POS assignment for every token of a
// dependency tree under a constraint catalogue.
type LabelsSolver struct {
	engine *ConstraintEngine
	selector LabelerSelector
	steps int
}

// NewLabelsSolver creates a labels solver. selector must not be nil —
// without it there is no way to filter candidate configurations to an
// attachment's direction.
func NewLabelsSolver(engine *ConstraintEngine, selector LabelerSelector) *LabelsSolver {
	if engine == nil {
		engine = NewConstraintEngine()
	}
	return &LabelsSolver{engine: engine, selector: selector}
}

// Solve finds the best grammatical-configuration assignment over tree's
// tokens, given external per-token scored configurations, and commits it
// onto a fresh DependencyTree (tree is never mutated directly — the
// solver's own evaluate hook works against clones by convention).
func (s *LabelsSolver) Solve(sentence *aggregates.Sentence, tree *aggregates.DependencyTree, scoredConfigs map[valueobjects.TokenID][]ScoredConfiguration, catalogue []specifications.Constraint, cfg config.SolverConfig) (*aggregates.DependencyTree, error) {
	if s.selector == nil {
		return nil, pkgerrors.NewInvalidStateError("labels solver requires a labeler selector")
	}

	elementOrder := tree.Order()
	valuesMap := make(map[valueobjects.TokenID][]valueobjects.Configuration, len(elementOrder))

	for _, id := range elementOrder {
		tokenIndex, _ := tree.PositionIndex(id)
		headIndex := -1
		if gov, ok := tree.Governor(id); ok {
			headIndex, _ = tree.PositionIndex(gov)
		}
		filtered := s.selector.ValidConfigurations(scoredConfigs[id], sentence, tokenIndex, headIndex)
		configs := make([]valueobjects.Configuration, 0, len(filtered))
		for _, sc := range filtered {
			configs = append(configs, valueobjects.Configuration{Components: sc.Configuration.Components, Score: sc.Score})
		}
		sort.SliceStable(configs, func(i, j int) bool { return configs[i].Score.Float64() > configs[j].Score.Float64() })
		valuesMap[id] = configs
	}

	evaluate := s.evaluator(sentence, tree, catalogue)
	bm := NewBeamManager[valueobjects.TokenID, valueobjects.Configuration](elementOrder, valuesMap, func(c valueobjects.Configuration) float64 { return c.Score.Float64() }, cfg, evaluate)

	best := bm.findBestConfiguration(true)
	onlyValid := true
	if best == nil {
		onlyValid = false
		best = bm.findBestConfiguration(false)
	}
	s.steps += bm.StepsTaken()
	if best == nil {
		return nil, pkgerrors.NewInvalidStateError("labels solver exhausted the beam with no configuration for any token")
	}

	result := tree.Clone()
	for _, elem := range best.Elements {
		chosen := elem.Value
		if !onlyValid && !elem.Valid {
			chosen = chosen.UnknownStandIn()
		}
		label := valueobjects.UnknownLabel
		if len(chosen.Components) > 0 {
			label = chosen.Components[0].Label
		}
		var govPtr *valueobjects.TokenID
		if gov, hasGov := result.Governor(elem.ElementID); hasGov {
			g := gov
			govPtr = &g
		}
		arc, _ := result.Arc(elem.ElementID)
		result.SetArc(elem.ElementID, govPtr, label, arc.Score)
	}
	result.SetScore(valueobjects.Clamp(best.Score))
	return result, nil
}

// StepsTaken returns the cumulative number of beam-search step iterations
// this solver's internal beam managers have performed across every Solve
// call made on it so far.
func (s *LabelsSolver) StepsTaken() int {
	return s.steps
}

// evaluator builds the EvaluateFunc used by the beam: install each
// element's chosen configuration and a compatible morphology onto a
// sentence clone, explode composites, verify the catalogue, then fold
// violations back onto the originating (pre-explosion) elements.
func (s *LabelsSolver) evaluator(sentence *aggregates.Sentence, tree *aggregates.DependencyTree, catalogue []specifications.Constraint) EvaluateFunc[valueobjects.TokenID, valueobjects.Configuration] {
	return func(state *State[valueobjects.TokenID, valueobjects.Configuration]) {
		clone := sentence.Clone()
		owner := make(map[valueobjects.TokenID]valueobjects.TokenID) // exploded-component id -> owning element id

		for _, elem := range state.Elements {
			tok, ok := clone.Token(elem.ElementID)
			if !ok {
				continue
			}
			owner[elem.ElementID] = elem.ElementID
			for _, compID := range tok.ComponentIDs() {
				owner[compID] = elem.ElementID
			}

			tok.SetChosenConfiguration(elem.Value)
			tokenIndex, _ := clone.PositionIndex(elem.ElementID)
			if morphs := s.selector.ValidMorphologies(clone, tokenIndex, elem.Value); len(morphs) > 0 {
				tok.SetChosenMorphology(morphs[0])
			}
		}

		if err := clone.Explode(); err != nil {
			// Composite structure was malformed; every element is unusable.
			for i := range state.Elements {
				state.Elements[i].Valid = false
				state.Elements[i].Score = 0
			}
			state.IsValid = false
			state.Score = 0
			return
		}

		violations := s.engine.VerifyAll(catalogue, clone, tree)
		perElement := make(map[valueobjects.TokenID][]specifications.Constraint)
		for tokenID, violated := range violations {
			ownerID, ok := owner[tokenID]
			if !ok {
				ownerID = tokenID
			}
			perElement[ownerID] = appendConstraintsDedup(perElement[ownerID], violated)
		}

		allValid := true
		var total float64
		for i := range state.Elements {
			elem := &state.Elements[i]
			elem.Valid = true
			score := elem.Value.Score.Float64()
			for _, violated := range perElement[elem.ElementID] {
				if violated.IsHard() {
					elem.Valid = false
				} else {
					score *= violated.Penalty().Float64()
				}
			}
			elem.Score = score
			if !elem.Valid {
				allValid = false
			}
			attachment := 0.0
			if arc, ok := tree.Arc(elem.ElementID); ok {
				attachment = arc.Score.Float64()
			}
			total += elem.Score * attachment
		}
		state.IsValid = allValid
		state.Score = total
	}
}

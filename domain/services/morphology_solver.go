package services

import (
	"sort"

	"depconstraints/domain/config"
	"depconstraints/domain/core/aggregates"
	"depconstraints/domain/core/valueobjects"
	"depconstraints/domain/specifications"
)

// SurvivingMorphology is one morphology that survived every hard constraint
// for its token, tagged with the cumulative soft-constraint penalty applied
// on top of its own candidate score.
type SurvivingMorphology struct {
	Morphology valueobjects.Morphology
	Score valueobjects.Score
}

// MorphologySolver runs after labels are fixed: for every token it beam-
// searches the token's candidate morphologies and returns those that
// survive all hard constraints.
type MorphologySolver struct {
	engine *ConstraintEngine
	steps int
}

// NewMorphologySolver creates a morphology solver.
func NewMorphologySolver(engine *ConstraintEngine) *MorphologySolver {
	if engine == nil {
		engine = NewConstraintEngine()
	}
	return &MorphologySolver{engine: engine}
}

// Solve returns, for every token in sentence order, the morphologies that
// survive all hard constraints under tree's fixed labels, each scored by
// its own candidate score times the cumulative soft-constraint penalty.
func (s *MorphologySolver) Solve(sentence *aggregates.Sentence, tree *aggregates.DependencyTree, catalogue []specifications.Constraint, cfg config.SolverConfig) map[valueobjects.TokenID][]SurvivingMorphology {
	result := make(map[valueobjects.TokenID][]SurvivingMorphology, len(sentence.Order()))
	for _, id := range sentence.Order() {
		result[id] = s.solveOne(sentence, tree, id, catalogue, cfg)
	}
	return result
}

// solveOne beam-searches a single token's candidate morphologies,
// evaluating each against the catalogue with every other token's
// morphology left at its already-chosen value ("within-tree",
// i.e. one token varies at a time against the tree's fixed labels).
func (s *MorphologySolver) solveOne(sentence *aggregates.Sentence, tree *aggregates.DependencyTree, tokenID valueobjects.TokenID, catalogue []specifications.Constraint, cfg config.SolverConfig) []SurvivingMorphology {
	tok, ok := sentence.Token(tokenID)
	if !ok {
		return nil
	}
	candidates := tok.AllMorphologies()
	if len(candidates) == 0 {
		return nil
	}
	sort.SliceStable(candidates, func(i, j int) bool { return candidates[i].Score.Float64() > candidates[j].Score.Float64() })

	order := []valueobjects.TokenID{tokenID}
	valuesMap := map[valueobjects.TokenID][]valueobjects.Morphology{tokenID: candidates}
	scoreOf := func(m valueobjects.Morphology) float64 { return m.Score.Float64() }

	var survivors []SurvivingMorphology
	evaluate := func(state *State[valueobjects.TokenID, valueobjects.Morphology]) {
		elem := state.Elements[0]
		clone := sentence.Clone()
		clonedTok, ok := clone.Token(tokenID)
		if !ok {
			state.IsValid = false
			return
		}
		clonedTok.SetChosenMorphology(elem.Value)

		ctx := specifications.PredicateContext{Token: clonedTok, Sentence: clone, Tree: tree}
		var governorCtx *specifications.PredicateContext
		if rel := clonedTok.Relation(); rel.HasGovernor() {
			if govTok, ok := clone.Token(*rel.Governor); ok {
				governorCtx = &specifications.PredicateContext{Token: govTok, Sentence: clone, Tree: tree}
			}
		}

		score := elem.Value.Score.Float64()
		valid := true
		for _, c := range catalogue {
			if s.engine.IsVerified(c, ctx, governorCtx) {
				continue
			}
			if c.IsHard() {
				valid = false
				break
			}
			score *= c.Penalty().Float64()
		}

		state.Elements[0].Valid = valid
		state.Elements[0].Score = score
		state.IsValid = valid
		state.Score = score
		if valid {
			survivors = append(survivors, SurvivingMorphology{Morphology: elem.Value, Score: valueobjects.Clamp(score)})
		}
	}

	bm := NewBeamManager[valueobjects.TokenID, valueobjects.Morphology](order, valuesMap, scoreOf, cfg, evaluate)
	bm.findBestConfiguration(false) // drive every candidate through evaluate; result gathered via survivors, not the returned state
	s.steps += bm.StepsTaken()

	sort.SliceStable(survivors, func(i, j int) bool { return survivors[i].Score.Float64() > survivors[j].Score.Float64() })
	return survivors
}

// StepsTaken returns the cumulative number of beam-search step iterations
// this solver's per-token beam managers have performed across every Solve
// call made on it so far.
func (s *MorphologySolver) StepsTaken() int {
	return s.steps
}

package services

import (
	"depconstraints/domain/core/aggregates"
	"depconstraints/domain/core/entities"
	"depconstraints/domain/core/valueobjects"
	"depconstraints/domain/specifications"
)

// Violations is the result of a validation pass: per-token violated
// constraints, deduplicated, from the earliest failing group only.
type Violations map[valueobjects.TokenID][]specifications.Constraint

// IsEmpty reports whether no violations were found.
func (v Violations) IsEmpty() bool { return len(v) == 0 }

// SentenceValidator orchestrates the six-group short-circuit verification
// pipeline, grounded on
// GraphValidationService.ValidateGraph's staged validation (validate
// metadata, then nodes, then edges, then invariants, returning on first
// failure) generalized from "stop at the first failing stage" to "stop at
// the first group with any violation, after destructively pruning
// validPosMorphologies along the way".
type SentenceValidator struct {
	engine *ConstraintEngine
	percolator MorphologyPercolator
}

// NewSentenceValidator creates a validator. percolator may be nil; step 6
// (context constraints) is then skipped and reports no violations, even
// when its group is non-empty.
func NewSentenceValidator(engine *ConstraintEngine, percolator MorphologyPercolator) *SentenceValidator {
	if engine == nil {
		engine = NewConstraintEngine()
	}
	return &SentenceValidator{engine: engine, percolator: percolator}
}

// Validate runs the six groups in order, returning the first non-empty
// violation set. A nil/empty result means the sentence is fully accepted:
// re-running Validate on it is idempotent.
func (v *SentenceValidator) Validate(catalogue []specifications.Constraint, sentence *aggregates.Sentence, tree *aggregates.DependencyTree) Violations {
	groups := specifications.GroupCatalogue(catalogue)

	if violations := v.verifySimple(groups.Simple, sentence, tree); !violations.IsEmpty() {
		return violations
	}
	if violations := v.pruneBaseMorphoUnary(groups.BaseMorphoUnary, sentence, tree); !violations.IsEmpty() {
		return violations
	}
	if violations := v.pruneBaseMorphoBinary(groups.BaseMorphoBinary, sentence, tree); !violations.IsEmpty() {
		return violations
	}
	if violations := v.verifyBaseMorphoOthers(groups.BaseMorphoOthers, sentence, tree); !violations.IsEmpty() {
		return violations
	}
	if violations := v.verifyMorphoPropertiesSimple(groups.MorphoPropertiesSimple, sentence, tree); !violations.IsEmpty() {
		return violations
	}
	return v.verifyMorphoPropertiesContext(groups.MorphoPropertiesContext, sentence, tree)
}

// verifySimple is step 1: constraints that never read morphology, checked
// once against each token's current state.
func (v *SentenceValidator) verifySimple(group []specifications.Constraint, sentence *aggregates.Sentence, tree *aggregates.DependencyTree) Violations {
	return Violations(v.engine.VerifyAll(group, sentence, tree))
}

// pruneBaseMorphoUnary is step 2. For every token and every candidate in
// validPosMorphologies, install the candidate as the sole chosen
// morphology and check it against every unary constraint in group; a
// candidate that violates any of them is dropped. The resulting subset
// replaces validPosMorphologies (monotonic shrink, property 4).
// If a token's set becomes empty, every constraint that rejected at least
// one of its candidates is reported as a violation for that token.
func (v *SentenceValidator) pruneBaseMorphoUnary(group []specifications.Constraint, sentence *aggregates.Sentence, tree *aggregates.DependencyTree) Violations {
	if len(group) == 0 {
		return nil
	}
	violations := make(Violations)
	for _, tok := range sentence.Tokens() {
		candidates := tok.ValidPosMorphologies()
		survivors := make([]valueobjects.Morphology, 0, len(candidates))
		var rejectedBy []specifications.Constraint

		for _, m := range candidates {
			tok.SetChosenMorphology(m)
			ctx := specifications.PredicateContext{Token: tok, Sentence: sentence, Tree: tree}
			violated := v.engine.Verify(group, ctx, nil)
			if len(violated) == 0 {
				survivors = append(survivors, m)
			} else {
				rejectedBy = appendConstraintsDedup(rejectedBy, violated)
			}
		}
		tok.ClearChosenMorphology()
		tok.SetValidPosMorphologies(survivors)

		if len(survivors) == 0 && len(rejectedBy) > 0 {
			violations[tok.ID()] = rejectedBy
		}
	}
	return violations
}

// pruneBaseMorphoBinary is step 3. For every dependent-governor pair it
// enumerates the Cartesian product of their current valid POS
// morphologies; a pair is valid iff, installed simultaneously, no
// baseMorphoBinary constraint on the dependent is violated. Every valid
// pair's projections are recorded; each set is then intersected with those
// projections so a morphology survives only if some valid pair used it.
// This resolves the enumeration-vs-binary-subset question by filtering the
// enumeration itself against the binary subset, consistently with its
// helper (DESIGN.md, Open Question 1).
func (v *SentenceValidator) pruneBaseMorphoBinary(group []specifications.Constraint, sentence *aggregates.Sentence, tree *aggregates.DependencyTree) Violations {
	if len(group) == 0 {
		return nil
	}
	violations := make(Violations)
	survivingDependent := make(map[valueobjects.TokenID]map[int]bool)
	survivingGovernor := make(map[valueobjects.TokenID]map[int]bool)
	var rejectedBy map[valueobjects.TokenID][]specifications.Constraint = make(map[valueobjects.TokenID][]specifications.Constraint)

	for _, dependent := range sentence.Tokens() {
		rel := dependent.Relation()
		var governor *entities.Token
		if rel.HasGovernor() {
			if g, ok := sentence.Token(*rel.Governor); ok {
				governor = g
			}
		}

		depCandidates := dependent.ValidPosMorphologies()
		if survivingDependent[dependent.ID()] == nil {
			survivingDependent[dependent.ID()] = make(map[int]bool)
		}

		if governor == nil {
			// Root: governor-side predicates hold vacuously, so every
			// dependent candidate is checked against a nil governor context.
			for i, dm := range depCandidates {
				dependent.SetChosenMorphology(dm)
				ctx := specifications.PredicateContext{Token: dependent, Sentence: sentence, Tree: tree}
				violated := v.engine.Verify(group, ctx, nil)
				if len(violated) == 0 {
					survivingDependent[dependent.ID()][i] = true
				} else {
					rejectedBy[dependent.ID()] = appendConstraintsDedup(rejectedBy[dependent.ID()], violated)
				}
			}
			dependent.ClearChosenMorphology()
			continue
		}

		govCandidates := governor.ValidPosMorphologies()
		if survivingGovernor[governor.ID()] == nil {
			survivingGovernor[governor.ID()] = make(map[int]bool)
		}

		for di, dm := range depCandidates {
			for gi, gm := range govCandidates {
				dependent.SetChosenMorphology(dm)
				governor.SetChosenMorphology(gm)
				depCtx := specifications.PredicateContext{Token: dependent, Sentence: sentence, Tree: tree}
				govCtx := specifications.PredicateContext{Token: governor, Sentence: sentence, Tree: tree}
				violated := v.engine.Verify(group, depCtx, &govCtx)
				if len(violated) == 0 {
					survivingDependent[dependent.ID()][di] = true
					survivingGovernor[governor.ID()][gi] = true
				} else {
					rejectedBy[dependent.ID()] = appendConstraintsDedup(rejectedBy[dependent.ID()], violated)
				}
			}
		}
		dependent.ClearChosenMorphology()
		governor.ClearChosenMorphology()
	}

	for _, tok := range sentence.Tokens() {
		surviving, touched := survivingDependent[tok.ID()]
		if !touched {
			continue
		}
		candidates := tok.ValidPosMorphologies()
		kept := make([]valueobjects.Morphology, 0, len(candidates))
		for i, m := range candidates {
			if surviving[i] {
				kept = append(kept, m)
			}
		}
		tok.SetValidPosMorphologies(kept)
		if len(kept) == 0 {
			if rej, ok := rejectedBy[tok.ID()]; ok && len(rej) > 0 {
				violations[tok.ID()] = rej
			}
		}
	}
	for govID, surviving := range survivingGovernor {
		govTok, ok := sentence.Token(govID)
		if !ok {
			continue
		}
		candidates := govTok.ValidPosMorphologies()
		kept := make([]valueobjects.Morphology, 0, len(candidates))
		for i, m := range candidates {
			if surviving[i] {
				kept = append(kept, m)
			}
		}
		govTok.SetValidPosMorphologies(kept)
	}

	return violations
}

// verifyBaseMorphoOthers is step 4: enumerate full sentence morphology
// configurations lazily (Cartesian product over tokens' valid POS sets),
// stopping at the first configuration that violates any baseMorphoOthers
// constraint.
func (v *SentenceValidator) verifyBaseMorphoOthers(group []specifications.Constraint, sentence *aggregates.Sentence, tree *aggregates.DependencyTree) Violations {
	if len(group) == 0 {
		return nil
	}
	tokens := sentence.Tokens()
	candidateSets := make([][]valueobjects.Morphology, len(tokens))
	for i, tok := range tokens {
		candidateSets[i] = tok.ValidPosMorphologies()
	}

	violations := make(Violations)
	v.forEachConfiguration(tokens, candidateSets, 0, func() bool {
		for _, tok := range tokens {
			ctx := specifications.PredicateContext{Token: tok, Sentence: sentence, Tree: tree}
			violated := v.engine.Verify(group, ctx, nil)
			if len(violated) > 0 {
				violations[tok.ID()] = appendConstraintsDedup(violations[tok.ID()], violated)
				return false // stop enumerating: first violating configuration found
			}
		}
		return true // keep enumerating
	})
	return violations
}

// forEachConfiguration enumerates the Cartesian product of candidateSets by
// installing one combination at a time as each token's chosen morphology,
// invoking visit after each full combination is installed. It stops early
// the moment visit returns false.
func (v *SentenceValidator) forEachConfiguration(tokens []*entities.Token, candidateSets [][]valueobjects.Morphology, index int, visit func() bool) bool {
	if index == len(tokens) {
		return visit()
	}
	if len(candidateSets[index]) == 0 {
		return v.forEachConfiguration(tokens, candidateSets, index+1, visit)
	}
	for _, m := range candidateSets[index] {
		tokens[index].SetChosenMorphology(m)
		if !v.forEachConfiguration(tokens, candidateSets, index+1, visit) {
			return false
		}
	}
	return true
}

// verifyMorphoPropertiesSimple is step 5: verify property constraints over
// the configurations restricted to the valid POS set (the chosen
// morphology each token currently carries from step 4's enumeration, or,
// if step 4 was skipped, the first valid POS candidate).
func (v *SentenceValidator) verifyMorphoPropertiesSimple(group []specifications.Constraint, sentence *aggregates.Sentence, tree *aggregates.DependencyTree) Violations {
	if len(group) == 0 {
		return nil
	}
	v.seedChosenFromValidPos(sentence)
	return Violations(v.engine.VerifyAll(group, sentence, tree))
}

// verifyMorphoPropertiesContext is step 6: ask the morphology percolator
// for context-morphology overlays, install each, and verify context
// constraints. With no percolator configured, the step is skipped with no
// violations (there is nothing to install context against).
func (v *SentenceValidator) verifyMorphoPropertiesContext(group []specifications.Constraint, sentence *aggregates.Sentence, tree *aggregates.DependencyTree) Violations {
	if len(group) == 0 || v.percolator == nil {
		return nil
	}
	v.seedChosenFromValidPos(sentence)

	assignments := v.percolator.Percolate(sentence, tree)
	byToken := make(map[valueobjects.TokenID][]valueobjects.Morphology)
	for _, a := range assignments {
		byToken[a.TokenID] = append(byToken[a.TokenID], a.Context)
	}
	for _, tok := range sentence.Tokens() {
		if ctxMorphs, ok := byToken[tok.ID()]; ok {
			tok.SetContextMorphologies(ctxMorphs)
		}
	}
	return Violations(v.engine.VerifyAll(group, sentence, tree))
}

// seedChosenFromValidPos installs, for every token without a chosen
// morphology, the first surviving validPosMorphologies candidate — used
// when steps 5/6 run without step 4 having enumerated a full combination.
func (v *SentenceValidator) seedChosenFromValidPos(sentence *aggregates.Sentence) {
	for _, tok := range sentence.Tokens() {
		if _, ok := tok.ChosenMorphology(); ok {
			continue
		}
		candidates := tok.ValidPosMorphologies()
		if len(candidates) > 0 {
			tok.SetChosenMorphology(candidates[0])
		}
	}
}

// appendConstraintsDedup appends src to dst, skipping constraints already
// present by description (their identity) — the final violations map is
// deduplicated per token.
func appendConstraintsDedup(dst []specifications.Constraint, src []specifications.Constraint) []specifications.Constraint {
	seen := make(map[string]bool, len(dst))
	for _, c := range dst {
		seen[c.Description()] = true
	}
	for _, c := range src {
		if !seen[c.Description()] {
			seen[c.Description()] = true
			dst = append(dst, c)
		}
	}
	return dst
}

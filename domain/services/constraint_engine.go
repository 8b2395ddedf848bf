// Package services hosts the stateless verification, pruning, and search
// algorithms that operate over the domain/core model: the constraint
// engine, the sentence validator, the beam manager and its three solvers,
// and the cycle fixer. Grounded throughout on
// domain/services/graph_validation_service.go's style — small services,
// no hidden state, pkgerrors for every failure.
package services

import (
	"depconstraints/domain/core/aggregates"
	"depconstraints/domain/core/entities"
	"depconstraints/domain/core/valueobjects"
	"depconstraints/domain/specifications"
)

// ConstraintEngine evaluates constraints against tokens in context. It is
// stateless and never retries; a predicate that panics on malformed input
// is a caller bug, not something the engine defends against — predicates
// themselves are expected to fail fast by returning false.
type ConstraintEngine struct{}

// NewConstraintEngine creates a constraint engine. It carries no state.
func NewConstraintEngine() *ConstraintEngine {
	return &ConstraintEngine{}
}

// IsVerified reports whether a single constraint holds for dependent,
// given its governor context (nil at the root). Unary and "other"
// constraints ignore governor.
func (e *ConstraintEngine) IsVerified(c specifications.Constraint, dependent specifications.PredicateContext, governor *specifications.PredicateContext) bool {
	if c.IsBinary() {
		return c.VerifyBinary(dependent, governor)
	}
	return c.VerifyUnary(dependent)
}

// Verify returns the subset of constraints violated by dependent/governor,
// preserving catalogue order (ordering guarantee).
func (e *ConstraintEngine) Verify(constraints []specifications.Constraint, dependent specifications.PredicateContext, governor *specifications.PredicateContext) []specifications.Constraint {
	violated := make([]specifications.Constraint, 0)
	for _, c := range constraints {
		if !e.IsVerified(c, dependent, governor) {
			violated = append(violated, c)
		}
	}
	return violated
}

// VerifyAll fans constraints out across every token of sentence, flattening
// violations into a map keyed by token id. Tokens are walked in sentence
// order so Verify's per-token ordering guarantee holds across the whole map.
func (e *ConstraintEngine) VerifyAll(constraints []specifications.Constraint, sentence *aggregates.Sentence, tree *aggregates.DependencyTree) map[valueobjects.TokenID][]specifications.Constraint {
	violations := make(map[valueobjects.TokenID][]specifications.Constraint)
	for _, tok := range sentence.Tokens() {
		dependent := specifications.PredicateContext{Token: tok, Sentence: sentence, Tree: tree}
		governor := e.governorContext(tok, sentence, tree)

		v := e.Verify(constraints, dependent, governor)
		if len(v) > 0 {
			violations[tok.ID()] = v
		}
	}
	return violations
}

// governorContext builds the governor-side PredicateContext for tok, or
// nil if tok currently has no governor (the root case, where a present
// governor-side predicate holds vacuously by convention).
func (e *ConstraintEngine) governorContext(tok *entities.Token, sentence *aggregates.Sentence, tree *aggregates.DependencyTree) *specifications.PredicateContext {
	rel := tok.Relation()
	if !rel.HasGovernor() {
		return nil
	}
	govTok, ok := sentence.Token(*rel.Governor)
	if !ok {
		return nil
	}
	return &specifications.PredicateContext{Token: govTok, Sentence: sentence, Tree: tree}
}

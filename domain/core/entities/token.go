// Package entities holds the rich domain model for a single token: its
// surface form, position, candidate morphologies, and its place in the
// dependency tree. This is the one part of the model every constraint,
// solver, and builder in domain/services ultimately reads or mutates.
package entities

import (
	"depconstraints/domain/core/valueobjects"
	pkgerrors "depconstraints/pkg/errors"
)

// Kind distinguishes a real word (or trace) from a composite surface unit
// that expands into several single tokens.
type Kind string

const (
	KindSingle Kind = "single"
	KindComposite Kind = "composite"
)

// Relation is a token's syntactic relation: an optional governor, a
// dependency label, and the arc's attachment score.
type Relation struct {
	Governor *valueobjects.TokenID
	Label string
	AttachmentScore valueobjects.Score
}

// HasGovernor reports whether this relation points at a governor (false
// at the sentence root).
func (r Relation) HasGovernor() bool {
	return r.Governor != nil
}

// Token is the aggregate's rich entity: identified by a stable id, never
// reconstructed mid-solve, mutated in place as constraints prune its
// candidate set and solvers choose a morphology/configuration.
type Token struct {
	id valueobjects.TokenID
	form string
	span valueobjects.Span
	kind Kind

	// componentIDs holds the ordered ids of a composite token's single
	// components; empty for a single token.
	componentIDs []valueobjects.TokenID

	allMorphologies []valueobjects.Morphology // immutable full candidate list
	validPosMorphologies []valueobjects.Morphology // mutable subset, shrinks monotonically
	contextMorphologies []valueobjects.Morphology // optional, imputed from tree neighbourhood

	chosenMorphology *valueobjects.Morphology
	chosenConfiguration *valueobjects.Configuration

	relation Relation
}

// NewToken creates a single token with full business-rule validation.
func NewToken(id valueobjects.TokenID, form string, span valueobjects.Span, morphologies []valueobjects.Morphology) (*Token, error) {
	if form == "" {
		return nil, pkgerrors.NewValidationError("token form cannot be empty")
	}
	return &Token{
		id: id,
		form: form,
		span: span,
		kind: KindSingle,
		allMorphologies: append([]valueobjects.Morphology(nil), morphologies...),
	}, nil
}

// NewCompositeToken creates a composite token expanding into componentIDs,
// in order. A composite never carries its own morphology
// candidates — only its components do.
func NewCompositeToken(id valueobjects.TokenID, form string, span valueobjects.Span, componentIDs []valueobjects.TokenID) (*Token, error) {
	if form == "" {
		return nil, pkgerrors.NewValidationError("token form cannot be empty")
	}
	if len(componentIDs) == 0 {
		return nil, pkgerrors.NewValidationError("composite token must have at least one component")
	}
	return &Token{
		id: id,
		form: form,
		span: span,
		kind: KindComposite,
		componentIDs: append([]valueobjects.TokenID(nil), componentIDs...),
	}, nil
}

// ID returns the token's stable id.
func (t *Token) ID() valueobjects.TokenID { return t.id }

// Form returns the surface form.
func (t *Token) Form() string { return t.form }

// Span returns the token's position.
func (t *Token) Span() valueobjects.Span { return t.span }

// Kind reports whether this is a single or composite token.
func (t *Token) Kind() Kind { return t.kind }

// IsComposite reports whether this token expands into components.
func (t *Token) IsComposite() bool { return t.kind == KindComposite }

// ComponentIDs returns the ordered component ids of a composite token,
// nil for a single token.
func (t *Token) ComponentIDs() []valueobjects.TokenID {
	return append([]valueobjects.TokenID(nil), t.componentIDs...)
}

// AllMorphologies returns the immutable full candidate list.
func (t *Token) AllMorphologies() []valueobjects.Morphology {
	return append([]valueobjects.Morphology(nil), t.allMorphologies...)
}

// ValidPosMorphologies returns the current mutable candidate subset.
func (t *Token) ValidPosMorphologies() []valueobjects.Morphology {
	return append([]valueobjects.Morphology(nil), t.validPosMorphologies...)
}

// SeedValidPosMorphologies installs one representative morphology per
// distinct base POS as the token's initial valid-POS set.
func (t *Token) SeedValidPosMorphologies() {
	seen := make(map[string]bool, len(t.allMorphologies))
	seeded := make([]valueobjects.Morphology, 0, len(t.allMorphologies))
	for _, m := range t.allMorphologies {
		base := m.BasePOS()
		if seen[base] {
			continue
		}
		seen[base] = true
		seeded = append(seeded, m)
	}
	t.validPosMorphologies = seeded
}

// SetValidPosMorphologies replaces the mutable candidate subset. Callers
// are responsible for the monotonic-shrink invariant; this setter does
// not itself enforce it so that a solve's
// rollback snapshot can also use it to restore a larger, earlier set.
func (t *Token) SetValidPosMorphologies(ms []valueobjects.Morphology) {
	t.validPosMorphologies = append([]valueobjects.Morphology(nil), ms...)
}

// InsertSyntheticMorphology adds a generic morphology synthesized for an
// unknown word. It is added to both the
// immutable and mutable candidate sets since there is no narrower set to
// prune from.
func (t *Token) InsertSyntheticMorphology(m valueobjects.Morphology) {
	t.allMorphologies = append(t.allMorphologies, m)
	t.validPosMorphologies = append(t.validPosMorphologies, m)
}

// ContextMorphologies returns the optional context-morphology overlays.
func (t *Token) ContextMorphologies() []valueobjects.Morphology {
	return append([]valueobjects.Morphology(nil), t.contextMorphologies...)
}

// SetContextMorphologies installs context morphologies derived from the
// tree neighbourhood by the external morphology percolator.
func (t *Token) SetContextMorphologies(ms []valueobjects.Morphology) {
	t.contextMorphologies = append([]valueobjects.Morphology(nil), ms...)
}

// ChosenMorphology returns the token's chosen morphology, if solved.
func (t *Token) ChosenMorphology() (valueobjects.Morphology, bool) {
	if t.chosenMorphology == nil {
		return valueobjects.Morphology{}, false
	}
	return *t.chosenMorphology, true
}

// SetChosenMorphology installs the morphology a solver selected.
func (t *Token) SetChosenMorphology(m valueobjects.Morphology) {
	mc := m
	t.chosenMorphology = &mc
}

// ClearChosenMorphology removes a tentatively-installed morphology, used
// when rolling back a rejected state.
func (t *Token) ClearChosenMorphology() {
	t.chosenMorphology = nil
}

// ChosenConfiguration returns the token's chosen grammatical configuration,
// if solved.
func (t *Token) ChosenConfiguration() (valueobjects.Configuration, bool) {
	if t.chosenConfiguration == nil {
		return valueobjects.Configuration{}, false
	}
	return *t.chosenConfiguration, true
}

// SetChosenConfiguration installs the configuration a solver selected.
func (t *Token) SetChosenConfiguration(c valueobjects.Configuration) {
	cc := c
	t.chosenConfiguration = &cc
}

// Relation returns the token's current syntactic relation.
func (t *Token) Relation() Relation {
	return t.relation
}

// SetRelation installs a new syntactic relation — used by the tree
// builder when it commits a winning state, and by composite-token
// explosion when rewriting governor pointers.
func (t *Token) SetRelation(governor *valueobjects.TokenID, label string, score valueobjects.Score) {
	t.relation = Relation{Governor: governor, Label: label, AttachmentScore: score}
}

// Clone returns a deep-enough copy of the token for use in an independent
// solve ("concurrent solves require independent sentence
// clones").
func (t *Token) Clone() *Token {
	clone := *t
	clone.componentIDs = append([]valueobjects.TokenID(nil), t.componentIDs...)
	clone.allMorphologies = append([]valueobjects.Morphology(nil), t.allMorphologies...)
	clone.validPosMorphologies = append([]valueobjects.Morphology(nil), t.validPosMorphologies...)
	clone.contextMorphologies = append([]valueobjects.Morphology(nil), t.contextMorphologies...)
	if t.chosenMorphology != nil {
		m := *t.chosenMorphology
		clone.chosenMorphology = &m
	}
	if t.chosenConfiguration != nil {
		c := *t.chosenConfiguration
		clone.chosenConfiguration = &c
	}
	if t.relation.Governor != nil {
		g := *t.relation.Governor
		clone.relation.Governor = &g
	}
	return &clone
}

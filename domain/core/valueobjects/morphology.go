package valueobjects

import (
	pkgerrors "depconstraints/pkg/errors"
)

// MorphologyComponent is a single lemma/POS/feature-bag triple, one
// component of a (possibly multi-word) Morphology.
type MorphologyComponent struct {
	Lemma string
	POS POS
	Properties map[string]string // morphological feature bag, e.g. "number" -> "plural"
}

// HasProperty reports whether this component carries the named
// morphological feature, regardless of its value.
func (c MorphologyComponent) HasProperty(name string) bool {
	_, ok := c.Properties[name]
	return ok
}

// Property returns the value of the named feature and whether it was
// present.
func (c MorphologyComponent) Property(name string) (string, bool) {
	v, ok := c.Properties[name]
	return v, ok
}

// Morphology is an ordered, non-empty sequence of components, scored as a
// whole. A Morphology with one component is
// "single"; more than one is "multiple" (a multi-word unit).
type Morphology struct {
	Components []MorphologyComponent
	Score Score
}

// NewMorphology validates and constructs a Morphology.
func NewMorphology(components []MorphologyComponent, score Score) (Morphology, error) {
	if len(components) == 0 {
		return Morphology{}, pkgerrors.NewValidationError("morphology must have at least one component")
	}
	cp := make([]MorphologyComponent, len(components))
	copy(cp, components)
	return Morphology{Components: cp, Score: score}, nil
}

// IsSingle reports whether this morphology has exactly one component.
func (m Morphology) IsSingle() bool {
	return len(m.Components) == 1
}

// Len returns the number of components.
func (m Morphology) Len() int {
	return len(m.Components)
}

// BasePOS returns the base POS of the first component, the representative
// POS used to group candidate morphologies into a valid-POS set.
func (m Morphology) BasePOS() string {
	if len(m.Components) == 0 {
		return ""
	}
	return m.Components[0].POS.Base()
}

// WithScore returns a copy of this morphology with a different score,
// used when a soft constraint's penalty multiplies the candidate score.
func (m Morphology) WithScore(score Score) Morphology {
	return Morphology{Components: m.Components, Score: score}
}

package services

import (
	"fmt"

	"depconstraints/domain/specifications"
	pkgerrors "depconstraints/pkg/errors"
)

// RawConstraint is the shape a constraint catalogue record arrives in from
// an external collaborator (typically decoded straight off YAML), before it
// is compiled into a specifications.Constraint. Premise and
// Condition are kept as loosely-typed maps here — only presence and the
// binary-shape marker fields matter at the schema-validation layer; the
// rest of a predicate tree's structure is the compiler's concern, not the
// validator's.
type RawConstraint struct {
	Description string
	Penalty *float64
	Boost *float64
	Premise map[string]any
	Condition map[string]any
}

// isBinaryShaped reports whether node carries a "dependent" and/or
// "governor" sub-field, the catalogue's marker that this predicate belongs
// to a binary constraint.
func isBinaryShaped(node map[string]any) bool {
	if node == nil {
		return false
	}
	_, hasDependent := node["dependent"]
	_, hasGovernor := node["governor"]
	return hasDependent || hasGovernor
}

// hasForbiddenBinaryField reports whether a binary-shaped node carries any
// field beyond "dependent"/"governor" — an error by convention ("any
// other field inside premise/condition at that position is an error").
func hasForbiddenBinaryField(node map[string]any) bool {
	if !isBinaryShaped(node) {
		return false
	}
	for key := range node {
		if key != "dependent" && key != "governor" {
			return true
		}
	}
	return false
}

// CatalogueValidator checks raw catalogue records against the catalogue's
// structural rules, one distinct error kind per rule, composing its checks
// as specifications.Specification[RawConstraint] the way this codebase
// composes node/edge rules (domain/specifications/base.go) — schema rules
// run once at catalogue construction, independently of the per-solve
// Predicate/Constraint model built from records that pass.
type CatalogueValidator struct {
	hasDescription specifications.Specification[RawConstraint]
	hasPremise specifications.Specification[RawConstraint]
	hasCondition specifications.Specification[RawConstraint]
	notBothDefaulted specifications.Specification[RawConstraint]
	noForbiddenBinary specifications.Specification[RawConstraint]
}

// NewCatalogueValidator builds the validator's rule set.
func NewCatalogueValidator() *CatalogueValidator {
	return &CatalogueValidator{
		hasDescription: specifications.NewBaseSpecification(func(r RawConstraint) bool {
			return r.Description != ""
		}),
		hasPremise: specifications.NewBaseSpecification(func(r RawConstraint) bool {
			return r.Premise != nil
		}),
		hasCondition: specifications.NewBaseSpecification(func(r RawConstraint) bool {
			return r.Condition != nil
		}),
		notBothDefaulted: specifications.NewBaseSpecification(func(r RawConstraint) bool {
			penalty, boost := 1.0, 1.0
			if r.Penalty != nil {
				penalty = *r.Penalty
			}
			if r.Boost != nil {
				boost = *r.Boost
			}
			return !(penalty == 1.0 && boost == 1.0)
		}),
		noForbiddenBinary: specifications.NewBaseSpecification(func(r RawConstraint) bool {
			return !hasForbiddenBinaryField(r.Premise) && !hasForbiddenBinaryField(r.Condition)
		}),
	}
}

// Validate checks a single record, returning the first violated rule as a
// distinct *pkgerrors.AppError (type Schema), naming the offending field,
// or nil if the record is well-formed.
func (v *CatalogueValidator) Validate(raw RawConstraint) error {
	if !v.hasDescription.IsSatisfiedBy(raw) {
		return pkgerrors.NewSchemaError("description", "constraint record is missing required field \"description\"")
	}
	if !v.hasPremise.IsSatisfiedBy(raw) {
		return pkgerrors.NewSchemaError("premise", fmt.Sprintf("constraint %q is missing required field \"premise\"", raw.Description))
	}
	if !v.hasCondition.IsSatisfiedBy(raw) {
		return pkgerrors.NewSchemaError("condition", fmt.Sprintf("constraint %q is missing required field \"condition\"", raw.Description))
	}
	if !v.notBothDefaulted.IsSatisfiedBy(raw) {
		return pkgerrors.NewSchemaError("penalty,boost", fmt.Sprintf("constraint %q has both penalty == 1 and boost == 1 — it would never alter a score", raw.Description))
	}
	if !v.noForbiddenBinary.IsSatisfiedBy(raw) {
		return pkgerrors.NewSchemaError("premise,condition", fmt.Sprintf("constraint %q: a binary predicate may only carry \"dependent\" and/or \"governor\" fields", raw.Description))
	}
	return nil
}

// ValidateAll validates every record in order, collecting every violation
// rather than stopping at the first — catalogue construction reports every
// malformed record at once ("reported with the offending field
// name ... non-recoverable for the affected catalogue; other inputs may
// still be processed").
func (v *CatalogueValidator) ValidateAll(raws []RawConstraint) []error {
	var errs []error
	for _, raw := range raws {
		if err := v.Validate(raw); err != nil {
			errs = append(errs, err)
		}
	}
	return errs
}

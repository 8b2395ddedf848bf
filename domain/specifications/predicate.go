// Package specifications holds the predicate and constraint model that the
// constraint engine (domain/services) evaluates. The combinators here are
// this codebase's composite Specification[T] pattern (base.go) generalized so
// that a predicate also carries three static capability flags:
// checksMorpho, checksMorphoProperties, checksContext. And/Or/
// Not fuse those flags the same way AndSpecification/OrSpecification fuse
// their evaluators, so a constraint's capabilities never have to be
// recomputed by walking the predicate tree at classification time.
package specifications

import (
	"depconstraints/domain/core/aggregates"
	"depconstraints/domain/core/entities"
)

// PredicateContext is everything a predicate may inspect about one token:
// its own state plus the sentence and tree it lives in, for head/sibling/
// descendant lookups ("position in the dependency tree (head,
// siblings, descendants)").
type PredicateContext struct {
	Token *entities.Token
	Sentence *aggregates.Sentence
	Tree *aggregates.DependencyTree
}

// Predicate is a single-token test tagged with the static capability flags
// calls for. A zero-value Predicate always holds — used for the
// "absent" side of a binary constraint pair.
type Predicate struct {
	test func(PredicateContext) bool
	checksMorpho bool
	checksMorphoProperties bool
	checksContext bool
}

// NewPredicate builds a Predicate from a raw test plus its capability flags.
// checksMorphoProperties and checksContext imply checksMorpho is irrelevant
// to callers building predicates from a catalogue record: they should still
// pass the flags that genuinely apply to this test.
func NewPredicate(test func(PredicateContext) bool, checksMorpho, checksMorphoProperties, checksContext bool) Predicate {
	return Predicate{
		test: test,
		checksMorpho: checksMorpho,
		checksMorphoProperties: checksMorphoProperties,
		checksContext: checksContext,
	}
}

// Holds evaluates the predicate; a nil test always holds.
func (p Predicate) Holds(ctx PredicateContext) bool {
	if p.test == nil {
		return true
	}
	return p.test(ctx)
}

// ChecksMorpho reports whether this predicate reads morphology at all.
func (p Predicate) ChecksMorpho() bool { return p.checksMorpho }

// ChecksMorphoProperties reports whether this predicate reads properties
// beyond the base POS.
func (p Predicate) ChecksMorphoProperties() bool { return p.checksMorphoProperties }

// ChecksContext reports whether this predicate reads context morphologies.
func (p Predicate) ChecksContext() bool { return p.checksContext }

// And combines two predicates, merging capability flags.
func (p Predicate) And(other Predicate) Predicate {
	return Predicate{
		test: func(ctx PredicateContext) bool { return p.Holds(ctx) && other.Holds(ctx) },
		checksMorpho: p.checksMorpho || other.checksMorpho,
		checksMorphoProperties: p.checksMorphoProperties || other.checksMorphoProperties,
		checksContext: p.checksContext || other.checksContext,
	}
}

// Or combines two predicates, merging capability flags.
func (p Predicate) Or(other Predicate) Predicate {
	return Predicate{
		test: func(ctx PredicateContext) bool { return p.Holds(ctx) || other.Holds(ctx) },
		checksMorpho: p.checksMorpho || other.checksMorpho,
		checksMorphoProperties: p.checksMorphoProperties || other.checksMorphoProperties,
		checksContext: p.checksContext || other.checksContext,
	}
}

// Not negates the predicate; capability flags are unchanged since negation
// reads the same fields its operand does.
func (p Predicate) Not() Predicate {
	return Predicate{
		test: func(ctx PredicateContext) bool { return !p.Holds(ctx) },
		checksMorpho: p.checksMorpho,
		checksMorphoProperties: p.checksMorphoProperties,
		checksContext: p.checksContext,
	}
}

// AlwaysTrue is the vacuous predicate; no capability reads.
func AlwaysTrue() Predicate {
	return Predicate{test: func(PredicateContext) bool { return true }}
}

// IsBasePOS tests the token's chosen morphology's first-component base POS.
func IsBasePOS(base string) Predicate {
	return NewPredicate(func(ctx PredicateContext) bool {
		m, ok := ctx.Token.ChosenMorphology()
		if !ok {
			return false
		}
		return m.BasePOS() == base
	}, true, false, false)
}

// HasProperty tests that the chosen morphology's first component carries
// the named morphological feature, regardless of value.
func HasProperty(name string) Predicate {
	return NewPredicate(func(ctx PredicateContext) bool {
		m, ok := ctx.Token.ChosenMorphology()
		if !ok || len(m.Components) == 0 {
			return false
		}
		return m.Components[0].HasProperty(name)
	}, true, true, false)
}

// PropertyEquals tests the chosen morphology's first component's named
// feature against an expected value.
func PropertyEquals(name, value string) Predicate {
	return NewPredicate(func(ctx PredicateContext) bool {
		m, ok := ctx.Token.ChosenMorphology()
		if !ok || len(m.Components) == 0 {
			return false
		}
		v, ok := m.Components[0].Property(name)
		return ok && v == value
	}, true, true, false)
}

// HasContextProperty tests whether any of the token's context morphologies
// carries the named feature.
func HasContextProperty(name string) Predicate {
	return NewPredicate(func(ctx PredicateContext) bool {
		for _, m := range ctx.Token.ContextMorphologies() {
			for _, c := range m.Components {
				if c.HasProperty(name) {
					return true
				}
			}
		}
		return false
	}, true, true, true)
}

// FormEquals tests the token's surface form; reads no morphology.
func FormEquals(form string) Predicate {
	return NewPredicate(func(ctx PredicateContext) bool {
		return ctx.Token.Form() == form
	}, false, false, false)
}

// HasGovernor tests whether the token currently has a governor; reads no
// morphology.
func HasGovernor() Predicate {
	return NewPredicate(func(ctx PredicateContext) bool {
		return ctx.Token.Relation().HasGovernor()
	}, false, false, false)
}

// HasLabel tests the token's current dependency label; reads no morphology.
func HasLabel(label string) Predicate {
	return NewPredicate(func(ctx PredicateContext) bool {
		return ctx.Token.Relation().Label == label
	}, false, false, false)
}

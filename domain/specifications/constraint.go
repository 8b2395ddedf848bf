package specifications

import (
	"depconstraints/domain/core/valueobjects"
	pkgerrors "depconstraints/pkg/errors"
)

// Kind tags which of the two shapes a Constraint's premise/condition take. The
// source's abstract-base-plus-subclasses hierarchy becomes this tagged
// variant; capability flags live on the variant, never behind a virtual
// call.
type Kind string

const (
	KindUnary Kind = "unary"
	KindBinary Kind = "binary"
	// KindOther tags a constraint whose premise/condition touch more than
	// one governor-dependent pair (e.g. siblings, whole subtrees) — the
	// "baseMorphoOthers" share of the taxonomy. Its predicate has the same
	// shape as a unary predicate but is expected to read ctx.Sentence/
	// ctx.Tree beyond ctx.Token.
	KindOther Kind = "other"
)

// SidedPredicate is a binary constraint's premise or condition: an optional
// dependent-side predicate and an optional governor-side predicate, at
// least one of which must be present. A pair is verified iff
// every present side holds; a missing governor makes a present
// governor-side predicate hold vacuously (root case).
type SidedPredicate struct {
	Dependent *Predicate
	Governor *Predicate
}

// Holds evaluates the pair. governor is nil exactly when the dependent is
// currently the tree root.
func (p SidedPredicate) Holds(dependent PredicateContext, governor *PredicateContext) bool {
	if p.Dependent != nil && !p.Dependent.Holds(dependent) {
		return false
	}
	if p.Governor != nil && governor != nil && !p.Governor.Holds(*governor) {
		return false
	}
	return true
}

func (p SidedPredicate) capabilities() (morpho, properties, context bool) {
	if p.Dependent != nil {
		morpho = morpho || p.Dependent.ChecksMorpho()
		properties = properties || p.Dependent.ChecksMorphoProperties()
		context = context || p.Dependent.ChecksContext()
	}
	if p.Governor != nil {
		morpho = morpho || p.Governor.ChecksMorpho()
		properties = properties || p.Governor.ChecksMorphoProperties()
		context = context || p.Governor.ChecksContext()
	}
	return
}

// Constraint is the immutable catalogue record: a description (its
// identity for equality), a penalty in [0,1], a boost >= 1.0, and a
// premise/condition pair verified as ¬premise ∨ condition. A constraint is
// hard iff its penalty is exactly 0.
type Constraint struct {
	description string
	penalty valueobjects.Score
	boost float64
	kind Kind

	unaryPremise Predicate
	unaryCondition Predicate

	binaryPremise SidedPredicate
	binaryCondition SidedPredicate

	checksMorpho bool
	checksMorphoProperties bool
	checksContext bool
}

// NewUnaryConstraint builds a unary constraint: premise and condition are
// single-token predicates on the dependent.
func NewUnaryConstraint(description string, penalty valueobjects.Score, boost float64, premise, condition Predicate) (Constraint, error) {
	if description == "" {
		return Constraint{}, pkgerrors.NewSchemaError("description", "constraint description is required")
	}
	return Constraint{
		description: description,
		penalty: penalty,
		boost: boost,
		kind: KindUnary,
		unaryPremise: premise,
		unaryCondition: condition,
		checksMorpho: premise.ChecksMorpho() || condition.ChecksMorpho(),
		checksMorphoProperties: premise.ChecksMorphoProperties() || condition.ChecksMorphoProperties(),
		checksContext: premise.ChecksContext() || condition.ChecksContext(),
	}, nil
}

// NewOtherConstraint builds a constraint whose premise/condition reach
// beyond a single governor-dependent pair.
func NewOtherConstraint(description string, penalty valueobjects.Score, boost float64, premise, condition Predicate) (Constraint, error) {
	c, err := NewUnaryConstraint(description, penalty, boost, premise, condition)
	if err != nil {
		return Constraint{}, err
	}
	c.kind = KindOther
	return c, nil
}

// NewBinaryConstraint builds a binary constraint: premise and condition are
// sided predicate pairs over a dependent and its governor.
func NewBinaryConstraint(description string, penalty valueobjects.Score, boost float64, premise, condition SidedPredicate) (Constraint, error) {
	if description == "" {
		return Constraint{}, pkgerrors.NewSchemaError("description", "constraint description is required")
	}
	if premise.Dependent == nil && premise.Governor == nil && condition.Dependent == nil && condition.Governor == nil {
		return Constraint{}, pkgerrors.NewSchemaError("premise", "binary constraint must have at least one non-empty side")
	}
	pm, pp, pc := premise.capabilities()
	cm, cp, cc := condition.capabilities()
	return Constraint{
		description: description,
		penalty: penalty,
		boost: boost,
		kind: KindBinary,
		binaryPremise: premise,
		binaryCondition: condition,
		checksMorpho: pm || cm,
		checksMorphoProperties: pp || cp,
		checksContext: pc || cc,
	}, nil
}

// Description returns the constraint's identity string.
func (c Constraint) Description() string { return c.description }

// Penalty returns the soft-constraint score multiplier; 0 marks a hard
// constraint.
func (c Constraint) Penalty() valueobjects.Score { return c.penalty }

// Boost returns the constraint's score boost (unused by a hard constraint).
func (c Constraint) Boost() float64 { return c.boost }

// Kind reports whether this is a unary, binary, or "other" constraint.
func (c Constraint) Kind() Kind { return c.kind }

// IsHard reports whether this constraint has zero tolerance (penalty 0).
func (c Constraint) IsHard() bool { return c.penalty.Float64() == 0 }

// IsUnary reports whether this is a unary constraint.
func (c Constraint) IsUnary() bool { return c.kind == KindUnary }

// IsBinary reports whether this is a binary constraint.
func (c Constraint) IsBinary() bool { return c.kind == KindBinary }

// IsOther reports whether this constraint reaches beyond a single
// governor-dependent pair.
func (c Constraint) IsOther() bool { return c.kind == KindOther }

// ChecksMorpho reports whether this constraint's predicates read
// morphology at all.
func (c Constraint) ChecksMorpho() bool { return c.checksMorpho }

// ChecksMorphoProperties reports whether this constraint's predicates read
// properties beyond the base POS.
func (c Constraint) ChecksMorphoProperties() bool { return c.checksMorphoProperties }

// ChecksContext reports whether this constraint's predicates read context
// morphologies.
func (c Constraint) ChecksContext() bool { return c.checksContext }

// VerifyUnary evaluates a unary or "other" constraint against a single
// token context: ¬premise ∨ condition.
func (c Constraint) VerifyUnary(ctx PredicateContext) bool {
	return !c.unaryPremise.Holds(ctx) || c.unaryCondition.Holds(ctx)
}

// VerifyBinary evaluates a binary constraint against a dependent-governor
// pair: ¬premise ∨ condition, with a missing governor at the root making
// any governor-side predicate hold vacuously.
func (c Constraint) VerifyBinary(dependent PredicateContext, governor *PredicateContext) bool {
	return !c.binaryPremise.Holds(dependent, governor) || c.binaryCondition.Holds(dependent, governor)
}

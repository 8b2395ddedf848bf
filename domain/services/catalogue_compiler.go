package services

import (
	"fmt"

	"depconstraints/domain/core/valueobjects"
	"depconstraints/domain/specifications"
	pkgerrors "depconstraints/pkg/errors"
)

// CatalogueCompiler turns a schema-valid RawConstraint into a verifiable
// specifications.Constraint. Premise/condition maps follow a small predicate
// grammar left otherwise unspecified beyond the binary "dependent"/
// "governor" markers: "pos", "form", "label", "hasGovernor", "property"
// (+ optional "value"), "contextProperty", and the combinators "and"/"or"
// (lists of nodes) and "not" (a single node). Grounded on this codebase's
// table-driven item decoding (infrastructure/persistence/dynamodb's
// ParseItem) applied to a predicate tree instead of a flat DynamoDB item.
type CatalogueCompiler struct {
	validator *CatalogueValidator
}

// NewCatalogueCompiler builds a compiler with its own schema validator —
// Compile always validates before it builds.
func NewCatalogueCompiler() *CatalogueCompiler {
	return &CatalogueCompiler{validator: NewCatalogueValidator()}
}

// Compile validates raw and, if well-formed, compiles it into a Constraint.
// A record is binary iff its premise or condition carries a "dependent" or
// "governor" sub-field; otherwise it compiles as unary.
func (c *CatalogueCompiler) Compile(raw RawConstraint) (specifications.Constraint, error) {
	if err := c.validator.Validate(raw); err != nil {
		return specifications.Constraint{}, err
	}

	penalty := valueobjects.Score(1)
	if raw.Penalty != nil {
		penalty = valueobjects.Score(*raw.Penalty)
	}
	boost := 1.0
	if raw.Boost != nil {
		boost = *raw.Boost
	}

	if isBinaryShaped(raw.Premise) || isBinaryShaped(raw.Condition) {
		premise, err := c.compileSided(raw.Premise)
		if err != nil {
			return specifications.Constraint{}, err
		}
		condition, err := c.compileSided(raw.Condition)
		if err != nil {
			return specifications.Constraint{}, err
		}
		return specifications.NewBinaryConstraint(raw.Description, penalty, boost, premise, condition)
	}

	premise, err := c.compileNode(raw.Premise)
	if err != nil {
		return specifications.Constraint{}, err
	}
	condition, err := c.compileNode(raw.Condition)
	if err != nil {
		return specifications.Constraint{}, err
	}
	return specifications.NewUnaryConstraint(raw.Description, penalty, boost, premise, condition)
}

// CompileAll compiles every well-formed record, collecting the compiled
// constraints and every compile error rather than stopping at the first —
// mirrors CatalogueValidator.ValidateAll's "other inputs may still be
// processed" rule.
func (c *CatalogueCompiler) CompileAll(raws []RawConstraint) ([]specifications.Constraint, []error) {
	var constraints []specifications.Constraint
	var errs []error
	for _, raw := range raws {
		constraint, err := c.Compile(raw)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		constraints = append(constraints, constraint)
	}
	return constraints, errs
}

func (c *CatalogueCompiler) compileSided(node map[string]any) (specifications.SidedPredicate, error) {
	var sided specifications.SidedPredicate
	if depNode, ok := node["dependent"].(map[string]any); ok {
		p, err := c.compileNode(depNode)
		if err != nil {
			return specifications.SidedPredicate{}, err
		}
		sided.Dependent = &p
	}
	if govNode, ok := node["governor"].(map[string]any); ok {
		p, err := c.compileNode(govNode)
		if err != nil {
			return specifications.SidedPredicate{}, err
		}
		sided.Governor = &p
	}
	return sided, nil
}

func (c *CatalogueCompiler) compileNode(node map[string]any) (specifications.Predicate, error) {
	if node == nil {
		return specifications.AlwaysTrue(), nil
	}

	if rawAnd, ok := node["and"].([]any); ok {
		result := specifications.AlwaysTrue()
		for _, sub := range rawAnd {
			subNode, ok := sub.(map[string]any)
			if !ok {
				return specifications.Predicate{}, pkgerrors.NewSchemaError("and", "each entry of \"and\" must be a predicate node")
			}
			p, err := c.compileNode(subNode)
			if err != nil {
				return specifications.Predicate{}, err
			}
			result = result.And(p)
		}
		return result, nil
	}

	if rawOr, ok := node["or"].([]any); ok {
		if len(rawOr) == 0 {
			return specifications.Predicate{}, pkgerrors.NewSchemaError("or", "\"or\" must list at least one predicate node")
		}
		var result specifications.Predicate
		for i, sub := range rawOr {
			subNode, ok := sub.(map[string]any)
			if !ok {
				return specifications.Predicate{}, pkgerrors.NewSchemaError("or", "each entry of \"or\" must be a predicate node")
			}
			p, err := c.compileNode(subNode)
			if err != nil {
				return specifications.Predicate{}, err
			}
			if i == 0 {
				result = p
			} else {
				result = result.Or(p)
			}
		}
		return result, nil
	}

	if notNode, ok := node["not"].(map[string]any); ok {
		p, err := c.compileNode(notNode)
		if err != nil {
			return specifications.Predicate{}, err
		}
		return p.Not(), nil
	}

	if pos, ok := node["pos"].(string); ok {
		return specifications.IsBasePOS(pos), nil
	}
	if form, ok := node["form"].(string); ok {
		return specifications.FormEquals(form), nil
	}
	if label, ok := node["label"].(string); ok {
		return specifications.HasLabel(label), nil
	}
	if hasGov, ok := node["hasGovernor"].(bool); ok && hasGov {
		return specifications.HasGovernor(), nil
	}
	if prop, ok := node["property"].(string); ok {
		if value, ok := node["value"].(string); ok {
			return specifications.PropertyEquals(prop, value), nil
		}
		return specifications.HasProperty(prop), nil
	}
	if ctxProp, ok := node["contextProperty"].(string); ok {
		return specifications.HasContextProperty(ctxProp), nil
	}

	return specifications.Predicate{}, pkgerrors.NewSchemaError("premise,condition", fmt.Sprintf("unrecognized predicate node: %v", node))
}

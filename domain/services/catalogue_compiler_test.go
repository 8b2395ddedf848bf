package services

import (
	"testing"

	"depconstraints/domain/core/entities"
	"depconstraints/domain/core/valueobjects"
	"depconstraints/domain/specifications"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func compilerTestToken(t *testing.T, form, basePOS string, hasGov bool) *entities.Token {
	t.Helper()
	span, err := valueobjects.NewSpan(0, 0, len(form))
	require.NoError(t, err)
	morph, err := valueobjects.NewMorphology([]valueobjects.MorphologyComponent{
		{Lemma: form, POS: valueobjects.NewPOS(basePOS)},
	}, valueobjects.Score(1))
	require.NoError(t, err)
	tok, err := entities.NewToken(1, form, span, []valueobjects.Morphology{morph})
	require.NoError(t, err)
	tok.SetChosenMorphology(morph)
	if hasGov {
		gov := valueobjects.TokenID(2)
		tok.SetRelation(&gov, "dep", valueobjects.Score(1))
	}
	return tok
}

func TestCatalogueCompiler_Compile_RejectsMalformedRecord(t *testing.T) {
	c := NewCatalogueCompiler()
	_, err := c.Compile(RawConstraint{Description: "", Premise: map[string]any{}, Condition: map[string]any{}})
	require.Error(t, err)
}

func TestCatalogueCompiler_Compile_UnaryPOSPredicate(t *testing.T) {
	c := NewCatalogueCompiler()
	constraint, err := c.Compile(RawConstraint{
		Description: "nouns-need-governor",
		Penalty: floatPtr(0),
		Boost: floatPtr(1),
		Premise: map[string]any{"pos": "NOUN"},
		Condition: map[string]any{"hasGovernor": true},
	})
	require.NoError(t, err)
	assert.True(t, constraint.IsUnary())
	assert.True(t, constraint.IsHard())

	noun := specifications.PredicateContext{Token: compilerTestToken(t, "dog", "NOUN", false)}
	assert.False(t, constraint.VerifyUnary(noun), "a noun with no governor violates the constraint")

	nounWithGov := specifications.PredicateContext{Token: compilerTestToken(t, "dog", "NOUN", true)}
	assert.True(t, constraint.VerifyUnary(nounWithGov))
}

func TestCatalogueCompiler_Compile_AndOrNot(t *testing.T) {
	c := NewCatalogueCompiler()
	constraint, err := c.Compile(RawConstraint{
		Description: "not-a-noun-or-verb",
		Penalty: floatPtr(0),
		Boost: floatPtr(1),
		Premise: map[string]any{"hasGovernor": true},
		Condition: map[string]any{
			"not": map[string]any{
				"or": []any{
					map[string]any{"pos": "NOUN"},
					map[string]any{"pos": "VERB"},
				},
			},
		},
	})
	require.NoError(t, err)

	adj := specifications.PredicateContext{Token: compilerTestToken(t, "red", "ADJ", true)}
	assert.True(t, constraint.VerifyUnary(adj), "ADJ is neither NOUN nor VERB, so NOT(OR(...)) holds")

	noun := specifications.PredicateContext{Token: compilerTestToken(t, "dog", "NOUN", true)}
	assert.False(t, constraint.VerifyUnary(noun))
}

func TestCatalogueCompiler_Compile_BinaryShapeFromSidedMarkers(t *testing.T) {
	c := NewCatalogueCompiler()
	constraint, err := c.Compile(RawConstraint{
		Description: "nsubj-needs-verb-governor",
		Penalty: floatPtr(0),
		Boost: floatPtr(1),
		Premise: map[string]any{"dependent": map[string]any{"label": "nsubj"}},
		Condition: map[string]any{"governor": map[string]any{"pos": "VERB"}},
	})
	require.NoError(t, err)
	assert.True(t, constraint.IsBinary())
}

func TestCatalogueCompiler_Compile_UnrecognizedNodeFails(t *testing.T) {
	c := NewCatalogueCompiler()
	_, err := c.Compile(RawConstraint{
		Description: "broken",
		Penalty: floatPtr(0),
		Boost: floatPtr(1),
		Premise: map[string]any{"nonsense": "value"},
		Condition: map[string]any{"hasGovernor": true},
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unrecognized predicate node")
}

func TestCatalogueCompiler_CompileAll_CollectsConstraintsAndErrors(t *testing.T) {
	c := NewCatalogueCompiler()
	good := RawConstraint{
		Description: "good",
		Penalty: floatPtr(0),
		Boost: floatPtr(1),
		Premise: map[string]any{"pos": "NOUN"},
		Condition: map[string]any{"hasGovernor": true},
	}
	bad := RawConstraint{Description: ""}

	constraints, errs := c.CompileAll([]RawConstraint{good, bad})
	assert.Len(t, constraints, 1)
	assert.Len(t, errs, 1)
}

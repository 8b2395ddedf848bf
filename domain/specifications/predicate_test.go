package specifications

import (
	"testing"

	"depconstraints/domain/core/entities"
	"depconstraints/domain/core/valueobjects"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newCtxToken(t *testing.T, form, basePOS string, properties map[string]string) *entities.Token {
	t.Helper()
	span, err := valueobjects.NewSpan(0, 0, len(form))
	require.NoError(t, err)
	comp := valueobjects.MorphologyComponent{Lemma: form, POS: valueobjects.NewPOS(basePOS), Properties: properties}
	morph, err := valueobjects.NewMorphology([]valueobjects.MorphologyComponent{comp}, valueobjects.Score(1))
	require.NoError(t, err)
	tok, err := entities.NewToken(valueobjects.TokenID(1), form, span, []valueobjects.Morphology{morph})
	require.NoError(t, err)
	tok.SetChosenMorphology(morph)
	return tok
}

func TestAlwaysTrue(t *testing.T) {
	p := AlwaysTrue()
	assert.True(t, p.Holds(PredicateContext{}))
	assert.False(t, p.ChecksMorpho())
}

func TestPredicate_ZeroValueHolds(t *testing.T) {
	var p Predicate
	assert.True(t, p.Holds(PredicateContext{}))
}

func TestIsBasePOS(t *testing.T) {
	tok := newCtxToken(t, "dog", "NOUN", nil)
	p := IsBasePOS("NOUN")
	assert.True(t, p.Holds(PredicateContext{Token: tok}))
	assert.True(t, p.ChecksMorpho())

	other := IsBasePOS("VERB")
	assert.False(t, other.Holds(PredicateContext{Token: tok}))
}

func TestIsBasePOS_NoChosenMorphology(t *testing.T) {
	span, err := valueobjects.NewSpan(0, 0, 3)
	require.NoError(t, err)
	tok, err := entities.NewToken(1, "dog", span, nil)
	require.NoError(t, err)

	p := IsBasePOS("NOUN")
	assert.False(t, p.Holds(PredicateContext{Token: tok}))
}

func TestHasProperty(t *testing.T) {
	tok := newCtxToken(t, "dogs", "NOUN", map[string]string{"number": "plural"})
	p := HasProperty("number")
	assert.True(t, p.Holds(PredicateContext{Token: tok}))
	assert.True(t, p.ChecksMorphoProperties())

	assert.False(t, HasProperty("gender").Holds(PredicateContext{Token: tok}))
}

func TestPropertyEquals(t *testing.T) {
	tok := newCtxToken(t, "dogs", "NOUN", map[string]string{"number": "plural"})
	assert.True(t, PropertyEquals("number", "plural").Holds(PredicateContext{Token: tok}))
	assert.False(t, PropertyEquals("number", "singular").Holds(PredicateContext{Token: tok}))
}

func TestHasContextProperty(t *testing.T) {
	tok := newCtxToken(t, "it", "PRON", nil)
	comp := valueobjects.MorphologyComponent{Lemma: "it", POS: valueobjects.NewPOS("PRON"), Properties: map[string]string{"gender": "neuter"}}
	ctxMorph, err := valueobjects.NewMorphology([]valueobjects.MorphologyComponent{comp}, valueobjects.Score(1))
	require.NoError(t, err)
	tok.SetContextMorphologies([]valueobjects.Morphology{ctxMorph})

	p := HasContextProperty("gender")
	assert.True(t, p.Holds(PredicateContext{Token: tok}))
	assert.True(t, p.ChecksContext())
	assert.False(t, HasContextProperty("case").Holds(PredicateContext{Token: tok}))
}

func TestFormEquals(t *testing.T) {
	tok := newCtxToken(t, "dog", "NOUN", nil)
	p := FormEquals("dog")
	assert.True(t, p.Holds(PredicateContext{Token: tok}))
	assert.False(t, p.ChecksMorpho())
	assert.False(t, FormEquals("cat").Holds(PredicateContext{Token: tok}))
}

func TestHasGovernorAndHasLabel(t *testing.T) {
	tok := newCtxToken(t, "dog", "NOUN", nil)
	assert.False(t, HasGovernor().Holds(PredicateContext{Token: tok}))

	gov := valueobjects.TokenID(5)
	tok.SetRelation(&gov, "nsubj", valueobjects.Score(1))
	assert.True(t, HasGovernor().Holds(PredicateContext{Token: tok}))
	assert.True(t, HasLabel("nsubj").Holds(PredicateContext{Token: tok}))
	assert.False(t, HasLabel("obj").Holds(PredicateContext{Token: tok}))
}

func TestPredicate_AndOrNot(t *testing.T) {
	noun := IsBasePOS("NOUN")
	plural := HasProperty("number")

	tok := newCtxToken(t, "dogs", "NOUN", map[string]string{"number": "plural"})

	and := noun.And(plural)
	assert.True(t, and.Holds(PredicateContext{Token: tok}))
	assert.True(t, and.ChecksMorpho())
	assert.True(t, and.ChecksMorphoProperties())

	verb := IsBasePOS("VERB")
	or := verb.Or(plural)
	assert.True(t, or.Holds(PredicateContext{Token: tok}))

	not := verb.Not()
	assert.True(t, not.Holds(PredicateContext{Token: tok}))
	assert.True(t, not.ChecksMorpho(), "negation preserves capability flags of its operand")
}

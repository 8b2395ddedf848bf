package services

import (
	"testing"

	"depconstraints/domain/core/aggregates"
	"depconstraints/domain/core/entities"
	"depconstraints/domain/core/valueobjects"
	"depconstraints/domain/specifications"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func engineTestToken(t *testing.T, id valueobjects.TokenID, form, basePOS string) *entities.Token {
	t.Helper()
	span, err := valueobjects.NewSpan(0, 0, len(form))
	require.NoError(t, err)
	morph, err := valueobjects.NewMorphology([]valueobjects.MorphologyComponent{
		{Lemma: form, POS: valueobjects.NewPOS(basePOS)},
	}, valueobjects.Score(1))
	require.NoError(t, err)
	tok, err := entities.NewToken(id, form, span, []valueobjects.Morphology{morph})
	require.NoError(t, err)
	tok.SetChosenMorphology(morph)
	return tok
}

func TestConstraintEngine_IsVerified_Unary(t *testing.T) {
	engine := NewConstraintEngine()
	c, err := specifications.NewUnaryConstraint("noun-only", valueobjects.Score(0), 1, specifications.AlwaysTrue(), specifications.IsBasePOS("NOUN"))
	require.NoError(t, err)

	noun := specifications.PredicateContext{Token: engineTestToken(t, 1, "dog", "NOUN")}
	verb := specifications.PredicateContext{Token: engineTestToken(t, 2, "runs", "VERB")}

	assert.True(t, engine.IsVerified(c, noun, nil))
	assert.False(t, engine.IsVerified(c, verb, nil))
}

func TestConstraintEngine_IsVerified_Binary(t *testing.T) {
	engine := NewConstraintEngine()
	dependentPred := specifications.IsBasePOS("NOUN")
	governorPred := specifications.IsBasePOS("VERB")
	c, err := specifications.NewBinaryConstraint("nsubj-needs-verb",
		valueobjects.Score(0), 1,
		specifications.SidedPredicate{Dependent: &dependentPred},
		specifications.SidedPredicate{Governor: &governorPred})
	require.NoError(t, err)

	dependent := specifications.PredicateContext{Token: engineTestToken(t, 1, "dog", "NOUN")}
	verbGovernor := specifications.PredicateContext{Token: engineTestToken(t, 2, "runs", "VERB")}
	nounGovernor := specifications.PredicateContext{Token: engineTestToken(t, 3, "cat", "NOUN")}

	assert.True(t, engine.IsVerified(c, dependent, &verbGovernor))
	assert.False(t, engine.IsVerified(c, dependent, &nounGovernor))
}

func TestConstraintEngine_Verify_PreservesOrder(t *testing.T) {
	engine := NewConstraintEngine()
	failsAlways, err := specifications.NewUnaryConstraint("fails", valueobjects.Score(0), 1, specifications.AlwaysTrue(), specifications.FormEquals("nonexistent"))
	require.NoError(t, err)
	passesAlways, err := specifications.NewUnaryConstraint("passes", valueobjects.Score(0), 1, specifications.AlwaysTrue(), specifications.AlwaysTrue())
	require.NoError(t, err)
	failsAgain, err := specifications.NewUnaryConstraint("fails-again", valueobjects.Score(0), 1, specifications.AlwaysTrue(), specifications.FormEquals("nope"))
	require.NoError(t, err)

	dependent := specifications.PredicateContext{Token: engineTestToken(t, 1, "dog", "NOUN")}
	violated := engine.Verify([]specifications.Constraint{failsAlways, passesAlways, failsAgain}, dependent, nil)

	require.Len(t, violated, 2)
	assert.Equal(t, "fails", violated[0].Description())
	assert.Equal(t, "fails-again", violated[1].Description())
}

func TestConstraintEngine_VerifyAll(t *testing.T) {
	engine := NewConstraintEngine()
	root := engineTestToken(t, 1, "runs", "VERB")
	dependent := engineTestToken(t, 2, "dog", "NOUN")
	gov := valueobjects.TokenID(1)
	dependent.SetRelation(&gov, "nsubj", valueobjects.Score(1))

	sentence, err := aggregates.NewSentence("s1", []*entities.Token{root, dependent})
	require.NoError(t, err)
	tree := sentence.Tree()

	onlyNouns, err := specifications.NewUnaryConstraint("nouns-only", valueobjects.Score(0), 1, specifications.AlwaysTrue(), specifications.IsBasePOS("NOUN"))
	require.NoError(t, err)

	violations := engine.VerifyAll([]specifications.Constraint{onlyNouns}, sentence, tree)
	require.Contains(t, violations, valueobjects.TokenID(1), "the verb token violates the noun-only constraint")
	assert.NotContains(t, violations, valueobjects.TokenID(2))
}

func TestConstraintEngine_VerifyAll_GovernorVacuousAtRoot(t *testing.T) {
	engine := NewConstraintEngine()
	root := engineTestToken(t, 1, "runs", "VERB")
	sentence, err := aggregates.NewSentence("s1", []*entities.Token{root})
	require.NoError(t, err)
	tree := sentence.Tree()

	governorMustBeVerb := specifications.IsBasePOS("VERB")
	c, err := specifications.NewBinaryConstraint("needs-verb-governor",
		valueobjects.Score(0), 1,
		specifications.SidedPredicate{},
		specifications.SidedPredicate{Governor: &governorMustBeVerb})
	require.NoError(t, err)

	violations := engine.VerifyAll([]specifications.Constraint{c}, sentence, tree)
	assert.Empty(t, violations, "a missing governor at the root must hold vacuously")
}

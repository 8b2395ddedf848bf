package specifications

import (
	"testing"

	"depconstraints/domain/core/valueobjects"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewUnaryConstraint(t *testing.T) {
	_, err := NewUnaryConstraint("", valueobjects.Score(0), 1, AlwaysTrue(), AlwaysTrue())
	require.Error(t, err)

	c, err := NewUnaryConstraint("noun-implies-case", valueobjects.Score(0), 1.0, IsBasePOS("NOUN"), HasProperty("case"))
	require.NoError(t, err)
	assert.Equal(t, "noun-implies-case", c.Description())
	assert.True(t, c.IsUnary())
	assert.True(t, c.IsHard())
	assert.True(t, c.ChecksMorpho())
	assert.True(t, c.ChecksMorphoProperties())
}

func TestNewOtherConstraint(t *testing.T) {
	c, err := NewOtherConstraint("subtree-rule", valueobjects.Score(0.2), 1.1, AlwaysTrue(), AlwaysTrue())
	require.NoError(t, err)
	assert.True(t, c.IsOther())
	assert.False(t, c.IsHard())
	assert.Equal(t, 1.1, c.Boost())
}

func TestNewBinaryConstraint(t *testing.T) {
	dependentPred := IsBasePOS("NOUN")
	governorPred := IsBasePOS("VERB")

	_, err := NewBinaryConstraint("empty-sides", valueobjects.Score(0), 1, SidedPredicate{}, SidedPredicate{Dependent: &dependentPred})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "at least one non-empty side")

	premise := SidedPredicate{Dependent: &dependentPred}
	condition := SidedPredicate{Governor: &governorPred}
	c, err := NewBinaryConstraint("nsubj-needs-verb-governor", valueobjects.Score(0), 1, premise, condition)
	require.NoError(t, err)
	assert.True(t, c.IsBinary())
	assert.True(t, c.ChecksMorpho())
}

func TestConstraint_VerifyUnary(t *testing.T) {
	tok := newCtxToken(t, "dogs", "NOUN", map[string]string{"case": "nominative"})
	c, err := NewUnaryConstraint("noun-implies-case", valueobjects.Score(0), 1, IsBasePOS("NOUN"), HasProperty("case"))
	require.NoError(t, err)
	assert.True(t, c.VerifyUnary(PredicateContext{Token: tok}))

	noCase := newCtxToken(t, "dogs", "NOUN", nil)
	assert.False(t, c.VerifyUnary(PredicateContext{Token: noCase}))

	verbTok := newCtxToken(t, "runs", "VERB", nil)
	assert.True(t, c.VerifyUnary(PredicateContext{Token: verbTok}), "premise false makes the implication hold vacuously")
}

func TestConstraint_VerifyBinary(t *testing.T) {
	dependentPred := IsBasePOS("NOUN")
	governorPred := IsBasePOS("VERB")
	premise := SidedPredicate{Dependent: &dependentPred}
	condition := SidedPredicate{Governor: &governorPred}

	c, err := NewBinaryConstraint("nsubj-needs-verb-governor", valueobjects.Score(0), 1, premise, condition)
	require.NoError(t, err)

	dependent := PredicateContext{Token: newCtxToken(t, "dog", "NOUN", nil)}
	verbGovernor := PredicateContext{Token: newCtxToken(t, "runs", "VERB", nil)}
	assert.True(t, c.VerifyBinary(dependent, &verbGovernor))

	nounGovernor := PredicateContext{Token: newCtxToken(t, "cat", "NOUN", nil)}
	assert.False(t, c.VerifyBinary(dependent, &nounGovernor))

	assert.True(t, c.VerifyBinary(dependent, nil), "missing governor holds vacuously at the root")
}

func TestSidedPredicate_Holds(t *testing.T) {
	dependentPred := IsBasePOS("NOUN")
	sided := SidedPredicate{Dependent: &dependentPred}

	dependent := PredicateContext{Token: newCtxToken(t, "dog", "NOUN", nil)}
	assert.True(t, sided.Holds(dependent, nil))

	mismatched := PredicateContext{Token: newCtxToken(t, "runs", "VERB", nil)}
	assert.False(t, sided.Holds(mismatched, nil))
}

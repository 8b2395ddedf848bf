package services

import (
	"testing"

	"depconstraints/domain/config"
	"depconstraints/domain/core/aggregates"
	"depconstraints/domain/core/entities"
	"depconstraints/domain/core/valueobjects"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func treeBuilderTestToken(t *testing.T, id valueobjects.TokenID, form, basePOS string) *entities.Token {
	t.Helper()
	span, err := valueobjects.NewSpan(0, 0, len(form))
	require.NoError(t, err)
	morph, err := valueobjects.NewMorphology([]valueobjects.MorphologyComponent{
		{Lemma: form, POS: valueobjects.NewPOS(basePOS)},
	}, valueobjects.Score(1))
	require.NoError(t, err)
	tok, err := entities.NewToken(id, form, span, []valueobjects.Morphology{morph})
	require.NoError(t, err)
	return tok
}

func TestTreeBuilder_Build_RequiresLabelsSolver(t *testing.T) {
	tok := treeBuilderTestToken(t, 1, "runs", "VERB")
	sentence, err := aggregates.NewSentence("s1", []*entities.Token{tok})
	require.NoError(t, err)

	builder := NewTreeBuilder(nil, nil)
	_, err = builder.Build(sentence, nil, nil, nil, config.SolverConfig{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "requires a labels solver")
}

func TestTreeBuilder_Build_AssemblesRootedTree(t *testing.T) {
	root := treeBuilderTestToken(t, 1, "runs", "VERB")
	dependent := treeBuilderTestToken(t, 2, "dog", "NOUN")
	sentence, err := aggregates.NewSentence("s1", []*entities.Token{root, dependent})
	require.NoError(t, err)

	arcScores := map[valueobjects.TokenID]map[valueobjects.TokenID]valueobjects.Score{
		1: {valueobjects.RootID: valueobjects.Score(1)},
		2: {valueobjects.RootID: valueobjects.Score(0.1), 1: valueobjects.Score(0.9)},
	}
	scoredConfigs := map[valueobjects.TokenID][]ScoredConfiguration{
		1: {{
			Configuration: valueobjects.Configuration{Components: []valueobjects.ConfigComponent{
				{POS: valueobjects.NewPOS("VERB"), Label: "root", Direction: valueobjects.DirectionRoot},
			}, Score: valueobjects.Score(1)},
			Score: valueobjects.Score(1),
		}},
		2: {{
			Configuration: valueobjects.Configuration{Components: []valueobjects.ConfigComponent{
				{POS: valueobjects.NewPOS("NOUN"), Label: "nsubj", Direction: valueobjects.DirectionRight},
			}, Score: valueobjects.Score(0.9)},
			Score: valueobjects.Score(0.9),
		}},
	}

	selector := NewDefaultLabelerSelector()
	labelsSolver := NewLabelsSolver(nil, selector)
	builder := NewTreeBuilder(nil, labelsSolver)

	cfg := config.SolverConfig{BeamWidth: 4, ForkWidth: 3, MaxIterations: 10}
	tree, err := builder.Build(sentence, arcScores, scoredConfigs, nil, cfg)
	require.NoError(t, err)
	require.NotNil(t, tree)

	rootArc, ok := tree.Arc(1)
	require.True(t, ok)
	assert.False(t, rootArc.HasGovernor())

	depArc, ok := tree.Arc(2)
	require.True(t, ok)
	require.True(t, depArc.HasGovernor())
	assert.Equal(t, valueobjects.TokenID(1), *depArc.Governor)
}

func TestTreeBuilder_CandidatesFor_FiltersBelowUniformBaseline(t *testing.T) {
	tb := NewTreeBuilder(nil, nil)
	governors := map[valueobjects.TokenID]valueobjects.Score{
		1: valueobjects.Score(0.6),
		2: valueobjects.Score(0.3), // below 1/3 baseline
		3: valueobjects.Score(0.1),
	}

	got := tb.candidatesFor(governors)
	require.Len(t, got, 1)
	assert.Equal(t, valueobjects.TokenID(1), got[0].GovernorID)
}

func TestTreeBuilder_CandidatesFor_FallsBackToFullListWhenFilterWouldEmpty(t *testing.T) {
	tb := NewTreeBuilder(nil, nil)
	governors := map[valueobjects.TokenID]valueobjects.Score{
		1: valueobjects.Score(0.1),
		2: valueobjects.Score(0.05),
		3: valueobjects.Score(0.02),
	}

	got := tb.candidatesFor(governors)
	require.Len(t, got, 3, "every candidate is below the uniform baseline, so the full sorted list is kept")
	assert.Equal(t, valueobjects.TokenID(1), got[0].GovernorID, "still sorted by descending score")
}

func TestTreeBuilder_Materialize_BuildsPlainTreeFromBeamState(t *testing.T) {
	tb := NewTreeBuilder(nil, nil)
	order := []valueobjects.TokenID{1, 2}
	state := &State[valueobjects.TokenID, ArcCandidate]{
		Elements: []StateElement[valueobjects.TokenID, ArcCandidate]{
			{ElementID: 1, Value: ArcCandidate{GovernorID: valueobjects.RootID, Score: valueobjects.Score(1)}},
			{ElementID: 2, Value: ArcCandidate{GovernorID: 1, Score: valueobjects.Score(0.9)}},
		},
	}

	tree := tb.materialize(order, state)
	rootArc, ok := tree.Arc(1)
	require.True(t, ok)
	assert.False(t, rootArc.HasGovernor())

	depArc, ok := tree.Arc(2)
	require.True(t, ok)
	require.True(t, depArc.HasGovernor())
	assert.Equal(t, valueobjects.TokenID(1), *depArc.Governor)
}

package services

import (
	"context"
	"testing"

	"depconstraints/application/adapters"
	"depconstraints/domain/config"
	"depconstraints/domain/core/aggregates"
	"depconstraints/domain/core/entities"
	"depconstraints/domain/core/valueobjects"
	"depconstraints/domain/services"
	"depconstraints/domain/specifications"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func parserServiceTestToken(t *testing.T, id valueobjects.TokenID, form, basePOS string) *entities.Token {
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

func TestParserService_Validate_RecordsLastViolations(t *testing.T) {
	tok := parserServiceTestToken(t, 1, "runs", "VERB")
	sentence, err := aggregates.NewSentence("s1", []*entities.Token{tok})
	require.NoError(t, err)

	svc := NewParserService(nil, nil, nil, config.DefaultSolverConfig(), nil, nil)
	result, err := svc.Validate(context.Background(), sentence, nil, nil)
	require.NoError(t, err)
	assert.True(t, result.Violations.IsEmpty())

	recorded, ok := svc.LastViolations("s1")
	require.True(t, ok)
	assert.True(t, recorded.IsEmpty())
}

func TestParserService_Validate_ReportsViolations(t *testing.T) {
	tok := parserServiceTestToken(t, 1, "runs", "VERB")
	sentence, err := aggregates.NewSentence("s1", []*entities.Token{tok})
	require.NoError(t, err)

	onlyNouns, err := specifications.NewUnaryConstraint("nouns-only", valueobjects.Score(0), 1,
		specifications.AlwaysTrue(), specifications.IsBasePOS("NOUN"))
	require.NoError(t, err)

	svc := NewParserService(nil, nil, nil, config.DefaultSolverConfig(), nil, nil)
	result, err := svc.Validate(context.Background(), sentence, nil, []specifications.Constraint{onlyNouns})
	require.NoError(t, err)
	assert.False(t, result.Violations.IsEmpty())
}

func TestParserService_Solve_RequiresBothScorers(t *testing.T) {
	tok := parserServiceTestToken(t, 1, "runs", "VERB")
	sentence, err := aggregates.NewSentence("s1", []*entities.Token{tok})
	require.NoError(t, err)

	svc := NewParserService(nil, nil, nil, config.DefaultSolverConfig(), nil, nil)
	_, err = svc.Solve(context.Background(), sentence, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "requires an arc scorer")
}

func TestParserService_Solve_BuildsTreeFromStaticCollaborators(t *testing.T) {
	root := parserServiceTestToken(t, 1, "runs", "VERB")
	dependent := parserServiceTestToken(t, 2, "dog", "NOUN")
	sentence, err := aggregates.NewSentence("s1", []*entities.Token{root, dependent})
	require.NoError(t, err)

	arcScores := map[valueobjects.TokenID]map[valueobjects.TokenID]valueobjects.Score{
		1: {valueobjects.RootID: valueobjects.Score(1)},
		2: {valueobjects.RootID: valueobjects.Score(0.1), 1: valueobjects.Score(0.9)},
	}
	scoredConfigs := map[valueobjects.TokenID][]services.ScoredConfiguration{
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

	svc := NewParserService(nil, nil, nil, config.SolverConfig{BeamWidth: 4, ForkWidth: 3, MaxIterations: 10}, nil, nil)
	bound := svc.WithScorers(adapters.NewStaticArcScorer(arcScores), adapters.NewStaticConfigurationScorer(scoredConfigs))

	result, err := bound.Solve(context.Background(), sentence, nil)
	require.NoError(t, err)
	require.NotNil(t, result.Tree)

	depArc, ok := result.Tree.Arc(2)
	require.True(t, ok)
	assert.Equal(t, "nsubj", depArc.Label)
	assert.Contains(t, result.Morphologies, valueobjects.TokenID(1))
	assert.Contains(t, result.Morphologies, valueobjects.TokenID(2))
}

package services

import (
	"testing"

	"depconstraints/domain/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// scored is a toy candidate value: higher Value scores higher.
type scored struct {
	Value int
}

func scoreOfScored(s scored) float64 { return float64(s.Value) }

func sortedCandidates(values ...int) []scored {
	out := make([]scored, len(values))
	for i, v := range values {
		out[i] = scored{Value: v}
	}
	return out
}

func TestBeamManager_Initialize_SeedsTopScoringState(t *testing.T) {
	valuesMap := map[string][]scored{
		"a": sortedCandidates(9, 5, 1),
		"b": sortedCandidates(7, 3),
	}
	evaluate := func(state *State[string, scored]) {
		total := 0.0
		for _, e := range state.Elements {
			total += scoreOfScored(e.Value)
		}
		state.Score = total
		state.IsValid = true
	}
	bm := NewBeamManager[string, scored]([]string{"a", "b"}, valuesMap, scoreOfScored, config.SolverConfig{BeamWidth: 4, ForkWidth: 2, MaxIterations: 10}, evaluate)

	bm.initialize()
	require.Len(t, bm.beam, 1)
	assert.Equal(t, 16.0, bm.beam[0].Score)
	assert.True(t, bm.beam[0].IsValid)
	assert.True(t, bm.validStatesOnly)
}

func TestBeamManager_FindBestConfiguration_PrefersHighestValidScore(t *testing.T) {
	valuesMap := map[string][]scored{
		"a": sortedCandidates(8, 5, 1),
		"b": sortedCandidates(7, 3),
	}
	// Only states where both elements pick an odd value are valid; "a"'s
	// top candidate is even, so the seed state must fork before it finds one.
	evaluate := func(state *State[string, scored]) {
		total := 0.0
		valid := true
		for _, e := range state.Elements {
			total += scoreOfScored(e.Value)
			if e.Value.Value%2 == 0 {
				valid = false
			}
		}
		state.Score = total
		state.IsValid = valid
	}
	bm := NewBeamManager[string, scored]([]string{"a", "b"}, valuesMap, scoreOfScored, config.SolverConfig{BeamWidth: 4, ForkWidth: 3, MaxIterations: 10}, evaluate)

	best := bm.findBestConfiguration(true)
	require.NotNil(t, best)
	assert.True(t, best.IsValid)
	for _, e := range best.Elements {
		assert.NotEqual(t, 0, e.Value.Value%2, "a valid state only ever picks odd candidate values")
	}
}

func TestBeamManager_FindBestConfiguration_FallsBackWhenNoValidState(t *testing.T) {
	valuesMap := map[string][]scored{
		"a": sortedCandidates(4, 2),
	}
	evaluate := func(state *State[string, scored]) {
		total := 0.0
		for _, e := range state.Elements {
			total += scoreOfScored(e.Value)
		}
		state.Score = total
		state.IsValid = false // never valid
	}
	bm := NewBeamManager[string, scored]([]string{"a"}, valuesMap, scoreOfScored, config.SolverConfig{BeamWidth: 2, ForkWidth: 2, MaxIterations: 5}, evaluate)

	validOnly := bm.findBestConfiguration(true)
	assert.Nil(t, validOnly, "no state is ever valid")

	bm2 := NewBeamManager[string, scored]([]string{"a"}, valuesMap, scoreOfScored, config.SolverConfig{BeamWidth: 2, ForkWidth: 2, MaxIterations: 5}, evaluate)
	best := bm2.findBestConfiguration(false)
	require.NotNil(t, best)
	assert.Equal(t, 4.0, best.Score)
}

func TestBeamManager_Key_DistinguishesStatesByIndex(t *testing.T) {
	valuesMap := map[string][]scored{"a": sortedCandidates(9, 5)}
	bm := NewBeamManager[string, scored]([]string{"a"}, valuesMap, scoreOfScored, config.SolverConfig{BeamWidth: 2, ForkWidth: 2, MaxIterations: 2}, func(*State[string, scored]) {})

	s1 := &State[string, scored]{Elements: []StateElement[string, scored]{{ElementID: "a", Value: scored{9}, Index: 0}}}
	s2 := &State[string, scored]{Elements: []StateElement[string, scored]{{ElementID: "a", Value: scored{5}, Index: 1}}}

	assert.NotEqual(t, bm.key(s1), bm.key(s2))
}

func TestBeamManager_Fork_SkipsElementsAtLastIndex(t *testing.T) {
	valuesMap := map[string][]scored{"a": sortedCandidates(9)}
	bm := NewBeamManager[string, scored]([]string{"a"}, valuesMap, scoreOfScored, config.SolverConfig{BeamWidth: 2, ForkWidth: 2, MaxIterations: 2}, func(*State[string, scored]) {})

	state := &State[string, scored]{Elements: []StateElement[string, scored]{{ElementID: "a", Value: scored{9}, Index: 0}}}
	children := bm.fork(state)
	assert.Empty(t, children, "the only candidate is already at its last index")
}

func TestState_Clone_IsIndependent(t *testing.T) {
	state := &State[string, scored]{
		Elements: []StateElement[string, scored]{{ElementID: "a", Value: scored{1}, Index: 0}},
		Score:    1.5,
		IsValid:  true,
	}
	clone := state.Clone()
	clone.Elements[0].Index = 9
	assert.Equal(t, 0, state.Elements[0].Index, "cloning must copy the element slice")
	assert.Equal(t, state.Score, clone.Score)
}

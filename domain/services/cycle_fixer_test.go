package services

import (
	"testing"

	"depconstraints/domain/core/aggregates"
	"depconstraints/domain/core/valueobjects"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCycleFixer_Fix_NoCyclesReturnsClone(t *testing.T) {
	tree := aggregates.NewDependencyTree([]valueobjects.TokenID{1, 2})
	tree.SetArc(1, nil, "root", valueobjects.Score(1))
	gov := valueobjects.TokenID(1)
	tree.SetArc(2, &gov, "nsubj", valueobjects.Score(0.9))

	fixer := NewCycleFixer()
	fixed := fixer.Fix(tree, nil)

	arc, ok := fixed.Arc(2)
	require.True(t, ok)
	assert.Equal(t, valueobjects.TokenID(1), *arc.Governor)
	_, hasCycle := fixed.DetectCycle()
	assert.False(t, hasCycle)
}

func TestCycleFixer_Fix_BreaksTwoNodeCycle(t *testing.T) {
	// 1 <-> 2 form a cycle; 3 is a direct element that can absorb the break.
	tree := aggregates.NewDependencyTree([]valueobjects.TokenID{1, 2, 3})
	g2 := valueobjects.TokenID(2)
	g1 := valueobjects.TokenID(1)
	tree.SetArc(1, &g2, "dep", valueobjects.Score(0.3)) // lowest-scoring arc in the cycle
	tree.SetArc(2, &g1, "dep", valueobjects.Score(0.9))
	tree.SetArc(3, nil, "root", valueobjects.Score(1))

	arcScores := map[valueobjects.TokenID]map[valueobjects.TokenID]valueobjects.Score{
		1: {3: valueobjects.Score(0.6)},
	}

	fixer := NewCycleFixer()
	fixed := fixer.Fix(tree, arcScores)

	_, hasCycle := fixed.DetectCycle()
	assert.False(t, hasCycle)

	arc, ok := fixed.Arc(1)
	require.True(t, ok)
	require.NotNil(t, arc.Governor)
	assert.Equal(t, valueobjects.TokenID(3), *arc.Governor)
	assert.Equal(t, valueobjects.Score(0.6), arc.Score)
}

func TestCycleFixer_Fix_LeavesUngovernedWhenNoReattachmentExists(t *testing.T) {
	tree := aggregates.NewDependencyTree([]valueobjects.TokenID{1, 2})
	g2 := valueobjects.TokenID(2)
	g1 := valueobjects.TokenID(1)
	tree.SetArc(1, &g2, "dep", valueobjects.Score(0.3))
	tree.SetArc(2, &g1, "dep", valueobjects.Score(0.9))

	fixer := NewCycleFixer()
	fixed := fixer.Fix(tree, nil) // no direct elements and no arc scores at all

	arc, ok := fixed.Arc(1)
	require.True(t, ok)
	assert.False(t, arc.HasGovernor(), "dependent is left ungoverned when no valid reattachment exists")
}

func TestCycleFixer_Fix_DoesNotMutateInputTree(t *testing.T) {
	tree := aggregates.NewDependencyTree([]valueobjects.TokenID{1, 2})
	g2 := valueobjects.TokenID(2)
	g1 := valueobjects.TokenID(1)
	tree.SetArc(1, &g2, "dep", valueobjects.Score(0.3))
	tree.SetArc(2, &g1, "dep", valueobjects.Score(0.9))

	fixer := NewCycleFixer()
	_ = fixer.Fix(tree, map[valueobjects.TokenID]map[valueobjects.TokenID]valueobjects.Score{})

	_, hasCycle := tree.DetectCycle()
	assert.True(t, hasCycle, "Fix must operate on a clone, leaving the caller's tree untouched")
}

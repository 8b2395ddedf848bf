package valueobjects

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewMorphology(t *testing.T) {
	comp := MorphologyComponent{Lemma: "run", POS: NewPOS("VERB")}

	t.Run("rejects empty component list", func(t *testing.T) {
		_, err := NewMorphology(nil, Score(0.5))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "at least one component")
	})

	t.Run("builds from a copy of the input slice", func(t *testing.T) {
		components := []MorphologyComponent{comp}
		m, err := NewMorphology(components, Score(0.9))
		require.NoError(t, err)
		assert.Equal(t, components, m.Components)

		components[0].Lemma = "mutated"
		assert.Equal(t, "run", m.Components[0].Lemma)
	})
}

func TestMorphology_IsSingle(t *testing.T) {
	single, err := NewMorphology([]MorphologyComponent{{Lemma: "dog", POS: NewPOS("NOUN")}}, Score(1))
	require.NoError(t, err)
	assert.True(t, single.IsSingle())
	assert.Equal(t, 1, single.Len())

	multi, err := NewMorphology([]MorphologyComponent{
		{Lemma: "New", POS: NewPOS("PROPN")},
		{Lemma: "York", POS: NewPOS("PROPN")},
	}, Score(1))
	require.NoError(t, err)
	assert.False(t, multi.IsSingle())
	assert.Equal(t, 2, multi.Len())
}

func TestMorphology_BasePOS(t *testing.T) {
	m, err := NewMorphology([]MorphologyComponent{{Lemma: "dog", POS: NewSubPOS("NOUN", "common")}}, Score(1))
	require.NoError(t, err)
	assert.Equal(t, "NOUN", m.BasePOS())

	var zero Morphology
	assert.Equal(t, "", zero.BasePOS())
}

func TestMorphology_WithScore(t *testing.T) {
	m, err := NewMorphology([]MorphologyComponent{{Lemma: "dog", POS: NewPOS("NOUN")}}, Score(0.5))
	require.NoError(t, err)

	rescored := m.WithScore(Score(0.9))
	assert.Equal(t, Score(0.9), rescored.Score)
	assert.Equal(t, Score(0.5), m.Score, "original morphology score must be unchanged")
	assert.Equal(t, m.Components, rescored.Components)
}

func TestMorphologyComponent_Property(t *testing.T) {
	c := MorphologyComponent{
		Lemma:      "dogs",
		POS:        NewPOS("NOUN"),
		Properties: map[string]string{"number": "plural"},
	}

	assert.True(t, c.HasProperty("number"))
	assert.False(t, c.HasProperty("gender"))

	v, ok := c.Property("number")
	assert.True(t, ok)
	assert.Equal(t, "plural", v)

	_, ok = c.Property("gender")
	assert.False(t, ok)
}

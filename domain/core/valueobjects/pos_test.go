package valueobjects

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewPOS(t *testing.T) {
	p := NewPOS("NOUN")
	assert.Equal(t, "NOUN", p.Base())
	assert.Empty(t, p.Subtype())
	assert.False(t, p.HasSubtype())
}

func TestNewSubPOS(t *testing.T) {
	p := NewSubPOS("PRON", "demonstrative")
	assert.Equal(t, "PRON", p.Base())
	assert.Equal(t, "demonstrative", p.Subtype())
	assert.True(t, p.HasSubtype())
}

func TestPOS_AgreesWith(t *testing.T) {
	tests := []struct {
		name     string
		a, b     POS
		expected bool
	}{
		{name: "same base, no subtypes", a: NewPOS("NOUN"), b: NewPOS("NOUN"), expected: true},
		{name: "different base", a: NewPOS("NOUN"), b: NewPOS("VERB"), expected: false},
		{name: "matching subtypes", a: NewSubPOS("PRON", "demonstrative"), b: NewSubPOS("PRON", "demonstrative"), expected: true},
		{name: "mismatched subtypes", a: NewSubPOS("PRON", "demonstrative"), b: NewSubPOS("PRON", "possessive"), expected: false},
		{name: "one side unspecified subtype agrees", a: NewSubPOS("PRON", "demonstrative"), b: NewPOS("PRON"), expected: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.a.AgreesWith(tt.b))
		})
	}
}

func TestPOS_IsZero(t *testing.T) {
	assert.True(t, POS{}.IsZero())
	assert.False(t, NewPOS("NOUN").IsZero())
}

func TestPOS_String(t *testing.T) {
	assert.Equal(t, "NOUN", NewPOS("NOUN").String())
	assert.Equal(t, "PRON/demonstrative", NewSubPOS("PRON", "demonstrative").String())
}

func TestPOS_IsContentWord(t *testing.T) {
	tests := []struct {
		name     string
		pos      POS
		expected bool
	}{
		{name: "noun is content word", pos: NewPOS("NOUN"), expected: true},
		{name: "verb is content word", pos: NewPOS("VERB"), expected: true},
		{name: "determiner is not content word", pos: NewPOS("DET"), expected: false},
		{name: "conjunction is not content word", pos: NewPOS("CCONJ"), expected: false},
		{name: "zero value is not content word", pos: POS{}, expected: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.pos.IsContentWord())
		})
	}
}

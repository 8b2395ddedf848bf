package valueobjects

import (
	pkgerrors "depconstraints/pkg/errors"
)

// Span is a value object locating a token within its sentence: the
// sentence's index in a document and the token's character offsets within
// that sentence.
type Span struct {
	sentenceIndex int
	start int
	end int
}

// NewSpan creates a Span with validation.
func NewSpan(sentenceIndex, start, end int) (Span, error) {
	if sentenceIndex < 0 {
		return Span{}, pkgerrors.NewValidationError("sentence index must be non-negative")
	}
	if start < 0 || end < start {
		return Span{}, pkgerrors.NewValidationError("invalid character span: start/end out of order")
	}
	return Span{sentenceIndex: sentenceIndex, start: start, end: end}, nil
}

// SentenceIndex returns the index of the sentence within its document.
func (s Span) SentenceIndex() int {
	return s.sentenceIndex
}

// Start returns the character offset where the token begins.
func (s Span) Start() int {
	return s.start
}

// End returns the character offset where the token ends.
func (s Span) End() int {
	return s.end
}

// Len returns the span's character length.
func (s Span) Len() int {
	return s.end - s.start
}

// Equals reports whether two spans denote the same position.
func (s Span) Equals(other Span) bool {
	return s.sentenceIndex == other.sentenceIndex && s.start == other.start && s.end == other.end
}

// Overlaps reports whether two spans in the same sentence share any
// character offset; spans in different sentences never overlap.
func (s Span) Overlaps(other Span) bool {
	if s.sentenceIndex != other.sentenceIndex {
		return false
	}
	return s.start < other.end && other.start < s.end
}

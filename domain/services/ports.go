package services

import (
	"depconstraints/domain/core/aggregates"
	"depconstraints/domain/core/valueobjects"
)

// MorphologyPercolator is a pluggable external capability: a pure function
// deriving plausible context-morphology overlays from a sentence's tree
// topology. No ordering guarantees on the result are required.
type MorphologyPercolator interface {
	Percolate(sentence *aggregates.Sentence, tree *aggregates.DependencyTree) []ContextAssignment
}

// ContextAssignment is one candidate context-morphology overlay for a
// single token, as produced by a MorphologyPercolator.
type ContextAssignment struct {
	TokenID valueobjects.TokenID
	Context valueobjects.Morphology
}

// ScoredConfiguration pairs a grammatical configuration with its external
// score, sorted by descending score per token.
type ScoredConfiguration struct {
	Configuration valueobjects.Configuration
	Score valueobjects.Score
}

// LabelerSelector is a pluggable external capability: it filters
// candidate configurations/morphologies down to the ones compatible
// with an attachment, synthesizing a best-effort fallback when none
// survive.
type LabelerSelector interface {
	// ValidConfigurations filters configurations to those whose direction
	// matches the attachment and that are compatible with some candidate
	// morphology, falling back to single-content-word configurations, and
	// finally to a synthesized "unknown-noun" configuration.
	ValidConfigurations(configurations []ScoredConfiguration, sentence *aggregates.Sentence, tokenIndex, headIndex int) []ScoredConfiguration

	// ValidMorphologies intersects a token's candidate morphologies with
	// configuration compatibility, synthesizing a single generic morphology
	// when the configuration is single with a content-word POS and nothing
	// else survives.
	ValidMorphologies(sentence *aggregates.Sentence, tokenIndex int, config valueobjects.Configuration) []valueobjects.Morphology
}

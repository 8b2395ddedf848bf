package services

import (
	"depconstraints/domain/core/aggregates"
	"depconstraints/domain/core/valueobjects"
)

// DefaultLabelerSelector implements LabelerSelector with a deterministic
// filtering/fallback algorithm. Unlike the arc/configuration scorers
// (application/ports), this is not an opaque scoring model — it is a
// pluggable collaborator whose logic is fully deterministic, so it is
// implemented here rather than left for a caller to supply.
type DefaultLabelerSelector struct{}

// NewDefaultLabelerSelector creates the default selector. It carries no
// state.
func NewDefaultLabelerSelector() *DefaultLabelerSelector {
	return &DefaultLabelerSelector{}
}

func tokenAtIndex(sentence *aggregates.Sentence, index int) (valueobjects.TokenID, bool) {
	order := sentence.Order()
	if index < 0 || index >= len(order) {
		return 0, false
	}
	return order[index], true
}

// ValidConfigurations filters configurations to those whose direction
// matches the attachment implied by tokenIndex/headIndex, keeps only those
// compatible with some candidate morphology of the token (falling back to
// single-content-word configurations when none match), and synthesizes an
// "unknown-noun" configuration with the worst observed score if the
// result would otherwise be empty.
func (s *DefaultLabelerSelector) ValidConfigurations(configurations []ScoredConfiguration, sentence *aggregates.Sentence, tokenIndex, headIndex int) []ScoredConfiguration {
	direction := valueobjects.DirectionOf(headIndex >= 0, tokenIndex, headIndex)

	var directional []ScoredConfiguration
	for _, sc := range configurations {
		if len(sc.Configuration.Components) == 0 {
			continue
		}
		if sc.Configuration.Components[0].Direction == direction {
			directional = append(directional, sc)
		}
	}

	var morphologies []valueobjects.Morphology
	if tokenID, ok := tokenAtIndex(sentence, tokenIndex); ok {
		if tok, ok := sentence.Token(tokenID); ok {
			morphologies = tok.AllMorphologies()
		}
	}

	var compatible []ScoredConfiguration
	for _, sc := range directional {
		for _, m := range morphologies {
			if sc.Configuration.CompatibleWith(m) {
				compatible = append(compatible, sc)
				break
			}
		}
	}
	if len(compatible) > 0 {
		return compatible
	}

	var fallback []ScoredConfiguration
	for _, sc := range directional {
		if !sc.Configuration.IsSingle() {
			continue
		}
		if sc.Configuration.Components[0].POS.IsContentWord() {
			fallback = append(fallback, sc)
		}
	}
	if len(fallback) > 0 {
		return fallback
	}

	worst := valueobjects.Score(1)
	found := false
	for _, sc := range configurations {
		if !found || sc.Score.Float64() < worst.Float64() {
			worst = sc.Score
			found = true
		}
	}
	if !found {
		worst = valueobjects.Score(0)
	}

	unknownNoun := valueobjects.Configuration{
		Components: []valueobjects.ConfigComponent{{
			POS: valueobjects.NewPOS("NOUN"),
			Label: valueobjects.UnknownLabel,
			Direction: direction,
		}},
		Score: worst,
	}
	return []ScoredConfiguration{{Configuration: unknownNoun, Score: worst}}
}

// ValidMorphologies intersects a token's candidate morphologies with
// config's compatibility requirement; when empty and config is single
// with a content-word POS, synthesizes one generic morphology using the
// token's form as lemma; otherwise returns empty.
func (s *DefaultLabelerSelector) ValidMorphologies(sentence *aggregates.Sentence, tokenIndex int, config valueobjects.Configuration) []valueobjects.Morphology {
	tokenID, ok := tokenAtIndex(sentence, tokenIndex)
	if !ok {
		return nil
	}
	tok, ok := sentence.Token(tokenID)
	if !ok {
		return nil
	}

	var compatible []valueobjects.Morphology
	for _, m := range tok.AllMorphologies() {
		if config.CompatibleWith(m) {
			compatible = append(compatible, m)
		}
	}
	if len(compatible) > 0 {
		return compatible
	}

	if !config.IsSingle() || len(config.Components) == 0 {
		return nil
	}
	comp := config.Components[0]
	if !comp.POS.IsContentWord() {
		return nil
	}

	synthesized, err := valueobjects.NewMorphology([]valueobjects.MorphologyComponent{{
		Lemma: tok.Form(),
		POS: comp.POS,
	}}, valueobjects.Score(0))
	if err != nil {
		return nil
	}
	return []valueobjects.Morphology{synthesized}
}

// Package adapters provides request-scoped implementations of
// application/ports collaborators that do not call out to anything: they
// simply echo data the HTTP caller already supplied. The /v1/sentences/solve
// request body carries the scored arc matrix and scored configuration
// candidates directly (— this repository never scores arcs or
// labels itself), so each request builds one of these, feeds it through
// application/services.ParserService exactly like a real remote scorer, and
// discards it. Grounded on this codebase's application/ports fakes used in
// edge_service_test.go (a stub satisfying the port, no network call).
package adapters

import (
	"context"

	"depconstraints/domain/core/aggregates"
	"depconstraints/domain/core/valueobjects"
	"depconstraints/domain/services"
	pkgerrors "depconstraints/pkg/errors"
)

// StaticArcScorer implements application/ports.ArcScorer by returning a
// fixed, request-supplied scored arc matrix.
type StaticArcScorer struct {
	scores map[valueobjects.TokenID]map[valueobjects.TokenID]valueobjects.Score
}

// NewStaticArcScorer wraps a pre-computed scored arc matrix as an ArcScorer.
func NewStaticArcScorer(scores map[valueobjects.TokenID]map[valueobjects.TokenID]valueobjects.Score) *StaticArcScorer {
	return &StaticArcScorer{scores: scores}
}

// ScoreArcs ignores ctx and sentence and returns the matrix supplied at
// construction, erroring if the caller gave nothing to return.
func (s *StaticArcScorer) ScoreArcs(_ context.Context, _ *aggregates.Sentence) (map[valueobjects.TokenID]map[valueobjects.TokenID]valueobjects.Score, error) {
	if len(s.scores) == 0 {
		return nil, pkgerrors.NewValidationError("solve request did not include a scored arc matrix")
	}
	return s.scores, nil
}

// StaticConfigurationScorer implements application/ports.ConfigurationScorer
// by returning fixed, request-supplied scored configuration candidates.
type StaticConfigurationScorer struct {
	configurations map[valueobjects.TokenID][]services.ScoredConfiguration
}

// NewStaticConfigurationScorer wraps pre-computed scored configuration
// candidates as a ConfigurationScorer.
func NewStaticConfigurationScorer(configurations map[valueobjects.TokenID][]services.ScoredConfiguration) *StaticConfigurationScorer {
	return &StaticConfigurationScorer{configurations: configurations}
}

// ScoreConfigurations ignores ctx and sentence and returns the candidates
// supplied at construction.
func (s *StaticConfigurationScorer) ScoreConfigurations(_ context.Context, _ *aggregates.Sentence) (map[valueobjects.TokenID][]services.ScoredConfiguration, error) {
	if len(s.configurations) == 0 {
		return nil, pkgerrors.NewValidationError("solve request did not include scored configuration candidates")
	}
	return s.configurations, nil
}

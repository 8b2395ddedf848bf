// Package ports defines the external collaborators the parser service
// depends on but never implements (non-goals: scoring arcs or
// labels, embeddings, percolation). Grounded on this codebase's
// application/ports/repositories.go — context-scoped interfaces the
// application layer depends on, owned by the consuming layer rather than
// by whatever eventually implements them.
package ports

import (
	"context"

	"depconstraints/domain/core/aggregates"
	"depconstraints/domain/core/valueobjects"
	"depconstraints/domain/services"
)

// ArcScorer produces the per-dependent governor-score matrix for a
// sentence — the external encoder output calls the "scored arc
// matrix". Never implemented by this repository; production wiring
// circuit-breaks a remote caller, tests supply a fake.
type ArcScorer interface {
	ScoreArcs(ctx context.Context, sentence *aggregates.Sentence) (map[valueobjects.TokenID]map[valueobjects.TokenID]valueobjects.Score, error)
}

// ConfigurationScorer produces per-token scored grammatical-configuration
// candidates, sorted by descending score — "scored
// grammatical configurations" external input, consumed by the labels
// solver after LabelerSelector filters it.
type ConfigurationScorer interface {
	ScoreConfigurations(ctx context.Context, sentence *aggregates.Sentence) (map[valueobjects.TokenID][]services.ScoredConfiguration, error)
}

// MorphologyPercolator is the context-aware, network-boundary counterpart
// of domain/services.MorphologyPercolator ("a pure function
// (tokens, tree) -> list<contextMorphologyAssignment>; no ordering
// guarantees required"). ParserService wraps it in a circuit breaker and
// adapts its result to the domain-level interface the sentence validator
// consumes.
type MorphologyPercolator interface {
	Percolate(ctx context.Context, sentence *aggregates.Sentence, tree *aggregates.DependencyTree) ([]services.ContextAssignment, error)
}

// CatalogueRepository persists and retrieves named constraint catalogues
// (catalogue records are data; this is the storage port for
// them), grounded on this codebase's application/ports/operation_store.go
// shape (context-scoped CRUD over a small aggregate).
type CatalogueRepository interface {
	Save(ctx context.Context, id string, catalogue []RawConstraintRecord) error
	Load(ctx context.Context, id string) ([]RawConstraintRecord, error)
	Delete(ctx context.Context, id string) error
}

// RawConstraintRecord is the wire/storage shape of one catalogue record,
// mirroring domain/services.RawConstraint but with Premise/Condition kept
// as plain JSON-friendly maps for marshalling.
type RawConstraintRecord struct {
	Description string
	Penalty *float64
	Boost *float64
	Premise map[string]any
	Condition map[string]any
}

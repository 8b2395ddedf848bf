// Package memory provides an in-process CatalogueRepository, the default
// backend and the one tests run against. Grounded on this codebase's
// infrastructure/persistence/memory/operation_store.go: a mutex-guarded map
// keyed by id, retargeted from operation results to constraint catalogues.
package memory

import (
	"context"
	"sync"

	"depconstraints/application/ports"
	pkgerrors "depconstraints/pkg/errors"
)

// CatalogueRepository is a map-backed application/ports.CatalogueRepository.
type CatalogueRepository struct {
	mu sync.RWMutex
	catalogues map[string][]ports.RawConstraintRecord
}

// NewCatalogueRepository creates an empty repository.
func NewCatalogueRepository() *CatalogueRepository {
	return &CatalogueRepository{
		catalogues: make(map[string][]ports.RawConstraintRecord),
	}
}

// Save stores (replacing any existing record set under the same id) a
// catalogue's raw constraint records.
func (r *CatalogueRepository) Save(ctx context.Context, id string, catalogue []ports.RawConstraintRecord) error {
	if id == "" {
		return pkgerrors.NewValidationError("catalogue id is required")
	}

	stored := make([]ports.RawConstraintRecord, len(catalogue))
	copy(stored, catalogue)

	r.mu.Lock()
	defer r.mu.Unlock()
	r.catalogues[id] = stored
	return nil
}

// Load retrieves a catalogue's raw constraint records by id.
func (r *CatalogueRepository) Load(ctx context.Context, id string) ([]ports.RawConstraintRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	records, ok := r.catalogues[id]
	if !ok {
		return nil, pkgerrors.NewNotFoundError("catalogue " + id)
	}

	out := make([]ports.RawConstraintRecord, len(records))
	copy(out, records)
	return out, nil
}

// Delete removes a catalogue by id; deleting an id that does not exist is a
// no-op, consistent with this codebase's idempotent Delete.
func (r *CatalogueRepository) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.catalogues, id)
	return nil
}

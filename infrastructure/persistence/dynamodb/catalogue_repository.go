// Package dynamodb provides the DynamoDB-backed CatalogueRepository,
// specializing this codebase's generic-repository idiom
// (infrastructure/persistence/dynamodb/generic_repository.go:
// EntityConfig[T] + GenericRepository[T]) to catalogue records instead of
// this codebase's graph nodes/edges.
package dynamodb

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"go.uber.org/zap"

	"depconstraints/application/ports"
	pkgerrors "depconstraints/pkg/errors"
)

// CatalogueRepository is an application/ports.CatalogueRepository backed by
// a single DynamoDB table, via this codebase's GenericRepository[T].
type CatalogueRepository struct {
	generic *GenericRepository[*CatalogueEntity]
}

// NewCatalogueRepository wires a GenericRepository specialized to
// *CatalogueEntity over the given table.
func NewCatalogueRepository(client *dynamodb.Client, tableName string, logger *zap.Logger) *CatalogueRepository {
	return &CatalogueRepository{
		generic: NewGenericRepository[*CatalogueEntity](client, tableName, "", catalogueEntityConfig{}, logger),
	}
}

// Save upserts a catalogue's raw constraint records, reading the current
// version first (if any) so the generic repository's optimistic-lock
// condition targets the right version rather than always attempting a
// fresh create.
func (r *CatalogueRepository) Save(ctx context.Context, id string, catalogue []ports.RawConstraintRecord) error {
	version := 1
	if existing, err := r.generic.GetByID(ctx, catalogueTenant, id); err == nil {
		version = existing.Version + 1
	}
	return r.generic.Save(ctx, &CatalogueEntity{ID: id, Version: version, Records: catalogue})
}

// Load retrieves a catalogue's raw constraint records by id.
func (r *CatalogueRepository) Load(ctx context.Context, id string) ([]ports.RawConstraintRecord, error) {
	entity, err := r.generic.GetByID(ctx, catalogueTenant, id)
	if err != nil {
		return nil, pkgerrors.NewNotFoundError("catalogue " + id)
	}
	return entity.Records, nil
}

// Delete removes a catalogue by id.
func (r *CatalogueRepository) Delete(ctx context.Context, id string) error {
	return r.generic.Delete(ctx, catalogueTenant, id)
}

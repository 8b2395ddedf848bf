package dynamodb

import (
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"depconstraints/application/ports"
)

// catalogueTenant is the single-tenant partition this service stores
// catalogues under — constraint catalogues are not user-scoped, but the
// teacher's GenericRepository keys every item by (userID, entityID), so a
// fixed tenant value keeps that key shape without inventing a second one.
const catalogueTenant = "global"

// CatalogueEntity is the DynamoDB-facing form of a constraint catalogue: an
// id, an optimistic-lock version, and its raw constraint records serialized
// as a single JSON blob attribute.
type CatalogueEntity struct {
	ID string
	Version int
	Records []ports.RawConstraintRecord
}

func (e *CatalogueEntity) GetID() string { return e.ID }
func (e *CatalogueEntity) GetUserID() string { return catalogueTenant }
func (e *CatalogueEntity) GetVersion() int { return e.Version }

// catalogueEntityConfig implements EntityConfig[*CatalogueEntity], the
// entity-specific behavior this codebase's GenericRepository[T] delegates to.
type catalogueEntityConfig struct{}

func (catalogueEntityConfig) GetEntityType() string { return "CATALOGUE" }

func (catalogueEntityConfig) BuildKey(userID, entityID string) map[string]types.AttributeValue {
	return map[string]types.AttributeValue{
		"PK": &types.AttributeValueMemberS{Value: "USER#" + userID},
		"SK": &types.AttributeValueMemberS{Value: "CATALOGUE#" + entityID},
	}
}

func (c catalogueEntityConfig) ToItem(entity *CatalogueEntity) (map[string]types.AttributeValue, error) {
	payload, err := json.Marshal(entity.Records)
	if err != nil {
		return nil, fmt.Errorf("failed to encode catalogue records: %w", err)
	}

	item := c.BuildKey(catalogueTenant, entity.ID)
	item["EntityType"] = &types.AttributeValueMemberS{Value: c.GetEntityType()}
	item["CatalogueID"] = &types.AttributeValueMemberS{Value: entity.ID}
	item["Version"] = &types.AttributeValueMemberN{Value: strconv.Itoa(entity.Version)}
	item["Records"] = &types.AttributeValueMemberS{Value: string(payload)}
	return item, nil
}

func (catalogueEntityConfig) ParseItem(item map[string]types.AttributeValue) (*CatalogueEntity, error) {
	idAttr, ok := item["CatalogueID"].(*types.AttributeValueMemberS)
	if !ok {
		return nil, fmt.Errorf("item missing CatalogueID attribute")
	}

	version := 1
	if versionAttr, ok := item["Version"].(*types.AttributeValueMemberN); ok {
		if v, err := strconv.Atoi(versionAttr.Value); err == nil {
			version = v
		}
	}

	recordsAttr, ok := item["Records"].(*types.AttributeValueMemberS)
	if !ok {
		return nil, fmt.Errorf("item missing Records attribute")
	}
	var records []ports.RawConstraintRecord
	if err := json.Unmarshal([]byte(recordsAttr.Value), &records); err != nil {
		return nil, fmt.Errorf("failed to decode catalogue records: %w", err)
	}

	return &CatalogueEntity{ID: idAttr.Value, Version: version, Records: records}, nil
}

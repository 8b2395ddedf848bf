package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	pkgerrors "depconstraints/pkg/errors"
)

func floatPtr(f float64) *float64 { return &f }

func validRawConstraint() RawConstraint {
	return RawConstraint{
		Description: "noun-only",
		Penalty: floatPtr(0),
		Boost: floatPtr(1),
		Premise: map[string]any{"pos": "NOUN"},
		Condition: map[string]any{"hasGovernor": true},
	}
}

func TestCatalogueValidator_Validate_AcceptsWellFormedRecord(t *testing.T) {
	v := NewCatalogueValidator()
	assert.NoError(t, v.Validate(validRawConstraint()))
}

func TestCatalogueValidator_Validate_MissingDescription(t *testing.T) {
	raw := validRawConstraint()
	raw.Description = ""

	v := NewCatalogueValidator()
	err := v.Validate(raw)
	require.Error(t, err)
	assert.True(t, pkgerrors.IsSchema(err))
	assert.Contains(t, err.Error(), "description")
}

func TestCatalogueValidator_Validate_MissingPremise(t *testing.T) {
	raw := validRawConstraint()
	raw.Premise = nil

	v := NewCatalogueValidator()
	err := v.Validate(raw)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "premise")
}

func TestCatalogueValidator_Validate_MissingCondition(t *testing.T) {
	raw := validRawConstraint()
	raw.Condition = nil

	v := NewCatalogueValidator()
	err := v.Validate(raw)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "condition")
}

func TestCatalogueValidator_Validate_RejectsNoOpPenaltyAndBoost(t *testing.T) {
	raw := validRawConstraint()
	raw.Penalty = floatPtr(1)
	raw.Boost = floatPtr(1)

	v := NewCatalogueValidator()
	err := v.Validate(raw)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "never alter a score")
}

func TestCatalogueValidator_Validate_DefaultsCountAsPenaltyOneBoostOne(t *testing.T) {
	raw := validRawConstraint()
	raw.Penalty = nil
	raw.Boost = nil

	v := NewCatalogueValidator()
	err := v.Validate(raw)
	require.Error(t, err, "unset penalty/boost default to the same no-op values")
}

func TestCatalogueValidator_Validate_RejectsForbiddenBinaryField(t *testing.T) {
	raw := validRawConstraint()
	raw.Premise = map[string]any{
		"dependent": map[string]any{"pos": "NOUN"},
		"extra": "not allowed",
	}

	v := NewCatalogueValidator()
	err := v.Validate(raw)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "dependent")
}

func TestCatalogueValidator_ValidateAll_CollectsEveryViolation(t *testing.T) {
	badDescription := validRawConstraint()
	badDescription.Description = ""
	badPremise := validRawConstraint()
	badPremise.Premise = nil
	good := validRawConstraint()

	v := NewCatalogueValidator()
	errs := v.ValidateAll([]RawConstraint{badDescription, good, badPremise})
	require.Len(t, errs, 2, "the well-formed record in the middle does not stop collection")
}

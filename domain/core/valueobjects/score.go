package valueobjects

import (
	"math"

	pkgerrors "depconstraints/pkg/errors"
)

// Score is a value in [0,1]: a morphology candidate score, an attachment
// score, a constraint penalty, or a constraint boost's reciprocal.
type Score float64

// NewScore validates that v is a finite number in [0,1].
func NewScore(v float64) (Score, error) {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, pkgerrors.NewValidationError("score must be a finite number")
	}
	if v < 0 || v > 1 {
		return 0, pkgerrors.NewValidationError("score must be in [0,1]")
	}
	return Score(v), nil
}

// Clamp forces v into [0,1], used when composing scores (e.g. products of
// penalties) that could drift outside range due to floating point error.
func Clamp(v float64) Score {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return Score(v)
}

// Float64 returns the underlying float64.
func (s Score) Float64() float64 {
	return float64(s)
}

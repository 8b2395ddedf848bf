package valueobjects

import (
	pkgerrors "depconstraints/pkg/errors"
)

// Direction classifies a syntactic dependency's direction relative to its
// governor.
type Direction string

const (
	DirectionRoot Direction = "root"
	DirectionLeft Direction = "left"
	DirectionRight Direction = "right"
)

// ConfigComponent pairs a POS tag with a syntactic dependency for one
// position of a grammatical configuration.
type ConfigComponent struct {
	POS POS
	Label string
	Direction Direction
}

// UnknownLabel is installed on a configuration component when the labels
// solver falls back to a best-effort, explicitly underspecified result.
const UnknownLabel = "UNKNOWN"

// IsUnknown reports whether this component is the "unknown" stand-in:
// same direction, label UNKNOWN, no POS.
func (c ConfigComponent) IsUnknown() bool {
	return c.Label == UnknownLabel && c.POS.IsZero()
}

// Configuration is an ordered, non-empty sequence of components.
type Configuration struct {
	Components []ConfigComponent
	Score Score
}

// NewConfiguration validates and constructs a Configuration.
func NewConfiguration(components []ConfigComponent, score Score) (Configuration, error) {
	if len(components) == 0 {
		return Configuration{}, pkgerrors.NewValidationError("configuration must have at least one component")
	}
	cp := make([]ConfigComponent, len(components))
	copy(cp, components)
	return Configuration{Components: cp, Score: score}, nil
}

// IsSingle reports whether this configuration has exactly one component.
func (c Configuration) IsSingle() bool {
	return len(c.Components) == 1
}

// UnknownStandIn builds the "unknown" replacement configuration for an
// element whose value was marked invalid when no valid state exists:
// same direction as the original per component, label UNKNOWN, no POS.
func (c Configuration) UnknownStandIn() Configuration {
	replaced := make([]ConfigComponent, len(c.Components))
	for i, comp := range c.Components {
		replaced[i] = ConfigComponent{Direction: comp.Direction, Label: UnknownLabel}
	}
	return Configuration{Components: replaced, Score: c.Score}
}

// CompatibleWith reports full compatibility with a morphology: equal
// component counts and POS-subtype agreement pairwise.
func (c Configuration) CompatibleWith(m Morphology) bool {
	if len(c.Components) != len(m.Components) {
		return false
	}
	for i, comp := range c.Components {
		if !comp.POS.AgreesWith(m.Components[i].POS) {
			return false
		}
	}
	return true
}

// PartiallyCompatibleWith reports partial compatibility:
// only the "continuation" components of a multi-word agree, i.e. every
// component past the first. Only meaningful when component counts match;
// a single-component configuration cannot be "partially" compatible since
// it has no continuation components to check in isolation.
func (c Configuration) PartiallyCompatibleWith(m Morphology) bool {
	if len(c.Components) != len(m.Components) || len(c.Components) < 2 {
		return false
	}
	for i := 1; i < len(c.Components); i++ {
		if !c.Components[i].POS.AgreesWith(m.Components[i].POS) {
			return false
		}
	}
	return true
}

// DirectionOf derives the direction implied by an attachment: root if the
// token has no governor, left if the dependent precedes its governor in
// sentence order, right otherwise.
func DirectionOf(hasGovernor bool, dependentIndex, governorIndex int) Direction {
	if !hasGovernor {
		return DirectionRoot
	}
	if dependentIndex < governorIndex {
		return DirectionLeft
	}
	return DirectionRight
}

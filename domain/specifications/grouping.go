package specifications

// GroupName identifies one of the six disjoint constraint groups derived
// from a catalogue, in validator filter order.
type GroupName string

const (
	GroupSimple GroupName = "simple"
	GroupBaseMorphoUnary GroupName = "baseMorphoUnary"
	GroupBaseMorphoBinary GroupName = "baseMorphoBinary"
	GroupBaseMorphoOthers GroupName = "baseMorphoOthers"
	GroupMorphoPropertiesSimple GroupName = "morphoPropertiesSimple"
	GroupMorphoPropertiesContext GroupName = "morphoPropertiesContext"
)

// Order lists the six groups in the filter order the sentence validator
// must apply them.
var Order = []GroupName{
	GroupSimple,
	GroupBaseMorphoUnary,
	GroupBaseMorphoBinary,
	GroupBaseMorphoOthers,
	GroupMorphoPropertiesSimple,
	GroupMorphoPropertiesContext,
}

// Groups is a catalogue partitioned into its six disjoint shares. The
// groups are configuration, not control flow — SentenceValidator merely walks Order and
// reads the matching field.
type Groups struct {
	Simple []Constraint
	BaseMorphoUnary []Constraint
	BaseMorphoBinary []Constraint
	BaseMorphoOthers []Constraint
	MorphoPropertiesSimple []Constraint
	MorphoPropertiesContext []Constraint
}

// Of returns the slice for a given group name.
func (g Groups) Of(name GroupName) []Constraint {
	switch name {
	case GroupSimple:
		return g.Simple
	case GroupBaseMorphoUnary:
		return g.BaseMorphoUnary
	case GroupBaseMorphoBinary:
		return g.BaseMorphoBinary
	case GroupBaseMorphoOthers:
		return g.BaseMorphoOthers
	case GroupMorphoPropertiesSimple:
		return g.MorphoPropertiesSimple
	case GroupMorphoPropertiesContext:
		return g.MorphoPropertiesContext
	default:
		return nil
	}
}

// Size returns the total number of constraints across all six groups, used
// to check the partition property against the source catalogue size.
func (g Groups) Size() int {
	return len(g.Simple) + len(g.BaseMorphoUnary) + len(g.BaseMorphoBinary) +
		len(g.BaseMorphoOthers) + len(g.MorphoPropertiesSimple) + len(g.MorphoPropertiesContext)
}

// GroupCatalogue classifies every constraint in catalogue into exactly one
// of the six groups, filtered in this order:
//
// 1. simple — ¬checksMorpho
// 2. baseMorphoUnary — morpho, not property, unary
// 3. baseMorphoBinary — morpho, not property, binary
// 4. baseMorphoOthers — morpho, not property, neither unary nor binary
// 5. morphoPropertiesSimple — property, non-context
// 6. morphoPropertiesContext — property, context
func GroupCatalogue(catalogue []Constraint) Groups {
	var g Groups
	for _, c := range catalogue {
		switch {
		case !c.ChecksMorpho():
			g.Simple = append(g.Simple, c)
		case !c.ChecksMorphoProperties() && c.IsUnary():
			g.BaseMorphoUnary = append(g.BaseMorphoUnary, c)
		case !c.ChecksMorphoProperties() && c.IsBinary():
			g.BaseMorphoBinary = append(g.BaseMorphoBinary, c)
		case !c.ChecksMorphoProperties():
			g.BaseMorphoOthers = append(g.BaseMorphoOthers, c)
		case c.ChecksContext():
			g.MorphoPropertiesContext = append(g.MorphoPropertiesContext, c)
		default:
			g.MorphoPropertiesSimple = append(g.MorphoPropertiesSimple, c)
		}
	}
	return g
}

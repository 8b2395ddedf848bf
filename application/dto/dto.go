// Package dto holds the JSON wire shapes for the REST API — the entity
// model, flattened for transport — and the conversions to/from the rich
// domain types application.ParserService operates on. Grounded on this
// codebase's handler-level request structs (interfaces/http/rest/handlers,
// e.g. CreateNodeRequest) carrying validator/v10 tags and a ToCommand-style
// conversion method.
package dto

import (
	"strconv"

	"depconstraints/application/ports"
	"depconstraints/domain/core/aggregates"
	"depconstraints/domain/core/entities"
	"depconstraints/domain/core/valueobjects"
	"depconstraints/domain/services"
	"depconstraints/domain/specifications"
	pkgerrors "depconstraints/pkg/errors"
)

// MorphologyComponentDTO is the wire shape of one morphology component.
type MorphologyComponentDTO struct {
	Lemma string `json:"lemma" validate:"required"`
	POSBase string `json:"posBase" validate:"required"`
	POSSubtype string `json:"posSubtype,omitempty"`
	Properties map[string]string `json:"properties,omitempty"`
}

// MorphologyDTO is the wire shape of one scored morphology candidate.
type MorphologyDTO struct {
	Components []MorphologyComponentDTO `json:"components" validate:"required,min=1,dive"`
	Score float64 `json:"score" validate:"gte=0,lte=1"`
}

func (m MorphologyDTO) toDomain() (valueobjects.Morphology, error) {
	components := make([]valueobjects.MorphologyComponent, 0, len(m.Components))
	for _, c := range m.Components {
		pos := valueobjects.NewPOS(c.POSBase)
		if c.POSSubtype != "" {
			pos = valueobjects.NewSubPOS(c.POSBase, c.POSSubtype)
		}
		components = append(components, valueobjects.MorphologyComponent{
			Lemma: c.Lemma,
			POS: pos,
			Properties: c.Properties,
		})
	}
	score, err := valueobjects.NewScore(m.Score)
	if err != nil {
		return valueobjects.Morphology{}, err
	}
	return valueobjects.NewMorphology(components, score)
}

func fromMorphology(m valueobjects.Morphology) MorphologyDTO {
	components := make([]MorphologyComponentDTO, 0, len(m.Components))
	for _, c := range m.Components {
		components = append(components, MorphologyComponentDTO{
			Lemma: c.Lemma,
			POSBase: c.POS.Base(),
			POSSubtype: c.POS.Subtype(),
			Properties: c.Properties,
		})
	}
	return MorphologyDTO{Components: components, Score: m.Score.Float64()}
}

// TokenDTO is the wire shape of one token (Token entity,
// flattened for JSON transport).
type TokenDTO struct {
	ID int64 `json:"id"`
	Form string `json:"form" validate:"required"`
	SentenceIndex int `json:"sentenceIndex"`
	Start int `json:"start"`
	End int `json:"end"`
	Composite bool `json:"composite,omitempty"`
	ComponentIDs []int64 `json:"componentIds,omitempty"`
	Morphologies []MorphologyDTO `json:"morphologies,omitempty" validate:"dive"`
	Governor *int64 `json:"governor,omitempty"`
	Label string `json:"label,omitempty"`
	AttachmentScore float64 `json:"attachmentScore,omitempty"`
}

func (t TokenDTO) toDomain() (*entities.Token, error) {
	span, err := valueobjects.NewSpan(t.SentenceIndex, t.Start, t.End)
	if err != nil {
		return nil, err
	}
	id := valueobjects.TokenID(t.ID)

	var tok *entities.Token
	if t.Composite {
		componentIDs := make([]valueobjects.TokenID, 0, len(t.ComponentIDs))
		for _, c := range t.ComponentIDs {
			componentIDs = append(componentIDs, valueobjects.TokenID(c))
		}
		tok, err = entities.NewCompositeToken(id, t.Form, span, componentIDs)
		if err != nil {
			return nil, err
		}
		return tok, nil
	}

	morphologies := make([]valueobjects.Morphology, 0, len(t.Morphologies))
	for _, m := range t.Morphologies {
		morphology, err := m.toDomain()
		if err != nil {
			return nil, err
		}
		morphologies = append(morphologies, morphology)
	}
	tok, err = entities.NewToken(id, t.Form, span, morphologies)
	if err != nil {
		return nil, err
	}
	tok.SeedValidPosMorphologies()

	if t.Governor != nil {
		gov := valueobjects.TokenID(*t.Governor)
		score, err := valueobjects.NewScore(t.AttachmentScore)
		if err != nil {
			return nil, err
		}
		tok.SetRelation(&gov, t.Label, score)
	}
	return tok, nil
}

// SentenceDTO is the wire shape of a sentence submission.
type SentenceDTO struct {
	ID string `json:"id,omitempty"`
	Tokens []TokenDTO `json:"tokens" validate:"required,min=1,dive"`
}

// ToDomain builds a *aggregates.Sentence from the DTO under the given id;
// the DTO's own ID field is not read here.
func (s SentenceDTO) ToDomain(id string) (*aggregates.Sentence, error) {
	tokens := make([]*entities.Token, 0, len(s.Tokens))
	for _, t := range s.Tokens {
		tok, err := t.toDomain()
		if err != nil {
			return nil, err
		}
		tokens = append(tokens, tok)
	}
	return aggregates.NewSentence(valueobjects.SentenceID(id), tokens)
}

// ArcDTO is the wire shape of one dependency-tree arc.
type ArcDTO struct {
	Governor *int64 `json:"governor"`
	Label string `json:"label"`
	Score float64 `json:"score"`
}

// TreeDTO is the wire shape of a pre-built dependency tree, keyed by
// dependent token id (as a decimal string, since JSON object keys must be
// strings).
type TreeDTO map[string]ArcDTO

// ToDomain builds a *aggregates.DependencyTree over the given token order.
func (t TreeDTO) ToDomain(order []valueobjects.TokenID) (*aggregates.DependencyTree, error) {
	tree := aggregates.NewDependencyTree(order)
	for key, arc := range t {
		depID, err := parseTokenID(key)
		if err != nil {
			return nil, err
		}
		var gov *valueobjects.TokenID
		if arc.Governor != nil {
			g := valueobjects.TokenID(*arc.Governor)
			gov = &g
		}
		score, err := valueobjects.NewScore(arc.Score)
		if err != nil {
			return nil, err
		}
		tree.SetArc(depID, gov, arc.Label, score)
	}
	return tree, nil
}

// FromTree renders a domain tree back to its wire shape.
func FromTree(tree *aggregates.DependencyTree) TreeDTO {
	out := make(TreeDTO, len(tree.Order()))
	for _, id := range tree.Order() {
		arc, ok := tree.Arc(id)
		if !ok {
			continue
		}
		var gov *int64
		if arc.Governor != nil {
			g := int64(*arc.Governor)
			gov = &g
		}
		out[id.String()] = ArcDTO{Governor: gov, Label: arc.Label, Score: arc.Score.Float64()}
	}
	return out
}

func parseTokenID(key string) (valueobjects.TokenID, error) {
	n, err := strconv.ParseInt(key, 10, 64)
	if err != nil {
		return 0, pkgerrors.NewValidationError("invalid token id key: " + key)
	}
	return valueobjects.TokenID(n), nil
}

// ArcScoreMatrixDTO is the wire shape of the external scored-arc matrix:
// dependent id -> governor id (RootID's decimal form for "points at root")
// -> score.
type ArcScoreMatrixDTO map[string]map[string]float64

// ToDomain converts the wire matrix into the domain shape the tree builder
// consumes.
func (m ArcScoreMatrixDTO) ToDomain() (map[valueobjects.TokenID]map[valueobjects.TokenID]valueobjects.Score, error) {
	out := make(map[valueobjects.TokenID]map[valueobjects.TokenID]valueobjects.Score, len(m))
	for depKey, governors := range m {
		depID, err := parseTokenID(depKey)
		if err != nil {
			return nil, err
		}
		row := make(map[valueobjects.TokenID]valueobjects.Score, len(governors))
		for govKey, v := range governors {
			govID, err := parseTokenID(govKey)
			if err != nil {
				return nil, err
			}
			score, err := valueobjects.NewScore(v)
			if err != nil {
				return nil, err
			}
			row[govID] = score
		}
		out[depID] = row
	}
	return out, nil
}

// ScoredConfigurationDTO is the wire shape of one externally-scored
// grammatical configuration candidate.
type ScoredConfigurationDTO struct {
	Components []ConfigComponentDTO `json:"components" validate:"required,min=1,dive"`
	Score float64 `json:"score" validate:"gte=0,lte=1"`
}

// ConfigComponentDTO is the wire shape of one grammatical-configuration
// component.
type ConfigComponentDTO struct {
	POSBase string `json:"posBase" validate:"required"`
	POSSubtype string `json:"posSubtype,omitempty"`
	Label string `json:"label" validate:"required"`
	Direction string `json:"direction" validate:"required,oneof=root left right"`
}

func (c ConfigComponentDTO) toDomain() valueobjects.ConfigComponent {
	pos := valueobjects.NewPOS(c.POSBase)
	if c.POSSubtype != "" {
		pos = valueobjects.NewSubPOS(c.POSBase, c.POSSubtype)
	}
	return valueobjects.ConfigComponent{POS: pos, Label: c.Label, Direction: valueobjects.Direction(c.Direction)}
}

func (c ScoredConfigurationDTO) toDomain() (services.ScoredConfiguration, error) {
	components := make([]valueobjects.ConfigComponent, 0, len(c.Components))
	for _, comp := range c.Components {
		components = append(components, comp.toDomain())
	}
	score, err := valueobjects.NewScore(c.Score)
	if err != nil {
		return services.ScoredConfiguration{}, err
	}
	configuration, err := valueobjects.NewConfiguration(components, score)
	if err != nil {
		return services.ScoredConfiguration{}, err
	}
	return services.ScoredConfiguration{Configuration: configuration, Score: score}, nil
}

// ConfigurationMapDTO is the wire shape of per-token scored configuration
// candidates, keyed by token id (as a decimal string).
type ConfigurationMapDTO map[string][]ScoredConfigurationDTO

// ToDomain converts the wire map into the domain shape the labels solver
// consumes.
func (m ConfigurationMapDTO) ToDomain() (map[valueobjects.TokenID][]services.ScoredConfiguration, error) {
	out := make(map[valueobjects.TokenID][]services.ScoredConfiguration, len(m))
	for key, candidates := range m {
		tokenID, err := parseTokenID(key)
		if err != nil {
			return nil, err
		}
		converted := make([]services.ScoredConfiguration, 0, len(candidates))
		for _, candidate := range candidates {
			sc, err := candidate.toDomain()
			if err != nil {
				return nil, err
			}
			converted = append(converted, sc)
		}
		out[tokenID] = converted
	}
	return out, nil
}

// ConstraintRecordDTO is the wire shape of one catalogue record, identical in shape to
// application/ports.RawConstraintRecord but carrying validator tags for
// inbound decoding.
type ConstraintRecordDTO struct {
	Description string `json:"description" validate:"required"`
	Penalty *float64 `json:"penalty,omitempty" validate:"omitempty,gte=0,lte=1"`
	Boost *float64 `json:"boost,omitempty" validate:"omitempty,gte=1"`
	Premise map[string]any `json:"premise" validate:"required"`
	Condition map[string]any `json:"condition" validate:"required"`
}

func (r ConstraintRecordDTO) toRawConstraint() services.RawConstraint {
	return services.RawConstraint{
		Description: r.Description,
		Penalty: r.Penalty,
		Boost: r.Boost,
		Premise: r.Premise,
		Condition: r.Condition,
	}
}

// ToRawConstraintRecord converts the DTO into the persistence port's shape.
func (r ConstraintRecordDTO) ToRawConstraintRecord() ports.RawConstraintRecord {
	return ports.RawConstraintRecord{
		Description: r.Description,
		Penalty: r.Penalty,
		Boost: r.Boost,
		Premise: r.Premise,
		Condition: r.Condition,
	}
}

// FromRawConstraintRecord renders a stored record back to its wire shape.
func FromRawConstraintRecord(r ports.RawConstraintRecord) ConstraintRecordDTO {
	return ConstraintRecordDTO{
		Description: r.Description,
		Penalty: r.Penalty,
		Boost: r.Boost,
		Premise: r.Premise,
		Condition: r.Condition,
	}
}

// CompileConstraints compiles a catalogue of wire records into verifiable
// specifications.Constraint values via compiler, collecting every compile
// error rather than stopping at the first.
func CompileConstraints(compiler *services.CatalogueCompiler, records []ConstraintRecordDTO) ([]specifications.Constraint, []error) {
	raws := make([]services.RawConstraint, 0, len(records))
	for _, r := range records {
		raws = append(raws, r.toRawConstraint())
	}
	return compiler.CompileAll(raws)
}

// ViolationsDTO is the wire shape of a Violations map: token id -> violated
// constraint descriptions.
type ViolationsDTO map[string][]string

// FromViolations renders a domain Violations map to its wire shape.
func FromViolations(v services.Violations) ViolationsDTO {
	out := make(ViolationsDTO, len(v))
	for tokenID, constraints := range v {
		descriptions := make([]string, 0, len(constraints))
		for _, c := range constraints {
			descriptions = append(descriptions, c.Description())
		}
		out[tokenID.String()] = descriptions
	}
	return out
}

// SurvivingMorphologyDTO is the wire shape of one surviving post-label
// morphology candidate.
type SurvivingMorphologyDTO struct {
	Morphology MorphologyDTO `json:"morphology"`
	Score float64 `json:"score"`
}

// SurvivingMorphologiesDTO is the wire shape of the morphology solver's
// per-token output.
type SurvivingMorphologiesDTO map[string][]SurvivingMorphologyDTO

// FromSurvivingMorphologies renders the morphology solver's result to its
// wire shape.
func FromSurvivingMorphologies(m map[valueobjects.TokenID][]services.SurvivingMorphology) SurvivingMorphologiesDTO {
	out := make(SurvivingMorphologiesDTO, len(m))
	for tokenID, survivors := range m {
		entries := make([]SurvivingMorphologyDTO, 0, len(survivors))
		for _, s := range survivors {
			entries = append(entries, SurvivingMorphologyDTO{Morphology: fromMorphology(s.Morphology), Score: s.Score.Float64()})
		}
		out[tokenID.String()] = entries
	}
	return out
}

package aggregates

import (
	"depconstraints/domain/core/entities"
	"depconstraints/domain/core/valueobjects"
	pkgerrors "depconstraints/pkg/errors"
)

// Sentence is the aggregate root owning a set of tokens ("A sentence owns
// its tokens; tokens own their candidate lists"). All constraint
// verification, beam search, and
// morphology pruning mutate a Sentence's tokens in place; a solve either
// commits those mutations or rolls them back via Snapshot/Rollback.
type Sentence struct {
	id valueobjects.SentenceID
	tokens map[valueobjects.TokenID]*entities.Token
	order []valueobjects.TokenID // sentence order, including composites before Explode

	snapshot map[valueobjects.TokenID][]valueobjects.Morphology
}

// NewSentence constructs a Sentence from an ordered token list.
func NewSentence(id valueobjects.SentenceID, tokens []*entities.Token) (*Sentence, error) {
	if len(tokens) == 0 {
		return nil, pkgerrors.NewValidationError("sentence must have at least one token")
	}
	byID := make(map[valueobjects.TokenID]*entities.Token, len(tokens))
	order := make([]valueobjects.TokenID, 0, len(tokens))
	for _, tok := range tokens {
		if _, dup := byID[tok.ID()]; dup {
			return nil, pkgerrors.NewValidationError("duplicate token id in sentence")
		}
		byID[tok.ID()] = tok
		order = append(order, tok.ID())
	}
	return &Sentence{id: id, tokens: byID, order: order}, nil
}

// ID returns the sentence's id.
func (s *Sentence) ID() valueobjects.SentenceID { return s.id }

// Order returns the current token-id sequence, in sentence order.
func (s *Sentence) Order() []valueobjects.TokenID {
	return append([]valueobjects.TokenID(nil), s.order...)
}

// Token returns the token with the given id, if present.
func (s *Sentence) Token(id valueobjects.TokenID) (*entities.Token, bool) {
	t, ok := s.tokens[id]
	return t, ok
}

// Tokens returns all tokens, in sentence order.
func (s *Sentence) Tokens() []*entities.Token {
	out := make([]*entities.Token, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, s.tokens[id])
	}
	return out
}

// PositionIndex returns the index of id within the sentence order.
func (s *Sentence) PositionIndex(id valueobjects.TokenID) (int, bool) {
	for i, o := range s.order {
		if o == id {
			return i, true
		}
	}
	return 0, false
}

// Snapshot records the current validPosMorphologies of every token so a
// failed solve can be rolled back.
func (s *Sentence) Snapshot() {
	s.snapshot = make(map[valueobjects.TokenID][]valueobjects.Morphology, len(s.tokens))
	for id, tok := range s.tokens {
		s.snapshot[id] = tok.ValidPosMorphologies()
	}
}

// Rollback restores every token's validPosMorphologies from the last
// Snapshot. A no-op if Snapshot was never called.
func (s *Sentence) Rollback() {
	for id, ms := range s.snapshot {
		if tok, ok := s.tokens[id]; ok {
			tok.SetValidPosMorphologies(ms)
		}
	}
}

// Clone returns an independent Sentence with cloned tokens, so that
// concurrent solves never share mutable state.
func (s *Sentence) Clone() *Sentence {
	clone := &Sentence{
		id: s.id,
		tokens: make(map[valueobjects.TokenID]*entities.Token, len(s.tokens)),
		order: append([]valueobjects.TokenID(nil), s.order...),
	}
	for id, tok := range s.tokens {
		clone.tokens[id] = tok.Clone()
	}
	return clone
}

// Tree builds a DependencyTree read-model from the tokens' current
// relations. Used once a state has been committed onto tokens, or by
// callers handed a pre-built tree ("Dependency tree
// (optional)").
func (s *Sentence) Tree() *DependencyTree {
	tree := NewDependencyTree(s.order)
	for _, id := range s.order {
		rel := s.tokens[id].Relation()
		tree.SetArc(id, rel.Governor, rel.Label, rel.AttachmentScore)
	}
	return tree
}

// ApplyTree commits a candidate DependencyTree's arcs onto this
// sentence's tokens, making it the tokens' authoritative relation.
func (s *Sentence) ApplyTree(tree *DependencyTree) {
	for _, id := range s.order {
		tok, ok := s.tokens[id]
		if !ok {
			continue
		}
		arc, ok := tree.Arc(id)
		if !ok {
			continue
		}
		tok.SetRelation(arc.Governor, arc.Label, arc.Score)
	}
}

// multiWordGovernorID walks a multi-word (composite) token's governor
// chain to find its nearest single-token governor, advancing from the
// *current* token at each step.
func (s *Sentence) multiWordGovernorID(multiWordStartID valueobjects.TokenID) (valueobjects.TokenID, bool) {
	current := multiWordStartID
	visited := map[valueobjects.TokenID]bool{}
	for {
		if visited[current] {
			return 0, false // defensive: governor cycles are rejected before this runs
		}
		visited[current] = true

		tok, ok := s.tokens[current]
		if !ok {
			return 0, false
		}
		rel := tok.Relation()
		if !rel.HasGovernor() {
			return 0, false
		}
		govID := *rel.Governor
		govTok, ok := s.tokens[govID]
		if !ok {
			return 0, false
		}
		if !govTok.IsComposite() {
			return govID, true
		}
		// Advance from the governor just found, not back to multiWordStartID.
		current = govID
	}
}

// Explode replaces every composite token by its components, in place, in
// the sentence order, and rewrites the governor of any token that
// pointed at a composite to that composite's first component. Composite
// tokens never participate in
// constraint checks; once exploded they no longer appear in Order or
// Tokens.
func (s *Sentence) Explode() error {
	replacement := make(map[valueobjects.TokenID]valueobjects.TokenID) // compositeID -> first component id
	newOrder := make([]valueobjects.TokenID, 0, len(s.order))
	isComponent := make(map[valueobjects.TokenID]bool)
	for _, id := range s.order {
		if tok := s.tokens[id]; tok.IsComposite() {
			for _, compID := range tok.ComponentIDs() {
				isComponent[compID] = true
			}
		}
	}

	for _, id := range s.order {
		tok := s.tokens[id]
		if !tok.IsComposite() {
			if !isComponent[id] {
				newOrder = append(newOrder, id)
			}
			continue
		}
		components := tok.ComponentIDs()
		if len(components) == 0 {
			return pkgerrors.NewInvalidStateError("composite token has no components: " + id.String())
		}
		replacement[id] = components[0]
		for _, compID := range components {
			if _, ok := s.tokens[compID]; !ok {
				return pkgerrors.NewInvalidStateError("composite references unknown component: " + compID.String())
			}
			newOrder = append(newOrder, compID)
		}
		delete(s.tokens, id)
	}

	for _, id := range newOrder {
		tok := s.tokens[id]
		rel := tok.Relation()
		if rel.HasGovernor() {
			if firstComponent, wasComposite := replacement[*rel.Governor]; wasComposite {
				g := firstComponent
				tok.SetRelation(&g, rel.Label, rel.AttachmentScore)
			}
		}
	}

	s.order = newOrder
	return nil
}

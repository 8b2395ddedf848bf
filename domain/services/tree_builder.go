package services

import (
	"sort"

	"depconstraints/domain/config"
	"depconstraints/domain/core/aggregates"
	"depconstraints/domain/core/valueobjects"
	"depconstraints/domain/specifications"
	pkgerrors "depconstraints/pkg/errors"
)

// ArcCandidate is one (governorId, score) option for a dependent, the beam
// value of the dependency-tree builder. GovernorID equals
// valueobjects.RootID when this candidate attaches the dependent to the
// sentence root.
type ArcCandidate struct {
	GovernorID valueobjects.TokenID
	Score valueobjects.Score
}

// TreeBuilder instantiates the beam manager over arc choices to assemble a
// valid rooted dependency tree, annotating each valid candidate with the
// labels solver before ranking it.
type TreeBuilder struct {
	engine *ConstraintEngine
	labelsSolver *LabelsSolver
	cycleFixer *CycleFixer
	steps int
}

// NewTreeBuilder creates a tree builder. labelsSolver must not be nil —
// every valid candidate tree is annotated by it before being scored.
func NewTreeBuilder(engine *ConstraintEngine, labelsSolver *LabelsSolver) *TreeBuilder {
	if engine == nil {
		engine = NewConstraintEngine()
	}
	return &TreeBuilder{engine: engine, labelsSolver: labelsSolver, cycleFixer: NewCycleFixer()}
}

// Build searches the arc-score matrix for the best single-rooted acyclic
// tree and returns it with every token labelled (public entry
// point): findBestConfiguration(onlyValid=true), or nil if no state ever
// materialized a valid tree.
func (b *TreeBuilder) Build(sentence *aggregates.Sentence, arcScores map[valueobjects.TokenID]map[valueobjects.TokenID]valueobjects.Score, scoredConfigs map[valueobjects.TokenID][]ScoredConfiguration, catalogue []specifications.Constraint, cfg config.SolverConfig) (*aggregates.DependencyTree, error) {
	if b.labelsSolver == nil {
		return nil, pkgerrors.NewInvalidStateError("tree builder requires a labels solver")
	}

	order := sentence.Order()

	if cfg.GreedyHeads {
		raw := b.buildGreedy(order, arcScores)
		return b.labelsSolver.Solve(sentence, raw, scoredConfigs, catalogue, cfg)
	}

	valuesMap := make(map[valueobjects.TokenID][]ArcCandidate, len(order))
	for _, dependentID := range order {
		valuesMap[dependentID] = b.candidatesFor(arcScores[dependentID])
	}

	evaluate := b.evaluator(sentence, order, scoredConfigs, catalogue, cfg)
	scoreOf := func(a ArcCandidate) float64 { return a.Score.Float64() }
	bm := NewBeamManager[valueobjects.TokenID, ArcCandidate](order, valuesMap, scoreOf, cfg, evaluate)

	best := bm.findBestConfiguration(true)
	b.steps += bm.StepsTaken()
	if best == nil {
		return nil, nil
	}

	raw := b.materialize(order, best)
	return b.labelsSolver.Solve(sentence, raw, scoredConfigs, catalogue, cfg)
}

// buildGreedy assigns every dependent its single highest-scoring governor
// (sentinel root scores included) and repairs any resulting cycles with
// the cycle fixer, the fallback path used "when greedy head assignment is
// preferred to beam search".
func (b *TreeBuilder) buildGreedy(order []valueobjects.TokenID, arcScores map[valueobjects.TokenID]map[valueobjects.TokenID]valueobjects.Score) *aggregates.DependencyTree {
	tree := aggregates.NewDependencyTree(order)
	for _, dependentID := range order {
		candidates := b.candidatesFor(arcScores[dependentID])
		if len(candidates) == 0 {
			tree.SetArc(dependentID, nil, "", 0)
			continue
		}
		top := candidates[0]
		if top.GovernorID == valueobjects.RootID {
			tree.SetArc(dependentID, nil, "", top.Score)
			continue
		}
		gov := top.GovernorID
		tree.SetArc(dependentID, &gov, "", top.Score)
	}
	return b.cycleFixer.Fix(tree, arcScores)
}

// StepsTaken returns the cumulative number of beam-search step iterations
// this builder's own beam manager has performed across every Build call
// made on it so far (excludes the labels solver's own steps, exposed
// separately via LabelsSolver.StepsTaken).
func (b *TreeBuilder) StepsTaken() int {
	return b.steps
}

// CycleRepairs returns the cumulative number of cycles this builder's
// cycle fixer has repaired across every greedy-heads Build call made on
// it so far (zero if GreedyHeads was never used).
func (b *TreeBuilder) CycleRepairs() int {
	return b.cycleFixer.RepairsPerformed()
}

// candidatesFor filters a dependent's governor scores to those at least the
// uniform baseline 1/|candidates|, falling back to the full sorted list if
// that filter would empty the set.
func (b *TreeBuilder) candidatesFor(governors map[valueobjects.TokenID]valueobjects.Score) []ArcCandidate {
	all := make([]ArcCandidate, 0, len(governors))
	for govID, score := range governors {
		all = append(all, ArcCandidate{GovernorID: govID, Score: score})
	}
	sort.SliceStable(all, func(i, j int) bool { return all[i].Score.Float64() > all[j].Score.Float64() })

	if len(all) == 0 {
		return all
	}
	baseline := 1.0 / float64(len(all))
	filtered := make([]ArcCandidate, 0, len(all))
	for _, c := range all {
		if c.Score.Float64() >= baseline {
			filtered = append(filtered, c)
		}
	}
	if len(filtered) == 0 {
		return all
	}
	return filtered
}

// materialize builds a plain DependencyTree from a beam state's chosen arcs,
// without labels (labels are annotated separately by the labels solver).
func (b *TreeBuilder) materialize(order []valueobjects.TokenID, state *State[valueobjects.TokenID, ArcCandidate]) *aggregates.DependencyTree {
	tree := aggregates.NewDependencyTree(order)
	for _, elem := range state.Elements {
		if elem.Value.GovernorID == valueobjects.RootID {
			tree.SetArc(elem.ElementID, nil, "", elem.Value.Score)
			continue
		}
		gov := elem.Value.GovernorID
		tree.SetArc(elem.ElementID, &gov, "", elem.Value.Score)
	}
	return tree
}

// evaluator builds the EvaluateFunc used by the beam: materialize a
// candidate tree from the state's arc choices, check it forms a valid
// single-rooted acyclic tree, and, if so, run the labels solver over it to
// get a constraint-informed score ("for each valid state the
// labels solver annotates it"). Cycles during materialization mark the
// state invalid but keep it in the beam, by convention.
func (b *TreeBuilder) evaluator(sentence *aggregates.Sentence, order []valueobjects.TokenID, scoredConfigs map[valueobjects.TokenID][]ScoredConfiguration, catalogue []specifications.Constraint, cfg config.SolverConfig) EvaluateFunc[valueobjects.TokenID, ArcCandidate] {
	return func(state *State[valueobjects.TokenID, ArcCandidate]) {
		tree := b.materialize(order, state)

		if err := tree.Validate(); err != nil {
			b.scoreRaw(state)
			return
		}

		labeled, err := b.labelsSolver.Solve(sentence, tree, scoredConfigs, catalogue, cfg)
		if err != nil || labeled == nil {
			b.scoreRaw(state)
			return
		}

		state.IsValid = true
		for i := range state.Elements {
			elem := &state.Elements[i]
			elem.Valid = true
			if arc, ok := labeled.Arc(elem.ElementID); ok {
				elem.Score = arc.Score.Float64()
			}
		}
		// Rank by the labels solver's soft-penalized tree score, not the sum
		// of raw per-arc attachment scores, so topology selection honors the
		// same penalty-times-attachment objective labels_solver.go optimizes
		// internally.
		state.Score = labeled.Score().Float64()
	}
}

// scoreRaw scores an invalid candidate by the sum of its raw arc scores, so
// the beam can still rank invalid states against one another while they
// remain in play ("retained but marked invalid").
func (b *TreeBuilder) scoreRaw(state *State[valueobjects.TokenID, ArcCandidate]) {
	state.IsValid = false
	var total float64
	for i := range state.Elements {
		state.Elements[i].Valid = false
		state.Elements[i].Score = state.Elements[i].Value.Score.Float64()
		total += state.Elements[i].Score
	}
	state.Score = total
}

// Package services holds the application-layer orchestration for one
// parse/validate request, grounded on this codebase's
// application/services/edge_service.go: a thin layer over domain services
// and pluggable collaborators, wrapping remote calls in circuit breakers
// the way internal/middleware/circuit_breaker.go wraps HTTP handlers.
package services

import (
	"context"
	"sync"
	"time"

	"depconstraints/application/ports"
	"depconstraints/domain/config"
	"depconstraints/domain/core/aggregates"
	"depconstraints/domain/core/valueobjects"
	"depconstraints/domain/services"
	"depconstraints/domain/specifications"
	"depconstraints/infrastructure/observability"
	pkgerrors "depconstraints/pkg/errors"

	"github.com/sony/gobreaker"
	"go.uber.org/zap"
)

// ValidateResult is the outcome of a pure-validation request: a violations
// map, possibly empty, for a validate-only call.
type ValidateResult struct {
	Violations services.Violations
}

// SolveResult is the outcome of a full solve: a dependency tree where every
// token has a chosen grammatical configuration, a chosen morphology, and an
// attachment score, plus a global tree score, extended with the post-label
// morphology solver's surviving-morphology lists per token.
type SolveResult struct {
	Tree *aggregates.DependencyTree
	Morphologies map[valueobjects.TokenID][]services.SurvivingMorphology
}

// ParserService is the single entry point orchestrating the sentence
// validator and the tree/labels/morphology solvers for one request.
type ParserService struct {
	arcScorer ports.ArcScorer
	configScorer ports.ConfigurationScorer
	percolator ports.MorphologyPercolator

	engine *services.ConstraintEngine
	selector *services.DefaultLabelerSelector
	labelsSolver *services.LabelsSolver
	treeBuilder *services.TreeBuilder
	morphSolver *services.MorphologySolver

	arcBreaker *gobreaker.CircuitBreaker
	configBreaker *gobreaker.CircuitBreaker
	percolatorBreaker *gobreaker.CircuitBreaker

	cfg config.SolverConfig
	logger *zap.Logger
	collector *observability.Collector

	violationsMu sync.RWMutex
	lastViolations map[string]services.Violations

	solveMetrics *solveMetricsSnapshot
}

// solveMetricsSnapshot tracks the last cumulative beam-step/cycle-repair
// totals folded into the collector, shared by a ParserService and every
// WithScorers clone derived from it so per-request clones never re-report
// the same underlying domain solvers' counts from zero.
type solveMetricsSnapshot struct {
	mu sync.Mutex
	beamSteps int
	cycleRepairs int
}

// NewParserService wires the domain services together with the external
// collaborators; arcScorer/configScorer/percolator may be nil in tests that
// only exercise the sentence validator. collector may be nil, in which case
// solve/beam/cycle-repair metrics are simply not recorded.
func NewParserService(arcScorer ports.ArcScorer, configScorer ports.ConfigurationScorer, percolator ports.MorphologyPercolator, cfg config.SolverConfig, logger *zap.Logger, collector *observability.Collector) *ParserService {
	if logger == nil {
		logger = zap.NewNop()
	}
	engine := services.NewConstraintEngine()
	selector := services.NewDefaultLabelerSelector()
	labelsSolver := services.NewLabelsSolver(engine, selector)

	return &ParserService{
		arcScorer: arcScorer,
		configScorer: configScorer,
		percolator: percolator,
		engine: engine,
		selector: selector,
		labelsSolver: labelsSolver,
		treeBuilder: services.NewTreeBuilder(engine, labelsSolver),
		morphSolver: services.NewMorphologySolver(engine),
		arcBreaker: newBreaker("arc-scorer"),
		configBreaker: newBreaker("configuration-scorer"),
		percolatorBreaker: newBreaker("morphology-percolator"),
		cfg: cfg,
		logger: logger,
		collector: collector,
		lastViolations: make(map[string]services.Violations),
		solveMetrics: &solveMetricsSnapshot{},
	}
}

func newBreaker(name string) *gobreaker.CircuitBreaker {
	return gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name: name,
		MaxRequests: 3,
		Interval: 10 * time.Second,
		Timeout: 30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if counts.Requests < 3 {
				return false
			}
			return float64(counts.TotalFailures)/float64(counts.Requests) >= 0.6
		},
	})
}

// WithScorers returns a ParserService sharing this one's domain services,
// breakers, config, and logger, but bound to different arc/configuration
// scorers — used by the HTTP solve handler to plug in a request's inline
// scored-arc-matrix/scored-configuration data (ports.ArcScorer/
// ports.ConfigurationScorer implementations that merely echo the request)
// without standing up a second breaker pair.
func (p *ParserService) WithScorers(arcScorer ports.ArcScorer, configScorer ports.ConfigurationScorer) *ParserService {
	return &ParserService{
		arcScorer: arcScorer,
		configScorer: configScorer,
		percolator: p.percolator,
		engine: p.engine,
		selector: p.selector,
		labelsSolver: p.labelsSolver,
		treeBuilder: p.treeBuilder,
		morphSolver: p.morphSolver,
		arcBreaker: p.arcBreaker,
		configBreaker: p.configBreaker,
		percolatorBreaker: p.percolatorBreaker,
		cfg: p.cfg,
		logger: p.logger,
		collector: p.collector,
		lastViolations: p.lastViolations,
		solveMetrics: p.solveMetrics,
	}
}

// Validate runs the six-group sentence validator against sentence and
// catalogue, consuming the pre-built tree if one is supplied — useful when
// only labels or only morphologies are to be solved — else deriving one
// from the sentence's current token relations.
func (p *ParserService) Validate(ctx context.Context, sentence *aggregates.Sentence, tree *aggregates.DependencyTree, catalogue []specifications.Constraint) (ValidateResult, error) {
	if tree == nil {
		tree = sentence.Tree()
	}
	validator := services.NewSentenceValidator(p.engine, p.percolatorFor(ctx))
	violations := validator.Validate(catalogue, sentence, tree)

	p.logger.Info("sentence validated",
		zap.String("sentenceId", sentence.ID().String()),
		zap.Int("tokenCount", len(sentence.Order())),
		zap.Bool("hasViolations", !violations.IsEmpty()),
	)

	p.violationsMu.Lock()
	p.lastViolations[sentence.ID().String()] = violations
	p.violationsMu.Unlock()

	p.recordViolations(catalogue, violations)

	return ValidateResult{Violations: violations}, nil
}

// recordViolations tallies violations against the Prometheus
// ConstraintViolations counter, by constraint group, a no-op if no
// collector was wired in.
func (p *ParserService) recordViolations(catalogue []specifications.Constraint, violations services.Violations) {
	if p.collector == nil || len(violations) == 0 {
		return
	}
	groups := specifications.GroupCatalogue(catalogue)
	groupOf := make(map[string]specifications.GroupName, len(catalogue))
	for _, name := range specifications.Order {
		for _, c := range groups.Of(name) {
			groupOf[c.Description()] = name
		}
	}
	for _, constraints := range violations {
		for _, c := range constraints {
			name, ok := groupOf[c.Description()]
			if !ok {
				continue
			}
			p.collector.ConstraintViolations.WithLabelValues(string(name)).Inc()
		}
	}
}

// LastViolations returns the violations map recorded by the most recent
// Validate call for sentenceID, supporting the read-only explain endpoint.
func (p *ParserService) LastViolations(sentenceID string) (services.Violations, bool) {
	p.violationsMu.RLock()
	defer p.violationsMu.RUnlock()
	v, ok := p.lastViolations[sentenceID]
	return v, ok
}

// Solve runs tree-builder -> labels-solver -> morphology-solver over
// sentence, scoring arcs and label configurations via the circuit-broken
// external collaborators (data flow).
func (p *ParserService) Solve(ctx context.Context, sentence *aggregates.Sentence, catalogue []specifications.Constraint) (SolveResult, error) {
	if p.arcScorer == nil || p.configScorer == nil {
		return SolveResult{}, pkgerrors.NewInvalidStateError("parser service requires an arc scorer and a configuration scorer to solve")
	}
	if p.collector != nil {
		p.collector.SolvesAttempted.Inc()
	}

	arcScores, err := p.scoreArcs(ctx, sentence)
	if err != nil {
		return SolveResult{}, pkgerrors.NewUnavailableError("arc scorer unavailable", err)
	}
	scoredConfigs, err := p.scoreConfigurations(ctx, sentence)
	if err != nil {
		return SolveResult{}, pkgerrors.NewUnavailableError("configuration scorer unavailable", err)
	}

	tree, err := p.treeBuilder.Build(sentence, arcScores, scoredConfigs, catalogue, p.cfg)
	if err != nil {
		return SolveResult{}, err
	}
	if tree == nil {
		return SolveResult{}, pkgerrors.NewInvalidStateError("tree builder exhausted the beam with no valid tree")
	}

	morphologies := p.morphSolver.Solve(sentence, tree, catalogue, p.cfg)

	p.recordSolveMetrics()

	p.logger.Info("sentence solved",
		zap.String("sentenceId", sentence.ID().String()),
		zap.Float64("treeScore", tree.Score().Float64()),
	)
	return SolveResult{Tree: tree, Morphologies: morphologies}, nil
}

// recordSolveMetrics marks a successful solve and folds the cumulative
// beam-step/cycle-repair counters kept by the domain solvers (which never
// import the metrics package themselves) into the collector's running
// totals, a no-op if no collector was wired in.
func (p *ParserService) recordSolveMetrics() {
	if p.collector == nil {
		return
	}
	p.collector.SolvesSucceeded.Inc()

	totalSteps := p.treeBuilder.StepsTaken() + p.labelsSolver.StepsTaken() + p.morphSolver.StepsTaken()
	totalRepairs := p.treeBuilder.CycleRepairs()

	snap := p.solveMetrics
	snap.mu.Lock()
	defer snap.mu.Unlock()
	if delta := totalSteps - snap.beamSteps; delta > 0 {
		p.collector.BeamStepsTaken.Add(float64(delta))
		snap.beamSteps = totalSteps
	}
	if delta := totalRepairs - snap.cycleRepairs; delta > 0 {
		p.collector.CycleRepairs.Add(float64(delta))
		snap.cycleRepairs = totalRepairs
	}
}

func (p *ParserService) scoreArcs(ctx context.Context, sentence *aggregates.Sentence) (map[valueobjects.TokenID]map[valueobjects.TokenID]valueobjects.Score, error) {
	result, err := p.arcBreaker.Execute(func() (any, error) {
		return p.arcScorer.ScoreArcs(ctx, sentence)
	})
	if err != nil {
		return nil, err
	}
	return result.(map[valueobjects.TokenID]map[valueobjects.TokenID]valueobjects.Score), nil
}

func (p *ParserService) scoreConfigurations(ctx context.Context, sentence *aggregates.Sentence) (map[valueobjects.TokenID][]services.ScoredConfiguration, error) {
	result, err := p.configBreaker.Execute(func() (any, error) {
		return p.configScorer.ScoreConfigurations(ctx, sentence)
	})
	if err != nil {
		return nil, err
	}
	return result.(map[valueobjects.TokenID][]services.ScoredConfiguration), nil
}

// percolatorFor adapts the context/error-aware application port to the
// synchronous domain.services.MorphologyPercolator interface the sentence
// validator consumes, circuit-breaking the call and degrading to "no
// context overlays" on failure — percolation is optional enrichment, not
// load-bearing for correctness of the base validation.
func (p *ParserService) percolatorFor(ctx context.Context) services.MorphologyPercolator {
	if p.percolator == nil {
		return nil
	}
	return &percolatorAdapter{ctx: ctx, breaker: p.percolatorBreaker, percolator: p.percolator, logger: p.logger}
}

type percolatorAdapter struct {
	ctx context.Context
	breaker *gobreaker.CircuitBreaker
	percolator ports.MorphologyPercolator
	logger *zap.Logger
}

func (a *percolatorAdapter) Percolate(sentence *aggregates.Sentence, tree *aggregates.DependencyTree) []services.ContextAssignment {
	result, err := a.breaker.Execute(func() (any, error) {
		return a.percolator.Percolate(a.ctx, sentence, tree)
	})
	if err != nil {
		a.logger.Warn("morphology percolator unavailable, continuing without context overlays", zap.Error(err))
		return nil
	}
	assignments, _ := result.([]services.ContextAssignment)
	return assignments
}

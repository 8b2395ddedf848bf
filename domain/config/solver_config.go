// Package config holds the domain-level tunables the solvers need — the
// beam manager's width/fork/iteration bounds — as opposed to
// pkg/config's process-level settings (address, log level, store backend).
package config

// SolverConfig bounds a beam search: maximum beam width B, maximum fork
// width F, and maximum iteration depth I. A negative value for any field
// means "unbounded".
type SolverConfig struct {
	BeamWidth int
	ForkWidth int
	MaxIterations int

	// GreedyHeads, when true, tells the tree builder to skip the beam
	// search over arc candidates and instead assign every dependent its
	// single highest-scoring governor, repairing any resulting cycles with
	// the cycle fixer's fallback path. Cheaper, lower-recall.
	GreedyHeads bool
}

// DefaultSolverConfig returns conservative bounds suitable for interactive
// use; batch/offline callers typically widen these via configuration.
func DefaultSolverConfig() SolverConfig {
	return SolverConfig{
		BeamWidth: 8,
		ForkWidth: 4,
		MaxIterations: 50,
	}
}

// Unbounded reports whether a bound is the "no limit" sentinel.
func Unbounded(n int) bool { return n < 0 }

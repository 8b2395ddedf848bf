package observability

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	globalCollector *Collector
	collectorMutex sync.Mutex
)

// Collector holds the Prometheus metrics this service exposes:
// solves attempted/succeeded, beam steps taken, constraint violations by
// group, and cycle repairs performed. Grounded on this codebase's
// infrastructure/observability.Collector — same singleton-registry pattern,
// different metric set.
type Collector struct {
	registry *prometheus.Registry

	SolvesAttempted prometheus.Counter
	SolvesSucceeded prometheus.Counter
	BeamStepsTaken prometheus.Counter
	ConstraintViolations *prometheus.CounterVec
	CycleRepairs prometheus.Counter

	HTTPRequests *prometheus.CounterVec
	HTTPDuration *prometheus.HistogramVec
}

// NewCollector creates the metrics collector with the given namespace. A
// process-wide singleton avoids duplicate registration when tests build
// more than one container.
func NewCollector(namespace string) *Collector {
	collectorMutex.Lock()
	defer collectorMutex.Unlock()

	if globalCollector != nil {
		return globalCollector
	}

	registry := prometheus.NewRegistry()

	c := &Collector{
		registry: registry,
		SolvesAttempted: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name: "solves_attempted_total",
			Help: "Total number of sentence solve requests attempted.",
		}),
		SolvesSucceeded: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name: "solves_succeeded_total",
			Help: "Total number of sentence solve requests that produced a tree.",
		}),
		BeamStepsTaken: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name: "beam_steps_total",
			Help: "Total number of beam-search step iterations taken across all solvers.",
		}),
		ConstraintViolations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name: "constraint_violations_total",
			Help: "Total number of constraint violations observed, by constraint group.",
		}, []string{"group"}),
		CycleRepairs: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name: "cycle_repairs_total",
			Help: "Total number of dependency-tree cycle repairs performed.",
		}),
		HTTPRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name: "http_requests_total",
			Help: "Total number of HTTP requests, by method/route/status.",
		}, []string{"method", "route", "status"}),
		HTTPDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name: "http_request_duration_seconds",
			Help: "HTTP request duration in seconds, by method/route.",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "route"}),
	}

	registry.MustRegister(
		c.SolvesAttempted,
		c.SolvesSucceeded,
		c.BeamStepsTaken,
		c.ConstraintViolations,
		c.CycleRepairs,
		c.HTTPRequests,
		c.HTTPDuration,
	)

	globalCollector = c
	return c
}

// Registry exposes the underlying prometheus.Registry for the /metrics
// handler.
func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}

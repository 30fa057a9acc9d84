package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// SolverMetricsCollector handles LP solve and cost analysis metrics
type SolverMetricsCollector struct {
	solvesTotal    *prometheus.CounterVec
	solveDuration  *prometheus.HistogramVec
	problemSize    *prometheus.GaugeVec
	candidates     *prometheus.CounterVec
	pricedObjects  *prometheus.GaugeVec
	estimatedTotal *prometheus.GaugeVec
}

// NewSolverMetricsCollector creates a new solver metrics collector
func NewSolverMetricsCollector() *SolverMetricsCollector {
	return &SolverMetricsCollector{
		solvesTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "solves_total",
				Help:      "Total number of LP solves by solver and result status",
			},
			[]string{"solver", "status"},
		),
		solveDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "solve_duration_seconds",
				Help:      "LP solve duration distribution",
				Buckets:   []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1.0, 5.0, 30.0},
			},
			[]string{"solver"},
		),
		problemSize: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "problem_size",
				Help:      "Variables and constraints of the latest solve",
			},
			[]string{"solver", "dimension"},
		),
		candidates: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "infeasibility_candidates_total",
				Help:      "Links receiving slack during infeasibility diagnosis",
			},
			[]string{"kind"},
		),
		pricedObjects: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Subsystem: "costs",
				Name:      "priced_objects",
				Help:      "Objects with a finite cost after the latest analysis",
			},
			[]string{"scope"},
		),
		estimatedTotal: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Subsystem: "costs",
				Name:      "estimated_total",
				Help:      "Objective value of the latest cost analysis",
			},
			[]string{"scope"},
		),
	}
}

// Register registers all solver metrics with the Prometheus registry
func (c *SolverMetricsCollector) Register() error {
	if Registry == nil {
		return nil // Metrics not enabled
	}

	metrics := []prometheus.Collector{
		c.solvesTotal,
		c.solveDuration,
		c.problemSize,
		c.candidates,
		c.pricedObjects,
		c.estimatedTotal,
	}

	for _, metric := range metrics {
		if err := Registry.Register(metric); err != nil {
			return err
		}
	}

	return nil
}

// RecordSolve records the status, duration and size of one solve
func (c *SolverMetricsCollector) RecordSolve(solver string, status string, duration time.Duration, variables, constraints int) {
	c.solvesTotal.WithLabelValues(solver, status).Inc()
	c.solveDuration.WithLabelValues(solver).Observe(duration.Seconds())
	c.problemSize.WithLabelValues(solver, "variables").Set(float64(variables))
	c.problemSize.WithLabelValues(solver, "constraints").Set(float64(constraints))
}

// RecordDiagnosis counts the links that received slack
func (c *SolverMetricsCollector) RecordDiagnosis(deadlocks, splits int) {
	c.candidates.WithLabelValues("deadlock").Add(float64(deadlocks))
	c.candidates.WithLabelValues("split").Add(float64(splits))
}

// RecordCostAnalysis stores the outcome of a cost pass
func (c *SolverMetricsCollector) RecordCostAnalysis(scope string, pricedObjects int, estimatedTotal float64) {
	c.pricedObjects.WithLabelValues(scope).Set(float64(pricedObjects))
	c.estimatedTotal.WithLabelValues(scope).Set(estimatedTotal)
}

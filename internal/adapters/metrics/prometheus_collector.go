package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const (
	// Namespace for all metrics
	namespace = "factoryplanner"
	// Subsystem for solver metrics
	subsystem = "solver"
)

var (
	// Registry is the global Prometheus registry for all metrics
	Registry *prometheus.Registry

	// globalSolverCollector is the singleton solver metrics collector
	// Set by SetGlobalSolverCollector() when metrics are enabled
	globalSolverCollector SolverMetricsRecorder
)

// SolverMetricsRecorder defines the interface for recording LP activity.
// Application services record through the package functions below.
type SolverMetricsRecorder interface {
	RecordSolve(solver string, status string, duration time.Duration, variables, constraints int)
	RecordDiagnosis(deadlocks, splits int)
	RecordCostAnalysis(scope string, pricedObjects int, estimatedTotal float64)
}

// InitRegistry initializes the Prometheus registry
// Should be called once at application startup if metrics are enabled
func InitRegistry() {
	Registry = prometheus.NewRegistry()
}

// GetRegistry returns the global Prometheus registry
// Returns nil if metrics are not initialized
func GetRegistry() *prometheus.Registry {
	return Registry
}

// IsEnabled returns true if metrics collection is enabled
func IsEnabled() bool {
	return Registry != nil
}

// SetGlobalSolverCollector sets the global solver metrics collector
func SetGlobalSolverCollector(collector SolverMetricsRecorder) {
	globalSolverCollector = collector
}

// RecordSolve records one LP solve globally
func RecordSolve(solver string, status string, duration time.Duration, variables, constraints int) {
	if globalSolverCollector != nil {
		globalSolverCollector.RecordSolve(solver, status, duration, variables, constraints)
	}
}

// RecordDiagnosis records the deadlock and split candidates of an infeasible solve
func RecordDiagnosis(deadlocks, splits int) {
	if globalSolverCollector != nil {
		globalSolverCollector.RecordDiagnosis(deadlocks, splits)
	}
}

// RecordCostAnalysis records the outcome of a cost estimation pass
func RecordCostAnalysis(scope string, pricedObjects int, estimatedTotal float64) {
	if globalSolverCollector != nil {
		globalSolverCollector.RecordCostAnalysis(scope, pricedObjects, estimatedTotal)
	}
}

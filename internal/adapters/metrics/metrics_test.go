package metrics_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andrescamacho/factoryplanner-go/internal/adapters/metrics"
	"github.com/andrescamacho/factoryplanner-go/internal/application/mediator"
)

type solvePageCommand struct{}

func TestCommandName_StripsPackageAndPointer(t *testing.T) {
	assert.Equal(t, "solvePageCommand", metrics.CommandName(&solvePageCommand{}))
	assert.Equal(t, "UnknownCommand", metrics.CommandName(nil))
}

func TestPrometheusMiddleware_RecordsOutcome(t *testing.T) {
	// Arrange
	metrics.InitRegistry()
	defer func() { metrics.Registry = nil }()
	collector := metrics.NewCommandMetricsCollector()
	require.NoError(t, collector.Register())
	middleware := metrics.PrometheusMiddleware(collector)

	failing := func(ctx context.Context, request mediator.Request) (mediator.Response, error) {
		return nil, errors.New("boom")
	}

	// Act
	_, err := middleware(context.Background(), &solvePageCommand{}, failing)

	// Assert
	require.Error(t, err)
	count, gatherErr := testutil.GatherAndCount(metrics.Registry, "factoryplanner_commands_total")
	require.NoError(t, gatherErr)
	assert.Equal(t, 1, count)
}

func TestSolverMetrics_RecordThroughGlobalRecorder(t *testing.T) {
	// Arrange
	metrics.InitRegistry()
	defer func() {
		metrics.Registry = nil
		metrics.SetGlobalSolverCollector(nil)
	}()
	collector := metrics.NewSolverMetricsCollector()
	require.NoError(t, collector.Register())
	metrics.SetGlobalSolverCollector(collector)

	// Act
	metrics.RecordSolve("production", "OPTIMAL", 20*time.Millisecond, 4, 3)
	metrics.RecordDiagnosis(2, 1)
	metrics.RecordCostAnalysis("full", 12, 34.5)

	// Assert
	count, err := testutil.GatherAndCount(metrics.Registry, "factoryplanner_solver_solves_total")
	require.NoError(t, err)
	assert.Equal(t, 1, count)
	count, err = testutil.GatherAndCount(metrics.Registry, "factoryplanner_costs_estimated_total")
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestRecordFunctions_AreNoOpsWithoutCollector(t *testing.T) {
	metrics.SetGlobalSolverCollector(nil)

	assert.NotPanics(t, func() {
		metrics.RecordSolve("production", "OPTIMAL", time.Millisecond, 1, 1)
		metrics.RecordDiagnosis(0, 0)
		metrics.RecordCostAnalysis("full", 0, 0)
	})
	assert.False(t, metrics.IsEnabled())
}

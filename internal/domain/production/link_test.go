package production_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andrescamacho/factoryplanner-go/internal/domain/production"
)

func TestProductionLink_NotMatchedFlowNetsOpposingSlack(t *testing.T) {
	// Arrange
	db := smeltingDB(t)
	table := production.NewProductionTable()
	link, err := table.AddLink(qualified(t, db, "iron-plate"), 0, production.LinkMatch)
	require.NoError(t, err)
	link.BeginSolve(0)

	// Act
	link.AddNotMatchedFlow(-2)
	link.AddNotMatchedFlow(0.5)

	// Assert
	assert.InDelta(t, -1.5, link.NotMatchedFlow(), 1e-12)

	link.BeginSolve(1)
	assert.Zero(t, link.NotMatchedFlow())
	assert.Equal(t, 1, link.SolverIndex())
}

package services_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andrescamacho/factoryplanner-go/internal/application/production/services"
	"github.com/andrescamacho/factoryplanner-go/internal/domain/production"
)

func TestFlowAggregator_CombinesProducersAndSortsFluidsScaled(t *testing.T) {
	// Arrange
	f := newFixture(t)
	page := newPage("flow")
	table := page.Content()
	fast := f.row(table, "iron-plate")
	fast.SetFixedBuildings(3.2)
	slow := f.row(table, "iron-plate-slow")
	slow.SetFixedBuildings(2)
	pump := f.row(table, "pump")
	pump.SetFixedBuildings(1)

	// Act
	message, err := newSolver().Solve(context.Background(), page)

	// Assert
	require.NoError(t, err)
	assert.Empty(t, message)
	flow := table.Flow()
	require.Len(t, flow, 3)
	assert.Equal(t, f.goods("iron-ore"), flow[0].Goods)
	assert.InDelta(t, -5, flow[0].Amount, eps)
	assert.Equal(t, f.goods("iron-plate"), flow[1].Goods)
	assert.InDelta(t, 3, flow[1].Amount, eps)
	assert.Equal(t, f.goods("water"), flow[2].Goods)
	assert.InDelta(t, 1200, flow[2].Amount, eps)
}

func TestFlowAggregator_UnmatchedChildMarksParentLink(t *testing.T) {
	// Arrange
	f := newFixture(t)
	root := production.NewProductionTable()
	parentLink := f.link(root, "iron-plate", 0)
	header := f.row(root, "gear")
	sub := header.EnsureSubgroup()
	childLink := f.link(sub, "iron-plate", 0)
	plate := f.row(sub, "iron-plate")
	header.SetRecipesPerSecond(1)
	plate.SetRecipesPerSecond(3)
	childLink.State().MarkNotMatched()

	// Act
	services.NewFlowAggregator().CalculateFlow(root, nil)

	// Assert
	assert.True(t, parentLink.Flags().Has(production.LinkChildNotMatched))
	var plateEntry *production.FlowEntry
	for i := range sub.Flow() {
		if sub.Flow()[i].Goods == f.goods("iron-plate") {
			plateEntry = &sub.Flow()[i]
		}
	}
	require.NotNil(t, plateEntry)
	assert.InDelta(t, 1, plateEntry.Amount, eps)
	assert.Same(t, childLink, plateEntry.Link)
}

func TestFlowAggregator_SkipsDisabledRows(t *testing.T) {
	// Arrange
	f := newFixture(t)
	root := production.NewProductionTable()
	row := f.row(root, "iron-plate")
	row.SetRecipesPerSecond(2)
	row.SetEnabled(false)

	// Act
	services.NewFlowAggregator().CalculateFlow(root, nil)

	// Assert
	assert.Empty(t, root.Flow())
}

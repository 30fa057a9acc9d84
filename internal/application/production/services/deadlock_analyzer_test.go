package services_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andrescamacho/factoryplanner-go/internal/application/production/services"
	"github.com/andrescamacho/factoryplanner-go/internal/domain/production"
)

func buildIndexed(root *production.ProductionTable) *services.Network {
	network := services.NewNetworkBuilder().Build(root)
	for i, link := range network.Links {
		link.BeginSolve(i)
	}
	return network
}

func TestFindInfeasibilityCandidates_LoopYieldsLastLink(t *testing.T) {
	// Arrange
	f := newFixture(t)
	root := production.NewProductionTable()
	f.link(root, "alpha", 1)
	beta := f.link(root, "beta", 0)
	f.row(root, "alpha")
	f.row(root, "beta")
	network := buildIndexed(root)

	// Act
	candidates := services.FindInfeasibilityCandidates(network)

	// Assert
	require.Len(t, candidates.Deadlocks, 1)
	assert.Same(t, beta, candidates.Deadlocks[0])
	assert.Empty(t, candidates.Splits)
}

func TestFindInfeasibilityCandidates_MultiProductRecipeSplits(t *testing.T) {
	// Arrange
	f := newFixture(t)
	root := production.NewProductionTable()
	plate := f.link(root, "iron-plate", 1)
	gear := f.link(root, "gear", 1)
	f.link(root, "iron-ore", -1)
	f.row(root, "scrap")
	network := buildIndexed(root)

	// Act
	candidates := services.FindInfeasibilityCandidates(network)

	// Assert
	assert.Empty(t, candidates.Deadlocks)
	assert.Equal(t, []*production.ProductionLink{plate, gear}, candidates.Splits)
}

func TestFindInfeasibilityCandidates_AcyclicChainHasNoDeadlocks(t *testing.T) {
	// Arrange
	f := newFixture(t)
	root := production.NewProductionTable()
	f.link(root, "gear", 1)
	f.link(root, "iron-plate", 0)
	f.row(root, "gear")
	f.row(root, "iron-plate")
	network := buildIndexed(root)

	// Act
	candidates := services.FindInfeasibilityCandidates(network)

	// Assert
	assert.Empty(t, candidates.Deadlocks)
	assert.Empty(t, candidates.Splits)
}

package services_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andrescamacho/factoryplanner-go/internal/application/production/services"
	"github.com/andrescamacho/factoryplanner-go/internal/domain/production"
)

func TestNetworkSolver_MatchLinkPinsRecipeRate(t *testing.T) {
	// Arrange
	f := newFixture(t)
	page := newPage("plates")
	table := page.Content()
	link := f.link(table, "iron-plate", 10)
	row := f.row(table, "iron-plate")

	// Act
	message, err := newSolver().Solve(context.Background(), page)

	// Assert
	require.NoError(t, err)
	assert.Empty(t, message)
	assert.InDelta(t, 10, row.RecipesPerSecond(), eps)
	assert.InDelta(t, 32, row.BuildingCount(), eps)
	assert.True(t, link.IsMatched())
	assert.InDelta(t, link.Amount(), link.LinkFlow(), eps)
	assert.True(t, row.Parameters().WarningFlags.Has(production.WarningEntityNotSpecified))
	require.NotNil(t, page.SolvedAt())
	assert.Empty(t, page.LastMessage())
}

func TestNetworkSolver_BurnerFuelShowsInFlow(t *testing.T) {
	// Arrange
	f := newFixture(t)
	page := newPage("smelting")
	table := page.Content()
	f.link(table, "iron-plate", 10)
	row := f.row(table, "iron-plate")
	furnace, err := f.db.FindEntity("furnace")
	require.NoError(t, err)
	row.SetEntity(furnace, f.normal)

	// Act
	message, err := newSolver().Solve(context.Background(), page)

	// Assert
	require.NoError(t, err)
	assert.Empty(t, message)
	assert.InDelta(t, 10, row.RecipesPerSecond(), eps)
	require.Len(t, table.Flow(), 2)
	assert.Equal(t, f.goods("iron-ore"), table.Flow()[0].Goods)
	assert.InDelta(t, -10, table.Flow()[0].Amount, eps)
	assert.Equal(t, f.goods("coal"), table.Flow()[1].Goods)
	assert.InDelta(t, -0.72, table.Flow()[1].Amount, eps)
}

func TestNetworkSolver_MatchedLinksBalance(t *testing.T) {
	// Arrange
	f := newFixture(t)
	page := newPage("gears")
	table := page.Content()
	gearLink := f.link(table, "gear", 2)
	plateLink := f.link(table, "iron-plate", 0)
	gear := f.row(table, "gear")
	plate := f.row(table, "iron-plate")

	// Act
	message, err := newSolver().Solve(context.Background(), page)

	// Assert
	require.NoError(t, err)
	assert.Empty(t, message)
	assert.True(t, gearLink.IsMatched())
	assert.True(t, plateLink.IsMatched())
	assert.InDelta(t, 2, gear.RecipesPerSecond(), eps)
	assert.InDelta(t, 4, plate.RecipesPerSecond(), eps)
	produced := plate.RecipesPerSecond()
	consumed := 2 * gear.RecipesPerSecond()
	assert.InDelta(t, plateLink.Amount(), produced-consumed, eps)
	assert.ElementsMatch(t, []*production.RecipeRow{gear, plate}, plateLink.CapturedRows())
}

func TestNetworkSolver_FixedBuildingsAndExceededBuiltCount(t *testing.T) {
	// Arrange
	f := newFixture(t)
	page := newPage("fixed")
	table := page.Content()
	row := f.row(table, "iron-plate")
	row.SetFixedBuildings(6.4)
	built := 5
	row.SetBuiltBuildings(&built)

	// Act
	message, err := newSolver().Solve(context.Background(), page)

	// Assert
	require.NoError(t, err)
	assert.Equal(t, services.MessageExceedsBuiltCount, message)
	assert.InDelta(t, 2, row.RecipesPerSecond(), eps)
	assert.True(t, row.Parameters().WarningFlags.Has(production.WarningExceedsBuiltCount))
	assert.Equal(t, services.MessageExceedsBuiltCount, page.LastMessage())
}

func TestNetworkSolver_LoopWithoutSourceIsDiagnosedAsDeadlock(t *testing.T) {
	// Arrange
	f := newFixture(t)
	page := newPage("loop")
	table := page.Content()
	f.link(table, "alpha", 1)
	betaLink := f.link(table, "beta", 0)
	alpha := f.row(table, "alpha")
	beta := f.row(table, "beta")

	// Act
	message, err := newSolver().Solve(context.Background(), page)

	// Assert
	require.NoError(t, err)
	assert.Empty(t, message)
	assert.True(t, alpha.Parameters().WarningFlags.HasAny(production.WarningDeadlockCandidate|production.WarningOverproductionRequired))
	assert.True(t, beta.Parameters().WarningFlags.HasAny(production.WarningDeadlockCandidate|production.WarningOverproductionRequired))
	assert.False(t, betaLink.IsMatched())
	assert.Equal(t, production.LinkStateDiagnosed, betaLink.State().State())
	assert.NotZero(t, betaLink.NotMatchedFlow())
}

func TestNetworkSolver_UnpinnedLoopSolvesToZero(t *testing.T) {
	// Arrange
	f := newFixture(t)
	page := newPage("idle-loop")
	table := page.Content()
	alphaLink := f.link(table, "alpha", 0)
	betaLink := f.link(table, "beta", 0)
	alpha := f.row(table, "alpha")
	beta := f.row(table, "beta")

	// Act
	message, err := newSolver().Solve(context.Background(), page)

	// Assert
	require.NoError(t, err)
	assert.Empty(t, message)
	assert.InDelta(t, 0, alpha.RecipesPerSecond(), eps)
	assert.InDelta(t, 0, beta.RecipesPerSecond(), eps)
	assert.True(t, alphaLink.IsMatched())
	assert.True(t, betaLink.IsMatched())
	assert.Zero(t, betaLink.NotMatchedFlow())
	diagnosis := production.WarningDeadlockCandidate | production.WarningOverproductionRequired
	assert.False(t, alpha.Parameters().WarningFlags.HasAny(diagnosis))
	assert.False(t, beta.Parameters().WarningFlags.HasAny(diagnosis))
}

func TestNetworkSolver_UnusedLinkIsRemoved(t *testing.T) {
	// Arrange
	f := newFixture(t)
	page := newPage("prune")
	table := page.Content()
	f.link(table, "iron-plate", 1)
	unused := f.link(table, "coal", 0)
	f.row(table, "iron-plate")

	// Act
	_, err := newSolver().Solve(context.Background(), page)

	// Assert
	require.NoError(t, err)
	assert.NotContains(t, table.Links(), unused)
	assert.False(t, unused.IsMatched())
}

func TestNetworkSolver_OneSidedLinkIsRelaxedAndNotMatched(t *testing.T) {
	// Arrange
	f := newFixture(t)
	page := newPage("one-sided")
	table := page.Content()
	f.link(table, "gear", 1)
	oreLink := f.link(table, "iron-plate", 0)
	f.row(table, "gear")

	// Act
	message, err := newSolver().Solve(context.Background(), page)

	// Assert
	require.NoError(t, err)
	assert.Empty(t, message)
	assert.Contains(t, table.Links(), oreLink)
	assert.False(t, oreLink.IsMatched())
	assert.True(t, oreLink.Flags().Has(production.LinkHasConsumption))
}

func TestNetworkSolver_SinglePercentageFlipsLinkToOverProduction(t *testing.T) {
	// Arrange
	f := newFixture(t)
	page := newPage("percentage")
	table := page.Content()
	f.link(table, "gear", 1)
	plateLink := f.link(table, "iron-plate", 0)
	gear := f.row(table, "gear")
	plate := f.row(table, "iron-plate")
	require.NoError(t, gear.SetConsumptionPercentage(f.goods("iron-plate"), 0.5))

	// Act
	message, err := newSolver().Solve(context.Background(), page)

	// Assert
	require.NoError(t, err)
	assert.Empty(t, message)
	assert.Equal(t, production.LinkAllowOverProduction, plateLink.Algorithm())
	assert.InDelta(t, 1, gear.RecipesPerSecond(), eps)
	assert.InDelta(t, 4, plate.RecipesPerSecond(), eps)
	assert.InDelta(t, 0.5*plate.RecipesPerSecond(), 2*gear.RecipesPerSecond(), eps)
}

func TestNetworkSolver_SharedPercentagesKeepProportion(t *testing.T) {
	// Arrange
	f := newFixture(t)
	page := newPage("proportion")
	table := page.Content()
	f.link(table, "gear", 1)
	plateLink := f.link(table, "iron-plate", 0)
	gear := f.row(table, "gear")
	rod := f.row(table, "rod")
	f.row(table, "iron-plate")
	require.NoError(t, gear.SetConsumptionPercentage(f.goods("iron-plate"), 0.4))
	require.NoError(t, rod.SetConsumptionPercentage(f.goods("iron-plate"), 0.2))

	// Act
	message, err := newSolver().Solve(context.Background(), page)

	// Assert
	require.NoError(t, err)
	assert.Empty(t, message)
	assert.Equal(t, production.LinkMatch, plateLink.Algorithm())
	r1, r2 := gear.RecipesPerSecond(), rod.RecipesPerSecond()
	assert.InDelta(t, 2*r1*0.2, 1*r2*0.4, eps)
	assert.InDelta(t, 1, r2, eps)
}

func TestNetworkSolver_ZeroPercentageStopsConsumption(t *testing.T) {
	// Arrange
	f := newFixture(t)
	page := newPage("zero")
	table := page.Content()
	f.link(table, "iron-plate", 0)
	gear := f.row(table, "gear")
	plate := f.row(table, "iron-plate")
	plate.SetFixedBuildings(3.2)
	require.NoError(t, gear.SetConsumptionPercentage(f.goods("iron-plate"), 0))

	// Act
	_, err := newSolver().Solve(context.Background(), page)

	// Assert
	require.NoError(t, err)
	assert.InDelta(t, 0, gear.RecipesPerSecond(), eps)
}

func TestNetworkSolver_FullPercentageIsUnconstrained(t *testing.T) {
	// Arrange
	f := newFixture(t)
	page := newPage("full")
	table := page.Content()
	f.link(table, "gear", 1)
	plateLink := f.link(table, "iron-plate", 0)
	gear := f.row(table, "gear")
	f.row(table, "iron-plate")
	require.NoError(t, gear.SetConsumptionPercentage(f.goods("iron-plate"), 0.5))
	require.NoError(t, gear.SetConsumptionPercentage(f.goods("iron-plate"), 1))

	// Act
	_, err := newSolver().Solve(context.Background(), page)

	// Assert
	require.NoError(t, err)
	assert.Empty(t, gear.ConsumptionPercentages())
	assert.Equal(t, production.LinkMatch, plateLink.Algorithm())
	assert.True(t, plateLink.IsMatched())
}

func TestNetworkSolver_NestedGroupResolvesLinksInside(t *testing.T) {
	// Arrange
	f := newFixture(t)
	page := newPage("nested")
	root := page.Content()
	f.link(root, "gear", 1)
	header := f.row(root, "gear")
	subgroup := header.EnsureSubgroup()
	innerLink := f.link(subgroup, "iron-plate", 0)
	plate := f.row(subgroup, "iron-plate")

	// Act
	message, err := newSolver().Solve(context.Background(), page)

	// Assert
	require.NoError(t, err)
	assert.Empty(t, message)
	assert.InDelta(t, 1, header.RecipesPerSecond(), eps)
	assert.InDelta(t, 2, plate.RecipesPerSecond(), eps)
	assert.True(t, innerLink.IsMatched())
	require.Len(t, root.Flow(), 1)
	assert.Equal(t, f.goods("iron-ore"), root.Flow()[0].Goods)
	assert.InDelta(t, -2, root.Flow()[0].Amount, eps)
}

func TestNetworkSolver_DisabledRowContributesNothing(t *testing.T) {
	// Arrange
	f := newFixture(t)
	page := newPage("disabled")
	root := page.Content()
	f.link(root, "gear", 1)
	f.row(root, "gear")
	disabled := f.row(root, "scrap")
	nested := disabled.EnsureSubgroup()
	nestedLink := f.link(nested, "iron-ore", 0)
	f.row(root, "iron-plate")
	f.link(root, "iron-plate", 0)
	disabled.SetEnabled(false)
	disabled.SetRecipesPerSecond(3)

	// Act
	message, err := newSolver().Solve(context.Background(), page)

	// Assert
	require.NoError(t, err)
	assert.Empty(t, message)
	assert.Zero(t, disabled.RecipesPerSecond())
	assert.False(t, nestedLink.IsMatched())
}

func TestNetworkSolver_RejectsNilPage(t *testing.T) {
	// Act
	_, err := newSolver().Solve(context.Background(), nil)

	// Assert
	assert.Error(t, err)
}

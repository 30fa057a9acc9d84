package services_test

import (
	"context"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andrescamacho/factoryplanner-go/internal/adapters/lp"
	"github.com/andrescamacho/factoryplanner-go/internal/application/common"
	"github.com/andrescamacho/factoryplanner-go/internal/application/costing/services"
	"github.com/andrescamacho/factoryplanner-go/internal/domain/catalog"
	"github.com/andrescamacho/factoryplanner-go/internal/domain/production"
	"github.com/andrescamacho/factoryplanner-go/internal/domain/shared"
)

const eps = 1e-6

func newEstimator() *services.CostEstimator {
	clock := shared.NewMockClock(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC))
	return services.NewCostEstimator(clock, lp.WithSeed(7))
}

func ironCatalog(t *testing.T) *catalog.Database {
	t.Helper()
	db, err := catalog.NewBuilder().
		Goods(
			catalog.GoodsSpec{Name: "iron-ore", Automatable: true, AccessibleNow: true},
			catalog.GoodsSpec{Name: "iron-plate", Automatable: true, AccessibleNow: true},
		).
		Entity(
			catalog.EntitySpec{Name: "iron-ore-patch", MapGenerated: true, MapGenDensity: 5000, Automatable: true},
			catalog.EntitySpec{Name: "furnace", Size: 2, CraftingSpeed: 1, Automatable: true},
		).
		Recipe(
			catalog.RecipeSpec{
				Name: "mine-iron-ore", Kind: catalog.RecipeKindMechanics, Time: 1,
				Products:           []catalog.ProductSpec{{Goods: "iron-ore", Amount: 1}},
				SourceEntity:       "iron-ore-patch",
				MiningProductivity: true,
				Automatable:        true, AccessibleNow: true,
			},
			catalog.RecipeSpec{
				Name: "iron-plate", Time: 3.2,
				Ingredients: []catalog.IngredientSpec{{Goods: "iron-ore", Amount: 1}},
				Products:    []catalog.ProductSpec{{Goods: "iron-plate", Amount: 1}},
				Crafters:    []string{"furnace"},
				Automatable: true, AccessibleNow: true,
			},
		).
		Build()
	require.NoError(t, err)
	return db
}

func TestCostEstimator_SingleSmeltingChain(t *testing.T) {
	// Arrange
	db := ironCatalog(t)
	estimator := newEstimator()
	ore, _ := db.FindGoods("iron-ore")
	plate, _ := db.FindGoods("iron-plate")
	smelting, _ := db.FindRecipe("iron-plate")

	// Act
	analysis, err := estimator.Compute(context.Background(), db, nil, false, common.NewErrorCollector())

	// Assert
	require.NoError(t, err)
	require.True(t, analysis.Solved)
	assert.Less(t, analysis.CostOf(ore), analysis.CostOf(plate))
	assert.InDelta(t, 0, analysis.WasteOf(smelting), eps)
	assert.Greater(t, analysis.RecipeCost[smelting], 0.0)
	assert.Greater(t, analysis.Flow[smelting], 0.0)
	assert.Same(t, analysis, estimator.Latest(false))
	assert.Nil(t, estimator.Latest(true))
}

func TestCostEstimator_RecipesStayWithinLogisticsCost(t *testing.T) {
	// Arrange
	db := ironCatalog(t)

	// Act
	analysis, err := newEstimator().Compute(context.Background(), db, nil, false, nil)

	// Assert
	require.NoError(t, err)
	require.True(t, analysis.Solved)
	for _, recipe := range db.Recipes() {
		value := 0.0
		for _, product := range recipe.Products() {
			value += product.Average() * analysis.CostOf(product.Goods)
		}
		assert.LessOrEqual(t, value, analysis.CostOf(recipe)+eps, recipe.Name())
	}
}

// burnerCatalog smelts plates in a coal-burning furnace. Both ore and coal are mined.
func burnerCatalog(t *testing.T, smeltingAccessible bool) *catalog.Database {
	t.Helper()
	db, err := catalog.NewBuilder().
		Goods(
			catalog.GoodsSpec{Name: "iron-ore", Automatable: true, AccessibleNow: true},
			catalog.GoodsSpec{Name: "coal", FuelValue: 4, Automatable: true, AccessibleNow: true},
			catalog.GoodsSpec{Name: "iron-plate", Automatable: true, AccessibleNow: true},
		).
		Entity(
			catalog.EntitySpec{Name: "iron-ore-patch", MapGenerated: true, MapGenDensity: 5000, Automatable: true},
			catalog.EntitySpec{Name: "coal-patch", MapGenerated: true, MapGenDensity: 5000, Automatable: true},
			catalog.EntitySpec{Name: "furnace", Size: 2, CraftingSpeed: 1, BasePower: 0.09, Automatable: true,
				Energy: catalog.EnergySpec{Type: catalog.EnergyBurner, Fuels: []string{"coal"}, Effectivity: 1}},
		).
		Recipe(
			catalog.RecipeSpec{Name: "mine-iron-ore", Kind: catalog.RecipeKindMechanics, Time: 1,
				Products: []catalog.ProductSpec{{Goods: "iron-ore", Amount: 1}}, SourceEntity: "iron-ore-patch",
				MiningProductivity: true, Automatable: true, AccessibleNow: true},
			catalog.RecipeSpec{Name: "mine-coal", Kind: catalog.RecipeKindMechanics, Time: 1,
				Products: []catalog.ProductSpec{{Goods: "coal", Amount: 1}}, SourceEntity: "coal-patch",
				MiningProductivity: true, Automatable: true, AccessibleNow: true},
			catalog.RecipeSpec{Name: "iron-plate", Time: 3.2,
				Ingredients: []catalog.IngredientSpec{{Goods: "iron-ore", Amount: 1}},
				Products:    []catalog.ProductSpec{{Goods: "iron-plate", Amount: 1}},
				Crafters:    []string{"furnace"},
				Automatable: true, AccessibleNow: smeltingAccessible},
		).
		Build()
	require.NoError(t, err)
	return db
}

func TestCostEstimator_BurnerRecipesIncludeFuelInRecipeCost(t *testing.T) {
	// Arrange
	db := burnerCatalog(t, true)
	smelting, _ := db.FindRecipe("iron-plate")
	coal, _ := db.FindGoods("coal")
	fuelPerCraft := 3.2 * 0.09 / 4

	// Act
	analysis, err := newEstimator().Compute(context.Background(), db, nil, false, nil)

	// Assert
	require.NoError(t, err)
	require.True(t, analysis.Solved)
	ore, _ := db.FindGoods("iron-ore")
	expected := analysis.RecipeCost[smelting] + analysis.CostOf(ore) + fuelPerCraft*analysis.CostOf(coal)
	assert.InDelta(t, expected, analysis.CostOf(smelting), eps)

	for _, recipe := range db.Recipes() {
		value := 0.0
		for _, product := range recipe.Products() {
			value += product.Average() * analysis.CostOf(product.Goods)
		}
		assert.LessOrEqual(t, value, analysis.CostOf(recipe)+eps, recipe.Name())
		assert.GreaterOrEqual(t, analysis.WasteOf(recipe), -eps, recipe.Name())
	}
	assert.InDelta(t, 0, analysis.WasteOf(smelting), eps)
}

func TestCostEstimator_InaccessibleRecipePenaltyScalesLogistics(t *testing.T) {
	// Arrange
	db := burnerCatalog(t, false)
	smelting, _ := db.FindRecipe("iron-plate")
	mining, _ := db.FindRecipe("mine-iron-ore")
	settings := production.DefaultSettings()
	settings.InaccessibleRecipePenalty = 3
	project := production.NewProject("main", settings)

	// Act
	plain, err := newEstimator().Compute(context.Background(), db, nil, false, nil)
	require.NoError(t, err)
	penalized, err := newEstimator().Compute(context.Background(), db, project, false, nil)
	require.NoError(t, err)

	// Assert
	assert.InDelta(t, 3*plain.RecipeCost[smelting], penalized.RecipeCost[smelting], eps)
	assert.InDelta(t, plain.RecipeCost[mining], penalized.RecipeCost[mining], eps)
	plate, _ := db.FindGoods("iron-plate")
	assert.Greater(t, penalized.CostOf(plate), plain.CostOf(plate))
}

func TestCostEstimator_EntityCostIsCheapestPlacingItem(t *testing.T) {
	// Arrange
	db, err := catalog.NewBuilder().
		Goods(
			catalog.GoodsSpec{Name: "stone", Automatable: true},
			catalog.GoodsSpec{Name: "furnace-item", Automatable: true},
		).
		Entity(
			catalog.EntitySpec{Name: "rock", MapGenerated: true, MapGenDensity: 4000, Automatable: true},
			catalog.EntitySpec{Name: "furnace", Automatable: true, PlacedBy: []string{"furnace-item"}},
		).
		Recipe(
			catalog.RecipeSpec{Name: "mine-stone", Kind: catalog.RecipeKindMechanics, Time: 1,
				Products: []catalog.ProductSpec{{Goods: "stone", Amount: 1}}, SourceEntity: "rock",
				MiningProductivity: true, Automatable: true},
			catalog.RecipeSpec{Name: "furnace-item", Time: 0.5,
				Ingredients: []catalog.IngredientSpec{{Goods: "stone", Amount: 5}},
				Products:    []catalog.ProductSpec{{Goods: "furnace-item", Amount: 1}},
				Automatable: true},
		).
		Build()
	require.NoError(t, err)
	furnace, _ := db.FindEntity("furnace")
	item, _ := db.FindGoods("furnace-item")

	// Act
	analysis, err := newEstimator().Compute(context.Background(), db, nil, false, nil)

	// Assert
	require.NoError(t, err)
	require.True(t, analysis.Solved)
	assert.InDelta(t, analysis.CostOf(item), analysis.CostOf(furnace), eps)
}

func TestCostEstimator_FluidTemperatureMonotonicity(t *testing.T) {
	// Arrange
	db, err := catalog.NewBuilder().
		Goods(
			catalog.GoodsSpec{Name: "water", Kind: catalog.GoodsKindFluid, Automatable: true},
			catalog.GoodsSpec{Name: "steam-165", Kind: catalog.GoodsKindFluid, Temperature: 165, VariantOf: "steam", Automatable: true},
			catalog.GoodsSpec{Name: "steam-500", Kind: catalog.GoodsKindFluid, Temperature: 500, VariantOf: "steam", Automatable: true},
		).
		Entity(catalog.EntitySpec{Name: "lake", MapGenerated: true, MapGenDensity: 1e6, Automatable: true}).
		Recipe(
			catalog.RecipeSpec{Name: "pump-water", Kind: catalog.RecipeKindMechanics, Time: 1,
				Products: []catalog.ProductSpec{{Goods: "water", Amount: 1200}}, SourceEntity: "lake",
				MiningProductivity: true, Automatable: true},
			catalog.RecipeSpec{Name: "boil-slow", Time: 30,
				Ingredients: []catalog.IngredientSpec{{Goods: "water", Amount: 60}},
				Products:    []catalog.ProductSpec{{Goods: "steam-165", Amount: 60}},
				Automatable: true},
			catalog.RecipeSpec{Name: "exchange-fast", Time: 1,
				Ingredients: []catalog.IngredientSpec{{Goods: "water", Amount: 100}},
				Products:    []catalog.ProductSpec{{Goods: "steam-500", Amount: 100}},
				Automatable: true},
		).
		Build()
	require.NoError(t, err)
	require.Len(t, db.FluidVariants(), 1)

	// Act
	analysis, err := newEstimator().Compute(context.Background(), db, nil, false, nil)

	// Assert
	require.NoError(t, err)
	require.True(t, analysis.Solved)
	chain := db.FluidVariants()[0].Variants
	for i := 1; i < len(chain); i++ {
		assert.LessOrEqual(t, analysis.CostOf(chain[i-1]), analysis.CostOf(chain[i])+eps)
	}
}

func TestCostEstimator_MiscSourceMonotonicity(t *testing.T) {
	// Arrange
	db, err := catalog.NewBuilder().
		Goods(
			catalog.GoodsSpec{Name: "ore", Automatable: true},
			catalog.GoodsSpec{Name: "crushed-ore", Automatable: true},
			catalog.GoodsSpec{Name: "scrap", MiscSources: []string{"crushed-ore"}, Automatable: true},
		).
		Entity(catalog.EntitySpec{Name: "patch", MapGenerated: true, MapGenDensity: 3000, Automatable: true}).
		Recipe(
			catalog.RecipeSpec{Name: "mine-ore", Kind: catalog.RecipeKindMechanics, Time: 1,
				Products: []catalog.ProductSpec{{Goods: "ore", Amount: 1}}, SourceEntity: "patch",
				MiningProductivity: true, Automatable: true},
			catalog.RecipeSpec{Name: "crush", Time: 1,
				Ingredients: []catalog.IngredientSpec{{Goods: "ore", Amount: 1}},
				Products:    []catalog.ProductSpec{{Goods: "crushed-ore", Amount: 1}},
				Automatable: true},
			catalog.RecipeSpec{Name: "salvage", Time: 40,
				Ingredients: []catalog.IngredientSpec{{Goods: "ore", Amount: 10}},
				Products:    []catalog.ProductSpec{{Goods: "scrap", Amount: 1}},
				Automatable: true},
		).
		Build()
	require.NoError(t, err)
	scrap, _ := db.FindGoods("scrap")
	crushed, _ := db.FindGoods("crushed-ore")

	// Act
	analysis, err := newEstimator().Compute(context.Background(), db, nil, false, nil)

	// Assert
	require.NoError(t, err)
	require.True(t, analysis.Solved)
	assert.LessOrEqual(t, analysis.CostOf(scrap), analysis.CostOf(crushed)+eps)
}

func TestCostEstimator_MilestoneScopeExcludesInaccessibleObjects(t *testing.T) {
	// Arrange
	db, err := catalog.NewBuilder().
		Goods(
			catalog.GoodsSpec{Name: "iron-ore", Automatable: true, AccessibleNow: true},
			catalog.GoodsSpec{Name: "steel", Automatable: true},
		).
		Entity(catalog.EntitySpec{Name: "patch", MapGenerated: true, MapGenDensity: 5000, Automatable: true}).
		Recipe(
			catalog.RecipeSpec{Name: "mine", Kind: catalog.RecipeKindMechanics, Time: 1,
				Products: []catalog.ProductSpec{{Goods: "iron-ore", Amount: 1}}, SourceEntity: "patch",
				MiningProductivity: true, Automatable: true, AccessibleNow: true},
			catalog.RecipeSpec{Name: "steel", Time: 16,
				Ingredients: []catalog.IngredientSpec{{Goods: "iron-ore", Amount: 5}},
				Products:    []catalog.ProductSpec{{Goods: "steel", Amount: 1}},
				Automatable: true},
		).
		Build()
	require.NoError(t, err)
	steel, _ := db.FindGoods("steel")
	steelRecipe, _ := db.FindRecipe("steel")
	ore, _ := db.FindGoods("iron-ore")

	// Act
	analysis, err := newEstimator().Compute(context.Background(), db, nil, true, nil)

	// Assert
	require.NoError(t, err)
	require.True(t, analysis.Solved)
	assert.True(t, analysis.OnlyCurrentMilestones)
	assert.True(t, analysis.IsFinite(ore))
	assert.True(t, math.IsInf(analysis.CostOf(steel), 1))
	assert.True(t, math.IsInf(analysis.CostOf(steelRecipe), 1))
}

func TestCostEstimator_UnboundedCatalogWarnsInFullScope(t *testing.T) {
	// Arrange
	db, err := catalog.NewBuilder().
		Goods(catalog.GoodsSpec{Name: "catalyst", Automatable: true}).
		Recipe(catalog.RecipeSpec{Name: "loop", Time: 1,
			Ingredients: []catalog.IngredientSpec{{Goods: "catalyst", Amount: 1}},
			Products:    []catalog.ProductSpec{{Goods: "catalyst", Amount: 1}},
			Automatable: true}).
		Build()
	require.NoError(t, err)
	catalyst, _ := db.FindGoods("catalyst")
	warnings := common.NewErrorCollector()

	// Act
	analysis, err := newEstimator().Compute(context.Background(), db, nil, false, warnings)

	// Assert
	require.NoError(t, err)
	assert.False(t, analysis.Solved)
	assert.True(t, math.IsInf(analysis.CostOf(catalyst), 1))
	assert.Equal(t, common.SeverityAnalysisWarning, warnings.Severity())
	assert.Len(t, warnings.Errors(), 1)
}

func TestCostEstimator_ImportantItemsRankMultiUseGoods(t *testing.T) {
	// Arrange
	db, err := catalog.NewBuilder().
		Goods(
			catalog.GoodsSpec{Name: "plate", Automatable: true},
			catalog.GoodsSpec{Name: "gear", Automatable: true},
			catalog.GoodsSpec{Name: "rod", Automatable: true},
		).
		Entity(catalog.EntitySpec{Name: "patch", MapGenerated: true, MapGenDensity: 5000, Automatable: true}).
		Recipe(
			catalog.RecipeSpec{Name: "mine-plate", Kind: catalog.RecipeKindMechanics, Time: 1,
				Products: []catalog.ProductSpec{{Goods: "plate", Amount: 1}}, SourceEntity: "patch",
				MiningProductivity: true, Automatable: true},
			catalog.RecipeSpec{Name: "gear", Time: 0.5,
				Ingredients: []catalog.IngredientSpec{{Goods: "plate", Amount: 2}},
				Products:    []catalog.ProductSpec{{Goods: "gear", Amount: 1}},
				Automatable: true},
			catalog.RecipeSpec{Name: "rod", Time: 0.5,
				Ingredients: []catalog.IngredientSpec{{Goods: "plate", Amount: 1}},
				Products:    []catalog.ProductSpec{{Goods: "rod", Amount: 2}},
				Automatable: true},
		).
		Build()
	require.NoError(t, err)
	plate, _ := db.FindGoods("plate")

	// Act
	analysis, err := newEstimator().Compute(context.Background(), db, nil, false, nil)

	// Assert
	require.NoError(t, err)
	require.Len(t, analysis.ImportantItems, 1)
	assert.Same(t, plate, analysis.ImportantItems[0])
}

func TestCostRefresher_ThrottlesRepeatedRefreshes(t *testing.T) {
	// Arrange
	db := ironCatalog(t)
	refresher := services.NewCostRefresher(newEstimator(), time.Hour, 1)

	// Act
	full, milestone, refreshed, err := refresher.Refresh(context.Background(), db, nil, nil)
	again, againMilestone, refreshedAgain, errAgain := refresher.Refresh(context.Background(), db, nil, nil)

	// Assert
	require.NoError(t, err)
	require.NoError(t, errAgain)
	assert.True(t, refreshed)
	assert.False(t, refreshedAgain)
	assert.Same(t, full, again)
	assert.Same(t, milestone, againMilestone)
}

func TestCostRefresher_RecomputesWhenTheCatalogChanges(t *testing.T) {
	// Arrange
	first := ironCatalog(t)
	second := ironCatalog(t)
	refresher := services.NewCostRefresher(newEstimator(), time.Hour, 1)
	_, _, refreshed, err := refresher.Refresh(context.Background(), first, nil, nil)
	require.NoError(t, err)
	require.True(t, refreshed)

	// Act
	full, milestone, refreshedAgain, err := refresher.Refresh(context.Background(), second, nil, nil)

	// Assert
	require.NoError(t, err)
	assert.True(t, refreshedAgain)
	assert.Same(t, second, full.Catalog)
	assert.Same(t, second, milestone.Catalog)
	plate, _ := second.FindGoods("iron-plate")
	assert.True(t, full.IsFinite(plate))
}

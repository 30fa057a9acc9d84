package catalog_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andrescamacho/factoryplanner-go/internal/domain/catalog"
	"github.com/andrescamacho/factoryplanner-go/internal/domain/shared"
)

func plateBuilder() *catalog.Builder {
	return catalog.NewBuilder().
		Goods(
			catalog.GoodsSpec{Name: "iron-ore", Automatable: true},
			catalog.GoodsSpec{Name: "iron-plate", Automatable: true},
			catalog.GoodsSpec{Name: "gear", Automatable: true},
		).
		Entity(catalog.EntitySpec{Name: "furnace", Size: 2, CraftingSpeed: 1, Automatable: true}).
		Recipe(
			catalog.RecipeSpec{Name: "iron-plate", Time: 3.2,
				Ingredients: []catalog.IngredientSpec{{Goods: "iron-ore", Amount: 1}},
				Products:    []catalog.ProductSpec{{Goods: "iron-plate", Amount: 1}},
				Crafters:    []string{"furnace"}},
			catalog.RecipeSpec{Name: "gear", Time: 0.5,
				Ingredients: []catalog.IngredientSpec{{Goods: "iron-plate", Amount: 2}},
				Products:    []catalog.ProductSpec{{Goods: "gear", Amount: 1}}},
		)
}

func TestBuild_ComputesAdjacency(t *testing.T) {
	// Act
	db, err := plateBuilder().Build()

	// Assert
	require.NoError(t, err)
	plate, err := db.FindGoods("iron-plate")
	require.NoError(t, err)
	plateRecipe, err := db.FindRecipe("iron-plate")
	require.NoError(t, err)
	gearRecipe, err := db.FindRecipe("gear")
	require.NoError(t, err)
	furnace, err := db.FindEntity("furnace")
	require.NoError(t, err)

	assert.Equal(t, []*catalog.Recipe{plateRecipe}, plate.Production())
	assert.Equal(t, []*catalog.Recipe{gearRecipe}, plate.Usages())
	assert.Equal(t, []*catalog.Recipe{plateRecipe}, furnace.Recipes())
	assert.True(t, plateRecipe.CanCraftIn(furnace))
}

func TestBuild_AddsSpecialGoodsAndDefaultQuality(t *testing.T) {
	// Act
	db, err := plateBuilder().Build()

	// Assert
	require.NoError(t, err)
	require.NotNil(t, db.Electricity())
	assert.Equal(t, catalog.GoodsKindSpecial, db.Electricity().Kind())
	assert.True(t, db.IsEnergy(db.Electricity()))
	assert.Zero(t, db.VoidEnergy().FuelValue())
	assert.Equal(t, "normal", db.NormalQuality().Name())
}

func TestBuild_DefaultsKindsAndProbability(t *testing.T) {
	// Act
	db, err := plateBuilder().Build()

	// Assert
	require.NoError(t, err)
	ore, _ := db.FindGoods("iron-ore")
	recipe, _ := db.FindRecipe("iron-plate")
	assert.Equal(t, catalog.GoodsKindItem, ore.Kind())
	assert.Equal(t, catalog.RecipeKindRecipe, recipe.Kind())
	assert.Equal(t, 1.0, recipe.Products()[0].Probability)
	assert.Equal(t, 1.0, recipe.BaseCost())
}

func TestBuild_DropsNonPositiveAmounts(t *testing.T) {
	// Arrange
	builder := plateBuilder().Recipe(catalog.RecipeSpec{Name: "scrap", Time: 1,
		Ingredients: []catalog.IngredientSpec{{Goods: "gear", Amount: 1}, {Goods: "iron-ore", Amount: 0}},
		Products:    []catalog.ProductSpec{{Goods: "iron-plate", Amount: -1}, {Goods: "iron-ore", Amount: 2}}})

	// Act
	db, err := builder.Build()

	// Assert
	require.NoError(t, err)
	scrap, _ := db.FindRecipe("scrap")
	require.Len(t, scrap.Ingredients(), 1)
	require.Len(t, scrap.Products(), 1)
	assert.Equal(t, "iron-ore", scrap.Products()[0].Goods.Name())
	assert.Equal(t, 2.0, scrap.ProductionPerRecipe(scrap.Products()[0].Goods))
}

func TestBuild_RejectsDuplicateNames(t *testing.T) {
	// Arrange
	builder := plateBuilder().Goods(catalog.GoodsSpec{Name: "gear"})

	// Act
	_, err := builder.Build()

	// Assert
	var dup *shared.DuplicateObjectError
	require.True(t, errors.As(err, &dup))
	assert.Equal(t, "goods", dup.Kind)
	assert.Equal(t, "gear", dup.Name)
}

func TestBuild_RejectsUnknownReferences(t *testing.T) {
	// Arrange
	builder := plateBuilder().Recipe(catalog.RecipeSpec{Name: "wire",
		Ingredients: []catalog.IngredientSpec{{Goods: "copper-plate", Amount: 1}}})

	// Act
	_, err := builder.Build()

	// Assert
	var unknown *shared.UnknownObjectError
	require.True(t, errors.As(err, &unknown))
	assert.Equal(t, "copper-plate", unknown.Name)
	assert.Contains(t, err.Error(), "recipe wire")
}

func TestBuild_RequiresNormalQuality(t *testing.T) {
	// Arrange
	builder := plateBuilder().Quality(catalog.QualitySpec{Name: "rare", Level: 2})

	// Act
	_, err := builder.Build()

	// Assert
	var validation *shared.ValidationError
	require.True(t, errors.As(err, &validation))
	assert.Equal(t, "qualities", validation.Field)
}

func TestBuild_ChainsQualitiesByLevel(t *testing.T) {
	// Arrange
	builder := plateBuilder().
		Quality(catalog.QualitySpec{Name: "uncommon", Level: 1}).
		Quality(catalog.QualitySpec{Name: "normal", Level: 0})

	// Act
	db, err := builder.Build()

	// Assert
	require.NoError(t, err)
	normal := db.NormalQuality()
	uncommon, err := db.Quality("uncommon")
	require.NoError(t, err)
	assert.Same(t, uncommon, normal.Next())
	assert.Same(t, normal, uncommon.Normal())
	assert.True(t, normal.Less(uncommon))
}

package persistence_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andrescamacho/factoryplanner-go/internal/domain/catalog"
	"github.com/andrescamacho/factoryplanner-go/test/helpers"
)

func TestCatalogRepository_SaveAndLoad(t *testing.T) {
	// Arrange
	repos := helpers.NewTestRepositories(t)
	ctx := context.Background()

	// Act
	err := repos.CatalogRepo.Save(ctx, "base", helpers.SmeltingCatalog())
	require.NoError(t, err)
	db, err := repos.CatalogRepo.Load(ctx, "base")

	// Assert
	require.NoError(t, err)
	plate, err := db.FindRecipe("iron-plate")
	require.NoError(t, err)
	assert.InDelta(t, 3.2, plate.Time(), 1e-9)
	require.Len(t, plate.Crafters(), 1)
	assert.Equal(t, "furnace", plate.Crafters()[0].Name())
	assert.Len(t, db.Qualities(), 2)
}

func TestCatalogRepository_SaveReplacesPreviousVersion(t *testing.T) {
	// Arrange
	repos := helpers.NewTestRepositories(t)
	ctx := context.Background()
	doc := helpers.SmeltingCatalog()
	require.NoError(t, repos.CatalogRepo.Save(ctx, "base", doc))

	doc.Version = 2
	doc.Goods = append(doc.Goods, catalog.GoodsSpec{Name: "copper-ore", Automatable: true})

	// Act
	err := repos.CatalogRepo.Save(ctx, "base", doc)

	// Assert
	require.NoError(t, err)
	db, err := repos.CatalogRepo.Load(ctx, "base")
	require.NoError(t, err)
	_, err = db.FindGoods("copper-ore")
	assert.NoError(t, err)
	assert.Equal(t, 2, db.Document().Version)
}

func TestCatalogRepository_RejectsInvalidDocument(t *testing.T) {
	// Arrange
	repos := helpers.NewTestRepositories(t)
	doc := helpers.SmeltingCatalog()
	doc.Recipes = append(doc.Recipes, catalog.RecipeSpec{
		Name:     "broken",
		Time:     1,
		Products: []catalog.ProductSpec{{Goods: "unobtainium", Amount: 1}},
	})

	// Act
	err := repos.CatalogRepo.Save(context.Background(), "broken", doc)

	// Assert
	require.Error(t, err)
	names, listErr := repos.CatalogRepo.List(context.Background())
	require.NoError(t, listErr)
	assert.Empty(t, names)
}

func TestCatalogRepository_LoadUnknownCatalog(t *testing.T) {
	// Arrange
	repos := helpers.NewTestRepositories(t)

	// Act
	_, err := repos.CatalogRepo.Load(context.Background(), "missing")

	// Assert
	require.Error(t, err)
	assert.Contains(t, err.Error(), "catalog not found: missing")
}

func TestCatalogRepository_ListIsSorted(t *testing.T) {
	// Arrange
	repos := helpers.NewTestRepositories(t)
	ctx := context.Background()
	require.NoError(t, repos.CatalogRepo.Save(ctx, "zeta", helpers.SmeltingCatalog()))
	require.NoError(t, repos.CatalogRepo.Save(ctx, "alpha", helpers.SmeltingCatalog()))

	// Act
	names, err := repos.CatalogRepo.List(ctx)

	// Assert
	require.NoError(t, err)
	assert.Equal(t, []string{"alpha", "zeta"}, names)
}

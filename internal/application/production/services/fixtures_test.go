package services_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/andrescamacho/factoryplanner-go/internal/adapters/lp"
	"github.com/andrescamacho/factoryplanner-go/internal/application/production/services"
	"github.com/andrescamacho/factoryplanner-go/internal/domain/catalog"
	"github.com/andrescamacho/factoryplanner-go/internal/domain/production"
	"github.com/andrescamacho/factoryplanner-go/internal/domain/shared"
)

const eps = 1e-6

type fixture struct {
	t      *testing.T
	db     *catalog.Database
	normal *catalog.Quality
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db, err := catalog.NewBuilder().
		Quality(catalog.QualitySpec{Name: "normal", Level: 0}).
		Quality(catalog.QualitySpec{Name: "uncommon", Level: 1}).
		Goods(
			catalog.GoodsSpec{Name: "iron-ore", Automatable: true},
			catalog.GoodsSpec{Name: "iron-plate", Automatable: true},
			catalog.GoodsSpec{Name: "gear", Automatable: true},
			catalog.GoodsSpec{Name: "rod", Automatable: true},
			catalog.GoodsSpec{Name: "alpha", Automatable: true},
			catalog.GoodsSpec{Name: "beta", Automatable: true},
			catalog.GoodsSpec{Name: "coal", FuelValue: 4, Automatable: true},
			catalog.GoodsSpec{Name: "water", Kind: catalog.GoodsKindFluid, Automatable: true},
			catalog.GoodsSpec{Name: "red-science", SciencePack: true, Automatable: true},
		).
		Entity(
			catalog.EntitySpec{Name: "assembler", CraftingSpeed: 0.5, BasePower: 0.1,
				Energy: catalog.EnergySpec{Type: catalog.EnergyElectric}, Automatable: true},
			catalog.EntitySpec{Name: "furnace", CraftingSpeed: 1, BasePower: 0.09,
				Energy: catalog.EnergySpec{Type: catalog.EnergyBurner, Fuels: []string{"coal"}, Effectivity: 1}, Automatable: true},
		).
		Recipe(
			catalog.RecipeSpec{Name: "iron-plate", Time: 3.2,
				Ingredients: []catalog.IngredientSpec{{Goods: "iron-ore", Amount: 1}},
				Products:    []catalog.ProductSpec{{Goods: "iron-plate", Amount: 1}},
				Crafters:    []string{"furnace"}, Automatable: true},
			catalog.RecipeSpec{Name: "iron-plate-slow", Time: 1,
				Ingredients: []catalog.IngredientSpec{{Goods: "iron-ore", Amount: 2}},
				Products:    []catalog.ProductSpec{{Goods: "iron-plate", Amount: 1}},
				Automatable: true},
			catalog.RecipeSpec{Name: "gear", Time: 0.5,
				Ingredients: []catalog.IngredientSpec{{Goods: "iron-plate", Amount: 2}},
				Products:    []catalog.ProductSpec{{Goods: "gear", Amount: 1}},
				Crafters:    []string{"assembler"}, Automatable: true},
			catalog.RecipeSpec{Name: "rod", Time: 0.5,
				Ingredients: []catalog.IngredientSpec{{Goods: "iron-plate", Amount: 1}},
				Products:    []catalog.ProductSpec{{Goods: "rod", Amount: 2}}, Automatable: true},
			catalog.RecipeSpec{Name: "scrap", Time: 1,
				Ingredients: []catalog.IngredientSpec{{Goods: "iron-ore", Amount: 1}},
				Products:    []catalog.ProductSpec{{Goods: "iron-plate", Amount: 1}, {Goods: "gear", Amount: 1}}, Automatable: true},
			catalog.RecipeSpec{Name: "pump", Time: 1,
				Products: []catalog.ProductSpec{{Goods: "water", Amount: 1200}}, Automatable: true},
			catalog.RecipeSpec{Name: "alpha", Time: 1,
				Ingredients: []catalog.IngredientSpec{{Goods: "beta", Amount: 1}},
				Products:    []catalog.ProductSpec{{Goods: "alpha", Amount: 1}}, Automatable: true},
			catalog.RecipeSpec{Name: "beta", Time: 1,
				Ingredients: []catalog.IngredientSpec{{Goods: "alpha", Amount: 1}},
				Products:    []catalog.ProductSpec{{Goods: "beta", Amount: 1}}, Automatable: true},
			catalog.RecipeSpec{Name: "red-science", Time: 5,
				Ingredients: []catalog.IngredientSpec{{Goods: "gear", Amount: 1}},
				Products:    []catalog.ProductSpec{{Goods: "red-science", Amount: 1}}, Automatable: true},
		).
		Build()
	require.NoError(t, err)
	return &fixture{t: t, db: db, normal: db.NormalQuality()}
}

func (f *fixture) goods(name string) catalog.QualifiedGoods {
	return f.qualified(name, f.normal)
}

func (f *fixture) qualified(name string, quality *catalog.Quality) catalog.QualifiedGoods {
	g, err := f.db.FindGoods(name)
	require.NoError(f.t, err)
	return catalog.QualifiedGoods{Goods: g, Quality: quality}
}

func (f *fixture) quality(name string) *catalog.Quality {
	q, err := f.db.Quality(name)
	require.NoError(f.t, err)
	return q
}

func (f *fixture) row(table *production.ProductionTable, recipe string) *production.RecipeRow {
	return f.rowAt(table, recipe, f.normal)
}

func (f *fixture) rowAt(table *production.ProductionTable, recipe string, quality *catalog.Quality) *production.RecipeRow {
	r, err := f.db.FindRecipe(recipe)
	require.NoError(f.t, err)
	row := production.NewRecipeRow(r, quality)
	table.AddRow(row)
	return row
}

func (f *fixture) link(table *production.ProductionTable, goods string, amount float64) *production.ProductionLink {
	link, err := table.AddLink(f.goods(goods), amount, production.LinkMatch)
	require.NoError(f.t, err)
	return link
}

func newPage(name string) *production.ProjectPage {
	project := production.NewProject("test", production.DefaultSettings())
	return project.AddPage(name)
}

func newSolver() *services.NetworkSolver {
	clock := shared.NewMockClock(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC))
	return services.NewNetworkSolver(nil, clock, lp.WithSeed(11))
}

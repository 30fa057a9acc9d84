package helpers

import (
	"github.com/andrescamacho/factoryplanner-go/internal/domain/catalog"
)

// SmeltingCatalog is a small catalog covering one mined ore, a burner smelting
// chain, an assembled intermediate and a two-recipe loop with no source. The
// loop is not automatable so the cost analysis stays bounded.
//
//	mine-iron-ore (iron-ore-patch) -> iron-ore
//	iron-plate (furnace, coal):  1 iron-ore -> 1 iron-plate, 3.2s
//	gear (assembler):            2 iron-plate -> 1 gear, 0.5s
//	alpha / beta:                1 beta -> 1 alpha, 1 alpha -> 1 beta
func SmeltingCatalog() catalog.Document {
	return catalog.Document{
		Version: 1,
		Qualities: []catalog.QualitySpec{
			{Name: "normal", Level: 0},
			{Name: "uncommon", Level: 1},
		},
		Goods: []catalog.GoodsSpec{
			{Name: "iron-ore", Automatable: true, AccessibleNow: true},
			{Name: "iron-plate", Automatable: true, AccessibleNow: true},
			{Name: "gear", Automatable: true, AccessibleNow: true},
			{Name: "coal", FuelValue: 4, Automatable: true, AccessibleNow: true},
			{Name: "alpha"},
			{Name: "beta"},
		},
		Entities: []catalog.EntitySpec{
			{Name: "iron-ore-patch", MapGenerated: true, MapGenDensity: 5000, Automatable: true},
			{Name: "coal-patch", MapGenerated: true, MapGenDensity: 5000, Automatable: true},
			{Name: "furnace", Size: 2, CraftingSpeed: 1, BasePower: 0.09, Automatable: true,
				Energy: catalog.EnergySpec{Type: catalog.EnergyBurner, Fuels: []string{"coal"}, Effectivity: 1}},
			{Name: "assembler", Size: 3, CraftingSpeed: 0.5, BasePower: 0.1, Automatable: true,
				Energy: catalog.EnergySpec{Type: catalog.EnergyElectric}},
		},
		Recipes: []catalog.RecipeSpec{
			{Name: "mine-iron-ore", Kind: catalog.RecipeKindMechanics, Time: 1,
				Products:     []catalog.ProductSpec{{Goods: "iron-ore", Amount: 1}},
				SourceEntity: "iron-ore-patch", MiningProductivity: true,
				Automatable: true, AccessibleNow: true},
			{Name: "mine-coal", Kind: catalog.RecipeKindMechanics, Time: 1,
				Products:     []catalog.ProductSpec{{Goods: "coal", Amount: 1}},
				SourceEntity: "coal-patch", MiningProductivity: true,
				Automatable: true, AccessibleNow: true},
			{Name: "iron-plate", Time: 3.2,
				Ingredients: []catalog.IngredientSpec{{Goods: "iron-ore", Amount: 1}},
				Products:    []catalog.ProductSpec{{Goods: "iron-plate", Amount: 1}},
				Crafters:    []string{"furnace"},
				Automatable: true, AccessibleNow: true},
			{Name: "gear", Time: 0.5,
				Ingredients: []catalog.IngredientSpec{{Goods: "iron-plate", Amount: 2}},
				Products:    []catalog.ProductSpec{{Goods: "gear", Amount: 1}},
				Crafters:    []string{"assembler"},
				Automatable: true, AccessibleNow: true},
			{Name: "alpha", Time: 1,
				Ingredients: []catalog.IngredientSpec{{Goods: "beta", Amount: 1}},
				Products:    []catalog.ProductSpec{{Goods: "alpha", Amount: 1}}},
			{Name: "beta", Time: 1,
				Ingredients: []catalog.IngredientSpec{{Goods: "alpha", Amount: 1}},
				Products:    []catalog.ProductSpec{{Goods: "beta", Amount: 1}}},
		},
	}
}

package production

import "github.com/andrescamacho/factoryplanner-go/internal/domain/catalog"

// ModuleEffects are the summed bonuses of the modules and beacons of a row
type ModuleEffects struct {
	Speed        float64
	Productivity float64
	Consumption  float64
}

// Bonuses can slow a crafter down or cut its consumption by at most 80%
const minModuleEffect = -0.8

// RecipeParameters are the per-building figures of a row, recomputed before every solve
type RecipeParameters struct {
	// RecipeTime is the seconds one building needs for one craft
	RecipeTime                    float64
	Productivity                  float64
	FuelUsagePerSecondPerBuilding float64
	// FuelUsagePerSecondPerRecipe is the fuel burnt by one craft
	FuelUsagePerSecondPerRecipe float64
	WarningFlags                WarningFlags
}

// CalculateParameters derives crafting time and fuel use from the row's entity, fuel and modules
func CalculateParameters(row *RecipeRow) RecipeParameters {
	recipe := row.recipe
	params := RecipeParameters{
		RecipeTime:   recipe.Time(),
		Productivity: max(row.modules.Productivity, 0),
	}

	entity := row.entity
	if entity == nil {
		params.WarningFlags |= WarningEntityNotSpecified
		return params
	}

	speed := entity.CraftingSpeed() * (1 + max(row.modules.Speed, minModuleEffect))
	if row.entityQuality != nil {
		speed *= row.entityQuality.SpeedMultiplier()
	}
	params.RecipeTime = recipe.Time() / speed

	energy := entity.Energy()
	if energy.Type == catalog.EnergyVoid || entity.BasePower() <= 0 {
		return params
	}

	fuel := row.EffectiveFuel()
	if fuel == nil {
		params.WarningFlags |= WarningFuelNotSelected
		return params
	}
	if fuel.FuelValue() <= 0 {
		params.WarningFlags |= WarningFuelDoesNotProvideEnergy
		return params
	}

	power := entity.BasePower() * (1 + max(row.modules.Consumption, minModuleEffect)) / energy.Effectivity
	params.FuelUsagePerSecondPerBuilding = power / fuel.FuelValue()
	params.FuelUsagePerSecondPerRecipe = params.FuelUsagePerSecondPerBuilding * params.RecipeTime
	return params
}

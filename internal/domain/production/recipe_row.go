package production

import (
	"github.com/google/uuid"

	"github.com/andrescamacho/factoryplanner-go/internal/domain/catalog"
)

// PercentageEntry forces a row to consume only a fraction of a good
type PercentageEntry struct {
	Goods      catalog.QualifiedGoods
	Percentage float64
}

// FlowTerm is one produced or consumed good of a row, per craft
type FlowTerm struct {
	Goods  catalog.QualifiedGoods
	Amount float64
}

// RecipeRow is one user-placed recipe inside a table. When it owns a subgroup
// the whole nested network acts as this row from the parent's point of view.
type RecipeRow struct {
	id            string
	owner         *ProductionTable
	recipe        *catalog.Recipe
	quality       *catalog.Quality
	enabled       bool
	entity        *catalog.Entity
	entityQuality *catalog.Quality
	fuel          *catalog.Goods
	fuelQuality   *catalog.Quality
	modules       ModuleEffects
	variants      map[*catalog.Goods]*catalog.Goods
	subgroup      *ProductionTable

	fixedBuildings         float64
	builtBuildings         *int
	consumptionPercentages []PercentageEntry

	// Solve outputs
	recipesPerSecond float64
	parameters       RecipeParameters
}

// NewRecipeRow creates an enabled row for recipe at quality
func NewRecipeRow(recipe *catalog.Recipe, quality *catalog.Quality) *RecipeRow {
	return &RecipeRow{
		id:       uuid.NewString(),
		recipe:   recipe,
		quality:  quality,
		enabled:  true,
		variants: make(map[*catalog.Goods]*catalog.Goods),
	}
}

// Getters

func (r *RecipeRow) ID() string { return r.id }
func (r *RecipeRow) Owner() *ProductionTable { return r.owner }
func (r *RecipeRow) Recipe() *catalog.Recipe { return r.recipe }
func (r *RecipeRow) Quality() *catalog.Quality { return r.quality }
func (r *RecipeRow) Enabled() bool { return r.enabled }
func (r *RecipeRow) Entity() *catalog.Entity { return r.entity }
func (r *RecipeRow) EntityQuality() *catalog.Quality { return r.entityQuality }
func (r *RecipeRow) Fuel() *catalog.Goods { return r.fuel }
func (r *RecipeRow) FuelQuality() *catalog.Quality { return r.fuelQuality }
func (r *RecipeRow) Modules() ModuleEffects { return r.modules }
func (r *RecipeRow) Subgroup() *ProductionTable { return r.subgroup }
func (r *RecipeRow) FixedBuildings() float64 { return r.fixedBuildings }
func (r *RecipeRow) BuiltBuildings() *int { return r.builtBuildings }
func (r *RecipeRow) RecipesPerSecond() float64 { return r.recipesPerSecond }
func (r *RecipeRow) Parameters() RecipeParameters { return r.parameters }

// HierarchyEnabled reports whether this row and every row owning it are enabled
func (r *RecipeRow) HierarchyEnabled() bool {
	for row := r; row != nil; {
		if !row.enabled {
			return false
		}
		if row.owner == nil {
			return true
		}
		row = row.owner.owner
	}
	return true
}

// BuildingCount is the number of buildings needed for the solved rate
func (r *RecipeRow) BuildingCount() float64 {
	return r.recipesPerSecond * r.parameters.RecipeTime
}

// EffectiveFuel returns the chosen fuel, or the entity's only fuel when none was chosen
func (r *RecipeRow) EffectiveFuel() *catalog.Goods {
	if r.fuel != nil {
		return r.fuel
	}
	if r.entity != nil && len(r.entity.Energy().Fuels) == 1 {
		return r.entity.Energy().Fuels[0]
	}
	return nil
}

// Editing

func (r *RecipeRow) SetEnabled(enabled bool) { r.enabled = enabled }
func (r *RecipeRow) SetModules(modules ModuleEffects) { r.modules = modules }
func (r *RecipeRow) SetFixedBuildings(count float64) { r.fixedBuildings = max(count, 0) }
func (r *RecipeRow) SetBuiltBuildings(count *int) { r.builtBuildings = count }

func (r *RecipeRow) SetEntity(entity *catalog.Entity, quality *catalog.Quality) {
	r.entity = entity
	r.entityQuality = quality
}

func (r *RecipeRow) SetFuel(fuel *catalog.Goods, quality *catalog.Quality) {
	r.fuel = fuel
	r.fuelQuality = quality
}

// SetIngredientVariant picks the fluid temperature used for a variant ingredient
func (r *RecipeRow) SetIngredientVariant(ingredient, variant *catalog.Goods) {
	r.variants[ingredient] = variant
}

// EnsureSubgroup returns the nested table, creating it on first use
func (r *RecipeRow) EnsureSubgroup() *ProductionTable {
	if r.subgroup == nil {
		r.subgroup = NewProductionTable()
		r.subgroup.owner = r
	}
	return r.subgroup
}

// SetConsumptionPercentage limits how much of goods this row consumes. A
// percentage of 1 removes the limit.
func (r *RecipeRow) SetConsumptionPercentage(goods catalog.QualifiedGoods, percentage float64) error {
	if percentage < 0 || percentage > 1 {
		return &ErrInvalidPercentage{Goods: goods.String(), Value: percentage}
	}
	for i := range r.consumptionPercentages {
		if r.consumptionPercentages[i].Goods == goods {
			if percentage == 1 {
				r.consumptionPercentages = append(r.consumptionPercentages[:i], r.consumptionPercentages[i+1:]...)
			} else {
				r.consumptionPercentages[i].Percentage = percentage
			}
			return nil
		}
	}
	if percentage < 1 {
		r.consumptionPercentages = append(r.consumptionPercentages, PercentageEntry{Goods: goods, Percentage: percentage})
	}
	return nil
}

// ConsumptionPercentage returns the limit for goods, 1 when unconstrained
func (r *RecipeRow) ConsumptionPercentage(goods catalog.QualifiedGoods) float64 {
	for _, entry := range r.consumptionPercentages {
		if entry.Goods == goods {
			return entry.Percentage
		}
	}
	return 1
}

// ConsumptionPercentages returns the limits in insertion order
func (r *RecipeRow) ConsumptionPercentages() []PercentageEntry {
	return r.consumptionPercentages
}

// Solve outputs

func (r *RecipeRow) SetRecipesPerSecond(rps float64) { r.recipesPerSecond = rps }
func (r *RecipeRow) SetParameters(params RecipeParameters) { r.parameters = params }
func (r *RecipeRow) AddWarning(flags WarningFlags) { r.parameters.WarningFlags |= flags }

// Flow terms

func (r *RecipeRow) qualify(goods *catalog.Goods, quality *catalog.Quality) catalog.QualifiedGoods {
	if quality == nil {
		quality = r.quality
	}
	if !goods.IsItem() {
		quality = quality.Normal()
	}
	return catalog.QualifiedGoods{Goods: goods, Quality: quality}
}

// IngredientTerms lists the consumed goods per craft, resolving fluid variants
func (r *RecipeRow) IngredientTerms() []FlowTerm {
	ingredients := r.recipe.Ingredients()
	terms := make([]FlowTerm, 0, len(ingredients))
	for _, in := range ingredients {
		goods := in.Goods
		if variant, ok := r.variants[in.Goods]; ok {
			goods = variant
		} else if len(in.Variants) > 0 {
			goods = in.Variants[0]
		}
		terms = append(terms, FlowTerm{Goods: r.qualify(goods, nil), Amount: in.Amount})
	}
	return terms
}

// ProductTerms lists the expected output per craft including productivity
func (r *RecipeRow) ProductTerms() []FlowTerm {
	products := r.recipe.Products()
	terms := make([]FlowTerm, 0, len(products))
	for _, out := range products {
		terms = append(terms, FlowTerm{
			Goods:  r.qualify(out.Goods, nil),
			Amount: out.Average() * (1 + r.parameters.Productivity),
		})
	}
	return terms
}

// FuelTerm is the fuel burnt per craft
func (r *RecipeRow) FuelTerm() (FlowTerm, bool) {
	fuel := r.EffectiveFuel()
	if fuel == nil || r.parameters.FuelUsagePerSecondPerRecipe <= 0 {
		return FlowTerm{}, false
	}
	quality := r.fuelQuality
	if quality == nil {
		quality = r.quality.Normal()
	}
	return FlowTerm{Goods: r.qualify(fuel, quality), Amount: r.parameters.FuelUsagePerSecondPerRecipe}, true
}

// SpentFuelTerm is the burnt result of the fuel per craft
func (r *RecipeRow) SpentFuelTerm() (FlowTerm, bool) {
	fuelTerm, ok := r.FuelTerm()
	if !ok || fuelTerm.Goods.Goods.FuelResult() == nil {
		return FlowTerm{}, false
	}
	return FlowTerm{
		Goods:  r.qualify(fuelTerm.Goods.Goods.FuelResult(), fuelTerm.Goods.Quality),
		Amount: fuelTerm.Amount,
	}, true
}

// References reports whether the row produces, consumes or burns goods
func (r *RecipeRow) References(goods catalog.QualifiedGoods) bool {
	for _, term := range r.IngredientTerms() {
		if term.Goods == goods {
			return true
		}
	}
	for _, term := range r.ProductTerms() {
		if term.Goods == goods {
			return true
		}
	}
	if fuel := r.EffectiveFuel(); fuel != nil {
		quality := r.fuelQuality
		if quality == nil {
			quality = r.quality.Normal()
		}
		if r.qualify(fuel, quality) == goods {
			return true
		}
	}
	return false
}

package services

import (
	"github.com/andrescamacho/factoryplanner-go/internal/adapters/lp"
	"github.com/andrescamacho/factoryplanner-go/internal/domain/catalog"
	"github.com/andrescamacho/factoryplanner-go/internal/domain/production"
)

// VirtualRecipeKind tags what a solver variable stands for
type VirtualRecipeKind int

const (
	// OwnRow is a leaf row running its own recipe
	OwnRow VirtualRecipeKind = iota
	// NestedTableHeader is the recipe of a row that owns a subgroup. Its
	// goods resolve links starting inside the subgroup.
	NestedTableHeader
	// ScienceDecomposition turns normal science packs into packs of a
	// better quality one to one
	ScienceDecomposition
)

func (k VirtualRecipeKind) String() string {
	switch k {
	case OwnRow:
		return "row"
	case NestedTableHeader:
		return "header"
	case ScienceDecomposition:
		return "decomposition"
	}
	return "unknown"
}

// VirtualRecipe is one column of the production LP
type VirtualRecipe struct {
	kind  VirtualRecipeKind
	row   *production.RecipeRow
	table *production.ProductionTable

	// ScienceDecomposition only
	source catalog.QualifiedGoods
	target catalog.QualifiedGoods

	variable *lp.Variable
}

func newRowRecipe(row *production.RecipeRow) *VirtualRecipe {
	if row.Subgroup() != nil {
		return &VirtualRecipe{kind: NestedTableHeader, row: row, table: row.Subgroup()}
	}
	return &VirtualRecipe{kind: OwnRow, row: row, table: row.Owner()}
}

func newScienceDecomposition(table *production.ProductionTable, source, target catalog.QualifiedGoods) *VirtualRecipe {
	return &VirtualRecipe{kind: ScienceDecomposition, table: table, source: source, target: target}
}

func (v *VirtualRecipe) Kind() VirtualRecipeKind { return v.kind }

// Row returns the user row behind the recipe, nil for synthesized recipes
func (v *VirtualRecipe) Row() *production.RecipeRow { return v.row }

// Table is where link lookups for this recipe start
func (v *VirtualRecipe) Table() *production.ProductionTable { return v.table }

func (v *VirtualRecipe) Variable() *lp.Variable { return v.variable }

func (v *VirtualRecipe) Name() string {
	switch v.kind {
	case ScienceDecomposition:
		return "decompose " + v.target.String()
	case NestedTableHeader:
		return v.row.Recipe().Name() + " (group)"
	}
	return v.row.Recipe().Name()
}

// BaseCost is the objective weight of one craft per second
func (v *VirtualRecipe) BaseCost() float64 {
	if v.row == nil {
		return 0
	}
	return v.row.Recipe().BaseCost()
}

// FixedRate returns the exact crafts per second a fixed building count implies
func (v *VirtualRecipe) FixedRate() (float64, bool) {
	if v.row == nil || v.row.FixedBuildings() <= 0 {
		return 0, false
	}
	recipeTime := v.row.Parameters().RecipeTime
	if recipeTime <= 0 {
		return 0, false
	}
	return v.row.FixedBuildings() / recipeTime, true
}

// Terms lists the signed per-craft flows: products and spent fuel positive,
// ingredients and fuel negative
func (v *VirtualRecipe) Terms() []production.FlowTerm {
	if v.kind == ScienceDecomposition {
		return []production.FlowTerm{
			{Goods: v.source, Amount: -1},
			{Goods: v.target, Amount: 1},
		}
	}
	return RowTerms(v.row)
}

// FindLink resolves the link for goods, walking from the recipe's table toward the root
func (v *VirtualRecipe) FindLink(goods catalog.QualifiedGoods) (*production.ProductionLink, bool) {
	if v.table == nil {
		return nil, false
	}
	return v.table.FindLink(goods)
}

// RowTerms returns the signed per-craft flows of a row
func RowTerms(row *production.RecipeRow) []production.FlowTerm {
	var terms []production.FlowTerm
	terms = append(terms, row.ProductTerms()...)
	for _, ingredient := range row.IngredientTerms() {
		terms = append(terms, production.FlowTerm{Goods: ingredient.Goods, Amount: -ingredient.Amount})
	}
	if fuel, ok := row.FuelTerm(); ok {
		terms = append(terms, production.FlowTerm{Goods: fuel.Goods, Amount: -fuel.Amount})
	}
	if spent, ok := row.SpentFuelTerm(); ok {
		terms = append(terms, spent)
	}
	return terms
}

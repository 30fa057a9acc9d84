package costing

import (
	"math"
	"time"

	"github.com/andrescamacho/factoryplanner-go/internal/domain/catalog"
)

// Analysis is the result of one cost estimation pass. It is replaced
// wholesale by every Compute and never mutated afterwards.
type Analysis struct {
	OnlyCurrentMilestones bool
	ComputedAt            time.Time
	// Catalog is the database whose objects key the maps below
	Catalog *catalog.Database

	// Solved reports whether the cost LP had an optimal solution
	Solved         bool
	EstimatedTotal float64

	Cost                  map[catalog.Object]float64
	RecipeCost            map[*catalog.Recipe]float64
	RecipeWastePercentage map[*catalog.Recipe]float64
	Flow                  map[catalog.Object]float64
	ImportantItems        []*catalog.Goods
}

func NewAnalysis(onlyCurrentMilestones bool) *Analysis {
	return &Analysis{
		OnlyCurrentMilestones: onlyCurrentMilestones,
		Cost:                  make(map[catalog.Object]float64),
		RecipeCost:            make(map[*catalog.Recipe]float64),
		RecipeWastePercentage: make(map[*catalog.Recipe]float64),
		Flow:                  make(map[catalog.Object]float64),
	}
}

// CostOf returns the cost of obj, +Inf when it was never priced
func (a *Analysis) CostOf(obj catalog.Object) float64 {
	if a == nil {
		return math.Inf(1)
	}
	if cost, ok := a.Cost[obj]; ok {
		return cost
	}
	return math.Inf(1)
}

// WasteOf returns the waste percentage of recipe, 0 when unknown
func (a *Analysis) WasteOf(recipe *catalog.Recipe) float64 {
	if a == nil {
		return 0
	}
	return a.RecipeWastePercentage[recipe]
}

// IsFinite reports whether obj received a usable cost
func (a *Analysis) IsFinite(obj catalog.Object) bool {
	cost := a.CostOf(obj)
	return !math.IsInf(cost, 0) && !math.IsNaN(cost)
}

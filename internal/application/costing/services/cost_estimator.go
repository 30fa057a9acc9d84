package services

import (
	"context"
	"fmt"
	"math"
	"sort"
	"sync"

	"github.com/andrescamacho/factoryplanner-go/internal/adapters/lp"
	"github.com/andrescamacho/factoryplanner-go/internal/adapters/metrics"
	"github.com/andrescamacho/factoryplanner-go/internal/application/common"
	"github.com/andrescamacho/factoryplanner-go/internal/domain/catalog"
	"github.com/andrescamacho/factoryplanner-go/internal/domain/costing"
	"github.com/andrescamacho/factoryplanner-go/internal/domain/production"
	"github.com/andrescamacho/factoryplanner-go/internal/domain/shared"
)

const (
	// every priced good gets a tiny weight so unused goods still receive a finite cost
	baseObjectiveWeight = 1e-3
	scienceUsageScale   = 1000.0
)

// CostEstimator prices every object of a catalog by solving the cost LP.
// It keeps the latest full and milestone-scoped results for readers that
// tolerate values going stale between an edit and the next Compute.
type CostEstimator struct {
	clock         shared.Clock
	solverOptions []lp.Option

	mu     sync.RWMutex
	latest map[bool]*costing.Analysis
}

func NewCostEstimator(clock shared.Clock, solverOptions ...lp.Option) *CostEstimator {
	if clock == nil {
		clock = shared.NewRealClock()
	}
	return &CostEstimator{
		clock:         clock,
		solverOptions: solverOptions,
		latest:        make(map[bool]*costing.Analysis),
	}
}

// Latest returns the most recent analysis of the given scope, nil before the first Compute
func (e *CostEstimator) Latest(onlyCurrentMilestones bool) *costing.Analysis {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.latest[onlyCurrentMilestones]
}

// costScope decides which objects take part in one analysis
type costScope struct {
	onlyCurrentMilestones bool
}

// includeGoods admits goods that some included recipe or misc source can supply.
// A good nothing produces would have an unbounded price.
func (s costScope) includeGoods(g *catalog.Goods) bool {
	if !s.available(g) {
		return false
	}
	if s.hasProducer(g) {
		return true
	}
	for _, source := range g.MiscSources() {
		if s.available(source) && s.hasProducer(source) {
			return true
		}
	}
	return false
}

func (s costScope) available(g *catalog.Goods) bool {
	if !g.IsAutomatable() {
		return false
	}
	return !s.onlyCurrentMilestones || g.IsAccessibleNow()
}

func (s costScope) hasProducer(g *catalog.Goods) bool {
	for _, recipe := range g.Production() {
		if s.includeRecipe(recipe) {
			return true
		}
	}
	return false
}

func (s costScope) includeRecipe(r *catalog.Recipe) bool {
	if !r.IsAutomatable() {
		return false
	}
	return !s.onlyCurrentMilestones || r.IsAccessibleNow()
}

func (s costScope) includeEntity(e *catalog.Entity) bool {
	return e.IsAutomatable()
}

func (s costScope) include(obj catalog.Object) bool {
	switch o := obj.(type) {
	case *catalog.Goods:
		return s.includeGoods(o)
	case *catalog.Recipe:
		return s.includeRecipe(o)
	case *catalog.Entity:
		return s.includeEntity(o)
	}
	return false
}

// Compute solves the cost LP for db and returns a fresh analysis.
// An infeasible full-scope solve is reported to warnings; milestone-scoped
// failures are expected early in a playthrough and stay silent.
func (e *CostEstimator) Compute(ctx context.Context, db *catalog.Database, project *production.Project, onlyCurrentMilestones bool, warnings *common.ErrorCollector) (*costing.Analysis, error) {
	if db == nil {
		return nil, fmt.Errorf("cost analysis requires a catalog")
	}
	logger := common.LoggerFromContext(ctx)
	settings := production.DefaultSettings()
	if project != nil {
		settings = project.Settings()
	}

	scope := costScope{onlyCurrentMilestones: onlyCurrentMilestones}
	scopeName := "full"
	if onlyCurrentMilestones {
		scopeName = "milestones"
	}
	start := e.clock.Now()

	solver := lp.NewSolver("cost-"+scopeName, e.solverOptions...)
	objective := solver.Objective()
	objective.SetMaximization()

	variables := make(map[*catalog.Goods]*lp.Variable)
	for _, goods := range db.Goods() {
		if !scope.includeGoods(goods) {
			continue
		}
		mapGenerated := 0.0
		for _, source := range goods.Production() {
			if source.HasFlags(catalog.RecipeUsesMiningProductivity) {
				mapGenerated += source.ProductionPerRecipe(goods)
			}
		}
		upper := math.Inf(1)
		if mapGenerated > 0 {
			upper = costing.CostLimitWhenGeneratesOnMap / mapGenerated
		}
		variable := solver.MakeNumVar(costing.CostLowerLimit, upper, goods.Name())
		objective.SetCoefficient(variable, baseObjectiveWeight)
		variables[goods] = variable
	}

	for _, usage := range scienceUsage(db, settings, scope) {
		if variable, ok := variables[usage.goods]; ok {
			objective.SetCoefficient(variable, usage.amount/scienceUsageScale)
		}
	}

	analysis := costing.NewAnalysis(onlyCurrentMilestones)
	constraints := make(map[*catalog.Recipe]*lp.Constraint)
	charges := make(map[*catalog.Recipe]recipeCharge)

	for _, recipe := range db.Recipes() {
		if !scope.includeRecipe(recipe) {
			continue
		}
		constraint := solver.MakeConstraint(math.Inf(-1), 0, recipe.Name())
		charge := recipeLogisticsCost(db, recipe, settings, scope, func(goods *catalog.Goods, amount float64) {
			if variable, ok := variables[goods]; ok {
				constraint.AddCoefficient(variable, amount)
			}
		})
		constraint.SetBounds(math.Inf(-1), charge.logistics)
		constraints[recipe] = constraint
		charges[recipe] = charge
		analysis.RecipeCost[recipe] = charge.logistics
	}

	addMonotonicityConstraints(solver, db, variables)

	result := solver.TrySolveWithDifferentSeeds()
	elapsed := e.clock.Since(start)
	metrics.RecordSolve("cost", result.String(), elapsed, len(solver.Variables()), len(solver.Constraints()))
	logger.Log("INFO", "Cost analysis completed", map[string]interface{}{
		"scope":       scopeName,
		"result":      result.String(),
		"duration_ms": elapsed.Milliseconds(),
	})

	analysis.ComputedAt = e.clock.Now()
	analysis.Catalog = db
	analysis.Solved = result.IsSolution()
	if analysis.Solved {
		analysis.EstimatedTotal = objective.Value()
		for goods, variable := range variables {
			analysis.Cost[goods] = variable.SolutionValue()
		}
		for _, recipe := range db.Recipes() {
			constraint, ok := constraints[recipe]
			if !ok {
				continue
			}
			recipeFlow := constraint.DualValue()
			if recipeFlow <= 0 {
				continue
			}
			analysis.Flow[recipe] += recipeFlow
			for _, product := range recipe.Products() {
				analysis.Flow[product.Goods] += recipeFlow * product.Average()
			}
		}
	} else if !onlyCurrentMilestones && warnings != nil {
		warnings.Error(fmt.Sprintf("Cost analysis was unable to process this catalog (%s)", result), common.SeverityAnalysisWarning)
	}

	derivedCosts(db, analysis, scope, charges)
	if analysis.Solved {
		wastePercentages(db, analysis, scope)
	}
	analysis.ImportantItems = importantItems(db, analysis, scope)

	priced := 0
	for _, obj := range db.Objects() {
		if analysis.IsFinite(obj) {
			priced++
		}
	}
	metrics.RecordCostAnalysis(scopeName, priced, analysis.EstimatedTotal)

	e.mu.Lock()
	e.latest[onlyCurrentMilestones] = analysis
	e.mu.Unlock()

	return analysis, nil
}

// recipeCharge is what one craft of a recipe costs on top of its ingredients
type recipeCharge struct {
	logistics float64
	// fuel is set only when every crafter burns the same fuel
	fuel       *catalog.Goods
	fuelAmount float64
}

// recipeLogisticsCost returns the charge of running one craft of recipe and feeds
// the signed per-craft amounts of its goods to addTerm
func recipeLogisticsCost(db *catalog.Database, recipe *catalog.Recipe, settings production.Settings, scope costScope, addTerm func(*catalog.Goods, float64)) recipeCharge {
	crafters := recipe.Crafters()
	minSize, minPower, minPollution := 0.0, 0.0, 0.0
	var singleFuel *catalog.Goods
	singleFuelAmount := 0.0

	if len(crafters) > 0 {
		minSize, minPower, minPollution = math.Inf(1), math.Inf(1), math.Inf(1)
		ambiguous := false
		for _, crafter := range crafters {
			energy := crafter.Energy()
			minSize = math.Min(minSize, float64(crafter.Size()))
			power := 0.0
			if energy.Type != catalog.EnergyVoid {
				power = recipe.Time() * crafter.BasePower() / (crafter.CraftingSpeed() * energy.Effectivity)
			}
			minPower = math.Min(minPower, power)
			minPollution = math.Min(minPollution, energy.Emissions)

			usable := 0
			for _, fuel := range energy.Fuels {
				if ambiguous || !scope.includeGoods(fuel) {
					continue
				}
				usable++
				if fuel.FuelValue() <= 0 {
					ambiguous = true
					continue
				}
				amount := power / fuel.FuelValue()
				switch {
				case singleFuel == nil:
					singleFuel, singleFuelAmount = fuel, amount
				case singleFuel == fuel:
					singleFuelAmount = math.Min(singleFuelAmount, amount)
				default:
					ambiguous = true
				}
			}
			if usable == 0 {
				ambiguous = true
			}
		}
		if ambiguous {
			singleFuel = nil
		}
	}
	minPower = math.Max(minPower, 0)

	ingredients, products := recipe.Ingredients(), recipe.Products()
	size := math.Max(minSize, float64(len(ingredients)+len(products))/2)
	sizeUsage := costing.CostPerSecond * recipe.Time() * size
	cost := sizeUsage*(1+costing.CostPerIngredientPerSize*float64(len(ingredients))+costing.CostPerProductPerSize*float64(len(products))) +
		costing.CostPerMj*minPower

	if singleFuel != nil && db.IsEnergy(singleFuel) {
		singleFuel = nil
	}

	for _, product := range products {
		amount := product.Average()
		addTerm(product.Goods, amount)
		cost += handlingCost(product.Goods, amount)
	}
	if singleFuel != nil {
		addTerm(singleFuel, -singleFuelAmount)
	}
	for _, ingredient := range ingredients {
		addTerm(ingredient.Goods, -ingredient.Amount)
		cost += handlingCost(ingredient.Goods, ingredient.Amount)
	}

	if source := recipe.SourceEntity(); source != nil && source.IsMapGenerated() {
		cost *= MiningPenalty(recipe)
	}
	if minPollution > 0 {
		cost += minPollution * recipe.Time() * costing.CostPerPollution * settings.PollutionCostModifier
	}
	if !scope.onlyCurrentMilestones && !recipe.IsAccessibleNow() && settings.InaccessibleRecipePenalty > 1 {
		cost *= settings.InaccessibleRecipePenalty
	}

	charge := recipeCharge{logistics: cost}
	if singleFuel != nil {
		charge.fuel, charge.fuelAmount = singleFuel, singleFuelAmount
	}
	return charge
}

func handlingCost(goods *catalog.Goods, amount float64) float64 {
	switch goods.Kind() {
	case catalog.GoodsKindItem:
		return amount * costing.CostPerItem
	case catalog.GoodsKindFluid:
		return amount * costing.CostPerFluid
	}
	return 0
}

// MiningPenalty makes rare map resources exponentially bounded more expensive
func MiningPenalty(recipe *catalog.Recipe) float64 {
	source := recipe.SourceEntity()
	totalMining := 0.0
	for _, product := range recipe.Products() {
		totalMining += product.Amount
	}
	penalty := costing.MiningPenalty
	if totalMining <= 0 || source == nil {
		return penalty
	}
	density := source.MapGenDensity() / totalMining
	if density < costing.MiningMaxDensityForPenalty {
		extra := math.Log(costing.MiningMaxDensityForPenalty / density)
		penalty += math.Min(extra, costing.MiningMaxExtraPenaltyForRarity)
	}
	return penalty
}

// addMonotonicityConstraints keeps items no pricier than their misc sources and
// colder fluid variants no pricier than hotter ones
func addMonotonicityConstraints(solver *lp.Solver, db *catalog.Database, variables map[*catalog.Goods]*lp.Variable) {
	for _, item := range db.Goods() {
		itemVar, ok := variables[item]
		if !ok || !item.IsItem() {
			continue
		}
		for _, source := range item.MiscSources() {
			sourceVar, ok := variables[source]
			if !ok {
				continue
			}
			c := solver.MakeConstraint(math.Inf(-1), 0, "source-"+item.Name())
			c.SetCoefficient(sourceVar, -1)
			c.SetCoefficient(itemVar, 1)
		}
	}

	for _, chain := range db.FluidVariants() {
		for i := 1; i < len(chain.Variants); i++ {
			prevVar, okPrev := variables[chain.Variants[i-1]]
			curVar, okCur := variables[chain.Variants[i]]
			if !okPrev || !okCur {
				continue
			}
			c := solver.MakeConstraint(math.Inf(-1), 0, fmt.Sprintf("fluid-%s-%g", chain.Name, chain.Variants[i-1].Temperature()))
			c.SetCoefficient(prevVar, 1)
			c.SetCoefficient(curVar, -1)
		}
	}
}

// derivedCosts fills costs of recipes, technologies and entities from goods costs
func derivedCosts(db *catalog.Database, analysis *costing.Analysis, scope costScope, charges map[*catalog.Recipe]recipeCharge) {
	for _, obj := range db.Objects() {
		if !scope.include(obj) {
			analysis.Cost[obj] = math.Inf(1)
			continue
		}
		switch o := obj.(type) {
		case *catalog.Goods:
			if !analysis.Solved {
				analysis.Cost[o] = math.Inf(1)
			}
		case *catalog.Recipe:
			charge := charges[o]
			cost := charge.logistics
			for _, ingredient := range o.Ingredients() {
				cost += analysis.CostOf(ingredient.Goods) * ingredient.Amount
			}
			if charge.fuel != nil && charge.fuelAmount > 0 {
				cost += analysis.CostOf(charge.fuel) * charge.fuelAmount
			}
			analysis.Cost[o] = cost
		case *catalog.Entity:
			minimal := math.Inf(1)
			for _, item := range o.ItemsToPlace() {
				minimal = math.Min(minimal, analysis.CostOf(item))
			}
			analysis.Cost[o] = minimal
		}
	}
}

func wastePercentages(db *catalog.Database, analysis *costing.Analysis, scope costScope) {
	for _, recipe := range db.Recipes() {
		if !scope.includeRecipe(recipe) {
			continue
		}
		productCost := 0.0
		for _, product := range recipe.Products() {
			productCost += product.Average() * analysis.CostOf(product.Goods)
		}
		if productCost == 0 {
			continue
		}
		analysis.RecipeWastePercentage[recipe] = 1 - productCost/analysis.CostOf(recipe)
	}
}

// importantItems ranks multi-use goods by flow × cost × zero-waste consumers
func importantItems(db *catalog.Database, analysis *costing.Analysis, scope costScope) []*catalog.Goods {
	type ranked struct {
		goods *catalog.Goods
		score float64
	}
	var candidates []ranked
	for _, goods := range db.Goods() {
		if !scope.includeGoods(goods) || len(goods.Usages()) <= 1 {
			continue
		}
		efficient := 0
		for _, usage := range goods.Usages() {
			if scope.includeRecipe(usage) && analysis.RecipeWastePercentage[usage] == 0 {
				efficient++
			}
		}
		score := analysis.Flow[goods] * analysis.CostOf(goods) * float64(efficient)
		if math.IsNaN(score) {
			score = 0
		}
		candidates = append(candidates, ranked{goods: goods, score: score})
	}
	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].score > candidates[j].score
	})
	out := make([]*catalog.Goods, len(candidates))
	for i, c := range candidates {
		out[i] = c.goods
	}
	return out
}

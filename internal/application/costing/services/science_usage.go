package services

import (
	"github.com/andrescamacho/factoryplanner-go/internal/domain/catalog"
	"github.com/andrescamacho/factoryplanner-go/internal/domain/production"
)

type goodsUsage struct {
	goods  *catalog.Goods
	amount float64
}

// scienceUsage estimates how much of each good the research tree consumes.
// With a target technology in full scope only the target and its transitive
// prerequisites are counted.
func scienceUsage(db *catalog.Database, settings production.Settings, scope costScope) []goodsUsage {
	technologies := db.Technologies()
	if settings.TargetTechnology != nil && !scope.onlyCurrentMilestones {
		technologies = prerequisiteClosure(settings.TargetTechnology)
	}

	totals := make(map[*catalog.Goods]float64)
	var order []*catalog.Goods
	for _, tech := range technologies {
		if !scope.includeRecipe(tech) {
			continue
		}
		for _, ingredient := range tech.Ingredients() {
			if scope.onlyCurrentMilestones && !ingredient.Goods.IsAccessibleNow() {
				continue
			}
			if _, seen := totals[ingredient.Goods]; !seen {
				order = append(order, ingredient.Goods)
			}
			totals[ingredient.Goods] += ingredient.Amount * tech.Count()
		}
	}

	usages := make([]goodsUsage, 0, len(order))
	for _, goods := range order {
		usages = append(usages, goodsUsage{goods: goods, amount: totals[goods]})
	}
	return usages
}

func prerequisiteClosure(target *catalog.Recipe) []*catalog.Recipe {
	visited := make(map[*catalog.Recipe]bool)
	var out []*catalog.Recipe
	var visit func(*catalog.Recipe)
	visit = func(tech *catalog.Recipe) {
		if visited[tech] {
			return
		}
		visited[tech] = true
		for _, prerequisite := range tech.Prerequisites() {
			visit(prerequisite)
		}
		out = append(out, tech)
	}
	visit(target)
	return out
}

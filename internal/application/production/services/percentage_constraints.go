package services

import (
	"fmt"
	"math"

	"github.com/andrescamacho/factoryplanner-go/internal/adapters/lp"
	"github.com/andrescamacho/factoryplanner-go/internal/domain/production"
)

// percentageNudge makes the solver prefer running a percentage-limited
// recipe over satisfying its constraint at zero
const percentageNudge = -1e-3

type percentageUser struct {
	recipe     *VirtualRecipe
	amount     float64
	percentage float64
}

type percentageGroup struct {
	link  *production.ProductionLink
	users []percentageUser
}

// PercentageConstraints turns consumption percentages of rows into LP rows.
// Several limited consumers of one link are held in proportion to each other;
// a lone limited consumer takes its share of everything produced into the link.
type PercentageConstraints struct{}

// Apply must run after coefficient assembly and before the solve
func (PercentageConstraints) Apply(solver *lp.Solver, network *Network, constraints []*lp.Constraint) int {
	groups := collectPercentageGroups(network)
	objective := solver.Objective()
	added := 0

	for _, group := range groups {
		link := group.link
		linkConstraint := constraints[link.SolverIndex()]
		relaxed := math.IsInf(linkConstraint.LowerBound(), -1) && math.IsInf(linkConstraint.UpperBound(), 1)

		if len(group.users) > 1 {
			link.SetAlgorithm(production.LinkMatch)
			if !relaxed {
				linkConstraint.SetBounds(link.Amount(), link.Amount())
			}
			first := group.users[0]
			for _, other := range group.users[1:] {
				c := solver.MakeConstraint(0, 0, fmt.Sprintf("share %s %s", link.Goods(), other.recipe.Name()))
				c.AddCoefficient(first.recipe.Variable(), first.amount*other.percentage)
				c.AddCoefficient(other.recipe.Variable(), -other.amount*first.percentage)
				added++
			}
			continue
		}

		user := group.users[0]
		link.SetAlgorithm(production.LinkAllowOverProduction)
		if !relaxed {
			linkConstraint.SetBounds(math.Min(link.Amount(), 0), math.Inf(1))
		}
		c := solver.MakeConstraint(0, 0, fmt.Sprintf("share %s %s", link.Goods(), user.recipe.Name()))
		c.AddCoefficient(user.recipe.Variable(), user.amount)
		for _, producer := range network.Recipes {
			coefficient := linkConstraint.GetCoefficient(producer.Variable())
			if coefficient > 0 {
				c.AddCoefficient(producer.Variable(), -user.percentage*coefficient)
			}
		}
		variable := user.recipe.Variable()
		objective.SetCoefficient(variable, objective.GetCoefficient(variable)+percentageNudge)
		added++
	}
	return added
}

// collectPercentageGroups groups limited consumers by the link they consume
// through, in first-seen order
func collectPercentageGroups(network *Network) []*percentageGroup {
	var groups []*percentageGroup
	byLink := make(map[*production.ProductionLink]*percentageGroup)

	for _, recipe := range network.Recipes {
		row := recipe.Row()
		if row == nil {
			continue
		}
		for _, entry := range row.ConsumptionPercentages() {
			if entry.Percentage >= 1 {
				continue
			}
			link, ok := recipe.FindLink(entry.Goods)
			if !ok || link.SolverIndex() < 0 {
				continue
			}
			amount := 0.0
			for _, term := range recipe.Terms() {
				if term.Goods == entry.Goods && term.Amount < 0 {
					amount -= term.Amount
				}
			}
			if amount == 0 {
				continue
			}
			group, ok := byLink[link]
			if !ok {
				group = &percentageGroup{link: link}
				byLink[link] = group
				groups = append(groups, group)
			}
			group.users = append(group.users, percentageUser{recipe: recipe, amount: amount, percentage: entry.Percentage})
		}
	}
	return groups
}

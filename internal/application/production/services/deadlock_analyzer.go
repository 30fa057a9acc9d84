package services

import (
	"sort"

	"gonum.org/v1/gonum/graph/simple"
	"gonum.org/v1/gonum/graph/topo"

	"github.com/andrescamacho/factoryplanner-go/internal/domain/production"
)

// InfeasibilityCandidates are the links that receive slack when a model has no solution
type InfeasibilityCandidates struct {
	// Deadlocks are representative links of flow loops
	Deadlocks []*production.ProductionLink
	// Splits are product links of recipes with several linked products
	Splits []*production.ProductionLink
}

// FindInfeasibilityCandidates builds the ingredient→product graph over the
// network links and picks deadlock and split candidates from it
func FindInfeasibilityCandidates(network *Network) InfeasibilityCandidates {
	g := simple.NewDirectedGraph()
	for i := range network.Links {
		g.AddNode(simple.Node(i))
	}

	splitSet := make(map[int]bool)
	for _, recipe := range network.Recipes {
		var sources, targets []int
		for _, term := range recipe.Terms() {
			link, ok := recipe.FindLink(term.Goods)
			if !ok || link.SolverIndex() < 0 {
				continue
			}
			if term.Amount > 0 {
				targets = appendIndexOnce(targets, link.SolverIndex())
			} else if term.Amount < 0 {
				sources = appendIndexOnce(sources, link.SolverIndex())
			}
		}
		for _, from := range sources {
			for _, to := range targets {
				if from == to || g.HasEdgeFromTo(int64(from), int64(to)) {
					continue
				}
				g.SetEdge(g.NewEdge(simple.Node(from), simple.Node(to)))
			}
		}
		if len(targets) > 1 {
			for _, target := range targets {
				splitSet[target] = true
			}
		}
	}

	deadlockSet := make(map[int]bool)
	for _, component := range topo.TarjanSCC(g) {
		if len(component) < 2 {
			continue
		}
		loop := make([]int, len(component))
		for i, node := range component {
			loop[i] = int(node.ID())
		}
		sort.Ints(loop)

		deadlockSet[loop[len(loop)-1]] = true
		for i := 0; i < len(loop); i++ {
			for j := i + 2; j < len(loop); j++ {
				if g.HasEdgeFromTo(int64(loop[i]), int64(loop[j])) {
					deadlockSet[loop[i]] = true
					break
				}
			}
		}
	}

	return InfeasibilityCandidates{
		Deadlocks: linksAt(network, deadlockSet),
		Splits:    linksAt(network, splitSet),
	}
}

func linksAt(network *Network, indices map[int]bool) []*production.ProductionLink {
	ordered := make([]int, 0, len(indices))
	for index := range indices {
		ordered = append(ordered, index)
	}
	sort.Ints(ordered)
	links := make([]*production.ProductionLink, len(ordered))
	for i, index := range ordered {
		links[i] = network.Links[index]
	}
	return links
}

func appendIndexOnce(list []int, index int) []int {
	for _, existing := range list {
		if existing == index {
			return list
		}
	}
	return append(list, index)
}

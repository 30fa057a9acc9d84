package services

import (
	"sort"

	"github.com/andrescamacho/factoryplanner-go/internal/domain/catalog"
	"github.com/andrescamacho/factoryplanner-go/internal/domain/production"
)

// fluidFlowScale brings fluid amounts to roughly item scale for ordering
const fluidFlowScale = 50

// FlowAggregator sums the solved net flow of every table, bottom up
type FlowAggregator struct{}

func NewFlowAggregator() *FlowAggregator {
	return &FlowAggregator{}
}

// CalculateFlow stores the net flow of table in table.Flow. include is the row
// owning the table, whose own recipe counts toward the table's flow; nil for
// the root.
func (a *FlowAggregator) CalculateFlow(table *production.ProductionTable, include *production.RecipeRow) {
	sum := newFlowSum()
	if include != nil {
		sum.addRow(include)
	}

	for _, row := range table.Rows() {
		if !row.Enabled() {
			continue
		}
		if subgroup := row.Subgroup(); subgroup != nil {
			a.CalculateFlow(subgroup, row)
			for _, entry := range subgroup.Flow() {
				sum.add(entry.Goods, entry.Amount)
			}
			continue
		}
		sum.addRow(row)
	}

	for _, link := range table.AllLinks() {
		if _, ok := sum.amounts[link.Goods()]; !ok {
			continue
		}
		if link.IsMatched() {
			sum.remove(link.Goods())
			continue
		}
		if parent := table.Parent(); parent != nil {
			if parentLink, ok := parent.FindLink(link.Goods()); ok {
				parentLink.State().MarkChildNotMatched()
			}
		}
	}

	entries := make([]production.FlowEntry, 0, len(sum.order))
	for _, goods := range sum.order {
		amount, ok := sum.amounts[goods]
		if !ok {
			continue
		}
		entry := production.FlowEntry{Goods: goods, Amount: amount}
		if link, found := table.FindLink(goods); found {
			entry.Link = link
		}
		entries = append(entries, entry)
	}
	sort.SliceStable(entries, func(i, j int) bool {
		return sortWeight(entries[i]) < sortWeight(entries[j])
	})
	table.SetFlow(entries)
}

func sortWeight(entry production.FlowEntry) float64 {
	if entry.Goods.Goods.IsFluid() {
		return entry.Amount / fluidFlowScale
	}
	return entry.Amount
}

type flowSum struct {
	amounts map[catalog.QualifiedGoods]float64
	order   []catalog.QualifiedGoods
}

func newFlowSum() *flowSum {
	return &flowSum{amounts: make(map[catalog.QualifiedGoods]float64)}
}

func (s *flowSum) add(goods catalog.QualifiedGoods, amount float64) {
	if _, ok := s.amounts[goods]; !ok {
		s.order = append(s.order, goods)
	}
	s.amounts[goods] += amount
}

func (s *flowSum) remove(goods catalog.QualifiedGoods) {
	delete(s.amounts, goods)
}

func (s *flowSum) addRow(row *production.RecipeRow) {
	rate := row.RecipesPerSecond()
	for _, term := range RowTerms(row) {
		s.add(term.Goods, term.Amount*rate)
	}
}

package services

import (
	"github.com/andrescamacho/factoryplanner-go/internal/domain/catalog"
	"github.com/andrescamacho/factoryplanner-go/internal/domain/production"
)

// Network is the flattened view of a page: every variable and every link of
// the enabled part of the tree, in deterministic order
type Network struct {
	Recipes []*VirtualRecipe
	Links   []*production.ProductionLink
}

// NetworkBuilder flattens a nested production table into a Network
type NetworkBuilder struct{}

func NewNetworkBuilder() *NetworkBuilder {
	return &NetworkBuilder{}
}

// Build resets implicit links of the whole tree and flattens it
func (b *NetworkBuilder) Build(root *production.ProductionTable) *Network {
	network := &Network{}
	b.Setup(root, network)
	return network
}

// Setup appends the recipes and links of table and its enabled subtree to network.
//
// It returns the normal-quality science packs linked at this level or below,
// and the non-normal science packs produced at or below this level that no
// link balances yet. A normal link at exactly this level adopts the latter
// through a synthesized decomposition recipe and an implicit link.
func (b *NetworkBuilder) Setup(table *production.ProductionTable, network *Network) (linkedConsumption, unlinkedProduction []catalog.QualifiedGoods) {
	table.ResetImplicitLinks()
	linked := newGoodsSet()
	unlinked := newGoodsSet()

	for _, row := range table.Rows() {
		if !row.Enabled() {
			clearDisabledRow(row)
			continue
		}
		row.SetParameters(production.CalculateParameters(row))
		recipe := newRowRecipe(row)
		network.Recipes = append(network.Recipes, recipe)

		if subgroup := row.Subgroup(); subgroup != nil {
			childLinked, childUnlinked := b.Setup(subgroup, network)
			linked.addAll(childLinked)
			unlinked.addAll(childUnlinked)
		}

		for _, term := range row.ProductTerms() {
			if isQualitySciencePack(term.Goods) {
				if _, ok := recipe.FindLink(term.Goods); !ok {
					unlinked.add(term.Goods)
				}
			}
		}
	}

	for _, link := range table.Links() {
		if link.Goods().Goods.IsSciencePack() && link.Goods().Quality.IsNormal() {
			linked.add(link.Goods())
		}
	}

	var stillUnlinked []catalog.QualifiedGoods
	for _, goods := range unlinked.items {
		if _, ok := table.LocalLink(goods); ok {
			continue
		}
		normal := catalog.QualifiedGoods{Goods: goods.Goods, Quality: goods.Quality.Normal()}
		if _, ok := table.LocalLink(normal); !ok {
			stillUnlinked = append(stillUnlinked, goods)
			continue
		}
		if _, err := table.AddImplicitLink(goods); err != nil {
			stillUnlinked = append(stillUnlinked, goods)
			continue
		}
		network.Recipes = append(network.Recipes, newScienceDecomposition(table, normal, goods))
	}

	network.Links = append(network.Links, table.AllLinks()...)
	return linked.items, stillUnlinked
}

// clearDisabledRow zeroes a disabled row and everything nested under it
func clearDisabledRow(row *production.RecipeRow) {
	row.SetRecipesPerSecond(0)
	row.SetParameters(production.RecipeParameters{})
	subgroup := row.Subgroup()
	if subgroup == nil {
		return
	}
	subgroup.ResetImplicitLinks()
	subgroup.SetFlow(nil)
	for _, link := range subgroup.Links() {
		link.BeginSolve(-1)
		link.State().MarkNotMatched()
	}
	for _, nested := range subgroup.Rows() {
		clearDisabledRow(nested)
	}
}

func isQualitySciencePack(goods catalog.QualifiedGoods) bool {
	return goods.Goods.IsSciencePack() && goods.Quality != nil && !goods.Quality.IsNormal()
}

// goodsSet keeps insertion order so flattening stays deterministic
type goodsSet struct {
	seen  map[catalog.QualifiedGoods]bool
	items []catalog.QualifiedGoods
}

func newGoodsSet() *goodsSet {
	return &goodsSet{seen: make(map[catalog.QualifiedGoods]bool)}
}

func (s *goodsSet) add(goods catalog.QualifiedGoods) {
	if s.seen[goods] {
		return
	}
	s.seen[goods] = true
	s.items = append(s.items, goods)
}

func (s *goodsSet) addAll(goods []catalog.QualifiedGoods) {
	for _, g := range goods {
		s.add(g)
	}
}

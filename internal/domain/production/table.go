package production

import (
	"github.com/google/uuid"

	"github.com/andrescamacho/factoryplanner-go/internal/domain/catalog"
)

// FlowEntry is the net amount of a good at one table level after a solve.
// Negative amounts are consumed, positive produced.
type FlowEntry struct {
	Goods  catalog.QualifiedGoods
	Amount float64
	Link   *ProductionLink
}

// ProductionTable is an ordered list of rows and the links balancing them.
// A table is either the content of a page (root) or the subgroup of a row;
// owner points at that row and is nil for the root.
//
// Invariants:
// - at most one link, explicit or implicit, per qualified good at this level
// - every row and link points back at this table
type ProductionTable struct {
	id            string
	owner         *RecipeRow
	rows          []*RecipeRow
	links         []*ProductionLink
	implicitLinks []*ProductionLink
	linkMap       map[catalog.QualifiedGoods]*ProductionLink
	flow          []FlowEntry
}

// NewProductionTable creates an empty root table
func NewProductionTable() *ProductionTable {
	return &ProductionTable{
		id:      uuid.NewString(),
		linkMap: make(map[catalog.QualifiedGoods]*ProductionLink),
	}
}

func (t *ProductionTable) ID() string { return t.id }
func (t *ProductionTable) Owner() *RecipeRow { return t.owner }
func (t *ProductionTable) Rows() []*RecipeRow { return t.rows }
func (t *ProductionTable) Links() []*ProductionLink { return t.links }
func (t *ProductionTable) ImplicitLinks() []*ProductionLink { return t.implicitLinks }
func (t *ProductionTable) Flow() []FlowEntry { return t.flow }
func (t *ProductionTable) SetFlow(flow []FlowEntry) { t.flow = flow }

// Parent returns the table owning this table's row, nil for the root
func (t *ProductionTable) Parent() *ProductionTable {
	if t.owner == nil {
		return nil
	}
	return t.owner.owner
}

// Root walks the owner chain up to the page table
func (t *ProductionTable) Root() *ProductionTable {
	table := t
	for table.Parent() != nil {
		table = table.Parent()
	}
	return table
}

// AddRow appends a row and takes ownership of it
func (t *ProductionTable) AddRow(row *RecipeRow) {
	row.owner = t
	t.rows = append(t.rows, row)
}

// RemoveRow detaches row from the table
func (t *ProductionTable) RemoveRow(row *RecipeRow) error {
	for i, r := range t.rows {
		if r == row {
			t.rows = append(t.rows[:i], t.rows[i+1:]...)
			row.owner = nil
			return nil
		}
	}
	return &ErrNotInTable{What: "row " + row.recipe.Name()}
}

// AddLink pins goods at this level
func (t *ProductionTable) AddLink(goods catalog.QualifiedGoods, amount float64, algorithm LinkAlgorithm) (*ProductionLink, error) {
	if _, exists := t.linkMap[goods]; exists {
		return nil, &ErrLinkConflict{Goods: goods.String()}
	}
	link := newProductionLink(t, goods, amount, algorithm, LinkKindExplicit)
	t.links = append(t.links, link)
	t.linkMap[goods] = link
	return link, nil
}

// RemoveLink deletes an explicit link
func (t *ProductionTable) RemoveLink(link *ProductionLink) error {
	for i, l := range t.links {
		if l == link {
			t.links = append(t.links[:i], t.links[i+1:]...)
			if t.linkMap[link.goods] == link {
				delete(t.linkMap, link.goods)
			}
			return nil
		}
	}
	return &ErrNotInTable{What: "link " + link.goods.String()}
}

// AllLinks returns explicit links followed by implicit ones
func (t *ProductionTable) AllLinks() []*ProductionLink {
	out := make([]*ProductionLink, 0, len(t.links)+len(t.implicitLinks))
	out = append(out, t.links...)
	return append(out, t.implicitLinks...)
}

// ResetImplicitLinks drops machine-created links and rebuilds the index from explicit links
func (t *ProductionTable) ResetImplicitLinks() {
	t.implicitLinks = nil
	t.linkMap = make(map[catalog.QualifiedGoods]*ProductionLink, len(t.links))
	for _, link := range t.links {
		t.linkMap[link.goods] = link
	}
}

// AddImplicitLink creates a zero-amount Match link owned by the machine.
// It fails when the good is already linked at this level.
func (t *ProductionTable) AddImplicitLink(goods catalog.QualifiedGoods) (*ProductionLink, error) {
	if _, exists := t.linkMap[goods]; exists {
		return nil, &ErrLinkConflict{Goods: goods.String()}
	}
	link := newProductionLink(t, goods, 0, LinkMatch, LinkKindImplicit)
	t.implicitLinks = append(t.implicitLinks, link)
	t.linkMap[goods] = link
	return link, nil
}

// LocalLink returns the link for goods at exactly this level
func (t *ProductionTable) LocalLink(goods catalog.QualifiedGoods) (*ProductionLink, bool) {
	link, ok := t.linkMap[goods]
	return link, ok
}

// FindLink walks from this table toward the root and returns the nearest link for goods
func (t *ProductionTable) FindLink(goods catalog.QualifiedGoods) (*ProductionLink, bool) {
	for table := t; table != nil; table = table.Parent() {
		if link, ok := table.linkMap[goods]; ok {
			return link, true
		}
	}
	return nil, false
}

// HasDisabledRecipeReferencing reports whether a disabled row in this table's
// subtree produces or consumes goods
func (t *ProductionTable) HasDisabledRecipeReferencing(goods catalog.QualifiedGoods) bool {
	for _, row := range t.rows {
		if !row.enabled && row.References(goods) {
			return true
		}
		if row.subgroup != nil && row.subgroup.HasDisabledRecipeReferencing(goods) {
			return true
		}
	}
	return false
}

// WalkRows visits every row of the subtree depth first in table order
func (t *ProductionTable) WalkRows(visit func(row *RecipeRow)) {
	for _, row := range t.rows {
		visit(row)
		if row.subgroup != nil {
			row.subgroup.WalkRows(visit)
		}
	}
}

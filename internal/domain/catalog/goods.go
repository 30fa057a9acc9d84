package catalog

// GoodsKind distinguishes what a unit of flow physically is
type GoodsKind string

const (
	GoodsKindItem    GoodsKind = "item"
	GoodsKindFluid   GoodsKind = "fluid"
	GoodsKindSpecial GoodsKind = "special"
)

// Goods is an item, fluid or special resource (electricity, heat, void energy).
// Adjacency (Production / Usages) is computed by the Builder and never mutated afterwards.
type Goods struct {
	name          string
	kind          GoodsKind
	fuelValue     float64
	fuelResult    *Goods
	temperature   float64
	variantOf     string
	sciencePack   bool
	miscSources   []*Goods
	automatable   bool
	accessibleNow bool

	production []*Recipe
	usages     []*Recipe
	placeable  []*Entity
}

func (g *Goods) Name() string { return g.name }
func (g *Goods) TypeName() string { return string(g.kind) }
func (g *Goods) Kind() GoodsKind { return g.kind }
func (g *Goods) IsItem() bool { return g.kind == GoodsKindItem }
func (g *Goods) IsFluid() bool { return g.kind == GoodsKindFluid }
func (g *Goods) FuelValue() float64 { return g.fuelValue }
func (g *Goods) FuelResult() *Goods { return g.fuelResult }
func (g *Goods) Temperature() float64 { return g.temperature }
func (g *Goods) IsSciencePack() bool { return g.sciencePack }
func (g *Goods) MiscSources() []*Goods { return g.miscSources }
func (g *Goods) IsAutomatable() bool { return g.automatable }
func (g *Goods) IsAccessibleNow() bool { return g.accessibleNow }
func (g *Goods) Production() []*Recipe { return g.production }
func (g *Goods) Usages() []*Recipe { return g.usages }
func (g *Goods) PlaceResults() []*Entity { return g.placeable }

// VariantGroup returns the base fluid name shared by every temperature variant
func (g *Goods) VariantGroup() string {
	if g.variantOf != "" {
		return g.variantOf
	}
	return g.name
}

// QualifiedGoods is the actual unit of flow: a good at a quality level.
// It is comparable and used as a map key throughout the solver.
type QualifiedGoods struct {
	Goods   *Goods
	Quality *Quality
}

func (q QualifiedGoods) String() string {
	if q.Goods == nil {
		return "<none>"
	}
	if q.Quality == nil || q.Quality.IsNormal() {
		return q.Goods.name
	}
	return q.Goods.name + "@" + q.Quality.name
}

// IsValid reports whether both halves are set
func (q QualifiedGoods) IsValid() bool {
	return q.Goods != nil && q.Quality != nil
}

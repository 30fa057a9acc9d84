package catalog

// RecipeKind separates crafting recipes from research and engine mechanics
type RecipeKind string

const (
	RecipeKindRecipe     RecipeKind = "recipe"
	RecipeKindTechnology RecipeKind = "technology"
	RecipeKindMechanics  RecipeKind = "mechanics"
)

// RecipeFlags are properties the loading pipeline derives for a recipe
type RecipeFlags uint8

const (
	RecipeUsesMiningProductivity RecipeFlags = 1 << iota
	RecipeUsesFluidTemperature
	RecipeScaledByQuality
)

// Ingredient is one consumed term of a recipe
type Ingredient struct {
	Goods  *Goods
	Amount float64
	// Variants lists the fluid temperatures the ingredient accepts, coldest first
	Variants []*Goods
}

// Product is one produced term of a recipe
type Product struct {
	Goods       *Goods
	Amount      float64
	Probability float64
}

// Average is the expected output of a single craft
func (p Product) Average() float64 {
	return p.Amount * p.Probability
}

// Recipe is a transformation of goods, a technology (its ingredients are
// science packs per research unit) or a mechanic such as mining.
type Recipe struct {
	name          string
	kind          RecipeKind
	time          float64
	ingredients   []Ingredient
	products      []Product
	crafters      []*Entity
	sourceEntity  *Entity
	count         float64
	prerequisites []*Recipe
	baseCost      float64
	flags         RecipeFlags
	automatable   bool
	accessibleNow bool
}

func (r *Recipe) Name() string { return r.name }
func (r *Recipe) TypeName() string { return string(r.kind) }
func (r *Recipe) Kind() RecipeKind { return r.kind }
func (r *Recipe) IsTechnology() bool { return r.kind == RecipeKindTechnology }
func (r *Recipe) Time() float64 { return r.time }
func (r *Recipe) Ingredients() []Ingredient { return r.ingredients }
func (r *Recipe) Products() []Product { return r.products }
func (r *Recipe) Crafters() []*Entity { return r.crafters }
func (r *Recipe) SourceEntity() *Entity { return r.sourceEntity }
func (r *Recipe) Count() float64 { return r.count }
func (r *Recipe) Prerequisites() []*Recipe { return r.prerequisites }
func (r *Recipe) BaseCost() float64 { return r.baseCost }
func (r *Recipe) IsAutomatable() bool { return r.automatable }
func (r *Recipe) IsAccessibleNow() bool { return r.accessibleNow }

// HasFlags reports whether every bit of flags is set
func (r *Recipe) HasFlags(flags RecipeFlags) bool {
	return r.flags&flags == flags
}

// ProductionPerRecipe sums the expected output of goods over all product entries
func (r *Recipe) ProductionPerRecipe(goods *Goods) float64 {
	total := 0.0
	for _, p := range r.products {
		if p.Goods == goods {
			total += p.Average()
		}
	}
	return total
}

// CanCraftIn reports whether entity is a compatible crafter
func (r *Recipe) CanCraftIn(entity *Entity) bool {
	for _, c := range r.crafters {
		if c == entity {
			return true
		}
	}
	return false
}

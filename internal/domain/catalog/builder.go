package catalog

import (
	"fmt"
	"sort"

	"github.com/andrescamacho/factoryplanner-go/internal/domain/shared"
)

// Builder accumulates specs and resolves them into a Database
type Builder struct {
	doc Document
}

func NewBuilder() *Builder {
	return &Builder{doc: Document{Version: 1}}
}

func (b *Builder) Quality(spec QualitySpec) *Builder {
	b.doc.Qualities = append(b.doc.Qualities, spec)
	return b
}

func (b *Builder) Goods(specs ...GoodsSpec) *Builder {
	b.doc.Goods = append(b.doc.Goods, specs...)
	return b
}

func (b *Builder) Entity(specs ...EntitySpec) *Builder {
	b.doc.Entities = append(b.doc.Entities, specs...)
	return b
}

func (b *Builder) Recipe(specs ...RecipeSpec) *Builder {
	b.doc.Recipes = append(b.doc.Recipes, specs...)
	return b
}

func (b *Builder) Build() (*Database, error) {
	return Build(b.doc)
}

// Build resolves every name reference of doc and computes adjacency.
// Zero or negative ingredient and product amounts are dropped.
func Build(doc Document) (*Database, error) {
	db := &Database{
		document:        doc,
		qualitiesByName: make(map[string]*Quality),
		goodsByName:     make(map[string]*Goods),
		recipesByName:   make(map[string]*Recipe),
		entitiesByName:  make(map[string]*Entity),
	}

	if err := db.buildQualities(doc.Qualities); err != nil {
		return nil, err
	}
	if err := db.buildGoods(doc.Goods); err != nil {
		return nil, err
	}
	if err := db.buildEntities(doc.Entities); err != nil {
		return nil, err
	}
	if err := db.buildRecipes(doc.Recipes); err != nil {
		return nil, err
	}
	db.buildFluidVariants()

	return db, nil
}

func (db *Database) buildQualities(specs []QualitySpec) error {
	if len(specs) == 0 {
		specs = []QualitySpec{{Name: "normal", Level: 0}}
	}
	for _, spec := range specs {
		if _, exists := db.qualitiesByName[spec.Name]; exists {
			return shared.NewDuplicateObjectError("quality", spec.Name)
		}
		q := &Quality{name: spec.Name, level: spec.Level}
		db.qualitiesByName[spec.Name] = q
		db.qualities = append(db.qualities, q)
	}
	sort.SliceStable(db.qualities, func(i, j int) bool {
		return db.qualities[i].level < db.qualities[j].level
	})
	if db.qualities[0].level != 0 {
		return shared.NewValidationError("qualities", "a level 0 quality is required")
	}
	for i, q := range db.qualities {
		q.normal = db.qualities[0]
		if i+1 < len(db.qualities) {
			q.next = db.qualities[i+1]
		}
	}
	return nil
}

func (db *Database) buildGoods(specs []GoodsSpec) error {
	for _, spec := range specs {
		if _, exists := db.goodsByName[spec.Name]; exists {
			return shared.NewDuplicateObjectError("goods", spec.Name)
		}
		kind := spec.Kind
		if kind == "" {
			kind = GoodsKindItem
		}
		g := &Goods{
			name:          spec.Name,
			kind:          kind,
			fuelValue:     spec.FuelValue,
			temperature:   spec.Temperature,
			variantOf:     spec.VariantOf,
			sciencePack:   spec.SciencePack,
			automatable:   spec.Automatable,
			accessibleNow: spec.AccessibleNow,
		}
		db.goodsByName[spec.Name] = g
		db.goods = append(db.goods, g)
	}

	db.electricity = db.ensureSpecial(ElectricityName)
	db.heat = db.ensureSpecial(HeatName)
	db.voidEnergy = db.ensureSpecial(VoidEnergyName)

	for _, spec := range specs {
		g := db.goodsByName[spec.Name]
		if spec.FuelResult != "" {
			result, err := db.FindGoods(spec.FuelResult)
			if err != nil {
				return fmt.Errorf("fuel result of %s: %w", spec.Name, err)
			}
			g.fuelResult = result
		}
		for _, name := range spec.MiscSources {
			source, err := db.FindGoods(name)
			if err != nil {
				return fmt.Errorf("misc source of %s: %w", spec.Name, err)
			}
			g.miscSources = append(g.miscSources, source)
		}
	}
	return nil
}

func (db *Database) ensureSpecial(name string) *Goods {
	if g, ok := db.goodsByName[name]; ok {
		return g
	}
	g := &Goods{name: name, kind: GoodsKindSpecial, automatable: true, accessibleNow: true}
	if name != VoidEnergyName {
		g.fuelValue = 1
	}
	db.goodsByName[name] = g
	db.goods = append(db.goods, g)
	return g
}

func (db *Database) buildEntities(specs []EntitySpec) error {
	for _, spec := range specs {
		if _, exists := db.entitiesByName[spec.Name]; exists {
			return shared.NewDuplicateObjectError("entity", spec.Name)
		}
		e := &Entity{
			name:          spec.Name,
			size:          spec.Size,
			craftingSpeed: spec.CraftingSpeed,
			basePower:     spec.BasePower,
			mapGenerated:  spec.MapGenerated,
			mapGenDensity: spec.MapGenDensity,
			automatable:   spec.Automatable,
			energy: Energy{
				Type:        spec.Energy.Type,
				Effectivity: spec.Energy.Effectivity,
				Emissions:   spec.Energy.Emissions,
			},
		}
		if e.size <= 0 {
			e.size = 1
		}
		if e.craftingSpeed <= 0 {
			e.craftingSpeed = 1
		}
		if e.energy.Effectivity <= 0 {
			e.energy.Effectivity = 1
		}
		if e.energy.Type == "" {
			e.energy.Type = EnergyVoid
		}

		for _, name := range spec.Energy.Fuels {
			fuel, err := db.FindGoods(name)
			if err != nil {
				return fmt.Errorf("fuel of %s: %w", spec.Name, err)
			}
			e.energy.Fuels = append(e.energy.Fuels, fuel)
		}
		if len(e.energy.Fuels) == 0 {
			switch e.energy.Type {
			case EnergyElectric:
				e.energy.Fuels = []*Goods{db.electricity}
			case EnergyHeat:
				e.energy.Fuels = []*Goods{db.heat}
			}
		}

		for _, name := range spec.PlacedBy {
			item, err := db.FindGoods(name)
			if err != nil {
				return fmt.Errorf("placing item of %s: %w", spec.Name, err)
			}
			e.itemsToPlace = append(e.itemsToPlace, item)
			item.placeable = append(item.placeable, e)
		}

		db.entitiesByName[spec.Name] = e
		db.entities = append(db.entities, e)
	}
	return nil
}

func (db *Database) buildRecipes(specs []RecipeSpec) error {
	for _, spec := range specs {
		if _, exists := db.recipesByName[spec.Name]; exists {
			return shared.NewDuplicateObjectError("recipe", spec.Name)
		}
		kind := spec.Kind
		if kind == "" {
			kind = RecipeKindRecipe
		}
		r := &Recipe{
			name:          spec.Name,
			kind:          kind,
			time:          spec.Time,
			count:         spec.Count,
			baseCost:      spec.BaseCost,
			automatable:   spec.Automatable,
			accessibleNow: spec.AccessibleNow,
		}
		if r.baseCost <= 0 {
			r.baseCost = 1
		}
		if spec.MiningProductivity {
			r.flags |= RecipeUsesMiningProductivity
		}
		if spec.ScaledByQuality {
			r.flags |= RecipeScaledByQuality
		}
		db.recipesByName[spec.Name] = r
		db.recipes = append(db.recipes, r)
	}

	for _, spec := range specs {
		r := db.recipesByName[spec.Name]
		if err := db.resolveRecipe(r, spec); err != nil {
			return fmt.Errorf("recipe %s: %w", spec.Name, err)
		}
	}
	return nil
}

func (db *Database) resolveRecipe(r *Recipe, spec RecipeSpec) error {
	for _, in := range spec.Ingredients {
		if in.Amount <= 0 {
			continue
		}
		goods, err := db.FindGoods(in.Goods)
		if err != nil {
			return err
		}
		ingredient := Ingredient{Goods: goods, Amount: in.Amount}
		for _, name := range in.Variants {
			variant, err := db.FindGoods(name)
			if err != nil {
				return err
			}
			ingredient.Variants = append(ingredient.Variants, variant)
		}
		if len(ingredient.Variants) > 0 {
			r.flags |= RecipeUsesFluidTemperature
		}
		r.ingredients = append(r.ingredients, ingredient)
		goods.usages = appendRecipeOnce(goods.usages, r)
	}

	for _, out := range spec.Products {
		if out.Amount <= 0 {
			continue
		}
		goods, err := db.FindGoods(out.Goods)
		if err != nil {
			return err
		}
		probability := out.Probability
		if probability <= 0 {
			probability = 1
		}
		r.products = append(r.products, Product{Goods: goods, Amount: out.Amount, Probability: probability})
		goods.production = appendRecipeOnce(goods.production, r)
	}

	for _, name := range spec.Crafters {
		crafter, err := db.FindEntity(name)
		if err != nil {
			return err
		}
		r.crafters = append(r.crafters, crafter)
		crafter.recipes = append(crafter.recipes, r)
	}

	if spec.SourceEntity != "" {
		source, err := db.FindEntity(spec.SourceEntity)
		if err != nil {
			return err
		}
		r.sourceEntity = source
	}

	for _, name := range spec.Prerequisites {
		prerequisite, err := db.FindRecipe(name)
		if err != nil {
			return err
		}
		r.prerequisites = append(r.prerequisites, prerequisite)
	}
	return nil
}

func (db *Database) buildFluidVariants() {
	groups := make(map[string][]*Goods)
	var order []string
	for _, g := range db.goods {
		if !g.IsFluid() {
			continue
		}
		name := g.VariantGroup()
		if _, seen := groups[name]; !seen {
			order = append(order, name)
		}
		groups[name] = append(groups[name], g)
	}
	for _, name := range order {
		variants := groups[name]
		if len(variants) < 2 {
			continue
		}
		sort.SliceStable(variants, func(i, j int) bool {
			return variants[i].temperature < variants[j].temperature
		})
		db.fluidVariants = append(db.fluidVariants, FluidVariantChain{Name: name, Variants: variants})
	}
}

func appendRecipeOnce(list []*Recipe, r *Recipe) []*Recipe {
	for _, existing := range list {
		if existing == r {
			return list
		}
	}
	return append(list, r)
}

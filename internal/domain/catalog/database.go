package catalog

import (
	"github.com/andrescamacho/factoryplanner-go/internal/domain/shared"
)

// Names of the special goods every catalog carries
const (
	ElectricityName = "electricity"
	HeatName        = "heat"
	VoidEnergyName  = "void"
)

// Object is anything the cost analysis can price
type Object interface {
	Name() string
	TypeName() string
}

// FluidVariantChain lists the temperature variants of one fluid, coldest first
type FluidVariantChain struct {
	Name     string
	Variants []*Goods
}

// Database is the immutable object model consumed by the solver and the cost
// estimator. All slices keep document order so every walk is deterministic.
type Database struct {
	document Document

	qualities []*Quality
	goods     []*Goods
	recipes   []*Recipe
	entities  []*Entity

	qualitiesByName map[string]*Quality
	goodsByName     map[string]*Goods
	recipesByName   map[string]*Recipe
	entitiesByName  map[string]*Entity

	electricity   *Goods
	heat          *Goods
	voidEnergy    *Goods
	fluidVariants []FluidVariantChain
}

// Document returns the document the database was built from
func (db *Database) Document() Document { return db.document }

func (db *Database) Qualities() []*Quality { return db.qualities }
func (db *Database) NormalQuality() *Quality { return db.qualities[0] }
func (db *Database) Goods() []*Goods { return db.goods }
func (db *Database) Entities() []*Entity { return db.entities }
func (db *Database) Electricity() *Goods { return db.electricity }
func (db *Database) Heat() *Goods { return db.heat }
func (db *Database) VoidEnergy() *Goods { return db.voidEnergy }
func (db *Database) FluidVariants() []FluidVariantChain { return db.fluidVariants }

// IsEnergy reports whether goods is one of the non-chargeable energy specials
func (db *Database) IsEnergy(goods *Goods) bool {
	return goods == db.electricity || goods == db.heat || goods == db.voidEnergy
}

// Recipes returns crafting recipes and mechanics, excluding technologies
func (db *Database) Recipes() []*Recipe {
	out := make([]*Recipe, 0, len(db.recipes))
	for _, r := range db.recipes {
		if !r.IsTechnology() {
			out = append(out, r)
		}
	}
	return out
}

// Technologies returns research entries only
func (db *Database) Technologies() []*Recipe {
	var out []*Recipe
	for _, r := range db.recipes {
		if r.IsTechnology() {
			out = append(out, r)
		}
	}
	return out
}

// RecipesAndTechnologies returns every recipe-like object in document order
func (db *Database) RecipesAndTechnologies() []*Recipe { return db.recipes }

// Objects returns goods, recipes, technologies and entities in that order
func (db *Database) Objects() []Object {
	out := make([]Object, 0, len(db.goods)+len(db.recipes)+len(db.entities))
	for _, g := range db.goods {
		out = append(out, g)
	}
	for _, r := range db.recipes {
		out = append(out, r)
	}
	for _, e := range db.entities {
		out = append(out, e)
	}
	return out
}

func (db *Database) Quality(name string) (*Quality, error) {
	if q, ok := db.qualitiesByName[name]; ok {
		return q, nil
	}
	return nil, shared.NewUnknownObjectError("quality", name)
}

func (db *Database) FindGoods(name string) (*Goods, error) {
	if g, ok := db.goodsByName[name]; ok {
		return g, nil
	}
	return nil, shared.NewUnknownObjectError("goods", name)
}

func (db *Database) FindRecipe(name string) (*Recipe, error) {
	if r, ok := db.recipesByName[name]; ok {
		return r, nil
	}
	return nil, shared.NewUnknownObjectError("recipe", name)
}

func (db *Database) FindEntity(name string) (*Entity, error) {
	if e, ok := db.entitiesByName[name]; ok {
		return e, nil
	}
	return nil, shared.NewUnknownObjectError("entity", name)
}

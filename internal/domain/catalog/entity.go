package catalog

// EnergyType describes how an entity is powered
type EnergyType string

const (
	EnergyElectric EnergyType = "electric"
	EnergyBurner   EnergyType = "burner"
	EnergyHeat     EnergyType = "heat"
	EnergyVoid     EnergyType = "void"
)

// Energy describes what an entity burns and how dirty it is
type Energy struct {
	Type        EnergyType
	Fuels       []*Goods
	Effectivity float64
	// Emissions is the pollution per second of a running building
	Emissions float64
}

// Entity is a crafter, a mining drill or a map-generated resource
type Entity struct {
	name          string
	size          int
	craftingSpeed float64
	basePower     float64
	energy        Energy
	mapGenerated  bool
	mapGenDensity float64
	automatable   bool

	itemsToPlace []*Goods
	recipes      []*Recipe
}

func (e *Entity) Name() string { return e.name }
func (e *Entity) TypeName() string { return "entity" }
func (e *Entity) Size() int { return e.size }
func (e *Entity) CraftingSpeed() float64 { return e.craftingSpeed }
// BasePower is the power draw of one running building in MW
func (e *Entity) BasePower() float64 { return e.basePower }
func (e *Entity) Energy() Energy { return e.energy }
func (e *Entity) IsMapGenerated() bool { return e.mapGenerated }
func (e *Entity) MapGenDensity() float64 { return e.mapGenDensity }
func (e *Entity) IsAutomatable() bool { return e.automatable }
func (e *Entity) ItemsToPlace() []*Goods { return e.itemsToPlace }
func (e *Entity) Recipes() []*Recipe { return e.recipes }

// UsesFuel reports whether the entity consumes a selectable fuel
func (e *Entity) UsesFuel() bool {
	return e.energy.Type != EnergyVoid && len(e.energy.Fuels) > 0
}

// AcceptsFuel reports whether fuel is in the entity's fuel list
func (e *Entity) AcceptsFuel(fuel *Goods) bool {
	for _, f := range e.energy.Fuels {
		if f == fuel {
			return true
		}
	}
	return false
}

package catalog

// Document is the serializable form of a catalog. The loading pipeline produces
// it, the persistence layer stores it and the Builder turns it into a Database.
type Document struct {
	Version   int           `json:"version"`
	Qualities []QualitySpec `json:"qualities,omitempty"`
	Goods     []GoodsSpec   `json:"goods"`
	Entities  []EntitySpec  `json:"entities,omitempty"`
	Recipes   []RecipeSpec  `json:"recipes"`
}

type QualitySpec struct {
	Name  string `json:"name"`
	Level int    `json:"level"`
}

type GoodsSpec struct {
	Name          string    `json:"name"`
	Kind          GoodsKind `json:"kind"`
	FuelValue     float64   `json:"fuel_value,omitempty"`
	FuelResult    string    `json:"fuel_result,omitempty"`
	Temperature   float64   `json:"temperature,omitempty"`
	VariantOf     string    `json:"variant_of,omitempty"`
	SciencePack   bool      `json:"science_pack,omitempty"`
	MiscSources   []string  `json:"misc_sources,omitempty"`
	Automatable   bool      `json:"automatable"`
	AccessibleNow bool      `json:"accessible_now"`
}

type EnergySpec struct {
	Type        EnergyType `json:"type"`
	Fuels       []string   `json:"fuels,omitempty"`
	Effectivity float64    `json:"effectivity,omitempty"`
	Emissions   float64    `json:"emissions,omitempty"`
}

type EntitySpec struct {
	Name          string     `json:"name"`
	Size          int        `json:"size,omitempty"`
	CraftingSpeed float64    `json:"crafting_speed,omitempty"`
	BasePower     float64    `json:"base_power,omitempty"`
	Energy        EnergySpec `json:"energy"`
	MapGenerated  bool       `json:"map_generated,omitempty"`
	MapGenDensity float64    `json:"map_gen_density,omitempty"`
	Automatable   bool       `json:"automatable"`
	PlacedBy      []string   `json:"placed_by,omitempty"`
}

type IngredientSpec struct {
	Goods    string   `json:"goods"`
	Amount   float64  `json:"amount"`
	Variants []string `json:"variants,omitempty"`
}

type ProductSpec struct {
	Goods       string  `json:"goods"`
	Amount      float64 `json:"amount"`
	Probability float64 `json:"probability,omitempty"`
}

type RecipeSpec struct {
	Name               string           `json:"name"`
	Kind               RecipeKind       `json:"kind,omitempty"`
	Time               float64          `json:"time"`
	Ingredients        []IngredientSpec `json:"ingredients,omitempty"`
	Products           []ProductSpec    `json:"products,omitempty"`
	Crafters           []string         `json:"crafters,omitempty"`
	SourceEntity       string           `json:"source_entity,omitempty"`
	Count              float64          `json:"count,omitempty"`
	Prerequisites      []string         `json:"prerequisites,omitempty"`
	BaseCost           float64          `json:"base_cost,omitempty"`
	MiningProductivity bool             `json:"mining_productivity,omitempty"`
	ScaledByQuality    bool             `json:"scaled_by_quality,omitempty"`
	Automatable        bool             `json:"automatable"`
	AccessibleNow      bool             `json:"accessible_now"`
}

package production

import (
	"fmt"

	"github.com/andrescamacho/factoryplanner-go/internal/domain/catalog"
)

// TableSpec is the serializable form of a production table. Goods, recipes,
// entities and qualities are referenced by name.
type TableSpec struct {
	Links []LinkSpec `json:"links,omitempty"`
	Rows  []RowSpec  `json:"rows,omitempty"`
}

type LinkSpec struct {
	Goods     string        `json:"goods"`
	Quality   string        `json:"quality,omitempty"`
	Amount    float64       `json:"amount"`
	Algorithm LinkAlgorithm `json:"algorithm,omitempty"`
}

type PercentageSpec struct {
	Goods      string  `json:"goods"`
	Quality    string  `json:"quality,omitempty"`
	Percentage float64 `json:"percentage"`
}

type RowSpec struct {
	Recipe         string            `json:"recipe"`
	Quality        string            `json:"quality,omitempty"`
	Disabled       bool              `json:"disabled,omitempty"`
	Entity         string            `json:"entity,omitempty"`
	EntityQuality  string            `json:"entity_quality,omitempty"`
	Fuel           string            `json:"fuel,omitempty"`
	FuelQuality    string            `json:"fuel_quality,omitempty"`
	Modules        ModuleEffects     `json:"modules"`
	Variants       map[string]string `json:"variants,omitempty"`
	FixedBuildings float64           `json:"fixed_buildings,omitempty"`
	BuiltBuildings *int              `json:"built_buildings,omitempty"`
	Percentages    []PercentageSpec  `json:"percentages,omitempty"`
	Subgroup       *TableSpec        `json:"subgroup,omitempty"`
}

// PageSpec is an importable page
type PageSpec struct {
	Name    string    `json:"name"`
	Content TableSpec `json:"content"`
}

// EncodeTable renders the user-editable part of table; solve outputs and
// implicit links are not included
func EncodeTable(table *ProductionTable) TableSpec {
	var spec TableSpec
	for _, link := range table.links {
		spec.Links = append(spec.Links, LinkSpec{
			Goods:     link.goods.Goods.Name(),
			Quality:   qualityName(link.goods.Quality),
			Amount:    link.amount,
			Algorithm: link.algorithm,
		})
	}
	for _, row := range table.rows {
		rowSpec := RowSpec{
			Recipe:         row.recipe.Name(),
			Quality:        qualityName(row.quality),
			Disabled:       !row.enabled,
			EntityQuality:  qualityName(row.entityQuality),
			FuelQuality:    qualityName(row.fuelQuality),
			Modules:        row.modules,
			FixedBuildings: row.fixedBuildings,
			BuiltBuildings: row.builtBuildings,
		}
		if row.entity != nil {
			rowSpec.Entity = row.entity.Name()
		}
		if row.fuel != nil {
			rowSpec.Fuel = row.fuel.Name()
		}
		if len(row.variants) > 0 {
			rowSpec.Variants = make(map[string]string, len(row.variants))
			for ingredient, variant := range row.variants {
				rowSpec.Variants[ingredient.Name()] = variant.Name()
			}
		}
		for _, entry := range row.consumptionPercentages {
			rowSpec.Percentages = append(rowSpec.Percentages, PercentageSpec{
				Goods:      entry.Goods.Goods.Name(),
				Quality:    qualityName(entry.Goods.Quality),
				Percentage: entry.Percentage,
			})
		}
		if row.subgroup != nil {
			sub := EncodeTable(row.subgroup)
			rowSpec.Subgroup = &sub
		}
		spec.Rows = append(spec.Rows, rowSpec)
	}
	return spec
}

// DecodeTable resolves spec against db into a fresh root table
func DecodeTable(spec TableSpec, db *catalog.Database) (*ProductionTable, error) {
	table := NewProductionTable()
	if err := decodeInto(table, spec, db); err != nil {
		return nil, err
	}
	return table, nil
}

func decodeInto(table *ProductionTable, spec TableSpec, db *catalog.Database) error {
	for _, linkSpec := range spec.Links {
		goods, err := resolveQualified(db, linkSpec.Goods, linkSpec.Quality)
		if err != nil {
			return fmt.Errorf("link: %w", err)
		}
		if _, err := table.AddLink(goods, linkSpec.Amount, linkSpec.Algorithm); err != nil {
			return err
		}
	}

	for _, rowSpec := range spec.Rows {
		recipe, err := db.FindRecipe(rowSpec.Recipe)
		if err != nil {
			return err
		}
		quality, err := resolveQuality(db, rowSpec.Quality)
		if err != nil {
			return err
		}
		row := NewRecipeRow(recipe, quality)
		row.SetEnabled(!rowSpec.Disabled)
		row.SetModules(rowSpec.Modules)
		row.SetFixedBuildings(rowSpec.FixedBuildings)
		row.SetBuiltBuildings(rowSpec.BuiltBuildings)

		if rowSpec.Entity != "" {
			entity, err := db.FindEntity(rowSpec.Entity)
			if err != nil {
				return err
			}
			entityQuality, err := resolveQuality(db, rowSpec.EntityQuality)
			if err != nil {
				return err
			}
			row.SetEntity(entity, entityQuality)
		}
		if rowSpec.Fuel != "" {
			fuel, err := db.FindGoods(rowSpec.Fuel)
			if err != nil {
				return err
			}
			var fuelQuality *catalog.Quality
			if rowSpec.FuelQuality != "" {
				if fuelQuality, err = db.Quality(rowSpec.FuelQuality); err != nil {
					return err
				}
			}
			row.SetFuel(fuel, fuelQuality)
		}
		for ingredientName, variantName := range rowSpec.Variants {
			ingredient, err := db.FindGoods(ingredientName)
			if err != nil {
				return err
			}
			variant, err := db.FindGoods(variantName)
			if err != nil {
				return err
			}
			row.SetIngredientVariant(ingredient, variant)
		}
		for _, p := range rowSpec.Percentages {
			goods, err := resolveQualified(db, p.Goods, p.Quality)
			if err != nil {
				return fmt.Errorf("percentage: %w", err)
			}
			if err := row.SetConsumptionPercentage(goods, p.Percentage); err != nil {
				return err
			}
		}

		table.AddRow(row)
		if rowSpec.Subgroup != nil {
			if err := decodeInto(row.EnsureSubgroup(), *rowSpec.Subgroup, db); err != nil {
				return fmt.Errorf("subgroup of %s: %w", rowSpec.Recipe, err)
			}
		}
	}
	return nil
}

func resolveQuality(db *catalog.Database, name string) (*catalog.Quality, error) {
	if name == "" {
		return db.NormalQuality(), nil
	}
	return db.Quality(name)
}

func resolveQualified(db *catalog.Database, goodsName, qualityName string) (catalog.QualifiedGoods, error) {
	goods, err := db.FindGoods(goodsName)
	if err != nil {
		return catalog.QualifiedGoods{}, err
	}
	quality, err := resolveQuality(db, qualityName)
	if err != nil {
		return catalog.QualifiedGoods{}, err
	}
	if !goods.IsItem() {
		quality = quality.Normal()
	}
	return catalog.QualifiedGoods{Goods: goods, Quality: quality}, nil
}

func qualityName(q *catalog.Quality) string {
	if q == nil || q.IsNormal() {
		return ""
	}
	return q.Name()
}

package persistence

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sort"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/andrescamacho/factoryplanner-go/internal/domain/catalog"
	"github.com/andrescamacho/factoryplanner-go/internal/domain/costing"
	"github.com/andrescamacho/factoryplanner-go/pkg/utils"
)

const (
	infiniteCost  = "inf"
	costPrecision = 6
)

// GormCostSnapshotRepository implements costing.SnapshotRepository using GORM.
// Costs are stored as fixed precision decimal strings so snapshots compare
// exactly across databases.
type GormCostSnapshotRepository struct {
	db *gorm.DB
}

// NewGormCostSnapshotRepository creates a new GORM cost snapshot repository
func NewGormCostSnapshotRepository(db *gorm.DB) *GormCostSnapshotRepository {
	return &GormCostSnapshotRepository{db: db}
}

// Save stores every priced object of analysis and returns the snapshot id
func (r *GormCostSnapshotRepository) Save(ctx context.Context, catalogName string, analysis *costing.Analysis) (string, error) {
	if analysis == nil {
		return "", fmt.Errorf("no analysis to save")
	}

	model := &CostSnapshotModel{
		ID:                    uuid.NewString(),
		CatalogName:           catalogName,
		OnlyCurrentMilestones: analysis.OnlyCurrentMilestones,
		Solved:                analysis.Solved,
		EstimatedTotal:        FormatCost(analysis.EstimatedTotal),
		ComputedAt:            analysis.ComputedAt,
	}
	for obj, cost := range analysis.Cost {
		entry := CostSnapshotEntryModel{
			SnapshotID: model.ID,
			ObjectType: obj.TypeName(),
			ObjectName: obj.Name(),
			Cost:       FormatCost(cost),
			Flow:       FormatCost(analysis.Flow[obj]),
			Waste:      FormatCost(0),
		}
		if recipe, ok := recipeOf(obj); ok {
			entry.Waste = FormatCost(analysis.WasteOf(recipe))
		}
		model.Entries = append(model.Entries, entry)
	}
	sort.Slice(model.Entries, func(i, j int) bool {
		if model.Entries[i].ObjectType != model.Entries[j].ObjectType {
			return model.Entries[i].ObjectType < model.Entries[j].ObjectType
		}
		return model.Entries[i].ObjectName < model.Entries[j].ObjectName
	})

	if result := r.db.WithContext(ctx).Create(model); result.Error != nil {
		return "", fmt.Errorf("failed to save cost snapshot: %w", result.Error)
	}
	return model.ID, nil
}

// Latest returns the entries of the most recent snapshot of the scope
func (r *GormCostSnapshotRepository) Latest(ctx context.Context, catalogName string, onlyCurrentMilestones bool) ([]costing.SnapshotEntry, error) {
	var model CostSnapshotModel
	result := r.db.WithContext(ctx).
		Preload("Entries", func(tx *gorm.DB) *gorm.DB { return tx.Order("object_type, object_name") }).
		Where("catalog_name = ? AND only_current_milestones = ?", catalogName, onlyCurrentMilestones).
		Order("computed_at DESC").
		First(&model)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("no cost snapshot for catalog: %s", catalogName)
		}
		return nil, fmt.Errorf("failed to find cost snapshot: %w", result.Error)
	}

	entries := make([]costing.SnapshotEntry, 0, len(model.Entries))
	for _, e := range model.Entries {
		cost, err := ParseCost(e.Cost)
		if err != nil {
			return nil, err
		}
		flow, err := ParseCost(e.Flow)
		if err != nil {
			return nil, err
		}
		waste, err := ParseCost(e.Waste)
		if err != nil {
			return nil, err
		}
		entries = append(entries, costing.SnapshotEntry{
			ObjectType: e.ObjectType,
			ObjectName: e.ObjectName,
			Cost:       cost,
			Flow:       flow,
			Waste:      waste,
		})
	}
	return entries, nil
}

// FormatCost renders v as a decimal string rounded to six places; infinities become "inf"
func FormatCost(v float64) string {
	if !utils.IsFinite(v) {
		return infiniteCost
	}
	return decimal.NewFromFloat(v).Round(costPrecision).String()
}

// ParseCost reverses FormatCost
func ParseCost(s string) (float64, error) {
	if s == infiniteCost {
		return math.Inf(1), nil
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return 0, fmt.Errorf("invalid stored cost %q: %w", s, err)
	}
	v, _ := d.Float64()
	return v, nil
}

func recipeOf(obj catalog.Object) (*catalog.Recipe, bool) {
	recipe, ok := obj.(*catalog.Recipe)
	return recipe, ok
}

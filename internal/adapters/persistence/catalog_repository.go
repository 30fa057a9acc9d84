package persistence

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/andrescamacho/factoryplanner-go/internal/domain/catalog"
	"github.com/andrescamacho/factoryplanner-go/internal/domain/shared"
)

// GormCatalogRepository implements catalog.Repository using GORM
type GormCatalogRepository struct {
	db    *gorm.DB
	clock shared.Clock
}

// NewGormCatalogRepository creates a new GORM catalog repository
func NewGormCatalogRepository(db *gorm.DB, clock shared.Clock) *GormCatalogRepository {
	if clock == nil {
		clock = shared.NewRealClock()
	}
	return &GormCatalogRepository{db: db, clock: clock}
}

// Save stores doc under name, replacing any previous version
func (r *GormCatalogRepository) Save(ctx context.Context, name string, doc catalog.Document) error {
	if _, err := catalog.Build(doc); err != nil {
		return fmt.Errorf("refusing to save invalid catalog %s: %w", name, err)
	}
	bytes, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("failed to marshal catalog: %w", err)
	}

	model := &CatalogModel{
		Name:      name,
		Version:   doc.Version,
		Document:  string(bytes),
		UpdatedAt: r.clock.Now(),
	}
	if result := r.db.WithContext(ctx).Save(model); result.Error != nil {
		return fmt.Errorf("failed to save catalog: %w", result.Error)
	}
	return nil
}

// Load reads and builds the catalog stored under name
func (r *GormCatalogRepository) Load(ctx context.Context, name string) (*catalog.Database, error) {
	var model CatalogModel
	result := r.db.WithContext(ctx).Where("name = ?", name).First(&model)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("catalog not found: %s", name)
		}
		return nil, fmt.Errorf("failed to find catalog: %w", result.Error)
	}

	var doc catalog.Document
	if err := json.Unmarshal([]byte(model.Document), &doc); err != nil {
		return nil, fmt.Errorf("failed to unmarshal catalog %s: %w", name, err)
	}
	return catalog.Build(doc)
}

// List returns the stored catalog names in alphabetical order
func (r *GormCatalogRepository) List(ctx context.Context) ([]string, error) {
	var names []string
	result := r.db.WithContext(ctx).Model(&CatalogModel{}).Order("name").Pluck("name", &names)
	if result.Error != nil {
		return nil, fmt.Errorf("failed to list catalogs: %w", result.Error)
	}
	return names, nil
}

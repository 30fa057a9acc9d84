package helpers

import (
	"testing"
	"time"

	"gorm.io/gorm"

	"github.com/andrescamacho/factoryplanner-go/internal/adapters/persistence"
	"github.com/andrescamacho/factoryplanner-go/internal/domain/shared"
)

// TestRepositories holds real repository instances backed by one in-memory database
type TestRepositories struct {
	DB           *gorm.DB
	Clock        *shared.MockClock
	CatalogRepo  *persistence.GormCatalogRepository
	ProjectRepo  *persistence.GormProjectRepository
	SnapshotRepo *persistence.GormCostSnapshotRepository
}

// NewTestRepositories creates a migrated database and the planner repositories on top of it
func NewTestRepositories(t *testing.T) *TestRepositories {
	db := NewTestDB(t)
	clock := shared.NewMockClock(time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC))

	return &TestRepositories{
		DB:           db,
		Clock:        clock,
		CatalogRepo:  persistence.NewGormCatalogRepository(db, clock),
		ProjectRepo:  persistence.NewGormProjectRepository(db, clock),
		SnapshotRepo: persistence.NewGormCostSnapshotRepository(db),
	}
}

package production

import (
	"context"

	"github.com/andrescamacho/factoryplanner-go/internal/domain/catalog"
)

// ProjectRepository stores projects and their page trees. Page trees reference
// catalog objects by name, so loading needs the catalog they were built on.
type ProjectRepository interface {
	Save(ctx context.Context, project *Project) error
	FindByName(ctx context.Context, name string, db *catalog.Database) (*Project, error)
	List(ctx context.Context) ([]string, error)
}

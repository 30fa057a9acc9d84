package commands

import (
	"context"
	"fmt"

	"github.com/andrescamacho/factoryplanner-go/internal/application/common"
	"github.com/andrescamacho/factoryplanner-go/internal/application/mediator"
	"github.com/andrescamacho/factoryplanner-go/internal/domain/catalog"
)

// ImportCatalogCommand stores a catalog document under a name
type ImportCatalogCommand struct {
	Name     string
	Document catalog.Document
}

// ImportCatalogResponse summarizes the stored catalog
type ImportCatalogResponse struct {
	Name     string
	Goods    int
	Recipes  int
	Entities int
}

// ImportCatalogHandler handles the ImportCatalog command
type ImportCatalogHandler struct {
	catalogRepo catalog.Repository
}

// NewImportCatalogHandler creates a new ImportCatalogHandler
func NewImportCatalogHandler(catalogRepo catalog.Repository) *ImportCatalogHandler {
	return &ImportCatalogHandler{catalogRepo: catalogRepo}
}

// Handle validates and saves the catalog
func (h *ImportCatalogHandler) Handle(ctx context.Context, request mediator.Request) (mediator.Response, error) {
	cmd, ok := request.(*ImportCatalogCommand)
	if !ok {
		return nil, fmt.Errorf("invalid request type: expected *ImportCatalogCommand")
	}
	if cmd.Name == "" {
		return nil, fmt.Errorf("catalog name is required")
	}

	db, err := catalog.Build(cmd.Document)
	if err != nil {
		return nil, fmt.Errorf("invalid catalog: %w", err)
	}
	if err := h.catalogRepo.Save(ctx, cmd.Name, cmd.Document); err != nil {
		return nil, err
	}

	common.LoggerFromContext(ctx).Log("INFO", "Catalog imported", map[string]interface{}{
		"catalog": cmd.Name,
		"recipes": len(db.Recipes()),
	})

	return &ImportCatalogResponse{
		Name:     cmd.Name,
		Goods:    len(db.Goods()),
		Recipes:  len(db.Recipes()),
		Entities: len(db.Entities()),
	}, nil
}

package commands

import (
	"context"
	"errors"
	"fmt"

	"github.com/andrescamacho/factoryplanner-go/internal/application/common"
	"github.com/andrescamacho/factoryplanner-go/internal/application/mediator"
	"github.com/andrescamacho/factoryplanner-go/internal/domain/catalog"
	"github.com/andrescamacho/factoryplanner-go/internal/domain/production"
)

// ImportPageCommand adds or replaces a page of a project. The project is
// created with default settings when it does not exist yet.
type ImportPageCommand struct {
	CatalogName string
	ProjectName string
	Page        production.PageSpec
}

// ImportPageResponse reports the stored page
type ImportPageResponse struct {
	Page     *production.ProjectPage
	Created  bool
	Replaced bool
}

// ImportPageHandler handles the ImportPage command
type ImportPageHandler struct {
	catalogRepo catalog.Repository
	projectRepo production.ProjectRepository
}

// NewImportPageHandler creates a new ImportPageHandler
func NewImportPageHandler(catalogRepo catalog.Repository, projectRepo production.ProjectRepository) *ImportPageHandler {
	return &ImportPageHandler{
		catalogRepo: catalogRepo,
		projectRepo: projectRepo,
	}
}

// Handle decodes the page against the catalog and saves the project
func (h *ImportPageHandler) Handle(ctx context.Context, request mediator.Request) (mediator.Response, error) {
	cmd, ok := request.(*ImportPageCommand)
	if !ok {
		return nil, fmt.Errorf("invalid request type: expected *ImportPageCommand")
	}
	if cmd.ProjectName == "" {
		return nil, fmt.Errorf("project name is required")
	}
	if cmd.Page.Name == "" {
		return nil, fmt.Errorf("page name is required")
	}

	db, err := h.catalogRepo.Load(ctx, cmd.CatalogName)
	if err != nil {
		return nil, err
	}
	project, created, err := loadOrCreateProject(ctx, h.projectRepo, cmd.ProjectName, db)
	if err != nil {
		return nil, err
	}

	table, err := production.DecodeTable(cmd.Page.Content, db)
	if err != nil {
		return nil, fmt.Errorf("page %s: %w", cmd.Page.Name, err)
	}

	page, replaced := project.FindPage(cmd.Page.Name)
	if !replaced {
		page = project.AddPage(cmd.Page.Name)
	}
	page.SetContent(table)

	if err := h.projectRepo.Save(ctx, project); err != nil {
		return nil, err
	}

	common.LoggerFromContext(ctx).Log("INFO", "Page imported", map[string]interface{}{
		"project":  project.Name(),
		"page":     page.Name(),
		"replaced": replaced,
	})

	return &ImportPageResponse{Page: page, Created: created, Replaced: replaced}, nil
}

func loadOrCreateProject(ctx context.Context, repo production.ProjectRepository, name string, db *catalog.Database) (*production.Project, bool, error) {
	project, err := repo.FindByName(ctx, name, db)
	if err == nil {
		return project, false, nil
	}
	var notFound *production.ErrProjectNotFound
	if !errors.As(err, &notFound) {
		return nil, false, err
	}
	return production.NewProject(name, production.DefaultSettings()), true, nil
}

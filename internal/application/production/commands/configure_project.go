package commands

import (
	"context"
	"fmt"

	"github.com/andrescamacho/factoryplanner-go/internal/application/mediator"
	"github.com/andrescamacho/factoryplanner-go/internal/domain/catalog"
	"github.com/andrescamacho/factoryplanner-go/internal/domain/production"
)

// ConfigureProjectCommand updates the project-wide settings. Nil fields keep
// their current value; an empty TargetTechnology clears it.
type ConfigureProjectCommand struct {
	CatalogName           string
	ProjectName           string
	PollutionCostModifier     *float64
	InaccessibleRecipePenalty *float64
	TargetTechnology          *string
}

// ConfigureProjectResponse carries the settings after the update
type ConfigureProjectResponse struct {
	Settings production.Settings
}

// ConfigureProjectHandler handles the ConfigureProject command
type ConfigureProjectHandler struct {
	catalogRepo catalog.Repository
	projectRepo production.ProjectRepository
}

// NewConfigureProjectHandler creates a new ConfigureProjectHandler
func NewConfigureProjectHandler(catalogRepo catalog.Repository, projectRepo production.ProjectRepository) *ConfigureProjectHandler {
	return &ConfigureProjectHandler{
		catalogRepo: catalogRepo,
		projectRepo: projectRepo,
	}
}

func (h *ConfigureProjectHandler) Handle(ctx context.Context, request mediator.Request) (mediator.Response, error) {
	cmd, ok := request.(*ConfigureProjectCommand)
	if !ok {
		return nil, fmt.Errorf("invalid request type: expected *ConfigureProjectCommand")
	}

	db, err := h.catalogRepo.Load(ctx, cmd.CatalogName)
	if err != nil {
		return nil, err
	}
	project, _, err := loadOrCreateProject(ctx, h.projectRepo, cmd.ProjectName, db)
	if err != nil {
		return nil, err
	}

	settings := project.Settings()
	if cmd.PollutionCostModifier != nil {
		if *cmd.PollutionCostModifier < 0 {
			return nil, fmt.Errorf("pollution cost modifier must not be negative")
		}
		settings.PollutionCostModifier = *cmd.PollutionCostModifier
	}
	if cmd.InaccessibleRecipePenalty != nil {
		if *cmd.InaccessibleRecipePenalty < 1 {
			return nil, fmt.Errorf("inaccessible recipe penalty must be at least 1")
		}
		settings.InaccessibleRecipePenalty = *cmd.InaccessibleRecipePenalty
	}
	if cmd.TargetTechnology != nil {
		settings.TargetTechnology = nil
		if *cmd.TargetTechnology != "" {
			tech, err := db.FindRecipe(*cmd.TargetTechnology)
			if err != nil {
				return nil, err
			}
			if !tech.IsTechnology() {
				return nil, fmt.Errorf("%s is not a technology", tech.Name())
			}
			settings.TargetTechnology = tech
		}
	}
	project.SetSettings(settings)

	if err := h.projectRepo.Save(ctx, project); err != nil {
		return nil, err
	}
	return &ConfigureProjectResponse{Settings: settings}, nil
}

package persistence

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/andrescamacho/factoryplanner-go/internal/domain/catalog"
	"github.com/andrescamacho/factoryplanner-go/internal/domain/production"
	"github.com/andrescamacho/factoryplanner-go/internal/domain/shared"
)

// GormProjectRepository implements production.ProjectRepository using GORM
type GormProjectRepository struct {
	db    *gorm.DB
	clock shared.Clock
}

// NewGormProjectRepository creates a new GORM project repository
func NewGormProjectRepository(db *gorm.DB, clock shared.Clock) *GormProjectRepository {
	if clock == nil {
		clock = shared.NewRealClock()
	}
	return &GormProjectRepository{db: db, clock: clock}
}

// Save upserts the project and rewrites all of its pages
func (r *GormProjectRepository) Save(ctx context.Context, project *production.Project) error {
	model, pages, err := r.projectToModels(project)
	if err != nil {
		return err
	}

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Pages").Save(model).Error; err != nil {
			return fmt.Errorf("failed to save project: %w", err)
		}
		if err := tx.Where("project_id = ?", model.ID).Delete(&ProjectPageModel{}).Error; err != nil {
			return fmt.Errorf("failed to clear project pages: %w", err)
		}
		if len(pages) == 0 {
			return nil
		}
		if err := tx.Create(&pages).Error; err != nil {
			return fmt.Errorf("failed to save project pages: %w", err)
		}
		return nil
	})
}

// FindByName loads a project and resolves its page trees against db
func (r *GormProjectRepository) FindByName(ctx context.Context, name string, db *catalog.Database) (*production.Project, error) {
	var model ProjectModel
	result := r.db.WithContext(ctx).
		Preload("Pages", func(tx *gorm.DB) *gorm.DB { return tx.Order("position") }).
		Where("name = ?", name).
		First(&model)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, &production.ErrProjectNotFound{Name: name}
		}
		return nil, fmt.Errorf("failed to find project: %w", result.Error)
	}
	return r.modelToProject(&model, db)
}

// List returns the stored project names in alphabetical order
func (r *GormProjectRepository) List(ctx context.Context) ([]string, error) {
	var names []string
	result := r.db.WithContext(ctx).Model(&ProjectModel{}).Order("name").Pluck("name", &names)
	if result.Error != nil {
		return nil, fmt.Errorf("failed to list projects: %w", result.Error)
	}
	return names, nil
}

func (r *GormProjectRepository) projectToModels(project *production.Project) (*ProjectModel, []ProjectPageModel, error) {
	settings := project.Settings()
	model := &ProjectModel{
		ID:                        project.ID(),
		Name:                      project.Name(),
		PollutionCostModifier:     settings.PollutionCostModifier,
		InaccessibleRecipePenalty: settings.InaccessibleRecipePenalty,
		UpdatedAt:                 r.clock.Now(),
	}
	if settings.TargetTechnology != nil {
		model.TargetTechnology = settings.TargetTechnology.Name()
	}

	pages := make([]ProjectPageModel, 0, len(project.Pages()))
	for i, page := range project.Pages() {
		content, err := json.Marshal(production.EncodeTable(page.Content()))
		if err != nil {
			return nil, nil, fmt.Errorf("failed to marshal page %s: %w", page.Name(), err)
		}
		pages = append(pages, ProjectPageModel{
			ID:          page.ID(),
			ProjectID:   project.ID(),
			Position:    i,
			Name:        page.Name(),
			Content:     string(content),
			LastMessage: page.LastMessage(),
			SolvedAt:    page.SolvedAt(),
		})
	}
	return model, pages, nil
}

func (r *GormProjectRepository) modelToProject(model *ProjectModel, db *catalog.Database) (*production.Project, error) {
	settings := production.Settings{
		PollutionCostModifier:     model.PollutionCostModifier,
		InaccessibleRecipePenalty: model.InaccessibleRecipePenalty,
	}
	if model.TargetTechnology != "" {
		tech, err := db.FindRecipe(model.TargetTechnology)
		if err != nil {
			return nil, fmt.Errorf("project %s target technology: %w", model.Name, err)
		}
		settings.TargetTechnology = tech
	}

	pages := make([]*production.ProjectPage, 0, len(model.Pages))
	for _, pageModel := range model.Pages {
		var spec production.TableSpec
		if err := json.Unmarshal([]byte(pageModel.Content), &spec); err != nil {
			return nil, fmt.Errorf("failed to unmarshal page %s: %w", pageModel.Name, err)
		}
		table, err := production.DecodeTable(spec, db)
		if err != nil {
			return nil, fmt.Errorf("page %s: %w", pageModel.Name, err)
		}
		page := production.ReconstructPage(pageModel.ID, pageModel.Name, table)
		if pageModel.SolvedAt != nil {
			page.RecordSolve(pageModel.LastMessage, *pageModel.SolvedAt)
		}
		pages = append(pages, page)
	}

	return production.ReconstructProject(model.ID, model.Name, settings, pages), nil
}

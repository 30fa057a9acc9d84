package setup

import (
	"reflect"

	catalogCommands "github.com/andrescamacho/factoryplanner-go/internal/application/catalog/commands"
	costingCommands "github.com/andrescamacho/factoryplanner-go/internal/application/costing/commands"
	costingQueries "github.com/andrescamacho/factoryplanner-go/internal/application/costing/queries"
	costingServices "github.com/andrescamacho/factoryplanner-go/internal/application/costing/services"
	"github.com/andrescamacho/factoryplanner-go/internal/application/mediator"
	productionCommands "github.com/andrescamacho/factoryplanner-go/internal/application/production/commands"
	productionServices "github.com/andrescamacho/factoryplanner-go/internal/application/production/services"
	"github.com/andrescamacho/factoryplanner-go/internal/domain/catalog"
	"github.com/andrescamacho/factoryplanner-go/internal/domain/costing"
	"github.com/andrescamacho/factoryplanner-go/internal/domain/production"
)

// HandlerRegistry holds all application dependencies for handler creation
type HandlerRegistry struct {
	catalogRepo  catalog.Repository
	projectRepo  production.ProjectRepository
	snapshotRepo costing.SnapshotRepository

	estimator *costingServices.CostEstimator
	refresher *costingServices.CostRefresher
	solver    *productionServices.NetworkSolver
}

// NewHandlerRegistry creates a new handler registry with required dependencies.
// solver is expected to take its slack weights from estimator.
func NewHandlerRegistry(
	catalogRepo catalog.Repository,
	projectRepo production.ProjectRepository,
	snapshotRepo costing.SnapshotRepository,
	estimator *costingServices.CostEstimator,
	refresher *costingServices.CostRefresher,
	solver *productionServices.NetworkSolver,
) *HandlerRegistry {
	return &HandlerRegistry{
		catalogRepo:  catalogRepo,
		projectRepo:  projectRepo,
		snapshotRepo: snapshotRepo,
		estimator:    estimator,
		refresher:    refresher,
		solver:       solver,
	}
}

// RegisterCatalogHandlers registers ImportCatalogCommand
func (r *HandlerRegistry) RegisterCatalogHandlers(m mediator.Mediator) error {
	return m.Register(
		reflect.TypeOf(&catalogCommands.ImportCatalogCommand{}),
		catalogCommands.NewImportCatalogHandler(r.catalogRepo),
	)
}

// RegisterProductionHandlers registers the page import, project settings and solve handlers
func (r *HandlerRegistry) RegisterProductionHandlers(m mediator.Mediator) error {
	if err := m.Register(
		reflect.TypeOf(&productionCommands.ImportPageCommand{}),
		productionCommands.NewImportPageHandler(r.catalogRepo, r.projectRepo),
	); err != nil {
		return err
	}

	if err := m.Register(
		reflect.TypeOf(&productionCommands.ConfigureProjectCommand{}),
		productionCommands.NewConfigureProjectHandler(r.catalogRepo, r.projectRepo),
	); err != nil {
		return err
	}

	return m.Register(
		reflect.TypeOf(&productionCommands.SolvePageCommand{}),
		productionCommands.NewSolvePageHandler(r.catalogRepo, r.projectRepo, r.refresher, r.solver),
	)
}

// RegisterCostingHandlers registers ComputeCostsCommand and LatestCostsQuery
func (r *HandlerRegistry) RegisterCostingHandlers(m mediator.Mediator) error {
	if err := m.Register(
		reflect.TypeOf(&costingCommands.ComputeCostsCommand{}),
		costingCommands.NewComputeCostsHandler(r.catalogRepo, r.projectRepo, r.snapshotRepo, r.estimator),
	); err != nil {
		return err
	}

	return m.Register(
		reflect.TypeOf(&costingQueries.LatestCostsQuery{}),
		costingQueries.NewLatestCostsHandler(r.snapshotRepo),
	)
}

// CreateConfiguredMediator creates a mediator with every planner handler registered.
// Middlewares are added by the caller.
func (r *HandlerRegistry) CreateConfiguredMediator() (mediator.Mediator, error) {
	m := mediator.NewMediator()

	if err := r.RegisterCatalogHandlers(m); err != nil {
		return nil, err
	}
	if err := r.RegisterProductionHandlers(m); err != nil {
		return nil, err
	}
	if err := r.RegisterCostingHandlers(m); err != nil {
		return nil, err
	}

	return m, nil
}

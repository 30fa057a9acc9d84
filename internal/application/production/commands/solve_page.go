package commands

import (
	"context"
	"fmt"

	"github.com/andrescamacho/factoryplanner-go/internal/application/common"
	costingServices "github.com/andrescamacho/factoryplanner-go/internal/application/costing/services"
	"github.com/andrescamacho/factoryplanner-go/internal/application/mediator"
	"github.com/andrescamacho/factoryplanner-go/internal/application/production/services"
	"github.com/andrescamacho/factoryplanner-go/internal/domain/catalog"
	"github.com/andrescamacho/factoryplanner-go/internal/domain/production"
)

// SolvePageCommand solves one page of a stored project
type SolvePageCommand struct {
	CatalogName string
	ProjectName string
	PageName    string
}

// SolvePageResponse carries the solved page. Message is empty when the
// network was feasible; Warnings holds problems the cost analysis reported.
type SolvePageResponse struct {
	Page           *production.ProjectPage
	Message        string
	CostsRefreshed bool
	Warnings       []common.CollectedError
}

// SolvePageHandler handles the SolvePage command
type SolvePageHandler struct {
	catalogRepo catalog.Repository
	projectRepo production.ProjectRepository
	refresher   *costingServices.CostRefresher
	solver      *services.NetworkSolver
}

// NewSolvePageHandler creates a new SolvePageHandler. The solver should read
// its slack weights from the same estimator the refresher drives.
func NewSolvePageHandler(
	catalogRepo catalog.Repository,
	projectRepo production.ProjectRepository,
	refresher *costingServices.CostRefresher,
	solver *services.NetworkSolver,
) *SolvePageHandler {
	return &SolvePageHandler{
		catalogRepo: catalogRepo,
		projectRepo: projectRepo,
		refresher:   refresher,
		solver:      solver,
	}
}

// Handle refreshes the cost analysis, solves the page and stores the result
func (h *SolvePageHandler) Handle(ctx context.Context, request mediator.Request) (mediator.Response, error) {
	cmd, ok := request.(*SolvePageCommand)
	if !ok {
		return nil, fmt.Errorf("invalid request type: expected *SolvePageCommand")
	}

	db, err := h.catalogRepo.Load(ctx, cmd.CatalogName)
	if err != nil {
		return nil, err
	}
	project, err := h.projectRepo.FindByName(ctx, cmd.ProjectName, db)
	if err != nil {
		return nil, err
	}
	page, ok := project.FindPage(cmd.PageName)
	if !ok {
		return nil, fmt.Errorf("page not found: %s", cmd.PageName)
	}

	warnings := common.NewErrorCollector()
	refreshed := false
	if h.refresher != nil {
		_, _, refreshed, err = h.refresher.Refresh(ctx, db, project, warnings)
		if err != nil {
			return nil, fmt.Errorf("failed to refresh costs: %w", err)
		}
	}

	message, err := h.solver.Solve(ctx, page)
	if err != nil {
		return nil, err
	}

	if err := h.projectRepo.Save(ctx, project); err != nil {
		return nil, err
	}

	return &SolvePageResponse{
		Page:           page,
		Message:        message,
		CostsRefreshed: refreshed,
		Warnings:       warnings.Errors(),
	}, nil
}

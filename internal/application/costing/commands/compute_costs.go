package commands

import (
	"context"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/andrescamacho/factoryplanner-go/internal/application/common"
	"github.com/andrescamacho/factoryplanner-go/internal/application/costing/services"
	"github.com/andrescamacho/factoryplanner-go/internal/application/mediator"
	"github.com/andrescamacho/factoryplanner-go/internal/domain/catalog"
	"github.com/andrescamacho/factoryplanner-go/internal/domain/costing"
	"github.com/andrescamacho/factoryplanner-go/internal/domain/production"
	"github.com/andrescamacho/factoryplanner-go/pkg/utils"
)

// ComputeCostsCommand runs the cost analysis for a catalog and stores a snapshot.
// ProjectName is optional; without it the default project settings apply.
type ComputeCostsCommand struct {
	CatalogName           string
	ProjectName           string
	OnlyCurrentMilestones bool
	Top                   int
}

// CostLine is one ranked row of the report
type CostLine struct {
	Goods string
	Cost  decimal.Decimal
	Flow  decimal.Decimal
}

// ComputeCostsResponse is the outcome of a cost analysis
type ComputeCostsResponse struct {
	SnapshotID     string
	Solved         bool
	EstimatedTotal decimal.Decimal
	Important      []CostLine
	Analysis       *costing.Analysis
	Warnings       []common.CollectedError
}

// ComputeCostsHandler handles the ComputeCosts command
type ComputeCostsHandler struct {
	catalogRepo  catalog.Repository
	projectRepo  production.ProjectRepository
	snapshotRepo costing.SnapshotRepository
	estimator    *services.CostEstimator
}

// NewComputeCostsHandler creates a new ComputeCostsHandler
func NewComputeCostsHandler(
	catalogRepo catalog.Repository,
	projectRepo production.ProjectRepository,
	snapshotRepo costing.SnapshotRepository,
	estimator *services.CostEstimator,
) *ComputeCostsHandler {
	return &ComputeCostsHandler{
		catalogRepo:  catalogRepo,
		projectRepo:  projectRepo,
		snapshotRepo: snapshotRepo,
		estimator:    estimator,
	}
}

func (h *ComputeCostsHandler) Handle(ctx context.Context, request mediator.Request) (mediator.Response, error) {
	cmd, ok := request.(*ComputeCostsCommand)
	if !ok {
		return nil, fmt.Errorf("invalid request type: expected *ComputeCostsCommand")
	}

	db, err := h.catalogRepo.Load(ctx, cmd.CatalogName)
	if err != nil {
		return nil, err
	}

	var project *production.Project
	if cmd.ProjectName != "" {
		project, err = h.projectRepo.FindByName(ctx, cmd.ProjectName, db)
		var notFound *production.ErrProjectNotFound
		if err != nil && !errors.As(err, &notFound) {
			return nil, err
		}
	}

	warnings := common.NewErrorCollector()
	analysis, err := h.estimator.Compute(ctx, db, project, cmd.OnlyCurrentMilestones, warnings)
	if err != nil {
		return nil, err
	}

	snapshotID, err := h.snapshotRepo.Save(ctx, cmd.CatalogName, analysis)
	if err != nil {
		return nil, err
	}

	return &ComputeCostsResponse{
		SnapshotID:     snapshotID,
		Solved:         analysis.Solved,
		EstimatedTotal: roundCost(analysis.EstimatedTotal),
		Important:      importantLines(analysis, cmd.Top),
		Analysis:       analysis,
		Warnings:       warnings.Errors(),
	}, nil
}

func importantLines(analysis *costing.Analysis, top int) []CostLine {
	items := analysis.ImportantItems
	if top > 0 && len(items) > top {
		items = items[:top]
	}
	lines := make([]CostLine, 0, len(items))
	for _, goods := range items {
		lines = append(lines, CostLine{
			Goods: goods.Name(),
			Cost:  roundCost(analysis.CostOf(goods)),
			Flow:  roundCost(analysis.Flow[goods]),
		})
	}
	return lines
}

// roundCost maps non-finite costs to zero; callers check Solved first
func roundCost(v float64) decimal.Decimal {
	return decimal.NewFromFloat(utils.FiniteOr(v, 0)).Round(4)
}

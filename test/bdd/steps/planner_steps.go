package steps

import (
	"context"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/cucumber/godog"
	messages "github.com/cucumber/messages/go/v21"
	"gorm.io/gorm"

	"github.com/andrescamacho/factoryplanner-go/internal/adapters/lp"
	"github.com/andrescamacho/factoryplanner-go/internal/adapters/persistence"
	catalogCommands "github.com/andrescamacho/factoryplanner-go/internal/application/catalog/commands"
	costingCommands "github.com/andrescamacho/factoryplanner-go/internal/application/costing/commands"
	costingQueries "github.com/andrescamacho/factoryplanner-go/internal/application/costing/queries"
	costingServices "github.com/andrescamacho/factoryplanner-go/internal/application/costing/services"
	"github.com/andrescamacho/factoryplanner-go/internal/application/mediator"
	productionCommands "github.com/andrescamacho/factoryplanner-go/internal/application/production/commands"
	productionServices "github.com/andrescamacho/factoryplanner-go/internal/application/production/services"
	"github.com/andrescamacho/factoryplanner-go/internal/application/setup"
	"github.com/andrescamacho/factoryplanner-go/internal/domain/catalog"
	"github.com/andrescamacho/factoryplanner-go/internal/domain/production"
	"github.com/andrescamacho/factoryplanner-go/internal/domain/shared"
	"github.com/andrescamacho/factoryplanner-go/internal/infrastructure/database"
	"github.com/andrescamacho/factoryplanner-go/test/helpers"
)

const tolerance = 1e-6

type plannerContext struct {
	ctx         context.Context
	db          *gorm.DB
	mediator    mediator.Mediator
	projectRepo *persistence.GormProjectRepository
	catalogRepo *persistence.GormCatalogRepository

	catalogName string
	page        production.PageSpec

	solved *productionCommands.SolvePageResponse
	costs  *costingCommands.ComputeCostsResponse
}

func (pc *plannerContext) reset() error {
	if pc.db != nil {
		database.Close(pc.db)
	}
	*pc = plannerContext{ctx: context.Background()}

	db, err := database.NewTestConnection()
	if err != nil {
		return fmt.Errorf("failed to create test database: %w", err)
	}
	pc.db = db

	clock := shared.NewMockClock(time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC))
	options := []lp.Option{lp.WithSeed(7)}
	estimator := costingServices.NewCostEstimator(clock, options...)
	refresher := costingServices.NewCostRefresher(estimator, 0, 1)
	solver := productionServices.NewNetworkSolver(estimator, clock, options...)

	pc.catalogRepo = persistence.NewGormCatalogRepository(db, clock)
	pc.projectRepo = persistence.NewGormProjectRepository(db, clock)
	registry := setup.NewHandlerRegistry(
		pc.catalogRepo,
		pc.projectRepo,
		persistence.NewGormCostSnapshotRepository(db),
		estimator,
		refresher,
		solver,
	)

	pc.mediator, err = registry.CreateConfiguredMediator()
	return err
}

func (pc *plannerContext) close() {
	if pc.db != nil {
		database.Close(pc.db)
		pc.db = nil
	}
}

// Catalog and page setup

func (pc *plannerContext) theSmeltingCatalogIsImportedAs(name string) error {
	_, err := pc.mediator.Send(pc.ctx, &catalogCommands.ImportCatalogCommand{
		Name:     name,
		Document: helpers.SmeltingCatalog(),
	})
	if err != nil {
		return err
	}
	pc.catalogName = name
	return nil
}

func (pc *plannerContext) aPageWithLinks(name string, table *godog.Table) error {
	pc.page = production.PageSpec{Name: name}
	for _, row := range table.Rows[1:] {
		amount, err := strconv.ParseFloat(getCellValueFromTable(table, row, "amount"), 64)
		if err != nil {
			return fmt.Errorf("invalid amount: %w", err)
		}
		pc.page.Content.Links = append(pc.page.Content.Links, production.LinkSpec{
			Goods:     getCellValueFromTable(table, row, "goods"),
			Amount:    amount,
			Algorithm: production.LinkAlgorithm(getCellValueFromTable(table, row, "algorithm")),
		})
	}
	return nil
}

func (pc *plannerContext) thePageHasRows(table *godog.Table) error {
	for _, row := range table.Rows[1:] {
		pc.page.Content.Rows = append(pc.page.Content.Rows, production.RowSpec{
			Recipe: getCellValueFromTable(table, row, "recipe"),
			Entity: getCellValueFromTable(table, row, "entity"),
			Fuel:   getCellValueFromTable(table, row, "fuel"),
		})
	}
	return nil
}

func (pc *plannerContext) rowConsumesPercentOfIts(recipe string, percent int, goods string) error {
	for i := range pc.page.Content.Rows {
		spec := &pc.page.Content.Rows[i]
		if spec.Recipe != recipe {
			continue
		}
		spec.Percentages = append(spec.Percentages, production.PercentageSpec{
			Goods:      goods,
			Percentage: float64(percent) / 100,
		})
		return nil
	}
	return fmt.Errorf("no row for recipe %s on the page", recipe)
}

// Actions

func (pc *plannerContext) iSolvePageOfProject(pageName, projectName string) error {
	if pc.page.Name != pageName {
		return fmt.Errorf("page %s has not been described", pageName)
	}
	if _, err := pc.mediator.Send(pc.ctx, &productionCommands.ImportPageCommand{
		CatalogName: pc.catalogName,
		ProjectName: projectName,
		Page:        pc.page,
	}); err != nil {
		return fmt.Errorf("failed to import page: %w", err)
	}

	resp, err := pc.mediator.Send(pc.ctx, &productionCommands.SolvePageCommand{
		CatalogName: pc.catalogName,
		ProjectName: projectName,
		PageName:    pageName,
	})
	if err != nil {
		return err
	}
	pc.solved = resp.(*productionCommands.SolvePageResponse)
	return nil
}

func (pc *plannerContext) computeCosts(catalogName string, milestones bool) error {
	resp, err := pc.mediator.Send(pc.ctx, &costingCommands.ComputeCostsCommand{
		CatalogName:           catalogName,
		OnlyCurrentMilestones: milestones,
		Top:                   10,
	})
	if err != nil {
		return err
	}
	pc.costs = resp.(*costingCommands.ComputeCostsResponse)
	return nil
}

func (pc *plannerContext) iComputeTheCostsOfCatalog(catalogName string) error {
	return pc.computeCosts(catalogName, false)
}

func (pc *plannerContext) iComputeTheMilestoneCostsOfCatalog(catalogName string) error {
	return pc.computeCosts(catalogName, true)
}

// Solve assertions

func (pc *plannerContext) solvedTable() (*production.ProductionTable, error) {
	if pc.solved == nil {
		return nil, fmt.Errorf("no page has been solved")
	}
	return pc.solved.Page.Content(), nil
}

func (pc *plannerContext) findRow(recipe string) (*production.RecipeRow, error) {
	table, err := pc.solvedTable()
	if err != nil {
		return nil, err
	}
	var found *production.RecipeRow
	table.WalkRows(func(row *production.RecipeRow) {
		if found == nil && row.Recipe().Name() == recipe {
			found = row
		}
	})
	if found == nil {
		return nil, fmt.Errorf("no row for recipe %s", recipe)
	}
	return found, nil
}

func (pc *plannerContext) findLink(goods string) (*production.ProductionLink, error) {
	table, err := pc.solvedTable()
	if err != nil {
		return nil, err
	}
	for _, link := range table.Links() {
		if link.Goods().Goods.Name() == goods {
			return link, nil
		}
	}
	return nil, fmt.Errorf("no link for %s", goods)
}

func (pc *plannerContext) theSolveReportsNoMessage() error {
	if pc.solved == nil {
		return fmt.Errorf("no page has been solved")
	}
	if pc.solved.Message != "" {
		return fmt.Errorf("expected no message, got %q", pc.solved.Message)
	}
	return nil
}

func (pc *plannerContext) rowRunsAtRecipesPerSecond(recipe string, expected float64) error {
	row, err := pc.findRow(recipe)
	if err != nil {
		return err
	}
	if math.Abs(row.RecipesPerSecond()-expected) > tolerance {
		return fmt.Errorf("expected %s at %g recipes/s, got %g", recipe, expected, row.RecipesPerSecond())
	}
	return nil
}

func (pc *plannerContext) rowNeedsBuildings(recipe string, expected float64) error {
	row, err := pc.findRow(recipe)
	if err != nil {
		return err
	}
	if math.Abs(row.BuildingCount()-expected) > tolerance {
		return fmt.Errorf("expected %g buildings for %s, got %g", expected, recipe, row.BuildingCount())
	}
	return nil
}

func (pc *plannerContext) thePageFlowIs(table *godog.Table) error {
	content, err := pc.solvedTable()
	if err != nil {
		return err
	}
	flow := content.Flow()
	expected := table.Rows[1:]
	if len(flow) != len(expected) {
		return fmt.Errorf("expected %d flow entries, got %d", len(expected), len(flow))
	}
	for i, row := range expected {
		goods := getCellValueFromTable(table, row, "goods")
		amount, err := strconv.ParseFloat(getCellValueFromTable(table, row, "amount"), 64)
		if err != nil {
			return fmt.Errorf("invalid amount: %w", err)
		}
		if flow[i].Goods.Goods.Name() != goods {
			return fmt.Errorf("flow entry %d: expected %s, got %s", i, goods, flow[i].Goods.Goods.Name())
		}
		if math.Abs(flow[i].Amount-amount) > tolerance {
			return fmt.Errorf("flow of %s: expected %g, got %g", goods, amount, flow[i].Amount)
		}
	}
	return nil
}

func (pc *plannerContext) linkIsMatched(goods string) error {
	link, err := pc.findLink(goods)
	if err != nil {
		return err
	}
	if !link.IsMatched() {
		return fmt.Errorf("expected link %s to be matched", goods)
	}
	return nil
}

func (pc *plannerContext) linkIsDiagnosed(goods string) error {
	link, err := pc.findLink(goods)
	if err != nil {
		return err
	}
	if link.State().State() != production.LinkStateDiagnosed {
		return fmt.Errorf("expected link %s to be diagnosed, got %s", goods, link.State().State())
	}
	if link.IsMatched() {
		return fmt.Errorf("diagnosed link %s reports matched", goods)
	}
	return nil
}

func (pc *plannerContext) linkAllowsOverproduction(goods string) error {
	link, err := pc.findLink(goods)
	if err != nil {
		return err
	}
	if link.Algorithm() != production.LinkAllowOverProduction {
		return fmt.Errorf("expected link %s to allow overproduction, got %s", goods, link.Algorithm())
	}
	return nil
}

func (pc *plannerContext) rowCarriesADiagnosisWarning(recipe string) error {
	row, err := pc.findRow(recipe)
	if err != nil {
		return err
	}
	flags := row.Parameters().WarningFlags
	if !flags.HasAny(production.WarningDeadlockCandidate | production.WarningOverproductionRequired) {
		return fmt.Errorf("expected a diagnosis warning on %s, got %v", recipe, flags)
	}
	return nil
}

// Stored project assertions

func (pc *plannerContext) loadStoredPage(pageName, projectName string) (*production.ProjectPage, error) {
	db, err := pc.catalogRepo.Load(pc.ctx, pc.catalogName)
	if err != nil {
		return nil, err
	}
	project, err := pc.projectRepo.FindByName(pc.ctx, projectName, db)
	if err != nil {
		return nil, err
	}
	page, ok := project.FindPage(pageName)
	if !ok {
		return nil, fmt.Errorf("project %s has no page %s", projectName, pageName)
	}
	return page, nil
}

func (pc *plannerContext) theStoredPageOfProjectHasBeenSolved(pageName, projectName string) error {
	page, err := pc.loadStoredPage(pageName, projectName)
	if err != nil {
		return err
	}
	if page.SolvedAt() == nil {
		return fmt.Errorf("page %s has no solve time", pageName)
	}
	if page.LastMessage() != "" {
		return fmt.Errorf("page %s stored message %q", pageName, page.LastMessage())
	}
	return nil
}

func (pc *plannerContext) theStoredPageOfProjectHasRows(pageName, projectName string, expected int) error {
	page, err := pc.loadStoredPage(pageName, projectName)
	if err != nil {
		return err
	}
	if got := len(page.Content().Rows()); got != expected {
		return fmt.Errorf("expected %d rows, got %d", expected, got)
	}
	return nil
}

// Cost assertions

func (pc *plannerContext) goodsCost(name string) (float64, error) {
	if pc.costs == nil {
		return 0, fmt.Errorf("no costs have been computed")
	}
	for obj, cost := range pc.costs.Analysis.Cost {
		if goods, ok := obj.(*catalog.Goods); ok && goods.Name() == name {
			return cost, nil
		}
	}
	return math.Inf(1), nil
}

func (pc *plannerContext) theCostAnalysisIsSolved() error {
	if pc.costs == nil {
		return fmt.Errorf("no costs have been computed")
	}
	if !pc.costs.Solved {
		return fmt.Errorf("expected the cost analysis to be solved")
	}
	return nil
}

func (pc *plannerContext) costsMoreThan(expensive, cheap string) error {
	high, err := pc.goodsCost(expensive)
	if err != nil {
		return err
	}
	low, err := pc.goodsCost(cheap)
	if err != nil {
		return err
	}
	if math.IsInf(high, 0) || math.IsInf(low, 0) {
		return fmt.Errorf("expected finite costs, got %s=%g and %s=%g", expensive, high, cheap, low)
	}
	if high <= low {
		return fmt.Errorf("expected %s (%g) to cost more than %s (%g)", expensive, high, cheap, low)
	}
	return nil
}

func (pc *plannerContext) recipeWastesNothing(name string) error {
	if pc.costs == nil {
		return fmt.Errorf("no costs have been computed")
	}
	for recipe, waste := range pc.costs.Analysis.RecipeWastePercentage {
		if recipe.Name() != name {
			continue
		}
		if math.Abs(waste) > tolerance {
			return fmt.Errorf("expected %s to waste nothing, got %g", name, waste)
		}
		return nil
	}
	return fmt.Errorf("recipe %s was not analysed", name)
}

func (pc *plannerContext) hasNoPrice(name string) error {
	cost, err := pc.goodsCost(name)
	if err != nil {
		return err
	}
	if !math.IsInf(cost, 1) {
		return fmt.Errorf("expected %s to have no price, got %g", name, cost)
	}
	return nil
}

func (pc *plannerContext) theLatestSnapshotOfCatalogPrices(catalogName, goods string) error {
	resp, err := pc.mediator.Send(pc.ctx, &costingQueries.LatestCostsQuery{
		CatalogName: catalogName,
		ObjectType:  "item",
	})
	if err != nil {
		return err
	}
	for _, entry := range resp.(*costingQueries.LatestCostsResponse).Entries {
		if entry.ObjectName == goods {
			if math.IsInf(entry.Cost, 0) {
				return fmt.Errorf("snapshot stores no price for %s", goods)
			}
			return nil
		}
	}
	return fmt.Errorf("snapshot of %s has no entry for %s", catalogName, goods)
}

func (pc *plannerContext) catalogHasNoSnapshot(catalogName string) error {
	_, err := pc.mediator.Send(pc.ctx, &costingQueries.LatestCostsQuery{CatalogName: catalogName})
	if err == nil {
		return fmt.Errorf("expected no snapshot for %s", catalogName)
	}
	if !strings.Contains(err.Error(), "no cost snapshot") {
		return fmt.Errorf("unexpected error: %w", err)
	}
	return nil
}

// getCellValueFromTable returns the value of the named column in row, "" when absent
func getCellValueFromTable(table *godog.Table, row *messages.PickleTableRow, column string) string {
	for i, cell := range table.Rows[0].Cells {
		if cell.Value == column && i < len(row.Cells) {
			return row.Cells[i].Value
		}
	}
	return ""
}

// InitializePlannerScenario registers the planner steps
func InitializePlannerScenario(ctx *godog.ScenarioContext) {
	pc := &plannerContext{}

	ctx.Before(func(c context.Context, sc *godog.Scenario) (context.Context, error) {
		return c, pc.reset()
	})
	ctx.After(func(c context.Context, sc *godog.Scenario, err error) (context.Context, error) {
		pc.close()
		return c, nil
	})

	ctx.Step(`^the smelting catalog is imported as "([^"]*)"$`, pc.theSmeltingCatalogIsImportedAs)
	ctx.Step(`^a page "([^"]*)" with links:$`, pc.aPageWithLinks)
	ctx.Step(`^the page has rows:$`, pc.thePageHasRows)
	ctx.Step(`^row "([^"]*)" consumes (\d+)% of its "([^"]*)"$`, pc.rowConsumesPercentOfIts)

	ctx.Step(`^I solve page "([^"]*)" of project "([^"]*)"$`, pc.iSolvePageOfProject)
	ctx.Step(`^I compute the costs of catalog "([^"]*)"$`, pc.iComputeTheCostsOfCatalog)
	ctx.Step(`^I compute the milestone costs of catalog "([^"]*)"$`, pc.iComputeTheMilestoneCostsOfCatalog)

	ctx.Step(`^the solve reports no message$`, pc.theSolveReportsNoMessage)
	ctx.Step(`^row "([^"]*)" runs at ([\d.]+) recipes per second$`, pc.rowRunsAtRecipesPerSecond)
	ctx.Step(`^row "([^"]*)" needs ([\d.]+) buildings$`, pc.rowNeedsBuildings)
	ctx.Step(`^the page flow is:$`, pc.thePageFlowIs)
	ctx.Step(`^link "([^"]*)" is matched$`, pc.linkIsMatched)
	ctx.Step(`^link "([^"]*)" is diagnosed$`, pc.linkIsDiagnosed)
	ctx.Step(`^link "([^"]*)" allows overproduction$`, pc.linkAllowsOverproduction)
	ctx.Step(`^row "([^"]*)" carries a diagnosis warning$`, pc.rowCarriesADiagnosisWarning)

	ctx.Step(`^the stored page "([^"]*)" of project "([^"]*)" has been solved$`, pc.theStoredPageOfProjectHasBeenSolved)
	ctx.Step(`^the stored page "([^"]*)" of project "([^"]*)" has (\d+) rows?$`, pc.theStoredPageOfProjectHasRows)

	ctx.Step(`^the cost analysis is solved$`, pc.theCostAnalysisIsSolved)
	ctx.Step(`^"([^"]*)" costs more than "([^"]*)"$`, pc.costsMoreThan)
	ctx.Step(`^recipe "([^"]*)" wastes nothing$`, pc.recipeWastesNothing)
	ctx.Step(`^"([^"]*)" has no price$`, pc.hasNoPrice)
	ctx.Step(`^the latest snapshot of catalog "([^"]*)" prices "([^"]*)"$`, pc.theLatestSnapshotOfCatalogPrices)
	ctx.Step(`^catalog "([^"]*)" has no snapshot$`, pc.catalogHasNoSnapshot)
}

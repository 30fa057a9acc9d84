package services

import (
	"context"
	"fmt"
	"math"

	"github.com/andrescamacho/factoryplanner-go/internal/adapters/lp"
	"github.com/andrescamacho/factoryplanner-go/internal/adapters/metrics"
	"github.com/andrescamacho/factoryplanner-go/internal/application/common"
	"github.com/andrescamacho/factoryplanner-go/internal/domain/costing"
	"github.com/andrescamacho/factoryplanner-go/internal/domain/production"
	"github.com/andrescamacho/factoryplanner-go/internal/domain/shared"
	"github.com/andrescamacho/factoryplanner-go/pkg/utils"
)

// Diagnostic messages returned by Solve
const (
	MessageNoSolution        = "Unable to solve the model and no deadlocks were found. Check the links for conflicting requirements."
	MessageNumericalErrors   = "Unable to solve the model because of numerical errors. Try changing the link amounts slightly."
	MessageExceedsBuiltCount = "This model requires more buildings than are currently built."
)

// slack below this is solver noise
const slackTolerance = 1e-9

// CostSource provides the goods costs used to weight diagnostic slack
type CostSource interface {
	Latest(onlyCurrentMilestones bool) *costing.Analysis
}

// NetworkSolver computes recipe rates for a page
type NetworkSolver struct {
	builder       *NetworkBuilder
	aggregator    *FlowAggregator
	costs         CostSource
	clock         shared.Clock
	solverOptions []lp.Option
}

func NewNetworkSolver(costs CostSource, clock shared.Clock, solverOptions ...lp.Option) *NetworkSolver {
	if clock == nil {
		clock = shared.NewRealClock()
	}
	return &NetworkSolver{
		builder:       NewNetworkBuilder(),
		aggregator:    NewFlowAggregator(),
		costs:         costs,
		clock:         clock,
		solverOptions: solverOptions,
	}
}

// Solve rebuilds and solves the page's production LP, writing rates, link
// states, warning flags and flows back into the tree. It returns "" on success
// and a diagnostic message when the model cannot be satisfied; infeasibility is
// not an error.
func (s *NetworkSolver) Solve(ctx context.Context, page *production.ProjectPage) (string, error) {
	if page == nil || page.Content() == nil {
		return "", fmt.Errorf("solve requires a page with content")
	}
	logger := common.LoggerFromContext(ctx)
	start := s.clock.Now()
	table := page.Content()

	network := s.builder.Build(table)
	solver := lp.NewSolver("production-"+page.Name(), s.solverOptions...)
	objective := solver.Objective()
	objective.SetMinimization()

	for _, recipe := range network.Recipes {
		recipe.variable = solver.MakeNumVar(0, math.Inf(1), recipe.Name())
		if rate, fixed := recipe.FixedRate(); fixed {
			recipe.variable.SetBounds(rate, rate)
		}
	}

	constraints := make([]*lp.Constraint, len(network.Links))
	for i, link := range network.Links {
		link.BeginSolve(i)
		if err := link.State().Assemble(link.Amount()); err != nil {
			return "", fmt.Errorf("assemble link %s: %w", link.Goods(), err)
		}
		lb, ub := linkBounds(link)
		constraints[i] = solver.MakeConstraint(lb, ub, link.Goods().String())
	}

	if err := assembleCoefficients(network, constraints); err != nil {
		return "", err
	}
	pruneLinks(network, constraints)

	for _, recipe := range network.Recipes {
		objective.SetCoefficient(recipe.variable, recipe.BaseCost())
	}
	PercentageConstraints{}.Apply(solver, network, constraints)

	result := solveOffCaller(solver)
	metrics.RecordSolve("production", result.String(), s.clock.Since(start), len(solver.Variables()), len(solver.Constraints()))

	var candidates InfeasibilityCandidates
	var slacks []linkSlack
	if !result.IsSolution() {
		logger.Log("WARNING", "Production model infeasible, searching for deadlocks", map[string]interface{}{
			"page":   page.Name(),
			"result": result.String(),
		})
		candidates = FindInfeasibilityCandidates(network)
		slacks = s.addSlacks(solver, candidates, constraints)
		metrics.RecordDiagnosis(len(candidates.Deadlocks), len(candidates.Splits))

		result = solveOffCaller(solver)
		metrics.RecordSolve("production-diagnosis", result.String(), s.clock.Since(start), len(solver.Variables()), len(solver.Constraints()))
		if !result.IsSolution() {
			message := diagnosisFailure(result)
			for _, recipe := range network.Recipes {
				if row := recipe.Row(); row != nil {
					row.SetRecipesPerSecond(0)
				}
			}
			page.RecordSolve(message, s.clock.Now())
			logger.Log("ERROR", "Production model has no solution", map[string]interface{}{
				"page":   page.Name(),
				"result": result.String(),
			})
			return message, nil
		}
		for _, slack := range slacks {
			if value := slack.variable.SolutionValue(); value > slackTolerance {
				slack.link.AddNotMatchedFlow(slack.sign * value)
			}
		}
	}

	if err := s.readSolution(network, constraints); err != nil {
		return "", err
	}
	markDiagnosedRows(network)

	builtCountExceeded := false
	for _, recipe := range network.Recipes {
		row := recipe.Row()
		if row == nil || row.BuiltBuildings() == nil {
			continue
		}
		if row.BuildingCount() > float64(*row.BuiltBuildings())+1e-9 {
			row.AddWarning(production.WarningExceedsBuiltCount)
			builtCountExceeded = true
		}
	}

	s.aggregator.CalculateFlow(table, nil)

	message := ""
	if builtCountExceeded {
		message = MessageExceedsBuiltCount
	}
	page.RecordSolve(message, s.clock.Now())
	logger.Log("INFO", "Production model solved", map[string]interface{}{
		"page":        page.Name(),
		"recipes":     len(network.Recipes),
		"links":       len(network.Links),
		"deadlocks":   len(candidates.Deadlocks),
		"splits":      len(candidates.Splits),
		"duration_ms": s.clock.Since(start).Milliseconds(),
	})
	return message, nil
}

// solveOffCaller runs the LP on its own goroutine and waits for it
func solveOffCaller(solver *lp.Solver) lp.ResultStatus {
	done := make(chan lp.ResultStatus, 1)
	go func() {
		done <- solver.TrySolveWithDifferentSeeds()
	}()
	return <-done
}

func linkBounds(link *production.ProductionLink) (float64, float64) {
	switch link.Algorithm() {
	case production.LinkAllowOverProduction:
		return link.Amount(), math.Inf(1)
	case production.LinkAllowOverConsumption:
		return math.Inf(-1), link.Amount()
	}
	return link.Amount(), link.Amount()
}

func assembleCoefficients(network *Network, constraints []*lp.Constraint) error {
	for _, recipe := range network.Recipes {
		for _, term := range recipe.Terms() {
			link, ok := recipe.FindLink(term.Goods)
			if !ok || link.SolverIndex() < 0 || term.Amount == 0 {
				continue
			}
			constraints[link.SolverIndex()].AddCoefficient(recipe.variable, term.Amount)
			var err error
			if term.Amount > 0 {
				err = link.State().RecordProduction()
			} else {
				err = link.State().RecordConsumption()
			}
			if err != nil {
				return fmt.Errorf("link %s: %w", link.Goods(), err)
			}
			link.CaptureRow(recipe.Row())
		}
	}
	return nil
}

// pruneLinks relaxes links missing a producer or a consumer and drops explicit
// links nothing touches
func pruneLinks(network *Network, constraints []*lp.Constraint) {
	for i, link := range network.Links {
		flags := link.Flags()
		if flags.Has(production.LinkHasProductionAndConsumption) {
			continue
		}
		if flags&production.LinkHasProductionAndConsumption == 0 && !link.IsImplicit() &&
			!link.Owner().HasDisabledRecipeReferencing(link.Goods()) {
			_ = link.Owner().RemoveLink(link)
		}
		link.State().MarkNotMatched()
		constraints[i].SetBounds(math.Inf(-1), math.Inf(1))
	}
}

type linkSlack struct {
	link     *production.ProductionLink
	variable *lp.Variable
	// sign converts the slack value into the link's not-matched flow
	sign     float64
}

func (s *NetworkSolver) addSlacks(solver *lp.Solver, candidates InfeasibilityCandidates, constraints []*lp.Constraint) []linkSlack {
	objective := solver.Objective()
	objective.Clear()

	var analysis *costing.Analysis
	if s.costs != nil {
		analysis = s.costs.Latest(false)
	}
	weight := func(link *production.ProductionLink) float64 {
		cost := math.Abs(analysis.CostOf(link.Goods().Goods))
		if !utils.IsFinite(cost) || cost == 0 {
			return 1
		}
		return cost
	}

	var slacks []linkSlack
	for _, link := range candidates.Deadlocks {
		v := solver.MakeNumVar(0, math.Inf(1), "deadlock "+link.Goods().String())
		constraints[link.SolverIndex()].SetCoefficient(v, 1)
		objective.SetCoefficient(v, weight(link))
		slacks = append(slacks, linkSlack{link: link, variable: v, sign: -1})
	}
	for _, link := range candidates.Splits {
		v := solver.MakeNumVar(0, math.Inf(1), "split "+link.Goods().String())
		constraints[link.SolverIndex()].SetCoefficient(v, -1)
		objective.SetCoefficient(v, weight(link))
		slacks = append(slacks, linkSlack{link: link, variable: v, sign: 1})
	}
	return slacks
}

func diagnosisFailure(result lp.ResultStatus) string {
	switch result {
	case lp.Infeasible:
		return MessageNoSolution
	case lp.Abnormal:
		return MessageNumericalErrors
	}
	return fmt.Sprintf("Unexpected solver result: %s", result)
}

// readSolution copies rates, link states, flows and duals back into the tree
func (s *NetworkSolver) readSolution(network *Network, constraints []*lp.Constraint) error {
	for i, link := range network.Links {
		c := constraints[i]
		basis := c.BasisStatus()
		notMatched := (basis == lp.Basic || basis == lp.Free) &&
			(link.NotMatchedFlow() != 0 || link.Algorithm() != production.LinkMatch)
		if err := link.State().Solve(!notMatched); err != nil {
			return fmt.Errorf("link %s: %w", link.Goods(), err)
		}
		if link.NotMatchedFlow() != 0 {
			diagnosis := production.DiagnosisDeadlock
			if link.NotMatchedFlow() > 0 {
				diagnosis = production.DiagnosisOverproduction
			}
			if err := link.State().Diagnose(diagnosis); err != nil {
				return fmt.Errorf("link %s: %w", link.Goods(), err)
			}
		}
		link.SetDualValue(c.DualValue())
	}

	for _, recipe := range network.Recipes {
		value := recipe.variable.SolutionValue()
		if row := recipe.Row(); row != nil {
			row.SetRecipesPerSecond(value)
		}
		for _, term := range recipe.Terms() {
			if term.Amount <= 0 {
				continue
			}
			if link, ok := recipe.FindLink(term.Goods); ok && link.SolverIndex() >= 0 {
				link.SetLinkFlow(link.LinkFlow() + term.Amount*value)
			}
		}
	}
	return nil
}

// markDiagnosedRows flags every row touching a link that needed slack, and
// every row owning such a row
func markDiagnosedRows(network *Network) {
	for _, link := range network.Links {
		if link.State().State() != production.LinkStateDiagnosed {
			continue
		}
		flag := production.WarningDeadlockCandidate
		if link.NotMatchedFlow() > 0 {
			flag = production.WarningOverproductionRequired
		}
		for _, row := range link.CapturedRows() {
			for current := row; current != nil; {
				current.AddWarning(flag)
				if current.Owner() == nil {
					break
				}
				current = current.Owner().Owner()
			}
		}
	}
}

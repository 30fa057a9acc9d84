package steps

import (
	"context"
	"fmt"

	"github.com/cucumber/godog"

	"github.com/andrescamacho/factoryplanner-go/internal/domain/production"
)

type linkStateMachineContext struct {
	stateMachine    *production.LinkStateMachine
	transitionError error
}

func (lc *linkStateMachineContext) reset() {
	lc.stateMachine = nil
	lc.transitionError = nil
}

// Given steps

func (lc *linkStateMachineContext) aLinkStateMachineInState(state string) error {
	lc.stateMachine = production.NewLinkStateMachine()

	switch production.LinkState(state) {
	case production.LinkStateUnbuilt:
		return nil
	case production.LinkStateAssembled:
		return lc.stateMachine.Assemble(0)
	case production.LinkStateSolved:
		if err := lc.stateMachine.Assemble(0); err != nil {
			return err
		}
		return lc.stateMachine.Solve(true)
	case production.LinkStateDiagnosed:
		if err := lc.stateMachine.Assemble(0); err != nil {
			return err
		}
		if err := lc.stateMachine.Solve(false); err != nil {
			return err
		}
		return lc.stateMachine.Diagnose(production.DiagnosisOverproduction)
	default:
		return fmt.Errorf("unknown state: %s", state)
	}
}

// When steps

func (lc *linkStateMachineContext) iAssembleTheLinkWithAmount(amount float64) error {
	lc.transitionError = lc.stateMachine.Assemble(amount)
	return nil
}

func (lc *linkStateMachineContext) iRecordProductionOnTheLink() error {
	lc.transitionError = lc.stateMachine.RecordProduction()
	return nil
}

func (lc *linkStateMachineContext) iRecordConsumptionOnTheLink() error {
	lc.transitionError = lc.stateMachine.RecordConsumption()
	return nil
}

func (lc *linkStateMachineContext) iSolveTheLinkAsMatched() error {
	lc.transitionError = lc.stateMachine.Solve(true)
	return nil
}

func (lc *linkStateMachineContext) iSolveTheLinkAsNotMatched() error {
	lc.transitionError = lc.stateMachine.Solve(false)
	return nil
}

func (lc *linkStateMachineContext) iDiagnoseTheLinkAs(diagnosis string) error {
	lc.transitionError = lc.stateMachine.Diagnose(production.LinkDiagnosis(diagnosis))
	return nil
}

func (lc *linkStateMachineContext) iTryToTheLink(action string) error {
	switch action {
	case "assemble":
		lc.transitionError = lc.stateMachine.Assemble(1)
	case "record":
		lc.transitionError = lc.stateMachine.RecordProduction()
	case "solve":
		lc.transitionError = lc.stateMachine.Solve(true)
	case "diagnose":
		lc.transitionError = lc.stateMachine.Diagnose(production.DiagnosisDeadlock)
	default:
		return fmt.Errorf("unknown action: %s", action)
	}
	return nil
}

func (lc *linkStateMachineContext) iResetTheLink() error {
	lc.stateMachine.Reset()
	return nil
}

// Then steps

func (lc *linkStateMachineContext) theLinkStateShouldBe(expected string) error {
	if lc.transitionError != nil {
		return fmt.Errorf("unexpected transition error: %w", lc.transitionError)
	}
	if actual := string(lc.stateMachine.State()); actual != expected {
		return fmt.Errorf("expected state %s, got %s", expected, actual)
	}
	return nil
}

func (lc *linkStateMachineContext) theLinkShouldHave(flag production.LinkFlags, name string, want bool) error {
	if lc.transitionError != nil {
		return fmt.Errorf("unexpected transition error: %w", lc.transitionError)
	}
	if got := lc.stateMachine.Flags().Has(flag); got != want {
		return fmt.Errorf("expected %s to be %v, got %v", name, want, got)
	}
	return nil
}

func (lc *linkStateMachineContext) theLinkShouldHaveProduction() error {
	return lc.theLinkShouldHave(production.LinkHasProduction, "production", true)
}

func (lc *linkStateMachineContext) theLinkShouldNotHaveProduction() error {
	return lc.theLinkShouldHave(production.LinkHasProduction, "production", false)
}

func (lc *linkStateMachineContext) theLinkShouldHaveConsumption() error {
	return lc.theLinkShouldHave(production.LinkHasConsumption, "consumption", true)
}

func (lc *linkStateMachineContext) theLinkShouldBeMatched() error {
	return lc.theLinkShouldHave(production.LinkNotMatched, "not matched", false)
}

func (lc *linkStateMachineContext) theLinkShouldNotBeMatched() error {
	return lc.theLinkShouldHave(production.LinkNotMatched, "not matched", true)
}

func (lc *linkStateMachineContext) theLinkDiagnosisShouldBe(expected string) error {
	if actual := string(lc.stateMachine.Diagnosis()); actual != expected {
		return fmt.Errorf("expected diagnosis %q, got %q", expected, actual)
	}
	return nil
}

func (lc *linkStateMachineContext) theTransitionShouldFailWith(expected string) error {
	if lc.transitionError == nil {
		return fmt.Errorf("expected transition to fail")
	}
	if lc.transitionError.Error() != expected {
		return fmt.Errorf("expected error %q, got %q", expected, lc.transitionError.Error())
	}
	return nil
}

// InitializeLinkStateMachineScenario registers the link state machine steps
func InitializeLinkStateMachineScenario(ctx *godog.ScenarioContext) {
	lc := &linkStateMachineContext{}

	ctx.Before(func(ctx context.Context, sc *godog.Scenario) (context.Context, error) {
		lc.reset()
		return ctx, nil
	})

	ctx.Step(`^a link state machine in "([^"]*)" state$`, lc.aLinkStateMachineInState)

	ctx.Step(`^I assemble the link with amount (-?[\d.]+)$`, lc.iAssembleTheLinkWithAmount)
	ctx.Step(`^I record production on the link$`, lc.iRecordProductionOnTheLink)
	ctx.Step(`^I record consumption on the link$`, lc.iRecordConsumptionOnTheLink)
	ctx.Step(`^I solve the link as matched$`, lc.iSolveTheLinkAsMatched)
	ctx.Step(`^I solve the link as not matched$`, lc.iSolveTheLinkAsNotMatched)
	ctx.Step(`^I diagnose the link as "([^"]*)"$`, lc.iDiagnoseTheLinkAs)
	ctx.Step(`^I try to (\w+) the link$`, lc.iTryToTheLink)
	ctx.Step(`^I reset the link$`, lc.iResetTheLink)

	ctx.Step(`^the link state should be "([^"]*)"$`, lc.theLinkStateShouldBe)
	ctx.Step(`^the link should have production$`, lc.theLinkShouldHaveProduction)
	ctx.Step(`^the link should not have production$`, lc.theLinkShouldNotHaveProduction)
	ctx.Step(`^the link should have consumption$`, lc.theLinkShouldHaveConsumption)
	ctx.Step(`^the link should be matched$`, lc.theLinkShouldBeMatched)
	ctx.Step(`^the link should not be matched$`, lc.theLinkShouldNotBeMatched)
	ctx.Step(`^the link diagnosis should be "([^"]*)"$`, lc.theLinkDiagnosisShouldBe)
	ctx.Step(`^the transition should fail with "([^"]*)"$`, lc.theTransitionShouldFailWith)
}

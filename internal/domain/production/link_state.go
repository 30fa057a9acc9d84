package production

// LinkState is the position of a link inside one solve
type LinkState string

const (
	// LinkStateUnbuilt indicates the link has not been assembled into a solve yet
	LinkStateUnbuilt LinkState = "UNBUILT"

	// LinkStateAssembled indicates coefficients have been collected for the link
	LinkStateAssembled LinkState = "ASSEMBLED"

	// LinkStateSolved indicates the solver produced a result for the link
	LinkStateSolved LinkState = "SOLVED"

	// LinkStateDiagnosed indicates a slack re-solve attributed unmatched flow to the link
	LinkStateDiagnosed LinkState = "DIAGNOSED"
)

// LinkDiagnosis explains why a diagnosed link could not be matched
type LinkDiagnosis string

const (
	DiagnosisNone           LinkDiagnosis = ""
	DiagnosisDeadlock       LinkDiagnosis = "DEADLOCK"
	DiagnosisOverproduction LinkDiagnosis = "OVERPRODUCTION"
)

// LinkFlags is the bitset view of a link state used by presentation code
type LinkFlags uint8

const (
	LinkHasProduction LinkFlags = 1 << iota
	LinkHasConsumption
	LinkNotMatched
	LinkChildNotMatched

	LinkHasProductionAndConsumption = LinkHasProduction | LinkHasConsumption
)

// Has reports whether every bit of flags is set
func (f LinkFlags) Has(flags LinkFlags) bool {
	return f&flags == flags
}

// LinkStateMachine tracks a link through
// UNBUILT → ASSEMBLED{production, consumption} → SOLVED{matched|not matched} → DIAGNOSED.
//
// Invariants:
// - production and consumption are only recorded while ASSEMBLED
// - a diagnosis is only attached to a SOLVED link
// - the not-matched mark may be set from any state (disabled rows mark links they never assemble)
type LinkStateMachine struct {
	state           LinkState
	hasProduction   bool
	hasConsumption  bool
	notMatched      bool
	childNotMatched bool
	diagnosis       LinkDiagnosis
}

func NewLinkStateMachine() *LinkStateMachine {
	return &LinkStateMachine{state: LinkStateUnbuilt}
}

func (sm *LinkStateMachine) State() LinkState { return sm.state }
func (sm *LinkStateMachine) Diagnosis() LinkDiagnosis { return sm.diagnosis }

// Reset returns the link to UNBUILT, dropping every result of the previous solve
func (sm *LinkStateMachine) Reset() {
	*sm = LinkStateMachine{state: LinkStateUnbuilt}
}

// Assemble moves an UNBUILT link to ASSEMBLED. A positive pinned amount counts as
// consumption and a negative one as production.
func (sm *LinkStateMachine) Assemble(amount float64) error {
	if sm.state != LinkStateUnbuilt {
		return &ErrInvalidLinkTransition{CurrentState: sm.state, Attempted: "assemble"}
	}
	sm.state = LinkStateAssembled
	sm.hasConsumption = amount > 0
	sm.hasProduction = amount < 0
	return nil
}

func (sm *LinkStateMachine) RecordProduction() error {
	if sm.state != LinkStateAssembled {
		return &ErrInvalidLinkTransition{CurrentState: sm.state, Attempted: "record production on"}
	}
	sm.hasProduction = true
	return nil
}

func (sm *LinkStateMachine) RecordConsumption() error {
	if sm.state != LinkStateAssembled {
		return &ErrInvalidLinkTransition{CurrentState: sm.state, Attempted: "record consumption on"}
	}
	sm.hasConsumption = true
	return nil
}

// MarkNotMatched flags the link as not balanced by the solve
func (sm *LinkStateMachine) MarkNotMatched() {
	sm.notMatched = true
}

// MarkChildNotMatched flags that a nested link for the same good is not balanced
func (sm *LinkStateMachine) MarkChildNotMatched() {
	sm.childNotMatched = true
}

// Solve moves an ASSEMBLED link to SOLVED
func (sm *LinkStateMachine) Solve(matched bool) error {
	if sm.state != LinkStateAssembled {
		return &ErrInvalidLinkTransition{CurrentState: sm.state, Attempted: "solve"}
	}
	sm.state = LinkStateSolved
	if !matched {
		sm.notMatched = true
	}
	return nil
}

// Diagnose attaches the reason a SOLVED link needed slack to balance
func (sm *LinkStateMachine) Diagnose(diagnosis LinkDiagnosis) error {
	if sm.state != LinkStateSolved {
		return &ErrInvalidLinkTransition{CurrentState: sm.state, Attempted: "diagnose"}
	}
	sm.state = LinkStateDiagnosed
	sm.diagnosis = diagnosis
	sm.notMatched = true
	return nil
}

// Flags renders the state as a bitset
func (sm *LinkStateMachine) Flags() LinkFlags {
	var flags LinkFlags
	if sm.hasProduction {
		flags |= LinkHasProduction
	}
	if sm.hasConsumption {
		flags |= LinkHasConsumption
	}
	if sm.notMatched {
		flags |= LinkNotMatched
	}
	if sm.childNotMatched {
		flags |= LinkChildNotMatched
	}
	return flags
}

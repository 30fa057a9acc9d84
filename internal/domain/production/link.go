package production

import (
	"github.com/google/uuid"

	"github.com/andrescamacho/factoryplanner-go/internal/domain/catalog"
)

// LinkAlgorithm controls how strictly a link balances its good
type LinkAlgorithm string

const (
	// LinkMatch requires production minus consumption to equal the amount
	LinkMatch LinkAlgorithm = "MATCH"

	// LinkAllowOverProduction lets production exceed the amount
	LinkAllowOverProduction LinkAlgorithm = "ALLOW_OVER_PRODUCTION"

	// LinkAllowOverConsumption lets consumption exceed the amount
	LinkAllowOverConsumption LinkAlgorithm = "ALLOW_OVER_CONSUMPTION"
)

// LinkKind separates user links from machine-created ones
type LinkKind string

const (
	LinkKindExplicit LinkKind = "EXPLICIT"
	LinkKindImplicit LinkKind = "IMPLICIT"
)

// ProductionLink pins the net amount of a qualified good at one table level.
// amount > 0 asks for that much surplus production, < 0 for that much
// consumption and 0 for an internally balanced good.
type ProductionLink struct {
	id        string
	owner     *ProductionTable
	goods     catalog.QualifiedGoods
	amount    float64
	algorithm LinkAlgorithm
	kind      LinkKind
	state     *LinkStateMachine

	// Solve outputs
	notMatchedFlow float64
	capturedRows   []*RecipeRow
	linkFlow       float64
	dualValue      float64
	solverIndex    int
}

func newProductionLink(owner *ProductionTable, goods catalog.QualifiedGoods, amount float64, algorithm LinkAlgorithm, kind LinkKind) *ProductionLink {
	if algorithm == "" {
		algorithm = LinkMatch
	}
	return &ProductionLink{
		id:          uuid.NewString(),
		owner:       owner,
		goods:       goods,
		amount:      amount,
		algorithm:   algorithm,
		kind:        kind,
		state:       NewLinkStateMachine(),
		solverIndex: -1,
	}
}

// Getters

func (l *ProductionLink) ID() string { return l.id }
func (l *ProductionLink) Owner() *ProductionTable { return l.owner }
func (l *ProductionLink) Goods() catalog.QualifiedGoods { return l.goods }
func (l *ProductionLink) Amount() float64 { return l.amount }
func (l *ProductionLink) Algorithm() LinkAlgorithm { return l.algorithm }
func (l *ProductionLink) Kind() LinkKind { return l.kind }
func (l *ProductionLink) IsImplicit() bool { return l.kind == LinkKindImplicit }
func (l *ProductionLink) State() *LinkStateMachine { return l.state }
func (l *ProductionLink) Flags() LinkFlags { return l.state.Flags() }
func (l *ProductionLink) NotMatchedFlow() float64 { return l.notMatchedFlow }
func (l *ProductionLink) CapturedRows() []*RecipeRow { return l.capturedRows }
func (l *ProductionLink) LinkFlow() float64 { return l.linkFlow }
func (l *ProductionLink) DualValue() float64 { return l.dualValue }
func (l *ProductionLink) SolverIndex() int { return l.solverIndex }

// IsMatched reports whether the last solve balanced the link
func (l *ProductionLink) IsMatched() bool {
	return !l.state.Flags().Has(LinkNotMatched)
}

// Editing

func (l *ProductionLink) SetAmount(amount float64) { l.amount = amount }
func (l *ProductionLink) SetAlgorithm(algorithm LinkAlgorithm) { l.algorithm = algorithm }

// Solver bookkeeping

// BeginSolve clears previous outputs and assigns the constraint index of this solve
func (l *ProductionLink) BeginSolve(index int) {
	l.state.Reset()
	l.notMatchedFlow = 0
	l.capturedRows = nil
	l.linkFlow = 0
	l.dualValue = 0
	l.solverIndex = index
}

// CaptureRow records that row produces or consumes through this link
func (l *ProductionLink) CaptureRow(row *RecipeRow) {
	if row == nil {
		return
	}
	for _, r := range l.capturedRows {
		if r == row {
			return
		}
	}
	l.capturedRows = append(l.capturedRows, row)
}

// AddNotMatchedFlow accumulates signed slack; a link relaxed both ways keeps the net imbalance
func (l *ProductionLink) AddNotMatchedFlow(flow float64) { l.notMatchedFlow += flow }
func (l *ProductionLink) SetLinkFlow(flow float64) { l.linkFlow = flow }
func (l *ProductionLink) SetDualValue(dual float64) { l.dualValue = dual }

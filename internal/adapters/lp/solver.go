package lp

import (
	"errors"
	"fmt"
	"math"
	"math/rand/v2"

	"gonum.org/v1/gonum/mat"
	gonumlp "gonum.org/v1/gonum/optimize/convex/lp"
)

const (
	defaultTolerance = 1e-10
	defaultAttempts  = 3

	// basisTolerance decides whether an activity sits on a bound
	basisTolerance = 1e-7
)

var errSimplexPanic = errors.New("lp: simplex panicked")

// Solver owns one linear program. It is not safe for concurrent use; every
// analysis creates its own instance.
type Solver struct {
	name        string
	tolerance   float64
	attempts    int
	seed        uint64
	random      *rand.Rand
	variables   []*Variable
	constraints []*Constraint
	objective   *Objective
	status      ResultStatus
	lastErr     error
}

// Option configures a Solver
type Option func(*Solver)

// WithTolerance sets the simplex pivot tolerance
func WithTolerance(tol float64) Option {
	return func(s *Solver) {
		if tol > 0 {
			s.tolerance = tol
		}
	}
}

// WithAttempts sets how many seeds TrySolveWithDifferentSeeds tries
func WithAttempts(attempts int) Option {
	return func(s *Solver) {
		if attempts > 0 {
			s.attempts = attempts
		}
	}
}

// WithSeed fixes the random source used to pick retry seeds
func WithSeed(seed uint64) Option {
	return func(s *Solver) {
		s.random = rand.New(rand.NewPCG(seed, seed+1))
	}
}

func NewSolver(name string, opts ...Option) *Solver {
	s := &Solver{
		name:      name,
		tolerance: defaultTolerance,
		attempts:  defaultAttempts,
		random:    rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64())),
		objective: &Objective{coeffs: make(map[*Variable]float64)},
		status:    NotSolved,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Solver) Name() string { return s.name }
func (s *Solver) Objective() *Objective { return s.objective }
func (s *Solver) Variables() []*Variable { return s.variables }
func (s *Solver) Constraints() []*Constraint { return s.constraints }
func (s *Solver) Status() ResultStatus { return s.status }

// LastError returns the library error behind an ABNORMAL status
func (s *Solver) LastError() error { return s.lastErr }

// SetSeed changes the column order used by the next Solve. Seed 0 keeps model order.
func (s *Solver) SetSeed(seed uint64) { s.seed = seed }

// MakeNumVar adds a continuous variable bounded to [lb, ub]
func (s *Solver) MakeNumVar(lb, ub float64, name string) *Variable {
	v := &Variable{index: len(s.variables), name: name, lb: lb, ub: ub}
	s.variables = append(s.variables, v)
	return v
}

// MakeConstraint adds lb <= Σ a·x <= ub with no coefficients yet
func (s *Solver) MakeConstraint(lb, ub float64, name string) *Constraint {
	c := &Constraint{index: len(s.constraints), name: name, lb: lb, ub: ub, coeffs: make(map[*Variable]float64)}
	s.constraints = append(s.constraints, c)
	return c
}

// TrySolveWithDifferentSeeds solves, retrying with a new column order while the
// library reports a numerical failure
func (s *Solver) TrySolveWithDifferentSeeds() ResultStatus {
	for i := 0; i < s.attempts; i++ {
		result := s.Solve()
		if result != Abnormal {
			return result
		}
		s.seed = s.random.Uint64() | 1
	}
	return Abnormal
}

// Solve runs the simplex once and writes values, duals and basis statuses back
// onto the model
func (s *Solver) Solve() ResultStatus {
	s.lastErr = nil
	s.clearSolution()

	sf := buildStandardForm(s.variables, s.constraints, s.objective)
	switch {
	case sf.infeasible:
		s.status = Infeasible
		return s.status
	case sf.unbounded:
		s.status = Unbounded
		return s.status
	}
	sf.permute(s.seed)

	var x []float64
	if len(sf.b) > 0 {
		c, a, b := sf.matrices()
		var err error
		x, err = simplex(c, a, b, s.tolerance)
		if err != nil {
			s.status = statusFromError(err)
			if s.status == Abnormal {
				s.lastErr = err
			}
			return s.status
		}
	} else {
		x = make([]float64, len(sf.active))
	}

	values := sf.values(x)
	for i, v := range s.variables {
		v.value = values[i]
	}
	s.objective.value = 0
	for _, v := range s.objective.order {
		s.objective.value += s.objective.coeffs[v] * v.value
	}
	for _, c := range s.constraints {
		c.activity = 0
		for _, v := range c.order {
			c.activity += c.coeffs[v] * v.value
		}
	}

	s.readDuals(sf)
	s.readBasis()
	s.status = Optimal
	return s.status
}

func (s *Solver) clearSolution() {
	for _, v := range s.variables {
		v.value = 0
		v.basis = Free
	}
	for _, c := range s.constraints {
		c.activity = 0
		c.dual = 0
		c.basis = Free
	}
	s.objective.value = 0
}

func simplex(c []float64, a mat.Matrix, b []float64, tol float64) (x []float64, err error) {
	defer func() {
		if r := recover(); r != nil {
			x = nil
			err = fmt.Errorf("%w: %v", errSimplexPanic, r)
		}
	}()
	_, x, err = gonumlp.Simplex(c, a, b, tol, nil)
	return x, err
}

func statusFromError(err error) ResultStatus {
	switch {
	case err == nil:
		return Optimal
	case errors.Is(err, gonumlp.ErrInfeasible):
		return Infeasible
	case errors.Is(err, gonumlp.ErrUnbounded):
		return Unbounded
	default:
		return Abnormal
	}
}

// readDuals solves the dual of the standard form,
//
//	max bᵀy  s.t.  Aᵀy <= c
//
// written as min −bᵀy⁺ + bᵀy⁻ s.t. Aᵀy⁺ − Aᵀy⁻ + z = c. The dual of a model
// constraint is the y of its main row, mapped back through row negation and
// the objective direction. Duals stay 0 if the dual solve fails.
func (s *Solver) readDuals(sf *standardForm) {
	m, n := len(sf.b), len(sf.active)
	if m == 0 || n == 0 {
		return
	}
	c, a, b := sf.matrices()

	rows, cols := n, 2*m+n
	dualA := mat.NewDense(rows, cols, nil)
	dualB := make([]float64, rows)
	dualC := make([]float64, cols)
	for i := 0; i < m; i++ {
		dualC[i] = -b[i]
		dualC[m+i] = b[i]
	}
	for j := 0; j < n; j++ {
		sign := 1.0
		if c[j] < 0 {
			sign = -1
		}
		dualB[j] = sign * c[j]
		for i := 0; i < m; i++ {
			v := a.At(i, j)
			if v == 0 {
				continue
			}
			dualA.Set(j, i, sign*v)
			dualA.Set(j, m+i, -sign*v)
		}
		dualA.Set(j, 2*m+j, sign)
	}

	y, err := simplex(dualC, dualA, dualB, s.tolerance)
	if err != nil {
		return
	}
	for i, con := range s.constraints {
		row := sf.consRow[i]
		if row < 0 {
			continue
		}
		dual := (y[row] - y[m+row]) * sf.rowSign[row]
		con.dual = dual * sf.objSign
	}
}

func (s *Solver) readBasis() {
	for _, v := range s.variables {
		v.basis = boundStatus(v.value, v.lb, v.ub)
	}
	for _, c := range s.constraints {
		c.basis = boundStatus(c.activity, c.lb, c.ub)
	}
}

func boundStatus(value, lb, ub float64) BasisStatus {
	lbInf, ubInf := isNegInf(lb), isPosInf(ub)
	atLower := !lbInf && nearlyEqual(value, lb)
	atUpper := !ubInf && nearlyEqual(value, ub)
	switch {
	case lbInf && ubInf:
		return Free
	case atLower && atUpper:
		return FixedValue
	case atLower:
		return AtLowerBound
	case atUpper:
		return AtUpperBound
	default:
		return Basic
	}
}

func nearlyEqual(a, b float64) bool {
	return math.Abs(a-b) <= basisTolerance*math.Max(1, math.Abs(b))
}

package lp

import (
	"math"
	"math/rand/v2"

	"gonum.org/v1/gonum/mat"
)

// column is one standard form variable, stored sparsely by row
type column struct {
	entries map[int]float64
	cost    float64
	dropped bool
}

// varMapping expresses a model variable as offset + Σ sign·x[col]
type varMapping struct {
	offset float64
	cols   []int
	signs  []float64
}

// standardForm is min cᵀx s.t. Ax = b, x >= 0 built from a bounded model.
//
// Every model row gets its own slack column and every bounded range gets a
// second row with its own column, so A always has full row rank and at least
// as many columns as rows.
type standardForm struct {
	cols      []column
	b         []float64
	rowSign   []float64
	consRow   []int
	vars      []varMapping
	objOffset float64
	objSign   float64

	infeasible bool
	unbounded  bool

	// active holds the non-dropped columns in solve order
	active []int
}

func isNegInf(v float64) bool { return math.IsInf(v, -1) }
func isPosInf(v float64) bool { return math.IsInf(v, 1) }

func (sf *standardForm) newRow(rhs float64) int {
	sf.b = append(sf.b, rhs)
	return len(sf.b) - 1
}

func (sf *standardForm) newCol(cost float64) int {
	sf.cols = append(sf.cols, column{entries: make(map[int]float64), cost: cost})
	return len(sf.cols) - 1
}

func (sf *standardForm) add(row, col int, value float64) {
	sf.cols[col].entries[row] += value
}

func buildStandardForm(vars []*Variable, cons []*Constraint, obj *Objective) *standardForm {
	sf := &standardForm{
		vars:    make([]varMapping, len(vars)),
		consRow: make([]int, len(cons)),
		objSign: 1,
	}
	if obj.maximize {
		sf.objSign = -1
	}

	for j, v := range vars {
		cost := sf.objSign * obj.coeffs[v]
		switch {
		case v.lb > v.ub || isPosInf(v.lb) || isNegInf(v.ub):
			sf.infeasible = true
			sf.vars[j] = varMapping{}
		case v.lb == v.ub:
			sf.vars[j] = varMapping{offset: v.lb}
		case !isNegInf(v.lb):
			col := sf.newCol(cost)
			sf.vars[j] = varMapping{offset: v.lb, cols: []int{col}, signs: []float64{1}}
			if !isPosInf(v.ub) {
				row := sf.newRow(v.ub - v.lb)
				sf.add(row, col, 1)
				sf.add(row, sf.newCol(0), 1)
			}
		case !isPosInf(v.ub):
			col := sf.newCol(-cost)
			sf.vars[j] = varMapping{offset: v.ub, cols: []int{col}, signs: []float64{-1}}
		default:
			pos := sf.newCol(cost)
			neg := sf.newCol(-cost)
			sf.vars[j] = varMapping{cols: []int{pos, neg}, signs: []float64{1, -1}}
		}
		sf.objOffset += sf.objSign * obj.coeffs[v] * sf.vars[j].offset
	}

	for i, con := range cons {
		sf.consRow[i] = -1
		if con.lb > con.ub {
			sf.infeasible = true
			continue
		}
		lbInf, ubInf := isNegInf(con.lb), isPosInf(con.ub)
		if lbInf && ubInf {
			continue
		}

		row := sf.newRow(0)
		k := 0.0
		for _, v := range con.order {
			a := con.coeffs[v]
			if a == 0 {
				continue
			}
			m := sf.vars[v.index]
			k += a * m.offset
			for t, col := range m.cols {
				sf.add(row, col, a*m.signs[t])
			}
		}

		switch {
		case ubInf:
			sf.b[row] = con.lb - k
			sf.add(row, sf.newCol(0), -1)
		case lbInf:
			sf.b[row] = con.ub - k
			sf.add(row, sf.newCol(0), 1)
		default:
			sf.b[row] = con.lb - k
			slack := sf.newCol(0)
			sf.add(row, slack, -1)
			rangeRow := sf.newRow(con.ub - con.lb)
			sf.add(rangeRow, slack, 1)
			sf.add(rangeRow, sf.newCol(0), 1)
		}
		sf.consRow[i] = row
	}

	sf.normalize()
	return sf
}

// normalize drops cancelled entries and zero columns and flips rows with a negative rhs
func (sf *standardForm) normalize() {
	sf.rowSign = make([]float64, len(sf.b))
	for r := range sf.b {
		sf.rowSign[r] = 1
		if sf.b[r] < 0 {
			sf.rowSign[r] = -1
			sf.b[r] = -sf.b[r]
		}
	}

	for c := range sf.cols {
		col := &sf.cols[c]
		for r, v := range col.entries {
			if v == 0 {
				delete(col.entries, r)
				continue
			}
			col.entries[r] = v * sf.rowSign[r]
		}
		if len(col.entries) == 0 {
			col.dropped = true
			// an unconstrained column only stays at 0 when moving it cannot lower the cost
			if col.cost < 0 {
				sf.unbounded = true
			}
			continue
		}
		sf.active = append(sf.active, c)
	}
}

// permute shuffles the solve order of the active columns
func (sf *standardForm) permute(seed uint64) {
	if seed == 0 {
		return
	}
	rng := rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
	rng.Shuffle(len(sf.active), func(i, j int) {
		sf.active[i], sf.active[j] = sf.active[j], sf.active[i]
	})
}

// matrices assembles the dense problem over the active columns
func (sf *standardForm) matrices() (c []float64, a *mat.Dense, b []float64) {
	m, n := len(sf.b), len(sf.active)
	c = make([]float64, n)
	a = mat.NewDense(m, n, nil)
	for j, colIdx := range sf.active {
		col := sf.cols[colIdx]
		c[j] = col.cost
		for r, v := range col.entries {
			a.Set(r, j, v)
		}
	}
	b = make([]float64, m)
	copy(b, sf.b)
	return c, a, b
}

// values maps a standard form solution back onto the model variables
func (sf *standardForm) values(x []float64) []float64 {
	colValue := make([]float64, len(sf.cols))
	for j, colIdx := range sf.active {
		colValue[colIdx] = x[j]
	}
	out := make([]float64, len(sf.vars))
	for i, m := range sf.vars {
		v := m.offset
		for t, col := range m.cols {
			v += m.signs[t] * colValue[col]
		}
		out[i] = v
	}
	return out
}

package lp

// Variable is a real-valued decision variable
type Variable struct {
	index int
	name  string
	lb    float64
	ub    float64

	value float64
	basis BasisStatus
}

func (v *Variable) Index() int { return v.index }
func (v *Variable) Name() string { return v.name }
func (v *Variable) LowerBound() float64 { return v.lb }
func (v *Variable) UpperBound() float64 { return v.ub }
func (v *Variable) SolutionValue() float64 { return v.value }
func (v *Variable) BasisStatus() BasisStatus { return v.basis }

func (v *Variable) SetBounds(lb, ub float64) {
	v.lb = lb
	v.ub = ub
}

// Constraint is lb <= Σ coefficient·variable <= ub
type Constraint struct {
	index  int
	name   string
	lb     float64
	ub     float64
	coeffs map[*Variable]float64
	order  []*Variable

	activity float64
	dual     float64
	basis    BasisStatus
}

func (c *Constraint) Index() int { return c.index }
func (c *Constraint) Name() string { return c.name }
func (c *Constraint) LowerBound() float64 { return c.lb }
func (c *Constraint) UpperBound() float64 { return c.ub }
func (c *Constraint) Activity() float64 { return c.activity }

// DualValue is the derivative of the optimal objective with respect to the
// active bound of the constraint
func (c *Constraint) DualValue() float64 { return c.dual }
func (c *Constraint) BasisStatus() BasisStatus { return c.basis }

func (c *Constraint) SetBounds(lb, ub float64) {
	c.lb = lb
	c.ub = ub
}

// SetCoefficient overwrites the coefficient of v
func (c *Constraint) SetCoefficient(v *Variable, coefficient float64) {
	if _, ok := c.coeffs[v]; !ok {
		c.order = append(c.order, v)
	}
	c.coeffs[v] = coefficient
}

// GetCoefficient returns the coefficient of v, 0 when absent
func (c *Constraint) GetCoefficient(v *Variable) float64 {
	return c.coeffs[v]
}

// AddCoefficient accumulates onto the existing coefficient of v
func (c *Constraint) AddCoefficient(v *Variable, coefficient float64) {
	c.SetCoefficient(v, c.GetCoefficient(v)+coefficient)
}

// Objective is a linear function of the variables
type Objective struct {
	coeffs   map[*Variable]float64
	order    []*Variable
	maximize bool
	value    float64
}

func (o *Objective) SetMinimization() { o.maximize = false }
func (o *Objective) SetMaximization() { o.maximize = true }
func (o *Objective) IsMaximization() bool { return o.maximize }

// Value is the objective at the last solution
func (o *Objective) Value() float64 { return o.value }

func (o *Objective) SetCoefficient(v *Variable, coefficient float64) {
	if _, ok := o.coeffs[v]; !ok {
		o.order = append(o.order, v)
	}
	o.coeffs[v] = coefficient
}

// GetCoefficient returns the coefficient of v, 0 when absent
func (o *Objective) GetCoefficient(v *Variable) float64 {
	return o.coeffs[v]
}

// Clear drops every coefficient and keeps the direction
func (o *Objective) Clear() {
	o.coeffs = make(map[*Variable]float64)
	o.order = nil
}

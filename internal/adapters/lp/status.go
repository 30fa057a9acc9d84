package lp

// ResultStatus is the outcome of a solve
type ResultStatus int

const (
	NotSolved ResultStatus = iota
	Optimal
	Feasible
	Infeasible
	Unbounded
	Abnormal
)

func (s ResultStatus) String() string {
	switch s {
	case Optimal:
		return "OPTIMAL"
	case Feasible:
		return "FEASIBLE"
	case Infeasible:
		return "INFEASIBLE"
	case Unbounded:
		return "UNBOUNDED"
	case Abnormal:
		return "ABNORMAL"
	default:
		return "NOT_SOLVED"
	}
}

// IsSolution reports whether variable values can be read back
func (s ResultStatus) IsSolution() bool {
	return s == Optimal || s == Feasible
}

// BasisStatus describes where a variable or a constraint activity sits
// relative to its bounds in the final solution
type BasisStatus int

const (
	Free BasisStatus = iota
	AtLowerBound
	AtUpperBound
	FixedValue
	Basic
)

func (b BasisStatus) String() string {
	switch b {
	case AtLowerBound:
		return "AT_LOWER_BOUND"
	case AtUpperBound:
		return "AT_UPPER_BOUND"
	case FixedValue:
		return "FIXED_VALUE"
	case Basic:
		return "BASIC"
	default:
		return "FREE"
	}
}

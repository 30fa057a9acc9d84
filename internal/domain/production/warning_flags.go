package production

import "strings"

// WarningFlags are per-row problems found while solving
type WarningFlags uint16

const (
	WarningOverproductionRequired WarningFlags = 1 << iota
	WarningDeadlockCandidate
	WarningExceedsBuiltCount
	WarningFuelNotSelected
	WarningEntityNotSpecified
	WarningFuelDoesNotProvideEnergy
)

var warningNames = []struct {
	flag WarningFlags
	name string
}{
	{WarningOverproductionRequired, "overproduction required"},
	{WarningDeadlockCandidate, "deadlock candidate"},
	{WarningExceedsBuiltCount, "exceeds built count"},
	{WarningFuelNotSelected, "fuel not selected"},
	{WarningEntityNotSpecified, "entity not specified"},
	{WarningFuelDoesNotProvideEnergy, "fuel does not provide energy"},
}

// Has reports whether every bit of flag is set
func (w WarningFlags) Has(flag WarningFlags) bool {
	return w&flag == flag
}

// HasAny reports whether any bit of flags is set
func (w WarningFlags) HasAny(flags WarningFlags) bool {
	return w&flags != 0
}

func (w WarningFlags) String() string {
	if w == 0 {
		return "none"
	}
	var parts []string
	for _, n := range warningNames {
		if w.Has(n.flag) {
			parts = append(parts, n.name)
		}
	}
	return strings.Join(parts, ", ")
}

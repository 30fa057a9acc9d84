package production

import "fmt"

// ErrLinkConflict indicates a table already pins the qualified good
type ErrLinkConflict struct {
	Goods string
}

func (e *ErrLinkConflict) Error() string {
	return fmt.Sprintf("table already has a link for %s", e.Goods)
}

// ErrInvalidPercentage indicates a consumption percentage outside [0, 1]
type ErrInvalidPercentage struct {
	Goods string
	Value float64
}

func (e *ErrInvalidPercentage) Error() string {
	return fmt.Sprintf("consumption percentage for %s must be within [0, 1], got %g", e.Goods, e.Value)
}

// ErrInvalidLinkTransition indicates an illegal link state machine transition
type ErrInvalidLinkTransition struct {
	CurrentState LinkState
	Attempted    string
}

func (e *ErrInvalidLinkTransition) Error() string {
	return fmt.Sprintf("cannot %s link in %s state", e.Attempted, e.CurrentState)
}

// ErrNotInTable indicates the row or link does not belong to the table
type ErrNotInTable struct {
	What string
}

func (e *ErrNotInTable) Error() string {
	return fmt.Sprintf("%s does not belong to this table", e.What)
}

// ErrProjectNotFound is returned by repositories when no project has the name
type ErrProjectNotFound struct {
	Name string
}

func (e *ErrProjectNotFound) Error() string {
	return fmt.Sprintf("project not found: %s", e.Name)
}

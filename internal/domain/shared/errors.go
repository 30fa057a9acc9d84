package shared

import "fmt"

// DomainError is the base error type for all domain errors
type DomainError struct {
	Message string
}

func (e *DomainError) Error() string {
	return e.Message
}

func NewDomainError(message string) *DomainError {
	return &DomainError{Message: message}
}

// Validation error

type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}

// Object model errors

// UnknownObjectError is returned when a name does not resolve inside the catalog
type UnknownObjectError struct {
	*DomainError
	Kind string
	Name string
}

func NewUnknownObjectError(kind, name string) *UnknownObjectError {
	return &UnknownObjectError{
		DomainError: NewDomainError(fmt.Sprintf("unknown %s %q", kind, name)),
		Kind:        kind,
		Name:        name,
	}
}

// DuplicateObjectError is returned when two catalog objects of one kind share a name
type DuplicateObjectError struct {
	*DomainError
	Kind string
	Name string
}

func NewDuplicateObjectError(kind, name string) *DuplicateObjectError {
	return &DuplicateObjectError{
		DomainError: NewDomainError(fmt.Sprintf("duplicate %s %q", kind, name)),
		Kind:        kind,
		Name:        name,
	}
}

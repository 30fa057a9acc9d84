package common

import (
	"fmt"
	"strings"
	"sync"
)

// ErrorSeverity ranks collected problems
type ErrorSeverity int

const (
	SeverityNone ErrorSeverity = iota
	SeverityAnalysisWarning
	SeverityMajorDataLoss
	SeverityCritical
)

func (s ErrorSeverity) String() string {
	switch s {
	case SeverityAnalysisWarning:
		return "analysis warning"
	case SeverityMajorDataLoss:
		return "major data loss"
	case SeverityCritical:
		return "critical"
	default:
		return "none"
	}
}

// CollectedError is one recorded problem
type CollectedError struct {
	Message  string
	Severity ErrorSeverity
}

// ErrorCollector gathers recoverable problems raised while an analysis keeps going
type ErrorCollector struct {
	mu       sync.Mutex
	errors   []CollectedError
	severity ErrorSeverity
}

func NewErrorCollector() *ErrorCollector {
	return &ErrorCollector{}
}

// Error records message; repeats of the same message are kept once
func (c *ErrorCollector) Error(message string, severity ErrorSeverity) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, e := range c.errors {
		if e.Message == message {
			return
		}
	}
	c.errors = append(c.errors, CollectedError{Message: message, Severity: severity})
	if severity > c.severity {
		c.severity = severity
	}
}

// Severity returns the worst recorded severity
func (c *ErrorCollector) Severity() ErrorSeverity {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.severity
}

// Errors returns a copy of the recorded problems
func (c *ErrorCollector) Errors() []CollectedError {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]CollectedError, len(c.errors))
	copy(out, c.errors)
	return out
}

func (c *ErrorCollector) String() string {
	errs := c.Errors()
	lines := make([]string, 0, len(errs))
	for _, e := range errs {
		lines = append(lines, fmt.Sprintf("%s: %s", e.Severity, e.Message))
	}
	return strings.Join(lines, "\n")
}

package common

import (
	"context"
	"fmt"
	"log"
	"sort"
	"strings"
)

// Logger provides structured logging for application services
type Logger interface {
	Log(level, message string, metadata map[string]interface{})
}

// Context keys for passing logger through context
type contextKey int

const (
	loggerKey contextKey = iota
)

// WithLogger adds a logger to the context
func WithLogger(ctx context.Context, logger Logger) context.Context {
	return context.WithValue(ctx, loggerKey, logger)
}

// LoggerFromContext extracts the logger from context, or returns a no-op logger if not found
func LoggerFromContext(ctx context.Context) Logger {
	if logger, ok := ctx.Value(loggerKey).(Logger); ok {
		return logger
	}
	return &noOpLogger{}
}

// noOpLogger is a logger that does nothing (fallback when no logger in context)
type noOpLogger struct{}

func (l *noOpLogger) Log(level, message string, metadata map[string]interface{}) {}

var levelRank = map[string]int{"DEBUG": 0, "INFO": 1, "WARNING": 2, "ERROR": 3}

// StdLogger writes through the standard library logger and drops entries below minLevel
type StdLogger struct {
	logger   *log.Logger
	minLevel int
}

// NewStdLogger creates a logger for the given level name (debug, info, warning, error)
func NewStdLogger(logger *log.Logger, level string) *StdLogger {
	if logger == nil {
		logger = log.Default()
	}
	rank, ok := levelRank[strings.ToUpper(level)]
	if !ok {
		rank = levelRank["INFO"]
	}
	return &StdLogger{logger: logger, minLevel: rank}
}

func (l *StdLogger) Log(level, message string, metadata map[string]interface{}) {
	if rank, ok := levelRank[strings.ToUpper(level)]; ok && rank < l.minLevel {
		return
	}
	if len(metadata) == 0 {
		l.logger.Printf("[%s] %s", strings.ToUpper(level), message)
		return
	}
	keys := make([]string, 0, len(metadata))
	for k := range metadata {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s=%v", k, metadata[k]))
	}
	l.logger.Printf("[%s] %s %s", strings.ToUpper(level), message, strings.Join(parts, " "))
}

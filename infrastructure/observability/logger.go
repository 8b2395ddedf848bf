// Package observability wires the process's logging, metrics, and tracing
// collaborators, constructed once at startup and threaded through service
// constructors rather than held behind package-level globals — the
// discipline this codebase's internal/di/initialization/observability.go
// follows for the same three concerns.
package observability

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// NewLogger builds a zap.Logger for the given environment and level,
// mirroring this codebase's development/production logger split
// (internal/di/initialization/observability.go).
func NewLogger(environment, level string) (*zap.Logger, error) {
	var cfg zap.Config
	if environment == "production" {
		cfg = zap.NewProductionConfig()
	} else {
		cfg = zap.NewDevelopmentConfig()
	}

	var zapLevel zapcore.Level
	if err := zapLevel.UnmarshalText([]byte(level)); err != nil {
		zapLevel = zapcore.InfoLevel
	}
	cfg.Level = zap.NewAtomicLevelAt(zapLevel)

	return cfg.Build()
}

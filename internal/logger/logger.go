// Package logger provides structured logging for all reportrack components,
// backed by zap. Use the Field* constants for field names so log output
// stays queryable across packages.
package logger

import (
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Standard field names used across the codebase.
const (
	FieldComponent = "component"
	FieldAlarmID   = "alarm_id"
	FieldRunID     = "run_id"
	FieldProperty  = "property_id"
	FieldRecipient = "recipient"
	FieldStatus    = "status"
	FieldCount     = "count"
	FieldReason    = "reason"
	FieldDuration  = "duration_ms"
)

// New builds a production logger at the given level. Unknown level strings
// fall back to info.
func New(level string) (*zap.Logger, error) {
	cfg := zap.NewProductionConfig()
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	cfg.Level = zap.NewAtomicLevelAt(parseLevel(level))
	return cfg.Build()
}

// Nop returns a logger that discards everything. Intended for tests.
func Nop() *zap.Logger {
	return zap.NewNop()
}

func parseLevel(level string) zapcore.Level {
	switch strings.ToLower(level) {
	case "debug":
		return zapcore.DebugLevel
	case "warn", "warning":
		return zapcore.WarnLevel
	case "error":
		return zapcore.ErrorLevel
	default:
		return zapcore.InfoLevel
	}
}

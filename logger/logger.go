// Package logger holds the process-wide zap logger.
package logger

import (
	"fmt"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Log is the shared sugared logger. It is a no-op until Initialize is called,
// which keeps tests quiet.
var Log = zap.NewNop().Sugar()

// Initialize builds the logger for the given environment and level
func Initialize(environment, level string) error {
	var cfg zap.Config
	if environment == "production" {
		cfg = zap.NewProductionConfig()
	} else {
		cfg = zap.NewDevelopmentConfig()
	}

	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		return fmt.Errorf("invalid log level %q: %w", level, err)
	}
	cfg.Level = zap.NewAtomicLevelAt(lvl)

	base, err := cfg.Build()
	if err != nil {
		return fmt.Errorf("failed to build logger: %w", err)
	}

	Log = base.Sugar()
	return nil
}

// Set replaces the shared logger
func Set(l *zap.SugaredLogger) {
	if l != nil {
		Log = l
	}
}

// Sync flushes buffered log entries
func Sync() error {
	return Log.Sync()
}

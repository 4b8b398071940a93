// Package logging builds the zap logger used by the ipd command and server.
package logging

import (
	"fmt"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/ssargent/ipd/pkg/config"
)

// New creates a logger for the configured level and encoding. Console output
// uses the development encoder; json output uses the production one.
func New(cfg config.Logging) (*zap.Logger, error) {
	level := zapcore.InfoLevel
	if cfg.Level != "" {
		parsed, err := zapcore.ParseLevel(cfg.Level)
		if err != nil {
			return nil, fmt.Errorf("invalid log level %q: %w", cfg.Level, err)
		}
		level = parsed
	}

	var zc zap.Config
	switch cfg.Format {
	case "", "console":
		zc = zap.NewDevelopmentConfig()
		zc.Development = false
	case "json":
		zc = zap.NewProductionConfig()
		zc.Sampling = nil
	default:
		return nil, fmt.Errorf("invalid log format %q", cfg.Format)
	}

	zc.Level = zap.NewAtomicLevelAt(level)
	// stdout carries command output
	zc.OutputPaths = []string{"stderr"}
	zc.ErrorOutputPaths = []string{"stderr"}

	logger, err := zc.Build()
	if err != nil {
		return nil, fmt.Errorf("failed to build logger: %w", err)
	}
	return logger, nil
}

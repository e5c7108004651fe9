// Package logging builds the zap logger used by the rdfgraph command.
package logging

import (
	"fmt"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/recalcitrantsupplant/rdflib/internal/config"
)

// New builds a logger writing to stderr. Debug level switches to zap's
// development settings; JSON selects the JSON encoder, console otherwise.
func New(cfg config.LoggingConfig) (*zap.Logger, error) {
	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return nil, fmt.Errorf("logging: %w", err)
	}
	zc := zap.NewProductionConfig()
	if level == zapcore.DebugLevel {
		zc = zap.NewDevelopmentConfig()
	}
	zc.Level = zap.NewAtomicLevelAt(level)
	zc.Encoding = "console"
	if cfg.JSON {
		zc.Encoding = "json"
	}
	zc.OutputPaths = []string{"stderr"}
	zc.ErrorOutputPaths = []string{"stderr"}
	logger, err := zc.Build()
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	return logger, nil
}

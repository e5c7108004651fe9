package logging

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"

	"github.com/recalcitrantsupplant/rdflib/internal/config"
)

func TestLevels(t *testing.T) {
	for _, tc := range []struct {
		level   string
		enabled zapcore.Level
		quiet   zapcore.Level
	}{
		{"debug", zapcore.DebugLevel, zapcore.DebugLevel - 1},
		{"info", zapcore.InfoLevel, zapcore.DebugLevel},
		{"error", zapcore.ErrorLevel, zapcore.WarnLevel},
	} {
		t.Run(tc.level, func(t *testing.T) {
			logger, err := New(config.LoggingConfig{Level: tc.level, JSON: true})
			require.NoError(t, err)
			assert.True(t, logger.Core().Enabled(tc.enabled))
			assert.False(t, logger.Core().Enabled(tc.quiet))
		})
	}
}

func TestUnknownLevel(t *testing.T) {
	_, err := New(config.LoggingConfig{Level: "chatty"})
	assert.Error(t, err)
}

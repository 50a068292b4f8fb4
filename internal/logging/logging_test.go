package logging

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

func TestNew(t *testing.T) {
	tests := []struct {
		level, encoding string
		enabled         zapcore.Level
		disabled        zapcore.Level
	}{
		{"debug", "console", zapcore.DebugLevel, zapcore.DebugLevel - 1},
		{"info", "", zapcore.InfoLevel, zapcore.DebugLevel},
		{"warn", "json", zapcore.WarnLevel, zapcore.InfoLevel},
		{"error", "json", zapcore.ErrorLevel, zapcore.WarnLevel},
	}
	for _, tt := range tests {
		log, err := New(tt.level, tt.encoding)
		require.NoError(t, err, tt.level)
		assert.True(t, log.Core().Enabled(tt.enabled), tt.level)
		assert.False(t, log.Core().Enabled(tt.disabled), tt.level)
	}
}

func TestNewInvalid(t *testing.T) {
	_, err := New("loud", "console")
	assert.ErrorContains(t, err, "invalid log level")
	_, err = New("info", "xml")
	assert.ErrorContains(t, err, "invalid log encoding")
}

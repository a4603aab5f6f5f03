package logger

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

func TestParseLogLevel(t *testing.T) {
	tests := []struct {
		in   string
		want zapcore.Level
	}{
		{"", zapcore.InfoLevel},
		{"debug", zapcore.DebugLevel},
		{"TRACE", zapcore.DebugLevel},
		{" warn ", zapcore.WarnLevel},
		{"WARNING", zapcore.WarnLevel},
		{"error", zapcore.ErrorLevel},
		{"bogus", zapcore.InfoLevel},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseLogLevel(tt.in))
		})
	}
}

func TestColouredLevel(t *testing.T) {
	assert.Contains(t, ColouredLevel(zapcore.InfoLevel), "INFO")
	assert.Contains(t, ColouredLevel(zapcore.ErrorLevel), "\033[31m")
	assert.NotContains(t, ColouredLevel(zapcore.Level(42)), "\033[")
}

func TestInitializeWithFallback_LogFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "iamseed.log")
	t.Setenv("LOG_FILE", path)
	t.Setenv("LOG_LEVEL", "info")

	InitializeWithFallback()
	L().Info("hello from test")
	_ = Sync()

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "hello from test")
}

func TestGenerateTraceID(t *testing.T) {
	a, b := GenerateTraceID(), GenerateTraceID()
	assert.Len(t, a, 8)
	assert.NotEqual(t, a, b)
}

package core

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/config"
	"go.uber.org/fx/fxtest"
	"go.uber.org/zap/zapcore"
)

func TestNewLogger(t *testing.T) {
	tests := []struct {
		name          string
		loggingConfig string
		expectedLevel zapcore.Level
		expectError   bool
	}{
		{
			name: "info level json encoding",
			loggingConfig: `
logging:
  level: info
  development: false
  encoding: json
`,
			expectedLevel: zapcore.InfoLevel,
		},
		{
			name: "debug level console encoding",
			loggingConfig: `
logging:
  level: debug
  development: true
  encoding: console
  outputPaths:
    - stderr
`,
			expectedLevel: zapcore.DebugLevel,
		},
		{
			name: "invalid level",
			loggingConfig: `
logging:
  level: invalid
`,
			expectError: true,
		},
		{
			name: "invalid output",
			loggingConfig: `
logging:
  level: info
  outputPaths:
    - unknown-scheme://nowhere
`,
			expectError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			provider, err := config.NewYAML(config.Source(strings.NewReader(tt.loggingConfig)))
			require.NoError(t, err)

			lc := fxtest.NewLifecycle(t)
			sugared, err := NewSugaredLogger(provider, lc)
			if tt.expectError {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)

			logger := NewLogger(sugared)
			require.NotNil(t, logger)
			assert.True(t, logger.Core().Enabled(tt.expectedLevel))
			assert.False(t, logger.Core().Enabled(tt.expectedLevel-1))

			lc.RequireStart().RequireStop()
		})
	}
}

func TestLoggerOutputFile(t *testing.T) {
	out := filepath.Join(t.TempDir(), "bpx.log")
	provider, err := config.NewYAML(config.Source(strings.NewReader(`
logging:
  level: info
  outputPaths:
    - ` + out + `
`)))
	require.NoError(t, err)

	lc := fxtest.NewLifecycle(t)
	logger, err := NewSugaredLogger(provider, lc)
	require.NoError(t, err)

	logger.Infow("structured message", "key1", "value1")
	lc.RequireStart().RequireStop()

	content, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Contains(t, string(content), `"key1":"value1"`)
}

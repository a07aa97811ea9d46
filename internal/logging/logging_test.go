package logging_test

import (
	"testing"

	"github.com/fyrsmithlabs/docindex/internal/logging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name      string
		config    logging.Config
		wantError bool
	}{
		{
			name:      "defaults are valid",
			config:    logging.NewDefaultConfig(),
			wantError: false,
		},
		{
			name:      "console format",
			config:    logging.Config{Level: "debug", Format: "console"},
			wantError: false,
		},
		{
			name:      "unknown level",
			config:    logging.Config{Level: "verbose", Format: "json"},
			wantError: true,
		},
		{
			name:      "unknown format",
			config:    logging.Config{Level: "info", Format: "xml"},
			wantError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.config.Validate()
			if tt.wantError {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestNew(t *testing.T) {
	logger, err := logging.New(logging.Config{Level: "warn", Format: "json"})
	require.NoError(t, err)
	require.NotNil(t, logger)

	assert.False(t, logger.Core().Enabled(zapcore.InfoLevel))
	assert.True(t, logger.Core().Enabled(zapcore.ErrorLevel))
}

func TestNew_InvalidConfig(t *testing.T) {
	_, err := logging.New(logging.Config{Level: "nope", Format: "json"})
	assert.Error(t, err)
}

package logging

import (
	"bytes"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.Equal(t, LevelWarn, cfg.Level)
	assert.True(t, cfg.Pretty)
}

func TestSetup(t *testing.T) {
	tests := []struct {
		name    string
		level   LogLevel
		testMsg string
	}{
		{name: "debug_level", level: LevelDebug, testMsg: "test debug message"},
		{name: "info_level", level: LevelInfo, testMsg: "test info message"},
		{name: "warn_level", level: LevelWarn, testMsg: "test warn message"},
		{name: "error_level", level: LevelError, testMsg: "test error message"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf := &bytes.Buffer{}

			logger, err := Setup(Config{Level: tt.level, Output: buf})
			require.NoError(t, err)

			switch tt.level {
			case LevelDebug:
				logger.Debug().Msg(tt.testMsg)
			case LevelInfo:
				logger.Info().Msg(tt.testMsg)
			case LevelWarn:
				logger.Warn().Msg(tt.testMsg)
			case LevelError:
				logger.Error().Msg(tt.testMsg)
			}

			assert.Contains(t, buf.String(), tt.testMsg)
		})
	}
}

func TestSetup_InvalidLevel(t *testing.T) {
	_, err := Setup(Config{Level: "loud", Output: &bytes.Buffer{}})
	assert.Error(t, err)
}

func TestSetup_RunID(t *testing.T) {
	buf := &bytes.Buffer{}
	_, err := Setup(Config{Level: LevelInfo, Output: buf, RunID: "run-123"})
	require.NoError(t, err)

	pagerLogger := NewLogger("pager")
	pagerLogger.Info().Msg("page fetched")

	output := buf.String()
	assert.Contains(t, output, `"run_id":"run-123"`)
	assert.Contains(t, output, `"component":"pager"`)
	assert.Contains(t, output, "page fetched")
}

func TestSetup_Pretty(t *testing.T) {
	buf := &bytes.Buffer{}
	logger, err := Setup(Config{Level: LevelInfo, Pretty: true, Output: buf})
	require.NoError(t, err)

	logger.Info().Msg("console line")

	output := buf.String()
	assert.NotRegexp(t, `^\{`, output, "console output, not JSON")
	assert.NotContains(t, output, "\x1b[", "no color codes for non-terminal output")
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input    string
		expected zerolog.Level
		wantErr  bool
	}{
		{"debug", zerolog.DebugLevel, false},
		{"INFO", zerolog.InfoLevel, false},
		{"warn", zerolog.WarnLevel, false},
		{"warning", zerolog.WarnLevel, false},
		{"", zerolog.WarnLevel, false},
		{"error", zerolog.ErrorLevel, false},
		{"invalid", zerolog.NoLevel, true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			result, err := ParseLevel(tt.input)
			if tt.wantErr {
				require.Error(t, err)
			} else {
				require.NoError(t, err)
			}
			assert.Equal(t, tt.expected, result)
		})
	}
}

func TestLogLevelFiltering(t *testing.T) {
	buf := &bytes.Buffer{}
	_, err := Setup(Config{Level: LevelWarn, Output: buf})
	require.NoError(t, err)

	logger := NewLogger("test")

	logger.Debug().Msg("debug message")
	logger.Info().Msg("info message")
	logger.Warn().Msg("warn message")
	logger.Error().Msg("error message")

	output := buf.String()

	assert.NotContains(t, output, "debug message")
	assert.NotContains(t, output, "info message")
	assert.Contains(t, output, "warn message")
	assert.Contains(t, output, "error message")
}

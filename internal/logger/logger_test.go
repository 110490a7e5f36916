package logger

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/aleister1102/urlstripper/internal/config"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoggerBuilder_Default(t *testing.T) {
	logger, err := NewLoggerBuilder().Build()
	require.NoError(t, err)
	require.NotNil(t, logger)

	cfg := logger.GetConfig()
	assert.Equal(t, zerolog.InfoLevel, cfg.Level)
	assert.Equal(t, FormatConsole, cfg.Format)
	assert.True(t, cfg.EnableConsole)
	assert.False(t, cfg.EnableFile)
	assert.NoError(t, logger.Close())
}

func TestLoggerBuilder_ConsoleOutput(t *testing.T) {
	var buf bytes.Buffer
	logger, err := NewLoggerBuilder().
		WithFormat(FormatJSON).
		WithLevel(zerolog.WarnLevel).
		WithConsoleOutput(&buf).
		Build()
	require.NoError(t, err)

	logger.GetZerolog().Info().Msg("hidden")
	logger.GetZerolog().Warn().Str("component", "Stripper").Msg("shown")

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, `"message":"shown"`)
	assert.Contains(t, out, `"component":"Stripper"`)
}

func TestLoggerBuilder_FileLogging(t *testing.T) {
	logFile := filepath.Join(t.TempDir(), "logs", "test.log")

	logger, err := NewLoggerBuilder().
		WithLevel(zerolog.DebugLevel).
		WithFormat(FormatJSON).
		WithFile(logFile, 1, 1).
		WithConsole(false).
		Build()
	require.NoError(t, err)

	logger.GetZerolog().Debug().Msg("this is a test")
	require.NoError(t, logger.Close())

	content, err := os.ReadFile(logFile)
	require.NoError(t, err)
	assert.Contains(t, string(content), `"level":"debug"`)
	assert.Contains(t, string(content), `"message":"this is a test"`)
}

func TestLoggerBuilder_Errors(t *testing.T) {
	_, err := NewLoggerBuilder().WithConsole(false).Build()
	assert.Error(t, err)

	_, err = NewLoggerBuilder().WithFile("x.log", 0, 1).Build()
	assert.Error(t, err)

	_, err = NewLoggerBuilder().WithConfig(config.LogConfig{LogLevel: "loud"}).Build()
	assert.Error(t, err)
}

func TestNew_FromLogConfig(t *testing.T) {
	logFile := filepath.Join(t.TempDir(), "urlstripper.log")
	cfg := config.NewDefaultLogConfig()
	cfg.LogFile = logFile
	cfg.LogFormat = "text"
	cfg.LogLevel = "debug"

	logger, err := New(cfg)
	require.NoError(t, err)
	defer logger.Close()

	lc := logger.GetConfig()
	assert.Equal(t, zerolog.DebugLevel, lc.Level)
	assert.Equal(t, FormatText, lc.Format)
	assert.True(t, lc.EnableFile)
	assert.Equal(t, logFile, lc.FilePath)
}

func TestFromLogConfig(t *testing.T) {
	lc, err := FromLogConfig(config.LogConfig{
		LogLevel:      "warn",
		LogFormat:     "json",
		LogFile:       "/tmp/test.log",
		MaxLogSizeMB:  50,
		MaxLogBackups: 5,
	})
	require.NoError(t, err)

	assert.Equal(t, zerolog.WarnLevel, lc.Level)
	assert.Equal(t, FormatJSON, lc.Format)
	assert.True(t, lc.EnableFile)
	assert.Equal(t, "/tmp/test.log", lc.FilePath)
	assert.Equal(t, 50, lc.MaxSizeMB)
	assert.Equal(t, 5, lc.MaxBackups)

	lc, err = FromLogConfig(config.LogConfig{})
	require.NoError(t, err)
	assert.Equal(t, zerolog.InfoLevel, lc.Level)
	assert.Equal(t, config.DefaultMaxLogSizeMB, lc.MaxSizeMB)
}

func TestParseLevel(t *testing.T) {
	level, err := ParseLevel("DEBUG")
	assert.NoError(t, err)
	assert.Equal(t, zerolog.DebugLevel, level)

	level, err = ParseLevel("invalid-level")
	assert.Error(t, err)
	assert.Equal(t, zerolog.InfoLevel, level)
}

func TestParseFormat(t *testing.T) {
	assert.Equal(t, FormatJSON, ParseFormat("json"))
	assert.Equal(t, FormatConsole, ParseFormat("console"))
	assert.Equal(t, FormatText, ParseFormat("TEXT"))
	assert.Equal(t, FormatConsole, ParseFormat("unknown-format"))
	assert.Equal(t, "text", FormatText.String())
}

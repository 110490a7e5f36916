package logger

import (
	"io"

	"github.com/aleister1102/urlstripper/internal/common"
	"github.com/aleister1102/urlstripper/internal/config"
	"github.com/rs/zerolog"
)

// Logger wraps a zerolog logger together with the files it writes to.
type Logger struct {
	zerolog zerolog.Logger
	config  LoggerConfig
	closers []io.Closer
}

// GetZerolog returns the underlying zerolog instance
func (l *Logger) GetZerolog() *zerolog.Logger {
	return &l.zerolog
}

// GetConfig returns the configuration the logger was built with
func (l *Logger) GetConfig() LoggerConfig {
	return l.config
}

// Close closes any log files.
func (l *Logger) Close() error {
	var ec common.ErrorCollector
	for _, c := range l.closers {
		ec.Add(c.Close())
	}
	return ec.Error()
}

// New builds a logger from the log_config section.
func New(cfg config.LogConfig) (*Logger, error) {
	return NewLoggerBuilder().WithConfig(cfg).Build()
}

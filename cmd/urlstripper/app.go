package main

import (
	"context"
	"io"

	"github.com/aleister1102/urlstripper/internal/common"
	"github.com/aleister1102/urlstripper/internal/common/batchprocessor"
	"github.com/aleister1102/urlstripper/internal/config"
	"github.com/aleister1102/urlstripper/internal/logger"
	"github.com/aleister1102/urlstripper/internal/metrics"
	"github.com/aleister1102/urlstripper/internal/options"
	"github.com/aleister1102/urlstripper/internal/stripper"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
)

// maxInputFileSize bounds each file read by the batch commands.
const maxInputFileSize = 64 << 20

// app holds everything a command needs.
type app struct {
	cfg       *config.GlobalConfig
	log       *logger.Logger
	logger    zerolog.Logger
	provider  options.Provider
	stripper  *stripper.Stripper
	registry  *prometheus.Registry
	collector *metrics.Collector
	closers   []io.Closer

	stdin  io.Reader
	stdout io.Writer
	stderr io.Writer
}

// newApp loads and validates the configuration, then builds the logger, the
// options backend and the stripper.
func newApp(ctx context.Context, flags GlobalFlags, stdin io.Reader, stdout, stderr io.Writer) (*app, error) {
	cfg, err := config.LoadGlobalConfig(flags.ConfigFile, zerolog.Nop())
	if err != nil {
		return nil, common.WrapError(err, "could not load config")
	}
	applyOverrides(cfg, flags)

	if err := config.ValidateConfig(cfg); err != nil {
		return nil, common.WrapError(err, "configuration validation failed")
	}

	log, err := logger.NewLoggerBuilder().
		WithConfig(cfg.LogConfig).
		WithConsoleOutput(stderr).
		Build()
	if err != nil {
		return nil, common.WrapError(err, "could not initialize logger")
	}
	zLogger := *log.GetZerolog()

	a := &app{
		cfg:     cfg,
		log:     log,
		logger:  zLogger,
		stdin:   stdin,
		stdout:  stdout,
		stderr:  stderr,
		closers: []io.Closer{log},
	}

	provider, closer, err := config.OpenOptionsProvider(ctx, cfg.OptionsConfig, zLogger)
	if err != nil {
		_ = a.Close()
		return nil, err
	}
	a.provider = provider
	a.closers = append([]io.Closer{closer}, a.closers...)

	a.registry = prometheus.NewRegistry()
	a.collector = metrics.NewCollector()
	if err := a.collector.Register(a.registry); err != nil {
		_ = a.Close()
		return nil, common.WrapError(err, "could not register metrics")
	}

	a.stripper = stripper.New(provider,
		stripper.WithLogger(zLogger),
		stripper.WithObserver(a.collector),
	)

	zLogger.Debug().
		Str("backend", cfg.OptionsConfig.Backend).
		Msg("Application initialized")
	return a, nil
}

func applyOverrides(cfg *config.GlobalConfig, flags GlobalFlags) {
	if flags.LogLevel != "" {
		cfg.LogConfig.LogLevel = flags.LogLevel
	}
	if flags.LogFormat != "" {
		cfg.LogConfig.LogFormat = flags.LogFormat
	}
	if flags.RemoveSet || flags.FragmentSet {
		cfg.OptionsConfig.Backend = config.BackendStatic
		if flags.RemoveSet {
			cfg.OptionsConfig.RemovePatterns = flags.RemovePatterns
		}
		if flags.FragmentSet {
			cfg.OptionsConfig.FragmentPatterns = flags.FragmentPatterns
		}
	}
}

func (a *app) newBatchProcessor() *batchprocessor.BatchProcessor {
	return batchprocessor.NewBatchProcessor(batchprocessor.BatchProcessorConfig{
		MaxConcurrent: a.cfg.CLIConfig.Concurrency,
	}, a.logger)
}

// Close releases the options backend and the log files.
func (a *app) Close() error {
	var ec common.ErrorCollector
	for _, c := range a.closers {
		ec.Add(c.Close())
	}
	return ec.Error()
}

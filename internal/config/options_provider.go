package config

import (
	"context"
	"io"
	"strings"

	"github.com/aleister1102/urlstripper/internal/common"
	"github.com/aleister1102/urlstripper/internal/options"
	"github.com/rs/zerolog"
)

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

// OpenOptionsProvider builds the provider selected by cfg.Backend. The
// returned closer releases files, watchers or database handles and must be
// called once the provider is no longer used. With WatchFile set, the file
// backend reloads on change until ctx is cancelled.
func OpenOptionsProvider(ctx context.Context, cfg OptionsConfig, logger zerolog.Logger) (options.Provider, io.Closer, error) {
	switch strings.ToLower(cfg.Backend) {
	case "", BackendStatic:
		return options.NewStatic(cfg.RemovePatterns, cfg.FragmentPatterns), nopCloser{}, nil

	case BackendFile:
		fp, err := options.NewFileProvider(cfg.FilePath, options.FileProviderOptions{
			Logger:           logger,
			HotReloadEnabled: cfg.WatchFile,
			ReloadDelay:      cfg.ReloadDelay(),
		})
		if err != nil {
			return nil, nil, common.WrapError(err, "failed to open options file")
		}
		fp.StartHotReload(ctx)
		return fp, fp, nil

	case BackendSQLite:
		store, err := options.NewSQLiteStore(cfg.SQLitePath, logger)
		if err != nil {
			return nil, nil, common.WrapError(err, "failed to open options database")
		}
		return store, store, nil

	default:
		return nil, nil, common.NewConfigurationError("options_config", "backend", "unknown backend '"+cfg.Backend+"'")
	}
}

package options

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog"
	"gopkg.in/yaml.v3"
)

// FileProviderOptions holds options for creating a FileProvider
type FileProviderOptions struct {
	Logger           zerolog.Logger
	HotReloadEnabled bool
	ReloadDelay      time.Duration
}

// DefaultFileProviderOptions returns default options for FileProvider
func DefaultFileProviderOptions() FileProviderOptions {
	return FileProviderOptions{
		Logger:           zerolog.Nop(),
		HotReloadEnabled: false,
		ReloadDelay:      500 * time.Millisecond,
	}
}

// FileProvider serves options from a YAML file of "key: value" strings. The
// file is read at construction and on Reload; with hot reload enabled, writes
// to the file are picked up automatically. A missing file is an empty set.
type FileProvider struct {
	mu           sync.RWMutex
	path         string
	values       map[string]string
	lastModified time.Time
	logger       zerolog.Logger

	watcher     *fsnotify.Watcher
	reloadDelay time.Duration
	stopChan    chan struct{}
	stopOnce    sync.Once
}

// NewFileProvider loads path and optionally starts watching it.
func NewFileProvider(path string, opts FileProviderOptions) (*FileProvider, error) {
	if strings.TrimSpace(path) == "" {
		return nil, errors.New("options file path is empty")
	}

	fp := &FileProvider{
		path:        filepath.Clean(path),
		values:      map[string]string{},
		logger:      opts.Logger.With().Str("component", "FileProvider").Logger(),
		reloadDelay: opts.ReloadDelay,
		stopChan:    make(chan struct{}),
	}
	if fp.reloadDelay <= 0 {
		fp.reloadDelay = DefaultFileProviderOptions().ReloadDelay
	}

	if err := fp.Reload(); err != nil {
		return nil, fmt.Errorf("failed to load options file: %w", err)
	}

	if opts.HotReloadEnabled {
		if err := fp.setupFileWatcher(); err != nil {
			fp.logger.Warn().Err(err).Msg("Failed to setup file watcher, hot-reload disabled")
		}
	}

	return fp, nil
}

// GetString returns the current value for key or def when it is absent.
func (fp *FileProvider) GetString(key, def string) string {
	fp.mu.RLock()
	defer fp.mu.RUnlock()

	if v, ok := fp.values[key]; ok {
		return v
	}
	return def
}

// SetString stores value under key and rewrites the file.
func (fp *FileProvider) SetString(ctx context.Context, key, value string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	fp.mu.Lock()
	defer fp.mu.Unlock()

	next := make(map[string]string, len(fp.values)+1)
	for k, v := range fp.values {
		next[k] = v
	}
	next[key] = strings.TrimSpace(value)

	data, err := yaml.Marshal(next)
	if err != nil {
		return fmt.Errorf("failed to marshal options: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(fp.path), 0755); err != nil {
		return fmt.Errorf("failed to create options directory: %w", err)
	}
	if err := os.WriteFile(fp.path, data, 0644); err != nil {
		return fmt.Errorf("failed to write options file '%s': %w", fp.path, err)
	}

	fp.values = next
	if stat, err := os.Stat(fp.path); err == nil {
		fp.lastModified = stat.ModTime()
	}
	fp.logger.Info().Str("key", key).Msg("Option saved")
	return nil
}

// Reload re-reads the file. On error the previous values stay in effect.
func (fp *FileProvider) Reload() error {
	values, modTime, err := readOptionsFile(fp.path)
	if err != nil {
		return err
	}

	fp.mu.Lock()
	fp.values = values
	fp.lastModified = modTime
	fp.mu.Unlock()

	fp.logger.Debug().Str("path", fp.path).Int("keys", len(values)).Msg("Options loaded")
	return nil
}

// Path returns the file being served.
func (fp *FileProvider) Path() string {
	return fp.path
}

// StartHotReload starts the watch loop (non-blocking). It is a no-op when
// the watcher could not be set up.
func (fp *FileProvider) StartHotReload(ctx context.Context) {
	if fp.watcher == nil {
		return
	}
	go fp.hotReloadLoop(ctx)
}

// Close stops watching the file.
func (fp *FileProvider) Close() error {
	var err error
	fp.stopOnce.Do(func() {
		close(fp.stopChan)
		if fp.watcher != nil {
			err = fp.watcher.Close()
		}
	})
	return err
}

func readOptionsFile(path string) (map[string]string, time.Time, error) {
	values := map[string]string{}

	stat, err := os.Stat(path)
	if os.IsNotExist(err) {
		return values, time.Time{}, nil
	}
	if err != nil {
		return nil, time.Time{}, fmt.Errorf("failed to stat options file '%s': %w", path, err)
	}
	if stat.IsDir() {
		return nil, time.Time{}, fmt.Errorf("options path '%s' is a directory", path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, time.Time{}, fmt.Errorf("failed to read options file '%s': %w", path, err)
	}
	if err := yaml.Unmarshal(data, &values); err != nil {
		return nil, time.Time{}, fmt.Errorf("failed to unmarshal YAML from '%s': %w", path, err)
	}
	if values == nil {
		values = map[string]string{}
	}
	return values, stat.ModTime(), nil
}

func (fp *FileProvider) setupFileWatcher() error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create file watcher: %w", err)
	}

	// Editors often replace the file, so the directory is watched.
	dir := filepath.Dir(fp.path)
	if err := watcher.Add(dir); err != nil {
		watcher.Close()
		return fmt.Errorf("failed to watch options directory '%s': %w", dir, err)
	}

	fp.watcher = watcher
	fp.logger.Info().Str("directory", dir).Msg("File watcher setup for hot-reload")
	return nil
}

func (fp *FileProvider) hotReloadLoop(ctx context.Context) {
	reloadTimer := time.NewTimer(0)
	reloadTimer.Stop()

	for {
		select {
		case <-ctx.Done():
			fp.logger.Info().Msg("Hot-reload loop stopped due to context cancellation")
			return

		case <-fp.stopChan:
			return

		case event, ok := <-fp.watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) == fp.path && event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename|fsnotify.Remove) != 0 {
				fp.logger.Debug().Str("file", event.Name).Str("op", event.Op.String()).Msg("Options file change detected")
				reloadTimer.Reset(fp.reloadDelay)
			}

		case err, ok := <-fp.watcher.Errors:
			if !ok {
				return
			}
			fp.logger.Error().Err(err).Msg("File watcher error")

		case <-reloadTimer.C:
			if err := fp.Reload(); err != nil {
				fp.logger.Error().Err(err).Msg("Failed to reload options, keeping previous values")
				continue
			}
			fp.logger.Info().Str("path", fp.path).Msg("Options reloaded")
		}
	}
}

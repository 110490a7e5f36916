package options

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog"
	_ "modernc.org/sqlite"
)

const defaultQueryTimeout = 5 * time.Second

// SQLiteStore keeps options in a SQLite table, one row per key. Every
// GetString hits the database so changes made by other processes are seen
// on the next call.
type SQLiteStore struct {
	db     *sql.DB
	logger zerolog.Logger
}

// NewSQLiteStore opens (or creates) the database and ensures the schema.
func NewSQLiteStore(dataSourceName string, logger zerolog.Logger) (*SQLiteStore, error) {
	logger = logger.With().Str("component", "SQLiteStore").Logger()

	if dataSourceName != ":memory:" && !strings.HasPrefix(dataSourceName, "file:") {
		dbDir := filepath.Dir(dataSourceName)
		if err := os.MkdirAll(dbDir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create options database directory %s: %w", dbDir, err)
		}
	}

	db, err := sql.Open("sqlite", dataSourceName)
	if err != nil {
		return nil, fmt.Errorf("sql.Open failed for %s: %w", dataSourceName, err)
	}
	// A single connection keeps ":memory:" databases coherent.
	db.SetMaxOpenConns(1)

	store := &SQLiteStore{db: db, logger: logger}
	if err := store.InitSchema(context.Background()); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}
	logger.Info().Str("path", dataSourceName).Msg("Options database initialized")
	return store, nil
}

// InitSchema creates the options table if it does not exist yet.
func (s *SQLiteStore) InitSchema(ctx context.Context) error {
	query := `
	CREATE TABLE IF NOT EXISTS options (
		name TEXT PRIMARY KEY,
		value TEXT NOT NULL,
		updated_at DATETIME NOT NULL
	);
	`
	_, err := s.db.ExecContext(ctx, query)
	return err
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// GetString returns the stored value or def when the key is absent or the
// lookup fails.
func (s *SQLiteStore) GetString(key, def string) string {
	ctx, cancel := context.WithTimeout(context.Background(), defaultQueryTimeout)
	defer cancel()

	value, found, err := s.Get(ctx, key)
	if err != nil {
		s.logger.Error().Err(err).Str("key", key).Msg("Failed to read option, using default")
		return def
	}
	if !found {
		return def
	}
	return value
}

// Get looks up key.
func (s *SQLiteStore) Get(ctx context.Context, key string) (string, bool, error) {
	var value string
	err := s.db.QueryRowContext(ctx, `SELECT value FROM options WHERE name = ?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("failed to query option %q: %w", key, err)
	}
	return value, true, nil
}

// SetString upserts a trimmed value for key.
func (s *SQLiteStore) SetString(ctx context.Context, key, value string) error {
	query := `
	INSERT INTO options (name, value, updated_at) VALUES (?, ?, ?)
	ON CONFLICT(name) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at
	`
	if _, err := s.db.ExecContext(ctx, query, key, strings.TrimSpace(value), time.Now().UTC()); err != nil {
		return fmt.Errorf("failed to store option %q: %w", key, err)
	}
	s.logger.Info().Str("key", key).Msg("Option saved")
	return nil
}

// Delete removes key so that readers fall back to their default.
func (s *SQLiteStore) Delete(ctx context.Context, key string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM options WHERE name = ?`, key); err != nil {
		return fmt.Errorf("failed to delete option %q: %w", key, err)
	}
	return nil
}

// All returns every stored option.
func (s *SQLiteStore) All(ctx context.Context) (map[string]string, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT name, value FROM options ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("failed to list options: %w", err)
	}
	defer rows.Close()

	out := map[string]string{}
	for rows.Next() {
		var name, value string
		if err := rows.Scan(&name, &value); err != nil {
			return nil, fmt.Errorf("failed to scan option row: %w", err)
		}
		out[name] = value
	}
	return out, rows.Err()
}

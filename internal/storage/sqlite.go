// Package storage keeps the local sqlite snapshot database.
package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

type Mode string

const (
	ModePlain  Mode = "plain"
	ModeSecure Mode = "secure"
)

const schemaVersion = 2

type Config struct {
	Mode Mode
	Path string
}

// DefaultPath resolves the database file under the user config directory.
func DefaultPath() (string, error) {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("resolve user config directory: %w", err)
	}
	return filepath.Join(configDir, "fintrack", "fintrack.db"), nil
}

func resolvePath(path string) (string, error) {
	if trimmed := strings.TrimSpace(path); trimmed != "" {
		return trimmed, nil
	}
	return DefaultPath()
}

// Open opens the snapshot database at path (DefaultPath when empty) and
// brings its schema up to date. The build decides between a plain and an
// encrypted database.
func Open(ctx context.Context, path string) (*sql.DB, Config, error) {
	resolved, err := resolvePath(path)
	if err != nil {
		return nil, Config{}, err
	}
	if err := os.MkdirAll(filepath.Dir(resolved), 0o700); err != nil {
		return nil, Config{}, fmt.Errorf("create db directory: %w", err)
	}

	db, mode, err := openSQLite(resolved)
	if err != nil {
		return nil, Config{}, err
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, Config{}, fmt.Errorf("ping sqlite db: %w", err)
	}
	if err := runMigrations(ctx, db); err != nil {
		_ = db.Close()
		return nil, Config{}, err
	}

	return db, Config{Mode: mode, Path: resolved}, nil
}

// Wipe removes the local database files for path (DefaultPath when empty).
func Wipe(path string) (Config, error) {
	resolved, err := resolvePath(path)
	if err != nil {
		return Config{}, err
	}
	if err := resetLocalDBFiles(resolved); err != nil {
		return Config{}, fmt.Errorf("wipe local db files: %w", err)
	}
	return Config{Path: resolved}, nil
}

// migration moves the schema from version-1 to version. Entries are applied
// in order, each in its own transaction.
type migration struct {
	version int
	schema  string
}

var migrations = []migration{
	{
		version: 2,
		schema: `
CREATE TABLE IF NOT EXISTS snapshot (
  key TEXT PRIMARY KEY,
  value TEXT NOT NULL,
  updated_at TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS sync_state (
  collection TEXT PRIMARY KEY,
  last_success_at TEXT,
  last_attempt_at TEXT,
  last_error TEXT
);
`,
	},
}

const bootstrapSchema = `
CREATE TABLE IF NOT EXISTS schema_migrations (
  id INTEGER PRIMARY KEY CHECK (id = 1),
  version INTEGER NOT NULL
);

INSERT OR IGNORE INTO schema_migrations (id, version) VALUES (1, 1);
`

func runMigrations(ctx context.Context, db *sql.DB) error {
	if _, err := db.ExecContext(ctx, bootstrapSchema); err != nil {
		return fmt.Errorf("bootstrap sqlite schema: %w", err)
	}

	var current int
	if err := db.QueryRowContext(ctx, "SELECT version FROM schema_migrations WHERE id = 1").Scan(&current); err != nil {
		return fmt.Errorf("read sqlite schema version: %w", err)
	}
	if current > schemaVersion {
		return fmt.Errorf("database schema version %d is newer than supported version %d", current, schemaVersion)
	}

	for _, m := range migrations {
		if m.version <= current {
			continue
		}
		if err := applyMigration(ctx, db, m); err != nil {
			return err
		}
	}
	return nil
}

func applyMigration(ctx context.Context, db *sql.DB, m migration) (err error) {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin migration v%d: %w", m.version, err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	if _, err = tx.ExecContext(ctx, m.schema); err != nil {
		return fmt.Errorf("apply migration v%d: %w", m.version, err)
	}
	if _, err = tx.ExecContext(ctx, "UPDATE schema_migrations SET version = ? WHERE id = 1", m.version); err != nil {
		return fmt.Errorf("record schema version %d: %w", m.version, err)
	}
	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit migration v%d: %w", m.version, err)
	}
	return nil
}

func localDBFiles(path string) []string {
	return []string{
		path,
		path + "-wal",
		path + "-shm",
	}
}

func hasLocalDBFiles(path string) (bool, error) {
	for _, p := range localDBFiles(path) {
		_, err := os.Stat(p)
		if err == nil {
			return true, nil
		}
		if !errors.Is(err, os.ErrNotExist) {
			return false, fmt.Errorf("stat %s: %w", p, err)
		}
	}
	return false, nil
}

func resetLocalDBFiles(path string) error {
	for _, p := range localDBFiles(path) {
		if err := os.Remove(p); err != nil && !errors.Is(err, os.ErrNotExist) {
			return err
		}
	}
	return nil
}

//go:build sqlcipher
// +build sqlcipher

package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"net/url"
	"os"

	"github.com/lachiem1/fintrack/internal/auth"
	_ "github.com/mutecomm/go-sqlcipher/v4"
)

func openSQLite(path string) (*sql.DB, Mode, error) {
	key, created, err := auth.LoadOrCreateDBKey()
	if err != nil {
		return nil, "", fmt.Errorf("ensure secure db key: %w", err)
	}
	if created {
		// Files encrypted with a lost key can never be opened again.
		exists, err := hasLocalDBFiles(path)
		if err != nil {
			return nil, "", err
		}
		if exists {
			if err := resetLocalDBFiles(path); err != nil {
				return nil, "", fmt.Errorf("reset db after key creation: %w", err)
			}
		}
	}

	dsn := fmt.Sprintf(
		"file:%s?_pragma_key=%s&_pragma_cipher_page_size=4096&_pragma_kdf_iter=256000",
		url.PathEscape(path),
		url.QueryEscape(key),
	)
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, "", fmt.Errorf("open sqlcipher db: %w", err)
	}

	if err := os.Chmod(path, 0o600); err != nil && !errors.Is(err, os.ErrNotExist) {
		_ = db.Close()
		return nil, "", fmt.Errorf("set db permissions: %w", err)
	}
	return db, ModeSecure, nil
}

//go:build !sqlcipher
// +build !sqlcipher

package storage

import (
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite" // register sqlite driver
)

func openSQLite(path string) (*sql.DB, Mode, error) {
	db, err := sql.Open("sqlite", path+"?_pragma=journal_mode(wal)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, "", fmt.Errorf("open sqlite db: %w", err)
	}
	return db, ModePlain, nil
}

package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

type Snapshot struct {
	Key       string
	Value     string
	UpdatedAt time.Time
}

// SnapshotRepo is a small key/value table for values that should paint
// before the network answers.
type SnapshotRepo struct {
	db  *sql.DB
	now func() time.Time
}

func NewSnapshotRepo(db *sql.DB) *SnapshotRepo {
	return &SnapshotRepo{db: db, now: time.Now}
}

func (r *SnapshotRepo) Get(ctx context.Context, key string) (Snapshot, bool, error) {
	var snap Snapshot
	var updatedAt string
	err := r.db.QueryRowContext(
		ctx,
		"SELECT key, value, updated_at FROM snapshot WHERE key = ?",
		key,
	).Scan(&snap.Key, &snap.Value, &updatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Snapshot{}, false, nil
		}
		return Snapshot{}, false, fmt.Errorf("get snapshot %q: %w", key, err)
	}

	t, err := time.Parse(time.RFC3339Nano, updatedAt)
	if err != nil {
		return Snapshot{}, false, fmt.Errorf("parse snapshot %q updated_at: %w", key, err)
	}
	snap.UpdatedAt = t
	return snap, true, nil
}

func (r *SnapshotRepo) Put(ctx context.Context, key, value string) error {
	now := r.now().UTC().Format(time.RFC3339Nano)
	if _, err := r.db.ExecContext(
		ctx,
		`INSERT INTO snapshot (key, value, updated_at) VALUES (?, ?, ?)
		 ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
		key,
		value,
		now,
	); err != nil {
		return fmt.Errorf("put snapshot %q: %w", key, err)
	}
	return nil
}

// Delete removes key. A missing key is not an error.
func (r *SnapshotRepo) Delete(ctx context.Context, key string) error {
	if _, err := r.db.ExecContext(ctx, "DELETE FROM snapshot WHERE key = ?", key); err != nil {
		return fmt.Errorf("delete snapshot %q: %w", key, err)
	}
	return nil
}

package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"
)

// RefreshState is the persisted bookkeeping for one refreshed collection.
type RefreshState struct {
	Collection  string
	LastSuccess *time.Time
	LastAttempt *time.Time
	LastError   string
}

type SyncStateRepo struct {
	db *sql.DB
}

func NewSyncStateRepo(db *sql.DB) *SyncStateRepo {
	return &SyncStateRepo{db: db}
}

const selectSyncState = `SELECT collection, last_success_at, last_attempt_at, COALESCE(last_error, '') FROM sync_state`

func (r *SyncStateRepo) Get(ctx context.Context, collection string) (RefreshState, bool, error) {
	row := r.db.QueryRowContext(ctx, selectSyncState+" WHERE collection = ?", collection)
	state, err := scanRefreshState(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return RefreshState{}, false, nil
		}
		return RefreshState{}, false, fmt.Errorf("query sync state for %q: %w", collection, err)
	}
	return state, true, nil
}

// List returns every recorded collection ordered by name.
func (r *SyncStateRepo) List(ctx context.Context) ([]RefreshState, error) {
	rows, err := r.db.QueryContext(ctx, selectSyncState+" ORDER BY collection")
	if err != nil {
		return nil, fmt.Errorf("list sync state: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var out []RefreshState
	for rows.Next() {
		state, err := scanRefreshState(rows)
		if err != nil {
			return nil, fmt.Errorf("scan sync state: %w", err)
		}
		out = append(out, state)
	}
	return out, rows.Err()
}

func (r *SyncStateRepo) RecordAttempt(ctx context.Context, collection string, at time.Time) error {
	// A new attempt clears the previous error.
	msg := ""
	return r.upsert(ctx, collection, at, nil, &msg)
}

func (r *SyncStateRepo) RecordSuccess(ctx context.Context, collection string, at time.Time) error {
	msg := ""
	return r.upsert(ctx, collection, at, &at, &msg)
}

func (r *SyncStateRepo) RecordError(ctx context.Context, collection string, at time.Time, syncErr error) error {
	msg := ""
	if syncErr != nil {
		msg = syncErr.Error()
	}
	return r.upsert(ctx, collection, at, nil, &msg)
}

// Clear forgets all bookkeeping, used when the session ends.
func (r *SyncStateRepo) Clear(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, "DELETE FROM sync_state"); err != nil {
		return fmt.Errorf("clear sync state: %w", err)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRefreshState(row rowScanner) (RefreshState, error) {
	var state RefreshState
	var lastSuccess, lastAttempt sql.NullString
	if err := row.Scan(&state.Collection, &lastSuccess, &lastAttempt, &state.LastError); err != nil {
		return RefreshState{}, err
	}

	var err error
	if state.LastSuccess, err = parseOptionalTime(lastSuccess); err != nil {
		return RefreshState{}, fmt.Errorf("parse last_success_at for %q: %w", state.Collection, err)
	}
	if state.LastAttempt, err = parseOptionalTime(lastAttempt); err != nil {
		return RefreshState{}, fmt.Errorf("parse last_attempt_at for %q: %w", state.Collection, err)
	}
	return state, nil
}

func parseOptionalTime(v sql.NullString) (*time.Time, error) {
	if strings.TrimSpace(v.String) == "" {
		return nil, nil
	}
	t, err := time.Parse(time.RFC3339Nano, v.String)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func (r *SyncStateRepo) upsert(
	ctx context.Context,
	collection string,
	attemptAt time.Time,
	successAt *time.Time,
	errorMsg *string,
) error {
	attemptValue := attemptAt.UTC().Format(time.RFC3339Nano)
	var successValue any
	if successAt != nil {
		successValue = successAt.UTC().Format(time.RFC3339Nano)
	}
	var errorValue any
	if errorMsg != nil {
		errorValue = *errorMsg
	}

	const q = `
INSERT INTO sync_state (collection, last_attempt_at, last_success_at, last_error)
VALUES (?, ?, ?, ?)
ON CONFLICT(collection) DO UPDATE SET
  last_attempt_at = excluded.last_attempt_at,
  last_success_at = COALESCE(excluded.last_success_at, sync_state.last_success_at),
  last_error = COALESCE(excluded.last_error, sync_state.last_error)
`
	if _, err := r.db.ExecContext(ctx, q, collection, attemptValue, successValue, errorValue); err != nil {
		return fmt.Errorf("upsert sync state for %q: %w", collection, err)
	}
	return nil
}

//go:build !sqlcipher
// +build !sqlcipher

package storage

import (
	"context"
	"database/sql"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func openTestDB(t *testing.T) (*sql.DB, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "nested", "fintrack.db")
	db, cfg, err := Open(context.Background(), path)
	if err != nil {
		t.Fatalf("Open() unexpected error: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	if cfg.Mode != ModePlain {
		t.Fatalf("cfg.Mode = %q, want %q", cfg.Mode, ModePlain)
	}
	return db, path
}

func TestOpenRunsMigrationsIdempotently(t *testing.T) {
	db, path := openTestDB(t)

	var version int
	if err := db.QueryRow("SELECT version FROM schema_migrations WHERE id = 1").Scan(&version); err != nil {
		t.Fatalf("read schema version: %v", err)
	}
	if version != schemaVersion {
		t.Fatalf("schema version = %d, want %d", version, schemaVersion)
	}

	again, _, err := Open(context.Background(), path)
	if err != nil {
		t.Fatalf("second Open() unexpected error: %v", err)
	}
	defer again.Close()
	if err := runMigrations(context.Background(), again); err != nil {
		t.Fatalf("runMigrations() on migrated db: %v", err)
	}
}

func TestOpenRejectsNewerSchema(t *testing.T) {
	db, _ := openTestDB(t)
	if _, err := db.Exec("UPDATE schema_migrations SET version = 99 WHERE id = 1"); err != nil {
		t.Fatalf("bump schema version: %v", err)
	}
	if err := runMigrations(context.Background(), db); err == nil {
		t.Fatal("runMigrations() error = nil, want newer-schema error")
	}
}

func TestSnapshotRepoCRUD(t *testing.T) {
	db, _ := openTestDB(t)
	repo := NewSnapshotRepo(db)
	fixed := time.Date(2026, 10, 14, 9, 30, 0, 0, time.UTC)
	repo.now = func() time.Time { return fixed }
	ctx := context.Background()

	if _, ok, err := repo.Get(ctx, "missing"); err != nil || ok {
		t.Fatalf("Get(missing) = ok %v err %v, want not found", ok, err)
	}

	if err := repo.Put(ctx, "k", "v1"); err != nil {
		t.Fatalf("Put() unexpected error: %v", err)
	}
	if err := repo.Put(ctx, "k", "v2"); err != nil {
		t.Fatalf("second Put() unexpected error: %v", err)
	}
	snap, ok, err := repo.Get(ctx, "k")
	if err != nil || !ok {
		t.Fatalf("Get(k) = ok %v err %v, want found", ok, err)
	}
	if snap.Value != "v2" {
		t.Fatalf("Value = %q, want %q", snap.Value, "v2")
	}
	if !snap.UpdatedAt.Equal(fixed) {
		t.Fatalf("UpdatedAt = %v, want %v", snap.UpdatedAt, fixed)
	}

	if err := repo.Delete(ctx, "k"); err != nil {
		t.Fatalf("Delete() unexpected error: %v", err)
	}
	if err := repo.Delete(ctx, "k"); err != nil {
		t.Fatalf("second Delete() unexpected error: %v", err)
	}
	if _, ok, _ := repo.Get(ctx, "k"); ok {
		t.Fatal("Get(k) found a deleted key")
	}
}

func TestBudgetCacheRoundTrip(t *testing.T) {
	db, _ := openTestDB(t)
	repo := NewSnapshotRepo(db)
	cache := NewBudgetCache(repo)
	ctx := context.Background()

	if _, ok, err := cache.LoadBudget(ctx); err != nil || ok {
		t.Fatalf("LoadBudget() on empty cache = ok %v err %v", ok, err)
	}

	want := decimal.RequireFromString("2500000.5")
	if err := cache.SaveBudget(ctx, want); err != nil {
		t.Fatalf("SaveBudget() unexpected error: %v", err)
	}
	snap, _, _ := repo.Get(ctx, BudgetCacheKey)
	if snap.Value != "2500000.5" {
		t.Fatalf("stored value = %q, want decimal string", snap.Value)
	}
	got, ok, err := cache.LoadBudget(ctx)
	if err != nil || !ok || !got.Equal(want) {
		t.Fatalf("LoadBudget() = %s ok %v err %v, want %s", got, ok, err, want)
	}

	if err := cache.Clear(ctx); err != nil {
		t.Fatalf("Clear() unexpected error: %v", err)
	}
	if _, ok, _ := cache.LoadBudget(ctx); ok {
		t.Fatal("LoadBudget() found a cleared budget")
	}
}

func TestBudgetCacheIgnoresUnusableValues(t *testing.T) {
	db, _ := openTestDB(t)
	repo := NewSnapshotRepo(db)
	cache := NewBudgetCache(repo)
	ctx := context.Background()

	for _, raw := range []string{"abc", "0", "-10", ""} {
		if err := repo.Put(ctx, BudgetCacheKey, raw); err != nil {
			t.Fatalf("Put(%q) unexpected error: %v", raw, err)
		}
		if _, ok, err := cache.LoadBudget(ctx); err != nil || ok {
			t.Fatalf("LoadBudget() with %q = ok %v err %v, want not usable", raw, ok, err)
		}
	}
}

func TestSyncStateRepoRecords(t *testing.T) {
	db, _ := openTestDB(t)
	repo := NewSyncStateRepo(db)
	ctx := context.Background()
	t0 := time.Date(2026, 10, 14, 9, 0, 0, 0, time.UTC)

	if err := repo.RecordSuccess(ctx, "categories", t0); err != nil {
		t.Fatalf("RecordSuccess() unexpected error: %v", err)
	}
	if err := repo.RecordError(ctx, "categories", t0.Add(time.Minute), errors.New("boom")); err != nil {
		t.Fatalf("RecordError() unexpected error: %v", err)
	}

	state, ok, err := repo.Get(ctx, "categories")
	if err != nil || !ok {
		t.Fatalf("Get() = ok %v err %v, want found", ok, err)
	}
	if state.LastSuccess == nil || !state.LastSuccess.Equal(t0) {
		t.Fatalf("LastSuccess = %v, want %v", state.LastSuccess, t0)
	}
	if state.LastError != "boom" {
		t.Fatalf("LastError = %q, want %q", state.LastError, "boom")
	}

	if err := repo.RecordAttempt(ctx, "categories", t0.Add(2*time.Minute)); err != nil {
		t.Fatalf("RecordAttempt() unexpected error: %v", err)
	}
	state, _, _ = repo.Get(ctx, "categories")
	if state.LastError != "" {
		t.Fatalf("LastError after attempt = %q, want empty", state.LastError)
	}

	all, err := repo.List(ctx)
	if err != nil || len(all) != 1 {
		t.Fatalf("List() = %d items err %v, want 1", len(all), err)
	}
	if err := repo.Clear(ctx); err != nil {
		t.Fatalf("Clear() unexpected error: %v", err)
	}
	if all, _ := repo.List(ctx); len(all) != 0 {
		t.Fatalf("List() after Clear = %d items, want 0", len(all))
	}
}

func TestMemoryBudgetCache(t *testing.T) {
	cache := NewMemoryBudgetCache()
	ctx := context.Background()

	if _, ok, _ := cache.LoadBudget(ctx); ok {
		t.Fatal("LoadBudget() on empty cache reported ok")
	}
	_ = cache.SaveBudget(ctx, decimal.NewFromInt(100))
	got, ok, _ := cache.LoadBudget(ctx)
	if !ok || !got.Equal(decimal.NewFromInt(100)) {
		t.Fatalf("LoadBudget() = %s ok %v, want 100", got, ok)
	}
	_ = cache.Clear(ctx)
	if _, ok, _ := cache.LoadBudget(ctx); ok {
		t.Fatal("LoadBudget() after Clear reported ok")
	}
}

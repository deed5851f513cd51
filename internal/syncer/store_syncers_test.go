package syncer

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/lachiem1/fintrack/internal/finance"
	"github.com/lachiem1/fintrack/internal/model"
)

type fakeStore struct {
	mu         sync.Mutex
	calls      []string
	loaded     map[finance.Collection]time.Time
	stale      bool
	pageMonth  model.MonthKey
	err        error
	pageLoaded model.MonthKey
}

func (f *fakeStore) record(name string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, name)
	return f.err
}

func (f *fakeStore) ReloadCurrentMonth(ctx context.Context) error {
	return f.record("current")
}

func (f *fakeStore) LoadPage(ctx context.Context, month model.MonthKey) error {
	f.mu.Lock()
	f.pageLoaded = month
	f.mu.Unlock()
	return f.record("page")
}

func (f *fakeStore) LoadCategories(ctx context.Context) error {
	return f.record("categories")
}

func (f *fakeStore) LastLoaded(c finance.Collection) (time.Time, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	t, ok := f.loaded[c]
	return t, ok
}

func (f *fakeStore) Snapshot() finance.Snapshot {
	f.mu.Lock()
	defer f.mu.Unlock()
	return finance.Snapshot{Stale: f.stale}
}

func (f *fakeStore) PageMonth() model.MonthKey {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.pageMonth
}

type fakeRecorder struct {
	attempts, successes, failures int
}

func (r *fakeRecorder) RecordAttempt(ctx context.Context, collection string, at time.Time) error {
	r.attempts++
	return nil
}

func (r *fakeRecorder) RecordSuccess(ctx context.Context, collection string, at time.Time) error {
	r.successes++
	return nil
}

func (r *fakeRecorder) RecordError(ctx context.Context, collection string, at time.Time, syncErr error) error {
	r.failures++
	return nil
}

func TestStoreSyncersCallTheirLoad(t *testing.T) {
	store := &fakeStore{pageMonth: "2026-08"}
	ctx := context.Background()

	syncers := []Syncer{
		NewCurrentMonthSyncer(store, nil),
		NewPageSyncer(store, nil),
		NewCategoriesSyncer(store, nil),
	}
	wantCollections := []string{CollectionCurrentMonth, CollectionPage, CollectionCategories}
	for i, s := range syncers {
		if s.Collection() != wantCollections[i] {
			t.Fatalf("Collection() = %q, want %q", s.Collection(), wantCollections[i])
		}
		if err := s.Sync(ctx); err != nil {
			t.Fatalf("%s Sync() unexpected error: %v", s.Collection(), err)
		}
	}

	want := []string{"current", "page", "categories"}
	for i, name := range want {
		if store.calls[i] != name {
			t.Fatalf("calls = %v, want %v", store.calls, want)
		}
	}
	if store.pageLoaded != "2026-08" {
		t.Fatalf("page syncer loaded %q, want the last requested month", store.pageLoaded)
	}
}

func TestStoreSyncerCacheState(t *testing.T) {
	at := time.Date(2026, 10, 14, 9, 0, 0, 0, time.UTC)
	store := &fakeStore{loaded: map[finance.Collection]time.Time{finance.CollectionCategories: at}}
	ctx := context.Background()

	cats := NewCategoriesSyncer(store, nil)
	if ok, _ := cats.HasCachedData(ctx); !ok {
		t.Fatal("HasCachedData() = false, want true")
	}
	got, ok, _ := cats.LastSuccessAt(ctx)
	if !ok || !got.Equal(at) {
		t.Fatalf("LastSuccessAt() = %v %v, want %v", got, ok, at)
	}

	page := NewPageSyncer(store, nil)
	if ok, _ := page.HasCachedData(ctx); ok {
		t.Fatal("page HasCachedData() = true, want false")
	}
}

func TestCurrentMonthSyncerExpiresOnRollover(t *testing.T) {
	store := &fakeStore{}
	s := NewCurrentMonthSyncer(store, nil)
	expirer, ok := s.(Expirer)
	if !ok {
		t.Fatal("current month syncer does not implement Expirer")
	}
	if expirer.Expired(context.Background()) {
		t.Fatal("Expired() = true, want false")
	}
	store.stale = true
	if !expirer.Expired(context.Background()) {
		t.Fatal("Expired() = false after rollover, want true")
	}
	if _, ok := NewPageSyncer(store, nil).(Expirer); ok {
		t.Fatal("page syncer should not expire")
	}
}

func TestSyncRecordsBookkeeping(t *testing.T) {
	store := &fakeStore{}
	rec := &fakeRecorder{}
	s := NewCategoriesSyncer(store, rec)

	if err := s.Sync(context.Background()); err != nil {
		t.Fatalf("Sync() unexpected error: %v", err)
	}
	store.err = errors.New("boom")
	if err := s.Sync(context.Background()); err == nil {
		t.Fatal("Sync() error = nil, want non-nil")
	}
	if rec.attempts != 2 || rec.successes != 1 || rec.failures != 1 {
		t.Fatalf("recorder = %+v, want 2 attempts, 1 success, 1 error", rec)
	}
}

func TestNewStoreService(t *testing.T) {
	store := &fakeStore{}
	svc, err := NewStoreService(store, nil, Settings{PollInterval: time.Hour}, nil)
	if err != nil {
		t.Fatalf("NewStoreService() unexpected error: %v", err)
	}
	defer svc.LeaveView()

	if err := svc.EnterCategories(context.Background()); err != nil {
		t.Fatalf("EnterCategories() unexpected error: %v", err)
	}
	waitForCondition(t, 2*time.Second, func() bool {
		store.mu.Lock()
		defer store.mu.Unlock()
		return len(store.calls) == 1 && store.calls[0] == "categories"
	})
}

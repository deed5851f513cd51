package syncer

import (
	"context"
	"time"

	"github.com/lachiem1/fintrack/internal/finance"
	"github.com/lachiem1/fintrack/internal/model"
)

const (
	CollectionCurrentMonth = string(finance.CollectionCurrentMonth)
	CollectionPage         = string(finance.CollectionPage)
	CollectionCategories   = string(finance.CollectionCategories)
)

// Store is the part of finance.Store the syncers drive.
type Store interface {
	ReloadCurrentMonth(ctx context.Context) error
	LoadPage(ctx context.Context, month model.MonthKey) error
	LoadCategories(ctx context.Context) error
	LastLoaded(c finance.Collection) (time.Time, bool)
	Snapshot() finance.Snapshot
	PageMonth() model.MonthKey
}

// storeSyncer refreshes one store collection.
type storeSyncer struct {
	collection finance.Collection
	store      Store
	recorder   Recorder
	load       func(context.Context) error
}

func (s *storeSyncer) Collection() string {
	return string(s.collection)
}

func (s *storeSyncer) HasCachedData(ctx context.Context) (bool, error) {
	_, ok := s.store.LastLoaded(s.collection)
	return ok, nil
}

func (s *storeSyncer) LastSuccessAt(ctx context.Context) (time.Time, bool, error) {
	at, ok := s.store.LastLoaded(s.collection)
	return at, ok, nil
}

func (s *storeSyncer) Sync(ctx context.Context) error {
	return runSyncAttempt(ctx, s.recorder, s.Collection(), s.load)
}

// currentMonthSyncer also expires when the calendar month rolls over.
type currentMonthSyncer struct {
	storeSyncer
}

func (s *currentMonthSyncer) Expired(ctx context.Context) bool {
	return s.store.Snapshot().Stale
}

// NewCurrentMonthSyncer keeps the dashboard's month fresh.
func NewCurrentMonthSyncer(store Store, recorder Recorder) Syncer {
	return &currentMonthSyncer{storeSyncer{
		collection: finance.CollectionCurrentMonth,
		store:      store,
		recorder:   recorder,
		load:       store.ReloadCurrentMonth,
	}}
}

// NewPageSyncer re-fetches whichever month the browser last asked for.
func NewPageSyncer(store Store, recorder Recorder) Syncer {
	return &storeSyncer{
		collection: finance.CollectionPage,
		store:      store,
		recorder:   recorder,
		load: func(ctx context.Context) error {
			return store.LoadPage(ctx, store.PageMonth())
		},
	}
}

func NewCategoriesSyncer(store Store, recorder Recorder) Syncer {
	return &storeSyncer{
		collection: finance.CollectionCategories,
		store:      store,
		recorder:   recorder,
		load:       store.LoadCategories,
	}
}

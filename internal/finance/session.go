package finance

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// HandleSession follows session transitions: signing in bootstraps the
// store, signing out resets it.
func (s *Store) HandleSession(ctx context.Context, signedIn bool) error {
	if signedIn {
		return s.LoadAll(ctx)
	}
	return s.Reset(ctx)
}

// Reset clears every collection, zeroes the budget and removes the cached
// budget figure. Loads still in flight are discarded when they return.
func (s *Store) Reset(ctx context.Context) error {
	at := s.now()
	s.mu.Lock()
	s.epoch++
	s.loading = 0
	s.state = StateUnauthenticated
	s.current = monthView{}
	s.page = monthView{}
	s.pageRequest = ""
	s.categories = nil
	s.budget = decimal.Zero
	s.limits = make(map[string]decimal.Decimal)
	s.lastLoaded = make(map[Collection]time.Time)
	s.mu.Unlock()

	s.emit(CollectionAll, at)

	if s.cache == nil {
		return nil
	}
	if err := s.cache.Clear(ctx); err != nil {
		return fmt.Errorf("clear budget cache: %w", err)
	}
	return nil
}

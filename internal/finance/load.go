package finance

import (
	"context"
	"fmt"
	"slices"

	"github.com/lachiem1/fintrack/internal/model"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"
)

// LoadAll fetches both month views (the page view for the current month),
// categories, budget and limits in parallel. Each fetch replaces only its
// own collection, so a failure leaves the others applied. The first error
// is returned once all five have settled.
func (s *Store) LoadAll(ctx context.Context) error {
	epoch := s.enterLoading()
	defer s.leaveLoading(epoch)

	month := s.CurrentMonth()

	var g errgroup.Group
	g.Go(func() error { return s.ReloadCurrentMonth(ctx) })
	g.Go(func() error { return s.LoadPage(ctx, month) })
	g.Go(func() error { return s.LoadCategories(ctx) })
	g.Go(func() error { return s.LoadBudget(ctx) })
	g.Go(func() error { return s.LoadLimits(ctx) })
	return g.Wait()
}

func (s *Store) enterLoading() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.loading++
	s.state = StateLoading
	return s.epoch
}

func (s *Store) leaveLoading(epoch uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.epoch != epoch {
		return
	}
	s.loading--
	if s.loading == 0 {
		s.state = StateReady
	}
}

// ReloadCurrentMonth re-fetches the current-month view for the true
// calendar month. The page view is not touched.
func (s *Store) ReloadCurrentMonth(ctx context.Context) error {
	month := s.CurrentMonth()

	s.mu.Lock()
	s.currentSeq++
	seq := s.currentSeq
	epoch := s.epoch
	s.mu.Unlock()

	txns, err := s.gateway.ListTransactions(ctx, month)
	if err != nil {
		s.logger.WarnContext(ctx, "current month load failed", "month", month, "error", err)
		return fmt.Errorf("load current month %s: %w", month, err)
	}

	applied := s.commit(epoch, CollectionCurrentMonth, true, func() bool {
		if seq != s.currentSeq {
			return false
		}
		s.current = monthView{month: month, txns: slices.Clone(txns)}
		return true
	})
	if applied {
		s.logger.DebugContext(ctx, "current month loaded", "month", month, "count", len(txns))
	}
	return nil
}

// LoadPage fetches the page view for month, or for the current month when
// month is zero. Only the response to the latest request is applied; a
// response that arrives after a newer request was issued is dropped along
// with its error.
func (s *Store) LoadPage(ctx context.Context, month model.MonthKey) error {
	if month.IsZero() {
		month = s.CurrentMonth()
	}

	s.mu.Lock()
	s.pageSeq++
	seq := s.pageSeq
	s.pageRequest = month
	epoch := s.epoch
	s.mu.Unlock()

	txns, err := s.gateway.ListTransactions(ctx, month)

	s.mu.RLock()
	superseded := seq != s.pageSeq
	s.mu.RUnlock()
	if superseded {
		s.logger.DebugContext(ctx, "dropping superseded page response", "month", month, "error", err)
		return nil
	}
	if err != nil {
		s.logger.WarnContext(ctx, "page load failed", "month", month, "error", err)
		return fmt.Errorf("load page %s: %w", month, err)
	}

	s.commit(epoch, CollectionPage, true, func() bool {
		if seq != s.pageSeq {
			return false
		}
		s.page = monthView{month: month, txns: slices.Clone(txns)}
		return true
	})
	return nil
}

func (s *Store) LoadCategories(ctx context.Context) error {
	epoch := s.currentEpoch()
	cats, err := s.gateway.ListCategories(ctx)
	if err != nil {
		s.logger.WarnContext(ctx, "categories load failed", "error", err)
		return fmt.Errorf("load categories: %w", err)
	}
	s.commit(epoch, CollectionCategories, true, func() bool {
		s.categories = slices.Clone(cats)
		return true
	})
	return nil
}

// LoadBudget applies the cached figure first so it is visible before the
// network answers, then replaces it with the backend value. Positive
// values are written back to the cache.
func (s *Store) LoadBudget(ctx context.Context) error {
	epoch := s.currentEpoch()

	if s.cache != nil {
		cached, ok, err := s.cache.LoadBudget(ctx)
		if err != nil {
			s.logger.WarnContext(ctx, "budget cache read failed", "error", err)
		} else if ok {
			s.commit(epoch, CollectionBudget, false, func() bool {
				s.budget = cached
				return true
			})
		}
	}

	amount, err := s.gateway.GetBudget(ctx)
	if err != nil {
		s.logger.WarnContext(ctx, "budget load failed", "error", err)
		return fmt.Errorf("load budget: %w", err)
	}

	applied := s.commit(epoch, CollectionBudget, true, func() bool {
		s.budget = amount
		return true
	})
	if applied && amount.IsPositive() {
		s.saveBudgetCache(ctx, amount)
	}
	return nil
}

// LoadLimits replaces the limits map. Non-positive limits mean no limit and
// are not kept.
func (s *Store) LoadLimits(ctx context.Context) error {
	epoch := s.currentEpoch()
	list, err := s.gateway.ListCategoryLimits(ctx)
	if err != nil {
		s.logger.WarnContext(ctx, "limits load failed", "error", err)
		return fmt.Errorf("load category limits: %w", err)
	}

	limits := make(map[string]decimal.Decimal, len(list))
	for _, l := range list {
		if l.Limit.IsPositive() {
			limits[l.CategoryID] = l.Limit
		}
	}
	s.commit(epoch, CollectionLimits, true, func() bool {
		s.limits = limits
		return true
	})
	return nil
}

func (s *Store) saveBudgetCache(ctx context.Context, amount decimal.Decimal) {
	if s.cache == nil {
		return
	}
	if err := s.cache.SaveBudget(ctx, amount); err != nil {
		s.logger.WarnContext(ctx, "budget cache write failed", "error", err)
	}
}

package finance

import (
	"context"
	"errors"
	"fmt"
	"io"
	"maps"
	"slices"
	"strings"

	"github.com/lachiem1/fintrack/internal/model"
	"github.com/shopspring/decimal"
)

// AddTransaction creates the transaction and prepends the stored record to
// the page view, and to the current-month view when it is dated in the
// current calendar month.
func (s *Store) AddTransaction(ctx context.Context, draft model.TransactionDraft) (model.Transaction, error) {
	draft = draft.Normalize()
	if err := draft.Validate(); err != nil {
		return model.Transaction{}, err
	}

	epoch := s.currentEpoch()
	created, err := s.gateway.CreateTransaction(ctx, draft)
	if err != nil {
		return model.Transaction{}, fmt.Errorf("create transaction: %w", err)
	}

	month := s.CurrentMonth()
	s.commit(epoch, CollectionPage, false, func() bool {
		s.page.txns = prepend(s.page.txns, created)
		if s.current.month == month && month.Contains(created.Date) {
			s.current.txns = prepend(s.current.txns, created)
		}
		return true
	})
	return created, nil
}

// UpdateTransaction stores t and replaces the record by id in both views.
// The current-month view also follows date changes: a record moved out of
// the month is removed, and a record known from the page view that moved
// into it is prepended.
func (s *Store) UpdateTransaction(ctx context.Context, t model.Transaction) (model.Transaction, error) {
	if strings.TrimSpace(t.ID) == "" {
		return model.Transaction{}, fmt.Errorf("%w: transaction id is required", model.ErrValidation)
	}
	draft := t.Draft().Normalize()
	if err := draft.Validate(); err != nil {
		return model.Transaction{}, err
	}

	epoch := s.currentEpoch()
	updated, err := s.gateway.UpdateTransaction(ctx, draft.WithID(t.ID))
	if err != nil {
		return model.Transaction{}, fmt.Errorf("update transaction %q: %w", t.ID, err)
	}
	if updated.ID == "" {
		updated.ID = t.ID
	}

	month := s.CurrentMonth()
	s.commit(epoch, CollectionPage, false, func() bool {
		pageIdx := indexOfTxn(s.page.txns, updated.ID)
		currentIdx := indexOfTxn(s.current.txns, updated.ID)
		if pageIdx < 0 && currentIdx < 0 {
			return false
		}

		if pageIdx >= 0 {
			s.page.txns = slices.Clone(s.page.txns)
			s.page.txns[pageIdx] = updated
		}

		inMonth := s.current.month == month && month.Contains(updated.Date)
		switch {
		case currentIdx >= 0 && inMonth:
			s.current.txns = slices.Clone(s.current.txns)
			s.current.txns[currentIdx] = updated
		case currentIdx >= 0:
			s.current.txns = slices.Delete(slices.Clone(s.current.txns), currentIdx, currentIdx+1)
		case inMonth:
			s.current.txns = prepend(s.current.txns, updated)
		}
		return true
	})
	return updated, nil
}

// DeleteTransaction deletes id and removes it from both views. An id that
// neither view holds is not an error.
func (s *Store) DeleteTransaction(ctx context.Context, id string) error {
	if strings.TrimSpace(id) == "" {
		return fmt.Errorf("%w: transaction id is required", model.ErrValidation)
	}

	epoch := s.currentEpoch()
	if err := s.gateway.DeleteTransaction(ctx, id); err != nil {
		return fmt.Errorf("delete transaction %q: %w", id, err)
	}
	s.commit(epoch, CollectionPage, false, func() bool {
		return s.removeTxns(id)
	})
	return nil
}

// DeleteTransactions deletes ids with a bounded number of concurrent
// requests. Ids deleted before the first failure are removed from the views
// even when an error is returned.
func (s *Store) DeleteTransactions(ctx context.Context, ids []string) ([]string, error) {
	unique := make([]string, 0, len(ids))
	for _, id := range ids {
		id = strings.TrimSpace(id)
		if id == "" || slices.Contains(unique, id) {
			continue
		}
		unique = append(unique, id)
	}

	epoch := s.currentEpoch()
	deleted, err := forEachID(ctx, unique, s.workers, s.gateway.DeleteTransaction)
	if len(deleted) > 0 {
		s.commit(epoch, CollectionPage, false, func() bool {
			return s.removeTxns(deleted...)
		})
	}
	if err != nil {
		return deleted, fmt.Errorf("delete transactions: %w", err)
	}
	return deleted, nil
}

func (s *Store) removeTxns(ids ...string) bool {
	drop := func(t model.Transaction) bool { return slices.Contains(ids, t.ID) }
	changed := false
	if slices.ContainsFunc(s.page.txns, drop) {
		s.page.txns = slices.DeleteFunc(slices.Clone(s.page.txns), drop)
		changed = true
	}
	if slices.ContainsFunc(s.current.txns, drop) {
		s.current.txns = slices.DeleteFunc(slices.Clone(s.current.txns), drop)
		changed = true
	}
	return changed
}

func (s *Store) AddCategory(ctx context.Context, draft model.CategoryDraft) (model.Category, error) {
	draft = draft.Normalize()
	if err := draft.Validate(); err != nil {
		return model.Category{}, err
	}

	epoch := s.currentEpoch()
	created, err := s.gateway.CreateCategory(ctx, draft)
	if err != nil {
		return model.Category{}, fmt.Errorf("create category: %w", err)
	}
	s.commit(epoch, CollectionCategories, false, func() bool {
		s.categories = append(slices.Clone(s.categories), created)
		return true
	})
	return created, nil
}

func (s *Store) UpdateCategory(ctx context.Context, c model.Category) (model.Category, error) {
	if strings.TrimSpace(c.ID) == "" {
		return model.Category{}, fmt.Errorf("%w: category id is required", model.ErrValidation)
	}
	draft := c.Draft().Normalize()
	if err := draft.Validate(); err != nil {
		return model.Category{}, err
	}

	epoch := s.currentEpoch()
	updated, err := s.gateway.UpdateCategory(ctx, draft.WithID(c.ID))
	if err != nil {
		return model.Category{}, fmt.Errorf("update category %q: %w", c.ID, err)
	}
	if updated.ID == "" {
		updated.ID = c.ID
	}
	s.commit(epoch, CollectionCategories, false, func() bool {
		idx := slices.IndexFunc(s.categories, func(x model.Category) bool { return x.ID == updated.ID })
		if idx < 0 {
			return false
		}
		s.categories = slices.Clone(s.categories)
		s.categories[idx] = updated
		return true
	})
	return updated, nil
}

// DeleteCategory removes a user category. Default categories are refused
// without contacting the backend.
func (s *Store) DeleteCategory(ctx context.Context, id string) error {
	if strings.TrimSpace(id) == "" {
		return fmt.Errorf("%w: category id is required", model.ErrValidation)
	}
	if model.IsDefaultCategory(id) {
		return fmt.Errorf("delete category %q: %w", id, ErrDefaultCategory)
	}

	epoch := s.currentEpoch()
	if err := s.gateway.DeleteCategory(ctx, id); err != nil {
		return fmt.Errorf("delete category %q: %w", id, err)
	}
	s.commit(epoch, CollectionCategories, false, func() bool {
		idx := slices.IndexFunc(s.categories, func(x model.Category) bool { return x.ID == id })
		if idx < 0 {
			return false
		}
		s.categories = slices.Delete(slices.Clone(s.categories), idx, idx+1)
		return true
	})
	return nil
}

// SetBudget stores a new monthly budget. amount must be positive.
func (s *Store) SetBudget(ctx context.Context, amount decimal.Decimal) error {
	if !amount.IsPositive() {
		return fmt.Errorf("%w: budget must be greater than zero", model.ErrValidation)
	}

	epoch := s.currentEpoch()
	if err := s.gateway.PutBudget(ctx, amount); err != nil {
		return fmt.Errorf("set budget: %w", err)
	}
	if s.commit(epoch, CollectionBudget, false, func() bool {
		s.budget = amount
		return true
	}) {
		s.saveBudgetCache(ctx, amount)
	}
	return nil
}

// SetCategoryLimit sets the spending limit for a category. A nil or
// non-positive limit clears it.
func (s *Store) SetCategoryLimit(ctx context.Context, categoryID string, limit *decimal.Decimal) error {
	if strings.TrimSpace(categoryID) == "" {
		return fmt.Errorf("%w: category id is required", model.ErrValidation)
	}

	send := decimal.Zero
	if limit != nil && limit.IsPositive() {
		send = *limit
	}

	epoch := s.currentEpoch()
	if err := s.gateway.PutCategoryLimit(ctx, categoryID, send); err != nil {
		return fmt.Errorf("set limit for category %q: %w", categoryID, err)
	}
	s.commit(epoch, CollectionLimits, false, func() bool {
		limits := maps.Clone(s.limits)
		if limits == nil {
			limits = make(map[string]decimal.Decimal)
		}
		if send.IsPositive() {
			limits[categoryID] = send
		} else {
			delete(limits, categoryID)
		}
		s.limits = limits
		return true
	})
	return nil
}

func (s *Store) ExportJSON(ctx context.Context) ([]byte, error) {
	data, err := s.gateway.ExportJSON(ctx)
	if err != nil {
		return nil, fmt.Errorf("export json: %w", err)
	}
	return data, nil
}

func (s *Store) ExportCSV(ctx context.Context) ([]byte, error) {
	data, err := s.gateway.ExportCSV(ctx)
	if err != nil {
		return nil, fmt.Errorf("export csv: %w", err)
	}
	return data, nil
}

// Import uploads a backup and then reloads everything, since an import can
// rewrite ids and categories wholesale.
func (s *Store) Import(ctx context.Context, filename string, r io.Reader) error {
	if r == nil {
		return errors.New("import: no file")
	}
	if err := s.gateway.Import(ctx, filename, r); err != nil {
		return fmt.Errorf("import %s: %w", filename, err)
	}
	if err := s.LoadAll(ctx); err != nil {
		return fmt.Errorf("reload after import: %w", err)
	}
	return nil
}

func prepend(list []model.Transaction, t model.Transaction) []model.Transaction {
	out := make([]model.Transaction, 0, len(list)+1)
	out = append(out, t)
	return append(out, list...)
}

func indexOfTxn(list []model.Transaction, id string) int {
	return slices.IndexFunc(list, func(t model.Transaction) bool { return t.ID == id })
}

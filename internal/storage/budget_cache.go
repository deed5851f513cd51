package storage

import (
	"context"
	"strings"
	"sync"

	"github.com/shopspring/decimal"
)

// BudgetCacheKey is process-wide, not per user; logout clears it.
const BudgetCacheKey = "finance_budget_cache"

// BudgetCache persists the last known monthly budget figure.
type BudgetCache struct {
	repo *SnapshotRepo
}

func NewBudgetCache(repo *SnapshotRepo) *BudgetCache {
	return &BudgetCache{repo: repo}
}

// LoadBudget returns the cached figure. ok is false when nothing usable is
// cached: a missing entry, an unparsable value or a non-positive amount.
func (c *BudgetCache) LoadBudget(ctx context.Context) (decimal.Decimal, bool, error) {
	snap, found, err := c.repo.Get(ctx, BudgetCacheKey)
	if err != nil || !found {
		return decimal.Zero, false, err
	}
	return parseCachedBudget(snap.Value)
}

func (c *BudgetCache) SaveBudget(ctx context.Context, amount decimal.Decimal) error {
	return c.repo.Put(ctx, BudgetCacheKey, amount.String())
}

func (c *BudgetCache) Clear(ctx context.Context) error {
	return c.repo.Delete(ctx, BudgetCacheKey)
}

func parseCachedBudget(raw string) (decimal.Decimal, bool, error) {
	amount, err := decimal.NewFromString(strings.TrimSpace(raw))
	if err != nil || !amount.IsPositive() {
		return decimal.Zero, false, nil
	}
	return amount, true, nil
}

// MemoryBudgetCache keeps the figure for the life of the process.
type MemoryBudgetCache struct {
	mu    sync.Mutex
	value string
	set   bool
}

func NewMemoryBudgetCache() *MemoryBudgetCache {
	return &MemoryBudgetCache{}
}

func (c *MemoryBudgetCache) LoadBudget(ctx context.Context) (decimal.Decimal, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.set {
		return decimal.Zero, false, nil
	}
	return parseCachedBudget(c.value)
}

func (c *MemoryBudgetCache) SaveBudget(ctx context.Context, amount decimal.Decimal) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.value = amount.String()
	c.set = true
	return nil
}

func (c *MemoryBudgetCache) Clear(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.value = ""
	c.set = false
	return nil
}

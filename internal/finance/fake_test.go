package finance

import (
	"context"
	"errors"
	"fmt"
	"io"
	"slices"
	"sync"
	"time"

	"github.com/lachiem1/fintrack/internal/model"
	"github.com/shopspring/decimal"
)

var errBoom = errors.New("boom")

type fakeGateway struct {
	mu          sync.Mutex
	txnsByMonth map[model.MonthKey][]model.Transaction
	categories  []model.Category
	budget      decimal.Decimal
	limits      []model.CategoryLimit
	errs        map[string]error
	calls       map[string]int
	nextID      int
	lastLimit   decimal.Decimal
	imported    string

	// hooks run before the call returns and may block.
	listHook     func(model.MonthKey)
	categoryHook func()
	budgetHook   func()
}

func newFakeGateway() *fakeGateway {
	return &fakeGateway{
		txnsByMonth: make(map[model.MonthKey][]model.Transaction),
		errs:        make(map[string]error),
		calls:       make(map[string]int),
	}
}

func (f *fakeGateway) record(name string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls[name]++
	return f.errs[name]
}

func (f *fakeGateway) callCount(name string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[name]
}

func (f *fakeGateway) setErr(name string, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.errs[name] = err
}

func (f *fakeGateway) ListTransactions(ctx context.Context, month model.MonthKey) ([]model.Transaction, error) {
	if hook := f.listHook; hook != nil {
		hook(month)
	}
	if err := f.record("ListTransactions"); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	return slices.Clone(f.txnsByMonth[month]), nil
}

func (f *fakeGateway) CreateTransaction(ctx context.Context, d model.TransactionDraft) (model.Transaction, error) {
	if err := f.record("CreateTransaction"); err != nil {
		return model.Transaction{}, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextID++
	return d.WithID(fmt.Sprintf("srv-%d", f.nextID)), nil
}

func (f *fakeGateway) UpdateTransaction(ctx context.Context, t model.Transaction) (model.Transaction, error) {
	if err := f.record("UpdateTransaction"); err != nil {
		return model.Transaction{}, err
	}
	return t, nil
}

func (f *fakeGateway) DeleteTransaction(ctx context.Context, id string) error {
	if err := f.record("DeleteTransaction"); err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.errs["DeleteTransaction:"+id]; err != nil {
		return err
	}
	return nil
}

func (f *fakeGateway) ListCategories(ctx context.Context) ([]model.Category, error) {
	if hook := f.categoryHook; hook != nil {
		hook()
	}
	if err := f.record("ListCategories"); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	return slices.Clone(f.categories), nil
}

func (f *fakeGateway) CreateCategory(ctx context.Context, d model.CategoryDraft) (model.Category, error) {
	if err := f.record("CreateCategory"); err != nil {
		return model.Category{}, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextID++
	return d.WithID(fmt.Sprintf("cat-%d", f.nextID)), nil
}

func (f *fakeGateway) UpdateCategory(ctx context.Context, c model.Category) (model.Category, error) {
	if err := f.record("UpdateCategory"); err != nil {
		return model.Category{}, err
	}
	return c, nil
}

func (f *fakeGateway) DeleteCategory(ctx context.Context, id string) error {
	return f.record("DeleteCategory")
}

func (f *fakeGateway) GetBudget(ctx context.Context) (decimal.Decimal, error) {
	if hook := f.budgetHook; hook != nil {
		hook()
	}
	if err := f.record("GetBudget"); err != nil {
		return decimal.Zero, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.budget, nil
}

func (f *fakeGateway) PutBudget(ctx context.Context, amount decimal.Decimal) error {
	if err := f.record("PutBudget"); err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.budget = amount
	return nil
}

func (f *fakeGateway) ListCategoryLimits(ctx context.Context) ([]model.CategoryLimit, error) {
	if err := f.record("ListCategoryLimits"); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	return slices.Clone(f.limits), nil
}

func (f *fakeGateway) PutCategoryLimit(ctx context.Context, categoryID string, limit decimal.Decimal) error {
	if err := f.record("PutCategoryLimit"); err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lastLimit = limit
	return nil
}

func (f *fakeGateway) ExportJSON(ctx context.Context) ([]byte, error) {
	if err := f.record("ExportJSON"); err != nil {
		return nil, err
	}
	return []byte(`{"transactions":[]}`), nil
}

func (f *fakeGateway) ExportCSV(ctx context.Context) ([]byte, error) {
	if err := f.record("ExportCSV"); err != nil {
		return nil, err
	}
	return []byte("id,desc\n"), nil
}

func (f *fakeGateway) Import(ctx context.Context, filename string, r io.Reader) error {
	if err := f.record("Import"); err != nil {
		return err
	}
	raw, err := io.ReadAll(r)
	if err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.imported = string(raw)
	return nil
}

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock(t time.Time) *fakeClock {
	return &fakeClock{now: t}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Set(t time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = t
}

func txn(id string, kind model.Kind, amount int64, categoryID, date string) model.Transaction {
	return model.Transaction{
		ID:          id,
		Description: "txn " + id,
		Amount:      decimal.NewFromInt(amount),
		Kind:        kind,
		CategoryID:  categoryID,
		Date:        date,
	}
}

func ids(txns []model.Transaction) []string {
	out := make([]string, 0, len(txns))
	for _, t := range txns {
		out = append(out, t.ID)
	}
	return out
}

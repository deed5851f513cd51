// Package finance holds the client-side financial state: the two month
// views of transactions, categories, the budget and per-category limits.
//
// All derived figures are recomputed on read from the stored collections,
// so a consumer can never observe a total that disagrees with the list it
// was computed from.
package finance

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"maps"
	"slices"
	"sync"
	"time"

	"github.com/lachiem1/fintrack/internal/model"
	"github.com/shopspring/decimal"
)

const defaultDeleteWorkers = 4

var ErrDefaultCategory = errors.New("default categories cannot be deleted")

// Gateway is the remote API the store loads from and mutates through.
type Gateway interface {
	ListTransactions(ctx context.Context, month model.MonthKey) ([]model.Transaction, error)
	CreateTransaction(ctx context.Context, d model.TransactionDraft) (model.Transaction, error)
	UpdateTransaction(ctx context.Context, t model.Transaction) (model.Transaction, error)
	DeleteTransaction(ctx context.Context, id string) error

	ListCategories(ctx context.Context) ([]model.Category, error)
	CreateCategory(ctx context.Context, d model.CategoryDraft) (model.Category, error)
	UpdateCategory(ctx context.Context, c model.Category) (model.Category, error)
	DeleteCategory(ctx context.Context, id string) error

	GetBudget(ctx context.Context) (decimal.Decimal, error)
	PutBudget(ctx context.Context, amount decimal.Decimal) error
	ListCategoryLimits(ctx context.Context) ([]model.CategoryLimit, error)
	PutCategoryLimit(ctx context.Context, categoryID string, limit decimal.Decimal) error

	ExportJSON(ctx context.Context) ([]byte, error)
	ExportCSV(ctx context.Context) ([]byte, error)
	Import(ctx context.Context, filename string, r io.Reader) error
}

// BudgetCache remembers the last budget figure between runs.
type BudgetCache interface {
	LoadBudget(ctx context.Context) (decimal.Decimal, bool, error)
	SaveBudget(ctx context.Context, amount decimal.Decimal) error
	Clear(ctx context.Context) error
}

type State int

const (
	StateUnauthenticated State = iota
	StateLoading
	StateReady
)

func (s State) String() string {
	switch s {
	case StateLoading:
		return "loading"
	case StateReady:
		return "ready"
	default:
		return "unauthenticated"
	}
}

type Collection string

const (
	CollectionCurrentMonth Collection = "current_month"
	CollectionPage         Collection = "page"
	CollectionCategories   Collection = "categories"
	CollectionBudget       Collection = "budget"
	CollectionLimits       Collection = "limits"
	// CollectionAll marks a full reset.
	CollectionAll Collection = "all"
)

// Change is delivered to observers after state was replaced or patched.
type Change struct {
	Collection Collection
	At         time.Time
}

type monthView struct {
	month model.MonthKey
	txns  []model.Transaction
}

type Store struct {
	gateway Gateway
	cache   BudgetCache
	now     func() time.Time
	logger  *slog.Logger
	workers int

	mu          sync.RWMutex
	state       State
	epoch       uint64
	loading     int
	current     monthView
	currentSeq  uint64
	page        monthView
	pageSeq     uint64
	pageRequest model.MonthKey
	categories  []model.Category
	budget      decimal.Decimal
	limits      map[string]decimal.Decimal
	lastLoaded  map[Collection]time.Time

	obsMu     sync.Mutex
	nextObs   int
	observers map[int]func(Change)
}

type Option func(*Store)

func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		if now != nil {
			s.now = now
		}
	}
}

func WithLogger(l *slog.Logger) Option {
	return func(s *Store) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithWorkers bounds the concurrency of bulk deletes.
func WithWorkers(n int) Option {
	return func(s *Store) {
		if n > 0 {
			s.workers = n
		}
	}
}

func New(gateway Gateway, cache BudgetCache, opts ...Option) *Store {
	s := &Store{
		gateway:    gateway,
		cache:      cache,
		now:        time.Now,
		logger:     slog.Default(),
		workers:    defaultDeleteWorkers,
		limits:     make(map[string]decimal.Decimal),
		lastLoaded: make(map[Collection]time.Time),
		observers:  make(map[int]func(Change)),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// CurrentMonth is the true calendar month by the store's clock.
func (s *Store) CurrentMonth() model.MonthKey {
	return model.MonthOf(s.now())
}

func (s *Store) State() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

// Transactions returns the page view.
func (s *Store) Transactions() []model.Transaction {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.page.txns)
}

// PageMonth is the month of the most recent page request, which may still
// be in flight.
func (s *Store) PageMonth() model.MonthKey {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.pageRequest.IsZero() {
		return s.CurrentMonth()
	}
	return s.pageRequest
}

// LoadedPageMonth is the month the page view's records belong to.
func (s *Store) LoadedPageMonth() model.MonthKey {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.page.month
}

// CurrentMonthTransactions returns the current-month view. After a month
// rollover, and until the view is reloaded, it is empty.
func (s *Store) CurrentMonthTransactions() []model.Transaction {
	month := s.CurrentMonth()
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.current.month != month {
		return []model.Transaction{}
	}
	return slices.Clone(s.current.txns)
}

func (s *Store) Categories() []model.Category {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.categories)
}

// Category looks a category up by id. Transactions may reference ids that
// no longer exist, in which case ok is false.
func (s *Store) Category(id string) (model.Category, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, c := range s.categories {
		if c.ID == id {
			return c, true
		}
	}
	return model.Category{}, false
}

func (s *Store) Budget() decimal.Decimal {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.budget
}

func (s *Store) CategoryLimits() map[string]decimal.Decimal {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return maps.Clone(s.limits)
}

// LastLoaded reports when c was last replaced from the network.
func (s *Store) LastLoaded(c Collection) (time.Time, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	t, ok := s.lastLoaded[c]
	return t, ok
}

// Snapshot computes the dashboard figures from the current-month view.
func (s *Store) Snapshot() Snapshot {
	month := s.CurrentMonth()
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.current.month != month {
		snap := computeSnapshot(month, nil, s.budget)
		snap.Stale = true
		return snap
	}
	return computeSnapshot(month, s.current.txns, s.budget)
}

// Subscribe registers fn for every later Change. fn runs on the goroutine
// that applied the change, after the store's lock is released.
func (s *Store) Subscribe(fn func(Change)) (unsubscribe func()) {
	s.obsMu.Lock()
	id := s.nextObs
	s.nextObs++
	s.observers[id] = fn
	s.obsMu.Unlock()

	return func() {
		s.obsMu.Lock()
		delete(s.observers, id)
		s.obsMu.Unlock()
	}
}

func (s *Store) emit(c Collection, at time.Time) {
	s.obsMu.Lock()
	fns := make([]func(Change), 0, len(s.observers))
	for _, id := range slices.Sorted(maps.Keys(s.observers)) {
		fns = append(fns, s.observers[id])
	}
	s.obsMu.Unlock()

	change := Change{Collection: c, At: at}
	for _, fn := range fns {
		fn(change)
	}
}

// commit runs patch under the write lock if no reset happened since epoch
// was read. patch may decline by returning false. It reports whether the
// patch was applied.
func (s *Store) commit(epoch uint64, c Collection, loaded bool, patch func() bool) bool {
	at := s.now()
	s.mu.Lock()
	if s.epoch != epoch || !patch() {
		s.mu.Unlock()
		return false
	}
	if loaded {
		s.lastLoaded[c] = at
	}
	s.mu.Unlock()

	s.emit(c, at)
	return true
}

func (s *Store) currentEpoch() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.epoch
}

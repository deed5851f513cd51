// Package syncer keeps the collection behind the open screen fresh: once on
// entry when it is missing or stale, then on a poll, on demand, and after
// failures on a retry schedule.
package syncer

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"
)

// Syncer refreshes one store collection.
type Syncer interface {
	Collection() string
	HasCachedData(ctx context.Context) (bool, error)
	LastSuccessAt(ctx context.Context) (time.Time, bool, error)
	Sync(ctx context.Context) error
}

// Expirer is implemented by syncers whose data can turn wrong between polls,
// such as the current month once the calendar rolls over. Expired is checked
// every Config.CheckInterval.
type Expirer interface {
	Expired(ctx context.Context) bool
}

type EventType string

const (
	EventSyncStarted EventType = "sync_started"
	EventSyncOK      EventType = "sync_ok"
	EventSyncFailed  EventType = "sync_failed"
)

// Trigger records why a refresh ran.
type Trigger string

const (
	TriggerEnter    Trigger = "enter"
	TriggerManual   Trigger = "manual"
	TriggerPoll     Trigger = "poll"
	TriggerRollover Trigger = "rollover"
	TriggerRetry    Trigger = "retry"
)

type Event struct {
	Type       EventType
	Collection string
	Trigger    Trigger
	At         time.Time
	Err        error
	// Failures counts consecutive failed refreshes, this one included.
	Failures int
	// RetryIn is the delay before the next attempt after a failure.
	RetryIn time.Duration
}

type Config struct {
	StaleTTL      time.Duration
	PollInterval  time.Duration
	CheckInterval time.Duration
	// Backoff is indexed by consecutive failures; the last entry repeats.
	Backoff []time.Duration
}

var defaultBackoff = []time.Duration{2 * time.Second, 5 * time.Second, 15 * time.Second, 60 * time.Second}

func (c Config) withDefaults() Config {
	if c.StaleTTL <= 0 {
		c.StaleTTL = 30 * time.Second
	}
	if c.PollInterval <= 0 {
		c.PollInterval = 2 * time.Minute
	}
	if c.CheckInterval <= 0 {
		c.CheckInterval = 15 * time.Second
	}
	if len(c.Backoff) == 0 {
		c.Backoff = defaultBackoff
	}
	return c
}

// Engine runs at most one refresh loop, for the collection of the open view.
type Engine struct {
	cfg     Config
	syncers map[string]Syncer
	onEvent func(Event)
	now     func() time.Time

	mu   sync.Mutex
	view *viewRun
}

type viewRun struct {
	collection string
	stop       context.CancelFunc
	refresh    chan struct{}
	stopped    chan struct{}
}

func New(cfg Config, syncers []Syncer, onEvent func(Event)) (*Engine, error) {
	registry, err := newRegistry(syncers)
	if err != nil {
		return nil, err
	}
	return &Engine{
		cfg:     cfg.withDefaults(),
		syncers: registry,
		onEvent: onEvent,
		now:     func() time.Time { return time.Now().UTC() },
	}, nil
}

func newRegistry(syncers []Syncer) (map[string]Syncer, error) {
	registry := make(map[string]Syncer, len(syncers))
	for _, s := range syncers {
		if s == nil {
			continue
		}
		collection := s.Collection()
		if collection == "" {
			return nil, errors.New("syncer has empty collection")
		}
		if _, exists := registry[collection]; exists {
			return nil, fmt.Errorf("duplicate syncer for collection %q", collection)
		}
		registry[collection] = s
	}
	if len(registry) == 0 {
		return nil, errors.New("at least one syncer is required")
	}
	return registry, nil
}

// EnterView switches the engine to collection. The previous loop is told to
// stop but not waited for.
func (e *Engine) EnterView(ctx context.Context, collection string) error {
	s, ok := e.syncers[collection]
	if !ok {
		return fmt.Errorf("no syncer for collection %q", collection)
	}

	runCtx, stop := context.WithCancel(ctx)
	view := &viewRun{
		collection: collection,
		stop:       stop,
		refresh:    make(chan struct{}, 1),
		stopped:    make(chan struct{}),
	}

	e.mu.Lock()
	if e.view != nil {
		e.view.stop()
	}
	e.view = view
	e.mu.Unlock()

	go newRefreshLoop(e, s).run(runCtx, view)
	return nil
}

// LeaveView stops the active loop and waits for it to exit.
func (e *Engine) LeaveView() {
	e.mu.Lock()
	view := e.view
	e.view = nil
	e.mu.Unlock()

	if view == nil {
		return
	}
	view.stop()
	<-view.stopped
}

// ManualRefresh asks the active loop for an immediate refresh. Requests made
// while one is already pending collapse into it.
func (e *Engine) ManualRefresh(collection string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	switch {
	case e.view == nil:
		return errors.New("no active view")
	case e.view.collection != collection:
		return fmt.Errorf("active view is %q, not %q", e.view.collection, collection)
	}

	select {
	case e.view.refresh <- struct{}{}:
	default:
	}
	return nil
}

func (e *Engine) ActiveCollection() string {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.view == nil {
		return ""
	}
	return e.view.collection
}

func (e *Engine) emit(evt Event) {
	if e.onEvent != nil {
		e.onEvent(evt)
	}
}

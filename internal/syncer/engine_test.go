package syncer

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"
)

type fakeSyncer struct {
	collection string

	mu          sync.Mutex
	hasData     bool
	lastSuccess time.Time
	syncErrs    []error
	syncs       int
	expired     bool
}

func (f *fakeSyncer) Collection() string { return f.collection }

func (f *fakeSyncer) HasCachedData(ctx context.Context) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.hasData, nil
}

func (f *fakeSyncer) LastSuccessAt(ctx context.Context) (time.Time, bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.lastSuccess, !f.lastSuccess.IsZero(), nil
}

func (f *fakeSyncer) Sync(ctx context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.syncs++
	if len(f.syncErrs) > 0 {
		err := f.syncErrs[0]
		f.syncErrs = f.syncErrs[1:]
		return err
	}
	f.hasData = true
	f.lastSuccess = time.Now()
	f.expired = false
	return nil
}

func (f *fakeSyncer) syncCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.syncs
}

type expiringSyncer struct {
	*fakeSyncer
}

func (e expiringSyncer) Expired(ctx context.Context) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.expired
}

type eventLog struct {
	mu     sync.Mutex
	events []Event
}

func (l *eventLog) add(evt Event) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.events = append(l.events, evt)
}

func (l *eventLog) count(typ EventType) int {
	l.mu.Lock()
	defer l.mu.Unlock()
	n := 0
	for _, e := range l.events {
		if e.Type == typ {
			n++
		}
	}
	return n
}

func waitForCondition(t *testing.T, timeout time.Duration, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatal("condition not met before timeout")
}

func TestNewRejectsBadRegistry(t *testing.T) {
	if _, err := New(Config{}, nil, nil); err == nil {
		t.Fatal("New() with no syncers error = nil, want non-nil")
	}
	a := &fakeSyncer{collection: "a"}
	if _, err := New(Config{}, []Syncer{a, &fakeSyncer{collection: "a"}}, nil); err == nil {
		t.Fatal("New() with duplicate collections error = nil, want non-nil")
	}
	if _, err := New(Config{}, []Syncer{&fakeSyncer{}}, nil); err == nil {
		t.Fatal("New() with empty collection error = nil, want non-nil")
	}
}

func TestEnterViewSyncsWhenNoData(t *testing.T) {
	s := &fakeSyncer{collection: "page"}
	log := &eventLog{}
	engine, err := New(Config{PollInterval: time.Hour}, []Syncer{s}, log.add)
	if err != nil {
		t.Fatalf("New() unexpected error: %v", err)
	}
	defer engine.LeaveView()

	if err := engine.EnterView(context.Background(), "page"); err != nil {
		t.Fatalf("EnterView() unexpected error: %v", err)
	}
	waitForCondition(t, 2*time.Second, func() bool { return log.count(EventSyncOK) == 1 })
	if engine.ActiveCollection() != "page" {
		t.Fatalf("ActiveCollection() = %q, want %q", engine.ActiveCollection(), "page")
	}
	if log.count(EventSyncStarted) != 1 {
		t.Fatalf("sync_started events = %d, want 1", log.count(EventSyncStarted))
	}
}

func TestEnterViewSkipsFreshData(t *testing.T) {
	s := &fakeSyncer{collection: "page", hasData: true, lastSuccess: time.Now()}
	engine, err := New(Config{StaleTTL: time.Minute, PollInterval: time.Hour}, []Syncer{s}, nil)
	if err != nil {
		t.Fatalf("New() unexpected error: %v", err)
	}

	if err := engine.EnterView(context.Background(), "page"); err != nil {
		t.Fatalf("EnterView() unexpected error: %v", err)
	}
	time.Sleep(50 * time.Millisecond)
	engine.LeaveView()
	if n := s.syncCount(); n != 0 {
		t.Fatalf("syncs = %d, want 0 for fresh data", n)
	}
}

func TestManualRefresh(t *testing.T) {
	s := &fakeSyncer{collection: "page", hasData: true, lastSuccess: time.Now()}
	engine, err := New(Config{StaleTTL: time.Minute, PollInterval: time.Hour}, []Syncer{s}, nil)
	if err != nil {
		t.Fatalf("New() unexpected error: %v", err)
	}
	defer engine.LeaveView()

	if err := engine.ManualRefresh("page"); err == nil {
		t.Fatal("ManualRefresh() without active view error = nil, want non-nil")
	}
	if err := engine.EnterView(context.Background(), "page"); err != nil {
		t.Fatalf("EnterView() unexpected error: %v", err)
	}
	if err := engine.ManualRefresh("other"); err == nil {
		t.Fatal("ManualRefresh(other) error = nil, want non-nil")
	}
	if err := engine.ManualRefresh("page"); err != nil {
		t.Fatalf("ManualRefresh() unexpected error: %v", err)
	}
	waitForCondition(t, 2*time.Second, func() bool { return s.syncCount() == 1 })
}

func TestFailedSyncRetriesWithBackoff(t *testing.T) {
	s := &fakeSyncer{collection: "page", syncErrs: []error{errors.New("boom")}}
	log := &eventLog{}
	engine, err := New(
		Config{PollInterval: time.Hour, Backoff: []time.Duration{20 * time.Millisecond}},
		[]Syncer{s},
		log.add,
	)
	if err != nil {
		t.Fatalf("New() unexpected error: %v", err)
	}
	defer engine.LeaveView()

	if err := engine.EnterView(context.Background(), "page"); err != nil {
		t.Fatalf("EnterView() unexpected error: %v", err)
	}
	waitForCondition(t, 2*time.Second, func() bool { return log.count(EventSyncOK) == 1 })
	if log.count(EventSyncFailed) != 1 {
		t.Fatalf("sync_failed events = %d, want 1", log.count(EventSyncFailed))
	}
	if s.syncCount() != 2 {
		t.Fatalf("syncs = %d, want 2", s.syncCount())
	}
}

func TestExpiredSyncerResyncsBeforePoll(t *testing.T) {
	base := &fakeSyncer{collection: "current_month", hasData: true, lastSuccess: time.Now()}
	s := expiringSyncer{base}
	engine, err := New(
		Config{StaleTTL: time.Hour, PollInterval: time.Hour, CheckInterval: 10 * time.Millisecond},
		[]Syncer{s},
		nil,
	)
	if err != nil {
		t.Fatalf("New() unexpected error: %v", err)
	}
	defer engine.LeaveView()

	if err := engine.EnterView(context.Background(), "current_month"); err != nil {
		t.Fatalf("EnterView() unexpected error: %v", err)
	}
	time.Sleep(40 * time.Millisecond)
	if n := base.syncCount(); n != 0 {
		t.Fatalf("syncs before expiry = %d, want 0", n)
	}

	base.mu.Lock()
	base.expired = true
	base.mu.Unlock()
	waitForCondition(t, 2*time.Second, func() bool { return base.syncCount() == 1 })
}

func TestLeaveViewStopsLoop(t *testing.T) {
	s := &fakeSyncer{collection: "page"}
	engine, err := New(Config{PollInterval: 10 * time.Millisecond}, []Syncer{s}, nil)
	if err != nil {
		t.Fatalf("New() unexpected error: %v", err)
	}
	if err := engine.EnterView(context.Background(), "page"); err != nil {
		t.Fatalf("EnterView() unexpected error: %v", err)
	}
	waitForCondition(t, 2*time.Second, func() bool { return s.syncCount() >= 1 })

	engine.LeaveView()
	after := s.syncCount()
	time.Sleep(50 * time.Millisecond)
	if s.syncCount() != after {
		t.Fatalf("syncs continued after LeaveView: %d -> %d", after, s.syncCount())
	}
	if engine.ActiveCollection() != "" {
		t.Fatalf("ActiveCollection() = %q, want empty", engine.ActiveCollection())
	}
}

func TestRetryDelay(t *testing.T) {
	schedule := []time.Duration{time.Second, 5 * time.Second, time.Minute}
	tests := []struct {
		failures int
		want     time.Duration
	}{
		{failures: 1, want: time.Second},
		{failures: 2, want: 5 * time.Second},
		{failures: 3, want: time.Minute},
		{failures: 9, want: time.Minute},
	}
	for _, tt := range tests {
		if got := retryDelay(schedule, tt.failures); got != tt.want {
			t.Fatalf("retryDelay(%d) = %v, want %v", tt.failures, got, tt.want)
		}
	}
}

func TestEventsCarryTriggerAndFailures(t *testing.T) {
	s := &fakeSyncer{collection: "page", syncErrs: []error{errors.New("boom")}}
	log := &eventLog{}
	engine, err := New(
		Config{PollInterval: time.Hour, Backoff: []time.Duration{20 * time.Millisecond}},
		[]Syncer{s},
		log.add,
	)
	if err != nil {
		t.Fatalf("New() unexpected error: %v", err)
	}
	defer engine.LeaveView()

	if err := engine.EnterView(context.Background(), "page"); err != nil {
		t.Fatalf("EnterView() unexpected error: %v", err)
	}
	waitForCondition(t, 2*time.Second, func() bool { return log.count(EventSyncOK) == 1 })

	log.mu.Lock()
	defer log.mu.Unlock()
	var failed, ok Event
	for _, evt := range log.events {
		switch evt.Type {
		case EventSyncFailed:
			failed = evt
		case EventSyncOK:
			ok = evt
		}
	}
	if failed.Trigger != TriggerEnter || failed.Failures != 1 || failed.RetryIn != 20*time.Millisecond {
		t.Fatalf("failed event = %+v, want enter trigger, 1 failure, 20ms retry", failed)
	}
	if ok.Trigger != TriggerRetry || ok.Failures != 0 {
		t.Fatalf("ok event = %+v, want retry trigger, 0 failures", ok)
	}
}

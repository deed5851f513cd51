package syncer

import (
	"context"
	"time"
)

// refreshLoop owns the timers and failure count for one entered view.
type refreshLoop struct {
	engine  *Engine
	syncer  Syncer
	expirer Expirer

	failures int
	retry    *time.Timer
}

func newRefreshLoop(e *Engine, s Syncer) *refreshLoop {
	l := &refreshLoop{engine: e, syncer: s}
	if expirer, ok := s.(Expirer); ok {
		l.expirer = expirer
	}
	return l
}

func (l *refreshLoop) run(ctx context.Context, view *viewRun) {
	defer close(view.stopped)
	defer l.cancelRetry()

	poll := time.NewTicker(l.engine.cfg.PollInterval)
	defer poll.Stop()

	var rollover <-chan time.Time
	if l.expirer != nil {
		check := time.NewTicker(l.engine.cfg.CheckInterval)
		defer check.Stop()
		rollover = check.C
	}

	if l.dueOnEnter(ctx) {
		l.refresh(ctx, TriggerEnter)
	}

	for {
		select {
		case <-ctx.Done():
			return
		case <-view.refresh:
			l.cancelRetry()
			l.refresh(ctx, TriggerManual)
		case <-poll.C:
			if l.retry == nil {
				l.refresh(ctx, TriggerPoll)
			}
		case <-rollover:
			if l.retry == nil && l.expirer.Expired(ctx) {
				l.refresh(ctx, TriggerRollover)
			}
		case <-l.retryC():
			l.retry = nil
			l.refresh(ctx, TriggerRetry)
		}
	}
}

// dueOnEnter reports whether the collection is missing, stale or expired.
// A failed check is reported and skips the refresh; the poll catches up.
func (l *refreshLoop) dueOnEnter(ctx context.Context) bool {
	if l.expirer != nil && l.expirer.Expired(ctx) {
		return true
	}

	hasData, err := l.syncer.HasCachedData(ctx)
	if err != nil {
		l.report(EventSyncFailed, TriggerEnter, err)
		return false
	}
	if !hasData {
		return true
	}

	lastSuccess, ok, err := l.syncer.LastSuccessAt(ctx)
	if err != nil {
		l.report(EventSyncFailed, TriggerEnter, err)
		return false
	}
	return !ok || l.engine.now().Sub(lastSuccess) > l.engine.cfg.StaleTTL
}

func (l *refreshLoop) refresh(ctx context.Context, trigger Trigger) {
	l.report(EventSyncStarted, trigger, nil)

	if err := l.syncer.Sync(ctx); err != nil {
		if ctx.Err() != nil {
			return
		}
		l.failures++
		delay := retryDelay(l.engine.cfg.Backoff, l.failures)
		l.retry = time.NewTimer(delay)
		l.engine.emit(Event{
			Type:       EventSyncFailed,
			Collection: l.syncer.Collection(),
			Trigger:    trigger,
			At:         l.engine.now(),
			Err:        err,
			Failures:   l.failures,
			RetryIn:    delay,
		})
		return
	}

	l.failures = 0
	l.report(EventSyncOK, trigger, nil)
}

func (l *refreshLoop) report(typ EventType, trigger Trigger, err error) {
	l.engine.emit(Event{
		Type:       typ,
		Collection: l.syncer.Collection(),
		Trigger:    trigger,
		At:         l.engine.now(),
		Err:        err,
		Failures:   l.failures,
	})
}

// retryC is nil, and so never ready, while no retry is scheduled.
func (l *refreshLoop) retryC() <-chan time.Time {
	if l.retry == nil {
		return nil
	}
	return l.retry.C
}

func (l *refreshLoop) cancelRetry() {
	if l.retry != nil {
		l.retry.Stop()
		l.retry = nil
	}
}

// retryDelay picks the backoff step for the given run of failures.
func retryDelay(schedule []time.Duration, failures int) time.Duration {
	idx := min(failures, len(schedule)) - 1
	return schedule[max(idx, 0)]
}

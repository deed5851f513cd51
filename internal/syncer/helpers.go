package syncer

import (
	"context"
	"time"
)

// Recorder persists refresh bookkeeping; storage.SyncStateRepo implements it.
type Recorder interface {
	RecordAttempt(ctx context.Context, collection string, at time.Time) error
	RecordSuccess(ctx context.Context, collection string, at time.Time) error
	RecordError(ctx context.Context, collection string, at time.Time, syncErr error) error
}

// runSyncAttempt wraps refresh work with bookkeeping. A nil recorder only
// runs the work. Bookkeeping failures never mask the work's own result.
func runSyncAttempt(
	ctx context.Context,
	recorder Recorder,
	collection string,
	work func(context.Context) error,
) error {
	if recorder == nil {
		return work(ctx)
	}

	_ = recorder.RecordAttempt(ctx, collection, time.Now().UTC())
	if err := work(ctx); err != nil {
		_ = recorder.RecordError(context.Background(), collection, time.Now().UTC(), err)
		return err
	}
	_ = recorder.RecordSuccess(ctx, collection, time.Now().UTC())
	return nil
}

package finance

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// forEachID runs fn for every id with at most workers calls in flight. After
// the first failure no further calls start. The ids that succeeded come back
// in input order next to that failure.
func forEachID(
	ctx context.Context,
	ids []string,
	workers int,
	fn func(context.Context, string) error,
) ([]string, error) {
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(max(workers, 1))

	succeeded := make([]bool, len(ids))
	for i, id := range ids {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			if err := fn(gctx, id); err != nil {
				return err
			}
			succeeded[i] = true
			return nil
		})
	}
	err := g.Wait()

	out := make([]string, 0, len(ids))
	for i, id := range ids {
		if succeeded[i] {
			out = append(out, id)
		}
	}
	if err == nil && len(out) < len(ids) {
		err = ctx.Err()
	}
	return out, err
}

package objective

import (
	"context"
	"sync"

	"golang.org/x/sync/errgroup"
)

// runBatch fans a per-item operation out across at most limit concurrent
// workers and partitions the outcomes into succeeded and failed.
//
// Each item is fault-isolated: fn reports failure through its ok return and
// never aborts sibling items. Results are appended as workers complete, so
// order within each partition follows completion order, not input order.
// runBatch blocks until every item has been attempted.
func runBatch[T, R any](ctx context.Context, limit int, items []T, fn func(ctx context.Context, item T) (R, bool)) (succeeded, failed []R) {
	if limit < 1 {
		limit = 1
	}

	g := new(errgroup.Group)
	g.SetLimit(limit)

	var mu sync.Mutex
	for _, item := range items {
		g.Go(func() error {
			result, ok := fn(ctx, item)
			mu.Lock()
			defer mu.Unlock()
			if ok {
				succeeded = append(succeeded, result)
			} else {
				failed = append(failed, result)
			}
			return nil
		})
	}

	// Workers never return errors; failures are recorded per item.
	_ = g.Wait()
	return succeeded, failed
}

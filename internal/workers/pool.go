package workers

import (
	"context"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"github.com/pifslicer-design/mpg-assistant/internal/telemetry"
)

// ProgressInterval throttles the "n/total" progress lines of ForEach.
var ProgressInterval = 2 * time.Second

// ForEach calls fn for every item on at most workers goroutines. No new
// item is started once ctx is cancelled or an earlier call failed; the
// first error is returned. Items already running are left to finish.
func ForEach[T any](ctx context.Context, label string, workers int, items []T, fn func(ctx context.Context, i int, item T) error) error {
	if workers < 1 {
		workers = 1
	}
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	progress := rate.Sometimes{Interval: ProgressInterval}
	var done atomic.Int64
	total := len(items)

	for i, item := range items {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			telemetry.Metrics.ActiveWorkers.Inc()
			defer telemetry.Metrics.ActiveWorkers.Dec()

			if err := fn(gctx, i, item); err != nil {
				return err
			}
			n := done.Add(1)
			progress.Do(func() {
				telemetry.Infof("%s: %d/%d", label, n, total)
			})
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}
	return ctx.Err()
}

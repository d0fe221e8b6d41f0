package workerpool

import (
	"context"
	"sync/atomic"

	"github.com/andrej220/hamprobe/internal/lg"
	"golang.org/x/sync/errgroup"
)

const TotalMaxWorkers = 10

// JobFunc handles the payload at position idx.
type JobFunc[T, R any] func(ctx context.Context, idx int, payload T) (R, error)

// Pool runs jobs with a bounded number of concurrent workers.
type Pool[T, R any] struct {
	maxWorkers    int
	activeWorkers int32
}

func NewPool[T, R any](maxWorkers int) *Pool[T, R] {
	if maxWorkers <= 0 || maxWorkers > TotalMaxWorkers {
		maxWorkers = TotalMaxWorkers
	}
	return &Pool[T, R]{maxWorkers: maxWorkers}
}

// Map applies fn to every payload and returns the results in payload order.
// Each worker writes only its own slot, so completion order does not matter.
// The first error cancels the remaining jobs and is returned.
func (p *Pool[T, R]) Map(ctx context.Context, payloads []T, fn JobFunc[T, R]) ([]R, error) {
	logger := lg.FromContext(ctx)
	results := make([]R, len(payloads))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(p.maxWorkers)
	for i, payload := range payloads {
		g.Go(func() error {
			atomic.AddInt32(&p.activeWorkers, 1)
			defer atomic.AddInt32(&p.activeWorkers, -1)
			logger.Debug("worker started",
				lg.Int("job", i),
				lg.Int("workers", int(atomic.LoadInt32(&p.activeWorkers))))

			if err := gctx.Err(); err != nil {
				return err
			}
			r, err := fn(gctx, i, payload)
			if err != nil {
				return err
			}
			results[i] = r
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

func (p *Pool[T, R]) ActiveWorkers() int32 {
	return atomic.LoadInt32(&p.activeWorkers)
}

func (p *Pool[T, R]) MaxWorkers() int {
	return p.maxWorkers
}

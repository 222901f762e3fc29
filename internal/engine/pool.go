// Package engine holds helpers shared by the lexical and vector indexes.
package engine

import (
	"context"
	"fmt"
	"sync"

	"github.com/panjf2000/ants/v2"
)

// DefaultWorkers is used when a non-positive worker count is given.
const DefaultWorkers = 8

// ParallelMap computes fn(i) for every i in [0, n) on a bounded worker pool.
// out[i] holds fn(i), so the result does not depend on scheduling.
// Cancelling ctx stops submitting new work and returns ctx.Err().
func ParallelMap[T any](ctx context.Context, workers, n int, fn func(i int) T) ([]T, error) {
	out := make([]T, n)
	if n == 0 {
		return out, nil
	}
	if workers <= 0 {
		workers = DefaultWorkers
	}
	workers = min(workers, n)

	pool, err := ants.NewPool(workers)
	if err != nil {
		return nil, fmt.Errorf("create worker pool: %w", err)
	}
	defer pool.Release()

	var wg sync.WaitGroup
	for i := range n {
		if err := ctx.Err(); err != nil {
			wg.Wait()
			return nil, err
		}
		wg.Add(1)
		if err := pool.Submit(func() {
			defer wg.Done()
			out[i] = fn(i)
		}); err != nil {
			wg.Done()
			wg.Wait()
			return nil, fmt.Errorf("submit task %d: %w", i, err)
		}
	}
	wg.Wait()
	return out, nil
}

package cognite

import (
	"context"
	"sync"

	"github.com/cognitedata-community/cognite-sdk-go/internal/constants"
)

// ExecuteWithParallelism runs tasks with at most n concurrent in flight
// (constants.DefaultParallelismLimit when n <= 0), failing fast on the
// first error: once an error is observed, no new task is started, though
// tasks already running are allowed to finish. The first error to be
// observed is returned, which is not necessarily the one from the
// lowest-indexed task; results for tasks that failed or never ran are the
// zero value of T.
//
// This intentionally does not run every task to completion regardless of
// failure — a bounded worker pool with a cancellable context and a
// semaphore, per the concurrency model in §5.
func ExecuteWithParallelism[T any](ctx context.Context, tasks []func(context.Context) (T, error), n int) ([]T, error) {
	if n <= 0 {
		n = constants.DefaultParallelismLimit
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	results := make([]T, len(tasks))
	sem := make(chan struct{}, n)

	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		firstErr error
	)

dispatch:
	for i, task := range tasks {
		mu.Lock()
		failed := firstErr != nil
		mu.Unlock()

		if failed {
			break dispatch
		}

		select {
		case sem <- struct{}{}:
		case <-ctx.Done():
			break dispatch
		}

		wg.Add(1)

		go func(i int, task func(context.Context) (T, error)) {
			defer wg.Done()
			defer func() { <-sem }()

			result, err := task(ctx)
			if err != nil {
				mu.Lock()
				if firstErr == nil {
					firstErr = err
					cancel()
				}
				mu.Unlock()

				return
			}

			results[i] = result
		}(i, task)
	}

	wg.Wait()

	return results, firstErr
}

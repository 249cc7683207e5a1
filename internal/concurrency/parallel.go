package concurrency

import (
	"context"
	"sync"
)

// ParallelOptions configures bounded parallel processing.
type ParallelOptions struct {
	// MaxWorkers is the worker pool size; <=0 falls back to the default.
	MaxWorkers int
}

func DefaultOptions() ParallelOptions {
	return ParallelOptions{MaxWorkers: 10}
}

type indexed[R any] struct {
	index  int
	result R
	err    error
}

// ProcessParallel runs itemFunc over items with a bounded worker pool and
// returns results in input order. Errors are collected, not short-circuited:
// one failed item never cancels the rest.
func ProcessParallel[T any, R any](
	ctx context.Context,
	items []T,
	opts ParallelOptions,
	itemFunc func(ctx context.Context, index int, item T) (R, error),
) ([]R, []error) {
	if len(items) == 0 {
		return []R{}, nil
	}

	workers := opts.MaxWorkers
	if workers <= 0 {
		workers = DefaultOptions().MaxWorkers
	}
	if workers > len(items) {
		workers = len(items)
	}

	jobs := make(chan int, len(items))
	results := make(chan indexed[R], len(items))

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				if ctx.Err() != nil {
					return
				}
				r, err := itemFunc(ctx, i, items[i])
				results <- indexed[R]{index: i, result: r, err: err}
			}
		}()
	}

	for i := range items {
		jobs <- i
	}
	close(jobs)

	go func() {
		wg.Wait()
		close(results)
	}()

	out := make([]R, len(items))
	var errs []error
	for r := range results {
		out[r.index] = r.result
		if r.err != nil {
			errs = append(errs, r.err)
		}
	}
	return out, errs
}

// ForEach runs itemFunc over items in parallel for side effects only,
// returning whatever errors occurred.
func ForEach[T any](
	ctx context.Context,
	items []T,
	opts ParallelOptions,
	itemFunc func(ctx context.Context, index int, item T) error,
) []error {
	type none struct{}
	_, errs := ProcessParallel(ctx, items, opts, func(ctx context.Context, i int, item T) (none, error) {
		return none{}, itemFunc(ctx, i, item)
	})
	return errs
}

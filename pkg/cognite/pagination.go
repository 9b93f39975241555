package cognite

import (
	"context"
	"iter"
)

// CursorFilter is implemented by any filter type that can carry a server
// cursor and a partition, and be deep-copied for concurrent partitioned
// use. Resource-specific filters implement this to plug into filter_all /
// filter_all_partitioned / stream pagination.
type CursorFilter[Self any] interface {
	// WithCursor returns a copy of the filter with its cursor set (or
	// cleared, when cursor is empty).
	WithCursor(cursor string) Self

	// WithPartition returns a copy of the filter scoped to one partition
	// of N, with no cursor set.
	WithPartition(p Partition) Self
}

// Page is one page of a cursor-paginated collection response.
type Page[T any] struct {
	Items      []T
	NextCursor string
}

// FetchPage issues a single filter request and decodes the page.
type FetchPage[F any, T any] func(ctx context.Context, filter F) (Page[T], error)

// FilterAll drives fetch to completion, following nextCursor until the
// server stops returning one, and returns every item accumulated across
// pages in server order (§4.4 filter-style pagination).
func FilterAll[F CursorFilter[F], T any](ctx context.Context, filter F, fetch FetchPage[F, T]) ([]T, error) {
	var all []T

	current := filter

	for {
		page, err := fetch(ctx, current)
		if err != nil {
			return nil, err
		}

		all = append(all, page.Items...)

		if page.NextCursor == "" {
			return all, nil
		}

		current = current.WithCursor(page.NextCursor)
	}
}

// FilterAllPartitioned splits filter into n independent partitions
// (p/n for p in 1..=n), drives FilterAll on each concurrently, and
// concatenates the results in partition order. The first error from any
// partition aborts the others and is returned; result ordering across
// partitions is not guaranteed to match any particular sequence (§4.4).
func FilterAllPartitioned[F CursorFilter[F], T any](ctx context.Context, filter F, n int, fetch FetchPage[F, T]) ([]T, error) {
	tasks := make([]func(context.Context) ([]T, error), n)

	for p := 0; p < n; p++ {
		partitioned := filter.WithPartition(Partition{Index: p + 1, Of: n})
		tasks[p] = func(ctx context.Context) ([]T, error) {
			return FilterAll(ctx, partitioned, fetch)
		}
	}

	pages, err := ExecuteWithParallelism(ctx, tasks, n)
	if err != nil {
		return nil, err
	}

	var all []T
	for _, p := range pages {
		all = append(all, p...)
	}

	return all, nil
}

// StreamPages returns a lazy, one-shot sequence of items that fetches one
// page at a time as the consumer pulls, per §4.4's cursor state machine
// (NotStarted | HaveCursor | Exhausted). Breaking out of the range loop
// early discards any buffered-but-unconsumed items and never issues
// another fetch.
func StreamPages[F CursorFilter[F], T any](ctx context.Context, filter F, fetch FetchPage[F, T]) iter.Seq2[T, error] {
	return func(yield func(T, error) bool) {
		const (
			stateNotStarted = iota
			stateHaveCursor
			stateExhausted
		)

		state := stateNotStarted
		current := filter
		var buffer []T

		for {
			if len(buffer) > 0 {
				item := buffer[0]
				buffer = buffer[1:]

				if !yield(item, nil) {
					return
				}

				continue
			}

			if state == stateExhausted {
				return
			}

			page, err := fetch(ctx, current)
			if err != nil {
				yield(*new(T), err)

				return
			}

			buffer = page.Items

			if page.NextCursor == "" {
				state = stateExhausted
			} else {
				state = stateHaveCursor
				current = current.WithCursor(page.NextCursor)
			}

			if len(buffer) == 0 && state == stateExhausted {
				return
			}
		}
	}
}

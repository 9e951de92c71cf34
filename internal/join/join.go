// Package join runs a fixed number of calls concurrently and joins their
// results.
package join

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// All starts fn for every index in [0, n) at once and waits for all of them.
// Results are returned in index order. If any call fails, All returns the
// first error observed, but only after every call has returned; calls still
// running are not cancelled.
func All[T any](ctx context.Context, n int, fn func(ctx context.Context, i int) (T, error)) ([]T, error) {
	results := make([]T, n)
	var g errgroup.Group
	for i := 0; i < n; i++ {
		g.Go(func() error {
			v, err := fn(ctx, i)
			if err != nil {
				return err
			}
			results[i] = v
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

// Package concurrency shows mocks shared between goroutines: sequences hand out each answer once,
// and invocations from every goroutine are recorded for verification.
package concurrency

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"
)

// Source hands out work items.
type Source interface {
	Next(ctx context.Context) (int, error)
	Report(worker, item int)
}

// Drain starts workers goroutines that each take perWorker items from source and report them.
// The first error stops the remaining workers.
func Drain(ctx context.Context, source Source, workers, perWorker int) error {
	group, ctx := errgroup.WithContext(ctx)

	for worker := range workers {
		group.Go(func() error {
			for range perWorker {
				item, err := source.Next(ctx)
				if err != nil {
					return fmt.Errorf("worker %d: %w", worker, err)
				}

				source.Report(worker, item)
			}

			return nil
		})
	}

	return group.Wait()
}

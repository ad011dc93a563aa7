package util

import "golang.org/x/sync/errgroup"

// Op represents a function that returns a value and/or an error
type Op[T any] = func() (T, error)

// Concurrent runs the operations specified in multiple goroutines, up to the limit of max_concurrent at the same time.
// Results and errors are returned in the same order as ops: for each index exactly one of results[i] and errors[i] is
// meaningful, depending on whether errors[i] is nil.
func Concurrent[T any](ops []Op[T], max_concurrent int) ([]T, []error) {
	results := make([]T, len(ops))
	errors := make([]error, len(ops))

	var group errgroup.Group
	if max_concurrent > 0 {
		group.SetLimit(max_concurrent) // Go blocks until a slot frees up
	}

	for i, o := range ops {
		group.Go(func() error {
			// each goroutine writes only its own slot, so no lock is needed
			results[i], errors[i] = o()
			return nil
		})
	}

	group.Wait() // will wait until all done
	return results, errors
}

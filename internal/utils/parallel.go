package utils

import (
	"sync"
)

// ParallelTask represents a generic task that can be executed in parallel
type ParallelTask func() (interface{}, error)

// RunParallelTasks executes multiple tasks in parallel and returns results
// and errors in submission order.
func RunParallelTasks(tasks []ParallelTask) ([]interface{}, []error) {
	var wg sync.WaitGroup
	results := make([]interface{}, len(tasks))
	errors := make([]error, len(tasks))

	wg.Add(len(tasks))
	for i, task := range tasks {
		go func(index int, t ParallelTask) {
			defer wg.Done()
			result, err := t()
			results[index] = result
			errors[index] = err
		}(i, task)
	}

	wg.Wait()
	return results, errors
}

// FirstError returns the first non-nil error from a parallel run.
func FirstError(errs []error) error {
	for _, err := range errs {
		if err != nil {
			return err
		}
	}
	return nil
}

package msgchan

import "fmt"

// Race runs all tasks concurrently and returns the result of the first
// task to succeed (return nil error). Remaining tasks keep running; their
// results are dropped.
//
// If all tasks fail, Race returns the zero value and the last error
// observed. If tasks is empty, Race returns (zero, nil).
//
// Race panics if any element of tasks is nil.
func Race[T any](tasks ...func() (T, error)) (T, error) {
	var zero T
	if len(tasks) == 0 {
		return zero, nil
	}
	for i, fn := range tasks {
		if fn == nil {
			panic(fmt.Sprintf("msgchan: Race task[%d] must not be nil", i))
		}
	}

	// Room for every task, so none blocks after the winner is picked.
	results := New[outcome[T]](len(tasks), WithName("race"))
	defer results.Close()

	for _, fn := range tasks {
		go func() {
			v, err := fn()
			_ = results.Send(outcome[T]{v, err})
		}()
	}

	var lastErr error
	for range tasks {
		res, err := results.Receive()
		if err != nil {
			return zero, err
		}
		if res.err == nil {
			return res.val, nil
		}
		lastErr = res.err
	}
	return zero, lastErr
}

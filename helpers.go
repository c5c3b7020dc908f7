package msgchan

import "fmt"

// ForEach runs fn for each item on a pool of n workers and returns the
// joined errors of every failed call. It panics if n <= 0.
//
//	err := msgchan.ForEach(urls, 10, func(u string) error {
//	    return fetch(u)
//	})
func ForEach[T any](items []T, n int, fn func(item T) error, opts ...PoolOption) error {
	p := NewPool(n, opts...)
	for _, item := range items {
		if err := p.Submit(func() error { return fn(item) }); err != nil {
			_ = p.Close()
			return err
		}
	}
	return p.Close()
}

// Map runs fn for each item on a pool of n workers and collects the
// results in the same order as the input slice.
//
// On error, Map returns nil and the first error in input order. On
// success, it returns the results slice and nil.
//
//	prices, err := msgchan.Map(products, 5, func(p Product) (float64, error) {
//	    return fetchPrice(p)
//	})
func Map[T, R any](items []T, n int, fn func(item T) (R, error), opts ...PoolOption) ([]R, error) {
	p := NewPool(n, opts...)
	defer p.Close()

	pending := make([]*Result[R], len(items))
	for i, item := range items {
		r, err := SubmitResult(p, func() (R, error) { return fn(item) })
		if err != nil {
			return nil, err
		}
		pending[i] = r
	}

	results := make([]R, len(items))
	for i, r := range pending {
		v, err := r.Wait()
		if err != nil {
			return nil, fmt.Errorf("map[%d]: %w", i, err)
		}
		results[i] = v
	}
	return results, nil
}

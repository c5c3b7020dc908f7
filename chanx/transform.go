package chanx

import "github.com/baxromumarov/msgchan"

// Map transforms values from in by applying fn and sends the results
// to the returned channel. The output channel is closed when in is
// closed.
//
// If in is nil, returns a closed channel immediately.
func Map[T, U any](in *msgchan.Channel[T], fn func(T) U) *msgchan.Channel[U] {
	out := msgchan.New[U](0, msgchan.WithName("map"))

	if in == nil {
		_ = out.Close()
		return out
	}

	go func() {
		defer out.Close()
		for {
			v, err := in.Receive()
			if err != nil {
				return
			}
			if out.Send(fn(v)) != nil {
				return
			}
		}
	}()
	return out
}

// Filter passes values from in to the returned channel only if fn
// returns true. The output channel is closed when in is closed.
//
// If in is nil, returns a closed channel immediately.
func Filter[T any](in *msgchan.Channel[T], fn func(T) bool) *msgchan.Channel[T] {
	out := msgchan.New[T](0, msgchan.WithName("filter"))

	if in == nil {
		_ = out.Close()
		return out
	}

	go func() {
		defer out.Close()
		for {
			v, err := in.Receive()
			if err != nil {
				return
			}
			if !fn(v) {
				continue
			}
			if out.Send(v) != nil {
				return
			}
		}
	}()
	return out
}

package chanx

import (
	"slices"

	"github.com/baxromumarov/msgchan"
)

// Tee broadcasts every value from in to n independent output channels.
// All outputs receive every value, in the order they appear on in. The
// outputs are closed when in is closed.
//
// Warning: if any consumer is slow, it blocks the broadcast to all others.
// An output closed by its consumer is dropped. Tee panics if n is not
// positive.
func Tee[T any](in *msgchan.Channel[T], n int) []*msgchan.Channel[T] {
	if n <= 0 {
		panic("chanx: Tee requires n > 0")
	}

	outs := newOutputs[T]("tee", n)
	if in == nil {
		closeAll(outs)
		return outs
	}

	go func() {
		live := slices.Clone(outs)
		defer closeAll(outs)

		for len(live) > 0 {
			v, err := in.Receive()
			if err != nil {
				return
			}
			live = slices.DeleteFunc(live, func(ch *msgchan.Channel[T]) bool {
				return ch.Send(v) != nil
			})
		}
	}()
	return outs
}

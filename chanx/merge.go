package chanx

import (
	"slices"

	"github.com/baxromumarov/msgchan"
)

// Merge combines several input channels into a single output channel
// (fan-in). An input is dropped once it is closed; the output is closed
// when every input is gone. The order of values across inputs is not
// deterministic, values from one input keep their order.
//
// Merge stops early if the consumer closes the output.
func Merge[T any](chs ...*msgchan.Channel[T]) *msgchan.Channel[T] {
	out := msgchan.New[T](0, msgchan.WithName("merge"))

	live := slices.DeleteFunc(slices.Clone(chs), func(ch *msgchan.Channel[T]) bool {
		return ch == nil
	})
	if len(live) == 0 {
		_ = out.Close()
		return out
	}

	go func() {
		defer out.Close()

		var v T
		cases := make([]msgchan.Case, 0, len(live))
		for turn := 0; len(live) > 0; turn++ {
			// Rotate so a busy input cannot starve the rest.
			start := turn % len(live)
			cases = cases[:0]
			for i := range live {
				cases = append(cases, msgchan.RecvCase(live[(start+i)%len(live)], &v))
			}

			idx, err := msgchan.Select(cases...)
			if err != nil {
				if idx < 0 {
					return
				}
				dead := (start + idx) % len(live)
				live = slices.Delete(live, dead, dead+1)
				continue
			}
			if out.Send(v) != nil {
				return
			}
		}
	}()
	return out
}

// FanOut distributes values from in across n output channels. Each value
// goes to the first output with a waiting consumer, starting after the
// one that took the previous value, so idle consumers share the load
// round-robin. The outputs are closed when in is closed.
//
// An output closed by its consumer is dropped; FanOut stops once every
// output is gone. FanOut panics if n is not positive.
func FanOut[T any](in *msgchan.Channel[T], n int) []*msgchan.Channel[T] {
	if n <= 0 {
		panic("chanx: FanOut requires n > 0")
	}

	outs := newOutputs[T]("fanout", n)
	if in == nil {
		closeAll(outs)
		return outs
	}

	go func() {
		live := slices.Clone(outs)
		defer closeAll(outs)

		next := 0
		cases := make([]msgchan.Case, 0, n)
		for {
			v, err := in.Receive()
			if err != nil {
				return
			}

			for {
				if len(live) == 0 {
					return
				}
				start := next % len(live)
				cases = cases[:0]
				for i := range live {
					cases = append(cases, msgchan.SendCase(live[(start+i)%len(live)], v))
				}

				idx, err := msgchan.Select(cases...)
				pos := (start + idx) % len(live)
				if err != nil {
					live = slices.Delete(live, pos, pos+1)
					continue
				}
				next = pos + 1
				break
			}
		}
	}()
	return outs
}

func newOutputs[T any](name string, n int) []*msgchan.Channel[T] {
	outs := make([]*msgchan.Channel[T], n)
	for i := range outs {
		outs[i] = msgchan.New[T](0, msgchan.WithName(name))
	}
	return outs
}

func closeAll[T any](outs []*msgchan.Channel[T]) {
	for _, ch := range outs {
		_ = ch.Close()
	}
}

package chanx

import "github.com/baxromumarov/msgchan"

// First blocks until any of chs has a value and returns it together with
// the index of the channel it came from. Channels earlier in the list win
// when several are ready.
//
// If the lowest ready channel is closed First returns its index and a
// [*msgchan.SelectError] wrapping [msgchan.ErrClosed]. With no channels
// it returns -1 and [msgchan.ErrNoCases].
func First[T any](chs ...*msgchan.Channel[T]) (T, int, error) {
	var v T
	cases := make([]msgchan.Case, len(chs))
	for i, ch := range chs {
		cases[i] = msgchan.RecvCase(ch, &v)
	}

	idx, err := msgchan.Select(cases...)
	if err != nil {
		var zero T
		return zero, idx, err
	}
	return v, idx, nil
}

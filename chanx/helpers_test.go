package chanx

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/baxromumarov/msgchan"
)

// source returns a rendezvous channel that yields vals and then closes.
// Each Send waits for its value to be taken, so nothing is discarded.
func source[T any](vals ...T) *msgchan.Channel[T] {
	ch := msgchan.New[T](0)
	go func() {
		defer ch.Close()
		for _, v := range vals {
			if ch.Send(v) != nil {
				return
			}
		}
	}()
	return ch
}

// collect receives from ch until it closes, failing the test after d.
func collect[T any](t *testing.T, ch *msgchan.Channel[T], d time.Duration) []T {
	t.Helper()
	done := make(chan []T, 1)
	go func() {
		var got []T
		for {
			v, err := ch.Receive()
			if err != nil {
				done <- got
				return
			}
			got = append(got, v)
		}
	}()
	select {
	case got := <-done:
		return got
	case <-time.After(d):
		require.FailNow(t, "channel was not closed in time")
		return nil
	}
}

func seq(n int) []int {
	out := make([]int, n)
	for i := range out {
		out[i] = i
	}
	return out
}

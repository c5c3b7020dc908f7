package chanx

import "github.com/baxromumarov/msgchan"

// Drain receives and discards values from ch until it is closed and
// returns how many it took. Use it to unblock a producer during shutdown.
func Drain[T any](ch *msgchan.Channel[T]) int {
	n := 0
	for {
		if _, err := ch.Receive(); err != nil {
			return n
		}
		n++
	}
}

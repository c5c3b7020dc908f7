// Package msgchan provides a goroutine-safe message channel with explicit
// close and destroy steps, and a Select over any mix of channel operations.
//
// # Channels
//
// [New] creates a [Channel] with a fixed capacity. Capacity zero creates a
// rendezvous channel where a value passes straight from a sender to a
// receiver:
//
//	jobs := msgchan.New[Job](16, msgchan.WithName("jobs"))
//	if err := jobs.Send(j); errors.Is(err, msgchan.ErrClosed) {
//	    // shutting down
//	}
//	j, err := jobs.Receive()
//
// [Channel.Send] and [Channel.Receive] block; [Channel.TrySend] and
// [Channel.TryReceive] never do and report [ErrFull] or [ErrEmpty]
// instead.
//
// # Close and Destroy
//
// [Channel.Close] is the only way to end a blocked call. It wakes every
// blocked sender, receiver and [Select] on the channel, discards values
// still buffered, and makes every later operation return [ErrClosed].
// Closing twice returns ErrClosed.
//
// [Channel.Destroy] releases a closed channel. It refuses with
// [ErrDestroy] while the channel is open. Callers must make sure no
// goroutine is still using the channel; this is not detected.
//
// # Select
//
// [Select] takes cases built with [SendCase] and [RecvCase] and performs
// exactly one of them:
//
//	var n int
//	var s string
//	i, err := msgchan.Select(
//	    msgchan.RecvCase(numbers, &n),
//	    msgchan.RecvCase(words, &s),
//	)
//
// Cases are scanned in order and the lowest ready index wins. A closed
// channel encountered during the scan ends the Select with a
// [*SelectError] carrying its index. [TrySelect] is the non-blocking form.
//
// # Errors
//
// Operations return sentinel errors: [ErrClosed], [ErrFull], [ErrEmpty],
// [ErrDestroy], and failures wrapping [ErrGeneric]. [StatusOf] maps any of
// them to a [Status].
//
// # Built on channels
//
// [Semaphore] and [Pool] are small primitives built on [Channel].
// [SubmitResult] returns a typed [Result] for a pool task, and [ForEach],
// [Map] and [Race] cover common batch shapes. The
// [github.com/baxromumarov/msgchan/chanx] subpackage provides fan-in,
// fan-out and pipeline helpers built on [Select], and
// [github.com/baxromumarov/msgchan/metrics] exports channel statistics to
// Prometheus.
package msgchan

// Package chanx builds pipelines out of [msgchan.Channel] values.
//
// Every combinator starts one goroutine and hands back rendezvous output
// channels. A stage's send returns only once a consumer has taken the
// value, so when a stage closes its outputs after the inputs run dry
// nothing is lost:
//
//   - [Merge]: fan-in that combines several channels into one.
//   - [FanOut]: distributes values from one channel across N outputs.
//   - [Tee]: delivers every value to N outputs.
//   - [Map]: transforms values through a function.
//   - [Filter]: passes only values matching a predicate.
//   - [First]: returns the first value available on any of several channels.
//   - [Drain]: discards remaining values to unblock producers.
//
// Close discards buffered values, so a producer feeding a stage through a
// buffered channel should close it only once the stage has drained it, or
// feed the stage through a rendezvous channel.
//
// Stages end when their inputs close. A consumer that closes an output
// early makes the stage drop that output, or stop when it has none left.
package chanx

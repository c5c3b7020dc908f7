package msgchan_test

import (
	"fmt"
	"testing"

	"github.com/baxromumarov/msgchan"
)

func BenchmarkSendReceive(b *testing.B) {
	for _, capacity := range []int{0, 1, 64} {
		b.Run(fmt.Sprintf("cap=%d", capacity), func(b *testing.B) {
			b.ReportAllocs()
			ch := msgchan.New[int](capacity)
			go func() {
				for {
					if _, err := ch.Receive(); err != nil {
						return
					}
				}
			}()
			for i := 0; i < b.N; i++ {
				_ = ch.Send(i)
			}
			_ = ch.Close()
		})
	}
}

// BenchmarkNativeChan is the baseline: a built-in buffered channel.
func BenchmarkNativeChan(b *testing.B) {
	for _, capacity := range []int{0, 1, 64} {
		b.Run(fmt.Sprintf("cap=%d", capacity), func(b *testing.B) {
			b.ReportAllocs()
			ch := make(chan int, capacity)
			go func() {
				for range ch {
				}
			}()
			for i := 0; i < b.N; i++ {
				ch <- i
			}
			close(ch)
		})
	}
}

func BenchmarkTrySendTryReceive(b *testing.B) {
	b.ReportAllocs()
	ch := msgchan.New[int](1)
	for i := 0; i < b.N; i++ {
		_ = ch.TrySend(i)
		_, _ = ch.TryReceive()
	}
}

func BenchmarkSelect(b *testing.B) {
	for _, n := range []int{1, 4, 16} {
		b.Run(fmt.Sprintf("cases=%d", n), func(b *testing.B) {
			b.ReportAllocs()
			chs := make([]*msgchan.Channel[int], n)
			for i := range chs {
				chs[i] = msgchan.New[int](1)
			}
			last := chs[n-1]
			cases := make([]msgchan.Case, n)
			for i, ch := range chs {
				cases[i] = msgchan.RecvCase(ch, nil)
			}
			b.ResetTimer()
			for i := 0; i < b.N; i++ {
				_ = last.Send(i)
				_, _ = msgchan.Select(cases...)
			}
		})
	}
}

package msgchan_test

import (
	"errors"
	"fmt"

	"github.com/baxromumarov/msgchan"
)

func ExampleChannel() {
	ch := msgchan.New[int](2)

	_ = ch.Send(1)
	_ = ch.Send(2)
	fmt.Println(ch.TrySend(3))

	v, _ := ch.Receive()
	fmt.Println(v)

	_ = ch.Close()
	_, err := ch.Receive()
	fmt.Println(errors.Is(err, msgchan.ErrClosed))
	fmt.Println(ch.Destroy())
	// Output:
	// msgchan: channel is full
	// 1
	// true
	// <nil>
}

func ExampleChannel_rendezvous() {
	ch := msgchan.New[string](0)

	go func() {
		_ = ch.Send("hello")
	}()

	v, _ := ch.Receive()
	fmt.Println(v)
	// Output: hello
}

func ExampleSelect() {
	numbers := msgchan.New[int](1)
	words := msgchan.New[string](1)
	_ = words.Send("ready")

	var (
		n int
		s string
	)
	i, err := msgchan.Select(
		msgchan.RecvCase(numbers, &n),
		msgchan.RecvCase(words, &s),
	)
	fmt.Println(i, s, err)
	// Output: 1 ready <nil>
}

func ExampleSelect_closed() {
	a := msgchan.New[int](1)
	b := msgchan.New[int](1)
	_ = b.Close()

	i, err := msgchan.Select(msgchan.RecvCase(a, nil), msgchan.SendCase(b, 1))
	idx, _ := msgchan.IndexOf(err)
	fmt.Println(i, idx, msgchan.StatusOf(err))
	// Output: 1 1 closed
}

func ExampleNewPool() {
	p := msgchan.NewPool(2)
	results := msgchan.New[int](4)

	for i := 1; i <= 4; i++ {
		_ = p.Submit(func() error {
			return results.Send(i * i)
		})
	}
	_ = p.Close()

	sum := 0
	for range 4 {
		v, _ := results.Receive()
		sum += v
	}
	fmt.Println(sum)
	// Output: 30
}

func ExampleMap() {
	lengths, err := msgchan.Map([]string{"a", "bb", "ccc"}, 2, func(s string) (int, error) {
		return len(s), nil
	})
	fmt.Println(lengths, err)
	// Output: [1 2 3] <nil>
}

func ExampleRace() {
	v, err := msgchan.Race(
		func() (string, error) { return "", errors.New("mirror down") },
		func() (string, error) { return "primary", nil },
	)
	fmt.Println(v, err)
	// Output: primary <nil>
}

package msgchan

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type selectResult struct {
	idx int
	err error
}

func goSelect(cases ...Case) <-chan selectResult {
	out := make(chan selectResult, 1)
	go func() {
		idx, err := Select(cases...)
		out <- selectResult{idx, err}
	}()
	return out
}

func waitSelect(t *testing.T, ch <-chan selectResult) selectResult {
	t.Helper()
	select {
	case r := <-ch:
		return r
	case <-time.After(time.Second):
		t.Fatal("Select did not complete in time")
		return selectResult{}
	}
}

// waitRegistered polls until c has n select links, so a test knows a
// concurrent Select is parked.
func waitRegistered[T any](t *testing.T, c *Channel[T], n int) {
	t.Helper()
	require.Eventually(t, func() bool {
		return c.Stats().SelectWaiters == n
	}, time.Second, time.Millisecond)
}

func TestSelect_LowestReadyIndexWins(t *testing.T) {
	for range 100 {
		a := New[int](1)
		b := New[int](1)
		require.NoError(t, a.Send(9))

		var got int
		idx, err := Select(RecvCase(a, &got), SendCase(b, 1))
		require.NoError(t, err)
		require.Equal(t, 0, idx)
		require.Equal(t, 9, got)
		require.Equal(t, 0, b.Len(), "only one case may commit")
	}
}

func TestSelect_SkipsNotReady(t *testing.T) {
	a := New[int](1) // empty: recv not ready
	b := New[int](1)
	require.NoError(t, b.Send(0)) // full: send not ready
	c := New[string](1)

	var s string
	require.NoError(t, c.Send("hi"))

	idx, err := Select(RecvCase(a, nil), SendCase(b, 1), RecvCase(c, &s))
	require.NoError(t, err)
	assert.Equal(t, 2, idx)
	assert.Equal(t, "hi", s)
}

func TestSelect_ClosedChannelReportsIndex(t *testing.T) {
	a := New[int](1)
	b := New[int](1)
	require.NoError(t, b.Close())

	idx, err := Select(RecvCase(a, nil), SendCase(b, 1))
	assert.Equal(t, 1, idx)
	assert.ErrorIs(t, err, ErrClosed)

	var se *SelectError
	require.True(t, errors.As(err, &se))
	assert.Equal(t, 1, se.Index)
	assert.Equal(t, Send, se.Dir)
}

func TestSelect_ReadyBeforeClosedWins(t *testing.T) {
	a := New[int](1)
	require.NoError(t, a.Send(3))
	b := New[int](1)
	require.NoError(t, b.Close())

	idx, err := Select(RecvCase(a, nil), RecvCase(b, nil))
	require.NoError(t, err)
	assert.Equal(t, 0, idx)
}

func TestSelect_BlocksUntilSend(t *testing.T) {
	a := New[int](1)
	b := New[int](1)

	var got int
	res := goSelect(RecvCase(a, nil), RecvCase(b, &got))
	waitRegistered(t, b, 1)

	require.NoError(t, b.Send(42))

	r := waitSelect(t, res)
	require.NoError(t, r.err)
	assert.Equal(t, 1, r.idx)
	assert.Equal(t, 42, got)

	assert.Equal(t, 0, a.Stats().SelectWaiters, "select must deregister from every channel")
	assert.Equal(t, 0, b.Stats().SelectWaiters)
}

func TestSelect_BlocksUntilReceive(t *testing.T) {
	a := New[int](1)
	require.NoError(t, a.Send(1))

	res := goSelect(SendCase(a, 2))
	waitRegistered(t, a, 1)

	v, err := a.Receive()
	require.NoError(t, err)
	assert.Equal(t, 1, v)

	r := waitSelect(t, res)
	require.NoError(t, r.err)
	assert.Equal(t, 0, r.idx)

	v, err = a.Receive()
	require.NoError(t, err)
	assert.Equal(t, 2, v)
}

func TestSelect_BlocksUntilClose(t *testing.T) {
	a := New[int](1)
	b := New[int](1)

	res := goSelect(RecvCase(a, nil), RecvCase(b, nil))
	waitRegistered(t, a, 1)

	require.NoError(t, b.Close())

	r := waitSelect(t, res)
	assert.Equal(t, 1, r.idx)
	assert.ErrorIs(t, r.err, ErrClosed)
	assert.Equal(t, 0, a.Stats().SelectWaiters)
}

func TestSelect_ManyParkedSelectsAllWake(t *testing.T) {
	const n = 10
	a := New[int](n)

	results := make([]<-chan selectResult, n)
	for i := range results {
		results[i] = goSelect(RecvCase(a, nil))
	}
	waitRegistered(t, a, n)

	for i := range n {
		require.NoError(t, a.Send(i))
	}
	for _, res := range results {
		r := waitSelect(t, res)
		assert.NoError(t, r.err)
	}
	assert.Equal(t, 0, a.Len())
}

func TestSelect_WakesBlockedReceiver(t *testing.T) {
	a := New[int](1)

	got := make(chan int, 1)
	go func() {
		v, err := a.Receive()
		if err == nil {
			got <- v
		}
	}()
	time.Sleep(10 * time.Millisecond)

	idx, err := Select(SendCase(a, 7))
	require.NoError(t, err)
	assert.Equal(t, 0, idx)

	select {
	case v := <-got:
		assert.Equal(t, 7, v)
	case <-time.After(time.Second):
		t.Fatal("select send did not signal the blocked receiver")
	}
}

func TestSelect_MixedElementTypes(t *testing.T) {
	ints := New[int](1)
	strs := New[string](1)
	require.NoError(t, strs.Send("x"))

	var s string
	idx, err := Select(RecvCase(ints, nil), RecvCase(strs, &s))
	require.NoError(t, err)
	assert.Equal(t, 1, idx)
	assert.Equal(t, "x", s)
	assert.Equal(t, uint64(1), strs.Stats().SelectWins)
}

func TestSelect_GenericErrors(t *testing.T) {
	idx, err := Select()
	assert.Equal(t, -1, idx)
	assert.ErrorIs(t, err, ErrNoCases)

	var nilChan *Channel[int]
	idx, err = Select(RecvCase(New[int](1), nil), RecvCase(nilChan, nil))
	assert.Equal(t, 1, idx)
	assert.ErrorIs(t, err, ErrNilChannel)
	assert.Equal(t, GenError, StatusOf(err))

	idx, err = Select(nil)
	assert.Equal(t, 0, idx)
	assert.ErrorIs(t, err, ErrNilCase)

	d := New[int](1)
	require.NoError(t, d.Close())
	require.NoError(t, d.Destroy())
	idx, err = Select(SendCase(d, 1))
	assert.Equal(t, 0, idx)
	assert.ErrorIs(t, err, ErrDestroyed)
}

func TestSelect_CloseThenDestroyReleasesLinks(t *testing.T) {
	a := New[int](1)
	b := New[int](1)

	res := goSelect(RecvCase(a, nil), RecvCase(b, nil))
	waitRegistered(t, b, 1)

	require.NoError(t, b.Close())
	r := waitSelect(t, res)
	assert.ErrorIs(t, r.err, ErrClosed)
	require.NoError(t, b.Destroy())
	assert.Equal(t, 0, a.Stats().SelectWaiters)
}

func TestTrySelect(t *testing.T) {
	a := New[int](1)
	b := New[int](1)

	idx, err := TrySelect(RecvCase(a, nil), RecvCase(b, nil))
	assert.Equal(t, -1, idx)
	assert.ErrorIs(t, err, ErrNotReady)
	assert.Equal(t, NotReady, StatusOf(err))

	require.NoError(t, b.Send(1))
	idx, err = TrySelect(RecvCase(a, nil), RecvCase(b, nil))
	require.NoError(t, err)
	assert.Equal(t, 1, idx)

	require.NoError(t, a.Close())
	idx, err = TrySelect(RecvCase(a, nil), SendCase(b, 1))
	assert.Equal(t, 0, idx)
	assert.ErrorIs(t, err, ErrClosed)
}

func TestSelect_DuplicateChannel(t *testing.T) {
	a := New[int](1)
	res := goSelect(RecvCase(a, nil), RecvCase(a, nil))
	waitRegistered(t, a, 2)

	require.NoError(t, a.Send(1))
	r := waitSelect(t, res)
	require.NoError(t, r.err)
	assert.Equal(t, 0, r.idx)
	assert.Equal(t, 0, a.Stats().SelectWaiters)
}

func TestDir_String(t *testing.T) {
	assert.Equal(t, "send", Send.String())
	assert.Equal(t, "recv", Recv.String())
	assert.Equal(t, "unknown", Dir(0).String())
	assert.Equal(t, "send", fmt.Sprint(SendCase(New[int](1), 0).Dir()))
}

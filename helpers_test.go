package msgchan

import (
	"errors"
	"strconv"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestForEach(t *testing.T) {
	t.Run("empty slice", func(t *testing.T) {
		err := ForEach([]int{}, 2, func(item int) error { return nil })
		if err != nil {
			t.Errorf("expected no error, got %v", err)
		}
	})

	t.Run("every item visited", func(t *testing.T) {
		var mu sync.Mutex
		seen := map[int]bool{}
		err := ForEach([]int{1, 2, 3, 4, 5}, 3, func(item int) error {
			mu.Lock()
			seen[item] = true
			mu.Unlock()
			return nil
		})
		require.NoError(t, err)
		assert.Len(t, seen, 5)
	})

	t.Run("errors are joined", func(t *testing.T) {
		errA := errors.New("a")
		errB := errors.New("b")
		err := ForEach([]error{nil, errA, nil, errB}, 2, func(item error) error { return item })
		assert.ErrorIs(t, err, errA)
		assert.ErrorIs(t, err, errB)
	})

	t.Run("respects worker count", func(t *testing.T) {
		var active, peak atomic.Int32
		err := ForEach(make([]struct{}, 50), 2, func(struct{}) error {
			cur := active.Add(1)
			for {
				old := peak.Load()
				if cur <= old || peak.CompareAndSwap(old, cur) {
					break
				}
			}
			active.Add(-1)
			return nil
		}, WithQueueSize(0))
		require.NoError(t, err)
		assert.LessOrEqual(t, peak.Load(), int32(2))
	})
}

func TestMap(t *testing.T) {
	t.Run("keeps input order", func(t *testing.T) {
		got, err := Map([]int{3, 1, 2}, 3, func(v int) (string, error) {
			return strconv.Itoa(v * 10), nil
		})
		require.NoError(t, err)
		assert.Equal(t, []string{"30", "10", "20"}, got)
	})

	t.Run("empty", func(t *testing.T) {
		got, err := Map([]int(nil), 1, func(v int) (int, error) { return v, nil })
		require.NoError(t, err)
		assert.Empty(t, got)
	})

	t.Run("first error in input order", func(t *testing.T) {
		boom := errors.New("boom")
		got, err := Map([]int{0, 1, 2}, 2, func(v int) (int, error) {
			if v > 0 {
				return 0, boom
			}
			return v, nil
		})
		assert.Nil(t, got)
		assert.ErrorIs(t, err, boom)
		assert.Contains(t, err.Error(), "map[1]")
	})

	t.Run("panic becomes error", func(t *testing.T) {
		_, err := Map([]int{1}, 1, func(int) (int, error) { panic("bad item") })
		var pe *PanicError
		require.ErrorAs(t, err, &pe)
		assert.Equal(t, "bad item", pe.Value)
	})
}

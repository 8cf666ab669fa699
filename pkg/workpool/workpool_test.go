package workpool

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSplit(t *testing.T) {
	items := []int{1, 2, 3, 4, 5, 6, 7}

	chunks := Split(items, 3)
	require.Len(t, chunks, 3)
	assert.Equal(t, []int{1, 2, 3}, chunks[0])
	assert.Equal(t, []int{4, 5}, chunks[1])
	assert.Equal(t, []int{6, 7}, chunks[2])

	chunks = Split([]int{1, 2}, 4)
	require.Len(t, chunks, 4)
	assert.Equal(t, []int{1}, chunks[0])
	assert.Equal(t, []int{2}, chunks[1])
	assert.Empty(t, chunks[2])
	assert.Empty(t, chunks[3])
}

func TestSingletons(t *testing.T) {
	chunks := Singletons([]string{"a", "b"})
	assert.Equal(t, [][]string{{"a"}, {"b"}}, chunks)
}

func TestRun_PreservesOrderAndBoundsConcurrency(t *testing.T) {
	var running, peak int32
	items := make([]int, 50)
	for i := range items {
		items[i] = i
	}

	out, err := Run(context.Background(), 4, items, func(_ context.Context, n int) (int, error) {
		cur := atomic.AddInt32(&running, 1)
		for {
			p := atomic.LoadInt32(&peak)
			if cur <= p || atomic.CompareAndSwapInt32(&peak, p, cur) {
				break
			}
		}
		defer atomic.AddInt32(&running, -1)
		return n * 2, nil
	})
	require.NoError(t, err)
	require.Len(t, out, 50)
	for i, v := range out {
		assert.Equal(t, i*2, v)
	}
	assert.LessOrEqual(t, atomic.LoadInt32(&peak), int32(4))
}

func TestRun_ReturnsFirstError(t *testing.T) {
	boom := errors.New("boom")
	_, err := Run(context.Background(), 2, []int{1, 2, 3}, func(_ context.Context, n int) (int, error) {
		if n == 2 {
			return 0, boom
		}
		return n, nil
	})
	assert.ErrorIs(t, err, boom)
}

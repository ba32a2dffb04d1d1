package containers

import (
	"testing"

	"github.com/spaghettifunk/textgem/engine/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRingQueueFIFO(t *testing.T) {
	rq := NewRingQueue[int](3)
	assert.True(t, rq.IsEmpty())

	require.NoError(t, rq.Enqueue(1))
	require.NoError(t, rq.Enqueue(2))
	require.NoError(t, rq.Enqueue(3))
	assert.True(t, rq.IsFull())
	assert.ErrorIs(t, rq.Enqueue(4), core.ErrQueueFull)

	v, err := rq.Peek()
	require.NoError(t, err)
	assert.Equal(t, 1, v)

	for _, want := range []int{1, 2, 3} {
		got, err := rq.Dequeue()
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}
	_, err = rq.Dequeue()
	assert.ErrorIs(t, err, core.ErrQueueEmpty)
	_, err = rq.Peek()
	assert.ErrorIs(t, err, core.ErrQueueEmpty)
}

func TestRingQueuePushOverwritesOldest(t *testing.T) {
	rq := NewRingQueue[string](2)
	rq.Push("a")
	rq.Push("b")
	rq.Push("c")

	assert.Equal(t, 2, rq.Len())
	assert.Equal(t, []string{"b", "c"}, rq.Items())

	// Wrap around a few more times.
	rq.Push("d")
	v, err := rq.Dequeue()
	require.NoError(t, err)
	assert.Equal(t, "c", v)
	rq.Push("e")
	assert.Equal(t, []string{"d", "e"}, rq.Items())
}

func TestRingQueueClear(t *testing.T) {
	rq := NewRingQueue[int](0)
	assert.Equal(t, 1, rq.Cap())
	rq.Push(7)
	rq.Clear()
	assert.True(t, rq.IsEmpty())
	assert.Empty(t, rq.Items())
	require.NoError(t, rq.Enqueue(8))
	assert.Equal(t, []int{8}, rq.Items())
}

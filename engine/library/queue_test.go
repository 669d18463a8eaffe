package library

import (
	"testing"

	"github.com/go-playground/assert/v2"
)

func TestQueueGrowsAndKeepsOrder(t *testing.T) {
	q := NewQueue[int](2)
	_, ok := q.Pop()
	assert.Equal(t, false, ok)

	n := 100
	// interleave pushes and pops so the ring wraps before it grows
	q.Push(-1)
	q.Pop()
	for i := 0; i < n; i++ {
		q.Push(i)
	}
	assert.Equal(t, n, q.Len())

	front, ok := q.Peek()
	assert.Equal(t, true, ok)
	assert.Equal(t, 0, front)

	for i := 0; i < n; i++ {
		v, ok := q.Pop()
		assert.Equal(t, true, ok)
		assert.Equal(t, i, v)
	}
	assert.Equal(t, 0, q.Len())
	_, ok = q.Peek()
	assert.Equal(t, false, ok)
}

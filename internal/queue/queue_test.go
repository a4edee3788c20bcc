package queue

import (
	"testing"

	"github.com/retroenv/retrogolib/assert"
)

func TestPushPopFIFOOrder(t *testing.T) {
	q := New()
	q.Push(0x10)
	q.Push(0x20)
	q.Push(0x30)

	a, ok := q.Pop()
	assert.Equal(t, true, ok)
	assert.Equal(t, uint16(0x10), a)

	a, ok = q.Pop()
	assert.Equal(t, true, ok)
	assert.Equal(t, uint16(0x20), a)
}

func TestPushDeduplicates(t *testing.T) {
	q := New()
	q.Push(0x10)
	q.Push(0x10)
	assert.Equal(t, 1, q.Len())
}

func TestSeenSurvivesPop(t *testing.T) {
	q := New()
	q.Push(0x10)
	_, _ = q.Pop()
	assert.Equal(t, true, q.Seen(0x10))
	q.Push(0x10)
	assert.Equal(t, 0, q.Len())
}

func TestPopEmpty(t *testing.T) {
	q := New()
	_, ok := q.Pop()
	assert.Equal(t, false, ok)
}

// Package queue implements the address worklist that drives pass 1 of the analysis pipeline:
// a FIFO of addresses awaiting decode, with membership tracked so the same address is never
// queued twice.
package queue

import "github.com/retroenv/retrogolib/set"

// Queue is a FIFO of pending addresses backed by a plain slice, with a set guarding against
// duplicate entries. Addresses are never removed from the membership set once added, so an
// address already processed is never re-queued even after Pop drains it from the slice.
type Queue struct {
	pending []uint16
	added   set.Set[uint16]
}

// New creates an empty queue.
func New() *Queue {
	return &Queue{
		added: set.New[uint16](),
	}
}

// Push adds addr to the queue unless it has already been added, ever.
func (q *Queue) Push(addr uint16) {
	if q.added.Contains(addr) {
		return
	}
	q.added.Add(addr)
	q.pending = append(q.pending, addr)
}

// Pop removes and returns the oldest pending address. The second return is false if the queue
// is empty.
func (q *Queue) Pop() (uint16, bool) {
	if len(q.pending) == 0 {
		return 0, false
	}
	addr := q.pending[0]
	q.pending = q.pending[1:]
	return addr, true
}

// Len returns the number of addresses still pending.
func (q *Queue) Len() int {
	return len(q.pending)
}

// Seen reports whether addr has ever been pushed, whether or not it has since been popped.
func (q *Queue) Seen(addr uint16) bool {
	return q.added.Contains(addr)
}

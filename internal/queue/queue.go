// Package queue provides the unbounded multi-producer/single-consumer FIFO
// of records awaiting delivery.
//
// Producers enqueue without blocking; the flusher removes entries only by a
// full atomic drain, never individually. Entries enqueued concurrently with
// a drain land in either that drain or the next one, exactly once.
package queue

import (
	"sync"

	"github.com/alembic-io/alembic/internal/record"
)

// Entry is one queued submission: the record plus its content fingerprint,
// which rides along as the wire correlation id.
type Entry struct {
	Fingerprint string
	Record      record.Record
}

// DeliveryQueue is a thread-safe FIFO of entries awaiting transmission.
type DeliveryQueue struct {
	// entries holds queued submissions in enqueue order
	entries []Entry
	// mutex protects entries against concurrent producers and the flusher
	mutex sync.Mutex
}

// NewDeliveryQueue creates an empty delivery queue.
func NewDeliveryQueue() *DeliveryQueue {
	return &DeliveryQueue{}
}

// Enqueue appends an entry. Safe to call from arbitrarily many concurrent
// producers; never blocks beyond the internal lock.
func (q *DeliveryQueue) Enqueue(e Entry) {
	q.mutex.Lock()
	defer q.mutex.Unlock()

	q.entries = append(q.entries, e)
}

// DrainAll removes and returns every entry currently present, in enqueue
// order. The swap is atomic with respect to concurrent enqueues: an entry
// added during a drain is returned by exactly one drain, never duplicated
// and never lost. Returns nil when the queue is empty.
func (q *DeliveryQueue) DrainAll() []Entry {
	q.mutex.Lock()
	defer q.mutex.Unlock()

	drained := q.entries
	q.entries = nil

	return drained
}

// Len returns the number of entries currently queued.
func (q *DeliveryQueue) Len() int {
	q.mutex.Lock()
	defer q.mutex.Unlock()

	return len(q.entries)
}

// Package queue provides the bounded FIFO handing text items from the
// line sources to the speech worker.
package queue

import (
	"errors"
	"sync"
	"time"
)

var (
	// ErrQueueClosed is returned when Enqueue is called on a closed queue.
	ErrQueueClosed = errors.New("queue is closed")
)

// Queue is a thread-safe bounded FIFO of text items. Enqueue blocks while
// the queue is full; Dequeue blocks while it is empty. Closing the queue
// lets consumers drain the remaining items and then stop.
type Queue struct {
	mu       sync.Mutex
	notEmpty *sync.Cond
	notFull  *sync.Cond

	items   []string
	maxSize int
	closed  bool

	stats Stats
}

// Stats tracks queue activity.
type Stats struct {
	TotalEnqueued int64
	TotalDequeued int64
	PeakSize      int
	LastEnqueue   time.Time
	LastDequeue   time.Time
}

// New creates a queue holding at most maxSize items.
func New(maxSize int) *Queue {
	if maxSize < 1 {
		maxSize = 1
	}
	q := &Queue{
		items:   make([]string, 0, maxSize),
		maxSize: maxSize,
	}
	q.notEmpty = sync.NewCond(&q.mu)
	q.notFull = sync.NewCond(&q.mu)
	return q
}

// Enqueue appends an item, blocking while the queue is full.
// It returns ErrQueueClosed once the queue has been closed.
func (q *Queue) Enqueue(item string) error {
	q.mu.Lock()
	defer q.mu.Unlock()

	for len(q.items) >= q.maxSize && !q.closed {
		q.notFull.Wait()
	}
	if q.closed {
		return ErrQueueClosed
	}

	q.items = append(q.items, item)
	q.stats.TotalEnqueued++
	q.stats.LastEnqueue = time.Now()
	if len(q.items) > q.stats.PeakSize {
		q.stats.PeakSize = len(q.items)
	}

	q.notEmpty.Signal()
	return nil
}

// Dequeue removes the oldest item, blocking while the queue is empty.
// The second return value is false once the queue is closed and drained.
func (q *Queue) Dequeue() (string, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()

	for len(q.items) == 0 && !q.closed {
		q.notEmpty.Wait()
	}
	if len(q.items) == 0 {
		return "", false
	}

	item := q.items[0]
	q.items = q.items[1:]
	q.stats.TotalDequeued++
	q.stats.LastDequeue = time.Now()

	q.notFull.Signal()
	return item, true
}

// Close marks the queue closed and wakes all blocked producers and
// consumers. Items already queued remain available to Dequeue.
func (q *Queue) Close() {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.closed {
		return
	}
	q.closed = true
	q.notEmpty.Broadcast()
	q.notFull.Broadcast()
}

// Drain discards all pending items and returns how many were dropped.
func (q *Queue) Drain() int {
	q.mu.Lock()
	defer q.mu.Unlock()

	dropped := len(q.items)
	q.items = q.items[:0]
	q.notFull.Broadcast()
	return dropped
}

// Len returns the number of pending items.
func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.items)
}

// Closed reports whether the queue has been closed.
func (q *Queue) Closed() bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.closed
}

// GetStats returns a snapshot of the queue statistics.
func (q *Queue) GetStats() Stats {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.stats
}

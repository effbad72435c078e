// Package queue defines the contract for enqueuing and consuming match
// results awaiting rating.
package queue

import (
	"context"
	"sync"

	"github.com/erdostom/openskill/internal/domain/model"
	"github.com/erdostom/openskill/pkg/metrics"
)

// Default queue configuration.
const defaultCapacity = 100000

// Match is the payload type flowing through the queue.
type Match = model.MatchResult

// Queue provides non-blocking enqueue and channel-based dequeue semantics.
type Queue interface {
	// Enqueue adds a match to the queue.
	// Returns false if the queue is full and the match was not enqueued.
	Enqueue(ctx context.Context, m Match) bool

	// Dequeue returns a channel that receives matches as they become
	// available. The channel is closed when the queue is closed.
	Dequeue(ctx context.Context) <-chan Match

	// Len returns the current number of queued matches.
	Len(ctx context.Context) int

	// Close shuts down the queue; no further enqueues are accepted and
	// the dequeue channel drains then closes.
	Close() error

	// IsClosed reports whether the queue has been closed.
	IsClosed() bool
}

// InMemoryQueue implements Queue using a buffered channel.
type InMemoryQueue struct {
	matches  chan Match
	capacity int
	mu       sync.RWMutex
	closed   bool
}

// NewInMemoryQueue creates a new in-memory queue.
func NewInMemoryQueue(opts ...Option) *InMemoryQueue {
	q := &InMemoryQueue{
		capacity: defaultCapacity,
	}
	for _, opt := range opts {
		opt(q)
	}
	q.matches = make(chan Match, q.capacity)

	metrics.UpdateQueueCapacity(q.capacity)
	metrics.UpdateQueueSize(0)
	metrics.UpdateQueueUtilization(0)

	return q
}

// Enqueue adds a match without blocking; a full or closed queue rejects it.
func (q *InMemoryQueue) Enqueue(_ context.Context, m Match) bool {
	q.mu.RLock()
	defer q.mu.RUnlock()
	if q.closed {
		metrics.RecordQueueRejection()
		return false
	}
	select {
	case q.matches <- m:
		metrics.RecordQueueEnqueue()
		q.updateGauges()
		return true
	default:
		metrics.RecordQueueRejection()
		return false
	}
}

// Dequeue returns the receive channel. Consumers should also watch ctx.
func (q *InMemoryQueue) Dequeue(_ context.Context) <-chan Match {
	return q.matches
}

// Len returns the number of queued matches.
func (q *InMemoryQueue) Len(_ context.Context) int {
	return len(q.matches)
}

// Close shuts the queue down.
func (q *InMemoryQueue) Close() error {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.closed {
		return nil
	}
	q.closed = true
	close(q.matches)
	return nil
}

// IsClosed reports whether the queue has been closed.
func (q *InMemoryQueue) IsClosed() bool {
	q.mu.RLock()
	defer q.mu.RUnlock()
	return q.closed
}

func (q *InMemoryQueue) updateGauges() {
	size := len(q.matches)
	metrics.UpdateQueueSize(size)
	metrics.UpdateQueueUtilization(float64(size) / float64(q.capacity))
}

// Package queue defines the contract for distributing per-player batches
// to evaluation workers.
//
// The unit of work is a whole player batch, not a single stat line:
// chronological ordering within a player must never be split across
// workers, while different players are independent.
package queue

import (
	"context"
	"sync"

	"github.com/jnpushkin/nba-processor/internal/domain/model"
	"github.com/jnpushkin/nba-processor/pkg/metrics"
)

// Default queue configuration constants.
const (
	defaultQueueCapacity = 4096
)

// Batch is the payload type flowing through the queue.
type Batch = model.PlayerBatch

// Queue provides non-blocking enqueue and channel-based dequeue semantics.
type Queue interface {
	// Enqueue adds a batch to the queue.
	// Returns false if the queue is full or closed and the batch was not enqueued.
	Enqueue(ctx context.Context, b Batch) bool

	// Dequeue returns a channel that receives batches as they become
	// available. The channel is closed when the queue is closed and drained.
	Dequeue(ctx context.Context) <-chan Batch

	// Len returns the current number of queued batches.
	Len(ctx context.Context) int

	// Close stops accepting new batches; queued batches remain consumable.
	Close() error

	// IsClosed reports whether the queue has been closed.
	IsClosed() bool
}

// InMemoryQueue implements Queue using a buffered channel.
type InMemoryQueue struct {
	batches  chan Batch
	capacity int

	mu     sync.RWMutex
	closed bool
}

// NewInMemoryQueue creates a new in-memory queue with configuration options.
func NewInMemoryQueue(opts ...Option) *InMemoryQueue {
	q := &InMemoryQueue{
		capacity: defaultQueueCapacity,
	}
	for _, opt := range opts {
		opt(q)
	}

	q.batches = make(chan Batch, q.capacity)

	metrics.UpdateQueueCapacity(q.capacity)
	metrics.UpdateQueueSize(0)

	return q
}

// Enqueue adds a batch to the queue.
func (q *InMemoryQueue) Enqueue(ctx context.Context, b Batch) bool {
	q.mu.RLock()
	defer q.mu.RUnlock()

	if q.closed {
		metrics.RecordQueueEnqueueError()
		return false
	}

	select {
	case q.batches <- b:
		metrics.RecordQueueEnqueue()
		metrics.UpdateQueueSize(len(q.batches))
		return true
	case <-ctx.Done():
		metrics.RecordQueueEnqueueError()
		return false
	default:
		metrics.RecordQueueEnqueueError()
		return false // queue is full
	}
}

// Dequeue returns a channel that receives batches as they become available.
func (q *InMemoryQueue) Dequeue(ctx context.Context) <-chan Batch {
	out := make(chan Batch)
	go func() {
		defer close(out)
		for b := range q.batches {
			select {
			case out <- b:
				metrics.RecordQueueDequeue()
				metrics.UpdateQueueSize(len(q.batches))
			case <-ctx.Done():
				return
			}
		}
	}()
	return out
}

// Len returns the current number of queued batches.
func (q *InMemoryQueue) Len(ctx context.Context) int {
	return len(q.batches)
}

// Close stops accepting new batches.
func (q *InMemoryQueue) Close() error {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.closed {
		return nil
	}
	close(q.batches)
	q.closed = true
	return nil
}

// IsClosed reports whether the queue has been closed.
func (q *InMemoryQueue) IsClosed() bool {
	q.mu.RLock()
	defer q.mu.RUnlock()
	return q.closed
}

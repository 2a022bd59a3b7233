package queue

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/jnpushkin/nba-processor/internal/domain/model"
)

func batchFor(playerID string) Batch {
	return Batch{
		PlayerID: playerID,
		Lines: []model.GameStatLine{
			{PlayerID: playerID, GameID: playerID + "-g1"},
		},
	}
}

func TestInMemoryQueue_BasicOperations(t *testing.T) {
	q := NewInMemoryQueue(WithCapacity(2))
	ctx := context.Background()

	// Test empty queue
	if l := q.Len(ctx); l != 0 {
		t.Errorf("expected length 0, got %d", l)
	}

	// Test enqueue
	if !q.Enqueue(ctx, batchFor("p1")) {
		t.Error("expected enqueue to succeed")
	}

	if l := q.Len(ctx); l != 1 {
		t.Errorf("expected length 1, got %d", l)
	}

	// Test dequeue
	batchChan := q.Dequeue(ctx)
	b := <-batchChan
	if b.PlayerID != "p1" {
		t.Errorf("expected p1, got %v", b.PlayerID)
	}

	if l := q.Len(ctx); l != 0 {
		t.Errorf("expected length 0, got %d", l)
	}
}

func TestInMemoryQueue_Capacity(t *testing.T) {
	q := NewInMemoryQueue(WithCapacity(2))
	ctx := context.Background()

	if !q.Enqueue(ctx, batchFor("p1")) {
		t.Error("expected enqueue to succeed")
	}
	if !q.Enqueue(ctx, batchFor("p2")) {
		t.Error("expected enqueue to succeed")
	}

	// Try to enqueue when full
	if q.Enqueue(ctx, batchFor("p3")) {
		t.Error("expected enqueue to fail when full")
	}

	if l := q.Len(ctx); l != 2 {
		t.Errorf("expected length 2, got %d", l)
	}
}

func TestInMemoryQueue_Close(t *testing.T) {
	q := NewInMemoryQueue(WithCapacity(4))
	ctx := context.Background()

	if !q.Enqueue(ctx, batchFor("p1")) {
		t.Error("expected enqueue to succeed")
	}

	if err := q.Close(); err != nil {
		t.Errorf("unexpected close error: %v", err)
	}
	if !q.IsClosed() {
		t.Error("expected queue to report closed")
	}

	// Closing again is a no-op
	if err := q.Close(); err != nil {
		t.Errorf("unexpected error on second close: %v", err)
	}

	// Enqueue after close fails
	if q.Enqueue(ctx, batchFor("p2")) {
		t.Error("expected enqueue to fail after close")
	}

	// Queued batches remain consumable, then the channel closes
	batchChan := q.Dequeue(ctx)
	b, ok := <-batchChan
	if !ok || b.PlayerID != "p1" {
		t.Errorf("expected to drain p1, got %v (ok=%v)", b.PlayerID, ok)
	}
	select {
	case _, ok := <-batchChan:
		if ok {
			t.Error("expected channel to be closed after draining")
		}
	case <-time.After(time.Second):
		t.Error("timed out waiting for channel close")
	}
}

func TestInMemoryQueue_ConcurrentProducersConsumers(t *testing.T) {
	q := NewInMemoryQueue(WithCapacity(1000))
	ctx := context.Background()

	const producers = 4
	const perProducer = 50

	var wg sync.WaitGroup
	for p := 0; p < producers; p++ {
		wg.Add(1)
		go func(p int) {
			defer wg.Done()
			for i := 0; i < perProducer; i++ {
				b := batchFor(fmt.Sprintf("p%d-%d", p, i))
				if !q.Enqueue(ctx, b) {
					t.Errorf("enqueue failed for %s", b.PlayerID)
				}
			}
		}(p)
	}
	wg.Wait()

	if err := q.Close(); err != nil {
		t.Fatalf("close failed: %v", err)
	}

	seen := make(map[string]bool)
	for b := range q.Dequeue(ctx) {
		if seen[b.PlayerID] {
			t.Errorf("batch %s delivered twice", b.PlayerID)
		}
		seen[b.PlayerID] = true
	}

	if len(seen) != producers*perProducer {
		t.Errorf("expected %d batches, got %d", producers*perProducer, len(seen))
	}
}

func TestInMemoryQueue_ContextCancellation(t *testing.T) {
	q := NewInMemoryQueue(WithCapacity(2))
	ctx, cancel := context.WithCancel(context.Background())

	batchChan := q.Dequeue(ctx)
	cancel()

	if !q.Enqueue(context.Background(), batchFor("p1")) {
		t.Error("expected enqueue to succeed")
	}
	if err := q.Close(); err != nil {
		t.Fatalf("close failed: %v", err)
	}

	// Delivery can race cancellation; either way the channel must close.
	deadline := time.After(time.Second)
	for {
		select {
		case _, ok := <-batchChan:
			if !ok {
				return
			}
		case <-deadline:
			t.Error("timed out waiting for canceled dequeue to settle")
			return
		}
	}
}

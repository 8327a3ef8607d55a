package engine

import (
	"context"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"chatloom/backend/internal/model"
)

// ChunkHandler consumes one drained chunk. Handling is synchronous and
// atomic per chunk: when Stop clears the queue there is never a chunk left
// half-applied.
type ChunkHandler func(model.PendingChunk)

// ChunkQueue decouples the arrival rate of streaming events from the rate
// the view can absorb. Enqueue never blocks the producer; when the buffer is
// full the oldest chunk is evicted (the newest chunk carries the fullest
// accumulated content, so dropping old ones loses nothing visible).
//
// At most one consumer drains at a time; re-entrant Drain calls are no-ops.
// That single-consumer rule is what guarantees strict FIFO processing.
type ChunkQueue struct {
	mu       sync.Mutex
	items    []model.PendingChunk
	capacity int
	pacing   time.Duration
	draining bool
	cancel   context.CancelFunc
}

// NewChunkQueue returns a queue holding at most capacity chunks, with the
// given inter-chunk pacing delay applied by the drain loop.
func NewChunkQueue(capacity int, pacing time.Duration) *ChunkQueue {
	if capacity <= 0 {
		capacity = 256
	}
	return &ChunkQueue{capacity: capacity, pacing: pacing}
}

// Enqueue appends a chunk, evicting the oldest buffered chunk if full.
func (q *ChunkQueue) Enqueue(chunk model.PendingChunk) {
	q.mu.Lock()
	defer q.mu.Unlock()

	if len(q.items) >= q.capacity {
		q.items = q.items[1:]
		chunksDropped.Inc()
	}
	q.items = append(q.items, chunk)
	queueDepth.Set(float64(len(q.items)))
}

// Drain starts the single consumer if one is not already running. The
// consumer pops chunks in FIFO order, hands each to handler, and paces
// itself with a rate limiter so the view is not flooded. It exits when the
// queue is empty, ctx is cancelled, or Stop is called.
func (q *ChunkQueue) Drain(ctx context.Context, handler ChunkHandler) {
	q.mu.Lock()
	if q.draining {
		q.mu.Unlock()
		return
	}
	q.draining = true
	drainCtx, cancel := context.WithCancel(ctx)
	q.cancel = cancel
	q.mu.Unlock()

	go q.drainLoop(drainCtx, handler)
}

func (q *ChunkQueue) drainLoop(ctx context.Context, handler ChunkHandler) {
	limiter := rate.NewLimiter(rate.Every(q.pacing), 1)

	for {
		q.mu.Lock()
		if ctx.Err() != nil || len(q.items) == 0 {
			// The exit check and the draining reset share one critical
			// section: an Enqueue landing after it observes draining as
			// false, so its Drain starts a fresh consumer and no chunk is
			// ever left without one.
			q.draining = false
			q.cancel = nil
			queueDepth.Set(float64(len(q.items)))
			q.mu.Unlock()
			return
		}
		chunk := q.items[0]
		q.items = q.items[1:]
		queueDepth.Set(float64(len(q.items)))
		q.mu.Unlock()

		handler(chunk)

		if err := limiter.Wait(ctx); err != nil {
			// Cancelled mid-wait; the locked check above decides the exit.
			continue
		}
	}
}

// Stop clears the buffer and halts the consumer immediately. Used when the
// user cancels streaming, switches threads, or changes modes.
func (q *ChunkQueue) Stop() {
	q.mu.Lock()
	q.items = nil
	queueDepth.Set(0)
	cancel := q.cancel
	q.mu.Unlock()

	if cancel != nil {
		cancel()
	}
}

// Len returns the number of buffered chunks.
func (q *ChunkQueue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.items)
}

// Draining reports whether the consumer is currently active.
func (q *ChunkQueue) Draining() bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.draining
}

package engine_test

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"chatloom/backend/internal/engine"
	"chatloom/backend/internal/model"
)

// collector records drained chunks in arrival order.
type collector struct {
	mu     sync.Mutex
	chunks []model.PendingChunk
}

func (c *collector) handle(chunk model.PendingChunk) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.chunks = append(c.chunks, chunk)
}

func (c *collector) ids() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]string, len(c.chunks))
	for i, ch := range c.chunks {
		out[i] = ch.MessageID
	}
	return out
}

func TestChunkQueue_DrainsInFIFOOrder(t *testing.T) {
	q := engine.NewChunkQueue(16, 0)
	var c collector

	q.Enqueue(model.PendingChunk{MessageID: "1", Content: "a"})
	q.Enqueue(model.PendingChunk{MessageID: "2", Content: "b"})
	q.Enqueue(model.PendingChunk{MessageID: "3", Content: "c"})
	q.Drain(context.Background(), c.handle)

	require.Eventually(t, func() bool {
		return q.Len() == 0 && !q.Draining()
	}, time.Second, 5*time.Millisecond)

	assert.Equal(t, []string{"1", "2", "3"}, c.ids())
}

func TestChunkQueue_DropsOldestWhenFull(t *testing.T) {
	q := engine.NewChunkQueue(2, 0)

	q.Enqueue(model.PendingChunk{MessageID: "1", Content: "a"})
	q.Enqueue(model.PendingChunk{MessageID: "2", Content: "b"})
	q.Enqueue(model.PendingChunk{MessageID: "3", Content: "c"})

	assert.Equal(t, 2, q.Len())

	var c collector
	q.Drain(context.Background(), c.handle)
	require.Eventually(t, func() bool { return !q.Draining() && q.Len() == 0 }, time.Second, 5*time.Millisecond)

	assert.Equal(t, []string{"2", "3"}, c.ids(), "the oldest chunk must be the one evicted")
}

func TestChunkQueue_ReentrantDrainIsNoop(t *testing.T) {
	// A slow handler keeps the first drain active while we try to start a
	// second one; each chunk must still be handled exactly once.
	q := engine.NewChunkQueue(16, 0)
	var c collector

	slow := func(chunk model.PendingChunk) {
		time.Sleep(10 * time.Millisecond)
		c.handle(chunk)
	}

	for i := 0; i < 5; i++ {
		q.Enqueue(model.PendingChunk{MessageID: string(rune('a' + i)), Content: "x"})
	}
	q.Drain(context.Background(), slow)
	q.Drain(context.Background(), slow)
	q.Drain(context.Background(), slow)

	require.Eventually(t, func() bool { return !q.Draining() && q.Len() == 0 }, 2*time.Second, 5*time.Millisecond)
	assert.Equal(t, []string{"a", "b", "c", "d", "e"}, c.ids())
}

func TestChunkQueue_StopClearsAndHalts(t *testing.T) {
	q := engine.NewChunkQueue(16, 50*time.Millisecond)
	var c collector

	for i := 0; i < 10; i++ {
		q.Enqueue(model.PendingChunk{MessageID: "m", Content: "x"})
	}
	q.Drain(context.Background(), c.handle)

	// Let the drain pick up at least one chunk, then cancel.
	time.Sleep(20 * time.Millisecond)
	q.Stop()

	require.Eventually(t, func() bool { return !q.Draining() }, time.Second, 5*time.Millisecond)
	assert.Zero(t, q.Len())

	c.mu.Lock()
	handled := len(c.chunks)
	c.mu.Unlock()
	assert.Less(t, handled, 10, "Stop must discard the unprocessed backlog")
}

func TestChunkQueue_EnqueueRacingDrainExitIsNeverStranded(t *testing.T) {
	// Hammers the narrow window between the consumer's empty check and its
	// shutdown: every Enqueue immediately followed by Drain must end with
	// the chunk handled, either by the still-running consumer or by a
	// freshly started one. A chunk left buffered with no consumer running
	// would keep the final accumulated content out of the view forever.
	q := engine.NewChunkQueue(1024, 0)
	var c collector

	const total = 500
	for i := 0; i < total; i++ {
		q.Enqueue(model.PendingChunk{MessageID: fmt.Sprintf("m%d", i), Content: "x"})
		q.Drain(context.Background(), c.handle)
	}

	require.Eventually(t, func() bool {
		c.mu.Lock()
		handled := len(c.chunks)
		c.mu.Unlock()
		return handled == total && q.Len() == 0 && !q.Draining()
	}, 5*time.Second, time.Millisecond)
}

func TestChunkQueue_PacingThrottlesDrain(t *testing.T) {
	q := engine.NewChunkQueue(16, 30*time.Millisecond)
	var c collector

	q.Enqueue(model.PendingChunk{MessageID: "1", Content: "a"})
	q.Enqueue(model.PendingChunk{MessageID: "2", Content: "b"})
	q.Enqueue(model.PendingChunk{MessageID: "3", Content: "c"})

	start := time.Now()
	q.Drain(context.Background(), c.handle)
	require.Eventually(t, func() bool { return !q.Draining() && q.Len() == 0 }, 2*time.Second, 5*time.Millisecond)

	// Three chunks with two inter-item gaps of 30ms.
	assert.GreaterOrEqual(t, time.Since(start), 60*time.Millisecond)
	assert.Equal(t, []string{"1", "2", "3"}, c.ids())
}

package engine

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"chatloom/backend/internal/model"
)

// UndoBuffer holds tombstones for recently deleted messages so deletion is
// reversible for a bounded window. It is a recency-ordered list, not a full
// undo stack: undo always acts on the most recent tombstone. Expiry is
// passive, done by a periodic sweep rather than one timer per entry.
type UndoBuffer struct {
	mu         sync.Mutex
	tombstones []model.Tombstone
	retention  time.Duration
}

// NewUndoBuffer returns a buffer whose tombstones expire after retention.
func NewUndoBuffer(retention time.Duration) *UndoBuffer {
	return &UndoBuffer{retention: retention}
}

// Add appends a tombstone for the message.
func (b *UndoBuffer) Add(msg model.Message, now time.Time) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.tombstones = append(b.tombstones, model.Tombstone{Message: msg, DeletedAt: now})
}

// PopLast removes and returns the most recent unexpired tombstone. Expired
// entries encountered on the way are discarded, so an undo after the
// retention window is a clean no-op even if the sweeper has not run yet.
func (b *UndoBuffer) PopLast(now time.Time) (model.Message, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()

	for i := len(b.tombstones) - 1; i >= 0; i-- {
		t := b.tombstones[i]
		b.tombstones = b.tombstones[:i]
		if now.Sub(t.DeletedAt) > b.retention {
			continue
		}
		return t.Message, true
	}
	return model.Message{}, false
}

// Sweep purges tombstones older than the retention window and returns how
// many were removed.
func (b *UndoBuffer) Sweep(now time.Time) int {
	b.mu.Lock()
	defer b.mu.Unlock()

	kept := b.tombstones[:0]
	purged := 0
	for _, t := range b.tombstones {
		if now.Sub(t.DeletedAt) > b.retention {
			purged++
			continue
		}
		kept = append(kept, t)
	}
	b.tombstones = kept
	if purged > 0 {
		tombstonesPurged.Add(float64(purged))
	}
	return purged
}

// Clear drops all tombstones, e.g. on a mode switch.
func (b *UndoBuffer) Clear() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.tombstones = nil
}

// Len returns the number of live tombstones.
func (b *UndoBuffer) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.tombstones)
}

// StartSweeper runs Sweep on the given interval until ctx is cancelled. The
// interval is configured independently of the retention window.
func (b *UndoBuffer) StartSweeper(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			if purged := b.Sweep(now); purged > 0 {
				slog.Debug("Purged expired tombstones", "count", purged)
			}
		}
	}
}

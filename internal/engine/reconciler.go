package engine

import (
	"log/slog"
	"sort"
	"strings"
	"sync"
	"time"

	"chatloom/backend/internal/model"
)

// Reconciler is the single writer of one canonical message list. Every
// mutation of the visible conversation goes through it; readers only ever
// see copies. Order is first-appearance order, except where ReplaceAll or
// SortChronological set an explicit authoritative order.
type Reconciler struct {
	mu       sync.Mutex
	messages []model.Message
}

func NewReconciler() *Reconciler {
	return &Reconciler{}
}

// MergeChunk applies a streaming chunk. If a message with the chunk's id is
// already present its content and metadata are replaced in place, keeping
// its position, role and timestamp; otherwise a new message is appended.
// Merging is a keyed replace, so applying the same chunk twice is a no-op
// after the first: duplicate delivery is harmless.
//
// Chunks with no id or blank content are dropped. A blank chunk would flash
// an empty bubble before the first token arrives, and a bad event must never
// stall the drain loop, so neither case returns an error.
func (r *Reconciler) MergeChunk(chunk model.PendingChunk) bool {
	if chunk.MessageID == "" || strings.TrimSpace(chunk.Content) == "" {
		slog.Debug("Dropping malformed or blank chunk", "message_id", chunk.MessageID)
		chunksDiscarded.Inc()
		return false
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	for i := range r.messages {
		if r.messages[i].ID == chunk.MessageID {
			r.messages[i].Content = chunk.Content
			if chunk.Metadata != nil {
				r.messages[i].Metadata = chunk.Metadata
			}
			chunksMerged.Inc()
			return true
		}
	}

	role := chunk.Role
	if role == "" {
		role = model.RoleAssistant
	}
	r.messages = append(r.messages, model.Message{
		ID:        chunk.MessageID,
		Role:      role,
		Content:   chunk.Content,
		CreatedAt: time.Now().UTC(),
		Metadata:  chunk.Metadata,
	})
	chunksMerged.Inc()
	return true
}

// MergeChunkHandler adapts MergeChunk to the queue's handler signature.
func (r *Reconciler) MergeChunkHandler() ChunkHandler {
	return func(chunk model.PendingChunk) {
		r.MergeChunk(chunk)
	}
}

// UpsertLocal inserts or replaces a locally authored message (user input,
// tool-call placeholders) with the same replace-by-id semantics as
// MergeChunk, but without the blank-content filter.
func (r *Reconciler) UpsertLocal(msg model.Message) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i := range r.messages {
		if r.messages[i].ID == msg.ID {
			r.messages[i] = msg
			return
		}
	}
	r.messages = append(r.messages, msg)
}

// ReplaceAll swaps in a wholly new list, e.g. on thread load or switch.
// There are no merge semantics; the previous view is discarded.
func (r *Reconciler) ReplaceAll(msgs []model.Message) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.messages = make([]model.Message, len(msgs))
	copy(r.messages, msgs)
}

// Remove detaches the message with the given id, returning it so the caller
// can tombstone it. The list and the undo buffer are always mutated together
// by the caller; a message is never both deleted and visible.
func (r *Reconciler) Remove(id string) (model.Message, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i := range r.messages {
		if r.messages[i].ID == id {
			msg := r.messages[i]
			r.messages = append(r.messages[:i], r.messages[i+1:]...)
			return msg, true
		}
	}
	return model.Message{}, false
}

// SortChronological re-sorts the list by CreatedAt, falling back to ID
// (ULIDs sort by creation time) for ties or missing timestamps. Used after
// an undo so the restored message lands back in its original relative
// position instead of at the end.
func (r *Reconciler) SortChronological() {
	r.mu.Lock()
	defer r.mu.Unlock()

	sort.SliceStable(r.messages, func(i, j int) bool {
		a, b := r.messages[i], r.messages[j]
		if !a.CreatedAt.Equal(b.CreatedAt) {
			return a.CreatedAt.Before(b.CreatedAt)
		}
		return a.ID < b.ID
	})
}

// Messages returns a defensive copy of the canonical list.
func (r *Reconciler) Messages() []model.Message {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]model.Message, len(r.messages))
	copy(out, r.messages)
	return out
}

// Len returns the number of visible messages.
func (r *Reconciler) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.messages)
}

package engine_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"chatloom/backend/internal/engine"
	"chatloom/backend/internal/model"
)

func TestReconciler_MergeChunk_AppendsThenReplaces(t *testing.T) {
	r := engine.NewReconciler()

	applied := r.MergeChunk(model.PendingChunk{MessageID: "m1", Role: model.RoleAssistant, Content: "Hel"})
	require.True(t, applied)

	msgs := r.Messages()
	require.Len(t, msgs, 1)
	assert.Equal(t, "Hel", msgs[0].Content)
	assert.Equal(t, model.RoleAssistant, msgs[0].Role)

	applied = r.MergeChunk(model.PendingChunk{MessageID: "m1", Content: "Hello there"})
	require.True(t, applied)

	msgs = r.Messages()
	require.Len(t, msgs, 1, "a second chunk for the same id must replace, not append")
	assert.Equal(t, "Hello there", msgs[0].Content)
}

func TestReconciler_MergeChunk_IsIdempotent(t *testing.T) {
	r := engine.NewReconciler()
	chunk := model.PendingChunk{MessageID: "m1", Role: model.RoleAssistant, Content: "hello"}

	r.MergeChunk(chunk)
	once := r.Messages()

	r.MergeChunk(chunk)
	twice := r.Messages()

	assert.Equal(t, once, twice)
}

func TestReconciler_MergeChunk_PreservesPosition(t *testing.T) {
	r := engine.NewReconciler()
	r.MergeChunk(model.PendingChunk{MessageID: "m1", Content: "first"})
	r.MergeChunk(model.PendingChunk{MessageID: "m2", Content: "second"})
	r.MergeChunk(model.PendingChunk{MessageID: "m3", Content: "third"})

	// A later chunk for an existing id must not move it.
	r.MergeChunk(model.PendingChunk{MessageID: "m1", Content: "first, updated"})

	msgs := r.Messages()
	require.Len(t, msgs, 3)
	assert.Equal(t, []string{"m1", "m2", "m3"}, []string{msgs[0].ID, msgs[1].ID, msgs[2].ID})
	assert.Equal(t, "first, updated", msgs[0].Content)
}

func TestReconciler_MergeChunk_DropsMalformed(t *testing.T) {
	r := engine.NewReconciler()

	assert.False(t, r.MergeChunk(model.PendingChunk{MessageID: "", Content: "orphan"}))
	assert.False(t, r.MergeChunk(model.PendingChunk{MessageID: "m1", Content: ""}))
	assert.False(t, r.MergeChunk(model.PendingChunk{MessageID: "m1", Content: "   "}))
	assert.Zero(t, r.Len())
}

func TestReconciler_UpsertLocal(t *testing.T) {
	r := engine.NewReconciler()

	msg := model.Message{ID: "u1", Role: model.RoleHuman, Content: "hi"}
	r.UpsertLocal(msg)
	r.UpsertLocal(model.Message{ID: "u1", Role: model.RoleHuman, Content: "hi (edited)"})

	msgs := r.Messages()
	require.Len(t, msgs, 1)
	assert.Equal(t, "hi (edited)", msgs[0].Content)

	// Unlike chunks, local upserts may carry empty content (placeholders).
	r.UpsertLocal(model.Message{ID: "tool1", Role: model.RoleTool})
	assert.Equal(t, 2, r.Len())
}

func TestReconciler_ReplaceAll(t *testing.T) {
	r := engine.NewReconciler()
	r.MergeChunk(model.PendingChunk{MessageID: "old", Content: "stale"})

	fresh := []model.Message{
		{ID: "a", Role: model.RoleHuman, Content: "1"},
		{ID: "b", Role: model.RoleAssistant, Content: "2"},
	}
	r.ReplaceAll(fresh)

	msgs := r.Messages()
	require.Len(t, msgs, 2)
	assert.Equal(t, "a", msgs[0].ID)
	assert.Equal(t, "b", msgs[1].ID)
}

func TestReconciler_RemoveAndSortChronological(t *testing.T) {
	r := engine.NewReconciler()
	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	r.ReplaceAll([]model.Message{
		{ID: "a", Content: "1", CreatedAt: base},
		{ID: "b", Content: "2", CreatedAt: base.Add(time.Second)},
		{ID: "c", Content: "3", CreatedAt: base.Add(2 * time.Second)},
	})

	removed, ok := r.Remove("b")
	require.True(t, ok)
	assert.Equal(t, "2", removed.Content)
	assert.Equal(t, 2, r.Len())

	_, ok = r.Remove("nope")
	assert.False(t, ok)

	// Restoring at the end and re-sorting puts it back in the middle.
	r.UpsertLocal(removed)
	r.SortChronological()

	msgs := r.Messages()
	require.Len(t, msgs, 3)
	assert.Equal(t, []string{"a", "b", "c"}, []string{msgs[0].ID, msgs[1].ID, msgs[2].ID})
}

func TestReconciler_SortChronological_FallsBackToID(t *testing.T) {
	r := engine.NewReconciler()
	ts := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	// ULIDs sort lexicographically by creation time, so equal timestamps
	// resolve by id.
	r.ReplaceAll([]model.Message{
		{ID: "01J2", CreatedAt: ts},
		{ID: "01J1", CreatedAt: ts},
	})

	r.SortChronological()
	msgs := r.Messages()
	assert.Equal(t, "01J1", msgs[0].ID)
	assert.Equal(t, "01J2", msgs[1].ID)
}

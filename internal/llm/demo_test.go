package llm

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDemoBackend_GenerateStream(t *testing.T) {
	ctx := context.Background()
	backend := NewDemoBackend(0)

	ch := make(chan Delta, 64)
	err := backend.GenerateStream(ctx, &GenerateRequest{ThreadID: "thread-1"}, ch)
	require.NoError(t, err)

	deltas, full := collectDeltas(ch)
	require.NotEmpty(t, deltas)
	assert.True(t, deltas[len(deltas)-1].Done)
	assert.NotEmpty(t, full)

	// Replies cycle, so consecutive runs differ.
	ch2 := make(chan Delta, 64)
	require.NoError(t, backend.GenerateStream(ctx, &GenerateRequest{ThreadID: "thread-1"}, ch2))
	_, full2 := collectDeltas(ch2)
	assert.NotEqual(t, full, full2)
}

func TestDemoBackend_GenerateStream_Cancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	backend := NewDemoBackend(0)
	ch := make(chan Delta) // unbuffered, so the first send must observe ctx
	err := backend.GenerateStream(ctx, &GenerateRequest{ThreadID: "thread-1"}, ch)
	assert.ErrorIs(t, err, context.Canceled)
}

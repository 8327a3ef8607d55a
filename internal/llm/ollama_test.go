package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// collectDeltas drains ch into a slice and joins the content so tests can
// assert on the full reply.
func collectDeltas(ch <-chan Delta) ([]Delta, string) {
	var deltas []Delta
	var full strings.Builder
	for d := range ch {
		deltas = append(deltas, d)
		full.WriteString(d.Content)
	}
	return deltas, full.String()
}

func TestOllamaBackend_GenerateStream(t *testing.T) {
	ctx := context.Background()

	t.Run("Success - parses a line-delimited stream", func(t *testing.T) {
		var capturedPath string
		var capturedBody ollamaChatRequest

		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			capturedPath = r.URL.Path
			require.NoError(t, json.NewDecoder(r.Body).Decode(&capturedBody))

			w.Header().Set("Content-Type", "application/x-ndjson")
			_, _ = w.Write([]byte(`{"message":{"role":"assistant","content":"Hel"},"done":false}` + "\n"))
			_, _ = w.Write([]byte("\n"))                // blank keep-alive line
			_, _ = w.Write([]byte("not json at all\n")) // a single bad event must not kill the stream
			_, _ = w.Write([]byte(`{"message":{"role":"assistant","content":"lo!"},"done":false}` + "\n"))
			_, _ = w.Write([]byte(`{"message":{"role":"assistant","content":""},"done":true}` + "\n"))
		}))
		defer server.Close()

		backend := NewOllamaBackend(server.URL)
		ch := make(chan Delta, 8)
		err := backend.GenerateStream(ctx, &GenerateRequest{
			Model:    "test-model",
			Messages: []HistoryMessage{{Role: "user", Content: "Hi"}},
		}, ch)
		require.NoError(t, err)

		deltas, full := collectDeltas(ch)
		assert.Equal(t, "/api/chat", capturedPath)
		assert.Equal(t, "test-model", capturedBody.Model)
		assert.True(t, capturedBody.Stream)
		assert.Equal(t, "Hello!", full)
		require.NotEmpty(t, deltas)
		assert.True(t, deltas[len(deltas)-1].Done)
	})

	t.Run("Failure - non-200 response", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "model not found", http.StatusNotFound)
		}))
		defer server.Close()

		backend := NewOllamaBackend(server.URL)
		ch := make(chan Delta, 1)
		err := backend.GenerateStream(ctx, &GenerateRequest{Model: "missing"}, ch)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "non-200")

		deltas, _ := collectDeltas(ch)
		assert.Empty(t, deltas, "the channel is closed without events on a failed request")
	})

	t.Run("Failure - in-band error event ends the stream", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{"error":"model exploded"}` + "\n"))
		}))
		defer server.Close()

		backend := NewOllamaBackend(server.URL)
		ch := make(chan Delta, 2)
		err := backend.GenerateStream(ctx, &GenerateRequest{Model: "test-model"}, ch)
		require.NoError(t, err)

		deltas, _ := collectDeltas(ch)
		require.Len(t, deltas, 1)
		assert.Equal(t, "model exploded", deltas[0].Error)
	})

	t.Run("Failure - cancellation surfaces as context error", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{"message":{"content":"partial"},"done":false}` + "\n"))
			if f, ok := w.(http.Flusher); ok {
				f.Flush()
			}
			cancel()
			<-r.Context().Done()
		}))
		defer server.Close()

		backend := NewOllamaBackend(server.URL)
		ch := make(chan Delta, 4)
		err := backend.GenerateStream(ctx, &GenerateRequest{Model: "test-model"}, ch)
		assert.ErrorIs(t, err, context.Canceled)
	})
}

package llm

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
)

// ollamaBackend streams generations from an Ollama server. Sessions are kept
// in-process: Ollama itself has no conversation state, so the registry is
// the ephemeral side of the dual-source model.
type ollamaBackend struct {
	*sessionRegistry
	client *http.Client
	url    string
}

// NewOllamaBackend returns a Backend talking to the Ollama HTTP API at url.
func NewOllamaBackend(url string) Backend {
	return &ollamaBackend{
		sessionRegistry: newSessionRegistry(),
		client:          &http.Client{},
		url:             url,
	}
}

type ollamaChatRequest struct {
	Model    string           `json:"model"`
	Messages []HistoryMessage `json:"messages"`
	Stream   bool             `json:"stream"`
}

type ollamaChatResponse struct {
	Message struct {
		Role    string `json:"role"`
		Content string `json:"content"`
	} `json:"message"`
	Done  bool   `json:"done"`
	Error string `json:"error,omitempty"`
}

func (b *ollamaBackend) GenerateStream(ctx context.Context, req *GenerateRequest, ch chan<- Delta) error {
	defer close(ch)

	body, err := json.Marshal(ollamaChatRequest{
		Model:    req.Model,
		Messages: req.Messages,
		Stream:   true,
	})
	if err != nil {
		return fmt.Errorf("could not marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, b.url+"/api/chat", bytes.NewBuffer(body))
	if err != nil {
		return fmt.Errorf("could not create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := b.client.Do(httpReq)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		bodyBytes, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("api returned non-200 status %d: %s", resp.StatusCode, string(bodyBytes))
	}

	scanner := bufio.NewScanner(resp.Body)
	// Individual events are small, but allow for long lines just in case.
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	for scanner.Scan() {
		line := scanner.Bytes()
		if len(bytes.TrimSpace(line)) == 0 {
			continue
		}

		var event ollamaChatResponse
		if err := json.Unmarshal(line, &event); err != nil {
			// A single undecodable event must not kill the stream.
			continue
		}

		delta := Delta{Content: event.Message.Content, Done: event.Done, Error: event.Error}
		select {
		case ch <- delta:
		case <-ctx.Done():
			return ctx.Err()
		}

		if event.Done || event.Error != "" {
			return nil
		}
	}
	if err := scanner.Err(); err != nil {
		// Cancellation surfaces as a read error on the response body.
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return fmt.Errorf("stream read failed: %w", err)
	}
	return nil
}
